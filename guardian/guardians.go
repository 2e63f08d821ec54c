package guardian

import "encoding/hex"

// Well-known guardian node ids.
const (
	FieldNode         = "field-node"
	HyperliquidNode   = "hl-node"
	HyperliquidNodeTN = "hl-node-testnet"
	UnitNode          = "unit-node"

	// Node1 signs some testnet responses. Its key is not compiled in; pin
	// it with a registry file (LoadRegistryFile) to count it toward quorum.
	Node1 = "node-1"
)

// Published guardian keys, SEC1 uncompressed P-256 points.
var (
	mainnetKeys = map[string]string{
		UnitNode:        "04dc6f89f921dc816aa69b687be1fcc3cc1d48912629abc2c9964e807422e1047e0435cb5ba0fa53cb9a57a9c610b4e872a0a2caedda78c4f85ebafcca93524061",
		HyperliquidNode: "048633ea6ab7e40cdacf37d1340057e84bb9810de0687af78d031e9b07b65ad4ab379180ab55075f5c2ebb96dab30d2c2fab49d5635845327b6a3c27d20ba4755b",
		FieldNode:       "04ae2ab20787f816ea5d13f36c4c4f7e196e29e867086f3ce818abb73077a237f841b33ada5be71b83f4af29f333dedc5411ca4016bd52ab657db2896ef374ce99",
	}

	testnetKeys = map[string]string{
		HyperliquidNodeTN: "04502d20a0d8d8aaea9395eb46d50ad2d8278c1b3a3bcdc200d531253612be23f5f2e9709bf3a3a50d1447281fa81aca0bf2ac2a6a3cb8a12978381d73c24bb2d9",
		FieldNode:         "04bab844e8620c4a1ec304df6284cd6fdffcde79b3330a7bffb1e4cecfee72d02a7c1f3a4415b253dc8d6ca2146db170e1617605cc8a4160f539890b8a24712152",
	}
)

var (
	mainnetRegistry = mustBuiltinRegistry(Mainnet, mainnetKeys)
	testnetRegistry = mustBuiltinRegistry(Testnet, testnetKeys)
)

// MainnetRegistry returns the compiled-in mainnet guardian set.
func MainnetRegistry() *Registry { return mainnetRegistry }

// TestnetRegistry returns the compiled-in testnet guardian set.
func TestnetRegistry() *Registry { return testnetRegistry }

// RegistryFor returns the compiled-in registry for network, or nil.
func RegistryFor(network Network) *Registry {
	switch network {
	case Mainnet:
		return mainnetRegistry
	case Testnet:
		return testnetRegistry
	}
	return nil
}

// MainnetGuardianNodes lists the mainnet guardians.
func MainnetGuardianNodes() []GuardianNode { return mainnetRegistry.Nodes() }

// TestnetGuardianNodes lists the testnet guardians.
func TestnetGuardianNodes() []GuardianNode { return testnetRegistry.Nodes() }

func mustBuiltinRegistry(network Network, keys map[string]string) *Registry {
	nodes := make([]GuardianNode, 0, len(keys))
	for id, h := range keys {
		key, err := hex.DecodeString(h)
		if err != nil {
			panic("guardian: bad compiled-in key for " + id + ": " + err.Error())
		}
		nodes = append(nodes, GuardianNode{NodeID: id, Network: network, Scheme: SchemeECDSAP256, PublicKey: key})
	}

	r, err := NewRegistry(network, nodes...)
	if err != nil {
		panic("guardian: " + err.Error())
	}
	return r
}
