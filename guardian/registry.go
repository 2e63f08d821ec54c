package guardian

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// GuardianNode is a known guardian identity on one network.
type GuardianNode struct {
	NodeID    string
	Network   Network
	Scheme    Scheme
	PublicKey []byte
}

// PublicKeyHex returns the key material as lowercase hex.
func (n GuardianNode) PublicKeyHex() string {
	return hex.EncodeToString(n.PublicKey)
}

// Registry is an immutable set of guardian nodes for one network.
type Registry struct {
	network Network
	nodes   map[string]GuardianNode
}

// NewRegistry validates nodes and builds a Registry for network.
func NewRegistry(network Network, nodes ...GuardianNode) (*Registry, error) {
	if !network.Valid() {
		return nil, fmt.Errorf("registry: unknown network %q", network)
	}

	r := &Registry{network: network, nodes: make(map[string]GuardianNode, len(nodes))}
	for _, n := range nodes {
		if n.NodeID == "" {
			return nil, fmt.Errorf("registry: empty node id")
		}
		if n.Network != network {
			return nil, fmt.Errorf("registry: node %s belongs to %s, not %s", n.NodeID, n.Network, network)
		}
		if _, dup := r.nodes[n.NodeID]; dup {
			return nil, fmt.Errorf("registry: duplicate node %s", n.NodeID)
		}
		if err := checkPublicKey(n.Scheme, n.PublicKey); err != nil {
			return nil, fmt.Errorf("registry: node %s: %w", n.NodeID, err)
		}

		n.PublicKey = append([]byte(nil), n.PublicKey...)
		r.nodes[n.NodeID] = n
	}

	return r, nil
}

// Network returns the network this registry serves.
func (r *Registry) Network() Network {
	return r.network
}

// Len returns the number of guardians.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Resolve returns the guardian registered under nodeID.
func (r *Registry) Resolve(nodeID string) (GuardianNode, error) {
	n, ok := r.nodes[nodeID]
	if !ok {
		return GuardianNode{}, fmt.Errorf("%s: %w", nodeID, ErrUnknownGuardian)
	}
	return n, nil
}

// Nodes returns a copy of the guardians sorted by node id.
func (r *Registry) Nodes() []GuardianNode {
	out := make([]GuardianNode, 0, len(r.nodes))
	for _, n := range r.nodes {
		n.PublicKey = append([]byte(nil), n.PublicKey...)
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}

const registryFileSchema = `{
  "type": "object",
  "required": ["network", "nodes"],
  "properties": {
    "network": {"type": "string", "enum": ["testnet", "mainnet"]},
    "nodes": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["nodeId", "scheme", "publicKey"],
        "properties": {
          "nodeId": {"type": "string", "minLength": 1},
          "scheme": {"type": "string", "enum": ["ecdsa-p256", "ecdsa-secp256k1", "ed25519", "bls12-381"]},
          "publicKey": {"type": "string", "pattern": "^(0x)?[0-9a-fA-F]+$"}
        }
      }
    }
  }
}`

type registryFile struct {
	Network string `json:"network"`
	Nodes   []struct {
		NodeID    string `json:"nodeId"`
		Scheme    string `json:"scheme"`
		PublicKey string `json:"publicKey"`
	} `json:"nodes"`
}

// LoadRegistryFile reads a pinned guardian set from a JSON file:
//
//	{"network": "mainnet", "nodes": [{"nodeId": "field-node", "scheme": "ecdsa-p256", "publicKey": "04..."}]}
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry is LoadRegistryFile for in-memory data.
func ParseRegistry(data []byte) (*Registry, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(registryFileSchema))
	if err != nil {
		return nil, fmt.Errorf("compile registry schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("registry file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("registry file: %s", strings.Join(msgs, "; "))
	}

	var raw registryFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode registry file: %w", err)
	}

	network := Network(raw.Network)
	nodes := make([]GuardianNode, 0, len(raw.Nodes))
	for _, n := range raw.Nodes {
		scheme, err := ParseScheme(n.Scheme)
		if err != nil {
			return nil, err
		}
		key, err := hex.DecodeString(strings.TrimPrefix(n.PublicKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("registry file: node %s: %w", n.NodeID, err)
		}
		nodes = append(nodes, GuardianNode{NodeID: n.NodeID, Network: network, Scheme: scheme, PublicKey: key})
	}

	return NewRegistry(network, nodes...)
}
