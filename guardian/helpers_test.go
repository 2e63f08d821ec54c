package guardian

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	blst "github.com/supranational/blst/bindings/go"
)

// testSigner is a throwaway guardian identity for one scheme.
type testSigner struct {
	id     string
	scheme Scheme
	pub    []byte
	sign   func(msg []byte) []byte
}

func (s testSigner) node(network Network) GuardianNode {
	return GuardianNode{NodeID: s.id, Network: network, Scheme: s.scheme, PublicKey: s.pub}
}

func newP256Signer(t *testing.T, id string) testSigner {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	return testSigner{
		id:     id,
		scheme: SchemeECDSAP256,
		pub:    elliptic.Marshal(elliptic.P256(), key.X, key.Y),
		sign: func(msg []byte) []byte {
			digest := sha256.Sum256(msg)
			r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
			if err != nil {
				t.Fatal(err)
			}
			out := make([]byte, 64)
			r.FillBytes(out[:32])
			s.FillBytes(out[32:])
			return out
		},
	}
}

func newSecp256k1Signer(t *testing.T, id string) testSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	return testSigner{
		id:     id,
		scheme: SchemeECDSASecp256k1,
		pub:    crypto.FromECDSAPub(&key.PublicKey),
		sign: func(msg []byte) []byte {
			digest := sha256.Sum256(msg)
			sig, err := crypto.Sign(digest[:], key)
			if err != nil {
				t.Fatal(err)
			}
			return sig
		},
	}
}

func newEd25519Signer(t *testing.T, id string) testSigner {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	return testSigner{
		id:     id,
		scheme: SchemeEd25519,
		pub:    pub,
		sign:   func(msg []byte) []byte { return ed25519.Sign(priv, msg) },
	}
}

func newBLSSigner(t *testing.T, id string) testSigner {
	t.Helper()
	var ikm [32]byte
	if _, err := rand.Read(ikm[:]); err != nil {
		t.Fatal(err)
	}

	sk := blst.KeyGen(ikm[:])
	if sk == nil {
		t.Fatal("blst.KeyGen returned nil")
	}

	return testSigner{
		id:     id,
		scheme: SchemeBLS12381,
		pub:    new(blst.P1Affine).From(sk).Compress(),
		sign: func(msg []byte) []byte {
			return new(blst.P2Affine).Sign(sk, msg, blsDST).Compress()
		},
	}
}

func registryOf(t *testing.T, network Network, signers ...testSigner) *Registry {
	t.Helper()
	nodes := make([]GuardianNode, 0, len(signers))
	for _, s := range signers {
		nodes = append(nodes, s.node(network))
	}
	r, err := NewRegistry(network, nodes...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func signAll(t *testing.T, p AddressProposal, signers ...testSigner) SignatureSet {
	t.Helper()
	msg, err := Canonicalize(p)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}

	sigs := make(SignatureSet, len(signers))
	for _, s := range signers {
		sigs[s.id] = base64.StdEncoding.EncodeToString(s.sign(msg.Bytes()))
	}
	return sigs
}

func btcProposal() AddressProposal {
	return AddressProposal{
		SourceChain:        "bitcoin",
		DestinationChain:   "hyperliquid",
		Asset:              "btc",
		DestinationAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		GeneratedAddress:   "bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0",
		CoinType:           "bitcoin",
	}
}

func hasError(errs []string, want string) bool {
	for _, e := range errs {
		if e == want {
			return true
		}
	}
	return false
}
