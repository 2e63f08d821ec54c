package guardian

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	blst "github.com/supranational/blst/bindings/go"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Scheme is the signature scheme a guardian signs with. It is declared per
// node in the registry and selects the verifier.
type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeECDSAP256
	SchemeECDSASecp256k1
	SchemeEd25519
	SchemeBLS12381
)

const (
	ecdsaRawSignatureSize     = 64
	ecdsaRecoverableSigSize   = 65
	blsPublicKeySize          = 48
	blsSignatureSize          = 96
	secp256k1UncompressedSize = 65
)

// blsDST is the domain separation tag for min-pk BLS signatures.
var blsDST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")

var schemeNames = map[Scheme]string{
	SchemeECDSAP256:      "ecdsa-p256",
	SchemeECDSASecp256k1: "ecdsa-secp256k1",
	SchemeEd25519:        "ed25519",
	SchemeBLS12381:       "bls12-381",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// ParseScheme maps a scheme name back to its Scheme.
func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if n == name {
			return s, nil
		}
	}
	return SchemeUnknown, fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
}

// checkPublicKey reports whether key is usable key material for scheme.
func checkPublicKey(scheme Scheme, key []byte) error {
	switch scheme {
	case SchemeECDSAP256:
		_, err := parseP256Key(key)
		return err
	case SchemeECDSASecp256k1:
		_, err := parseSecp256k1Key(key)
		return err
	case SchemeEd25519:
		if len(key) != ed25519.PublicKeySize {
			return fmt.Errorf("ed25519 key is %d bytes, want %d", len(key), ed25519.PublicKeySize)
		}
		return nil
	case SchemeBLS12381:
		if len(key) != blsPublicKeySize || new(blst.P1Affine).Uncompress(key) == nil {
			return fmt.Errorf("invalid bls12-381 public key")
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
}

// verifySignature checks sig over msg under key. Failures wrap one of
// ErrUnsupportedScheme, ErrMalformedSignature or ErrSignatureMismatch.
func verifySignature(scheme Scheme, key, msg, sig []byte) error {
	switch scheme {
	case SchemeECDSAP256:
		return verifyP256(key, msg, sig)
	case SchemeECDSASecp256k1:
		return verifySecp256k1(key, msg, sig)
	case SchemeEd25519:
		return verifyEd25519(key, msg, sig)
	case SchemeBLS12381:
		return verifyBLS(key, msg, sig)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
}

func verifyP256(key, msg, sig []byte) error {
	pub, err := parseP256Key(key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}

	r, s, err := parseECDSASignature(sig, false)
	if err != nil {
		return err
	}

	digest := sha256.Sum256(msg)
	if !ecdsa.Verify(pub, digest[:], r, s) {
		return ErrSignatureMismatch
	}
	return nil
}

func verifySecp256k1(key, msg, sig []byte) error {
	if _, err := parseSecp256k1Key(key); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
	}

	r, s, err := parseECDSASignature(sig, true)
	if err != nil {
		return err
	}

	// go-ethereum wants 64-byte r||s and rejects high-S values.
	compact := make([]byte, ecdsaRawSignatureSize)
	r.FillBytes(compact[:32])
	s.FillBytes(compact[32:])

	digest := sha256.Sum256(msg)
	if !crypto.VerifySignature(key, digest[:], compact) {
		return ErrSignatureMismatch
	}
	return nil
}

func verifyEd25519(key, msg, sig []byte) error {
	if len(key) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: ed25519 key is %d bytes", ErrUnsupportedScheme, len(key))
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: ed25519 signature is %d bytes, want %d", ErrMalformedSignature, len(sig), ed25519.SignatureSize)
	}
	if !ed25519.Verify(ed25519.PublicKey(key), msg, sig) {
		return ErrSignatureMismatch
	}
	return nil
}

func verifyBLS(key, msg, sig []byte) error {
	if len(key) != blsPublicKeySize {
		return fmt.Errorf("%w: bls key is %d bytes", ErrUnsupportedScheme, len(key))
	}
	pk := new(blst.P1Affine).Uncompress(key)
	if pk == nil {
		return fmt.Errorf("%w: invalid bls public key", ErrUnsupportedScheme)
	}

	if len(sig) != blsSignatureSize {
		return fmt.Errorf("%w: bls signature is %d bytes, want %d", ErrMalformedSignature, len(sig), blsSignatureSize)
	}
	point := new(blst.P2Affine).Uncompress(sig)
	if point == nil {
		return fmt.Errorf("%w: bls signature is not a curve point", ErrMalformedSignature)
	}

	if !point.Verify(true, pk, true, msg, blsDST) {
		return ErrSignatureMismatch
	}
	return nil
}

// parseP256Key accepts SEC1 uncompressed (65 bytes) or compressed (33 bytes) points.
func parseP256Key(key []byte) (*ecdsa.PublicKey, error) {
	curve := elliptic.P256()

	var x, y *big.Int
	switch len(key) {
	case 65:
		x, y = elliptic.Unmarshal(curve, key)
	case 33:
		x, y = elliptic.UnmarshalCompressed(curve, key)
	default:
		return nil, fmt.Errorf("p-256 key is %d bytes, want 65 or 33", len(key))
	}
	if x == nil {
		return nil, fmt.Errorf("p-256 key is not a point on the curve")
	}

	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func parseSecp256k1Key(key []byte) (*ecdsa.PublicKey, error) {
	if len(key) == secp256k1UncompressedSize {
		return crypto.UnmarshalPubkey(key)
	}
	return crypto.DecompressPubkey(key)
}

// parseECDSASignature splits an ECDSA signature into r and s. It accepts the
// raw r||s form produced by WebCrypto and ASN.1 DER. When recoverable is set
// a trailing recovery byte (65-byte form) is tolerated and ignored.
func parseECDSASignature(sig []byte, recoverable bool) (*big.Int, *big.Int, error) {
	switch {
	case len(sig) == ecdsaRawSignatureSize:
		return new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:]), nil
	case recoverable && len(sig) == ecdsaRecoverableSigSize:
		return new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64]), nil
	case len(sig) > 0 && sig[0] == 0x30:
		return parseDERSignature(sig)
	}
	return nil, nil, fmt.Errorf("%w: ecdsa signature is %d bytes", ErrMalformedSignature, len(sig))
}

func parseDERSignature(sig []byte) (*big.Int, *big.Int, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)

	input := cryptobyte.String(sig)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, fmt.Errorf("%w: invalid DER encoding", ErrMalformedSignature)
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, nil, fmt.Errorf("%w: non-positive DER integer", ErrMalformedSignature)
	}
	if r.BitLen() > 256 || s.BitLen() > 256 {
		return nil, nil, fmt.Errorf("%w: DER integer wider than 256 bits", ErrMalformedSignature)
	}

	return r, s, nil
}
