package guardian

import (
	"bytes"
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
)

func TestDecodeSignature(t *testing.T) {
	raw := []byte{0xde, 0xad, 0xbe, 0xef, 0x01}

	tests := []struct {
		name  string
		input string
		want  []byte
		ok    bool
	}{
		{"base64 padded", base64.StdEncoding.EncodeToString(raw), raw, true},
		{"base64 raw", base64.RawStdEncoding.EncodeToString(raw), raw, true},
		{"hex", "0x" + hex.EncodeToString(raw), raw, true},
		{"hex upper prefix", "0X" + hex.EncodeToString(raw), raw, true},
		{"surrounding space", " " + base64.StdEncoding.EncodeToString(raw) + "\n", raw, true},
		{"bad hex", "0xzz", nil, false},
		{"bad base64", "!!!", nil, false},
		{"empty", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSignature(tt.input)
			if !tt.ok {
				if !errors.Is(err, ErrMalformedSignature) {
					t.Fatalf("err = %v, want ErrMalformedSignature", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSignature: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %x, want %x", got, tt.want)
			}
		})
	}
}

func TestSchemeSignVerify(t *testing.T) {
	msg := []byte("0xabc-hyperliquid-sol-So11111111111111111111111111111111111111112-solana-deposit")
	other := []byte("0xabd-hyperliquid-sol-So11111111111111111111111111111111111111112-solana-deposit")

	signers := []testSigner{
		newP256Signer(t, "p256"),
		newSecp256k1Signer(t, "k1"),
		newEd25519Signer(t, "ed"),
		newBLSSigner(t, "bls"),
	}

	for _, s := range signers {
		t.Run(s.scheme.String(), func(t *testing.T) {
			sig := s.sign(msg)
			if err := verifySignature(s.scheme, s.pub, msg, sig); err != nil {
				t.Fatalf("valid signature rejected: %v", err)
			}
			if err := verifySignature(s.scheme, s.pub, other, sig); !errors.Is(err, ErrSignatureMismatch) {
				t.Errorf("other message: err = %v", err)
			}
			if err := verifySignature(s.scheme, s.pub, msg, sig[:len(sig)-2]); !errors.Is(err, ErrMalformedSignature) {
				t.Errorf("truncated signature: err = %v", err)
			}
		})
	}
}

func TestSchemeCrossKey(t *testing.T) {
	msg := []byte("message")

	a := newBLSSigner(t, "a")
	b := newBLSSigner(t, "b")
	if err := verifySignature(SchemeBLS12381, b.pub, msg, a.sign(msg)); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("bls cross key: err = %v", err)
	}

	c := newEd25519Signer(t, "c")
	d := newEd25519Signer(t, "d")
	if err := verifySignature(SchemeEd25519, d.pub, msg, c.sign(msg)); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("ed25519 cross key: err = %v", err)
	}
}

func TestSecp256k1Encodings(t *testing.T) {
	s := newSecp256k1Signer(t, "k1")
	msg := []byte("encode me")

	sig := s.sign(msg)
	if len(sig) != 65 {
		t.Fatalf("signature length = %d", len(sig))
	}

	if err := verifySignature(SchemeECDSASecp256k1, s.pub, msg, sig); err != nil {
		t.Errorf("65-byte r||s||v: %v", err)
	}
	if err := verifySignature(SchemeECDSASecp256k1, s.pub, msg, sig[:64]); err != nil {
		t.Errorf("64-byte r||s: %v", err)
	}

	der, err := asn1.Marshal(struct{ R, S *big.Int }{
		new(big.Int).SetBytes(sig[:32]),
		new(big.Int).SetBytes(sig[32:64]),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := verifySignature(SchemeECDSASecp256k1, s.pub, msg, der); err != nil {
		t.Errorf("DER: %v", err)
	}

	// 65 bytes is not a valid P-256 raw length.
	p := newP256Signer(t, "p")
	if err := verifySignature(SchemeECDSAP256, p.pub, msg, append(p.sign(msg), 0x1b)); !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("65-byte P-256: err = %v", err)
	}
}

func TestSecp256k1RejectsHighS(t *testing.T) {
	s := newSecp256k1Signer(t, "k1")
	msg := []byte("malleable")
	sig := s.sign(msg)

	n, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	highS := new(big.Int).Sub(n, new(big.Int).SetBytes(sig[32:64]))

	malleated := make([]byte, 64)
	copy(malleated, sig[:32])
	highS.FillBytes(malleated[32:])

	if err := verifySignature(SchemeECDSASecp256k1, s.pub, msg, malleated); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("high-S signature: err = %v", err)
	}
}

func TestDERRejectsOversizedIntegers(t *testing.T) {
	p := newP256Signer(t, "p")
	big257 := new(big.Int).Lsh(big.NewInt(1), 300)

	der, err := asn1.Marshal(struct{ R, S *big.Int }{big257, big.NewInt(1)})
	if err != nil {
		t.Fatal(err)
	}

	if err := verifySignature(SchemeECDSAP256, p.pub, []byte("m"), der); !errors.Is(err, ErrMalformedSignature) {
		t.Fatalf("err = %v, want ErrMalformedSignature", err)
	}
}

func TestUnsupportedScheme(t *testing.T) {
	if err := verifySignature(SchemeUnknown, []byte{1}, []byte("m"), []byte{1}); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("unknown scheme: err = %v", err)
	}

	// Registry metadata that does not match the key type is reported per node.
	p := newP256Signer(t, "p")
	err := verifySignature(SchemeEd25519, p.pub, []byte("m"), make([]byte, 64))
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("key/scheme mismatch: err = %v", err)
	}
	if kind := classify(err); kind != FailureUnsupportedScheme {
		t.Errorf("classify = %v", kind)
	}
}
