package guardian

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"hyperunit-sdk/chains"
)

const (
	fieldDelimiter = "-"
	depositAction  = "deposit"
)

// AddressProposal is the tuple guardians attest to for a generated deposit address.
type AddressProposal struct {
	SourceChain        string `json:"sourceChain"`
	DestinationChain   string `json:"destinationChain"`
	Asset              string `json:"asset"`
	DestinationAddress string `json:"destinationAddress"`
	GeneratedAddress   string `json:"address"`
	CoinType           string `json:"coinType"`
}

// CanonicalMessage is the exact byte string guardians sign for a proposal.
type CanonicalMessage struct {
	b []byte
}

// Bytes returns a copy of the message bytes.
func (m CanonicalMessage) Bytes() []byte {
	return append([]byte(nil), m.b...)
}

func (m CanonicalMessage) String() string {
	return string(m.b)
}

// Fingerprint is a short BLAKE3 digest of the message for log correlation.
func (m CanonicalMessage) Fingerprint() string {
	sum := blake3.Sum256(m.b)
	return hex.EncodeToString(sum[:8])
}

// Canonicalize serializes p as
//
//	<destinationAddress>-<destinationChain>-<asset>-<generatedAddress>-<sourceChain>-deposit
//
// Field values are used verbatim. CoinType is not part of the signed bytes;
// when set it must agree with the coin type derived from Asset.
func Canonicalize(p AddressProposal) (CanonicalMessage, error) {
	fields := []struct {
		name, value string
	}{
		{"destinationAddress", p.DestinationAddress},
		{"destinationChain", p.DestinationChain},
		{"asset", p.Asset},
		{"address", p.GeneratedAddress},
		{"sourceChain", p.SourceChain},
	}

	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if f.value == "" {
			return CanonicalMessage{}, fmt.Errorf("%w: %s is empty", ErrInvalidProposal, f.name)
		}
		if strings.Contains(f.value, fieldDelimiter) {
			return CanonicalMessage{}, fmt.Errorf("%w: %s contains %q", ErrInvalidProposal, f.name, fieldDelimiter)
		}
		parts = append(parts, f.value)
	}
	parts = append(parts, depositAction)

	if p.CoinType != "" {
		if want := chains.CoinType(p.Asset); p.CoinType != want {
			return CanonicalMessage{}, fmt.Errorf("%w: coinType %q does not match asset %q (want %q)", ErrInvalidProposal, p.CoinType, p.Asset, want)
		}
	}

	return CanonicalMessage{b: []byte(strings.Join(parts, fieldDelimiter))}, nil
}
