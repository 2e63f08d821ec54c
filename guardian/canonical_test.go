package guardian

import (
	"bytes"
	"errors"
	"testing"
)

func TestCanonicalizeVectors(t *testing.T) {
	tests := []struct {
		name     string
		proposal AddressProposal
		want     string
	}{
		{
			name:     "bitcoin deposit",
			proposal: btcProposal(),
			want:     "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed-hyperliquid-btc-bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0-bitcoin-deposit",
		},
		{
			name: "ethereum deposit",
			proposal: AddressProposal{
				SourceChain:        "ethereum",
				DestinationChain:   "hyperliquid",
				Asset:              "eth",
				DestinationAddress: "0x1111111111111111111111111111111111111111",
				GeneratedAddress:   "0x2222222222222222222222222222222222222222",
				CoinType:           "ethereum",
			},
			want: "0x1111111111111111111111111111111111111111-hyperliquid-eth-0x2222222222222222222222222222222222222222-ethereum-deposit",
		},
		{
			name: "spl token without coin type",
			proposal: AddressProposal{
				SourceChain:        "solana",
				DestinationChain:   "hyperliquid",
				Asset:              "pump",
				DestinationAddress: "0x3333333333333333333333333333333333333333",
				GeneratedAddress:   "So11111111111111111111111111111111111111112",
			},
			want: "0x3333333333333333333333333333333333333333-hyperliquid-pump-So11111111111111111111111111111111111111112-solana-deposit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Canonicalize(tt.proposal)
			if err != nil {
				t.Fatalf("Canonicalize: %v", err)
			}
			if msg.String() != tt.want {
				t.Errorf("String() = %q, want %q", msg.String(), tt.want)
			}
			if !bytes.Equal(msg.Bytes(), []byte(tt.want)) {
				t.Errorf("Bytes() = %q, want %q", msg.Bytes(), tt.want)
			}
		})
	}
}

func TestCanonicalizeDeterministic(t *testing.T) {
	a := AddressProposal{
		SourceChain:        "bitcoin",
		DestinationChain:   "hyperliquid",
		Asset:              "btc",
		DestinationAddress: "0xabc",
		GeneratedAddress:   "bc1qxyz",
		CoinType:           "bitcoin",
	}

	var b AddressProposal
	b.CoinType = "bitcoin"
	b.GeneratedAddress = "bc1qxyz"
	b.DestinationAddress = "0xabc"
	b.Asset = "btc"
	b.DestinationChain = "hyperliquid"
	b.SourceChain = "bitcoin"

	ma, err := Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	mb, err := Canonicalize(b)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(ma.Bytes(), mb.Bytes()) || !bytes.Equal(ma.Bytes(), again.Bytes()) {
		t.Fatalf("canonical bytes differ: %q %q %q", ma.Bytes(), mb.Bytes(), again.Bytes())
	}
	if ma.Fingerprint() != mb.Fingerprint() {
		t.Errorf("fingerprints differ: %s vs %s", ma.Fingerprint(), mb.Fingerprint())
	}
	if len(ma.Fingerprint()) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(ma.Fingerprint()))
	}
}

func TestCanonicalizeCaseSensitive(t *testing.T) {
	lower := btcProposal()
	lower.DestinationAddress = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

	m1, err := Canonicalize(btcProposal())
	if err != nil {
		t.Fatal(err)
	}
	m2, err := Canonicalize(lower)
	if err != nil {
		t.Fatal(err)
	}

	if m1.String() == m2.String() {
		t.Fatal("address case was normalized")
	}
}

func TestCanonicalizeRejects(t *testing.T) {
	tests := map[string]func(p *AddressProposal){
		"empty source chain":     func(p *AddressProposal) { p.SourceChain = "" },
		"empty generated":        func(p *AddressProposal) { p.GeneratedAddress = "" },
		"empty destination":      func(p *AddressProposal) { p.DestinationAddress = "" },
		"delimiter in address":   func(p *AddressProposal) { p.DestinationAddress = "0xabc-hyperliquid" },
		"delimiter in asset":     func(p *AddressProposal) { p.Asset = "btc-x" },
		"coin type mismatch":     func(p *AddressProposal) { p.CoinType = "ethereum" },
		"coin type ticker value": func(p *AddressProposal) { p.CoinType = "btc" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			p := btcProposal()
			mutate(&p)
			if _, err := Canonicalize(p); !errors.Is(err, ErrInvalidProposal) {
				t.Fatalf("err = %v, want ErrInvalidProposal", err)
			}
		})
	}
}
