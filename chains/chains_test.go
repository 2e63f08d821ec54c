package chains

import "testing"

func TestCoinType(t *testing.T) {
	tests := map[string]string{
		"btc":  "bitcoin",
		"eth":  "ethereum",
		"sol":  "solana",
		"fart": "fart",
		"bonk": "bonk",
		"":     "",
	}
	for asset, want := range tests {
		if got := CoinType(asset); got != want {
			t.Errorf("CoinType(%q) = %q, want %q", asset, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	c, err := ParseChain("hyperliquid")
	if err != nil {
		t.Fatal(err)
	}
	if c != Hyperliquid {
		t.Errorf("ParseChain = %v", c)
	}

	// Chain names are lowercase on the wire.
	if _, err := ParseChain("Bitcoin"); err == nil {
		t.Error("ParseChain(Bitcoin) accepted")
	}

	a, err := ParseAsset("pump")
	if err != nil {
		t.Fatal(err)
	}
	chain, ok := NativeChain(a)
	if !ok || chain != Solana {
		t.Errorf("NativeChain(pump) = %v, %v", chain, ok)
	}

	if _, err := ParseAsset("doge"); err == nil {
		t.Error("ParseAsset(doge) accepted")
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		chain   Chain
		address string
		testnet bool
		valid   bool
	}{
		{"segwit v0 mainnet", Bitcoin, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", false, true},
		{"taproot mainnet", Bitcoin, "bc1p0xlxvlhemja6c4dqv22uapctqupfhlxm9h8z3k2e72q4k9hcz7vqzk5jj0", false, true},
		{"legacy mainnet", Bitcoin, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", false, true},
		{"testnet on testnet", Bitcoin, "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", true, true},
		{"testnet on mainnet", Bitcoin, "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", false, false},
		{"bad checksum", Bitcoin, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", false, false},
		{"evm", Hyperliquid, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false, true},
		{"evm short", Ethereum, "0x5aAeb6053F3E94C9b9A0", false, false},
		{"solana system program", Solana, "11111111111111111111111111111111", false, true},
		{"solana wrapped sol", Solana, "So11111111111111111111111111111111111111112", false, true},
		{"solana not base58", Solana, "0OIl", false, false},
		{"empty", Solana, "", false, false},
		{"unknown chain", Chain("dogecoin"), "D6", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.chain, tt.address, tt.testnet)
			if tt.valid && err != nil {
				t.Fatalf("ValidateAddress(%s, %q): %v", tt.chain, tt.address, err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("ValidateAddress(%s, %q) accepted", tt.chain, tt.address)
			}
		})
	}
}
