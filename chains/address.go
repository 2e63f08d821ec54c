package chains

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

const solanaPublicKeySize = 32

// ValidateAddress checks that address is well formed for chain. Bitcoin
// addresses are also checked against the selected network.
func ValidateAddress(chain Chain, address string, testnet bool) error {
	if address == "" {
		return fmt.Errorf("empty %s address", chain)
	}

	switch chain {
	case Bitcoin:
		return validateBitcoin(address, testnet)
	case Ethereum, Hyperliquid:
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid %s address %q", chain, address)
		}
		return nil
	case Solana:
		return validateSolana(address)
	}

	return fmt.Errorf("unknown chain %q", chain)
}

func validateBitcoin(address string, testnet bool) error {
	params := &chaincfg.MainNetParams
	if testnet {
		params = &chaincfg.TestNet3Params
	}

	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return fmt.Errorf("invalid bitcoin address %q: %w", address, err)
	}
	if !decoded.IsForNet(params) {
		return fmt.Errorf("bitcoin address %q is not for %s", address, params.Name)
	}

	return nil
}

func validateSolana(address string) error {
	raw, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("invalid solana address %q: %w", address, err)
	}
	if len(raw) != solanaPublicKeySize {
		return fmt.Errorf("invalid solana address %q: decoded to %d bytes, want %d", address, len(raw), solanaPublicKeySize)
	}
	return nil
}
