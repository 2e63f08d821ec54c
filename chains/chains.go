// Package chains holds the chain and asset names understood by the bridge
// and the per-chain address format checks.
package chains

import (
	"fmt"
	"strings"
)

// Chain is a network the bridge can move assets from or to.
type Chain string

const (
	Bitcoin     Chain = "bitcoin"
	Ethereum    Chain = "ethereum"
	Solana      Chain = "solana"
	Hyperliquid Chain = "hyperliquid"
)

// Asset is a bridged asset ticker as used in request paths.
type Asset string

const (
	BTC  Asset = "btc"
	ETH  Asset = "eth"
	SOL  Asset = "sol"
	FART Asset = "fart"
	PUMP Asset = "pump"
	BONK Asset = "bonk"
	SPX  Asset = "spx"
)

var knownChains = map[Chain]struct{}{
	Bitcoin:     {},
	Ethereum:    {},
	Solana:      {},
	Hyperliquid: {},
}

// nativeChain maps each asset to the chain it is deposited from.
var nativeChain = map[Asset]Chain{
	BTC:  Bitcoin,
	ETH:  Ethereum,
	SOL:  Solana,
	FART: Solana,
	PUMP: Solana,
	BONK: Solana,
	SPX:  Solana,
}

// ParseChain returns the Chain named by s. Names are lowercase on the wire.
func ParseChain(s string) (Chain, error) {
	c := Chain(s)
	if _, ok := knownChains[c]; !ok {
		return "", fmt.Errorf("unknown chain %q", s)
	}
	return c, nil
}

// ParseAsset returns the Asset named by s.
func ParseAsset(s string) (Asset, error) {
	a := Asset(s)
	if _, ok := nativeChain[a]; !ok {
		return "", fmt.Errorf("unknown asset %q", s)
	}
	return a, nil
}

// NativeChain returns the chain an asset is deposited from.
func NativeChain(a Asset) (Chain, bool) {
	c, ok := nativeChain[a]
	return c, ok
}

// CoinType normalizes an asset ticker to the chain-style coin name the
// bridge uses ("btc" -> "bitcoin"). Unknown assets map to themselves.
func CoinType(asset string) string {
	switch strings.ToLower(asset) {
	case string(BTC):
		return string(Bitcoin)
	case string(ETH):
		return string(Ethereum)
	case string(SOL):
		return string(Solana)
	default:
		return asset
	}
}

func (c Chain) String() string { return string(c) }

func (a Asset) String() string { return string(a) }
