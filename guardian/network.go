package guardian

import (
	"fmt"
	"strings"
)

// Network selects which guardian registry and which bridge endpoint apply.
type Network string

const (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
)

// ParseNetwork accepts "testnet" or "mainnet" in any case.
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case Testnet:
		return Testnet, nil
	case Mainnet:
		return Mainnet, nil
	}
	return "", fmt.Errorf("unknown network %q (want testnet or mainnet)", s)
}

// Valid reports whether n is one of the known networks.
func (n Network) Valid() bool {
	return n == Testnet || n == Mainnet
}

func (n Network) String() string {
	return string(n)
}
