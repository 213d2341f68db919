package gateway

import (
	"strings"

	"github.com/google/uuid"
)

// ChainConfig describes a chain the gateway knows how to price payments on.
type ChainConfig struct {
	// NetworkID is the CAIP-2 style chain identifier used in 402 offers
	// (e.g., "stacks:2147483648").
	NetworkID string

	// ShortName is the discovery-layer token form (e.g., "stacks").
	ShortName string

	// AssetSymbol is the native asset symbol for the chain.
	AssetSymbol string

	// Decimals is the number of decimal places of the atomic unit.
	Decimals uint8
}

// Known chain configurations.
var (
	// StacksMainnet is the Stacks mainnet configuration.
	StacksMainnet = ChainConfig{
		NetworkID:   "stacks:1",
		ShortName:   "stacks",
		AssetSymbol: "STX",
		Decimals:    6,
	}

	// StacksTestnet is the Stacks testnet configuration.
	StacksTestnet = ChainConfig{
		NetworkID:   "stacks:2147483648",
		ShortName:   "stacks",
		AssetSymbol: "STX",
		Decimals:    6,
	}
)

// DefaultNetwork is the chain identifier used when NETWORK is not configured.
const DefaultNetwork = "stacks:2147483648"

// ShortNetworkName normalizes a CAIP-2 chain identifier to its short token
// form used by discovery entries: "stacks:2147483648" becomes "stacks".
// Identifiers without a namespace separator are returned unchanged.
func ShortNetworkName(network string) string {
	if i := strings.Index(network, ":"); i > 0 {
		return network[:i]
	}
	return network
}

// NewNonce returns a fresh opaque payment nonce.
func NewNonce() string {
	return uuid.NewString()
}
