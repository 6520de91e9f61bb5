package assets

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Asset represents a tracked cryptocurrency asset with its properties
type Asset struct {
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Address  common.Address `json:"address"`
	Decimals int            `json:"decimals"`
	Native   bool           `json:"native"`
}

// Registry holds the tracked-asset allowlist. Only transfers of these assets
// survive the normalization pipeline.
type Registry struct {
	assets    map[string]*Asset
	byAddress map[common.Address]*Asset
}

// NewRegistry creates a registry with all tracked assets
func NewRegistry() *Registry {
	registry := &Registry{
		assets:    make(map[string]*Asset),
		byAddress: make(map[common.Address]*Asset),
	}

	trackedAssets := []*Asset{
		{
			Symbol:   "ETH",
			Name:     "Ether",
			Decimals: 18,
			Native:   true,
		},
		{
			Symbol:   "USDC",
			Name:     "USD Coin",
			Address:  common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"),
			Decimals: 6,
		},
		{
			Symbol:   "USDT",
			Name:     "Tether USD",
			Address:  common.HexToAddress("0xdac17f958d2ee523a2206206994597c13d831ec7"),
			Decimals: 6,
		},
		{
			Symbol:   "WBTC",
			Name:     "Wrapped BTC",
			Address:  common.HexToAddress("0x2260fac5e5542a773aa44fbcfedf7c193bc2c599"),
			Decimals: 8,
		},
	}

	for _, asset := range trackedAssets {
		registry.assets[asset.Symbol] = asset
		if !asset.Native {
			registry.byAddress[asset.Address] = asset
		}
	}

	return registry
}

// GetBySymbol returns an asset by its symbol (case-insensitive)
func (r *Registry) GetBySymbol(symbol string) (*Asset, bool) {
	asset, exists := r.assets[strings.ToUpper(symbol)]
	return asset, exists
}

// GetByAddress returns an asset by its contract address
func (r *Registry) GetByAddress(address common.Address) (*Asset, bool) {
	asset, exists := r.byAddress[address]
	return asset, exists
}

// IsTracked checks if a symbol is on the allowlist
func (r *Registry) IsTracked(symbol string) bool {
	_, exists := r.GetBySymbol(symbol)
	return exists
}

// Native returns the chain's native asset
func (r *Registry) Native() *Asset {
	return r.assets["ETH"]
}

// TrackedSymbols returns all tracked asset symbols
func (r *Registry) TrackedSymbols() []string {
	symbols := make([]string, 0, len(r.assets))
	for symbol := range r.assets {
		symbols = append(symbols, symbol)
	}
	return symbols
}
