package model

import (
	"time"
)

// ChainEth is the only chain the service reports on.
const ChainEth = "eth"

// WhaleTransfer is the canonical record for one large on-chain transfer.
// Records are immutable after normalization; filtering produces new slices,
// never in-place edits.
type WhaleTransfer struct {
	TxHash        string    `json:"tx_hash"`
	FromAddress   string    `json:"from_address"`
	ToAddress     string    `json:"to_address"`
	AssetSymbol   string    `json:"asset_symbol"`
	AssetContract *string   `json:"asset_contract,omitempty"` // nil for native ETH
	Amount        float64   `json:"amount"`
	BlockNumber   uint64    `json:"block_number"`
	Chain         string    `json:"chain"`
	ObservedAt    time.Time `json:"observed_at"` // local normalization time, not block time
}
