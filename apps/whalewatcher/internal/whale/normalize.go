package whale

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/assets"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/provider"
)

// normalize converts one raw provider record into the canonical transfer
// record. Rules apply in order and short-circuit on the first rejection:
// missing or unparsable value, sub-threshold amount, untracked asset.
func normalize(raw provider.RawTransfer, registry *assets.Registry, minAmount float64, now time.Time) (model.WhaleTransfer, bool) {
	if raw.Value == nil {
		return model.WhaleTransfer{}, false
	}

	amount, err := raw.Value.Float64()
	if err != nil {
		return model.WhaleTransfer{}, false
	}

	if amount < minAmount {
		return model.WhaleTransfer{}, false
	}

	// No contract address means a native ETH transfer. Token transfers use
	// the provider-reported symbol, uppercased.
	var symbol string
	var contract *string
	if raw.RawContract != nil && raw.RawContract.Address != nil && *raw.RawContract.Address != "" {
		addr := *raw.RawContract.Address
		contract = &addr
		symbol = strings.ToUpper(raw.Asset)
		if symbol == "" {
			symbol = "UNKNOWN"
		}
	} else {
		symbol = registry.Native().Symbol
	}

	if !registry.IsTracked(symbol) {
		return model.WhaleTransfer{}, false
	}

	// Unparsable block numbers default to 0 so the record sorts last. The
	// provider is allowed leading zero digits, so this is more lenient than
	// hexutil.DecodeUint64.
	blockNumber := uint64(0)
	if raw.BlockNum != "" {
		if parsed, err := strconv.ParseUint(strings.TrimPrefix(raw.BlockNum, "0x"), 16, 64); err == nil {
			blockNumber = parsed
		}
	}

	return model.WhaleTransfer{
		TxHash:        raw.Hash,
		FromAddress:   raw.From,
		ToAddress:     raw.To,
		AssetSymbol:   symbol,
		AssetContract: contract,
		Amount:        amount,
		BlockNumber:   blockNumber,
		Chain:         model.ChainEth,
		ObservedAt:    now,
	}, true
}

// buildSnapshot runs the pipeline over all category results of one fetch
// cycle: accepted records from every category concatenated, newest block
// first (stable for ties), truncated to the cycle limit.
func buildSnapshot(results []provider.CategoryResult, registry *assets.Registry, minAmount float64, limit int, now time.Time) []model.WhaleTransfer {
	var transfers []model.WhaleTransfer
	for _, result := range results {
		for _, raw := range result.Transfers {
			if transfer, ok := normalize(raw, registry, minAmount, now); ok {
				transfers = append(transfers, transfer)
			}
		}
	}

	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].BlockNumber > transfers[j].BlockNumber
	})

	if limit >= 0 && len(transfers) > limit {
		transfers = transfers[:limit]
	}

	return transfers
}
