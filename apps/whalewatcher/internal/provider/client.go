package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transfer categories understood by the provider's asset-transfer endpoint.
const (
	CategoryNative = "external" // plain ETH transfers
	CategoryToken  = "erc20"    // token transfers
)

// Per-call timeout toward the provider. A hung category is dropped for the
// cycle rather than blocking the caller.
const callTimeout = 10 * time.Second

// RawTransfer is one transfer record as the provider reports it, before
// normalization.
type RawTransfer struct {
	Hash        string       `json:"hash"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Value       *json.Number `json:"value"`
	Asset       string       `json:"asset"`
	BlockNum    string       `json:"blockNum"`
	RawContract *RawContract `json:"rawContract,omitempty"`
}

// RawContract carries the token contract address; absent for native transfers.
type RawContract struct {
	Address *string `json:"address"`
}

// CategoryResult is the outcome of one category query. Transport and HTTP
// failures are carried as values so the caller decides how to log them; a
// failed category never fails the whole fetch cycle.
type CategoryResult struct {
	Category  string
	Transfers []RawTransfer
	Err       error
}

// Client queries the provider's asset-transfer endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a provider client against the given endpoint URL. The URL
// already embeds the API key; the client never reads the environment.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: callTimeout,
		},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result *struct {
		Transfers []RawTransfer `json:"transfers"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// FetchTransfers runs one query per category and returns the per-category
// results in order (native first, then token).
func (c *Client) FetchTransfers(ctx context.Context, maxCount uint64) []CategoryResult {
	results := make([]CategoryResult, 0, 2)
	for _, category := range []string{CategoryNative, CategoryToken} {
		results = append(results, c.FetchCategory(ctx, category, maxCount))
	}
	return results
}

// FetchCategory issues a single alchemy_getAssetTransfers call for one
// category: full block range to latest, metadata on, zero values excluded,
// newest blocks first.
func (c *Client) FetchCategory(ctx context.Context, category string, maxCount uint64) CategoryResult {
	result := CategoryResult{Category: category}

	payload := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "alchemy_getAssetTransfers",
		Params: []interface{}{
			map[string]interface{}{
				"fromBlock":        "0x0",
				"toBlock":          "latest",
				"category":         []string{category},
				"withMetadata":     true,
				"excludeZeroValue": true,
				"maxCount":         hexutil.EncodeUint64(maxCount),
				"order":            "desc",
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		result.Err = fmt.Errorf("failed to marshal request: %w", err)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		result.Err = fmt.Errorf("failed to create request: %w", err)
		return result
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("provider request failed: %w", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("provider returned status %d", resp.StatusCode)
		return result
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		result.Err = fmt.Errorf("failed to decode provider response: %w", err)
		return result
	}

	if rpcResp.Error != nil {
		result.Err = rpcResp.Error
		return result
	}

	if rpcResp.Result != nil {
		result.Transfers = rpcResp.Result.Transfers
	}

	return result
}
