package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchCategoryBuildsExpectedRequest(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]interface{}{
				"transfers": []map[string]interface{}{
					{
						"hash":     "0x1",
						"from":     "0xA",
						"to":       "0xB",
						"value":    150,
						"asset":    "ETH",
						"blockNum": "0x64",
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result := client.FetchCategory(context.Background(), CategoryNative, 500)

	if result.Err != nil {
		t.Fatalf("FetchCategory: %v", result.Err)
	}

	if gotBody["method"] != "alchemy_getAssetTransfers" {
		t.Errorf("expected method alchemy_getAssetTransfers, got %v", gotBody["method"])
	}

	params := gotBody["params"].([]interface{})[0].(map[string]interface{})
	if params["fromBlock"] != "0x0" {
		t.Errorf("expected fromBlock 0x0, got %v", params["fromBlock"])
	}
	if params["toBlock"] != "latest" {
		t.Errorf("expected toBlock latest, got %v", params["toBlock"])
	}
	if params["maxCount"] != "0x1f4" {
		t.Errorf("expected maxCount 0x1f4, got %v", params["maxCount"])
	}
	if params["excludeZeroValue"] != true {
		t.Errorf("expected excludeZeroValue true, got %v", params["excludeZeroValue"])
	}
	if params["withMetadata"] != true {
		t.Errorf("expected withMetadata true, got %v", params["withMetadata"])
	}
	if params["order"] != "desc" {
		t.Errorf("expected order desc, got %v", params["order"])
	}

	categories := params["category"].([]interface{})
	if len(categories) != 1 || categories[0] != "external" {
		t.Errorf("expected category [external], got %v", categories)
	}

	if len(result.Transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(result.Transfers))
	}

	transfer := result.Transfers[0]
	if transfer.Hash != "0x1" || transfer.From != "0xA" || transfer.To != "0xB" {
		t.Errorf("unexpected transfer fields: %+v", transfer)
	}
	if transfer.Value == nil || transfer.Value.String() != "150" {
		t.Errorf("expected value 150, got %v", transfer.Value)
	}
	if transfer.BlockNum != "0x64" {
		t.Errorf("expected blockNum 0x64, got %s", transfer.BlockNum)
	}
}

func TestFetchTransfersQueriesBothCategories(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		params := body["params"].([]interface{})[0].(map[string]interface{})
		category := params["category"].([]interface{})[0].(string)

		transfers := []map[string]interface{}{}
		if category == "erc20" {
			transfers = append(transfers, map[string]interface{}{
				"hash":     "0x2",
				"value":    "900000",
				"asset":    "USDT",
				"blockNum": "0x96",
				"rawContract": map[string]interface{}{
					"address": "0xdac17f958d2ee523a2206206994597c13d831ec7",
				},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  map[string]interface{}{"transfers": transfers},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results := client.FetchTransfers(context.Background(), 500)

	if requestCount.Load() != 2 {
		t.Errorf("expected 2 provider requests, got %d", requestCount.Load())
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 category results, got %d", len(results))
	}

	if results[0].Category != CategoryNative || results[1].Category != CategoryToken {
		t.Errorf("unexpected category order: %s, %s", results[0].Category, results[1].Category)
	}

	token := results[1]
	if token.Err != nil {
		t.Fatalf("token category: %v", token.Err)
	}
	if len(token.Transfers) != 1 {
		t.Fatalf("expected 1 token transfer, got %d", len(token.Transfers))
	}
	if token.Transfers[0].RawContract == nil || token.Transfers[0].RawContract.Address == nil {
		t.Fatal("expected rawContract.address to be populated")
	}
}

func TestFetchCategoryHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream error", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result := client.FetchCategory(context.Background(), CategoryNative, 500)

	if result.Err == nil {
		t.Fatal("expected error for non-200 status")
	}

	if len(result.Transfers) != 0 {
		t.Errorf("expected no transfers on failure, got %d", len(result.Transfers))
	}
}

func TestFetchCategoryRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]interface{}{"code": -32000, "message": "rate limited"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result := client.FetchCategory(context.Background(), CategoryNative, 500)

	if result.Err == nil {
		t.Fatal("expected error for rpc error response")
	}
}

func TestFetchCategoryTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL)
	result := client.FetchCategory(context.Background(), CategoryToken, 500)

	if result.Err == nil {
		t.Fatal("expected transport error")
	}

	if result.Category != CategoryToken {
		t.Errorf("expected category to be preserved on failure, got %s", result.Category)
	}
}
