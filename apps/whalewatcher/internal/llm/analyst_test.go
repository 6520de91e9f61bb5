package llm

import (
	"strings"
	"testing"

	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
)

func TestShortenAddress(t *testing.T) {
	tests := []struct {
		address  string
		expected string
	}{
		{"0x0B8fA6F76eB75ae3a4ca28eb3020DFC4503F2136", "0x0B8f...2136"},
		{"0xAB", "0xAB"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortenAddress(tt.address); got != tt.expected {
			t.Errorf("shortenAddress(%q) = %q, expected %q", tt.address, got, tt.expected)
		}
	}
}

func TestFormatTransfers(t *testing.T) {
	transfers := []model.WhaleTransfer{
		{
			FromAddress: "0x0B8fA6F76eB75ae3a4ca28eb3020DFC4503F2136",
			ToAddress:   "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599",
			AssetSymbol: "ETH",
			Amount:      150,
			BlockNumber: 100,
		},
		{
			FromAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			ToAddress:   "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			AssetSymbol: "USDC",
			Amount:      900000,
			BlockNumber: 99,
		},
	}

	text := formatTransfers(transfers)

	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	if lines[0] != "- 150 ETH from 0x0B8f...2136 to 0x2260...C599 (block 100)" {
		t.Errorf("unexpected first line: %q", lines[0])
	}

	if !strings.Contains(lines[1], "900000 USDC") {
		t.Errorf("expected amount and symbol in line, got %q", lines[1])
	}
}
