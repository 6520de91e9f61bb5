package api

import (
	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
)

// WhaleTransferList represents the API response for the latest whale transfers
type WhaleTransferList struct {
	Transfers []model.WhaleTransfer `json:"transfers"`
	Count     int                   `json:"count"`
	Summary   string                `json:"summary,omitempty"`
}

// AlertsSummary represents the LLM-generated summary response
type AlertsSummary struct {
	Summary       string `json:"summary"`
	TransferCount int    `json:"transfer_count"`
}

// ChatRequest represents the request body for the chat endpoint
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse represents the chat endpoint response
type ChatResponse struct {
	Answer        string `json:"answer"`
	TransferCount int    `json:"transfer_count"`
}

// ErrorResponse represents the API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
