package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/internHannah/whale-tracker/apps/whalewatcher/internal/model"
	"go.uber.org/zap"
)

// Default query parameters, matching the route contract.
const (
	defaultListLimit = 200
	defaultLLMLimit  = 20
)

// WhaleService is the core surface the route layer consumes.
type WhaleService interface {
	FetchWhales(ctx context.Context, limit int, minAmount float64) []model.WhaleTransfer
}

// Analyst produces LLM commentary over already-fetched transfers.
type Analyst interface {
	Summarize(ctx context.Context, transfers []model.WhaleTransfer) (string, error)
	Chat(ctx context.Context, transfers []model.WhaleTransfer, question string) (string, error)
}

// AlertsHandler handles the whale-alert API endpoints
type AlertsHandler struct {
	service          WhaleService
	analyst          Analyst // nil when no LLM credential is configured
	defaultMinAmount float64
	logger           *zap.Logger
}

// NewAlertsHandler creates a new AlertsHandler
func NewAlertsHandler(service WhaleService, analyst Analyst, defaultMinAmount float64, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{
		service:          service,
		analyst:          analyst,
		defaultMinAmount: defaultMinAmount,
		logger:           logger,
	}
}

// LatestAlerts handles GET /alerts/latest
func (h *AlertsHandler) LatestAlerts(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseIntParam(w, r, "limit", defaultListLimit)
	if !ok {
		return
	}

	minAmount, ok := h.parseFloatParam(w, r, "min_amount", h.defaultMinAmount)
	if !ok {
		return
	}

	transfers := h.service.FetchWhales(r.Context(), limit, minAmount)

	response := WhaleTransferList{
		Transfers: transfers,
		Count:     len(transfers),
	}

	if len(transfers) == 0 {
		response.Transfers = []model.WhaleTransfer{}
		response.Summary = "No whale transfers found (or provider returned nothing)."
	} else {
		response.Summary = fmt.Sprintf("Showing up to %d large transfers (amount >= %g).", len(transfers), minAmount)
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// GetSummary handles GET /alerts/summary
func (h *AlertsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.analyst == nil {
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "llm_disabled", "LLM commentary is not configured")
		return
	}

	limit, ok := h.parseIntParam(w, r, "limit", defaultLLMLimit)
	if !ok {
		return
	}

	minAmount, ok := h.parseFloatParam(w, r, "min_amount", h.defaultMinAmount)
	if !ok {
		return
	}

	transfers := h.service.FetchWhales(r.Context(), limit, minAmount)

	if len(transfers) == 0 {
		h.writeJSONResponse(w, http.StatusOK, AlertsSummary{
			Summary:       "No recent large transfers were found, so there is nothing to analyze right now.",
			TransferCount: 0,
		})
		return
	}

	summary, err := h.analyst.Summarize(r.Context(), transfers)
	if err != nil {
		h.logger.Error("Failed to generate summary", zap.Error(err))
		h.writeErrorResponse(w, http.StatusBadGateway, "llm_error", "Failed to generate summary")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, AlertsSummary{
		Summary:       summary,
		TransferCount: len(transfers),
	})
}

// Chat handles POST /alerts/chat
func (h *AlertsHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.analyst == nil {
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "llm_disabled", "LLM commentary is not configured")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_request_body", "Invalid JSON in request body")
		return
	}

	if req.Question == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "missing_question", "Question is required")
		return
	}

	limit, ok := h.parseIntParam(w, r, "limit", defaultLLMLimit)
	if !ok {
		return
	}

	transfers := h.service.FetchWhales(r.Context(), limit, h.defaultMinAmount)

	if len(transfers) == 0 {
		h.writeJSONResponse(w, http.StatusOK, ChatResponse{
			Answer:        "Right now I don't see any large transfers, so there isn't enough data to answer that question.",
			TransferCount: 0,
		})
		return
	}

	answer, err := h.analyst.Chat(r.Context(), transfers, req.Question)
	if err != nil {
		h.logger.Error("Failed to generate chat answer", zap.Error(err))
		h.writeErrorResponse(w, http.StatusBadGateway, "llm_error", "Failed to generate answer")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, ChatResponse{
		Answer:        answer,
		TransferCount: len(transfers),
	})
}

func (h *AlertsHandler) parseIntParam(w http.ResponseWriter, r *http.Request, name string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_"+name, fmt.Sprintf("Query parameter %q must be a non-negative integer", name))
		return 0, false
	}

	return value, true
}

func (h *AlertsHandler) parseFloatParam(w http.ResponseWriter, r *http.Request, name string, defaultValue float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid_"+name, fmt.Sprintf("Query parameter %q must be a non-negative number", name))
		return 0, false
	}

	return value, true
}

// writeJSONResponse writes a JSON response with the specified status code
func (h *AlertsHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeErrorResponse writes an error response
func (h *AlertsHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}
