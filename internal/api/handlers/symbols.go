package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// Refresher fetches, derives and stores one symbol's snapshot
type Refresher interface {
	RefreshSymbol(ctx context.Context, symbol string) (*contracts.FundamentalSnapshot, error)
}

// Invalidator drops cached scores once the universe changed
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// TrackedSymbolsHandler manages the tracked-symbol registry
type TrackedSymbolsHandler struct {
	tracked     contracts.TrackedSymbolRepository
	refresher   Refresher
	invalidator Invalidator
	logger      *logger.Logger
}

// NewTrackedSymbolsHandler creates a new tracked-symbol handler. refresher may be nil.
func NewTrackedSymbolsHandler(tracked contracts.TrackedSymbolRepository, refresher Refresher, log *logger.Logger) *TrackedSymbolsHandler {
	return &TrackedSymbolsHandler{
		tracked:   tracked,
		refresher: refresher,
		logger:    log,
	}
}

// WithInvalidator drops cached scores whenever tracking changes the universe
func (h *TrackedSymbolsHandler) WithInvalidator(inv Invalidator) *TrackedSymbolsHandler {
	h.invalidator = inv
	return h
}

// invalidate is best effort: the registry change already succeeded
func (h *TrackedSymbolsHandler) invalidate(ctx context.Context, symbol string) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(ctx, symbol); err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Warn("Failed to invalidate score cache")
	}
}

// AddSymbolRequest is the body of POST /api/v1/symbols
type AddSymbolRequest struct {
	Symbol   string `json:"symbol" validate:"required,min=1,max=15,printascii,excludesall=/?#%"`
	FetchNow *bool  `json:"fetch_now" default:"true"` // 등록 직후 바로 수집
}

// AddSymbolResponse reports the registered symbol and the optional first fetch
type AddSymbolResponse struct {
	Symbol     string                         `json:"symbol"`
	Snapshot   *contracts.FundamentalSnapshot `json:"snapshot,omitempty"`
	FetchError string                         `json:"fetch_error,omitempty"`
}

// List returns all tracked symbols
// GET /api/v1/symbols
func (h *TrackedSymbolsHandler) List(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.tracked.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list tracked symbols")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve symbols")
		return
	}

	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, s.Symbol)
	}
	respondJSON(w, http.StatusOK, out)
}

// Add registers a symbol and, unless fetch_now is false, fetches it immediately
// POST /api/v1/symbols
func (h *TrackedSymbolsHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddSymbolRequest
	if errs := readAndValidate(ctx, r, &req); errs != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []ValidationError{{Code: "ERR_REQUIRED", Field: "Symbol", Message: "Symbol is required"}},
		})
		return
	}

	if err := h.tracked.Add(ctx, symbol); err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Error("Failed to add tracked symbol")
		respondError(w, http.StatusInternalServerError, "Failed to add symbol")
		return
	}

	// 이미 저장된 스냅샷이 있으면 등록만으로 유니버스가 바뀜
	h.invalidate(ctx, symbol)

	resp := AddSymbolResponse{Symbol: symbol}
	if h.refresher != nil && req.FetchNow != nil && *req.FetchNow {
		snap, err := h.refresher.RefreshSymbol(ctx, symbol)
		if err != nil {
			// 등록은 유지, 다음 주기 수집에서 재시도
			h.logger.WithError(err).WithSymbol(symbol).Warn("Initial fetch failed")
			resp.FetchError = err.Error()
		} else {
			resp.Snapshot = snap
		}
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Remove stops tracking a symbol. Stored snapshots are kept.
// DELETE /api/v1/symbols/{symbol}
func (h *TrackedSymbolsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	err := h.tracked.Remove(r.Context(), symbol)
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Symbol is not tracked: "+symbol)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Error("Failed to remove tracked symbol")
		respondError(w, http.StatusInternalServerError, "Failed to remove symbol")
		return
	}

	h.invalidate(r.Context(), symbol)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh fetches a symbol now and returns the stored snapshot
// POST /api/v1/refresh/{symbol}
func (h *TrackedSymbolsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if h.refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "Refresh is not configured")
		return
	}

	snap, err := h.refresher.RefreshSymbol(r.Context(), symbol)
	if errors.Is(err, contracts.ErrNoData) {
		respondError(w, http.StatusNotFound, "Data source has no fundamentals for "+symbol)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Error("Failed to refresh symbol")
		respondError(w, http.StatusBadGateway, "Failed to refresh symbol")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}
