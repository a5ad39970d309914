package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// SymbolMetricsHandler exposes stored fundamental snapshots
type SymbolMetricsHandler struct {
	snapshots contracts.SnapshotRepository
	logger    *logger.Logger
}

// NewSymbolMetricsHandler creates a new snapshot handler
func NewSymbolMetricsHandler(snapshots contracts.SnapshotRepository, log *logger.Logger) *SymbolMetricsHandler {
	return &SymbolMetricsHandler{
		snapshots: snapshots,
		logger:    log,
	}
}

// ListLatest returns the latest snapshot of every tracked symbol
// GET /api/v1/metrics
func (h *SymbolMetricsHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.snapshots.ListLatestPerSymbol(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list snapshots")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}
	if snaps == nil {
		snaps = []contracts.FundamentalSnapshot{}
	}

	respondJSON(w, http.StatusOK, snaps)
}

// GetLatest returns the latest snapshot of one symbol
// GET /api/v1/metrics/{symbol}
func (h *SymbolMetricsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	snap, err := h.snapshots.GetLatest(r.Context(), symbol)
	if errors.Is(err, contracts.ErrNotFound) {
		respondError(w, http.StatusNotFound, "No metrics for "+symbol)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Error("Failed to get snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}
