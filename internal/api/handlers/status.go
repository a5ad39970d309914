package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// QualityChecker reports universe coverage (quality.QualityGate)
type QualityChecker interface {
	Check(ctx context.Context) (*contracts.DataQualitySnapshot, error)
}

// StatusHandler reports whether the tracked universe is fit for scoring
type StatusHandler struct {
	gate   QualityChecker
	logger *logger.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(gate QualityChecker, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		gate:   gate,
		logger: log,
	}
}

// GetStatus returns the data quality snapshot of the universe.
// A failing gate is still 200; clients read "passed".
// GET /api/v1/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.gate.Check(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Quality check failed")
		respondError(w, http.StatusInternalServerError, "Failed to check data quality")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}
