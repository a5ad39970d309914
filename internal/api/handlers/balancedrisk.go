package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/gorilla/mux"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
)

const (
	defaultRankLimit = 20
	maxRankLimit     = 500
)

// Scorer produces balanced-risk scores
type Scorer interface {
	Analyze(ctx context.Context, symbol string) (*contracts.RiskScore, error)
	Rank(ctx context.Context, limit int) ([]contracts.RiskScore, error)
	Bounds() contracts.BoundsConfig
}

// BalancedRiskHandler handles balanced-risk score endpoints
// ⭐ SSOT: 밸런스드 리스크 API 핸들러는 이 구조체에서만
type BalancedRiskHandler struct {
	scorer Scorer
	logger *logger.Logger
}

// NewBalancedRiskHandler creates a new balanced-risk handler
func NewBalancedRiskHandler(scorer Scorer, log *logger.Logger) *BalancedRiskHandler {
	return &BalancedRiskHandler{
		scorer: scorer,
		logger: log,
	}
}

// RiskScoreResponse is a score plus human readable amounts
type RiskScoreResponse struct {
	contracts.RiskScore
	FreeCashFlowDisplay string `json:"free_cash_flow_display,omitempty"`
	TopTier             bool   `json:"top_tier"`
}

// BoundsResponse lists the bounds in use as "[lower, upper]" strings per metric
type BoundsResponse struct {
	Bounds  contracts.BoundsConfig      `json:"bounds"`
	Display map[contracts.Metric]string `json:"display"`
}

// GetScore returns the balanced-risk score of one symbol
// GET /api/v1/balancedrisk/{symbol}
func (h *BalancedRiskHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	score, err := h.scorer.Analyze(r.Context(), symbol)
	if errors.Is(err, contracts.ErrNotAvailable) {
		respondError(w, http.StatusNotFound, "No balanced risk data for "+symbol)
		return
	}
	if err != nil {
		h.logger.WithError(err).WithSymbol(symbol).Error("Failed to analyze symbol")
		respondError(w, http.StatusInternalServerError, "Failed to analyze symbol")
		return
	}

	respondJSON(w, http.StatusOK, toResponse(*score))
}

// GetRanking returns the tracked universe ordered by composite score
// GET /api/v1/balancedrisk?limit=N
func (h *BalancedRiskHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	limit := defaultRankLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxRankLimit {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxRankLimit))
			return
		}
		limit = n
	}

	scores, err := h.scorer.Rank(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to rank universe")
		respondError(w, http.StatusInternalServerError, "Failed to rank universe")
		return
	}

	items := make([]RiskScoreResponse, 0, len(scores))
	for _, s := range scores {
		items = append(items, toResponse(s))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(items),
		"items":        items,
		"generated_at": time.Now().UTC(),
	})
}

// GetBounds returns the bounds configuration used for scoring
// GET /api/v1/bounds
func (h *BalancedRiskHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	bounds := h.scorer.Bounds()

	display := make(map[contracts.Metric]string, len(contracts.AllMetrics))
	for _, m := range contracts.AllMetrics {
		display[m] = bounds.For(m).String()
	}

	respondJSON(w, http.StatusOK, BoundsResponse{Bounds: bounds, Display: display})
}

func toResponse(score contracts.RiskScore) RiskScoreResponse {
	return RiskScoreResponse{
		RiskScore:           score,
		FreeCashFlowDisplay: FormatAmount(score.FreeCashFlow.StringFixed(0), score.Currency),
		TopTier:             score.IsTopTier(),
	}
}

// FormatAmount renders a whole-unit decimal amount in currency ("$1,234.00").
// Unknown or empty currencies yield "".
func FormatAmount(amount, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return ""
	}
	units, err := strconv.ParseInt(amount, 10, 64)
	if err != nil {
		return ""
	}
	minor := units
	for i := 0; i < cur.Fraction; i++ {
		minor *= 10
	}
	return money.New(minor, cur.Code).Display()
}
