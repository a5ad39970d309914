package s2_scoring

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// Engine computes balanced-risk scores. It holds no state and is safe for
// concurrent use; callers own the universe and bounds they pass in.
// ⭐ SSOT: 밸런스드 리스크 채점은 여기서만
type Engine struct{}

// NewEngine creates a scoring engine
func NewEngine() *Engine {
	return &Engine{}
}

// Score scores symbol against the universe of latest snapshots.
// Returns contracts.ErrNotAvailable when the universe is empty or lacks symbol.
func (e *Engine) Score(symbol string, universe []contracts.FundamentalSnapshot, bounds contracts.BoundsConfig) (*contracts.RiskScore, error) {
	if len(universe) == 0 {
		return nil, contracts.ErrNotAvailable
	}

	target := Find(universe, symbol)
	if target == nil {
		return nil, contracts.ErrNotAvailable
	}

	return e.ScoreSnapshot(target, universe, bounds)
}

// ScoreSnapshot scores a target obtained outside the universe (direct lookup)
func (e *Engine) ScoreSnapshot(target *contracts.FundamentalSnapshot, universe []contracts.FundamentalSnapshot, bounds contracts.BoundsConfig) (*contracts.RiskScore, error) {
	if len(universe) == 0 || target == nil {
		return nil, contracts.ErrNotAvailable
	}

	return score(target, bounds, MedianFreeCashFlow(universe)), nil
}

// ScoreUniverse scores every snapshot of the universe, best composite first.
// Ties are ordered by symbol.
func (e *Engine) ScoreUniverse(universe []contracts.FundamentalSnapshot, bounds contracts.BoundsConfig) []contracts.RiskScore {
	if len(universe) == 0 {
		return nil
	}

	median := MedianFreeCashFlow(universe)
	out := make([]contracts.RiskScore, 0, len(universe))
	for i := range universe {
		out = append(out, *score(&universe[i], bounds, median))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Composite != out[j].Composite {
			return out[i].Composite > out[j].Composite
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Find returns the snapshot of symbol (case-insensitive), or nil
func Find(universe []contracts.FundamentalSnapshot, symbol string) *contracts.FundamentalSnapshot {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for i := range universe {
		if strings.EqualFold(universe[i].Symbol, symbol) {
			return &universe[i]
		}
	}
	return nil
}

func score(target *contracts.FundamentalSnapshot, bounds contracts.BoundsConfig, median decimal.Decimal) *contracts.RiskScore {
	components := Components(target, bounds, median)
	composite := Composite(components)

	return &contracts.RiskScore{
		Symbol:   target.Symbol,
		Date:     target.Date,
		Currency: target.Currency,

		OneYearSalesGrowth:     target.OneYearSalesGrowth,
		FourYearSalesGrowth:    target.FourYearSalesGrowth,
		FourYearEarningsGrowth: target.FourYearEarningsGrowth,
		FreeCashFlow:           target.FreeCashFlow,
		DebtToEquity:           target.DebtToEquity,
		PegRatio:               target.PegRatio,
		ReturnOnEquity:         target.ReturnOnEquity,

		Bounds:     bounds,
		Score:      FinalScore(composite),
		Composite:  composite,
		Components: components,
	}
}
