package s2_scoring

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// Weights of each normalized metric in the composite (sum 1.0)
// ⭐ SSOT: 복합 점수 가중치
var Weights = map[contracts.Metric]float64{
	contracts.MetricPegRatio:               0.30,
	contracts.MetricReturnOnEquity:         0.20,
	contracts.MetricOneYearSalesGrowth:     0.15,
	contracts.MetricFourYearEarningsGrowth: 0.10,
	contracts.MetricFourYearSalesGrowth:    0.10,
	contracts.MetricFreeCashFlow:           0.10,
	contracts.MetricDebtToEquity:           0.05,
}

// FallbackFactors synthesize an upper anchor for higher-is-better metrics
// that only carry a lower bound
var FallbackFactors = map[contracts.Metric]decimal.Decimal{
	contracts.MetricOneYearSalesGrowth:     decimal.RequireFromString("2.0"),
	contracts.MetricReturnOnEquity:         decimal.RequireFromString("2.0"),
	contracts.MetricFourYearSalesGrowth:    decimal.RequireFromString("1.5"),
	contracts.MetricFourYearEarningsGrowth: decimal.RequireFromString("1.5"),
}

// Components normalizes every scored metric of snap to [0,1].
// median is the universe FCF median, computed once by the caller.
func Components(snap *contracts.FundamentalSnapshot, bounds contracts.BoundsConfig, median decimal.Decimal) map[contracts.Metric]float64 {
	out := make(map[contracts.Metric]float64, len(contracts.AllMetrics))
	for _, m := range contracts.AllMetrics {
		out[m] = normalizeMetric(m, snap.Value(m), bounds.For(m), median)
	}
	return out
}

// normalizeMetric dispatches a metric to its cleaning and normalization strategy
func normalizeMetric(m contracts.Metric, v decimal.Decimal, b contracts.MetricBounds, median decimal.Decimal) float64 {
	switch m {
	case contracts.MetricPegRatio:
		return ScoreLower(CleanPeg(v), b, decimal.Zero)
	case contracts.MetricDebtToEquity:
		return ScoreLower(CleanDebtToEquity(v), b, decimal.Zero)
	case contracts.MetricFreeCashFlow:
		return ScoreFcf(v, median)
	default:
		return ScoreHigher(v, b, FallbackFactors[m])
	}
}

// Composite is the clamped weighted sum of normalized components.
// Metrics are summed in a fixed order so equal inputs give bit-identical results.
func Composite(components map[contracts.Metric]float64) float64 {
	sum := 0.0
	for _, m := range contracts.AllMetrics {
		sum += Weights[m] * components[m]
	}
	return clamp01(sum)
}

// FinalScore maps a composite in [0,1] to an integer score in [1,10]
func FinalScore(composite float64) int {
	score := int(math.Round(1 + 9*composite))
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// MedianFreeCashFlow returns the median FCF of the universe (0 when empty).
// An even count averages the two middle values.
func MedianFreeCashFlow(universe []contracts.FundamentalSnapshot) decimal.Decimal {
	n := len(universe)
	if n == 0 {
		return decimal.Zero
	}

	values := make([]decimal.Decimal, n)
	for i := range universe {
		values[i] = universe[i].FreeCashFlow
	}
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })

	if n%2 == 1 {
		return values[n/2]
	}
	return values[n/2-1].Add(values[n/2]).Div(decimal.NewFromInt(2))
}
