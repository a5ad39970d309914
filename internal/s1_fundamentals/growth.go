package s1_fundamentals

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// DefaultGrowthWindow is the number of yearly points chained for multi-year growth
const DefaultGrowthWindow = 4

// ComputeOneYearGrowth returns last/prev - 1 for an ascending yearly series.
// Missing or non-positive endpoints, or fewer than two points, give 0.
func ComputeOneYearGrowth(series []contracts.YearValue) decimal.Decimal {
	if len(series) < 2 {
		return decimal.Zero
	}

	prev := series[len(series)-2].Value
	last := series[len(series)-1].Value
	if !positive(prev) || !positive(last) {
		return decimal.Zero
	}

	return last.Decimal.Div(prev.Decimal).Sub(decimal.NewFromInt(1))
}

// ComputeChainedGrowth multiplies consecutive year-over-year ratios over the last
// window points and returns product - 1. A step whose endpoint is missing or
// non-positive contributes a ratio of 1.
func ComputeChainedGrowth(series []contracts.YearValue, window int) decimal.Decimal {
	if window <= 0 {
		window = DefaultGrowthWindow
	}
	if len(series) > window {
		series = series[len(series)-window:]
	}
	if len(series) < 2 {
		return decimal.Zero
	}

	product := decimal.NewFromInt(1)
	for i := 1; i < len(series); i++ {
		prev, next := series[i-1].Value, series[i].Value
		if !positive(prev) || !positive(next) {
			continue // 결측 연도는 ×1
		}
		product = product.Mul(next.Decimal.Div(prev.Decimal))
	}

	return product.Sub(decimal.NewFromInt(1))
}

func positive(v decimal.NullDecimal) bool {
	return v.Valid && v.Decimal.IsPositive()
}
