package s2_scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// neutral is returned for zero-width or inverted ranges
const neutral = 0.5

// fallbackSpread is added to lower when lower*factor does not exceed it
var fallbackSpread = decimal.RequireFromString("0.10")

// ScoreHigher maps a higher-is-better value to [0,1] within bounds.
// With only a lower bound, the upper anchor is lower*fallbackFactor
// (or lower+0.10 when that would not exceed lower).
func ScoreHigher(value decimal.Decimal, b contracts.MetricBounds, fallbackFactor decimal.Decimal) float64 {
	switch {
	case b.HasLower() && b.HasUpper():
		if !b.Upper.GreaterThan(*b.Lower) {
			return neutral
		}
		return ramp(value, *b.Lower, *b.Upper)

	case b.HasLower():
		lower := *b.Lower
		upper := lower.Mul(fallbackFactor)
		if !upper.GreaterThan(lower) {
			upper = lower.Add(fallbackSpread)
		}
		return ramp(value, lower, upper)

	case b.HasUpper():
		// 하한 없음: 0에서 1, upper에서 0
		return 1 - ramp(value, decimal.Zero, *b.Upper)

	default:
		if value.IsPositive() {
			return 1
		}
		return 0
	}
}

// ScoreLower maps a lower-is-better value to [0,1]: 1 at the low end, 0 at
// the failure point. idealLow anchors the low end when no lower bound is set;
// with only a lower bound, that bound is the failure point.
func ScoreLower(value decimal.Decimal, b contracts.MetricBounds, idealLow decimal.Decimal) float64 {
	switch {
	case b.HasLower() && b.HasUpper():
		if !b.Upper.GreaterThan(*b.Lower) {
			return neutral
		}
		return 1 - ramp(value, *b.Lower, *b.Upper)

	case b.HasUpper():
		return 1 - ramp(value, idealLow, *b.Upper)

	case b.HasLower():
		return 1 - ramp(value, idealLow, *b.Lower)

	default:
		if value.LessThanOrEqual(idealLow) {
			return 1
		}
		return 0
	}
}

// ScoreFcf scores free cash flow on a log scale against twice the universe
// median. Cash burn (<= 0) always scores 0.
func ScoreFcf(value, median decimal.Decimal) float64 {
	if !value.IsPositive() {
		return 0
	}

	scale := math.Max(1, median.Mul(decimal.NewFromInt(2)).InexactFloat64())
	return clamp01(math.Log1p(value.InexactFloat64()) / math.Log1p(scale))
}

// ramp is 0 at from and 1 at to, clamped. A range with to <= from is
// neutral, including ranges synthesized from a single bound.
func ramp(value, from, to decimal.Decimal) float64 {
	if !to.GreaterThan(from) {
		return neutral
	}
	return clamp01(value.Sub(from).Div(to.Sub(from)).InexactFloat64())
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return neutral
	}
	return math.Max(0, math.Min(1, v))
}
