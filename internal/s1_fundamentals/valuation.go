package s1_fundamentals

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// minGrowthMagnitude guards PEG against division blow-up near zero growth
var minGrowthMagnitude = decimal.RequireFromString("0.001")

var hundred = decimal.NewFromInt(100)

// trendPeriods is the preference order of analyst trend periods
var trendPeriods = []string{"+1y", "0y", "+2y"}

// DerivePeg returns pe / (growth * 100). The result is absent when pe is absent
// or |growth| < 0.001.
func DerivePeg(pe, growth decimal.NullDecimal) decimal.NullDecimal {
	if !pe.Valid || !growth.Valid {
		return decimal.NullDecimal{}
	}
	if growth.Decimal.Abs().LessThan(minGrowthMagnitude) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(pe.Decimal.Div(growth.Decimal.Mul(hundred)))
}

// ChoosePriceEarnings prefers forward P/E over trailing P/E
func ChoosePriceEarnings(raw *contracts.RawFundamentals) decimal.NullDecimal {
	if raw.ForwardPE.Valid {
		return raw.ForwardPE
	}
	return raw.TrailingPE
}

// ChooseGrowthFraction picks the expected earnings growth: analyst trend
// (+1y, 0y, +2y), then the direct earnings growth, then the EPS-implied growth.
func ChooseGrowthFraction(raw *contracts.RawFundamentals) decimal.NullDecimal {
	for _, period := range trendPeriods {
		for _, entry := range raw.GrowthTrend {
			if entry.Period == period && entry.Growth.Valid {
				return entry.Growth
			}
		}
	}

	if raw.EarningsGrowth.Valid {
		return raw.EarningsGrowth
	}

	if raw.ForwardEps.Valid && raw.TrailingEps.Valid && !raw.TrailingEps.Decimal.IsZero() {
		diff := raw.ForwardEps.Decimal.Sub(raw.TrailingEps.Decimal)
		return decimal.NewNullDecimal(diff.Div(raw.TrailingEps.Decimal.Abs()))
	}

	return decimal.NullDecimal{}
}
