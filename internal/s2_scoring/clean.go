package s2_scoring

import "github.com/shopspring/decimal"

var (
	// undefinedPeg replaces a non-positive PEG: undefined or negative earnings
	// are treated as mediocre rather than extreme
	undefinedPeg = decimal.NewFromInt(3)
	// metricCap caps PEG and debt-to-equity outliers
	metricCap = decimal.NewFromInt(1000)
)

// CleanPeg maps PEG <= 0 to 3.0 and caps it at 1000
func CleanPeg(v decimal.Decimal) decimal.Decimal {
	if !v.IsPositive() {
		return undefinedPeg
	}
	if v.GreaterThan(metricCap) {
		return metricCap
	}
	return v
}

// CleanDebtToEquity floors debt-to-equity at 0 and caps it at 1000
func CleanDebtToEquity(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(metricCap) {
		return metricCap
	}
	return v
}
