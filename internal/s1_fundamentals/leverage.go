package s1_fundamentals

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// NormalizeDebtToEquity converts a source value to a plain ratio.
// Percent-convention sources (145.2 meaning 1.452) are divided by 100.
func NormalizeDebtToEquity(value decimal.NullDecimal, convention contracts.DebtToEquityConvention) decimal.Decimal {
	if !value.Valid {
		return decimal.Zero
	}
	if convention == contracts.DebtToEquityPercent {
		return value.Decimal.Div(hundred)
	}
	return value.Decimal
}
