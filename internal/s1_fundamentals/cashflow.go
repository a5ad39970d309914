package s1_fundamentals

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// ExtractFreeCashFlow picks the first available free cash flow:
// direct field, then the cash-flow statement field, then operating cash flow
// minus capital expenditure when both are present. Otherwise 0.
func ExtractFreeCashFlow(raw *contracts.RawFundamentals) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	if raw.FreeCashFlow.Valid {
		return raw.FreeCashFlow.Decimal
	}
	if raw.CashFlowStatementFreeCashFlow.Valid {
		return raw.CashFlowStatementFreeCashFlow.Decimal
	}
	if raw.OperatingCashFlow.Valid && raw.CapitalExpenditure.Valid {
		return raw.OperatingCashFlow.Decimal.Sub(raw.CapitalExpenditure.Decimal)
	}
	return decimal.Zero
}
