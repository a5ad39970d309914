package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtToEquityConvention is how a data source expresses debt-to-equity
type DebtToEquityConvention string

const (
	DebtToEquityRatio   DebtToEquityConvention = "ratio"   // 0.85
	DebtToEquityPercent DebtToEquityConvention = "percent" // 85.0
)

// RawFundamentals is the fixed record a data source produces for a symbol.
// Every numeric may be absent.
// ⭐ SSOT: Data Source → S1 입력
type RawFundamentals struct {
	Symbol   string
	AsOf     time.Time
	Currency string

	RevenueYearly  []YearValue
	EarningsYearly []YearValue

	// 현금흐름 후보 (우선순위: FreeCashFlow → CashFlowStatementFreeCashFlow → OCF - CapEx)
	FreeCashFlow                  decimal.NullDecimal
	CashFlowStatementFreeCashFlow decimal.NullDecimal
	OperatingCashFlow             decimal.NullDecimal
	CapitalExpenditure            decimal.NullDecimal // 양수(지출 크기)로 정규화됨

	DebtToEquity           decimal.NullDecimal
	DebtToEquityConvention DebtToEquityConvention

	// 밸류에이션 / 성장 추정
	ForwardPE      decimal.NullDecimal
	TrailingPE     decimal.NullDecimal
	GrowthTrend    []TrendEntry
	EarningsGrowth decimal.NullDecimal
	ForwardEps     decimal.NullDecimal
	TrailingEps    decimal.NullDecimal

	ReturnOnEquity decimal.NullDecimal

	Esg EsgScores
}

// TrendEntry is an analyst growth estimate for a period such as "0y", "+1y"
type TrendEntry struct {
	Period string
	Growth decimal.NullDecimal
}
