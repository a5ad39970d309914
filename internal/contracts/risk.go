package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskScore is the balanced-risk result for one symbol
// ⭐ SSOT: S2 채점 결과
type RiskScore struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Currency string    `json:"currency,omitempty"`

	// 채점에 사용된 지표 값 (클리닝 전 원값)
	OneYearSalesGrowth     decimal.Decimal `json:"one_year_sales_growth"`
	FourYearSalesGrowth    decimal.Decimal `json:"four_year_sales_growth"`
	FourYearEarningsGrowth decimal.Decimal `json:"four_year_earnings_growth"`
	FreeCashFlow           decimal.Decimal `json:"free_cash_flow"`
	DebtToEquity           decimal.Decimal `json:"debt_to_equity"`
	PegRatio               decimal.Decimal `json:"peg_ratio"`
	ReturnOnEquity         decimal.Decimal `json:"return_on_equity"`

	Bounds BoundsConfig `json:"bounds"`

	Score      int                `json:"score"`      // 1 ~ 10
	Composite  float64            `json:"composite"`  // 0.0 ~ 1.0
	Components map[Metric]float64 `json:"components"` // 지표별 정규화 점수
}

// IsTopTier reports a score in the upper band (8-10)
func (r *RiskScore) IsTopTier() bool {
	return r.Score >= 8
}
