package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundamentalSnapshot is the canonical metric set of one symbol at one reporting date
// ⭐ SSOT: S1 → S0 저장 → S2 채점으로 전달되는 펀더멘털 스냅샷
type FundamentalSnapshot struct {
	Symbol     string    `json:"symbol"`      // 대문자, 고유 키
	Date       time.Time `json:"date"`        // 펀더멘털 기준일 (조회 시각 아님)
	UpdateDate time.Time `json:"update_date"` // 저장 시각 (store 소유)
	Currency   string    `json:"currency,omitempty"`

	// 채점 대상 7개 지표 (항상 값이 있음)
	OneYearSalesGrowth     decimal.Decimal `json:"one_year_sales_growth"`
	FourYearSalesGrowth    decimal.Decimal `json:"four_year_sales_growth"`
	FourYearEarningsGrowth decimal.Decimal `json:"four_year_earnings_growth"`
	FreeCashFlow           decimal.Decimal `json:"free_cash_flow"`
	DebtToEquity           decimal.Decimal `json:"debt_to_equity"`
	PegRatio               decimal.Decimal `json:"peg_ratio"`
	ReturnOnEquity         decimal.Decimal `json:"return_on_equity"`

	// 성장률 계산용 연간 시계열 (저장하지 않음)
	RevenueYearly  []YearValue `json:"revenue_yearly,omitempty"`
	EarningsYearly []YearValue `json:"earnings_yearly,omitempty"`

	Esg EsgScores `json:"esg"`
}

// YearValue is one point of an ascending yearly series; Value may be absent
type YearValue struct {
	Year  int                 `json:"year"`
	Value decimal.NullDecimal `json:"value"`
}

// EsgScores carries sustainability ratings. They are displayed, never scored.
type EsgScores struct {
	Total           decimal.NullDecimal `json:"total"`
	Environment     decimal.NullDecimal `json:"environment"`
	Social          decimal.NullDecimal `json:"social"`
	Governance      decimal.NullDecimal `json:"governance"`
	PublicationDate *time.Time          `json:"publication_date,omitempty"`
}

// HasData reports whether any ESG figure is present
func (e EsgScores) HasData() bool {
	return e.Total.Valid || e.Environment.Valid || e.Social.Valid || e.Governance.Valid
}

// Value returns the scored value of metric m
func (s *FundamentalSnapshot) Value(m Metric) decimal.Decimal {
	switch m {
	case MetricOneYearSalesGrowth:
		return s.OneYearSalesGrowth
	case MetricFourYearSalesGrowth:
		return s.FourYearSalesGrowth
	case MetricFourYearEarningsGrowth:
		return s.FourYearEarningsGrowth
	case MetricFreeCashFlow:
		return s.FreeCashFlow
	case MetricDebtToEquity:
		return s.DebtToEquity
	case MetricPegRatio:
		return s.PegRatio
	case MetricReturnOnEquity:
		return s.ReturnOnEquity
	default:
		return decimal.Zero
	}
}

// IsStale reports whether the snapshot was stored longer than maxAge before now
func (s *FundamentalSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	if s.UpdateDate.IsZero() {
		return true
	}
	return now.Sub(s.UpdateDate) >= maxAge
}
