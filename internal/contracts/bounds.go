package contracts

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Metric names one of the seven scored fundamentals
type Metric string

const (
	MetricOneYearSalesGrowth     Metric = "one_year_sales_growth"
	MetricFourYearSalesGrowth    Metric = "four_year_sales_growth"
	MetricFourYearEarningsGrowth Metric = "four_year_earnings_growth"
	MetricFreeCashFlow           Metric = "free_cash_flow"
	MetricDebtToEquity           Metric = "debt_to_equity"
	MetricPegRatio               Metric = "peg_ratio"
	MetricReturnOnEquity         Metric = "return_on_equity"
)

// AllMetrics lists the scored metrics in display order
// ⭐ SSOT: 채점 지표 목록
var AllMetrics = []Metric{
	MetricPegRatio,
	MetricReturnOnEquity,
	MetricOneYearSalesGrowth,
	MetricFourYearEarningsGrowth,
	MetricFourYearSalesGrowth,
	MetricFreeCashFlow,
	MetricDebtToEquity,
}

// MetricBounds is an acceptable window for one metric. Either side may be unset.
type MetricBounds struct {
	Lower *decimal.Decimal `json:"lower" yaml:"lower"`
	Upper *decimal.Decimal `json:"upper" yaml:"upper"`
}

// NewBounds builds MetricBounds from optional float anchors
func NewBounds(lower, upper *float64) MetricBounds {
	var b MetricBounds
	if lower != nil {
		d := decimal.NewFromFloat(*lower)
		b.Lower = &d
	}
	if upper != nil {
		d := decimal.NewFromFloat(*upper)
		b.Upper = &d
	}
	return b
}

// HasLower reports whether the lower bound is set
func (b MetricBounds) HasLower() bool { return b.Lower != nil }

// HasUpper reports whether the upper bound is set
func (b MetricBounds) HasUpper() bool { return b.Upper != nil }

func (b MetricBounds) String() string {
	return fmt.Sprintf("[%s, %s]", boundString(b.Lower), boundString(b.Upper))
}

func boundString(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// BoundsConfig holds one MetricBounds per scored metric.
// It is passed by value into every scoring call.
// ⭐ SSOT: 지표별 허용 구간
type BoundsConfig struct {
	OneYearSalesGrowth     MetricBounds `json:"one_year_sales_growth"`
	FourYearSalesGrowth    MetricBounds `json:"four_year_sales_growth"`
	FourYearEarningsGrowth MetricBounds `json:"four_year_earnings_growth"`
	FreeCashFlow           MetricBounds `json:"free_cash_flow"`
	DebtToEquity           MetricBounds `json:"debt_to_equity"`
	PegRatio               MetricBounds `json:"peg_ratio"`
	ReturnOnEquity         MetricBounds `json:"return_on_equity"`
}

// For returns the bounds of metric m
func (c BoundsConfig) For(m Metric) MetricBounds {
	switch m {
	case MetricOneYearSalesGrowth:
		return c.OneYearSalesGrowth
	case MetricFourYearSalesGrowth:
		return c.FourYearSalesGrowth
	case MetricFourYearEarningsGrowth:
		return c.FourYearEarningsGrowth
	case MetricFreeCashFlow:
		return c.FreeCashFlow
	case MetricDebtToEquity:
		return c.DebtToEquity
	case MetricPegRatio:
		return c.PegRatio
	case MetricReturnOnEquity:
		return c.ReturnOnEquity
	default:
		return MetricBounds{}
	}
}

// With returns a copy of c with the bounds of metric m replaced
func (c BoundsConfig) With(m Metric, b MetricBounds) BoundsConfig {
	switch m {
	case MetricOneYearSalesGrowth:
		c.OneYearSalesGrowth = b
	case MetricFourYearSalesGrowth:
		c.FourYearSalesGrowth = b
	case MetricFourYearEarningsGrowth:
		c.FourYearEarningsGrowth = b
	case MetricFreeCashFlow:
		c.FreeCashFlow = b
	case MetricDebtToEquity:
		c.DebtToEquity = b
	case MetricPegRatio:
		c.PegRatio = b
	case MetricReturnOnEquity:
		c.ReturnOnEquity = b
	}
	return c
}
