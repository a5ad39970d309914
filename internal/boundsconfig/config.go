package boundsconfig

import (
	"time"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// Config is the bounds file: acceptable window per scored metric
type Config struct {
	Meta   Meta   `yaml:"meta" json:"meta"`
	Bounds Bounds `yaml:"bounds" json:"bounds"`
}

// Meta 메타 정보
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Bounds 지표별 허용 구간 (생략된 쪽은 미설정)
type Bounds struct {
	OneYearSalesGrowth     Range `yaml:"one_year_sales_growth" json:"one_year_sales_growth"`
	FourYearSalesGrowth    Range `yaml:"four_year_sales_growth" json:"four_year_sales_growth"`
	FourYearEarningsGrowth Range `yaml:"four_year_earnings_growth" json:"four_year_earnings_growth"`
	FreeCashFlow           Range `yaml:"free_cash_flow" json:"free_cash_flow"`
	DebtToEquity           Range `yaml:"debt_to_equity" json:"debt_to_equity"`
	PegRatio               Range `yaml:"peg_ratio" json:"peg_ratio"`
	ReturnOnEquity         Range `yaml:"return_on_equity" json:"return_on_equity"`
}

// Range is an optional lower/upper pair
type Range struct {
	Lower *float64 `yaml:"lower" json:"lower"`
	Upper *float64 `yaml:"upper" json:"upper"`
}

// Snapshot records which bounds were in effect, for audit logging
type Snapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	Name       string    `json:"name"`
	LoadedAt   time.Time `json:"loaded_at"`
}

func f(v float64) *float64 { return &v }

// Default returns the built-in bounds used when no file is configured
// ⭐ SSOT: 기본 허용 구간
func Default() *Config {
	return &Config{
		Meta: Meta{Name: "default", Version: "1"},
		Bounds: Bounds{
			OneYearSalesGrowth:     Range{Lower: f(0.05)},
			FourYearSalesGrowth:    Range{Lower: f(0.50)},
			FourYearEarningsGrowth: Range{Lower: f(0.10)},
			FreeCashFlow:           Range{Lower: f(0)},
			DebtToEquity:           Range{Lower: f(0), Upper: f(1)},
			PegRatio:               Range{Lower: f(0), Upper: f(2)},
			ReturnOnEquity:         Range{Lower: f(0.15)},
		},
	}
}

// rangeOf returns the file range of metric m
func (b Bounds) rangeOf(m contracts.Metric) Range {
	switch m {
	case contracts.MetricOneYearSalesGrowth:
		return b.OneYearSalesGrowth
	case contracts.MetricFourYearSalesGrowth:
		return b.FourYearSalesGrowth
	case contracts.MetricFourYearEarningsGrowth:
		return b.FourYearEarningsGrowth
	case contracts.MetricFreeCashFlow:
		return b.FreeCashFlow
	case contracts.MetricDebtToEquity:
		return b.DebtToEquity
	case contracts.MetricPegRatio:
		return b.PegRatio
	case contracts.MetricReturnOnEquity:
		return b.ReturnOnEquity
	default:
		return Range{}
	}
}

// ToBounds converts the file into the immutable value passed to the scorer
func (c *Config) ToBounds() contracts.BoundsConfig {
	var out contracts.BoundsConfig
	for _, m := range contracts.AllMetrics {
		r := c.Bounds.rangeOf(m)
		out = out.With(m, contracts.NewBounds(r.Lower, r.Upper))
	}
	return out
}
