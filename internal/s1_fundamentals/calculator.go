package s1_fundamentals

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// Calculator turns raw fundamentals into the canonical snapshot
// ⭐ SSOT: 파생 지표 계산은 여기서만
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{
		logger: log,
	}
}

// Compute builds the snapshot and logs the derived metrics
func (c *Calculator) Compute(raw *contracts.RawFundamentals) contracts.FundamentalSnapshot {
	snap := ComputeSnapshot(raw)

	c.logger.WithFields(map[string]interface{}{
		"symbol":           snap.Symbol,
		"date":             snap.Date.Format("2006-01-02"),
		"sales_growth_1y":  snap.OneYearSalesGrowth.StringFixed(4),
		"sales_growth_4y":  snap.FourYearSalesGrowth.StringFixed(4),
		"earn_growth_4y":   snap.FourYearEarningsGrowth.StringFixed(4),
		"fcf":              snap.FreeCashFlow.String(),
		"debt_to_equity":   snap.DebtToEquity.StringFixed(4),
		"peg":              snap.PegRatio.StringFixed(4),
		"return_on_equity": snap.ReturnOnEquity.StringFixed(4),
	}).Debug("Computed fundamental snapshot")

	return snap
}

// ComputeSnapshot derives the seven scored metrics from raw.
// Missing inputs fall back to 0; it never fails.
func ComputeSnapshot(raw *contracts.RawFundamentals) contracts.FundamentalSnapshot {
	if raw == nil {
		raw = &contracts.RawFundamentals{}
	}

	revenue := sortedSeries(raw.RevenueYearly)
	earnings := sortedSeries(raw.EarningsYearly)

	peg := DerivePeg(ChoosePriceEarnings(raw), ChooseGrowthFraction(raw))

	return contracts.FundamentalSnapshot{
		Symbol:   strings.ToUpper(strings.TrimSpace(raw.Symbol)),
		Date:     raw.AsOf,
		Currency: strings.ToUpper(strings.TrimSpace(raw.Currency)),

		OneYearSalesGrowth:     ComputeOneYearGrowth(revenue),
		FourYearSalesGrowth:    ComputeChainedGrowth(revenue, DefaultGrowthWindow),
		FourYearEarningsGrowth: ComputeChainedGrowth(earnings, DefaultGrowthWindow),
		FreeCashFlow:           ExtractFreeCashFlow(raw),
		DebtToEquity:           NormalizeDebtToEquity(raw.DebtToEquity, raw.DebtToEquityConvention),
		PegRatio:               orZero(peg),
		ReturnOnEquity:         orZero(raw.ReturnOnEquity),

		RevenueYearly:  revenue,
		EarningsYearly: earnings,
		Esg:            raw.Esg,
	}
}

// sortedSeries returns an ascending-by-year copy
func sortedSeries(in []contracts.YearValue) []contracts.YearValue {
	if len(in) == 0 {
		return nil
	}
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b contracts.YearValue) int {
		return a.Year - b.Year
	})
	return out
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}
