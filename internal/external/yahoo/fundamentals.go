package yahoo

import (
	"context"
	"strings"
	"time"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/jsontree"
)

// FetchRaw fetches every module needed for a snapshot in one quoteSummary call.
// Implements contracts.DataSource.
func (c *Client) FetchRaw(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	res, err := c.quoteSummary(ctx, symbol, fundamentalModules)
	if err != nil {
		return nil, err
	}

	raw := parseFundamentals(symbol, res)

	c.logger.WithFields(map[string]interface{}{
		"symbol":        symbol,
		"as_of":         raw.AsOf.Format("2006-01-02"),
		"revenue_years": len(raw.RevenueYearly),
		"trend_entries": len(raw.GrowthTrend),
		"has_esg":       raw.Esg.HasData(),
	}).Debug("Fetched Yahoo fundamentals")

	return raw, nil
}

// parseFundamentals maps a quoteSummary result node onto RawFundamentals.
// Every field is optional; absent modules leave their fields unset.
func parseFundamentals(symbol string, res jsontree.Tree) *contracts.RawFundamentals {
	raw := &contracts.RawFundamentals{
		Symbol:                 symbol,
		AsOf:                   asOf(res),
		FreeCashFlow:           res.Decimal("$.financialData.freeCashflow.raw"),
		OperatingCashFlow:      res.Decimal("$.financialData.operatingCashflow.raw"),
		DebtToEquity:           res.Decimal("$.financialData.debtToEquity.raw"),
		DebtToEquityConvention: contracts.DebtToEquityPercent, // Yahoo는 퍼센트(85.3 = 0.853)
		ReturnOnEquity:         res.Decimal("$.financialData.returnOnEquity.raw"),
		EarningsGrowth:         res.Decimal("$.financialData.earningsGrowth.raw"),
		ForwardPE:              res.Decimal("$.defaultKeyStatistics.forwardPE.raw"),
		TrailingPE:             res.Decimal("$.summaryDetail.trailingPE.raw"),
		ForwardEps:             res.Decimal("$.defaultKeyStatistics.forwardEps.raw"),
		TrailingEps:            res.Decimal("$.defaultKeyStatistics.trailingEps.raw"),
		Esg:                    parseEsg(res),
	}

	if !raw.ForwardPE.Valid {
		raw.ForwardPE = res.Decimal("$.summaryDetail.forwardPE.raw")
	}

	raw.Currency, _ = res.String("$.financialData.financialCurrency")
	if raw.Currency == "" {
		raw.Currency, _ = res.String("$.summaryDetail.currency")
	}

	// 최신 현금흐름표 (cashflowStatements[0]이 가장 최근)
	if statements := res.Each("$.cashflowStatementHistory.cashflowStatements"); len(statements) > 0 {
		latest := statements[0]
		raw.CashFlowStatementFreeCashFlow = latest.Decimal("$.freeCashFlow.raw")
		if !raw.OperatingCashFlow.Valid {
			raw.OperatingCashFlow = latest.Decimal("$.totalCashFromOperatingActivities.raw")
		}
		// Yahoo는 CapEx를 음수(유출)로 보고함
		if capex := latest.Decimal("$.capitalExpenditures.raw"); capex.Valid {
			capex.Decimal = capex.Decimal.Abs()
			raw.CapitalExpenditure = capex
		}
	}

	for _, year := range res.Each("$.earnings.financialsChart.yearly") {
		y, ok := year.Int("$.date")
		if !ok {
			continue
		}
		raw.RevenueYearly = append(raw.RevenueYearly, contracts.YearValue{Year: int(y), Value: year.Decimal("$.revenue.raw")})
		raw.EarningsYearly = append(raw.EarningsYearly, contracts.YearValue{Year: int(y), Value: year.Decimal("$.earnings.raw")})
	}

	for _, entry := range res.Each("$.earningsTrend.trend") {
		period, ok := entry.String("$.period")
		if !ok {
			continue
		}
		raw.GrowthTrend = append(raw.GrowthTrend, contracts.TrendEntry{
			Period: period,
			Growth: entry.Decimal("$.growth.raw"),
		})
	}

	return raw
}

// asOf is the most recent reporting date Yahoo exposes (epoch seconds)
func asOf(res jsontree.Tree) time.Time {
	for _, path := range []string{
		"$.defaultKeyStatistics.mostRecentQuarter.raw",
		"$.defaultKeyStatistics.lastFiscalYearEnd.raw",
	} {
		if sec, ok := res.Int(path); ok && sec > 0 {
			return time.Unix(sec, 0).UTC()
		}
	}
	return time.Time{}
}
