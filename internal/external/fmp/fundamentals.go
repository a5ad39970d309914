package fmp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/jsontree"
)

// incomeHistoryYears is how many annual income statements feed the growth series
const incomeHistoryYears = 5

// statements holds the raw endpoint payloads of one symbol
type statements struct {
	income   []jsontree.Tree
	growth   []jsontree.Tree
	cashFlow []jsontree.Tree
	ratios   []jsontree.Tree
	metrics  []jsontree.Tree
	esg      contracts.EsgScores
}

func (s *statements) empty() bool {
	return len(s.income) == 0 && len(s.growth) == 0 && len(s.cashFlow) == 0 &&
		len(s.ratios) == 0 && len(s.metrics) == 0
}

// FetchRaw fetches the statement endpoints and ESG concurrently.
// Implements contracts.DataSource.
func (c *Client) FetchRaw(ctx context.Context, symbol string) (*contracts.RawFundamentals, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var st statements
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.income, err = c.getList(gctx, "income-statement", symbol, incomeHistoryYears)
		return err
	})
	g.Go(func() (err error) {
		st.growth, err = c.getList(gctx, "financial-growth", symbol, 1)
		return err
	})
	g.Go(func() (err error) {
		st.cashFlow, err = c.getList(gctx, "cash-flow-statement", symbol, 1)
		return err
	})
	g.Go(func() (err error) {
		st.ratios, err = c.getList(gctx, "ratios", symbol, 1)
		return err
	})
	g.Go(func() (err error) {
		st.metrics, err = c.getList(gctx, "key-metrics", symbol, 1)
		return err
	})

	// ESG는 채점에 쓰이지 않으므로 실패해도 계속 진행
	if c.esg != nil {
		g.Go(func() error {
			esg, err := c.esg.FetchEsg(gctx, symbol)
			if err != nil {
				if !errors.Is(err, contracts.ErrNoData) {
					c.logger.WithError(err).WithSymbol(symbol).Warn("ESG fetch failed, continuing without ESG")
				}
				return nil
			}
			st.esg = esg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if st.empty() {
		return nil, fmt.Errorf("fmp %s: %w", symbol, contracts.ErrNoData)
	}

	raw := st.toRaw(symbol)

	c.logger.WithFields(map[string]interface{}{
		"symbol":        symbol,
		"as_of":         raw.AsOf.Format("2006-01-02"),
		"revenue_years": len(raw.RevenueYearly),
		"has_esg":       raw.Esg.HasData(),
	}).Debug("Fetched FMP fundamentals")

	return raw, nil
}

// toRaw maps the endpoint payloads onto RawFundamentals
func (s *statements) toRaw(symbol string) *contracts.RawFundamentals {
	raw := &contracts.RawFundamentals{
		Symbol:                 symbol,
		DebtToEquityConvention: contracts.DebtToEquityRatio, // FMP는 비율(0.85)
		Esg:                    s.esg,
	}

	for _, stmt := range s.income {
		year, ok := fiscalYear(stmt)
		if !ok {
			continue
		}
		raw.RevenueYearly = append(raw.RevenueYearly, contracts.YearValue{Year: year, Value: stmt.Decimal("$.revenue")})
		raw.EarningsYearly = append(raw.EarningsYearly, contracts.YearValue{Year: year, Value: stmt.Decimal("$.netIncome")})
	}

	if len(s.cashFlow) > 0 {
		cf := s.cashFlow[0]
		raw.CashFlowStatementFreeCashFlow = cf.Decimal("$.freeCashFlow")
		raw.OperatingCashFlow = cf.Decimal("$.operatingCashFlow")
		if capex := cf.Decimal("$.capitalExpenditure"); capex.Valid {
			capex.Decimal = capex.Decimal.Abs()
			raw.CapitalExpenditure = capex
		}
	}

	if len(s.ratios) > 0 {
		r := s.ratios[0]
		raw.DebtToEquity = r.Decimal("$.debtToEquityRatio")
		raw.TrailingPE = r.Decimal("$.priceToEarningsRatio")
	}

	if len(s.growth) > 0 {
		raw.EarningsGrowth = s.growth[0].Decimal("$.epsgrowth")
	}

	if len(s.metrics) > 0 {
		raw.ReturnOnEquity = s.metrics[0].Decimal("$.returnOnEquity")
	}

	// 기준일/통화: 가장 최근 보고서에서
	for _, latest := range [][]jsontree.Tree{s.cashFlow, s.income, s.growth, s.ratios} {
		if len(latest) == 0 {
			continue
		}
		if raw.AsOf.IsZero() {
			raw.AsOf = reportDate(latest[0])
		}
		if raw.Currency == "" {
			raw.Currency, _ = latest[0].String("$.reportedCurrency")
		}
	}

	return raw
}

// fiscalYear reads "fiscalYear" ("2024"), falling back to the report date's year
func fiscalYear(stmt jsontree.Tree) (int, bool) {
	if y, ok := stmt.Int("$.fiscalYear"); ok && y > 0 {
		return int(y), true
	}
	if d := reportDate(stmt); !d.IsZero() {
		return d.Year(), true
	}
	return 0, false
}

func reportDate(stmt jsontree.Tree) time.Time {
	s, ok := stmt.String("$.date")
	if !ok {
		return time.Time{}
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return d
}
