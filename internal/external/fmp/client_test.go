package fmp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/config"
	"github.com/wonny/balancedrisk/pkg/httputil"
	"github.com/wonny/balancedrisk/pkg/logger"
)

var fixtures = map[string]string{
	"/income-statement": `[
		{"date": "2024-09-28", "fiscalYear": "2024", "reportedCurrency": "USD", "revenue": 391035000000, "netIncome": 93736000000},
		{"date": "2023-09-30", "fiscalYear": "2023", "reportedCurrency": "USD", "revenue": 383285000000, "netIncome": 96995000000},
		{"date": "2022-09-24", "reportedCurrency": "USD", "revenue": 394328000000, "netIncome": 99803000000}
	]`,
	"/financial-growth":    `[{"date": "2024-09-28", "epsgrowth": 0.0102}]`,
	"/cash-flow-statement": `[{"date": "2024-09-28", "reportedCurrency": "USD", "freeCashFlow": 108807000000, "operatingCashFlow": 118254000000, "capitalExpenditure": -9447000000}]`,
	"/ratios":              `[{"date": "2024-09-28", "debtToEquityRatio": 1.87, "priceToEarningsRatio": 37.29}]`,
	"/key-metrics":         `[{"date": "2024-09-28", "returnOnEquity": 1.6459}]`,
}

type fakeEsg struct {
	scores contracts.EsgScores
	err    error
}

func (f fakeEsg) FetchEsg(ctx context.Context, symbol string) (contracts.EsgScores, error) {
	return f.scores, f.err
}

type fixtureServer struct {
	mu    sync.Mutex
	paths []string
	body  map[string]string
}

func (s *fixtureServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths = append(s.paths, r.URL.Path)
	s.mu.Unlock()

	if r.URL.Query().Get("apikey") != "key" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	body, ok := s.body[r.URL.Path]
	if !ok {
		body = "[]"
	}
	_, _ = w.Write([]byte(body))
}

func newTestClient(t *testing.T, body map[string]string, esg EsgProvider) (*Client, *fixtureServer) {
	t.Helper()
	fs := &fixtureServer{body: body}
	server := httptest.NewServer(fs)
	t.Cleanup(server.Close)

	httpClient := httputil.New(logger.Nop()).DisableRetry()
	return NewClient(httpClient, config.FMPConfig{BaseURL: server.URL + "/", APIKey: "key"}, esg, logger.Nop()), fs
}

func TestFetchRaw(t *testing.T) {
	total := decimal.NewNullDecimal(decimal.RequireFromString("18.1"))
	client, fs := newTestClient(t, fixtures, fakeEsg{scores: contracts.EsgScores{Total: total}})

	raw, err := client.FetchRaw(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Len(t, fs.paths, 5)
	assert.Equal(t, "AAPL", raw.Symbol)
	assert.Equal(t, "USD", raw.Currency)
	assert.Equal(t, time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC), raw.AsOf)

	require.Len(t, raw.RevenueYearly, 3)
	assert.Equal(t, 2024, raw.RevenueYearly[0].Year)
	assert.Equal(t, 2022, raw.RevenueYearly[2].Year, "year falls back to report date")

	assert.Equal(t, contracts.DebtToEquityRatio, raw.DebtToEquityConvention)
	assert.True(t, raw.DebtToEquity.Decimal.Equal(decimal.RequireFromString("1.87")))
	assert.True(t, raw.TrailingPE.Decimal.Equal(decimal.RequireFromString("37.29")))
	assert.True(t, raw.EarningsGrowth.Decimal.Equal(decimal.RequireFromString("0.0102")))
	assert.True(t, raw.ReturnOnEquity.Decimal.Equal(decimal.RequireFromString("1.6459")))
	assert.True(t, raw.CashFlowStatementFreeCashFlow.Decimal.Equal(decimal.NewFromInt(108807000000)))
	assert.True(t, raw.CapitalExpenditure.Decimal.Equal(decimal.NewFromInt(9447000000)))
	assert.True(t, raw.Esg.Total.Decimal.Equal(total.Decimal))
}

func TestFetchRaw_EsgFailureIsNotFatal(t *testing.T) {
	client, _ := newTestClient(t, fixtures, fakeEsg{err: errors.New("yahoo down")})

	raw, err := client.FetchRaw(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, raw.Esg.HasData())
}

func TestFetchRaw_NoData(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{}, nil)

	_, err := client.FetchRaw(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchRaw_ErrorMessage(t *testing.T) {
	body := map[string]string{}
	for k, v := range fixtures {
		body[k] = v
	}
	body["/ratios"] = `{"Error Message": "Limit Reach . Please upgrade your plan"}`

	client, _ := newTestClient(t, body, nil)

	_, err := client.FetchRaw(context.Background(), "AAPL")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Limit Reach"))
}

func TestFetchRaw_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	httpClient := httputil.New(logger.Nop()).DisableRetry()
	client := NewClient(httpClient, config.FMPConfig{BaseURL: server.URL, APIKey: "key"}, nil, logger.Nop())

	_, err := client.FetchRaw(context.Background(), "AAPL")
	var se *httputil.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, SourceName, client.Name())
}
