package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
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

const quoteSummaryJSON = `{
  "quoteSummary": {
    "result": [{
      "financialData": {
        "financialCurrency": "usd",
        "freeCashflow": {"raw": 84726874112, "fmt": "84.73B"},
        "operatingCashflow": {"raw": 118254000128, "fmt": "118.25B"},
        "debtToEquity": {"raw": 181.3, "fmt": "181.30"},
        "returnOnEquity": {"raw": 1.6459, "fmt": "164.59%"},
        "earningsGrowth": {"raw": 0.11, "fmt": "11.00%"}
      },
      "defaultKeyStatistics": {
        "forwardPE": {"raw": 28.5, "fmt": "28.50"},
        "forwardEps": {"raw": 7.1},
        "trailingEps": {"raw": 6.4},
        "mostRecentQuarter": {"raw": 1719705600, "fmt": "2024-06-30"}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 31.2},
        "currency": "USD"
      },
      "cashflowStatementHistory": {
        "cashflowStatements": [
          {"endDate": {"raw": 1696032000}, "totalCashFromOperatingActivities": {"raw": 110543000000}, "capitalExpenditures": {"raw": -10959000000}},
          {"endDate": {"raw": 1664496000}, "totalCashFromOperatingActivities": {"raw": 122151000000}, "capitalExpenditures": {"raw": -10708000000}}
        ]
      },
      "earnings": {
        "financialsChart": {
          "yearly": [
            {"date": 2020, "revenue": {"raw": 274515000000}, "earnings": {"raw": 57411000000}},
            {"date": 2021, "revenue": {"raw": 365817000000}, "earnings": {"raw": 94680000000}},
            {"date": 2022, "revenue": {"raw": 394328000000}, "earnings": {"raw": 99803000000}},
            {"date": 2023, "revenue": {"raw": 383285000000}, "earnings": {}}
          ]
        }
      },
      "earningsTrend": {
        "trend": [
          {"period": "0q", "growth": {"raw": 0.05}},
          {"period": "0y", "growth": {"raw": 0.09}},
          {"period": "+1y", "growth": {"raw": 0.12}}
        ]
      },
      "esgScores": {
        "totalEsg": {"raw": 17.2},
        "environmentScore": {"raw": 0.6},
        "socialScore": {"raw": 7.4},
        "governanceScore": {"raw": 9.2},
        "ratingYear": 2024,
        "ratingMonth": 9
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := httputil.New(logger.Nop()).DisableRetry()
	return NewClient(httpClient, config.YahooConfig{BaseURL: server.URL, APIKey: "secret"}, logger.Nop())
}

func TestFetchRaw(t *testing.T) {
	var gotPath, gotModules, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotModules = r.URL.Query().Get("modules")
		gotKey = r.Header.Get("X-API-KEY")
		_, _ = w.Write([]byte(quoteSummaryJSON))
	})

	raw, err := client.FetchRaw(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "/finance/quoteSummary/AAPL", gotPath)
	assert.Contains(t, gotModules, "earningsTrend")
	assert.Contains(t, gotModules, "esgScores")
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, SourceName, client.Name())

	assert.Equal(t, "AAPL", raw.Symbol)
	assert.Equal(t, "usd", raw.Currency)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), raw.AsOf)

	assert.True(t, raw.FreeCashFlow.Decimal.Equal(decimal.NewFromInt(84726874112)))
	assert.True(t, raw.DebtToEquity.Decimal.Equal(decimal.RequireFromString("181.3")))
	assert.Equal(t, contracts.DebtToEquityPercent, raw.DebtToEquityConvention)
	assert.True(t, raw.ForwardPE.Decimal.Equal(decimal.RequireFromString("28.5")))
	assert.True(t, raw.TrailingPE.Decimal.Equal(decimal.RequireFromString("31.2")))

	// capex is normalised to a positive outflow
	require.True(t, raw.CapitalExpenditure.Valid)
	assert.True(t, raw.CapitalExpenditure.Decimal.Equal(decimal.NewFromInt(10959000000)))
	assert.False(t, raw.CashFlowStatementFreeCashFlow.Valid)

	require.Len(t, raw.RevenueYearly, 4)
	assert.Equal(t, 2020, raw.RevenueYearly[0].Year)
	assert.False(t, raw.EarningsYearly[3].Value.Valid)

	require.Len(t, raw.GrowthTrend, 3)
	assert.Equal(t, "+1y", raw.GrowthTrend[2].Period)

	require.NotNil(t, raw.Esg.PublicationDate)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), *raw.Esg.PublicationDate)
	assert.True(t, raw.Esg.Total.Decimal.Equal(decimal.RequireFromString("17.2")))
}

func TestFetchRaw_EmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	})

	_, err := client.FetchRaw(context.Background(), "NOPE")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}

func TestFetchRaw_ProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"No fundamentals data found for any of the summaryTypes=financialData"}}}`))
	})

	_, err := client.FetchRaw(context.Background(), "NOPE")
	var se *httputil.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestFetchRaw_ErrorBodyWith200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
	})

	_, err := client.FetchRaw(context.Background(), "NOPE")
	assert.ErrorIs(t, err, contracts.ErrNoData)
	assert.ErrorContains(t, err, "Quote not found")
}

func TestFetchEsg(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantPub bool
	}{
		{
			name:    "full rating",
			body:    `{"quoteSummary":{"result":[{"esgScores":{"totalEsg":{"raw":21.5},"ratingYear":2023,"ratingMonth":12}}]}}`,
			wantPub: true,
		},
		{
			name:    "invalid month",
			body:    `{"quoteSummary":{"result":[{"esgScores":{"totalEsg":{"raw":21.5},"ratingYear":2023,"ratingMonth":13}}]}}`,
			wantPub: false,
		},
		{
			name:    "no esg module",
			body:    `{"quoteSummary":{"result":[{}]}}`,
			wantErr: contracts.ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "esgScores", r.URL.Query().Get("modules"))
				_, _ = w.Write([]byte(tt.body))
			})

			esg, err := client.FetchEsg(context.Background(), "msft")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPub, esg.PublicationDate != nil)
		})
	}
}
