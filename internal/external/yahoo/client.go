package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/config"
	"github.com/wonny/balancedrisk/pkg/httputil"
	"github.com/wonny/balancedrisk/pkg/jsontree"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// SourceName identifies this data source in logs and metrics
const SourceName = "yahoo"

// fundamentalModules are the quoteSummary modules needed for one snapshot
var fundamentalModules = []string{
	"financialData",
	"defaultKeyStatistics",
	"summaryDetail",
	"cashflowStatementHistory",
	"earnings",
	"earningsTrend",
	"esgScores",
}

// Client handles communication with the Yahoo Finance quoteSummary API (yfapi)
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client.
// The API key is sent as X-API-KEY on every request.
func NewClient(httpClient *httputil.Client, cfg config.YahooConfig, log *logger.Logger) *Client {
	if cfg.APIKey != "" {
		httpClient.WithHeader("X-API-KEY", cfg.APIKey)
	}
	httpClient.WithHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "yahoo"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
	}
}

// Name implements contracts.DataSource
func (c *Client) Name() string {
	return SourceName
}

// quoteSummary fetches modules for symbol and returns the first result node
func (c *Client) quoteSummary(ctx context.Context, symbol string, modules []string) (jsontree.Tree, error) {
	params := url.Values{}
	params.Set("lang", "en")
	params.Set("region", "US")
	params.Set("modules", strings.Join(modules, ","))

	fullURL := fmt.Sprintf("%sfinance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	body, err := c.httpClient.GetBytes(ctx, fullURL)
	if err != nil {
		return jsontree.Tree{}, fmt.Errorf("quoteSummary %s: %w", symbol, err)
	}

	tree, err := jsontree.Parse(body)
	if err != nil {
		return jsontree.Tree{}, fmt.Errorf("quoteSummary %s: %w", symbol, err)
	}

	if msg, ok := tree.String("$.quoteSummary.error.description"); ok {
		return jsontree.Tree{}, fmt.Errorf("quoteSummary %s: %s: %w", symbol, msg, contracts.ErrNoData)
	}

	results := tree.Each("$.quoteSummary.result")
	if len(results) == 0 {
		return jsontree.Tree{}, fmt.Errorf("quoteSummary %s: empty result: %w", symbol, contracts.ErrNoData)
	}

	return results[0], nil
}
