package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/config"
	"github.com/wonny/balancedrisk/pkg/httputil"
	"github.com/wonny/balancedrisk/pkg/jsontree"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// SourceName identifies this data source in logs and metrics
const SourceName = "fmp"

// EsgProvider supplies ESG ratings, which FMP's stable API does not carry
type EsgProvider interface {
	FetchEsg(ctx context.Context, symbol string) (contracts.EsgScores, error)
}

// Client handles communication with the Financial Modeling Prep stable API
// ⭐ SSOT: FMP API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	esg        EsgProvider
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new FMP client. esg may be nil.
func NewClient(httpClient *httputil.Client, cfg config.FMPConfig, esg EsgProvider, log *logger.Logger) *Client {
	httpClient.WithHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		esg:        esg,
		logger:     log.WithField("module", "fmp"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/",
		apiKey:     cfg.APIKey,
	}
}

// Name implements contracts.DataSource
func (c *Client) Name() string {
	return SourceName
}

// getList fetches endpoint for symbol and returns the array elements, newest first.
// An empty array is not an error.
func (c *Client) getList(ctx context.Context, endpoint, symbol string, limit int) ([]jsontree.Tree, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	body, err := c.httpClient.GetBytes(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", endpoint, symbol, err)
	}

	tree, err := jsontree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", endpoint, symbol, err)
	}

	// FMP은 오류를 {"Error Message": "..."} 객체로 반환함
	if obj, ok := tree.Root().(map[string]any); ok {
		if msg, ok := obj["Error Message"].(string); ok {
			return nil, fmt.Errorf("%s %s: %s", endpoint, symbol, msg)
		}
		return nil, fmt.Errorf("%s %s: unexpected object response", endpoint, symbol)
	}

	items := tree.Each("$")
	if len(items) == 0 {
		c.logger.WithFields(map[string]interface{}{
			"endpoint": endpoint,
			"symbol":   symbol,
		}).Warn("Received empty response")
	}
	return items, nil
}
