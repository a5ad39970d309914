package yahoo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/jsontree"
)

// FetchEsg fetches only the esgScores module for symbol.
// Returns ErrNoData when Yahoo has no ESG rating for it.
func (c *Client) FetchEsg(ctx context.Context, symbol string) (contracts.EsgScores, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	res, err := c.quoteSummary(ctx, symbol, []string{"esgScores"})
	if err != nil {
		return contracts.EsgScores{}, err
	}

	esg := parseEsg(res)
	if !esg.HasData() {
		return contracts.EsgScores{}, fmt.Errorf("esg %s: %w", symbol, contracts.ErrNoData)
	}
	return esg, nil
}

// parseEsg reads the esgScores module. The publication date is the first day
// of the rating month when both rating year and month are valid.
func parseEsg(res jsontree.Tree) contracts.EsgScores {
	esg := contracts.EsgScores{
		Total:       res.Decimal("$.esgScores.totalEsg.raw"),
		Environment: res.Decimal("$.esgScores.environmentScore.raw"),
		Social:      res.Decimal("$.esgScores.socialScore.raw"),
		Governance:  res.Decimal("$.esgScores.governanceScore.raw"),
	}

	year, okYear := res.Int("$.esgScores.ratingYear")
	month, okMonth := res.Int("$.esgScores.ratingMonth")
	if okYear && okMonth && month >= 1 && month <= 12 {
		pub := time.Date(int(year), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		esg.PublicationDate = &pub
	}

	return esg
}
