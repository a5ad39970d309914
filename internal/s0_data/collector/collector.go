package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/creasty/defaults"
	"golang.org/x/time/rate"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/internal/s1_fundamentals"
	"github.com/wonny/balancedrisk/pkg/logger"
	"github.com/wonny/balancedrisk/pkg/metrics"
)

// Invalidator drops cached results derived from a symbol's snapshot
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// Collector fetches raw fundamentals, derives snapshots and stores them
// ⭐ SSOT: 펀더멘털 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	source    contracts.DataSource
	snapshots contracts.SnapshotRepository
	tracked   contracts.TrackedSymbolRepository
	calc      *s1_fundamentals.Calculator

	invalidator Invalidator
	metrics     *metrics.Recorder
	limiter     *rate.Limiter
	now         func() time.Time

	logger *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers    int           `default:"4"`    // Number of concurrent workers
	StaleAfter time.Duration `default:"168h"` // 이보다 최근에 갱신된 종목은 건너뜀
	Force      bool          // true면 신선도와 무관하게 전부 갱신
}

// Normalize fills unset fields with their defaults
func (c *Config) Normalize() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("collector config defaults: %w", err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("collector workers must be > 0, got %d", c.Workers)
	}
	return nil
}

// NewCollector creates a new Collector instance
func NewCollector(
	source contracts.DataSource,
	snapshots contracts.SnapshotRepository,
	tracked contracts.TrackedSymbolRepository,
	calc *s1_fundamentals.Calculator,
	log *logger.Logger,
) *Collector {
	return &Collector{
		source:    source,
		snapshots: snapshots,
		tracked:   tracked,
		calc:      calc,
		now:       time.Now,
		logger:    log.WithField("module", "collector"),
	}
}

// WithInvalidator sets the cache invalidated after each stored snapshot
func (c *Collector) WithInvalidator(inv Invalidator) *Collector {
	c.invalidator = inv
	return c
}

// WithMetrics sets the Prometheus recorder
func (c *Collector) WithMetrics(rec *metrics.Recorder) *Collector {
	c.metrics = rec
	return c
}

// WithRateLimit paces data source calls to perSecond (0 disables pacing)
func (c *Collector) WithRateLimit(perSecond float64) *Collector {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	return c
}

// FetchResult represents the result of a refresh of one symbol
type FetchResult struct {
	Symbol  string
	Skipped bool // 최근 갱신되어 건너뜀
	Error   error
}

// Summary counts results by outcome
type Summary struct {
	Refreshed int
	Skipped   int
	Failed    int
}

// Summarize counts results by outcome
func Summarize(results []FetchResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Error != nil:
			s.Failed++
		case r.Skipped:
			s.Skipped++
		default:
			s.Refreshed++
		}
	}
	return s
}

// RefreshSymbol fetches symbol now, stores the derived snapshot and returns it
func (c *Collector) RefreshSymbol(ctx context.Context, symbol string) (*contracts.FundamentalSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("refresh: empty symbol")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("refresh %s: rate limit wait: %w", symbol, err)
		}
	}

	raw, err := c.source.FetchRaw(ctx, symbol)
	if err != nil {
		c.metrics.RecordRefresh(c.source.Name(), "error")
		return nil, fmt.Errorf("fetch %s from %s: %w", symbol, c.source.Name(), err)
	}
	if raw.Symbol == "" {
		raw.Symbol = symbol
	}

	snap := c.calc.Compute(raw)
	if err := c.snapshots.Upsert(ctx, &snap); err != nil {
		c.metrics.RecordRefresh(c.source.Name(), "error")
		return nil, fmt.Errorf("store %s: %w", symbol, err)
	}
	c.metrics.RecordRefresh(c.source.Name(), "ok")

	if c.invalidator != nil {
		if err := c.invalidator.Invalidate(ctx, snap.Symbol); err != nil {
			c.logger.WithError(err).WithSymbol(snap.Symbol).Warn("Failed to invalidate cached score")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": snap.Symbol,
		"date":   snap.Date.Format("2006-01-02"),
		"source": c.source.Name(),
	}).Info("Upserted fundamental snapshot")

	return &snap, nil
}

// RefreshAll refreshes every tracked symbol whose snapshot is stale
func (c *Collector) RefreshAll(ctx context.Context, cfg Config) ([]FetchResult, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	// 1. Get tracked symbols
	tracked, err := c.tracked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked symbols: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol_count": len(tracked),
		"workers":      cfg.Workers,
		"stale_after":  cfg.StaleAfter.String(),
		"force":        cfg.Force,
	}).Info("Starting fundamentals refresh")

	// 2. Create worker pool
	results := make([]FetchResult, 0, len(tracked))
	resultCh := make(chan FetchResult, len(tracked))
	symbolCh := make(chan string, len(tracked))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.refreshWorker(ctx, workerID, cfg, symbolCh, resultCh)
		}(i)
	}

	// Send symbols to workers
	for _, ts := range tracked {
		symbolCh <- ts.Symbol
	}
	close(symbolCh)

	// Wait for all workers to complete
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for result := range resultCh {
		results = append(results, result)
	}

	summary := Summarize(results)
	c.logger.WithFields(map[string]interface{}{
		"refreshed": summary.Refreshed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"total":     len(results),
	}).Info("Fundamentals refresh completed")

	return results, nil
}

// refreshWorker processes symbols until symbolCh is drained
func (c *Collector) refreshWorker(ctx context.Context, workerID int, cfg Config, symbolCh <-chan string, resultCh chan<- FetchResult) {
	for symbol := range symbolCh {
		select {
		case <-ctx.Done():
			resultCh <- FetchResult{Symbol: symbol, Error: ctx.Err()}
			continue
		default:
		}

		if !cfg.Force {
			fresh, err := c.isFresh(ctx, symbol, cfg.StaleAfter)
			if err != nil {
				resultCh <- FetchResult{Symbol: symbol, Error: err}
				continue
			}
			if fresh {
				c.metrics.RecordRefresh(c.source.Name(), "skipped")
				c.logger.WithFields(map[string]interface{}{
					"worker": workerID,
					"symbol": symbol,
				}).Debug("Skipping recently updated symbol")
				resultCh <- FetchResult{Symbol: symbol, Skipped: true}
				continue
			}
		}

		if _, err := c.RefreshSymbol(ctx, symbol); err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"symbol": symbol,
			}).Error("Failed to refresh symbol")
			resultCh <- FetchResult{Symbol: symbol, Error: err}
			continue
		}

		resultCh <- FetchResult{Symbol: symbol}
	}
}

// isFresh reports whether symbol was stored less than staleAfter ago
func (c *Collector) isFresh(ctx context.Context, symbol string, staleAfter time.Duration) (bool, error) {
	updated, err := c.snapshots.GetUpdateDate(ctx, symbol)
	if errors.Is(err, contracts.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check freshness of %s: %w", symbol, err)
	}
	snap := contracts.FundamentalSnapshot{UpdateDate: updated}
	return !snap.IsStale(c.now(), staleAfter), nil
}
