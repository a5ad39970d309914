package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wonny/balancedrisk/internal/boundsconfig"
	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/internal/external/fmp"
	"github.com/wonny/balancedrisk/internal/external/yahoo"
	"github.com/wonny/balancedrisk/internal/s0_data"
	"github.com/wonny/balancedrisk/internal/s0_data/collector"
	"github.com/wonny/balancedrisk/internal/s0_data/quality"
	"github.com/wonny/balancedrisk/internal/s1_fundamentals"
	"github.com/wonny/balancedrisk/internal/s2_scoring"
	"github.com/wonny/balancedrisk/pkg/config"
	"github.com/wonny/balancedrisk/pkg/database"
	"github.com/wonny/balancedrisk/pkg/httputil"
	"github.com/wonny/balancedrisk/pkg/logger"
	"github.com/wonny/balancedrisk/pkg/metrics"
	"github.com/wonny/balancedrisk/pkg/redis"
)

// app holds the wired components shared by the commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	metrics *metrics.Recorder

	snapshots *s0_data.SnapshotRepository
	tracked   *s0_data.TrackedSymbolRepository
	scoring   *s2_scoring.Service
	collector *collector.Collector
	bounds    *boundsconfig.Snapshot
}

// newApp loads configuration and wires every component.
// Logs go to logOut so command output on stdout stays clean.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if boundsFile != "" {
		cfg.BoundsFile = boundsFile
	}

	// 2. Initialize logger
	log := logger.NewWithWriter(cfg, logOut)

	// 3. Load bounds
	boundsCfg, boundsYAML, err := boundsconfig.LoadOrDefault(cfg.BoundsFile)
	if err != nil {
		return nil, fmt.Errorf("load bounds: %w", err)
	}
	for _, w := range boundsconfig.Warn(boundsCfg) {
		log.WithFields(map[string]interface{}{
			"code":    w.Code,
			"message": w.Message,
		}).Warn("Bounds configuration warning")
	}
	boundsSnap, err := boundsconfig.NewSnapshot(boundsCfg, boundsYAML)
	if err != nil {
		return nil, fmt.Errorf("hash bounds: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"name": boundsSnap.Name,
		"hash": boundsSnap.ConfigHash,
		"file": cfg.BoundsFile,
	}).Info("Loaded bounds configuration")

	// 4. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := s0_data.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	// 5. Redis (optional)
	rdb, err := redis.New(cfg, log.WithModule("redis"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var rec *metrics.Recorder
	if cfg.MetricsEnabled {
		rec = metrics.New()
	}

	// 6. Repositories
	snapshots := s0_data.NewSnapshotRepository(db.Pool)
	tracked := s0_data.NewTrackedSymbolRepository(db.Pool)

	// 7. Scoring service
	scoring := s2_scoring.NewService(snapshots, boundsCfg.ToBounds(), log.WithModule("scoring")).
		WithCache(redis.NewCache(rdb, "balancedrisk"), cfg.ScoreCacheTTL).
		WithMetrics(rec)

	// 8. Data source + collector
	source, err := newDataSource(cfg, rdb, log)
	if err != nil {
		db.Close()
		_ = rdb.Close()
		return nil, err
	}
	col := collector.NewCollector(source, snapshots, tracked, s1_fundamentals.NewCalculator(log.WithModule("s1_fundamentals")), log).
		WithInvalidator(scoring).
		WithMetrics(rec).
		WithRateLimit(cfg.Fetch.RatePerSecond)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		redis:     rdb,
		metrics:   rec,
		snapshots: snapshots,
		tracked:   tracked,
		scoring:   scoring,
		collector: col,
		bounds:    boundsSnap,
	}, nil
}

// newDataSource builds the adapter selected by DATA_SOURCE.
// Each external API gets its own HTTP client, breaker and shared rate limit.
func newDataSource(cfg *config.Config, rdb *redis.Client, log *logger.Logger) (contracts.DataSource, error) {
	limiter := redis.NewRateLimiter(rdb, "balancedrisk")

	yahooHTTP := httputil.NewWithTimeout(log, cfg.Fetch.Timeout).
		WithBreaker(yahoo.SourceName).
		WithRateLimiter(limiter, redis.YahooRateLimit)
	yahooClient := yahoo.NewClient(yahooHTTP, cfg.Yahoo, log)

	switch cfg.DataSource {
	case config.DataSourceYahoo:
		return yahooClient, nil
	case config.DataSourceFMP:
		fmpHTTP := httputil.NewWithTimeout(log, cfg.Fetch.Timeout).
			WithBreaker(fmp.SourceName).
			WithRateLimiter(limiter, redis.FMPRateLimit)
		return fmp.NewClient(fmpHTTP, cfg.FMP, yahooClient, log), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

// qualityGate checks universe coverage against FETCH_STALE_AFTER
func (a *app) qualityGate() *quality.QualityGate {
	return quality.NewQualityGate(a.snapshots, a.tracked, quality.DefaultConfig(a.cfg.Fetch.StaleAfter))
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// newCLIApp wires the app for one-shot commands, logging to stderr
func newCLIApp(ctx context.Context) (*app, error) {
	return newApp(ctx, os.Stderr)
}
