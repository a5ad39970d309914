package s2_scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
	"github.com/wonny/balancedrisk/pkg/metrics"
	"github.com/wonny/balancedrisk/pkg/redis"
)

// ResultCache stores computed scores and rankings (*redis.Cache in production)
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Service loads the universe from the metrics store and scores it
type Service struct {
	engine    *Engine
	snapshots contracts.SnapshotRepository
	bounds    contracts.BoundsConfig

	cache    ResultCache
	cacheTTL time.Duration
	metrics  *metrics.Recorder

	logger *logger.Logger
}

// NewService creates a scoring service using bounds for every call
func NewService(snapshots contracts.SnapshotRepository, bounds contracts.BoundsConfig, log *logger.Logger) *Service {
	return &Service{
		engine:    NewEngine(),
		snapshots: snapshots,
		bounds:    bounds,
		logger:    log,
	}
}

// WithCache enables the response cache. A disabled redis client makes it a no-op.
func (s *Service) WithCache(cache ResultCache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithMetrics sets the Prometheus recorder
func (s *Service) WithMetrics(rec *metrics.Recorder) *Service {
	s.metrics = rec
	return s
}

// Bounds returns the bounds used for scoring
func (s *Service) Bounds() contracts.BoundsConfig {
	return s.bounds
}

// Analyze returns the balanced-risk score of symbol.
// contracts.ErrNotAvailable means the universe is empty or the symbol has no snapshot.
func (s *Service) Analyze(ctx context.Context, symbol string) (*contracts.RiskScore, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	start := time.Now()

	if s.cache != nil {
		var cached contracts.RiskScore
		found, err := s.cache.Get(ctx, redis.ScoreKey(symbol), &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Score cache read failed")
		}
		s.metrics.RecordCache(found)
		if found {
			s.metrics.RecordScore("ok", time.Since(start))
			s.metrics.RecordLastScore(cached.Symbol, cached.Score)
			return &cached, nil
		}
	}

	result, err := s.analyze(ctx, symbol)
	switch {
	case errors.Is(err, contracts.ErrNotAvailable):
		s.metrics.RecordScore("not_available", time.Since(start))
		s.logger.WithSymbol(symbol).Debug("Balanced risk score not available")
		return nil, err
	case err != nil:
		s.metrics.RecordScore("error", time.Since(start))
		return nil, err
	}

	s.metrics.RecordScore("ok", time.Since(start))
	s.metrics.RecordLastScore(result.Symbol, result.Score)

	s.logger.WithFields(map[string]interface{}{
		"symbol":    result.Symbol,
		"score":     result.Score,
		"composite": result.Composite,
		"duration":  time.Since(start),
	}).Debug("Balanced risk score computed")

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.ScoreKey(symbol), result, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Score cache write failed")
		}
	}

	return result, nil
}

func (s *Service) analyze(ctx context.Context, symbol string) (*contracts.RiskScore, error) {
	universe, err := s.snapshots.ListLatestPerSymbol(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	s.metrics.RecordUniverseSize(len(universe))

	if len(universe) == 0 {
		return nil, contracts.ErrNotAvailable
	}

	target := Find(universe, symbol)
	if target == nil {
		// 유니버스에 없으면 단일 종목 조회로 재시도
		target, err = s.snapshots.GetLatest(ctx, symbol)
		if errors.Is(err, contracts.ErrNotFound) {
			return nil, contracts.ErrNotAvailable
		}
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", symbol, err)
		}
	}

	return s.engine.ScoreSnapshot(target, universe, s.bounds)
}

// Rank scores the whole universe and returns the best limit entries (all when limit <= 0)
func (s *Service) Rank(ctx context.Context, limit int) ([]contracts.RiskScore, error) {
	if s.cache != nil {
		var cached []contracts.RiskScore
		found, err := s.cache.Get(ctx, redis.RankKey(limit), &cached)
		if err == nil && found {
			s.metrics.RecordCache(true)
			return cached, nil
		}
		s.metrics.RecordCache(false)
	}

	universe, err := s.snapshots.ListLatestPerSymbol(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	s.metrics.RecordUniverseSize(len(universe))

	ranked := s.engine.ScoreUniverse(universe, s.bounds)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	s.logger.WithFields(map[string]interface{}{
		"universe": len(universe),
		"returned": len(ranked),
	}).Debug("Ranked universe")

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.RankKey(limit), ranked, redis.TTLShort); err != nil {
			s.logger.WithError(err).Warn("Rank cache write failed")
		}
	}

	return ranked, nil
}

// Invalidate drops every cached result after symbol's snapshot or tracking changed.
// Each score depends on the universe FCF median, so no cached score survives.
func (s *Service) Invalidate(ctx context.Context, symbol string) error {
	if s.cache == nil {
		return nil
	}
	for _, pattern := range []string{redis.ScoreKey("*"), redis.RankKeyPattern} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("invalidate %s: %w", pattern, err)
		}
	}
	s.logger.WithSymbol(strings.ToUpper(strings.TrimSpace(symbol))).Debug("Score cache invalidated")
	return nil
}
