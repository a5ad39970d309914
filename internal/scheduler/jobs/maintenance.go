package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/balancedrisk/internal/contracts"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// Ranker scores the whole universe
type Ranker interface {
	Rank(ctx context.Context, limit int) ([]contracts.RiskScore, error)
}

// RankWarmupJob recomputes the ranking so the score cache stays warm
type RankWarmupJob struct {
	ranker Ranker
	limit  int
	logger *logger.Logger
}

// NewRankWarmupJob creates a new ranking warm-up job
func NewRankWarmupJob(ranker Ranker, limit int, log *logger.Logger) *RankWarmupJob {
	return &RankWarmupJob{
		ranker: ranker,
		limit:  limit,
		logger: log,
	}
}

// Name returns the job name
func (j *RankWarmupJob) Name() string {
	return "rank_warmup"
}

// Schedule returns the cron schedule (every 30 minutes)
func (j *RankWarmupJob) Schedule() string {
	return "0 */30 * * * *"
}

// Run executes the ranking
func (j *RankWarmupJob) Run(ctx context.Context) error {
	start := time.Now()

	scores, err := j.ranker.Rank(ctx, j.limit)
	if err != nil {
		return fmt.Errorf("rank warmup: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"ranked":   len(scores),
		"duration": time.Since(start),
	}).Debug("Ranking cache warmed")

	return nil
}
