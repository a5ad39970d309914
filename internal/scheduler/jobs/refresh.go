package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/balancedrisk/internal/s0_data/collector"
	"github.com/wonny/balancedrisk/pkg/config"
	"github.com/wonny/balancedrisk/pkg/logger"
)

// RefreshJobName is the scheduler key of RefreshJob
const RefreshJobName = "fundamentals_refresh"

// RefreshJob refreshes stale fundamentals of every tracked symbol
// ⭐ SSOT: 펀더멘털 갱신 스케줄은 이 Job에서만
type RefreshJob struct {
	collector *collector.Collector
	config    config.FetchConfig
	logger    *logger.Logger
}

// NewRefreshJob creates a new fundamentals refresh job
func NewRefreshJob(col *collector.Collector, cfg config.FetchConfig, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		collector: col,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return RefreshJobName
}

// Schedule returns the cron schedule (FETCH_SCHEDULE, daily by default)
func (j *RefreshJob) Schedule() string {
	return j.config.Schedule
}

// Run refreshes symbols not updated within FETCH_STALE_AFTER.
// Individual symbol failures are logged, not returned, so they are not retried
// until the next run.
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled fundamentals refresh")

	results, err := j.collector.RefreshAll(ctx, collector.Config{
		Workers:    j.config.Workers,
		StaleAfter: j.config.StaleAfter,
	})
	if err != nil {
		return fmt.Errorf("refresh fundamentals: %w", err)
	}

	summary := collector.Summarize(results)
	j.logger.WithFields(map[string]interface{}{
		"refreshed": summary.Refreshed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	}).Info("Scheduled fundamentals refresh completed")

	if len(results) > 0 && summary.Failed == len(results) {
		return fmt.Errorf("refresh fundamentals: all %d symbols failed", summary.Failed)
	}
	return nil
}
