package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/balancedrisk/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	failFor  int32
	runs     int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&j.runs, 1)
	if n <= j.failFor {
		return errors.New("transient")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "0 0 6 * * *"}))
	assert.Error(t, s.AddJob(&countingJob{name: "a", schedule: "0 0 6 * * *"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "b", schedule: "not a cron"}))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestRunNow_RetriesThenSucceeds(t *testing.T) {
	s := New(logger.Nop()).WithRetry(2, time.Millisecond)
	job := &countingJob{name: "flaky", schedule: "@daily", failFor: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.runs))

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastSuccess)
}

func TestRunNow_FailsAfterRetries(t *testing.T) {
	s := New(logger.Nop()).WithRetry(1, time.Millisecond)
	job := &countingJob{name: "broken", schedule: "@daily", failFor: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "transient", result.Error)
	assert.Equal(t, int32(2), atomic.LoadInt32(&job.runs))

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	last, ok := history.LastResult()
	require.True(t, ok)
	assert.False(t, last.Success)
}

func TestRunNow_CancelStopsRetrying(t *testing.T) {
	s := New(logger.Nop()).WithRetry(5, time.Hour)
	job := &countingJob{name: "broken", schedule: "@daily", failFor: 100}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunNow(ctx, "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, context.Canceled.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&job.runs))
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@hourly"}))

	next, err := s.NextRun("a")
	require.NoError(t, err)
	assert.True(t, next.IsZero(), "next run is only computed once the cron is started")

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())

	_, err = s.RunNow(context.Background(), "a")
	assert.Error(t, err)
}

func TestStartStop_RunsScheduledJob(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "tick", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&job.runs) > 0
	}, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Equal(t, 0.0, h.GetSuccessRate())
	_, ok := h.LastResult()
	assert.False(t, ok)

	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}
	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.Len(t, h.GetFailedResults(), maxHistory/2)
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
}
