package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/balancedrisk/internal/scheduler"
	"github.com/wonny/balancedrisk/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `주기적 수집 스케줄러를 시작하거나 작업을 조회합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/riskscore scheduler start
  go run ./cmd/riskscore scheduler start --run-now
  go run ./cmd/riskscore scheduler start --only rank_warmup
  go run ./cmd/riskscore scheduler run fundamentals_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- fundamentals_refresh: FETCH_SCHEDULE (기본 매일 06:00, 오래된 종목만 수집)
- rank_warmup: 30분마다 (순위 캐시 갱신)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run <job_name>",
		Short: "특정 작업 즉시 실행 (완료까지 대기)",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

var (
	schedulerRunNow bool
	schedulerOnly   string
)

// rankWarmupLimit matches the default ranking page of the API
const rankWarmupLimit = 20

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerStartCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "시작 직후 수집 작업 1회 실행")
	schedulerStartCmd.Flags().StringVar(&schedulerOnly, "only", "", "지정한 작업만 스케줄 (나머지 작업 제거)")
}

// newScheduler registers the refresh and warm-up jobs on a fresh scheduler
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewRefreshJob(a.collector, a.cfg.Fetch, a.log)); err != nil {
		return nil, fmt.Errorf("add refresh job: %w", err)
	}
	if err := sched.AddJob(jobs.NewRankWarmupJob(a.scoring, rankWarmupLimit, a.log)); err != nil {
		return nil, fmt.Errorf("add rank warmup job: %w", err)
	}
	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if schedulerOnly != "" {
		if err := keepOnly(sched, schedulerOnly); err != nil {
			return err
		}
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	printJobs(sched)

	if schedulerRunNow && (schedulerOnly == "" || schedulerOnly == jobs.RefreshJobName) {
		if err := sched.RunJob(jobs.RefreshJobName); err != nil {
			return fmt.Errorf("run job: %w", err)
		}
	}

	fmt.Println("\nPress Ctrl+C to stop")
	<-ctx.Done()

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")
	printJobs(sched)

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newCLIApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// cron 엔트리의 다음 실행 시각은 Start 이후에만 계산됨
	sched.Start()
	defer sched.Stop()

	fmt.Println("Registered jobs:")
	printJobs(sched)
	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", args[0])
	result, err := sched.WithRetry(0, 0).RunNow(ctx, args[0])
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %s: %s", result.JobName, result.Duration, result.Error))
		return fmt.Errorf("job %s failed", result.JobName)
	}
	PrintSuccess(fmt.Sprintf("%s completed in %s", result.JobName, result.Duration))
	return nil
}

// keepOnly removes every registered job except name
func keepOnly(sched *scheduler.Scheduler, name string) error {
	found := false
	for _, job := range sched.GetAllJobs() {
		if job == name {
			found = true
			continue
		}
		if err := sched.RemoveJob(job); err != nil {
			return fmt.Errorf("remove job: %w", err)
		}
	}
	if !found {
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	widths := []int{22, 16, 20, 12}
	PrintTableHeader([]string{"Job", "Schedule", "Next run", "Last run"}, widths)
	for _, name := range sched.GetAllJobs() {
		next := "-"
		if t, err := sched.NextRun(name); err == nil && !t.IsZero() {
			next = t.Format("2006-01-02 15:04:05")
		}
		PrintTableRow([]string{name, stats[name].Schedule, next, lastRun(sched, name)}, widths)
	}
}

func lastRun(sched *scheduler.Scheduler, name string) string {
	history, err := sched.GetJobHistory(name)
	if err != nil {
		return "-"
	}
	last, ok := history.LastResult()
	if !ok {
		return "-"
	}
	if !last.Success {
		return "failed"
	}
	return "ok " + last.Duration.Round(time.Millisecond).String()
}
