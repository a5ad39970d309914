package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/balancedrisk/internal/s0_data/collector"
)

// fetcherCmd represents the fetcher command
var fetcherCmd = &cobra.Command{
	Use:   "fetcher",
	Short: "펀더멘털 수집 도구",
	Long: `설정된 데이터 소스(DATA_SOURCE=yahoo|fmp)에서 펀더멘털을 수집해
파생 지표를 계산하고 저장합니다.

Example:
  go run ./cmd/riskscore fetcher refresh AAPL
  go run ./cmd/riskscore fetcher refresh all
  go run ./cmd/riskscore fetcher refresh all --force`,
}

// fetcherRefreshCmd represents the refresh subcommand
var fetcherRefreshCmd = &cobra.Command{
	Use:   "refresh <symbol|all>",
	Short: "수집 실행",
	Long: `지정된 종목 또는 모든 추적 종목을 수집합니다.

all 은 FETCH_STALE_AFTER(기본 7일)보다 최근에 갱신된 종목을 건너뜁니다.
--force 로 전부 다시 수집합니다.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetcherRefresh,
}

var (
	// Fetcher flags
	fetcherForce   bool
	fetcherWorkers int
)

func init() {
	rootCmd.AddCommand(fetcherCmd)
	fetcherCmd.AddCommand(fetcherRefreshCmd)

	// Flags
	fetcherRefreshCmd.Flags().BoolVar(&fetcherForce, "force", false, "신선도와 무관하게 전부 수집")
	fetcherRefreshCmd.Flags().IntVar(&fetcherWorkers, "workers", 0, "동시 작업 수 (default FETCH_WORKERS)")
}

func runFetcherRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	PrintDoubleSeparator()
	fmt.Printf("  Fundamentals refresh (%s)\n", a.cfg.DataSource)
	PrintSeparator()

	if args[0] != "all" {
		snap, err := a.collector.RefreshSymbol(ctx, args[0])
		if err != nil {
			PrintError(err.Error())
			return err
		}
		PrintKeyValue("Symbol", snap.Symbol, 10)
		PrintKeyValue("As of", snap.Date.Format("2006-01-02"), 10)
		PrintSuccess(fmt.Sprintf("Stored in %.2fs", time.Since(start).Seconds()))
		return nil
	}

	workers := a.cfg.Fetch.Workers
	if fetcherWorkers > 0 {
		workers = fetcherWorkers
	}

	results, err := a.collector.RefreshAll(ctx, collector.Config{
		Workers:    workers,
		StaleAfter: a.cfg.Fetch.StaleAfter,
		Force:      fetcherForce,
	})
	if err != nil {
		return err
	}

	widths := []int{10, 10, 50}
	PrintTableHeader([]string{"Symbol", "Result", "Detail"}, widths)
	for _, r := range results {
		status, detail := "refreshed", ""
		switch {
		case r.Error != nil:
			status, detail = "failed", r.Error.Error()
		case r.Skipped:
			status = "skipped"
		}
		PrintTableRow([]string{r.Symbol, status, detail}, widths)
	}

	summary := collector.Summarize(results)
	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d refreshed, %d skipped, %d failed in %.2fs",
		summary.Refreshed, summary.Skipped, summary.Failed, time.Since(start).Seconds()))

	if summary.Failed > 0 {
		return fmt.Errorf("%d symbols failed", summary.Failed)
	}
	return nil
}
