package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "추적 종목 관리",
	Long: `채점 유니버스를 구성하는 추적 종목을 관리합니다.

Subcommands:
  add     - 종목 추가 (기본으로 즉시 수집)
  remove  - 종목 제거 (저장된 스냅샷은 유지)
  list    - 추적 종목 목록

Example:
  go run ./cmd/riskscore track add AAPL MSFT
  go run ./cmd/riskscore track remove AAPL
  go run ./cmd/riskscore track list`,
}

var (
	trackAddCmd = &cobra.Command{
		Use:   "add <symbol>...",
		Short: "종목 추가",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTrackAdd,
	}

	trackRemoveCmd = &cobra.Command{
		Use:   "remove <symbol>",
		Short: "종목 제거",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrackRemove,
	}

	trackListCmd = &cobra.Command{
		Use:   "list",
		Short: "추적 종목 목록",
		RunE:  runTrackList,
	}
)

var (
	trackNoFetch bool
)

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackRemoveCmd)
	trackCmd.AddCommand(trackListCmd)

	trackAddCmd.Flags().BoolVar(&trackNoFetch, "no-fetch", false, "추가만 하고 수집하지 않음")
}

func runTrackAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	failed := 0
	for _, symbol := range args {
		if err := a.tracked.Add(ctx, symbol); err != nil {
			return err
		}
		if trackNoFetch {
			// 기존 스냅샷이 있으면 유니버스가 바뀜
			if err := a.scoring.Invalidate(ctx, symbol); err != nil {
				a.log.WithError(err).Warn("Failed to invalidate score cache")
			}
			PrintSuccess(fmt.Sprintf("Tracking %s", symbol))
			continue
		}

		snap, err := a.collector.RefreshSymbol(ctx, symbol)
		if err != nil {
			failed++
			PrintError(fmt.Sprintf("Tracking %s, fetch failed: %v", symbol, err))
			continue
		}
		PrintSuccess(fmt.Sprintf("Tracking %s (as of %s)", snap.Symbol, snap.Date.Format("2006-01-02")))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d fetches failed", failed, len(args))
	}
	return nil
}

func runTrackRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	err = a.tracked.Remove(ctx, args[0])
	if errors.Is(err, contracts.ErrNotFound) {
		PrintWarning(fmt.Sprintf("%s is not tracked", args[0]))
		return err
	}
	if err != nil {
		return err
	}

	// 유니버스가 바뀌었으므로 캐시된 점수 무효화
	if err := a.scoring.Invalidate(ctx, args[0]); err != nil {
		a.log.WithError(err).Warn("Failed to invalidate score cache")
	}
	PrintSuccess(fmt.Sprintf("Stopped tracking %s", args[0]))
	return nil
}

func runTrackList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	symbols, err := a.tracked.List(ctx)
	if err != nil {
		return err
	}
	if len(symbols) == 0 {
		PrintInfo("No tracked symbols")
		return nil
	}

	widths := []int{10, 20}
	PrintTableHeader([]string{"Symbol", "Added"}, widths)
	for _, s := range symbols {
		PrintTableRow([]string{s.Symbol, s.AddedAt.Format("2006-01-02 15:04")}, widths)
	}
	fmt.Println()
	PrintInfo(fmt.Sprintf("%d symbols", len(symbols)))
	return nil
}
