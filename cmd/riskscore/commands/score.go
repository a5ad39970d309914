package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <symbol>",
	Short: "종목 점수 조회",
	Long: `저장된 스냅샷 유니버스 대비 종목의 밸런스드 리스크 점수를 계산합니다.

Example:
  go run ./cmd/riskscore score AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "점수 순위",
	Long: `추적 종목 전체를 채점해 composite 순으로 출력합니다.

Example:
  go run ./cmd/riskscore rank --limit 10`,
	RunE: runRank,
}

var (
	rankLimit int
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntVar(&rankLimit, "limit", 20, "최대 종목 수")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	score, err := a.scoring.Analyze(ctx, args[0])
	if errors.Is(err, contracts.ErrNotAvailable) {
		PrintWarning(fmt.Sprintf("No balanced risk data for %s (track and refresh it first)", args[0]))
		return err
	}
	if err != nil {
		return err
	}

	md, err := ScoreMarkdown(score)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	printMarkdown(md)
	return nil
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	scores, err := a.scoring.Rank(ctx, rankLimit)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		PrintWarning("Universe is empty (no stored snapshots)")
		return nil
	}

	md, err := RankMarkdown(scores)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	printMarkdown(md)
	return nil
}
