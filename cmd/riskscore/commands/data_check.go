package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/balancedrisk/internal/contracts"
)

// dataCheckCmd represents the data check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "유니버스 데이터 상태 확인",
	Long: `추적 종목 유니버스의 데이터 품질을 확인합니다.

확인 항목:
- 스냅샷 보유 비율 (snapshot)
- FETCH_STALE_AFTER 이내 갱신 비율 (fresh)
- ESG 데이터 보유 비율 (esg, 참고용)
- 스냅샷이 없는 종목 / 오래된 종목

Example:
  go run ./cmd/riskscore data-check`,
	RunE: runDataCheck,
}

func init() {
	rootCmd.AddCommand(dataCheckCmd)
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshot, err := a.qualityGate().Check(ctx)
	if err != nil {
		return err
	}

	fmt.Println("📊 유니버스 데이터 상태 확인")
	PrintSeparator()
	PrintKeyValue("Tracked", fmt.Sprintf("%d", snapshot.TotalSymbols), 14)
	PrintKeyValue("With snapshot", fmt.Sprintf("%d", snapshot.ValidSymbols), 14)
	for _, key := range []string{contracts.CoverageSnapshot, contracts.CoverageFresh, contracts.CoverageEsg} {
		PrintKeyValue(key, fmt.Sprintf("%.1f%%", snapshot.Coverage[key]*100), 14)
	}
	PrintKeyValue("Average", fmt.Sprintf("%.1f%%", snapshot.CoverageRate()*100), 14)
	PrintKeyValue("Quality score", fmt.Sprintf("%.2f", snapshot.QualityScore), 14)
	PrintSeparator()

	if len(snapshot.Missing) > 0 {
		fmt.Println("No snapshot:")
		PrintList(snapshot.Missing)
	}
	if len(snapshot.Stale) > 0 {
		fmt.Printf("Older than %s:\n", a.cfg.Fetch.StaleAfter)
		PrintList(snapshot.Stale)
	}

	if !snapshot.Passed {
		PrintWarning("Quality gate failed (run: riskscore fetcher refresh all)")
		return nil
	}
	PrintSuccess("Quality gate passed")
	return nil
}
