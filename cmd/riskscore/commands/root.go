package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	boundsFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "riskscore",
	Short: "Balanced risk - 펀더멘털 기반 리스크/퀄리티 점수",
	Long: `Balanced Risk Unified CLI

종목별 펀더멘털(성장, 현금흐름, 레버리지, 밸류에이션, 수익성)을
추적 종목 유니버스 대비 1~10 점수로 환산합니다.

Usage:
  go run ./cmd/riskscore [command]

Examples:
  go run ./cmd/riskscore api
  go run ./cmd/riskscore track add AAPL
  go run ./cmd/riskscore fetcher refresh all
  go run ./cmd/riskscore score AAPL
  go run ./cmd/riskscore rank --limit 10
  go run ./cmd/riskscore test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&boundsFile, "bounds", "", "bounds YAML file (default BOUNDS_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
