package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/balancedrisk/internal/api"
	"github.com/wonny/balancedrisk/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET    /health                        - Health check
  GET    /api/v1/balancedrisk/{symbol}  - 종목 점수
  GET    /api/v1/balancedrisk?limit=N   - 점수 순위
  GET    /api/v1/bounds                 - 사용 중인 지표 구간
  GET    /api/v1/metrics[/{symbol}]     - 저장된 펀더멘털 스냅샷
  GET    /api/v1/symbols                - 추적 종목 목록
  POST   /api/v1/symbols                - 추적 종목 추가 {"symbol":"AAPL"}
  DELETE /api/v1/symbols/{symbol}       - 추적 종목 제거
  POST   /api/v1/refresh/{symbol}       - 즉시 수집
  GET    /api/v1/status                 - 유니버스 데이터 품질
  GET    /metrics                       - Prometheus

Example:
  go run ./cmd/riskscore api
  go run ./cmd/riskscore api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	router := api.NewRouter(api.Handlers{
		Health:       handlers.NewHealthHandler(a.db),
		BalancedRisk: handlers.NewBalancedRiskHandler(a.scoring, a.log),
		Metrics:      handlers.NewSymbolMetricsHandler(a.snapshots, a.log),
		Symbols:      handlers.NewTrackedSymbolsHandler(a.tracked, a.collector, a.log).WithInvalidator(a.scoring),
		Status:       handlers.NewStatusHandler(a.qualityGate(), a.log),
	}, a.metrics, a.log)

	server := api.New(a.cfg, a.log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}
