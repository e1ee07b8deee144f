package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fortuna/backend/internal/api"
	"github.com/wonny/fortuna/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `상태 조회 REST API 서버를 시작합니다.

Endpoints:
  GET /health                              - Health check
  GET /api/draws                           - 개표 히스토리 (최신순)
  GET /api/draws/latest                    - 최신 개표 결과
  GET /api/predictions                     - 예측 목록
  GET /api/predictions/{date}/{strategy}   - 단일 예측 조회
  GET /api/stats                           - 전략별 정확도

Example:
  go run ./cmd/fortuna api
  go run ./cmd/fortuna api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Fortuna API Server ===")

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	// Override port if flag is set
	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	lotteryHandler := handlers.NewLotteryHandler(app.history, app.ledger, app.reconciler, app.log)
	router := api.NewRouter(lotteryHandler, app.log)
	server := api.New(app.cfg, app.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET /health")
	fmt.Println("  GET /api/draws")
	fmt.Println("  GET /api/draws/latest")
	fmt.Println("  GET /api/predictions")
	fmt.Println("  GET /api/predictions/{date}/{strategy}")
	fmt.Println("  GET /api/stats")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	fmt.Println("Server stopped")
	return nil
}
