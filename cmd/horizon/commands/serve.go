package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/horizon/backend/internal/api"
	"github.com/wonny/horizon/backend/internal/api/handlers"
	"github.com/wonny/horizon/backend/internal/scheduler"
	"github.com/wonny/horizon/backend/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 및 스케줄러 시작",
	Long: `예측 API 서버와 주기적 재적합 스케줄러를 시작합니다.

이 명령어는:
- HTTP API 서버 시작 (예측/적합/상태 조회)
- 주기적 엔진 재적합 잡 등록

Endpoints:
  GET  /health           - Health check
  POST /api/v1/forecast  - 예측 윈도우 생성
  POST /api/v1/fit       - 전체 적합 실행
  GET  /api/v1/status    - 엔진 상태 조회
  GET  /api/v1/runs      - 최근 적합 이력

Example:
  go run ./cmd/horizon serve
  go run ./cmd/horizon serve --port 8091`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horizon API Server ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if servePort != "" {
		d.cfg.Port = servePort
	}

	// Handler and router
	forecastHandler := handlers.NewForecastHandler(
		d.engine, d.strategy, d.configHash,
		d.obsRepo, d.runRepo, d.forecastRepo,
		d.cache, d.cfg.Forecast.CacheTTL, d.log,
	)
	router := api.NewRouter(forecastHandler, d.cfg, d.log)
	server := api.New(d.cfg, d.log, router)

	// Scheduled refit keeps the committed registry fresh between full fits
	sched := scheduler.New(d.log)
	refitJob := jobs.NewRefitJob(
		d.engine, d.strategy, d.configHash,
		d.obsRepo, d.runRepo,
		d.cfg.Forecast.RefitCron, d.log,
	)
	if err := sched.AddJob(refitJob); err != nil {
		return fmt.Errorf("register refit job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/v1/forecast")
	fmt.Println("  POST /api/v1/fit")
	fmt.Println("  GET  /api/v1/status")
	fmt.Println("  GET  /api/v1/runs")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
