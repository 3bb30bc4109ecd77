package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/horizon/backend/internal/scheduler"
	"github.com/wonny/horizon/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "재적합 스케줄러만 시작",
	Long: `API 서버 없이 주기적 재적합 스케줄러만 실행합니다.

Example:
  go run ./cmd/horizon scheduler
  go run ./cmd/horizon scheduler --run-now`,
	RunE: runScheduler,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "trigger the refit job immediately on start")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horizon Scheduler ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

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

	if schedulerRunNow {
		if err := sched.RunJob(refitJob.Name()); err != nil {
			return err
		}
	}

	fmt.Printf("\n✅ Scheduler running (refit: %s)\n", d.cfg.Forecast.RefitCron)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
