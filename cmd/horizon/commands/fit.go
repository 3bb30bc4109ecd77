package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/dataset"
	"github.com/wonny/horizon/backend/internal/engine"
)

// fitCmd represents the fit command
var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "모델 탐색 및 적합 실행",
	Long: `전략 데이터셋으로 전체 적합 패스를 실행합니다.

이 명령어는:
- 관측 데이터 로드 및 train/dev 분할
- 모델 패밀리 탐색 (SMAPE 최소화)
- 그룹별 예측기 적합 및 실행 기록 저장

Example:
  go run ./cmd/horizon fit
  go run ./cmd/horizon fit --strategy configs/daily.yaml`,
	RunE: runFit,
}

func init() {
	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Horizon Fit ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	runID, status, err := executeFit(cmd.Context(), d)
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Fit committed (run %d)\n", runID)
	fmt.Printf("  family:  %s\n", status.Family)
	fmt.Printf("  freq:    %s\n", status.Freq)
	fmt.Printf("  groups:  %d fitted, %d skipped, %d failed\n",
		status.Groups, status.Skipped, status.FailedFits)
	for _, trial := range status.Trials {
		if trial.Failed {
			fmt.Printf("  trial %-16s failed\n", trial.Family)
		} else {
			fmt.Printf("  trial %-16s smape=%.4f\n", trial.Family, trial.Error)
		}
	}

	return nil
}

// executeFit loads the strategy dataset, fits the engine, and records the
// run. Shared by fit and forecast.
func executeFit(ctx context.Context, d *deps) (int64, engine.Status, error) {
	started := time.Now()

	series, err := d.obsRepo.GetSeries(ctx, d.strategy.Data.Dataset)
	if err != nil {
		return 0, engine.Status{}, fmt.Errorf("get observations: %w", err)
	}
	if len(series) == 0 {
		return 0, engine.Status{}, fmt.Errorf("dataset %s has no observations", d.strategy.Data.Dataset)
	}

	cfg := d.strategy.EngineConfig()
	splitCfg := dataset.SplitConfig{
		TrainPct: d.strategy.Data.TrainPct,
		DevPct:   d.strategy.Data.DevPct,
		TestPct:  d.strategy.Data.TestPct,
	}

	train, dev, _, err := dataset.Split(series, cfg.GroupBy, splitCfg)
	if err != nil {
		return 0, engine.Status{}, fmt.Errorf("split dataset: %w", err)
	}

	d.log.WithFields(map[string]interface{}{
		"rows":  len(series),
		"train": len(train),
		"dev":   len(dev),
	}).Info("Starting fit pass")

	if err := d.engine.Fit(ctx, train, dev); err != nil {
		return 0, engine.Status{}, fmt.Errorf("fit: %w", err)
	}

	status := d.engine.Status()
	run := &contracts.FitRun{
		StrategyID: d.strategy.Meta.StrategyID,
		ConfigHash: d.configHash,
		Family:     status.Family,
		Trials:     status.Trials,
		GroupCount: status.Groups,
		SkipCount:  status.Skipped,
		Duration:   time.Since(started),
	}

	runID, err := d.runRepo.SaveRun(ctx, run)
	if err != nil {
		return 0, engine.Status{}, fmt.Errorf("save fit run: %w", err)
	}

	return runID, status, nil
}
