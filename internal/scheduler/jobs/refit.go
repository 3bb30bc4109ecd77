package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/dataset"
	"github.com/wonny/horizon/backend/internal/engine"
	"github.com/wonny/horizon/backend/internal/engineconfig"
	"github.com/wonny/horizon/backend/internal/store"
	"github.com/wonny/horizon/backend/pkg/logger"
)

// RefitJob refits the committed engine over the expanded observation window.
// The model family stays as selected by the last full fit; no search runs.
type RefitJob struct {
	engine     *engine.Engine
	strategy   *engineconfig.Config
	configHash string
	obsRepo    *store.ObservationRepository
	runRepo    *store.RunRepository
	schedule   string
	logger     *logger.Logger
}

// NewRefitJob creates a new refit job
func NewRefitJob(
	eng *engine.Engine,
	strategy *engineconfig.Config,
	configHash string,
	obsRepo *store.ObservationRepository,
	runRepo *store.RunRepository,
	schedule string,
	log *logger.Logger,
) *RefitJob {
	return &RefitJob{
		engine:     eng,
		strategy:   strategy,
		configHash: configHash,
		obsRepo:    obsRepo,
		runRepo:    runRepo,
		schedule:   schedule,
		logger:     log,
	}
}

// Name returns the job name
func (j *RefitJob) Name() string {
	return "engine_refit"
}

// Schedule returns the cron schedule from configuration
func (j *RefitJob) Schedule() string {
	return j.schedule
}

// Run executes one refit pass
func (j *RefitJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled engine refit")
	started := time.Now()

	series, err := j.obsRepo.GetSeries(ctx, j.strategy.Data.Dataset)
	if err != nil {
		return fmt.Errorf("get observations: %w", err)
	}
	if len(series) == 0 {
		j.logger.Info("No observations in dataset, skipping refit")
		return nil
	}

	cfg := j.strategy.EngineConfig()
	splitCfg := dataset.SplitConfig{
		TrainPct: j.strategy.Data.TrainPct,
		DevPct:   j.strategy.Data.DevPct,
		TestPct:  j.strategy.Data.TestPct,
	}

	train, dev, _, err := dataset.Split(series, cfg.GroupBy, splitCfg)
	if err != nil {
		return fmt.Errorf("split dataset: %w", err)
	}

	if err := j.engine.PartialFit(ctx, train, dev); err != nil {
		return fmt.Errorf("partial fit: %w", err)
	}

	status := j.engine.Status()
	run := &contracts.FitRun{
		StrategyID: j.strategy.Meta.StrategyID,
		ConfigHash: j.configHash,
		Family:     status.Family,
		Trials:     status.Trials,
		GroupCount: status.Groups,
		SkipCount:  status.Skipped,
		Duration:   time.Since(started),
	}

	if _, err := j.runRepo.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save fit run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"family":   string(status.Family),
		"groups":   status.Groups,
		"duration": time.Since(started),
	}).Info("Scheduled refit completed")

	return nil
}
