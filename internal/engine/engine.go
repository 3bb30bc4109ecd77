// Package engine implements the grouped forecasting orchestration engine:
// one forecaster per observed group plus a naive fallback, fitted through a
// bounded model-family search and queried through relative-horizon offsets
// anchored at each group's training cutoff.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/horizon/backend/internal/analysis"
	"github.com/wonny/horizon/backend/internal/contracts"
)

// Engine 그룹 시계열 예측 오케스트레이션 엔진
//
// Single writer, concurrent readers: fit passes are serialized and build
// into fresh structures, then swap the committed state under the state
// lock. Predict only ever sees a fully committed registry.
type Engine struct {
	cfg      contracts.EngineConfig
	log      zerolog.Logger
	analyzer *analysis.Analyzer
	search   *GridSearch

	fitMu sync.Mutex // serializes fit passes

	// Committed state, replaced wholesale by each full fit
	mu       sync.RWMutex
	profile  *analysis.Profile
	registry *Registry
	family   contracts.FamilyTag
	trials   []contracts.TrialResult
	stats    fitStats
	freq     FreqUnit
	fitted   bool
}

// New creates an engine. Configuration errors are fatal here and never
// recovered later.
func New(cfg contracts.EngineConfig, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}

	return &Engine{
		cfg:      cfg,
		log:      log.With().Str("component", "engine").Logger(),
		analyzer: analysis.NewAnalyzer(log),
		search:   NewGridSearch(log),
	}, nil
}

// Fit runs the model-family search over the training split scored on the
// held-out split, then commits one final full fit over their union with
// the winning family. With search disabled it goes straight to the full
// fit using the pinned family.
func (e *Engine) Fit(ctx context.Context, train, holdout []contracts.Row) error {
	return e.fit(ctx, e.cfg, train, holdout)
}

// PartialFit refits over the expanded window with the search disabled,
// keeping the previously committed family. It is a full refit: records are
// rebuilt, not merged.
func (e *Engine) PartialFit(ctx context.Context, train, holdout []contracts.Row) error {
	cfg := e.cfg
	cfg.HyperparamSearch = false

	e.mu.RLock()
	if e.fitted {
		cfg.ModelFamily = e.family
	}
	e.mu.RUnlock()

	return e.fit(ctx, cfg, train, holdout)
}

func (e *Engine) fit(ctx context.Context, cfg contracts.EngineConfig, train, holdout []contracts.Row) error {
	e.fitMu.Lock()
	defer e.fitMu.Unlock()

	started := time.Now()

	combined := make([]contracts.Row, 0, len(train)+len(holdout))
	combined = append(combined, train...)
	combined = append(combined, holdout...)
	if len(combined) == 0 {
		return fmt.Errorf("no training rows")
	}

	profile := e.analyzer.Analyze(combined, cfg.GroupBy)
	candidates := cfg.FamilyCandidates()

	finalCfg := cfg
	family := candidates[0]
	var trials []contracts.TrialResult

	if cfg.HyperparamSearch {
		var allFailed bool
		family, trials, allFailed = e.search.Run(ctx, candidates, e.trialObjective(cfg, profile, train, holdout))
		if err := ctx.Err(); err != nil {
			return err
		}
		if allFailed {
			// Universal trial failure: commit the first candidate with
			// default-constructed options
			e.log.Warn().
				Str("family", string(family)).
				Msg("every search trial failed, committing first candidate with default options")
			finalCfg.ModelOpts = contracts.ModelOptions{}
			finalCfg.UseDecomposition = false
		} else {
			e.log.Info().Str("family", string(family)).Msg("selected best model family")
		}
	}

	registry, stats, err := newFitter(finalCfg, profile, e.log).fitFamily(ctx, family, combined)
	if err != nil {
		return err
	}

	// Commit: prior state is replaced wholesale, never patched
	e.mu.Lock()
	e.profile = profile
	e.registry = registry
	e.family = family
	e.trials = trials
	e.stats = stats
	e.freq = EstimateFreq(profile.Delta(contracts.DefaultGroup))
	e.fitted = true
	e.mu.Unlock()

	e.log.Info().
		Str("family", string(family)).
		Int("groups", stats.Fitted).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Dur("duration", time.Since(started)).
		Msg("fit committed")

	return nil
}

// Predict produces one length-H forecast window per input row, in the
// original row order, routing unseen or unfit groups to the naive
// fallback. It requires a committed fit.
func (e *Engine) Predict(ctx context.Context, rows []contracts.Row) ([]contracts.Forecast, error) {
	e.mu.RLock()
	registry, profile, fitted := e.registry, e.profile, e.fitted
	e.mu.RUnlock()

	if !fitted {
		return nil, fmt.Errorf("predict before committed fit: %w", contracts.ErrNotFitted)
	}
	return newInferencer(e.cfg, registry, profile, e.log).Predict(ctx, rows)
}

// trialObjective scores a candidate family: fit it over the training split
// only, forecast from the held-out split's origin, and compare the first
// row's window against the first H true held-out targets with symmetric
// MAPE. Any failure yields the infinite-error sentinel so the search
// continues.
func (e *Engine) trialObjective(cfg contracts.EngineConfig, profile *analysis.Profile, train, holdout []contracts.Row) Objective {
	return func(ctx context.Context, family contracts.FamilyTag) float64 {
		if len(holdout) == 0 {
			return math.Inf(1)
		}

		registry, _, err := newFitter(cfg, profile, e.log).fitFamily(ctx, family, train)
		if err != nil || registry.Len() == 0 {
			return math.Inf(1)
		}

		preds, err := newInferencer(cfg, registry, profile, e.log).Predict(ctx, holdout)
		if err != nil || len(preds) == 0 || preds[0].Fallback {
			return math.Inf(1)
		}

		yTrue := make([]float64, 0, cfg.Horizon)
		for _, row := range holdout {
			yTrue = append(yTrue, row.Target)
			if len(yTrue) == cfg.Horizon {
				break
			}
		}

		return smape(yTrue, preds[0].Values)
	}
}

// Status is the observable engine state for the status command and API.
type Status struct {
	Fitted     bool                    `json:"fitted"`
	Family     contracts.FamilyTag     `json:"family,omitempty"`
	Freq       FreqUnit                `json:"freq,omitempty"`
	Groups     int                     `json:"groups"`
	Skipped    int                     `json:"skipped"`
	FailedFits int                     `json:"failed_fits"`
	Trials     []contracts.TrialResult `json:"trials,omitempty"`
}

// Status reports the committed state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Status{
		Fitted:     e.fitted,
		Family:     e.family,
		Freq:       e.freq,
		Groups:     e.stats.Fitted,
		Skipped:    e.stats.Skipped,
		FailedFits: e.stats.Failed,
		Trials:     e.trials,
	}
}

// Horizon is the fixed forecast horizon of this engine instance.
func (e *Engine) Horizon() int { return e.cfg.Horizon }

// Family is the committed model family.
func (e *Engine) Family() contracts.FamilyTag {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.family
}

// Trials returns the per-trial bookkeeping of the last search.
func (e *Engine) Trials() []contracts.TrialResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trials
}
