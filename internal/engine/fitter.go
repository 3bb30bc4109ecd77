package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wonny/horizon/backend/internal/analysis"
	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/dataset"
	"github.com/wonny/horizon/backend/internal/models"
)

const (
	// cutoffFactor multiplies the seasonal period for auto-size truncation.
	cutoffFactor = 4
	// minRetained is the auto-size floor.
	minRetained = 500
)

// fitter builds one forecaster per group for a candidate model family.
type fitter struct {
	cfg     contracts.EngineConfig
	profile *analysis.Profile
	log     zerolog.Logger
}

func newFitter(cfg contracts.EngineConfig, profile *analysis.Profile, log zerolog.Logger) *fitter {
	return &fitter{
		cfg:     cfg,
		profile: profile,
		log:     log.With().Str("component", "engine.fitter").Logger(),
	}
}

// fitStats 적합 패스 집계
type fitStats struct {
	Fitted  int
	Skipped int
	Failed  int
	Retried int
}

// groupFit is the per-group outcome consumed by the retry and logging
// paths: success carries the forecaster, failure carries the reason.
type groupFit struct {
	group      contracts.GroupKey
	forecaster contracts.Forecaster
	cutoff     float64
	retried    bool
	skipped    bool
	err        error
}

// fitFamily fits one forecaster per observed group and returns a fresh
// Registry. A failing group never aborts the pass: it is retried once with
// the family's default options and left unfit if that fails too.
func (f *fitter) fitFamily(ctx context.Context, tag contracts.FamilyTag, rows []contracts.Row) (*Registry, fitStats, error) {
	ctor, effective := models.Resolve(tag)
	if effective != tag {
		f.log.Warn().
			Str("family", string(tag)).
			Str("fallback", string(effective)).
			Msg("unknown model family, using fallback")
	}

	registry := NewRegistry()
	stats := fitStats{}

	sorted := dataset.SortByOrder(rows)
	keys, groups := dataset.Partition(sorted, f.cfg.GroupBy)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		outcome := f.fitGroup(ctx, ctor, key, groups[key])
		if outcome.retried {
			stats.Retried++
		}

		switch {
		case outcome.skipped:
			stats.Skipped++
			f.log.Debug().
				Str("group", string(key)).
				Int("observations", len(groups[key])).
				Msg("group below lookback window, skipped")
		case outcome.err != nil:
			stats.Failed++
			f.log.Warn().
				Err(outcome.err).
				Str("group", string(key)).
				Str("family", string(effective)).
				Msg("group fit failed, group left unfit")
		default:
			stats.Fitted++
			registry.Upsert(key, outcome.forecaster, outcome.cutoff)
		}
	}

	f.log.Info().
		Str("family", string(effective)).
		Int("fitted", stats.Fitted).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("family fit pass completed")

	return registry, stats, nil
}

// fitGroup fits a single group. Null targets are dropped, never imputed;
// groups shorter than the lookback window are skipped entirely.
func (f *fitter) fitGroup(ctx context.Context, ctor models.Constructor, group contracts.GroupKey, rows []contracts.Row) groupFit {
	values := dataset.Targets(rows)
	if len(values) < f.cfg.Window {
		return groupFit{group: group, skipped: true}
	}

	// Cutoff anchors horizon zero at the last observation used in training
	cutoff := lastValidOrder(rows)

	// Seasonality: explicit override, then per-group detection, then 1
	sp := f.cfg.SeasonalityOverride
	if sp <= 0 {
		sp = f.profile.Periods[group]
	}
	if sp <= 0 {
		sp = 1
	}

	opts := f.cfg.ModelOpts
	opts.SeasonalPeriod = sp
	opts.Seed = f.cfg.Seed

	var fc contracts.Forecaster
	decomp := f.profile.Decompositions[group]
	if f.cfg.UseDecomposition && decomp != nil {
		// The decomposition stage already removes seasonality
		opts.SeasonalPeriod = 0
		fc = models.NewPipeline(decomp, ctor(opts))
	} else {
		fc = ctor(opts)
	}

	if f.cfg.AutoSize {
		keep := minRetained
		if spKeep := sp * cutoffFactor; spKeep > keep {
			keep = spKeep
		}
		if len(values) > keep {
			values = values[len(values)-keep:]
		}
	}

	if err := fc.Fit(ctx, values, f.cfg.Horizon); err != nil {
		// Retry once with the family's default-constructed configuration
		retry := ctor(contracts.ModelOptions{})
		if retryErr := retry.Fit(ctx, values, f.cfg.Horizon); retryErr != nil {
			return groupFit{group: group, retried: true, err: retryErr}
		}
		return groupFit{group: group, forecaster: retry, cutoff: cutoff, retried: true}
	}

	return groupFit{group: group, forecaster: fc, cutoff: cutoff}
}

// lastValidOrder is the order-key of the last non-null observation.
func lastValidOrder(rows []contracts.Row) float64 {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Valid {
			return rows[i].Order
		}
	}
	if len(rows) > 0 {
		return rows[len(rows)-1].Order
	}
	return 0
}
