package engine

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/wonny/horizon/backend/internal/analysis"
	"github.com/wonny/horizon/backend/internal/contracts"
)

// inferencer answers predict calls against a committed registry. It is
// read-only: cutoffs and models are never mutated here, so independent
// groups could be processed concurrently without shared state.
type inferencer struct {
	cfg      contracts.EngineConfig
	registry *Registry
	profile  *analysis.Profile
	log      zerolog.Logger
}

func newInferencer(cfg contracts.EngineConfig, registry *Registry, profile *analysis.Profile, log zerolog.Logger) *inferencer {
	return &inferencer{
		cfg:      cfg,
		registry: registry,
		profile:  profile,
		log:      log.With().Str("component", "engine.inference").Logger(),
	}
}

// Predict runs the per-call state machine: dispatch rows to their groups,
// forecast each group either through its fitted model or through the naive
// fallback, then collect results back into the original row order. Every
// row receives exactly one length-H window.
func (inf *inferencer) Predict(ctx context.Context, rows []contracts.Row) ([]contracts.Forecast, error) {
	out := make([]contracts.Forecast, len(rows))

	// GROUP_DISPATCH: partition row indices by fit-time group-by columns,
	// preserving the presented order within each group.
	var keys []contracts.GroupKey
	byGroup := make(map[contracts.GroupKey][]int)
	for i, row := range rows {
		key := contracts.KeyFor(row, inf.cfg.GroupBy)
		if _, ok := byGroup[key]; !ok {
			keys = append(keys, key)
		}
		byGroup[key] = append(byGroup[key], i)
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idxs := byGroup[key]
		if inf.registry.HasFitted(key) {
			if inf.forecastGroup(rows, idxs, key, out) {
				continue
			}
			// Model refused the batched query; fall through to fallback
		} else {
			inf.log.Warn().
				Str("group", string(key)).
				Int("rows", len(idxs)).
				Msg("no fitted model for group, applying naive fallback forecaster")
		}

		inf.fallbackGroup(rows, idxs, key, out)
	}

	// COLLECT is implicit: windows were written at original row positions
	return out, nil
}

// forecastGroup queries the group's fitted model once for the whole batch
// and slices the trajectory into per-row windows. Returns false when the
// model could not answer, so the caller can route the group to fallback.
func (inf *inferencer) forecastGroup(rows []contracts.Row, idxs []int, group contracts.GroupKey, out []contracts.Forecast) bool {
	fc, cutoff, _ := inf.registry.Get(group)

	// Offset: sampling intervals between the training cutoff and the
	// first queried origin. May be negative (into the training window).
	interval := inf.profile.Delta(group)
	offset := int(math.Round((rows[idxs[0]].Order - cutoff) / interval))

	// Clamp the window start to the most negative answerable offset
	start := offset
	if min := contracts.MinOffset(fc); start < min {
		start = min
	}
	end := start + len(idxs) + inf.cfg.Horizon

	offsets := make([]int, 0, end-start)
	for o := start; o < end; o++ {
		offsets = append(offsets, o)
	}

	// One batched call per group: a single coherent trajectory
	preds, err := fc.Predict(offsets)
	if err != nil {
		inf.log.Warn().
			Err(err).
			Str("group", string(group)).
			Msg("fitted model rejected batched query, applying naive fallback forecaster")
		return false
	}

	for i, rowIdx := range idxs {
		window := make([]float64, inf.cfg.Horizon)
		copy(window, preds[i:i+inf.cfg.Horizon])
		out[rowIdx] = contracts.Forecast{Group: group, Values: window}
	}
	return true
}

// fallbackGroup emits the persistence forecast: each row's window repeats
// the previous row's true target within the group's local ordering, and
// the first row defaults to zero.
func (inf *inferencer) fallbackGroup(rows []contracts.Row, idxs []int, group contracts.GroupKey, out []contracts.Forecast) {
	prev := 0.0
	for _, rowIdx := range idxs {
		window := make([]float64, inf.cfg.Horizon)
		for j := range window {
			window[j] = prev
		}
		out[rowIdx] = contracts.Forecast{Group: group, Values: window, Fallback: true}
		prev = rows[rowIdx].Target
	}
}
