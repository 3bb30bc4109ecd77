// Package models provides the forecasting model families consumed by the
// orchestration engine, behind the contracts.Forecaster capability.
//
// Offsets are relative to the training cutoff: 0 is the last retained
// training observation, 1..H the future steps. Negative offsets return the
// retained in-sample values; positive offsets come from a single forecast
// trajectory computed once per Predict call.
package models

import (
	"github.com/wonny/horizon/backend/internal/contracts"
)

// base holds the state shared by every family: the retained training
// series, the declared horizon and the fitted flag.
type base struct {
	y       []float64
	horizon int
	fitted  bool
	diff    int
}

func (b *base) retain(series []float64, horizon int) {
	b.y = make([]float64, len(series))
	copy(b.y, series)
	b.horizon = horizon
}

// Fitted reports whether the model fit successfully.
func (b *base) Fitted() bool { return b.fitted }

// RetainedLength is the number of training observations kept.
func (b *base) RetainedLength() int { return len(b.y) }

// DifferencingOrder is the internal differencing applied during fitting.
func (b *base) DifferencingOrder() int { return b.diff }

// predict assembles one value per offset from the retained series and a
// single forecast trajectory. forecast(h) must return h future steps.
func (b *base) predict(offsets []int, forecast func(steps int) []float64) ([]float64, error) {
	if !b.fitted {
		return nil, contracts.ErrNotFitted
	}

	minOffset := -len(b.y) + 1 + b.diff
	maxAhead := 0
	for _, o := range offsets {
		if o < minOffset {
			return nil, &contracts.OffsetUnavailableError{Requested: o, Min: minOffset}
		}
		if o > maxAhead {
			maxAhead = o
		}
	}

	var future []float64
	if maxAhead > 0 {
		future = forecast(maxAhead)
	}

	out := make([]float64, len(offsets))
	for i, o := range offsets {
		if o <= 0 {
			out[i] = b.y[len(b.y)-1+o]
		} else {
			out[i] = future[o-1]
		}
	}
	return out, nil
}
