package models

import (
	"context"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// crostonAlpha is the smoothing factor for demand size and interval.
const crostonAlpha = 0.1

// Croston implements Croston's method for intermittent demand: separate
// exponential smoothing of non-zero demand sizes and of the intervals
// between them, forecasting the flat ratio of the two.
type Croston struct {
	base
	size     float64
	interval float64
}

// NewCroston 새 croston 모델 생성
func NewCroston(opts contracts.ModelOptions) contracts.Forecaster {
	return &Croston{}
}

// Fit smooths demand sizes and inter-demand intervals.
func (m *Croston) Fit(ctx context.Context, series []float64, horizon int) error {
	if len(series) == 0 {
		return contracts.ErrInsufficientData
	}
	m.retain(series, horizon)

	size, interval := 0.0, 1.0
	sinceLast := 1
	seen := false

	for _, v := range series {
		if v != 0 {
			if !seen {
				size = v
				interval = float64(sinceLast)
				seen = true
			} else {
				size = crostonAlpha*v + (1-crostonAlpha)*size
				interval = crostonAlpha*float64(sinceLast) + (1-crostonAlpha)*interval
			}
			sinceLast = 1
		} else {
			sinceLast++
		}
	}

	m.size = size
	m.interval = interval
	m.fitted = true
	return nil
}

// Predict returns one value per requested offset.
func (m *Croston) Predict(offsets []int) ([]float64, error) {
	return m.predict(offsets, func(steps int) []float64 {
		flat := 0.0
		if m.interval > 0 {
			flat = m.size / m.interval
		}
		out := make([]float64, steps)
		for i := range out {
			out[i] = flat
		}
		return out
	})
}
