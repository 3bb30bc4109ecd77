package models

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// thetaAlpha is the smoothing factor of the SES level component.
const thetaAlpha = 0.3

// Theta is the standard two-theta-line method: a simple exponential
// smoothing level combined with half the linear drift of the series.
type Theta struct {
	base
	level float64
	drift float64
}

// NewTheta 새 theta 모델 생성
func NewTheta(opts contracts.ModelOptions) contracts.Forecaster {
	return &Theta{}
}

// Fit estimates the SES level and the linear drift.
func (m *Theta) Fit(ctx context.Context, series []float64, horizon int) error {
	if len(series) < 2 {
		return contracts.ErrInsufficientData
	}
	m.retain(series, horizon)

	level := series[0]
	for _, v := range series[1:] {
		level = thetaAlpha*v + (1-thetaAlpha)*level
	}
	m.level = level

	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, series, nil, false)
	m.drift = slope

	m.fitted = true
	return nil
}

// Predict returns one value per requested offset.
func (m *Theta) Predict(offsets []int) ([]float64, error) {
	return m.predict(offsets, func(steps int) []float64 {
		out := make([]float64, steps)
		for h := 1; h <= steps; h++ {
			out[h-1] = m.level + 0.5*m.drift*float64(h)
		}
		return out
	})
}
