package models

import (
	"context"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// Naive repeats the last observed value over the whole horizon.
// 미학습 그룹 폴백과 동일한 동작을 하는 최소 모델
type Naive struct {
	base
}

// NewNaive 새 naive 모델 생성
func NewNaive(opts contracts.ModelOptions) contracts.Forecaster {
	return &Naive{}
}

// Fit trains on the series with the given relative horizon.
func (m *Naive) Fit(ctx context.Context, series []float64, horizon int) error {
	if len(series) == 0 {
		return contracts.ErrInsufficientData
	}
	m.retain(series, horizon)
	m.fitted = true
	return nil
}

// Predict returns one value per requested offset.
func (m *Naive) Predict(offsets []int) ([]float64, error) {
	return m.predict(offsets, func(steps int) []float64 {
		last := m.y[len(m.y)-1]
		out := make([]float64, steps)
		for i := range out {
			out[i] = last
		}
		return out
	})
}
