package models

import (
	"context"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// SeasonalTrend decomposes the series into a period-length pattern of
// centered seasonal means plus a linear trend, and forecasts by
// extrapolating the trend and cycling the pattern. With a seasonal period
// of one (or none) it degrades to a plain linear trend.
type SeasonalTrend struct {
	base
	period    int
	pattern   []float64
	slope     float64
	intercept float64
}

// NewSeasonalTrend 새 계절 추세 모델 생성
func NewSeasonalTrend(opts contracts.ModelOptions) contracts.Forecaster {
	return &SeasonalTrend{period: opts.SeasonalPeriod}
}

// Fit estimates the seasonal pattern and the linear trend. The configured
// period must leave at least two full cycles in the series.
func (m *SeasonalTrend) Fit(ctx context.Context, series []float64, horizon int) error {
	n := len(series)
	if n < 2 {
		return contracts.ErrInsufficientData
	}
	if m.period > 1 && n < 2*m.period {
		return contracts.ErrInsufficientData
	}
	m.retain(series, horizon)

	sp := m.period
	if sp < 1 {
		sp = 1
	}

	pattern := make([]float64, sp)
	if sp > 1 {
		counts := make([]int, sp)
		for i, v := range series {
			pattern[i%sp] += v
			counts[i%sp]++
		}
		for i := range pattern {
			if counts[i] > 0 {
				pattern[i] /= float64(counts[i])
			}
		}
		mean := stat.Mean(pattern, nil)
		for i := range pattern {
			pattern[i] -= mean
		}
	}

	xs := make([]float64, n)
	deseason := make([]float64, n)
	for i, v := range series {
		xs[i] = float64(i)
		deseason[i] = v - pattern[i%sp]
	}
	intercept, slope := stat.LinearRegression(xs, deseason, nil, false)

	m.pattern = pattern
	m.slope = slope
	m.intercept = intercept
	m.fitted = true
	return nil
}

// Predict returns one value per requested offset.
func (m *SeasonalTrend) Predict(offsets []int) ([]float64, error) {
	return m.predict(offsets, func(steps int) []float64 {
		sp := len(m.pattern)
		out := make([]float64, steps)
		for h := 1; h <= steps; h++ {
			idx := len(m.y) - 1 + h
			out[h-1] = m.intercept + m.slope*float64(idx) + m.pattern[idx%sp]
		}
		return out
	})
}
