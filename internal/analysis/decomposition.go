package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Decomposition is an additive seasonal/trend decomposition fitted on one
// group's training series: a period-length seasonal pattern of centered
// means plus a linear trend over the observation index. Index i refers to
// the i-th cleaned training observation, so the last training point is N-1
// and forecast step h sits at index N-1+h.
type Decomposition struct {
	Period    int
	Seasonal  []float64 // length Period, centered
	Slope     float64
	Intercept float64
	N         int // number of observations the decomposition was fitted on
}

// FitDecomposition fits an additive decomposition with a centered
// moving-average trend estimate. Returns nil when the series is too short
// for the period (fewer than two full cycles).
func FitDecomposition(values []float64, period int) *Decomposition {
	n := len(values)
	if period < 2 || n < 2*period {
		return nil
	}

	trend := movingAverageTrend(values, period)

	// Seasonal pattern: per-phase means of the detrended series
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		idx := i % period
		pattern[idx] += values[i] - trend[i]
		counts[idx]++
	}
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	// Center the pattern so it sums to zero
	mean := stat.Mean(pattern, nil)
	for i := range pattern {
		pattern[i] -= mean
	}

	// Linear trend on the deseasonalized series
	xs := make([]float64, n)
	deseason := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		deseason[i] = values[i] - pattern[i%period]
	}
	intercept, slope := stat.LinearRegression(xs, deseason, nil, false)

	return &Decomposition{
		Period:    period,
		Seasonal:  pattern,
		Slope:     slope,
		Intercept: intercept,
		N:         n,
	}
}

// Component returns the seasonal+trend component at observation index i.
// Indices beyond N-1 extrapolate the trend and cycle the seasonal pattern.
func (d *Decomposition) Component(i int) float64 {
	seasonal := 0.0
	if d.Period > 0 {
		phase := i % d.Period
		if phase < 0 {
			phase += d.Period
		}
		seasonal = d.Seasonal[phase]
	}
	return d.Intercept + d.Slope*float64(i) + seasonal
}

// Residuals subtracts the fitted component from the tail of the training
// series. series must be the last len(series) cleaned training observations,
// so element 0 corresponds to index N-len(series).
func (d *Decomposition) Residuals(series []float64) []float64 {
	start := d.N - len(series)
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v - d.Component(start+i)
	}
	return out
}

// movingAverageTrend computes a centered moving-average trend estimate.
// Edges without a full window are NaN.
func movingAverageTrend(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 0 {
		// Even period: 2x period centered MA with half-weighted ends
		for i := half; i < n-half; i++ {
			sum := values[i-half]*0.5 + values[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	}

	return trend
}
