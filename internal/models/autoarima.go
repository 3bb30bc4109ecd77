package models

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/horizon/backend/internal/contracts"
)

const (
	arimaMaxP = 5
	arimaMaxD = 2
)

// AutoARIMA selects an ARIMA(p,d,0) model automatically: the differencing
// order by variance reduction, the AR order by corrected AIC over a small
// grid. It is the designated robust fallback family for unresolvable tags.
type AutoARIMA struct {
	base
	p        int
	arCoeffs []float64 // intercept first, then lag coefficients
	z        []float64 // differenced series
}

// NewAutoARIMA 새 auto-ARIMA 모델 생성
func NewAutoARIMA(opts contracts.ModelOptions) contracts.Forecaster {
	return &AutoARIMA{}
}

// Fit selects d and p, then estimates the AR coefficients by least squares.
func (m *AutoARIMA) Fit(ctx context.Context, series []float64, horizon int) error {
	if len(series) < 4 {
		return contracts.ErrInsufficientData
	}
	m.retain(series, horizon)

	// Differencing order: keep differencing while it reduces variance
	z := series
	d := 0
	for d < arimaMaxD {
		dz := difference(z)
		if len(dz) < 4 || stat.StdDev(dz, nil) >= stat.StdDev(z, nil) {
			break
		}
		z = dz
		d++
	}
	m.diff = d
	m.z = make([]float64, len(z))
	copy(m.z, z)

	// AR order: AICc over p in 0..maxP
	maxP := arimaMaxP
	if limit := len(z)/5 - 1; limit < maxP {
		maxP = limit
	}
	if maxP < 0 {
		maxP = 0
	}

	bestP, bestAICc := 0, math.Inf(1)
	var bestCoeffs []float64
	for p := 0; p <= maxP; p++ {
		coeffs, rss, nobs, err := fitAR(z, p)
		if err != nil {
			continue
		}
		k := float64(p + 1)
		n := float64(nobs)
		if rss <= 0 || n-k-1 <= 0 {
			continue
		}
		aicc := n*math.Log(rss/n) + 2*k + 2*k*(k+1)/(n-k-1)
		if aicc < bestAICc {
			bestP, bestAICc = p, aicc
			bestCoeffs = coeffs
		}
	}
	if bestCoeffs == nil {
		return fmt.Errorf("ARIMA order search found no admissible model")
	}

	m.p = bestP
	m.arCoeffs = bestCoeffs
	m.fitted = true
	return nil
}

// Predict returns one value per requested offset.
func (m *AutoARIMA) Predict(offsets []int) ([]float64, error) {
	return m.predict(offsets, m.forecast)
}

// forecast iterates the AR recursion on the differenced series, then
// integrates the differencing back out.
func (m *AutoARIMA) forecast(steps int) []float64 {
	z := make([]float64, len(m.z), len(m.z)+steps)
	copy(z, m.z)

	zf := make([]float64, steps)
	for h := 0; h < steps; h++ {
		v := m.arCoeffs[0]
		for j := 1; j <= m.p; j++ {
			v += m.arCoeffs[j] * z[len(z)-j]
		}
		zf[h] = v
		z = append(z, v)
	}

	// Undo differencing: cumulative sums anchored on the tail of y
	out := zf
	for d := m.diff; d > 0; d-- {
		anchor := m.tailAtOrder(d - 1)
		integrated := make([]float64, steps)
		prev := anchor
		for h := 0; h < steps; h++ {
			prev += out[h]
			integrated[h] = prev
		}
		out = integrated
	}
	return out
}

// tailAtOrder returns the last value of the series differenced `order`
// times, used as the integration anchor.
func (m *AutoARIMA) tailAtOrder(order int) float64 {
	z := m.y
	for i := 0; i < order; i++ {
		z = difference(z)
	}
	return z[len(z)-1]
}

// fitAR estimates an AR(p) model with intercept by OLS. Returns the
// coefficients (intercept first), the residual sum of squares and the
// number of regression observations.
func fitAR(z []float64, p int) ([]float64, float64, int, error) {
	nobs := len(z) - p
	if nobs < p+2 {
		return nil, 0, 0, contracts.ErrInsufficientData
	}

	a := mat.NewDense(nobs, p+1, nil)
	b := mat.NewVecDense(nobs, nil)
	for i := 0; i < nobs; i++ {
		a.Set(i, 0, 1)
		for j := 1; j <= p; j++ {
			a.Set(i, j, z[p+i-j])
		}
		b.SetVec(i, z[p+i])
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return nil, 0, 0, fmt.Errorf("AR least squares failed: %w", err)
	}

	coeffs := make([]float64, p+1)
	for j := 0; j <= p; j++ {
		coeffs[j] = sol.AtVec(j)
	}

	rss := 0.0
	for i := 0; i < nobs; i++ {
		pred := coeffs[0]
		for j := 1; j <= p; j++ {
			pred += coeffs[j] * z[p+i-j]
		}
		resid := z[p+i] - pred
		rss += resid * resid
	}

	return coeffs, rss, nobs, nil
}

// difference returns the first difference of a series.
func difference(z []float64) []float64 {
	if len(z) < 2 {
		return nil
	}
	out := make([]float64, len(z)-1)
	for i := 1; i < len(z); i++ {
		out[i-1] = z[i] - z[i-1]
	}
	return out
}
