package models

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// polyDegree is the fixed trend polynomial degree.
const polyDegree = 2

// PolyTrend fits a low-degree polynomial trend over the observation index
// by least squares and extrapolates it forward.
type PolyTrend struct {
	base
	coeffs []float64 // c0 + c1*t + c2*t^2 ...
}

// NewPolyTrend 새 다항 추세 모델 생성
func NewPolyTrend(opts contracts.ModelOptions) contracts.Forecaster {
	return &PolyTrend{}
}

// Fit solves the Vandermonde least-squares system.
func (m *PolyTrend) Fit(ctx context.Context, series []float64, horizon int) error {
	n := len(series)
	if n < polyDegree+1 {
		return contracts.ErrInsufficientData
	}
	m.retain(series, horizon)

	a := mat.NewDense(n, polyDegree+1, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		t := 1.0
		for j := 0; j <= polyDegree; j++ {
			a.Set(i, j, t)
			t *= float64(i)
		}
		b.SetVec(i, series[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, b); err != nil {
		return fmt.Errorf("polynomial trend solve failed: %w", err)
	}

	m.coeffs = make([]float64, polyDegree+1)
	for j := 0; j <= polyDegree; j++ {
		m.coeffs[j] = sol.AtVec(j)
	}

	m.fitted = true
	return nil
}

// Predict returns one value per requested offset.
func (m *PolyTrend) Predict(offsets []int) ([]float64, error) {
	return m.predict(offsets, func(steps int) []float64 {
		out := make([]float64, steps)
		for h := 1; h <= steps; h++ {
			out[h-1] = m.eval(float64(len(m.y) - 1 + h))
		}
		return out
	})
}

func (m *PolyTrend) eval(t float64) float64 {
	v, pow := 0.0, 1.0
	for _, c := range m.coeffs {
		v += c * pow
		pow *= t
	}
	return v
}
