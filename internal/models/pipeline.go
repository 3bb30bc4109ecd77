package models

import (
	"context"

	"github.com/wonny/horizon/backend/internal/analysis"
	"github.com/wonny/horizon/backend/internal/contracts"
)

// Pipeline wraps a forecaster with a precomputed deseasonalize/detrend
// stage: the inner model is fit on decomposition residuals and predictions
// get the seasonal+trend component added back. The wrapped series must be
// the tail of the series the decomposition was fitted on, so that
// observation indices line up.
type Pipeline struct {
	decomp *analysis.Decomposition
	inner  contracts.Forecaster
	n      int // retained series length
}

// NewPipeline 분해 전처리 파이프라인 생성
func NewPipeline(decomp *analysis.Decomposition, inner contracts.Forecaster) *Pipeline {
	return &Pipeline{decomp: decomp, inner: inner}
}

// Fit trains the inner model on decomposition residuals.
func (p *Pipeline) Fit(ctx context.Context, series []float64, horizon int) error {
	p.n = len(series)
	return p.inner.Fit(ctx, p.decomp.Residuals(series), horizon)
}

// Predict queries the inner model and adds the component back per offset.
func (p *Pipeline) Predict(offsets []int) ([]float64, error) {
	values, err := p.inner.Predict(offsets)
	if err != nil {
		return nil, err
	}

	// Offset 0 is the last training observation, at absolute index N-1
	for i, o := range offsets {
		values[i] += p.decomp.Component(p.decomp.N - 1 + o)
	}
	return values, nil
}

// Fitted reports whether the inner model fit successfully.
func (p *Pipeline) Fitted() bool { return p.inner.Fitted() }

// RetainedLength is the inner model's retained training length.
func (p *Pipeline) RetainedLength() int { return p.inner.RetainedLength() }

// DifferencingOrder is the inner model's differencing order.
func (p *Pipeline) DifferencingOrder() int { return p.inner.DifferencingOrder() }
