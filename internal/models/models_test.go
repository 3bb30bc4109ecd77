package models

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/horizon/backend/internal/analysis"
	"github.com/wonny/horizon/backend/internal/contracts"
)

func TestNaive(t *testing.T) {
	m := NewNaive(contracts.ModelOptions{})
	ctx := context.Background()

	// 미적합 상태에서 predict → ErrNotFitted
	_, err := m.Predict([]int{1})
	assert.ErrorIs(t, err, contracts.ErrNotFitted)

	require.NoError(t, m.Fit(ctx, []float64{1, 2, 3}, 2))
	assert.True(t, m.Fitted())
	assert.Equal(t, 3, m.RetainedLength())

	// 미래 오프셋은 마지막 값 반복, 음수 오프셋은 보유 관측치
	out, err := m.Predict([]int{-2, 0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 3, 3}, out)

	// 보유 구간 밖의 음수 오프셋 → OffsetUnavailableError
	_, err = m.Predict([]int{-3})
	assert.True(t, contracts.IsOffsetUnavailable(err))

	var oue *contracts.OffsetUnavailableError
	require.True(t, errors.As(err, &oue))
	assert.Equal(t, -3, oue.Requested)
	assert.Equal(t, -2, oue.Min)

	// 빈 시계열은 적합 불가
	assert.ErrorIs(t, NewNaive(contracts.ModelOptions{}).Fit(ctx, nil, 2), contracts.ErrInsufficientData)
}

func TestTheta(t *testing.T) {
	series := make([]float64, 10)
	for i := range series {
		series[i] = float64(i + 1)
	}

	m := NewTheta(contracts.ModelOptions{})
	require.NoError(t, m.Fit(context.Background(), series, 3))

	out, err := m.Predict([]int{1, 2})
	require.NoError(t, err)

	// 기울기 1인 시계열 → 스텝당 0.5*drift = 0.5 증가
	assert.InDelta(t, 0.5, out[1]-out[0], 1e-9)

	// 두 점 미만은 적합 불가
	assert.ErrorIs(t, NewTheta(contracts.ModelOptions{}).Fit(context.Background(), []float64{1}, 3), contracts.ErrInsufficientData)
}

func TestCroston(t *testing.T) {
	// 간헐적 수요: 3 간격마다 수요 3
	series := []float64{0, 3, 0, 0, 3, 0, 0, 3}

	m := NewCroston(contracts.ModelOptions{})
	require.NoError(t, m.Fit(context.Background(), series, 3))

	out, err := m.Predict([]int{1, 2, 3})
	require.NoError(t, err)

	// 평탄 예측: size/interval = 3/2.19
	expected := 3.0 / 2.19
	for _, v := range out {
		assert.InDelta(t, expected, v, 1e-9)
	}
}

func TestPolyTrend(t *testing.T) {
	// y = t^2 를 정확히 복원해야 함
	series := make([]float64, 10)
	for i := range series {
		series[i] = float64(i * i)
	}

	m := NewPolyTrend(contracts.ModelOptions{})
	require.NoError(t, m.Fit(context.Background(), series, 2))

	out, err := m.Predict([]int{1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 100, out[0], 1e-6) // t=10
	assert.InDelta(t, 121, out[1], 1e-6) // t=11

	assert.ErrorIs(t, NewPolyTrend(contracts.ModelOptions{}).Fit(context.Background(), []float64{1, 2}, 2), contracts.ErrInsufficientData)
}

func TestSeasonalTrend(t *testing.T) {
	pattern := []float64{3, -1, -3, 1}
	series := make([]float64, 16)
	for i := range series {
		series[i] = float64(i) + pattern[i%4]
	}

	m := NewSeasonalTrend(contracts.ModelOptions{SeasonalPeriod: 4})
	require.NoError(t, m.Fit(context.Background(), series, 4))

	out, err := m.Predict([]int{1, 2, 3, 4})
	require.NoError(t, err)
	require.Len(t, out, 4)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
	}

	// 주기 설정이 시계열 길이 대비 과대하면 적합 실패 (재시도 경로 유도)
	big := NewSeasonalTrend(contracts.ModelOptions{SeasonalPeriod: 50})
	assert.ErrorIs(t, big.Fit(context.Background(), series, 4), contracts.ErrInsufficientData)

	// 주기 없음 → 순수 선형 추세로 강등
	linear := make([]float64, 10)
	for i := range linear {
		linear[i] = 2 * float64(i)
	}
	plain := NewSeasonalTrend(contracts.ModelOptions{})
	require.NoError(t, plain.Fit(context.Background(), linear, 1))
	out, err = plain.Predict([]int{1})
	require.NoError(t, err)
	assert.InDelta(t, 20, out[0], 1e-6)
}

func TestAutoARIMA(t *testing.T) {
	// 추세 + 결정적 의사 잡음
	series := make([]float64, 40)
	for i := range series {
		noise := float64((i*2654435761)%97) / 97.0
		series[i] = 0.5*float64(i) + noise
	}

	m := NewAutoARIMA(contracts.ModelOptions{})
	require.NoError(t, m.Fit(context.Background(), series, 3))
	assert.True(t, m.Fitted())
	assert.LessOrEqual(t, m.DifferencingOrder(), 2)

	out, err := m.Predict([]int{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, v := range out {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}

	// 차분은 최소 오프셋을 끌어올림
	min := contracts.MinOffset(m)
	_, err = m.Predict([]int{min})
	assert.NoError(t, err)
	_, err = m.Predict([]int{min - 1})
	assert.True(t, contracts.IsOffsetUnavailable(err))

	assert.ErrorIs(t, NewAutoARIMA(contracts.ModelOptions{}).Fit(context.Background(), []float64{1, 2, 3}, 2), contracts.ErrInsufficientData)
}

func TestPipeline(t *testing.T) {
	pattern := []float64{3, -1, -3, 1}
	n := 24
	series := make([]float64, n)
	for i := range series {
		series[i] = 2*float64(i) + pattern[i%4]
	}

	decomp := analysis.FitDecomposition(series, 4)
	require.NotNil(t, decomp)

	p := NewPipeline(decomp, NewNaive(contracts.ModelOptions{}))
	require.NoError(t, p.Fit(context.Background(), series, 4))
	assert.True(t, p.Fitted())

	out, err := p.Predict([]int{1, 2, 3, 4})
	require.NoError(t, err)

	// 잔차가 0 근처이므로 예측 ≈ 분해 성분
	for h := 1; h <= 4; h++ {
		expected := decomp.Component(n - 1 + h)
		assert.InDelta(t, expected, out[h-1], 0.5, "step %d", h)
	}
}

func TestResolve(t *testing.T) {
	for _, tag := range []contracts.FamilyTag{
		contracts.FamilyNaive, contracts.FamilyCroston, contracts.FamilyTheta,
		contracts.FamilySeasonalTrend, contracts.FamilyPolyTrend, contracts.FamilyAutoARIMA,
	} {
		ctor, effective := Resolve(tag)
		assert.NotNil(t, ctor)
		assert.Equal(t, tag, effective)
		assert.True(t, Known(tag))
	}

	// 미등록 태그는 auto-ARIMA로 폴백
	ctor, effective := Resolve("prophet")
	assert.NotNil(t, ctor)
	assert.Equal(t, contracts.FamilyAutoARIMA, effective)
	assert.False(t, Known("prophet"))
}
