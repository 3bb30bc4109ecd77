package analysis

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/horizon/backend/internal/contracts"
)

func TestACF(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 4, 3, 2}

	acf := ACF(values, 3)
	require.Len(t, acf, 4)
	assert.InDelta(t, 1.0, acf[0], 1e-12, "lag 0 is always 1")

	// 상수열은 분산이 0 → nil
	assert.Nil(t, ACF([]float64{5, 5, 5, 5}, 2))
}

func TestDetectPeriod(t *testing.T) {
	// 주기 12의 사인파
	values := make([]float64, 120)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / 12)
	}
	assert.Equal(t, 12, DetectPeriod(values, 60))

	// 상수열 → 계절성 없음
	assert.Equal(t, 1, DetectPeriod([]float64{3, 3, 3, 3, 3}, 10))
}

func TestFitDecomposition(t *testing.T) {
	// 선형 추세 + 합이 0인 주기 4 패턴
	pattern := []float64{3, -1, -3, 1}
	n := 24
	values := make([]float64, n)
	for i := range values {
		values[i] = 2*float64(i) + pattern[i%4]
	}

	d := FitDecomposition(values, 4)
	require.NotNil(t, d)
	assert.Equal(t, 4, d.Period)
	assert.Equal(t, n, d.N)
	assert.InDelta(t, 2.0, d.Slope, 0.05)

	// 분해 성분이 관측치를 재구성해야 함
	for i := 0; i < n; i++ {
		assert.InDelta(t, values[i], d.Component(i), 0.2, "index %d", i)
	}

	// 잔차는 0 근처
	resid := d.Residuals(values)
	for i, r := range resid {
		assert.InDelta(t, 0, r, 0.2, "residual %d", i)
	}

	// 꼬리만 넘겨도 인덱스가 정렬되어야 함
	tail := values[n-8:]
	tailResid := d.Residuals(tail)
	require.Len(t, tailResid, 8)
	for i, r := range tailResid {
		assert.InDelta(t, 0, r, 0.2, "tail residual %d", i)
	}

	// 두 주기 미만 → nil
	assert.Nil(t, FitDecomposition(values[:6], 4))
}

func TestDecompositionComponentNegativeIndex(t *testing.T) {
	d := &Decomposition{Period: 4, Seasonal: []float64{3, -1, -3, 1}, N: 8}

	// 음수 인덱스도 위상이 안전하게 순환
	assert.InDelta(t, d.Seasonal[3], d.Component(-1), 1e-12)
	assert.InDelta(t, d.Seasonal[0], d.Component(-4), 1e-12)
}

func TestAnalyze(t *testing.T) {
	rows := []contracts.Row{
		{Order: 0, Target: 1, Valid: true, Labels: map[string]string{"region": "A"}},
		{Order: 10, Target: 2, Valid: true, Labels: map[string]string{"region": "A"}},
		{Order: 20, Target: 3, Valid: true, Labels: map[string]string{"region": "A"}},
		{Order: 0, Target: 5, Valid: true, Labels: map[string]string{"region": "B"}},
		{Order: 20, Target: 6, Valid: true, Labels: map[string]string{"region": "B"}},
	}

	a := NewAnalyzer(zerolog.Nop())
	profile := a.Analyze(rows, []string{"region"})

	// 기본 그룹 간격은 항상 존재
	assert.Greater(t, profile.Deltas[contracts.DefaultGroup], 0.0)
	assert.InDelta(t, 10.0, profile.Deltas["A"], 1e-9)
	assert.InDelta(t, 20.0, profile.Deltas["B"], 1e-9)

	// 미등장 그룹은 기본 그룹으로 폴백
	assert.Equal(t, profile.Deltas[contracts.DefaultGroup], profile.Delta("unseen"))

	empty := &Profile{Deltas: map[contracts.GroupKey]float64{}}
	assert.Equal(t, 1.0, empty.Delta("anything"))
}
