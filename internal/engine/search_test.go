package engine

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/horizon/backend/internal/contracts"
)

func TestGridSearchRun(t *testing.T) {
	candidates := []contracts.FamilyTag{
		contracts.FamilyCroston,
		contracts.FamilyTheta,
		contracts.FamilyPolyTrend,
	}
	scores := map[contracts.FamilyTag]float64{
		contracts.FamilyCroston:   0.8,
		contracts.FamilyTheta:     0.2,
		contracts.FamilyPolyTrend: math.Inf(1),
	}

	s := NewGridSearch(zerolog.Nop())
	best, trials, allFailed := s.Run(context.Background(), candidates, func(ctx context.Context, family contracts.FamilyTag) float64 {
		return scores[family]
	})

	assert.Equal(t, contracts.FamilyTheta, best)
	assert.False(t, allFailed)

	// 트라이얼 수는 후보 수와 정확히 같다
	require.Len(t, trials, 3)
	assert.False(t, trials[0].Failed)
	assert.False(t, trials[1].Failed)
	assert.True(t, trials[2].Failed)
	assert.True(t, math.IsInf(trials[2].Error, 1))
}

func TestGridSearchTieBreak(t *testing.T) {
	candidates := []contracts.FamilyTag{contracts.FamilyNaive, contracts.FamilyTheta}

	s := NewGridSearch(zerolog.Nop())
	best, _, _ := s.Run(context.Background(), candidates, func(ctx context.Context, family contracts.FamilyTag) float64 {
		return 0.5 // 동점은 먼저 평가된 후보가 이긴다
	})

	assert.Equal(t, contracts.FamilyNaive, best)
}

func TestGridSearchAllFailed(t *testing.T) {
	candidates := []contracts.FamilyTag{contracts.FamilyCroston, contracts.FamilyTheta}

	s := NewGridSearch(zerolog.Nop())
	best, trials, allFailed := s.Run(context.Background(), candidates, func(ctx context.Context, family contracts.FamilyTag) float64 {
		return math.Inf(1)
	})

	assert.True(t, allFailed)
	assert.Equal(t, contracts.FamilyCroston, best) // 첫 후보 유지
	for _, tr := range trials {
		assert.True(t, tr.Failed)
	}
}

func TestSMAPE(t *testing.T) {
	// 완전 일치 → 0
	assert.Equal(t, 0.0, smape([]float64{1, 2, 3}, []float64{1, 2, 3}))

	// 0/0 항은 오차에 기여하지 않음
	assert.Equal(t, 0.0, smape([]float64{0, 0}, []float64{0, 0}))

	// 빈 입력은 실패 센티널
	assert.True(t, math.IsInf(smape(nil, []float64{1}), 1))

	// 부호 반전은 항당 최대치 2
	assert.InDelta(t, 2.0, smape([]float64{1}, []float64{-1}), 1e-12)
}
