package engine

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/horizon/backend/internal/analysis"
	"github.com/wonny/horizon/backend/internal/contracts"
)

func emptyProfile() *analysis.Profile {
	return &analysis.Profile{
		Deltas:         map[contracts.GroupKey]float64{},
		Periods:        map[contracts.GroupKey]int{},
		Decompositions: map[contracts.GroupKey]*analysis.Decomposition{},
	}
}

func linearRows(n int, slope float64, labels map[string]string) []contracts.Row {
	rows := make([]contracts.Row, n)
	for i := range rows {
		rows[i] = contracts.Row{Order: float64(i), Target: slope * float64(i), Valid: true, Labels: labels}
	}
	return rows
}

func TestFitterSkipsShortGroups(t *testing.T) {
	cfg := contracts.EngineConfig{TargetColumn: "y", Horizon: 2, Window: 5}

	f := newFitter(cfg, emptyProfile(), zerolog.Nop())
	registry, stats, err := f.fitFamily(context.Background(), contracts.FamilyNaive, linearRows(3, 1, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Fitted)
	assert.Equal(t, 0, registry.Len())
}

func TestFitterRetriesWithDefaultOptions(t *testing.T) {
	// 계절 주기 50은 10개 관측치로 적합 불가 → 기본 옵션 재시도가 성공해야 함
	cfg := contracts.EngineConfig{
		TargetColumn:        "y",
		Horizon:             2,
		Window:              5,
		SeasonalityOverride: 50,
	}

	f := newFitter(cfg, emptyProfile(), zerolog.Nop())
	registry, stats, err := f.fitFamily(context.Background(), contracts.FamilySeasonalTrend, linearRows(10, 2, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Retried)
	assert.Equal(t, 1, stats.Fitted)
	assert.Equal(t, 0, stats.Failed)

	fc, cutoff, ok := registry.Get(contracts.DefaultGroup)
	require.True(t, ok)
	assert.Equal(t, 9.0, cutoff)

	// 재시도 모델은 순수 선형 추세로 강등된 상태
	out, predErr := fc.Predict([]int{1})
	require.NoError(t, predErr)
	assert.InDelta(t, 20.0, out[0], 1e-6)
}

func TestFitterPartitionsByGroup(t *testing.T) {
	cfg := contracts.EngineConfig{TargetColumn: "y", Horizon: 2, Window: 3, GroupBy: []string{"region"}}

	rows := append(
		linearRows(6, 1, map[string]string{"region": "A"}),
		linearRows(2, 1, map[string]string{"region": "B"})..., // 윈도 미달
	)

	f := newFitter(cfg, emptyProfile(), zerolog.Nop())
	registry, stats, err := f.fitFamily(context.Background(), contracts.FamilyNaive, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Fitted)
	assert.Equal(t, 1, stats.Skipped)
	assert.True(t, registry.HasFitted("A"))
	assert.False(t, registry.HasFitted("B"))
}
