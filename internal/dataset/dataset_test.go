package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/horizon/backend/internal/contracts"
)

func row(order, target float64, labels map[string]string) contracts.Row {
	return contracts.Row{Order: order, Target: target, Valid: true, Labels: labels}
}

func TestSortByOrder(t *testing.T) {
	rows := []contracts.Row{row(3, 30, nil), row(1, 10, nil), row(2, 20, nil)}

	sorted := SortByOrder(rows)

	assert.Equal(t, 1.0, sorted[0].Order)
	assert.Equal(t, 2.0, sorted[1].Order)
	assert.Equal(t, 3.0, sorted[2].Order)
	// 원본은 그대로
	assert.Equal(t, 3.0, rows[0].Order)
}

func TestPartition(t *testing.T) {
	rows := []contracts.Row{
		row(1, 1, map[string]string{"region": "B"}),
		row(2, 2, map[string]string{"region": "A"}),
		row(3, 3, map[string]string{"region": "B"}),
	}

	keys, groups := Partition(rows, []string{"region"})

	// 첫 등장 순서 유지
	require.Equal(t, []contracts.GroupKey{"B", "A"}, keys)
	assert.Len(t, groups["B"], 2)
	assert.Len(t, groups["A"], 1)

	// 그룹핑 없음 → 전체가 기본 그룹
	keys, groups = Partition(rows, nil)
	require.Equal(t, []contracts.GroupKey{contracts.DefaultGroup}, keys)
	assert.Len(t, groups[contracts.DefaultGroup], 3)
}

func TestTargets(t *testing.T) {
	rows := []contracts.Row{
		row(1, 10, nil),
		{Order: 2, Valid: false}, // null target
		row(3, 30, nil),
	}

	values := Targets(rows)
	assert.Equal(t, []float64{10, 30}, values)
}

func TestSplitConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   SplitConfig
		valid bool
	}{
		{"default", DefaultSplitConfig(), true},
		{"sums below one", SplitConfig{TrainPct: 0.5, DevPct: 0.2, TestPct: 0.2}, false},
		{"sums above one", SplitConfig{TrainPct: 0.9, DevPct: 0.2, TestPct: 0.1}, false},
		{"zero train", SplitConfig{TrainPct: 0, DevPct: 0.5, TestPct: 0.5}, false},
	}

	for _, tc := range tests {
		err := tc.cfg.Validate()
		if tc.valid {
			assert.NoError(t, err, tc.name)
		} else {
			assert.Error(t, err, tc.name)
		}
	}
}

func TestSplit(t *testing.T) {
	rows := make([]contracts.Row, 0, 20)
	for i := 0; i < 10; i++ {
		rows = append(rows, row(float64(i), float64(i), map[string]string{"region": "A"}))
		rows = append(rows, row(float64(i), float64(i), map[string]string{"region": "B"}))
	}

	train, dev, test, err := Split(rows, []string{"region"}, DefaultSplitConfig())
	require.NoError(t, err)

	// 그룹당 8/1/1
	assert.Len(t, train, 16)
	assert.Len(t, dev, 2)
	assert.Len(t, test, 2)

	// 각 그룹의 가장 오래된 관측이 train, 최신이 test
	assert.Equal(t, 0.0, train[0].Order)
	assert.Equal(t, 9.0, test[0].Order)

	_, _, _, err = Split(rows, nil, SplitConfig{TrainPct: 0.5})
	assert.Error(t, err)
}
