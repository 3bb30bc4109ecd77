package dataset

import (
	"sort"

	"github.com/wonny/horizon/backend/internal/contracts"
)

// SortByOrder returns a copy of rows sorted ascending by the order-by value.
// 원본 슬라이스는 변경하지 않는다
func SortByOrder(rows []contracts.Row) []contracts.Row {
	out := make([]contracts.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Partition splits rows into per-group sub-series under the given group-by
// columns. Keys are returned in first-appearance order so that iteration is
// deterministic; within each group the presented row order is preserved.
func Partition(rows []contracts.Row, groupBy []string) ([]contracts.GroupKey, map[contracts.GroupKey][]contracts.Row) {
	var keys []contracts.GroupKey
	groups := make(map[contracts.GroupKey][]contracts.Row)

	for _, row := range rows {
		key := contracts.KeyFor(row, groupBy)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}

	return keys, groups
}

// Targets extracts the non-null target values of rows, preserving order.
// 결측치는 대치하지 않고 버린다
func Targets(rows []contracts.Row) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Valid {
			values = append(values, row.Target)
		}
	}
	return values
}
