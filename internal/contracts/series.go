package contracts

import "strings"

// GroupKey 시계열 파티션 식별자
// group-by 컬럼 값들을 "|"로 이어붙인 문자열이며, 그룹핑이 없으면 DefaultGroup
type GroupKey string

// DefaultGroup is the sentinel partition used when no grouping is requested,
// and the fallback pool for rows whose group was never seen at fit time.
const DefaultGroup GroupKey = "__default"

// Row is one observation of a grouped series. Order is the order-by column
// value (epoch seconds or a monotonically increasing index); subtracting two
// Order values yields a time delta. Valid is false when the target is null.
type Row struct {
	Order  float64           `json:"order"`
	Target float64           `json:"target"`
	Valid  bool              `json:"valid"`
	Labels map[string]string `json:"labels,omitempty"`
}

// KeyFor resolves the group key of a row under the given group-by columns.
// 컬럼이 비어 있으면 DefaultGroup
func KeyFor(row Row, groupBy []string) GroupKey {
	if len(groupBy) == 0 {
		return DefaultGroup
	}

	parts := make([]string, len(groupBy))
	for i, col := range groupBy {
		parts[i] = row.Labels[col]
	}
	return GroupKey(strings.Join(parts, "|"))
}

// Forecast is the per-row output of the inference engine: exactly one
// length-H prediction window per input row, in the original row order.
type Forecast struct {
	Group    GroupKey  `json:"group"`
	Values   []float64 `json:"values"`
	Fallback bool      `json:"fallback"`
}
