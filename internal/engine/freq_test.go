package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateFreq(t *testing.T) {
	tests := []struct {
		delta float64
		want  FreqUnit
	}{
		{1, FreqSecond},
		{0, FreqSecond}, // 퇴화 입력도 전역적으로 처리
		{59, FreqMinute},
		{3600, FreqHour},
		{86400, FreqDay},
		{604800, FreqWeek},
		{60 * 60 * 24 * 30, FreqMonth},
		{60 * 60 * 24 * 365, FreqYear},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, EstimateFreq(tc.delta), "delta=%v", tc.delta)
	}
}
