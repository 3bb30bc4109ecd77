package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/horizon/backend/internal/contracts"
	"github.com/wonny/horizon/backend/internal/models"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	// 인턴 id는 첫 등장 순서로 안정적
	assert.Equal(t, 0, r.Intern("A"))
	assert.Equal(t, 1, r.Intern("B"))
	assert.Equal(t, 0, r.Intern("A"))

	// 인턴만 된 그룹은 조회 불가
	_, _, ok := r.Get("A")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	fitted := models.NewNaive(contracts.ModelOptions{})
	require.NoError(t, fitted.Fit(context.Background(), []float64{1, 2, 3}, 2))
	r.Upsert("A", fitted, 42.0)

	fc, cutoff, ok := r.Get("A")
	require.True(t, ok)
	assert.Equal(t, 42.0, cutoff)
	assert.True(t, fc.Fitted())
	assert.True(t, r.HasFitted("A"))

	// 미적합 포캐스터는 저장되어도 HasFitted가 거짓
	r.Upsert("B", models.NewNaive(contracts.ModelOptions{}), 7.0)
	assert.False(t, r.HasFitted("B"))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []contracts.GroupKey{"A", "B"}, r.Groups())
	assert.False(t, r.HasFitted("unseen"))
}
