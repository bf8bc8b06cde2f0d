package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcher_AddReleasesFullBatches(t *testing.T) {
	b := NewBatcher[int](3)

	assert.Nil(t, b.Add(1, 2))
	assert.Equal(t, 2, b.Pending())

	ready := b.Add(3, 4)
	require.Len(t, ready, 1)
	assert.Equal(t, []int{1, 2, 3}, ready[0])
	assert.Equal(t, 1, b.Pending())
}

func TestBatcher_AddManyReleasesMultipleBatches(t *testing.T) {
	b := NewBatcher[int](2)

	ready := b.Add(1, 2, 3, 4, 5)
	require.Len(t, ready, 2)
	assert.Equal(t, []int{1, 2}, ready[0])
	assert.Equal(t, []int{3, 4}, ready[1])
	assert.Equal(t, 1, b.Pending())
}

func TestBatcher_FlushReturnsRemainder(t *testing.T) {
	b := NewBatcher[string](10)
	b.Add("a", "b")

	assert.Equal(t, []string{"a", "b"}, b.Flush())
	assert.Equal(t, 0, b.Pending())
	assert.Nil(t, b.Flush())
}

func TestBatcher_ExactMultipleLeavesNothingPending(t *testing.T) {
	b := NewBatcher[int](2)

	ready := b.Add(1, 2, 3, 4)
	require.Len(t, ready, 2)
	assert.Equal(t, 0, b.Pending())
	assert.Nil(t, b.Flush())
}

func TestBatcher_InvalidSizeFallsBackToDefault(t *testing.T) {
	b := NewBatcher[int](0)

	items := make([]int, DefaultBatchSize)
	ready := b.Add(items...)
	require.Len(t, ready, 1)
	assert.Len(t, ready[0], DefaultBatchSize)
}

func TestBatcher_BatchesDoNotShareBackingArray(t *testing.T) {
	b := NewBatcher[int](2)
	ready := b.Add(1, 2, 3)
	require.Len(t, ready, 1)

	// Appending to a released batch must not clobber items still pending.
	_ = append(ready[0], 99)
	assert.Equal(t, []int{3}, b.Flush())
}
