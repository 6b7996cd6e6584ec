package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleQueuePushPopOrder(t *testing.T) {
	q := NewSampleQueue(4)

	assert.True(t, q.TryPush(1))
	assert.True(t, q.TryPush(2))
	assert.True(t, q.TryPush(3))

	v, ok := q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, float32(1), v)

	v, ok = q.TryPop()
	assert.True(t, ok)
	assert.Equal(t, float32(2), v)
}

func TestSampleQueueDropsWhenFull(t *testing.T) {
	q := NewSampleQueue(2) // one usable slot

	assert.True(t, q.TryPush(1))
	assert.False(t, q.TryPush(2), "queue should drop pushes once full")
}

func TestSampleQueueEmptyPopReturnsZero(t *testing.T) {
	q := NewSampleQueue(4)

	v, ok := q.TryPop()
	assert.False(t, ok)
	assert.Equal(t, float32(0), v)
}

func TestSampleQueueLenTracksOccupancy(t *testing.T) {
	q := NewSampleQueue(8)
	assert.Equal(t, 0, q.Len())

	q.TryPush(1)
	q.TryPush(2)
	assert.Equal(t, 2, q.Len())

	q.TryPop()
	assert.Equal(t, 1, q.Len())
}
