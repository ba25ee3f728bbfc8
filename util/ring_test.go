package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestRing_Push_givenLessThanCapacity_thenKeepsAll(t *testing.T) {
	r := NewRing[int](5)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{1, 2, 3}, r.Oldest())
	assert.Equal(t, []int{3, 2, 1}, r.Newest())
}

func TestRing_Push_givenOverflow_thenDropsOldest(t *testing.T) {
	r := NewRing[string](3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		r.Push(s)
	}

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 3, r.Cap())
	assert.Equal(t, []string{"c", "d", "e"}, r.Oldest())
	assert.Equal(t, []string{"e", "d", "c"}, r.Newest())
}

func TestRing_givenEmpty_thenReturnsEmptySlices(t *testing.T) {
	r := NewRing[int](2)
	assert.Empty(t, r.Oldest())
	assert.Empty(t, r.Newest())
	assert.NotNil(t, r.Newest())
}

func TestRing_NewRing_givenInvalidCapacity_thenUsesOne(t *testing.T) {
	r := NewRing[int](0)
	r.Push(1)
	r.Push(2)
	assert.Equal(t, []int{2}, r.Oldest())
}
