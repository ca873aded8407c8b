package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLess(t *testing.T) {
	assert.True(t, Less(Neighbor{ID: 9, Distance: 0.1}, Neighbor{ID: 1, Distance: 0.2}))
	assert.True(t, Less(Neighbor{ID: 1, Distance: 0.5}, Neighbor{ID: 2, Distance: 0.5}))
	assert.False(t, Less(Neighbor{ID: 2, Distance: 0.5}, Neighbor{ID: 2, Distance: 0.5}))
}

func TestSortNeighbors(t *testing.T) {
	ns := []Neighbor{{ID: 3, Distance: 1}, {ID: 7, Distance: 0}, {ID: 1, Distance: 1}, {ID: 0, Distance: 2}}
	SortNeighbors(ns)
	assert.Equal(t, []Neighbor{{ID: 7, Distance: 0}, {ID: 1, Distance: 1}, {ID: 3, Distance: 1}, {ID: 0, Distance: 2}}, ns)
}

func TestSearchResultAccessors(t *testing.T) {
	r := SearchResult{{{ID: 4, Distance: 0.5}, {ID: 2, Distance: 0.75}}}
	assert.Equal(t, 1, r.NumQueries())
	assert.Equal(t, []ID{4, 2}, r.IDs(0))
	assert.Equal(t, []float32{0.5, 0.75}, r.Distances(0))
}

func TestValidateK(t *testing.T) {
	require.NoError(t, ValidateK(1))
	require.NoError(t, ValidateK(MaxK))

	for _, k := range []int{0, -3, MaxK + 1} {
		err := ValidateK(k)
		assert.True(t, errors.Is(err, ErrInvalidK), "k=%d", k)
	}
}

func TestErrors(t *testing.T) {
	var err error = &ErrDimensionMismatch{Expected: 16, Actual: 8}
	assert.Equal(t, "dimension mismatch: expected 16, got 8", err.Error())

	err = &ErrMalformedMask{Reason: "negative size"}
	assert.Equal(t, "malformed mask: negative size", err.Error())
}
