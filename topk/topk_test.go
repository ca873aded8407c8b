package topk

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecseg/model"
)

func sortedList(ns ...model.Neighbor) []model.Neighbor {
	model.SortNeighbors(ns)
	return ns
}

func TestMergerKeepsGlobalTopK(t *testing.T) {
	m, err := New(1, 3)
	require.NoError(t, err)

	require.NoError(t, m.Merge(model.SearchResult{sortedList(
		model.Neighbor{ID: 0, Distance: 5},
		model.Neighbor{ID: 1, Distance: 6},
		model.Neighbor{ID: 2, Distance: 7},
	)}))
	require.NoError(t, m.Merge(model.SearchResult{sortedList(
		model.Neighbor{ID: 10, Distance: 1},
		model.Neighbor{ID: 11, Distance: 6},
		model.Neighbor{ID: 12, Distance: 9},
	)}))

	got := m.Result()
	assert.Equal(t, []model.ID{10, 0, 1}, got.IDs(0))
}

func TestMergerTieBreak(t *testing.T) {
	m, err := New(1, 2)
	require.NoError(t, err)

	require.NoError(t, m.Merge(model.SearchResult{{{ID: 7, Distance: 1}, {ID: 9, Distance: 1}}}))
	require.NoError(t, m.Merge(model.SearchResult{{{ID: 3, Distance: 1}, {ID: 8, Distance: 1}}}))

	assert.Equal(t, []model.ID{3, 7}, m.Result().IDs(0))
}

func TestMergerQueryCountMismatch(t *testing.T) {
	m, err := New(2, 1)
	require.NoError(t, err)
	assert.Error(t, m.Merge(model.SearchResult{{}}))
}

func TestMergerInvalidK(t *testing.T) {
	_, err := New(1, 0)
	assert.ErrorIs(t, err, model.ErrInvalidK)
}

func TestMergerEmptyPartials(t *testing.T) {
	m, err := New(2, 4)
	require.NoError(t, err)
	require.NoError(t, m.Merge(model.NewSearchResult(2)))

	got := m.Result()
	assert.Empty(t, got[0])
	assert.Empty(t, got[1])
}

// Splitting a candidate set into chunks and merging the chunks in any order
// must match a full sort of the set.
func TestMergerOrderInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	const k = 10

	all := make([]model.Neighbor, 1000)
	for i := range all {
		// Few distinct distances force plenty of ties.
		all[i] = model.Neighbor{ID: model.ID(i), Distance: float32(r.Intn(50))}
	}

	want := slices.Clone(all)
	model.SortNeighbors(want)
	want = want[:k]

	var chunks []model.SearchResult
	for off := 0; off < len(all); off += 64 {
		part := slices.Clone(all[off:min(off+64, len(all))])
		model.SortNeighbors(part)
		chunks = append(chunks, model.SearchResult{part[:min(k, len(part))]})
	}

	for trial := 0; trial < 5; trial++ {
		r.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })

		m, err := New(1, k)
		require.NoError(t, err)
		for _, c := range chunks {
			require.NoError(t, m.Merge(c))
		}
		assert.Equal(t, want, m.Result()[0])
	}
}

func TestMerge(t *testing.T) {
	a := []model.Neighbor{{ID: 1, Distance: 1}, {ID: 4, Distance: 3}}
	b := []model.Neighbor{{ID: 0, Distance: 1}, {ID: 2, Distance: 2}, {ID: 5, Distance: 4}}

	got := Merge(a, b, 4)
	assert.Equal(t, []model.ID{0, 1, 2, 4}, model.SearchResult{got}.IDs(0))

	assert.Len(t, Merge(a, b, 10), 5)
	assert.Empty(t, Merge(nil, nil, 3))
}
