package queue

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/vecseg/model"
)

func TestTopK(t *testing.T) {
	t.Run("KeepsSmallest", func(t *testing.T) {
		q := NewTopK(3)
		for i, d := range []float32{5, 1, 4, 2, 3} {
			q.Push(model.Neighbor{ID: model.ID(i), Distance: d})
		}
		assert.Equal(t, 3, q.Len())

		worst, ok := q.Worst()
		assert.True(t, ok)
		assert.Equal(t, float32(3), worst.Distance)

		assert.Equal(t, []model.Neighbor{
			{ID: 1, Distance: 1},
			{ID: 3, Distance: 2},
			{ID: 4, Distance: 3},
		}, q.Sorted())
		assert.Equal(t, 0, q.Len())
	})

	t.Run("TieBreakByID", func(t *testing.T) {
		q := NewTopK(2)
		q.Push(model.Neighbor{ID: 9, Distance: 1})
		q.Push(model.Neighbor{ID: 5, Distance: 1})
		// Equal distance with a smaller id evicts the worst (id 9).
		assert.True(t, q.Push(model.Neighbor{ID: 2, Distance: 1}))
		// Equal distance with a larger id does not.
		assert.False(t, q.Push(model.Neighbor{ID: 7, Distance: 1}))

		assert.Equal(t, []model.Neighbor{{ID: 2, Distance: 1}, {ID: 5, Distance: 1}}, q.Sorted())
	})

	t.Run("ZeroK", func(t *testing.T) {
		q := NewTopK(0)
		assert.False(t, q.Push(model.Neighbor{ID: 1}))
		assert.Empty(t, q.Sorted())
	})

	t.Run("Accepts", func(t *testing.T) {
		q := NewTopK(1)
		assert.True(t, q.Accepts(100))
		q.Push(model.Neighbor{ID: 1, Distance: 2})
		assert.True(t, q.Accepts(2))
		assert.False(t, q.Accepts(2.5))
	})

	t.Run("MatchesSort", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		all := make([]model.Neighbor, 1000)
		q := NewTopK(25)
		for i := range all {
			// Coarse distances force many ties.
			all[i] = model.Neighbor{ID: model.ID(i), Distance: float32(rng.Intn(50))}
			q.Push(all[i])
		}
		slices.SortFunc(all, model.Compare)
		assert.Equal(t, all[:25], q.Sorted())
	})
}
