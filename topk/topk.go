// Package topk folds per-chunk partial results into a global top-K.
//
// Merging is a streaming k-way merge over the (distance, id) total order:
// the outcome equals sorting every candidate seen and keeping the first K,
// independent of the order in which partial results arrive.
package topk

import (
	"fmt"

	"github.com/hupe1980/vecseg/internal/queue"
	"github.com/hupe1980/vecseg/model"
)

// Merger accumulates the running top-K of a query batch.
//
// A Merger is not safe for concurrent use.
type Merger struct {
	k     int
	heaps []*queue.TopK
}

// New creates a Merger for nq queries keeping k results each.
func New(nq, k int) (*Merger, error) {
	if err := model.ValidateK(k); err != nil {
		return nil, err
	}
	heaps := make([]*queue.TopK, nq)
	for i := range heaps {
		heaps[i] = queue.NewTopK(k)
	}
	return &Merger{k: k, heaps: heaps}, nil
}

// K returns the result width.
func (m *Merger) K() int { return m.k }

// Merge folds one partial result into the running top-K.
// Each partial list must be sorted by (distance, id).
func (m *Merger) Merge(partial model.SearchResult) error {
	if len(partial) != len(m.heaps) {
		return fmt.Errorf("topk: partial result has %d queries, want %d", len(partial), len(m.heaps))
	}
	for q, list := range partial {
		h := m.heaps[q]
		for _, n := range list {
			// Sorted input: nothing after a rejected distance can enter.
			if !h.Accepts(n.Distance) {
				break
			}
			h.Push(n)
		}
	}
	return nil
}

// Result returns the merged lists, best first, and resets the merger.
func (m *Merger) Result() model.SearchResult {
	out := model.NewSearchResult(len(m.heaps))
	for q, h := range m.heaps {
		out[q] = h.Sorted()
	}
	return out
}

// Merge merges two sorted lists into one sorted list of at most k entries.
func Merge(a, b []model.Neighbor, k int) []model.Neighbor {
	out := make([]model.Neighbor, 0, min(k, len(a)+len(b)))
	i, j := 0, 0
	for len(out) < k && (i < len(a) || j < len(b)) {
		switch {
		case j >= len(b) || (i < len(a) && !model.Less(b[j], a[i])):
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	return out
}
