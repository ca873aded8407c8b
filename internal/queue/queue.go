// Package queue implements the bounded max-heap used to keep the K best
// candidates of a query.
package queue

import (
	"github.com/hupe1980/vecseg/model"
)

// TopK keeps the k best neighbors seen so far under the (distance, id) order.
//
// The heap root is the worst retained neighbor, so a new candidate only has to
// be compared against the root. Value-based storage, no container/heap.
type TopK struct {
	k     int
	items []model.Neighbor
}

// NewTopK creates an empty TopK bounded to k entries.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]model.Neighbor, 0, k),
	}
}

// K returns the bound.
func (q *TopK) K() int { return q.k }

// Len returns the number of retained neighbors.
func (q *TopK) Len() int { return len(q.items) }

// Reset clears the queue for reuse.
func (q *TopK) Reset() {
	q.items = q.items[:0]
}

// Worst returns the worst retained neighbor.
func (q *TopK) Worst() (model.Neighbor, bool) {
	if len(q.items) == 0 {
		return model.Neighbor{}, false
	}
	return q.items[0], true
}

// Push offers n to the queue and reports whether it was retained.
//
// While fewer than k entries are held n is always inserted. Otherwise n
// replaces the worst entry only if it ranks strictly before it: a smaller
// distance, or an equal distance with a smaller id.
func (q *TopK) Push(n model.Neighbor) bool {
	if q.k <= 0 {
		return false
	}
	if len(q.items) < q.k {
		q.items = append(q.items, n)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if !model.Less(n, q.items[0]) {
		return false
	}
	q.items[0] = n
	q.siftDown(0)
	return true
}

// Accepts reports whether a candidate at distance d could still be retained.
// It lets callers skip work for candidates that cannot enter the queue.
func (q *TopK) Accepts(d float32) bool {
	return len(q.items) < q.k || d <= q.items[0].Distance
}

// Sorted drains the queue and returns its neighbors best first.
func (q *TopK) Sorted() []model.Neighbor {
	out := make([]model.Neighbor, len(q.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = q.pop()
	}
	return out
}

func (q *TopK) pop() model.Neighbor {
	n := len(q.items)
	root := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return root
}

// worse reports whether items[i] ranks after items[j].
func (q *TopK) worse(i, j int) bool {
	return model.Less(q.items[j], q.items[i])
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.worse(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.worse(r, l) {
			best = r
		}
		if !q.worse(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
