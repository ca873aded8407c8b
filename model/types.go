package model

import (
	"fmt"
	"slices"
)

// ID is the zero-based global offset of a vector.
// IDs are assigned monotonically on insert and never reused.
type ID uint64

// Neighbor is a single candidate in a result list.
type Neighbor struct {
	ID       ID
	Distance float32
}

// String returns a string representation of the Neighbor.
func (n Neighbor) String() string {
	return fmt.Sprintf("%d->%f", n.ID, n.Distance)
}

// Less reports whether a ranks before b: smaller distance first, then smaller ID.
func Less(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.ID < b.ID
}

// Compare is the three-way form of Less, usable with slices.SortFunc.
func Compare(a, b Neighbor) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}

// SortNeighbors sorts ns in place by (distance, id).
func SortNeighbors(ns []Neighbor) {
	slices.SortFunc(ns, Compare)
}

// SearchResult holds one ordered neighbor list per query.
// Lists may hold fewer than K entries when fewer candidates were visible.
type SearchResult [][]Neighbor

// NewSearchResult allocates an empty result for nq queries.
func NewSearchResult(nq int) SearchResult {
	return make(SearchResult, nq)
}

// NumQueries returns the number of query lists.
func (r SearchResult) NumQueries() int { return len(r) }

// IDs returns the ids of query q in rank order.
func (r SearchResult) IDs(q int) []ID {
	ids := make([]ID, len(r[q]))
	for i, n := range r[q] {
		ids[i] = n.ID
	}
	return ids
}

// Distances returns the distances of query q in rank order.
func (r SearchResult) Distances(q int) []float32 {
	dists := make([]float32, len(r[q]))
	for i, n := range r[q] {
		dists[i] = n.Distance
	}
	return dists
}
