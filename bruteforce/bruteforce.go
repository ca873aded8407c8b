// Package bruteforce computes exact per-chunk top-K results.
//
// Each query is compared against every vector of one chunk. Masked vectors
// are skipped before selection, so a chunk always contributes its K best
// visible candidates. Returned ids are global (chunk base id + offset).
package bruteforce

import (
	"fmt"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/internal/queue"
	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/vectorstore"
	"github.com/hupe1980/vecseg/visibility"
)

// Search returns, for every query, the k nearest visible vectors of chunk
// under dist, sorted by (distance, id).
//
// A nil mask means every vector is visible.
func Search[T vectorstore.Element](queries [][]T, chunk vectorstore.Chunk[T], k int, dist func(a, b []T) float32, mask *visibility.Mask) (model.SearchResult, error) {
	if err := model.ValidateK(k); err != nil {
		return nil, err
	}
	if len(chunk.Data) != chunk.Count*chunk.Width {
		return nil, fmt.Errorf("bruteforce: corrupted chunk at %d: %d components for %d vectors of width %d",
			chunk.BaseID, len(chunk.Data), chunk.Count, chunk.Width)
	}
	for _, q := range queries {
		if len(q) != chunk.Width {
			return nil, &model.ErrDimensionMismatch{Expected: chunk.Width, Actual: len(q)}
		}
	}

	// Resolve visibility once per chunk, shared by all queries.
	visible := make([]int, 0, chunk.Count)
	for i := 0; i < chunk.Count; i++ {
		if !mask.Test(chunk.BaseID + model.ID(i)) {
			visible = append(visible, i)
		}
	}

	result := model.NewSearchResult(len(queries))
	heap := queue.NewTopK(k)
	for qi, q := range queries {
		heap.Reset()
		for _, i := range visible {
			d := dist(q, chunk.Vector(i))
			if !heap.Accepts(d) {
				continue
			}
			heap.Push(model.Neighbor{ID: chunk.BaseID + model.ID(i), Distance: d})
		}
		result[qi] = heap.Sorted()
	}
	return result, nil
}

// SearchFloat runs Search over a float chunk with a continuous metric.
func SearchFloat(queries [][]float32, chunk vectorstore.Chunk[float32], k int, metric distance.Metric, mask *visibility.Mask) (model.SearchResult, error) {
	fn, err := distance.Provider(metric)
	if err != nil {
		return nil, &model.ErrUnsupportedMetric{Metric: metric.String()}
	}
	return Search(queries, chunk, k, fn, mask)
}

// SearchBinary runs Search over a packed-bit chunk with a binary metric.
func SearchBinary(queries [][]byte, chunk vectorstore.Chunk[byte], k int, metric distance.Metric, mask *visibility.Mask) (model.SearchResult, error) {
	fn, err := distance.ProviderBytes(metric)
	if err != nil {
		return nil, &model.ErrUnsupportedMetric{Metric: metric.String()}
	}
	return Search(queries, chunk, k, fn, mask)
}
