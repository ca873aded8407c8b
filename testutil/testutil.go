package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/visibility"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// UniformFlat generates num row-major vectors with values in [0, 1).
func (r *RNG) UniformFlat(num, dimensions int) []float32 {
	data := make([]float32, num*dimensions)
	r.FillUniform(data)
	return data
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	return Rows(r.UniformFlat(num, dimensions), dimensions)
}

// ClusteredFlat generates num row-major vectors around clusters random
// centers with uniform noise of the given spread.
func (r *RNG) ClusteredFlat(num, dim, clusters int, spread float32) []float32 {
	centers := r.UniformFlat(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dim)
	for i := range num {
		c := centers[(i%clusters)*dim : (i%clusters+1)*dim]
		vec := data[i*dim : (i+1)*dim]
		for j := range dim {
			vec[j] = c[j] + (r.rand.Float32()*2-1)*spread
		}
	}
	return data
}

// BinaryFlat generates num packed binary vectors of dimBits bits each.
// dimBits must be a multiple of 8.
func (r *RNG) BinaryFlat(num, dimBits int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, num*dimBits/8)
	_, _ = r.rand.Read(data)
	return data
}

// Rows splits row-major data into vectors of width components.
// The returned slices alias data.
func Rows[T any](data []T, width int) [][]T {
	n := len(data) / width
	rows := make([][]T, n)
	for i := range n {
		rows[i] = data[i*width : (i+1)*width : (i+1)*width]
	}
	return rows
}

// ExactTopK computes the reference top-k for each query with one full scan
// over data followed by a sort of all visible candidates.
func ExactTopK[T any](queries [][]T, data []T, width, k int, dist func(a, b []T) float32, mask *visibility.Mask) model.SearchResult {
	rows := Rows(data, width)
	result := model.NewSearchResult(len(queries))
	for qi, q := range queries {
		all := make([]model.Neighbor, 0, len(rows))
		for i, v := range rows {
			if mask.Test(model.ID(i)) {
				continue
			}
			all = append(all, model.Neighbor{ID: model.ID(i), Distance: dist(q, v)})
		}
		slices.SortFunc(all, model.Compare)
		result[qi] = all[:min(k, len(all))]
	}
	return result
}

// ComputeRecall computes recall@k by comparing approximate results against ground truth.
func ComputeRecall(groundTruth, approximate []model.Neighbor) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[model.ID]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i].ID] = struct{}{}
	}

	hits := 0
	for _, r := range approximate[:k] {
		if _, ok := truthSet[r.ID]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
