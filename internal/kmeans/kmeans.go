package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecseg/distance"
)

// Options configures a k-means run.
type Options struct {
	// MaxIter bounds the number of Lloyd iterations.
	MaxIter int

	// Seed makes centroid initialization reproducible.
	Seed int64

	// Parallelism bounds the goroutines of the assignment step.
	// Zero uses GOMAXPROCS.
	Parallelism int
}

// DefaultOptions are used for zero fields of Options.
var DefaultOptions = Options{
	MaxIter: 25,
	Seed:    1234,
}

// minParallelRows is the smallest row count worth splitting across goroutines.
const minParallelRows = 4096

// Train trains k centroids from the given vectors using Lloyd's algorithm.
// It returns the flattened centroids (k * dim).
func Train(ctx context.Context, vectors []float32, dim, k int, dist distance.Func, opts Options) ([]float32, error) {
	if dim <= 0 || len(vectors)%dim != 0 {
		return nil, fmt.Errorf("kmeans: %d components is not a multiple of dimension %d", len(vectors), dim)
	}
	n := len(vectors) / dim
	if k <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("kmeans: %d training vectors for %d centroids", n, k)
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultOptions.MaxIter
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	centroids := make([]float32, k*dim)

	// Initialize centroids randomly from data points
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float32, k*dim)

	for iter := 0; iter < opts.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Assignment step
		changed, err := assign(ctx, vectors, dim, centroids, dist, assignments, opts.Parallelism)
		if err != nil {
			return nil, err
		}
		if !changed {
			break
		}

		// Update step
		clear(sums)
		clear(counts)

		for i := 0; i < n; i++ {
			cluster := assignments[i]
			vec := vectors[i*dim : (i+1)*dim]
			for d := 0; d < dim; d++ {
				sums[cluster*dim+d] += vec[d]
			}
			counts[cluster]++
		}

		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1.0 / float32(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Re-seed an empty cluster with a random point
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	return centroids, nil
}

// assign updates assignments in place and reports whether any changed.
func assign(ctx context.Context, vectors []float32, dim int, centroids []float32, dist distance.Func, assignments []int, parallelism int) (bool, error) {
	n := len(assignments)
	workers := min(parallelism, max(1, n/minParallelRows))
	block := (n + workers - 1) / workers

	changed := make([]bool, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			start, end := w*block, min((w+1)*block, n)
			for i := start; i < end; i++ {
				if i%minParallelRows == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				best := Assign(vectors[i*dim:(i+1)*dim], centroids, dim, dist)
				if assignments[i] != best {
					assignments[i] = best
					changed[w] = true
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}
	return slices.Contains(changed, true), nil
}

// Assign returns the index of the closest centroid to vec.
// Ties resolve to the smaller index.
func Assign(vec []float32, centroids []float32, dim int, dist distance.Func) int {
	k := len(centroids) / dim
	best := -1
	minDist := float32(math.MaxFloat32)

	for j := 0; j < k; j++ {
		d := dist(vec, centroids[j*dim:(j+1)*dim])
		if best < 0 || d < minDist {
			minDist = d
			best = j
		}
	}

	return best
}

type centroidDist struct {
	id   int
	dist float32
}

// FindClosestCentroids returns the indices of the n closest centroids to the query vector.
func FindClosestCentroids(query []float32, centroids []float32, dim int, n int, dist distance.Func) []int {
	k := len(centroids) / dim
	n = min(n, k)

	dists := make([]centroidDist, k)
	for i := 0; i < k; i++ {
		dists[i] = centroidDist{id: i, dist: dist(query, centroids[i*dim:(i+1)*dim])}
	}

	slices.SortStableFunc(dists, func(a, b centroidDist) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})

	result := make([]int, n)
	for i := 0; i < n; i++ {
		result[i] = dists[i].id
	}

	return result
}
