package quantization

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/internal/kmeans"
	"github.com/hupe1980/vecseg/model"
)

// ErrNotTrained is returned when the quantizer is used before Train.
var ErrNotTrained = errors.New("product quantizer not trained")

// ProductQuantizer implements Product Quantization (PQ).
// PQ splits vectors into subvectors and quantizes each independently using k-means clustering.
//
// Example: 128-dim vector with M=8 subvectors → 8 uint8 codes = 8 bytes (64x compression vs float32)
type ProductQuantizer struct {
	numSubvectors int       // M: number of subvectors
	numCentroids  int       // K: number of centroids per subspace (2^nbits)
	dimension     int       // D: original vector dimension
	subvectorDim  int       // D/M: dimensions per subvector
	codebooks     []float32 // Centroids: M * K * subvectorDim
	maxIter       int
	trained       bool
}

// NewProductQuantizer creates a new PQ quantizer.
// Parameters:
//   - dimension: Vector dimensionality (must be divisible by numSubvectors)
//   - numSubvectors: Number of subvectors to split into (M)
//   - nbits: Bits per code (1..8), giving 2^nbits centroids per subspace
func NewProductQuantizer(dimension, numSubvectors, nbits int) (*ProductQuantizer, error) {
	if dimension <= 0 || numSubvectors <= 0 {
		return nil, errors.New("dimension and numSubvectors must be positive")
	}
	if dimension%numSubvectors != 0 {
		return nil, fmt.Errorf("dimension %d must be divisible by numSubvectors %d", dimension, numSubvectors)
	}
	if nbits < 1 || nbits > 8 {
		return nil, fmt.Errorf("nbits must be in [1, 8] for uint8 encoding, got %d", nbits)
	}

	numCentroids := 1 << nbits
	subvectorDim := dimension / numSubvectors

	return &ProductQuantizer{
		numSubvectors: numSubvectors,
		numCentroids:  numCentroids,
		dimension:     dimension,
		subvectorDim:  subvectorDim,
		codebooks:     make([]float32, numSubvectors*numCentroids*subvectorDim),
		maxIter:       20,
	}, nil
}

// Train learns one codebook per subspace from row-major training vectors.
// This must be called before Encode.
func (pq *ProductQuantizer) Train(ctx context.Context, vectors []float32, seed int64) error {
	if len(vectors) == 0 {
		return errors.New("no vectors provided for training")
	}
	if len(vectors)%pq.dimension != 0 {
		return &model.ErrDimensionMismatch{Expected: pq.dimension, Actual: len(vectors) % pq.dimension}
	}
	n := len(vectors) / pq.dimension
	if n < pq.numCentroids {
		return fmt.Errorf("pq: %d training vectors for %d centroids per subspace", n, pq.numCentroids)
	}

	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid excessive context switching if M is large
	g.SetLimit(runtime.GOMAXPROCS(0))

	for m := 0; m < pq.numSubvectors; m++ {
		g.Go(func() error {
			start := m * pq.subvectorDim

			sub := make([]float32, n*pq.subvectorDim)
			for i := 0; i < n; i++ {
				copy(sub[i*pq.subvectorDim:(i+1)*pq.subvectorDim], vectors[i*pq.dimension+start:i*pq.dimension+start+pq.subvectorDim])
			}

			centroids, err := kmeans.Train(ctx, sub, pq.subvectorDim, pq.numCentroids, distance.SquaredL2, kmeans.Options{
				MaxIter:     pq.maxIter,
				Seed:        seed + int64(m),
				Parallelism: 1,
			})
			if err != nil {
				return fmt.Errorf("pq: subspace %d: %w", m, err)
			}

			copy(pq.codebooks[m*pq.numCentroids*pq.subvectorDim:], centroids)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	pq.trained = true
	return nil
}

// Encode quantizes a vector into PQ codes written to dst.
// dst must hold BytesPerVector bytes.
func (pq *ProductQuantizer) Encode(vec []float32, dst []byte) error {
	if !pq.trained {
		return ErrNotTrained
	}
	if len(vec) != pq.dimension {
		return &model.ErrDimensionMismatch{Expected: pq.dimension, Actual: len(vec)}
	}
	if len(dst) != pq.numSubvectors {
		return fmt.Errorf("pq: code buffer holds %d bytes, want %d", len(dst), pq.numSubvectors)
	}

	for m := 0; m < pq.numSubvectors; m++ {
		start := m * pq.subvectorDim
		dst[m] = uint8(kmeans.Assign(vec[start:start+pq.subvectorDim], pq.codebook(m), pq.subvectorDim, distance.SquaredL2))
	}

	return nil
}

// Decode reconstructs an approximate vector from PQ codes.
func (pq *ProductQuantizer) Decode(codes []byte) ([]float32, error) {
	if !pq.trained {
		return nil, ErrNotTrained
	}
	if len(codes) != pq.numSubvectors {
		return nil, errors.New("invalid code length")
	}

	reconstructed := make([]float32, pq.dimension)
	for m := 0; m < pq.numSubvectors; m++ {
		src := pq.centroid(m, int(codes[m]))
		copy(reconstructed[m*pq.subvectorDim:], src)
	}

	return reconstructed, nil
}

// BuildDistanceTable precomputes distances from a query to all centroids.
// Returns a flattened table of size M * K where table[m*K + k] is the partial
// distance of query subvector m to centroid k: squared L2 for MetricL2 and
// negative dot product for MetricIP.
func (pq *ProductQuantizer) BuildDistanceTable(query []float32, metric distance.Metric) ([]float32, error) {
	if len(query) != pq.dimension {
		return nil, &model.ErrDimensionMismatch{Expected: pq.dimension, Actual: len(query)}
	}

	fn, err := distance.Provider(metric)
	if err != nil {
		return nil, err
	}

	table := make([]float32, pq.numSubvectors*pq.numCentroids)
	for m := 0; m < pq.numSubvectors; m++ {
		start := m * pq.subvectorDim
		querySubvec := query[start : start+pq.subvectorDim]
		out := table[m*pq.numCentroids : (m+1)*pq.numCentroids]
		for k := range out {
			out[k] = fn(querySubvec, pq.centroid(m, k))
		}
	}

	return table, nil
}

// AdcDistance computes the approximate distance between a query (represented by the distance table)
// and a quantized vector (represented by codes).
func (pq *ProductQuantizer) AdcDistance(table []float32, codes []byte) float32 {
	var d float32
	for m, c := range codes[:pq.numSubvectors] {
		d += table[m*pq.numCentroids+int(c)]
	}
	return d
}

// BytesPerVector returns the compressed size per vector in bytes.
func (pq *ProductQuantizer) BytesPerVector() int {
	return pq.numSubvectors // One uint8 per subvector
}

// NumSubvectors returns the number of subvectors (M).
func (pq *ProductQuantizer) NumSubvectors() int {
	return pq.numSubvectors
}

// NumCentroids returns the number of centroids per subspace (K).
func (pq *ProductQuantizer) NumCentroids() int {
	return pq.numCentroids
}

// IsTrained returns whether the quantizer has been trained.
func (pq *ProductQuantizer) IsTrained() bool {
	return pq.trained
}

func (pq *ProductQuantizer) codebook(m int) []float32 {
	size := pq.numCentroids * pq.subvectorDim
	return pq.codebooks[m*size : (m+1)*size]
}

func (pq *ProductQuantizer) centroid(m, k int) []float32 {
	start := (m*pq.numCentroids + k) * pq.subvectorDim
	return pq.codebooks[start : start+pq.subvectorDim]
}
