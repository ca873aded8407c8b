package ivf

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/internal/kmeans"
	"github.com/hupe1980/vecseg/internal/quantization"
	"github.com/hupe1980/vecseg/internal/queue"
	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/topk"
)

// Compile-time check to ensure Index satisfies the index interface.
var _ index.Index = (*Index)(nil)

// Options contains configuration options for the IVF index.
type Options struct {
	// Kind selects the list encoding: index.KindIVFFlat or index.KindIVFPQ.
	Kind index.Kind

	// Dimension is the fixed vector dimensionality.
	// Zero means it is fixed by the first Train.
	Dimension int

	// Metric is the distance metric (L2 or IP).
	Metric distance.Metric

	// Parallelism bounds the goroutines used by training, Add and Query.
	// Zero uses GOMAXPROCS.
	Parallelism int

	// Logger receives training and ingestion logs. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the IVF index.
var DefaultOptions = Options{
	Kind:   index.KindIVFFlat,
	Metric: distance.MetricL2,
}

// minParallelRows is the smallest batch worth splitting across goroutines.
const minParallelRows = 1024

// invList is one inverted list of a sub-index.
type invList struct {
	ids     []model.ID
	vectors []float32 // IVF_FLAT: row-major raw vectors
	codes   []byte    // IVF_PQ: row-major PQ codes of residuals
}

// subIndex is the state produced by one Train call.
type subIndex struct {
	params    Params
	centroids []float32 // nlist * dim
	pq        *quantization.ProductQuantizer
	lists     []invList
	count     int
}

// Index is a trainable inverted-file index.
type Index struct {
	opts   Options
	logger *slog.Logger
	dist   distance.Func

	mu        sync.RWMutex
	dimension int
	count     int
	subs      []*subIndex
}

// New creates a new, untrained IVF index.
func New(optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.Kind.Trainable() {
		return nil, fmt.Errorf("ivf: unsupported index kind %s", opts.Kind)
	}
	if opts.Dimension < 0 {
		return nil, fmt.Errorf("ivf: dimension must not be negative, got %d", opts.Dimension)
	}
	dist, err := distance.Provider(opts.Metric)
	if err != nil {
		return nil, &model.ErrUnsupportedMetric{Metric: opts.Metric.String()}
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Index{
		opts:      opts,
		logger:    logger,
		dist:      dist,
		dimension: opts.Dimension,
	}, nil
}

// Kind returns the configured index kind.
func (x *Index) Kind() index.Kind { return x.opts.Kind }

// Metric returns the distance metric.
func (x *Index) Metric() distance.Metric { return x.opts.Metric }

// Dimension returns the vector dimension, or 0 before the first Train.
func (x *Index) Dimension() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dimension
}

// Count returns the number of vectors added across all sub-indexes.
func (x *Index) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.count
}

// SubIndexes returns the number of trained sub-indexes.
func (x *Index) SubIndexes() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.subs)
}

// Train fits a new sub-index on ds. Subsequent Add calls fill it.
func (x *Index) Train(ds *index.Dataset, params index.TrainParams) error {
	if ds.IsBinary() {
		return &model.ErrUnsupportedMetric{Metric: "binary"}
	}
	p, err := ParseParams(params)
	if err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.dimension != 0 && ds.Dim() != x.dimension {
		return &model.ErrDimensionMismatch{Expected: x.dimension, Actual: ds.Dim()}
	}
	dim := ds.Dim()
	if ds.Rows() < p.NList {
		return fmt.Errorf("ivf: %d training vectors for nlist %d", ds.Rows(), p.NList)
	}

	start := time.Now()
	ctx := context.Background()

	sample := trainingSample(ds, p.NList*p.MaxPointsPerCentroid, p.Seed)

	centroids, err := kmeans.Train(ctx, sample, dim, p.NList, x.dist, kmeans.Options{
		MaxIter:     p.MaxIter,
		Seed:        p.Seed,
		Parallelism: x.opts.Parallelism,
	})
	if err != nil {
		return fmt.Errorf("ivf: train coarse quantizer: %w", err)
	}

	sub := &subIndex{
		params:    p,
		centroids: centroids,
		lists:     make([]invList, p.NList),
	}

	if x.opts.Kind == index.KindIVFPQ {
		m, err := p.subvectors(dim)
		if err != nil {
			return err
		}
		pq, err := quantization.NewProductQuantizer(dim, m, p.NBits)
		if err != nil {
			return fmt.Errorf("ivf: %w", err)
		}
		residuals := make([]float32, len(sample))
		for i := 0; i < len(sample)/dim; i++ {
			vec := sample[i*dim : (i+1)*dim]
			list := kmeans.Assign(vec, centroids, dim, x.dist)
			residual(residuals[i*dim:(i+1)*dim], vec, centroids[list*dim:(list+1)*dim])
		}
		if err := pq.Train(ctx, residuals, p.Seed); err != nil {
			return fmt.Errorf("ivf: train product quantizer: %w", err)
		}
		sub.pq = pq
	}

	x.subs = append(x.subs, sub)
	x.dimension = dim

	x.logger.Info("ivf train",
		"kind", x.opts.Kind.String(),
		"rows", ds.Rows(),
		"sample", len(sample)/dim,
		"nlist", p.NList,
		"sub_indexes", len(x.subs),
		"duration", time.Since(start),
	)
	return nil
}

// Add assigns the vectors of ds to the latest sub-index.
func (x *Index) Add(ds *index.Dataset) error {
	if ds.IsBinary() {
		return &model.ErrUnsupportedMetric{Metric: "binary"}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if len(x.subs) == 0 {
		return model.ErrUntrainedIndex
	}
	if ds.Dim() != x.dimension {
		return &model.ErrDimensionMismatch{Expected: x.dimension, Actual: ds.Dim()}
	}

	start := time.Now()
	sub := x.subs[len(x.subs)-1]
	dim := x.dimension
	n := ds.Rows()

	assignments := make([]int, n)
	var codes []byte
	if sub.pq != nil {
		codes = make([]byte, n*sub.pq.BytesPerVector())
	}

	workers := min(x.opts.Parallelism, max(1, n/minParallelRows))
	block := (n + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			res := make([]float32, dim)
			for i := w * block; i < min((w+1)*block, n); i++ {
				vec := ds.FloatRow(i)
				list := kmeans.Assign(vec, sub.centroids, dim, x.dist)
				assignments[i] = list
				if sub.pq == nil {
					continue
				}
				residual(res, vec, sub.centroids[list*dim:(list+1)*dim])
				cs := sub.pq.BytesPerVector()
				if err := sub.pq.Encode(res, codes[i*cs:(i+1)*cs]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("ivf: add: %w", err)
	}

	first := model.ID(x.count)
	for i, list := range assignments {
		l := &sub.lists[list]
		l.ids = append(l.ids, first+model.ID(i))
		if sub.pq == nil {
			l.vectors = append(l.vectors, ds.FloatRow(i)...)
		} else {
			cs := sub.pq.BytesPerVector()
			l.codes = append(l.codes, codes[i*cs:(i+1)*cs]...)
		}
	}
	sub.count += n
	x.count += n

	x.logger.Debug("ivf add",
		"first_id", uint64(first),
		"rows", n,
		"count", x.count,
		"duration", time.Since(start),
	)
	return nil
}

// Query returns the approximate K nearest visible vectors for every query row.
func (x *Index) Query(queries *index.Dataset, req index.SearchRequest) (model.SearchResult, error) {
	if err := model.ValidateK(req.K); err != nil {
		return nil, err
	}
	if queries.IsBinary() {
		return nil, &model.ErrUnsupportedMetric{Metric: "binary"}
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.subs) == 0 {
		return nil, model.ErrUntrainedIndex
	}
	if queries.Dim() != x.dimension {
		return nil, &model.ErrDimensionMismatch{Expected: x.dimension, Actual: queries.Dim()}
	}

	result := model.NewSearchResult(queries.Rows())

	var g errgroup.Group
	g.SetLimit(x.opts.Parallelism)
	for qi := 0; qi < queries.Rows(); qi++ {
		g.Go(func() error {
			q := queries.FloatRow(qi)
			heap := queue.NewTopK(req.K)
			var merged []model.Neighbor
			for _, sub := range x.subs {
				heap.Reset()
				if err := x.searchSub(sub, q, req, heap); err != nil {
					return err
				}
				merged = topk.Merge(merged, heap.Sorted(), req.K)
			}
			result[qi] = merged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// searchSub pushes the visible members of the probed lists of sub into heap.
func (x *Index) searchSub(sub *subIndex, q []float32, req index.SearchRequest, heap *queue.TopK) error {
	dim := x.dimension
	nprobe := req.NProbe
	if nprobe <= 0 {
		nprobe = sub.params.NProbe
	}
	probes := kmeans.FindClosestCentroids(q, sub.centroids, dim, nprobe, x.dist)

	if sub.pq == nil {
		for _, list := range probes {
			l := &sub.lists[list]
			for j, id := range l.ids {
				if req.Mask.Test(id) {
					continue
				}
				d := x.dist(q, l.vectors[j*dim:(j+1)*dim])
				if heap.Accepts(d) {
					heap.Push(model.Neighbor{ID: id, Distance: d})
				}
			}
		}
		return nil
	}

	var (
		table []float32
		err   error
	)
	if x.opts.Metric == distance.MetricIP {
		// -<q, c + r> = -<q, c> + sum over subspaces of -<q_m, r_m>.
		table, err = sub.pq.BuildDistanceTable(q, distance.MetricIP)
		if err != nil {
			return err
		}
	}

	cs := sub.pq.BytesPerVector()
	res := make([]float32, dim)
	for _, list := range probes {
		l := &sub.lists[list]
		if len(l.ids) == 0 {
			continue
		}
		centroid := sub.centroids[list*dim : (list+1)*dim]

		var base float32
		if x.opts.Metric == distance.MetricIP {
			base = distance.NegativeDot(q, centroid)
		} else {
			// ||q - (c + r)||² = ||(q - c) - r||²
			residual(res, q, centroid)
			table, err = sub.pq.BuildDistanceTable(res, distance.MetricL2)
			if err != nil {
				return err
			}
		}

		for j, id := range l.ids {
			if req.Mask.Test(id) {
				continue
			}
			d := base + sub.pq.AdcDistance(table, l.codes[j*cs:(j+1)*cs])
			if heap.Accepts(d) {
				heap.Push(model.Neighbor{ID: id, Distance: d})
			}
		}
	}
	return nil
}

// trainingSample returns at most limit rows of ds, drawn without replacement.
func trainingSample(ds *index.Dataset, limit int, seed int64) []float32 {
	n := ds.Rows()
	if n <= limit {
		return ds.Floats()
	}

	dim := ds.Dim()
	perm := rand.New(rand.NewSource(seed)).Perm(n)[:limit]
	sample := make([]float32, 0, limit*dim)
	for _, i := range perm {
		sample = append(sample, ds.FloatRow(i)...)
	}
	return sample
}

func residual(dst, vec, centroid []float32) {
	for i := range dst {
		dst[i] = vec[i] - centroid[i]
	}
}
