package flat

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecseg/bruteforce"
	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/topk"
	"github.com/hupe1980/vecseg/vectorstore"
	"github.com/hupe1980/vecseg/visibility"
)

// Compile-time check to ensure Flat satisfies the index interface.
var _ index.Index = (*Flat)(nil)

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed vector dimensionality (bits for binary metrics).
	// Zero means it is fixed by the first Train or Add.
	Dimension int

	// Metric is the distance metric.
	Metric distance.Metric

	// ChunkSize is the number of vectors per storage chunk.
	ChunkSize int

	// Parallelism bounds the number of chunks scanned concurrently per query.
	// Values <= 1 scan sequentially.
	Parallelism int

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension:   0,
	Metric:      distance.MetricL2,
	ChunkSize:   vectorstore.DefaultChunkSize,
	Parallelism: 1,
}

// Flat is an exact index over an append-only chunked store.
// Add calls are serialized; Query is lock-free and may run concurrently with Add.
type Flat struct {
	opts   Options
	logger *slog.Logger

	writeMu   sync.Mutex   // Serializes Train/Add
	dimension atomic.Int32 // Dimension of vectors (lock-free)
	floats    atomic.Pointer[vectorstore.Store[float32]]
	bits      atomic.Pointer[vectorstore.Store[byte]]
}

// New creates a new flat index.
func New(optFns ...func(o *Options)) (*Flat, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dimension < 0 {
		return nil, fmt.Errorf("flat: dimension must not be negative, got %d", opts.Dimension)
	}
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("flat: chunk size must be positive, got %d", opts.ChunkSize)
	}
	if opts.Metric.IsBinary() && opts.Dimension%8 != 0 {
		return nil, fmt.Errorf("flat: binary dimension must be a multiple of 8, got %d", opts.Dimension)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f := &Flat{opts: opts, logger: logger}
	if opts.Dimension > 0 {
		if err := f.initStore(opts.Dimension); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Kind returns index.KindFlat.
func (*Flat) Kind() index.Kind { return index.KindFlat }

// Metric returns the distance metric.
func (f *Flat) Metric() distance.Metric { return f.opts.Metric }

// Dimension returns the vector dimension, or 0 before the first Train or Add.
func (f *Flat) Dimension() int { return int(f.dimension.Load()) }

// Count returns the number of stored vectors.
func (f *Flat) Count() int {
	if f.opts.Metric.IsBinary() {
		if s := f.bits.Load(); s != nil {
			return s.Len()
		}
		return 0
	}
	if s := f.floats.Load(); s != nil {
		return s.Len()
	}
	return 0
}

// Train fixes the dimension on first use; a flat index has nothing to fit.
func (f *Flat) Train(ds *index.Dataset, _ index.TrainParams) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	return f.prepare(ds)
}

// Add appends the vectors of ds.
func (f *Flat) Add(ds *index.Dataset) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	if err := f.prepare(ds); err != nil {
		return err
	}

	var (
		first model.ID
		n     int
		err   error
	)
	if ds.IsBinary() {
		first, n, err = f.bits.Load().AppendBatch(ds.Bits())
	} else {
		first, n, err = f.floats.Load().AppendBatch(ds.Floats())
	}
	if err != nil {
		return fmt.Errorf("flat: add: %w", err)
	}

	f.logger.Debug("flat add", "first_id", uint64(first), "rows", n, "count", f.Count())
	return nil
}

// Query returns the exact K nearest visible vectors for every query row.
func (f *Flat) Query(queries *index.Dataset, req index.SearchRequest) (model.SearchResult, error) {
	if err := model.ValidateK(req.K); err != nil {
		return nil, err
	}
	if err := f.checkKind(queries); err != nil {
		return nil, err
	}

	dim := f.Dimension()
	if dim == 0 {
		return model.NewSearchResult(queries.Rows()), nil
	}
	if queries.Dim() != dim {
		return nil, &model.ErrDimensionMismatch{Expected: dim, Actual: queries.Dim()}
	}

	if queries.IsBinary() {
		fn, err := distance.ProviderBytes(f.opts.Metric)
		if err != nil {
			return nil, &model.ErrUnsupportedMetric{Metric: f.opts.Metric.String()}
		}
		return searchChunks(f.bits.Load().Snapshot(), queries.BinaryRows(), req.K, fn, req.Mask, f.opts.Parallelism)
	}

	fn, err := distance.Provider(f.opts.Metric)
	if err != nil {
		return nil, &model.ErrUnsupportedMetric{Metric: f.opts.Metric.String()}
	}
	return searchChunks(f.floats.Load().Snapshot(), queries.FloatRows(), req.K, fn, req.Mask, f.opts.Parallelism)
}

// Stats describes the storage layout of a flat index.
type Stats struct {
	Dimension int
	Count     int
	Chunks    int
	ChunkSize int
	Metric    distance.Metric
}

// Stats returns a point-in-time description of the index.
func (f *Flat) Stats() Stats {
	st := Stats{
		Dimension: f.Dimension(),
		ChunkSize: f.opts.ChunkSize,
		Metric:    f.opts.Metric,
	}
	if s := f.bits.Load(); s != nil {
		v := s.Snapshot()
		st.Count, st.Chunks = v.Len(), v.NumChunks()
	}
	if s := f.floats.Load(); s != nil {
		v := s.Snapshot()
		st.Count, st.Chunks = v.Len(), v.NumChunks()
	}
	return st
}

// prepare validates ds and creates the store on first use.
// Callers must hold writeMu.
func (f *Flat) prepare(ds *index.Dataset) error {
	if err := f.checkKind(ds); err != nil {
		return err
	}
	if dim := f.Dimension(); dim != 0 {
		if ds.Dim() != dim {
			return &model.ErrDimensionMismatch{Expected: dim, Actual: ds.Dim()}
		}
		return nil
	}
	return f.initStore(ds.Dim())
}

func (f *Flat) initStore(dim int) error {
	if f.opts.Metric.IsBinary() {
		s, err := vectorstore.New[byte](dim/8, f.opts.ChunkSize)
		if err != nil {
			return err
		}
		f.bits.Store(s)
	} else {
		s, err := vectorstore.New[float32](dim, f.opts.ChunkSize)
		if err != nil {
			return err
		}
		f.floats.Store(s)
	}
	// Publish the dimension last: a non-zero dimension implies a store.
	f.dimension.Store(int32(dim))
	return nil
}

func (f *Flat) checkKind(ds *index.Dataset) error {
	if ds.IsBinary() != f.opts.Metric.IsBinary() {
		return &model.ErrUnsupportedMetric{Metric: f.opts.Metric.String()}
	}
	return nil
}

// searchChunks runs a brute-force scan over every chunk of view and merges
// the partial results in ascending chunk order.
func searchChunks[T vectorstore.Element](view vectorstore.View[T], queries [][]T, k int, dist func(a, b []T) float32, mask *visibility.Mask, parallelism int) (model.SearchResult, error) {
	merger, err := topk.New(len(queries), k)
	if err != nil {
		return nil, err
	}

	n := view.NumChunks()
	if parallelism <= 1 || n <= 1 {
		for i := range n {
			chunk, err := view.Chunk(i)
			if err != nil {
				return nil, err
			}
			partial, err := bruteforce.Search(queries, chunk, k, dist, mask)
			if err != nil {
				return nil, err
			}
			if err := merger.Merge(partial); err != nil {
				return nil, err
			}
		}
		return merger.Result(), nil
	}

	partials := make([]model.SearchResult, n)

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := range n {
		g.Go(func() error {
			chunk, err := view.Chunk(i)
			if err != nil {
				return err
			}
			partials[i], err = bruteforce.Search(queries, chunk, k, dist, mask)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, partial := range partials {
		if err := merger.Merge(partial); err != nil {
			return nil, err
		}
	}
	return merger.Result(), nil
}
