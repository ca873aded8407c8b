package vecseg

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/visibility"
)

// Segment couples an index with the visibility mask consulted by every search.
//
// Inserted vectors receive consecutive ids starting at zero. Deleting an id
// sets its mask bit; the vector stays stored but never appears in results.
// Searches may run concurrently with Insert and Delete. A search started
// before a Delete may or may not observe it.
type Segment struct {
	writeMu sync.Mutex // Serializes Train, Insert and Delete

	idx         index.Index
	mask        *visibility.Mask
	k           int
	trainParams index.TrainParams
	logger      *Logger
	metrics     MetricsCollector
}

// New creates a segment backed by the index selected by cfg.
func New(cfg IndexConfig, optFns ...Option) (*Segment, error) {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&o)
	}

	if cfg.Logger == nil {
		cfg.Logger = o.logger.Logger
	}
	idx, err := NewIndex(cfg)
	if err != nil {
		return nil, err
	}

	mask, err := visibility.New(0)
	if err != nil {
		return nil, err
	}

	return &Segment{
		idx:     idx,
		mask:    mask,
		k:       10,
		logger:  o.logger.WithIndex(cfg.Kind.String()),
		metrics: o.metricsCollector,
	}, nil
}

// NewFromConfig creates a segment from a declarative configuration.
// The logger is derived from cfg.Log unless WithLogger is given.
func NewFromConfig(cfg *Config, optFns ...Option) (*Segment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ic, err := cfg.IndexConfig()
	if err != nil {
		return nil, err
	}
	logger, err := NewLoggerFromConfig(os.Stderr, cfg.Log)
	if err != nil {
		return nil, err
	}

	s, err := New(ic, append([]Option{WithLogger(logger)}, optFns...)...)
	if err != nil {
		return nil, err
	}
	s.k = cfg.K
	s.trainParams = cfg.TrainParams
	return s, nil
}

// Index returns the underlying index.
func (s *Segment) Index() index.Index { return s.idx }

// Mask returns the visibility mask.
func (s *Segment) Mask() *visibility.Mask { return s.mask }

// Count returns the number of inserted vectors, including deleted ones.
func (s *Segment) Count() int { return s.idx.Count() }

// Dimension returns the vector dimension, or 0 before the first Train or Insert.
func (s *Segment) Dimension() int { return s.idx.Dimension() }

// DefaultK returns the result width used when Search is called with k == 0.
func (s *Segment) DefaultK() int { return s.k }

// Train fits the index on ds. Nil params fall back to the configured train params.
func (s *Segment) Train(ctx context.Context, ds *index.Dataset, params index.TrainParams) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordTrain(ds.Rows(), time.Since(start), err)
		s.logger.LogTrain(ctx, ds.Rows(), err)
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if params == nil {
		params = s.trainParams
	}
	if err := s.idx.Train(ds, params); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	return nil
}

// Insert appends the vectors of ds and returns the id of the first one.
func (s *Segment) Insert(ctx context.Context, ds *index.Dataset) (first model.ID, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordInsert(ds.Rows(), time.Since(start), err)
		s.logger.LogInsert(ctx, uint64(first), ds.Rows(), err)
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	first = model.ID(s.idx.Count())
	if err := s.idx.Add(ds); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	s.mask.Grow(s.idx.Count())
	return first, nil
}

// Delete hides id from all subsequent searches.
func (s *Segment) Delete(ctx context.Context, id model.ID) (err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDelete(1, time.Since(start), err)
		s.logger.LogDelete(ctx, 1, err)
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if uint64(id) >= uint64(s.idx.Count()) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	s.mask.Set(id)
	return nil
}

// DeleteBitmap hides every id in rb from all subsequent searches.
// No id is hidden if rb contains an id that was never inserted.
func (s *Segment) DeleteBitmap(ctx context.Context, rb *roaring.Bitmap) (err error) {
	start := time.Now()
	n := 0
	if rb != nil {
		n = int(rb.GetCardinality())
	}
	defer func() {
		s.metrics.RecordDelete(n, time.Since(start), err)
		s.logger.LogDelete(ctx, n, err)
	}()

	if n == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if int(rb.Maximum()) >= s.idx.Count() {
		return fmt.Errorf("%w: id %d", ErrNotFound, rb.Maximum())
	}
	it := rb.Iterator()
	for it.HasNext() {
		s.mask.Set(model.ID(it.Next()))
	}
	return nil
}

// Search returns the k nearest visible vectors for every query row.
// A k of zero uses the configured default.
func (s *Segment) Search(ctx context.Context, queries *index.Dataset, k int, optFns ...SearchOption) (result model.SearchResult, err error) {
	if k == 0 {
		k = s.k
	}

	var so searchOptions
	for _, fn := range optFns {
		fn(&so)
	}

	start := time.Now()
	defer func() {
		found := 0
		for _, list := range result {
			found += len(list)
		}
		s.metrics.RecordSearch(queries.Rows(), k, time.Since(start), err)
		s.logger.LogSearch(ctx, queries.Rows(), k, found, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err = s.idx.Query(queries, index.SearchRequest{
		K:      k,
		NProbe: so.nprobe,
		Mask:   s.mask,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}
