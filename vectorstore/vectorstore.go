// Package vectorstore provides append-only chunked vector storage.
//
// Vectors are grouped into fixed-capacity chunks. A vector's ID is its global
// offset: chunk index = id / chunkSize, offset in chunk = id % chunkSize.
// Chunks are never reallocated or compacted, so a full chunk is immutable.
//
// A Store has a single writer and any number of lock-free readers. Readers
// take a Snapshot, which captures the store size once and only exposes
// vectors that were completely written before it.
package vectorstore

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/vecseg/model"
)

// DefaultChunkSize is the chunk capacity used when none is configured.
const DefaultChunkSize = 32 * 1024

var (
	// ErrChunkNotFound is returned when a chunk index is outside a snapshot.
	ErrChunkNotFound = errors.New("chunk not found")
)

// Element is the component type of stored vectors: float32 for continuous
// vectors, byte for packed binary vectors.
type Element interface {
	~float32 | ~byte
}

type chunk[T Element] struct {
	data []T // chunkSize * width, allocated up front
}

// Store is an append-only chunked vector store.
type Store[T Element] struct {
	width     int
	chunkSize int

	writeMu sync.Mutex // Serializes writes only
	chunks  atomic.Pointer[[]*chunk[T]]
	size    atomic.Uint64
}

// New creates a store for vectors of width components grouped into chunks
// of chunkSize vectors.
func New[T Element](width, chunkSize int) (*Store[T], error) {
	if width <= 0 {
		return nil, fmt.Errorf("vectorstore: width must be positive, got %d", width)
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("vectorstore: chunk size must be positive, got %d", chunkSize)
	}
	return &Store[T]{width: width, chunkSize: chunkSize}, nil
}

// Width returns the number of components per vector.
func (s *Store[T]) Width() int { return s.width }

// ChunkSize returns the chunk capacity in vectors.
func (s *Store[T]) ChunkSize() int { return s.chunkSize }

// Len returns the number of vectors appended so far.
func (s *Store[T]) Len() int { return int(s.size.Load()) }

// Append stores v and returns its ID.
func (s *Store[T]) Append(v []T) (model.ID, error) {
	if len(v) != s.width {
		return 0, &model.ErrDimensionMismatch{Expected: s.width, Actual: len(v)}
	}
	first, _, err := s.AppendBatch(v)
	return first, err
}

// AppendBatch stores the row-major vectors in data and returns the ID of the
// first one and the number stored.
func (s *Store[T]) AppendBatch(data []T) (model.ID, int, error) {
	if len(data)%s.width != 0 {
		return 0, 0, fmt.Errorf("vectorstore: %d components is not a multiple of width %d: %w",
			len(data), s.width, &model.ErrDimensionMismatch{Expected: s.width, Actual: len(data)})
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	size := int(s.size.Load())
	n := len(data) / s.width
	for i := 0; i < n; i++ {
		id := size + i
		c := s.chunkFor(id)
		off := (id % s.chunkSize) * s.width
		copy(c.data[off:off+s.width], data[i*s.width:(i+1)*s.width])
	}

	// Publish after the data is written.
	s.size.Store(uint64(size + n))
	return model.ID(size), n, nil
}

// chunkFor returns the chunk holding id, opening a new one if needed.
// Caller must hold writeMu.
func (s *Store[T]) chunkFor(id int) *chunk[T] {
	idx := id / s.chunkSize
	var cur []*chunk[T]
	if p := s.chunks.Load(); p != nil {
		cur = *p
	}
	if idx < len(cur) {
		return cur[idx]
	}

	next := make([]*chunk[T], idx+1)
	copy(next, cur)
	for i := len(cur); i <= idx; i++ {
		next[i] = &chunk[T]{data: make([]T, s.chunkSize*s.width)}
	}
	s.chunks.Store(&next)
	return next[idx]
}

// Snapshot returns a read-only view of the vectors stored so far.
func (s *Store[T]) Snapshot() View[T] {
	// Size first: every chunk covering size is published before size is.
	size := int(s.size.Load())
	var chunks []*chunk[T]
	if p := s.chunks.Load(); p != nil {
		chunks = *p
	}
	return View[T]{
		chunks:    chunks,
		size:      size,
		width:     s.width,
		chunkSize: s.chunkSize,
	}
}

// View is a point-in-time read-only view of a Store.
type View[T Element] struct {
	chunks    []*chunk[T]
	size      int
	width     int
	chunkSize int
}

// Len returns the number of vectors visible in the view.
func (v View[T]) Len() int { return v.size }

// Width returns the number of components per vector.
func (v View[T]) Width() int { return v.width }

// NumChunks returns the number of chunks holding visible vectors.
func (v View[T]) NumChunks() int {
	return (v.size + v.chunkSize - 1) / v.chunkSize
}

// Chunk returns the i-th chunk of the view.
func (v View[T]) Chunk(i int) (Chunk[T], error) {
	if i < 0 || i >= v.NumChunks() || i >= len(v.chunks) {
		return Chunk[T]{}, fmt.Errorf("%w: %d of %d", ErrChunkNotFound, i, v.NumChunks())
	}
	base := i * v.chunkSize
	count := min(v.chunkSize, v.size-base)
	n := count * v.width
	return Chunk[T]{
		BaseID: model.ID(base),
		Count:  count,
		Width:  v.width,
		Data:   v.chunks[i].data[:n:n],
	}, nil
}

// Vector returns the vector with the given id.
func (v View[T]) Vector(id model.ID) ([]T, bool) {
	if int(id) >= v.size {
		return nil, false
	}
	c := v.chunks[int(id)/v.chunkSize]
	off := (int(id) % v.chunkSize) * v.width
	return c.data[off : off+v.width : off+v.width], true
}

// Chunk is a read-only window over consecutive vectors.
type Chunk[T Element] struct {
	BaseID model.ID // ID of the first vector
	Count  int      // Number of vectors
	Width  int      // Components per vector
	Data   []T      // Count * Width components, row-major
}

// Vector returns the i-th vector of the chunk.
func (c Chunk[T]) Vector(i int) []T {
	off := i * c.Width
	return c.Data[off : off+c.Width : off+c.Width]
}

// NewChunk wraps row-major data as a chunk starting at baseID.
func NewChunk[T Element](baseID model.ID, width int, data []T) (Chunk[T], error) {
	if width <= 0 || len(data)%width != 0 {
		return Chunk[T]{}, &model.ErrDimensionMismatch{Expected: width, Actual: len(data)}
	}
	return Chunk[T]{BaseID: baseID, Count: len(data) / width, Width: width, Data: data}, nil
}
