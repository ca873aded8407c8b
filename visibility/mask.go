// Package visibility provides the per-id exclusion mask consulted by every
// search path.
//
// A set bit hides the vector with that ID from results (deleted or filtered
// out). Masks only grow and bits are never cleared. A nil *Mask and the zero
// value are both valid masks under which everything is visible.
package visibility

import (
	"fmt"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/vecseg/internal/bitset"
	"github.com/hupe1980/vecseg/model"
)

// Mask marks excluded vector IDs.
//
// Mask is safe for concurrent use by one writer and any number of readers.
// Readers never lock; a reader started before a Set may or may not observe it.
type Mask struct {
	bits bitset.BitSet
}

// New creates a mask sized for size ids with no bit set.
func New(size int) (*Mask, error) {
	if size < 0 {
		return nil, &model.ErrMalformedMask{Reason: fmt.Sprintf("negative size %d", size)}
	}
	m := &Mask{}
	m.bits.Grow(uint64(size))
	return m, nil
}

// FromWords creates a mask of size bits from little-endian 64-bit words
// (bit i lives in words[i/64] at position i%64).
func FromWords(words []uint64, size int) (*Mask, error) {
	m, err := New(size)
	if err != nil {
		return nil, err
	}
	need := (size + 63) / 64
	if len(words) < need {
		return nil, &model.ErrMalformedMask{
			Reason: fmt.Sprintf("%d words cannot hold %d bits", len(words), size),
		}
	}
	for i, w := range words {
		if i >= need {
			if w != 0 {
				return nil, &model.ErrMalformedMask{Reason: fmt.Sprintf("bits set beyond size %d", size)}
			}
			continue
		}
		if rem := size - i*64; rem < 64 && w>>uint(rem) != 0 {
			return nil, &model.ErrMalformedMask{Reason: fmt.Sprintf("bits set beyond size %d", size)}
		}
		m.bits.OrWord(uint64(i), w)
	}
	return m, nil
}

// FromBitmap creates a mask of size bits excluding every id in rb.
func FromBitmap(rb *roaring.Bitmap, size int) (*Mask, error) {
	m, err := New(size)
	if err != nil {
		return nil, err
	}
	if rb == nil || rb.IsEmpty() {
		return m, nil
	}
	if maxID := rb.Maximum(); uint64(maxID) >= uint64(size) {
		return nil, &model.ErrMalformedMask{
			Reason: fmt.Sprintf("id %d outside mask of size %d", maxID, size),
		}
	}
	it := rb.Iterator()
	for it.HasNext() {
		m.bits.Set(uint64(it.Next()))
	}
	return m, nil
}

// Set marks id as excluded, growing the mask when needed. It is idempotent.
func (m *Mask) Set(id model.ID) {
	m.bits.Grow(uint64(id) + 1)
	m.bits.Set(uint64(id))
}

// SetRange marks ids in [from, to) as excluded.
func (m *Mask) SetRange(from, to model.ID) {
	if to <= from {
		return
	}
	m.bits.Grow(uint64(to))
	for id := from; id < to; id++ {
		m.bits.Set(uint64(id))
	}
}

// Test reports whether id is excluded. IDs beyond Len are visible.
func (m *Mask) Test(id model.ID) bool {
	if m == nil {
		return false
	}
	return m.bits.Test(uint64(id))
}

// Grow extends the mask to cover size ids. It never shrinks.
func (m *Mask) Grow(size int) {
	if size > 0 {
		m.bits.Grow(uint64(size))
	}
}

// Len returns the number of ids the mask has been sized for.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return int(m.bits.Len())
}

// Count returns the number of excluded ids.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	return m.bits.Count()
}

// Excluded iterates over excluded ids in ascending order.
func (m *Mask) Excluded() iter.Seq[model.ID] {
	return func(yield func(model.ID) bool) {
		if m == nil {
			return
		}
		for id := range m.bits.All() {
			if !yield(model.ID(id)) {
				return
			}
		}
	}
}

// ToBitmap returns the excluded ids as a roaring bitmap.
// Masks sized beyond the 32-bit id space cannot be represented.
func (m *Mask) ToBitmap() (*roaring.Bitmap, error) {
	rb := roaring.New()
	if m == nil {
		return rb, nil
	}
	if m.bits.Len() > math.MaxUint32+1 {
		return nil, &model.ErrMalformedMask{Reason: "mask exceeds 32-bit id space"}
	}
	for id := range m.bits.All() {
		rb.Add(uint32(id))
	}
	return rb, nil
}
