package bitset

import (
	"iter"
	"math/bits"
	"sync/atomic"
)

const (
	// segmentBits determines the size of each segment.
	// 16 bits = 65536 bits per segment.
	segmentBits = 16
	segmentSize = 1 << segmentBits // 65536 bits
	segmentMask = segmentSize - 1

	// wordsPerSegment is the number of uint64 words in a segment.
	// 65536 bits / 64 bits/word = 1024 words.
	wordsPerSegment = segmentSize / 64
)

// BitSegment is a fixed-size segment of the bitset.
type BitSegment [wordsPerSegment]atomic.Uint64

// BitSet is a thread-safe, lock-free, segmented bitset.
// The zero value is an empty bitset ready to use.
type BitSet struct {
	segments atomic.Pointer[[]*BitSegment]
	size     atomic.Uint64
}

// New creates a new BitSet with the given size (in bits).
func New(size uint64) *BitSet {
	b := &BitSet{}
	b.growSegments(size)
	b.size.Store(size)
	return b
}

// growSegments ensures enough segments exist for the given size.
func (b *BitSet) growSegments(size uint64) {
	if size == 0 {
		return
	}
	targetIdx := int((size - 1) >> segmentBits)

	// Fast path
	segments := b.segments.Load()
	if segments != nil && len(*segments) > targetIdx {
		return
	}

	// Slow path: CAS loop
	for {
		oldSegments := b.segments.Load()
		currentLen := 0
		if oldSegments != nil {
			currentLen = len(*oldSegments)
		}
		if targetIdx < currentLen {
			return // Already grown
		}

		newSegments := make([]*BitSegment, targetIdx+1)
		if oldSegments != nil {
			copy(newSegments, *oldSegments)
		}
		for i := currentLen; i < len(newSegments); i++ {
			newSegments[i] = new(BitSegment)
		}

		if b.segments.CompareAndSwap(oldSegments, &newSegments) {
			return
		}
	}
}

// word returns the atomic word holding bit i, or nil if i is outside the bitset.
func (b *BitSet) word(i uint64) *atomic.Uint64 {
	if i >= b.size.Load() {
		return nil
	}
	segIdx := int(i >> segmentBits)
	segments := b.segments.Load()
	if segments == nil || segIdx >= len(*segments) {
		return nil
	}
	offset := i & segmentMask
	return &(*segments)[segIdx][offset/64]
}

// Set sets the bit at the given index. Indexes beyond Len are ignored.
func (b *BitSet) Set(i uint64) {
	if w := b.word(i); w != nil {
		w.Or(uint64(1) << (i % 64))
	}
}

// Test returns true if the bit at the given index is set.
func (b *BitSet) Test(i uint64) bool {
	w := b.word(i)
	if w == nil {
		return false
	}
	return w.Load()&(uint64(1)<<(i%64)) != 0
}

// OrWord ORs val into the 64-bit word starting at bit wordIdx*64.
// Bits that fall beyond Len are dropped.
func (b *BitSet) OrWord(wordIdx uint64, val uint64) {
	base := wordIdx * 64
	size := b.size.Load()
	if base >= size {
		return
	}
	if rem := size - base; rem < 64 {
		val &= (uint64(1) << rem) - 1
	}
	if w := b.word(base); w != nil {
		w.Or(val)
	}
}

// NextSetBit returns the index of the next set bit starting from i (inclusive).
// Returns -1 if no bit is set after i.
func (b *BitSet) NextSetBit(i uint64) int64 {
	limit := b.size.Load()
	if i >= limit {
		return -1
	}

	segments := b.segments.Load()
	if segments == nil {
		return -1
	}

	segIdx := int(i >> segmentBits)
	if segIdx >= len(*segments) {
		return -1
	}

	offset := i & segmentMask
	wordIdx := int(offset / 64)
	bitOffset := offset % 64

	seg := (*segments)[segIdx]
	val := seg[wordIdx].Load() &^ ((uint64(1) << bitOffset) - 1)
	for {
		if val != 0 {
			pos := uint64(segIdx)*segmentSize + uint64(wordIdx)*64 + uint64(bits.TrailingZeros64(val))
			if pos >= limit {
				return -1
			}
			return int64(pos)
		}
		wordIdx++
		if wordIdx == wordsPerSegment {
			wordIdx = 0
			segIdx++
			if segIdx >= len(*segments) {
				return -1
			}
			seg = (*segments)[segIdx]
		}
		if uint64(segIdx)*segmentSize+uint64(wordIdx)*64 >= limit {
			return -1
		}
		val = seg[wordIdx].Load()
	}
}

// All iterates over the set bits in ascending order.
func (b *BitSet) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for next := b.NextSetBit(0); next >= 0; next = b.NextSetBit(uint64(next) + 1) {
			if !yield(uint64(next)) {
				return
			}
		}
	}
}

// Grow ensures the bitset can hold at least size bits. It never shrinks.
func (b *BitSet) Grow(size uint64) {
	// Segments must exist before the new size becomes visible to readers.
	b.growSegments(size)
	for {
		cur := b.size.Load()
		if size <= cur {
			return
		}
		if b.size.CompareAndSwap(cur, size) {
			return
		}
	}
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	segments := b.segments.Load()
	if segments == nil {
		return 0
	}

	size := b.size.Load()
	numWords := (size + 63) / 64
	currentWord := uint64(0)
	count := 0

	for _, seg := range *segments {
		if currentWord >= numWords {
			break
		}
		limit := uint64(wordsPerSegment)
		if remaining := numWords - currentWord; remaining < limit {
			limit = remaining
		}
		for i := uint64(0); i < limit; i++ {
			if val := seg[i].Load(); val != 0 {
				count += bits.OnesCount64(val)
			}
		}
		currentWord += wordsPerSegment
	}
	return count
}

// Len returns the size of the bitset in bits.
func (b *BitSet) Len() uint64 {
	return b.size.Load()
}
