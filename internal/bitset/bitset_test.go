package bitset

import (
	"slices"
	"sync"
	"testing"
)

func TestBitSet(t *testing.T) {
	b := New(100)

	if b.Len() != 100 {
		t.Errorf("expected len 100, got %d", b.Len())
	}

	b.Set(10)
	if !b.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}

	if b.Count() != 1 {
		t.Errorf("expected count 1, got %d", b.Count())
	}

	b.Set(10)
	b.Set(20)
	b.Set(30)

	if b.Count() != 3 {
		t.Errorf("expected count 3, got %d", b.Count())
	}

	// Out of range writes are dropped, reads are false.
	b.Set(100)
	if b.Test(100) || b.Test(1<<40) {
		t.Errorf("expected out of range bits to be unset")
	}
}

func TestBitSet_ZeroValue(t *testing.T) {
	var b BitSet
	if b.Test(0) || b.Count() != 0 || b.Len() != 0 {
		t.Errorf("expected empty zero value")
	}
	b.Grow(10)
	b.Set(3)
	if !b.Test(3) {
		t.Errorf("expected bit 3 to be set")
	}
}

func TestBitSet_Grow(t *testing.T) {
	b := New(10)
	b.Set(5)

	b.Grow(100000) // Should trigger segment growth
	if !b.Test(5) {
		t.Errorf("expected bit 5 to persist after grow")
	}

	b.Set(99999)
	if !b.Test(99999) {
		t.Errorf("expected bit 99999 to be set")
	}

	b.Grow(50)
	if b.Len() != 100000 {
		t.Errorf("expected grow to never shrink, got %d", b.Len())
	}
}

func TestBitSet_OrWord(t *testing.T) {
	b := New(70)
	b.OrWord(0, 0b1011)
	b.OrWord(1, ^uint64(0))

	if !b.Test(0) || b.Test(2) || !b.Test(3) {
		t.Errorf("unexpected bits in word 0")
	}
	// Only bits 64..69 fit.
	if b.Count() != 3+6 {
		t.Errorf("expected count 9, got %d", b.Count())
	}
}

func TestBitSet_NextSetBit(t *testing.T) {
	b := New(200000)
	for _, i := range []uint64{3, 64, 65535, 65536, 199999} {
		b.Set(i)
	}

	got := slices.Collect(b.All())
	want := []uint64{3, 64, 65535, 65536, 199999}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if n := b.NextSetBit(200000); n != -1 {
		t.Errorf("expected -1 past the end, got %d", n)
	}
}

func TestBitSet_ConcurrentGrowAndRead(t *testing.T) {
	b := New(0)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(0); i < 300000; i += 7 {
			b.Grow(i + 1)
			b.Set(i)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := uint64(0); i < 300000; i += 11 {
				_ = b.Test(i)
			}
		}()
	}
	wg.Wait()

	for i := uint64(0); i < 300000; i += 7 {
		if !b.Test(i) {
			t.Fatalf("expected bit %d to be set", i)
		}
	}
}
