package visibility

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecseg/model"
)

func TestMask(t *testing.T) {
	t.Run("SetAndTest", func(t *testing.T) {
		m, err := New(16)
		require.NoError(t, err)
		assert.Equal(t, 16, m.Len())

		m.Set(3)
		m.Set(3)
		assert.True(t, m.Test(3))
		assert.False(t, m.Test(4))
		assert.Equal(t, 1, m.Count())
	})

	t.Run("BeyondSizeIsVisible", func(t *testing.T) {
		m, err := New(8)
		require.NoError(t, err)
		assert.False(t, m.Test(8))
		assert.False(t, m.Test(1<<40))
	})

	t.Run("SetGrows", func(t *testing.T) {
		m, err := New(0)
		require.NoError(t, err)
		m.Set(100000)
		assert.Equal(t, 100001, m.Len())
		assert.True(t, m.Test(100000))
	})

	t.Run("SetRange", func(t *testing.T) {
		var m Mask
		m.SetRange(10, 20)
		assert.Equal(t, 20, m.Len())
		assert.Equal(t, 10, m.Count())
		assert.False(t, m.Test(9))
		assert.True(t, m.Test(10))
		assert.True(t, m.Test(19))

		m.SetRange(5, 5)
		assert.Equal(t, 10, m.Count())
	})

	t.Run("NilMaskIsAllVisible", func(t *testing.T) {
		var m *Mask
		assert.False(t, m.Test(0))
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, 0, m.Count())
		assert.Empty(t, slices.Collect(m.Excluded()))
		rb, err := m.ToBitmap()
		require.NoError(t, err)
		assert.True(t, rb.IsEmpty())
	})

	t.Run("GrowNeverShrinks", func(t *testing.T) {
		m, err := New(100)
		require.NoError(t, err)
		m.Grow(10)
		assert.Equal(t, 100, m.Len())
	})
}

func TestMaskMalformed(t *testing.T) {
	var malformed *model.ErrMalformedMask

	_, err := New(-1)
	assert.True(t, errors.As(err, &malformed))

	_, err = FromWords([]uint64{1}, 100)
	assert.True(t, errors.As(err, &malformed), "too few words")

	_, err = FromWords([]uint64{1 << 10}, 8)
	assert.True(t, errors.As(err, &malformed), "bit past size")

	_, err = FromWords([]uint64{0, 1}, 64)
	assert.True(t, errors.As(err, &malformed), "trailing word with bits")

	rb := roaring.BitmapOf(1, 50)
	_, err = FromBitmap(rb, 50)
	assert.True(t, errors.As(err, &malformed), "bitmap id past size")
}

func TestMaskFromWords(t *testing.T) {
	m, err := FromWords([]uint64{0b101, 1 << 1}, 70)
	require.NoError(t, err)
	assert.Equal(t, []model.ID{0, 2, 65}, slices.Collect(m.Excluded()))
}

func TestMaskBitmapRoundTrip(t *testing.T) {
	rb := roaring.New()
	rb.AddRange(0, 500)
	rb.Add(70000)

	m, err := FromBitmap(rb, 80000)
	require.NoError(t, err)
	assert.Equal(t, 501, m.Count())
	assert.True(t, m.Test(499))
	assert.False(t, m.Test(500))
	assert.True(t, m.Test(70000))

	out, err := m.ToBitmap()
	require.NoError(t, err)
	assert.True(t, rb.Equals(out))
}

func TestMaskConcurrentReaders(t *testing.T) {
	var m Mask
	const n = 200000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for id := model.ID(0); id < n; id += 2 {
			m.Set(id)
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := model.ID(1); id < n; id += 2 {
				// Odd ids are never set.
				if m.Test(id) {
					t.Errorf("id %d unexpectedly excluded", id)
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, n/2, m.Count())
}
