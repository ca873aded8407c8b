package distance

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Dot(tt.a, tt.b), 1e-5)
			assert.InDelta(t, -tt.expected, NegativeDot(tt.a, tt.b), 1e-5)
		})
	}
}

func TestNegativeDotOrthogonalIsPositiveZero(t *testing.T) {
	d := NegativeDot([]float32{1, 0}, []float32{0, 1})
	assert.False(t, math.Signbit(float64(d)))
	assert.Equal(t, "0.000000", fmt.Sprintf("%.6f", d))

	d = NegativeDot([]float32{1, -1}, []float32{1, 1})
	assert.False(t, math.Signbit(float64(d)))
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredL2(tt.a, tt.b), 1e-5)
		})
	}
}

func TestHamming(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []byte
		expected float32
	}{
		{"Simple", []byte{0xFF, 0x00}, []byte{0x00, 0xFF}, 16},
		{"Identical", []byte{0xAA, 0x55}, []byte{0xAA, 0x55}, 0},
		{"Partial", []byte{0b11110000}, []byte{0b11111111}, 4},
		{"Wide", []byte{0xFF, 0, 0, 0, 0, 0, 0, 0, 0x01}, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0x03}, 9},
		{"Empty", []byte{}, []byte{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Hamming(tt.a, tt.b))
		})
	}
}

func TestJaccard(t *testing.T) {
	t.Run("FourBit", func(t *testing.T) {
		// a=1100, b=1010: |a&b| = 1, |a|b| = 3.
		got := Jaccard([]byte{0b1100}, []byte{0b1010})
		assert.InDelta(t, 2.0/3.0, got, 1e-7)
		assert.Equal(t, "0.666667", fmt.Sprintf("%.6f", got))
	})

	t.Run("Identical", func(t *testing.T) {
		assert.Equal(t, float32(0), Jaccard([]byte{0xAB, 0xCD}, []byte{0xAB, 0xCD}))
	})

	t.Run("Disjoint", func(t *testing.T) {
		assert.Equal(t, float32(1), Jaccard([]byte{0xF0}, []byte{0x0F}))
	})

	t.Run("EmptyUnion", func(t *testing.T) {
		assert.Equal(t, float32(0), Jaccard([]byte{0, 0, 0}, []byte{0, 0, 0}))
	})

	t.Run("MultiWord", func(t *testing.T) {
		a := make([]byte, 1024)
		b := make([]byte, 1024)
		for i := range a {
			a[i] = 0xFF
			if i%2 == 0 {
				b[i] = 0xFF
			}
		}
		assert.InDelta(t, 0.5, Jaccard(a, b), 1e-7)
	})
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "IP", MetricIP.String())
		assert.Equal(t, "JACCARD", MetricJaccard.String())
		assert.Equal(t, "HAMMING", MetricHamming.String())
		assert.Equal(t, "Unknown(42)", Metric(42).String())
	})

	t.Run("Parse", func(t *testing.T) {
		for _, m := range []Metric{MetricL2, MetricIP, MetricJaccard, MetricHamming} {
			got, err := ParseMetric(m.String())
			require.NoError(t, err)
			assert.Equal(t, m, got)
		}
		got, err := ParseMetric("jaccard")
		require.NoError(t, err)
		assert.Equal(t, MetricJaccard, got)

		_, err = ParseMetric("cosine")
		assert.Error(t, err)
	})

	t.Run("IsBinary", func(t *testing.T) {
		assert.False(t, MetricL2.IsBinary())
		assert.False(t, MetricIP.IsBinary())
		assert.True(t, MetricJaccard.IsBinary())
		assert.True(t, MetricHamming.IsBinary())
	})

	t.Run("Provider", func(t *testing.T) {
		fn, err := Provider(MetricL2)
		require.NoError(t, err)
		assert.Equal(t, float32(27), fn([]float32{1, 2, 3}, []float32{4, 5, 6}))

		fn, err = Provider(MetricIP)
		require.NoError(t, err)
		assert.Equal(t, float32(-32), fn([]float32{1, 2, 3}, []float32{4, 5, 6}))

		_, err = Provider(MetricJaccard)
		assert.Error(t, err)
	})

	t.Run("ProviderBytes", func(t *testing.T) {
		fn, err := ProviderBytes(MetricHamming)
		require.NoError(t, err)
		assert.Equal(t, float32(2), fn([]byte{0b11}, []byte{0b00}))

		_, err = ProviderBytes(MetricL2)
		assert.Error(t, err)
	})
}
