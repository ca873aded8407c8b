package ivf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecseg/index"
)

func TestParseParams(t *testing.T) {
	p, err := ParseParams(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultParams, p)

	p, err = ParseParams(index.TrainParams{
		"nlist":  1024,
		"nprobe": 16,
		"m":      4,
		"nbits":  6,
		"seed":   int64(9),
	})
	require.NoError(t, err)
	assert.Equal(t, 1024, p.NList)
	assert.Equal(t, 16, p.NProbe)
	assert.Equal(t, 4, p.M)
	assert.Equal(t, 6, p.NBits)
	assert.Equal(t, int64(9), p.Seed)
	assert.Equal(t, DefaultParams.MaxIter, p.MaxIter)

	_, err = ParseParams(index.TrainParams{"nbits": 12})
	assert.Error(t, err)
}

func TestSubvectors(t *testing.T) {
	m, err := Params{}.subvectors(16)
	require.NoError(t, err)
	assert.Equal(t, 8, m)

	m, err = Params{}.subvectors(6)
	require.NoError(t, err)
	assert.Equal(t, 2, m)

	m, err = Params{}.subvectors(7)
	require.NoError(t, err)
	assert.Equal(t, 1, m)

	_, err = Params{M: 3}.subvectors(16)
	assert.Error(t, err)
}
