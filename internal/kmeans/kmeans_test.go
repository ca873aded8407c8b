package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecseg/distance"
)

func TestTrain(t *testing.T) {
	ctx := context.Background()
	// 2 clusters: (0,0) and (10,10)
	vecs := []float32{
		0, 0, 0, 1, 1, 0, // near 0,0
		10, 10, 10, 11, 11, 10, // near 10,10
	}
	k := 2
	dim := 2

	centroids, err := Train(ctx, vecs, dim, k, distance.SquaredL2, Options{MaxIter: 100, Seed: 1})
	require.NoError(t, err)
	assert.Len(t, centroids, k*dim)

	// Verify assignments
	p1 := Assign([]float32{0.5, 0.5}, centroids, dim, distance.SquaredL2)
	p2 := Assign([]float32{10.5, 10.5}, centroids, dim, distance.SquaredL2)
	assert.NotEqual(t, p1, p2)
}

func TestTrain_Deterministic(t *testing.T) {
	ctx := context.Background()
	vecs := make([]float32, 5000*2)
	for i := range vecs {
		vecs[i] = float32((i * 7919) % 1000)
	}

	a, err := Train(ctx, vecs, 2, 8, distance.SquaredL2, Options{Seed: 42, Parallelism: 4})
	require.NoError(t, err)
	b, err := Train(ctx, vecs, 2, 8, distance.SquaredL2, Options{Seed: 42, Parallelism: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrain_NotEnoughVectors(t *testing.T) {
	_, err := Train(context.Background(), []float32{0, 0}, 2, 2, distance.SquaredL2, Options{})
	assert.Error(t, err)
}

func TestTrain_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	// Large enough to require iteration
	vecs := make([]float32, 1000*2)
	for i := range vecs {
		vecs[i] = float32(i)
	}

	_, err := Train(ctx, vecs, 2, 10, distance.SquaredL2, Options{MaxIter: 1000})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindClosestCentroids(t *testing.T) {
	centroids := []float32{
		0, 0, // 0
		10, 10, // 1
		20, 20, // 2
	}
	dim := 2

	// Query close to 0,0
	res := FindClosestCentroids([]float32{1, 1}, centroids, dim, 2, distance.SquaredL2)
	assert.Equal(t, []int{0, 1}, res)

	// Query close to 20,20
	res = FindClosestCentroids([]float32{19, 19}, centroids, dim, 1, distance.SquaredL2)
	assert.Equal(t, []int{2}, res)

	// n larger than k is clamped
	res = FindClosestCentroids([]float32{0, 0}, centroids, dim, 10, distance.SquaredL2)
	assert.Len(t, res, 3)
}
