// Package testutil provides testing utilities for vecseg.
//
// This package is intended for use in tests, benchmarks and the CLI driver.
// It provides helpers for generating random vectors, computing exact
// nearest neighbors with a single full scan, and verifying search recall.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.UniformFlat(n, 16)  // row-major float vectors in [0, 1)
//	bits := rng.BinaryFlat(n, 512)  // packed binary vectors
//
// # Exact Search (Ground Truth)
//
//	want := testutil.ExactTopK(queries, data, dim, k, distance.SquaredL2, mask)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(want[0], got[0])
package testutil
