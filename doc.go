// Package vecseg provides the nearest-neighbor search core of a vector segment.
//
// A Segment stores vectors in append-only chunks, keeps a visibility mask of
// excluded ids and answers batched top-K queries through one of three index
// kinds: exact brute force (Flat) or trainable inverted files (IVF_FLAT,
// IVF_PQ).
//
// # Quick Start
//
//	seg, _ := vecseg.New(vecseg.IndexConfig{Kind: index.KindFlat, Metric: distance.MetricL2})
//	ds, _ := index.NewFloatDataset(16, data)
//	seg.Insert(ctx, ds)
//	seg.Delete(ctx, 42)
//	res, _ := seg.Search(ctx, queries, 10)
//	fmt.Println(codec.FormatResult(res))
//
// Trainable indexes must be trained before Insert:
//
//	seg, _ := vecseg.New(vecseg.IndexConfig{Kind: index.KindIVFPQ})
//	seg.Train(ctx, ds, index.TrainParams{"nlist": 1024, "m": 4, "nbits": 8})
//	seg.Insert(ctx, ds)
//
// # Ordering
//
// Results are sorted by ascending distance; equal distances are ordered by
// ascending id. Inner product is reported negated so that smaller is always
// closer. A result holds fewer than K entries only when fewer than K visible
// candidates exist.
//
// # Configuration
//
// Segments can be built from YAML with LoadConfig and NewFromConfig.
// Logging uses log/slog through Logger; metrics are reported through a
// MetricsCollector (see package metrics for Prometheus).
package vecseg
