// Package ivf provides a trainable inverted-file index.
//
// Training clusters a sample of the data into nlist coarse centroids. Added
// vectors are assigned to their closest centroid's inverted list. A query
// probes the nprobe closest lists and ranks their members:
//
//   - KindIVFFlat stores raw vectors and ranks them exactly.
//   - KindIVFPQ stores product-quantized residuals and ranks them with
//     asymmetric distance tables.
//
// Every Train call creates a new sub-index with its own centroids. Add
// extends the most recently trained sub-index, ids stay globally sequential,
// and Query merges the results of all sub-indexes.
//
// Masked ids are skipped before they enter a query's top-K, so they never
// appear in results even though the search is approximate.
package ivf
