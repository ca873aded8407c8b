// Package flat provides exact brute-force search over chunked vector storage.
//
// Vectors are appended to a vectorstore.Store. A query takes a snapshot of
// the store, computes a per-chunk top-K with the bruteforce package and folds
// the partial results in ascending chunk order. Chunks may be scanned in
// parallel; merging stays ordered, so results do not depend on scheduling.
//
// Float vectors are searched with L2 or IP, packed binary vectors with
// Jaccard or Hamming.
package flat
