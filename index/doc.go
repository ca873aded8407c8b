// Package index defines the contract shared by the segment's search backends.
//
// vecseg supports three index kinds behind one interface:
//
//   - Flat: exact brute-force search over the chunked vector store
//   - IVFFlat: inverted file with coarse k-means lists, exact re-ranking
//   - IVFPQ: inverted file with product-quantized residuals
//
// # Index Interface
//
// All index implementations satisfy the Index interface:
//
//	type Index interface {
//	    Kind() Kind
//	    Metric() distance.Metric
//	    Train(ds *Dataset, params TrainParams) error
//	    Add(ds *Dataset) error
//	    Query(queries *Dataset, req SearchRequest) (model.SearchResult, error)
//	    Count() int
//	    Dimension() int
//	}
//
// Results are ordered by (distance, id). Vectors whose id is set in the
// request mask never appear in a result.
//
// # Training
//
// Flat indexes ignore Train. IVF indexes must be trained before Add or
// Query; each Train call starts a new sub-index that receives the following
// Add calls, and Count aggregates over all sub-indexes.
//
// # Subpackages
//
//   - flat: exact search over chunked storage
//   - ivf: trainable inverted-file search (IVFFlat, IVFPQ)
package index
