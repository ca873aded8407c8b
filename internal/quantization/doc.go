// Package quantization provides product quantization for the IVF-PQ index.
//
// # Product Quantization (PQ)
//
// Splits a vector into M subvectors and quantizes each independently using
// k-means with 2^nbits centroids per subspace:
//
//	pq, _ := quantization.NewProductQuantizer(128, 8, 8)  // dim=128, M=8, nbits=8
//	pq.Train(ctx, trainingVectors, seed)
//	codes := make([]byte, pq.BytesPerVector())
//	pq.Encode(vector, codes)  // 128 floats → 8 bytes
//
// Distances are computed asymmetrically (ADC): the query stays full
// precision and a per-query table of M * 2^nbits partial distances is summed
// along the codes.
//
//	table, _ := pq.BuildDistanceTable(query, distance.MetricL2)
//	d := pq.AdcDistance(table, codes)
package quantization
