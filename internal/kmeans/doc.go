// Package kmeans implements k-means clustering for index training.
//
// Used internally by the IVF coarse quantizer and by product quantization
// to learn centroids and codebooks from training data.
package kmeans
