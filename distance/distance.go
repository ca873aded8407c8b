package distance

import (
	"fmt"
	"strings"
)

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	return dotGeneric(a, b)
}

// NegativeDot returns -Dot(a, b), the inner-product distance.
// Orthogonal vectors yield +0, never -0.
func NegativeDot(a, b []float32) float32 {
	return 0 - dotGeneric(a, b)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	return squaredL2Generic(a, b)
}

// Hamming calculates the Hamming distance between two packed bit vectors.
// Assumes slices are the same length.
// Returns the count of differing bits as a float32.
func Hamming(a, b []byte) float32 {
	return float32(hammingGeneric(a, b))
}

// Jaccard calculates the Jaccard distance between two packed bit vectors:
//
//	1 - popcount(a & b) / popcount(a | b)
//
// The distance of two all-zero vectors is 0.
// Assumes slices are the same length.
func Jaccard(a, b []byte) float32 {
	inter, union := andOrCounts(a, b)
	if union == 0 {
		return 0
	}
	return float32(1 - float64(inter)/float64(union))
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricL2 Metric = iota
	MetricIP
	MetricJaccard
	MetricHamming
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricIP:
		return "IP"
	case MetricJaccard:
		return "JACCARD"
	case MetricHamming:
		return "HAMMING"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// IsBinary reports whether the metric operates on packed bit vectors.
func (m Metric) IsBinary() bool {
	return m == MetricJaccard || m == MetricHamming
}

// ParseMetric parses a metric name (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L2", "":
		return MetricL2, nil
	case "IP":
		return MetricIP, nil
	case "JACCARD":
		return MetricJaccard, nil
	case "HAMMING":
		return MetricHamming, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// FuncBytes is a function type for distance calculation on byte slices.
type FuncBytes func(a, b []byte) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	case MetricIP:
		return NegativeDot, nil
	default:
		return nil, fmt.Errorf("unsupported metric for float32: %v", m)
	}
}

// ProviderBytes returns the distance function for the given metric on byte slices.
func ProviderBytes(m Metric) (FuncBytes, error) {
	switch m {
	case MetricJaccard:
		return Jaccard, nil
	case MetricHamming:
		return Hamming, nil
	default:
		return nil, fmt.Errorf("unsupported metric for bytes: %v", m)
	}
}
