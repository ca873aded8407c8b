// Package distance provides vector distance calculations.
//
// Every metric is expressed as a distance where smaller means closer, so
// result lists for all metrics share one ordering rule.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricIP: Inner product, reported as the negated dot product
//   - MetricJaccard: 1 - |a AND b| / |a OR b| over packed bits
//   - MetricHamming: number of differing bits over packed bits
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	fn, err := distance.Provider(distance.MetricIP)
//	jac := distance.Jaccard(codeA, codeB)
package distance
