package model

import (
	"errors"
	"fmt"
)

// MaxK is the largest result width a single query may request.
const MaxK = 16384

var (
	// ErrUntrainedIndex is returned when a trainable index is used before Train.
	ErrUntrainedIndex = errors.New("index is not trained")

	// ErrInvalidK is returned when k is not in [1, MaxK].
	ErrInvalidK = errors.New("invalid k")

	// ErrNotFound is returned when an ID does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrMalformedMask indicates a visibility mask that is inconsistent with its id range.
type ErrMalformedMask struct {
	Reason string
}

func (e *ErrMalformedMask) Error() string {
	return "malformed mask: " + e.Reason
}

// ErrUnsupportedMetric indicates a metric the selected backend cannot serve.
type ErrUnsupportedMetric struct {
	Metric string
}

func (e *ErrUnsupportedMetric) Error() string {
	return fmt.Sprintf("unsupported metric: %s", e.Metric)
}

// ValidateK checks k against the representable result capacity.
func ValidateK(k int) error {
	if k <= 0 || k > MaxK {
		return fmt.Errorf("%w: %d (must be in [1, %d])", ErrInvalidK, k, MaxK)
	}
	return nil
}
