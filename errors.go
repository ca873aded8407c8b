package vecseg

import (
	"github.com/hupe1980/vecseg/model"
)

var (
	// ErrUntrainedIndex is returned when a trainable index is used before Train.
	ErrUntrainedIndex = model.ErrUntrainedIndex

	// ErrInvalidK is returned when k is not in [1, MaxK].
	ErrInvalidK = model.ErrInvalidK

	// ErrNotFound is returned when an ID does not exist.
	ErrNotFound = model.ErrNotFound
)

type (
	// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
	ErrDimensionMismatch = model.ErrDimensionMismatch

	// ErrMalformedMask indicates a visibility mask inconsistent with its id range.
	ErrMalformedMask = model.ErrMalformedMask

	// ErrUnsupportedMetric indicates a metric the selected index cannot serve.
	ErrUnsupportedMetric = model.ErrUnsupportedMetric
)

// MaxK is the largest result width a single query may request.
const MaxK = model.MaxK
