package index

import (
	"fmt"
	"strings"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/visibility"
)

// Kind identifies an index implementation.
type Kind int

// Supported index kinds.
const (
	KindFlat Kind = iota
	KindIVFFlat
	KindIVFPQ
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "FLAT"
	case KindIVFFlat:
		return "IVF_FLAT"
	case KindIVFPQ:
		return "IVF_PQ"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Trainable reports whether the kind requires Train before Add.
func (k Kind) Trainable() bool {
	return k == KindIVFFlat || k == KindIVFPQ
}

// ParseKind parses an index kind name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FLAT", "BRUTE_FORCE", "":
		return KindFlat, nil
	case "IVF_FLAT", "IVF":
		return KindIVFFlat, nil
	case "IVF_PQ", "IVFPQ":
		return KindIVFPQ, nil
	default:
		return 0, fmt.Errorf("unknown index kind %q", s)
	}
}

// TrainParams holds backend specific training parameters.
// Keys follow knowhere naming: nlist, nprobe, m, nbits, max_iter, seed.
type TrainParams map[string]any

// SearchRequest describes one query batch.
type SearchRequest struct {
	// K is the number of neighbors to return per query.
	K int

	// NProbe is the number of inverted lists probed by IVF indexes.
	// Zero falls back to the value given at training time.
	NProbe int

	// Mask excludes vectors from results. Nil means all visible.
	Mask *visibility.Mask
}

// Index represents a searchable vector index.
type Index interface {
	// Kind returns the implementation kind.
	Kind() Kind

	// Metric returns the distance metric.
	Metric() distance.Metric

	// Train fits the index structures from ds.
	Train(ds *Dataset, params TrainParams) error

	// Add appends the vectors of ds, assigning consecutive ids starting at Count.
	Add(ds *Dataset) error

	// Query returns the K nearest visible vectors for every query row.
	Query(queries *Dataset, req SearchRequest) (model.SearchResult, error)

	// Count returns the number of vectors added.
	Count() int

	// Dimension returns the vector dimension, or 0 before the first Train or Add.
	Dimension() int
}
