package vecseg

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/index/flat"
	"github.com/hupe1980/vecseg/index/ivf"
)

// IndexConfig selects and parameterizes an index implementation.
type IndexConfig struct {
	// Kind selects the implementation.
	Kind index.Kind

	// Dimension fixes the vector dimension. Zero defers it to the first Train or Add.
	Dimension int

	// Metric is the distance metric.
	Metric distance.Metric

	// ChunkSize is the storage chunk capacity of flat indexes.
	ChunkSize int

	// Parallelism bounds concurrent work per operation.
	Parallelism int

	// Logger receives index logs. Nil discards them.
	Logger *slog.Logger
}

// NewIndex creates the index implementation selected by cfg.Kind.
func NewIndex(cfg IndexConfig) (index.Index, error) {
	switch cfg.Kind {
	case index.KindFlat:
		f, err := flat.New(func(o *flat.Options) {
			o.Dimension = cfg.Dimension
			o.Metric = cfg.Metric
			if cfg.ChunkSize > 0 {
				o.ChunkSize = cfg.ChunkSize
			}
			o.Parallelism = cfg.Parallelism
			o.Logger = cfg.Logger
		})
		if err != nil {
			return nil, err
		}
		return f, nil
	case index.KindIVFFlat, index.KindIVFPQ:
		x, err := ivf.New(func(o *ivf.Options) {
			o.Kind = cfg.Kind
			o.Dimension = cfg.Dimension
			o.Metric = cfg.Metric
			o.Parallelism = cfg.Parallelism
			o.Logger = cfg.Logger
		})
		if err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, fmt.Errorf("unsupported index kind: %s", cfg.Kind)
	}
}
