package ivf

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vecseg/index"
)

// Params holds the training parameters of an IVF index.
// Field names follow knowhere's configuration keys.
type Params struct {
	// NList is the number of inverted lists (coarse centroids).
	NList int `yaml:"nlist"`

	// NProbe is the default number of lists probed per query.
	NProbe int `yaml:"nprobe"`

	// M is the number of PQ subvectors (IVF_PQ only). Zero picks the
	// largest of 8, 4, 2, 1 that divides the dimension.
	M int `yaml:"m"`

	// NBits is the number of bits per PQ code (IVF_PQ only).
	NBits int `yaml:"nbits"`

	// MaxIter bounds the k-means iterations.
	MaxIter int `yaml:"max_iter"`

	// MaxPointsPerCentroid caps the training sample at this value times NList.
	MaxPointsPerCentroid int `yaml:"max_points_per_centroid"`

	// Seed makes training reproducible.
	Seed int64 `yaml:"seed"`
}

// DefaultParams contains the default training parameters.
var DefaultParams = Params{
	NList:                128,
	NProbe:               8,
	NBits:                8,
	MaxIter:              25,
	MaxPointsPerCentroid: 256,
	Seed:                 1234,
}

// ParseParams decodes params over DefaultParams.
func ParseParams(params index.TrainParams) (Params, error) {
	p := DefaultParams
	if len(params) == 0 {
		return p, nil
	}

	raw, err := yaml.Marshal(map[string]any(params))
	if err != nil {
		return Params{}, fmt.Errorf("ivf: encode train params: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Params{}, fmt.Errorf("ivf: decode train params: %w", err)
	}
	return p, p.Validate()
}

// Validate checks the parameters.
func (p Params) Validate() error {
	if p.NList <= 0 {
		return fmt.Errorf("ivf: nlist must be positive, got %d", p.NList)
	}
	if p.NProbe <= 0 {
		return fmt.Errorf("ivf: nprobe must be positive, got %d", p.NProbe)
	}
	if p.M < 0 {
		return fmt.Errorf("ivf: m must not be negative, got %d", p.M)
	}
	if p.NBits < 1 || p.NBits > 8 {
		return fmt.Errorf("ivf: nbits must be in [1, 8], got %d", p.NBits)
	}
	if p.MaxIter <= 0 {
		return fmt.Errorf("ivf: max_iter must be positive, got %d", p.MaxIter)
	}
	if p.MaxPointsPerCentroid <= 0 {
		return fmt.Errorf("ivf: max_points_per_centroid must be positive, got %d", p.MaxPointsPerCentroid)
	}
	return nil
}

// subvectors resolves M for the given dimension.
func (p Params) subvectors(dim int) (int, error) {
	if p.M > 0 {
		if dim%p.M != 0 {
			return 0, fmt.Errorf("ivf: dimension %d is not divisible by m %d", dim, p.M)
		}
		return p.M, nil
	}
	for _, m := range []int{8, 4, 2} {
		if dim%m == 0 {
			return m, nil
		}
	}
	return 1, nil
}
