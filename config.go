package vecseg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/vectorstore"
)

// Config is the declarative segment configuration, usually loaded from YAML.
//
//	index: ivf_pq
//	dimension: 16
//	metric: L2
//	k: 10
//	train_params:
//	  nlist: 1024
//	  nprobe: 4
//	  m: 4
//	  nbits: 8
//	log:
//	  level: info
//	  format: text
type Config struct {
	Index       string            `yaml:"index"`
	Dimension   int               `yaml:"dimension"`
	Metric      string            `yaml:"metric"`
	K           int               `yaml:"k"`
	ChunkSize   int               `yaml:"chunk_size"`
	Parallelism int               `yaml:"parallelism"`
	TrainParams index.TrainParams `yaml:"train_params"`
	Log         LogConfig         `yaml:"log"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, none
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data, applies defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Index == "" {
		c.Index = index.KindFlat.String()
	}
	if c.Metric == "" {
		c.Metric = distance.MetricL2.String()
	}
	if c.K == 0 {
		c.K = 10
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = vectorstore.DefaultChunkSize
	}
	if c.Parallelism == 0 {
		c.Parallelism = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	kind, err := index.ParseKind(c.Index)
	if err != nil {
		errs = append(errs, err)
	}
	metric, err := distance.ParseMetric(c.Metric)
	if err != nil {
		errs = append(errs, err)
	}
	if err == nil && kind.Trainable() && metric.IsBinary() {
		errs = append(errs, fmt.Errorf("index %s does not support metric %s", kind, metric))
	}
	if c.Dimension < 0 {
		errs = append(errs, fmt.Errorf("dimension must not be negative, got %d", c.Dimension))
	}
	if err == nil && metric.IsBinary() && c.Dimension%8 != 0 {
		errs = append(errs, fmt.Errorf("binary dimension must be a multiple of 8, got %d", c.Dimension))
	}
	if c.K <= 0 || c.K > MaxK {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidK, c.K))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); c.Log.Level != "" && err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// IndexConfig converts the configuration into index construction parameters.
func (c *Config) IndexConfig() (IndexConfig, error) {
	kind, err := index.ParseKind(c.Index)
	if err != nil {
		return IndexConfig{}, err
	}
	metric, err := distance.ParseMetric(c.Metric)
	if err != nil {
		return IndexConfig{}, err
	}
	return IndexConfig{
		Kind:        kind,
		Dimension:   c.Dimension,
		Metric:      metric,
		ChunkSize:   c.ChunkSize,
		Parallelism: c.Parallelism,
	}, nil
}
