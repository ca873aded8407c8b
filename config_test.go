package vecseg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/vectorstore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "FLAT", cfg.Index)
	assert.Equal(t, "L2", cfg.Metric)
	assert.Equal(t, 10, cfg.K)
	assert.Equal(t, vectorstore.DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecseg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
index: ivf_flat
dimension: 16
metric: L2
k: 5
parallelism: 4
train_params:
  nlist: 1024
  nprobe: 4
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Dimension)
	assert.Equal(t, 5, cfg.K)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Equal(t, 1024, cfg.TrainParams["nlist"])
	assert.Equal(t, "json", cfg.Log.Format)

	ic, err := cfg.IndexConfig()
	require.NoError(t, err)
	assert.Equal(t, index.KindIVFFlat, ic.Kind)
	assert.Equal(t, distance.MetricL2, ic.Metric)
	assert.Equal(t, 16, ic.Dimension)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown index", "index: hnsw"},
		{"unknown metric", "metric: cosine"},
		{"binary ivf", "index: ivf_pq\nmetric: jaccard"},
		{"binary dimension", "metric: jaccard\ndimension: 12"},
		{"k too large", "k: 16385"},
		{"negative k", "k: -1"},
		{"negative chunk size", "chunk_size: -1"},
		{"negative dimension", "dimension: -4"},
		{"bad log level", "log:\n  level: loud"},
		{"malformed yaml", "index: [flat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestConfigValidateKWrapsSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = MaxK + 1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidK)
}
