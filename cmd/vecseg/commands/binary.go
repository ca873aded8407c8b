package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecseg"
	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
)

func newBinaryCmd(g *globalFlags) *cobra.Command {
	cfg := vecseg.DefaultConfig()
	cfg.Index = index.KindFlat.String()
	cfg.Metric = distance.MetricJaccard.String()
	cfg.Dimension = 8192
	cfg.K = 5

	sc := scenario{cfg: cfg, n: 100_000, nq: 10, queryOffset: 1024}

	cmd := &cobra.Command{
		Use:   "binary",
		Short: "Jaccard brute-force search over packed binary vectors",
		Long: `Search random packed binary vectors with the Jaccard (or Hamming)
metric. Queries are copies of stored rows, so each query's first hit is its
own id at distance 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, g, sc)
		},
	}

	f := cmd.Flags()
	f.IntVar(&sc.n, "n", sc.n, "number of vectors")
	f.IntVar(&sc.nq, "nq", sc.nq, "number of queries")
	f.IntVar(&sc.queryOffset, "query-offset", sc.queryOffset, "row of the first query")
	f.BoolVar(&sc.maskHalf, "mask-half", false, "hide ids [0, n/2)")
	f.IntVar(&cfg.Dimension, "dim", cfg.Dimension, "vector dimension in bits")
	f.IntVar(&cfg.K, "k", cfg.K, "neighbors per query")
	f.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "vectors per storage chunk")
	f.StringVar(&cfg.Metric, "metric", cfg.Metric, "distance metric (JACCARD, HAMMING)")
	return cmd
}
