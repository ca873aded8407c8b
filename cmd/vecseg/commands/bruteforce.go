package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecseg"
	"github.com/hupe1980/vecseg/index"
)

func newBruteForceCmd(g *globalFlags) *cobra.Command {
	cfg := vecseg.DefaultConfig()
	cfg.Index = index.KindFlat.String()
	cfg.Dimension = 16

	sc := scenario{cfg: cfg, n: 100_000, nq: 1, maskHalf: true}

	cmd := &cobra.Command{
		Use:   "bruteforce",
		Short: "Chunked brute-force search with half of the ids masked",
		Long: `Insert random vectors into a flat segment, hide the first half of the
ids and query with the first vector. Every returned id must come from the
visible half.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, g, sc)
		},
	}

	f := cmd.Flags()
	f.IntVar(&sc.n, "n", sc.n, "number of vectors")
	f.IntVar(&sc.nq, "nq", sc.nq, "number of queries")
	f.BoolVar(&sc.maskHalf, "mask-half", sc.maskHalf, "hide ids [0, n/2)")
	f.IntVar(&cfg.Dimension, "dim", cfg.Dimension, "vector dimension")
	f.IntVar(&cfg.K, "k", cfg.K, "neighbors per query")
	f.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "vectors per storage chunk")
	f.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "chunks scanned concurrently")
	f.StringVar(&cfg.Metric, "metric", cfg.Metric, "distance metric (L2, IP)")
	return cmd
}
