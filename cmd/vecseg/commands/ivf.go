package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecseg"
	"github.com/hupe1980/vecseg/index"
)

func newIVFCmd(g *globalFlags) *cobra.Command {
	cfg := vecseg.DefaultConfig()
	cfg.Index = index.KindIVFFlat.String()
	cfg.Dimension = 16

	sc := scenario{cfg: cfg, n: 1024 * 1024, nq: 100, queryOffset: 4200}

	var (
		nlist, nprobe, m, nbits int
	)

	cmd := &cobra.Command{
		Use:   "ivf",
		Short: "Train, add and query an IVF index with step timings",
		Long: `Train an inverted-file index on random vectors, add them and run a
query batch. Timings of every step are written to stderr. With --batch, each
batch is trained and added separately, producing one sub-index per batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.TrainParams = index.TrainParams{
				"nlist":  nlist,
				"nprobe": nprobe,
				"m":      m,
				"nbits":  nbits,
			}
			return runScenario(cmd, g, sc)
		},
	}

	f := cmd.Flags()
	f.IntVar(&sc.n, "n", sc.n, "number of vectors")
	f.IntVar(&sc.nq, "nq", sc.nq, "number of queries")
	f.IntVar(&sc.queryOffset, "query-offset", sc.queryOffset, "row of the first query")
	f.IntVar(&sc.batch, "batch", 0, "rows per train/add batch (0 = one batch)")
	f.BoolVar(&sc.maskHalf, "mask-half", false, "hide ids [0, n/2)")
	f.StringVar(&cfg.Index, "kind", cfg.Index, "index kind (ivf_flat, ivf_pq)")
	f.IntVar(&cfg.Dimension, "dim", cfg.Dimension, "vector dimension")
	f.IntVar(&cfg.K, "k", cfg.K, "neighbors per query")
	f.StringVar(&cfg.Metric, "metric", cfg.Metric, "distance metric (L2, IP)")
	f.IntVar(&cfg.Parallelism, "parallelism", 0, "worker goroutines (0 = GOMAXPROCS)")
	f.IntVar(&nlist, "nlist", 100, "inverted lists")
	f.IntVar(&nprobe, "nprobe", 4, "lists probed per query")
	f.IntVar(&m, "m", 4, "PQ subvectors (ivf_pq)")
	f.IntVar(&nbits, "nbits", 8, "bits per PQ code (ivf_pq)")
	return cmd
}
