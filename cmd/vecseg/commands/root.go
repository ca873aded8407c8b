package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecseg"
)

// globalFlags are shared by all subcommands.
type globalFlags struct {
	seed      int64
	format    string
	logLevel  string
	logFormat string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "vecseg",
		Short: "Nearest-neighbor search over a vector segment",
		Long: `vecseg - drive the vector segment search core from the command line.

Every scenario generates seeded random vectors, inserts them into a segment,
optionally hides part of them through the visibility mask and prints the
top-K of each query as "<id>-><distance>" entries.

Examples:
  # 100k vectors of dimension 16, first half masked
  vecseg bruteforce --n 100000 --dim 16 --chunk-size 32768

  # IVF-PQ over one million vectors
  vecseg ivf --kind ivf_pq --n 1048576 --nlist 100 --nprobe 4 --m 4 --nbits 8

  # Jaccard search over 8192-bit vectors, JSON fixture output
  vecseg binary --format json

  # Scenario from a config file
  vecseg run --config segment.yaml --n 50000`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Int64Var(&g.seed, "seed", 42, "random seed for generated data")
	root.PersistentFlags().StringVar(&g.format, "format", "text", "output format (text, json)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format (text, json, none)")

	root.AddCommand(
		newBruteForceCmd(g),
		newIVFCmd(g),
		newBinaryCmd(g),
		newRunCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (g *globalFlags) logConfig() vecseg.LogConfig {
	return vecseg.LogConfig{Level: g.logLevel, Format: g.logFormat}
}
