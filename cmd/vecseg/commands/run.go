package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vecseg"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		configPath string
		sc         = scenario{n: 10_000, nq: 1}
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario described by a YAML config file",
		Long: `Load the segment configuration (index kind, metric, dimension, k,
chunk size, train params) from a YAML file and run a generated-data scenario
against it. The config's log section applies unless --log-level or
--log-format is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := vecseg.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") {
				g.logLevel = cfg.Log.Level
			}
			if !cmd.Flags().Changed("log-format") {
				g.logFormat = cfg.Log.Format
			}
			sc.cfg = cfg
			return runScenario(cmd, g, sc)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to the YAML config")
	f.IntVar(&sc.n, "n", sc.n, "number of vectors")
	f.IntVar(&sc.nq, "nq", sc.nq, "number of queries")
	f.IntVar(&sc.queryOffset, "query-offset", 0, "row of the first query")
	f.IntVar(&sc.batch, "batch", 0, "rows per train/insert batch (0 = one batch)")
	f.BoolVar(&sc.maskHalf, "mask-half", false, "hide ids [0, n/2)")
	return cmd
}
