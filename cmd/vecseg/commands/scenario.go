package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/spf13/cobra"

	"github.com/hupe1980/vecseg"
	"github.com/hupe1980/vecseg/codec"
	"github.com/hupe1980/vecseg/distance"
	"github.com/hupe1980/vecseg/index"
	"github.com/hupe1980/vecseg/model"
	"github.com/hupe1980/vecseg/testutil"
)

// scenario describes one generated-data run.
type scenario struct {
	cfg *vecseg.Config

	n           int  // vectors to generate
	nq          int  // queries, taken from the generated rows
	queryOffset int  // row of the first query
	maskHalf    bool // hide ids [0, n/2)
	batch       int  // rows per train/insert batch, 0 for one batch
}

// stepTimer prints the time elapsed since the previous step.
type stepTimer struct {
	w    io.Writer
	last time.Time
}

func newStepTimer(w io.Writer) *stepTimer {
	return &stepTimer{w: w, last: time.Now()}
}

func (t *stepTimer) step(name string) {
	now := time.Now()
	fmt.Fprintf(t.w, "%s: %.3f seconds\n", name, now.Sub(t.last).Seconds())
	t.last = now
}

func (sc scenario) validate() error {
	if sc.n <= 0 {
		return fmt.Errorf("--n must be positive, got %d", sc.n)
	}
	if sc.nq <= 0 {
		return fmt.Errorf("--nq must be positive, got %d", sc.nq)
	}
	if sc.queryOffset < 0 || sc.queryOffset+sc.nq > sc.n {
		return fmt.Errorf("queries [%d, %d) exceed the %d generated vectors", sc.queryOffset, sc.queryOffset+sc.nq, sc.n)
	}
	if sc.batch < 0 {
		return fmt.Errorf("--batch must not be negative, got %d", sc.batch)
	}
	if sc.cfg.Dimension <= 0 {
		return fmt.Errorf("--dim must be positive, got %d", sc.cfg.Dimension)
	}
	return sc.cfg.Validate()
}

func runScenario(cmd *cobra.Command, g *globalFlags, sc scenario) error {
	if err := sc.validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	logger, err := vecseg.NewLoggerFromConfig(errOut, g.logConfig())
	if err != nil {
		return err
	}
	ic, err := sc.cfg.IndexConfig()
	if err != nil {
		return err
	}
	seg, err := vecseg.New(ic, vecseg.WithLogger(logger))
	if err != nil {
		return err
	}

	timer := newStepTimer(errOut)

	data, err := generate(testutil.NewRNG(g.seed), ic.Metric, sc.cfg.Dimension, sc.n)
	if err != nil {
		return err
	}
	timer.step("generate data")

	batch := sc.batch
	if batch == 0 {
		batch = sc.n
	}
	for beg := 0; beg < sc.n; beg += batch {
		ds, err := data.slice(beg, min(beg+batch, sc.n))
		if err != nil {
			return err
		}
		if ic.Kind.Trainable() {
			if err := seg.Train(ctx, ds, sc.cfg.TrainParams); err != nil {
				return err
			}
			timer.step(fmt.Sprintf("train %s [%d, %d)", ic.Kind, beg, beg+ds.Rows()))
		}
		if _, err := seg.Insert(ctx, ds); err != nil {
			return err
		}
		timer.step(fmt.Sprintf("insert %s [%d, %d)", ic.Kind, beg, beg+ds.Rows()))
	}

	if sc.maskHalf {
		rb := roaring.New()
		rb.AddRange(0, uint64(sc.n/2))
		if err := seg.DeleteBitmap(ctx, rb); err != nil {
			return err
		}
	}

	queries, err := data.slice(sc.queryOffset, sc.queryOffset+sc.nq)
	if err != nil {
		return err
	}
	res, err := seg.Search(ctx, queries, sc.cfg.K)
	if err != nil {
		return err
	}
	timer.step(fmt.Sprintf("query %s", ic.Kind))

	for _, list := range res {
		for _, nb := range list {
			if seg.Mask().Test(nb.ID) {
				return fmt.Errorf("masked id %d returned", nb.ID)
			}
		}
	}

	return printResult(out, g.format, res)
}

func printResult(w io.Writer, format string, res model.SearchResult) error {
	switch format {
	case "json":
		b, err := codec.GoJSON{}.MarshalIndent([][][]string{codec.FormatResult(res)}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "text", "":
		for q, entries := range codec.FormatResult(res) {
			fmt.Fprintf(w, "query %d:\n", q)
			for _, e := range entries {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// generated holds the raw rows of a scenario.
type generated struct {
	dim    int
	floats []float32
	bits   []byte
}

func generate(rng *testutil.RNG, metric distance.Metric, dim, n int) (*generated, error) {
	if metric.IsBinary() {
		if dim%8 != 0 {
			return nil, fmt.Errorf("binary dimension must be a multiple of 8, got %d", dim)
		}
		return &generated{dim: dim, bits: rng.BinaryFlat(n, dim)}, nil
	}
	return &generated{dim: dim, floats: rng.UniformFlat(n, dim)}, nil
}

func (g *generated) slice(from, to int) (*index.Dataset, error) {
	if g.bits != nil {
		w := g.dim / 8
		return index.NewBinaryDataset(g.dim, g.bits[from*w:to*w])
	}
	return index.NewFloatDataset(g.dim, g.floats[from*g.dim:to*g.dim])
}
