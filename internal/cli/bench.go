package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ckski/Evolution-Tutorials/pkg/bench"
	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
	"github.com/ckski/Evolution-Tutorials/pkg/raster"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

// benchCommand creates the bench command for comparing restart strategies.
func (c *CLI) benchCommand() *cobra.Command {
	var (
		runs     int
		size     int
		plotPath string
		jsonPath string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "bench [target]",
		Short: "Compare restart strategies on the same target",
		Long: `Compare restart strategies on the same target.

Runs the search repeatedly with each strategy under identical budgets and
seeds, then summarizes wall-clock times and trial counts side by side. Run i
of every strategy uses seed+i, so the strategies face the same sequence of
starting conditions.

Runs never touch the result cache: a replayed result would time the cache,
not the search. Every run must converge; raise --max-trials if a strategy
exhausts its budget.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Target = "star"
			if len(args) > 0 {
				opts.Target = args[0]
			}
			opts.Width, opts.Height = size, size
			return c.runBench(cmd.Context(), opts, runs, plotPath, jsonPath)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", defaultBenchRuns, "seeded runs per strategy")
	cmd.Flags().IntVar(&size, "size", pipeline.DefaultSize, "canvas edge for builtin targets")
	cmd.Flags().IntVarP(&opts.Points, "points", "p", pipeline.DefaultPoints, "polygon vertex count")
	cmd.Flags().StringVar(&opts.Backend, "backend", render.DefaultBackend, "rasterizer backend: vector (default), gg")
	cmd.Flags().IntVar(&opts.Samples, "samples", 0, "candidates sampled per restart for bestof")
	cmd.Flags().IntVar(&opts.MaxTrials, "max-trials", 0, "restart budget per run (0 = default)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "base seed (run i uses seed+i)")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a per-run duration plot to this path")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the full comparison as JSON to this path")

	return cmd
}

// runBench measures every registered strategy and prints the comparison.
func (c *CLI) runBench(ctx context.Context, opts pipeline.Options, runs int, plotPath, jsonPath string) error {
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Workers = 1 // single-threaded runs, so strategies compare without scheduling noise
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	target, err := runner.ResolveTarget(ctx, opts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)

	var summaries []*bench.Summary
	for _, strategy := range search.Strategies() {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Benchmarking %s (%d runs)...", strategy, runs))
		spinner.Start()

		s, err := bench.Measure(ctx, strategy, runs, seededSearch(runner, target, opts, strategy))
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("Benchmark %s failed", strategy))
			return err
		}
		spinner.Stop()
		summaries = append(summaries, s)
	}

	prog.donef("Benchmarked %d strategies x %d runs on %s", len(summaries), runs, opts.Target)

	printBenchTable(summaries)

	baseline, improved := summaries[0], summaries[1]
	comparison := bench.Compare(baseline, improved)

	printNewline()
	if comparison.SpeedupTrials > 1 {
		printDetail("%s needs %.1fx fewer trials than %s", improved.Name, comparison.SpeedupTrials, baseline.Name)
	}
	switch {
	case comparison.MeetsTarget(0.5):
		printSuccess("%s is %.1fx faster than %s", improved.Name, comparison.SpeedupWall, baseline.Name)
	case comparison.SpeedupWall > 1:
		printInfo("%s is %.1fx faster than %s", improved.Name, comparison.SpeedupWall, baseline.Name)
	default:
		printWarning("%s is not faster than %s here (%.2fx)", improved.Name, baseline.Name, comparison.SpeedupWall)
	}

	if plotPath != "" {
		if err := bench.WritePlot(plotPath, summaries...); err != nil {
			return err
		}
		printFile(plotPath)
	}
	if jsonPath != "" {
		if err := writeComparison(jsonPath, comparison); err != nil {
			return err
		}
		printFile(jsonPath)
	}

	return nil
}

// seededSearch returns a search function that runs the pipeline search with
// a distinct deterministic seed per call. The counter makes run i of every
// strategy draw seed+i, pairing the strategies run for run.
func seededSearch(runner *pipeline.Runner, target *raster.Raster, opts pipeline.Options, strategy string) bench.SearchFunc {
	run := 0
	return func(ctx context.Context) (search.Outcome, error) {
		o := opts
		o.Strategy = strategy
		if o.Seed != 0 {
			o.Seed = opts.Seed + uint64(run)
		}
		run++
		return runner.Search(ctx, target, o)
	}
}

// printBenchTable renders one row of timing aggregates per strategy.
func printBenchTable(summaries []*bench.Summary) {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			formatBenchDuration(s.Mean),
			formatBenchDuration(s.Median),
			formatBenchDuration(s.StdDev),
			formatBenchDuration(s.Min),
			formatBenchDuration(s.Max),
			formatBenchDuration(s.P95),
			fmt.Sprintf("%.1f", s.MeanTrials),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Strategy", "Mean", "Median", "Stddev", "Min", "Max", "P95", "Trials").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			return styleTableCell
		})

	fmt.Println(t.Render())
}

// formatBenchDuration keeps tiny search runs readable: microsecond
// resolution below a millisecond, otherwise two decimals of milliseconds.
func formatBenchDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

// writeComparison dumps the comparison, including both summaries with their
// raw per-run durations, as indented JSON.
func writeComparison(path string, comparison bench.Comparison) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(comparison); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
