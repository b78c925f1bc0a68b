package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
)

// fitFlags collects the fit command's non-pipeline flags.
type fitFlags struct {
	output  string
	config  string
	size    int
	save    bool
	noCache bool
	watch   bool
}

// fitCommand creates the fit command, the main entry point of the tool.
func (c *CLI) fitCommand() *cobra.Command {
	var (
		flags      fitFlags
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "fit [target]",
		Short: "Fit a polygon to a target raster",
		Long: `Fit a polygon to a target raster.

The target is a builtin name (see 'shapefit targets'), a .toml manifest, or
a .png image. The search restarts hillclimbs from fresh random candidates
until one reproduces the target exactly or the trial budget runs out; an
exhausted run still reports the best candidate found.

Deterministic runs (--seed with --workers 1) are cached locally and replay
instantly on repeat invocations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Target = args[0]
			}
			opts.Formats = parseFormats(formatsStr)
			if flags.config != "" {
				fc, err := loadConfig(flags.config)
				if err != nil {
					return err
				}
				fc.apply(cmd.Flags(), &opts, &flags.size)
			}
			if opts.Target == "" {
				return errors.New(errors.ErrCodeInvalidTarget, "no target given (pass a name or set one in --config)")
			}
			opts.Width, opts.Height = flags.size, flags.size
			return c.runFit(cmd.Context(), opts, flags)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): ascii (default), png, json (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.config, "config", "", "TOML file with fit settings (flags take precedence)")

	// Target flags
	cmd.Flags().IntVar(&flags.size, "size", pipeline.DefaultSize, "canvas edge for builtin targets")
	cmd.Flags().StringVar(&opts.Backend, "backend", render.DefaultBackend, "rasterizer backend: vector (default), gg")

	// Search flags
	cmd.Flags().IntVarP(&opts.Points, "points", "p", pipeline.DefaultPoints, "polygon vertex count")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "restart strategy: uniform (default), bestof")
	cmd.Flags().IntVar(&opts.Samples, "samples", 0, "candidates sampled per restart for --strategy bestof")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "parallel searchers (0 = one per CPU)")
	cmd.Flags().IntVar(&opts.MaxTrials, "max-trials", 0, "restart budget (0 = default, negative = unbounded)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 = fresh seed per run)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	// Output flags
	cmd.Flags().IntVar(&opts.Scale, "scale", 0, "png pixel multiplier")
	cmd.Flags().BoolVar(&flags.save, "save", false, "persist the run for 'shapefit show' and 'shapefit runs'")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "live dashboard while the search runs")

	return cmd
}

// runFit executes the fitting pipeline and reports the result.
func (c *CLI) runFit(ctx context.Context, opts pipeline.Options, flags fitFlags) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx = withLogger(ctx, c.Logger)
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if flags.watch {
		return c.runFitWatch(ctx, runner, opts, flags)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fitting %s...", opts.Target))
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	exhausted := err != nil && errors.Is(err, errors.ErrCodeSearchExhausted)
	if err != nil && !exhausted {
		spinner.StopWithError("Fit failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if exhausted {
		printWarning("No exact fit in %d trials (best score %s)", res.Outcome.Trials, formatScore(res.Outcome.Score))
	} else {
		printSuccess("Exact fit in %d trials", res.Outcome.Trials)
	}

	return c.finishFit(ctx, res, opts, flags, true)
}

// finishFit writes artifacts, prints stats, and persists the record when
// asked. showASCII is false when the watch dashboard already drew the art.
func (c *CLI) finishFit(ctx context.Context, res *pipeline.Result, opts pipeline.Options, flags fitFlags, showASCII bool) error {
	logger := loggerFromContext(ctx)

	err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		target:    opts.Target,
		output:    flags.output,
		showASCII: showASCII,
	})
	if err != nil {
		return err
	}
	logger.Debug("artifacts written", "run", res.RunID, "formats", opts.Formats)

	printStats(res.Outcome.Trials, res.Outcome.Evals, res.Outcome.Elapsed, res.CacheInfo.ResultHit)

	if !flags.save {
		return nil
	}

	store, err := newStore()
	if err != nil {
		return err
	}
	rec := res.Record(opts)
	if err := store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Debug("run saved", "id", rec.ID, "dir", store.Path())
	printDetail("Saved run %s", rec.ID)
	printNewline()
	printNextStep("Inspect", "shapefit show "+rec.ID)

	return nil
}

// artifactWriteParams bundles the inputs for writing fit artifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	target    string
	output    string
	showASCII bool
}

// writeArtifacts writes each requested artifact. ASCII art goes to stdout
// unless an output path redirects it into a file; the other formats always
// land in files derived from the output base path or the target name.
func writeArtifacts(p artifactWriteParams) error {
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		if format == pipeline.FormatASCII && p.output == "" {
			if p.showASCII {
				fmt.Println()
				fmt.Println(strings.TrimRight(string(data), "\n"))
			}
			continue
		}

		path := artifactPath(p.output, p.target, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath derives the output path for one artifact format. An output
// path whose extension already names the format is used as-is; otherwise
// the extension is replaced. Without an output path the target name is the
// base: fitting shapes/heart.toml writes heart.png.
func artifactPath(output, target, format string) string {
	base := output
	if base == "" {
		name := filepath.Base(target)
		base = strings.TrimSuffix(name, filepath.Ext(name))
	} else if ext := filepath.Ext(base); ext != "" {
		if ext == "."+format {
			return base
		}
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + format
}
