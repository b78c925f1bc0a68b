// Package cli implements the shapefit command-line interface.
//
// This package provides commands for fitting polygons to raster targets,
// benchmarking restart strategies against each other, re-rendering saved
// runs, and serving the fitting pipeline over HTTP. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - fit: Fit a polygon to a builtin, manifest, or image target
//   - bench: Compare restart strategies on the same target
//   - show: Re-render a saved run in the terminal or to a PNG
//   - targets: List the builtin targets
//   - runs: List and prune saved runs
//   - serve: Run the HTTP API
//   - cache: Manage the target and result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/ckski/Evolution-Tutorials/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ckski/Evolution-Tutorials/pkg/buildinfo"
	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "shapefit"

	// defaultBenchRuns is the default number of seeded runs per strategy
	// in the bench command.
	defaultBenchRuns = 8
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "shapefit",
		Short:        "Shapefit fits polygons to raster targets by restart hillclimbing",
		Long:         `Shapefit is a CLI tool for reconstructing small grayscale rasters as polygons: it hillclimbs integer vertex positions until the rasterized candidate reproduces the target pixel for pixel.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.targetsCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the run store in the default data directory.
func newStore() (*history.FileStore, error) {
	return history.NewFileStore("")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/shapefit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatASCII}
	}
	return strings.Split(s, ",")
}
