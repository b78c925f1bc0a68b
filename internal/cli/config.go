package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
)

// fileConfig mirrors the fit command's flags in a TOML file, so a recurring
// fit can live next to its target instead of in shell history:
//
//	target = "shapes/heart.toml"
//	points = 6
//	strategy = "bestof"
//	samples = 32
//	formats = ["ascii", "png"]
//
// Flags given on the command line take precedence over the file; anything
// set in neither falls through to the pipeline defaults.
type fileConfig struct {
	Target    string   `toml:"target"`
	Size      int      `toml:"size"`
	Points    int      `toml:"points"`
	Backend   string   `toml:"backend"`
	Strategy  string   `toml:"strategy"`
	Samples   int      `toml:"samples"`
	Workers   int      `toml:"workers"`
	MaxTrials int      `toml:"max_trials"`
	Seed      uint64   `toml:"seed"`
	Formats   []string `toml:"formats"`
	Scale     int      `toml:"scale"`
}

// loadConfig reads and decodes a fit config file.
func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return &fc, nil
}

// apply copies config values into opts, skipping any field whose flag was
// set explicitly. size is handled separately because the flag expands into
// both canvas dimensions.
func (fc *fileConfig) apply(flags *pflag.FlagSet, opts *pipeline.Options, size *int) {
	if fc.Target != "" && opts.Target == "" {
		opts.Target = fc.Target
	}
	if fc.Size > 0 && !flags.Changed("size") {
		*size = fc.Size
	}
	if fc.Points > 0 && !flags.Changed("points") {
		opts.Points = fc.Points
	}
	if fc.Backend != "" && !flags.Changed("backend") {
		opts.Backend = fc.Backend
	}
	if fc.Strategy != "" && !flags.Changed("strategy") {
		opts.Strategy = fc.Strategy
	}
	if fc.Samples > 0 && !flags.Changed("samples") {
		opts.Samples = fc.Samples
	}
	if fc.Workers != 0 && !flags.Changed("workers") {
		opts.Workers = fc.Workers
	}
	if fc.MaxTrials != 0 && !flags.Changed("max-trials") {
		opts.MaxTrials = fc.MaxTrials
	}
	if fc.Seed != 0 && !flags.Changed("seed") {
		opts.Seed = fc.Seed
	}
	if len(fc.Formats) > 0 && !flags.Changed("format") {
		opts.Formats = fc.Formats
	}
	if fc.Scale > 0 && !flags.Changed("scale") {
		opts.Scale = fc.Scale
	}
}
