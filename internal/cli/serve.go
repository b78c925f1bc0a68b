package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ckski/Evolution-Tutorials/internal/server"
	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	"github.com/ckski/Evolution-Tutorials/pkg/pipeline"
)

// serveConfig collects the serve command's flags.
type serveConfig struct {
	addr      string
	timeout   time.Duration
	dataDir   string
	noCache   bool
	redisAddr string
	redisPass string
	redisDB   int
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fitting pipeline over HTTP",
		Long: `Serve the fitting pipeline over HTTP.

The API lists the builtin targets, accepts fit requests, and records every
completed run. Results cache in the local file cache by default; point
--redis at a server to share the cache between instances.

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().StringVar(&cfg.dataDir, "data-dir", "", "run record directory (default: XDG data dir)")
	cmd.Flags().BoolVar(&cfg.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cfg.redisAddr, "redis", "", "redis address for a shared cache (host:port)")
	cmd.Flags().StringVar(&cfg.redisPass, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&cfg.redisDB, "redis-db", 0, "redis database number")

	return cmd
}

// runServe builds the cache, store, and runner, then serves until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	cc, err := c.serveCache(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := history.NewFileStore(cfg.dataDir)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cc, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, store, c.Logger)
	srv.SetRequestTimeout(cfg.timeout)

	c.Logger.Info("listening", "addr", cfg.addr)
	c.Logger.Info("run records", "dir", store.Path())

	return srv.ListenAndServe(ctx, cfg.addr)
}

// serveCache picks the cache backend: redis when configured, the local
// file cache otherwise. A redis server that stays unreachable after
// retries fails startup instead of silently degrading.
func (c *CLI) serveCache(ctx context.Context, cfg serveConfig) (cache.Cache, error) {
	if cfg.noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.redisAddr == "" {
		return newCache(false)
	}

	rc := cache.NewRedisCache(cfg.redisAddr, cfg.redisPass, cfg.redisDB)
	err := cache.RetryWithBackoff(ctx, func() error {
		return rc.Ping(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.redisAddr, err)
	}
	c.Logger.Info("redis cache", "addr", cfg.redisAddr, "db", cfg.redisDB)
	return rc, nil
}
