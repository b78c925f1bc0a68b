package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the target and result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached targets and search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			entries, size, err := clearCacheDir(dir)
			if err != nil {
				return err
			}
			if entries == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries (%s)", entries, sizeString(size))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// clearCacheDir removes every cache entry under dir and prunes the shard
// directories left behind. The file cache writes one .json file per entry;
// anything else in the directory is left alone.
func clearCacheDir(dir string) (entries int, size int64, err error) {
	if _, serr := os.Stat(dir); os.IsNotExist(serr) {
		return 0, 0, nil
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, perr error) error {
		if perr != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if info, ierr := d.Info(); ierr == nil {
			size += info.Size()
		}
		if os.Remove(path) == nil {
			entries++
		}
		return nil
	})
	if walkErr != nil {
		return entries, size, walkErr
	}

	// Emptied shard subdirectories go too; os.Remove refuses non-empty
	// ones, which keeps foreign content where it is.
	shards, _ := os.ReadDir(dir)
	for _, s := range shards {
		if s.IsDir() {
			_ = os.Remove(filepath.Join(dir, s.Name()))
		}
	}
	return entries, size, nil
}

// sizeString formats a byte count for status lines.
func sizeString(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
