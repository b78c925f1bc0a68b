package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	"github.com/ckski/Evolution-Tutorials/pkg/history"
	shapeio "github.com/ckski/Evolution-Tutorials/pkg/io"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "shapefit" {
		t.Errorf("root.Use = %q, want %q", root.Use, "shapefit")
	}
	if root.Version == "" {
		t.Error("root command should carry a version")
	}

	got := map[string]bool{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}
	want := []string{"fit", "bench", "show", "targets", "runs", "serve", "cache", "completion"}
	for _, name := range want {
		if !got[name] {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if c.Logger.GetLevel() != LogInfo {
		t.Fatalf("initial level = %v, want %v", c.Logger.GetLevel(), LogInfo)
	}

	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level after SetLogLevel = %v, want %v", c.Logger.GetLevel(), LogDebug)
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("default under home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}

		home, _ := os.UserHomeDir()
		want := filepath.Join(home, ".cache", appName)
		if dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("xdg override", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}

		want := filepath.Join("/tmp/custom-cache", appName)
		if dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	for _, noCache := range []bool{true, false} {
		cc, err := newCache(noCache)
		if err != nil {
			t.Fatalf("newCache(%v) error: %v", noCache, err)
		}
		if cc == nil {
			t.Errorf("newCache(%v) returned nil cache", noCache)
		}
	}
}

func TestClearCacheDir(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		entries, size, err := clearCacheDir(filepath.Join(t.TempDir(), "absent"))
		if err != nil || entries != 0 || size != 0 {
			t.Errorf("clearCacheDir on a missing dir = (%d, %d, %v), want (0, 0, nil)", entries, size, err)
		}
	})

	t.Run("removes entries, keeps foreign files", func(t *testing.T) {
		dir := t.TempDir()
		shard := filepath.Join(dir, "ab")
		if err := os.MkdirAll(shard, 0o755); err != nil {
			t.Fatal(err)
		}
		payload := []byte(`{"data":"eJw="}`)
		if err := os.WriteFile(filepath.Join(shard, "cdef.json"), payload, 0o644); err != nil {
			t.Fatal(err)
		}
		foreign := filepath.Join(dir, "notes.txt")
		if err := os.WriteFile(foreign, []byte("keep"), 0o644); err != nil {
			t.Fatal(err)
		}

		entries, size, err := clearCacheDir(dir)
		if err != nil {
			t.Fatalf("clearCacheDir() error: %v", err)
		}
		if entries != 1 {
			t.Errorf("entries = %d, want 1", entries)
		}
		if size != int64(len(payload)) {
			t.Errorf("size = %d, want %d", size, len(payload))
		}
		if _, err := os.Stat(shard); !os.IsNotExist(err) {
			t.Errorf("shard dir %s should be pruned", shard)
		}
		if _, err := os.Stat(foreign); err != nil {
			t.Errorf("foreign file should remain: %v", err)
		}
	})
}

func TestSizeString(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}

	for _, tt := range tests {
		if got := sizeString(tt.n); got != tt.want {
			t.Errorf("sizeString(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty defaults to ascii", "", []string{"ascii"}},
		{"single", "png", []string{"png"}},
		{"multiple", "ascii,png,json", []string{"ascii", "png", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		target string
		format string
		want   string
	}{
		{"builtin target", "", "star", "png", "star.png"},
		{"manifest target strips dir and ext", "", "shapes/heart.toml", "png", "heart.png"},
		{"image target", "", "scans/logo.png", "json", "logo.json"},
		{"output with matching ext", "out/fit.png", "star", "png", "out/fit.png"},
		{"output ext replaced per format", "out/fit.png", "star", "json", "out/fit.json"},
		{"output without ext", "out/fit", "star", "png", "out/fit.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.output, tt.target, tt.format); got != tt.want {
				t.Errorf("artifactPath(%q, %q, %q) = %q, want %q",
					tt.output, tt.target, tt.format, got, tt.want)
			}
		})
	}
}

func TestLoadRecord(t *testing.T) {
	c := New(io.Discard, LogInfo)

	t.Run("result file", func(t *testing.T) {
		rec := &history.Record{
			ID:       "file-run",
			Target:   "star",
			Width:    12,
			Height:   12,
			Solution: "6,1 3,11 11,5 1,5 9,11",
		}
		path := filepath.Join(t.TempDir(), "run.json")
		if err := shapeio.ExportResult(rec, path); err != nil {
			t.Fatalf("ExportResult() error: %v", err)
		}

		got, err := c.loadRecord(context.Background(), path)
		if err != nil {
			t.Fatalf("loadRecord(%q) error: %v", path, err)
		}
		if got.Target != "star" || got.Solution != rec.Solution {
			t.Errorf("loadRecord(%q) = %+v, want target and solution from the file", path, got)
		}
	})

	t.Run("empty store has no latest", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())

		_, err := c.loadRecord(context.Background(), "")
		if !errors.Is(err, errors.ErrCodeRunNotFound) {
			t.Errorf("loadRecord on an empty store returned %v, want %v", err, errors.ErrCodeRunNotFound)
		}
	})
}
