package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/ckski/Evolution-Tutorials/pkg/cache"
	"github.com/ckski/Evolution-Tutorials/pkg/errors"
	shapeio "github.com/ckski/Evolution-Tutorials/pkg/io"
	"github.com/ckski/Evolution-Tutorials/pkg/render"
	"github.com/ckski/Evolution-Tutorials/pkg/search"
)

func newTestRunner() *Runner {
	return NewRunner(cache.NewMemoryCache(256), nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"ascii", false},
		{"png", false},
		{"json", false},
		{"invalid", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"ascii", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"ascii", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Target: "star"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Width != DefaultSize || opts.Height != DefaultSize {
		t.Errorf("canvas = %dx%d, want %dx%d", opts.Width, opts.Height, DefaultSize, DefaultSize)
	}
	if opts.Points != DefaultPoints {
		t.Errorf("Points = %d, want %d", opts.Points, DefaultPoints)
	}
	if opts.Backend != render.BackendVector {
		t.Errorf("Backend = %q, want %q", opts.Backend, render.BackendVector)
	}
	if opts.Strategy != string(search.StrategyUniform) {
		t.Errorf("Strategy = %q, want %q", opts.Strategy, search.StrategyUniform)
	}
	if opts.Samples != search.DefaultSamples {
		t.Errorf("Samples = %d, want %d", opts.Samples, search.DefaultSamples)
	}
	if opts.MaxTrials != DefaultMaxTrials {
		t.Errorf("MaxTrials = %d, want %d", opts.MaxTrials, DefaultMaxTrials)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatASCII {
		t.Errorf("Formats = %v, want [ascii]", opts.Formats)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"MissingTarget", Options{}, errors.ErrCodeInvalidInput},
		{"BadBackend", Options{Target: "star", Backend: "crayon"}, errors.ErrCodeInvalidBackend},
		{"BadStrategy", Options{Target: "star", Strategy: "genetic"}, errors.ErrCodeInvalidStrategy},
		{"NegativeWorkers", Options{Target: "star", Workers: -1}, errors.ErrCodeInvalidInput},
		{"BadFormat", Options{Target: "star", Formats: []string{"svg"}}, errors.ErrCodeInvalidFormat},
		{"HugeScale", Options{Target: "star", Scale: 1000}, errors.ErrCodeInvalidInput},
		{"TooManyPoints", Options{Target: "star", Points: 10000}, errors.ErrCodeInvalidInput},
		{"HugeCanvas", Options{Target: "star", Width: 100000}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Target: "star"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalMaxTrials := opts.MaxTrials
	originalStrategy := opts.Strategy
	originalFormats := len(opts.Formats)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.MaxTrials != originalMaxTrials {
		t.Error("MaxTrials changed on second call")
	}
	if opts.Strategy != originalStrategy {
		t.Error("Strategy changed on second call")
	}
	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
}

func TestOptionsDeterministic(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want bool
	}{
		{"SeededSingleWorker", Options{Seed: 5, Workers: 1}, true},
		{"RandomSeed", Options{Seed: 0, Workers: 1}, false},
		{"SeededParallel", Options{Seed: 5, Workers: 4}, false},
		{"SeededAutoWorkers", Options{Seed: 5, Workers: 0}, false},
	}

	for _, tt := range tests {
		if got := tt.opts.Deterministic(); got != tt.want {
			t.Errorf("%s: Deterministic() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuiltins(t *testing.T) {
	names := Builtins()
	want := []string{"square", "star", "triangle"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Builtins() mismatch (-want +got):\n%s", diff)
	}

	star, ok := BuiltinPolygon("star")
	if !ok || len(star) != 5 {
		t.Fatalf("BuiltinPolygon(star) = %v, %v", star, ok)
	}
	if star[0].X != 6 || star[0].Y != 1 {
		t.Errorf("star[0] = %v, want (6,1)", star[0])
	}

	// Returned polygons are clones; callers cannot corrupt the table.
	star[0].X = 99
	again, _ := BuiltinPolygon("star")
	if again[0].X != 6 {
		t.Error("BuiltinPolygon returned a shared slice")
	}

	if _, ok := BuiltinPolygon("pentagon"); ok {
		t.Error("unknown builtin should not resolve")
	}
	if !IsBuiltin("triangle") || IsBuiltin("hexagon") {
		t.Error("IsBuiltin misclassified a name")
	}
}

func hasInk(pix []uint8) bool {
	for _, v := range pix {
		if v != 255 {
			return true
		}
	}
	return false
}

func TestResolveTargetBuiltin(t *testing.T) {
	target, err := ResolveTarget(context.Background(), Options{Target: "star"})
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.W != DefaultSize || target.H != DefaultSize {
		t.Errorf("target = %dx%d, want %dx%d", target.W, target.H, DefaultSize, DefaultSize)
	}
	if !hasInk(target.Pix) {
		t.Error("builtin star rendered blank")
	}
}

func TestResolveTargetManifest(t *testing.T) {
	content := `
name = "wedge"
width = 8
height = 8
points = [[0, 0], [8, 0], [8, 8]]
`
	dir := t.TempDir()
	path := filepath.Join(dir, "wedge.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	target, err := ResolveTarget(context.Background(), Options{Target: path})
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.W != 8 || target.H != 8 {
		t.Errorf("target = %dx%d, want 8x8 from the manifest", target.W, target.H)
	}
	if !hasInk(target.Pix) {
		t.Error("manifest target rendered blank")
	}
}

func writeBlackPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestResolveTargetImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	writeBlackPNG(t, path, 5, 4)

	target, err := ResolveTarget(context.Background(), Options{Target: path})
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if target.W != 5 || target.H != 4 {
		t.Errorf("target = %dx%d, want the image's native 5x4", target.W, target.H)
	}
	if target.At(0, 0) != 0 {
		t.Errorf("pixel (0,0) = %d, want 0", target.At(0, 0))
	}
}

func TestResolveTargetUnknown(t *testing.T) {
	_, err := ResolveTarget(context.Background(), Options{Target: "hexagon"})
	if !errors.Is(err, errors.ErrCodeTargetNotFound) {
		t.Errorf("error = %v, want TARGET_NOT_FOUND", err)
	}
}

func TestRunnerExecuteSolvesStar(t *testing.T) {
	r := newTestRunner()
	defer r.Close()

	opts := Options{
		Target:    "star",
		Seed:      42,
		Workers:   1,
		MaxTrials: 5000,
		Formats:   []string{FormatASCII, FormatPNG, FormatJSON},
	}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Outcome.Score != 0 {
		t.Errorf("score = %v, want exact fit", res.Outcome.Score)
	}
	if err := errors.ValidateRunID(res.RunID); err != nil {
		t.Errorf("RunID %q not a valid run ID: %v", res.RunID, err)
	}
	if len(res.Artifacts) != 3 {
		t.Fatalf("artifacts = %d, want 3", len(res.Artifacts))
	}
	if len(res.Artifacts[FormatASCII]) == 0 {
		t.Error("ascii artifact empty")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact missing magic bytes")
	}

	rec, err := shapeio.ReadResult(bytes.NewReader(res.Artifacts[FormatJSON]))
	if err != nil {
		t.Fatalf("json artifact does not re-import: %v", err)
	}
	if rec.ID != res.RunID || rec.Score != 0 || rec.Target != "star" {
		t.Errorf("record = %+v, inconsistent with result", rec)
	}
	sol, err := rec.Polygon()
	if err != nil {
		t.Fatalf("record solution does not parse: %v", err)
	}
	if !sol.Equal(res.Outcome.Solution) {
		t.Errorf("record solution %v != outcome %v", sol, res.Outcome.Solution)
	}
}

func TestRunnerExecuteCachesDeterministicRuns(t *testing.T) {
	r := newTestRunner()
	defer r.Close()

	opts := Options{Target: "star", Seed: 7, Workers: 1, MaxTrials: 5000}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.ResultHit || first.CacheInfo.TargetHit {
		t.Error("cold cache reported a hit")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.TargetHit {
		t.Error("second run should hit the target cache")
	}
	if !second.CacheInfo.ResultHit {
		t.Error("second run should hit the result cache")
	}
	if diff := cmp.Diff(first.Outcome, second.Outcome); diff != "" {
		t.Errorf("cached outcome differs (-first +second):\n%s", diff)
	}
}

func TestRunnerExecuteSkipsCacheForRandomRuns(t *testing.T) {
	r := newTestRunner()
	defer r.Close()

	opts := Options{Target: "star", Workers: 1, MaxTrials: 5000}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo.ResultHit {
		t.Error("random runs must not be served from the result cache")
	}
}

func TestRunnerExecuteExhaustedStillRenders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "black.png")
	writeBlackPNG(t, path, 12, 12)

	r := newTestRunner()
	defer r.Close()

	opts := Options{
		Target:    path,
		Seed:      3,
		Workers:   1,
		MaxTrials: 3,
		Formats:   []string{FormatASCII},
	}
	res, err := r.Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeSearchExhausted) {
		t.Fatalf("error = %v, want SEARCH_EXHAUSTED", err)
	}
	if res == nil {
		t.Fatal("exhausted run should still return the best attempt")
	}
	if res.Outcome.Trials != 3 {
		t.Errorf("trials = %d, want 3", res.Outcome.Trials)
	}
	if len(res.Outcome.Solution) == 0 {
		t.Error("exhausted run lost its best candidate")
	}
	if len(res.Artifacts[FormatASCII]) == 0 {
		t.Error("exhausted run should still render artifacts")
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := newTestRunner()
	defer r.Close()

	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("expected error for empty options")
	}
}

func TestSearchParallelWorkers(t *testing.T) {
	target, err := ResolveTarget(context.Background(), Options{Target: "star"})
	if err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}

	out, err := Search(context.Background(), target, Options{
		Target:    "star",
		Seed:      9,
		Workers:   4,
		MaxTrials: 8000,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if out.Score != 0 {
		t.Errorf("score = %v, want exact fit", out.Score)
	}
}
