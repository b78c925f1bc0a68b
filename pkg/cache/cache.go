// Package cache provides caching for rendered targets, fit results and
// candidate scores.
//
// # Overview
//
// The [Cache] interface abstracts a byte-oriented key/value store with TTL:
//
//   - [FileCache]: persistent cache under a directory (CLI runs)
//   - [MemoryCache]: in-process map (score memoization, tests)
//   - [RedisCache]: shared cache for the API server deployment
//   - [NullCache]: disables caching
//
// A miss is (nil, false, nil); errors are reserved for real failures so
// callers can degrade to recomputation without conflating the two.
//
// # Keys
//
// The [Keyer] interface builds stable cache keys for the three cached
// artifact kinds. Hashed keys include every option that affects the cached
// bytes, so a changed option can never serve stale data:
//
//	k := cache.NewDefaultKeyer()
//	k.TargetKey("star", cache.TargetKeyOpts{Width: 12, Height: 12, Backend: "vector"})
//	k.ResultKey("star", cache.ResultKeyOpts{...})
//	k.ScoreKey(targetHash, candidate)
//
// ScoreKey is plain concatenation rather than a hash: it sits on the search
// hot path where hashing would cost more than the render it memoizes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional TTL.
type Cache interface {
	// Get retrieves a value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Cache lifetimes per cached kind. Memoized scores only need to outlive a
// search; targets and results are kept across runs.
const (
	TTLScore  = time.Hour
	TTLTarget = 24 * time.Hour
	TTLResult = 7 * 24 * time.Hour
)

// TargetKeyOpts are the options that affect a rendered target raster.
type TargetKeyOpts struct {
	Width   int
	Height  int
	Backend string
}

// ResultKeyOpts are the options that affect a complete fit result.
type ResultKeyOpts struct {
	Width     int
	Height    int
	Points    int
	Backend   string
	Strategy  string
	Samples   int
	Workers   int
	MaxTrials int
	Seed      uint64
}

// Keyer generates cache keys for the cached artifact kinds.
type Keyer interface {
	// ScoreKey generates a key for a memoized candidate score.
	ScoreKey(targetHash, candidate string) string

	// TargetKey generates a key for a rendered target raster.
	TargetKey(source string, opts TargetKeyOpts) string

	// ResultKey generates a key for a complete fit result.
	ResultKey(target string, opts ResultKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ScoreKey generates a key for a memoized candidate score.
func (k *DefaultKeyer) ScoreKey(targetHash, candidate string) string {
	return "score:" + targetHash + ":" + candidate
}

// TargetKey generates a hashed key for a rendered target raster.
func (k *DefaultKeyer) TargetKey(source string, opts TargetKeyOpts) string {
	return hashedKey("target", source, opts)
}

// ResultKey generates a hashed key for a complete fit result.
func (k *DefaultKeyer) ResultKey(target string, opts ResultKeyOpts) string {
	return hashedKey("result", target, opts)
}
