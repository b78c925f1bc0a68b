package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The API server uses this to keep per-deployment keys apart when several
// instances share one Redis database.
//
// Example usage:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "shapefit:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ScoreKey generates a prefixed key for a memoized candidate score.
func (k *ScopedKeyer) ScoreKey(targetHash, candidate string) string {
	return k.prefix + k.inner.ScoreKey(targetHash, candidate)
}

// TargetKey generates a prefixed key for a rendered target raster.
func (k *ScopedKeyer) TargetKey(source string, opts TargetKeyOpts) string {
	return k.prefix + k.inner.TargetKey(source, opts)
}

// ResultKey generates a prefixed key for a complete fit result.
func (k *ScopedKeyer) ResultKey(target string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(target, opts)
}
