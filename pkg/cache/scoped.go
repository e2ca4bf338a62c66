package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one redis without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "pentagrid:v1:")
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

// TilesKey generates a prefixed key for tile set caching.
func (k *ScopedKeyer) TilesKey(opts GenerationKeyOpts) string {
	return k.prefix + k.inner.TilesKey(opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(generationHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(generationHash, opts)
}
