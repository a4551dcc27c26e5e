package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or users
// can share one backend without key collisions.
//
// Example usage:
//
//	// Keys of the HTTP API live under "api:"
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// GraphKey generates a prefixed key for a run's graph document.
func (k *ScopedKeyer) GraphKey(runID string) string {
	return k.prefix + k.inner.GraphKey(runID)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(runID, format string) string {
	return k.prefix + k.inner.ArtifactKey(runID, format)
}

// ParamsKey generates a prefixed key for a parameter lookup.
func (k *ScopedKeyer) ParamsKey(params any) string {
	return k.prefix + k.inner.ParamsKey(params)
}
