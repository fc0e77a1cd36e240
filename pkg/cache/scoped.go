package cache

// ScopedKeyer wraps a Keyer with a namespace prefix, so several deployments
// (or a staging and a production server) can share one Redis without their
// artifacts colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "circuitview:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(circuitHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(circuitHash, opts)
}
