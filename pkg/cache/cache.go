// Package cache stores rendered artifacts keyed by circuit content.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file
// per entry under the XDG cache directory), [RedisCache] for the server
// when several instances share work, and [NullCache] when caching is
// disabled. Keys are built by a [Keyer] so the key layout lives in one
// place; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 24 * time.Hour

// Key prefixes, also reported as the key type to cache hooks.
const (
	PrefixArtifact = "artifact"
)

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Hovered     int     `json:"hovered"`
	Palette     string  `json:"palette,omitempty"`
	Depth       bool    `json:"depth,omitempty"`
	Tooltip     bool    `json:"tooltip,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	EmbedFont   bool    `json:"embed_font,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Origin      string  `json:"origin,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered artifact of the circuit
	// whose canonical encoding hashes to circuitHash.
	ArtifactKey(circuitHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the circuit hash together with every render option.
func (DefaultKeyer) ArtifactKey(circuitHash string, opts ArtifactKeyOpts) string {
	return hashKey(PrefixArtifact, circuitHash, opts)
}

// keyType extracts the prefix of a key for hook reporting. Scoped prefixes
// are skipped by taking the segment before the final hash.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
