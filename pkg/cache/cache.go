// Package cache stores generated compositions and rendered artifacts.
//
// Compositions are pure functions of (sketch, seed, config, palette set), so
// both the composition JSON and every artifact rendered from it can be
// cached indefinitely. TTLs bound disk and memory use rather than
// staleness.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so deployments can namespace them with a
// [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes.
const (
	TTLComposition = 7 * 24 * time.Hour
	TTLArtifact    = 7 * 24 * time.Hour
)

// Keyer builds cache keys.
type Keyer interface {
	// CompositionKey identifies one generation pass.
	CompositionKey(sketch string, seed int64, opts CompositionKeyOpts) string
	// ArtifactKey identifies one rendered export of a composition.
	ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string
}

// CompositionKeyOpts holds the generation inputs besides sketch and seed.
type CompositionKeyOpts struct {
	Patch map[string]string `json:"patch,omitempty"`
	// Palettes is the hash of the palette set selection draws from.
	Palettes string `json:"palettes,omitempty"`
}

// ArtifactKeyOpts holds the render inputs.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Scale  int    `json:"scale,omitempty"`
	Title  string `json:"title,omitempty"`
	Font   string `json:"font,omitempty"`
}

// DefaultKeyer hashes key inputs under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CompositionKey(sketch string, seed int64, opts CompositionKeyOpts) string {
	return hashKey("composition", sketch, seed, opts)
}

func (DefaultKeyer) ArtifactKey(compositionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", compositionHash, opts)
}
