// Package cache stores rendered tilings so repeated requests for the same
// generation skip enumeration and rasterization.
//
// A Generation is fully determined by its parameters, so cache keys are
// hashes of those parameters. Three backends are provided: [FileCache] for
// the CLI, [RedisCache] for the HTTP server, and [NullCache] to disable
// caching.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Entries never go stale in the sense of becoming
// wrong; the TTLs only bound disk and memory usage.
const (
	TTLTiles    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the stored data and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// GenerationKeyOpts are the generation parameters that identify a tile set.
type GenerationKeyOpts struct {
	Seed      uint64  `json:"seed"`
	Families  int     `json:"families"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Spacing   float64 `json:"spacing"`
	LineRange int     `json:"line_range"`
	CullScale float64 `json:"cull_scale"`
}

// ArtifactKeyOpts are the presentation choices that affect a rendered file.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Palette     string  `json:"palette"`
	StrokeWidth float64 `json:"stroke_width"`
	Scale       float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// TilesKey identifies the enumerated tile set of a generation.
	TilesKey(opts GenerationKeyOpts) string
	// ArtifactKey identifies one rendered artifact of a generation.
	ArtifactKey(generationHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TilesKey implements Keyer.
func (DefaultKeyer) TilesKey(opts GenerationKeyOpts) string {
	return hashKey("tiles", opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(generationHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", generationHash, opts)
}

// GenerationHash returns a stable content hash of the generation parameters,
// used as the stem of artifact keys.
func GenerationHash(opts GenerationKeyOpts) string {
	return hashKey("generation", opts)[len("generation:"):]
}
