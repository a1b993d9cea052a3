// Package cache provides the artifact cache used to skip re-rendering
// unchanged graphs. Backends share one interface: a file cache for normal
// CLI use, a Redis cache for shared setups, and a null cache for disabling
// caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached value classes.
const (
	// TTLGraph bounds cached graph builds.
	TTLGraph = 24 * time.Hour

	// TTLArtifact bounds cached rendered outputs (SVG, PNG, PDF).
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the build inputs that distinguish cached graphs.
type GraphKeyOpts struct {
	Programme         string
	SuggestedInCycles bool
	GlobalNames       bool
}

// ArtifactKeyOpts are the render inputs that distinguish cached artifacts.
type ArtifactKeyOpts struct {
	Format       string
	RankDir      string
	Modules      []string
	HideKinds    []string
	HideRequired bool
	HideOrphans  bool
	Reduce       bool
}

// Keyer derives cache keys from content hashes and option sets.
type Keyer interface {
	GraphKey(catalogHash string, opts GraphKeyOpts) string
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the content hash together with the options, so any
// option change misses the cache instead of serving a stale artifact.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GraphKey returns the cache key for a built graph.
func (k *DefaultKeyer) GraphKey(catalogHash string, opts GraphKeyOpts) string {
	return hashKey("graph", catalogHash, opts)
}

// ArtifactKey returns the cache key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
