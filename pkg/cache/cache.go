// Package cache provides caching for the compile pipeline.
//
// The pipeline has three cacheable stages (parse, layout, render) and
// each gets its own key family via the Keyer interface. Backends
// implement the Cache interface:
//   - FileCache: per-user cache directory for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: disabled caching for tests and --no-cache
package cache

import (
	"context"
	"time"
)

// Stage TTLs. Parse results are cheap to rebuild, artifacts are not,
// but all of them key on content hashes so staleness cannot serve
// wrong data; the TTLs only bound disk growth.
const (
	TTLDoc      = 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage backend interface.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DocKeyOpts carry the inputs that change a parse result beyond the
// source text itself.
type DocKeyOpts struct {
	Dialect string // forced dialect, empty for auto-detect
}

// LayoutKeyOpts carry the inputs that change a layout beyond the
// document.
type LayoutKeyOpts struct {
	Direction string
	Measurer  string // measurer identity, metrics differ between fonts
}

// ArtifactKeyOpts carry the inputs that change a rendered artifact
// beyond the layout.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DocKey generates a key for parsed documents.
	DocKey(sourceHash string, opts DocKeyOpts) string

	// LayoutKey generates a key for positioned layouts.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered artifacts.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme: a stage prefix plus a
// SHA-256 over the stage inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocKey generates a key for parsed documents.
func (k *DefaultKeyer) DocKey(sourceHash string, opts DocKeyOpts) string {
	return hashKey("doc", sourceHash, opts.Dialect)
}

// LayoutKey generates a key for positioned layouts.
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts.Direction, opts.Measurer)
}

// ArtifactKey generates a key for rendered artifacts.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts.Format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
