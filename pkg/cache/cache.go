// Package cache stores rendered radar artifacts keyed by their inputs.
//
// Backends:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer]. A layout key identifies a document together
// with its layout options; an artifact key adds the output format and
// render options. Equal inputs always produce equal keys, so a changed
// option never serves a stale artifact.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered outputs are kept.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a document laid out with opts.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies an output rendered from a layout.
	ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout.
type LayoutKeyOpts struct {
	InnerRadius float64 `json:"inner_radius"`
	Scale       float64 `json:"scale"`
	GapFactor   float64 `json:"gap_factor"`
	LabelOffset float64 `json:"label_offset"`
	HoleUnits   int     `json:"hole_units"`
}

// ArtifactKeyOpts are the inputs that change a rendered output.
type ArtifactKeyOpts struct {
	Format         string  `json:"format"`
	OuterRadius    float64 `json:"outer_radius"`
	MarkerRadius   float64 `json:"marker_radius"`
	HideConnectors bool    `json:"hide_connectors"`
	RingLabels     bool    `json:"ring_labels"`
	Detailed       bool    `json:"detailed,omitempty"`
	Title          string  `json:"title,omitempty"`
	Zoom           float64 `json:"zoom,omitempty"`
}

// DefaultKeyer builds keys of the form "layout:<sha256>" and
// "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutKey, opts)
}
