// Package pipeline runs the load → layout → render pipeline for Polaris.
//
// The CLI, the watcher and the HTTP server all go through this package so
// that defaults, validation and caching behave the same everywhere.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read a document and normalize it into a [radar.Dataset]
//  2. Layout: compute ring radii and angles, then derive primitives
//  3. Render: write the primitives in each requested format
//
// Layouts are cheap and always recomputed. Rendered artifacts are cached
// under keys derived from the document's content and every option that
// affects the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.ExecuteFile(ctx, "radar.yaml", pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// [radar.Dataset]: github.com/matzehuels/polaris/pkg/core/radar.Dataset
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polaris/pkg/cache"
	"github.com/matzehuels/polaris/pkg/core/radar"
	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/radar/primitive"
	"github.com/matzehuels/polaris/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Watcher
// =============================================================================

const (
	// DefaultZoom is the PNG resolution multiplier.
	DefaultZoom = 2.0

	// DefaultConfigFile is looked up in the working directory when no
	// --config flag is given.
	DefaultConfigFile = "polaris.toml"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"

	// FormatGraphviz is the DOT graph laid out by Graphviz as SVG.
	FormatGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatGraphviz {
		return ".graphviz.svg"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. Zero values select
// defaults. It is read from TOML config files and JSON API requests.
type Options struct {
	// Layout options
	InnerRadius float64 `json:"inner_radius,omitempty" toml:"inner_radius"`
	Scale       float64 `json:"scale,omitempty" toml:"scale"`
	GapFactor   float64 `json:"gap_factor,omitempty" toml:"gap_factor"`
	LabelOffset *float64 `json:"label_offset,omitempty" toml:"label_offset"` // nil selects the default; 0 is kept
	HoleUnits   int     `json:"hole_units,omitempty" toml:"hole_units"`

	// Primitive options
	MarkerRadius   float64 `json:"marker_radius,omitempty" toml:"marker_radius"`
	HideConnectors bool    `json:"hide_connectors,omitempty" toml:"hide_connectors"`

	// Render options
	Formats     []string `json:"formats,omitempty" toml:"formats"`
	OuterRadius float64  `json:"outer_radius,omitempty" toml:"outer_radius"`
	RingLabels  bool     `json:"ring_labels,omitempty" toml:"ring_labels"`
	Title       string   `json:"title,omitempty" toml:"title"`
	Zoom        float64  `json:"zoom,omitempty" toml:"zoom"`
	Detailed    bool     `json:"detailed,omitempty" toml:"detailed"`
	Refresh     bool     `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Dataset    *radar.Dataset
	Layout     *layout.Layout
	Primitives []primitive.Primitive

	// DocHash is the SHA-256 of the document's canonical JSON.
	DocHash string

	// LayoutKey identifies the document together with its layout options.
	LayoutKey string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities   int
	Dimensions int
	Stages     int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which artifacts came from the cache.
type CacheInfo struct {
	RenderHit bool     // every requested artifact was cached
	Hits      []string // formats served from the cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies every default and validates the result.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero layout fields.
func (o *Options) SetLayoutDefaults() {
	lo := o.LayoutOptions().WithDefaults()
	o.InnerRadius = lo.InnerRadius
	o.Scale = lo.Scale
	o.GapFactor = lo.GapFactor
	o.LabelOffset = lo.LabelOffset
	if o.MarkerRadius == 0 {
		o.MarkerRadius = primitive.DefaultMarkerRadius
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout applies layout defaults and validates them.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	if o.MarkerRadius < 0 {
		return errors.Validation("marker radius must not be negative, got %v", o.MarkerRadius)
	}
	return nil
}

// SetRenderDefaults fills zero render fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.OuterRadius == 0 {
		scale := o.Scale
		if scale == 0 {
			scale = layout.DefaultScale
		}
		o.OuterRadius = layout.DefaultOuterRadius * scale
	}
	if o.Zoom == 0 {
		o.Zoom = DefaultZoom
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies all defaults and validates layout and render
// options.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.OuterRadius <= o.InnerRadius*o.Scale {
		return errors.Validation("outer radius %v must exceed the scaled inner radius %v", o.OuterRadius, o.InnerRadius*o.Scale)
	}
	if o.Zoom < 0 {
		return errors.Validation("zoom must not be negative, got %v", o.Zoom)
	}
	return nil
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// LayoutOptions converts to [layout.Options].
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		InnerRadius: o.InnerRadius,
		Scale:       o.Scale,
		GapFactor:   o.GapFactor,
		LabelOffset: o.LabelOffset,
		HoleUnits:   o.HoleUnits,
	}
}

// PrimitiveOptions converts to [primitive.Options].
func (o *Options) PrimitiveOptions() primitive.Options {
	return primitive.Options{
		MarkerRadius:   o.MarkerRadius,
		HideConnectors: o.HideConnectors,
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	labelOffset := layout.DefaultLabelOffset
	if o.LabelOffset != nil {
		labelOffset = *o.LabelOffset
	}
	return cache.LayoutKeyOpts{
		InnerRadius: o.InnerRadius,
		Scale:       o.Scale,
		GapFactor:   o.GapFactor,
		LabelOffset: labelOffset,
		HoleUnits:   o.HoleUnits,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Options that do not affect format are left out so unrelated changes do
// not invalidate it.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:         format,
		MarkerRadius:   o.MarkerRadius,
		HideConnectors: o.HideConnectors,
	}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.OuterRadius = o.OuterRadius
		k.RingLabels = o.RingLabels
		k.Title = o.Title
		if format == FormatPNG {
			k.Zoom = o.Zoom
		}
	case FormatJSON:
		k.OuterRadius = o.OuterRadius
	case FormatDOT, FormatGraphviz:
		k.Detailed = o.Detailed
	}
	return k
}

// String summarizes the options for debug logs.
func (o *Options) String() string {
	return fmt.Sprintf("scale=%v inner=%v outer=%v gap=%v hole=%d formats=%s",
		o.Scale, o.InnerRadius, o.OuterRadius, o.GapFactor, o.HoleUnits, strings.Join(o.Formats, ","))
}
