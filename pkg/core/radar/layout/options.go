package layout

import (
	"math"

	"github.com/matzehuels/polaris/pkg/errors"
)

// Default geometry, matching a 954px wide chart.
const (
	// DefaultOuterRadius is half the chart width.
	DefaultOuterRadius = 477.0

	// DefaultInnerRadius leaves a 170px band outside the rings for labels.
	DefaultInnerRadius = DefaultOuterRadius - 170

	DefaultScale       = 1.0
	DefaultGapFactor   = 1.5
	DefaultLabelOffset = 10.0

	// StartAngle is where the angular cursor begins (12 o'clock in SVG
	// coordinates).
	StartAngle = -90.0
)

// Options controls the geometry of [Compute]. Zero values select defaults.
type Options struct {
	// InnerRadius is the unscaled radius of the ring area.
	InnerRadius float64

	// Scale multiplies InnerRadius.
	Scale float64

	// GapFactor is the width of the gap before each dimension, in
	// entity-angle units.
	GapFactor float64

	// LabelOffset pushes dimension labels beyond the ring area. Nil
	// selects DefaultLabelOffset; use [Offset] to set an explicit value,
	// including zero.
	LabelOffset *float64

	// HoleUnits is the number of empty radius units at the centre before
	// the first ring. With 0 the innermost ring sits one unit from the
	// centre; with 1 the rings move out by a unit and the outermost ring
	// touches the scaled inner radius.
	HoleUnits int
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.InnerRadius == 0 {
		o.InnerRadius = DefaultInnerRadius
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.GapFactor == 0 {
		o.GapFactor = DefaultGapFactor
	}
	if o.LabelOffset == nil {
		o.LabelOffset = Offset(DefaultLabelOffset)
	}
	return o
}

// Validate checks the options after defaults have been applied.
func (o Options) Validate() error {
	var problems errors.Problems
	if !positive(o.InnerRadius) {
		problems.Addf("inner radius must be positive, got %v", o.InnerRadius)
	}
	if !positive(o.Scale) {
		problems.Addf("scale must be positive, got %v", o.Scale)
	}
	if !positive(o.GapFactor) {
		problems.Addf("gap factor must be positive, got %v", o.GapFactor)
	}
	if o.LabelOffset != nil && (math.IsNaN(*o.LabelOffset) || math.IsInf(*o.LabelOffset, 0)) {
		problems.Addf("label offset must be finite, got %v", *o.LabelOffset)
	}
	if o.HoleUnits < 0 {
		problems.Addf("hole units must not be negative, got %d", o.HoleUnits)
	}
	return problems.Err()
}

// Offset returns a pointer to v for [Options.LabelOffset].
func Offset(v float64) *float64 { return &v }

// ScaledInnerRadius is InnerRadius*Scale, the radius every label is
// measured from.
func (o Options) ScaledInnerRadius() float64 {
	return o.InnerRadius * o.Scale
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
