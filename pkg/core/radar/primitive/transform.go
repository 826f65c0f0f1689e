package primitive

import (
	"math"
	"strconv"
	"strings"

	"honnef.co/go/curve"
)

// Transform places a label in polar form: rotate by Rotate degrees, move
// Translate units along the rotated x axis, then turn the local frame by
// Turn degrees (0, or 180 for mirrored labels).
type Transform struct {
	Rotate    float64
	Translate float64
	Turn      float64
}

// String formats the transform as an SVG transform attribute value.
func (t Transform) String() string {
	var b strings.Builder
	b.WriteString("rotate(")
	b.WriteString(formatNumber(t.Rotate))
	b.WriteString(") translate(")
	b.WriteString(formatNumber(t.Translate))
	b.WriteString(",0)")
	if t.Turn != 0 {
		b.WriteString(" rotate(")
		b.WriteString(formatNumber(t.Turn))
		b.WriteString(")")
	}
	return b.String()
}

// Affine returns the transform as a matrix mapping the label's local frame
// to chart coordinates.
func (t Transform) Affine() curve.Affine {
	return curve.Rotate(radians(t.Turn)).
		ThenTranslate(curve.Vec(t.Translate, 0)).
		ThenRotate(radians(t.Rotate))
}

// Apply maps a point from the label's local frame to chart coordinates.
func (t Transform) Apply(p curve.Point) curve.Point {
	return p.Transform(t.Affine())
}

// Origin is the chart position of the label's local origin.
func (t Transform) Origin() curve.Point {
	return t.Apply(curve.Pt(0, 0))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// formatNumber prints the shortest representation that round-trips.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
