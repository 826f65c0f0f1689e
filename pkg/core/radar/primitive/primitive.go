// Package primitive derives drawing primitives from a computed radar
// layout: ring circles, entity markers and labels, sector arcs, sector
// dividers and sector labels.
//
// Primitives carry geometry only. Colours, strokes and fonts belong to the
// sinks that draw them.
//
// Label placement follows one rule. A label at layout angle a is placed by
//
//	rotate(a) translate(d,0) [rotate(180)]
//
// where the trailing turn and an end text-anchor are applied when a > 90
// so the text stays upright (see [LabelOrientation]).
package primitive

import (
	"math"

	"honnef.co/go/curve"

	"github.com/matzehuels/polaris/pkg/core/radar/layout"
)

// Kind identifies a primitive type.
type Kind string

const (
	KindRing           Kind = "ring"
	KindEntityMarker   Kind = "entity-marker"
	KindEntityLabel    Kind = "entity-label"
	KindSegmentArc     Kind = "segment-arc"
	KindSegmentLabel   Kind = "segment-label"
	KindSegmentDivider Kind = "segment-divider"
)

// Default distances, in chart units, measured from the scaled inner radius
// unless noted.
const (
	DefaultMarkerRadius       = 7.0
	DefaultEntityLabelOffset  = 20.0
	DefaultConnectorOffset    = 5.0
	DefaultArcInset           = 2.0
	DefaultArcThickness       = 10.0
	DefaultArcPadding         = 2.0
	DefaultSegmentLabelOffset = 30.0
	DefaultSegmentTextOffset  = 10.0
	DefaultRingLabelInset     = 4.0
	DefaultTolerance          = 0.1
)

// Options tunes primitive geometry. Zero values select defaults.
type Options struct {
	MarkerRadius       float64 // entity circle radius
	EntityLabelOffset  float64 // entity text distance beyond the rings
	ConnectorOffset    float64 // connector tick distance beyond the rings
	ArcInset           float64 // gap between rings and the sector band
	ArcThickness       float64 // sector band width
	ArcPadding         float64 // gap at each end of a sector band, in chart units
	SegmentLabelOffset float64 // sector label distance beyond the rings
	SegmentTextOffset  float64 // sector text distance from its pointer
	RingLabelInset     float64 // ring label distance inside its ring
	Tolerance          float64 // bezier flattening tolerance for arcs

	// HideConnectors drops the connector tick from entity labels.
	HideConnectors bool
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	def := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	def(&o.MarkerRadius, DefaultMarkerRadius)
	def(&o.EntityLabelOffset, DefaultEntityLabelOffset)
	def(&o.ConnectorOffset, DefaultConnectorOffset)
	def(&o.ArcInset, DefaultArcInset)
	def(&o.ArcThickness, DefaultArcThickness)
	def(&o.ArcPadding, DefaultArcPadding)
	def(&o.SegmentLabelOffset, DefaultSegmentLabelOffset)
	def(&o.SegmentTextOffset, DefaultSegmentTextOffset)
	def(&o.RingLabelInset, DefaultRingLabelInset)
	def(&o.Tolerance, DefaultTolerance)
	return o
}

// Rect is an axis-aligned rectangle in a label's local frame.
type Rect struct {
	X, Y, W, H float64
}

// Connector is the short tick drawn between the rings and an entity label.
type Connector struct {
	Transform Transform
	Rect      Rect
}

// Primitive is one drawable element. Which fields are meaningful depends
// on Kind:
//
//   - ring: Center, Radius, LabelAt, Anchor
//   - entity-marker: Center, Radius, Angle
//   - entity-label: Transform, Center (its origin), Anchor, Connector
//   - segment-arc: InnerRadius, OuterRadius, StartAngle, EndAngle,
//     ArcStart, ArcEnd, Path
//   - segment-divider: Center (start), End, Angle, Path
//   - segment-label: Transform, Center, Anchor, TextDX, Pointer
type Primitive struct {
	Kind  Kind
	ID    string // stage, entity or dimension id
	Label string

	// Angle is the layout angle in degrees.
	Angle float64

	Center  curve.Point
	End     curve.Point
	LabelAt curve.Point
	Radius  float64

	InnerRadius float64
	OuterRadius float64
	StartAngle  float64
	EndAngle    float64
	ArcStart    float64
	ArcEnd      float64

	Path    string
	Pointer string

	Transform Transform
	Anchor    Anchor
	TextDX    float64
	Connector *Connector
}

// Generate derives primitives from l in a fixed order: entity markers,
// entity labels, then per dimension its arc, divider and label, and
// finally rings from the innermost out.
func Generate(l *layout.Layout, opts Options) []Primitive {
	opts = opts.WithDefaults()
	g := generator{o: opts, r: l.Options.ScaledInnerRadius()}

	out := make([]Primitive, 0, 2*len(l.Entities)+3*len(l.Dimensions)+len(l.Rings))
	for _, e := range l.Entities {
		out = append(out, g.marker(e))
	}
	for _, e := range l.Entities {
		out = append(out, g.entityLabel(e))
	}
	for _, d := range l.Dimensions {
		out = append(out, g.arc(d), g.divider(d), g.segmentLabel(d))
	}
	for _, r := range l.Rings {
		out = append(out, g.ring(r))
	}
	return out
}

// Filter returns the primitives of one kind, preserving order.
func Filter(ps []Primitive, kind Kind) []Primitive {
	var out []Primitive
	for _, p := range ps {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

type generator struct {
	o Options
	r float64 // scaled inner radius
}

func (g generator) marker(e layout.EntityPlacement) Primitive {
	x, y := e.Cartesian()
	return Primitive{
		Kind:   KindEntityMarker,
		ID:     e.ID,
		Label:  e.Name,
		Angle:  e.Angle,
		Center: curve.Pt(x, y),
		Radius: g.o.MarkerRadius,
	}
}

func (g generator) entityLabel(e layout.EntityPlacement) Primitive {
	anchor, turn := LabelOrientation(e.Angle)
	t := Transform{Rotate: e.Angle, Translate: g.r + g.o.EntityLabelOffset, Turn: turn}
	p := Primitive{
		Kind:      KindEntityLabel,
		ID:        e.ID,
		Label:     e.Name,
		Angle:     e.Angle,
		Transform: t,
		Center:    t.Origin(),
		Anchor:    anchor,
	}
	if !g.o.HideConnectors {
		x := 3.0
		if Mirrored(e.Angle) {
			x = -8
		}
		p.Connector = &Connector{
			Transform: Transform{Rotate: e.Angle, Translate: g.r + g.o.ConnectorOffset, Turn: turn},
			Rect:      Rect{X: x, Y: -1.5, W: 6, H: 1.5},
		}
	}
	return p
}

func (g generator) arc(d layout.DimensionPlacement) Primitive {
	inner := g.r + g.o.ArcInset
	outer := inner + g.o.ArcThickness

	sweep := d.Sweep()
	pad := math.Max(0, math.Min(degrees(g.o.ArcPadding/outer), sweep/4))

	seg := curve.Circle{Center: curve.Pt(0, 0), Radius: outer}.
		Segment(inner, radians(d.Angle+pad), radians(sweep-2*pad))

	return Primitive{
		Kind:        KindSegmentArc,
		ID:          d.ID,
		Label:       d.Name,
		Angle:       d.Angle,
		InnerRadius: inner,
		OuterRadius: outer,
		StartAngle:  d.Angle,
		EndAngle:    d.EndAngle,
		ArcStart:    LayoutAngleToArcAngle(d.Angle),
		ArcEnd:      LayoutAngleToArcAngle(d.EndAngle),
		Path:        seg.Path(g.o.Tolerance).SVG(svgOptions),
	}
}

func (g generator) divider(d layout.DimensionPlacement) Primitive {
	outer := g.r + g.o.ArcInset + g.o.ArcThickness
	x, y := layout.Polar{Radius: outer, Angle: d.Angle}.Cartesian()
	line := curve.Line{P0: curve.Pt(0, 0), P1: curve.Pt(x, y)}
	return Primitive{
		Kind:   KindSegmentDivider,
		ID:     d.ID,
		Label:  d.Name,
		Angle:  d.Angle,
		Center: line.P0,
		End:    line.P1,
		Path:   curve.SVG(line.PathElements(g.o.Tolerance), svgOptions),
	}
}

func (g generator) segmentLabel(d layout.DimensionPlacement) Primitive {
	anchor, turn := LabelOrientation(d.Angle)
	t := Transform{Rotate: d.Angle, Translate: g.r + g.o.SegmentLabelOffset, Turn: turn}

	dx, quarter := g.o.SegmentTextOffset, 1.0
	if Mirrored(d.Angle) {
		dx, quarter = -dx, -1
	}

	return Primitive{
		Kind:      KindSegmentLabel,
		ID:        d.ID,
		Label:     d.Name,
		Angle:     d.Angle,
		Transform: t,
		Center:    t.Origin(),
		Anchor:    anchor,
		TextDX:    dx,
		Pointer:   pointer(quarter),
	}
}

func (g generator) ring(r layout.Ring) Primitive {
	return Primitive{
		Kind:    KindRing,
		ID:      r.StageID,
		Label:   r.Name,
		Center:  curve.Pt(0, 0),
		Radius:  r.RingRadius,
		LabelAt: curve.Pt(0, -(r.RingRadius - g.o.RingLabelInset)),
		Anchor:  AnchorMiddle,
	}
}

// pointer returns the label's triangle turned a quarter clockwise (s = 1)
// or anticlockwise (s = -1), using an exact quarter-turn matrix.
func pointer(s float64) string {
	var tri curve.BezPath
	tri.MoveTo(curve.Pt(0, 0))
	tri.LineTo(curve.Pt(10, 5))
	tri.LineTo(curve.Pt(0, 10))
	tri.ClosePath()
	return tri.Transform(curve.NewAffine([6]float64{0, s, -s, 0, 0, 0})).SVG(svgOptions)
}

var svgOptions = curve.SVGOptions{}
