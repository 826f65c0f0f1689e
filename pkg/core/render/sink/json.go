package sink

import (
	"encoding/json"

	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/radar/primitive"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	outer   float64
	compact bool
}

// WithJSONOuterRadius records the chart's outer radius. The default is
// [layout.DefaultOuterRadius] times the layout scale.
func WithJSONOuterRadius(r float64) JSONOption { return func(j *jsonRenderer) { j.outer = r } }

// WithCompact disables indentation.
func WithCompact() JSONOption { return func(j *jsonRenderer) { j.compact = true } }

type jsonOutput struct {
	InnerRadius float64         `json:"inner_radius"`
	OuterRadius float64         `json:"outer_radius"`
	Scale       float64         `json:"scale"`
	Unit        float64         `json:"unit"`
	AngleUnit   float64         `json:"angle_unit"`
	Rings       []jsonRing      `json:"rings"`
	Dimensions  []jsonDimension `json:"dimensions"`
	Entities    []jsonEntity    `json:"entities"`
	Primitives  []jsonPrimitive `json:"primitives"`
}

type jsonRing struct {
	Stage      string  `json:"stage"`
	Name       string  `json:"name"`
	Level      int     `json:"level"`
	RingRadius float64 `json:"ring_radius"`
	NodeRadius float64 `json:"node_radius"`
}

type jsonDimension struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	Entities   int     `json:"entities"`
}

type jsonEntity struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Dimension string  `json:"dimension"`
	Stage     string  `json:"stage"`
	Radius    float64 `json:"radius"`
	Angle     float64 `json:"angle"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type jsonPrimitive struct {
	Kind        primitive.Kind   `json:"kind"`
	ID          string           `json:"id"`
	Label       string           `json:"label,omitempty"`
	Angle       *float64         `json:"angle,omitempty"`
	X           *float64         `json:"x,omitempty"`
	Y           *float64         `json:"y,omitempty"`
	Radius      float64          `json:"radius,omitempty"`
	InnerRadius float64          `json:"inner_radius,omitempty"`
	OuterRadius float64          `json:"outer_radius,omitempty"`
	ArcStart    *float64         `json:"arc_start,omitempty"`
	ArcEnd      *float64         `json:"arc_end,omitempty"`
	Path        string           `json:"path,omitempty"`
	Pointer     string           `json:"pointer,omitempty"`
	Transform   string           `json:"transform,omitempty"`
	Anchor      primitive.Anchor `json:"anchor,omitempty"`
	TextDX      float64          `json:"text_dx,omitempty"`
	Connector   *jsonConnector   `json:"connector,omitempty"`
}

type jsonConnector struct {
	Transform string  `json:"transform"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// RenderJSON serializes l and its primitives. Angles are in degrees in
// the layout convention (0 along +x, clockwise); arc_start and arc_end use
// the 12 o'clock convention.
func RenderJSON(l *layout.Layout, ps []primitive.Primitive, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.outer <= 0 {
		r.outer = layout.DefaultOuterRadius * l.Options.Scale
	}

	out := jsonOutput{
		InnerRadius: l.Options.ScaledInnerRadius(),
		OuterRadius: r.outer,
		Scale:       l.Options.Scale,
		Unit:        l.Unit,
		AngleUnit:   l.AngleUnit,
		Rings:       make([]jsonRing, 0, len(l.Rings)),
		Dimensions:  make([]jsonDimension, 0, len(l.Dimensions)),
		Entities:    make([]jsonEntity, 0, len(l.Entities)),
		Primitives:  make([]jsonPrimitive, 0, len(ps)),
	}
	for _, ring := range l.Rings {
		out.Rings = append(out.Rings, jsonRing{
			Stage:      ring.StageID,
			Name:       ring.Name,
			Level:      ring.Level,
			RingRadius: ring.RingRadius,
			NodeRadius: ring.NodeRadius,
		})
	}
	for _, d := range l.Dimensions {
		out.Dimensions = append(out.Dimensions, jsonDimension{
			ID:         d.ID,
			Name:       d.Name,
			Radius:     d.Radius,
			StartAngle: d.Angle,
			EndAngle:   d.EndAngle,
			Entities:   d.Entities,
		})
	}
	for _, e := range l.Entities {
		x, y := e.Cartesian()
		out.Entities = append(out.Entities, jsonEntity{
			ID:        e.ID,
			Name:      e.Name,
			Dimension: e.DimensionID,
			Stage:     e.StageID,
			Radius:    e.Radius,
			Angle:     e.Angle,
			X:         x,
			Y:         y,
		})
	}
	for _, p := range ps {
		out.Primitives = append(out.Primitives, toJSONPrimitive(p))
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONPrimitive(p primitive.Primitive) jsonPrimitive {
	jp := jsonPrimitive{Kind: p.Kind, ID: p.ID, Label: p.Label}
	switch p.Kind {
	case primitive.KindRing:
		jp.X, jp.Y = ptr(p.Center.X), ptr(p.Center.Y)
		jp.Radius = p.Radius
	case primitive.KindEntityMarker:
		jp.Angle = ptr(p.Angle)
		jp.X, jp.Y = ptr(p.Center.X), ptr(p.Center.Y)
		jp.Radius = p.Radius
	case primitive.KindEntityLabel:
		jp.Angle = ptr(p.Angle)
		jp.X, jp.Y = ptr(p.Center.X), ptr(p.Center.Y)
		jp.Transform = p.Transform.String()
		jp.Anchor = p.Anchor
		if c := p.Connector; c != nil {
			jp.Connector = &jsonConnector{
				Transform: c.Transform.String(),
				X:         c.Rect.X,
				Y:         c.Rect.Y,
				Width:     c.Rect.W,
				Height:    c.Rect.H,
			}
		}
	case primitive.KindSegmentArc:
		jp.Angle = ptr(p.StartAngle)
		jp.InnerRadius = p.InnerRadius
		jp.OuterRadius = p.OuterRadius
		jp.ArcStart, jp.ArcEnd = ptr(p.ArcStart), ptr(p.ArcEnd)
		jp.Path = p.Path
	case primitive.KindSegmentDivider:
		jp.Angle = ptr(p.Angle)
		jp.Path = p.Path
	case primitive.KindSegmentLabel:
		jp.Angle = ptr(p.Angle)
		jp.X, jp.Y = ptr(p.Center.X), ptr(p.Center.Y)
		jp.Transform = p.Transform.String()
		jp.Anchor = p.Anchor
		jp.TextDX = p.TextDX
		jp.Pointer = p.Pointer
	}
	return jp
}

func ptr(v float64) *float64 { return &v }
