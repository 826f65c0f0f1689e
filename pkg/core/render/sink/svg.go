package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/radar/primitive"
)

// Style holds the colours and fonts of an SVG chart.
type Style struct {
	FontFamily       string
	FontSize         float64
	SegmentFontSize  float64
	RingStroke       string
	RingOpacity      float64
	MarkerFill       string
	MarkerStroke     string
	ConnectorFill    string
	ArcFill          string
	ArcStroke        string
	ArcStrokeWidth   float64
	DividerStroke    string
	SegmentLabelFill string
	RingLabelFill    string
}

// DefaultStyle is the stock radar palette.
var DefaultStyle = Style{
	FontFamily:       "sans-serif",
	FontSize:         10,
	SegmentFontSize:  16,
	RingStroke:       "#000",
	RingOpacity:      0.5,
	MarkerFill:       "#98BB00",
	MarkerStroke:     "#fff",
	ConnectorFill:    "#1EBD00",
	ArcFill:          "rgb(224,230,235)",
	ArcStroke:        "#fff",
	ArcStrokeWidth:   4,
	DividerStroke:    "rgb(224,230,235)",
	SegmentLabelFill: "#3e5f83",
	RingLabelFill:    "#999",
}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	outer      float64
	style      Style
	ringLabels bool
	title      string
}

// WithOuterRadius sets half the chart width. The default is
// [layout.DefaultOuterRadius] times the layout scale.
func WithOuterRadius(r float64) SVGOption { return func(s *svgRenderer) { s.outer = r } }

// WithStyle replaces [DefaultStyle].
func WithStyle(st Style) SVGOption { return func(s *svgRenderer) { s.style = st } }

// WithRingLabels prints stage names at the top of each ring.
func WithRingLabels() SVGOption { return func(s *svgRenderer) { s.ringLabels = true } }

// WithTitle adds a <title> element to the document.
func WithTitle(t string) SVGOption { return func(s *svgRenderer) { s.title = t } }

// RenderSVG draws primitives generated from l as a standalone SVG document
// centred on the origin.
func RenderSVG(l *layout.Layout, ps []primitive.Primitive, opts ...SVGOption) []byte {
	r := svgRenderer{style: DefaultStyle}
	for _, opt := range opts {
		opt(&r)
	}
	if r.outer <= 0 {
		r.outer = layout.DefaultOuterRadius * l.Options.Scale
	}

	var buf bytes.Buffer
	size := 2 * r.outer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s" font-family="%s" font-size="%s">`+"\n",
		num(-r.outer), num(-r.outer), num(size), num(size), num(size), num(size),
		escape(r.style.FontFamily), num(r.style.FontSize))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}

	// Painter's order: rings at the back, markers on top.
	r.rings(&buf, primitive.Filter(ps, primitive.KindRing))
	r.arcs(&buf, primitive.Filter(ps, primitive.KindSegmentArc))
	r.dividers(&buf, primitive.Filter(ps, primitive.KindSegmentDivider))
	r.segmentLabels(&buf, primitive.Filter(ps, primitive.KindSegmentLabel))
	r.entityLabels(&buf, primitive.Filter(ps, primitive.KindEntityLabel))
	r.markers(&buf, primitive.Filter(ps, primitive.KindEntityMarker))

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r svgRenderer) rings(buf *bytes.Buffer, ps []primitive.Primitive) {
	st := r.style
	fmt.Fprintf(buf, `  <g class="rings" fill="none" stroke="%s" stroke-opacity="%s">`+"\n", st.RingStroke, num(st.RingOpacity))
	for _, p := range ps {
		fmt.Fprintf(buf, `    <circle id="ring-%s" cx="%s" cy="%s" r="%s"/>`+"\n",
			escape(p.ID), num(p.Center.X), num(p.Center.Y), num(p.Radius))
	}
	buf.WriteString("  </g>\n")

	if !r.ringLabels {
		return
	}
	fmt.Fprintf(buf, `  <g class="ring-labels" fill="%s">`+"\n", st.RingLabelFill)
	for _, p := range ps {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" dy="0.71em" text-anchor="%s">%s</text>`+"\n",
			num(p.LabelAt.X), num(p.LabelAt.Y), p.Anchor, escape(p.Label))
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) arcs(buf *bytes.Buffer, ps []primitive.Primitive) {
	st := r.style
	fmt.Fprintf(buf, `  <g class="segments" fill="%s" stroke="%s" stroke-width="%s">`+"\n", st.ArcFill, st.ArcStroke, num(st.ArcStrokeWidth))
	for _, p := range ps {
		fmt.Fprintf(buf, `    <path id="segment-%s" d="%s"/>`+"\n", escape(p.ID), p.Path)
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) dividers(buf *bytes.Buffer, ps []primitive.Primitive) {
	fmt.Fprintf(buf, `  <g class="dividers" stroke="%s">`+"\n", r.style.DividerStroke)
	for _, p := range ps {
		fmt.Fprintf(buf, `    <path d="%s"/>`+"\n", p.Path)
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) segmentLabels(buf *bytes.Buffer, ps []primitive.Primitive) {
	st := r.style
	fmt.Fprintf(buf, `  <g class="segment-labels" fill="%s" font-size="%s" font-weight="bold">`+"\n", st.SegmentLabelFill, num(st.SegmentFontSize))
	for _, p := range ps {
		fmt.Fprintf(buf, `    <g transform="%s">`+"\n", p.Transform)
		fmt.Fprintf(buf, `      <path d="%s"/>`+"\n", p.Pointer)
		fmt.Fprintf(buf, `      <text dx="%s" dy="0.35em" text-anchor="%s">%s</text>`+"\n", num(p.TextDX), p.Anchor, escape(p.Label))
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) entityLabels(buf *bytes.Buffer, ps []primitive.Primitive) {
	buf.WriteString(`  <g class="entity-labels">` + "\n")
	for _, p := range ps {
		if c := p.Connector; c != nil {
			fmt.Fprintf(buf, `    <rect transform="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				c.Transform, num(c.Rect.X), num(c.Rect.Y), num(c.Rect.W), num(c.Rect.H), r.style.ConnectorFill)
		}
		fmt.Fprintf(buf, `    <text id="label-%s" transform="%s" dy="0.35em" text-anchor="%s">%s</text>`+"\n",
			escape(p.ID), p.Transform, p.Anchor, escape(p.Label))
	}
	buf.WriteString("  </g>\n")
}

func (r svgRenderer) markers(buf *bytes.Buffer, ps []primitive.Primitive) {
	st := r.style
	fmt.Fprintf(buf, `  <g class="entities" fill="%s" stroke="%s">`+"\n", st.MarkerFill, st.MarkerStroke)
	for _, p := range ps {
		fmt.Fprintf(buf, `    <circle id="entity-%s" cx="%s" cy="%s" r="%s"><title>%s</title></circle>`+"\n",
			escape(p.ID), num(p.Center.X), num(p.Center.Y), num(p.Radius), escape(p.Label))
	}
	buf.WriteString("  </g>\n")
}

// num prints coordinates with at most three decimals.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
