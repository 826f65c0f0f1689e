package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/errors"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Detailed adds the stage and angle to entity labels.
	Detailed bool
}

// ToDOT converts a layout to a Graphviz graph with every dimension and
// entity pinned at its chart position. Dimensions connect to their
// entities. Graphviz's y axis points up, so y is negated.
func ToDOT(l *layout.Layout, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph radar {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"sans-serif\", fontsize=10];\n")
	buf.WriteString("  edge [color=\"#cccccc\"];\n")
	buf.WriteString("\n")

	for _, d := range l.Dimensions {
		x, y := d.Cartesian()
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box, style=filled, fillcolor=\"#e0e6eb\", pos=\"%s,%s!\"];\n",
			dimensionNode(d.ID), d.Name, num(x), num(-y))
	}
	for _, e := range l.Entities {
		x, y := e.Cartesian()
		label := e.Name
		if opts.Detailed {
			label = fmt.Sprintf("%s\nstage: %s\nangle: %s", e.Name, e.StageID, num(e.Angle))
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=circle, style=filled, fillcolor=\"#98BB00\", pos=\"%s,%s!\"];\n",
			entityNode(e.ID), label, num(x), num(-y))
	}

	buf.WriteString("\n")
	for _, e := range l.Entities {
		fmt.Fprintf(&buf, "  %q -- %q;\n", dimensionNode(e.DimensionID), entityNode(e.ID))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dimensionNode(id string) string { return "dimension:" + id }
func entityNode(id string) string    { return "entity:" + id }

// RenderDOTSVG lays out a DOT graph with neato and returns SVG bytes.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([-0-9.]+)\s+([-0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`,
		m[1], m[2], num(w), num(h), num(w), num(h))
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
