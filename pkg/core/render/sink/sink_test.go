package sink

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/polaris/pkg/core/radar"
	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/radar/primitive"
)

func sample(t *testing.T) (*layout.Layout, []primitive.Primitive) {
	t.Helper()
	ds, err := radar.Normalize(
		[]radar.Entity{
			{ID: "a1", Name: "One", DimensionID: "A", StageID: "s1"},
			{ID: "a2", Name: "Two", DimensionID: "A", StageID: "s2"},
			{ID: "b1", Name: "R&D", DimensionID: "B", StageID: "s1"},
			{ID: "b2", Name: "Four", DimensionID: "B", StageID: "s2"},
		},
		[]radar.Dimension{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Beta"}},
		[]radar.Stage{{ID: "s1", Name: "Inner", Level: 1}, {ID: "s2", Name: "Outer", Level: 2}},
	)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	l, err := layout.Compute(ds, layout.Options{InnerRadius: 100})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return l, primitive.Generate(l, primitive.Options{})
}

func TestRenderSVG(t *testing.T) {
	l, ps := sample(t)
	svg := string(RenderSVG(l, ps))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("RenderSVG() is not a complete document:\n%s", svg)
	}
	if !strings.Contains(svg, `viewBox="-477 -477 954 954"`) {
		t.Error("RenderSVG() missing default viewBox")
	}
	// One circle per ring plus one per entity.
	if got := strings.Count(svg, "<circle"); got != 6 {
		t.Errorf("circle count = %d, want 6", got)
	}
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("connector count = %d, want 4", got)
	}
	if !strings.Contains(svg, "R&amp;D") {
		t.Error("RenderSVG() did not escape label text")
	}
	if strings.Contains(svg, "ring-labels") {
		t.Error("RenderSVG() drew ring labels without WithRingLabels")
	}
	for _, want := range []string{`fill="#98BB00"`, `stroke-opacity="0.5"`, `fill="#3e5f83"`, `text-anchor="end"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %s", want)
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l, ps := sample(t)
	svg := string(RenderSVG(l, ps,
		WithOuterRadius(200),
		WithRingLabels(),
		WithTitle("Tech <Radar>"),
	))

	if !strings.Contains(svg, `viewBox="-200 -200 400 400"`) {
		t.Error("WithOuterRadius not applied")
	}
	if !strings.Contains(svg, ">Inner</text>") || !strings.Contains(svg, ">Outer</text>") {
		t.Error("WithRingLabels did not print stage names")
	}
	if !strings.Contains(svg, `text-anchor="middle">Inner</text>`) {
		t.Error("ring labels are not centred on the ring")
	}
	if !strings.Contains(svg, "<title>Tech &lt;Radar&gt;</title>") {
		t.Error("WithTitle not escaped or missing")
	}
}

func TestRenderSVGHiddenConnectors(t *testing.T) {
	l, _ := sample(t)
	ps := primitive.Generate(l, primitive.Options{HideConnectors: true})
	if got := strings.Count(string(RenderSVG(l, ps)), "<rect"); got != 0 {
		t.Errorf("connector count = %d, want 0", got)
	}
}

func TestRenderJSON(t *testing.T) {
	l, ps := sample(t)
	data, err := RenderJSON(l, ps)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.InnerRadius != 100 || out.OuterRadius != 477 || out.Scale != 1 {
		t.Errorf("radii = %v/%v scale %v", out.InnerRadius, out.OuterRadius, out.Scale)
	}
	if len(out.Rings) != 2 || len(out.Dimensions) != 2 || len(out.Entities) != 4 {
		t.Fatalf("counts = %d rings, %d dimensions, %d entities", len(out.Rings), len(out.Dimensions), len(out.Entities))
	}
	if len(out.Primitives) != len(ps) {
		t.Errorf("primitives = %d, want %d", len(out.Primitives), len(ps))
	}

	for _, p := range out.Primitives {
		if p.Kind != primitive.KindSegmentArc {
			continue
		}
		d, _ := l.Dimension(p.ID)
		if p.ArcStart == nil || math.Abs(*p.ArcStart-(d.Angle+90)) > 1e-9 {
			t.Errorf("%s arc_start = %v, want %v", p.ID, p.ArcStart, d.Angle+90)
		}
		if p.Path == "" {
			t.Errorf("%s arc has no path", p.ID)
		}
	}

	if !strings.Contains(string(data), `"kind": "entity-label"`) {
		t.Error("RenderJSON() missing entity labels")
	}
}

func TestRenderJSONCompact(t *testing.T) {
	l, ps := sample(t)
	data, err := RenderJSON(l, ps, WithCompact(), WithJSONOuterRadius(300))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("WithCompact output contains newlines")
	}
	if !strings.Contains(string(data), `"outer_radius":300`) {
		t.Error("WithJSONOuterRadius not applied")
	}
}

func TestToDOT(t *testing.T) {
	l, _ := sample(t)
	dot := ToDOT(l, DOTOptions{})

	for _, want := range []string{
		"graph radar {",
		"layout=neato;",
		`"dimension:A" [label="Alpha"`,
		`"dimension:A" -- "entity:a1";`,
		`"dimension:B" -- "entity:b2";`,
		// a2 sits at 90 degrees on the outer node radius.
		`"entity:a2" [label="Two", shape=circle, style=filled, fillcolor="#98BB00", pos="0,-50!"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s\n%s", want, dot)
		}
	}

	detailed := ToDOT(l, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, `stage: s2`) {
		t.Error("detailed ToDOT() missing stage")
	}
}

func TestRenderDOTSVG(t *testing.T) {
	l, _ := sample(t)
	svg, err := RenderDOTSVG(context.Background(), ToDOT(l, DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderDOTSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderDOTSVG() did not produce SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0.00 0.00 100 50" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed an SVG without viewBox")
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.0001, "0"},
		{100, "100"},
		{-12.857142, "-12.857"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
