// Package sink renders radar primitives into output formats.
//
// # Overview
//
// A sink takes a computed [layout.Layout] and the primitives generated
// from it and writes a final document:
//
//   - SVG: [RenderSVG], a standalone chart centred on the origin
//   - JSON: [RenderJSON], the layout plus every primitive for client-side drawing
//   - DOT: [ToDOT] and [RenderDOTSVG], entities pinned in a Graphviz graph
//
// PDF and PNG are produced from SVG by [render.ToPDF] and [render.ToPNG].
//
// # SVG Output
//
// The chart's viewBox is [-outer, -outer, 2*outer, 2*outer] where outer
// defaults to 477 times the layout scale. Primitives are drawn back to
// front: rings, sector arcs, dividers, sector labels, entity labels and
// finally entity markers.
//
//	ps := primitive.Generate(l, primitive.Options{})
//	svg := sink.RenderSVG(l, ps, sink.WithRingLabels())
//
// Colours come from [DefaultStyle]; pass [WithStyle] to override them.
//
// [render.ToPDF]: github.com/matzehuels/polaris/pkg/core/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/polaris/pkg/core/render.ToPNG
package sink
