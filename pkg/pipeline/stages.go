package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/polaris/pkg/core/radar"
	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/radar/primitive"
	"github.com/matzehuels/polaris/pkg/core/render"
	"github.com/matzehuels/polaris/pkg/core/render/sink"
	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
	"github.com/matzehuels/polaris/pkg/io"
)

// =============================================================================
// Load
// =============================================================================

// Load reads the document at path (.json, .yaml or .yml).
func Load(path string) (*document.Document, error) {
	return io.ImportFile(path)
}

// Normalize validates a document and returns its dataset.
func Normalize(doc *document.Document) (*radar.Dataset, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no document")
	}
	return doc.Dataset()
}

// =============================================================================
// Layout
// =============================================================================

// Layout computes the layout of ds and derives its primitives.
func Layout(ds *radar.Dataset, opts Options) (*layout.Layout, []primitive.Primitive, error) {
	l, err := layout.Compute(ds, opts.LayoutOptions())
	if err != nil {
		return nil, nil, err
	}
	return l, primitive.Generate(l, opts.PrimitiveOptions()), nil
}

// =============================================================================
// Render
// =============================================================================

// Render writes l and its primitives in each of formats. The SVG is
// produced once and shared by the SVG, PNG and PDF outputs.
func Render(ctx context.Context, l *layout.Layout, ps []primitive.Primitive, formats []string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var svg []byte
	chartSVG := func() []byte {
		if svg == nil {
			svg = sink.RenderSVG(l, ps, svgOptions(opts)...)
		}
		return svg
	}

	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = chartSVG()
		case FormatPNG:
			data, err = render.ToPNG(ctx, chartSVG(), opts.Zoom)
		case FormatPDF:
			data, err = render.ToPDF(ctx, chartSVG())
		case FormatJSON:
			data, err = sink.RenderJSON(l, ps, sink.WithJSONOuterRadius(opts.OuterRadius))
		case FormatDOT:
			data = []byte(sink.ToDOT(l, sink.DOTOptions{Detailed: opts.Detailed}))
		case FormatGraphviz:
			data, err = sink.RenderDOTSVG(ctx, sink.ToDOT(l, sink.DOTOptions{Detailed: opts.Detailed}))
		default:
			return nil, ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithOuterRadius(opts.OuterRadius)}
	if opts.RingLabels {
		svgOpts = append(svgOpts, sink.WithRingLabels())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}
