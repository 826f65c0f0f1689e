// Package render holds format conversions shared by the radar sinks.
//
// SVG is the native output; PDF and PNG are produced from it with
// rsvg-convert, which must be on PATH:
//
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/matzehuels/polaris/pkg/errors"
)

// ConverterBinary is the external tool used for raster and PDF output.
const ConverterBinary = "rsvg-convert"

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG. A zoom of 2 doubles the pixel
// dimensions; zero or negative values mean 1.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if zoom <= 0 {
		zoom = 1
	}
	return rsvgConvert(ctx, svg, "png", "-z", strconv.FormatFloat(zoom, 'f', 2, 64))
}

// ConverterAvailable reports whether PDF and PNG output can be produced.
func ConverterAvailable() bool {
	_, err := exec.LookPath(ConverterBinary)
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !ConverterAvailable() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, ConverterBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "%s conversion", format)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", ConverterBinary, stderr.String())
	}
	return out.Bytes(), nil
}
