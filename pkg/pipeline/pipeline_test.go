package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/polaris/pkg/cache"
	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/core/render"
	"github.com/matzehuels/polaris/pkg/document"
	"github.com/matzehuels/polaris/pkg/errors"
	"github.com/matzehuels/polaris/pkg/observability"
)

func sampleDoc() *document.Document {
	return &document.Document{
		Elements: []document.Element{
			{ID: "1", Name: "React", Dimension: "fe", Stage: "adopt"},
			{ID: "2", Name: "Vite", Dimension: "fe", Stage: "trial"},
			{ID: "3", Name: "Kafka", Dimension: "be", Stage: "adopt"},
		},
		RadarData: document.RadarData{
			Dimensions: []document.Dimension{{ID: "fe", Name: "Frontend"}, {ID: "be", Name: "Backend"}},
			Stages:     []document.Stage{{ID: "adopt", Name: "Adopt", Level: 1}, {ID: "trial", Name: "Trial", Level: 2}},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"graphviz", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(FormatSVG); got != ".svg" {
		t.Errorf("Extension(svg) = %s", got)
	}
	if got := Extension(FormatGraphviz); got != ".graphviz.svg" {
		t.Errorf("Extension(graphviz) = %s", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.InnerRadius != 307 || opts.Scale != 1 || opts.GapFactor != 1.5 || *opts.LabelOffset != 10 {
		t.Errorf("layout defaults = %+v", opts.LayoutOptions())
	}
	if opts.OuterRadius != 477 {
		t.Errorf("OuterRadius = %v, want 477", opts.OuterRadius)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.MarkerRadius != 7 || opts.Zoom != DefaultZoom {
		t.Errorf("MarkerRadius = %v, Zoom = %v", opts.MarkerRadius, opts.Zoom)
	}
}

func TestOptionsOuterRadiusFollowsScale(t *testing.T) {
	opts := Options{Scale: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.OuterRadius != 954 {
		t.Errorf("OuterRadius = %v, want 954", opts.OuterRadius)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative scale", Options{Scale: -1}, errors.ErrCodeValidation},
		{"negative hole", Options{HoleUnits: -1}, errors.ErrCodeValidation},
		{"negative marker", Options{MarkerRadius: -2}, errors.ErrCodeValidation},
		{"outer inside rings", Options{OuterRadius: 100}, errors.ErrCodeValidation},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Scale: 1.5}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	first := opts.String()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if opts.String() != first {
		t.Errorf("options changed on second call: %s -> %s", first, opts.String())
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Title: "A"}
	b := Options{Title: "B"}
	_ = a.ValidateAndSetDefaults()
	_ = b.ValidateAndSetDefaults()

	if a.ArtifactKeyOpts(FormatSVG) == b.ArtifactKeyOpts(FormatSVG) {
		t.Error("title should change the svg key")
	}
	if a.ArtifactKeyOpts(FormatJSON) != b.ArtifactKeyOpts(FormatJSON) {
		t.Error("title should not change the json key")
	}
	if a.ArtifactKeyOpts(FormatPNG).Zoom == 0 {
		t.Error("png key should include zoom")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polaris.toml")
	content := `
scale = 1.5
hole_units = 1
formats = ["svg", "json"]
ring_labels = true
title = "Tech Radar"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if opts.Scale != 1.5 || opts.HoleUnits != 1 || !opts.RingLabels || opts.Title != "Tech Radar" {
		t.Errorf("LoadConfig() = %+v", opts)
	}
	if len(opts.Formats) != 2 || opts.Formats[1] != FormatJSON {
		t.Errorf("Formats = %v", opts.Formats)
	}
}

func TestLabelOffsetZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polaris.toml")
	if err := os.WriteFile(path, []byte("label_offset = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if opts.LabelOffset == nil || *opts.LabelOffset != 0 {
		t.Fatalf("LoadConfig() LabelOffset = %v, want explicit 0", opts.LabelOffset)
	}

	merged := opts.Merge(Options{Scale: 2})
	if err := merged.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := *merged.LayoutOptions().LabelOffset; got != 0 {
		t.Errorf("label offset after defaults = %v, want 0", got)
	}

	var def Options
	if err := def.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	zero := def
	zero.LabelOffset = layout.Offset(0)
	if def.LayoutKeyOpts() == zero.LayoutKeyOpts() {
		t.Error("zero and default label offsets share a layout key")
	}

	override := Options{LabelOffset: layout.Offset(5)}.Merge(Options{LabelOffset: layout.Offset(0)})
	if *override.LabelOffset != 0 {
		t.Errorf("Merge() LabelOffset = %v, want 0", *override.LabelOffset)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	_ = os.WriteFile(unknown, []byte("sclae = 2\n"), 0o644)
	if _, err := LoadConfig(unknown); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown key: err = %v, want INVALID_INPUT", err)
	}

	broken := filepath.Join(dir, "broken.toml")
	_ = os.WriteFile(broken, []byte("scale = = 2\n"), 0o644)
	if _, err := LoadConfig(broken); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("syntax error: err = %v, want INVALID_FORMAT", err)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestMerge(t *testing.T) {
	base := Options{Scale: 1.5, Formats: []string{"svg"}, RingLabels: true}
	got := base.Merge(Options{Scale: 2, Formats: []string{"json"}, HideConnectors: true})

	if got.Scale != 2 || got.Formats[0] != "json" {
		t.Errorf("override not applied: %+v", got)
	}
	if !got.RingLabels || !got.HideConnectors {
		t.Errorf("booleans lost: %+v", got)
	}
	if base.Scale != 1.5 {
		t.Error("Merge modified the receiver")
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Formats: []string{FormatSVG, FormatJSON, FormatDOT}}
	first, err := r.Execute(ctx, sampleDoc(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit || len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !strings.Contains(string(first.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if first.Stats.Entities != 3 || first.Stats.Dimensions != 2 || first.Stats.Stages != 2 {
		t.Errorf("Stats = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, sampleDoc(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hit", second.CacheInfo)
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	scaled := opts
	scaled.Scale = 2
	third, err := r.Execute(ctx, sampleDoc(), scaled)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit || third.LayoutKey == first.LayoutKey {
		t.Error("changing scale should miss the cache")
	}

	refreshed := opts
	refreshed.Refresh = true
	fourth, err := r.Execute(ctx, sampleDoc(), refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	bad := sampleDoc()
	bad.Elements[0].Stage = "hold"
	if _, err := r.Execute(ctx, bad, Options{}); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("unknown stage: err = %v, want VALIDATION_FAILED", err)
	}

	if _, err := r.Execute(ctx, &document.Document{}, Options{}); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("empty document: err = %v, want EMPTY_INPUT", err)
	}

	if _, err := r.Execute(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Errorf("nil document: err = %v, want EMPTY_INPUT", err)
	}
}

func TestRunnerExecuteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "radar.yaml")
	content := `
elements:
  - {id: "1", name: React, dimension: fe, stage: adopt}
radar-data:
  dimensions:
    - {id: fe, name: Frontend}
  stages:
    - {id: adopt, name: Adopt, level: 1}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).ExecuteFile(context.Background(), path, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("ExecuteFile: %v", err)
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"name": "React"`) {
		t.Errorf("json artifact missing entity:\n%s", res.Artifacts[FormatJSON])
	}

	_, err = NewRunner(nil, nil, nil).ExecuteFile(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunnerHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), sampleDoc(), Options{Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	if hooks.layouts != 1 || hooks.renders != 1 || hooks.misses != 1 {
		t.Errorf("hooks = %+v, want 1 layout, 1 render, 1 miss", hooks)
	}
}

func TestRenderRasterFormats(t *testing.T) {
	if !render.ConverterAvailable() {
		t.Skip("rsvg-convert not installed")
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), sampleDoc(), Options{Formats: []string{FormatPNG, FormatPDF}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatPDF]), "%PDF") {
		t.Error("pdf artifact lacks PDF header")
	}
	if len(res.Artifacts[FormatPNG]) < 8 || string(res.Artifacts[FormatPNG][1:4]) != "PNG" {
		t.Error("png artifact lacks PNG signature")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	layouts, renders, misses int
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) { h.layouts++ }

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) { h.misses++ }
