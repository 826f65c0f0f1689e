package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/polaris/pkg/pipeline"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintRadarSummary(t *testing.T) {
	stats := pipeline.Stats{
		Entities: 3, Dimensions: 1, Stages: 2,
		LayoutTime: 1200 * time.Microsecond, RenderTime: 4 * time.Millisecond,
	}
	tests := []struct {
		name   string
		cached bool
		want   []string
	}{
		{"fresh", false, []string{"3 entities", "1 dimension ", "2 rings", "layout 1ms", "render 4ms"}},
		{"cached", true, []string{"3 entities", "cached"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printRadarSummary(stats, tt.cached)
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("summary %q missing %q", out.String(), want)
				}
			}
			if tt.cached && strings.Contains(out.String(), "layout") {
				t.Errorf("cached summary %q shows timings", out.String())
			}
		})
	}
}

func TestPrintArtifact(t *testing.T) {
	out := captureStdout(t)
	printArtifact("radar.svg", 2048)
	if got := out.String(); !strings.Contains(got, "radar.svg") || !strings.Contains(got, "(2.0 KiB)") {
		t.Errorf("printArtifact() = %q", got)
	}
}

func TestRingStyleClamps(t *testing.T) {
	last := ringShades[len(ringShades)-1]
	if got := ringStyle(len(ringShades) + 3).GetForeground(); got != last {
		t.Errorf("ringStyle(outer) = %v, want %v", got, last)
	}
	if got := ringStyle(-1).GetForeground(); got != ringShades[0] {
		t.Errorf("ringStyle(-1) = %v, want %v", got, ringShades[0])
	}
}
