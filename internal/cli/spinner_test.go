package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/polaris/pkg/document"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		stats   document.Stats
		formats []string
		want    string
	}{
		{document.Stats{Elements: 12, Dimensions: 4, Stages: 3}, []string{"svg", "png"},
			"Placing 12 entities in 4 dimensions on 3 rings → svg, png"},
		{document.Stats{Elements: 1, Dimensions: 1, Stages: 1}, []string{"json"},
			"Placing 1 entity in 1 dimension on 1 ring → json"},
		{document.Stats{}, []string{"svg"},
			"Placing 0 entities in 0 dimensions on 0 rings → svg"},
	}
	for _, tt := range tests {
		if got := renderStatus(tt.stats, tt.formats); got != tt.want {
			t.Errorf("renderStatus(%+v) = %q, want %q", tt.stats, got, tt.want)
		}
	}
}

func TestSpinnerShowsLatestStatus(t *testing.T) {
	var out syncBuffer
	s := startSpinner(context.Background(), &out, "Reading radar.yaml")
	s.Set("Placing 3 entities in 2 dimensions on 2 rings → svg")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	for _, want := range []string{"Reading radar.yaml", "Placing 3 entities"} {
		if !strings.Contains(got, want) {
			t.Errorf("spinner output missing %q", want)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("Stop() did not clear the status line")
	}
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &syncBuffer{}, "Rendering")
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancel")
	}
	s.Stop()
	s.Stop()
}

func TestNilSpinner(t *testing.T) {
	var s *spinner
	s.Set("ignored")
	s.Stop()
}
