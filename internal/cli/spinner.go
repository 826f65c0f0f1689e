package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/polaris/pkg/document"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a one-line status while a radar is loaded and rendered.
// The status may change between stages. A nil *spinner ignores every call,
// so callers that write artifacts to stdout can skip it without branching.
type spinner struct {
	w      io.Writer
	mu     sync.Mutex
	status string
	width  int
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// startSpinner draws status on w until Stop is called or ctx is done.
func startSpinner(ctx context.Context, w io.Writer, status string) *spinner {
	s := &spinner{
		w:      w,
		status: status,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.status)
	s.width = max(s.width, lipgloss.Width(line))
	fmt.Fprintf(s.w, "\r%s", line)
}

// Set replaces the status shown on the next frame.
func (s *spinner) Set(status string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *spinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() { close(s.stop) })
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// renderStatus describes the work a render of doc is about to do, e.g.
// "Placing 12 entities in 4 dimensions on 3 rings → svg, png".
func renderStatus(stats document.Stats, formats []string) string {
	return fmt.Sprintf("Placing %s in %s on %s → %s",
		plural(stats.Elements, "entity", "entities"),
		plural(stats.Dimensions, "dimension", "dimensions"),
		plural(stats.Stages, "ring", "rings"),
		strings.Join(formats, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
