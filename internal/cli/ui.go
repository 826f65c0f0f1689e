package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/polaris/pkg/core/render/sink"
	"github.com/matzehuels/polaris/pkg/pipeline"
)

// Terminal palette. Marker and segment colours match the SVG output so a
// dimension or entity reads the same in the inspector and in the chart.
var (
	colorCyan    = lipgloss.Color("36")
	colorGreen   = lipgloss.Color("35")
	colorYellow  = lipgloss.Color("220")
	colorRed     = lipgloss.Color("167")
	colorBlue    = lipgloss.Color("75")
	colorWhite   = lipgloss.Color("255")
	colorGray    = lipgloss.Color("245")
	colorDim     = lipgloss.Color("240")
	colorMarker  = lipgloss.Color(sink.DefaultStyle.MarkerFill)
	colorSegment = lipgloss.Color(sink.DefaultStyle.SegmentLabelFill)

	// ringShades run from the innermost ring outwards; outer rings reuse
	// the last shade.
	ringShades = []lipgloss.Color{"255", "250", "245", "242", "240"}
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleEntity      = lipgloss.NewStyle().Foreground(colorMarker)
	styleDimension   = lipgloss.NewStyle().Foreground(colorSegment).Bold(true)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// stdout receives status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// status lines: icon, icon colour, and whether the message is tinted too.
type status struct {
	icon  string
	style lipgloss.Style
	tint  bool
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen), false}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed), false}
	statusWarn = status{"!", StyleWarning, true}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorGray), false}
)

func (s status) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.tint {
		msg = s.style.Render(msg)
	}
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.print(format, args...) }
func printError(format string, args ...any)   { statusFail.print(format, args...) }
func printWarning(format string, args ...any) { statusWarn.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printArtifact prints one written output with its size.
func printArtifact(path string, size int) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path)+" "+
		StyleDim.Render("("+formatBytes(int64(size))+")"))
}

// printKeyValue prints a labeled value in an aligned column.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printRadarSummary prints the radar's size and where its artifacts came
// from: "3 entities · 2 dimensions · 2 rings · layout 1ms · render 4ms",
// with "cached" in place of the timings when nothing was rendered.
func printRadarSummary(stats pipeline.Stats, cached bool) {
	parts := []string{
		plural(stats.Entities, "entity", "entities"),
		plural(stats.Dimensions, "dimension", "dimensions"),
		plural(stats.Stages, "ring", "rings"),
	}
	line := "  " + StyleDim.Render(strings.Join(parts, " · ")) + StyleDim.Render(" · ")
	if cached {
		line += lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	} else {
		line += StyleDim.Render(fmt.Sprintf("layout %s · render %s",
			stats.LayoutTime.Round(time.Millisecond), stats.RenderTime.Round(time.Millisecond)))
	}
	fmt.Fprintln(stdout, line)
}

// printNextStep suggests a follow-up command after a blank line.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// ringStyle shades a stage name by its ring index, innermost brightest.
func ringStyle(index int) lipgloss.Style {
	shade := ringShades[min(max(index, 0), len(ringShades)-1)]
	return lipgloss.NewStyle().Foreground(shade)
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
