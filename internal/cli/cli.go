// Package cli implements the polaris command-line interface.
//
// Commands:
//   - render: lay out a radar document and write SVG, PNG, PDF, JSON or DOT
//   - layout: write the computed layout as JSON
//   - validate: check documents without rendering
//   - inspect: browse the laid-out entities in an interactive table
//   - watch: re-render a document whenever it changes
//   - serve: run the HTTP API
//   - cache: manage the local artifact cache
//
// Options come from polaris.toml in the working directory (or --config)
// and are overridden by flags.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polaris/pkg/buildinfo"
	"github.com/matzehuels/polaris/pkg/cache"
	"github.com/matzehuels/polaris/pkg/core/radar/layout"
	"github.com/matzehuels/polaris/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "polaris"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Polaris lays out technology radars",
		Long:         `Polaris turns a list of technologies, grouped into dimensions and adoption stages, into a radar chart with rings, sectors and collision-free labels.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/polaris/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the output path prefix from the output and input paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options
// =============================================================================

// optionFlags binds the pipeline flags shared by render, layout, inspect,
// watch and serve. Flag values override the config file.
type optionFlags struct {
	config      string
	formats     string
	labelOffset float64
	opts        pipeline.Options

	cmd *cobra.Command
}

func (f *optionFlags) register(cmd *cobra.Command, withRender bool) {
	f.cmd = cmd
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "config file (default: ./"+pipeline.DefaultConfigFile+" if present)")
	fl.Float64Var(&f.opts.Scale, "scale", 0, "scale factor for all radii (default 1)")
	fl.Float64Var(&f.opts.InnerRadius, "inner-radius", 0, "radius of the ring area before scaling (default 307)")
	fl.Float64Var(&f.opts.GapFactor, "gap", 0, "angular gap between dimensions, in entity slots (default 1.5)")
	fl.Float64Var(&f.labelOffset, "label-offset", layout.DefaultLabelOffset, "label distance from the ring area")
	fl.IntVar(&f.opts.HoleUnits, "hole", 0, "empty ring units at the center (1 matches the classic chart)")
	if !withRender {
		return
	}
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, graphviz (comma-separated)")
	fl.Float64Var(&f.opts.OuterRadius, "outer-radius", 0, "chart half-width (default 477 x scale)")
	fl.Float64Var(&f.opts.MarkerRadius, "marker-radius", 0, "entity marker radius (default 7)")
	fl.BoolVar(&f.opts.HideConnectors, "no-connectors", false, "omit label connector ticks")
	fl.BoolVar(&f.opts.RingLabels, "ring-labels", false, "label each ring with its stage")
	fl.StringVar(&f.opts.Title, "title", "", "chart title")
	fl.Float64Var(&f.opts.Zoom, "zoom", 0, "PNG zoom factor (default 2)")
	fl.BoolVar(&f.opts.Detailed, "detailed", false, "include stage and angle in DOT labels")
}

// resolve loads the config file and overlays the flags.
func (f *optionFlags) resolve() (pipeline.Options, error) {
	var (
		base pipeline.Options
		err  error
	)
	if f.config != "" {
		base, err = pipeline.LoadConfig(f.config)
	} else {
		base, err = pipeline.LoadDefaultConfig()
	}
	if err != nil {
		return pipeline.Options{}, err
	}
	override := f.opts
	if f.cmd != nil && f.cmd.Flags().Changed("label-offset") {
		override.LabelOffset = layout.Offset(f.labelOffset)
	}
	if f.formats != "" {
		override.Formats = parseFormats(f.formats)
	}
	return base.Merge(override), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
