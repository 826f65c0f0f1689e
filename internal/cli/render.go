package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polaris/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   optionFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [radar.yaml]",
		Short: "Render a radar document",
		Long: `Render a radar document.

The document lists elements with their dimension and stage, plus the
dimensions and stages themselves. It may be JSON or YAML. Each requested
format is written next to the input (or to --output):

  polaris render radar.yaml                  # radar.svg
  polaris render radar.yaml -f svg,png,json  # radar.svg, radar.png, radar.json
  polaris render radar.yaml -o -             # SVG on stdout

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.opts.Refresh, "refresh", false, "re-render even when cached")
	flags.register(cmd, true)

	return cmd
}

// runRender runs the pipeline on input and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if output == "-" && len(opts.Formats) != 1 {
		return fmt.Errorf("stdout output needs exactly one format, got %d", len(opts.Formats))
	}

	var sp *spinner
	if output != "-" {
		sp = startSpinner(ctx, os.Stderr, "Reading "+input)
	}
	res, err := renderDocument(ctx, runner, input, opts, sp)
	sp.Stop()
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", input)
	for i, p := range paths {
		printArtifact(p, len(res.Artifacts[opts.Formats[i]]))
	}
	printRadarSummary(res.Stats, res.CacheInfo.RenderHit)
	return nil
}

// renderDocument loads input and runs it through runner, keeping the
// spinner's status in step with the document being placed.
func renderDocument(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, sp *spinner) (*pipeline.Result, error) {
	doc, err := pipeline.Load(input)
	if err != nil {
		return nil, err
	}
	sp.Set(renderStatus(doc.Stats(), opts.Formats))
	return runner.Execute(ctx, doc, opts)
}

// writeArtifacts writes each format to its own file and returns the paths
// in format order. A single format honours output verbatim.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + pipeline.Extension(format)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// openOutput opens path for writing, or stdout when path is empty or "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
