package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polaris/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   optionFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [radar.yaml]",
		Short: "Compute a radar layout as JSON",
		Long: `Compute a radar layout as JSON.

The output holds the ring radii, every dimension's angular span, every
entity's angle and radius, and the drawing primitives derived from them.
It is the same document as 'render -f json'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd, false)

	return cmd
}

// runLayout computes the layout of input and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Formats = []string{pipeline.FormatJSON}

	res, err := runner.ExecuteFile(ctx, input, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := writeFile(outputPath, res.Artifacts[pipeline.FormatJSON]); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printArtifact(outputPath, len(res.Artifacts[pipeline.FormatJSON]))
	printRadarSummary(res.Stats, res.CacheInfo.RenderHit)
	printNextStep("Render", appName+" render "+input)
	return nil
}
