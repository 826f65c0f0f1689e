package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polaris/pkg/errors"
	"github.com/matzehuels/polaris/pkg/pipeline"
)

// validateCommand creates the validate command. It checks every file and
// reports all failures before returning.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [radar.yaml...]",
		Short: "Check radar documents for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := validateFile(path); err != nil {
					failed++
					printError("%s", path)
					for _, line := range strings.Split(errors.UserMessage(err), "\n") {
						printDetail("%s", strings.TrimSpace(line))
					}
					continue
				}
				printSuccess("%s", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateFile(path string) error {
	doc, err := pipeline.Load(path)
	if err != nil {
		return err
	}
	_, err = pipeline.Normalize(doc)
	return err
}
