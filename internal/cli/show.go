package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphgen/pkg/pipeline"
)

// showOpts holds the command-line flags for the show command.
type showOpts struct {
	output   string
	formats  string
	detailed bool
}

// showCommand creates the show command, which prints a stored run and
// optionally writes its artifacts again.
func (c *CLI) showCommand() *cobra.Command {
	var opts showOpts

	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a generated run from the cache or archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `write artifacts to this file or base path; "-" for stdout`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "artifact format(s) to write: json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label vertices with id and depth")

	return cmd
}

func (c *CLI) runShow(ctx context.Context, runID string, opts *showOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close(context.Background())

	result, err := runner.Load(ctx, runID)
	if err != nil {
		return err
	}

	toStdout := opts.output == stdoutPath
	if !toStdout {
		printRunSummary(result.RunID, result.Params, result.Stats, result.Warning, result.CacheHit)
	}
	if opts.output == "" && opts.formats == "" {
		return nil
	}

	po := pipeline.Options{Detailed: opts.detailed}
	if opts.formats != "" {
		po.Formats = strings.Split(opts.formats, ",")
	}
	if err := po.ValidateAndSetDefaults(); err != nil {
		return err
	}
	artifacts, err := runner.Render(ctx, result.RunID, result.Graph, po)
	if err != nil {
		return err
	}
	if !toStdout {
		printNewline()
	}
	return writeArtifacts(artifacts, po.Formats, opts.output, result.RunID)
}
