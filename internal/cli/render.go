package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	graphio "github.com/matzehuels/graphgen/pkg/io"
	"github.com/matzehuels/graphgen/pkg/pipeline"
	"github.com/matzehuels/graphgen/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	detailed bool   // label vertices with id and depth
}

// renderCommand creates the render command, which renders a graph document
// written by "generate -f json".
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph JSON document to DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format) or base path (multiple); "-" for stdout`)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label vertices with id and depth")

	return cmd
}

// runRender loads the document at input and renders the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	formats := []string{string(render.FormatSVG)}
	if opts.formats != "" {
		parsed, err := render.ParseFormats(opts.formats)
		if err != nil {
			return err
		}
		formats = formats[:0]
		for _, f := range parsed {
			formats = append(formats, string(f))
		}
	}

	g, err := graphio.ImportJSON(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded graph", "path", input, "vertices", g.VertexCount(), "edges", g.EdgeCount())

	base := strings.TrimSuffix(input, filepath.Ext(input))
	if opts.output != stdoutPath {
		for _, f := range formats {
			if filepath.Clean(outputPath(opts.output, base, f, len(formats) == 1)) == filepath.Clean(input) {
				return errs.New(errs.ErrCodeInvalidInput, "output would overwrite %s", input)
			}
		}
	}

	p := newProgress(c.Logger)
	artifacts, err := pipeline.RenderArtifacts(ctx, g, formats, opts.detailed)
	if err != nil {
		return err
	}
	p.done("Rendered " + strings.Join(formats, ", "))

	if err := writeArtifacts(artifacts, formats, opts.output, base); err != nil {
		return err
	}
	if opts.output != stdoutPath {
		printSuccess("Rendered %s", input)
	}
	return nil
}
