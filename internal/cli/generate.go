package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphgen/pkg/generator"
	"github.com/matzehuels/graphgen/pkg/pipeline"
)

// defaultOutputBase names generated files when --output is not given.
const defaultOutputBase = "graph"

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	maxDepth    int
	newVertices int
	workers     int
	maxVertices int
	seed        uint64

	green, blue, yellow, red float64

	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	detailed bool   // label vertices with id and depth
	tui      bool   // show the live progress view
	refresh  bool   // ignore a cached run for the same seeded options
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random layered graph",
		Long: `Generate grows a random tree with a pool of workers, then decorates it
with colored edges. Settings come from the config file; flags override them.`,
		Example: `  graphgen generate -d 5 -n 3
  graphgen generate --seed 42 -f json,svg -o out/graph
  graphgen generate --red 0 --blue 0.5 --tui`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.generateOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), po, &opts)
		},
	}

	probs := generator.DefaultProbabilities()
	f := cmd.Flags()
	f.IntVarP(&opts.maxDepth, "max-depth", "d", pipeline.DefaultMaxDepth, "maximum tree depth")
	f.IntVarP(&opts.newVertices, "new-vertices", "n", pipeline.DefaultNewVerticesNum, "child attempts per vertex")
	f.IntVarP(&opts.workers, "workers", "w", pipeline.DefaultWorkers, "tree-phase worker count")
	f.IntVar(&opts.maxVertices, "max-vertices", 0, "stop growing the tree at this many vertices (0 for no limit)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	f.Float64Var(&opts.green, "green", probs.Green, "self-loop probability")
	f.Float64Var(&opts.blue, "blue", probs.Blue, "same-depth edge probability")
	f.Float64Var(&opts.yellow, "yellow", probs.Yellow, "base probability of one-level-down edges")
	f.Float64Var(&opts.red, "red", probs.Red, "two-level-down edge probability")
	f.StringVarP(&opts.output, "output", "o", "", `output file (single format) or base path (multiple); "-" for stdout`)
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), dot, svg (comma-separated)")
	f.BoolVar(&opts.detailed, "detailed", false, "label vertices with id and depth")
	f.BoolVar(&opts.tui, "tui", false, "show live generation progress")
	f.BoolVar(&opts.refresh, "refresh", false, "regenerate even if this seeded run is cached")

	return cmd
}

// generateOptions merges the configuration with the flags the user set.
func (c *CLI) generateOptions(cmd *cobra.Command, opts *generateOpts) (pipeline.Options, error) {
	po := c.Config.PipelineOptions()
	changed := cmd.Flags().Changed

	if changed("max-depth") {
		po.MaxDepth = opts.maxDepth
	}
	if changed("new-vertices") {
		po.NewVerticesNum = pipeline.Ints(opts.newVertices)
	}
	if changed("workers") {
		po.Workers = opts.workers
	}
	if changed("max-vertices") {
		po.MaxVertices = opts.maxVertices
	}
	if changed("seed") {
		po.Seed = opts.seed
	}

	if changed("green") || changed("blue") || changed("yellow") || changed("red") {
		probs := generator.DefaultProbabilities()
		if po.Probabilities != nil {
			probs = *po.Probabilities
		}
		set := func(name string, dst *float64, v float64) {
			if changed(name) {
				*dst = v
			}
		}
		set("green", &probs.Green, opts.green)
		set("blue", &probs.Blue, opts.blue)
		set("yellow", &probs.Yellow, opts.yellow)
		set("red", &probs.Red, opts.red)
		po.Probabilities = &probs
	}

	if opts.formats != "" {
		po.Formats = strings.Split(opts.formats, ",")
	}
	po.Detailed = opts.detailed
	po.Refresh = opts.refresh
	po.Logger = c.Logger

	if err := po.ValidateAndSetDefaults(); err != nil {
		return po, err
	}
	return po, nil
}

// runGenerate executes the pipeline and writes the requested artifacts.
func (c *CLI) runGenerate(ctx context.Context, po pipeline.Options, opts *generateOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close(context.Background())

	execute := func(ctx context.Context) (*pipeline.Result, error) {
		return runner.Execute(ctx, po)
	}

	var result *pipeline.Result
	if opts.tui {
		result, err = runWithTUI(ctx, execute)
	} else {
		spinner := newSpinnerWithContext(ctx, "Generating graph...")
		spinner.Start()
		result, err = execute(ctx)
		if err != nil {
			spinner.StopWithError("Generation failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	if opts.output == stdoutPath {
		c.Logger.Info("generated run", "run", result.RunID, "cached", result.CacheHit)
		return writeArtifacts(result.Artifacts, po.Formats, opts.output, defaultOutputBase)
	}

	printRunSummary(result.RunID, result.Params, result.Stats, result.Warning, result.CacheHit)
	printNewline()
	if err := writeArtifacts(result.Artifacts, po.Formats, opts.output, defaultOutputBase); err != nil {
		return err
	}
	printNewline()
	printNextStep("Show this run again", fmt.Sprintf("%s show %s", appName, result.RunID))
	return nil
}
