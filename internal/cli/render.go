package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/pipeline"
)

// renderCommand creates the render command for generating visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [modules.json]",
		Short: "Render a module catalog as a requirement graph",
		Long: `Render a module catalog as a requirement graph.

The catalog is validated, flattened into a graph, and laid out with
Graphviz. Prerequisites are drawn red, corequisites purple, suggestions
dashed blue, and exclusions bold red; modules are filled by year and
modules of the same year share a rank.

Results are cached locally for faster subsequent runs.

Examples:
  modgraph render modules.json
  modgraph render modules.json -p "CS" -f svg,png -o cs-graph
  modgraph render modules.json --only "Algorithms" --reduce`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := c.pipelineOptions(args[0])
			opts.Input = defaults.Input
			opts.SuggestedInCycles = opts.SuggestedInCycles || defaults.SuggestedInCycles
			opts.GlobalNames = opts.GlobalNames || defaults.GlobalNames
			if opts.RankDir == "" {
				opts.RankDir = defaults.RankDir
			}
			if !cmd.Flags().Changed("reduce") {
				opts.Reduce = defaults.Reduce
			}
			opts.Formats = parseFormats(formatsStr)
			opts.Logger = c.Logger
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().StringVarP(&opts.Programme, "programme", "p", "", "render a single programme")
	cmd.Flags().StringSliceVar(&opts.Modules, "only", nil, "keep only these modules and everything they require")
	cmd.Flags().StringSliceVar(&opts.HideKinds, "hide", nil, "hide relation kinds: pre, co, sug, excl")
	cmd.Flags().BoolVar(&opts.HideRequired, "hide-required", false, "hide modules marked required")
	cmd.Flags().BoolVar(&opts.HideOrphans, "hide-orphans", false, "hide modules without remaining relations")
	cmd.Flags().BoolVar(&opts.Reduce, "reduce", false, "remove transitively implied prerequisites")
	cmd.Flags().StringVar(&opts.RankDir, "rankdir", "", "layout direction: RL (default), BT, LR, TB")
	cmd.Flags().BoolVar(&opts.SuggestedInCycles, "suggested-in-cycles", false, "treat suggested relations as blocking in the cycle check")
	cmd.Flags().BoolVar(&opts.GlobalNames, "global-names", false, "require module names to be unique across programmes")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	return cmd
}

// runRender executes the full pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(opts.Input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
		nodes:     result.Stats.NodeCount,
		edges:     result.Stats.EdgeCount,
	})
}
