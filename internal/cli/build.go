package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/pipeline"
)

// buildCommand creates the build command for producing the graph as JSON.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}

	cmd := &cobra.Command{
		Use:   "build [modules.json]",
		Short: "Build the requirement graph and write it as JSON",
		Long: `Build the requirement graph and write it as JSON.

The catalog is validated and flattened into a graph of programme-qualified
module nodes and typed relation edges. The JSON output can be consumed by
other tools or rendered later with 'render'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := c.pipelineOptions(args[0])
			opts.Input = defaults.Input
			opts.SuggestedInCycles = opts.SuggestedInCycles || defaults.SuggestedInCycles
			opts.GlobalNames = opts.GlobalNames || defaults.GlobalNames
			opts.Logger = c.Logger
			return c.runBuild(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.Programme, "programme", "p", "", "build a single programme")
	cmd.Flags().BoolVar(&opts.SuggestedInCycles, "suggested-in-cycles", false, "treat suggested relations as blocking in the cycle check")
	cmd.Flags().BoolVar(&opts.GlobalNames, "global-names", false, "require module names to be unique across programmes")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runBuild executes the pipeline and writes the graph JSON.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(result.Artifacts[pipeline.FormatJSON]); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Built %s", filepath.Base(opts.Input))
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.BuildHit)
		printFile(output)
		printNextStep("Render it", fmt.Sprintf("%s render %s", appName, opts.Input))
	}
	return nil
}
