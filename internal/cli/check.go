package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/course"
	"github.com/modgraph/modgraph/pkg/graph"
)

// checkCommand creates the check command for validating a catalog.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		programme   string
		strictSug   bool
		globalNames bool
	)

	cmd := &cobra.Command{
		Use:   "check [modules.json]",
		Short: "Validate a module catalog",
		Long: `Validate a module catalog without producing output.

The catalog is parsed and every relation is checked: references must name
known modules, corequisites must stay within a year, module names must be
unique within their programme, and prerequisite/corequisite relations must
not form a cycle. The command exits non-zero on the first violation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := graph.Options{
				Programme: programme,
				Strict: graph.Strictness{
					SuggestedInCycles: strictSug || c.Config.Strict.SuggestedInCycles,
					GlobalNames:       globalNames || c.Config.Strict.GlobalNames,
				},
			}
			return c.runCheck(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&programme, "programme", "p", "", "check a single programme")
	cmd.Flags().BoolVar(&strictSug, "suggested-in-cycles", false, "treat suggested relations as blocking in the cycle check")
	cmd.Flags().BoolVar(&globalNames, "global-names", false, "require module names to be unique across programmes")

	return cmd
}

// runCheck parses and validates the catalog, reporting what was found.
func (c *CLI) runCheck(input string, opts graph.Options) error {
	prog := newProgress(c.Logger)

	cat, err := course.Load(input)
	if err != nil {
		printError("Invalid catalog")
		printDetail("%v", err)
		return err
	}

	g, err := graph.Build(cat, opts)
	if err != nil {
		printError("Validation failed")
		printDetail("%s", describeValidationError(err))
		return err
	}

	prog.done(fmt.Sprintf("Validated %d modules across %d programmes", g.NodeCount(), len(cat.Programmes)))

	if g.NodeCount() == 0 {
		printWarning("Catalog is valid but contains no modules")
		return nil
	}

	printSuccess("Catalog is valid")
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, input))
	return nil
}

// describeValidationError expands the known validation errors with a hint
// about what to fix in the catalog.
func describeValidationError(err error) string {
	var (
		unknown   *graph.UnknownProgrammeError
		duplicate *graph.DuplicateModuleError
		dangling  *graph.DanglingReferenceError
		crossYear *graph.CrossYearCorequisiteError
		cycle     *graph.CycleError
	)
	switch {
	case errors.As(err, &unknown):
		return fmt.Sprintf("%v (check the programme name against the catalog keys)", err)
	case errors.As(err, &duplicate):
		return fmt.Sprintf("%v (each module name may appear once per programme)", err)
	case errors.As(err, &dangling):
		return fmt.Sprintf("%v (relation lists must name modules defined in the catalog)", err)
	case errors.As(err, &crossYear):
		return fmt.Sprintf("%v (corequisites must be in the same year)", err)
	case errors.As(err, &cycle):
		return fmt.Sprintf("%v (break the cycle by removing one of the relations)", err)
	default:
		return err.Error()
	}
}
