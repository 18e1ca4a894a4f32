package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diaglot/diaglot/pkg/ast"
	pkgio "github.com/diaglot/diaglot/pkg/io"
	"github.com/diaglot/diaglot/pkg/pipeline"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	dialect   string
	direction string
	output    string
	refresh   bool
	noCache   bool
}

// layoutCommand creates the layout command.
//
// It runs parse and layout but stops before rendering, writing the
// positioned geometry as JSON. Useful for external renderers and for
// debugging placement.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{}

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Compute a layout and print it as JSON",
		Long: `Parse a diagram and compute node, group and edge positions.

The layout engine is picked from the classified diagram kind: sequence
diagrams get column layout, everything else goes through the rank
engine with a grid fallback.

Examples:
  diaglot layout arch.diag -o arch.layout.json
  diaglot layout - < arch.diag`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dialect, "dialect", "d", "", "force dialect (native, plantuml, mermaid)")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "override rank direction (down, right)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, opts layoutOpts) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Source:   source,
		Dialect:  opts.dialect,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
		Measurer: c.measurer(),
	}

	doc, diags, _, err := runner.ParseWithCacheInfo(cmd.Context(), pipeOpts)
	if err != nil {
		return err
	}
	printDiagnostics(diags)

	// A flag override replaces the document's own direction metadata,
	// which also keys the layout cache.
	if opts.direction != "" {
		if doc.Metadata == nil {
			doc.Metadata = map[string]ast.Value{}
		}
		doc.Metadata["direction"] = ast.StringValue(opts.direction)
	}

	p := newProgress(c.Logger)
	res, cached, err := runner.GenerateLayoutWithCacheInfo(cmd.Context(), doc, pipeOpts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Laid out %d nodes", len(res.Nodes)))

	printSuccess("Computed %s layout (%.0f×%.0f)", res.Archetype.String(), res.Width, res.Height)
	printStats(len(res.Nodes), len(res.Edges), cached)

	if opts.output == "" {
		return pkgio.WriteLayout(res, os.Stdout)
	}
	if err := pkgio.ExportLayout(res, opts.output); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}
