package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/diaglot/diaglot/pkg/io"
	"github.com/diaglot/diaglot/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	dialect string // force a dialect instead of auto-detection
	output  string // output file path (stdout if empty)
	refresh bool   // bypass the document cache
	noCache bool   // disable caching entirely
}

// parseCommand creates the parse command.
//
// It tokenizes the source, detects (or is told) the dialect, parses
// it into a document and classifies the diagram kind. The document is
// written as JSON for inspection or further processing.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a diagram description into a document",
		Long: `Parse a diagram description into its structural document.

The dialect (native, plantuml, mermaid) is detected from the source
unless forced with --dialect. Use "-" to read from stdin.

Examples:
  diaglot parse arch.diag                   # Auto-detect dialect
  diaglot parse --dialect mermaid flow.mmd  # Force Mermaid rules
  cat arch.diag | diaglot parse -           # Read from stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dialect, "dialect", "d", "", "force dialect (native, plantuml, mermaid)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input string, opts parseOpts) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	p := newProgress(c.Logger)
	doc, diags, cached, err := runner.ParseWithCacheInfo(cmd.Context(), pipeline.Options{
		Source:  source,
		Dialect: opts.dialect,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Parsed %d entities", len(doc.Entities())))

	printDiagnostics(diags)
	printSuccess("Parsed %s diagram", doc.Archetype.String())
	printStats(len(doc.Entities()), len(doc.Edges), cached)

	if opts.output == "" {
		return pkgio.WriteDocument(doc, os.Stdout)
	}
	if err := pkgio.ExportDocument(doc, opts.output); err != nil {
		return err
	}
	printFile(opts.output)
	printNextStep("Next", fmt.Sprintf("diaglot render %s", input))
	return nil
}
