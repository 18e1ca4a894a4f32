package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diaglot/diaglot/pkg/errors"
	"github.com/diaglot/diaglot/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	dialect string
	formats string // comma-separated output formats
	output  string // explicit output path for single-format renders
	refresh bool
	noCache bool
}

// renderCommand creates the render command.
//
// It runs the complete parse → layout → render pipeline and writes
// one artifact file per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a diagram to SVG, JSON, or DOT",
		Long: `Render a diagram description to output artifacts.

Output files are named after the input unless --output is given.
Multiple formats can be rendered in one run.

Examples:
  diaglot render arch.diag                     # arch.svg
  diaglot render arch.diag -f svg,json         # arch.svg + arch.json
  diaglot render arch.diag -o out/diagram.svg  # Explicit path
  diaglot render - -o - < arch.diag            # stdin to stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dialect, "dialect", "d", "", "force dialect (native, plantuml, mermaid)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output formats (comma-separated: svg, json, dot)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or - for stdout (single format only)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	formats := parseFormats(opts.formats)
	if opts.output != "" && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"--output requires a single format, got %d", len(formats))
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	spinner := newSpinner(cmd.Context(), "Rendering diagram")
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Source:   source,
		Dialect:  opts.dialect,
		Formats:  formats,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
		Measurer: c.measurer(),
	})
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s diagram", result.Document.Archetype.String()))

	printDiagnostics(result.Diagnostics)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	for _, format := range formats {
		data := result.Artifacts[format]
		path := opts.output
		if path == "" {
			path = outputPath(input, format)
		}
		if path == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
