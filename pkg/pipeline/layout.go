package pipeline

import (
	"context"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/layout"
)

// GenerateLayout positions a parsed document. The measurer and logger
// come from the options so CLI and server can share one code path with
// different font setups.
func GenerateLayout(ctx context.Context, doc *ast.Document, opts Options) (*layout.Result, error) {
	opts.SetLayoutDefaults()
	engine := layout.NewEngine(layout.Config{
		Measurer: opts.Measurer,
		Logger:   opts.Logger,
	})
	return engine.Layout(ctx, doc)
}
