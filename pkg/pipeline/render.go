package pipeline

import (
	"github.com/diaglot/diaglot/pkg/ast"
	diagio "github.com/diaglot/diaglot/pkg/io"
	"github.com/diaglot/diaglot/pkg/layout"
	"github.com/diaglot/diaglot/pkg/render"
)

// RenderFromLayout generates all requested artifacts from a computed
// layout. The DOT export draws on the logical document rather than the
// layout, so both are required.
func RenderFromLayout(res *layout.Result, doc *ast.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = render.SVG(res, render.SVGOptions{})
		case FormatJSON:
			data, err := diagio.MarshalLayout(res)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(doc))
		}
	}
	return artifacts, nil
}
