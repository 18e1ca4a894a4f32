package pipeline

import (
	"context"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/classify"
	"github.com/diaglot/diaglot/pkg/parser"
	"github.com/diaglot/diaglot/pkg/token"
)

// Parse compiles source text into a classified document. The parser is
// total: it always returns a document, with problems reported as
// diagnostics rather than errors. The only error paths here are
// validation failures before tokenization starts.
func Parse(ctx context.Context, opts Options) (*ast.Document, []parser.Diagnostic, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, err
	}

	toks := token.Tokenize(opts.Source)

	dialect, forced := opts.ForcedDialect()
	if !forced {
		dialect = parser.Detect(toks)
	}
	opts.Logger.Debug("detected dialect", "dialect", dialect.String(), "forced", forced)

	doc, diags := parser.Parse(toks, dialect)
	doc.Archetype = classify.Classify(doc)

	return doc, diags, nil
}
