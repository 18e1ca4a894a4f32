package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
)

// ToDOT converts a document to Graphviz DOT format, preserving groups
// as clusters. This export is for external Graphviz tooling; the
// in-process rank engine builds its own, geometry-only DOT.
func ToDOT(doc *ast.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded\"];\n")
	buf.WriteString("\n")

	n := 0
	writeDOTBlocks(&buf, doc.Roots, "  ", &n)

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		attrs := dotEdgeAttrs(e)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOTBlocks(buf *bytes.Buffer, blocks []ast.Block, indent string, n *int) {
	for _, b := range blocks {
		switch blk := b.(type) {
		case *ast.Entity:
			fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, blk.ID, blk.Label())
		case *ast.Group:
			fmt.Fprintf(buf, "%ssubgraph \"cluster_%d\" {\n", indent, *n)
			*n++
			fmt.Fprintf(buf, "%s  label=%q;\n", indent, blk.Name)
			writeDOTBlocks(buf, blk.Children, indent+"  ", n)
			fmt.Fprintf(buf, "%s}\n", indent)
		}
	}
}

func dotEdgeAttrs(e ast.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Kind {
	case ast.EdgeUndirected:
		attrs = append(attrs, "dir=none")
	case ast.EdgeBidirectional:
		attrs = append(attrs, "dir=both")
	}
	return attrs
}
