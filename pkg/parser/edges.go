package parser

import (
	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/token"
)

// chainElem is one element of an edge chain: either a node group (one or
// more comma-separated ids) or a connector between groups.
type chainElem struct {
	ids       []string // node group; nil for connectors
	connector string   // connector text; "" for node groups
	fromCard  string   // cardinality captured left of the connector
	toCard    string   // cardinality captured right of the connector
}

// parseEdgeLine parses one line containing connectors into fully expanded
// edges. The chain is reduced to alternating node groups and connectors,
// then walked left to right: each connector emits the full cross-product of
// edges between its left and right groups, and the right group becomes the
// new left side. "A, B -> C, D : text" therefore yields four labeled edges
// and "X > Y -> Z" yields two.
func (p *parser) parseEdgeLine() {
	start := p.cur()
	line := p.lineTokens()
	p.skipLine()

	line = stripBracketBlocks(line)
	line, label := extractLabel(line, p.dialect)

	elems := p.chainElems(line, start)
	p.expandChain(elems, label, start)
}

// stripBracketBlocks removes bracketed attribute blocks anywhere in the
// line. They decorate nodes inline and are not part of the connectivity
// grammar in this pass.
func stripBracketBlocks(line []token.Token) []token.Token {
	var out []token.Token
	depth := 0
	for _, t := range line {
		switch t.Kind {
		case token.KindLBracket:
			depth++
		case token.KindRBracket:
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out = append(out, t)
			}
		}
	}
	return out
}

// extractLabel captures the line's edge label. In mermaid a
// pipe-delimited span ("|label|") wins; otherwise a colon captures
// everything after it. Pipes outside mermaid are not label syntax and
// fall through to ordinary token handling.
func extractLabel(line []token.Token, dialect Dialect) ([]token.Token, string) {
	if dialect == DialectMermaid {
		for i, t := range line {
			if t.Kind != token.KindPipe {
				continue
			}
			for j := i + 1; j < len(line); j++ {
				if line[j].Kind == token.KindPipe {
					label := joinTokenText(line[i+1 : j])
					rest := append(append([]token.Token{}, line[:i]...), line[j+1:]...)
					return rest, label
				}
			}
			// Unmatched pipe: treat the remainder of the line as the label.
			return line[:i], joinTokenText(line[i+1:])
		}
	}

	// Colon label.
	for i, t := range line {
		if t.Kind == token.KindColon {
			return line[:i], joinTokenText(line[i+1:])
		}
	}
	return line, ""
}

// chainElems reduces line tokens to alternating node groups and connectors.
// A quoted string adjacent to a connector is read as a cardinality rather
// than a node id: `users "1" -> "many" orders`.
func (p *parser) chainElems(line []token.Token, at token.Token) []chainElem {
	var elems []chainElem
	group := chainElem{}

	flushGroup := func() {
		if len(group.ids) > 0 {
			elems = append(elems, group)
		}
		group = chainElem{}
	}

	for i := 0; i < len(line); i++ {
		t := line[i]
		switch t.Kind {
		case token.KindIdent, token.KindNumber:
			group.ids = append(group.ids, t.Text)

		case token.KindString:
			next := kindAt(line, i+1)
			prevConnector := len(elems) > 0 && elems[len(elems)-1].connector != "" && len(group.ids) == 0
			switch {
			case next == token.KindConnector && len(group.ids) > 0:
				// Left-side cardinality for the upcoming connector.
				group.fromCard = t.Text
			case prevConnector && hasNodeAfter(line, i+1):
				elems[len(elems)-1].toCard = t.Text
			default:
				group.ids = append(group.ids, t.Text)
			}

		case token.KindComma:
			// Comma continues the current node group.

		case token.KindConnector:
			fromCard := group.fromCard
			flushGroup()
			elems = append(elems, chainElem{connector: t.Text, fromCard: fromCard})

		default:
			// Stray punctuation inside a chain is ignored.
		}
	}
	flushGroup()

	if len(elems) > 0 && elems[len(elems)-1].connector != "" {
		p.diag(at, "edge chain ends with connector %q", elems[len(elems)-1].connector)
	}
	return elems
}

// expandChain walks alternating groups and connectors, emitting the
// cross-product of edges for each connector.
func (p *parser) expandChain(elems []chainElem, label string, at token.Token) {
	var left []string
	var pending *chainElem

	for i := range elems {
		e := &elems[i]
		if e.connector != "" {
			if len(left) == 0 {
				p.diag(at, "connector %q without a left-hand node", e.connector)
			}
			pending = e
			continue
		}

		if pending == nil {
			left = e.ids
			continue
		}

		kind := connectorKind(pending.connector)
		card := cardinalityOf(pending)
		for _, from := range left {
			for _, to := range e.ids {
				p.doc.Edges = append(p.doc.Edges, ast.Edge{
					From:        from,
					To:          to,
					Kind:        kind,
					Label:       label,
					Cardinality: card,
				})
			}
		}
		left = e.ids
		pending = nil
	}
}

// connectorKind maps connector text to the edge kind: "<>" is
// bidirectional, a single bare dash is undirected, every arrow form is
// directed.
func connectorKind(text string) ast.EdgeKind {
	switch text {
	case "<>":
		return ast.EdgeBidirectional
	case "-":
		return ast.EdgeUndirected
	default:
		return ast.EdgeDirected
	}
}

func cardinalityOf(e *chainElem) *ast.Cardinality {
	if e.fromCard == "" && e.toCard == "" {
		return nil
	}
	return &ast.Cardinality{From: e.fromCard, To: e.toCard}
}

func kindAt(line []token.Token, i int) token.Kind {
	if i < len(line) {
		return line[i].Kind
	}
	return token.KindEOF
}

// hasNodeAfter reports whether any node-bearing token follows position i.
func hasNodeAfter(line []token.Token, i int) bool {
	for ; i < len(line); i++ {
		switch line[i].Kind {
		case token.KindIdent, token.KindNumber:
			return true
		}
	}
	return false
}
