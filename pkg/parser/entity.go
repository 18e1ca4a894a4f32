package parser

import (
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/token"
)

// parseBraced handles "name {", which is ambiguous between an entity with a
// fields body and a group with member declarations. The lookahead heuristic:
// skip newlines after the brace, then inspect the first body line. Two
// identifier-ish tokens on one line look like a field row, so the block is
// an entity; a declaration shape (identifier followed by "{", "[", a newline
// or a connector) means the body is a nested block list, so it is a group.
func (p *parser) parseBraced() ast.Block {
	name := p.advance().Text
	p.advance() // consume "{"

	if p.looksLikeFieldsBody() {
		return &ast.Entity{ID: name, Attrs: map[string]string{}, Fields: p.parseFieldsBody()}
	}
	return &ast.Group{Name: name, Children: p.parseBlocks(inBraceGroup)}
}

// looksLikeFieldsBody implements the entity-vs-group lookahead without
// consuming anything.
func (p *parser) looksLikeFieldsBody() bool {
	i := p.pos
	for i < len(p.toks) && p.toks[i].Kind == token.KindNewline {
		i++
	}
	if i >= len(p.toks) {
		return false
	}

	first := p.toks[i]
	if first.Kind != token.KindIdent && first.Kind != token.KindString {
		return false
	}
	if i+1 >= len(p.toks) {
		return false
	}

	// The second token must sit on the same line as the first: an
	// identifier-only line is a nested lone-entity declaration, which makes
	// the body a group.
	switch second := p.toks[i+1]; second.Kind {
	case token.KindIdent, token.KindString, token.KindNumber:
		return true
	default:
		return false
	}
}

// parseFieldsBody reads field rows until the closing brace. Each row is one
// identifier as the field name, optionally one more identifier as the type,
// and the rest of the row as whitespace-split constraint tokens. A leading
// "+", "-" or "#" marks class-style visibility; a row whose raw text
// contains both "(" and ")" is a method rather than a data field.
func (p *parser) parseFieldsBody() []ast.Field {
	var fields []ast.Field

	for {
		p.skipNewlines()
		t := p.cur()
		if t.Kind == token.KindEOF {
			p.diag(t, "missing closing brace in fields body")
			return fields
		}
		if t.Kind == token.KindRBrace {
			p.advance()
			return fields
		}

		if f, ok := p.parseFieldRow(); ok {
			fields = append(fields, f)
		}
	}
}

// parseFieldRow consumes one field row, stopping at the row's newline or the
// body's closing brace (which is left for the caller).
func (p *parser) parseFieldRow() (ast.Field, bool) {
	var f ast.Field

	switch t := p.cur(); {
	case t.Kind == token.KindOther && t.Text == "+":
		f.Visibility = ast.VisibilityPublic
		p.advance()
	case t.Kind == token.KindConnector && t.Text == "-":
		f.Visibility = ast.VisibilityPrivate
		p.advance()
	case t.Kind == token.KindOther && t.Text == "#":
		f.Visibility = ast.VisibilityProtected
		p.advance()
	case t.Kind == token.KindOther && t.Text == "~":
		f.Visibility = ast.VisibilityPackage
		p.advance()
	}

	row := p.fieldRowTokens()
	if len(row) == 0 {
		// Stray punctuation on its own row.
		p.advanceFieldRow(0)
		return f, false
	}

	raw := make([]string, len(row))
	for i, t := range row {
		raw[i] = t.Text
	}
	rawText := strings.Join(raw, "")

	f.Name = row[0].Text
	rest := row[1:]
	if len(rest) > 0 && rest[0].Kind == token.KindIdent {
		f.Type = rest[0].Text
		rest = rest[1:]
	}
	if len(rest) > 0 {
		var parts []string
		for _, t := range rest {
			parts = append(parts, t.Text)
		}
		f.Constraints = strings.Fields(strings.Join(parts, " "))
	}
	if strings.Contains(rawText, "(") && strings.Contains(rawText, ")") {
		f.Member = ast.MemberMethod
	}

	p.advanceFieldRow(len(row))
	return f, true
}

// fieldRowTokens returns the tokens of the current field row, up to but not
// including its newline or the body's closing brace.
func (p *parser) fieldRowTokens() []token.Token {
	var out []token.Token
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.Kind == token.KindNewline || t.Kind == token.KindRBrace || t.Kind == token.KindEOF {
			break
		}
		out = append(out, t)
	}
	return out
}

// advanceFieldRow consumes n row tokens plus the trailing newline, leaving a
// closing brace in place.
func (p *parser) advanceFieldRow(n int) {
	p.pos += n
	if p.cur().Kind == token.KindNewline {
		p.advance()
	}
}

// parseBracketEntity parses "name [ ... ]". The native dialect reads true
// key:value pairs, splitting on top-level commas and on the colon within
// each pair, joining multi-token values with spaces. Foreign dialects carry
// display text in brackets, so the whole content becomes a single "label"
// attribute.
func (p *parser) parseBracketEntity() ast.Block {
	name := p.advance().Text
	open := p.advance() // consume "["

	var content []token.Token
	depth := 1
	for {
		t := p.cur()
		if t.Kind == token.KindEOF {
			p.diag(open, "missing closing bracket")
			break
		}
		if t.Kind == token.KindLBracket {
			depth++
		}
		if t.Kind == token.KindRBracket {
			depth--
			if depth == 0 {
				p.advance()
				break
			}
		}
		content = append(content, p.advance())
	}

	e := &ast.Entity{ID: name, Attrs: map[string]string{}}
	if p.dialect == DialectNative {
		for k, v := range parseAttrPairs(content) {
			e.Attrs[k] = v
		}
	} else if label := joinTokenText(content); label != "" {
		e.Attrs["label"] = label
	}
	return e
}

// parseAttrPairs splits bracket content on top-level commas, then each pair
// on its first colon. A pair without a colon becomes a flag-style attribute
// with an empty value.
func parseAttrPairs(toks []token.Token) map[string]string {
	attrs := make(map[string]string)

	var pair []token.Token
	flush := func() {
		if len(pair) == 0 {
			return
		}
		key := pair[0].Text
		rest := pair[1:]
		if len(rest) > 0 && rest[0].Kind == token.KindColon {
			rest = rest[1:]
		}
		attrs[key] = joinTokenText(rest)
		pair = nil
	}

	for _, t := range toks {
		if t.Kind == token.KindComma {
			flush()
			continue
		}
		if t.Kind == token.KindNewline {
			continue
		}
		pair = append(pair, t)
	}
	flush()
	return attrs
}

// joinTokenText space-joins token texts, the way multi-token attribute
// values are flattened.
func joinTokenText(toks []token.Token) string {
	var parts []string
	for _, t := range toks {
		if t.Kind == token.KindNewline {
			continue
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}
