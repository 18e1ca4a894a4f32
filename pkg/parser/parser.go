// Package parser turns a token stream into an [ast.Document] under the rules
// of a detected dialect.
//
// The parser never fails. Malformed input degrades: structural anomalies
// (a missing closing brace, a dangling connector) are recorded as
// diagnostics and parsing consumes to the next recognizable boundary,
// keeping every child gathered so far. Callers always receive a complete
// document; anomalies are observable through the returned diagnostics.
package parser

import (
	"fmt"
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/token"
)

// Diagnostic is a non-fatal parse anomaly with its source position.
type Diagnostic struct {
	Line int
	Col  int
	Msg  string
}

// String formats the diagnostic as "line:col: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Col, d.Msg)
}

// ParseText tokenizes text, detects its dialect and parses it.
func ParseText(text string) (*ast.Document, []Diagnostic) {
	toks := token.Tokenize(text)
	return Parse(toks, Detect(toks))
}

// Parse consumes tokens under the dialect's rules and returns the document
// plus any non-fatal diagnostics. The token slice is not modified. Parsing
// the same tokens twice yields structurally equal documents.
func Parse(toks []token.Token, dialect Dialect) (*ast.Document, []Diagnostic) {
	p := &parser{
		toks:    toks,
		dialect: dialect,
		doc: &ast.Document{
			Metadata: make(map[string]ast.Value),
		},
	}
	p.doc.Roots = p.parseBlocks(atTopLevel)
	return p.doc, p.diags
}

// blockContext tells parseBlocks what terminates the current block list.
type blockContext int

const (
	atTopLevel    blockContext = iota // runs to EOF
	inBraceGroup                      // terminated by "}"
	inKeywordBody                     // terminated by "end" (mermaid subgraph)
)

// parser is a cursor over a fixed token slice. The position index is the
// only mutable state; one token of pushback is available through backup,
// used to re-interpret a token already consumed as a lone identifier when it
// turns out to begin an edge chain.
type parser struct {
	toks    []token.Token
	pos     int
	dialect Dialect
	doc     *ast.Document
	diags   []Diagnostic
}

func (p *parser) cur() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token.Token{Kind: token.KindEOF}
}

func (p *parser) peek(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return token.Token{Kind: token.KindEOF}
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) backup() {
	if p.pos > 0 {
		p.pos--
	}
}

func (p *parser) atEOF() bool { return p.cur().Kind == token.KindEOF }

func (p *parser) diag(t token.Token, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) skipNewlines() {
	for p.cur().Kind == token.KindNewline {
		p.advance()
	}
}

// skipLine consumes the remainder of the current line including its newline.
func (p *parser) skipLine() {
	for {
		t := p.advance()
		if t.Kind == token.KindNewline || t.Kind == token.KindEOF {
			return
		}
	}
}

// lineTokens returns the tokens from the cursor to the end of the current
// line without consuming them.
func (p *parser) lineTokens() []token.Token {
	var out []token.Token
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.Kind == token.KindNewline || t.Kind == token.KindEOF {
			break
		}
		out = append(out, t)
	}
	return out
}

// lineHasConnector reports whether any connector token appears before the
// current line's terminating newline. Edge-likeness is checked before the
// metadata interpretation commits, so "a -> b" is never read as metadata.
func (p *parser) lineHasConnector() bool {
	for _, t := range p.lineTokens() {
		if t.IsConnector() {
			return true
		}
	}
	return false
}

// groupKeywords returns the dialect's group-opening keyword set.
func (p *parser) groupKeywords() map[string]bool {
	switch p.dialect {
	case DialectPlantUML:
		return map[string]bool{
			"package": true, "node": true, "folder": true,
			"frame": true, "rectangle": true, "cloud": true,
		}
	case DialectMermaid:
		return map[string]bool{"subgraph": true}
	default:
		return map[string]bool{"group": true, "container": true}
	}
}

// participantKeywords declare sequence participants in the PlantUML dialect.
var participantKeywords = map[string]bool{
	"participant": true,
	"actor":       true,
	"database":    true,
	"boundary":    true,
	"control":     true,
	"collections": true,
}

// parseBlocks is the top-level dispatch loop, shared between the document
// root and group bodies. Dispatch priority follows the language definition:
// dialect headers, group keyword forms, "name {" (with the entity-vs-group
// lookahead), "name [", edge chains, native metadata lines, bare
// identifiers.
func (p *parser) parseBlocks(ctx blockContext) []ast.Block {
	var blocks []ast.Block

	for {
		p.skipNewlines()
		t := p.cur()

		switch {
		case t.Kind == token.KindEOF:
			if ctx != atTopLevel {
				p.diag(t, "missing closing brace")
			}
			return blocks

		case ctx == inBraceGroup && t.Kind == token.KindRBrace:
			p.advance()
			return blocks

		case ctx == inKeywordBody && t.Kind == token.KindIdent && t.Text == "end":
			p.skipLine()
			return blocks

		case t.Kind == token.KindAt:
			// @startuml / @enduml header lines carry no structure.
			p.skipLine()

		case t.Kind == token.KindIdent && mermaidHeaders[t.Text] && p.dialect == DialectMermaid:
			p.parseMermaidHeader()

		case t.Kind == token.KindIdent && p.groupKeywords()[t.Text]:
			if b := p.parseKeywordGroup(); b != nil {
				blocks = append(blocks, b)
			}

		case p.dialect == DialectPlantUML && t.Kind == token.KindIdent && participantKeywords[t.Text]:
			if e := p.parseParticipant(); e != nil {
				blocks = append(blocks, e)
			}

		case p.dialect != DialectNative && t.Kind == token.KindIdent && t.Text == "class" &&
			p.peek(1).Kind == token.KindIdent && p.peek(2).Kind == token.KindLBrace:
			// Class-diagram form "class Name { ... }": the keyword removes
			// the entity-vs-group ambiguity, so the body is always fields.
			p.advance()
			name := p.advance().Text
			p.advance()
			blocks = append(blocks, &ast.Entity{ID: name, Attrs: map[string]string{}, Fields: p.parseFieldsBody()})

		case (t.Kind == token.KindIdent || t.Kind == token.KindString || t.Kind == token.KindNumber) &&
			p.peek(1).Kind == token.KindLBrace && !p.lineHasConnector():
			blocks = append(blocks, p.parseBraced())

		case (t.Kind == token.KindIdent || t.Kind == token.KindString || t.Kind == token.KindNumber) &&
			p.peek(1).Kind == token.KindLBracket && !p.lineHasConnector():
			blocks = append(blocks, p.parseBracketEntity())

		case p.lineHasConnector():
			p.parseEdgeLine()

		case t.Kind == token.KindIdent && p.dialect == DialectNative:
			p.parseMetadataLine()

		case t.Kind == token.KindIdent || t.Kind == token.KindString || t.Kind == token.KindNumber:
			// Foreign dialects: a bare identifier is a lone entity; the rest
			// of its line is skipped.
			name := p.advance().Text
			blocks = append(blocks, &ast.Entity{ID: name, Attrs: map[string]string{}})
			p.skipLine()

		default:
			// Unrecognized token at statement position: drop it and move on.
			p.advance()
		}
	}
}

// parseMermaidHeader consumes a header line such as "graph TD" or
// "flowchart LR", folding a recognized direction into document metadata.
func (p *parser) parseMermaidHeader() {
	p.advance()
	if t := p.cur(); t.Kind == token.KindIdent {
		switch t.Text {
		case "LR", "RL":
			p.doc.Metadata["direction"] = ast.StringValue("right")
		case "TB", "TD", "BT":
			p.doc.Metadata["direction"] = ast.StringValue("down")
		}
	}
	p.skipLine()
}

// parseKeywordGroup parses "keyword name { ... }" (brace body) or the
// mermaid "subgraph name ... end" form.
func (p *parser) parseKeywordGroup() ast.Block {
	kw := p.advance()

	name := ""
	if t := p.cur(); t.Kind == token.KindIdent || t.Kind == token.KindString {
		name = p.advance().Text
	} else {
		p.diag(kw, "group keyword %q without a name", kw.Text)
	}

	// The opening brace may sit on the keyword line or the next one. The
	// lookahead must not consume newlines: for the mermaid keyword-body
	// form the newline is the header's statement boundary, and skipping
	// past it would swallow the first member line.
	i := p.pos
	for i < len(p.toks) && p.toks[i].Kind == token.KindNewline {
		i++
	}
	if i < len(p.toks) && p.toks[i].Kind == token.KindLBrace {
		p.pos = i + 1
		return &ast.Group{Name: name, Children: p.parseBlocks(inBraceGroup)}
	}
	if p.dialect == DialectMermaid {
		p.skipLine()
		return &ast.Group{Name: name, Children: p.parseBlocks(inKeywordBody)}
	}

	p.diag(kw, "group %q without a body", name)
	if name == "" {
		return nil
	}
	return &ast.Group{Name: name}
}

// parseParticipant parses a PlantUML participant declaration, honoring the
// optional `as` alias: `participant "Display Name" as dn`.
func (p *parser) parseParticipant() *ast.Entity {
	p.advance()

	line := p.lineTokens()
	if len(line) == 0 {
		p.skipLine()
		return nil
	}

	id := line[0].Text
	attrs := map[string]string{}
	for i, t := range line {
		if t.Kind == token.KindIdent && t.Text == "as" && i+1 < len(line) {
			attrs["label"] = id
			id = line[i+1].Text
			break
		}
	}
	p.skipLine()
	return &ast.Entity{ID: id, Attrs: attrs}
}

// parseMetadataLine parses a native "key value..." line. The remainder of
// the line is space-joined into the value; an empty remainder yields the
// boolean flag value.
func (p *parser) parseMetadataLine() {
	key := p.advance().Text

	var parts []string
	for _, t := range p.lineTokens() {
		parts = append(parts, t.Text)
	}
	p.skipLine()

	if len(parts) == 0 {
		p.doc.Metadata[key] = ast.FlagValue()
		return
	}
	p.doc.Metadata[key] = ast.StringValue(strings.Join(parts, " "))
}
