// Package token defines the lexical tokens of the diagram description
// language and the tokenizer that produces them.
//
// Tokenization is total: every input produces a token stream terminated by a
// [KindEOF] token, and characters the scanner does not recognize become
// [KindOther] tokens instead of failing. The parser relies on this to make
// forward progress on arbitrarily malformed input.
package token

import "fmt"

// Kind classifies a lexical token.
type Kind int

const (
	// KindIdent is an identifier. Kebab-case, dotted and underscored runs
	// scan as a single identifier: "api-gateway", "schema.table", "foo_bar".
	KindIdent Kind = iota
	// KindString is a quoted string (single or double quotes) with
	// backslash escapes resolved and the outer quotes stripped.
	KindString
	// KindNumber is a numeric literal.
	KindNumber
	// KindLBrace and friends are structural punctuation.
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindColon
	KindComma
	// KindConnector is any edge connector form: ">", "->", "-->", "<>", "-".
	// The raw text distinguishes the variants.
	KindConnector
	// KindPipe is the label delimiter used by the mermaid dialect (|text|).
	KindPipe
	// KindAt marks a plantuml dialect header (@startuml).
	KindAt
	// KindNewline terminates a logical line. The parser treats lines as
	// statement boundaries, so newlines are materialized as tokens.
	KindNewline
	// KindEOF terminates every token stream.
	KindEOF
	// KindOther is any character the scanner does not recognize.
	KindOther
)

var kindNames = [...]string{
	KindIdent:     "IDENT",
	KindString:    "STRING",
	KindNumber:    "NUMBER",
	KindLBrace:    "{",
	KindRBrace:    "}",
	KindLBracket:  "[",
	KindRBracket:  "]",
	KindColon:     ":",
	KindComma:     ",",
	KindConnector: "CONNECTOR",
	KindPipe:      "|",
	KindAt:        "@",
	KindNewline:   "NEWLINE",
	KindEOF:       "EOF",
	KindOther:     "OTHER",
}

// String returns a readable name for the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical token. Tokens are immutable once produced.
type Token struct {
	Kind Kind
	Text string
	Line int // 1-indexed line number
	Col  int // 1-indexed column number
}

// Pos returns the token position as "line:col" for diagnostics.
func (t Token) Pos() string { return fmt.Sprintf("%d:%d", t.Line, t.Col) }

// IsConnector reports whether the token is any connector variant.
func (t Token) IsConnector() bool { return t.Kind == KindConnector }

// IsSignificant reports whether the token carries syntactic weight.
// Newlines and EOF are insignificant for dialect detection.
func (t Token) IsSignificant() bool {
	return t.Kind != KindNewline && t.Kind != KindEOF
}
