package parser

import (
	"github.com/diaglot/diaglot/pkg/token"
)

// Dialect identifies the surface syntax of a diagram source.
type Dialect int

const (
	// DialectNative is diaglot's own terse declaration syntax.
	DialectNative Dialect = iota
	// DialectPlantUML emulates the @startuml-delimited PlantUML subset.
	DialectPlantUML
	// DialectMermaid emulates the keyword-headed Mermaid subset
	// (graph/flowchart/sequenceDiagram/classDiagram/erDiagram).
	DialectMermaid
)

var dialectNames = map[Dialect]string{
	DialectNative:   "native",
	DialectPlantUML: "plantuml",
	DialectMermaid:  "mermaid",
}

// String returns the dialect name used on CLI flags and in serialized output.
func (d Dialect) String() string {
	if s, ok := dialectNames[d]; ok {
		return s
	}
	return "native"
}

// DialectFromString resolves a dialect name. The second result is false for
// unrecognized names.
func DialectFromString(s string) (Dialect, bool) {
	for d, name := range dialectNames {
		if name == s {
			return d, true
		}
	}
	return DialectNative, false
}

// mermaidHeaders are the structural keywords that open a Mermaid document.
var mermaidHeaders = map[string]bool{
	"graph":           true,
	"flowchart":       true,
	"sequenceDiagram": true,
	"classDiagram":    true,
	"erDiagram":       true,
	"stateDiagram":    true,
	"stateDiagram-v2": true,
}

// detectWindow is how many significant tokens Detect inspects before
// defaulting to the native dialect.
const detectWindow = 10

// Detect classifies the surface syntax of a token stream. It is a one-shot
// decision made before parsing begins and is not revisited.
//
// The priority order is fixed: an at-sign followed by a "start..." marker
// selects PlantUML; a Mermaid structural keyword selects Mermaid; absence of
// both defaults to the native dialect.
func Detect(toks []token.Token) Dialect {
	seen := 0
	for i := 0; i < len(toks) && seen < detectWindow; i++ {
		t := toks[i]
		if !t.IsSignificant() {
			continue
		}
		seen++

		if t.Kind == token.KindAt && i+1 < len(toks) {
			next := toks[i+1]
			if next.Kind == token.KindIdent && len(next.Text) >= 5 && next.Text[:5] == "start" {
				return DialectPlantUML
			}
		}
		if t.Kind == token.KindIdent && mermaidHeaders[t.Text] {
			return DialectMermaid
		}
	}
	return DialectNative
}
