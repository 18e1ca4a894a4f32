// Package classify infers a diagram's archetype from its finished document.
//
// Classification is a pure function over the AST, run once after parsing.
// The decision procedure is a fixed, documented priority list; ties are
// broken by the listed order, never by input order. The heuristics behind
// each signal live in named functions so they are independently testable.
// The ordering is deliberate and encoded by downstream tests as correct
// behavior; it is not guaranteed against adversarial input.
package classify

import (
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
)

// styledNodeEdgeThreshold is the minimum edge count for the secondary
// sequence signal (styled nodes plus enough edges). The threshold is
// inherited behavior without a principled derivation; richly styled flow
// diagrams can trip it.
const styledNodeEdgeThreshold = 3

// Classify labels the document with one of the fixed archetypes.
//
// Priority, highest confidence first:
//  1. Explicit `type` metadata always wins.
//  2. Sequence signals: numbering metadata, participant-like naming, or
//     control-flow keywords in edge labels.
//  3. Styled nodes plus a minimum edge count (secondary sequence signal).
//  4. Any entity with fields selects entity-relationship.
//  5. Any edges at all select generic flow.
//  6. Otherwise unknown.
func Classify(doc *ast.Document) ast.Archetype {
	if t := doc.Meta("type"); t != "" {
		if a := ast.ArchetypeFromString(t); a != ast.ArchetypeUnknown {
			return a
		}
	}

	if hasSequenceSignals(doc) {
		return ast.ArchetypeSequence
	}
	if hasStyledNodes(doc) && len(doc.Edges) >= styledNodeEdgeThreshold {
		return ast.ArchetypeSequence
	}
	if hasFields(doc) {
		return ast.ArchetypeEntityRelation
	}
	if len(doc.Edges) > 0 {
		return ast.ArchetypeFlow
	}
	return ast.ArchetypeUnknown
}

// roleWords is the naming vocabulary that suggests sequence participants.
var roleWords = []string{
	"user", "client", "server", "service", "browser", "frontend", "backend",
	"api", "gateway", "database", "db", "queue", "worker", "cache", "auth",
}

// controlFlowWords are edge-label keywords typical of message sequences.
var controlFlowWords = []string{
	"request", "response", "reply", "return", "call", "send", "ack",
	"query", "fetch", "submit", "notify", "publish", "subscribe",
}

// hasSequenceSignals checks the primary sequence indicators: explicit
// numbering metadata, participant-like entity naming, or control-flow
// vocabulary in edge labels.
func hasSequenceSignals(doc *ast.Document) bool {
	if doc.HasFlag("autonumber") || doc.Meta("numbered") != "" {
		return true
	}
	if participantLikeNaming(doc) {
		return true
	}
	return controlFlowLabels(doc)
}

// participantLikeNaming reports whether a majority of entities carry names
// from the participant role vocabulary. A single role-named node is not
// enough; flows mention services too.
func participantLikeNaming(doc *ast.Document) bool {
	entities := doc.Entities()
	if len(entities) < 2 {
		return false
	}
	matches := 0
	for _, e := range entities {
		lower := strings.ToLower(e.ID)
		for _, w := range roleWords {
			if strings.Contains(lower, w) {
				matches++
				break
			}
		}
	}
	return matches*2 > len(entities)
}

// controlFlowLabels reports whether at least two edge labels use
// control-flow vocabulary.
func controlFlowLabels(doc *ast.Document) bool {
	matches := 0
	for _, e := range doc.Edges {
		if e.Label == "" {
			continue
		}
		lower := strings.ToLower(e.Label)
		for _, w := range controlFlowWords {
			if strings.Contains(lower, w) {
				matches++
				break
			}
		}
	}
	return matches >= 2
}

// styleAttrKeys are the attribute keys that mark a node as "styled".
var styleAttrKeys = []string{"icon", "color", "label", "shape"}

// hasStyledNodes reports whether any entity carries display styling
// attributes.
func hasStyledNodes(doc *ast.Document) bool {
	for _, e := range doc.Entities() {
		for _, k := range styleAttrKeys {
			if _, ok := e.Attrs[k]; ok {
				return true
			}
		}
	}
	return false
}

// hasFields reports whether any entity declares a typed field body.
func hasFields(doc *ast.Document) bool {
	for _, e := range doc.Entities() {
		if len(e.Fields) > 0 {
			return true
		}
	}
	return false
}
