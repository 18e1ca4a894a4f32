package classify

import (
	"testing"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/parser"
)

func classifyText(t *testing.T, src string) ast.Archetype {
	t.Helper()
	doc, _ := parser.ParseText(src)
	return Classify(doc)
}

func TestClassifyExplicitTypeWins(t *testing.T) {
	// Field bodies would otherwise select entity-relation; the explicit
	// type metadata overrides every heuristic.
	src := `type sequence
users {
  id int
}`
	if got := classifyText(t, src); got != ast.ArchetypeSequence {
		t.Errorf("archetype = %v, want sequence", got)
	}
}

func TestClassifyUnknownTypeFallsThrough(t *testing.T) {
	src := "type spaghetti\nnode-a -> node-b"
	if got := classifyText(t, src); got != ast.ArchetypeFlow {
		t.Errorf("archetype = %v, want flow (unrecognized type ignored)", got)
	}
}

func TestClassifySequenceByAutonumber(t *testing.T) {
	src := "autonumber\nfoo -> bar"
	if got := classifyText(t, src); got != ast.ArchetypeSequence {
		t.Errorf("archetype = %v, want sequence", got)
	}
}

func TestClassifySequenceByParticipantNaming(t *testing.T) {
	src := `client [label: "Client"]
auth-service [label: "Auth"]
database [label: "DB"]
client -> auth-service
auth-service -> database`
	if got := classifyText(t, src); got != ast.ArchetypeSequence {
		t.Errorf("archetype = %v, want sequence", got)
	}
}

func TestClassifySequenceByControlFlowLabels(t *testing.T) {
	src := "alpha -> beta : request token\nbeta -> alpha : response"
	if got := classifyText(t, src); got != ast.ArchetypeSequence {
		t.Errorf("archetype = %v, want sequence", got)
	}
}

func TestClassifySingleControlFlowLabelNotEnough(t *testing.T) {
	src := "alpha -> beta : request token\nbeta -> gamma : done"
	if got := classifyText(t, src); got != ast.ArchetypeFlow {
		t.Errorf("archetype = %v, want flow (one label match is below threshold)", got)
	}
}

func TestClassifyStyledNodesNeedEnoughEdges(t *testing.T) {
	styled := `a [color: red]
b [color: blue]
a -> b
b -> a
a -> a`
	if got := classifyText(t, styled); got != ast.ArchetypeSequence {
		t.Errorf("styled with 3 edges = %v, want sequence", got)
	}

	few := "a [color: red]\nb [color: blue]\na -> b"
	if got := classifyText(t, few); got != ast.ArchetypeFlow {
		t.Errorf("styled with 1 edge = %v, want flow", got)
	}
}

func TestClassifyEntityRelation(t *testing.T) {
	src := `orders {
  id int pk
}
items {
  id int pk
}
orders -> items`
	if got := classifyText(t, src); got != ast.ArchetypeEntityRelation {
		t.Errorf("archetype = %v, want entity-relation", got)
	}
}

func TestClassifyFlow(t *testing.T) {
	src := "start -> middle\nmiddle -> finish"
	if got := classifyText(t, src); got != ast.ArchetypeFlow {
		t.Errorf("archetype = %v, want flow", got)
	}
}

func TestClassifyUnknown(t *testing.T) {
	if got := classifyText(t, ""); got != ast.ArchetypeUnknown {
		t.Errorf("empty document = %v, want unknown", got)
	}
	if got := classifyText(t, "lonely [shape: box]"); got != ast.ArchetypeUnknown {
		t.Errorf("single styled node without edges = %v, want unknown", got)
	}
}
