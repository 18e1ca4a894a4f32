package graph

import (
	"reflect"
	"testing"
)

func TestAddNodeFirstDeclarationWins(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Width: 100})
	g.AddNode(Node{ID: "a", Width: 999})
	g.AddNode(Node{ID: ""})

	if g.NodeCount() != 1 {
		t.Fatalf("node count = %d, want 1", g.NodeCount())
	}
	if g.Node("a").Width != 100 {
		t.Errorf("width = %v, first declaration should win", g.Node("a").Width)
	}
}

func TestAddEdgeSynthesizesStubs(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Width: 100, Height: 40})
	g.AddEdge(Edge{From: "a", To: "ghost"})

	if !g.Has("ghost") {
		t.Fatal("unknown endpoint should be added as a node")
	}
	if !g.Node("ghost").Stub {
		t.Error("synthesized endpoint should be marked as stub")
	}
	if g.Node("a").Stub {
		t.Error("declared node must not be marked as stub")
	}
}

func TestInsertionOrderIsStable(t *testing.T) {
	g := New()
	for _, id := range []string{"z", "m", "a", "q"} {
		g.AddNode(Node{ID: id})
	}
	want := []string{"z", "m", "a", "q"}
	if got := g.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestDegrees(t *testing.T) {
	g := New()
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "c"})
	g.AddEdge(Edge{From: "b", To: "c"})

	if got := g.OutDegree("a"); got != 2 {
		t.Errorf("OutDegree(a) = %d, want 2", got)
	}
	if got := g.InDegree("c"); got != 2 {
		t.Errorf("InDegree(c) = %d, want 2", got)
	}
	if got := g.InDegree("missing"); got != 0 {
		t.Errorf("InDegree(missing) = %d, want 0", got)
	}
}

func TestBreakCyclesSimpleLoop(t *testing.T) {
	g := New()
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "b", To: "c"})
	g.AddEdge(Edge{From: "c", To: "a"})

	removed := BreakCycles(g)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("edge count after = %d, want 2", g.EdgeCount())
	}
}

func TestRemoveEdgeKeepsParallelDuplicates(t *testing.T) {
	g := New()
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "c"})

	g.RemoveEdge("a", "b")

	if got := g.EdgeCount(); got != 2 {
		t.Fatalf("edge count = %d, want 2 after removing one copy", got)
	}
	if got := g.OutDegree("a"); got != 2 {
		t.Errorf("out degree = %d, want 2", got)
	}
	if got := g.InDegree("b"); got != 1 {
		t.Errorf("in degree of b = %d, want 1 (one copy remains)", got)
	}
}

func TestBreakCyclesParallelBackEdges(t *testing.T) {
	g := New()
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "b", To: "a"})
	g.AddEdge(Edge{From: "b", To: "a"})

	// Each duplicate back edge is recorded and removed separately.
	if removed := BreakCycles(g); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if got := g.InDegree("a"); got != 0 {
		t.Errorf("in degree of a = %d, want 0 after breaking", got)
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("edge count = %d, want 1", got)
	}
}

func TestBreakCyclesAcyclicUntouched(t *testing.T) {
	g := New()
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "a", To: "c"})
	g.AddEdge(Edge{From: "b", To: "d"})
	g.AddEdge(Edge{From: "c", To: "d"})

	if removed := BreakCycles(g); removed != 0 {
		t.Errorf("removed = %d, want 0 on a DAG", removed)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("edge count = %d, want 4", g.EdgeCount())
	}
}

func TestBreakCyclesSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge(Edge{From: "a", To: "a"})
	if removed := BreakCycles(g); removed != 1 {
		t.Errorf("removed = %d, want 1 for self loop", removed)
	}
}

func TestAssignLayersLongestPath(t *testing.T) {
	// a -> b -> d, a -> c -> d, a -> d: d sits one past its deepest parent.
	g := New()
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "b", To: "d"})
	g.AddEdge(Edge{From: "a", To: "c"})
	g.AddEdge(Edge{From: "c", To: "d"})
	g.AddEdge(Edge{From: "a", To: "d"})

	layers := AssignLayers(g)
	want := map[string]int{"a": 0, "b": 1, "c": 1, "d": 2}
	for id, layer := range want {
		if layers[id] != layer {
			t.Errorf("layer[%s] = %d, want %d", id, layers[id], layer)
		}
	}
}

func TestAssignLayersAfterCycleBreak(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "root"})
	g.AddEdge(Edge{From: "root", To: "x"})
	g.AddEdge(Edge{From: "x", To: "y"})
	g.AddEdge(Edge{From: "y", To: "x"})

	BreakCycles(g)
	layers := AssignLayers(g)

	if layers["root"] != 0 {
		t.Errorf("root layer = %d, want 0", layers["root"])
	}
	if layers["x"] == layers["y"] {
		t.Errorf("x and y share layer %d after cycle break", layers["x"])
	}
}

func TestIsolatedNodeLayersZero(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "island"})
	g.AddEdge(Edge{From: "a", To: "b"})

	layers := AssignLayers(g)
	if layers["island"] != 0 {
		t.Errorf("island layer = %d, want 0", layers["island"])
	}
}
