// Package graph provides a small directed graph used by the layout engines:
// deterministic iteration order for stable output, adjacency indices for
// degree queries, cycle tolerance (diagram sources routinely contain
// cycles), and longest-path layering for the fallback grid layout.
package graph

import "slices"

// Node is a vertex with the size computed for it by the layout engine.
type Node struct {
	ID     string
	Width  float64
	Height float64
	Stub   bool // synthesized for a dangling edge endpoint
}

// Edge is a directed connection between two node IDs.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph with insertion-ordered node iteration.
// It permits cycles, duplicate edges and self-loops; layered algorithms
// that need acyclicity call [BreakCycles] on it first. Graph is not safe
// for concurrent use.
type Graph struct {
	order    []string
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode inserts a node, ignoring the call if the ID is empty or already
// present. The first declaration of an ID wins.
func (g *Graph) AddNode(n Node) {
	if n.ID == "" {
		return
	}
	if _, exists := g.nodes[n.ID]; exists {
		return
	}
	node := n
	g.nodes[n.ID] = &node
	g.order = append(g.order, n.ID)
}

// AddEdge inserts a directed edge. Unknown endpoints are added as stub
// nodes so an edge can never dangle.
func (g *Graph) AddEdge(e Edge) {
	if e.From == "" || e.To == "" {
		return
	}
	for _, id := range []string{e.From, e.To} {
		if _, ok := g.nodes[id]; !ok {
			g.AddNode(Node{ID: id, Stub: true})
		}
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
}

// RemoveEdge removes the first edge from→to if present. Parallel
// duplicates are distinct edges and keep their remaining copies;
// [BreakCycles] records one back edge per copy, so repeated calls still
// drain them all.
func (g *Graph) RemoveEdge(from, to string) {
	if i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to }); i >= 0 {
		g.edges = slices.Delete(g.edges, i, i+1)
	}
	if i := slices.Index(g.outgoing[from], to); i >= 0 {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i := slices.Index(g.incoming[to], from); i >= 0 {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Has reports whether a node with the ID exists.
func (g *Graph) Has(id string) bool { _, ok := g.nodes[id]; return ok }

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []string { return slices.Clone(g.order) }

// Nodes returns nodes in insertion order. The pointers refer to the actual
// nodes, so size adjustments are visible to the graph.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns IDs this node has edges to. Read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns IDs with edges to this node. Read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges, 0 for unknown IDs.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges, 0 for unknown IDs.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }
