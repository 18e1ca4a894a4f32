package rankdot

import (
	"fmt"
	"strings"
)

// pointsPerInch converts between our point coordinates and the inch
// based size attributes Graphviz expects on nodes.
const pointsPerInch = 72.0

// Node is a pre-sized box to place. Width and Height are in points.
type Node struct {
	ID     string
	Width  float64
	Height float64
}

// Edge is a connection to rank and route. Parallel edges between the
// same pair are allowed and come back in insertion order.
type Edge struct {
	From string
	To   string
}

// Cluster is a named box that must visually contain its member nodes
// and any nested clusters.
type Cluster struct {
	Name     string
	NodeIDs  []string
	Children []*Cluster
}

// Input is the complete placement request.
type Input struct {
	Nodes    []Node
	Edges    []Edge
	Clusters []*Cluster
}

// Options tune the rank engine.
type Options struct {
	// RankDir is the Graphviz rank direction, "TB" or "LR".
	RankDir string
	// RankSep and NodeSep are in points; zero means engine defaults.
	RankSep float64
	NodeSep float64
}

func (o Options) rankDir() string {
	if o.RankDir == "" {
		return "TB"
	}
	return o.RankDir
}

// buildDOT serializes an Input into DOT source with fixed-size nodes
// so the engine only decides positions, never dimensions. Returns the
// source plus the mapping from generated cluster identifiers back to
// cluster names, which the readback needs to reattach results.
func buildDOT(in Input, opts Options) (string, map[string]string) {
	var b strings.Builder
	b.WriteString("digraph {\n")
	fmt.Fprintf(&b, "  graph [rankdir=%s", opts.rankDir())
	if opts.RankSep > 0 {
		fmt.Fprintf(&b, ", ranksep=%.4f", opts.RankSep/pointsPerInch)
	}
	if opts.NodeSep > 0 {
		fmt.Fprintf(&b, ", nodesep=%.4f", opts.NodeSep/pointsPerInch)
	}
	b.WriteString("];\n")
	b.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")

	names := make(map[string]string)
	var n int
	var writeCluster func(c *Cluster, indent string)
	writeCluster = func(c *Cluster, indent string) {
		id := fmt.Sprintf("cluster_%d", n)
		n++
		names[id] = c.Name
		fmt.Fprintf(&b, "%ssubgraph %q {\n", indent, id)
		for _, nodeID := range c.NodeIDs {
			fmt.Fprintf(&b, "%s  %q;\n", indent, nodeID)
		}
		for _, child := range c.Children {
			writeCluster(child, indent+"  ")
		}
		fmt.Fprintf(&b, "%s}\n", indent)
	}
	for _, c := range in.Clusters {
		writeCluster(c, "  ")
	}

	for _, node := range in.Nodes {
		fmt.Fprintf(&b, "  %q [width=%.4f, height=%.4f];\n",
			node.ID, node.Width/pointsPerInch, node.Height/pointsPerInch)
	}
	for _, e := range in.Edges {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String(), names
}
