package graph

// BreakCycles removes back edges found by depth-first search with
// white/gray/black coloring, returning how many were removed. Traversal
// starts from source nodes (in-degree zero) in insertion order, then sweeps
// any remaining unvisited nodes, so the result is deterministic for a given
// construction order.
func BreakCycles(g *Graph) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{id, child})
			}
		}
		color[id] = black
	}

	for _, id := range g.IDs() {
		if g.InDegree(id) == 0 && color[id] == white {
			dfs(id)
		}
	}
	for _, id := range g.IDs() {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return len(backEdges)
}

// AssignLayers computes a longest-path layer for every node using Kahn's
// topological traversal: sources sit at layer 0 and each node lands one
// past its deepest parent. Nodes caught in a cycle never reach zero
// in-degree and stay at layer 0; run [BreakCycles] first when layering must
// be total.
func AssignLayers(g *Graph) map[string]int {
	layers := make(map[string]int, g.NodeCount())
	inDegree := make(map[string]int, g.NodeCount())
	var queue []string

	for _, id := range g.IDs() {
		d := g.InDegree(id)
		inDegree[id] = d
		if d == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if l := layers[curr] + 1; l > layers[child] {
				layers[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return layers
}
