package layout

import (
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/geo"
	"github.com/diaglot/diaglot/pkg/graph"
)

// Fallback grid spacing, in points.
const (
	gridMargin = 24.0
	gridColGap = 32.0
	gridRowGap = 48.0
)

// layoutFallback is the engine of last resort: a layered grid computed
// entirely in-process. Edges become straight anchor-to-anchor lines
// and group bounds are the padded union of their members. It can never
// fail, which is the point.
func (e *Engine) layoutFallback(doc *ast.Document) *Result {
	g := graph.New()
	byID := make(map[string]*ast.Entity)
	for _, ent := range doc.Entities() {
		if _, dup := byID[ent.ID]; dup {
			continue
		}
		byID[ent.ID] = ent
		w, h := e.sizeEntity(ent)
		g.AddNode(graph.Node{ID: ent.ID, Width: w, Height: h})
	}

	resolve := func(id string) string {
		if g.Has(id) {
			return id
		}
		if dot := strings.IndexByte(id, '.'); dot > 0 && g.Has(id[:dot]) {
			return id[:dot]
		}
		return id
	}
	type resolvedEdge struct {
		src      ast.Edge
		from, to string
	}
	edges := make([]resolvedEdge, 0, len(doc.Edges))
	for _, edge := range doc.Edges {
		from, to := resolve(edge.From), resolve(edge.To)
		for _, id := range []string{from, to} {
			if !g.Has(id) {
				w, h := e.sizeStub(id)
				g.AddNode(graph.Node{ID: id, Width: w, Height: h, Stub: true})
			}
		}
		g.AddEdge(graph.Edge{From: from, To: to})
		edges = append(edges, resolvedEdge{src: edge, from: from, to: to})
	}

	graph.BreakCycles(g)
	layers := graph.AssignLayers(g)

	// Rows top to bottom by layer, nodes left to right in insertion
	// order within a row.
	maxLayer := 0
	for _, l := range layers {
		maxLayer = max(maxLayer, l)
	}
	rows := make([][]string, maxLayer+1)
	for _, id := range g.IDs() {
		l := layers[id]
		rows[l] = append(rows[l], id)
	}

	res := &Result{Archetype: doc.Archetype}
	placed := make(map[string]geo.Rect, g.NodeCount())
	y := gridMargin
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		x := gridMargin
		rowH := 0.0
		for _, id := range row {
			n := g.Node(id)
			bounds := geo.Rect{X: x, Y: y, Width: n.Width, Height: n.Height}
			placed[id] = bounds
			res.Nodes = append(res.Nodes, NodeLayout{
				ID:     id,
				Label:  nodeLabel(id, byID),
				Entity: byID[id],
				Stub:   n.Stub,
				Bounds: bounds,
			})
			x += n.Width + gridColGap
			rowH = max(rowH, n.Height)
		}
		y += rowH + gridRowGap
	}

	res.Groups = fallbackGroups(doc.Roots, placed)

	for _, re := range edges {
		res.Edges = append(res.Edges, RoutedEdge{
			Edge:   re.src,
			Points: anchorPoints(placed[re.from], placed[re.to]),
		})
	}

	for _, b := range placed {
		res.Width = max(res.Width, b.Right()+gridMargin)
		res.Height = max(res.Height, b.Bottom()+gridMargin)
	}
	for _, gl := range res.Groups {
		res.Width = max(res.Width, gl.Bounds.Right()+gridMargin)
		res.Height = max(res.Height, gl.Bounds.Bottom()+gridMargin)
	}
	res.Width = max(res.Width, minCanvasWidth)
	res.Height = max(res.Height, minCanvasHeight)
	return res
}

func nodeLabel(id string, byID map[string]*ast.Entity) string {
	if ent := byID[id]; ent != nil {
		return ent.Label()
	}
	return id
}

// fallbackGroups computes group bounds bottom-up as the padded union
// of member boxes. Groups with nothing placed inside them are omitted
// rather than drawn as empty rectangles.
func fallbackGroups(blocks []ast.Block, placed map[string]geo.Rect) []GroupLayout {
	var out []GroupLayout
	for _, b := range blocks {
		group, ok := b.(*ast.Group)
		if !ok {
			continue
		}
		nested := fallbackGroups(group.Children, placed)

		var bounds geo.Rect
		have := false
		extend := func(r geo.Rect) {
			if !have {
				bounds, have = r, true
				return
			}
			bounds = bounds.Union(r)
		}
		gl := GroupLayout{Name: group.Name}
		for _, child := range group.Children {
			switch c := child.(type) {
			case *ast.Entity:
				if r, ok := placed[c.ID]; ok {
					extend(r)
					gl.NodeIDs = append(gl.NodeIDs, c.ID)
				}
			case *ast.Group:
				for _, n := range nested {
					if n.Name == c.Name {
						extend(n.Bounds)
						gl.Groups = append(gl.Groups, c.Name)
					}
				}
			}
		}
		if have {
			gl.Bounds = bounds.Pad(groupPadding)
			out = append(out, gl)
		}
		out = append(out, nested...)
	}
	return out
}

// anchorPoints connects two boxes with a straight segment between
// facing borders: bottom-to-top when the target sits below the source,
// center-to-center otherwise.
func anchorPoints(from, to geo.Rect) []geo.Point {
	if from.Bottom() <= to.Y {
		return []geo.Point{
			{X: from.Center().X, Y: from.Bottom()},
			{X: to.Center().X, Y: to.Y},
		}
	}
	if to.Bottom() <= from.Y {
		return []geo.Point{
			{X: from.Center().X, Y: from.Y},
			{X: to.Center().X, Y: to.Bottom()},
		}
	}
	return []geo.Point{from.Center(), to.Center()}
}
