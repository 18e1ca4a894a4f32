package layout

import (
	"context"
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/geo"
	"github.com/diaglot/diaglot/pkg/layout/rankdot"
)

// layoutGraph positions flow, entity relation and process diagrams via
// the rank engine: every box is measured up front, groups become
// containment clusters, and the engine only ever decides positions.
func (e *Engine) layoutGraph(ctx context.Context, doc *ast.Document) (*Result, error) {
	entities := doc.Entities()

	known := make(map[string]*ast.Entity, len(entities))
	var order []string
	for _, ent := range entities {
		if _, dup := known[ent.ID]; dup {
			continue
		}
		known[ent.ID] = ent
		order = append(order, ent.ID)
	}

	// An edge endpoint like table.column addresses a row inside an
	// entity; it collapses to the entity for placement. Anything still
	// unknown after that becomes a stub box.
	resolve := func(id string) string {
		if _, ok := known[id]; ok {
			return id
		}
		if dot := strings.IndexByte(id, '.'); dot > 0 {
			if _, ok := known[id[:dot]]; ok {
				return id[:dot]
			}
		}
		return id
	}

	stubs := make(map[string]bool)
	type resolvedEdge struct {
		src      ast.Edge
		from, to string
	}
	edges := make([]resolvedEdge, 0, len(doc.Edges))
	for _, edge := range doc.Edges {
		from, to := resolve(edge.From), resolve(edge.To)
		for _, id := range []string{from, to} {
			if _, ok := known[id]; !ok && !stubs[id] {
				stubs[id] = true
				order = append(order, id)
			}
		}
		edges = append(edges, resolvedEdge{src: edge, from: from, to: to})
	}

	in := rankdot.Input{}
	nodeSize := make(map[string]geo.Rect, len(order))
	for _, id := range order {
		var w, h float64
		if ent, ok := known[id]; ok {
			w, h = e.sizeEntity(ent)
		} else {
			w, h = e.sizeStub(id)
		}
		nodeSize[id] = geo.Rect{Width: w, Height: h}
		in.Nodes = append(in.Nodes, rankdot.Node{ID: id, Width: w, Height: h})
	}
	for _, re := range edges {
		in.Edges = append(in.Edges, rankdot.Edge{From: re.from, To: re.to})
	}
	in.Clusters = buildClusters(doc.Roots)

	pl, err := rankdot.Layout(ctx, in, rankdot.Options{
		RankDir: rankDir(doc),
		RankSep: 40,
		NodeSep: 28,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Archetype: doc.Archetype}
	for _, id := range order {
		bounds, ok := pl.Nodes[id]
		if !ok {
			bounds = nodeSize[id]
		}
		nl := NodeLayout{ID: id, Label: id, Bounds: bounds}
		if ent, found := known[id]; found {
			nl.Entity = ent
			nl.Label = ent.Label()
		} else {
			nl.Stub = true
		}
		res.Nodes = append(res.Nodes, nl)
	}

	appendGroupLayouts(res, doc.Roots, pl.Clusters)

	// Parallel edges between the same pair come back from the engine
	// in emission order, so a per-pair queue reattaches them.
	paths := make(map[string][]rankdot.EdgePath)
	for _, ep := range pl.Edges {
		key := ep.From + "\x00" + ep.To
		paths[key] = append(paths[key], ep)
	}
	for _, re := range edges {
		key := re.from + "\x00" + re.to
		var pts []geo.Point
		if q := paths[key]; len(q) > 0 {
			pts = q[0].Points
			paths[key] = q[1:]
		}
		if len(pts) < 2 {
			pts = straightEdge(pl.Nodes[re.from], pl.Nodes[re.to])
		}
		res.Edges = append(res.Edges, RoutedEdge{Edge: re.src, Points: pts})
	}

	res.Width = max(pl.Width, minCanvasWidth)
	res.Height = max(pl.Height, minCanvasHeight)
	return res, nil
}

// buildClusters mirrors the group tree as nested clusters, dropping
// groups that contain no entities at any depth.
func buildClusters(blocks []ast.Block) []*rankdot.Cluster {
	var out []*rankdot.Cluster
	for _, b := range blocks {
		group, ok := b.(*ast.Group)
		if !ok {
			continue
		}
		c := &rankdot.Cluster{Name: group.Name}
		for _, child := range group.Children {
			if ent, ok := child.(*ast.Entity); ok {
				c.NodeIDs = append(c.NodeIDs, ent.ID)
			}
		}
		c.Children = buildClusters(group.Children)
		if len(c.NodeIDs) > 0 || len(c.Children) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// appendGroupLayouts attaches placed cluster bounds back onto the
// group tree, depth first so parents precede their children.
func appendGroupLayouts(res *Result, blocks []ast.Block, clusters map[string]geo.Rect) {
	for _, b := range blocks {
		group, ok := b.(*ast.Group)
		if !ok {
			continue
		}
		bounds, placed := clusters[group.Name]
		if placed {
			gl := GroupLayout{Name: group.Name, Bounds: bounds}
			for _, child := range group.Children {
				switch c := child.(type) {
				case *ast.Entity:
					gl.NodeIDs = append(gl.NodeIDs, c.ID)
				case *ast.Group:
					gl.Groups = append(gl.Groups, c.Name)
				}
			}
			res.Groups = append(res.Groups, gl)
		}
		appendGroupLayouts(res, group.Children, clusters)
	}
}

// straightEdge is the last-resort routing between two placed boxes.
func straightEdge(from, to geo.Rect) []geo.Point {
	return []geo.Point{from.Center(), to.Center()}
}
