package layout

import (
	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/geo"
)

// Sequence layout constants, in points.
const (
	seqMargin     = 24.0
	seqColGap     = 48.0
	seqHeadH      = 40.0
	seqRowH       = 44.0
	seqLoopWidth  = 48.0
	seqLoopHeight = 24.0
	seqLoopExtra  = 16.0
)

// layoutSequence arranges participants as fixed columns and messages
// as rows. Column order is first appearance: declared participants in
// document order, then any endpoint a message introduces. The order
// never changes once assigned, so adding messages later cannot
// reshuffle columns.
func (e *Engine) layoutSequence(doc *ast.Document) *Result {
	var order []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
	}

	byID := make(map[string]*ast.Entity)
	for _, ent := range doc.Entities() {
		add(ent.ID)
		if _, dup := byID[ent.ID]; !dup {
			byID[ent.ID] = ent
		}
	}
	for _, edge := range doc.Edges {
		add(edge.From)
		add(edge.To)
	}

	res := &Result{Archetype: ast.ArchetypeSequence}

	// Participant heads across the top; lifelines drop from their
	// centers.
	centers := make(map[string]float64, len(order))
	x := seqMargin
	for _, id := range order {
		label := id
		ent := byID[id]
		if ent != nil {
			label = ent.Label()
		}
		size := e.measurer.Measure(label, Font{Size: fontSize})
		w := max(size.Width+2*nodePadX, minNodeWidth)
		bounds := geo.Rect{X: x, Y: seqMargin, Width: w, Height: seqHeadH}
		res.Nodes = append(res.Nodes, NodeLayout{
			ID:     id,
			Label:  label,
			Entity: ent,
			Stub:   ent == nil,
			Bounds: bounds,
		})
		centers[id] = bounds.Center().X
		x += w + seqColGap
	}

	y := seqMargin + seqHeadH + seqRowH
	for _, edge := range doc.Edges {
		fromX, toX := centers[edge.From], centers[edge.To]
		if edge.SelfLoop() {
			// A message to the sender loops out to the right and
			// back, taking a little more vertical room than a plain
			// row.
			pts := []geo.Point{
				{X: fromX, Y: y},
				{X: fromX + seqLoopWidth, Y: y},
				{X: fromX + seqLoopWidth, Y: y + seqLoopHeight},
				{X: fromX, Y: y + seqLoopHeight},
			}
			res.Edges = append(res.Edges, RoutedEdge{Edge: edge, Points: pts})
			y += seqRowH + seqLoopHeight + seqLoopExtra
			continue
		}
		res.Edges = append(res.Edges, RoutedEdge{Edge: edge, Points: []geo.Point{
			{X: fromX, Y: y},
			{X: toX, Y: y},
		}})
		y += seqRowH
	}

	res.Width = max(x-seqColGap+seqMargin, minCanvasWidth)
	res.Height = max(y+seqMargin, minCanvasHeight)
	return res
}
