// Package layout turns a parsed diagram document into positioned
// geometry. Three engines live here: a rank-based graph engine built
// on Graphviz, a column engine for sequence diagrams, and a layered
// grid fallback that needs nothing beyond the document itself. The
// entry point picks an engine from the document's archetype.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/geo"
)

// Sizing defaults, in points.
const (
	fontSize      = 14.0
	fieldFontSize = 12.0

	nodePadX      = 16.0
	nodeBaseH     = 36.0
	fieldRowH     = 24.0
	minNodeWidth  = 96.0
	minNodeHeight = 36.0

	groupPadding = 16.0

	minCanvasWidth  = 200.0
	minCanvasHeight = 120.0
)

// NodeLayout is one positioned box. Entity is nil for stub nodes that
// only exist because an edge referenced them.
type NodeLayout struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Entity *ast.Entity `json:"entity,omitempty"`
	Stub   bool        `json:"stub,omitempty"`
	Bounds geo.Rect    `json:"bounds"`
}

// GroupLayout is a positioned container. Bounds always enclose every
// member node and nested group.
type GroupLayout struct {
	Name    string   `json:"name"`
	NodeIDs []string `json:"nodeIds,omitempty"`
	Groups  []string `json:"groups,omitempty"`
	Bounds  geo.Rect `json:"bounds"`
}

// RoutedEdge is an edge with its bend-point polyline. Points run from
// the source toward the target.
type RoutedEdge struct {
	Edge   ast.Edge    `json:"edge"`
	Points []geo.Point `json:"points"`
}

// Result is a complete positioned diagram.
type Result struct {
	Archetype ast.Archetype `json:"archetype"`
	Nodes     []NodeLayout  `json:"nodes"`
	Groups    []GroupLayout `json:"groups,omitempty"`
	Edges     []RoutedEdge  `json:"edges,omitempty"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
}

// Node returns the layout for id, if present.
func (r *Result) Node(id string) (NodeLayout, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeLayout{}, false
}

// Group returns the layout for the named group, if present.
func (r *Result) Group(name string) (GroupLayout, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupLayout{}, false
}

// Config configures an Engine. The zero value works: a character
// estimator measurer and a discarded logger are filled in.
type Config struct {
	Measurer Measurer
	Logger   *log.Logger
}

// Engine lays out documents. Construct with NewEngine; the measurer is
// an explicit dependency so callers control font loading and tests
// stay deterministic.
type Engine struct {
	measurer Measurer
	logger   *log.Logger
}

// NewEngine builds an Engine from cfg, applying defaults for any nil
// field.
func NewEngine(cfg Config) *Engine {
	m := cfg.Measurer
	if m == nil {
		m = NewEstimator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{measurer: m, logger: logger}
}

// Layout positions the document with the engine matching its
// archetype. Sequence diagrams get column layout; flow, entity
// relation and process diagrams go through the rank engine; unknown
// documents use the grid fallback. A rank engine failure also degrades
// to the fallback so layout never returns an empty result for a
// well-formed document.
func (e *Engine) Layout(ctx context.Context, doc *ast.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: nil document")
	}
	switch doc.Archetype {
	case ast.ArchetypeSequence:
		return e.layoutSequence(doc), nil
	case ast.ArchetypeFlow, ast.ArchetypeEntityRelation, ast.ArchetypeProcess:
		res, err := e.layoutGraph(ctx, doc)
		if err != nil {
			e.logger.Warn("rank layout failed, using grid fallback", "err", err)
			return e.layoutFallback(doc), nil
		}
		return res, nil
	default:
		return e.layoutFallback(doc), nil
	}
}

// rankDir maps the document direction metadata onto a Graphviz rank
// direction.
func rankDir(doc *ast.Document) string {
	switch doc.Meta("direction") {
	case "right":
		return "LR"
	case "left":
		return "RL"
	case "up":
		return "BT"
	default:
		return "TB"
	}
}

// sizeEntity measures an entity box: the label row plus one row per
// declared field, never smaller than the floor dimensions.
func (e *Engine) sizeEntity(ent *ast.Entity) (w, h float64) {
	label := ent.Label()
	size := e.measurer.Measure(label, Font{Size: fontSize})
	w = size.Width + 2*nodePadX
	h = nodeBaseH
	for _, f := range ent.Fields {
		text := f.Name
		if f.Type != "" {
			text += " " + f.Type
		}
		row := e.measurer.Measure(text, Font{Size: fieldFontSize})
		if rw := row.Width + 2*nodePadX; rw > w {
			w = rw
		}
		h += fieldRowH
	}
	if w < minNodeWidth {
		w = minNodeWidth
	}
	if h < minNodeHeight {
		h = minNodeHeight
	}
	return w, h
}

// sizeStub sizes a node synthesized for a dangling edge endpoint.
func (e *Engine) sizeStub(id string) (w, h float64) {
	size := e.measurer.Measure(id, Font{Size: fontSize})
	w = size.Width + 2*nodePadX
	if w < minNodeWidth {
		w = minNodeWidth
	}
	return w, nodeBaseH
}
