package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/geo"
	"github.com/diaglot/diaglot/pkg/layout"
)

// SVGOptions configures SVG output.
type SVGOptions struct {
	// FontFamily is the CSS font stack for labels.
	FontFamily string
	// CornerRadius rounds node boxes and edge bends.
	CornerRadius float64
}

func (o *SVGOptions) setDefaults() {
	if o.FontFamily == "" {
		o.FontFamily = "Helvetica, Arial, sans-serif"
	}
	if o.CornerRadius == 0 {
		o.CornerRadius = layout.DefaultCornerRadius
	}
}

// Palette kept small on purpose; per-node colors come from entity
// attrs.
const (
	colorStroke    = "#30363d"
	colorNodeFill  = "#ffffff"
	colorStubFill  = "#f6f8fa"
	colorGroupFill = "#f6f8fa"
	colorText      = "#1f2328"
	colorMuted     = "#656d76"
)

// SVG renders a layout as a standalone SVG document.
func SVG(res *layout.Result, opts SVGOptions) []byte {
	opts.setDefaults()

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="%s">`+"\n",
		res.Width, res.Height, res.Width, res.Height, escape(opts.FontFamily))
	writeDefs(&buf)

	// Groups first so nodes draw on top of their containers.
	for _, g := range res.Groups {
		writeGroup(&buf, g)
	}
	for _, n := range res.Nodes {
		writeNode(&buf, n, opts.CornerRadius)
	}
	if res.Archetype == ast.ArchetypeSequence {
		writeLifelines(&buf, res)
	}
	for _, e := range res.Edges {
		writeEdge(&buf, e, opts.CornerRadius)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeDefs(buf *bytes.Buffer) {
	buf.WriteString(`<defs><marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">`)
	fmt.Fprintf(buf, `<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`, colorStroke)
	buf.WriteString("</marker></defs>\n")
}

func writeGroup(buf *bytes.Buffer, g layout.GroupLayout) {
	b := g.Bounds
	fmt.Fprintf(buf,
		`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s" stroke-dasharray="4 3"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, colorGroupFill, colorStroke)
	fmt.Fprintf(buf,
		`<text x="%.1f" y="%.1f" font-size="12" fill="%s">%s</text>`+"\n",
		b.X+8, b.Y+16, colorMuted, escape(g.Name))
}

func writeNode(buf *bytes.Buffer, n layout.NodeLayout, radius float64) {
	b := n.Bounds
	fill := colorNodeFill
	if n.Stub {
		fill = colorStubFill
	}
	if n.Entity != nil {
		if c, ok := n.Entity.Attrs["color"]; ok {
			fill = c
		}
	}
	stroke := `stroke="` + colorStroke + `"`
	if n.Stub {
		stroke += ` stroke-dasharray="3 2"`
	}
	fmt.Fprintf(buf,
		`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" %s/>`+"\n",
		b.X, b.Y, b.Width, b.Height, radius, fill, stroke)

	if n.Entity != nil && len(n.Entity.Fields) > 0 {
		writeEntityRows(buf, n)
		return
	}
	fmt.Fprintf(buf,
		`<text x="%.1f" y="%.1f" font-size="14" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		b.Center().X, b.Center().Y, colorText, escape(n.Label))
}

// writeEntityRows draws a header label plus one row per field, with a
// divider under the header the way ER tools draw tables.
func writeEntityRows(buf *bytes.Buffer, n layout.NodeLayout) {
	b := n.Bounds
	headerH := b.Height - float64(len(n.Entity.Fields))*24
	if headerH < 24 {
		headerH = 24
	}
	fmt.Fprintf(buf,
		`<text x="%.1f" y="%.1f" font-size="14" font-weight="bold" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
		b.Center().X, b.Y+headerH/2, colorText, escape(n.Label))
	fmt.Fprintf(buf,
		`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
		b.X, b.Y+headerH, b.Right(), b.Y+headerH, colorStroke)

	y := b.Y + headerH + 12
	for _, f := range n.Entity.Fields {
		text := f.Name
		if f.Type != "" {
			text += " " + f.Type
		}
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" font-size="12" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
			b.X+10, y, colorText, escape(text))
		if len(f.Constraints) > 0 {
			fmt.Fprintf(buf,
				`<text x="%.1f" y="%.1f" font-size="11" text-anchor="end" dominant-baseline="middle" fill="%s">%s</text>`+"\n",
				b.Right()-10, y, colorMuted, escape(strings.Join(f.Constraints, " ")))
		}
		y += 24
	}
}

// writeLifelines draws the dashed vertical line under each sequence
// participant.
func writeLifelines(buf *bytes.Buffer, res *layout.Result) {
	for _, n := range res.Nodes {
		x := n.Bounds.Center().X
		fmt.Fprintf(buf,
			`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="4 4"/>`+"\n",
			x, n.Bounds.Bottom(), x, res.Height-12, colorMuted)
	}
}

func writeEdge(buf *bytes.Buffer, e layout.RoutedEdge, radius float64) {
	segs := layout.RoundCorners(e.Points, radius)
	if len(segs) == 0 {
		return
	}
	var d strings.Builder
	for _, s := range segs {
		switch s.Kind {
		case layout.SegMove:
			fmt.Fprintf(&d, "M %.1f %.1f ", s.To.X, s.To.Y)
		case layout.SegLine:
			fmt.Fprintf(&d, "L %.1f %.1f ", s.To.X, s.To.Y)
		case layout.SegQuad:
			fmt.Fprintf(&d, "Q %.1f %.1f %.1f %.1f ", s.Ctrl.X, s.Ctrl.Y, s.To.X, s.To.Y)
		}
	}

	markers := ""
	switch e.Edge.Kind {
	case ast.EdgeDirected:
		markers = ` marker-end="url(#arrow)"`
	case ast.EdgeBidirectional:
		markers = ` marker-start="url(#arrow)" marker-end="url(#arrow)"`
	}
	fmt.Fprintf(buf, `<path d="%s" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n",
		strings.TrimSpace(d.String()), colorStroke, markers)

	if e.Edge.Label != "" {
		at := labelAnchor(e.Points)
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" font-size="12" text-anchor="middle" fill="%s">%s</text>`+"\n",
			at.X, at.Y-4, colorText, escape(e.Edge.Label))
	}
	if e.Edge.Cardinality != nil && len(e.Points) >= 2 {
		writeCardinality(buf, e)
	}
}

// labelAnchor places edge labels at the midpoint of the polyline.
func labelAnchor(points []geo.Point) geo.Point {
	if len(points) == 0 {
		return geo.Point{}
	}
	mid := points[len(points)/2]
	if len(points)%2 == 0 {
		a, b := points[len(points)/2-1], points[len(points)/2]
		mid = geo.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}
	return mid
}

func writeCardinality(buf *bytes.Buffer, e layout.RoutedEdge) {
	card := e.Edge.Cardinality
	first, last := e.Points[0], e.Points[len(e.Points)-1]
	if card.From != "" {
		at := nudge(first, e.Points[1])
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="%s">%s</text>`+"\n",
			at.X, at.Y, colorMuted, escape(card.From))
	}
	if card.To != "" {
		at := nudge(last, e.Points[len(e.Points)-2])
		fmt.Fprintf(buf,
			`<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" fill="%s">%s</text>`+"\n",
			at.X, at.Y, colorMuted, escape(card.To))
	}
}

// nudge moves an endpoint a short way along the edge so the text does
// not sit on the node border.
func nudge(from, toward geo.Point) geo.Point {
	const d = 14.0
	dx, dy := toward.X-from.X, toward.Y-from.Y
	dist := d
	if l := abs(dx) + abs(dy); l > 0 {
		return geo.Point{X: from.X + dx/l*dist, Y: from.Y + dy/l*dist}
	}
	return from
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
