// Package rankdot wraps the Graphviz dot engine as a pure placement
// primitive: it feeds pre-sized boxes and containment clusters in,
// renders to attributed DOT, and reads positions back out. Callers get
// point coordinates with a top-left origin; the y-up flip and the
// inch/point conversion stay inside this package.
package rankdot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"

	"github.com/diaglot/diaglot/pkg/geo"
)

// EdgePath is the routed polyline for one input edge, in input order.
type EdgePath struct {
	From   string
	To     string
	Points []geo.Point
}

// Placement is the engine's answer: everything in points, top-left
// origin, y growing downward.
type Placement struct {
	Nodes    map[string]geo.Rect
	Clusters map[string]geo.Rect
	Edges    []EdgePath
	Width    float64
	Height   float64
}

// Layout runs the dot rank engine over the input and reads the
// resulting positions back.
func Layout(ctx context.Context, in Input, opts Options) (*Placement, error) {
	src, clusterNames := buildDOT(in, opts)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format("dot"), &buf); err != nil {
		return nil, fmt.Errorf("run dot engine: %w", err)
	}
	return readPlacement(buf.Bytes(), clusterNames)
}

// readPlacement parses attributed DOT output. Split out from Layout so
// the readback can be tested against canned engine output without
// invoking Graphviz.
func readPlacement(out []byte, clusterNames map[string]string) (*Placement, error) {
	parsed, err := gographviz.Read(out)
	if err != nil {
		return nil, fmt.Errorf("read dot output: %w", err)
	}

	bb, ok := parseBoundingBox(attr(parsed.Attrs, "bb"))
	if !ok {
		return nil, fmt.Errorf("dot output missing graph bounding box")
	}
	maxY := bb.Height

	p := &Placement{
		Nodes:    make(map[string]geo.Rect),
		Clusters: make(map[string]geo.Rect),
		Width:    bb.Width,
		Height:   bb.Height,
	}

	for _, node := range parsed.Nodes.Nodes {
		name := unquote(node.Name)
		cx, cy, ok := parsePoint(attr(node.Attrs, "pos"))
		if !ok {
			continue
		}
		w := parseInches(attr(node.Attrs, "width"))
		h := parseInches(attr(node.Attrs, "height"))
		p.Nodes[name] = geo.FromCenter(geo.Point{X: cx, Y: maxY - cy}, w, h)
	}

	for rawName, sub := range parsed.SubGraphs.SubGraphs {
		name, ok := clusterNames[unquote(rawName)]
		if !ok {
			continue
		}
		rect, ok := parseClusterBox(attr(sub.Attrs, "bb"), maxY)
		if !ok {
			continue
		}
		p.Clusters[name] = rect
	}

	for _, e := range parsed.Edges.Edges {
		pts := parseSpline(attr(e.Attrs, "pos"), maxY)
		p.Edges = append(p.Edges, EdgePath{
			From:   unquote(e.Src),
			To:     unquote(e.Dst),
			Points: pts,
		})
	}
	return p, nil
}

// attr reads one attribute, stripping the quoting the DOT writer adds.
func attr(attrs gographviz.Attrs, key string) string {
	return unquote(attrs[gographviz.Attr(key)])
}

// unquote undoes DOT string quoting, including the backslash-newline
// continuations Graphviz inserts into long attribute values.
func unquote(s string) string {
	s = strings.ReplaceAll(s, "\\\n", "")
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `\"`, `"`)
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return s
}

// parseBoundingBox reads a "llx,lly,urx,ury" graph bb attribute. The
// lower-left corner is 0,0 for the root graph.
func parseBoundingBox(s string) (geo.Rect, bool) {
	n, ok := parseFloats(s, 4)
	if !ok {
		return geo.Rect{}, false
	}
	return geo.Rect{X: n[0], Y: n[1], Width: n[2] - n[0], Height: n[3] - n[1]}, true
}

// parseClusterBox converts a cluster bb from y-up corners to a
// top-left rect.
func parseClusterBox(s string, maxY float64) (geo.Rect, bool) {
	n, ok := parseFloats(s, 4)
	if !ok {
		return geo.Rect{}, false
	}
	return geo.Rect{
		X:      n[0],
		Y:      maxY - n[3],
		Width:  n[2] - n[0],
		Height: n[3] - n[1],
	}, true
}

func parsePoint(s string) (x, y float64, ok bool) {
	n, ok := parseFloats(s, 2)
	if !ok {
		return 0, 0, false
	}
	return n[0], n[1], true
}

func parseFloats(s string, want int) ([]float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != want {
		return nil, false
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseInches(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v * pointsPerInch
}

// parseSpline reads an edge pos attribute. The value is a space
// separated list of control points, optionally prefixed with an
// "e,x,y" arrowhead endpoint and an "s,x,y" tail point. The returned
// polyline runs tail to head with the y axis already flipped.
func parseSpline(s string, maxY float64) []geo.Point {
	fields := strings.Fields(s)
	var start, end *geo.Point
	var pts []geo.Point
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "e,"):
			if x, y, ok := parsePoint(f[2:]); ok {
				end = &geo.Point{X: x, Y: maxY - y}
			}
		case strings.HasPrefix(f, "s,"):
			if x, y, ok := parsePoint(f[2:]); ok {
				start = &geo.Point{X: x, Y: maxY - y}
			}
		default:
			if x, y, ok := parsePoint(f); ok {
				pts = append(pts, geo.Point{X: x, Y: maxY - y})
			}
		}
	}
	if start != nil {
		pts = append([]geo.Point{*start}, pts...)
	}
	if end != nil {
		pts = append(pts, *end)
	}
	return pts
}
