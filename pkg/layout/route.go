package layout

import (
	"math"

	"github.com/diaglot/diaglot/pkg/geo"
)

// SegmentKind discriminates path segments.
type SegmentKind int

const (
	SegMove SegmentKind = iota
	SegLine
	SegQuad
)

// Segment is one step of a drawable path. Ctrl is only meaningful for
// SegQuad.
type Segment struct {
	Kind SegmentKind
	To   geo.Point
	Ctrl geo.Point
}

// DefaultCornerRadius matches the box corner rounding the renderers
// use.
const DefaultCornerRadius = 8.0

// RoundCorners turns a bend-point polyline into a smooth path: each
// interior bend is cut short on both sides and bridged with a
// quadratic curve through the original corner. The radius shrinks at
// tight corners so the cut never exceeds half of either adjacent
// segment, which keeps consecutive curves from overlapping. Fewer than
// two points yields no path; exactly two yields a straight line.
func RoundCorners(points []geo.Point, radius float64) []Segment {
	if len(points) < 2 {
		return nil
	}
	segs := []Segment{{Kind: SegMove, To: points[0]}}
	if len(points) == 2 {
		return append(segs, Segment{Kind: SegLine, To: points[1]})
	}
	for i := 1; i < len(points)-1; i++ {
		prev, corner, next := points[i-1], points[i], points[i+1]
		r := min(radius, dist(prev, corner)/2, dist(corner, next)/2)
		if r <= 0 {
			segs = append(segs, Segment{Kind: SegLine, To: corner})
			continue
		}
		segs = append(segs,
			Segment{Kind: SegLine, To: toward(corner, prev, r)},
			Segment{Kind: SegQuad, Ctrl: corner, To: toward(corner, next, r)},
		)
	}
	return append(segs, Segment{Kind: SegLine, To: points[len(points)-1]})
}

func dist(a, b geo.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// toward returns the point at distance d from origin along the line to
// target.
func toward(origin, target geo.Point, d float64) geo.Point {
	total := dist(origin, target)
	if total == 0 {
		return origin
	}
	t := d / total
	return geo.Point{
		X: origin.X + (target.X-origin.X)*t,
		Y: origin.Y + (target.Y-origin.Y)*t,
	}
}
