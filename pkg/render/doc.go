// Package render turns computed layouts into output artifacts.
//
// Two sinks are provided: an SVG writer that draws the positioned
// diagram directly and a DOT writer that exports the logical document
// for external Graphviz tooling. JSON export lives in [pkg/io] since
// it is a serialization of the layout rather than a drawing.
//
// [pkg/io]: github.com/diaglot/diaglot/pkg/io
package render
