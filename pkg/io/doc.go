// Package io provides JSON import and export for diagram documents and
// computed layouts.
//
// # Overview
//
// This package enables serialization of parsed diagrams to and from a
// simple JSON format. The format is designed for:
//
//   - Inspecting what the parser made of a source file
//   - Integration with external tools that produce or consume diagrams
//   - Caching of parsed documents for faster re-rendering
//   - Round-trip preservation: import, layout, export, and re-import
//
// # Document Format
//
// A document has the detected archetype, top-level metadata, a block
// tree and an edge list:
//
//	{
//	  "archetype": "flow",
//	  "metadata": {"direction": "right"},
//	  "blocks": [
//	    {"kind": "entity", "id": "web"},
//	    {"kind": "group", "name": "backend", "children": [
//	      {"kind": "entity", "id": "api"}
//	    ]}
//	  ],
//	  "edges": [
//	    {"from": "web", "to": "api", "kind": "directed"}
//	  ]
//	}
//
// Metadata values are strings; a key declared without a value is
// encoded as boolean true.
//
// # Import
//
// Use [ImportDocument] to read a document from a file path, or
// [ReadDocument] to read from any io.Reader. Both validate the JSON
// structure; errors are wrapped with context about which block or edge
// caused the problem.
//
// # Export
//
// Use [ExportDocument] to write a document to a file, or
// [WriteDocument] to write to any io.Writer. The export includes every
// block, field and edge, so a re-import yields an equivalent document.
//
// # Layout Export
//
// [WriteLayout] and [ReadLayout] serialize a computed [layout.Result]
// with all node, group and edge geometry. This is the format the CLI's
// json output and the render API use.
//
// [layout.Result]: github.com/diaglot/diaglot/pkg/layout.Result
package io
