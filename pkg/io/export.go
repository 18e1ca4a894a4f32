package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/layout"
)

// Wire types for the document JSON format.

type document struct {
	Archetype string         `json:"archetype"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Blocks    []block        `json:"blocks"`
	Edges     []edge         `json:"edges"`
}

type block struct {
	Kind string `json:"kind"`

	// group fields
	Name     string  `json:"name,omitempty"`
	Children []block `json:"children,omitempty"`

	// entity fields
	ID     string            `json:"id,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
	Fields []field           `json:"fields,omitempty"`
}

type field struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Method      bool     `json:"method,omitempty"`
}

type edge struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Kind        string       `json:"kind"`
	Label       string       `json:"label,omitempty"`
	Cardinality *cardinality `json:"cardinality,omitempty"`
}

type cardinality struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

var visibilityToString = map[ast.Visibility]string{
	ast.VisibilityPublic:    "public",
	ast.VisibilityPrivate:   "private",
	ast.VisibilityProtected: "protected",
	ast.VisibilityPackage:   "package",
}

// WriteDocument encodes a document as JSON and writes it to w.
// The output can be re-imported with [ReadDocument] for round-trip
// processing.
func WriteDocument(doc *ast.Document, w io.Writer) error {
	out := document{
		Archetype: doc.Archetype.String(),
		Blocks:    encodeBlocks(doc.Roots),
		Edges:     make([]edge, len(doc.Edges)),
	}
	if len(doc.Metadata) > 0 {
		out.Metadata = make(map[string]any, len(doc.Metadata))
		for k, v := range doc.Metadata {
			if v.IsFlag() {
				out.Metadata[k] = true
			} else {
				out.Metadata[k] = v.Text
			}
		}
	}
	for i, e := range doc.Edges {
		out.Edges[i] = encodeEdge(e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func encodeBlocks(blocks []ast.Block) []block {
	out := make([]block, 0, len(blocks))
	for _, b := range blocks {
		switch blk := b.(type) {
		case *ast.Group:
			out = append(out, block{
				Kind:     "group",
				Name:     blk.Name,
				Children: encodeBlocks(blk.Children),
			})
		case *ast.Entity:
			e := block{Kind: "entity", ID: blk.ID, Attrs: blk.Attrs}
			for _, f := range blk.Fields {
				e.Fields = append(e.Fields, field{
					Name:        f.Name,
					Type:        f.Type,
					Constraints: f.Constraints,
					Visibility:  visibilityToString[f.Visibility],
					Method:      f.Member == ast.MemberMethod,
				})
			}
			out = append(out, e)
		}
	}
	return out
}

func encodeEdge(e ast.Edge) edge {
	out := edge{From: e.From, To: e.To, Kind: e.Kind.String(), Label: e.Label}
	if e.Cardinality != nil {
		out.Cardinality = &cardinality{From: e.Cardinality.From, To: e.Cardinality.To}
	}
	return out
}

// MarshalDocument returns the document's compact JSON encoding, as
// used for cache storage.
func MarshalDocument(doc *ast.Document) ([]byte, error) {
	out := document{
		Archetype: doc.Archetype.String(),
		Blocks:    encodeBlocks(doc.Roots),
		Edges:     make([]edge, len(doc.Edges)),
	}
	if len(doc.Metadata) > 0 {
		out.Metadata = make(map[string]any, len(doc.Metadata))
		for k, v := range doc.Metadata {
			if v.IsFlag() {
				out.Metadata[k] = true
			} else {
				out.Metadata[k] = v.Text
			}
		}
	}
	for i, e := range doc.Edges {
		out.Edges[i] = encodeEdge(e)
	}
	return json.Marshal(out)
}

// ExportDocument writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteDocument] for file-based output.
func ExportDocument(doc *ast.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(doc, f)
}

// WriteLayout encodes a computed layout as indented JSON.
func WriteLayout(res *layout.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalLayout returns the layout's JSON encoding. Used for cache
// storage where the indentation of [WriteLayout] is wasted bytes.
func MarshalLayout(res *layout.Result) ([]byte, error) {
	return json.Marshal(res)
}

// ExportLayout writes a layout to a JSON file at path.
func ExportLayout(res *layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayout(res, f)
}
