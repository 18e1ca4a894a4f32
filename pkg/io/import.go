package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/layout"
)

var visibilityFromString = map[string]ast.Visibility{
	"public":    ast.VisibilityPublic,
	"private":   ast.VisibilityPrivate,
	"protected": ast.VisibilityProtected,
	"package":   ast.VisibilityPackage,
}

var kindFromString = map[string]ast.EdgeKind{
	"directed":      ast.EdgeDirected,
	"undirected":    ast.EdgeUndirected,
	"bidirectional": ast.EdgeBidirectional,
}

// ReadDocument decodes a JSON document from r.
//
// The input must match the format produced by [WriteDocument]. Every
// block needs a "kind" of "group" or "entity"; groups need a "name"
// and entities an "id". ReadDocument returns an error describing the
// offending block or edge when validation fails.
//
// The returned document is independent of r and can be used freely
// after ReadDocument returns. ReadDocument does not close r.
func ReadDocument(r io.Reader) (*ast.Document, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	doc := &ast.Document{
		Archetype: ast.ArchetypeFromString(data.Archetype),
		Metadata:  make(map[string]ast.Value),
	}
	for k, v := range data.Metadata {
		switch val := v.(type) {
		case bool:
			if val {
				doc.Metadata[k] = ast.FlagValue()
			}
		case string:
			doc.Metadata[k] = ast.StringValue(val)
		default:
			return nil, fmt.Errorf("metadata %s: unsupported value type", k)
		}
	}

	roots, err := decodeBlocks(data.Blocks)
	if err != nil {
		return nil, err
	}
	doc.Roots = roots

	for _, e := range data.Edges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("edge %s->%s: missing endpoint", e.From, e.To)
		}
		kind, ok := kindFromString[e.Kind]
		if !ok && e.Kind != "" {
			return nil, fmt.Errorf("edge %s->%s: unknown kind %q", e.From, e.To, e.Kind)
		}
		out := ast.Edge{From: e.From, To: e.To, Kind: kind, Label: e.Label}
		if e.Cardinality != nil {
			out.Cardinality = &ast.Cardinality{From: e.Cardinality.From, To: e.Cardinality.To}
		}
		doc.Edges = append(doc.Edges, out)
	}

	return doc, nil
}

func decodeBlocks(blocks []block) ([]ast.Block, error) {
	var out []ast.Block
	for _, b := range blocks {
		switch b.Kind {
		case "group":
			if b.Name == "" {
				return nil, fmt.Errorf("group: missing name")
			}
			children, err := decodeBlocks(b.Children)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", b.Name, err)
			}
			out = append(out, &ast.Group{Name: b.Name, Children: children})
		case "entity":
			if b.ID == "" {
				return nil, fmt.Errorf("entity: missing id")
			}
			ent := &ast.Entity{ID: b.ID, Attrs: b.Attrs}
			for _, f := range b.Fields {
				member := ast.MemberField
				if f.Method {
					member = ast.MemberMethod
				}
				ent.Fields = append(ent.Fields, ast.Field{
					Name:        f.Name,
					Type:        f.Type,
					Constraints: f.Constraints,
					Visibility:  visibilityFromString[f.Visibility],
					Member:      member,
				})
			}
			out = append(out, ent)
		default:
			return nil, fmt.Errorf("block: unknown kind %q", b.Kind)
		}
	}
	return out, nil
}

// UnmarshalDocument decodes a document from its JSON encoding.
func UnmarshalDocument(data []byte) (*ast.Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// ImportDocument reads a JSON file at path and returns the decoded
// document. The error wraps the underlying cause with the file path
// for context.
func ImportDocument(path string) (*ast.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// ReadLayout decodes a computed layout from r.
func ReadLayout(r io.Reader) (*layout.Result, error) {
	var res layout.Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &res, nil
}

// UnmarshalLayout decodes a layout from its JSON encoding.
func UnmarshalLayout(data []byte) (*layout.Result, error) {
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &res, nil
}

// ImportLayout reads a JSON file at path and returns the decoded
// layout.
func ImportLayout(path string) (*layout.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
