// Package ast defines the structural document model produced by parsing a
// diagram description, independent of the surface dialect it was written in.
//
// A [Document] holds diagram-level metadata, a forest of top-level blocks
// (groups and entities, arbitrarily nested) and a flat list of edges. Edges
// are always stored as already-expanded pairs: comma fan-outs and multi-hop
// chains are expanded by the parser before an [Edge] is ever constructed.
//
// The document is immutable after parsing returns. Nothing downstream
// mutates it; the layout engine produces its own fresh result on every call.
package ast

// Archetype is the inferred diagram kind, used downstream to pick a layout
// strategy.
type Archetype int

const (
	// ArchetypeUnknown means no classification signal matched.
	ArchetypeUnknown Archetype = iota
	// ArchetypeFlow is a generic graph/flow diagram.
	ArchetypeFlow
	// ArchetypeEntityRelation is an entity-relationship diagram (entities
	// with typed fields).
	ArchetypeEntityRelation
	// ArchetypeSequence is a sequence diagram (participants and time-ordered
	// messages).
	ArchetypeSequence
	// ArchetypeProcess is a step-oriented process diagram.
	ArchetypeProcess
)

var archetypeNames = map[Archetype]string{
	ArchetypeUnknown:        "unknown",
	ArchetypeFlow:           "flow",
	ArchetypeEntityRelation: "entity-relation",
	ArchetypeSequence:       "sequence",
	ArchetypeProcess:        "process",
}

// String returns the archetype name as used in `type` metadata.
func (a Archetype) String() string {
	if s, ok := archetypeNames[a]; ok {
		return s
	}
	return "unknown"
}

// ArchetypeFromString maps a `type` metadata value to an archetype.
// Unrecognized values map to ArchetypeUnknown.
func ArchetypeFromString(s string) Archetype {
	for a, name := range archetypeNames {
		if name == s {
			return a
		}
	}
	switch s {
	case "graph", "flowchart":
		return ArchetypeFlow
	case "er", "erd":
		return ArchetypeEntityRelation
	case "seq":
		return ArchetypeSequence
	}
	return ArchetypeUnknown
}

// Value is a metadata value: free text, or a boolean flag for keys declared
// with no value ("fullscreen" on its own line coerces to true).
type Value struct {
	Text string
	Flag bool
}

// StringValue wraps free text as a metadata value.
func StringValue(s string) Value { return Value{Text: s} }

// FlagValue is the boolean-true value for flag-only metadata keys.
func FlagValue() Value { return Value{Flag: true} }

// IsFlag reports whether the value is a bare boolean flag.
func (v Value) IsFlag() bool { return v.Flag }

// Document is the parsed diagram, independent of surface syntax.
type Document struct {
	Archetype Archetype
	Metadata  map[string]Value
	Roots     []Block
	Edges     []Edge
}

// Meta returns the text of a metadata key, or "" if absent or a flag.
func (d *Document) Meta(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key].Text
}

// HasFlag reports whether key was declared as a bare flag.
func (d *Document) HasFlag(key string) bool {
	if d.Metadata == nil {
		return false
	}
	return d.Metadata[key].Flag
}

// Entities returns all entities in the document, flattened through groups in
// declaration order.
func (d *Document) Entities() []*Entity {
	var out []*Entity
	var walk func(blocks []Block)
	walk = func(blocks []Block) {
		for _, b := range blocks {
			switch blk := b.(type) {
			case *Entity:
				out = append(out, blk)
			case *Group:
				walk(blk.Children)
			}
		}
	}
	walk(d.Roots)
	return out
}

// Groups returns all groups in the document, parents before children.
func (d *Document) Groups() []*Group {
	var out []*Group
	var walk func(blocks []Block)
	walk = func(blocks []Block) {
		for _, b := range blocks {
			if g, ok := b.(*Group); ok {
				out = append(out, g)
				walk(g.Children)
			}
		}
	}
	walk(d.Roots)
	return out
}

// Block is a top-level declaration: either a [Group] or an [Entity].
// The interface is sealed so the parser's two block forms are the only
// variants and type switches over Block are exhaustive.
type Block interface {
	isBlock()
}

// Group is a named container of nested blocks. Groups nest arbitrarily.
type Group struct {
	Name     string
	Children []Block
}

func (*Group) isBlock() {}

// Entity is a diagram node, optionally carrying display attributes and a
// typed field list. Entity IDs are not required to be unique; duplicate IDs
// overwrite in lookups, which is a documented ambiguity of the language.
type Entity struct {
	ID     string
	Attrs  map[string]string
	Fields []Field
}

func (*Entity) isBlock() {}

// Label returns the display label: the "label" attribute when present,
// otherwise the ID.
func (e *Entity) Label() string {
	if l, ok := e.Attrs["label"]; ok && l != "" {
		return l
	}
	return e.ID
}

// Visibility is the class-style member visibility of a field.
type Visibility int

const (
	VisibilityNone Visibility = iota
	VisibilityPublic
	VisibilityPrivate
	VisibilityProtected
	VisibilityPackage
)

// Member distinguishes data fields from methods on class-style entities.
type Member int

const (
	MemberField Member = iota
	MemberMethod
)

// Field is one row of an entity's braced body: a name, an optional type and
// free-form constraint tokens ("pk", "fk", "nullable", ...). Constraints are
// order-preserving and never validated.
type Field struct {
	Name        string
	Type        string
	Constraints []string
	Visibility  Visibility
	Member      Member
}

// EdgeKind is the direction class of an edge.
type EdgeKind int

const (
	// EdgeDirected covers every arrow form: "->", "-->", bare ">".
	EdgeDirected EdgeKind = iota
	// EdgeUndirected is a single bare dash.
	EdgeUndirected
	// EdgeBidirectional is "<>".
	EdgeBidirectional
)

// String returns the kind name used in serialized documents.
func (k EdgeKind) String() string {
	switch k {
	case EdgeUndirected:
		return "undirected"
	case EdgeBidirectional:
		return "bidirectional"
	default:
		return "directed"
	}
}

// Cardinality carries optional relationship multiplicities on an edge.
type Cardinality struct {
	From string
	To   string
}

// Edge is a single already-expanded connection between two node IDs.
type Edge struct {
	From        string
	To          string
	Kind        EdgeKind
	Label       string
	Cardinality *Cardinality
}

// SelfLoop reports whether the edge starts and ends on the same node.
func (e Edge) SelfLoop() bool { return e.From == e.To }
