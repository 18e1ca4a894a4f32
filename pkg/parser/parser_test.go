package parser

import (
	"testing"

	"github.com/diaglot/diaglot/pkg/ast"
	"github.com/diaglot/diaglot/pkg/token"
)

func parse(t *testing.T, src string) (*ast.Document, []Diagnostic) {
	t.Helper()
	doc, diags := ParseText(src)
	if doc == nil {
		t.Fatal("ParseText returned nil document")
	}
	return doc, diags
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Dialect
	}{
		{"empty", "", DialectNative},
		{"native edge", "a -> b", DialectNative},
		{"native metadata", "title My Diagram\na -> b", DialectNative},
		{"plantuml", "@startuml\na -> b\n@enduml", DialectPlantUML},
		{"plantuml mindmap", "@startmindmap\n* root", DialectPlantUML},
		{"mermaid graph", "graph TD\na --> b", DialectMermaid},
		{"mermaid flowchart", "flowchart LR\na --> b", DialectMermaid},
		{"mermaid sequence", "sequenceDiagram\na ->> b", DialectMermaid},
		{"mermaid class", "classDiagram\nclass Foo", DialectMermaid},
		{"mermaid er", "erDiagram\nusers ||--o{ orders", DialectMermaid},
		{"keyword past window stays native", "a b c d e f g h i j k\ngraph TD", DialectNative},
		{"at without start marker", "@import something\na -> b", DialectNative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(token.Tokenize(tt.src))
			if got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestDialectFromString(t *testing.T) {
	for _, name := range []string{"native", "plantuml", "mermaid"} {
		d, ok := DialectFromString(name)
		if !ok {
			t.Errorf("DialectFromString(%q) not recognized", name)
		}
		if d.String() != name {
			t.Errorf("round trip %q = %q", name, d.String())
		}
	}
	if _, ok := DialectFromString("graphviz"); ok {
		t.Error("unknown dialect name should not resolve")
	}
}

func TestParseEdgeFanOut(t *testing.T) {
	doc, diags := parse(t, "a, b -> c, d : calls")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(doc.Edges) != 4 {
		t.Fatalf("edge count = %d, want 4 (%v)", len(doc.Edges), doc.Edges)
	}

	want := map[[2]string]bool{
		{"a", "c"}: true, {"a", "d"}: true,
		{"b", "c"}: true, {"b", "d"}: true,
	}
	for _, e := range doc.Edges {
		if !want[[2]string{e.From, e.To}] {
			t.Errorf("unexpected edge %s -> %s", e.From, e.To)
		}
		if e.Label != "calls" {
			t.Errorf("edge %s->%s label = %q, want %q", e.From, e.To, e.Label, "calls")
		}
	}
}

func TestParseEdgeChain(t *testing.T) {
	doc, _ := parse(t, "x > y -> z")
	if len(doc.Edges) != 2 {
		t.Fatalf("edge count = %d, want 2", len(doc.Edges))
	}
	if doc.Edges[0].From != "x" || doc.Edges[0].To != "y" {
		t.Errorf("first edge = %s->%s, want x->y", doc.Edges[0].From, doc.Edges[0].To)
	}
	if doc.Edges[1].From != "y" || doc.Edges[1].To != "z" {
		t.Errorf("second edge = %s->%s, want y->z", doc.Edges[1].From, doc.Edges[1].To)
	}
}

func TestParseEdgeKinds(t *testing.T) {
	tests := []struct {
		src  string
		want ast.EdgeKind
	}{
		{"a -> b", ast.EdgeDirected},
		{"a --> b", ast.EdgeDirected},
		{"a > b", ast.EdgeDirected},
		{"a - b", ast.EdgeUndirected},
		{"a <> b", ast.EdgeBidirectional},
	}

	for _, tt := range tests {
		doc, _ := parse(t, tt.src)
		if len(doc.Edges) != 1 {
			t.Errorf("%q: edge count = %d, want 1", tt.src, len(doc.Edges))
			continue
		}
		if doc.Edges[0].Kind != tt.want {
			t.Errorf("%q: kind = %v, want %v", tt.src, doc.Edges[0].Kind, tt.want)
		}
	}
}

func TestParseMermaidPipeLabel(t *testing.T) {
	doc, _ := parse(t, "graph TD\na -->|sends| b")
	if len(doc.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(doc.Edges))
	}
	if doc.Edges[0].Label != "sends" {
		t.Errorf("label = %q, want %q", doc.Edges[0].Label, "sends")
	}
}

func TestParseNativePipeIsNotALabel(t *testing.T) {
	doc, _ := parse(t, "a -> b |")
	if len(doc.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(doc.Edges))
	}
	if doc.Edges[0].Label != "" {
		t.Errorf("label = %q, want empty (pipe labels are mermaid syntax)", doc.Edges[0].Label)
	}

	doc, _ = parse(t, "a -> b | note")
	for _, e := range doc.Edges {
		if e.Label != "" {
			t.Errorf("edge %s->%s label = %q, want empty", e.From, e.To, e.Label)
		}
	}
}

func TestParseCardinality(t *testing.T) {
	doc, _ := parse(t, `users "1" -> "many" orders`)
	if len(doc.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1 (%v)", len(doc.Edges), doc.Edges)
	}
	e := doc.Edges[0]
	if e.From != "users" || e.To != "orders" {
		t.Fatalf("edge = %s->%s, want users->orders", e.From, e.To)
	}
	if e.Cardinality == nil {
		t.Fatal("cardinality missing")
	}
	if e.Cardinality.From != "1" || e.Cardinality.To != "many" {
		t.Errorf("cardinality = %q/%q, want 1/many", e.Cardinality.From, e.Cardinality.To)
	}
}

func TestParseDanglingConnector(t *testing.T) {
	doc, diags := parse(t, "a ->")
	if len(doc.Edges) != 0 {
		t.Errorf("edge count = %d, want 0", len(doc.Edges))
	}
	if len(diags) == 0 {
		t.Error("dangling connector should produce a diagnostic")
	}
}

func TestParseEntityWithFields(t *testing.T) {
	doc, diags := parse(t, `users {
  id int pk
  email string unique
}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	ents := doc.Entities()
	if len(ents) != 1 {
		t.Fatalf("entity count = %d, want 1", len(ents))
	}
	e := ents[0]
	if e.ID != "users" {
		t.Errorf("id = %q, want users", e.ID)
	}
	if len(e.Fields) != 2 {
		t.Fatalf("field count = %d, want 2", len(e.Fields))
	}
	if e.Fields[0].Name != "id" || e.Fields[0].Type != "int" {
		t.Errorf("field 0 = %q %q, want id int", e.Fields[0].Name, e.Fields[0].Type)
	}
	if len(e.Fields[0].Constraints) != 1 || e.Fields[0].Constraints[0] != "pk" {
		t.Errorf("field 0 constraints = %v, want [pk]", e.Fields[0].Constraints)
	}
	if e.Fields[1].Name != "email" || e.Fields[1].Type != "string" {
		t.Errorf("field 1 = %q %q, want email string", e.Fields[1].Name, e.Fields[1].Type)
	}
}

func TestParseEntityVsGroupLookahead(t *testing.T) {
	// A body of field rows (two idents on one line) makes an entity.
	doc, _ := parse(t, "users {\n  id int\n}")
	if len(doc.Entities()) != 1 || len(doc.Groups()) != 0 {
		t.Errorf("field body: entities=%d groups=%d, want 1/0", len(doc.Entities()), len(doc.Groups()))
	}

	// A body of declarations makes a group.
	doc, _ = parse(t, "backend {\n  api [color: red]\n  db [color: blue]\n}")
	if len(doc.Groups()) != 1 {
		t.Fatalf("declaration body: groups=%d, want 1", len(doc.Groups()))
	}
	if got := len(doc.Entities()); got != 2 {
		t.Errorf("declaration body: entities=%d, want 2", got)
	}

	// A body with an edge makes a group.
	doc, _ = parse(t, "backend {\n  api -> db\n}")
	if len(doc.Groups()) != 1 {
		t.Errorf("edge body: groups=%d, want 1", len(doc.Groups()))
	}
	if len(doc.Edges) != 1 {
		t.Errorf("edge body: edges=%d, want 1", len(doc.Edges))
	}
}

func TestParseNestedGroups(t *testing.T) {
	doc, _ := parse(t, `group platform {
  group backend {
    api [label: "API"]
  }
}`)
	groups := doc.Groups()
	if len(groups) != 2 {
		t.Fatalf("group count = %d, want 2", len(groups))
	}
	ents := doc.Entities()
	if len(ents) != 1 {
		t.Fatalf("entity count = %d, want 1", len(ents))
	}
	if ents[0].Attrs["label"] != "API" {
		t.Errorf("label attr = %q, want API", ents[0].Attrs["label"])
	}
}

func TestParseMetadata(t *testing.T) {
	doc, _ := parse(t, "title Order Flow\ndirection right\ndraft\na -> b")

	if got := doc.Meta("title"); got != "Order Flow" {
		t.Errorf("title = %q, want %q", got, "Order Flow")
	}
	if got := doc.Meta("direction"); got != "right" {
		t.Errorf("direction = %q, want right", got)
	}
	if !doc.HasFlag("draft") {
		t.Error("bare metadata key should coerce to a flag")
	}
	if doc.HasFlag("missing") {
		t.Error("absent key should not report as flag")
	}
}

func TestParseAttrPairs(t *testing.T) {
	doc, _ := parse(t, `api [label: "Gateway", color: blue, external]`)
	ents := doc.Entities()
	if len(ents) != 1 {
		t.Fatalf("entity count = %d, want 1", len(ents))
	}
	attrs := ents[0].Attrs
	if attrs["label"] != "Gateway" {
		t.Errorf("label = %q, want Gateway", attrs["label"])
	}
	if attrs["color"] != "blue" {
		t.Errorf("color = %q, want blue", attrs["color"])
	}
	if v, ok := attrs["external"]; !ok || v != "" {
		t.Errorf("external = %q,%v, want empty flag attribute", v, ok)
	}
}

func TestParseEscapedStringAttr(t *testing.T) {
	doc, _ := parse(t, `MyNode [label: "It\'s a label, \"quoted\""]`)
	ents := doc.Entities()
	if len(ents) != 1 {
		t.Fatalf("entity count = %d, want 1", len(ents))
	}
	want := `It's a label, "quoted"`
	if got := ents[0].Attrs["label"]; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}
}

func TestParseMissingBraceDiagnostic(t *testing.T) {
	doc, diags := parse(t, "backend {\n  api [tier: edge]\n  db [tier: data]")
	if len(diags) == 0 {
		t.Fatal("unclosed group should produce a diagnostic")
	}
	// Children gathered before EOF are kept.
	if got := len(doc.Entities()); got != 2 {
		t.Errorf("entities = %d, want 2", got)
	}
}

func TestParsePlantUMLParticipants(t *testing.T) {
	doc, _ := parse(t, `@startuml
participant client
participant "Order Service" as orders
client -> orders : create
@enduml`)

	ents := doc.Entities()
	if len(ents) != 2 {
		t.Fatalf("entity count = %d, want 2", len(ents))
	}
	if ents[1].ID != "orders" {
		t.Errorf("aliased id = %q, want orders", ents[1].ID)
	}
	if ents[1].Attrs["label"] != "Order Service" {
		t.Errorf("aliased label = %q, want Order Service", ents[1].Attrs["label"])
	}
	if len(doc.Edges) != 1 || doc.Edges[0].Label != "create" {
		t.Errorf("edges = %v, want one labeled create", doc.Edges)
	}
}

func TestParseMermaidSubgraph(t *testing.T) {
	doc, _ := parse(t, `graph LR
subgraph backend
  api --> db
end
client --> api`)

	groups := doc.Groups()
	if len(groups) != 1 || groups[0].Name != "backend" {
		t.Fatalf("groups = %v, want one named backend", groups)
	}
	if len(doc.Edges) != 2 {
		t.Errorf("edges = %d, want 2", len(doc.Edges))
	}
	if doc.Meta("direction") != "right" {
		t.Errorf("direction = %q, want right (from LR header)", doc.Meta("direction"))
	}
}

func TestParseClassDiagram(t *testing.T) {
	doc, _ := parse(t, `classDiagram
class Account {
  +balance int
  -secret string
  +deposit(amount)
}`)

	ents := doc.Entities()
	if len(ents) != 1 {
		t.Fatalf("entity count = %d, want 1", len(ents))
	}
	fields := ents[0].Fields
	if len(fields) != 3 {
		t.Fatalf("field count = %d, want 3", len(fields))
	}
	if fields[0].Visibility != ast.VisibilityPublic {
		t.Errorf("field 0 visibility = %v, want public", fields[0].Visibility)
	}
	if fields[1].Visibility != ast.VisibilityPrivate {
		t.Errorf("field 1 visibility = %v, want private", fields[1].Visibility)
	}
	if fields[2].Member != ast.MemberMethod {
		t.Errorf("field 2 member = %v, want method", fields[2].Member)
	}
}

func TestParseIdempotent(t *testing.T) {
	src := "group g {\n  a [color: red]\n}\na -> b : x"
	toks := token.Tokenize(src)

	doc1, _ := Parse(toks, Detect(toks))
	doc2, _ := Parse(toks, Detect(toks))

	if len(doc1.Roots) != len(doc2.Roots) || len(doc1.Edges) != len(doc2.Edges) {
		t.Error("parsing the same tokens twice should yield equal structure")
	}
	if len(doc1.Edges) > 0 && doc1.Edges[0] != doc2.Edges[0] {
		t.Errorf("edges differ: %v vs %v", doc1.Edges[0], doc2.Edges[0])
	}
}
