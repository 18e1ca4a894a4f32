package token

import "testing"

// kinds extracts the kind sequence of a stream for compact comparison.
func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeAlwaysEndsWithEOF(t *testing.T) {
	inputs := []string{"", "a -> b", "\n\n\n", "\"unterminated", "###", "// only a comment"}
	for _, src := range inputs {
		toks := Tokenize(src)
		if len(toks) == 0 {
			t.Fatalf("Tokenize(%q) returned empty stream", src)
		}
		if last := toks[len(toks)-1]; last.Kind != KindEOF {
			t.Errorf("Tokenize(%q) last token = %v, want EOF", src, last.Kind)
		}
	}
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{
			name: "simple edge",
			src:  "a -> b",
			want: []Kind{KindIdent, KindConnector, KindIdent, KindEOF},
		},
		{
			name: "long arrow",
			src:  "a --> b",
			want: []Kind{KindIdent, KindConnector, KindIdent, KindEOF},
		},
		{
			name: "bidirectional",
			src:  "a <> b",
			want: []Kind{KindIdent, KindConnector, KindIdent, KindEOF},
		},
		{
			name: "bare dash edge",
			src:  "a - b",
			want: []Kind{KindIdent, KindConnector, KindIdent, KindEOF},
		},
		{
			name: "entity block",
			src:  "users {\n  id: int\n}",
			want: []Kind{
				KindIdent, KindLBrace, KindNewline,
				KindIdent, KindColon, KindIdent, KindNewline,
				KindRBrace, KindEOF,
			},
		},
		{
			name: "mermaid label",
			src:  "a -->|calls| b",
			want: []Kind{KindIdent, KindConnector, KindPipe, KindIdent, KindPipe, KindIdent, KindEOF},
		},
		{
			name: "plantuml header",
			src:  "@startuml",
			want: []Kind{KindAt, KindIdent, KindEOF},
		},
		{
			name: "attributes",
			src:  `a [label: "API", color: blue]`,
			want: []Kind{
				KindIdent, KindLBracket, KindIdent, KindColon, KindString,
				KindComma, KindIdent, KindColon, KindIdent, KindRBracket, KindEOF,
			},
		},
		{
			name: "comment skipped",
			src:  "a // trailing noise -> b\nb",
			want: []Kind{KindIdent, KindNewline, KindIdent, KindEOF},
		},
		{
			name: "unknown char",
			src:  "a & b",
			want: []Kind{KindIdent, KindOther, KindIdent, KindEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(Tokenize(tt.src))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v, want %v (stream %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestTokenizeIdentifierRuns(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"api-gateway", "api-gateway"},
		{"schema.table", "schema.table"},
		{"foo_bar", "foo_bar"},
		{"v2-api.internal", "v2-api.internal"},
	}

	for _, tt := range tests {
		toks := Tokenize(tt.src)
		if len(toks) != 2 {
			t.Errorf("Tokenize(%q) = %d tokens, want ident+EOF", tt.src, len(toks))
			continue
		}
		if toks[0].Kind != KindIdent || toks[0].Text != tt.want {
			t.Errorf("Tokenize(%q)[0] = %v %q, want IDENT %q", tt.src, toks[0].Kind, toks[0].Text, tt.want)
		}
	}
}

func TestTokenizeDashBeforeArrowSplits(t *testing.T) {
	// The dash run belongs to the arrow, not the identifier.
	toks := Tokenize("a-->b")
	got := kinds(toks)
	want := []Kind{KindIdent, KindConnector, KindIdent, KindEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if toks[0].Text != "a" || toks[1].Text != "-->" || toks[2].Text != "b" {
		t.Errorf("texts = %q %q %q, want a --> b", toks[0].Text, toks[1].Text, toks[2].Text)
	}

	// Single dash followed by > is a short arrow.
	toks = Tokenize("a->b")
	if toks[1].Kind != KindConnector || toks[1].Text != "->" {
		t.Errorf("a->b middle token = %v %q, want CONNECTOR ->", toks[1].Kind, toks[1].Text)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		src      string
		wantKind Kind
	}{
		{"42", KindNumber},
		{"3.14", KindNumber},
		{"v2", KindIdent},  // mixed run stays an identifier
		{"1.2.3", KindNumber},
	}

	for _, tt := range tests {
		toks := Tokenize(tt.src)
		if toks[0].Kind != tt.wantKind {
			t.Errorf("Tokenize(%q)[0].Kind = %v, want %v", tt.src, toks[0].Kind, tt.wantKind)
		}
	}
}

func TestTokenizeStrings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"double quotes", `"hello world"`, "hello world"},
		{"single quotes", `'hello world'`, "hello world"},
		{"escaped quote", `"he said \"hi\""`, `he said "hi"`},
		{"escaped backslash", `"a\\b"`, `a\b`},
		{"unterminated consumes to EOF", `"no closing quote`, "no closing quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := Tokenize(tt.src)
			if toks[0].Kind != KindString {
				t.Fatalf("kind = %v, want STRING", toks[0].Kind)
			}
			if toks[0].Text != tt.want {
				t.Errorf("text = %q, want %q", toks[0].Text, tt.want)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	toks := Tokenize("a -> b\nc")
	// a at 1:1, -> at 1:3, b at 1:6, newline, c at 2:1
	checks := []struct {
		idx  int
		line int
		col  int
	}{
		{0, 1, 1},
		{1, 1, 3},
		{2, 1, 6},
		{4, 2, 1},
	}
	for _, c := range checks {
		tok := toks[c.idx]
		if tok.Line != c.line || tok.Col != c.col {
			t.Errorf("token %d (%q) at %s, want %d:%d", c.idx, tok.Text, tok.Pos(), c.line, c.col)
		}
	}
}

func TestTokenSignificance(t *testing.T) {
	toks := Tokenize("a\n")
	if !toks[0].IsSignificant() {
		t.Error("identifier should be significant")
	}
	if toks[1].IsSignificant() {
		t.Error("newline should not be significant")
	}
	if toks[2].IsSignificant() {
		t.Error("EOF should not be significant")
	}
}
