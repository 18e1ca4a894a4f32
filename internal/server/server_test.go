package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diaglot/diaglot/pkg/errors"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{})
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Render-ID") == "" {
		t.Error("X-Render-ID header missing")
	}
}

func TestParseEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/parse", parseRequest{
		Source: "web [color: blue]\nweb -> api : calls\n",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp parseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RenderID == "" {
		t.Error("render_id missing")
	}
	if len(resp.Document) == 0 {
		t.Error("document missing")
	}
	var doc map[string]any
	if err := json.Unmarshal(resp.Document, &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
}

func TestParseEndpointDiagnostics(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/parse", parseRequest{Source: "web ->\n"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp parseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Diagnostics) == 0 {
		t.Error("dangling connector should surface a diagnostic")
	}
}

func TestRenderEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s, "/api/render", renderRequest{
		Source:  "type sequence\nclient -> server : request\n",
		Formats: []string{"svg", "dot"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp renderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Archetype != "sequence" {
		t.Errorf("archetype = %q", resp.Archetype)
	}
	if !strings.HasPrefix(resp.Artifacts["svg"], "<svg") {
		t.Error("svg artifact missing or malformed")
	}
	if !strings.HasPrefix(resp.Artifacts["dot"], "digraph G") {
		t.Error("dot artifact missing or malformed")
	}
	if resp.Cached {
		t.Error("null cache run should not report cached")
	}
}

func TestRenderEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"empty source", renderRequest{Source: ""}, http.StatusBadRequest},
		{"bad dialect", renderRequest{Source: "a -> b", Dialect: "graphml"}, http.StatusBadRequest},
		{"bad format", renderRequest{Source: "a -> b", Formats: []string{"png"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, s, "/api/render", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.want, rec.Body)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code == "" || resp.Error == "" {
				t.Errorf("error response incomplete: %+v", resp)
			}
		})
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/parse", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeParse, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{errors.Code(""), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusForCode(tt.code); got != tt.want {
			t.Errorf("statusForCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
