package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/diaglot/diaglot/pkg/errors"
	diagio "github.com/diaglot/diaglot/pkg/io"
	"github.com/diaglot/diaglot/pkg/parser"
	"github.com/diaglot/diaglot/pkg/pipeline"
)

// maxRequestBytes bounds request bodies well above the source size
// limit so oversized sources fail validation, not the transport.
const maxRequestBytes = 4 << 20

// =============================================================================
// Request / Response Types
// =============================================================================

type parseRequest struct {
	Source  string `json:"source"`
	Dialect string `json:"dialect,omitempty"`
}

type parseResponse struct {
	RenderID    string          `json:"render_id"`
	Document    json.RawMessage `json:"document"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

type renderRequest struct {
	Source  string   `json:"source"`
	Dialect string   `json:"dialect,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`
}

type renderResponse struct {
	RenderID    string            `json:"render_id"`
	Archetype   string            `json:"archetype"`
	Artifacts   map[string]string `json:"artifacts"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
	Cached      bool              `json:"cached"`
}

type errorResponse struct {
	RenderID string `json:"render_id,omitempty"`
	Code     string `json:"code"`
	Error    string `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse parses a diagram source and returns the document in the
// interchange format, without running layout.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	opts := pipeline.Options{Source: req.Source, Dialect: req.Dialect, Logger: s.logger}
	doc, diags, _, err := s.runner.ParseWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := diagio.MarshalDocument(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		RenderID:    renderIDFromContext(r.Context()),
		Document:    data,
		Diagnostics: diagnosticStrings(diags),
	})
}

// handleRender runs the full pipeline and returns the requested
// artifacts. Text formats (svg, dot) come back as strings; the json
// layout artifact is embedded as a string of JSON.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	opts := pipeline.Options{
		Source:  req.Source,
		Dialect: req.Dialect,
		Formats: req.Formats,
		Refresh: req.Refresh,
		Logger:  s.logger,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	artifacts := make(map[string]string, len(result.Artifacts))
	for format, data := range result.Artifacts {
		artifacts[format] = string(data)
	}

	writeJSON(w, http.StatusOK, renderResponse{
		RenderID:    renderIDFromContext(r.Context()),
		Archetype:   result.Document.Archetype.String(),
		Artifacts:   artifacts,
		Diagnostics: diagnosticStrings(result.Diagnostics),
		Cached:      result.CacheInfo.ParseHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// decodeRequest reads and decodes a JSON request body, writing the
// error response itself on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusForCode(code), errorResponse{
		RenderID: renderIDFromContext(r.Context()),
		Code:     string(code),
		Error:    errors.UserMessage(err),
	})
}

// statusForCode maps error codes to HTTP status codes. Anything the
// caller could fix is a 400; everything else is a 500.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDialect,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeParse, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func diagnosticStrings(diags []parser.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String())
	}
	return out
}
