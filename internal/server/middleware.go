package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const renderIDKey ctxKey = iota

// renderID assigns every request a unique render id, exposed in the
// X-Render-ID response header and carried on the request context so
// handlers can include it in responses and logs.
func renderID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Render-ID", id)
		ctx := context.WithValue(r.Context(), renderIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// renderIDFromContext returns the render id assigned by the renderID
// middleware, or "" outside a request.
func renderIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(renderIDKey).(string)
	return id
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs one line per request with method, path, status,
// duration and render id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"render_id", renderIDFromContext(r.Context()))
	})
}
