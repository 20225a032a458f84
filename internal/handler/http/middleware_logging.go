package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/go-chi/chi/v5"
)

// withLogging writes one access log entry per request. Command routes also
// get the cmd and method path parameters, known only after routing.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		event := logger.FromRequest(r).Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Int("size", rw.size)

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			event = event.Str("route", rctx.RoutePattern())
			if cmd := rctx.URLParam("cmd"); cmd != "" {
				event = event.Str("cmd", cmd).Str("cmd_method", rctx.URLParam("method"))
			}
		}

		event.Send()
	})
}
