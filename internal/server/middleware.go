package server

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/metrics"
)

// accessLog logs each request and records it under its route pattern.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, m.Code, m.Duration)

		log := logging.Info
		if m.Code >= http.StatusInternalServerError {
			log = logging.Warn
		}
		log("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration.String(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
