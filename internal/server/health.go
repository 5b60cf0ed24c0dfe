package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/metrics"
)

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if err := metrics.UpdateDBMetrics(r.Context(), s.db.Conn()); err != nil {
		logging.Warn("failed to update db metrics", "error", err)
	}
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := s.db.Conn().PingContext(ctx)
	status := "healthy"
	code := http.StatusOK
	if err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]any{
		"status":             status,
		"db":                 err == nil,
		"driver":             s.db.Driver(),
		"catalog_configured": s.catalog != nil && s.catalog.Configured(),
	})
}
