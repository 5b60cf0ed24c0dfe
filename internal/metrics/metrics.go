package metrics

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Gauges
	GamesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameshelf_games_total",
		Help: "Total number of games in the collection.",
	})
	CompletedGamesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameshelf_completed_games_total",
		Help: "Number of games marked as completed.",
	})
	PlatformsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameshelf_platforms_total",
		Help: "Number of distinct platforms in the collection.",
	})
	SheetCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameshelf_sheet_cache_entries",
		Help: "Number of stored game sheet cache rows.",
	})

	// Catalog
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameshelf_catalog_requests_total",
		Help: "Outbound catalog requests by endpoint and outcome.",
	}, []string{"endpoint", "status"}) // status: ok, error, empty

	CatalogDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gameshelf_catalog_request_duration_seconds",
		Help:    "Duration of outbound catalog requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameshelf_token_refreshes_total",
		Help: "Access token fetches by outcome.",
	}, []string{"status"})

	SummaryLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameshelf_summary_lookups_total",
		Help: "Localized summary lookups by outcome.",
	}, []string{"result"}) // result: found, none, cached

	LookupCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameshelf_lookup_cache_results_total",
		Help: "Lookup cache reads by cache name and result.",
	}, []string{"cache", "result"}) // result: hit, miss

	// Sheets
	SheetRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameshelf_sheet_requests_total",
		Help: "Game sheet reads by how they were served.",
	}, []string{"result"}) // result: cache_hit, fetched, fallback

	// HTTP
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameshelf_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gameshelf_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// UpdateDBMetrics refreshes gauges that reflect the current state of the database.
func UpdateDBMetrics(ctx context.Context, db *sql.DB) error {
	var games, completed, platforms, sheets int

	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&games); err != nil {
		return err
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games WHERE completed = $1", true).Scan(&completed); err != nil {
		return err
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT platform) FROM games").Scan(&platforms); err != nil {
		return err
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sheet_cache").Scan(&sheets); err != nil {
		return err
	}

	GamesTotal.Set(float64(games))
	CompletedGamesTotal.Set(float64(completed))
	PlatformsTotal.Set(float64(platforms))
	SheetCacheEntries.Set(float64(sheets))

	return nil
}

// RecordCatalogRequest records one outbound catalog call.
func RecordCatalogRequest(endpoint, status string, start time.Time) {
	CatalogRequests.WithLabelValues(endpoint, status).Inc()
	CatalogDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route string, code int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordLookup records a lookup cache hit or miss.
func RecordLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	LookupCacheResults.WithLabelValues(cache, result).Inc()
}
