// Package server exposes the collection, catalog lookups and game sheets over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gameshelf/internal/catalog"
	"github.com/ryanm101/gameshelf/internal/db"
	"github.com/ryanm101/gameshelf/internal/library"
	"github.com/ryanm101/gameshelf/internal/logging"
	"github.com/ryanm101/gameshelf/internal/sheet"
)

const requestTimeout = 60 * time.Second

// Options wires a Server.
type Options struct {
	DB          *db.DB
	Catalog     catalog.Client
	SheetTTL    time.Duration
	CORSOrigins []string
}

// Server handles HTTP requests.
type Server struct {
	db      *db.DB
	games   *library.Service
	catalog catalog.Client
	sheets  *sheet.Service
	router  chi.Router
	handler http.Handler
}

// New creates a server and registers its routes.
// A nil Catalog is replaced by an unconfigured client, so catalog routes
// answer with a credentials error and sheets fall back to local data.
func New(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(catalog.Config{})
	}
	s := &Server{
		db:      opts.DB,
		games:   library.NewService(opts.DB),
		catalog: opts.Catalog,
		sheets:  sheet.NewService(opts.DB, opts.Catalog, opts.SheetTTL),
		router:  chi.NewRouter(),
	}
	s.setupRoutes(opts.CORSOrigins)
	s.handler = otelhttp.NewHandler(s.router, "gameshelf",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s
}

// Sheets returns the sheet service, mainly so callers can adjust its clock.
func (s *Server) Sheets() *sheet.Service {
	return s.sheets
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) setupRoutes(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleCreateGame)
		r.Get("/games/{id:[0-9]+}", s.handleGetGame)
		r.Patch("/games/{id:[0-9]+}", s.handleUpdateGame)
		r.Delete("/games/{id:[0-9]+}", s.handleDeleteGame)
		r.Get("/games/{id:[0-9]+}/sheet", s.handleSheet)
		r.Get("/platforms", s.handlePlatforms)

		r.Get("/metadata/search", s.handleMetadataSearch)
		r.Get("/metadata/details/{id}", s.handleMetadataDetails)
		r.Get("/metadata/by-title", s.handleMetadataByTitle)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
