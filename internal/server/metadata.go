package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ryanm101/gameshelf/internal/catalog"
	"github.com/ryanm101/gameshelf/internal/match"
)

const byTitlePageSize = 10

func (s *Server) handleMetadataSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	pageSize := catalog.DefaultPageSize
	if raw := strings.TrimSpace(q.Get("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "page_size must be a positive integer")
			return
		}
		pageSize = min(n, catalog.MaxPageSize)
	}

	results, err := s.catalog.Search(r.Context(), query, pageSize, strings.TrimSpace(q.Get("platform")))
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleMetadataDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid IGDB id")
		return
	}

	details, err := s.catalog.Details(r.Context(), id, true)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

func (s *Server) handleMetadataByTitle(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	platform := strings.TrimSpace(r.URL.Query().Get("platform"))
	if title == "" {
		respondError(w, http.StatusBadRequest, "title parameter is required")
		return
	}

	results, err := s.catalog.Search(r.Context(), title, byTitlePageSize, "")
	if err != nil {
		respondCatalogError(w, err)
		return
	}

	best, ok := match.BestMatch(results, title, platform)
	if !ok {
		respondError(w, http.StatusNotFound, "no sheet found for this game")
		return
	}
	if best.IGDBID == 0 {
		respondError(w, http.StatusBadGateway, "invalid catalog result")
		return
	}

	details, err := s.catalog.Details(r.Context(), best.IGDBID, true)
	if err != nil {
		respondCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}
