package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ryanm101/gameshelf/internal/catalog"
	"github.com/ryanm101/gameshelf/internal/library"
	"github.com/ryanm101/gameshelf/internal/logging"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondLibraryError maps collection errors onto status codes.
func respondLibraryError(w http.ResponseWriter, err error) {
	var verr *library.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, library.ErrNotFound):
		respondError(w, http.StatusNotFound, "game not found")
	default:
		logging.Error("collection operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondCatalogError maps catalog errors onto status codes.
func respondCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrEmptyQuery),
		errors.Is(err, catalog.ErrCredentials),
		errors.Is(err, catalog.ErrAuth):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		logging.Warn("catalog request failed", "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
