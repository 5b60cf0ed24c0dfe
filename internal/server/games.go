package server

import (
	"encoding/json"
	"net/http"

	"github.com/ryanm101/gameshelf/internal/library"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.List(r.Context(), library.ListFilter{
		Platform:  r.URL.Query().Get("platform"),
		Completed: r.URL.Query().Get("completed"),
	})
	if err != nil {
		respondLibraryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, games)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in library.NewGame
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	g, err := s.games.Create(r.Context(), in)
	if err != nil {
		respondLibraryError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		respondLibraryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	var in library.GameUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	g, err := s.games.Update(r.Context(), id, in)
	if err != nil {
		respondLibraryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	if err := s.games.Delete(r.Context(), id); err != nil {
		respondLibraryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.games.Platforms(r.Context())
	if err != nil {
		respondLibraryError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, platforms)
}

// handleSheet always answers 200 for an existing game; catalog trouble yields the fallback sheet.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		respondLibraryError(w, err)
		return
	}

	sh, _ := s.sheets.Get(r.Context(), g)
	respondJSON(w, http.StatusOK, sh)
}
