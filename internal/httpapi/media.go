package httpapi

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.media.ListMovies(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleImportMovie(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TMDBID int64 `json:"tmdb_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.TMDBID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tmdb_id is required"})
		return
	}

	movie, err := s.media.ImportMovie(r.Context(), userIDFromContext(r.Context()), req.TMDBID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.media.ListGames(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleSyncGames(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SteamID string `json:"steam_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "steam_id is required"})
		return
	}

	count, err := s.media.SyncGames(r.Context(), userIDFromContext(r.Context()), req.SteamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"synced_games": count})
}
