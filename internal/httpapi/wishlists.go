package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gigfeed/internal/models"
)

func (s *Server) handleListWishlists(w http.ResponseWriter, r *http.Request) {
	wishlists, err := s.wishlists.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wishlists)
}

func (s *Server) handleCreateWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	wishlist, err := s.wishlists.Create(r.Context(), userIDFromContext(r.Context()), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wishlist)
}

// handleWishlistView returns the projected concert view of a wishlist.
// Optional query parameters: from/to (YYYY-MM-DD, both required for the
// range to apply) and countries (comma-separated allow-list).
func (s *Server) handleWishlistView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid wishlist ID"})
		return
	}

	filter, err := parseConcertFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	view, err := s.wishlists.Project(r.Context(), id, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid wishlist ID"})
		return
	}

	if err := s.wishlists.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWishlistBand(w http.ResponseWriter, r *http.Request) {
	wishlistID, bandID, ok := wishlistBandParams(w, r)
	if !ok {
		return
	}

	if err := s.wishlists.AddBand(r.Context(), wishlistID, bandID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveWishlistBand(w http.ResponseWriter, r *http.Request) {
	wishlistID, bandID, ok := wishlistBandParams(w, r)
	if !ok {
		return
	}

	if err := s.wishlists.RemoveBand(r.Context(), wishlistID, bandID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func wishlistBandParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	wishlistID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid wishlist ID"})
		return 0, 0, false
	}
	bandID, err := strconv.ParseInt(chi.URLParam(r, "bandID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid band ID"})
		return 0, 0, false
	}
	return wishlistID, bandID, true
}

func parseConcertFilter(r *http.Request) (models.ConcertFilter, error) {
	var filter models.ConcertFilter

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errInvalidDate("from")
		}
		filter.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errInvalidDate("to")
		}
		// Inclusive end of day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	if raw := r.URL.Query().Get("countries"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				filter.Countries = append(filter.Countries, trimmed)
			}
		}
	}

	return filter, nil
}

type invalidDateError string

func (e invalidDateError) Error() string {
	return "invalid " + string(e) + " date, expected YYYY-MM-DD"
}

func errInvalidDate(field string) error {
	return invalidDateError(field)
}
