package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"gigfeed/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("encode response")
		}
	}
}

// writeError is the single place error kinds become status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperror.ErrRateLimited):
		status = http.StatusTooManyRequests
		message = err.Error()
	case errors.Is(err, apperror.ErrUpstream):
		status = http.StatusBadGateway
		message = err.Error()
	default:
		log.Error().Err(err).Msg("request failed")
	}

	writeJSON(w, status, errorResponse{Error: message})
}
