// Package respond is the single exit point for API responses. Every handler
// routes its output through here, so the three canonical envelope shapes
// (data, error, paginated) are enforced in one place.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pulseboard/pulseboard/internal/model"
	"github.com/pulseboard/pulseboard/internal/pagination"
)

// Stable error codes clients can branch on.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type pageEnvelope struct {
	Meta pagination.Page `json:"meta"`
	Data any             `json:"data"`
}

type errorBody struct {
	Code     string   `json:"code"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Data writes the success envelope around a single payload or array.
func Data(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, dataEnvelope{Data: payload})
}

// Page writes the paginated envelope. Meta reflects the filtered collection.
func Page(w http.ResponseWriter, meta pagination.Page, payload any) {
	writeJSON(w, http.StatusOK, pageEnvelope{Meta: meta, Data: payload})
}

// NoContent writes an empty 204 response (the one shape with no body).
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error translates a domain error into the error envelope. Validation
// failures carry one message per violated rule; anything unrecognized is
// reported as internal_error with a generic message and logged, so raw
// storage errors never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
			Code:     CodeValidation,
			Messages: verr.Messages,
		}})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorEnvelope{Error: errorBody{
			Code:    CodeNotFound,
			Message: "resource not found",
		}})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: errorBody{
			Code:    CodeInternal,
			Message: "internal server error",
		}})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}
