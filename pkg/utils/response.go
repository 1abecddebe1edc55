package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"rental-backend/internal/models"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// Message writes {"message": msg}
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Message: msg})
}

// StatusFor maps an error from the services to its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrSelfDelete):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidLogin):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrTemplateMissing):
		return http.StatusPreconditionFailed
	}
	return http.StatusInternalServerError
}

// Error writes err with the status of its category. Internal errors are
// logged and replaced by a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		Message(w, status, "Internal server error")
		return
	}

	resp := ErrorResponse{Message: err.Error()}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
		resp.Message = ve.Message
	}
	JSON(w, status, resp)
}

// DecodeJSON reads a JSON request body into dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return models.NewValidationError("", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("", "invalid request body")
	}
	return nil
}
