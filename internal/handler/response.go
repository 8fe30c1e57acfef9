package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/infrastructure/logger"
)

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a mutation that returns no resource
type MessageResponse struct {
	Message string `json:"message"`
	Saved   *bool  `json:"saved,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// statusOf maps the error taxonomy onto HTTP status codes
func statusOf(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if !errors.Is(err, domain.ErrInternal) {
			logger.FromContext(r.Context(), log).Error("unmapped error",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
		}
		msg = "internal server error"
	}
	writeJSON(w, log, status, ErrorResponse{Error: msg})
}

// decodeJSON reads one JSON object from the body. Malformed or oversized
// bodies become validation errors.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.Invalid("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return domain.Invalid("body", "request body too large")
		case errors.Is(err, io.EOF):
			return domain.Invalid("body", "request body is required")
		default:
			return domain.Invalid("body", "invalid JSON body")
		}
	}
	return nil
}
