package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"watchlist/internal/api"
	"watchlist/internal/listsvc"
	"watchlist/internal/logging"
	"watchlist/internal/services"
	"watchlist/internal/watchlist"
)

// Messages shown to users for the error kinds that have a fixed wording.
const (
	msgAuthRequired  = api.MessageAuthRequired
	msgAuthIncorrect = api.MessageAuthIncorrect
	msgConflict      = api.MessageConflict
	msgNotFound      = "Not found."
	msgIndexDisabled = "List enumeration is disabled."
	msgUpstream      = "Movie lookup failed."
	msgStore         = "Storage temporarily unavailable."
	msgInternal      = "Internal error."
)

// statusFor maps an error kind to its HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	if errors.Is(err, listsvc.ErrIndexDisabled) {
		return http.StatusNotFound, msgIndexDisabled
	}
	switch services.Kind(err) {
	case services.ErrMalformed:
		return http.StatusBadRequest, "Malformed request body."
	case services.ErrAuthRequired:
		return http.StatusUnauthorized, msgAuthRequired
	case services.ErrAuthIncorrect:
		return http.StatusUnauthorized, msgAuthIncorrect
	case services.ErrNotFound:
		return http.StatusNotFound, msgNotFound
	case services.ErrConflict:
		return http.StatusConflict, msgConflict
	case services.ErrValidation:
		return http.StatusUnprocessableEntity, validationMessage(err)
	case services.ErrUpstream:
		return http.StatusBadGateway, msgUpstream
	case services.ErrTransientStore:
		return http.StatusInternalServerError, msgStore
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func validationMessage(err error) string {
	var field *watchlist.FieldError
	if errors.As(err, &field) {
		return field.Error()
	}
	msg := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
	if msg == "" {
		return "Invalid request."
	}
	return msg
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message, Status: status})
}

// fail reports err to the client; server-side failures are logged with the
// request's correlation fields.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "request failed", "api_error",
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	s.writeError(w, status, message)
}
