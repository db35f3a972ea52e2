package client

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"watchlist/internal/api"
	"watchlist/internal/services"
)

// ErrAPIUnavailable reports that the daemon could not be reached.
var ErrAPIUnavailable = errors.New("watchlist API unavailable")

// APIError is a non-2xx response.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps the status back to the error kind the server translated.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return services.ErrMalformed
	case http.StatusUnauthorized:
		if e.Message == api.MessageAuthIncorrect {
			return services.ErrAuthIncorrect
		}
		return services.ErrAuthRequired
	case http.StatusNotFound:
		return services.ErrNotFound
	case http.StatusConflict:
		return services.ErrConflict
	case http.StatusUnprocessableEntity:
		return services.ErrValidation
	case http.StatusBadGateway:
		return services.ErrUpstream
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return services.ErrTransientStore
	default:
		return nil
	}
}

// IsAPIUnavailable reports whether err came from failing to reach the daemon
// rather than from a response.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
