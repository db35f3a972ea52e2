package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared by the list service, the HTTP layer, and the API client.
var (
	ErrValidation     = errors.New("validation error")
	ErrMalformed      = errors.New("malformed request")
	ErrNotFound       = errors.New("not found")
	ErrAuthRequired   = errors.New("password required")
	ErrAuthIncorrect  = errors.New("incorrect password")
	ErrConflict       = errors.New("conflict")
	ErrUpstream       = errors.New("upstream failure")
	ErrTransientStore = errors.New("store unavailable")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransientStore
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the sentinel marker carried by err, or nil when err is not
// classified.
func Kind(err error) error {
	for _, marker := range []error{
		ErrValidation,
		ErrMalformed,
		ErrNotFound,
		ErrAuthRequired,
		ErrAuthIncorrect,
		ErrConflict,
		ErrUpstream,
		ErrTransientStore,
	} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
