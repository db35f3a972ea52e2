package listsvc

import (
	"errors"

	"watchlist/internal/services"
)

// Error kinds returned by Service operations.
var (
	ErrValidation     = services.ErrValidation
	ErrNotFound       = services.ErrNotFound
	ErrAuthRequired   = services.ErrAuthRequired
	ErrAuthIncorrect  = services.ErrAuthIncorrect
	ErrConflict       = services.ErrConflict
	ErrTransientStore = services.ErrTransientStore

	// ErrIndexDisabled is returned by ListIDs when no index was configured.
	ErrIndexDisabled = errors.New("list index disabled")
)

const component = "listsvc"

func wrap(marker error, operation, message string, err error) error {
	return services.Wrap(marker, component, operation, message, err)
}
