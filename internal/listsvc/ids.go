package listsvc

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewListID returns a lowercase ULID. List ids sort by creation time, which
// keeps the file backend's directory listing and the SQLite index readable.
func NewListID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return strings.ToLower(id.String())
}

// NewItemID returns a random UUID.
func NewItemID() string {
	return uuid.NewString()
}
