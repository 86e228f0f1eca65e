// Package shortid issues the short identifiers assigned to registered items.
package shortid

import (
	"github.com/gofrs/uuid"
)

// Length is the number of characters of a generated identifier.
const Length = 8

// New returns a short random identifier: the leading hex digits of a
// fresh UUIDv4. Collisions are not checked here; the database reports
// them and callers regenerate.
func New() string {
	return uuid.Must(uuid.NewV4()).String()[:Length]
}
