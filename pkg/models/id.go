package models

import "github.com/oklog/ulid/v2"

// NewID returns a new time ordered identifier.
func NewID() string {
	return ulid.Make().String()
}
