// Package id generates the UUIDv7 identifiers used by every entity.
// Version 7 embeds a timestamp, so rows sort by creation time and index
// inserts stay local in the B-tree.
package id

import (
	"github.com/google/uuid"
)

// ID aliases uuid.UUID across the codebase.
type ID = uuid.UUID

// New returns a fresh UUIDv7, falling back to v4 on the unlikely case of
// entropy failure.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v7
}

// Parse validates and converts a string.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse panics on invalid input; for constants and tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero UUID.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
