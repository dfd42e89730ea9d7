// Package ident defines resource identifiers.
//
// Identifiers are opaque UUID strings assigned when a resource is created. The on-disk
// format writes the all-zero UUID for an unset reference, so both that value and the
// empty string are treated as null.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// ID identifies one resource within a project.
type ID string

// Null is the sentinel the project format writes for unset references.
const Null ID = "00000000-0000-0000-0000-000000000000"

// Generate returns a fresh random identifier.
func Generate() ID {
	return ID(uuid.NewString())
}

// IsNull reports whether id is the unset sentinel.
func IsNull(id ID) bool {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return true
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u == uuid.Nil
}

// Valid reports whether id is a well-formed, non-null identifier.
func Valid(id ID) bool {
	if IsNull(id) {
		return false
	}
	_, err := uuid.Parse(string(id))
	return err == nil
}

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// OrNull returns Null for an empty id so it can be written back to disk.
func OrNull(id ID) ID {
	if IsNull(id) {
		return Null
	}
	return id
}
