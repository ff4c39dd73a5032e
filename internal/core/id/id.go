// Package id generates request and trace identifiers.
// UUIDv7 is time-ordered, so ids sort by the moment the request arrived.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a new UUIDv7 in canonical text form.
func New() string {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New().String()
	}
	return v.String()
}

// Span returns a 16 hex digit span identifier.
func Span() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}

// Valid reports whether s is a UUID, for trusting incoming trace headers.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
