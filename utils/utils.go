// Package utils provides utility functions for the application.
package utils

import "github.com/google/uuid"

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// IntOrZero dereferences an optional counter, treating absent as zero.
func IntOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// ParseUUID parses a UUID string into a uuid.UUID.
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
