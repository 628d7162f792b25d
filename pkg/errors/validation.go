package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node, edge and structure identifiers.
const maxIDLength = 256

// ValidateStructureID validates an externally supplied structure identifier.
// Structure ids end up in request paths and draft storage keys, so the rules
// reject anything that could escape a path segment:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateStructureID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidStructureID, "structure id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidStructureID, "structure id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStructureID, "structure id contains control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidStructureID, "structure id contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateElementID validates a node or edge identifier supplied by a client.
// Element ids are opaque but must be printable and bounded.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains control characters")
		}
	}
	return nil
}
