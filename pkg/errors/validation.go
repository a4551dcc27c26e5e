package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateRunID validates a generation run identifier.
// Run identifiers are UUIDs; anything else is rejected before it reaches a
// cache key or a database query.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRunID, "run ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidRunID, err, "invalid run ID %q", id)
	}
	return nil
}

// ValidateProbability checks that p is a finite number in [0, 1].
// The name is used only to build the error message.
func ValidateProbability(name string, p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return New(ErrCodeInvalidParams, "%s probability must be a finite number", name)
	}
	if p < 0 || p > 1 {
		return New(ErrCodeInvalidParams, "%s probability must be in [0, 1], got %g", name, p)
	}
	return nil
}

// ValidateOutputPath validates a file path supplied for generated output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidInput, "output path must name a file, not a directory")
	}

	return nil
}
