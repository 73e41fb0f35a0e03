package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// sketchNameRegex matches registry names: lowercase words joined by dashes.
var sketchNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateSketchName validates a sketch registry name.
func ValidateSketchName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "sketch name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "sketch name too long (max 64 characters)")
	}
	if !sketchNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid sketch name: %q", name)
	}
	return nil
}

// ValidateParamKey validates a configuration key used in patches and
// project files. Keys are camelCase identifiers such as "maxR" or "numColors".
func ValidateParamKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidConfig, "parameter key cannot be empty")
	}
	for i, r := range key {
		if i == 0 && !unicode.IsLetter(r) {
			return New(ErrCodeInvalidConfig, "parameter key must start with a letter: %q", key)
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return New(ErrCodeInvalidConfig, "parameter key contains invalid characters: %q", key)
		}
	}
	return nil
}

// ValidatePath validates a relative output or asset path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS-style hex color string.
func ValidateHexColor(s string) error {
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidFormat, "invalid hex color: %q", s)
	}
	return nil
}
