package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxSourceBytes bounds the diagram source accepted over the API. The
// tokenizer is linear so this is protection against abuse, not
// correctness.
const maxSourceBytes = 1 << 20

// ValidateSource validates raw diagram source before it reaches the
// tokenizer.
//
// The rules are intentionally conservative:
//   - No empty input
//   - No null bytes
//   - Maximum size of 1 MiB
//
// Anything syntactically odd beyond that is the parser's business; it
// reports diagnostics instead of rejecting input.
func ValidateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "diagram source cannot be empty")
	}
	if len(src) > maxSourceBytes {
		return New(ErrCodeInvalidInput, "diagram source too large (max %d bytes)", maxSourceBytes)
	}
	if strings.ContainsRune(src, '\x00') {
		return New(ErrCodeInvalidInput, "diagram source contains null bytes")
	}
	return nil
}

// knownDialects are the names accepted on the command line and API.
var knownDialects = map[string]bool{
	"":         true, // auto-detect
	"auto":     true,
	"native":   true,
	"plantuml": true,
	"mermaid":  true,
}

// ValidateDialect validates a dialect override name.
func ValidateDialect(name string) error {
	if !knownDialects[strings.ToLower(name)] {
		return New(ErrCodeInvalidDialect, "unknown dialect: %q", name)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// identifierRegex matches the identifiers the native dialect accepts:
// word characters plus interior dashes and dots.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]*$`)

// ValidateIdentifier validates a node identifier supplied out of band,
// for example as a CLI filter argument.
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", id)
	}
	return nil
}

// knownFormats are the render output formats.
var knownFormats = map[string]bool{
	"svg":  true,
	"json": true,
	"dot":  true,
}

// ValidateFormat validates a render output format name.
func ValidateFormat(format string) error {
	if !knownFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unknown output format: %q", format)
	}
	return nil
}
