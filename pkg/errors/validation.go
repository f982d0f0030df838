package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxItemIDLength bounds the length of an item identifier.
const MaxItemIDLength = 256

// ValidateItemID validates an item identifier.
//
// Identifiers are echoed into DOT labels, log lines and cache keys, so the
// rules are conservative:
//   - No empty identifiers
//   - No control characters (newlines included)
//   - No null bytes
//   - Maximum length of [MaxItemIDLength] bytes
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}

	if len(id) > MaxItemIDLength {
		return New(ErrCodeInvalidInput, "item id too long (max %d characters)", MaxItemIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidateCacheKey validates a layout cache key received from outside, for
// example in an HTTP path. Keys are produced by the cache keyer as a prefix
// followed by a hex digest.
func ValidateCacheKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "cache key cannot be empty")
	}

	const maxKeyLength = 128
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "cache key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if !(r == ':' || r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			return New(ErrCodeInvalidInput, "cache key contains invalid character %q", r)
		}
	}

	return nil
}

// ValidateInputFormat validates the format name of an item file and returns
// its canonical form: "json", "yaml" or "toml". An empty format is inferred
// from the extension of path.
func ValidateInputFormat(format, path string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch strings.ToLower(format) {
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "toml":
		return "toml", nil
	case "":
		return "", New(ErrCodeInvalidFormat, "cannot infer input format; use --format")
	default:
		return "", New(ErrCodeInvalidFormat, "unsupported input format: %q", format)
	}
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}

// ValidateURL validates a connection URL for a remote cache. Only the schemes
// of the supported backends are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, scheme := range []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use a redis or mongodb scheme")
}
