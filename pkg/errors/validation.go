package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// targetNameRegex matches valid target names: lowercase alphanumerics
// separated by single dashes or underscores.
var targetNameRegex = regexp.MustCompile(`^[a-z0-9]+([_-][a-z0-9]+)*$`)

// ValidateTargetName validates a target name for safety and correctness.
// Target names double as lookup keys, cache key components and filenames,
// so the rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Lowercase alphanumerics with interior dashes or underscores only
//
// Names that fail validation are rejected before they reach the filesystem
// or the cache layer.
func ValidateTargetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTarget, "target name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidTarget, "target name too long (max 64 characters)")
	}

	if !targetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTarget, "invalid target name: %q", name)
	}

	return nil
}

// backendNameRegex matches valid rasterizer backend names.
var backendNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateBackendName validates a rasterizer backend name.
// Backend names appear in CLI flags, API requests and cache keys.
func ValidateBackendName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidBackend, "backend name cannot be empty")
	}

	if !backendNameRegex.MatchString(name) {
		return New(ErrCodeInvalidBackend, "invalid backend name: %q", name)
	}

	return nil
}

// runIDRegex matches UUID-shaped run identifiers.
var runIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateRunID validates a run identifier.
// Run IDs become filenames in the history store, so anything that is not
// a plain lowercase UUID is rejected.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run ID cannot be empty")
	}

	if !runIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid run ID: %q", id)
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
// Manifests may reference image files relative to the manifest directory;
// those references go through this check before being joined.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
