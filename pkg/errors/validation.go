package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePath validates a diagram path relative to an input collection.
// It prevents path traversal out of the collection directory.
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

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateDiagramName validates the file name of a DOT diagram.
// The name must be a safe relative path accepted by [IsDiagramFile].
func ValidateDiagramName(name string) error {
	if err := ValidatePath(name); err != nil {
		return err
	}
	if !IsDiagramFile(name) {
		return New(ErrCodeInvalidPath, "diagram must have a .dot or .gv extension: %q", name)
	}
	return nil
}

// IsDiagramFile reports whether name has a DOT extension (.dot or .gv, any
// case).
func IsDiagramFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dot", ".gv":
		return true
	}
	return false
}
