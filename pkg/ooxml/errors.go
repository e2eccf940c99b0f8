package ooxml

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by every accessor of a Package after Close.
	ErrClosed = errors.New("package is closed")

	// ErrNotDocument is returned when a container lacks the parts of a word-processing package.
	ErrNotDocument = errors.New("not a word-processing package")
)

// DocumentError represents an error during package operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	switch {
	case e.Path != "" && e.Cause != nil:
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	case e.Cause != nil:
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// IsDocumentError reports whether err wraps a *DocumentError.
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}
