package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationIssue is one problem found in the generation parameters.
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError collects every problem found in the generation parameters.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid parameters"
	case 1:
		return fmt.Sprintf("invalid parameters: %s: %s", e.Issues[0].Field, e.Issues[0].Message)
	}
	parts := []string{fmt.Sprintf("%d invalid parameters:", len(e.Issues))}
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, ValidationIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
