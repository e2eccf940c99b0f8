package assembler

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrOutputIsTemplate is returned when the output path names the template
// itself; copying would truncate the template.
var ErrOutputIsTemplate = errors.New("output path is the template")

// InvocationError reports a hook command with the wrong shape.
type InvocationError struct {
	Command string
	Reason  string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invalid hook command %q: %s", e.Command, e.Reason)
}

// NotFoundError reports a file a hook refers to that does not exist.
type NotFoundError struct {
	Kind string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// IsInvocationError reports whether err wraps an *InvocationError.
func IsInvocationError(err error) bool {
	var target *InvocationError
	return errors.As(err, &target)
}

// IsNotFoundError reports whether err wraps a *NotFoundError.
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
