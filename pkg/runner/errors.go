package runner

import (
	"errors"
	"fmt"
)

// ProcessError reports an external process that failed to start, was
// killed, exited unsuccessfully or did not produce what was expected of it.
type ProcessError struct {
	Command  Command
	Reason   string
	ExitCode int
	Output   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("process %s: %s", e.Command.Binary, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\noutput:\n" + e.Output
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Check converts a non-zero exit status into a *ProcessError.
func Check(cmd Command, res Result) error {
	if res.ExitCode == 0 {
		return nil
	}
	return &ProcessError{
		Command:  cmd,
		Reason:   fmt.Sprintf("exited with code %d", res.ExitCode),
		ExitCode: res.ExitCode,
		Output:   res.Combined(),
	}
}

// IsProcessError reports whether err wraps a *ProcessError.
func IsProcessError(err error) bool {
	var target *ProcessError
	return errors.As(err, &target)
}
