// Package runner launches the external tools the generator delegates to and
// captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command is a single process invocation.
type Command struct {
	Binary string
	Args   []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}

// Result is the outcome of a process that ran to completion.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Combined returns standard output followed by standard error.
func (r Result) Combined() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// Runner runs a command and waits for it. A non-zero exit status is
// reported through Result, not as an error; errors are reserved for
// processes that could not be started or were cut short.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands on the host.
type ExecRunner struct {
	timeout time.Duration
	log     *zap.Logger
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithTimeout bounds every run; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *ExecRunner) {
		if log != nil {
			r.log = log
		}
	}
}

// NewExecRunner creates a runner for host processes.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// waitDelay bounds how long output is drained after the process is killed,
// since grandchildren may keep the pipes open.
const waitDelay = 2 * time.Second

// Run starts cmd and waits for it to exit, capturing both output streams.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	execCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(execCtx, cmd.Binary, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	execCmd.Stdout = &stdoutBuf
	execCmd.Stderr = &stderrBuf

	r.log.Debug("starting process", zap.String("command", cmd.String()))
	started := time.Now()
	if err := execCmd.Start(); err != nil {
		return Result{}, &ProcessError{Command: cmd, Reason: "start", Err: err}
	}
	waitErr := execCmd.Wait()

	result := Result{
		ExitCode: execCmd.ProcessState.ExitCode(),
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(started),
	}

	if execCtx.Err() != nil {
		reason := "cancelled"
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", r.timeout)
		}
		r.log.Warn("process killed", zap.String("command", cmd.String()), zap.String("reason", reason))
		return result, &ProcessError{Command: cmd, Reason: reason, ExitCode: result.ExitCode, Output: result.Combined(), Err: execCtx.Err()}
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, &ProcessError{Command: cmd, Reason: "wait", ExitCode: result.ExitCode, Output: result.Combined(), Err: waitErr}
	}

	r.log.Debug("process exited",
		zap.String("binary", cmd.Binary),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}
