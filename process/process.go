package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

const (
	defaultGrace = 5 * time.Second
	// stderrTail bounds how much stderr an ExitError keeps.
	stderrTail = 512
)

// Command is one invocation of an external binary.
type Command struct {
	Binary string
	Args   []string
	// Grace is how long the process gets between SIGTERM and SIGKILL once
	// the context is done.
	Grace time.Duration
}

func (c Command) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}

// Result is what a finished command left behind.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// ExitError is a command that ran and failed.
type ExitError struct {
	Command string
	Code    int
	// Stderr is the trimmed tail of the process's standard error.
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("process: %s: exit %d", e.Command, e.Code)
	}
	return fmt.Sprintf("process: %s: exit %d: %s", e.Command, e.Code, e.Stderr)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner runs commands. Components that shell out take a Runner so tests can
// substitute a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, cmd Command) (*Result, error)

func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Result, error) { return f(ctx, cmd) }

// ExecRunner runs commands on the host. Grace applies to commands that do
// not set their own.
type ExecRunner struct {
	Grace time.Duration
}

// Run starts cmd in its own process group and waits for it. When ctx ends
// first the group gets SIGTERM, then SIGKILL after the grace period, and the
// context error is returned.
func (r ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, errors.New("process: binary is required")
	}
	grace := cmd.Grace
	if grace <= 0 {
		grace = r.Grace
	}
	if grace <= 0 {
		grace = defaultGrace
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running caller-chosen binaries is the point
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error { return syscall.Kill(-c.Process.Pid, syscall.SIGTERM) }
	c.WaitDelay = grace

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, fmt.Errorf("process: %s: %w", cmd.Binary, ctx.Err())
	default:
		return res, &ExitError{Command: cmd.Binary, Code: res.ExitCode, Stderr: tail(res.Stderr, stderrTail), Err: err}
	}
}

// Available reports whether binary resolves to an executable on PATH.
func Available(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
