// Package runner invokes external hardware-introspection tools with a
// bounded timeout and returns every outcome, including failure, as data.
// Argument lists are fixed at configuration time; nothing user-supplied
// ever reaches a command line.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"
)

// Status classifies how an invocation ended.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not-found"
	StatusTimeout     Status = "timeout"
	StatusNonZeroExit Status = "non-zero-exit"
)

// graceDelay bounds how long Run waits for a killed child to be reaped
// past its deadline.
const graceDelay = 2 * time.Second

// maxStderrBytes caps captured stderr; tools that spray warnings must not
// blow up a collection result.
const maxStderrBytes = 64 << 10

// Spec names the executable and its fixed argument list.
type Spec struct {
	Path string
	Args []string
}

// Result is the transient outcome of one invocation. It is consumed by a
// parser right away and never stored.
type Result struct {
	Status    Status
	Stdout    []byte
	Stderr    string
	ExitCode  int
	Elapsed   time.Duration
	Truncated bool
	Err       string
}

// Failed reports whether the invocation produced no trustworthy output.
func (r Result) Failed() bool {
	return r.Status != StatusOK
}

// Runner executes tool specs. The zero value is not usable; construct
// with New.
type Runner struct {
	timeout   time.Duration
	maxOutput int64
}

func New(timeout time.Duration, maxOutput int64) *Runner {
	return &Runner{
		timeout:   timeout,
		maxOutput: maxOutput,
	}
}

// Run executes spec and always returns within timeout plus a bounded
// grace period. On timeout the child's whole process group is killed so
// no orphan survives. Run never returns an error: every failure mode is
// encoded in the Result status.
func (r *Runner) Run(ctx context.Context, spec Spec) Result {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	stdout := newCapBuffer(r.maxOutput)
	stderr := newCapBuffer(maxStderrBytes)

	cmd := exec.CommandContext(runCtx, spec.Path, spec.Args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// Run the child in its own process group so a timeout kill reaches
	// any helpers it spawned, not only the direct child.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = graceDelay

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := Result{
		Status:    StatusOK,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.String(),
		Elapsed:   elapsed,
		Truncated: stdout.Truncated(),
	}

	switch {
	case err == nil:
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.Status = StatusTimeout
		result.Err = "timed out after " + r.timeout.String()
		// Output from a killed invocation is untrustworthy.
		result.Stdout = nil
	case isNotFound(err):
		result.Status = StatusNotFound
		result.Err = err.Error()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Status = StatusNonZeroExit
			result.ExitCode = exitErr.ExitCode()
			result.Err = err.Error()
		} else {
			result.Status = StatusNonZeroExit
			result.Err = err.Error()
		}
	}

	return result
}

func isNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	// Absolute tool paths fail with ENOENT instead of ErrNotFound.
	return errors.Is(err, syscall.ENOENT)
}

// capBuffer is a bytes.Buffer that silently discards writes past a byte
// cap and remembers that it did.
type capBuffer struct {
	buf       bytes.Buffer
	remaining int64
	truncated bool
}

func newCapBuffer(limit int64) *capBuffer {
	return &capBuffer{remaining: limit}
}

func (c *capBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if c.remaining <= 0 {
		c.truncated = true
		return n, nil
	}
	if int64(n) > c.remaining {
		c.truncated = true
		p = p[:c.remaining]
	}
	c.remaining -= int64(len(p))
	if _, err := c.buf.Write(p); err != nil {
		return 0, err
	}
	return n, nil
}

func (c *capBuffer) Bytes() []byte   { return c.buf.Bytes() }
func (c *capBuffer) String() string  { return c.buf.String() }
func (c *capBuffer) Truncated() bool { return c.truncated }
