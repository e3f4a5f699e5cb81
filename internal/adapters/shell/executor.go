// Package shell launches configured commands as child processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/onsave/internal/core/domain"
	"go.trai.ch/onsave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// bannerLayout is the timestamp layout of the line prefixed to stdout.
const bannerLayout = "2006-01-02T15:04:05"

// Executor implements ports.Executor using os/exec.
type Executor struct {
	clock clockwork.Clock
}

// NewExecutor creates a new Executor reading time from clock.
func NewExecutor(clock clockwork.Clock) *Executor {
	return &Executor{clock: clock}
}

// Run starts line and waits for it up to timeout. A process still running
// when the wait gives up is left running; the output captured so far is
// returned with TimedOut set.
func (e *Executor) Run(ctx context.Context, line domain.CommandLine, timeout time.Duration) (domain.ProcessResult, error) {
	result := domain.ProcessResult{
		Stdout:   e.banner(line),
		ExitCode: -1,
	}

	if line.WorkingDirectory != "" {
		if info, err := os.Stat(line.WorkingDirectory); err != nil || !info.IsDir() {
			return result, zerr.With(
				zerr.Wrap(domain.ErrWorkingDirectoryNotFound, "cannot start command"),
				"working_directory", line.WorkingDirectory)
		}
	}

	executable, err := resolveExecutable(line.Executable)
	if err != nil {
		return result, startError(err, line.Executable)
	}

	cmd, err := newCommand(executable, line.Arguments)
	if err != nil {
		return result, zerr.With(
			zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrExecutionFailed, err), "cannot split arguments"),
			"arguments", line.Arguments)
	}
	cmd.Args[0] = line.Executable
	cmd.Dir = line.WorkingDirectory

	var stdout, stderr lockedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return result, startError(err, line.Executable)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := e.clock.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.Chan()
	}

	var waitErr error
	select {
	case err := <-done:
		var exitErr *exec.ExitError
		switch {
		case err == nil:
			result.ExitCode = 0
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		default:
			waitErr = zerr.With(
				zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrExecutionFailed, err), "command did not complete"),
				"command", line.Executable)
		}
	case <-expired:
		result.TimedOut = true
	case <-ctx.Done():
		waitErr = zerr.Wrap(ctx.Err(), "stopped waiting for command")
	}

	result.Stdout += stdout.String()
	result.Stderr = stderr.String()
	return result, waitErr
}

func (e *Executor) banner(line domain.CommandLine) string {
	return e.clock.Now().Format(bannerLayout) + ": running " + line.String() + "\n"
}

// resolveExecutable searches PATH for bare names. Names with a separator
// are used as given and resolved against the working directory by the OS.
func resolveExecutable(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return name, nil
	}
	return lookPath(name)
}

// startError classifies a failure to launch command.
func startError(err error, command string) error {
	sentinel := domain.ErrExecutionFailed
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		sentinel = domain.ErrCommandNotFound
	}
	return zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", sentinel, err), "failed to start command"), "command", command)
}

// lockedBuffer lets the wait give up while the child is still writing.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
