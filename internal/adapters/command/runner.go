// Package command provides command execution adapters.
package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// WaitDelay bounds how long Run waits for output pipes after a cancelled
// command has been killed.
const WaitDelay = 2 * time.Second

// RealRunner executes actual processes.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes the command described by spec and returns the result. A
// non-zero exit status is reported through the result, not as an error.
// A nil spec.Env gives the child an empty environment.
func (r *RealRunner) Run(ctx context.Context, spec ports.CommandSpec) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = WaitDelay
	configureProcess(cmd)
	cmd.Env = spec.Env
	if cmd.Env == nil {
		cmd.Env = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, spec.Stdout)
	cmd.Stderr = tee(&stderr, spec.Stderr)

	err := cmd.Run()

	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.ExitCode = -1
			return result, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
