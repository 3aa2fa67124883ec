// Package builtin provides the engine's default phase implementations, the
// lowest tier of phase resolution.
package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// CommandError reports a command that exited non-zero.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
}

// Error returns the formatted error message.
func (e *CommandError) Error() string {
	cmd := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s exited with status %d", cmd, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, lastLine(s))
	}
	return msg
}

// Exec runs a command in the invocation's working directory with the build
// environment as its entire process environment.
func Exec(ctx context.Context, runner ports.CommandRunner, inv phase.Invocation, command string, args ...string) error {
	spec := ports.CommandSpec{
		Command: command,
		Args:    args,
		Dir:     inv.WorkDir,
		Stdout:  inv.Stdout,
		Stderr:  inv.Stderr,
	}
	if inv.Env != nil {
		spec.Env = inv.Env.Environ()
	}

	if inv.Logger != nil {
		inv.Logger.Debug(ctx, "running command",
			ports.F("phase", inv.Phase.String()),
			ports.F("command", command),
			ports.F("args", strings.Join(args, " ")),
			ports.F("dir", inv.WorkDir),
		)
	}

	result, err := runner.Run(ctx, spec)
	if err != nil {
		return fmt.Errorf("running %s: %w", command, err)
	}
	if !result.Success() {
		return &CommandError{
			Command:  command,
			Args:     args,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
