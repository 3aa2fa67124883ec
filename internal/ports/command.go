// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"io"
)

// CommandResult represents the result of executing a command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandSpec describes a single command invocation.
//
// Env replaces the process environment entirely; a nil Env runs the command
// with an empty environment so that builds never observe ambient variables.
type CommandSpec struct {
	Command string
	Args    []string
	Dir     string
	Env     []string

	// Stdout and Stderr, when set, receive the streams in addition to the
	// captured copies in CommandResult.
	Stdout io.Writer
	Stderr io.Writer
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
	Dir     string
	Env     []string
}

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, spec CommandSpec) (CommandResult, error)
}
