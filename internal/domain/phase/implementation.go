package phase

import (
	"context"
	"io"

	"github.com/felixgeelhaar/ebuild/internal/domain/environment"
	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// Kind tags where a resolved implementation came from.
type Kind int

// Implementation kinds, lowest precedence first.
const (
	NoOp Kind = iota
	Default
	BuildClassProvided
	PackageOverride
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Default:
		return "default"
	case BuildClassProvided:
		return "build-class"
	case PackageOverride:
		return "package"
	default:
		return "no-op"
	}
}

// Invocation is everything a phase body receives.
type Invocation struct {
	Phase   Name
	Env     *environment.Context
	WorkDir string

	// Jobs is the parallelism hint. It is 1 for non-parallel phases.
	Jobs int

	Logger ports.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// Func is a phase body.
type Func func(ctx context.Context, inv Invocation) error

// Implementation is the single body selected for a phase.
type Implementation struct {
	Kind Kind

	// Source names the provider: "package", a build-class name, "builtin",
	// or empty for NoOp.
	Source string

	Run Func
}

// NoOpImplementation is what optional phases resolve to when nothing
// implements them.
func NoOpImplementation() Implementation {
	return Implementation{
		Kind: NoOp,
		Run:  func(context.Context, Invocation) error { return nil },
	}
}
