package recipe

import (
	"context"

	"github.com/felixgeelhaar/ebuild/internal/domain/builtin"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// DefaultShell runs phase bodies.
const DefaultShell = "/bin/sh"

// Shell turns manifest phase bodies into phase implementations.
type Shell struct {
	runner ports.CommandRunner
	path   string
}

// NewShell creates a Shell. An empty path selects DefaultShell.
func NewShell(runner ports.CommandRunner, path string) *Shell {
	if path == "" {
		path = DefaultShell
	}
	return &Shell{runner: runner, path: path}
}

// Func returns a phase body running script with "sh -e -c", prefixed by the
// exported build environment.
func (s *Shell) Func(script string) phase.Func {
	return func(ctx context.Context, inv phase.Invocation) error {
		full := script
		if inv.Env != nil {
			full = inv.Env.ExportString() + script
		}
		return builtin.Exec(ctx, s.runner, inv, s.path, "-e", "-c", full)
	}
}

// Funcs converts a set of bodies.
func (s *Shell) Funcs(bodies map[phase.Name]string) map[phase.Name]phase.Func {
	out := make(map[phase.Name]phase.Func, len(bodies))
	for n, body := range bodies {
		out[n] = s.Func(body)
	}
	return out
}

// Register fills the package and build-class tiers of reg.
func (s *Shell) Register(reg *phase.Registry, r *Recipe, chain []*BuildClass) {
	for _, bc := range chain {
		reg.AddBuildClass(bc.Name, s.Funcs(bc.Phases))
	}
	for n, body := range r.Phases {
		reg.SetPackage(n, s.Func(body))
	}
}
