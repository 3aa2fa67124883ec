package builtin

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/felixgeelhaar/ebuild/internal/domain/environment"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// InstallMinEAPI is the first EAPI with a default src_install.
const InstallMinEAPI = 4

var makefiles = []string{"GNUmakefile", "makefile", "Makefile"}

// Defaults implements the built-in phase bodies over a command runner and a
// filesystem.
type Defaults struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// New creates Defaults.
func New(runner ports.CommandRunner, fs ports.FileSystem) *Defaults {
	return &Defaults{runner: runner, fs: fs}
}

// Register installs the defaults valid at eapi into the registry's default
// tier.
func (d *Defaults) Register(reg *phase.Registry, eapi string) {
	reg.SetDefault(phase.Unpack, d.Unpack)
	reg.SetDefault(phase.Prepare, d.Prepare)
	reg.SetDefault(phase.Configure, d.Configure)
	reg.SetDefault(phase.Compile, d.Compile)
	reg.SetDefault(phase.Test, d.Test)
	reg.SetDefault(phase.Clean, d.Clean)
	if phase.AtLeast(eapi, InstallMinEAPI) {
		reg.SetDefault(phase.Install, d.Install)
	}
}

// Unpack creates the source directory. Archive extraction is left to the
// recipe.
func (d *Defaults) Unpack(_ context.Context, inv phase.Invocation) error {
	return d.fs.MkdirAll(inv.Env.SourceDir(), environment.DirMode)
}

// Prepare does nothing.
func (d *Defaults) Prepare(context.Context, phase.Invocation) error {
	return nil
}

// Configure runs ./configure when the source tree has one.
func (d *Defaults) Configure(ctx context.Context, inv phase.Invocation) error {
	if !d.fs.Exists(filepath.Join(inv.WorkDir, "configure")) {
		return nil
	}
	return Exec(ctx, d.runner, inv, "./configure", "--prefix=/usr")
}

// Compile runs make with the job count when the source tree has a makefile.
func (d *Defaults) Compile(ctx context.Context, inv phase.Invocation) error {
	if !d.hasMakefile(inv.WorkDir) {
		return nil
	}
	return Exec(ctx, d.runner, inv, "make", "-j"+strconv.Itoa(max(inv.Jobs, 1)))
}

// Test runs the first of the check and test make targets that exists,
// serially.
func (d *Defaults) Test(ctx context.Context, inv phase.Invocation) error {
	if !d.hasMakefile(inv.WorkDir) {
		return nil
	}
	for _, target := range []string{"check", "test"} {
		if d.hasTarget(ctx, inv, target) {
			return Exec(ctx, d.runner, inv, "make", "-j1", target)
		}
	}
	return nil
}

// Install runs make install into the staged-install directory.
func (d *Defaults) Install(ctx context.Context, inv phase.Invocation) error {
	src := inv.Env.SourceDir()
	if !d.hasMakefile(src) {
		return nil
	}
	inv.WorkDir = src
	return Exec(ctx, d.runner, inv, "make", "DESTDIR="+inv.Env.InstallDir(), "install")
}

// Clean restores owner write permission under the build root so the tree
// can be removed.
func (d *Defaults) Clean(_ context.Context, inv phase.Invocation) error {
	return d.fs.RestoreWritable(inv.Env.RootDir())
}

func (d *Defaults) hasMakefile(dir string) bool {
	for _, name := range makefiles {
		if d.fs.Exists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

// hasTarget asks make for a dry run of target.
func (d *Defaults) hasTarget(ctx context.Context, inv phase.Invocation, target string) bool {
	inv.Stdout = nil
	inv.Stderr = nil
	return Exec(ctx, d.runner, inv, "make", "-j1", "-n", target) == nil
}
