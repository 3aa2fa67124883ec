package phase

import (
	"github.com/felixgeelhaar/ebuild/internal/domain/environment"
)

// Dir names one of the build directories of an environment.Context.
type Dir int

// Build directories.
const (
	RootDir Dir = iota
	SourceDir
	InstallDir
	BuildDir
)

// Path resolves d against env.
func (d Dir) Path(env *environment.Context) string {
	switch d {
	case SourceDir:
		return env.SourceDir()
	case InstallDir:
		return env.InstallDir()
	case BuildDir:
		return env.BuildDir()
	default:
		return env.RootDir()
	}
}

// String returns the directory variable name.
func (d Dir) String() string {
	switch d {
	case SourceDir:
		return environment.VarSourceDir
	case InstallDir:
		return environment.VarInstallDir
	case BuildDir:
		return environment.VarBuildDir
	default:
		return environment.VarRootDir
	}
}

// Definition describes one phase of the pipeline.
type Definition struct {
	Name Name

	// Guard, when set, is a feature flag that must be enabled for the phase
	// to run.
	Guard string

	// Mandatory phases fail resolution when nothing implements them.
	Mandatory bool

	// Cleanup phases run after the regular phases regardless of outcome.
	Cleanup bool

	// Parallel phases receive the resolved job count.
	Parallel bool

	// WorkDir is the working directory of the phase body.
	WorkDir Dir

	// Writes lists directories checked for read-only storage before the
	// phase starts.
	Writes []Dir
}

// Mutating reports whether the phase writes to any build directory.
func (d Definition) Mutating() bool {
	return len(d.Writes) > 0
}

// WritePaths resolves Writes against env.
func (d Definition) WritePaths(env *environment.Context) []string {
	out := make([]string, 0, len(d.Writes))
	for _, w := range d.Writes {
		out = append(out, w.Path(env))
	}
	return out
}

// DefaultDefinitions returns the standard pipeline.
func DefaultDefinitions() []Definition {
	return []Definition{
		{Name: Pretend, WorkDir: RootDir},
		{Name: Setup, WorkDir: RootDir},
		{Name: Fetch, WorkDir: RootDir},
		{Name: Unpack, Mandatory: true, WorkDir: SourceDir, Writes: []Dir{SourceDir}},
		{Name: Prepare, WorkDir: SourceDir, Writes: []Dir{SourceDir}},
		{Name: Configure, WorkDir: SourceDir, Writes: []Dir{BuildDir}},
		{Name: Compile, Mandatory: true, Parallel: true, WorkDir: SourceDir, Writes: []Dir{BuildDir}},
		{Name: Test, Guard: "test", WorkDir: SourceDir, Writes: []Dir{BuildDir}},
		{Name: Install, Mandatory: true, WorkDir: InstallDir, Writes: []Dir{InstallDir}},
		{Name: Clean, Cleanup: true, WorkDir: RootDir},
	}
}
