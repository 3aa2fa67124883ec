// Package phase models build lifecycle phases and resolves, for each phase,
// the single implementation a build will run.
package phase

import "strings"

// Name identifies a lifecycle phase.
type Name string

// Lifecycle phases in pipeline order.
const (
	Pretend   Name = "pretend"
	Setup     Name = "setup"
	Fetch     Name = "fetch"
	Unpack    Name = "unpack"
	Prepare   Name = "prepare"
	Configure Name = "configure"
	Compile   Name = "compile"
	Test      Name = "test"
	Install   Name = "install"
	Clean     Name = "clean"
)

var funcNames = map[Name]string{
	Pretend:   "pkg_pretend",
	Setup:     "pkg_setup",
	Fetch:     "src_fetch",
	Unpack:    "src_unpack",
	Prepare:   "src_prepare",
	Configure: "src_configure",
	Compile:   "src_compile",
	Test:      "src_test",
	Install:   "src_install",
	Clean:     "pkg_clean",
}

// Names returns every known phase in pipeline order.
func Names() []Name {
	return []Name{Pretend, Setup, Fetch, Unpack, Prepare, Configure, Compile, Test, Install, Clean}
}

// String returns the short phase name.
func (n Name) String() string {
	return string(n)
}

// FuncName returns the recipe function name, e.g. src_compile.
func (n Name) FuncName() string {
	if f, ok := funcNames[n]; ok {
		return f
	}
	return string(n)
}

// IsKnown reports whether n is a lifecycle phase.
func (n Name) IsKnown() bool {
	_, ok := funcNames[n]
	return ok
}

// ParseName accepts a short name ("compile") or a recipe function name
// ("src_compile").
func ParseName(s string) (Name, bool) {
	s = strings.TrimSpace(s)
	if n := Name(s); n.IsKnown() {
		return n, true
	}
	for n, f := range funcNames {
		if f == s {
			return n, true
		}
	}
	return "", false
}
