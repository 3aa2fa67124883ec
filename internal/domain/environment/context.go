package environment

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/felixgeelhaar/ebuild/internal/ports"
)

// Variable names seeded by New.
const (
	VarRootDir    = "PORTAGE_BUILDDIR"
	VarSourceDir  = "S"
	VarInstallDir = "D"
	VarBuildDir   = "BUILD_DIR"
	VarPath       = "PATH"
	VarEAPI       = "EAPI"
	VarUse        = "USE"
	VarMakeOpts   = "MAKEOPTS"
	VarInherited  = "INHERITED"
	VarPhase      = "EBUILD_PHASE"
)

// Subdirectories of the build root.
const (
	SourceSubdir  = "work"
	InstallSubdir = "image"
	BuildSubdir   = "build"
)

// DefaultSearchPath is used when no search path is injected.
const DefaultSearchPath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"

// DefaultEAPI is the target-version tag of recipes that do not declare one.
const DefaultEAPI = "0"

// DirMode is the permission used for directories created by CreateDirs.
const DirMode os.FileMode = 0o755

var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures a new Context.
type Options struct {
	// RootDir is the absolute build root.
	RootDir string

	// UseFlags is the resolved feature-flag list. Order is irrelevant.
	UseFlags []string

	// SearchPath is the inherited PATH. Empty selects DefaultSearchPath.
	SearchPath string

	// EAPI overrides DefaultEAPI when non-empty.
	EAPI string

	// MakeOpts seeds MAKEOPTS when non-empty.
	MakeOpts string
}

// Context is the environment of one build attempt. It is not safe for
// concurrent mutation; each build owns its own Context.
type Context struct {
	vars  map[string]string
	flags map[string]struct{}
	eapi  string
}

// New computes the directory layout under opts.RootDir and seeds the
// variable mapping. It does not touch the filesystem; see CreateDirs.
func New(opts Options) (*Context, error) {
	root := opts.RootDir
	if root == "" || !filepath.IsAbs(root) {
		return nil, newInvalidRootError(root)
	}
	root = filepath.Clean(root)

	searchPath := opts.SearchPath
	if searchPath == "" {
		searchPath = DefaultSearchPath
	}

	eapi := opts.EAPI
	if eapi == "" {
		eapi = DefaultEAPI
	}

	flags := make(map[string]struct{}, len(opts.UseFlags))
	for _, f := range opts.UseFlags {
		if f != "" {
			flags[f] = struct{}{}
		}
	}

	c := &Context{
		vars:  make(map[string]string),
		flags: flags,
		eapi:  eapi,
	}
	c.vars[VarRootDir] = root
	c.vars[VarSourceDir] = filepath.Join(root, SourceSubdir)
	c.vars[VarInstallDir] = filepath.Join(root, InstallSubdir)
	c.vars[VarBuildDir] = filepath.Join(root, BuildSubdir)
	c.vars[VarPath] = searchPath
	c.vars[VarEAPI] = eapi
	c.vars[VarUse] = strings.Join(c.UseFlags(), " ")
	if opts.MakeOpts != "" {
		c.vars[VarMakeOpts] = opts.MakeOpts
	}

	return c, nil
}

// RootDir returns the build root.
func (c *Context) RootDir() string { return c.vars[VarRootDir] }

// SourceDir returns the source (work) directory.
func (c *Context) SourceDir() string { return c.vars[VarSourceDir] }

// InstallDir returns the staged-install (image) directory.
func (c *Context) InstallDir() string { return c.vars[VarInstallDir] }

// BuildDir returns the out-of-source build directory.
func (c *Context) BuildDir() string { return c.vars[VarBuildDir] }

// Dirs returns the four build directories, root first.
func (c *Context) Dirs() []string {
	return []string{c.RootDir(), c.SourceDir(), c.InstallDir(), c.BuildDir()}
}

// EAPI returns the target-version tag.
func (c *Context) EAPI() string { return c.eapi }

// UseFlagEnabled reports whether flag is literally present in the flag set.
func (c *Context) UseFlagEnabled(flag string) bool {
	_, ok := c.flags[flag]
	return ok
}

// UseFlags returns the flag set, sorted.
func (c *Context) UseFlags() []string {
	out := make([]string, 0, len(c.flags))
	for f := range c.flags {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Get returns the value of key.
func (c *Context) Get(key string) (string, bool) {
	v, ok := c.vars[key]
	return v, ok
}

// Set overwrites key. Writing a directory variable moves that directory.
func (c *Context) Set(key, value string) error {
	if !variableName.MatchString(key) {
		return ErrInvalidVariableName
	}
	c.vars[key] = value
	return nil
}

// SetInherited records the build-class chain as INHERITED.
func (c *Context) SetInherited(classes []string) {
	c.vars[VarInherited] = strings.Join(classes, " ")
}

// Inherited returns the build-class chain recorded by SetInherited.
func (c *Context) Inherited() []string {
	return strings.Fields(c.vars[VarInherited])
}

// Vars returns a copy of the variable mapping.
func (c *Context) Vars() map[string]string {
	out := make(map[string]string, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

// CreateDirs creates the build root and its three subdirectories.
func (c *Context) CreateDirs(fs ports.FileSystem) error {
	for _, dir := range c.Dirs() {
		if err := fs.MkdirAll(dir, DirMode); err != nil {
			return newCreateDirError(dir, err)
		}
	}
	return nil
}
