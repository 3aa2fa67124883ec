// Package config holds engine settings loaded from make.conf and defaults.
package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"

	"github.com/felixgeelhaar/ebuild/internal/domain/recipe"
)

// make.conf keys.
const (
	KeyMakeOpts  = "MAKEOPTS"
	KeyUse       = "USE"
	KeyFeatures  = "FEATURES"
	KeyTmpDir    = "PORTAGE_TMPDIR"
	KeyEclassDir = "ECLASSDIR"
	KeyShell     = "EBUILD_SHELL"
	KeyPath      = "PATH"
)

// AppName names the xdg subdirectories.
const AppName = "ebuild"

// Settings are the engine-wide build settings.
type Settings struct {
	MakeOpts  string
	Use       []string
	Features  []string
	TmpDir    string
	EclassDir string
	Shell     string

	// SearchPath is the PATH handed to builds. Empty selects the engine's
	// fallback search path.
	SearchPath string
}

// DefaultSettings returns settings rooted in the user's xdg directories.
func DefaultSettings() Settings {
	return Settings{
		TmpDir:    filepath.Join(xdg.CacheHome, AppName),
		EclassDir: filepath.Join(xdg.DataHome, AppName, "eclass"),
		Shell:     recipe.DefaultShell,
	}
}

// ConfigSearchPaths returns the directories searched for make.conf, most
// specific first.
func ConfigSearchPaths() []string {
	paths := []string{filepath.Join(xdg.ConfigHome, AppName)}
	for _, dir := range xdg.ConfigDirs {
		paths = append(paths, filepath.Join(dir, AppName))
	}
	return paths
}

// FeatureEnabled reports whether FEATURES contains name.
func (s Settings) FeatureEnabled(name string) bool {
	for _, f := range s.Features {
		if f == name {
			return true
		}
	}
	return false
}

// FeatureUse returns the USE tokens implied by FEATURES. FEATURES=test
// enables the test USE flag, which guards src_test.
func (s Settings) FeatureUse() []string {
	if s.FeatureEnabled("test") {
		return []string{"test"}
	}
	return nil
}

// BuildRoot returns the build directory of pkg under TmpDir, e.g.
// <tmpdir>/portage/app-misc/hello-2.10.
func (s Settings) BuildRoot(pkg string) string {
	return filepath.Join(s.TmpDir, "portage", filepath.FromSlash(pkg))
}

// ResolveUseFlags folds USE token lists, lowest priority first. "flag" and
// "+flag" enable, "-flag" disables and "-*" disables everything enabled so
// far. The result is sorted.
func ResolveUseFlags(layers ...[]string) []string {
	enabled := make(map[string]bool)
	for _, layer := range layers {
		for _, tok := range layer {
			switch {
			case tok == "-*":
				enabled = make(map[string]bool)
			case strings.HasPrefix(tok, "-"):
				delete(enabled, tok[1:])
			case strings.HasPrefix(tok, "+"):
				if tok[1:] != "" {
					enabled[tok[1:]] = true
				}
			case tok != "":
				enabled[tok] = true
			}
		}
	}
	out := make([]string, 0, len(enabled))
	for f := range enabled {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
