// Package testutil provides test helpers and utilities for ebuild tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to a file in the specified directory,
// creating parent directories as needed.
func WriteTempFile(t testing.TB, dir, filename, content string) string {
	t.Helper()

	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write temp file: %s", filename)

	return path
}

// WriteTempDir creates a subdirectory in the temp directory.
func WriteTempDir(t testing.TB, dir, dirname string) string {
	t.Helper()

	path := filepath.Join(dir, dirname)
	err := os.MkdirAll(path, 0o755)
	require.NoError(t, err, "failed to create temp subdirectory: %s", dirname)

	return path
}

// Workspace is an on-disk build setup: a make.conf, an eclass directory and
// a build tmpdir, all below one temp directory.
type Workspace struct {
	Dir       string
	MakeConf  string
	EclassDir string
	TmpDir    string
}

// NewWorkspace creates a Workspace whose make.conf points PORTAGE_TMPDIR and
// ECLASSDIR into it. extra adds or overrides make.conf keys.
func NewWorkspace(t testing.TB, extra map[string]string) Workspace {
	t.Helper()

	dir := t.TempDir()
	ws := Workspace{
		Dir:       dir,
		EclassDir: WriteTempDir(t, dir, "eclass"),
		TmpDir:    filepath.Join(dir, "tmp"),
	}

	settings := map[string]string{
		"PORTAGE_TMPDIR": ws.TmpDir,
		"ECLASSDIR":      ws.EclassDir,
	}
	for k, v := range extra {
		settings[k] = v
	}
	ws.MakeConf = WriteTempFile(t, dir, "make.conf", MakeConf(settings))
	return ws
}

// AddRecipe writes a recipe manifest and returns its path.
func (w Workspace) AddRecipe(t testing.TB, filename string, r TestRecipe) string {
	t.Helper()
	if filepath.Ext(filename) == ".toml" {
		return WriteTempFile(t, w.Dir, filename, r.ToTOML())
	}
	return WriteTempFile(t, w.Dir, filename, r.ToYAML())
}

// AddBuildClass writes a build-class manifest into the eclass directory.
func (w Workspace) AddBuildClass(t testing.TB, name string, r TestRecipe) string {
	t.Helper()
	return WriteTempFile(t, w.EclassDir, name+".yaml", r.ToYAML())
}

// BuildRoot returns the build root of pkg under the workspace tmpdir.
func (w Workspace) BuildRoot(pkg string) string {
	return filepath.Join(w.TmpDir, "portage", filepath.FromSlash(pkg))
}
