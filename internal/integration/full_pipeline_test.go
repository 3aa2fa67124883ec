//go:build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ebuild/internal/app"
	"github.com/felixgeelhaar/ebuild/internal/domain/execution"
	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
	"github.com/felixgeelhaar/ebuild/internal/testutil"
)

const pkg = "app-misc/hello-2.10"

func newBuilder(ws testutil.Workspace, out *bytes.Buffer) *app.Builder {
	return app.New(out, out).WithConfigDirs([]string{ws.Dir})
}

// TestFullPipeline_BuildClassChain builds a recipe whose phases come from
// all three tiers and checks the order they ran in.
func TestFullPipeline_BuildClassChain(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, map[string]string{"USE": "test", "MAKEOPTS": "-j2"})
	ws.AddBuildClass(t, "base", testutil.NewBuildClassBuilder().
		WithPhase("pkg_setup", `echo "setup:base" >> "$PORTAGE_BUILDDIR/order"`).
		WithPhase("src_configure", `echo "configure:base" >> "$PORTAGE_BUILDDIR/order"`).
		Build())
	ws.AddBuildClass(t, "toolchain", testutil.NewBuildClassBuilder().
		WithInherit("base").
		WithPhase("src_configure", `echo "configure:toolchain" >> "$PORTAGE_BUILDDIR/order"`).
		WithPhase("src_compile", `echo "compile:toolchain:$MAKEOPTS" >> "$PORTAGE_BUILDDIR/order"`).
		WithPhase("src_test", `echo "test:$USE" >> "$PORTAGE_BUILDDIR/order"`).
		Build())
	recipePath := ws.AddRecipe(t, "hello.yaml", testutil.NewRecipeBuilder(pkg).
		WithIUse("test").
		WithInherit("toolchain").
		WithPhase("src_install", `mkdir -p "$D/usr/bin" && echo "install:$INHERITED" >> "$PORTAGE_BUILDDIR/order"`).
		Build())

	var out bytes.Buffer
	attempt, result, err := newBuilder(ws, &out).Build(context.Background(), app.Request{RecipePath: recipePath})
	require.NoError(t, err, out.String())
	assert.True(t, result.Succeeded())
	assert.Equal(t, ws.MakeConf, attempt.ConfigPath)

	root := ws.BuildRoot(pkg)
	order, err := os.ReadFile(filepath.Join(root, "order"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"setup:base",
		"configure:toolchain",
		"compile:toolchain:-j2",
		"test:test",
		"install:base toolchain",
	}, strings.Split(strings.TrimSpace(string(order)), "\n"))

	testutil.AssertDirExists(t, filepath.Join(root, "image", "usr", "bin"))
	testutil.AssertDirExists(t, filepath.Join(root, "build"))
}

// TestFullPipeline_DefaultsWithMake lets the built-in defaults drive a real
// makefile.
func TestFullPipeline_DefaultsWithMake(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("make"); err != nil {
		t.Skip("make not installed")
	}

	ws := testutil.NewWorkspace(t, map[string]string{"USE": "test", "MAKEOPTS": "--jobs 3"})
	unpack := `printf 'all:\n\techo built > hello\ncheck:\n\ttest -f hello\ninstall:\n\tmkdir -p $(DESTDIR)/usr/bin\n\tcp hello $(DESTDIR)/usr/bin/hello\n' > Makefile`
	recipePath := ws.AddRecipe(t, "hello.toml", testutil.NewRecipeBuilder(pkg).
		WithIUse("+test").
		WithPhase("src_unpack", unpack).
		Build())

	var out bytes.Buffer
	_, result, err := newBuilder(ws, &out).Build(context.Background(), app.Request{RecipePath: recipePath})
	require.NoError(t, err, out.String())

	for _, name := range []phase.Name{phase.Compile, phase.Test, phase.Install} {
		prs := result.Lookup(name)
		require.Len(t, prs, 1, name)
		assert.Equal(t, execution.StatusSucceeded, prs[0].Status(), name)
		assert.Equal(t, phase.Default, prs[0].Kind(), name)
	}

	root := ws.BuildRoot(pkg)
	testutil.AssertFileContains(t, filepath.Join(root, "image", "usr", "bin", "hello"), "built")
}

// TestFullPipeline_FailureRunsClean checks that a failing phase stops the
// pipeline and that clean restores write permission.
func TestFullPipeline_FailureRunsClean(t *testing.T) {
	t.Parallel()

	ws := testutil.NewWorkspace(t, nil)
	recipePath := ws.AddRecipe(t, "hello.yaml", testutil.NewRecipeBuilder(pkg).
		WithPhase("src_prepare", `mkdir -p ro && touch ro/file && chmod 0555 ro && chmod 0444 ro/file`).
		WithPhase("src_compile", "exit 7").
		WithPhase("src_install", `touch "$D/never"`).
		Build())

	var out bytes.Buffer
	_, result, err := newBuilder(ws, &out).Build(context.Background(), app.Request{RecipePath: recipePath})

	require.ErrorIs(t, err, phase.ErrExecutionFailed)
	failed, ok := result.FirstFailure()
	require.True(t, ok)
	assert.Equal(t, phase.Compile, failed.Name())
	assert.False(t, result.Ran(phase.Install))

	clean := result.Lookup(phase.Clean)
	require.Len(t, clean, 1)
	assert.Equal(t, execution.StatusSucceeded, clean[0].Status())

	root := ws.BuildRoot(pkg)
	_, statErr := os.Stat(filepath.Join(root, "image", "never"))
	assert.True(t, os.IsNotExist(statErr))
	testutil.AssertWritable(t, filepath.Join(root, "work", "ro"))
	testutil.AssertWritable(t, filepath.Join(root, "work", "ro", "file"))
}
