package environment

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ebuild/internal/testutil/mocks"
)

func TestNew_DirectoryLayout(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg", UseFlags: []string{"ssl"}})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pkg", ctx.RootDir())
	assert.Equal(t, "/tmp/pkg/work", ctx.SourceDir())
	assert.Equal(t, "/tmp/pkg/image", ctx.InstallDir())
	assert.Equal(t, "/tmp/pkg/build", ctx.BuildDir())

	for key, want := range map[string]string{
		VarRootDir:    "/tmp/pkg",
		VarSourceDir:  "/tmp/pkg/work",
		VarInstallDir: "/tmp/pkg/image",
		VarBuildDir:   "/tmp/pkg/build",
	} {
		got, ok := ctx.Get(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestNew_CleansRoot(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg/"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pkg/work", ctx.SourceDir())
}

func TestNew_InvalidRoot(t *testing.T) {
	t.Parallel()

	for _, root := range []string{"", "relative/path", "./pkg"} {
		_, err := New(Options{RootDir: root})
		require.Error(t, err, root)
		assert.True(t, errors.Is(err, ErrConstruction), root)

		var envErr *Error
		require.ErrorAs(t, err, &envErr)
		assert.Equal(t, root, envErr.Path)
	}
}

func TestNew_SearchPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		injected string
		want     string
	}{
		{name: "fallback", injected: "", want: DefaultSearchPath},
		{name: "injected", injected: "/opt/bin:/usr/bin", want: "/opt/bin:/usr/bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, err := New(Options{RootDir: "/tmp/pkg", SearchPath: tt.injected})
			require.NoError(t, err)

			got, ok := ctx.Get(VarPath)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_EAPI(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)
	assert.Equal(t, DefaultEAPI, ctx.EAPI())

	ctx, err = New(Options{RootDir: "/tmp/pkg", EAPI: "8"})
	require.NoError(t, err)
	assert.Equal(t, "8", ctx.EAPI())
	v, _ := ctx.Get(VarEAPI)
	assert.Equal(t, "8", v)
}

func TestNew_MakeOpts(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)
	_, ok := ctx.Get(VarMakeOpts)
	assert.False(t, ok)

	ctx, err = New(Options{RootDir: "/tmp/pkg", MakeOpts: "-j4"})
	require.NoError(t, err)
	v, ok := ctx.Get(VarMakeOpts)
	assert.True(t, ok)
	assert.Equal(t, "-j4", v)
}

func TestUseFlagEnabled(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg", UseFlags: []string{"ssl", "ipv6"}})
	require.NoError(t, err)

	assert.True(t, ctx.UseFlagEnabled("ssl"))
	assert.True(t, ctx.UseFlagEnabled("ipv6"))
	assert.False(t, ctx.UseFlagEnabled("gtk"))
	assert.False(t, ctx.UseFlagEnabled("SSL"))
	assert.False(t, ctx.UseFlagEnabled(""))

	use, _ := ctx.Get(VarUse)
	assert.Equal(t, "ipv6 ssl", use)
	assert.Equal(t, []string{"ipv6", "ssl"}, ctx.UseFlags())
}

func TestSet_Overwrites(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	require.NoError(t, ctx.Set("CFLAGS", "-O2"))
	require.NoError(t, ctx.Set("CFLAGS", "-O3"))

	v, ok := ctx.Get("CFLAGS")
	assert.True(t, ok)
	assert.Equal(t, "-O3", v)
	assert.Equal(t, 1, strings.Count(ctx.ExportString(), "export CFLAGS="))
}

func TestSet_MovesDirectory(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	require.NoError(t, ctx.Set(VarSourceDir, "/tmp/pkg/work/hello-2.10"))
	assert.Equal(t, "/tmp/pkg/work/hello-2.10", ctx.SourceDir())
}

func TestSet_InvalidName(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	for _, key := range []string{"", "1ABC", "A-B", "A B", "A=B"} {
		assert.ErrorIs(t, ctx.Set(key, "x"), ErrInvalidVariableName, key)
	}
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	_, ok := ctx.Get("UNSET_VARIABLE")
	assert.False(t, ok)
}

func TestInherited(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)
	assert.Empty(t, ctx.Inherited())

	ctx.SetInherited([]string{"toolchain", "autotools"})
	assert.Equal(t, []string{"toolchain", "autotools"}, ctx.Inherited())
	v, _ := ctx.Get(VarInherited)
	assert.Equal(t, "toolchain autotools", v)
}

func TestVars_IsCopy(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	vars := ctx.Vars()
	vars[VarSourceDir] = "/elsewhere"
	assert.Equal(t, "/tmp/pkg/work", ctx.SourceDir())
}

func TestCreateDirs(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	fs := mocks.NewFileSystem()
	require.NoError(t, ctx.CreateDirs(fs))

	assert.Equal(t, []string{"/tmp/pkg", "/tmp/pkg/build", "/tmp/pkg/image", "/tmp/pkg/work"}, fs.Dirs())
}

func TestCreateDirs_Failure(t *testing.T) {
	t.Parallel()

	ctx, err := New(Options{RootDir: "/tmp/pkg"})
	require.NoError(t, err)

	fs := mocks.NewFileSystem()
	cause := errors.New("permission denied")
	fs.FailMkdir("/tmp/pkg/image", cause)

	err = ctx.CreateDirs(fs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstruction)
	assert.ErrorIs(t, err, cause)

	var envErr *Error
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "/tmp/pkg/image", envErr.Path)
	assert.Contains(t, envErr.Format(), "[ENVIRONMENT_CONSTRUCTION]")
	assert.Contains(t, envErr.Format(), "Cause: permission denied")
}

func TestIndependentContexts(t *testing.T) {
	t.Parallel()

	a, err := New(Options{RootDir: "/tmp/a", UseFlags: []string{"ssl"}})
	require.NoError(t, err)
	b, err := New(Options{RootDir: "/tmp/b"})
	require.NoError(t, err)

	require.NoError(t, a.Set("FOO", "1"))

	_, ok := b.Get("FOO")
	assert.False(t, ok)
	assert.False(t, b.UseFlagEnabled("ssl"))
}
