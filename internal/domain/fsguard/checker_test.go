package fsguard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevices resolves paths from a fixed table; unknown paths fail like a
// missing directory would.
func fakeDevices(table map[string]uint64) DeviceResolver {
	return func(path string) (uint64, error) {
		dev, ok := table[path]
		if !ok {
			return 0, errors.New("no such file or directory")
		}
		return dev, nil
	}
}

func TestMountRecord_ReadOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record MountRecord
		want   bool
	}{
		{"read-write", MountRecord{MountOptions: "rw,relatime", SuperOptions: "rw"}, false},
		{"per-mount read-only", MountRecord{MountOptions: "ro,nosuid", SuperOptions: "rw"}, true},
		{"superblock read-only", MountRecord{MountOptions: "rw,relatime", SuperOptions: "ro,seclabel"}, true},
		{"bare ro", MountRecord{MountOptions: "ro"}, true},
		{"ro later in list is ignored", MountRecord{MountOptions: "rw,ro"}, false},
		{"token prefix is not ro", MountRecord{MountOptions: "rootcontext=x,rw"}, false},
		{"empty options", MountRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.record.ReadOnly())
		})
	}
}

func TestMountChecker_FlagsDirectoriesOnReadOnlyDevices(t *testing.T) {
	t.Parallel()

	mounts := StaticMounts{
		{Mountpoint: "/", MountOptions: "rw,relatime", SuperOptions: "rw"},
		{Mountpoint: "/usr", MountOptions: "ro,relatime", SuperOptions: "ro"},
		{Mountpoint: "/var/tmp", MountOptions: "rw", SuperOptions: "rw"},
	}
	devices := fakeDevices(map[string]uint64{
		"/":                         1,
		"/usr":                      2,
		"/var/tmp":                  3,
		"/usr/src/pkg/image":        2,
		"/var/tmp/portage/pkg/work": 3,
	})

	checker := NewMountChecker(mounts, devices)
	got, err := checker.ReadOnlyMounts(context.Background(), []string{
		"/usr/src/pkg/image",
		"/var/tmp/portage/pkg/work",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"/usr"}, got)
}

func TestMountChecker_ReturnsMountPointsNotDirectories(t *testing.T) {
	t.Parallel()

	mounts := StaticMounts{{Mountpoint: "/ro", MountOptions: "ro", SuperOptions: "ro"}}
	devices := fakeDevices(map[string]uint64{"/ro": 9, "/ro/a": 9, "/ro/b/c": 9})

	got, err := NewMountChecker(mounts, devices).ReadOnlyMounts(context.Background(), []string{"/ro/a", "/ro/b/c"})

	require.NoError(t, err)
	assert.Equal(t, []string{"/ro"}, got, "both directories collapse to one mount point")
}

func TestMountChecker_BindMountLastObservedWins(t *testing.T) {
	t.Parallel()

	mounts := StaticMounts{
		{Mountpoint: "/mnt/first", MountOptions: "ro", SuperOptions: "rw"},
		{Mountpoint: "/mnt/second", MountOptions: "ro", SuperOptions: "rw"},
	}
	devices := fakeDevices(map[string]uint64{
		"/mnt/first":  5,
		"/mnt/second": 5,
		"/srv/build":  5,
	})

	got, err := NewMountChecker(mounts, devices).ReadOnlyMounts(context.Background(), []string{"/srv/build"})

	require.NoError(t, err)
	assert.Equal(t, []string{"/mnt/second"}, got)
}

func TestMountChecker_MissingDirectoryFailsOpen(t *testing.T) {
	t.Parallel()

	mounts := StaticMounts{{Mountpoint: "/ro", MountOptions: "ro", SuperOptions: "ro"}}
	devices := fakeDevices(map[string]uint64{"/ro": 1})

	got, err := NewMountChecker(mounts, devices).ReadOnlyMounts(context.Background(), []string{"/ro/does-not-exist"})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMountChecker_UnresolvableMountIsIgnored(t *testing.T) {
	t.Parallel()

	mounts := StaticMounts{{Mountpoint: "/gone", MountOptions: "ro", SuperOptions: "ro"}}
	devices := fakeDevices(map[string]uint64{"/build": 1})

	got, err := NewMountChecker(mounts, devices).ReadOnlyMounts(context.Background(), []string{"/build"})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMountChecker_ResultIsSubsetOfReadOnlyMounts(t *testing.T) {
	t.Parallel()

	mounts := StaticMounts{
		{Mountpoint: "/a", MountOptions: "ro", SuperOptions: "rw"},
		{Mountpoint: "/b", MountOptions: "rw", SuperOptions: "rw"},
		{Mountpoint: "/c", MountOptions: "rw", SuperOptions: "ro"},
	}
	table := map[string]uint64{"/a": 1, "/b": 2, "/c": 3}
	dirs := []string{"/a/x", "/b/x", "/c/x", "/d/x"}
	table["/a/x"], table["/b/x"], table["/c/x"], table["/d/x"] = 1, 2, 3, 4

	got, err := NewMountChecker(mounts, fakeDevices(table)).ReadOnlyMounts(context.Background(), dirs)

	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/c"}, got)
	assert.NotContains(t, got, "/b")
}

func TestMountChecker_MountTableError(t *testing.T) {
	t.Parallel()

	source := MountSourceFunc(func() ([]MountRecord, error) {
		return nil, errors.New("permission denied")
	})

	_, err := NewMountChecker(source, fakeDevices(nil)).ReadOnlyMounts(context.Background(), []string{"/x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading mount table")
}

func TestMountChecker_NoDirectories(t *testing.T) {
	t.Parallel()

	called := false
	source := MountSourceFunc(func() ([]MountRecord, error) {
		called = true
		return nil, nil
	})

	got, err := NewMountChecker(source, fakeDevices(nil)).ReadOnlyMounts(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called, "mount table should not be read without candidates")
}

func TestMountChecker_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMountChecker(StaticMounts{}, fakeDevices(nil)).ReadOnlyMounts(ctx, []string{"/x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoopChecker(t *testing.T) {
	t.Parallel()

	got, err := NoopChecker{}.ReadOnlyMounts(context.Background(), []string{"/usr"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
