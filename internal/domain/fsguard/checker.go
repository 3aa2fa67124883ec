package fsguard

import (
	"context"
	"fmt"
	"sort"
)

// Checker reports which read-only mount points back a set of directories.
type Checker interface {
	// ReadOnlyMounts returns the distinct read-only mount points implicated
	// by dirs, sorted. An error means the mount table itself could not be
	// read; callers decide whether to fail open.
	ReadOnlyMounts(ctx context.Context, dirs []string) ([]string, error)
}

// MountChecker classifies directories using a mount table and device IDs.
type MountChecker struct {
	source MountSource
	device DeviceResolver
}

// NewMountChecker creates a MountChecker from a mount table source and a
// device resolver.
func NewMountChecker(source MountSource, device DeviceResolver) *MountChecker {
	return &MountChecker{source: source, device: device}
}

// ReadOnlyMounts implements Checker.
func (c *MountChecker) ReadOnlyMounts(ctx context.Context, dirs []string) ([]string, error) {
	if len(dirs) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mounts, err := c.source.Mounts()
	if err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}

	devices := c.readOnlyDevices(mounts)
	if len(devices) == 0 {
		return nil, nil
	}

	implicated := make(map[string]struct{})
	for _, dir := range dirs {
		dev, err := c.device(dir)
		if err != nil {
			continue
		}
		if mp, ok := devices[dev]; ok {
			implicated[mp] = struct{}{}
		}
	}

	result := make([]string, 0, len(implicated))
	for mp := range implicated {
		result = append(result, mp)
	}
	sort.Strings(result)
	return result, nil
}

// readOnlyDevices maps device IDs to a read-only mount point. When several
// read-only mounts share a device, the last one in table order wins.
func (c *MountChecker) readOnlyDevices(mounts []MountRecord) map[uint64]string {
	devices := make(map[uint64]string)
	for _, m := range mounts {
		if !m.ReadOnly() {
			continue
		}
		dev, err := c.device(m.Mountpoint)
		if err != nil {
			continue
		}
		devices[dev] = m.Mountpoint
	}
	return devices
}

// NoopChecker never reports read-only mounts. It is selected on platforms
// without a mount table implementation.
type NoopChecker struct{}

// ReadOnlyMounts always returns an empty result.
func (NoopChecker) ReadOnlyMounts(_ context.Context, _ []string) ([]string, error) {
	return nil, nil
}

var (
	_ Checker = (*MountChecker)(nil)
	_ Checker = NoopChecker{}
)
