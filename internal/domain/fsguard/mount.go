package fsguard

import "strings"

// readOnlyToken is the option marking a mount or superblock read-only.
const readOnlyToken = "ro"

// MountRecord is one entry of the mount table.
type MountRecord struct {
	Mountpoint string

	// MountOptions are the per-mount options (e.g. "ro,relatime").
	MountOptions string

	// SuperOptions are the per-superblock options (e.g. "rw,seclabel").
	SuperOptions string
}

// ReadOnly reports whether either option group starts with the "ro" token.
func (m MountRecord) ReadOnly() bool {
	return startsWithReadOnly(m.MountOptions) || startsWithReadOnly(m.SuperOptions)
}

func startsWithReadOnly(options string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(options), ",")
	return first == readOnlyToken
}

// MountSource reads the current mount table in table order.
type MountSource interface {
	Mounts() ([]MountRecord, error)
}

// MountSourceFunc adapts a function to MountSource.
type MountSourceFunc func() ([]MountRecord, error)

// Mounts calls f.
func (f MountSourceFunc) Mounts() ([]MountRecord, error) {
	return f()
}

// StaticMounts is a MountSource returning a fixed table.
type StaticMounts []MountRecord

// Mounts returns a copy of the table.
func (s StaticMounts) Mounts() ([]MountRecord, error) {
	out := make([]MountRecord, len(s))
	copy(out, s)
	return out, nil
}

// DeviceResolver returns the storage device identifier backing path.
type DeviceResolver func(path string) (uint64, error)
