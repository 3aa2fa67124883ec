//go:build linux

package fsguard

import (
	"io"

	"github.com/moby/sys/mountinfo"
	"golang.org/x/sys/unix"
)

// NewPlatformChecker returns the mountinfo-backed checker for Linux.
func NewPlatformChecker() Checker {
	return NewMountChecker(MountSourceFunc(procMounts), StatDevice)
}

// StatDevice returns the st_dev of path.
func StatDevice(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Dev), nil //nolint:unconvert // Dev is uint32 on some architectures
}

func procMounts() ([]MountRecord, error) {
	infos, err := mountinfo.GetMounts(nil)
	if err != nil {
		return nil, err
	}
	return toRecords(infos), nil
}

// ParseMountInfo reads records in /proc/<pid>/mountinfo format.
func ParseMountInfo(r io.Reader) ([]MountRecord, error) {
	infos, err := mountinfo.GetMountsFromReader(r, nil)
	if err != nil {
		return nil, err
	}
	return toRecords(infos), nil
}

func toRecords(infos []*mountinfo.Info) []MountRecord {
	records := make([]MountRecord, 0, len(infos))
	for _, info := range infos {
		records = append(records, MountRecord{
			Mountpoint:   info.Mountpoint,
			MountOptions: info.Options,
			SuperOptions: info.VFSOptions,
		})
	}
	return records
}
