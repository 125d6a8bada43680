//go:build unix

package files

import (
	"io/fs"
	"syscall"
)

// deviceID returns the filesystem device identifier for Unix-like systems.
func deviceID(info fs.FileInfo) (uint64, bool) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(stat.Dev), true
	}
	return 0, false
}
