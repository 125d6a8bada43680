//go:build windows

package files

import "io/fs"

// deviceID is unavailable on Windows, so filesystem boundaries are not
// detected there and the traversal behaves as if same_file_system is off.
func deviceID(info fs.FileInfo) (uint64, bool) {
	return 0, false
}
