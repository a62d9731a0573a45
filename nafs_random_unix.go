//go:build !windows

package main

import "os"

// isRandomCandidate reports whether a hosted file's owner-execute bit is
// set, mirroring ndircont.cpp's POSIX detection of a FLEX random
// (direct-access) file on non-Windows hosts.
func isRandomCandidate(info os.FileInfo) bool {
	return info.Mode()&0100 != 0
}
