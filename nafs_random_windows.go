//go:build windows

package main

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// isRandomCandidate reports whether a hosted file's hidden attribute is
// set, mirroring ndircont.cpp's Windows detection of a FLEX random
// (direct-access) file.
func isRandomCandidate(info os.FileInfo) bool {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return sys.FileAttributes&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
