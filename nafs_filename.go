// nafs_filename.go - FLEX filename validation and conversion helpers.
//
// Ported from NafsDirectoryContainer::IsFlexFilename in
// _examples/original_source/src/ndircont.cpp: a FLEX basename is 1-8
// characters, first character a-z, remaining a-z/0-9/_/-; an optional
// extension is 1-3 characters with the same first-char rule. Host
// filenames are matched case-insensitively and upper-cased for the FLEX
// directory entry, matching the original's strupper() call.

package main

import (
	"regexp"
	"strings"
)

const (
	flexBaseFilenameLength = 8
	flexFileExtLength      = 3
)

var (
	flexNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,7}$`)
	flexExtRe  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,2}$`)
)

// IsFlexFilename validates pfilename (a host filename, no path) as a FLEX
// name[.ext] pattern. If withExtension is true a dot-extension is
// required. On success it returns the upper-cased name and extension.
func IsFlexFilename(pfilename string, withExtension bool) (name, extension string, ok bool) {
	dot := strings.LastIndexByte(pfilename, '.')

	if dot < 0 {
		if withExtension {
			return "", "", false
		}
		if !flexNameRe.MatchString(pfilename) {
			return "", "", false
		}
		return strings.ToUpper(pfilename), "", true
	}

	base, ext := pfilename[:dot], pfilename[dot+1:]
	if !flexNameRe.MatchString(base) || !flexExtRe.MatchString(ext) {
		return "", "", false
	}
	return strings.ToUpper(base), strings.ToUpper(ext), true
}

// flexToHostFilename renders a FLEX directory entry's name/ext pair back
// into a host filename, lower-cased to match the convention the original
// uses when creating new host files for new FLEX directory entries.
func flexToHostFilename(name, extension string) string {
	name = strings.ToLower(strings.TrimRight(name, "\x00 "))
	extension = strings.ToLower(strings.TrimRight(extension, "\x00 "))
	if extension == "" {
		return name
	}
	return name + "." + extension
}

// uniqueHostFilename appends a numeric suffix before the extension until
// the candidate is absent from existing, matching the original's
// approach of never silently overwriting an unrelated host file when a
// new FLEX directory entry collides with one that's not FLEX-named.
func uniqueHostFilename(base string, existing map[string]bool) string {
	if !existing[base] {
		return base
	}
	name, ext, _ := strings.Cut(base, ".")
	for i := 1; ; i++ {
		candidate := name + "_" + itoa(i)
		if ext != "" {
			candidate += "." + ext
		}
		if !existing[candidate] {
			return candidate
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
