// nafs_options.go - .flexdiskrc sidecar file: remembers the emulated
// geometry of a directory mounted as a FLEX disk across runs.
//
// Grounded on FlexDirectoryDiskOptions's use in ndircont.cpp's
// NafsDirectoryContainer constructor: read tracks/sectors from
// .flexdiskrc if present, otherwise fall back to the caller-supplied
// geometry and persist it for next time.

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const flexDiskRCName = ".flexdiskrc"

// randomFileListName is the optional host sidecar naming files that must
// be treated as FLEX random (direct-access) files regardless of their
// host attributes. Grounded on ndircont.cpp's RANDOM_FILE_LIST handling,
// which it consults instead of attribute detection whenever the mount is
// write-protected (attribute bits can't be fixed up by hand there).
const randomFileListName = "random"

// readRandomFileList loads the set of host filenames listed one-per-line
// in dir's "random" sidecar, if present. A missing or unreadable sidecar
// yields an empty set rather than an error, matching the optional nature
// of the file.
func readRandomFileList(dir string) map[string]bool {
	set := make(map[string]bool)
	f, err := os.Open(filepath.Join(dir, randomFileListName))
	if err != nil {
		return set
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name != "" {
			set[name] = true
		}
	}
	return set
}

// FlexDirectoryDiskOptions reads and writes the small key=value sidecar
// file that records a NAFS-mounted directory's emulated disk geometry.
type FlexDirectoryDiskOptions struct {
	dir     string
	tracks  int
	sectors int
}

func NewFlexDirectoryDiskOptions(dir string) *FlexDirectoryDiskOptions {
	return &FlexDirectoryDiskOptions{dir: dir}
}

func (o *FlexDirectoryDiskOptions) path() string {
	return filepath.Join(o.dir, flexDiskRCName)
}

// Read loads tracks/sectors from .flexdiskrc. It returns false (with a
// nil error) when the file does not exist, matching the original's
// Read() returning false so the caller falls back to defaults.
func (o *FlexDirectoryDiskOptions) Read() (bool, error) {
	f, err := os.Open(o.path())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		n, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		switch key {
		case "tracks":
			o.tracks = n
		case "sectors":
			o.sectors = n
		}
	}
	return o.tracks > 0 && o.sectors > 0, sc.Err()
}

func (o *FlexDirectoryDiskOptions) SetTracks(t int)  { o.tracks = t }
func (o *FlexDirectoryDiskOptions) SetSectors(s int) { o.sectors = s }
func (o *FlexDirectoryDiskOptions) GetTracks() int   { return o.tracks }
func (o *FlexDirectoryDiskOptions) GetSectors() int  { return o.sectors }

// Write persists the current geometry. overwrite mirrors the original's
// write(bool overwrite) parameter: when false an existing file is left
// untouched.
func (o *FlexDirectoryDiskOptions) Write(overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(o.path()); err == nil {
			return nil
		}
	}
	content := fmt.Sprintf("tracks=%d\nsectors=%d\n", o.tracks, o.sectors)
	return os.WriteFile(o.path(), []byte(content), 0644)
}

// ResolveGeometry loads geometry from dir's .flexdiskrc, or seeds it
// from (defaultTracks, defaultSectors) and writes the sidecar file for
// next time, exactly as the NafsDirectoryContainer constructor does.
func ResolveGeometry(dir string, defaultTracks, defaultSectors int) (tracks, sectors int, err error) {
	opts := NewFlexDirectoryDiskOptions(dir)
	ok, err := opts.Read()
	if err != nil {
		return 0, 0, err
	}
	if ok {
		return opts.GetTracks(), opts.GetSectors(), nil
	}
	opts.SetTracks(defaultTracks)
	opts.SetSectors(defaultSectors)
	if err := opts.Write(true); err != nil {
		return 0, 0, err
	}
	return defaultTracks, defaultSectors, nil
}
