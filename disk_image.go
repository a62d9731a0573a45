// disk_image.go - raw disk image containers (DSK/FLX/JVC) and the
// DiskContainer interface shared with the NAFS engine.
//
// Grounded on spec.md §6's format table; the DiskContainer interface shape
// mirrors ndircont.cpp's container-level read/write-sector methods so
// WD1793 (floppy_wd1793.go) can treat a raw image and a NAFS-mounted
// directory identically.

package main

import (
	"fmt"
	"os"
)

const flexSectorSize = 256

// DiskContainer is implemented by every mountable drive backend: raw
// image files (this file) and the NAFS directory-as-disk engine
// (nafs_container.go).
type DiskContainer interface {
	ReadSector(track, sector int) ([]byte, error)
	WriteSector(track, sector int, data []byte) error
	SectorSize() int
	SectorsPerTrack() int
	Tracks() int
	WriteProtected() bool
	Close() error
}

// ImageFormat identifies the on-disk container format.
type ImageFormat int

const (
	FormatDSK ImageFormat = iota
	FormatFLX
	FormatJVC
)

// RawImageContainer implements DiskContainer over a flat, track-major
// sector image with an optional small header (FLX's 256-byte geometry
// header, or JVC's 1-5 byte header).
type RawImageContainer struct {
	path       string
	file       *os.File
	format     ImageFormat
	headerLen  int64
	tracks     int
	sectors    int
	writeProt  bool
}

// OpenRawImage opens path and classifies it as DSK/FLX/JVC based on its
// extension alone; an FLX file's 256-byte header is not inspected.
func OpenRawImage(path string, tracks, sectorsPerTrack int, writeProtected bool) (*RawImageContainer, error) {
	flags := os.O_RDWR
	if writeProtected {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, newMachineError(DiskMountFailed, "disk_image.OpenRawImage", err)
	}

	c := &RawImageContainer{path: path, file: f, tracks: tracks, sectors: sectorsPerTrack, writeProt: writeProtected}
	c.format, c.headerLen = detectFormat(path)
	return c, nil
}

func detectFormat(path string) (ImageFormat, int64) {
	switch ext(path) {
	case ".flx":
		return FormatFLX, 256
	case ".jvc", ".dsk0", ".dsk1":
		return FormatJVC, 1
	default:
		return FormatDSK, 0
	}
}

func ext(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func (c *RawImageContainer) offset(track, sector int) int64 {
	return c.headerLen + int64(track*c.sectors+(sector-1))*flexSectorSize
}

func (c *RawImageContainer) ReadSector(track, sector int) ([]byte, error) {
	buf := make([]byte, flexSectorSize)
	_, err := c.file.ReadAt(buf, c.offset(track, sector))
	if err != nil {
		return nil, newMachineError(IoError, fmt.Sprintf("disk_image.ReadSector(%d,%d)", track, sector), err)
	}
	return buf, nil
}

func (c *RawImageContainer) WriteSector(track, sector int, data []byte) error {
	if c.writeProt {
		return newMachineError(DiskWriteProtected, "disk_image.WriteSector", nil)
	}
	if len(data) != flexSectorSize {
		padded := make([]byte, flexSectorSize)
		copy(padded, data)
		data = padded
	}
	_, err := c.file.WriteAt(data, c.offset(track, sector))
	return err
}

func (c *RawImageContainer) SectorSize() int       { return flexSectorSize }
func (c *RawImageContainer) SectorsPerTrack() int  { return c.sectors }
func (c *RawImageContainer) Tracks() int           { return c.tracks }
func (c *RawImageContainer) WriteProtected() bool  { return c.writeProt }
func (c *RawImageContainer) Close() error          { return c.file.Close() }

// FormatDisk creates a new raw DSK image with tracks*sectors sectors,
// each filled with the e5 fill byte FLEX uses for unformatted sectors.
func FormatDisk(path string, tracks, sectorsPerTrack int) error {
	if tracks < 2 || sectorsPerTrack < 5 {
		return newMachineError(DiskFormatFailed, "disk_image.FormatDisk", fmt.Errorf("geometry %dx%d below minimum 2x5", tracks, sectorsPerTrack))
	}
	if _, err := os.Stat(path); err == nil {
		return newMachineError(DiskFormatFailed, "disk_image.FormatDisk", fmt.Errorf("%s already exists", path))
	}
	f, err := os.Create(path)
	if err != nil {
		return newMachineError(DiskFormatFailed, "disk_image.FormatDisk", err)
	}
	defer f.Close()

	fill := make([]byte, flexSectorSize)
	for i := range fill {
		fill[i] = 0xE5
	}
	for t := 0; t < tracks; t++ {
		for s := 0; s < sectorsPerTrack; s++ {
			if _, err := f.Write(fill); err != nil {
				return err
			}
		}
	}
	return nil
}
