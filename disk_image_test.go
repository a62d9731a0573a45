package main

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFormatDiskRejectsGeometryBelowMinimum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.dsk")
	err := FormatDisk(path, 1, 4)
	if err == nil {
		t.Fatal("expected error for geometry below minimum")
	}
	var me *MachineError
	if !errors.As(err, &me) || me.Kind != DiskFormatFailed {
		t.Fatalf("err = %v, want DiskFormatFailed", err)
	}
}

func TestFormatDiskRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.dsk")
	if err := FormatDisk(path, 35, 10); err != nil {
		t.Fatalf("first format: %v", err)
	}
	err := FormatDisk(path, 35, 10)
	var me *MachineError
	if !errors.As(err, &me) || me.Kind != DiskFormatFailed {
		t.Fatalf("err = %v, want DiskFormatFailed for existing file", err)
	}
}

func TestOpenRawImageReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.dsk")
	if err := FormatDisk(path, 35, 10); err != nil {
		t.Fatalf("format: %v", err)
	}

	img, err := OpenRawImage(path, 35, 10, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer img.Close()

	data := make([]byte, flexSectorSize)
	for i := range data {
		data[i] = byte(i)
	}
	if err := img.WriteSector(1, 1, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := img.ReadSector(1, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d = %02X, want %02X", i, got[i], data[i])
		}
	}
}

func TestOpenRawImageWriteProtected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.dsk")
	if err := FormatDisk(path, 35, 10); err != nil {
		t.Fatalf("format: %v", err)
	}
	img, err := OpenRawImage(path, 35, 10, true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer img.Close()

	err = img.WriteSector(1, 1, make([]byte, flexSectorSize))
	var me *MachineError
	if !errors.As(err, &me) || me.Kind != DiskWriteProtected {
		t.Fatalf("err = %v, want DiskWriteProtected", err)
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	cases := map[string]ImageFormat{
		"image.flx":  FormatFLX,
		"image.jvc":  FormatJVC,
		"image.dsk0": FormatJVC,
		"image.dsk":  FormatDSK,
		"image":      FormatDSK,
	}
	for name, want := range cases {
		got, _ := detectFormat(name)
		if got != want {
			t.Errorf("detectFormat(%q) = %v, want %v", name, got, want)
		}
	}
}
