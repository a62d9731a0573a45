package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestIsFlexFilename(t *testing.T) {
	cases := []struct {
		in   string
		name string
		ext  string
		ok   bool
	}{
		{"flex.sys", "FLEX", "SYS", true},
		{"x.a", "X", "A", true},
		{"xxxxxxxx.a", "XXXXXXXX", "A", true},
		{"x.", "", "", false},
		{".a", "", "", false},
		{"9start.a", "", "", false},
	}
	for _, c := range cases {
		name, ext, ok := IsFlexFilename(c.in, true)
		if ok != c.ok {
			t.Fatalf("IsFlexFilename(%q) ok=%v want %v", c.in, ok, c.ok)
		}
		if ok && (name != c.name || ext != c.ext) {
			t.Fatalf("IsFlexFilename(%q) = %q.%q, want %q.%q", c.in, name, ext, c.name, c.ext)
		}
	}
}

func TestNafsContainerMountAndReadDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(c.files) != 1 {
		t.Fatalf("expected 1 FLEX file, got %d", len(c.files))
	}

	dirSec, err := c.ReadSector(0, dirStartSector)
	if err != nil {
		t.Fatalf("read dir sector: %v", err)
	}
	ds := UnmarshalDirSector(dirSec)
	if ds.Entries[0].Filename != "TEST" || ds.Entries[0].Extension != "TXT" {
		t.Fatalf("dir entry = %q.%q, want TEST.TXT", ds.Entries[0].Filename, ds.Entries[0].Extension)
	}
}

func TestNafsContainerDeleteViaDirectoryDiff(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	rawDir, _ := c.ReadSector(0, dirStartSector)
	prev := UnmarshalDirSector(rawDir)
	c.prevDirSnapshot[TrackSector{0, dirStartSector}] = prev

	updated := prev
	updated.Entries[0] = DirEntry{Filename: string([]byte{deEmpty})}
	if err := c.WriteSector(0, dirStartSector, updated.Marshal()); err != nil {
		t.Fatalf("write dir sector: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected a.txt to be deleted, stat err = %v", err)
	}
}

func TestNafsContainerDiskFullOnUndersizedGeometry(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "big.txt"), make([]byte, 4000), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewNafsDirectoryContainer(dir, 2, 5, false)
	if err == nil {
		t.Fatal("expected DiskFull for undersized geometry")
	}
	var me *MachineError
	if !errors.As(err, &me) || me.Kind != DiskFull {
		t.Fatalf("err = %v, want DiskFull", err)
	}
}

func TestNafsContainerBootSectorPatchesLinkAddress(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "flex.sys"), []byte("binary"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	boot1, err := c.ReadSector(0, 1)
	if err != nil {
		t.Fatalf("read boot sector: %v", err)
	}
	link := c.LinkAddress()
	if link.IsZero() {
		t.Fatal("expected FLEX.SYS to resolve a link address")
	}
	if boot1[3] != link.Track || boot1[4] != link.Sector {
		t.Fatalf("boot sector link = (%d,%d), want (%d,%d)", boot1[3], boot1[4], link.Track, link.Sector)
	}
	if boot1[0] != 0x7E || boot1[1] != 0xF0 || boot1[2] != 0x2D {
		t.Fatalf("boot sector default jump = %02X %02X %02X, want 7E F0 2D", boot1[0], boot1[1], boot1[2])
	}
}

func TestNafsContainerNewFileWritesDataBeforeDirectoryEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	var payload [252]byte
	copy(payload[:], []byte("hello from a brand new file"))
	var ds DataSector
	ds.Payload = payload
	if err := c.WriteSector(0, 5, ds.Marshal()); err != nil {
		t.Fatalf("write free-chain sector: %v", err)
	}

	rawDir, err := c.ReadSector(0, dirStartSector)
	if err != nil {
		t.Fatalf("read dir sector: %v", err)
	}
	prev := UnmarshalDirSector(rawDir)
	c.prevDirSnapshot[TrackSector{0, dirStartSector}] = prev

	updated := prev
	updated.Entries[0] = DirEntry{
		Filename:  "TEST",
		Extension: "TXT",
		Start:     TrackSector{0, 5},
		End:       TrackSector{0, 5},
		Records:   1,
	}
	if err := c.WriteSector(0, dirStartSector, updated.Marshal()); err != nil {
		t.Fatalf("write dir sector: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "test.txt"))
	if err != nil {
		t.Fatalf("test.txt not created: %v", err)
	}
	if string(got) != string(payload[:]) {
		t.Fatalf("test.txt content = %q, want %q", got, payload[:])
	}
}

func TestNafsContainerFreeChainReadExposesLinkMetadata(t *testing.T) {
	dir := t.TempDir()
	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	buf, err := c.ReadSector(0, 5)
	if err != nil {
		t.Fatalf("read free-chain sector: %v", err)
	}
	e := c.lt.at(TrackSector{0, 5})
	if e.next.IsZero() {
		t.Fatal("expected a non-terminal free-chain entry on an empty disk")
	}
	if buf[0] != e.next.Track || buf[1] != e.next.Sector {
		t.Fatalf("free-chain link = (%d,%d), want (%d,%d)", buf[0], buf[1], e.next.Track, e.next.Sector)
	}
}

func TestNafsContainerRandomFileGetsSectorMap(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "prog.bin"), make([]byte, 600), 0755); err != nil {
		t.Fatal(err)
	}

	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(c.files) != 1 || !c.files[0].random {
		t.Fatalf("expected prog.bin to be classified as a random file")
	}
	if c.files[0].entry.Random != randomFileMarker {
		t.Fatalf("DirEntry.Random = %d, want %d", c.files[0].entry.Random, randomFileMarker)
	}

	mapTS := c.files[0].chain[0]
	mapSector, err := c.ReadSector(int(mapTS.Track), int(mapTS.Sector))
	if err != nil {
		t.Fatalf("read sector map: %v", err)
	}
	ds := UnmarshalDataSector(mapSector)
	dataStart := c.files[0].chain[2]
	if ds.Payload[0] != dataStart.Track || ds.Payload[1] != dataStart.Sector {
		t.Fatalf("sector map entry = (%d,%d), want (%d,%d)", ds.Payload[0], ds.Payload[1], dataStart.Track, dataStart.Sector)
	}
}

func TestNafsContainerDirectoryExtendsOnGuestWrite(t *testing.T) {
	dir := t.TempDir()
	c, err := NewNafsDirectoryContainer(dir, 35, 10, false)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if len(c.dirSectorList) != 1 {
		t.Fatalf("expected a single directory sector on an empty disk, got %d", len(c.dirSectorList))
	}

	rawDir, err := c.ReadSector(0, dirStartSector)
	if err != nil {
		t.Fatalf("read dir sector: %v", err)
	}
	prev := UnmarshalDirSector(rawDir)
	c.prevDirSnapshot[TrackSector{0, dirStartSector}] = prev

	extendTarget := TrackSector{0, 5} // head of the free chain on an empty disk
	updated := prev
	updated.Next = extendTarget
	if err := c.WriteSector(0, dirStartSector, updated.Marshal()); err != nil {
		t.Fatalf("write dir sector: %v", err)
	}
	if len(c.dirSectorList) != 1 {
		t.Fatal("directory should not extend until its claimed sector is actually written")
	}

	if err := c.WriteSector(0, int(extendTarget.Sector), DirSector{}.Marshal()); err != nil {
		t.Fatalf("write extension sector: %v", err)
	}
	if len(c.dirSectorList) != 2 || c.dirSectorList[1] != extendTarget {
		t.Fatalf("directory did not extend to %v, list = %v", extendTarget, c.dirSectorList)
	}
}

func TestResolveGeometryWritesSidecar(t *testing.T) {
	dir := t.TempDir()
	tracks, sectors, err := ResolveGeometry(dir, 35, 10)
	if err != nil {
		t.Fatalf("ResolveGeometry: %v", err)
	}
	if tracks != 35 || sectors != 10 {
		t.Fatalf("geometry = %d/%d, want 35/10", tracks, sectors)
	}
	if _, err := os.Stat(filepath.Join(dir, flexDiskRCName)); err != nil {
		t.Fatalf(".flexdiskrc not written: %v", err)
	}

	tracks2, sectors2, err := ResolveGeometry(dir, 80, 18)
	if err != nil {
		t.Fatalf("ResolveGeometry reread: %v", err)
	}
	if tracks2 != 35 || sectors2 != 10 {
		t.Fatalf("reread geometry = %d/%d, want persisted 35/10", tracks2, sectors2)
	}
}
