// nafs_container.go - Native File System: presents a host directory as a
// FLEX-formatted floppy disk.
//
// Grounded on NafsDirectoryContainer in
// _examples/original_source/src/ndircont.cpp: a host directory's files
// are scanned once at mount time (initialize_flex_directory /
// ReadDirectory there) and synthesized into FLEX directory/system-info/
// data sectors on demand; directory sector writes are diffed against the
// sectors' previous contents and replayed onto the host filesystem using
// the exact five-step order the original's WriteSector uses:
// check_for_delete, check_for_new_file, check_for_rename,
// check_for_extend, check_for_changed_file_attr. Every other sector is
// served by consulting the sector link table (nafs_linktable.go), which
// tags each sector's kind and, for owned sectors, its owning file and
// position in that file's chain - mirroring the original's per-sector
// SectorType bookkeeping.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	bootSectors    = 2
	sysInfoSectors = 1
	dirStartSector = bootSectors + sysInfoSectors + 1 // first directory sector number on track 0
)

// nafsFile tracks one live file's mapping between its FLEX directory
// entry and its backing host file.
type nafsFile struct {
	hostName string
	entry    DirEntry
	size     int64
	modTime  time.Time
	random   bool          // true: first two chain sectors present a synthesized sector map
	chain    []TrackSector // one entry per sector in the file's chain, including any sector-map sectors
}

// newFileRecord tracks a file created by the guest that has been written
// to (via its first FreeChain sector) before its directory entry names
// it. Grounded on ndircont.cpp's check_for_new_file/new file record
// handling: a write into a free-chain sector with no owning directory
// entry yet opens a temporary host file, which is renamed into place once
// the directory entry materializes.
type newFileRecord struct {
	first   TrackSector
	tmpName string
}

// NafsDirectoryContainer implements DiskContainer over a host directory,
// making it appear on the emulated WD1793 bus as a single-sided FLEX
// diskette.
type NafsDirectoryContainer struct {
	mu sync.Mutex

	hostDir         string
	tracks          int
	sectorsPerTrack int
	writeProt       bool

	lt *linkTable

	sysInfo       SysInfoSector
	firstDirTrk   TrackSector
	dirSectorList []TrackSector // track/sector of each directory sector, in chain order

	files []*nafsFile // ordered as they appear in the directory

	newFiles      map[int]*newFileRecord // negative file-id -> pending new file
	nextNewFileID int

	pendingDirExtend TrackSector // sector a check_for_extend write expects to claim next

	prevDirSnapshot map[TrackSector]DirSector // last-written content of each directory sector, for diffing
}

// NewNafsDirectoryContainer mounts hostDir as a FLEX disk with the given
// geometry and scans it for FLEX-named files.
func NewNafsDirectoryContainer(hostDir string, tracks, sectorsPerTrack int, writeProtected bool) (*NafsDirectoryContainer, error) {
	c := &NafsDirectoryContainer{
		hostDir:         hostDir,
		tracks:          tracks,
		sectorsPerTrack: sectorsPerTrack,
		writeProt:       writeProtected,
		lt:              newLinkTable(tracks, sectorsPerTrack),
		firstDirTrk:     TrackSector{0, dirStartSector},
		newFiles:        make(map[int]*newFileRecord),
		nextNewFileID:   -1,
		prevDirSnapshot: make(map[TrackSector]DirSector),
	}
	if err := c.rescan(); err != nil {
		return nil, err
	}
	return c, nil
}

// isReservedHostName rejects the sidecar filenames NAFS itself gives
// meaning to, so they never get scanned in as FLEX directory entries.
func isReservedHostName(name string) bool {
	switch strings.ToLower(name) {
	case bootFileName, randomFileListName, flexDiskRCName:
		return true
	default:
		return false
	}
}

// pendingNewFileSector snapshots one still-pending new-file sector's
// link-table entry so rescan can carry it across a table reset.
type pendingNewFileSector struct {
	ts TrackSector
	e  linkEntry
}

// snapshotNewFileSectors captures every link-table entry still owned by
// a live newFiles record, before the table is reset. A new file being
// written mid-chain has no directory entry yet, so nothing else in
// rescan's fresh scan would otherwise know those sectors are claimed.
func (c *NafsDirectoryContainer) snapshotNewFileSectors() []pendingNewFileSector {
	var out []pendingNewFileSector
	for i := range c.lt.entries {
		e := c.lt.entries[i]
		if e.kind != KindNewFile {
			continue
		}
		if _, ok := c.newFiles[e.fileID]; !ok {
			continue
		}
		out = append(out, pendingNewFileSector{ts: c.lt.toTrackSector(i), e: e})
	}
	return out
}

// rescan rebuilds the in-memory directory/link-table model from the
// current contents of the host directory. Called at mount time and
// after any host-filesystem-visible change NAFS itself makes.
func (c *NafsDirectoryContainer) rescan() error {
	entries, err := os.ReadDir(c.hostDir)
	if err != nil {
		return newMachineError(IoError, "nafs.rescan", err)
	}

	randomList := readRandomFileList(c.hostDir)
	pending := c.snapshotNewFileSectors()

	var flexFiles []*nafsFile
	seen := make(map[string]bool)
	for _, de := range entries {
		if de.IsDir() || isReservedHostName(de.Name()) {
			continue
		}
		name, ext, ok := IsFlexFilename(de.Name(), true)
		if !ok {
			name, ext, ok = IsFlexFilename(de.Name(), false)
			if !ok {
				continue
			}
		}
		lower := strings.ToLower(de.Name())
		if seen[lower] {
			continue
		}
		seen[lower] = true

		info, err := de.Info()
		if err != nil {
			continue
		}

		isRandom := isRandomCandidate(info)
		if c.writeProt {
			isRandom = randomList[de.Name()]
		}

		nf := &nafsFile{
			hostName: de.Name(),
			size:     info.Size(),
			modTime:  info.ModTime(),
			random:   isRandom,
			entry: DirEntry{
				Filename:  name,
				Extension: ext,
				Month:     byte(info.ModTime().Month()),
				Day:       byte(info.ModTime().Day()),
				Year:      byte(info.ModTime().Year() % 100),
			},
		}
		if isRandom {
			nf.entry.Random = randomFileMarker
		}
		flexFiles = append(flexFiles, nf)
	}

	sort.Slice(flexFiles, func(i, j int) bool { return flexFiles[i].hostName < flexFiles[j].hostName })

	if c.dirSectorList == nil {
		n := requiredDirSectors(len(flexFiles))
		c.dirSectorList = make([]TrackSector, n)
		for i := range c.dirSectorList {
			c.dirSectorList[i] = TrackSector{0, byte(dirStartSector + i)}
		}
	} else {
		for len(c.dirSectorList)*dirEntriesPerSector < len(flexFiles) {
			c.dirSectorList = append(c.dirSectorList, TrackSector{0, byte(dirStartSector + len(c.dirSectorList))})
		}
	}

	c.lt.reset()
	for s := 1; s <= bootSectors; s++ {
		c.lt.at(TrackSector{0, byte(s)}).kind = KindBoot
	}
	for s := bootSectors + 1; s <= bootSectors+sysInfoSectors; s++ {
		c.lt.at(TrackSector{0, byte(s)}).kind = KindSystemInfo
	}
	for i, ts := range c.dirSectorList {
		e := c.lt.at(ts)
		e.kind = KindDirectory
		e.ordinal = i
		if i < len(c.dirSectorList)-1 {
			e.next = c.dirSectorList[i+1]
		}
	}

	cursor := dirStartSector - 1 + len(c.dirSectorList) // linear index of the first sector after the directory
	for idx, f := range flexFiles {
		nData := (int(f.size) + 251) / 252
		if nData == 0 {
			nData = 1
		}
		nSectors := nData
		if f.random {
			nSectors += 2
		}
		if cursor+nSectors > c.lt.totalSectors() {
			return newMachineError(DiskFull, "nafs.rescan", fmt.Errorf("hosted files need at least %d sectors, disk holds %d", cursor+nSectors, c.lt.totalSectors()))
		}
		f.chain = make([]TrackSector, nSectors)
		for i := 0; i < nSectors; i++ {
			ts := c.lt.toTrackSector(cursor)
			f.chain[i] = ts
			e := c.lt.at(ts)
			e.kind = KindFile
			e.fileID = idx + 1
			e.ordinal = i
			if i < nSectors-1 {
				e.next = c.lt.toTrackSector(cursor + 1)
			}
			// Grounded on ndircont.cpp's add_to_link_table: record_nr is
			// the ordinal shown to the guest, which for random files
			// starts counting only after the two synthesized map sectors.
			if f.random {
				if i >= 2 {
					e.recordNr = uint16(i - 1)
				}
			} else {
				e.recordNr = uint16(i + 1)
			}
			cursor++
		}
		f.entry.Start = f.chain[0]
		f.entry.End = f.chain[len(f.chain)-1]
		f.entry.Records = uint16(nSectors)
	}

	if cursor > c.lt.totalSectors() {
		return newMachineError(DiskFull, "nafs.rescan", fmt.Errorf("hosted files need %d sectors, disk holds %d", cursor, c.lt.totalSectors()))
	}

	for _, p := range pending {
		e := c.lt.at(p.ts)
		if e.kind == KindUnknown {
			*e = p.e
		}
	}

	for i := cursor; i < c.lt.totalSectors(); i++ {
		ts := c.lt.toTrackSector(i)
		e := c.lt.at(ts)
		if e.kind != KindUnknown {
			continue // a still-pending new file keeps its claimed sector
		}
		e.kind = KindFreeChain
		if i+1 < c.lt.totalSectors() {
			e.next = c.lt.toTrackSector(i + 1)
		}
	}

	c.files = flexFiles

	freeStart := cursor
	freeEnd := c.lt.totalSectors() - 1
	c.sysInfo = SysInfoSector{
		DiskName:  filepath.Base(c.hostDir),
		FreeStart: c.lt.toTrackSector(freeStart),
		FreeEnd:   c.lt.toTrackSector(freeEnd),
		FreeCount: uint16(maxInt(0, freeEnd-freeStart+1)),
		MaxTrack:  byte(c.tracks - 1),
		MaxSector: byte(c.sectorsPerTrack),
	}
	return nil
}

func requiredDirSectors(nFiles int) int {
	n := (nFiles + dirEntriesPerSector - 1) / dirEntriesPerSector
	if n == 0 {
		n = 1
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// LinkAddress returns the start sector of FLEX.SYS, if present, so the
// emulated machine can boot from this container.
func (c *NafsDirectoryContainer) LinkAddress() TrackSector {
	for _, f := range c.files {
		if f.entry.Filename == "FLEX" && f.entry.Extension == "SYS" {
			return f.entry.Start
		}
	}
	return TrackSector{}
}

// bootFileName is the optional host sidecar NAFS reads raw boot-sector
// content from, matching BOOT_FILE in ndircont.cpp.
const bootFileName = "boot"

// bootSector renders sector 1 or 2 of track 0. Content comes from the
// optional host "boot" sidecar file if present; sector 1's bytes 3-4 are
// always overwritten with the FLEX.SYS link address so the image stays
// bootable even if the sidecar is stale. With no sidecar, sector 1 falls
// back to a JMP to the FLEX monitor's warm-start entry point.
func (c *NafsDirectoryContainer) bootSector(sector int) []byte {
	buf := make([]byte, flexSectorSize)
	data, err := os.ReadFile(filepath.Join(c.hostDir, bootFileName))
	n := 0
	if err == nil {
		off := (sector - 1) * flexSectorSize
		if off < len(data) {
			n = copy(buf, data[off:])
		}
	}
	if sector == 1 {
		if n != flexSectorSize {
			buf[0], buf[1], buf[2] = 0x7E, 0xF0, 0x2D // JMP $F02D
		}
		link := c.LinkAddress()
		buf[3], buf[4] = link.Track, link.Sector
	}
	return buf
}

func (c *NafsDirectoryContainer) directorySector(idx int) DirSector {
	var d DirSector
	if idx < len(c.dirSectorList)-1 {
		d.Next = c.dirSectorList[idx+1]
	}
	base := idx * dirEntriesPerSector
	for i := 0; i < dirEntriesPerSector; i++ {
		fi := base + i
		if fi < len(c.files) {
			d.Entries[i] = c.files[fi].entry
		} else {
			d.Entries[i] = DirEntry{Filename: string([]byte{deEmpty})}
		}
	}
	return d
}

func (c *NafsDirectoryContainer) dirSectorIndex(ts TrackSector) int {
	for i, s := range c.dirSectorList {
		if s == ts {
			return i
		}
	}
	return -1
}

// fileForID resolves the fileID a KindFile link entry carries (1-based
// index into c.files) back to its nafsFile.
func (c *NafsDirectoryContainer) fileForID(id int) *nafsFile {
	if id <= 0 || id > len(c.files) {
		return nil
	}
	return c.files[id-1]
}

// ReadSector implements DiskContainer. Dispatch is entirely driven by the
// sector's link-table kind, matching ndircont.cpp's per-SectorType
// ReadSector branches.
func (c *NafsDirectoryContainer) ReadSector(track, sector int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := TrackSector{byte(track), byte(sector)}
	e := c.lt.at(ts)

	switch e.kind {
	case KindBoot:
		return c.bootSector(sector), nil
	case KindSystemInfo:
		return c.sysInfo.Marshal(), nil
	case KindDirectory:
		return c.directorySector(c.dirSectorIndex(ts)).Marshal(), nil
	case KindFile:
		return c.readChainSector(e)
	case KindNewFile:
		return c.readNewFileSector(e), nil
	default: // KindFreeChain, KindUnknown
		return c.readFreeChainLink(e), nil
	}
}

// readFreeChainLink renders an unowned sector's link metadata the way
// ndircont.cpp's ReadSector does for SectorType::FreeChain: next track/
// sector and record number in bytes 0-3, the remainder zeroed, so a FLEX
// guest can walk the free chain during allocation.
func (c *NafsDirectoryContainer) readFreeChainLink(e *linkEntry) []byte {
	buf := make([]byte, flexSectorSize)
	buf[0] = e.next.Track
	buf[1] = e.next.Sector
	buf[2] = byte(e.recordNr >> 8)
	buf[3] = byte(e.recordNr)
	return buf
}

// readNewFileSector serves a sector the guest has already written into
// as part of a not-yet-named new file, from its temporary host file.
func (c *NafsDirectoryContainer) readNewFileSector(e *linkEntry) []byte {
	rec, ok := c.newFiles[e.fileID]
	if !ok {
		return c.readFreeChainLink(e)
	}
	data, _ := os.ReadFile(filepath.Join(c.hostDir, rec.tmpName))
	var ds DataSector
	ds.Next = e.next
	ds.RecordNr = e.recordNr
	start := e.ordinal * 252
	end := start + 252
	if end > len(data) {
		end = len(data)
	}
	if start < len(data) {
		copy(ds.Payload[:], data[start:end])
	}
	return ds.Marshal()
}

// readChainSector serves a sector belonging to a known, directory-named
// file. A random file's first two chain positions present a synthesized
// sector map instead of host-file bytes.
func (c *NafsDirectoryContainer) readChainSector(e *linkEntry) ([]byte, error) {
	f := c.fileForID(e.fileID)
	if f == nil {
		return make([]byte, flexSectorSize), nil
	}

	var ds DataSector
	ds.Next = e.next
	ds.RecordNr = e.recordNr

	if f.random && e.ordinal < 2 {
		c.fillRandomSectorMap(f, e.ordinal, &ds.Payload)
		return ds.Marshal(), nil
	}

	data, err := os.ReadFile(filepath.Join(c.hostDir, f.hostName))
	if err != nil {
		return nil, newMachineError(IoError, "nafs.readChainSector", err)
	}

	dataOrdinal := e.ordinal
	if f.random {
		dataOrdinal -= 2
	}
	start := dataOrdinal * 252
	end := start + 252
	if end > len(data) {
		end = len(data)
	}
	if start < len(data) {
		copy(ds.Payload[:], data[start:end])
	}
	return ds.Marshal(), nil
}

// fillRandomSectorMap synthesizes the (track,sector,count) extent table a
// random file's first two sectors present to the guest, describing where
// its real data sectors live (spec: up to 48 such triples). NAFS always
// allocates one file's data sectors as a single run, so one entry, on the
// map's first sector, covers the whole file; the rest of the table is
// zero, which FLEX reads as "no more entries".
func (c *NafsDirectoryContainer) fillRandomSectorMap(f *nafsFile, ordinal int, payload *[252]byte) {
	if ordinal != 0 {
		return
	}
	dataSectors := len(f.chain) - 2
	if dataSectors <= 0 {
		return
	}
	start := f.chain[2]
	payload[0] = start.Track
	payload[1] = start.Sector
	payload[2] = byte(dataSectors >> 8)
	payload[3] = byte(dataSectors)
}

// WriteSector implements DiskContainer. Writes to directory sectors run
// the five-step diff against the previous snapshot of that sector and
// replay changes onto the host filesystem; writes to data/free-chain
// sectors are dispatched off the link table's kind for that sector.
func (c *NafsDirectoryContainer) WriteSector(track, sector int, data []byte) error {
	if c.writeProt {
		return newMachineError(DiskWriteProtected, "nafs.WriteSector", nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := TrackSector{byte(track), byte(sector)}
	e := c.lt.at(ts)

	switch e.kind {
	case KindBoot:
		return nil // boot content is read from the host sidecar, never guest-written
	case KindSystemInfo:
		c.sysInfo = UnmarshalSysInfoSector(data)
		return nil
	case KindDirectory:
		return c.writeDirectorySector(ts, data)
	case KindFile:
		return c.writeChainSector(e, data)
	default: // KindFreeChain, KindNewFile, KindUnknown
		return c.writeFreeChainSector(ts, e, data)
	}
}

func (c *NafsDirectoryContainer) writeDirectorySector(ts TrackSector, data []byte) error {
	di := c.dirSectorIndex(ts)
	newSector := UnmarshalDirSector(data)
	prev := c.prevDirSnapshot[ts]
	c.checkForDelete(di, prev, newSector)
	c.checkForNewFile(di, prev, newSector)
	c.checkForRename(di, prev, newSector)
	c.checkForExtend(ts, prev, newSector)
	c.checkForChangedFileAttr(di, prev, newSector)
	c.prevDirSnapshot[ts] = newSector
	return c.rescan()
}

// writeChainSector patches a known file's backing host file at the
// offset its chain ordinal implies. A random file's first two sectors
// hold the synthesized sector map and are not guest-writable.
func (c *NafsDirectoryContainer) writeChainSector(e *linkEntry, data []byte) error {
	f := c.fileForID(e.fileID)
	if f == nil {
		return nil
	}
	if f.random && e.ordinal < 2 {
		return nil
	}

	ds := UnmarshalDataSector(data)
	dataOrdinal := e.ordinal
	if f.random {
		dataOrdinal -= 2
	}
	return writeSectorPayload(filepath.Join(c.hostDir, f.hostName), dataOrdinal, ds.Payload[:])
}

// writeFreeChainSector implements check_for_new_file's other half: a
// guest write into a FreeChain (or already-claimed NewFile) sector before
// its directory entry exists. The first such write opens a temporary host
// file (tmpNN); later writes along the same chain append to it. Grounded
// on ndircont.cpp's new-file-record handling.
func (c *NafsDirectoryContainer) writeFreeChainSector(ts TrackSector, e *linkEntry, data []byte) error {
	if !c.pendingDirExtend.IsZero() && c.pendingDirExtend == ts {
		c.extendDirectory(ts)
		return nil
	}

	rec, ok := c.newFiles[e.fileID]
	if e.kind != KindNewFile || !ok {
		id := c.nextNewFileID
		c.nextNewFileID--
		rec = &newFileRecord{first: ts, tmpName: fmt.Sprintf("tmp%02d", -id)}
		c.newFiles[id] = rec
		e.kind = KindNewFile
		e.fileID = id
		e.ordinal = 0
	}

	ds := UnmarshalDataSector(data)
	if err := writeSectorPayload(filepath.Join(c.hostDir, rec.tmpName), e.ordinal, ds.Payload[:]); err != nil {
		return err
	}
	e.next = ds.Next
	e.recordNr = ds.RecordNr

	if !ds.Next.IsZero() {
		nextEntry := c.lt.at(ds.Next)
		if nextEntry.kind != KindFile {
			nextEntry.kind = KindNewFile
			nextEntry.fileID = e.fileID
			nextEntry.ordinal = e.ordinal + 1
		}
	}
	return nil
}

// writeSectorPayload writes a 252-byte record at ordinal's offset into
// path, growing the host file as needed. Shared by writeChainSector and
// writeFreeChainSector, which differ only in which host file and ordinal
// numbering they use.
func writeSectorPayload(path string, ordinal int, payload []byte) error {
	existing, _ := os.ReadFile(path)
	start := ordinal * 252
	needed := start + 252
	if needed > len(existing) {
		grown := make([]byte, needed)
		copy(grown, existing)
		existing = grown
	}
	copy(existing[start:start+252], payload)
	if err := os.WriteFile(path, existing, 0644); err != nil {
		return newMachineError(IoError, "nafs.writeSectorPayload", err)
	}
	return nil
}

// extendDirectory grows the directory by one sector, per spec/ndircont.cpp
// check_for_extend: the sector the previous directory sector's next
// pointer named is claimed as a directory sector instead of file data.
// Its content is synthesized fresh by directorySector, so nothing further
// needs writing here. The next rescan recomputes sysInfo.FreeCount against
// the now-longer dirSectorList.
func (c *NafsDirectoryContainer) extendDirectory(ts TrackSector) {
	claimed := c.lt.at(ts)
	if c.sysInfo.FreeStart == ts {
		c.sysInfo.FreeStart = claimed.next
	}
	if c.sysInfo.FreeCount > 0 {
		c.sysInfo.FreeCount--
	}
	c.dirSectorList = append(c.dirSectorList, ts)
	claimed.kind = KindDirectory
	c.pendingDirExtend = TrackSector{}
}

// Rescan re-reads the host directory, matching update_drive's effect of
// picking up host-filesystem changes made outside the emulated machine.
func (c *NafsDirectoryContainer) Rescan() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rescan()
}

func (c *NafsDirectoryContainer) SectorSize() int      { return flexSectorSize }
func (c *NafsDirectoryContainer) SectorsPerTrack() int { return c.sectorsPerTrack }
func (c *NafsDirectoryContainer) Tracks() int          { return c.tracks }
func (c *NafsDirectoryContainer) WriteProtected() bool { return c.writeProt }
func (c *NafsDirectoryContainer) Close() error         { return nil }
