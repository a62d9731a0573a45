// nafs_directory.go - the five-step directory-sector write diff.
//
// Each step mirrors one of NafsDirectoryContainer's check_for_* methods
// in ndircont.cpp, run in the exact order WriteSector there calls them:
// delete, new file, rename, extend, changed attributes. Comparing by
// directory-entry slot (not by filename) is what lets a rename and a
// delete-then-create be told apart, exactly as the original does.

package main

import (
	"os"
	"path/filepath"
)

func entryAt(d DirSector, slot int) DirEntry {
	if slot < 0 || slot >= dirEntriesPerSector {
		return DirEntry{}
	}
	return d.Entries[slot]
}

// checkForDelete removes the host file for any slot that held a file in
// prev but is now empty/deleted in cur.
func (c *NafsDirectoryContainer) checkForDelete(dsIdx int, prev, cur DirSector) {
	for slot := 0; slot < dirEntriesPerSector; slot++ {
		old := entryAt(prev, slot)
		now := entryAt(cur, slot)
		if old.IsEmpty() || !now.IsEmpty() {
			continue
		}
		if f := c.findFileByStart(old.Start); f != nil {
			os.Remove(filepath.Join(c.hostDir, f.hostName))
		}
	}
}

// checkForNewFile names a newly-allocated directory slot. If the guest
// already wrote data into this file's chain before naming it (see
// writeFreeChainSector), the temporary host file that write opened is
// renamed into place; otherwise an empty host file is created, matching
// the common case of a file created with zero records.
func (c *NafsDirectoryContainer) checkForNewFile(dsIdx int, prev, cur DirSector) {
	for slot := 0; slot < dirEntriesPerSector; slot++ {
		old := entryAt(prev, slot)
		now := entryAt(cur, slot)
		if !old.IsEmpty() || now.IsEmpty() {
			continue
		}
		if c.findFileByStart(now.Start) != nil {
			continue
		}
		if c.materializeNewFile(now) {
			continue
		}
		hostName := flexToHostFilename(now.Filename, now.Extension)
		if _, err := os.Stat(filepath.Join(c.hostDir, hostName)); err == nil {
			hostName = uniqueHostFilename(hostName, c.existingHostNames())
		}
		os.WriteFile(filepath.Join(c.hostDir, hostName), nil, 0644)
	}
}

// materializeNewFile renames the temporary host file opened by the first
// FreeChain write into now's chain (see writeFreeChainSector) to the name
// the guest just assigned it, and reaps the pending new-file record. It
// reports false when no such write ever happened, so the caller falls
// back to plain empty-file creation.
func (c *NafsDirectoryContainer) materializeNewFile(now DirEntry) bool {
	id, ok := c.findNewFileByStart(now.Start)
	if !ok {
		return false
	}
	rec := c.newFiles[id]
	hostName := flexToHostFilename(now.Filename, now.Extension)
	if _, err := os.Stat(filepath.Join(c.hostDir, hostName)); err == nil {
		hostName = uniqueHostFilename(hostName, c.existingHostNames())
	}
	os.Rename(filepath.Join(c.hostDir, rec.tmpName), filepath.Join(c.hostDir, hostName))
	delete(c.newFiles, id)
	return true
}

func (c *NafsDirectoryContainer) findNewFileByStart(start TrackSector) (int, bool) {
	for id, rec := range c.newFiles {
		if rec.first == start {
			return id, true
		}
	}
	return 0, false
}

// checkForRename renames the backing host file when a slot's name or
// extension changed but its start address still matches a known file.
func (c *NafsDirectoryContainer) checkForRename(dsIdx int, prev, cur DirSector) {
	for slot := 0; slot < dirEntriesPerSector; slot++ {
		old := entryAt(prev, slot)
		now := entryAt(cur, slot)
		if old.IsEmpty() || now.IsEmpty() {
			continue
		}
		if old.Filename == now.Filename && old.Extension == now.Extension {
			continue
		}
		f := c.findFileByStart(old.Start)
		if f == nil {
			continue
		}
		newHostName := flexToHostFilename(now.Filename, now.Extension)
		if newHostName == f.hostName {
			continue
		}
		if _, err := os.Stat(filepath.Join(c.hostDir, newHostName)); err == nil {
			newHostName = uniqueHostFilename(newHostName, c.existingHostNames())
		}
		os.Rename(filepath.Join(c.hostDir, f.hostName), filepath.Join(c.hostDir, newHostName))
	}
}

// existingHostNames lists the host directory's current filenames, used by
// uniqueHostFilename to pick a collision-free name when a new or renamed
// FLEX entry would otherwise overwrite an unrelated host file.
func (c *NafsDirectoryContainer) existingHostNames() map[string]bool {
	names := make(map[string]bool)
	entries, err := os.ReadDir(c.hostDir)
	if err != nil {
		return names
	}
	for _, de := range entries {
		names[de.Name()] = true
	}
	return names
}

// checkForExtend records that the guest has chained a new directory
// sector onto this one (prev.Next was the terminator, cur.Next now names
// a sector). The actual extension - reclassifying that sector as a
// directory sector instead of free-chain - happens in
// writeFreeChainSector when the guest's next write reaches it, matching
// ndircont.cpp's check_for_extend allocating the sector at the free-chain
// start on demand rather than eagerly.
func (c *NafsDirectoryContainer) checkForExtend(ts TrackSector, prev, cur DirSector) {
	if prev.Next.IsZero() && !cur.Next.IsZero() {
		c.pendingDirExtend = cur.Next
	}
}

// checkForChangedFileAttr mirrors FLEX's WRITE_PROTECT bit onto the host
// file's own permission bits.
func (c *NafsDirectoryContainer) checkForChangedFileAttr(dsIdx int, prev, cur DirSector) {
	for slot := 0; slot < dirEntriesPerSector; slot++ {
		old := entryAt(prev, slot)
		now := entryAt(cur, slot)
		if now.IsEmpty() || old.Attr == now.Attr {
			continue
		}
		f := c.findFileByStart(now.Start)
		if f == nil {
			continue
		}
		mode := os.FileMode(0644)
		if now.Attr&0x80 != 0 { // WRITE_PROTECT
			mode = 0444
		}
		os.Chmod(filepath.Join(c.hostDir, f.hostName), mode)
	}
}

func (c *NafsDirectoryContainer) findFileByStart(start TrackSector) *nafsFile {
	for _, f := range c.files {
		if f.entry.Start == start {
			return f
		}
	}
	return nil
}
