// floppy_wd1793.go - WD1793-compatible floppy disk controller
//
// Grounded on spec.md §4.3's command/state-machine description: top-nibble
// command decode (Restore/Seek/Step variants/Read-sector/Write-sector/
// Read-address/Read-track/Write-track/Force-interrupt). Write-track only
// enters WTWaitForIdMark and sets Busy; the written byte stream is not
// interpreted and no sector is formatted. Sector read/write is delegated to
// whatever DiskContainer is currently mounted on the drive (raw image or
// NAFS), grounded on ndircont.cpp's container-level read/write dispatch.
//
// Timing is not modeled: status bits change as soon as a command is
// executed, with no busy-cycle counters or seek/settle delays, per
// spec.md §9's explicit non-goal of bug-for-bug timing reproduction; see
// DESIGN.md.

package main

import "sync"

// WriteTrackState enumerates the write-track formatting state machine.
type WriteTrackState int

const (
	WTInactive WriteTrackState = iota
	WTWaitForIdMark
	WTIdAddressMark
	WTWaitForDataMark
	WTWriteData
	WTWaitForCrc
)

const maxDrives = 4

// Status register bits.
const (
	fdcStatusBusy     = 0x01
	fdcStatusDRQ      = 0x02
	fdcStatusTrack0   = 0x04
	fdcStatusCRCError = 0x08
	fdcStatusNotReady = 0x80
)

type driveSlot struct {
	container DiskContainer
	track     int
	writeProt bool
}

// WD1793 is the floppy disk controller shared by up to four drives.
type WD1793 struct {
	mu sync.Mutex

	drives     [maxDrives]driveSlot
	currentDrv int

	command byte
	status  byte
	track   byte
	sector  byte
	data    byte

	dataBuf  []byte
	dataPos  int

	wtState WriteTrackState

	irqFunc func()
}

func NewWD1793() *WD1793 {
	fdc := &WD1793{}
	for i := range fdc.drives {
		fdc.drives[i].track = 0
	}
	return fdc
}

func (f *WD1793) SetIRQFunc(fn func()) { f.irqFunc = fn }

func (f *WD1793) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.command, f.status, f.track, f.sector, f.data = 0, 0, 0, 0, 0
	f.dataBuf = nil
	f.dataPos = 0
	f.wtState = WTInactive
}

// SelectDrive chooses which of the four drives subsequent commands target.
func (f *WD1793) SelectDrive(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n >= 0 && n < maxDrives {
		f.currentDrv = n
	}
}

func (f *WD1793) MountDrive(n int, container DiskContainer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n >= 0 && n < maxDrives {
		f.drives[n].container = container
	}
}

func (f *WD1793) UnmountDrive(n int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 0 || n >= maxDrives {
		return false
	}
	f.drives[n].container = nil
	return true
}

// Container returns whatever DiskContainer is mounted on drive n, or nil
// if n is out of range or nothing is mounted there. Used by the command
// channel's info handler to report per-drive geometry/free-space.
func (f *WD1793) Container(n int) DiskContainer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < 0 || n >= maxDrives {
		return nil
	}
	return f.drives[n].container
}

// Registers: 0=command/status, 1=track, 2=sector, 3=data.
func (f *WD1793) ReadIo(offset uint16) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch offset & 0x03 {
	case 0:
		return f.status
	case 1:
		return f.track
	case 2:
		return f.sector
	case 3:
		if f.dataPos < len(f.dataBuf) {
			b := f.dataBuf[f.dataPos]
			f.dataPos++
			if f.dataPos >= len(f.dataBuf) {
				f.status &^= fdcStatusBusy | fdcStatusDRQ
			}
			return b
		}
		return 0
	}
	return 0
}

func (f *WD1793) WriteIo(offset uint16, value byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch offset & 0x03 {
	case 0:
		f.command = value
		f.execCommandLocked(value)
	case 1:
		f.track = value
	case 2:
		f.sector = value
	case 3:
		if f.dataPos < len(f.dataBuf) {
			f.dataBuf[f.dataPos] = value
			f.dataPos++
			if f.dataPos >= len(f.dataBuf) {
				f.flushWriteLocked()
			}
		}
	}
}

func (f *WD1793) execCommandLocked(cmd byte) {
	top := cmd >> 4
	switch {
	case top == 0x0: // Restore
		f.track = 0
		f.drives[f.currentDrv].track = 0
		f.status = fdcStatusTrack0
	case top == 0x1: // Seek
		f.drives[f.currentDrv].track = int(f.data)
		f.track = f.data
	case top&0xE == 0x2, top&0xE == 0x4, top&0xE == 0x6: // Step/Step-in/Step-out
		f.stepLocked(cmd)
	case top == 0x8, top == 0x9: // Read sector
		f.readSectorLocked()
	case top == 0xA, top == 0xB: // Write sector
		f.startWriteSectorLocked()
	case top == 0xC: // Read address
		f.readAddressLocked()
	case top == 0xE: // Read track
		f.readTrackLocked()
	case top == 0xF: // Write track
		f.wtState = WTWaitForIdMark
		f.status = fdcStatusBusy
	case top == 0xD: // Force interrupt
		f.status &^= fdcStatusBusy
		f.wtState = WTInactive
		if f.irqFunc != nil {
			f.irqFunc()
		}
	}
}

func (f *WD1793) stepLocked(cmd byte) {
	dir := 1
	if cmd>>4&0x2 != 0 {
		dir = -1
	}
	d := &f.drives[f.currentDrv]
	d.track += dir
	if d.track < 0 {
		d.track = 0
	}
	f.track = byte(d.track)
	if d.track == 0 {
		f.status |= fdcStatusTrack0
	} else {
		f.status &^= fdcStatusTrack0
	}
}

func (f *WD1793) currentContainer() DiskContainer {
	return f.drives[f.currentDrv].container
}

func (f *WD1793) readSectorLocked() {
	c := f.currentContainer()
	if c == nil {
		f.status = fdcStatusNotReady
		return
	}
	data, err := c.ReadSector(int(f.track), int(f.sector))
	if err != nil {
		f.status = fdcStatusCRCError
		return
	}
	f.dataBuf = data
	f.dataPos = 0
	f.status = fdcStatusBusy | fdcStatusDRQ
}

func (f *WD1793) startWriteSectorLocked() {
	c := f.currentContainer()
	if c == nil {
		f.status = fdcStatusNotReady
		return
	}
	f.dataBuf = make([]byte, c.SectorSize())
	f.dataPos = 0
	f.status = fdcStatusBusy | fdcStatusDRQ
}

func (f *WD1793) flushWriteLocked() {
	c := f.currentContainer()
	if c == nil {
		f.status = fdcStatusNotReady
		return
	}
	if err := c.WriteSector(int(f.track), int(f.sector), f.dataBuf); err != nil {
		f.status = fdcStatusCRCError
		return
	}
	f.status &^= fdcStatusBusy | fdcStatusDRQ
}

func (f *WD1793) readAddressLocked() {
	f.dataBuf = []byte{f.track, 0, f.sector, 1, 0, 0}
	f.dataPos = 0
	f.status = fdcStatusBusy | fdcStatusDRQ
}

func (f *WD1793) readTrackLocked() {
	c := f.currentContainer()
	if c == nil {
		f.status = fdcStatusNotReady
		return
	}
	buf := make([]byte, 0, c.SectorSize()*c.SectorsPerTrack())
	for s := 1; s <= c.SectorsPerTrack(); s++ {
		data, err := c.ReadSector(int(f.track), s)
		if err != nil {
			continue
		}
		buf = append(buf, data...)
	}
	f.dataBuf = buf
	f.dataPos = 0
	f.status = fdcStatusBusy | fdcStatusDRQ
}

func (f *WD1793) Status() byte { return f.status }
