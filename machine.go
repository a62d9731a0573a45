// machine.go - top-level wiring of bus, CPU, peripherals and the
// command channel into one runnable MC6809/FLEX machine.
//
// Grounded on the teacher's deleted main.go construction sequence
// (build bus, build CPU(s), map I/O regions, build scheduler, run) minus
// the GUI/multi-arch-CPU selection steps that don't apply here.

package main

import (
	"context"
	"fmt"
	"os"
)

// I/O page assignments within the 64 KiB address space, matching
// spec.md §4.1's memory map.
const (
	ioPIA1Base = 0xA000
	ioPIA2Base = 0xA004
	ioACIABase = 0xA008
	ioFDCBase  = 0xA010
	ioRTCBase  = 0xA020
	ioCmdBase  = 0xA030

	mmuRegisterBase = 0xF000
)

// Machine wires a CPU, bus, and the peripheral set together and exposes
// the handful of operations the command channel and main() need.
type Machine struct {
	Bus   *Bus
	CPU   *CPU6809
	PIA1  *PIA1
	PIA2  *PIA2
	ACIA  *ACIA
	FDC   *WD1793
	RTC   *MC146818
	Cmd   *CommandChannel
	Sched *Scheduler

	term *TerminalOutput
}

// NewMachine assembles a complete machine: 16 video-RAM banks (matching
// the 64-slot/4-bank grouping documented in DESIGN.md's MMU entry),
// PIA1 wired to a keyboard feed, PIA2 to joystick/bell, an ACIA wired to
// stdout, a WD1793 with no drives mounted, and an MC146818 seeded from
// host time.
func NewMachine(keyboard KeyboardFeed, freqMHz float64) *Machine {
	bus := NewBus(16)

	term := NewTerminalOutput()
	acia := NewACIA(term)

	pia1 := NewPIA1(keyboard, false)
	pia2 := NewPIA2(func(bool) {})
	fdc := NewWD1793()
	rtc := NewMC146818()

	cpu := NewCPU6809(bus)

	m := &Machine{
		Bus: bus, CPU: cpu, PIA1: pia1, PIA2: pia2, ACIA: acia,
		FDC: fdc, RTC: rtc, term: term,
	}

	bus.MapIO(ioPIA1Base, ioPIA1Base+3,
		func(addr uint16) byte { return pia1.ReadIo(addr - ioPIA1Base) },
		func(addr uint16, v byte) { pia1.WriteIo(addr-ioPIA1Base, v) })
	bus.MapIO(ioPIA2Base, ioPIA2Base+3,
		func(addr uint16) byte { return pia2.ReadIo(addr - ioPIA2Base) },
		func(addr uint16, v byte) { pia2.WriteIo(addr-ioPIA2Base, v) })
	bus.MapIO(ioACIABase, ioACIABase+1,
		func(addr uint16) byte { return acia.ReadIo(addr - ioACIABase) },
		func(addr uint16, v byte) { acia.WriteIo(addr-ioACIABase, v) })
	bus.MapIO(ioFDCBase, ioFDCBase+3,
		func(addr uint16) byte { return fdc.ReadIo(addr - ioFDCBase) },
		func(addr uint16, v byte) { fdc.WriteIo(addr-ioFDCBase, v) })
	bus.MapIO(ioRTCBase, ioRTCBase+13,
		func(addr uint16) byte { return rtc.ReadIo(addr - ioRTCBase) },
		func(addr uint16, v byte) { rtc.WriteIo(addr-ioRTCBase, v) })

	for page := 0; page < 16; page++ {
		p := page
		bus.MapIO(uint32(mmuRegisterBase+p), uint32(mmuRegisterBase+p),
			func(addr uint16) byte { return 0 },
			func(addr uint16, v byte) { bus.SwitchMMU(p, v) })
	}

	acia.SetIRQFunc(func() { cpu.SetIRQLine(true) })
	fdc.SetIRQFunc(func() { cpu.SetIRQLine(true) })

	sched := NewScheduler(cpu, freqMHz)
	m.Sched = sched

	m.Cmd = NewCommandChannel(CommandTarget{
		SetIRQ:      func() { cpu.SetIRQLine(true) },
		SetFIRQ:     func() { cpu.SetFIRQLine(true) },
		SetNMI:      func() { cpu.SetNMILine(true) },
		RequestExit: sched.RequestExit,
		SetFrequencyMHz: sched.SetFrequency,
		FrequencyMHz:    sched.Frequency,
		TotalCycles:     sched.TotalCycles,

		MountDrive: func(path string, drive int, ramOnly bool) error {
			container, err := mountContainer(path, ramOnly)
			if err != nil {
				return err
			}
			fdc.MountDrive(drive, container)
			return nil
		},
		UnmountDrive: func(drive int) error {
			if !fdc.UnmountDrive(drive) {
				return newMachineError(DiskMountFailed, "Machine.UnmountDrive", fmt.Errorf("invalid drive %d", drive))
			}
			return nil
		},
		DriveInfo: func(drive int) string {
			return driveInfoString(drive, fdc.Container(drive))
		},
		FormatDisk: func(path string, tracks, sectors int) error {
			return FormatDisk(path, tracks, sectors)
		},
		UpdateDrive: func(drive int) error {
			return updateDrive(fdc.Container(drive))
		},
		UpdateAllDrives: func() error {
			for d := 0; d < maxDrives; d++ {
				if err := updateDrive(fdc.Container(d)); err != nil {
					return err
				}
			}
			return nil
		},
	})

	bus.MapIO(ioCmdBase, ioCmdBase,
		func(addr uint16) byte { return m.Cmd.ReadIo(0) },
		func(addr uint16, v byte) { m.Cmd.WriteIo(0, v) })

	return m
}

// updateDrive refreshes a mounted container's cached view of its backing
// storage, matching update_drive: only NAFS has anything to refresh (a
// raw image file is always read live), and a nil (unmounted) drive is
// simply a no-op rather than an error.
func updateDrive(c DiskContainer) error {
	if nafs, ok := c.(*NafsDirectoryContainer); ok {
		return nafs.Rescan()
	}
	return nil
}

// mountContainer dispatches on path type the same way mount_drive does in
// e2floppy.h: a directory is mounted through NAFS, anything else is
// opened as a raw DSK/FLX/JVC image. ramOnly (the "rmount" command) opens
// a raw image read-only and mounts a NAFS directory write-protected.
func mountContainer(path string, ramOnly bool) (DiskContainer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newMachineError(DiskMountFailed, "Machine.mountContainer", err)
	}
	if info.IsDir() {
		tracks, sectors, err := ResolveGeometry(path, 80, 18)
		if err != nil {
			return nil, err
		}
		return NewNafsDirectoryContainer(path, tracks, sectors, ramOnly)
	}
	return OpenRawImage(path, 80, 18, ramOnly)
}

// driveInfoString renders a DiskContainer's geometry/free-space/write-
// protect state into the reply text the "info"/"N.info" commands answer
// with, modeled on FlexContainerInfo's fields (name, number, free/total
// space, write-protect) as reported by e2floppy.h's drive_info().
func driveInfoString(drive int, c DiskContainer) string {
	if c == nil {
		return fmt.Sprintf("%d: not ready\n", drive)
	}
	wp := ""
	if c.WriteProtected() {
		wp = " write-protected"
	}
	if nafs, ok := c.(*NafsDirectoryContainer); ok {
		si := nafs.sysInfo
		return fmt.Sprintf("%d: %s [%d] free=%d trk=0-%d sec=1-%d%s\n",
			drive, si.DiskName, si.DiskNumber, si.FreeCount, c.Tracks()-1, c.SectorsPerTrack(), wp)
	}
	return fmt.Sprintf("%d: %dx%d%s\n", drive, c.Tracks(), c.SectorsPerTrack(), wp)
}

// Run resets the CPU, starts the RTC tick and runs the machine until ctx
// is cancelled or the command channel requests exit. It loads no ROM.
func (m *Machine) Run(ctx context.Context) error {
	m.CPU.Reset()
	m.RTC.StartTicking()
	defer m.RTC.Stop()
	return RunMachine(ctx, m.Sched, nil)
}
