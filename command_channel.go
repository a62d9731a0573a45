// command_channel.go - host-side command channel exposed to the
// emulated machine as a tiny memory-mapped device.
//
// Grounded on command.cpp's Command class: the emulated CPU writes a
// NUL-terminated ASCII command a byte at a time; on the terminating NUL
// the whole buffer is tokenized into up to four space-separated
// arguments and dispatched by (token count, arg1) exactly as the
// original's big switch does. Replies are buffered and drained a byte
// at a time on subsequent reads, with '\n' translated to CR the same
// way readIo there does.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const maxCommandLen = 256

// CommandTarget is the subset of machine state the command channel can
// act on: CPU interrupt lines, the scheduler's run state/frequency, and
// the floppy controller's drive management.
type CommandTarget struct {
	SetIRQ    func()
	SetFIRQ   func()
	SetNMI    func()
	RequestExit func()
	SetFrequencyMHz func(float64)
	FrequencyMHz    func() float64
	TotalCycles     func() uint64

	MountDrive   func(path string, drive int, ramOnly bool) error
	UnmountDrive func(drive int) error
	DriveInfo    func(drive int) string
	UpdateDrive  func(drive int) error
	UpdateAllDrives func() error
	FormatDisk   func(path string, tracks, sectors int) error
}

// CommandChannel is the Mc6821-style register pair (write command bytes,
// read reply bytes) the emulated machine uses to talk to the host.
type CommandChannel struct {
	mu sync.Mutex

	target CommandTarget

	cmdBuf  [maxCommandLen]byte
	cmdLen  int

	answer     string
	answerPos  int
}

func NewCommandChannel(target CommandTarget) *CommandChannel {
	return &CommandChannel{target: target}
}

func (c *CommandChannel) ResetIo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmdLen = 0
	c.answer = ""
	c.answerPos = 0
}

// ReadIo drains the pending reply one byte at a time, translating '\n'
// to CR and returning 0x00 once exhausted.
func (c *CommandChannel) ReadIo(offset uint16) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.answer == "" {
		return 0x00
	}
	if c.answerPos >= len(c.answer) {
		c.answer = ""
		c.answerPos = 0
		return 0x00
	}
	b := c.answer[c.answerPos]
	c.answerPos++
	if b == '\n' {
		return '\r'
	}
	return b
}

// WriteIo appends val to the pending command buffer; a NUL byte
// terminates and dispatches it.
func (c *CommandChannel) WriteIo(offset uint16, val byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answer = ""
	c.answerPos = 0

	if c.cmdLen < maxCommandLen-1 {
		c.cmdBuf[c.cmdLen] = val
		c.cmdLen++
	}
	if val != 0 {
		return
	}

	line := string(c.cmdBuf[:c.cmdLen-1])
	c.cmdLen = 0
	c.dispatch(line)
}

func (c *CommandChannel) setAnswer(s string) {
	c.answer = s
	c.answerPos = 0
}

func (c *CommandChannel) setErr(msg string) {
	c.setAnswer("ERR: " + msg)
}

// setErrFromErr renders a *MachineError's kind into the same short
// human-readable strings the original Command class's case handlers
// use, falling back to fallback for anything else.
func (c *CommandChannel) setErrFromErr(err error, fallback string) {
	var me *MachineError
	if errors.As(err, &me) {
		switch me.Kind {
		case DiskWriteProtected:
			c.setErr("Disk is write protected")
			return
		case DiskFull:
			c.setErr("Disk full")
			return
		case DiskFormatFailed:
			c.setErr("Unable to format disk")
			return
		case DiskMountFailed:
			c.setErr("Unable to mount drive")
			return
		}
	}
	c.setErr(fallback)
}

// modifyCommandToken strips a leading "N." drive prefix and any
// extension, matching Command::modify_command_token.
func modifyCommandToken(tok string) string {
	if tok == "" {
		return tok
	}
	if len(tok) > 1 && tok[0] >= '0' && tok[0] <= '9' && tok[1] == '.' {
		tok = tok[2:]
	}
	if dot := strings.IndexByte(tok, '.'); dot >= 0 {
		tok = tok[:dot]
	}
	return tok
}

func (c *CommandChannel) dispatch(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		c.setErr("Unknown command")
		return
	}
	arg1 := modifyCommandToken(fields[0])
	rest := fields[1:]
	t := c.target

	switch len(fields) {
	case 1:
		switch strings.ToLower(arg1) {
		case "exit":
			if t.RequestExit != nil {
				t.RequestExit()
			}
			return
		case "irq":
			if t.SetIRQ != nil {
				t.SetIRQ()
			}
			return
		case "firq":
			if t.SetFIRQ != nil {
				t.SetFIRQ()
			}
			return
		case "nmi":
			if t.SetNMI != nil {
				t.SetNMI()
			}
			return
		case "freq":
			if t.FrequencyMHz != nil {
				c.setAnswer(fmt.Sprintf("%.2f MHz", t.FrequencyMHz()))
			}
			return
		case "cycles":
			if t.TotalCycles != nil {
				c.setAnswer(fmt.Sprintf("%d cycles", t.TotalCycles()))
			}
			return
		case "info":
			if t.DriveInfo != nil {
				var sb strings.Builder
				for d := 0; d <= 3; d++ {
					sb.WriteString(t.DriveInfo(d))
				}
				c.setAnswer(sb.String())
			}
			return
		case "update":
			if t.UpdateAllDrives != nil {
				if err := t.UpdateAllDrives(); err != nil {
					c.setErr("Unable to update drive. There are open files")
				}
			}
			return
		}
	case 2:
		if strings.EqualFold(arg1, "freq") {
			if f, err := strconv.ParseFloat(rest[0], 64); err == nil && f >= 0 && t.SetFrequencyMHz != nil {
				t.SetFrequencyMHz(f)
			}
			return
		}
		number, err := strconv.Atoi(rest[0])
		if err != nil || number < 0 || number > 3 {
			c.setErr("Parameter invalid")
			return
		}
		switch strings.ToLower(arg1) {
		case "umount":
			if t.UnmountDrive != nil {
				if err := t.UnmountDrive(number); err != nil {
					c.setErrFromErr(err, "Unable to umount drive")
				}
			}
			return
		case "info":
			if t.DriveInfo != nil {
				c.setAnswer(t.DriveInfo(number))
			}
			return
		case "update":
			if t.UpdateDrive != nil {
				if err := t.UpdateDrive(number); err != nil {
					c.setErr("Unable to update drive. There are open files")
				}
			}
			return
		}
	case 3:
		number, err := strconv.Atoi(rest[1])
		if err != nil || number < 0 || number > 3 {
			c.setErr("Parameter invalid")
			return
		}
		switch strings.ToLower(arg1) {
		case "mount":
			if t.MountDrive != nil {
				if err := t.MountDrive(rest[0], number, false); err != nil {
					c.setErrFromErr(err, "Unable to mount drive")
				}
			}
			return
		case "rmount":
			if t.MountDrive != nil {
				if err := t.MountDrive(rest[0], number, true); err != nil {
					c.setErrFromErr(err, "Unable to mount drive")
				}
			}
			return
		}
	case 4:
		if strings.EqualFold(arg1, "format") {
			trk, err1 := strconv.Atoi(rest[1])
			sec, err2 := strconv.Atoi(rest[2])
			if err1 != nil || err2 != nil || trk < 2 || sec < 5 {
				c.setErr("Parameter invalid")
				return
			}
			if t.FormatDisk != nil {
				if err := t.FormatDisk(rest[0], trk, sec); err != nil {
					c.setErrFromErr(err, "Unable to format disk")
				}
			}
			return
		}
	}
	c.setErr("Unknown command")
}
