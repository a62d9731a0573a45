package main

import "testing"

func writeCommand(c *CommandChannel, s string) {
	for i := 0; i < len(s); i++ {
		c.WriteIo(0, s[i])
	}
	c.WriteIo(0, 0)
}

func readReply(c *CommandChannel) string {
	var out []byte
	for {
		b := c.ReadIo(0)
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

func TestCommandChannelIRQDispatch(t *testing.T) {
	var gotIRQ bool
	c := NewCommandChannel(CommandTarget{SetIRQ: func() { gotIRQ = true }})
	writeCommand(c, "irq")
	if !gotIRQ {
		t.Fatalf("expected SetIRQ to be invoked")
	}
}

func TestCommandChannelFreqQuery(t *testing.T) {
	c := NewCommandChannel(CommandTarget{FrequencyMHz: func() float64 { return 1.5 }})
	writeCommand(c, "freq")
	if got := readReply(c); got != "1.50 MHz" {
		t.Fatalf("freq reply = %q, want '1.50 MHz'", got)
	}
}

func TestCommandChannelMountDispatch(t *testing.T) {
	var gotPath string
	var gotDrive int
	c := NewCommandChannel(CommandTarget{
		MountDrive: func(path string, drive int, ramOnly bool) error {
			gotPath, gotDrive = path, drive
			return nil
		},
	})
	writeCommand(c, "mount disk.dsk 1")
	if gotPath != "disk.dsk" || gotDrive != 1 {
		t.Fatalf("mount dispatch = %q/%d, want disk.dsk/1", gotPath, gotDrive)
	}
}

func TestCommandChannelUnknownCommand(t *testing.T) {
	c := NewCommandChannel(CommandTarget{})
	writeCommand(c, "bogus")
	if got := readReply(c); got != "ERR: Unknown command" {
		t.Fatalf("unknown command reply = %q", got)
	}
}

func TestCommandChannelParamValidation(t *testing.T) {
	c := NewCommandChannel(CommandTarget{UnmountDrive: func(int) error { return nil }})
	writeCommand(c, "umount 9")
	if got := readReply(c); got != "ERR: Parameter invalid" {
		t.Fatalf("out-of-range drive reply = %q", got)
	}
}

func TestCommandChannelMountErrorRendersWriteProtectedKind(t *testing.T) {
	c := NewCommandChannel(CommandTarget{
		MountDrive: func(path string, drive int, ramOnly bool) error {
			return newMachineError(DiskWriteProtected, "test", nil)
		},
	})
	writeCommand(c, "mount disk.dsk 1")
	if got := readReply(c); got != "ERR: Disk is write protected" {
		t.Fatalf("mount error reply = %q, want write-protected message", got)
	}
}
