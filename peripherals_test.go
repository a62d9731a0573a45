package main

import "testing"

func TestPIA1KeyboardRequestAndRead(t *testing.T) {
	kb := newFifoKeyboard()
	pia := NewPIA1(kb, false)
	kb.Push('A')

	pia.WriteIo(1, 0x04) // CRA: select ORA, not DDR
	b := pia.ReadIo(0)
	if b != 'A' {
		t.Fatalf("PIA1 read = %q, want 'A'", b)
	}
}

func TestPIA1EurocomQuirkSetsBit7(t *testing.T) {
	kb := newFifoKeyboard()
	kb.Push(0x41)
	pia := NewPIA1(kb, true)
	pia.WriteIo(1, 0x04)
	if b := pia.ReadIo(0); b != 0xC1 {
		t.Fatalf("Eurocom2V5 quirk: got 0x%02X, want 0xC1", b)
	}
}

func TestPIA2JoystickPeriodClamping(t *testing.T) {
	var bellOn bool
	pia := NewPIA2(func(on bool) { bellOn = on })
	pia.SetMouseDelta(100, -100)
	if pia.PeriodX() != joystickPeriods[15] {
		t.Fatalf("PeriodX not clamped to 15: got %d", pia.PeriodX())
	}
	if pia.PeriodY() != joystickPeriods[15] {
		t.Fatalf("PeriodY not clamped to 15: got %d", pia.PeriodY())
	}
	pia.WriteIo(3, 0x04) // CRB select ORB
	pia.WriteIo(2, 0x40) // bell bit
	if !bellOn {
		t.Fatalf("bell bit should invoke bellFunc(true)")
	}
}

type captureTarget struct{ out []byte }

func (c *captureTarget) WriteByte(b byte) error {
	c.out = append(c.out, b)
	return nil
}

func TestACIATransmitAndReceive(t *testing.T) {
	sink := &captureTarget{}
	acia := NewACIA(sink)
	acia.WriteIo(1, 'X')
	if string(sink.out) != "X" {
		t.Fatalf("ACIA transmit = %q, want X", sink.out)
	}

	acia.EnqueueByte('Y')
	status := acia.ReadIo(0)
	if status&aciaStatusRDRF == 0 {
		t.Fatalf("RDRF should be set after EnqueueByte")
	}
	if b := acia.ReadIo(1); b != 'Y' {
		t.Fatalf("ACIA receive = %q, want Y", b)
	}
}

func TestRTCTickRollsOverMinute(t *testing.T) {
	rtc := NewMC146818()
	rtc.now.Second = 59
	rtc.now.Minute = 10
	rtc.TickOnce()
	if rtc.now.Second != 0 || rtc.now.Minute != 11 {
		t.Fatalf("tick rollover: sec=%d min=%d", rtc.now.Second, rtc.now.Minute)
	}
}

func TestRTCLeapYearFebruary(t *testing.T) {
	rtc := NewMC146818()
	rtc.now.Year = 24 // 2024, leap
	rtc.now.Month = 2
	rtc.now.Day = 29
	rtc.now.Hour, rtc.now.Minute, rtc.now.Second = 23, 59, 59
	rtc.TickOnce()
	if rtc.now.Month != 3 || rtc.now.Day != 1 {
		t.Fatalf("leap day rollover failed: month=%d day=%d", rtc.now.Month, rtc.now.Day)
	}
}

func TestRTCBCDEncoding(t *testing.T) {
	rtc := NewMC146818()
	rtc.regB = 0 // BCD mode
	rtc.now.Second = 42
	if got := rtc.ReadIo(rtcSeconds); got != 0x42 {
		t.Fatalf("BCD seconds = 0x%02X, want 0x42", got)
	}
}

func TestWD1793RestoreSetsTrack0(t *testing.T) {
	fdc := NewWD1793()
	fdc.WriteIo(0, 0x00) // Restore
	if fdc.status&fdcStatusTrack0 == 0 {
		t.Fatalf("Restore should set track0 status bit")
	}
}
