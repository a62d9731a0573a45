// pia_joystick.go - PIA2, joystick and bell
//
// Grounded on spec.md §4.3: a 15-entry period table keyed by a clamped
// mouse-delta value (±15 maps to 208-8000 cycles), and bit 6 of port B
// driving the system bell.

package main

import "sync"

// joystickPeriods maps a clamped delta (1..15) to a cycle period; index 0
// is unused (delta 0 means "centered", handled separately by callers).
var joystickPeriods = [16]int{
	0, 8000, 6800, 5700, 4700, 3800, 3000, 2300,
	1700, 1200, 800, 500, 350, 280, 240, 208,
}

// PIA2 is the joystick/bell PIA. Mouse deltas are fed in from the host UI
// and clamped to ±15 before being translated to a period via the table
// above; port B bit 6 toggles the bell.
type PIA2 struct {
	*Mc6821

	mu       sync.Mutex
	deltaX   int
	deltaY   int
	bellFunc func(on bool)
}

func NewPIA2(bellFunc func(on bool)) *PIA2 {
	p := &PIA2{bellFunc: bellFunc}
	p.Mc6821 = NewMc6821(p)
	return p
}

func clampDelta(d int) int {
	if d > 15 {
		return 15
	}
	if d < -15 {
		return -15
	}
	return d
}

// SetMouseDelta is called by the host UI thread; it's the one place this
// PIA's state is touched from outside the CPU goroutine, hence the mutex.
func (p *PIA2) SetMouseDelta(dx, dy int) {
	p.mu.Lock()
	p.deltaX = clampDelta(dx)
	p.deltaY = clampDelta(dy)
	p.mu.Unlock()
}

// PeriodX / PeriodY return the joystick-axis timer period in cycles for the
// current delta, or 0 if centered.
func (p *PIA2) PeriodX() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return periodFor(p.deltaX)
}

func (p *PIA2) PeriodY() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return periodFor(p.deltaY)
}

func periodFor(delta int) int {
	if delta == 0 {
		return 0
	}
	idx := delta
	if idx < 0 {
		idx = -idx
	}
	return joystickPeriods[idx]
}

func (p *PIA2) ReadInputA() byte  { return 0 }
func (p *PIA2) ReadInputB() byte  { return 0 }
func (p *PIA2) RequestInputA()    {}
func (p *PIA2) RequestInputB()    {}
func (p *PIA2) WriteOutputA(_ byte) {}

func (p *PIA2) WriteOutputB(v byte) {
	if p.bellFunc != nil {
		p.bellFunc(v&0x40 != 0)
	}
}

func (p *PIA2) SetIRQA() {}
func (p *PIA2) SetIRQB() {}
