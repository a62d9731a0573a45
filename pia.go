// pia.go - generic MC6821 PIA register file
//
// Ported line-for-line from _examples/original_source/src/mc6821.h: the
// same four-register layout (cra/ora/ddra selected by CRA bit 2; crb/orb/
// ddrb selected by CRB bit 2), the ControlLine bitmask (CA1/CA2/CB1/CB2),
// and the same protected-virtual-method shape (readInputA/B, set_irq_A/B,
// requestInputA/B, writeOutputA/B) expressed in Go as an embeddable struct
// plus a PIAHooks interface that concrete PIAs (pia_keyboard.go,
// pia_joystick.go) implement by embedding *Mc6821 and overriding hooks.

package main

// ControlLine is a bitmask of the four MC6821 control lines.
type ControlLine uint8

const (
	LineNone ControlLine = 0
	LineCA1  ControlLine = 1
	LineCA2  ControlLine = 2
	LineCB1  ControlLine = 4
	LineCB2  ControlLine = 8
)

// PIAHooks lets a concrete PIA (keyboard, joystick) customize the strobed/
// non-strobed read and IRQ-raising behaviour without re-implementing the
// register file itself.
type PIAHooks interface {
	ReadInputA() byte
	ReadInputB() byte
	RequestInputA()
	RequestInputB()
	WriteOutputA(byte)
	WriteOutputB(byte)
	SetIRQA()
	SetIRQB()
}

// noopHooks is the default no-op PIAHooks, used by Mc6821 before a concrete
// PIA installs itself.
type noopHooks struct{}

func (noopHooks) ReadInputA() byte     { return 0 }
func (noopHooks) ReadInputB() byte     { return 0 }
func (noopHooks) RequestInputA()       {}
func (noopHooks) RequestInputB()       {}
func (noopHooks) WriteOutputA(_ byte)  {}
func (noopHooks) WriteOutputB(_ byte)  {}
func (noopHooks) SetIRQA()             {}
func (noopHooks) SetIRQB()             {}

// Mc6821 is the generic PIA register file; offsets 0-3 map to CRA-selected
// ORA/DDRA, CRA, CRB-selected ORB/DDRB, CRB, matching the real chip's 4
// addressable registers.
type Mc6821 struct {
	cra, ora, ddra byte
	crb, orb, ddrb byte
	cls            ControlLine

	hooks PIAHooks
}

func NewMc6821(hooks PIAHooks) *Mc6821 {
	if hooks == nil {
		hooks = noopHooks{}
	}
	return &Mc6821{hooks: hooks}
}

func (p *Mc6821) ResetIo() {
	p.cra, p.ora, p.ddra = 0, 0, 0
	p.crb, p.orb, p.ddrb = 0, 0, 0
	p.cls = LineNone
}

// ReadIo reads one of the 4 PIA registers at offset 0-3.
func (p *Mc6821) ReadIo(offset uint16) byte {
	switch offset & 0x03 {
	case 0:
		p.hooks.RequestInputA()
		if p.cra&0x04 != 0 {
			return p.hooks.ReadInputA()&^p.ddra | p.ora&p.ddra
		}
		return p.ddra
	case 1:
		return p.cra
	case 2:
		p.hooks.RequestInputB()
		if p.crb&0x04 != 0 {
			return p.hooks.ReadInputB()&^p.ddrb | p.orb&p.ddrb
		}
		return p.ddrb
	case 3:
		return p.crb
	}
	return 0
}

// WriteIo writes one of the 4 PIA registers at offset 0-3.
func (p *Mc6821) WriteIo(offset uint16, value byte) {
	switch offset & 0x03 {
	case 0:
		if p.cra&0x04 != 0 {
			p.ora = value
			p.hooks.WriteOutputA(value)
		} else {
			p.ddra = value
		}
	case 1:
		p.cra = value
	case 2:
		if p.crb&0x04 != 0 {
			p.orb = value
			p.hooks.WriteOutputB(value)
		} else {
			p.ddrb = value
		}
	case 3:
		p.crb = value
	}
}

// ActiveTransition raises the corresponding control-register status bit and
// requests an IRQ if the control register enables it for that line.
func (p *Mc6821) ActiveTransition(line ControlLine) {
	p.cls |= line
	switch line {
	case LineCA1:
		p.cra |= 0x80
		if p.cra&0x01 != 0 {
			p.hooks.SetIRQA()
		}
	case LineCA2:
		p.cra |= 0x40
		if p.cra&0x08 != 0 && p.cra&0x20 == 0 {
			p.hooks.SetIRQA()
		}
	case LineCB1:
		p.crb |= 0x80
		if p.crb&0x01 != 0 {
			p.hooks.SetIRQB()
		}
	case LineCB2:
		p.crb |= 0x40
		if p.crb&0x08 != 0 && p.crb&0x20 == 0 {
			p.hooks.SetIRQB()
		}
	}
}

func (p *Mc6821) TestControlLine(line ControlLine) bool {
	return p.cls&line != 0
}
