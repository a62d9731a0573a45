// cpu_6809_addressing.go - addressing mode helpers
//
// Direct/extended/immediate addressing are straightforward 6809 semantics.
// Indexed addressing's postbyte decode is not present in the retrieved
// original_source pack (it lives in the excluded mc6809.cpp); it is built
// directly from spec.md §4.2's description of the postbyte-encoded variants
// and their cycle penalties, cross-checked against the fetch_idx_08/
// fetch_idx_16 call sites visible in mc6809ex.cpp.

package main

// directEA computes the effective address for direct-page addressing:
// DP:offset, where offset is the next immediate byte.
func (c *CPU6809) directEA() uint16 {
	off := c.fetchByte()
	return uint16(c.DP)<<8 | uint16(off)
}

// extendedEA computes the effective address for extended addressing: a
// 16-bit absolute address follows the opcode.
func (c *CPU6809) extendedEA() uint16 {
	return c.fetchWord()
}

func (c *CPU6809) indexRegister(sel byte) *uint16 {
	switch sel {
	case 0:
		return &c.X
	case 1:
		return &c.Y
	case 2:
		return &c.U
	case 3:
		return &c.S
	}
	return &c.X
}

// indexedEA decodes a 6809 indexed-addressing postbyte and returns the
// effective address plus the extra cycles it costs beyond the base
// instruction cycle count. Indirection (postbyte bit 4 set, for the
// modes that support it) adds one further 16-bit pointer dereference.
func (c *CPU6809) indexedEA() (uint16, int) {
	post := c.fetchByte()
	extra := 0
	var ea uint16
	indirectable := post&0x80 != 0

	if !indirectable {
		// 5-bit signed constant offset from the selected register, no
		// indirection possible in this encoding.
		reg := c.indexRegister((post >> 5) & 0x03)
		offset := int8(post<<3) >> 3
		ea = uint16(int32(*reg) + int32(offset))
		extra = 1
		return ea, extra
	}

	regSel := (post >> 5) & 0x03
	reg := c.indexRegister(regSel)
	mode := post & 0x0F
	indirect := post&0x10 != 0

	switch mode {
	case 0x00: // ,R+
		ea = *reg
		*reg += 1
		extra = 2
	case 0x01: // ,R++
		ea = *reg
		*reg += 2
		extra = 3
	case 0x02: // ,-R
		*reg -= 1
		ea = *reg
		extra = 2
	case 0x03: // ,--R
		*reg -= 2
		ea = *reg
		extra = 3
	case 0x04: // ,R (zero offset)
		ea = *reg
		extra = 0
	case 0x05: // B,R
		ea = uint16(int32(*reg) + int32(int8(c.B)))
		extra = 1
	case 0x06: // A,R
		ea = uint16(int32(*reg) + int32(int8(c.A)))
		extra = 1
	case 0x08: // n8,R
		off := int8(c.fetchByte())
		ea = uint16(int32(*reg) + int32(off))
		extra = 1
	case 0x09: // n16,R
		off := int16(c.fetchWord())
		ea = uint16(int32(*reg) + int32(off))
		extra = 4
	case 0x0B: // D,R
		ea = uint16(int32(*reg) + int32(int16(c.D())))
		extra = 4
	case 0x0C: // n8,PC
		off := int8(c.fetchByte())
		ea = uint16(int32(c.PC) + int32(off))
		extra = 1
	case 0x0D: // n16,PC
		off := int16(c.fetchWord())
		ea = uint16(int32(c.PC) + int32(off))
		extra = 5
	case 0x0F: // [n16] extended indirect (no register involved)
		ea = c.fetchWord()
		indirect = true
		extra = 5
	default:
		ea = *reg
	}

	if indirect {
		ea = c.bus.Read16(ea)
		extra += 3
	}
	return ea, extra
}
