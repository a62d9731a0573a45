// cpu_6809_page10.go - 0x10-prefixed opcode page
//
// Grounded on mc6809ex.cpp's 0x10-prefix block: long branches (0x21-0x2F,
// with LBRN's fixed 5-cycle not-taken cost as spec.md's boundary test
// names), SWI2, and the CMPD/LDY/STY extended family's exact per-mode
// cycle counts across immediate/direct/indexed/extended: CMPD/CMPY
// 5/7/7/8, LDY/LDS 4/6/6/7, STY/STS 6/6/7 (indexed adds its penalty).

package main

func (c *CPU6809) buildPage10(p *[256]func(*CPU6809)) {
	for i := byte(1); i <= 0x0F; i++ {
		cond := i
		p[0x20+i] = func(c *CPU6809) { c.longBranch(cond) }
	}

	p[0x3F] = func(c *CPU6809) { c.swi(VecSWI2); c.addCycles(20) } // SWI2

	p[0x83] = func(c *CPU6809) { v := c.fetchWord(); c.sub16x(c.D(), v); c.addCycles(5) }
	p[0x93] = func(c *CPU6809) { ea := c.directEA(); c.sub16x(c.D(), c.bus.Read16(ea)); c.addCycles(7) }
	p[0xA3] = func(c *CPU6809) { ea, e := c.indexedEA(); c.sub16x(c.D(), c.bus.Read16(ea)); c.addCycles(7 + e) }
	p[0xB3] = func(c *CPU6809) { ea := c.extendedEA(); c.sub16x(c.D(), c.bus.Read16(ea)); c.addCycles(8) }

	p[0x8C] = func(c *CPU6809) { v := c.fetchWord(); c.sub16x(c.Y, v); c.addCycles(5) }
	p[0x9C] = func(c *CPU6809) { ea := c.directEA(); c.sub16x(c.Y, c.bus.Read16(ea)); c.addCycles(7) }
	p[0xAC] = func(c *CPU6809) { ea, e := c.indexedEA(); c.sub16x(c.Y, c.bus.Read16(ea)); c.addCycles(7 + e) }
	p[0xBC] = func(c *CPU6809) { ea := c.extendedEA(); c.sub16x(c.Y, c.bus.Read16(ea)); c.addCycles(8) }

	c.wire16("Y", p, 0x8E, 0x9E, 0xAE, 0xBE, 0x9F, 0xAF, 0xBF)
	c.wire16("S", p, 0xCE, 0xDE, 0xEE, 0xFE, 0xDF, 0xEF, 0xFF)

	// LDY/LDS/STY/STS take one cycle more than wire16's LDX/STX counts.
	for _, op := range []byte{0x8E, 0x9E, 0xAE, 0xBE, 0x9F, 0xAF, 0xBF, 0xCE, 0xDE, 0xEE, 0xFE, 0xDF, 0xEF, 0xFF} {
		fn := p[op]
		p[op] = func(c *CPU6809) { fn(c); c.addCycles(1) }
	}
}
