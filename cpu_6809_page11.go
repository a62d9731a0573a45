// cpu_6809_page11.go - 0x11-prefixed opcode page (CMPU/CMPS, SWI3)

package main

func (c *CPU6809) buildPage11(p *[256]func(*CPU6809)) {
	p[0x3F] = func(c *CPU6809) { c.swi(VecSWI3); c.addCycles(20) } // SWI3

	p[0x83] = func(c *CPU6809) { v := c.fetchWord(); c.sub16x(c.U, v); c.addCycles(5) }
	p[0x93] = func(c *CPU6809) { ea := c.directEA(); c.sub16x(c.U, c.bus.Read16(ea)); c.addCycles(7) }
	p[0xA3] = func(c *CPU6809) { ea, e := c.indexedEA(); c.sub16x(c.U, c.bus.Read16(ea)); c.addCycles(7 + e) }
	p[0xB3] = func(c *CPU6809) { ea := c.extendedEA(); c.sub16x(c.U, c.bus.Read16(ea)); c.addCycles(8) }

	p[0x8C] = func(c *CPU6809) { v := c.fetchWord(); c.sub16x(c.S, v); c.addCycles(5) }
	p[0x9C] = func(c *CPU6809) { ea := c.directEA(); c.sub16x(c.S, c.bus.Read16(ea)); c.addCycles(7) }
	p[0xAC] = func(c *CPU6809) { ea, e := c.indexedEA(); c.sub16x(c.S, c.bus.Read16(ea)); c.addCycles(7 + e) }
	p[0xBC] = func(c *CPU6809) { ea := c.extendedEA(); c.sub16x(c.S, c.bus.Read16(ea)); c.addCycles(8) }
}
