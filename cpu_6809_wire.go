// cpu_6809_wire.go - table-wiring helpers for the repetitive
// immediate/direct/indexed/extended opcode quartets that both accumulators
// (and D/X/Y/U/S) share, keeping cpu_6809_ops.go's table-building code from
// degenerating into copy-pasted per-opcode bodies.

package main

// wireByteReg wires eleven opcodes of one 8-bit accumulator, used
// identically for A and B: ADD immediate/direct/indexed/extended, LD
// immediate/direct/indexed/extended and ST direct/indexed/extended. SUB and
// the other arithmetic/logic quartets are not wired by this helper.
func (c *CPU6809) wireByteReg(b *[256]func(*CPU6809),
	reg *byte,
	addImm, addDir, addIdx, addExt byte,
	ldImm byte,
	stDir, stIdx, stExt byte,
	ldDir, ldIdx, ldExt byte,
) {
	b[addImm] = func(c *CPU6809) { v := c.fetchByte(); *reg = c.add8(*reg, v, false); c.addCycles(2) }
	b[addDir] = func(c *CPU6809) { ea := c.directEA(); *reg = c.add8(*reg, c.bus.Read8(ea), false); c.addCycles(4) }
	b[addIdx] = func(c *CPU6809) { ea, e := c.indexedEA(); *reg = c.add8(*reg, c.bus.Read8(ea), false); c.addCycles(4 + e) }
	b[addExt] = func(c *CPU6809) { ea := c.extendedEA(); *reg = c.add8(*reg, c.bus.Read8(ea), false); c.addCycles(5) }

	b[ldImm] = func(c *CPU6809) { *reg = c.fetchByte(); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(2) }
	b[ldDir] = func(c *CPU6809) { ea := c.directEA(); *reg = c.bus.Read8(ea); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(4) }
	b[ldIdx] = func(c *CPU6809) { ea, e := c.indexedEA(); *reg = c.bus.Read8(ea); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(4 + e) }
	b[ldExt] = func(c *CPU6809) { ea := c.extendedEA(); *reg = c.bus.Read8(ea); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(5) }

	b[stDir] = func(c *CPU6809) { ea := c.directEA(); c.bus.Write8(ea, *reg); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(4) }
	b[stIdx] = func(c *CPU6809) { ea, e := c.indexedEA(); c.bus.Write8(ea, *reg); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(4 + e) }
	b[stExt] = func(c *CPU6809) { ea := c.extendedEA(); c.bus.Write8(ea, *reg); c.SetFlag(CC_V, false); c.setNZ8(*reg); c.addCycles(5) }
}

// wire16 wires LD<reg>/ST<reg> immediate/direct/indexed/extended for one of
// the 16-bit registers (D, X, U; Y and S are wired the same way from the
// 0x10/0x11 prefix pages, since their opcodes collide with the primary
// page's X/U encodings).
func (c *CPU6809) wire16(which string, b *[256]func(*CPU6809), ldImm, ldDir, ldIdx, ldExt, stDir, stIdx, stExt byte) {
	get, set := c.reg16Accessors(which)

	b[ldImm] = func(c *CPU6809) { v := c.fetchWord(); set(c, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(3) }
	b[ldDir] = func(c *CPU6809) { ea := c.directEA(); v := c.bus.Read16(ea); set(c, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(5) }
	b[ldIdx] = func(c *CPU6809) { ea, e := c.indexedEA(); v := c.bus.Read16(ea); set(c, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(5 + e) }
	b[ldExt] = func(c *CPU6809) { ea := c.extendedEA(); v := c.bus.Read16(ea); set(c, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(6) }

	b[stDir] = func(c *CPU6809) { ea := c.directEA(); v := get(c); c.bus.Write16(ea, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(5) }
	b[stIdx] = func(c *CPU6809) { ea, e := c.indexedEA(); v := get(c); c.bus.Write16(ea, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(5 + e) }
	b[stExt] = func(c *CPU6809) { ea := c.extendedEA(); v := get(c); c.bus.Write16(ea, v); c.SetFlag(CC_V, false); c.setNZ16(v); c.addCycles(6) }
}

func (c *CPU6809) reg16Accessors(which string) (func(*CPU6809) uint16, func(*CPU6809, uint16)) {
	switch which {
	case "D":
		return func(c *CPU6809) uint16 { return c.D() }, func(c *CPU6809, v uint16) { c.SetD(v) }
	case "X":
		return func(c *CPU6809) uint16 { return c.X }, func(c *CPU6809, v uint16) { c.X = v }
	case "Y":
		return func(c *CPU6809) uint16 { return c.Y }, func(c *CPU6809, v uint16) { c.Y = v }
	case "U":
		return func(c *CPU6809) uint16 { return c.U }, func(c *CPU6809, v uint16) { c.U = v }
	case "S":
		return func(c *CPU6809) uint16 { return c.S }, func(c *CPU6809, v uint16) { c.S = v }
	}
	return func(c *CPU6809) uint16 { return 0 }, func(c *CPU6809, v uint16) {}
}
