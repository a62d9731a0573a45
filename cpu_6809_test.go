package main

import "testing"

func newTestCPU() (*CPU6809, *Bus) {
	bus := NewBus(1)
	bus.Write16(VecReset, 0x2000)
	bus.Write16(VecIRQ, 0x3000)
	bus.Write16(VecNMI, 0x3100)
	bus.Write16(VecFIRQ, 0x3200)
	cpu := NewCPU6809(bus)
	return cpu, bus
}

func TestResetLoadsPCFromVector(t *testing.T) {
	cpu, _ := newTestCPU()
	if cpu.PC != 0x2000 {
		t.Fatalf("PC after reset = 0x%04X, want 0x2000", cpu.PC)
	}
	if !cpu.Flag(CC_I) || !cpu.Flag(CC_F) {
		t.Fatalf("reset should mask IRQ and FIRQ")
	}
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.Write8(0x2000, 0x86) // LDA immediate
	bus.Write8(0x2001, 0x00)
	cpu.Step()
	if cpu.A != 0 || !cpu.Flag(CC_Z) {
		t.Fatalf("LDA #0 should set Z; A=%02X CC=%02X", cpu.A, cpu.CC)
	}
}

func TestDAAAfterBCDAddition(t *testing.T) {
	cpu, _ := newTestCPU()
	// 0x09 + 0x01 = 0x0A -> DAA should correct to 0x10 (BCD 10)
	cpu.A = 0x09
	cpu.A = cpu.add8(cpu.A, 0x01, false)
	cpu.daa()
	if cpu.A != 0x10 {
		t.Fatalf("DAA result = 0x%02X, want 0x10", cpu.A)
	}
}

func TestMULProducesUnsignedProductInD(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.A, cpu.B = 12, 11
	cpu.mul()
	if cpu.D() != 132 {
		t.Fatalf("MUL 12*11 = %d, want 132", cpu.D())
	}
	if cpu.Flag(CC_Z) {
		t.Fatalf("Z should be clear for nonzero product")
	}
}

func TestLBRNNeverBranchesFixedCost(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.Write8(0x2000, 0x10)
	bus.Write8(0x2001, 0x21) // LBRN
	bus.Write16(0x2002, 0x0010)
	startPC := cpu.PC
	cpu.Step()
	if cpu.PC != startPC+4 {
		t.Fatalf("LBRN must never branch; PC=%04X want %04X", cpu.PC, startPC+4)
	}
	if cpu.cycles != 5 {
		t.Fatalf("LBRN not-taken cycles = %d, want 5", cpu.cycles)
	}
}

func TestIRQStacksFullSetAndMasksI(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.CC = 0 // unmask IRQ
	cpu.PC = 0x4000
	cpu.S = 0x7F00
	cpu.SetIRQLine(true)
	cpu.Step()
	if cpu.PC != 0x3000 {
		t.Fatalf("PC after IRQ = %04X, want vector 3000", cpu.PC)
	}
	if !cpu.Flag(CC_I) {
		t.Fatalf("IRQ entry must set I mask")
	}
	if cpu.Flag(CC_F) {
		t.Fatalf("IRQ entry must not set F mask")
	}
}

func TestNMITakesPriorityOverIRQ(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.CC = 0
	cpu.S = 0x7F00
	cpu.SetIRQLine(true)
	cpu.SetNMILine(true)
	cpu.Step()
	if cpu.PC != 0x3100 {
		t.Fatalf("NMI should take priority over IRQ; PC=%04X", cpu.PC)
	}
}

func TestSYNCSuspendsUntilInterrupt(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.Write8(0x2000, 0x13) // SYNC
	cpu.Step()
	if !cpu.waitingSync {
		t.Fatalf("SYNC should set waitingSync")
	}
	cpu.Step() // still waiting, no interrupt line asserted
	if !cpu.waitingSync {
		t.Fatalf("SYNC should remain suspended with no pending interrupt")
	}
	cpu.CC = 0
	cpu.SetIRQLine(true)
	cpu.Step()
	if cpu.waitingSync {
		t.Fatalf("SYNC should clear once an interrupt is serviced")
	}
}

func TestIndexedAutoIncrementPenalty(t *testing.T) {
	cpu, bus := newTestCPU()
	cpu.X = 0x4000
	bus.Write8(0x4000, 0x55)
	bus.Write8(0x2000, 0xA6) // LDA indexed
	bus.Write8(0x2001, 0x80) // ,X+
	startCycles := cpu.cycles
	cpu.Step()
	if cpu.A != 0x55 {
		t.Fatalf("LDA ,X+ loaded 0x%02X, want 0x55", cpu.A)
	}
	if cpu.X != 0x4001 {
		t.Fatalf("X after ,X+ = %04X, want 4001", cpu.X)
	}
	if cpu.cycles-startCycles != 6 { // 4 base + 2 extra
		t.Fatalf("cycles = %d, want 6", cpu.cycles-startCycles)
	}
}

func TestUnassignedOpcodeLatchesInvalidOpcode(t *testing.T) {
	cpu, bus := newTestCPU()
	bus.Write8(cpu.PC, 0x01) // unassigned in baseOps
	if cpu.InvalidOpcode() {
		t.Fatal("InvalidOpcode should be false before stepping")
	}
	pcBefore := cpu.PC
	cpu.Step()
	if !cpu.InvalidOpcode() {
		t.Fatal("expected InvalidOpcode to latch after an unassigned opcode fetch")
	}
	if cpu.PC != pcBefore+1 {
		t.Fatalf("PC = 0x%04X, want 0x%04X (should skip the offending byte)", cpu.PC, pcBefore+1)
	}
	cpu.ClearInvalidOpcode()
	if cpu.InvalidOpcode() {
		t.Fatal("ClearInvalidOpcode should reset the latch")
	}
}

func TestPSHSPULSRoundTrip(t *testing.T) {
	cpu, _ := newTestCPU()
	cpu.S = 0x7F00
	cpu.A, cpu.B, cpu.X = 0x11, 0x22, 0x3344
	cpu.pshs(0x16) // A,B,X
	cpu.A, cpu.B, cpu.X = 0, 0, 0
	cpu.puls(0x16)
	if cpu.A != 0x11 || cpu.B != 0x22 || cpu.X != 0x3344 {
		t.Fatalf("PSHS/PULS round trip failed: A=%02X B=%02X X=%04X", cpu.A, cpu.B, cpu.X)
	}
}
