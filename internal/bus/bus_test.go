package bus

import (
	"testing"

	"famicom/internal/cartridge"
	"famicom/internal/cpu"
	"famicom/internal/input"
	"famicom/internal/ppu"
)

func newTestBus() (*Bus, *cpu.CPU, *ppu.PPU) {
	b := New()
	c := cpu.New(b)
	p := ppu.New(b)
	b.AttachCPU(c)
	b.AttachPPU(p)
	return b, c, p
}

func testCartridge() *cartridge.Cartridge {
	return &cartridge.Cartridge{
		PrgROM:  make([]byte, cartridge.ProgramPageSize),
		TileROM: make([]byte, cartridge.TilePageSize),
		SaveRAM: make([]byte, cartridge.SaveRAMPageSize),
	}
}

func TestRAMMirroring(t *testing.T) {
	b, _, _ := newTestBus()
	b.WriteCPU(0x0000, 0x42)

	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := b.ReadCPU(mirror); got != 0x42 {
			t.Fatalf("ReadCPU(%#04x) = %#02x, want 0x42 (RAM mirror)", mirror, got)
		}
	}
}

func TestProgramROMMirroredFor16KiBBank(t *testing.T) {
	b, _, _ := newTestBus()
	cart := testCartridge()
	cart.PrgROM[0x10] = 0x99
	b.InsertCartridge(cart)

	if got := b.ReadCPU(0x8010); got != 0x99 {
		t.Fatalf("ReadCPU(0x8010) = %#02x, want 0x99", got)
	}
	if got := b.ReadCPU(0xC010); got != 0x99 {
		t.Fatalf("ReadCPU(0xC010) = %#02x, want 0x99 (single bank mirrored into upper half)", got)
	}
}

func TestControllerPortsRouteThroughBus(t *testing.T) {
	b, _, _ := newTestBus()
	pad := input.New()
	pad.SetButton(input.ButtonA, true)
	b.AttachController(0, pad)

	b.WriteCPU(0x4016, 1)
	b.WriteCPU(0x4016, 0)

	if got := b.ReadCPU(0x4016); got != 1 {
		t.Fatalf("ReadCPU(0x4016) = %d, want 1 (button A pressed)", got)
	}
}

func TestOAMDMATriggeredByWriteTo4014(t *testing.T) {
	b, _, p := newTestBus()
	b.WriteCPU(0x0300, 0x7A)

	b.WriteCPU(0x4014, 0x03) // DMA from page $03xx

	if got := p.ReadRegister(0x4); got != 0x7A {
		t.Fatalf("OAM[0] after DMA = %#02x, want 0x7A", got)
	}
}

func TestVerticalMirroringCollapsesNametables(t *testing.T) {
	b, _, _ := newTestBus()
	cart := testCartridge()
	cart.Header.Flags6 = 0x01 // vertical mirroring
	b.InsertCartridge(cart)

	b.WritePPU(0x2000, 0x55)
	if got := b.ReadPPU(0x2800); got != 0x55 {
		t.Fatalf("ReadPPU(0x2800) = %#02x, want 0x55 (mirrors 0x2000 vertically)", got)
	}
}

func TestPaletteBackdropMirroring(t *testing.T) {
	b, _, _ := newTestBus()
	b.WritePPU(0x3F00, 0x0A)
	if got := b.ReadPPU(0x3F10); got != 0x0A {
		t.Fatalf("ReadPPU(0x3F10) = %#02x, want 0x0A (sprite backdrop mirrors universal backdrop)", got)
	}
}

func TestFireInterruptForwardsToCPU(t *testing.T) {
	b, c, _ := newTestBus()
	c.Reset()
	c.InterruptDisable = false
	b.FireInterrupt(0xFFFA)

	if got := c.Cycles(); got != 0 {
		t.Fatalf("FireInterrupt should only latch, not execute: Cycles() = %d", got)
	}
}
