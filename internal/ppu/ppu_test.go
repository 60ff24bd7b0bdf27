package ppu

import "testing"

type fakeBus struct {
	vram      [0x4000]uint8
	cpuMem    [0x10000]uint8
	firedVecs []uint16
}

func (b *fakeBus) ReadPPU(addr uint16) uint8         { return b.vram[addr] }
func (b *fakeBus) WritePPU(addr uint16, value uint8) { b.vram[addr] = value }
func (b *fakeBus) ReadCPU(addr uint16) uint8         { return b.cpuMem[addr] }
func (b *fakeBus) FireInterrupt(vector uint16)       { b.firedVecs = append(b.firedVecs, vector) }

func newTestPPU() (*PPU, *fakeBus) {
	bus := &fakeBus{}
	p := New(bus)
	p.Reset()
	return p, bus
}

func TestScanlineZeroClearsSpriteFlags(t *testing.T) {
	p, _ := newTestPPU()
	p.setSpriteZeroHit(true)
	p.setSpriteOverflow(true)
	p.scanline = 261
	p.Step() // wraps to scanline 0

	p.Step() // scanline 0: clears flags
	if p.status&0x40 != 0 {
		t.Fatalf("sprite zero hit should be cleared at scanline 0")
	}
	if p.status&0x20 != 0 {
		t.Fatalf("sprite overflow should be cleared at scanline 0")
	}
}

func TestVblankSetAndNMIFiredAtScanline261(t *testing.T) {
	p, bus := newTestPPU()
	p.control = 0x80 // vblank_enabled
	p.scanline = 261

	p.Step()

	if !p.vblankFlag() {
		t.Fatalf("vblank flag should be set after scanline 261")
	}
	if len(bus.firedVecs) != 1 || bus.firedVecs[0] != nmiVector {
		t.Fatalf("expected one NMI fired, got %v", bus.firedVecs)
	}
	if p.scanline != 0 {
		t.Fatalf("scanline should wrap to 0, got %d", p.scanline)
	}
}

func TestWritingPPUCTRLFiresImmediateNMIDuringVblank(t *testing.T) {
	p, bus := newTestPPU()
	p.setVblankFlag(true)

	p.WriteRegister(0x0, 0x80)

	if len(bus.firedVecs) != 1 {
		t.Fatalf("expected an immediate NMI on enabling vblank NMI mid-vblank, got %v", bus.firedVecs)
	}
}

func TestStatusReadClearsVblankAndLatch(t *testing.T) {
	p, _ := newTestPPU()
	p.setVblankFlag(true)
	p.addressLatch = true

	status := p.ReadRegister(0x2)

	if status&0x80 == 0 {
		t.Fatalf("status read should report vblank flag as set")
	}
	if p.vblankFlag() {
		t.Fatalf("reading status should clear the vblank flag")
	}
	if p.addressLatch {
		t.Fatalf("reading status should clear the address latch")
	}
}

func TestPPUDATABufferedReadOutsidePalette(t *testing.T) {
	p, bus := newTestPPU()
	bus.vram[0x2000] = 0xAB
	bus.vram[0x2001] = 0xCD

	p.WriteRegister(0x6, 0x20) // high byte
	p.WriteRegister(0x6, 0x00) // low byte -> vramAddr = 0x2000

	first := p.ReadRegister(0x7) // returns stale buffer (0), primes buffer with 0xAB
	if first != 0 {
		t.Fatalf("first buffered read = %#02x, want 0x00", first)
	}
	second := p.ReadRegister(0x7) // vramAddr now 0x2001, returns primed 0xAB
	if second != 0xAB {
		t.Fatalf("second buffered read = %#02x, want 0xAB", second)
	}
}

func TestOAMDMACopies256Bytes(t *testing.T) {
	p, bus := newTestPPU()
	for i := 0; i < 256; i++ {
		bus.cpuMem[0x0200+i] = uint8(i)
	}

	p.WriteOAMBlock(0x0200)

	for i := 0; i < 256; i++ {
		if p.oam[i] != uint8(i) {
			t.Fatalf("oam[%d] = %#02x, want %#02x", i, p.oam[i], uint8(i))
		}
	}
}

func TestSpriteOverflowSetOnNinthHit(t *testing.T) {
	p, _ := newTestPPU()
	for i := 0; i < 9; i++ {
		base := i * 4
		p.oam[base] = 10     // sprite_y, all hit scanline 10
		p.oam[base+1] = 0    // tile
		p.oam[base+2] = 0x20 // behind background, doesn't draw
		p.oam[base+3] = uint8(i * 8)
	}

	p.gatherSpriteHits(10)

	if p.status&0x20 == 0 {
		t.Fatalf("sprite overflow flag should be set with 9 sprites on one scanline")
	}
}

func TestSpriteOverflowNotSetOnExactlyEightHits(t *testing.T) {
	p, _ := newTestPPU()
	for i := 0; i < 8; i++ {
		base := i * 4
		p.oam[base] = 10     // sprite_y, all hit scanline 10
		p.oam[base+1] = 0    // tile
		p.oam[base+2] = 0x20 // behind background, doesn't draw
		p.oam[base+3] = uint8(i * 8)
	}

	hits := p.gatherSpriteHits(10)

	if len(hits) != 8 {
		t.Fatalf("len(hits) = %d, want 8", len(hits))
	}
	if p.status&0x20 != 0 {
		t.Fatalf("sprite overflow flag should not be set with exactly 8 intersecting sprites")
	}
}
