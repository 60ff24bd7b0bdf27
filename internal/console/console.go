// Package console provides the top-level façade that wires the CPU,
// PPU, bus, and controllers into a single steppable NES.
package console

import (
	"famicom/internal/bus"
	"famicom/internal/cartridge"
	"famicom/internal/cpu"
	"famicom/internal/input"
	"famicom/internal/ppu"
)

// Console is the assembled emulator: one CPU, one PPU, the bus joining
// them, and the currently-inserted cartridge, if any.
type Console struct {
	bus *bus.Bus
	cpu *cpu.CPU
	ppu *ppu.PPU

	cart  *cartridge.Cartridge
	frame uint32
}

// New wires a fresh, cartridge-less console.
func New() *Console {
	b := bus.New()
	c := &Console{
		bus: b,
		cpu: cpu.New(b),
		ppu: ppu.New(b),
	}
	b.AttachCPU(c.cpu)
	b.AttachPPU(c.ppu)
	return c
}

// InsertROM loads the iNES file at path, resets the system around it,
// and replaces any previously-inserted cartridge.
func (c *Console) InsertROM(path string) error {
	c.EjectROM()

	cart, err := cartridge.Load(path)
	if err != nil {
		return err
	}

	c.cart = cart
	c.bus.Reset()
	c.bus.InsertCartridge(cart)
	c.cpu.Reset()
	c.ppu.Reset()
	c.frame = 0
	return nil
}

// EjectROM removes the inserted cartridge, if any.
func (c *Console) EjectROM() {
	if c.cart != nil {
		c.bus.EjectCartridge()
		c.cart = nil
	}
}

// AttachController plugs a controller into port 0 or 1.
func (c *Console) AttachController(port int, controller *input.Controller) {
	c.bus.AttachController(port, controller)
}

// Tick runs one full frame: 262 scanlines, each one CPU Step (a
// 113-cycle budget) followed by one PPU Step.
func (c *Console) Tick() {
	if c.cart == nil {
		return
	}
	for i := 0; i < 262; i++ {
		c.cpu.Step()
		c.ppu.Step()
	}
	c.frame++
}

// FrameCount reports how many frames Tick has completed.
func (c *Console) FrameCount() uint32 { return c.frame }

// ReadFrameBuffer returns the most recently rendered 256x224 RGB
// picture.
func (c *Console) ReadFrameBuffer() []byte {
	return c.ppu.ReadFrameBuffer()
}

// ROMLoaded reports whether a cartridge is currently inserted.
func (c *Console) ROMLoaded() bool { return c.cart != nil }
