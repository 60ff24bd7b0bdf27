// Package ppu implements a scanline-accurate 2C02 picture processing
// unit: background and sprite compositing, palette RAM, and the
// register interface the CPU sees at $2000-$2007.
package ppu

const (
	FrameWidth  = 256
	FrameHeight = 240

	// DisplayHeight trims 8 scanlines of overscan from both the top and
	// the bottom of the frame buffer, matching the visible picture area.
	DisplayHeight = FrameHeight - 16

	frameBufferSize   = FrameWidth * FrameHeight * 3
	displayBufferSize = FrameWidth * DisplayHeight * 3

	oamSize = 0x100

	scanlinesPerFrame = 262
	nmiVector         = 0xFFFA
)

// Bus is the PPU's view of the system: the shared pattern/nametable/
// palette address space, plus the CPU-side hooks needed for OAM DMA and
// NMI delivery.
type Bus interface {
	ReadPPU(address uint16) uint8
	WritePPU(address uint16, value uint8)
	ReadCPU(address uint16) uint8
	FireInterrupt(vector uint16)
}

type color struct{ r, g, b uint8 }

// palette is the fixed 64-entry NES master palette, RGB.
var palette = [64]color{
	{0x66, 0x66, 0x66}, {0x00, 0x2a, 0x88}, {0x14, 0x12, 0xa7}, {0x3b, 0x00, 0xa4},
	{0x5c, 0x00, 0x7e}, {0x6e, 0x00, 0x40}, {0x6c, 0x06, 0x00}, {0x56, 0x1d, 0x00},
	{0x33, 0x35, 0x00}, {0x0b, 0x48, 0x00}, {0x00, 0x52, 0x00}, {0x00, 0x4f, 0x08},
	{0x00, 0x40, 0x4d}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xad, 0xad, 0xad}, {0x15, 0x5f, 0xd9}, {0x42, 0x40, 0xff}, {0x75, 0x27, 0xfe},
	{0xa0, 0x1a, 0xcc}, {0xb7, 0x1e, 0x7b}, {0xb5, 0x31, 0x20}, {0x99, 0x4e, 0x00},
	{0x6b, 0x6d, 0x00}, {0x38, 0x87, 0x00}, {0x0c, 0x93, 0x00}, {0x00, 0x8f, 0x32},
	{0x00, 0x7c, 0x8d}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xff, 0xfe, 0xff}, {0x64, 0xb0, 0xff}, {0x92, 0x90, 0xff}, {0xc6, 0x76, 0xff},
	{0xf3, 0x6a, 0xff}, {0xfe, 0x6e, 0xcc}, {0xfe, 0x81, 0x70}, {0xea, 0x9e, 0x22},
	{0xbc, 0xbe, 0x00}, {0x88, 0xd8, 0x00}, {0x5c, 0xe4, 0x30}, {0x45, 0xe0, 0x82},
	{0x48, 0xcd, 0xde}, {0x4f, 0x4f, 0x4f}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
	{0xff, 0xfe, 0xff}, {0xc0, 0xdf, 0xff}, {0xd3, 0xd2, 0xff}, {0xe8, 0xc8, 0xff},
	{0xfb, 0xc2, 0xff}, {0xfe, 0xc4, 0xea}, {0xfe, 0xcc, 0xc5}, {0xf7, 0xd8, 0xa5},
	{0xe4, 0xe5, 0x94}, {0xcf, 0xef, 0x96}, {0xbd, 0xf4, 0xab}, {0xb3, 0xf3, 0xcc},
	{0xb5, 0xeb, 0xf2}, {0xb8, 0xb8, 0xb8}, {0x00, 0x00, 0x00}, {0x00, 0x00, 0x00},
}

type sprite struct {
	y, tileIndex, attributes, x uint8
}

// PPU is the 2C02 scanline renderer.
type PPU struct {
	bus Bus

	frameBuffer []byte
	oam         [oamSize]byte

	scanline   uint32
	frameCount uint32

	control uint8
	mask    uint8
	status  uint8

	scrollX, scrollY uint8
	oamAddr          uint8
	readBuffer       uint8
	vramAddr         uint16
	byteCache        uint8
	addressLatch     bool

	mirrorVertical bool
}

// New creates a PPU wired to bus. Call Reset before stepping.
func New(bus Bus) *PPU {
	return &PPU{bus: bus, frameBuffer: make([]byte, frameBufferSize)}
}

// SetMirrorVertical configures nametable mirroring from the cartridge
// header: true selects vertical mirroring, false horizontal.
func (p *PPU) SetMirrorVertical(vertical bool) { p.mirrorVertical = vertical }

// Reset clears framebuffer, OAM, and every register to power-up state.
func (p *PPU) Reset() {
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
	p.oam = [oamSize]byte{}

	p.scanline = 0
	p.frameCount = 0
	p.control = 0
	p.mask = 0
	p.status = 0
	p.addressLatch = false
	p.scrollX = 0
	p.scrollY = 0
	p.oamAddr = 0
	p.vramAddr = 0
	p.readBuffer = 0
	p.byteCache = 0
}

// CurrentScanline reports the scanline the next Step call will render.
func (p *PPU) CurrentScanline() uint32 { return p.scanline }

func (p *PPU) vblankEnabled() bool        { return p.control&0x80 != 0 }
func (p *PPU) verticalWrite() bool        { return p.control&0x04 != 0 }
func (p *PPU) screenPatternHigh() bool    { return p.control&0x10 != 0 }
func (p *PPU) spritePatternHigh() bool    { return p.control&0x08 != 0 }
func (p *PPU) screenEnabled() bool        { return p.mask&0x08 != 0 }
func (p *PPU) spritesEnabled() bool       { return p.mask&0x10 != 0 }
func (p *PPU) screenMaskLeft() bool       { return p.mask&0x02 != 0 }
func (p *PPU) vblankFlag() bool           { return p.status&0x80 != 0 }
func (p *PPU) setVblankFlag(v bool)       { p.setStatusBit(0x80, v) }
func (p *PPU) setSpriteZeroHit(v bool)    { p.setStatusBit(0x40, v) }
func (p *PPU) setSpriteOverflow(v bool)   { p.setStatusBit(0x20, v) }

func (p *PPU) setStatusBit(mask uint8, v bool) {
	if v {
		p.status |= mask
	} else {
		p.status &^= mask
	}
}

// ReadRegister implements the CPU-visible $2000-$2007 register reads,
// already demuxed to a 0-7 index by the bus.
func (p *PPU) ReadRegister(index uint16) uint8 {
	switch index {
	case 0x2: // PPUSTATUS
		output := p.status | (p.byteCache & 0x1F)
		p.setVblankFlag(false)
		p.addressLatch = false
		return output

	case 0x4: // OAMDATA
		v := p.oam[p.oamAddr]
		p.oamAddr++
		return v

	case 0x7: // PPUDATA
		output := p.bus.ReadPPU(p.vramAddr)
		if (p.vramAddr % 0x4000) < 0x3F00 {
			output, p.readBuffer = p.readBuffer, output
		} else {
			p.readBuffer = p.bus.ReadPPU(p.vramAddr - 0x1000)
		}
		if p.verticalWrite() {
			p.vramAddr += 32
		} else {
			p.vramAddr++
		}
		return output
	}
	return 0
}

// WriteRegister implements the CPU-visible $2000-$2007 register writes.
func (p *PPU) WriteRegister(index uint16, value uint8) {
	switch index {
	case 0x0: // PPUCTRL
		p.control = value
		if p.vblankFlag() && value&0x80 != 0 {
			p.bus.FireInterrupt(nmiVector)
		}

	case 0x1: // PPUMASK
		p.mask = value

	case 0x3: // OAMADDR
		p.oamAddr = value

	case 0x4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++

	case 0x5: // PPUSCROLL
		if !p.addressLatch {
			p.scrollX = value
		} else {
			p.scrollY = value
		}
		p.addressLatch = !p.addressLatch

	case 0x6: // PPUADDR
		if !p.addressLatch {
			p.vramAddr = (p.vramAddr & 0x00FF) | (uint16(value) << 8)
		} else {
			p.vramAddr = (p.vramAddr & 0xFF00) | uint16(value)
		}
		p.vramAddr &= 0x3FFF
		p.addressLatch = !p.addressLatch

	case 0x7: // PPUDATA
		p.bus.WritePPU(p.vramAddr, value)
		if p.verticalWrite() {
			p.vramAddr += 32
		} else {
			p.vramAddr++
		}
	}
	p.byteCache = value
}

// WriteOAMBlock performs the $4014 OAM DMA: 256 bytes are copied from
// CPU address space starting at cpuAddress into OAM, starting at the
// current OAM address.
func (p *PPU) WriteOAMBlock(cpuAddress uint16) {
	for i := 0; i < oamSize; i++ {
		p.oam[p.oamAddr] = p.bus.ReadCPU(cpuAddress + uint16(i))
		p.oamAddr++
	}
}

// ReadFrameBuffer copies out the visible 256x224 picture: the internal
// buffer's first 8 and last 8 scanlines are left out.
func (p *PPU) ReadFrameBuffer() []byte {
	out := make([]byte, displayBufferSize)
	copy(out, p.frameBuffer[8*FrameWidth*3:])
	return out
}

// Step renders one scanline and advances to the next, wrapping every
// 262 scanlines. Scanline 0 clears the per-frame sprite flags,
// scanlines 21-260 render the visible picture, and scanline 261 enters
// vertical blank and optionally fires NMI.
func (p *PPU) Step() {
	if p.scanline == 0 {
		p.setSpriteZeroHit(false)
		p.setSpriteOverflow(false)
	}

	if p.scanline > 20 && p.scanline < 261 {
		y := uint8(p.scanline - 21)
		if p.screenEnabled() {
			p.renderBackgroundScanline(y)
		}
		if p.spritesEnabled() {
			p.setSpriteZeroHit(true)
			p.renderSpritesScanline(y)
		}
	}

	if p.scanline == 261 {
		p.setVblankFlag(true)
		if p.vblankEnabled() {
			p.bus.FireInterrupt(nmiVector)
		}
		p.frameCount++
	}

	p.scanline = (p.scanline + 1) % scanlinesPerFrame
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (p *PPU) renderBackgroundScanline(scanlineY uint8) {
	startX := 8
	if p.screenMaskLeft() {
		startX = 0
	}

	for x := startX; x < FrameWidth; {
		offset := (int(scanlineY)*FrameWidth + x) * 3

		nametableX := x + int(p.scrollX)
		nametableY := int(scanlineY) + int(p.scrollY)

		count := 8 - (nametableX % 8)
		count = minInt(count, FrameWidth-x)

		pattern := p.fetchNametableByte(uint16(nametableX>>3), uint16(nametableY>>3))
		attrib := p.fetchAttribByte(uint16(nametableX>>4), uint16(nametableY>>4))

		p.renderBackgroundPattern(p.frameBuffer[offset:], pattern, attrib, uint8(nametableX%8), uint8(nametableY%8), uint8(count))

		x += count
	}
}

func (p *PPU) nametableBase() uint16 {
	return 0x2000 | (uint16(p.control&0x3) << 10)
}

// fetchNametableByte resolves a tile coordinate through the cartridge's
// mirroring mode: tile_x/tile_y beyond one screen fold into the mirrored
// nametable named by the mirroring mode.
func (p *PPU) fetchNametableByte(tileX, tileY uint16) uint8 {
	address := 0x2000 | (uint16(p.control&0x3) << 10)

	if p.mirrorVertical {
		if tileX >= 32 {
			address ^= 0x0400
			tileX -= 32
		}
	} else {
		if tileY >= 30 {
			address ^= 0x0800
			tileY -= 30
		}
	}

	address += tileY*32 + tileX
	return p.bus.ReadPPU(address)
}

func (p *PPU) fetchAttribByte(tileX, tileY uint16) uint8 {
	address := 0x23C0 | (uint16(p.control&0x3) << 10)

	blockX := tileX >> 1
	blockY := tileY >> 1
	subX := tileX % 2
	subY := tileY % 2

	if p.mirrorVertical {
		if blockX >= 8 {
			address ^= 0x0400
			blockX -= 8
		}
	} else {
		if blockY >= 8 {
			address ^= 0x0800
			blockY -= 8
		}
	}

	address += blockY*8 + blockX
	attrib := p.bus.ReadPPU(address)
	return (attrib >> (4*subY + 2*subX)) & 0x3
}

func (p *PPU) renderBackgroundPattern(dest []byte, patternIndex, paletteIndex, internalX, internalY, count uint8) {
	base := uint16(0x0000)
	if p.screenPatternHigh() {
		base = 0x1000
	}
	lowAddr := base + uint16(patternIndex)*16 + uint16(internalY)
	highAddr := lowAddr + 8

	low := p.bus.ReadPPU(lowAddr) << internalX
	high := p.bus.ReadPPU(highAddr) << internalX

	var paletteBase uint16
	switch paletteIndex {
	case 0:
		paletteBase = 0x3F01
	case 1:
		paletteBase = 0x3F05
	case 2:
		paletteBase = 0x3F09
	case 3:
		paletteBase = 0x3F0D
	}

	p.renderBackgroundPatternLine(dest, low, high, paletteBase, count)
}

func (p *PPU) renderBackgroundPatternLine(dest []byte, low, high uint8, paletteBase uint16, count uint8) {
	backdrop := uint16(0x3F00)
	if p.vramAddr >= 0x3F00 && p.vramAddr <= 0x3FFF {
		backdrop = p.vramAddr
	}

	colors := [4]uint8{
		p.bus.ReadPPU(backdrop),
		p.bus.ReadPPU(paletteBase + 0),
		p.bus.ReadPPU(paletteBase + 1),
		p.bus.ReadPPU(paletteBase + 2),
	}

	for i := uint8(0); i < count; i++ {
		index := ((low & 0x80) >> 7) | ((high & 0x80) >> 6)
		renderPixel(dest[int(i)*3:], index, colors, false)
		low <<= 1
		high <<= 1
	}
}

func (p *PPU) fetchSprite(index uint8) sprite {
	base := int(index) * 4
	return sprite{
		y:          p.oam[base],
		tileIndex:  p.oam[base+1],
		attributes: p.oam[base+2],
		x:          p.oam[base+3],
	}
}

func (p *PPU) renderSpritesScanline(scanlineY uint8) {
	hits := p.gatherSpriteHits(scanlineY)
	for i := len(hits) - 1; i >= 0; i-- {
		p.renderOneSprite(hits[i], scanlineY)
	}
}

// gatherSpriteHits walks the 64 OAM entries in order against scanlineY,
// capping the visible set at 8; when a 9th intersecting sprite is found
// it flags overflow and stops — mirroring real 2C02 sprite-evaluation
// limits.
func (p *PPU) gatherSpriteHits(scanlineY uint8) []sprite {
	var hits []sprite

	for i := 0; i < 64; i++ {
		desc := p.fetchSprite(uint8(i))

		if desc.y >= 240 || desc.y > scanlineY || (desc.y+7) < scanlineY {
			continue
		}
		if int(desc.x) >= FrameWidth {
			continue
		}
		if len(hits) < 8 {
			hits = append(hits, desc)
			continue
		}
		p.setSpriteOverflow(true)
		break
	}

	return hits
}

// renderOneSprite draws desc into scanlineY. Sprite-0 hit is set
// unconditionally whenever a sprite drawn in front of the background is
// rendered while sprites are enabled — a documented divergence from the
// hardware's pixel-level collision test, preserved rather than fixed.
func (p *PPU) renderOneSprite(desc sprite, scanlineY uint8) {
	internalY := scanlineY - desc.y
	offset := (int(scanlineY)*FrameWidth + int(desc.x)) * 3
	count := minInt(8, FrameWidth-int(desc.x))

	if desc.attributes&0x20 == 0 {
		p.setSpriteZeroHit(true)
		p.renderSpritePattern(p.frameBuffer[offset:], desc.tileIndex, desc.attributes, internalY, uint8(count))
	}
}

func (p *PPU) renderSpritePattern(dest []byte, patternIndex, attributes, internalY, count uint8) {
	if attributes&0x80 != 0 {
		internalY = 7 - internalY
	}

	paletteIndex := attributes & 0x3
	base := uint16(0x0000)
	if p.spritePatternHigh() {
		base = 0x1000
	}
	lowAddr := base + uint16(patternIndex)*16 + uint16(internalY)
	highAddr := lowAddr + 8

	low := p.bus.ReadPPU(lowAddr)
	high := p.bus.ReadPPU(highAddr)

	var paletteBase uint16
	switch paletteIndex {
	case 0:
		paletteBase = 0x3F11
	case 1:
		paletteBase = 0x3F15
	case 2:
		paletteBase = 0x3F19
	case 3:
		paletteBase = 0x3F1D
	}

	p.renderSpritePatternLine(dest, low, high, attributes, paletteBase, count)
}

func (p *PPU) renderSpritePatternLine(dest []byte, low, high, attributes uint8, paletteBase uint16, count uint8) {
	colors := [4]uint8{
		p.bus.ReadPPU(0x3F00),
		p.bus.ReadPPU(paletteBase + 0),
		p.bus.ReadPPU(paletteBase + 1),
		p.bus.ReadPPU(paletteBase + 2),
	}

	if attributes&0x40 != 0 {
		for i := uint8(0); i < count; i++ {
			index := (low & 0x1) | ((high & 0x1) << 1)
			renderPixel(dest[int(i)*3:], index, colors, true)
			low >>= 1
			high >>= 1
		}
		return
	}

	for i := uint8(0); i < count; i++ {
		index := ((low & 0x80) >> 7) | ((high & 0x80) >> 6)
		renderPixel(dest[int(i)*3:], index, colors, true)
		low <<= 1
		high <<= 1
	}
}

func renderPixel(dest []byte, pattern uint8, colors [4]uint8, zeroTransparent bool) {
	if pattern == 0 && zeroTransparent {
		return
	}
	c := palette[colors[pattern]]
	dest[0] = c.r
	dest[1] = c.g
	dest[2] = c.b
}
