// Package cartridge implements iNES ROM loading for mapper-0 (NROM) cartridges.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// ProgramPageSize is the unit size of one program-ROM bank (16 KiB).
	ProgramPageSize = 0x4000
	// TilePageSize is the unit size of one tile-ROM (CHR) bank (8 KiB).
	TilePageSize = 0x2000
	// SaveRAMPageSize is the unit size of one save-RAM bank (8 KiB).
	SaveRAMPageSize = 0x2000

	headerSize  = 16
	trainerSize = 512
)

var (
	// ErrShortRead is returned when the ROM file ends before a header field is satisfied.
	ErrShortRead = errors.New("cartridge: unexpected end of file")
	// ErrBadMagic is returned when the file does not start with the iNES magic bytes.
	ErrBadMagic = errors.New("cartridge: not an iNES file")
	// ErrEmptyROM is returned when the header declares zero program or tile banks.
	ErrEmptyROM = errors.New("cartridge: zero program or tile ROM banks")
	// ErrUnsupported is returned for headers naming a trainer, battery SRAM, or four-screen VRAM.
	ErrUnsupported = errors.New("cartridge: unsupported iNES feature (trainer, sram, or four-screen vram)")
)

// Header is the 16-byte iNES header, laid out bit-for-bit per spec.md §6.
type Header struct {
	Magic       [4]byte
	PRGPages    uint8 // 16 KiB units
	TilePages   uint8 // 8 KiB units
	Flags6      uint8 // bit0 mirror, bit1 sram, bit2 trainer, bit3 vram-expansion, bits4-7 mapper lo
	Flags7      uint8 // bits0-3 reserved, bits4-7 mapper hi
	SRAMPages   uint8 // 8 KiB units
	_           [7]byte
}

// MirrorMode reports the nametable arrangement named by Flags6 bit 0.
func (h Header) MirrorMode() uint8 { return h.Flags6 & 0x01 }

func (h Header) sramAvailable() bool   { return h.Flags6&0x02 != 0 }
func (h Header) hasTrainer() bool      { return h.Flags6&0x04 != 0 }
func (h Header) vramExpansion() bool   { return h.Flags6&0x08 != 0 }

// MapperNumber reconstructs the 8-bit mapper id from the header's two nibbles.
func (h Header) MapperNumber() uint8 {
	return (h.Flags7 & 0xF0) | (h.Flags6 >> 4)
}

func (h Header) valid() error {
	if string(h.Magic[:]) != "NES\x1a" {
		return ErrBadMagic
	}
	if h.PRGPages == 0 || h.TilePages == 0 {
		return ErrEmptyROM
	}
	if h.SRAMPages >= 2 {
		return ErrUnsupported
	}
	if h.hasTrainer() || h.sramAvailable() || h.vramExpansion() {
		return ErrUnsupported
	}
	return nil
}

// Cartridge is a parsed NROM (mapper 0) iNES image.
type Cartridge struct {
	Header  Header
	PrgROM  []byte
	TileROM []byte
	SaveRAM []byte
}

// Load reads and validates an iNES file at path.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader parses an iNES image from r. Trainer payloads are never accepted:
// a trainer-flagged header fails validation before the trainer bytes are read.
func LoadReader(r io.Reader) (*Cartridge, error) {
	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
	}
	if err := hdr.valid(); err != nil {
		return nil, err
	}

	prgSize := int(hdr.PRGPages) * ProgramPageSize
	tileSize := int(hdr.TilePages) * TilePageSize
	sramPages := int(hdr.SRAMPages)
	if sramPages == 0 {
		sramPages = 1
	}

	cart := &Cartridge{
		Header:  hdr,
		PrgROM:  make([]byte, prgSize),
		TileROM: make([]byte, tileSize),
		SaveRAM: make([]byte, sramPages*SaveRAMPageSize),
	}

	if _, err := io.ReadFull(r, cart.PrgROM); err != nil {
		return nil, fmt.Errorf("%w: program rom: %v", ErrShortRead, err)
	}
	if _, err := io.ReadFull(r, cart.TileROM); err != nil {
		return nil, fmt.Errorf("%w: tile rom: %v", ErrShortRead, err)
	}

	return cart, nil
}

// ProgramBankCount reports how many 16 KiB program-ROM banks this cartridge carries.
func (c *Cartridge) ProgramBankCount() int {
	return len(c.PrgROM) / ProgramPageSize
}
