package cartridge

import (
	"bytes"
	"testing"
)

func validHeader(flags6 byte) []byte {
	hdr := make([]byte, headerSize)
	copy(hdr[0:4], "NES\x1a")
	hdr[4] = 1 // 1 PRG page
	hdr[5] = 1 // 1 CHR page
	hdr[6] = flags6
	return hdr
}

func TestLoadReaderValidNROM(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(validHeader(0x00))
	buf.Write(make([]byte, ProgramPageSize))
	buf.Write(make([]byte, TilePageSize))

	cart, err := LoadReader(&buf)
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if len(cart.PrgROM) != ProgramPageSize {
		t.Fatalf("PrgROM len = %d, want %d", len(cart.PrgROM), ProgramPageSize)
	}
	if len(cart.TileROM) != TilePageSize {
		t.Fatalf("TileROM len = %d, want %d", len(cart.TileROM), TilePageSize)
	}
	if cart.ProgramBankCount() != 1 {
		t.Fatalf("ProgramBankCount = %d, want 1", cart.ProgramBankCount())
	}
	if cart.Header.MirrorMode() != 0 {
		t.Fatalf("MirrorMode = %d, want 0 (horizontal)", cart.Header.MirrorMode())
	}
}

func TestLoadReaderRejectsBadMagic(t *testing.T) {
	hdr := validHeader(0x00)
	hdr[0] = 'X'
	var buf bytes.Buffer
	buf.Write(hdr)

	if _, err := LoadReader(&buf); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestLoadReaderRejectsTrainer(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(validHeader(0x04)) // trainer bit
	buf.Write(make([]byte, ProgramPageSize))
	buf.Write(make([]byte, TilePageSize))

	if _, err := LoadReader(&buf); err != ErrUnsupported {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestLoadReaderRejectsZeroBanks(t *testing.T) {
	hdr := validHeader(0x00)
	hdr[4] = 0
	var buf bytes.Buffer
	buf.Write(hdr)

	if _, err := LoadReader(&buf); err != ErrEmptyROM {
		t.Fatalf("err = %v, want ErrEmptyROM", err)
	}
}

func TestLoadReaderShortBody(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(validHeader(0x00))
	buf.Write(make([]byte, ProgramPageSize-1)) // truncated

	if _, err := LoadReader(&buf); err == nil {
		t.Fatalf("expected a short-read error")
	}
}

func TestMapperNumberReconstruction(t *testing.T) {
	hdr := Header{Flags6: 0x10, Flags7: 0x20}
	if got := hdr.MapperNumber(); got != 0x21 {
		t.Fatalf("MapperNumber = %#02x, want 0x21", got)
	}
}
