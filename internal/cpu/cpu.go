// Package cpu implements the 2A03 (MOS 6502-derived) instruction
// interpreter: 54 official opcodes, up to 13 addressing modes, and the
// classic indirect-JMP page-wrap bug.
package cpu

const (
	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	irqVector   = 0xFFFE
	resetVector = 0xFFFC

	// tickCycleCount is the per-Step cycle budget: the roughly 113 CPU
	// clock cycles the 2A03 spends per scanline. Step keeps executing
	// whole instructions until at least this many cycles have elapsed.
	tickCycleCount = 113
)

// Bus is the CPU's view of the system bus: byte-addressed reads and
// writes over the full 16-bit CPU address space.
type Bus interface {
	ReadCPU(address uint16) uint8
	WriteCPU(address uint16, value uint8)
}

// AddressingMode names how an opcode's operand address is computed.
type AddressingMode uint8

const (
	ModeInvalid AddressingMode = iota
	ModeImplied
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeRelative
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndexedIndirect // (zp,X)
	ModeIndirectIndexed // (zp),Y
)

type opcodeInfo struct {
	mode   AddressingMode
	length uint8
	cycles uint8
}

// opcodeTable is the static 256-entry dispatch table: addressing mode,
// instruction length in bytes, and base cycle cost. Opcodes this core
// does not implement decode as ModeInvalid and execute as a 1-byte,
// 2-cycle no-op — the emulator silently skips unofficial opcodes.
var opcodeTable [256]opcodeInfo

func op(code uint8, mode AddressingMode, length, cycles uint8) {
	opcodeTable[code] = opcodeInfo{mode, length, cycles}
}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = opcodeInfo{ModeInvalid, 1, 2}
	}

	// ADC
	op(0x69, ModeImmediate, 2, 2)
	op(0x65, ModeZeroPage, 2, 3)
	op(0x75, ModeZeroPageX, 2, 4)
	op(0x6D, ModeAbsolute, 3, 4)
	op(0x7D, ModeAbsoluteX, 3, 4)
	op(0x79, ModeAbsoluteY, 3, 4)
	op(0x61, ModeIndexedIndirect, 2, 6)
	op(0x71, ModeIndirectIndexed, 2, 5)

	// AND
	op(0x29, ModeImmediate, 2, 2)
	op(0x25, ModeZeroPage, 2, 3)
	op(0x35, ModeZeroPageX, 2, 4)
	op(0x2D, ModeAbsolute, 3, 4)
	op(0x3D, ModeAbsoluteX, 3, 4)
	op(0x39, ModeAbsoluteY, 3, 4)
	op(0x21, ModeIndexedIndirect, 2, 6)
	op(0x31, ModeIndirectIndexed, 2, 5)

	// ASL
	op(0x0A, ModeAccumulator, 1, 2)
	op(0x06, ModeZeroPage, 2, 5)
	op(0x16, ModeZeroPageX, 2, 6)
	op(0x0E, ModeAbsolute, 3, 6)
	op(0x1E, ModeAbsoluteX, 3, 7)

	// Branches
	op(0x90, ModeRelative, 2, 2) // BCC
	op(0xB0, ModeRelative, 2, 2) // BCS
	op(0xF0, ModeRelative, 2, 2) // BEQ
	op(0x30, ModeRelative, 2, 2) // BMI
	op(0xD0, ModeRelative, 2, 2) // BNE
	op(0x10, ModeRelative, 2, 2) // BPL
	op(0x50, ModeRelative, 2, 2) // BVC
	op(0x70, ModeRelative, 2, 2) // BVS

	// BIT
	op(0x24, ModeZeroPage, 2, 3)
	op(0x2C, ModeAbsolute, 3, 4)

	// BRK
	op(0x00, ModeImplied, 1, 7)

	// Flag clear/set
	op(0x18, ModeImplied, 1, 2) // CLC
	op(0xD8, ModeImplied, 1, 2) // CLD
	op(0x58, ModeImplied, 1, 2) // CLI
	op(0xB8, ModeImplied, 1, 2) // CLV
	op(0x38, ModeImplied, 1, 2) // SEC
	op(0xF8, ModeImplied, 1, 2) // SED
	op(0x78, ModeImplied, 1, 2) // SEI

	// CMP
	op(0xC9, ModeImmediate, 2, 2)
	op(0xC5, ModeZeroPage, 2, 3)
	op(0xD5, ModeZeroPageX, 2, 4)
	op(0xCD, ModeAbsolute, 3, 4)
	op(0xDD, ModeAbsoluteX, 3, 4)
	op(0xD9, ModeAbsoluteY, 3, 4)
	op(0xC1, ModeIndexedIndirect, 2, 6)
	op(0xD1, ModeIndirectIndexed, 2, 5)

	// CPX / CPY
	op(0xE0, ModeImmediate, 2, 2)
	op(0xE4, ModeZeroPage, 2, 3)
	op(0xEC, ModeAbsolute, 3, 4)
	op(0xC0, ModeImmediate, 2, 2)
	op(0xC4, ModeZeroPage, 2, 3)
	op(0xCC, ModeAbsolute, 3, 4)

	// DEC
	op(0xC6, ModeZeroPage, 2, 5)
	op(0xD6, ModeZeroPageX, 2, 6)
	op(0xCE, ModeAbsolute, 3, 6)
	op(0xDE, ModeAbsoluteX, 3, 7)

	// DEX / DEY
	op(0xCA, ModeImplied, 1, 2)
	op(0x88, ModeImplied, 1, 2)

	// EOR
	op(0x49, ModeImmediate, 2, 2)
	op(0x45, ModeZeroPage, 2, 3)
	op(0x55, ModeZeroPageX, 2, 4)
	op(0x4D, ModeAbsolute, 3, 4)
	op(0x5D, ModeAbsoluteX, 3, 4)
	op(0x59, ModeAbsoluteY, 3, 4)
	op(0x41, ModeIndexedIndirect, 2, 6)
	op(0x51, ModeIndirectIndexed, 2, 5)

	// INC
	op(0xE6, ModeZeroPage, 2, 5)
	op(0xF6, ModeZeroPageX, 2, 6)
	op(0xEE, ModeAbsolute, 3, 6)
	op(0xFE, ModeAbsoluteX, 3, 7)

	// INX / INY
	op(0xE8, ModeImplied, 1, 2)
	op(0xC8, ModeImplied, 1, 2)

	// JMP / JSR
	op(0x4C, ModeAbsolute, 3, 3)
	op(0x6C, ModeIndirect, 3, 5)
	op(0x20, ModeAbsolute, 3, 6)

	// LDA
	op(0xA9, ModeImmediate, 2, 2)
	op(0xA5, ModeZeroPage, 2, 3)
	op(0xB5, ModeZeroPageX, 2, 4)
	op(0xAD, ModeAbsolute, 3, 4)
	op(0xBD, ModeAbsoluteX, 3, 4)
	op(0xB9, ModeAbsoluteY, 3, 4)
	op(0xA1, ModeIndexedIndirect, 2, 6)
	op(0xB1, ModeIndirectIndexed, 2, 5)

	// LDX
	op(0xA2, ModeImmediate, 2, 2)
	op(0xA6, ModeZeroPage, 2, 3)
	op(0xB6, ModeZeroPageY, 2, 4)
	op(0xAE, ModeAbsolute, 3, 4)
	op(0xBE, ModeAbsoluteY, 3, 4)

	// LDY
	op(0xA0, ModeImmediate, 2, 2)
	op(0xA4, ModeZeroPage, 2, 3)
	op(0xB4, ModeZeroPageX, 2, 4)
	op(0xAC, ModeAbsolute, 3, 4)
	op(0xBC, ModeAbsoluteX, 3, 4)

	// LSR
	op(0x4A, ModeAccumulator, 1, 2)
	op(0x46, ModeZeroPage, 2, 5)
	op(0x56, ModeZeroPageX, 2, 6)
	op(0x4E, ModeAbsolute, 3, 6)
	op(0x5E, ModeAbsoluteX, 3, 7)

	// NOP
	op(0xEA, ModeImplied, 1, 2)

	// ORA
	op(0x09, ModeImmediate, 2, 2)
	op(0x05, ModeZeroPage, 2, 3)
	op(0x15, ModeZeroPageX, 2, 4)
	op(0x0D, ModeAbsolute, 3, 4)
	op(0x1D, ModeAbsoluteX, 3, 4)
	op(0x19, ModeAbsoluteY, 3, 4)
	op(0x01, ModeIndexedIndirect, 2, 6)
	op(0x11, ModeIndirectIndexed, 2, 5)

	// Stack
	op(0x48, ModeImplied, 1, 3) // PHA
	op(0x08, ModeImplied, 1, 3) // PHP
	op(0x68, ModeImplied, 1, 4) // PLA
	op(0x28, ModeImplied, 1, 4) // PLP

	// ROL / ROR
	op(0x2A, ModeAccumulator, 1, 2)
	op(0x26, ModeZeroPage, 2, 5)
	op(0x36, ModeZeroPageX, 2, 6)
	op(0x2E, ModeAbsolute, 3, 6)
	op(0x3E, ModeAbsoluteX, 3, 7)
	op(0x6A, ModeAccumulator, 1, 2)
	op(0x66, ModeZeroPage, 2, 5)
	op(0x76, ModeZeroPageX, 2, 6)
	op(0x6E, ModeAbsolute, 3, 6)
	op(0x7E, ModeAbsoluteX, 3, 7)

	// RTI / RTS
	op(0x40, ModeImplied, 1, 6)
	op(0x60, ModeImplied, 1, 6)

	// SBC
	op(0xE9, ModeImmediate, 2, 2)
	op(0xE5, ModeZeroPage, 2, 3)
	op(0xF5, ModeZeroPageX, 2, 4)
	op(0xED, ModeAbsolute, 3, 4)
	op(0xFD, ModeAbsoluteX, 3, 4)
	op(0xF9, ModeAbsoluteY, 3, 4)
	op(0xE1, ModeIndexedIndirect, 2, 6)
	op(0xF1, ModeIndirectIndexed, 2, 5)

	// STA
	op(0x85, ModeZeroPage, 2, 3)
	op(0x95, ModeZeroPageX, 2, 4)
	op(0x8D, ModeAbsolute, 3, 4)
	op(0x9D, ModeAbsoluteX, 3, 5)
	op(0x99, ModeAbsoluteY, 3, 5)
	op(0x81, ModeIndexedIndirect, 2, 6)
	op(0x91, ModeIndirectIndexed, 2, 6)

	// STX / STY
	op(0x86, ModeZeroPage, 2, 3)
	op(0x96, ModeZeroPageY, 2, 4)
	op(0x8E, ModeAbsolute, 3, 4)
	op(0x84, ModeZeroPage, 2, 3)
	op(0x94, ModeZeroPageX, 2, 4)
	op(0x8C, ModeAbsolute, 3, 4)

	// Register transfers
	op(0xAA, ModeImplied, 1, 2) // TAX
	op(0xA8, ModeImplied, 1, 2) // TAY
	op(0xBA, ModeImplied, 1, 2) // TSX
	op(0x8A, ModeImplied, 1, 2) // TXA
	op(0x9A, ModeImplied, 1, 2) // TXS
	op(0x98, ModeImplied, 1, 2) // TYA
}

func isBranchOpcode(op uint8) bool {
	switch op {
	case 0x90, 0xB0, 0xF0, 0x30, 0xD0, 0x10, 0x50, 0x70:
		return true
	}
	return false
}

// CPU is the 2A03 instruction interpreter.
type CPU struct {
	A, X, Y, SP uint8
	PC          uint16

	CarryFlag        bool
	ZeroFlag         bool
	InterruptDisable bool
	DecimalMode      bool
	BreakFlag        bool
	Unused           bool
	OverflowFlag     bool
	NegativeFlag     bool

	bus Bus

	cycles          uint64
	interruptSignal uint16
}

// New creates a CPU wired to bus. Call Reset before stepping.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Status packs the named flags into the classic 6502 status byte.
func (c *CPU) Status() uint8 {
	var s uint8
	if c.CarryFlag {
		s |= 0x01
	}
	if c.ZeroFlag {
		s |= 0x02
	}
	if c.InterruptDisable {
		s |= 0x04
	}
	if c.DecimalMode {
		s |= 0x08
	}
	if c.BreakFlag {
		s |= 0x10
	}
	if c.Unused {
		s |= 0x20
	}
	if c.OverflowFlag {
		s |= 0x40
	}
	if c.NegativeFlag {
		s |= 0x80
	}
	return s
}

// SetStatus unpacks a status byte into the named flags.
func (c *CPU) SetStatus(s uint8) {
	c.CarryFlag = s&0x01 != 0
	c.ZeroFlag = s&0x02 != 0
	c.InterruptDisable = s&0x04 != 0
	c.DecimalMode = s&0x08 != 0
	c.BreakFlag = s&0x10 != 0
	c.Unused = s&0x20 != 0
	c.OverflowFlag = s&0x40 != 0
	c.NegativeFlag = s&0x80 != 0
}

// Cycles reports the cumulative cycle count since the last Reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Reset drives the CPU to its documented power-up state: PC from the
// reset vector, SP = 0xFD, interrupt-disable and the unused status bit
// set, A/X/Y cleared.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.CarryFlag = false
	c.ZeroFlag = false
	c.InterruptDisable = true
	c.DecimalMode = false
	c.BreakFlag = false
	c.Unused = true
	c.OverflowFlag = false
	c.NegativeFlag = false

	c.PC = c.readShort(resetVector)
	c.cycles = 0
	c.interruptSignal = 0
}

// FireInterrupt latches an interrupt vector for delivery before the
// next instruction. While interrupt-disable is set, only NMI is
// accepted — matching real 6502/2A03 behaviour.
func (c *CPU) FireInterrupt(vector uint16) {
	if c.InterruptDisable {
		if vector == nmiVector {
			c.interruptSignal = vector
		}
		return
	}
	c.interruptSignal = vector
}

// Step executes the fixed per-scanline cycle budget: whole
// instructions, each preceded by interrupt servicing, until at least
// 113 cycles have elapsed. It returns the cycles actually consumed.
func (c *CPU) Step() uint64 {
	before := c.cycles
	for c.cycles-before < tickCycleCount {
		c.stepInstruction()
	}
	return c.cycles - before
}

// stepInstruction services a pending interrupt, then fetches, decodes,
// and executes exactly one instruction at PC.
func (c *CPU) stepInstruction() {
	c.handleInterrupt()

	previousPC := c.PC
	opcode := c.bus.ReadCPU(c.PC)
	info := opcodeTable[opcode]

	operand := c.decodeOperand(opcode, info.mode)
	c.PC += uint16(info.length)

	c.execute(opcode, operand)

	c.cycles += uint64(info.cycles)

	if isBranchOpcode(opcode) && c.PC != previousPC+uint16(info.length) {
		c.cycles++
		if (c.PC & 0xFF00) != (previousPC & 0xFF00) {
			c.cycles++
		}
	}
}

func (c *CPU) handleInterrupt() {
	if c.interruptSignal == 0 {
		return
	}
	vector := c.interruptSignal
	c.pushShort(c.PC)
	c.pushByte(c.Status() | 0x10)
	c.InterruptDisable = true
	c.PC = c.readShort(vector)
	c.cycles += 7
	c.interruptSignal = 0
}

func (c *CPU) readByte(addr uint16) uint8 { return c.bus.ReadCPU(addr) }

func (c *CPU) readShort(addr uint16) uint16 {
	lo := uint16(c.bus.ReadCPU(addr))
	hi := uint16(c.bus.ReadCPU(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) pushByte(v uint8) {
	c.bus.WriteCPU(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) popByte() uint8 {
	c.SP++
	return c.bus.ReadCPU(stackBase + uint16(c.SP))
}

func (c *CPU) pushShort(v uint16) {
	c.bus.WriteCPU(stackBase+uint16(c.SP), uint8(v>>8))
	c.bus.WriteCPU(stackBase+uint16(c.SP-1), uint8(v&0xFF))
	c.SP -= 2
}

func (c *CPU) popShort() uint16 {
	c.SP += 2
	hi := uint16(c.bus.ReadCPU(stackBase + uint16(c.SP)))
	lo := uint16(c.bus.ReadCPU(stackBase + uint16(c.SP) - 1))
	return hi<<8 | lo
}

// decodeOperand computes the 16-bit operand address for mode, following
// the 6502 indirect-addressing page-wrap bug for Indirect,
// IndexedIndirect, and IndirectIndexed modes.
func (c *CPU) decodeOperand(opcode uint8, mode AddressingMode) uint16 {
	switch mode {
	case ModeAbsolute:
		return c.readShort(c.PC + 1)
	case ModeAbsoluteX:
		return c.readShort(c.PC+1) + uint16(c.X)
	case ModeAbsoluteY:
		return c.readShort(c.PC+1) + uint16(c.Y)
	case ModeImmediate:
		return c.PC + 1
	case ModeRelative:
		offset := int8(c.readByte(c.PC + 1))
		return uint16(int32(c.PC) + int32(offset) + int32(opcodeTable[opcode].length))
	case ModeZeroPage:
		return uint16(c.readByte(c.PC + 1))
	case ModeZeroPageX:
		return uint16(c.readByte(c.PC+1)+c.X) & 0xFF
	case ModeZeroPageY:
		return uint16(c.readByte(c.PC+1)+c.Y) & 0xFF
	case ModeIndirect:
		target := c.readShort(c.PC + 1)
		return c.readIndirectWord(target)
	case ModeIndexedIndirect:
		target := uint16(c.readByte(c.PC+1)+c.X) & 0xFF
		return c.readIndirectWord(target)
	case ModeIndirectIndexed:
		target := uint16(c.readByte(c.PC + 1))
		return c.readIndirectWord(target) + uint16(c.Y)
	default:
		return 0
	}
}

// readIndirectWord fetches the word at addr, reproducing the 6502 bug
// where a pointer landing on a page boundary wraps its high byte fetch
// to the start of the same page instead of crossing into the next one.
func (c *CPU) readIndirectWord(addr uint16) uint16 {
	if addr&0xFF == 0xFF {
		lo := uint16(c.readByte(addr))
		hi := uint16(c.readByte(addr & 0xFF00))
		return hi<<8 | lo
	}
	return c.readShort(addr)
}

func setZN(v uint8) (zero, negative bool) {
	return v == 0, v&0x80 != 0
}

func sameSign(a, b uint8) bool {
	return (a^b)&0x80 == 0
}

func (c *CPU) execute(opcode uint8, addr uint16) {
	switch opcode {
	case 0x0A:
		c.accASL()
	case 0x4A:
		c.accLSR()
	case 0x2A:
		c.accROL()
	case 0x6A:
		c.accROR()
	case 0xEA:
		// NOP

	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		c.adc(addr)
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		c.and(addr)
	case 0x06, 0x16, 0x0E, 0x1E:
		c.asl(addr)
	case 0x90:
		if !c.CarryFlag {
			c.PC = addr
		}
	case 0xB0:
		if c.CarryFlag {
			c.PC = addr
		}
	case 0xF0:
		if c.ZeroFlag {
			c.PC = addr
		}
	case 0x24, 0x2C:
		c.bit(addr)
	case 0x30:
		if c.NegativeFlag {
			c.PC = addr
		}
	case 0xD0:
		if !c.ZeroFlag {
			c.PC = addr
		}
	case 0x10:
		if !c.NegativeFlag {
			c.PC = addr
		}
	case 0x00:
		c.brk()
	case 0x50:
		if !c.OverflowFlag {
			c.PC = addr
		}
	case 0x70:
		if c.OverflowFlag {
			c.PC = addr
		}
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		c.compare(c.A, addr)
	case 0xE0, 0xE4, 0xEC:
		c.compare(c.X, addr)
	case 0xC0, 0xC4, 0xCC:
		c.compare(c.Y, addr)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		c.dec(addr)
	case 0xCA:
		c.X--
		c.ZeroFlag, c.NegativeFlag = setZN(c.X)
	case 0x88:
		c.Y--
		c.ZeroFlag, c.NegativeFlag = setZN(c.Y)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		c.eor(addr)
	case 0xE6, 0xF6, 0xEE, 0xFE:
		c.inc(addr)
	case 0xE8:
		c.X++
		c.ZeroFlag, c.NegativeFlag = setZN(c.X)
	case 0xC8:
		c.Y++
		c.ZeroFlag, c.NegativeFlag = setZN(c.Y)
	case 0x4C, 0x6C:
		c.PC = addr
	case 0x20:
		c.jsr(addr)
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		c.A = c.readByte(addr)
		c.ZeroFlag, c.NegativeFlag = setZN(c.A)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		c.X = c.readByte(addr)
		c.ZeroFlag, c.NegativeFlag = setZN(c.X)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		c.Y = c.readByte(addr)
		c.ZeroFlag, c.NegativeFlag = setZN(c.Y)
	case 0x46, 0x56, 0x4E, 0x5E:
		c.lsr(addr)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		c.ora(addr)
	case 0x48:
		c.pushByte(c.A)
	case 0x08:
		c.pushByte(c.Status() | 0x10)
	case 0x68:
		c.A = c.popByte()
		c.ZeroFlag, c.NegativeFlag = setZN(c.A)
	case 0x28:
		s := c.popByte()
		c.SetStatus(s)
		c.Unused = true
		c.BreakFlag = false
	case 0x26, 0x36, 0x2E, 0x3E:
		c.rol(addr)
	case 0x66, 0x76, 0x6E, 0x7E:
		c.ror(addr)
	case 0x40:
		c.rti()
	case 0x60:
		c.PC = c.popShort()
		c.PC++
	case 0xE9, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		c.sbc(addr)
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		c.bus.WriteCPU(addr, c.A)
	case 0x86, 0x96, 0x8E:
		c.bus.WriteCPU(addr, c.X)
	case 0x84, 0x94, 0x8C:
		c.bus.WriteCPU(addr, c.Y)
	case 0xAA:
		c.X = c.A
		c.ZeroFlag, c.NegativeFlag = setZN(c.X)
	case 0xA8:
		c.Y = c.A
		c.ZeroFlag, c.NegativeFlag = setZN(c.Y)
	case 0xBA:
		c.X = c.SP
		c.ZeroFlag, c.NegativeFlag = setZN(c.X)
	case 0x8A:
		c.A = c.X
		c.ZeroFlag, c.NegativeFlag = setZN(c.A)
	case 0x9A:
		c.SP = c.X
	case 0x98:
		c.A = c.Y
		c.ZeroFlag, c.NegativeFlag = setZN(c.A)

	case 0x18:
		c.CarryFlag = false
	case 0xD8:
		c.DecimalMode = false
	case 0x58:
		c.InterruptDisable = false
	case 0xB8:
		c.OverflowFlag = false
	case 0x38:
		c.CarryFlag = true
	case 0xF8:
		c.DecimalMode = true
	case 0x78:
		c.InterruptDisable = true
	}
}

func (c *CPU) adc(addr uint16) {
	operand := c.readByte(addr)
	var carry uint16
	if c.CarryFlag {
		carry = 1
	}
	result := uint16(c.A) + uint16(operand) + carry
	c.CarryFlag = result&0xFF00 != 0
	r8 := uint8(result)
	c.ZeroFlag, c.NegativeFlag = setZN(r8)
	c.OverflowFlag = sameSign(c.A, operand) && !sameSign(operand, r8)
	c.A = r8
}

func (c *CPU) sbc(addr uint16) {
	operand := c.readByte(addr)
	var borrow uint8
	if !c.CarryFlag {
		borrow = 1
	}
	result := c.A - operand - borrow
	carryTest := int16(c.A) - int16(operand) - int16(borrow)
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = carryTest >= 0
	c.OverflowFlag = !sameSign(c.A, result) && !sameSign(c.A, operand)
	c.A = result
}

func (c *CPU) and(addr uint16) {
	c.A &= c.readByte(addr)
	c.ZeroFlag, c.NegativeFlag = setZN(c.A)
}

func (c *CPU) ora(addr uint16) {
	c.A |= c.readByte(addr)
	c.ZeroFlag, c.NegativeFlag = setZN(c.A)
}

func (c *CPU) eor(addr uint16) {
	c.A ^= c.readByte(addr)
	c.ZeroFlag, c.NegativeFlag = setZN(c.A)
}

func (c *CPU) bit(addr uint16) {
	operand := c.readByte(addr)
	c.OverflowFlag = operand&0x40 != 0
	_, c.NegativeFlag = setZN(operand)
	c.ZeroFlag = (c.A & operand) == 0
}

func (c *CPU) compare(reg uint8, addr uint16) {
	operand := c.readByte(addr)
	result := reg - operand
	c.CarryFlag = reg >= operand
	c.ZeroFlag, c.NegativeFlag = setZN(result)
}

func (c *CPU) asl(addr uint16) {
	operand := c.readByte(addr)
	result := operand << 1
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = operand&0x80 != 0
	c.bus.WriteCPU(addr, result)
}

func (c *CPU) accASL() {
	result := c.A << 1
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = c.A&0x80 != 0
	c.A = result
}

func (c *CPU) lsr(addr uint16) {
	operand := c.readByte(addr)
	result := operand >> 1
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = operand&0x1 != 0
	c.bus.WriteCPU(addr, result)
}

func (c *CPU) accLSR() {
	result := c.A >> 1
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = c.A&0x1 != 0
	c.A = result
}

func (c *CPU) rol(addr uint16) {
	operand := c.readByte(addr)
	var carryIn uint8
	if c.CarryFlag {
		carryIn = 1
	}
	result := carryIn | (operand << 1)
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = operand&0x80 != 0
	c.bus.WriteCPU(addr, result)
}

func (c *CPU) accROL() {
	var carryIn uint8
	if c.CarryFlag {
		carryIn = 1
	}
	result := carryIn | (c.A << 1)
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = c.A&0x80 != 0
	c.A = result
}

func (c *CPU) ror(addr uint16) {
	operand := c.readByte(addr)
	var carryIn uint8
	if c.CarryFlag {
		carryIn = 0x80
	}
	result := (operand >> 1) | carryIn
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = operand&0x1 != 0
	c.bus.WriteCPU(addr, result)
}

func (c *CPU) accROR() {
	var carryIn uint8
	if c.CarryFlag {
		carryIn = 0x80
	}
	result := (c.A >> 1) | carryIn
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.CarryFlag = c.A&0x1 != 0
	c.A = result
}

func (c *CPU) dec(addr uint16) {
	result := c.readByte(addr) - 1
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.bus.WriteCPU(addr, result)
}

func (c *CPU) inc(addr uint16) {
	result := c.readByte(addr) + 1
	c.ZeroFlag, c.NegativeFlag = setZN(result)
	c.bus.WriteCPU(addr, result)
}

func (c *CPU) brk() {
	c.pushShort(c.PC)
	c.pushByte(c.Status() | 0x10)
	c.InterruptDisable = true
	c.PC = c.readShort(irqVector)
}

func (c *CPU) jsr(addr uint16) {
	c.PC--
	c.pushShort(c.PC)
	c.PC = addr
}

func (c *CPU) rti() {
	s := c.popByte()
	c.SetStatus(s)
	c.BreakFlag = false
	c.Unused = true
	c.PC = c.popShort()
}
