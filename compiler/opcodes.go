package compiler

import "github.com/eightbitforge/asm65/asm"

// opcodeTable maps a mnemonic to its per-addressing-mode opcode byte.
// Mode lookup is O(1): a plain nested map keyed by the same AddrMode
// constants the parser already produces.
type opcodeTable map[string]map[asm.AddrMode]byte

// Lookup returns the opcode byte for (mnemonic, mode) and whether the
// combination exists in this table.
func (t opcodeTable) Lookup(mnemonic string, mode asm.AddrMode) (byte, bool) {
	modes, ok := t[mnemonic]
	if !ok {
		return 0, false
	}
	b, ok := modes[mode]
	return b, ok
}

// Supports reports whether mnemonic has an encoding at all in this table.
func (t opcodeTable) Supports(mnemonic string) bool {
	_, ok := t[mnemonic]
	return ok
}

// opcodes6502 is the base MOS 6502 instruction set, transcribed from
// the reference assembler's opcode table (mnemonic -> mode -> byte).
var opcodes6502 = opcodeTable{
	"LDA": {asm.ModeImmediate: 0xA9, asm.ModeZeroPage: 0xA5, asm.ModeZeroPageX: 0xB5, asm.ModeAbsolute: 0xAD, asm.ModeAbsoluteX: 0xBD, asm.ModeAbsoluteY: 0xB9, asm.ModeIndexedIndirect: 0xA1, asm.ModeIndirectIndexed: 0xB1},
	"LDX": {asm.ModeImmediate: 0xA2, asm.ModeZeroPage: 0xA6, asm.ModeZeroPageY: 0xB6, asm.ModeAbsolute: 0xAE, asm.ModeAbsoluteY: 0xBE},
	"LDY": {asm.ModeImmediate: 0xA0, asm.ModeZeroPage: 0xA4, asm.ModeZeroPageX: 0xB4, asm.ModeAbsolute: 0xAC, asm.ModeAbsoluteX: 0xBC},
	"STA": {asm.ModeZeroPage: 0x85, asm.ModeZeroPageX: 0x95, asm.ModeAbsolute: 0x8D, asm.ModeAbsoluteX: 0x9D, asm.ModeAbsoluteY: 0x99, asm.ModeIndexedIndirect: 0x81, asm.ModeIndirectIndexed: 0x91},
	"STX": {asm.ModeZeroPage: 0x86, asm.ModeZeroPageY: 0x96, asm.ModeAbsolute: 0x8E},
	"STY": {asm.ModeZeroPage: 0x84, asm.ModeZeroPageX: 0x94, asm.ModeAbsolute: 0x8C},

	"ADC": {asm.ModeImmediate: 0x69, asm.ModeZeroPage: 0x65, asm.ModeZeroPageX: 0x75, asm.ModeAbsolute: 0x6D, asm.ModeAbsoluteX: 0x7D, asm.ModeAbsoluteY: 0x79, asm.ModeIndexedIndirect: 0x61, asm.ModeIndirectIndexed: 0x71},
	"SBC": {asm.ModeImmediate: 0xE9, asm.ModeZeroPage: 0xE5, asm.ModeZeroPageX: 0xF5, asm.ModeAbsolute: 0xED, asm.ModeAbsoluteX: 0xFD, asm.ModeAbsoluteY: 0xF9, asm.ModeIndexedIndirect: 0xE1, asm.ModeIndirectIndexed: 0xF1},

	"CMP": {asm.ModeImmediate: 0xC9, asm.ModeZeroPage: 0xC5, asm.ModeZeroPageX: 0xD5, asm.ModeAbsolute: 0xCD, asm.ModeAbsoluteX: 0xDD, asm.ModeAbsoluteY: 0xD9, asm.ModeIndexedIndirect: 0xC1, asm.ModeIndirectIndexed: 0xD1},
	"CPX": {asm.ModeImmediate: 0xE0, asm.ModeZeroPage: 0xE4, asm.ModeAbsolute: 0xEC},
	"CPY": {asm.ModeImmediate: 0xC0, asm.ModeZeroPage: 0xC4, asm.ModeAbsolute: 0xCC},

	"AND": {asm.ModeImmediate: 0x29, asm.ModeZeroPage: 0x25, asm.ModeZeroPageX: 0x35, asm.ModeAbsolute: 0x2D, asm.ModeAbsoluteX: 0x3D, asm.ModeAbsoluteY: 0x39, asm.ModeIndexedIndirect: 0x21, asm.ModeIndirectIndexed: 0x31},
	"ORA": {asm.ModeImmediate: 0x09, asm.ModeZeroPage: 0x05, asm.ModeZeroPageX: 0x15, asm.ModeAbsolute: 0x0D, asm.ModeAbsoluteX: 0x1D, asm.ModeAbsoluteY: 0x19, asm.ModeIndexedIndirect: 0x01, asm.ModeIndirectIndexed: 0x11},
	"EOR": {asm.ModeImmediate: 0x49, asm.ModeZeroPage: 0x45, asm.ModeZeroPageX: 0x55, asm.ModeAbsolute: 0x4D, asm.ModeAbsoluteX: 0x5D, asm.ModeAbsoluteY: 0x59, asm.ModeIndexedIndirect: 0x41, asm.ModeIndirectIndexed: 0x51},
	"BIT": {asm.ModeZeroPage: 0x24, asm.ModeAbsolute: 0x2C},

	"INC": {asm.ModeZeroPage: 0xE6, asm.ModeZeroPageX: 0xF6, asm.ModeAbsolute: 0xEE, asm.ModeAbsoluteX: 0xFE},
	"DEC": {asm.ModeZeroPage: 0xC6, asm.ModeZeroPageX: 0xD6, asm.ModeAbsolute: 0xCE, asm.ModeAbsoluteX: 0xDE},
	"INX": {asm.ModeImplied: 0xE8},
	"DEX": {asm.ModeImplied: 0xCA},
	"INY": {asm.ModeImplied: 0xC8},
	"DEY": {asm.ModeImplied: 0x88},

	"ASL": {asm.ModeAccumulator: 0x0A, asm.ModeZeroPage: 0x06, asm.ModeZeroPageX: 0x16, asm.ModeAbsolute: 0x0E, asm.ModeAbsoluteX: 0x1E},
	"LSR": {asm.ModeAccumulator: 0x4A, asm.ModeZeroPage: 0x46, asm.ModeZeroPageX: 0x56, asm.ModeAbsolute: 0x4E, asm.ModeAbsoluteX: 0x5E},
	"ROL": {asm.ModeAccumulator: 0x2A, asm.ModeZeroPage: 0x26, asm.ModeZeroPageX: 0x36, asm.ModeAbsolute: 0x2E, asm.ModeAbsoluteX: 0x3E},
	"ROR": {asm.ModeAccumulator: 0x6A, asm.ModeZeroPage: 0x66, asm.ModeZeroPageX: 0x76, asm.ModeAbsolute: 0x6E, asm.ModeAbsoluteX: 0x7E},

	"JMP": {asm.ModeAbsolute: 0x4C, asm.ModeIndirect: 0x6C},
	"JSR": {asm.ModeAbsolute: 0x20},
	"RTS": {asm.ModeImplied: 0x60},

	"BCC": {asm.ModeRelative: 0x90},
	"BCS": {asm.ModeRelative: 0xB0},
	"BEQ": {asm.ModeRelative: 0xF0},
	"BMI": {asm.ModeRelative: 0x30},
	"BNE": {asm.ModeRelative: 0xD0},
	"BPL": {asm.ModeRelative: 0x10},
	"BVC": {asm.ModeRelative: 0x50},
	"BVS": {asm.ModeRelative: 0x70},

	"PHA": {asm.ModeImplied: 0x48},
	"PLA": {asm.ModeImplied: 0x68},
	"PHP": {asm.ModeImplied: 0x08},
	"PLP": {asm.ModeImplied: 0x28},
	"CLC": {asm.ModeImplied: 0x18},
	"SEC": {asm.ModeImplied: 0x38},
	"CLI": {asm.ModeImplied: 0x58},
	"SEI": {asm.ModeImplied: 0x78},
	"CLV": {asm.ModeImplied: 0xB8},
	"CLD": {asm.ModeImplied: 0xD8},
	"SED": {asm.ModeImplied: 0xF8},
	"BRK": {asm.ModeImplied: 0x00},
	"NOP": {asm.ModeImplied: 0xEA},

	"TAX": {asm.ModeImplied: 0xAA},
	"TXA": {asm.ModeImplied: 0x8A},
	"TAY": {asm.ModeImplied: 0xA8},
	"TYA": {asm.ModeImplied: 0x98},
	"TSX": {asm.ModeImplied: 0xBA},
	"TXS": {asm.ModeImplied: 0x9A},
}
