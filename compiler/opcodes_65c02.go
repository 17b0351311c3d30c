package compiler

import "github.com/eightbitforge/asm65/asm"

// opcodes65C02 extends opcodes6502 with the WDC 65C02 additions: BRA,
// the index push/pull pair, STZ, TRB/TSB, the extra BIT encodings,
// accumulator INC/DEC, zero-page indirect addressing for the ALU
// mnemonics, and JMP (abs,X). Built by copying the base table and
// patching it, per the reference table's own construction.
var opcodes65C02 = buildOpcodes65C02()

func buildOpcodes65C02() opcodeTable {
	t := make(opcodeTable, len(opcodes6502)+8)
	for mnemonic, modes := range opcodes6502 {
		copied := make(map[asm.AddrMode]byte, len(modes))
		for mode, op := range modes {
			copied[mode] = op
		}
		t[mnemonic] = copied
	}

	t["BRA"] = map[asm.AddrMode]byte{asm.ModeRelative: 0x80}
	t["PHX"] = map[asm.AddrMode]byte{asm.ModeImplied: 0xDA}
	t["PLX"] = map[asm.AddrMode]byte{asm.ModeImplied: 0xFA}
	t["PHY"] = map[asm.AddrMode]byte{asm.ModeImplied: 0x5A}
	t["PLY"] = map[asm.AddrMode]byte{asm.ModeImplied: 0x7A}

	t["STZ"] = map[asm.AddrMode]byte{
		asm.ModeZeroPage: 0x64, asm.ModeZeroPageX: 0x74,
		asm.ModeAbsolute: 0x9C, asm.ModeAbsoluteX: 0x9E,
	}
	t["TRB"] = map[asm.AddrMode]byte{asm.ModeZeroPage: 0x14, asm.ModeAbsolute: 0x1C}
	t["TSB"] = map[asm.AddrMode]byte{asm.ModeZeroPage: 0x04, asm.ModeAbsolute: 0x0C}

	t["BIT"][asm.ModeImmediate] = 0x89
	t["BIT"][asm.ModeZeroPageX] = 0x34
	t["BIT"][asm.ModeAbsoluteX] = 0x3C

	t["INC"][asm.ModeAccumulator] = 0x1A
	t["DEC"][asm.ModeAccumulator] = 0x3A

	// Zero-page indirect "(zp)" addressing, distinct from JMP's absolute
	// indirect: both share ModeIndirect, disambiguated by mnemonic and
	// operand size at instruction-sizing time.
	t["ADC"][asm.ModeIndirect] = 0x72
	t["AND"][asm.ModeIndirect] = 0x32
	t["CMP"][asm.ModeIndirect] = 0xD2
	t["EOR"][asm.ModeIndirect] = 0x52
	t["LDA"][asm.ModeIndirect] = 0xB2
	t["ORA"][asm.ModeIndirect] = 0x12
	t["SBC"][asm.ModeIndirect] = 0xF2
	t["STA"][asm.ModeIndirect] = 0x92

	t["JMP"][asm.ModeIndexedIndirect] = 0x7C

	return t
}
