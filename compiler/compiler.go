// Package compiler implements the two-pass address-and-symbol resolution
// engine: pass 1 lays out addresses and sizes statements without strict
// symbol resolution, pass 2 re-walks the same tree to resolve references
// and emit opcode bytes.
package compiler

import (
	"fmt"
	"strings"

	"github.com/eightbitforge/asm65/asm"
)

// Result is the outcome of a successful Compile: the emitted bytes in
// emission order, the address of the first ".org", and the final
// symbol table (useful for a "-symbols" dump).
type Result struct {
	Bytes       []byte
	StartOrigin int64
	Symbols     *asm.SymbolTable
	Warnings    []string
}

// Compiler holds the state shared across both passes of one assembly
// run. Each invocation owns a private Compiler; there is no process-wide
// state.
type Compiler struct {
	cpuMode string
	table   opcodeTable

	symbols *asm.SymbolTable
	locals  *asm.LocalLabelTable

	pass        int
	pc          int64
	haveOrigin  bool
	startOrigin int64
	bytesOut    []byte

	// Decisions made during pass 1 that pass 2 must replay verbatim
	// rather than recompute, so that sizes cannot diverge between
	// passes (see the zero-page demotion convergence rule).
	instrModes  []asm.AddrMode
	instrCursor int
	condTaken   []bool
	condCursor  int

	warnTruncated bool
	warnings      []string
}

// New creates a Compiler defaulting to the base 6502 instruction set.
func New() *Compiler {
	return &Compiler{
		cpuMode: "6502",
		table:   opcodes6502,
		symbols: asm.NewSymbolTable(),
		locals:  asm.NewLocalLabelTable(),
	}
}

// Define pre-seeds the symbol table, the way a CLI "-D NAME=VALUE" flag
// does, before Compile runs.
func (c *Compiler) Define(name string, value int64) {
	c.symbols.Set(name, value)
}

// SetWarnTruncated enables or disables ".byte" truncation warnings
// (config's [assemble] warn_truncated setting). Disabled by default.
func (c *Compiler) SetWarnTruncated(warn bool) {
	c.warnTruncated = warn
}

// SetCPU selects the opcode table before Compile runs, the way a
// "-cpu" flag or config's [assemble] cpu setting does. A source-level
// ".cpu" directive can still switch tables again mid-assembly.
func (c *Compiler) SetCPU(mode string) error {
	switch strings.ToLower(mode) {
	case "6502":
		c.table = opcodes6502
		c.cpuMode = "6502"
	case "65c02":
		c.table = opcodes65C02
		c.cpuMode = "65c02"
	default:
		return fmt.Errorf("unknown CPU mode %q", mode)
	}
	return nil
}

// Compile runs both passes over prog and returns the assembled image.
func (c *Compiler) Compile(prog *asm.Program) (*Result, error) {
	initialTable, initialMode := c.table, c.cpuMode

	c.pass = 1
	c.pc = 0
	if err := c.walk(prog.Statements); err != nil {
		return nil, err
	}

	c.pass = 2
	c.pc = 0
	c.table, c.cpuMode = initialTable, initialMode
	c.bytesOut = nil
	c.condCursor = 0
	c.instrCursor = 0
	if err := c.walk(prog.Statements); err != nil {
		return nil, err
	}

	return &Result{
		Bytes:       c.bytesOut,
		StartOrigin: c.startOrigin,
		Symbols:     c.symbols,
		Warnings:    c.warnings,
	}, nil
}

func (c *Compiler) emit(b byte) {
	c.bytesOut = append(c.bytesOut, b)
}

func (c *Compiler) walk(stmts []asm.Statement) error {
	for _, stmt := range stmts {
		if err := c.walkOne(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) walkOne(stmt asm.Statement) error {
	switch s := stmt.(type) {
	case *asm.LabelStmt:
		return c.handleLabel(s)
	case *asm.AssignStmt:
		return c.handleAssign(s)
	case *asm.DirectiveStmt:
		return c.handleDirective(s)
	case *asm.InstrStmt:
		return c.handleInstr(s)
	case *asm.EnumStmt:
		return c.handleEnum(s)
	case *asm.CondStmt:
		return c.handleCond(s)
	default:
		return nil
	}
}

func (c *Compiler) handleLabel(stmt *asm.LabelStmt) error {
	if stmt.IsLocal {
		if c.pass == 1 {
			c.locals.Define(stmt.Name, c.pc)
		}
		return nil
	}
	if c.pass != 1 {
		return nil
	}
	if _, ok := c.symbols.Get(stmt.Name); ok {
		return newCompileError(stmt.Pos, ErrorValue, "label %q redefined", stmt.Name)
	}
	c.symbols.Set(stmt.Name, c.pc)
	return nil
}

func (c *Compiler) handleAssign(stmt *asm.AssignStmt) error {
	if c.pass != 1 {
		return nil
	}
	if v, ok := c.resolve(stmt.Expr, c.pc); ok {
		c.symbols.Set(stmt.Name, v)
	}
	return nil
}

func (c *Compiler) handleEnum(stmt *asm.EnumStmt) error {
	if c.pass != 1 {
		return nil
	}
	for i, member := range stmt.Members {
		name := member
		if stmt.Name != "" {
			name = stmt.Name + "." + member
		}
		c.symbols.Set(name, int64(i))
	}
	return nil
}

func (c *Compiler) handleCond(stmt *asm.CondStmt) error {
	var taken bool
	if c.pass == 1 {
		taken = c.symbols.Contains(stmt.Symbol)
		c.condTaken = append(c.condTaken, taken)
	} else {
		taken = c.condTaken[c.condCursor]
		c.condCursor++
	}
	if taken {
		return c.walk(stmt.Then)
	}
	return c.walk(stmt.Else)
}

// resolve evaluates e against the current symbol/local-label state.
// ok is false when a reference cannot yet be satisfied; callers decide
// whether that is fatal (pass 2) or tolerable (pass 1 sizing). The one
// exception is a local-label reference with no matching definition in
// pass 1, which resolves to 0 with ok true.
func (c *Compiler) resolve(e asm.Expr, atPC int64) (int64, bool) {
	switch v := e.(type) {
	case *asm.IntExpr:
		return v.Value, true

	case *asm.UnresolvedExpr:
		switch v.Flavor {
		case asm.FlavorAddress:
			return c.symbols.Get(v.Name)
		case asm.FlavorLowByte:
			val, ok := c.symbols.Get(v.Name)
			return val & 0xFF, ok
		case asm.FlavorHighByte:
			val, ok := c.symbols.Get(v.Name)
			return (val >> 8) & 0xFF, ok
		case asm.FlavorLocalRel:
			var pc int64
			var ok bool
			if v.Dir == 'f' {
				pc, ok = c.locals.Forward(v.Name, atPC)
			} else {
				pc, ok = c.locals.Backward(v.Name, atPC)
			}
			if !ok {
				// Pass 1 tolerates a missing local label so sizes can
				// still be computed; pass 2 must see it resolve.
				return 0, c.pass == 1
			}
			return pc, true
		}
		return 0, false

	case *asm.BinaryExpr:
		lv, lok := c.resolve(v.LHS, atPC)
		rv, rok := c.resolve(v.RHS, atPC)
		if !lok || !rok {
			return 0, false
		}
		if v.Op == '+' {
			return lv + rv, true
		}
		return lv - rv, true

	default:
		return 0, false
	}
}

func (c *Compiler) handleDirective(stmt *asm.DirectiveStmt) error {
	switch stmt.Name {
	case ".org":
		return c.handleOrg(stmt)
	case ".byte":
		return c.handleByteList(stmt)
	case ".word":
		return c.handleWordList(stmt)
	case ".fill":
		return c.handleFill(stmt)
	case ".align":
		return c.handleAlign(stmt)
	case ".cpu":
		return c.handleCPU(stmt)
	default:
		return newCompileError(stmt.Pos, ErrorEncoding, "unknown directive %q", stmt.Name)
	}
}

func (c *Compiler) handleOrg(stmt *asm.DirectiveStmt) error {
	v, ok := c.resolve(stmt.Args[0], c.pc)
	if !ok {
		return newCompileError(stmt.Pos, ErrorValue, ".org requires a resolvable address")
	}
	c.pc = v
	if !c.haveOrigin {
		c.startOrigin = v
		c.haveOrigin = true
	}
	return nil
}

func (c *Compiler) handleByteList(stmt *asm.DirectiveStmt) error {
	for _, arg := range stmt.Args {
		if s, isStr := arg.(*asm.StrExpr); isStr {
			if c.pass == 2 {
				for i := 0; i < len(s.Value); i++ {
					c.emit(s.Value[i])
				}
			}
			c.pc += int64(len(s.Value))
			continue
		}
		if c.pass == 2 {
			v, ok := c.resolve(arg, c.pc)
			if !ok {
				return newCompileError(stmt.Pos, ErrorResolve, "unresolved .byte value")
			}
			if c.warnTruncated && (v < 0 || v > 0xFF) {
				c.warnings = append(c.warnings, fmt.Sprintf("%s: .byte value %d truncated to %d", stmt.Pos, v, v&0xFF))
			}
			c.emit(byte(v & 0xFF))
		}
		c.pc++
	}
	return nil
}

func (c *Compiler) handleWordList(stmt *asm.DirectiveStmt) error {
	for _, arg := range stmt.Args {
		if _, isStr := arg.(*asm.StrExpr); isStr {
			return newCompileError(stmt.Pos, ErrorValue, "string not valid as a .word argument")
		}
		if c.pass == 2 {
			v, ok := c.resolve(arg, c.pc)
			if !ok {
				return newCompileError(stmt.Pos, ErrorResolve, "unresolved .word value")
			}
			c.emit(byte(v & 0xFF))
			c.emit(byte((v >> 8) & 0xFF))
		}
		c.pc += 2
	}
	return nil
}

func (c *Compiler) handleFill(stmt *asm.DirectiveStmt) error {
	if len(stmt.Args) < 1 {
		return newCompileError(stmt.Pos, ErrorValue, ".fill requires a count argument")
	}
	count, ok := c.resolve(stmt.Args[0], c.pc)
	if !ok || count < 0 {
		return newCompileError(stmt.Pos, ErrorValue, ".fill count must be a non-negative constant")
	}

	var value int64
	if len(stmt.Args) > 1 {
		v, ok := c.resolve(stmt.Args[1], c.pc)
		if !ok && c.pass == 2 {
			return newCompileError(stmt.Pos, ErrorResolve, "unresolved .fill value")
		}
		value = v
	}

	if c.pass == 2 {
		b := byte(value & 0xFF)
		for i := int64(0); i < count; i++ {
			c.emit(b)
		}
	}
	c.pc += count
	return nil
}

func (c *Compiler) handleAlign(stmt *asm.DirectiveStmt) error {
	if len(stmt.Args) != 1 {
		return newCompileError(stmt.Pos, ErrorValue, ".align requires exactly one argument")
	}
	n, ok := c.resolve(stmt.Args[0], c.pc)
	if !ok || n <= 0 {
		return newCompileError(stmt.Pos, ErrorValue, ".align requires a positive constant argument")
	}
	pad := (n - (c.pc % n)) % n
	if c.pass == 2 {
		for i := int64(0); i < pad; i++ {
			c.emit(0)
		}
	}
	c.pc += pad
	return nil
}

func (c *Compiler) handleCPU(stmt *asm.DirectiveStmt) error {
	s, ok := stmt.Args[0].(*asm.StrExpr)
	if !ok {
		return newCompileError(stmt.Pos, ErrorValue, ".cpu requires a quoted CPU name")
	}
	switch strings.ToLower(s.Value) {
	case "6502":
		c.table = opcodes6502
		c.cpuMode = "6502"
	case "65c02":
		c.table = opcodes65C02
		c.cpuMode = "65c02"
	default:
		return newCompileError(stmt.Pos, ErrorValue, "unknown CPU mode %q", s.Value)
	}
	return nil
}

func (c *Compiler) handleInstr(stmt *asm.InstrStmt) error {
	if c.pass == 1 {
		mode, size, err := c.computeSizeAndMode(stmt, c.pc)
		if err != nil {
			return err
		}
		c.instrModes = append(c.instrModes, mode)
		c.pc += int64(size)
		return nil
	}
	return c.emitInstr(stmt)
}

// computeSizeAndMode performs the branch remap and zero-page demotion
// decision once, in pass 1, and validates the result against the active
// opcode table. Pass 2 replays the cached mode rather than recomputing
// it, so a symbol that only resolves concretely in pass 2 can never
// flip a size that pass 1 already committed to.
func (c *Compiler) computeSizeAndMode(stmt *asm.InstrStmt, atPC int64) (asm.AddrMode, int, error) {
	if !c.table.Supports(stmt.Mnemonic) {
		return 0, 0, newCompileError(stmt.Pos, ErrorEncoding, "unknown mnemonic %q in %s mode", stmt.Mnemonic, c.cpuMode)
	}

	mode := stmt.Mode
	modes := c.table[stmt.Mnemonic]

	if mode == asm.ModeAbsolute {
		_, hasAbs := modes[asm.ModeAbsolute]
		_, hasRel := modes[asm.ModeRelative]
		if hasRel && !hasAbs {
			mode = asm.ModeRelative
		}
	}

	if mode == asm.ModeAbsolute || mode == asm.ModeAbsoluteX || mode == asm.ModeAbsoluteY {
		if zp, ok := zeroPageEquivalent(mode); ok {
			if _, hasZP := modes[zp]; hasZP {
				if v, ok := c.resolve(stmt.Operand, atPC); ok && v >= 0 && v < 256 {
					mode = zp
				}
			}
		}
	}

	if _, ok := modes[mode]; !ok {
		return 0, 0, newCompileError(stmt.Pos, ErrorEncoding, "%s does not support %s addressing in %s mode", stmt.Mnemonic, mode, c.cpuMode)
	}

	return mode, sizeForMode(stmt.Mnemonic, mode), nil
}

func zeroPageEquivalent(mode asm.AddrMode) (asm.AddrMode, bool) {
	switch mode {
	case asm.ModeAbsolute:
		return asm.ModeZeroPage, true
	case asm.ModeAbsoluteX:
		return asm.ModeZeroPageX, true
	case asm.ModeAbsoluteY:
		return asm.ModeZeroPageY, true
	default:
		return 0, false
	}
}

// sizeForMode is a pure function of (mnemonic, mode): given the mode
// pass 1 already committed to, it returns the same instruction size in
// both passes without touching the symbol table.
func sizeForMode(mnemonic string, mode asm.AddrMode) int {
	switch mode {
	case asm.ModeImplied, asm.ModeAccumulator:
		return 1
	case asm.ModeImmediate, asm.ModeRelative,
		asm.ModeZeroPage, asm.ModeZeroPageX, asm.ModeZeroPageY,
		asm.ModeIndirectIndexed:
		return 2
	case asm.ModeAbsolute, asm.ModeAbsoluteX, asm.ModeAbsoluteY:
		return 3
	case asm.ModeIndirect, asm.ModeIndexedIndirect:
		if mnemonic == "JMP" {
			return 3
		}
		return 2
	default:
		return 1
	}
}

func (c *Compiler) emitInstr(stmt *asm.InstrStmt) error {
	instrPC := c.pc
	mode := c.instrModes[c.instrCursor]
	c.instrCursor++

	opcode, ok := c.table.Lookup(stmt.Mnemonic, mode)
	if !ok {
		return newCompileError(stmt.Pos, ErrorEncoding, "%s does not support %s addressing in %s mode", stmt.Mnemonic, mode, c.cpuMode)
	}
	c.emit(opcode)

	size := sizeForMode(stmt.Mnemonic, mode)

	switch mode {
	case asm.ModeImplied, asm.ModeAccumulator:
		// no operand bytes

	case asm.ModeImmediate, asm.ModeZeroPage, asm.ModeZeroPageX, asm.ModeZeroPageY, asm.ModeIndirectIndexed:
		v, ok := c.resolve(stmt.Operand, instrPC)
		if !ok {
			return newCompileError(stmt.Pos, ErrorResolve, "unresolved operand for %s", stmt.Mnemonic)
		}
		c.emit(byte(v & 0xFF))

	case asm.ModeRelative:
		v, ok := c.resolve(stmt.Operand, instrPC)
		if !ok {
			return newCompileError(stmt.Pos, ErrorResolve, "unresolved branch target for %s", stmt.Mnemonic)
		}
		offset := v - (instrPC + 2)
		if offset < -128 || offset > 127 {
			return newCompileError(stmt.Pos, ErrorRange, "branch out of range (%d)", offset)
		}
		c.emit(byte(int8(offset)))

	case asm.ModeAbsolute, asm.ModeAbsoluteX, asm.ModeAbsoluteY:
		v, ok := c.resolve(stmt.Operand, instrPC)
		if !ok {
			return newCompileError(stmt.Pos, ErrorResolve, "unresolved operand for %s", stmt.Mnemonic)
		}
		c.emit(byte(v & 0xFF))
		c.emit(byte((v >> 8) & 0xFF))

	case asm.ModeIndirect, asm.ModeIndexedIndirect:
		v, ok := c.resolve(stmt.Operand, instrPC)
		if !ok {
			return newCompileError(stmt.Pos, ErrorResolve, "unresolved operand for %s", stmt.Mnemonic)
		}
		c.emit(byte(v & 0xFF))
		if size == 3 {
			c.emit(byte((v >> 8) & 0xFF))
		}
	}

	c.pc += int64(size)
	return nil
}
