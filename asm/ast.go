package asm

// Program is an ordered sequence of statements produced by the Parser.
type Program struct {
	Statements []Statement
}

// Statement is implemented by every statement-tree node.
type Statement interface {
	statementPos() Position
}

// LabelStmt declares a symbol (or, if Name is purely decimal, a local
// label) at the current PC.
type LabelStmt struct {
	Name    string
	IsLocal bool
	Pos     Position
}

func (s *LabelStmt) statementPos() Position { return s.Pos }

// AssignStmt binds Name to the value of Expr ("NAME = expr").
type AssignStmt struct {
	Name string
	Expr Expr
	Pos  Position
}

func (s *AssignStmt) statementPos() Position { return s.Pos }

// DirectiveStmt is a directive name plus its argument expressions.
type DirectiveStmt struct {
	Name string
	Args []Expr
	Pos  Position
}

func (s *DirectiveStmt) statementPos() Position { return s.Pos }

// AddrMode identifies the addressing mode of an instruction operand.
type AddrMode int

const (
	ModeImplied AddrMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndexedIndirect // (zp,X)
	ModeIndirectIndexed // (zp),Y
	ModeRelative
)

func (m AddrMode) String() string {
	names := [...]string{
		"Implied", "Accumulator", "Immediate", "ZeroPage", "ZeroPageX",
		"ZeroPageY", "Absolute", "AbsoluteX", "AbsoluteY", "Indirect",
		"IndexedIndirect", "IndirectIndexed", "Relative",
	}
	if int(m) < len(names) {
		return names[m]
	}
	return "Unknown"
}

// InstrStmt is a mnemonic, its addressing mode, and optional operand.
type InstrStmt struct {
	Mnemonic string
	Mode     AddrMode
	Operand  Expr // nil for Implied/Accumulator
	Pos      Position
}

func (s *InstrStmt) statementPos() Position { return s.Pos }

// EnumStmt allocates sequential integers to Members, bound as
// "Name.Member" when named or unscoped "Member" when Name == "".
type EnumStmt struct {
	Name    string
	Members []string
	Pos     Position
}

func (s *EnumStmt) statementPos() Position { return s.Pos }

// CondStmt is an ".ifdef SYMBOL ... .else ... .endif" conditional block.
type CondStmt struct {
	Symbol   string
	Then     []Statement
	Else     []Statement
	Pos      Position
}

func (s *CondStmt) statementPos() Position { return s.Pos }

// RefFlavor distinguishes what value an Unresolved reference folds to.
type RefFlavor int

const (
	FlavorAddress RefFlavor = iota // full 16-bit value
	FlavorLowByte
	FlavorHighByte
	FlavorLocalRel
)

// Expr is implemented by every expression-tree node.
type Expr interface {
	exprNode()
}

// IntExpr is a concrete integer literal.
type IntExpr struct {
	Value int64
}

func (*IntExpr) exprNode() {}

// StrExpr is a string literal.
type StrExpr struct {
	Value string
}

func (*StrExpr) exprNode() {}

// UnresolvedExpr references a symbol whose value is not known at parse
// time (or, for FlavorLocalRel, a local label direction reference).
type UnresolvedExpr struct {
	Name   string // for FlavorLocalRel, the decimal label name only
	Flavor RefFlavor
	Dir    byte // 'f' or 'b', only meaningful for FlavorLocalRel
}

func (*UnresolvedExpr) exprNode() {}

// BinaryExpr is a left-associative "+" or "-" node retained because at
// least one side could not be folded to a concrete integer at parse time.
type BinaryExpr struct {
	Op  byte // '+' or '-'
	LHS Expr
	RHS Expr
}

func (*BinaryExpr) exprNode() {}
