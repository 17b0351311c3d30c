package tools

import (
	"fmt"
	"strings"

	"github.com/eightbitforge/asm65/asm"
)

// FormatOptions controls column layout for Format.
type FormatOptions struct {
	InstructionColumn int // column mnemonics start at
	OperandColumn     int // operand start, counted from InstructionColumn
}

// DefaultFormatOptions matches the column layout convention used
// throughout the example programs this tool was built against.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{InstructionColumn: 8, OperandColumn: 16}
}

// Formatter re-serializes a parsed program to normalized source text:
// consistent mnemonic case, consistent hex literal style, and aligned
// columns. It is a developer-ergonomics tool, not a listing generator —
// it never reports addresses or emitted bytes, only re-rendered source.
type Formatter struct {
	opts *FormatOptions
}

// NewFormatter creates a Formatter. A nil opts uses DefaultFormatOptions.
func NewFormatter(opts *FormatOptions) *Formatter {
	if opts == nil {
		opts = DefaultFormatOptions()
	}
	return &Formatter{opts: opts}
}

// Format parses src and returns its normalized rendering.
func (f *Formatter) Format(src, filename string) (string, error) {
	prog, err := asm.ParseSource(src, filename)
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}

	var sb strings.Builder
	f.formatStatements(&sb, prog.Statements, 0)
	return sb.String(), nil
}

func (f *Formatter) formatStatements(sb *strings.Builder, stmts []asm.Statement, indent int) {
	for _, stmt := range stmts {
		f.formatOne(sb, stmt, indent)
	}
}

func (f *Formatter) formatOne(sb *strings.Builder, stmt asm.Statement, indent int) {
	pad := strings.Repeat("  ", indent)

	switch s := stmt.(type) {
	case *asm.LabelStmt:
		sb.WriteString(pad)
		sb.WriteString(s.Name)
		sb.WriteString(":\n")

	case *asm.AssignStmt:
		sb.WriteString(pad)
		fmt.Fprintf(sb, "%s = %s\n", s.Name, exprString(s.Expr))

	case *asm.InstrStmt:
		f.writeColumns(sb, pad, "", s.Mnemonic, operandString(s.Mode, s.Operand))

	case *asm.DirectiveStmt:
		args := make([]string, len(s.Args))
		for i, a := range s.Args {
			args[i] = exprString(a)
		}
		f.writeColumns(sb, pad, "", s.Name, strings.Join(args, ", "))

	case *asm.EnumStmt:
		sb.WriteString(pad)
		if s.Name != "" {
			fmt.Fprintf(sb, ".enum %s\n", s.Name)
		} else {
			sb.WriteString(".enum\n")
		}
		for _, m := range s.Members {
			fmt.Fprintf(sb, "%s  %s\n", pad, m)
		}
		sb.WriteString(pad)
		sb.WriteString(".end\n")

	case *asm.CondStmt:
		sb.WriteString(pad)
		fmt.Fprintf(sb, ".ifdef %s\n", s.Symbol)
		f.formatStatements(sb, s.Then, indent+1)
		if len(s.Else) > 0 {
			sb.WriteString(pad)
			sb.WriteString(".else\n")
			f.formatStatements(sb, s.Else, indent+1)
		}
		sb.WriteString(pad)
		sb.WriteString(".endif\n")
	}
}

func (f *Formatter) writeColumns(sb *strings.Builder, pad, label, mnemonic, operand string) {
	line := pad + label
	for len(line) < f.opts.InstructionColumn {
		line += " "
	}
	line += mnemonic
	if operand != "" {
		for len(line) < f.opts.InstructionColumn+f.opts.OperandColumn {
			line += " "
		}
		line += operand
	}
	sb.WriteString(line)
	sb.WriteString("\n")
}

func exprString(e asm.Expr) string {
	switch v := e.(type) {
	case *asm.IntExpr:
		if v.Value >= 0 && v.Value < 0x100 {
			return fmt.Sprintf("$%02X", v.Value)
		}
		return fmt.Sprintf("$%04X", v.Value)
	case *asm.StrExpr:
		return fmt.Sprintf("%q", v.Value)
	case *asm.UnresolvedExpr:
		switch v.Flavor {
		case asm.FlavorLowByte:
			return "<" + v.Name
		case asm.FlavorHighByte:
			return ">" + v.Name
		case asm.FlavorLocalRel:
			return v.Name + string(v.Dir)
		default:
			return v.Name
		}
	case *asm.BinaryExpr:
		return exprString(v.LHS) + string(v.Op) + exprString(v.RHS)
	default:
		return ""
	}
}

func operandString(mode asm.AddrMode, operand asm.Expr) string {
	switch mode {
	case asm.ModeImplied:
		return ""
	case asm.ModeAccumulator:
		return "A"
	case asm.ModeImmediate:
		return "#" + exprString(operand)
	case asm.ModeAbsoluteX, asm.ModeZeroPageX:
		return exprString(operand) + ",X"
	case asm.ModeAbsoluteY, asm.ModeZeroPageY:
		return exprString(operand) + ",Y"
	case asm.ModeIndirect:
		return "(" + exprString(operand) + ")"
	case asm.ModeIndexedIndirect:
		return "(" + exprString(operand) + ",X)"
	case asm.ModeIndirectIndexed:
		return "(" + exprString(operand) + "),Y"
	default:
		return exprString(operand)
	}
}
