package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eightbitforge/asm65/asm"
)

// ReferenceType indicates how a symbol is used at a particular source line.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota // symbol defined here (label or assignment)
	RefBranch                          // branch/jump target
	RefCall                            // JSR target
	RefRead                            // load/compare/test source operand
	RefWrite                           // store destination operand
	RefData                            // .byte/.word/.fill argument, or operand of any other instruction
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefCall:
		return "call"
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	case RefData:
		return "data"
	default:
		return "unknown"
	}
}

var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BMI": true, "BNE": true,
	"BPL": true, "BVC": true, "BVS": true, "BRA": true,
}

var readMnemonics = map[string]bool{
	"LDA": true, "LDX": true, "LDY": true, "AND": true, "ORA": true,
	"EOR": true, "ADC": true, "SBC": true, "CMP": true, "CPX": true,
	"CPY": true, "BIT": true,
}

var writeMnemonics = map[string]bool{
	"STA": true, "STX": true, "STY": true, "STZ": true,
}

// Reference is a single use or definition of a symbol.
type Reference struct {
	Type ReferenceType
	Line int
	File string
}

// Symbol collects every definition and reference for one name.
type Symbol struct {
	Name       string
	Definition *Reference
	References []*Reference
	Value      int64
	HasValue   bool
	IsLocal    bool
}

// XRefGenerator walks a parsed program building a symbol cross-reference.
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator creates an empty generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate parses src and returns the symbol table it cross-references.
func (x *XRefGenerator) Generate(src, filename string) (map[string]*Symbol, error) {
	prog, err := asm.ParseSource(src, filename)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	x.walk(prog.Statements)
	return x.symbols, nil
}

func (x *XRefGenerator) symbolFor(name string) *Symbol {
	sym, ok := x.symbols[name]
	if !ok {
		sym = &Symbol{Name: name, IsLocal: isAllDigits(name)}
		x.symbols[name] = sym
	}
	return sym
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (x *XRefGenerator) walk(stmts []asm.Statement) {
	for _, stmt := range stmts {
		x.walkOne(stmt)
	}
}

func (x *XRefGenerator) walkOne(stmt asm.Statement) {
	switch s := stmt.(type) {
	case *asm.LabelStmt:
		if s.IsLocal {
			return
		}
		sym := x.symbolFor(s.Name)
		sym.Definition = &Reference{Type: RefDefinition, Line: s.Pos.Line, File: s.Pos.File}

	case *asm.AssignStmt:
		sym := x.symbolFor(s.Name)
		sym.Definition = &Reference{Type: RefDefinition, Line: s.Pos.Line, File: s.Pos.File}
		if v, ok := s.Expr.(*asm.IntExpr); ok {
			sym.Value = v.Value
			sym.HasValue = true
		}

	case *asm.EnumStmt:
		for i, member := range s.Members {
			name := member
			if s.Name != "" {
				name = s.Name + "." + member
			}
			sym := x.symbolFor(name)
			sym.Definition = &Reference{Type: RefDefinition, Line: s.Pos.Line, File: s.Pos.File}
			sym.Value = int64(i)
			sym.HasValue = true
		}

	case *asm.DirectiveStmt:
		if s.Name == ".byte" || s.Name == ".word" || s.Name == ".fill" {
			for _, arg := range s.Args {
				x.addExprReferences(arg, RefData, s.Pos)
			}
		}

	case *asm.InstrStmt:
		if s.Operand == nil {
			return
		}
		refType := RefData
		switch {
		case branchMnemonics[s.Mnemonic] || s.Mnemonic == "JMP":
			refType = RefBranch
		case s.Mnemonic == "JSR":
			refType = RefCall
		case readMnemonics[s.Mnemonic]:
			refType = RefRead
		case writeMnemonics[s.Mnemonic]:
			refType = RefWrite
		}
		x.addExprReferences(s.Operand, refType, s.Pos)

	case *asm.CondStmt:
		x.walk(s.Then)
		x.walk(s.Else)
	}
}

func (x *XRefGenerator) addExprReferences(e asm.Expr, refType ReferenceType, pos asm.Position) {
	switch v := e.(type) {
	case *asm.UnresolvedExpr:
		if v.Flavor == asm.FlavorLocalRel {
			return
		}
		sym := x.symbolFor(v.Name)
		sym.References = append(sym.References, &Reference{Type: refType, Line: pos.Line, File: pos.File})
	case *asm.BinaryExpr:
		x.addExprReferences(v.LHS, refType, pos)
		x.addExprReferences(v.RHS, refType, pos)
	}
}

// GetSymbols returns every symbol the generator has seen so far.
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetUndefinedSymbols returns symbols that are referenced but never defined.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	var undefined []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition == nil && len(sym.References) > 0 {
			undefined = append(undefined, sym)
		}
	}
	sortByName(undefined)
	return undefined
}

// GetUnusedSymbols returns symbols that are defined but never referenced.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition != nil && len(sym.References) == 0 {
			unused = append(unused, sym)
		}
	}
	sortByName(unused)
	return unused
}

func sortByName(syms []*Symbol) {
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name < syms[j].Name })
}

// XRefReport renders a symbol cross-reference as plain text.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport builds a report over symbols, sorted by name.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sortByName(sorted)
	return &XRefReport{symbols: sorted}
}

// String renders the report.
func (r *XRefReport) String() string {
	var sb strings.Builder

	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-24s", sym.Name))
		if sym.HasValue {
			sb.WriteString(fmt.Sprintf(" [= $%04X]", uint64(sym.Value)&0xFFFF))
		}
		sb.WriteString("\n")

		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  Defined:    line %d\n", sym.Definition.Line))
		} else {
			sb.WriteString("  Defined:    (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced: (never)\n")
		} else {
			byType := make(map[ReferenceType][]int)
			for _, ref := range sym.References {
				byType[ref.Type] = append(byType[ref.Type], ref.Line)
			}
			sb.WriteString(fmt.Sprintf("  Referenced: %d time(s)\n", len(sym.References)))
			for _, t := range []ReferenceType{RefCall, RefBranch, RefRead, RefWrite, RefData} {
				lines := byType[t]
				if len(lines) == 0 {
					continue
				}
				parts := make([]string, len(lines))
				for i, l := range lines {
					parts[i] = fmt.Sprintf("%d", l)
				}
				sb.WriteString(fmt.Sprintf("    %-10s: line(s) %s\n", t, strings.Join(parts, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	defined, unused := 0, 0
	for _, sym := range r.symbols {
		if sym.Definition != nil {
			defined++
		}
		if sym.Definition != nil && len(sym.References) == 0 {
			unused++
		}
	}
	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols: %d\n", len(r.symbols)))
	sb.WriteString(fmt.Sprintf("Defined:       %d\n", defined))
	sb.WriteString(fmt.Sprintf("Undefined:     %d\n", len(r.symbols)-defined))
	sb.WriteString(fmt.Sprintf("Unused:        %d\n", unused))

	return sb.String()
}

// GenerateXRef is a convenience wrapper that parses src and renders a
// cross-reference report in one call.
func GenerateXRef(src, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(src, filename)
	if err != nil {
		return "", err
	}
	return NewXRefReport(symbols).String(), nil
}
