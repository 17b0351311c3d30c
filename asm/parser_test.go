package asm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := ParseSource(src, "")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseLabelAndInstruction(t *testing.T) {
	prog := mustParse(t, "start:\nLDA #$01\n")
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	label, ok := prog.Statements[0].(*LabelStmt)
	if !ok || label.Name != "start" || label.IsLocal {
		t.Fatalf("expected label 'start', got %#v", prog.Statements[0])
	}
	instr, ok := prog.Statements[1].(*InstrStmt)
	if !ok || instr.Mnemonic != "LDA" || instr.Mode != ModeImmediate {
		t.Fatalf("expected immediate LDA, got %#v", prog.Statements[1])
	}
}

func TestParseLowercaseMnemonicUppercased(t *testing.T) {
	prog := mustParse(t, "lda #1\n")
	instr := prog.Statements[0].(*InstrStmt)
	if instr.Mnemonic != "LDA" {
		t.Fatalf("expected mnemonic uppercased to LDA, got %q", instr.Mnemonic)
	}
}

func TestParseAssignment(t *testing.T) {
	prog := mustParse(t, "FOO = $10 + 2\n")
	a, ok := prog.Statements[0].(*AssignStmt)
	if !ok || a.Name != "FOO" {
		t.Fatalf("expected assignment FOO, got %#v", prog.Statements[0])
	}
	i, ok := a.Expr.(*IntExpr)
	if !ok || i.Value != 0x12 {
		t.Fatalf("expected folded constant 0x12, got %#v", a.Expr)
	}
}

func TestParseLocalLabel(t *testing.T) {
	prog := mustParse(t, "1:\nNOP\n")
	label, ok := prog.Statements[0].(*LabelStmt)
	if !ok || !label.IsLocal || label.Name != "1" {
		t.Fatalf("expected local label '1', got %#v", prog.Statements[0])
	}
}

func TestParseAccumulatorMode(t *testing.T) {
	prog := mustParse(t, "ASL A\n")
	instr := prog.Statements[0].(*InstrStmt)
	if instr.Mode != ModeAccumulator {
		t.Fatalf("expected Accumulator mode, got %s", instr.Mode)
	}
}

func TestParseBareAIsNotAccumulatorWhenFollowedByMore(t *testing.T) {
	// "A" here is an ordinary (if unusual) label reference operand, not
	// Accumulator mode, because it is not immediately followed by EOL.
	prog := mustParse(t, "LDA A,X\n")
	instr := prog.Statements[0].(*InstrStmt)
	if instr.Mode != ModeAbsoluteX {
		t.Fatalf("expected AbsoluteX mode, got %s", instr.Mode)
	}
}

func TestParseIndirectModes(t *testing.T) {
	cases := []struct {
		src  string
		mode AddrMode
	}{
		{"LDA ($10,X)\n", ModeIndexedIndirect},
		{"LDA ($10),Y\n", ModeIndirectIndexed},
		{"JMP ($1000)\n", ModeIndirect},
	}
	for _, c := range cases {
		prog := mustParse(t, c.src)
		instr := prog.Statements[0].(*InstrStmt)
		if instr.Mode != c.mode {
			t.Errorf("%q: expected mode %s, got %s", c.src, c.mode, instr.Mode)
		}
	}
}

func TestParseLowHighByte(t *testing.T) {
	prog := mustParse(t, ".byte <target\n.byte >target\n")
	lo := prog.Statements[0].(*DirectiveStmt).Args[0].(*UnresolvedExpr)
	if lo.Flavor != FlavorLowByte || lo.Name != "target" {
		t.Fatalf("expected low byte of target, got %#v", lo)
	}
	hi := prog.Statements[1].(*DirectiveStmt).Args[0].(*UnresolvedExpr)
	if hi.Flavor != FlavorHighByte || hi.Name != "target" {
		t.Fatalf("expected high byte of target, got %#v", hi)
	}
}

func TestParseEnumNamed(t *testing.T) {
	prog := mustParse(t, ".enum Color\nRed\nGreen\nBlue\n.end\n")
	e, ok := prog.Statements[0].(*EnumStmt)
	if !ok || e.Name != "Color" || len(e.Members) != 3 {
		t.Fatalf("expected named enum Color with 3 members, got %#v", prog.Statements[0])
	}
}

func TestParseEnumUnnamed(t *testing.T) {
	prog := mustParse(t, ".enum\nA\nB\n.end\n")
	e, ok := prog.Statements[0].(*EnumStmt)
	if !ok || e.Name != "" || len(e.Members) != 2 {
		t.Fatalf("expected unnamed enum with 2 members, got %#v", prog.Statements[0])
	}
}

func TestParseIfdefElse(t *testing.T) {
	prog := mustParse(t, ".ifdef FOO\nNOP\n.else\nRTS\n.endif\n")
	c, ok := prog.Statements[0].(*CondStmt)
	if !ok || c.Symbol != "FOO" || len(c.Then) != 1 || len(c.Else) != 1 {
		t.Fatalf("expected conditional with then/else, got %#v", prog.Statements[0])
	}
}

func TestParseRejectsUnsupportedOperator(t *testing.T) {
	_, err := ParseSource("FOO = 1 * 2\n", "")
	if err == nil {
		t.Fatal("expected parse error for '*' in expression")
	}
}

func TestParseCyclicIncludeDetected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.s")
	b := filepath.Join(dir, "b.s")
	if err := os.WriteFile(a, []byte(".include \"b.s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(".include \"a.s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(a)
	if err == nil {
		t.Fatal("expected cyclic include error")
	}
}

func TestParseIncludeSplicesTokens(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "inc.s")
	main := filepath.Join(dir, "main.s")
	require.NoError(t, os.WriteFile(inc, []byte("RTS\n"), 0o644))
	require.NoError(t, os.WriteFile(main, []byte("NOP\n.include \"inc.s\"\n"), 0o644))

	prog, err := ParseFile(main)
	require.NoError(t, err, "ParseFile must resolve \"inc.s\" against main.s's own directory, not the process cwd")
	require.Len(t, prog.Statements, 2, "expected 2 statements after splicing")
	require.Equal(t, "RTS", prog.Statements[1].(*InstrStmt).Mnemonic)
}

func TestParseIncludeFallsBackToIncludeDirs(t *testing.T) {
	srcDir := t.TempDir()
	libDir := t.TempDir()
	main := filepath.Join(srcDir, "main.s")
	inc := filepath.Join(libDir, "lib.s")
	require.NoError(t, os.WriteFile(inc, []byte("RTS\n"), 0o644))
	require.NoError(t, os.WriteFile(main, []byte("NOP\n.include \"lib.s\"\n"), 0o644))

	prog, err := ParseFileWithIncludeDirs(main, []string{libDir})
	require.NoError(t, err, "lib.s isn't next to main.s, so it must be found via includeDirs")
	require.Len(t, prog.Statements, 2)
	require.Equal(t, "RTS", prog.Statements[1].(*InstrStmt).Mnemonic)
}
