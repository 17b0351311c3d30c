package tools

import (
	"strings"
	"testing"
)

func TestXRefDefinitionAndReferences(t *testing.T) {
	source := "start:\n  lda #$01\n  sta result\n  jmp start\nresult:\n  .byte $00\n"

	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start, ok := symbols["start"]
	if !ok {
		t.Fatal("expected symbol start to be recorded")
	}
	if start.Definition == nil {
		t.Error("expected start to have a definition")
	}
	if len(start.References) != 1 || start.References[0].Type != RefBranch {
		t.Errorf("expected one branch reference to start, got %v", start.References)
	}

	result, ok := symbols["result"]
	if !ok {
		t.Fatal("expected symbol result to be recorded")
	}
	if len(result.References) != 1 || result.References[0].Type != RefWrite {
		t.Errorf("expected one write reference to result, got %v", result.References)
	}
}

func TestXRefUndefinedSymbols(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate("jmp missing\n", "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	undefined := gen.GetUndefinedSymbols()
	if len(undefined) != 1 || undefined[0].Name != "missing" {
		t.Errorf("expected missing to be undefined, got %v", undefined)
	}
}

func TestXRefUnusedSymbols(t *testing.T) {
	gen := NewXRefGenerator()
	_, err := gen.Generate("dead:\n  rts\n", "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unused := gen.GetUnusedSymbols()
	if len(unused) != 1 || unused[0].Name != "dead" {
		t.Errorf("expected dead to be unused, got %v", unused)
	}
}

func TestXRefEnumScoping(t *testing.T) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(".enum Colors\nRed\nGreen\n.end\n", "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	red, ok := symbols["Colors.Red"]
	if !ok {
		t.Fatal("expected namespaced symbol Colors.Red")
	}
	if !red.HasValue || red.Value != 0 {
		t.Errorf("expected Colors.Red = 0, got %+v", red)
	}
	green := symbols["Colors.Green"]
	if !green.HasValue || green.Value != 1 {
		t.Errorf("expected Colors.Green = 1, got %+v", green)
	}
}

func TestXRefCondWalksBothBranches(t *testing.T) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(".ifdef DEBUG\n  jmp dbg\n.else\n  jmp prod\n.endif\ndbg:\n  nop\nprod:\n  nop\n", "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if symbols["dbg"] == nil || len(symbols["dbg"].References) != 1 {
		t.Error("expected dbg referenced from Then branch")
	}
	if symbols["prod"] == nil || len(symbols["prod"].References) != 1 {
		t.Error("expected prod referenced from Else branch")
	}
}

func TestXRefLocalLabelsSkipped(t *testing.T) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate("1:\n  nop\n  bne 1b\n", "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := symbols["1"]; ok {
		t.Error("local labels should not be recorded as ordinary symbols")
	}
}

func TestXRefReportRendersSummary(t *testing.T) {
	report, err := GenerateXRef("start:\n  jmp start\n", "t.asm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(report, "Symbol Cross-Reference") {
		t.Error("expected report header")
	}
	if !strings.Contains(report, "Total symbols: 1") {
		t.Errorf("expected total symbol count in summary, got %q", report)
	}
}
