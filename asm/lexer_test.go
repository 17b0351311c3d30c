package asm

import "testing"

func TestTokenizerBasicInstruction(t *testing.T) {
	tz := NewTokenizer("LDA #$01\n", "test.s")

	tok := tz.Next()
	if tok.Type != TokenIdentifier || tok.Lexeme != "LDA" {
		t.Fatalf("expected identifier LDA, got %v", tok)
	}

	tok = tz.Next()
	if tok.Type != TokenOperator || tok.Lexeme != "#" {
		t.Fatalf("expected '#' operator, got %v", tok)
	}

	tok = tz.Next()
	if tok.Type != TokenNumber || tok.IntValue() != 1 {
		t.Fatalf("expected number 1, got %v", tok)
	}

	tok = tz.Next()
	if tok.Type != TokenEOL {
		t.Fatalf("expected EOL, got %v", tok)
	}

	tok = tz.Next()
	if tok.Type != TokenEOF {
		t.Fatalf("expected EOF, got %v", tok)
	}
}

func TestTokenizerNumberForms(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"$1F", 0x1F},
		{"0x1F", 0x1F},
		{"%1010", 0b1010},
		{"0b1010", 0b1010},
		{"42", 42},
		{"'A'", 65},
	}
	for _, c := range cases {
		tz := NewTokenizer(c.src, "t")
		tok := tz.Next()
		if tok.Type != TokenNumber {
			t.Errorf("%q: expected Number, got %v", c.src, tok.Type)
			continue
		}
		if tok.IntValue() != c.want {
			t.Errorf("%q: expected %d, got %d", c.src, c.want, tok.IntValue())
		}
	}
}

func TestTokenizerLocalLabelRef(t *testing.T) {
	tz := NewTokenizer("1f 2b", "t")

	tok := tz.Next()
	if tok.Type != TokenLocalLabelRef || tok.Lexeme != "1f" {
		t.Fatalf("expected local label ref 1f, got %v", tok)
	}

	tok = tz.Next()
	if tok.Type != TokenLocalLabelRef || tok.Lexeme != "2b" {
		t.Fatalf("expected local label ref 2b, got %v", tok)
	}
}

func TestTokenizerCommentStopsBeforeNewline(t *testing.T) {
	tz := NewTokenizer("NOP ; a comment\nRTS", "t")

	tok := tz.Next()
	if tok.Lexeme != "NOP" {
		t.Fatalf("expected NOP, got %v", tok)
	}
	tok = tz.Next()
	if tok.Type != TokenEOL {
		t.Fatalf("expected EOL after comment, got %v", tok)
	}
	tok = tz.Next()
	if tok.Lexeme != "RTS" {
		t.Fatalf("expected RTS, got %v", tok)
	}
}

func TestTokenizerString(t *testing.T) {
	tz := NewTokenizer(`"hello"`, "t")
	tok := tz.Next()
	if tok.Type != TokenString || tok.StrValue() != "hello" {
		t.Fatalf("expected string hello, got %v", tok)
	}
}

func TestTokenizerDirective(t *testing.T) {
	tz := NewTokenizer(".org $1000", "t")
	tok := tz.Next()
	if tok.Type != TokenDirective || tok.Lexeme != ".org" {
		t.Fatalf("expected directive .org, got %v", tok)
	}
}

func TestTokenizerOperatorCharset(t *testing.T) {
	tz := NewTokenizer("#=<>(),@:+-*/", "t")
	want := []string{"#", "=", "<", ">", "(", ")", ",", "@", ":", "+", "-", "*", "/"}
	for _, w := range want {
		tok := tz.Next()
		if tok.Type != TokenOperator || tok.Lexeme != w {
			t.Fatalf("expected operator %q, got %v", w, tok)
		}
	}
}

func TestTokenizerUnknownByte(t *testing.T) {
	tz := NewTokenizer("~", "t")
	tok := tz.Next()
	if tok.Type != TokenUnknown {
		t.Fatalf("expected Unknown token, got %v", tok)
	}
}

func TestTokenizerLineTracking(t *testing.T) {
	tz := NewTokenizer("NOP\nNOP\nNOP", "t")
	var lastLine int
	for {
		tok := tz.Next()
		if tok.Type == TokenEOF {
			break
		}
		if tok.Type == TokenIdentifier {
			lastLine = tok.Line
		}
	}
	if lastLine != 3 {
		t.Fatalf("expected last identifier on line 3, got %d", lastLine)
	}
}
