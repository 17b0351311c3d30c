package asm

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenEOL TokenType = iota // end of line
	TokenEOF                  // end of the logical token stream
	TokenIdentifier
	TokenDirective
	TokenNumber
	TokenString
	TokenOperator
	TokenLocalLabelRef // e.g. "1f", "2b"
	TokenUnknown
)

var tokenTypeNames = map[TokenType]string{
	TokenEOL:           "EOL",
	TokenEOF:           "EOF",
	TokenIdentifier:    "IDENTIFIER",
	TokenDirective:     "DIRECTIVE",
	TokenNumber:        "NUMBER",
	TokenString:        "STRING",
	TokenOperator:      "OPERATOR",
	TokenLocalLabelRef: "LOCALLABEL",
	TokenUnknown:       "UNKNOWN",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token is a single lexical unit produced by the Tokenizer.
//
// Value holds the parsed payload: an int64 for Number, a string for
// String (contents without quotes) and LocalLabelRef (the direction
// suffix, "f" or "b"), or nil for everything else.
type Token struct {
	Type    TokenType
	Lexeme  string
	Value   interface{}
	Line    int
	File    string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s:%d", t.Type, t.Lexeme, t.File, t.Line)
}

// IntValue returns the Number token's parsed integer, or 0 if not a Number.
func (t Token) IntValue() int64 {
	if v, ok := t.Value.(int64); ok {
		return v
	}
	return 0
}

// StrValue returns the String token's content, or "" if not a String.
func (t Token) StrValue() string {
	if v, ok := t.Value.(string); ok {
		return v
	}
	return ""
}
