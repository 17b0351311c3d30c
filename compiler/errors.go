package compiler

import (
	"fmt"

	"github.com/eightbitforge/asm65/asm"
)

// ErrorKind categorizes a compile-time failure.
type ErrorKind int

const (
	ErrorResolve  ErrorKind = iota // undefined symbol / out-of-range local label in pass 2
	ErrorRange                     // branch offset outside [-128, 127]
	ErrorEncoding                  // unsupported addressing mode / unknown mnemonic
	ErrorValue                     // bad directive argument, e.g. non-positive .align
)

// CompileError carries the source position of the statement that
// failed, alongside a message describing why.
type CompileError struct {
	Pos     asm.Position
	Kind    ErrorKind
	Message string
}

func newCompileError(pos asm.Position, kind ErrorKind, format string, args ...interface{}) *CompileError {
	return &CompileError{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface, rendering "FILE:LINE: MESSAGE"
// to match the tokenizer/parser's own error format.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
