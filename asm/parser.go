package asm

import (
	"fmt"
	"strings"
)

// Parser recognizes labels, assignments, directives, and instructions
// over the token stream produced by a stack of Tokenizers, splicing
// included files in transparently and folding constant expressions
// eagerly.
type Parser struct {
	tzStack     []*Tokenizer
	dirs        []string // base directory for relative includes, aligned with tzStack
	abs         []string // absolute path per entry, aligned with tzStack (for cycle checks)
	buf         []Token  // look-ahead buffer
	includeDirs []string // extra search directories tried after a source's own directory
}

// NewParser creates a Parser over src. filename is used for error
// messages, include-cycle detection, and resolving relative includes;
// it may be "" for anonymous/in-memory sources.
func NewParser(src, filename string) *Parser {
	return NewParserWithIncludeDirs(src, filename, nil)
}

// NewParserWithIncludeDirs is like NewParser, but an ".include" that
// doesn't resolve against the including file's own directory is also
// tried against each of includeDirs in order, the way a "-I" search
// path works in most assemblers.
func NewParserWithIncludeDirs(src, filename string, includeDirs []string) *Parser {
	return &Parser{
		tzStack:     []*Tokenizer{NewTokenizer(src, filename)},
		dirs:        []string{baseDirOf(filename)},
		abs:         []string{absPathOrEmpty(filename)},
		includeDirs: includeDirs,
	}
}

// Parse consumes the entire token stream and returns the statement tree.
// The first error encountered is fatal and terminates the run.
func (p *Parser) Parse() (*Program, error) {
	var stmts []Statement
	for {
		p.skipBlank()
		if p.peek().Type == TokenEOF {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return &Program{Statements: stmts}, nil
}

// --- token stream plumbing ---

func (p *Parser) readRaw() Token {
	for {
		top := p.tzStack[len(p.tzStack)-1]
		t := top.Next()
		if t.Type == TokenEOF && len(p.tzStack) > 1 {
			p.tzStack = p.tzStack[:len(p.tzStack)-1]
			p.dirs = p.dirs[:len(p.dirs)-1]
			p.abs = p.abs[:len(p.abs)-1]
			continue
		}
		return t
	}
}

func (p *Parser) fill(n int) {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.readRaw())
	}
}

// peek returns the next token without consuming it.
func (p *Parser) peek() Token {
	p.fill(0)
	return p.buf[0]
}

// peekAt returns the token n positions ahead (0 == peek()) without
// consuming anything. Used for the explicit two-token look-ahead the
// bare "A" accumulator operand needs (spec.md §9).
func (p *Parser) peekAt(n int) Token {
	p.fill(n)
	return p.buf[n]
}

func (p *Parser) next() Token {
	p.fill(0)
	t := p.buf[0]
	p.buf = p.buf[1:]
	return t
}

func (p *Parser) skipBlank() {
	for p.peek().Type == TokenEOL {
		p.next()
	}
}

// requireEOL consumes a trailing EndOfLine, or tolerates EndOfFile as an
// implicit end-of-line for the last statement of a source.
func (p *Parser) requireEOL() error {
	tok := p.peek()
	if tok.Type == TokenEOL {
		p.next()
		return nil
	}
	if tok.Type == TokenEOF {
		return nil
	}
	return p.errorf(tok, "expected end of line")
}

func (p *Parser) errorAt(tok Token, kind ErrorKind, msg string) error {
	return NewErrorWithLexeme(Position{File: tok.File, Line: tok.Line}, kind, msg, tok.Lexeme)
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return p.errorAt(tok, ErrorParse, fmt.Sprintf(format, args...))
}

// --- statement grammar ---

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.peek()

	switch tok.Type {
	case TokenDirective:
		p.next()
		return p.parseDirective(tok)

	case TokenIdentifier:
		p.next()
		return p.parseIdentifierStatement(tok)

	case TokenNumber:
		// A bare decimal number followed by ':' defines a local label;
		// the tokenizer emits plain Numbers (not Identifiers) for these
		// since digit runs lex as Number before Identifier is tried.
		if p.peek1IsColon() {
			p.next() // number
			p.next() // ':'
			return &LabelStmt{Name: tok.Lexeme, IsLocal: true, Pos: pos(tok)}, nil
		}
		return nil, p.errorf(tok, "unexpected token")

	default:
		return nil, p.errorf(tok, "unexpected token")
	}
}

func (p *Parser) peek1IsColon() bool {
	n := p.peekAt(1)
	return n.Type == TokenOperator && n.Lexeme == ":"
}

func pos(tok Token) Position {
	return Position{File: tok.File, Line: tok.Line}
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

func (p *Parser) parseIdentifierStatement(tok Token) (Statement, error) {
	if p.peek().Type == TokenOperator && p.peek().Lexeme == ":" {
		p.next()
		return &LabelStmt{Name: tok.Lexeme, IsLocal: isAllDigits(tok.Lexeme), Pos: pos(tok)}, nil
	}

	if p.peek().Type == TokenOperator && p.peek().Lexeme == "=" {
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
		return &AssignStmt{Name: tok.Lexeme, Expr: expr, Pos: pos(tok)}, nil
	}

	mnemonic := strings.ToUpper(tok.Lexeme)
	mode, operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if err := p.requireEOL(); err != nil {
		return nil, err
	}
	return &InstrStmt{Mnemonic: mnemonic, Mode: mode, Operand: operand, Pos: pos(tok)}, nil
}

// --- directives ---

func (p *Parser) parseDirective(tok Token) (Statement, error) {
	name := strings.ToLower(tok.Lexeme)

	switch name {
	case ".org":
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
		return &DirectiveStmt{Name: ".org", Args: []Expr{expr}, Pos: pos(tok)}, nil

	case ".byte", ".word", ".fill":
		args, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
		return &DirectiveStmt{Name: name, Args: args, Pos: pos(tok)}, nil

	case ".align":
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
		return &DirectiveStmt{Name: ".align", Args: []Expr{expr}, Pos: pos(tok)}, nil

	case ".cpu":
		t := p.next()
		if t.Type != TokenString {
			return nil, p.errorf(t, "expected quoted CPU name")
		}
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
		return &DirectiveStmt{Name: ".cpu", Args: []Expr{&StrExpr{Value: t.StrValue()}}, Pos: pos(tok)}, nil

	case ".include", ".inc":
		t := p.next()
		if t.Type != TokenString {
			return nil, p.errorf(t, "expected include filename string")
		}
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
		if err := p.pushInclude(t, t.StrValue()); err != nil {
			return nil, err
		}
		return nil, nil

	case ".ifdef":
		return p.parseIfdef(tok)

	case ".enum":
		return p.parseEnum(tok)

	case ".else", ".endif", ".end":
		return nil, p.errorf(tok, "%s outside matching block", tok.Lexeme)

	default:
		return nil, p.errorf(tok, "unknown directive")
	}
}

func (p *Parser) parseExprList() ([]Expr, error) {
	var list []Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.peek().Type == TokenOperator && p.peek().Lexeme == "," {
			p.next()
			continue
		}
		break
	}
	return list, nil
}

func (p *Parser) parseIfdef(tok Token) (Statement, error) {
	symTok := p.next()
	if symTok.Type != TokenIdentifier {
		return nil, p.errorf(symTok, "expected symbol name after .ifdef")
	}
	if err := p.requireEOL(); err != nil {
		return nil, err
	}

	thenStmts, term, err := p.parseBlockUntil(".else", ".endif")
	if err != nil {
		return nil, err
	}

	var elseStmts []Statement
	if term == ".else" {
		elseStmts, _, err = p.parseBlockUntil(".endif")
		if err != nil {
			return nil, err
		}
	}

	return &CondStmt{Symbol: symTok.Lexeme, Then: thenStmts, Else: elseStmts, Pos: pos(tok)}, nil
}

func (p *Parser) parseBlockUntil(terminators ...string) ([]Statement, string, error) {
	var stmts []Statement
	for {
		p.skipBlank()
		t := p.peek()
		if t.Type == TokenDirective {
			low := strings.ToLower(t.Lexeme)
			for _, term := range terminators {
				if low == term {
					p.next()
					if err := p.requireEOL(); err != nil {
						return nil, "", err
					}
					return stmts, low, nil
				}
			}
		}
		if t.Type == TokenEOF {
			return nil, "", p.errorf(t, "unterminated block, expected %s", strings.Join(terminators, " or "))
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, "", err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
}

func (p *Parser) parseEnum(tok Token) (Statement, error) {
	name := ""
	if p.peek().Type == TokenIdentifier {
		name = p.next().Lexeme
	}
	if err := p.requireEOL(); err != nil {
		return nil, err
	}

	var members []string
	for {
		p.skipBlank()
		t := p.peek()
		if t.Type == TokenDirective && strings.EqualFold(t.Lexeme, ".end") {
			p.next()
			if err := p.requireEOL(); err != nil {
				return nil, err
			}
			break
		}
		if t.Type == TokenEOF {
			return nil, p.errorf(t, "unterminated .enum block, expected .end")
		}
		idTok := p.next()
		if idTok.Type != TokenIdentifier {
			return nil, p.errorf(idTok, "expected enum member name")
		}
		members = append(members, idTok.Lexeme)
		if err := p.requireEOL(); err != nil {
			return nil, err
		}
	}

	return &EnumStmt{Name: name, Members: members, Pos: pos(tok)}, nil
}

// --- operands ---

func (p *Parser) parseOperand() (AddrMode, Expr, error) {
	tok := p.peek()

	if tok.Type == TokenEOL || tok.Type == TokenEOF {
		return ModeImplied, nil, nil
	}

	// Bare "A" is Accumulator mode only when the token after it ends the
	// line; otherwise "A" is an ordinary expression (e.g. a label named
	// A). This needs the explicit two-token look-ahead spec.md §9 calls
	// for, rather than consuming "A" speculatively.
	if tok.Type == TokenIdentifier && strings.EqualFold(tok.Lexeme, "A") {
		next := p.peekAt(1)
		if next.Type == TokenEOL || next.Type == TokenEOF {
			p.next()
			return ModeAccumulator, nil, nil
		}
	}

	if tok.Type == TokenOperator && tok.Lexeme == "#" {
		p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return 0, nil, err
		}
		return ModeImmediate, expr, nil
	}

	if tok.Type == TokenOperator && tok.Lexeme == "(" {
		return p.parseIndirectOperand()
	}

	expr, err := p.parseExpr()
	if err != nil {
		return 0, nil, err
	}

	if p.peek().Type == TokenOperator && p.peek().Lexeme == "," {
		p.next()
		reg := p.next()
		switch {
		case reg.Type == TokenIdentifier && strings.EqualFold(reg.Lexeme, "X"):
			return ModeAbsoluteX, expr, nil
		case reg.Type == TokenIdentifier && strings.EqualFold(reg.Lexeme, "Y"):
			return ModeAbsoluteY, expr, nil
		default:
			return 0, nil, p.errorf(reg, "expected index register X or Y")
		}
	}

	return ModeAbsolute, expr, nil
}

func (p *Parser) parseIndirectOperand() (AddrMode, Expr, error) {
	p.next() // consume '('
	expr, err := p.parseExpr()
	if err != nil {
		return 0, nil, err
	}

	if p.peek().Type == TokenOperator && p.peek().Lexeme == "," {
		p.next()
		reg := p.next()
		if !(reg.Type == TokenIdentifier && strings.EqualFold(reg.Lexeme, "X")) {
			return 0, nil, p.errorf(reg, "expected X in indexed-indirect operand")
		}
		closeParen := p.next()
		if !(closeParen.Type == TokenOperator && closeParen.Lexeme == ")") {
			return 0, nil, p.errorf(closeParen, "expected ')'")
		}
		return ModeIndexedIndirect, expr, nil
	}

	if p.peek().Type == TokenOperator && p.peek().Lexeme == ")" {
		p.next()
		if p.peek().Type == TokenOperator && p.peek().Lexeme == "," {
			p.next()
			reg := p.next()
			if !(reg.Type == TokenIdentifier && strings.EqualFold(reg.Lexeme, "Y")) {
				return 0, nil, p.errorf(reg, "expected Y in indirect-indexed operand")
			}
			return ModeIndirectIndexed, expr, nil
		}
		return ModeIndirect, expr, nil
	}

	return 0, nil, p.errorf(p.peek(), "expected ')' or ',X'")
}

// --- expressions ---

func (p *Parser) parseExpr() (Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		if p.peek().Type == TokenOperator && (p.peek().Lexeme == "+" || p.peek().Lexeme == "-") {
			opTok := p.next()
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			lhs = foldBinary(opTok.Lexeme[0], lhs, rhs)
		} else {
			break
		}
	}
	return lhs, nil
}

func (p *Parser) parseTerm() (Expr, error) {
	tok := p.peek()

	switch {
	case tok.Type == TokenOperator && tok.Lexeme == "<":
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return foldLowByte(inner, p, tok)

	case tok.Type == TokenOperator && tok.Lexeme == ">":
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return foldHighByte(inner, p, tok)

	case tok.Type == TokenNumber:
		p.next()
		return &IntExpr{Value: tok.IntValue()}, nil

	case tok.Type == TokenIdentifier:
		p.next()
		name := tok.Lexeme
		// A qualified "Enum.Member" name: the tokenizer lexes ".Member"
		// as a Directive token, so join it back onto the identifier.
		for p.peek().Type == TokenDirective {
			name += p.next().Lexeme
		}
		return &UnresolvedExpr{Name: name, Flavor: FlavorAddress}, nil

	case tok.Type == TokenLocalLabelRef:
		p.next()
		digits := tok.Lexeme[:len(tok.Lexeme)-1]
		dir := tok.Lexeme[len(tok.Lexeme)-1]
		return &UnresolvedExpr{Name: digits, Flavor: FlavorLocalRel, Dir: dir}, nil

	case tok.Type == TokenString:
		p.next()
		return &StrExpr{Value: tok.StrValue()}, nil

	default:
		return nil, p.errorf(tok, "expected expression")
	}
}

func foldBinary(op byte, lhs, rhs Expr) Expr {
	li, lok := lhs.(*IntExpr)
	ri, rok := rhs.(*IntExpr)
	if lok && rok {
		if op == '+' {
			return &IntExpr{Value: li.Value + ri.Value}
		}
		return &IntExpr{Value: li.Value - ri.Value}
	}
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

func foldLowByte(e Expr, p *Parser, at Token) (Expr, error) {
	switch v := e.(type) {
	case *IntExpr:
		return &IntExpr{Value: v.Value & 0xFF}, nil
	case *UnresolvedExpr:
		if v.Flavor == FlavorAddress {
			return &UnresolvedExpr{Name: v.Name, Flavor: FlavorLowByte}, nil
		}
	}
	return nil, p.errorf(at, "cannot take low byte of this expression")
}

func foldHighByte(e Expr, p *Parser, at Token) (Expr, error) {
	switch v := e.(type) {
	case *IntExpr:
		return &IntExpr{Value: (v.Value >> 8) & 0xFF}, nil
	case *UnresolvedExpr:
		if v.Flavor == FlavorAddress {
			return &UnresolvedExpr{Name: v.Name, Flavor: FlavorHighByte}, nil
		}
	}
	return nil, p.errorf(at, "cannot take high byte of this expression")
}
