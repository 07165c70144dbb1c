package parser

import (
	"fmt"

	"github.com/echo-lang/echo/compiler/errors"
	"github.com/echo-lang/echo/compiler/lexer"
)

// maxIdentifierLength is the longest legal identifier name
const maxIdentifierLength = 64

// builtins are callable names the language provides; calls to them bypass
// the symbol table
var builtins = map[string]bool{
	"length": true,
	"append": true,
	"remove": true,
	"round":  true,
	"random": true,
}

// blockFrame records an open compound statement so its "end <kind>"
// terminator can be matched
type blockFrame struct {
	kind   lexer.TokenType
	line   int
	column int
}

// funcFrame records the function currently being parsed for return checks
type funcFrame struct {
	name          string
	returnType    ValueType
	hasReturnType bool
}

// Parser transforms a comment-filtered token stream into an AST, recording
// diagnostics as it goes. All state is local to one Parse call.
type Parser struct {
	tokens        []lexer.Token
	current       int
	rep           *errors.Reporter
	panicMode     bool
	loopDepth     int
	functionDepth int
	blocks        []blockFrame
	funcs         []funcFrame
	symbols       *SymbolTable
}

// New creates a new Parser from a token stream. The stream must already
// have comment tokens filtered out.
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
		rep:     errors.NewReporter(),
		symbols: NewSymbolTable(),
	}
}

// Parse parses the token stream and returns the AST together with the
// reporter holding all diagnostics
func (p *Parser) Parse() (*Program, *errors.Reporter) {
	program := p.parseProgram()
	return program, p.rep
}

// parseProgram parses "start" stmt_list "end" and flags stray tokens
func (p *Parser) parseProgram() *Program {
	startToken := p.peek()

	if p.check(lexer.KW_START) {
		p.advance()
	} else {
		p.reportStructural("Program must begin with 'start'", startToken)
	}

	statements := p.parseStatementList(false)

	if p.check(lexer.KW_END) {
		p.advance()
		if !p.isAtEnd() {
			p.reportStructural(fmt.Sprintf("Unexpected token %q after the program's 'end'", p.peek().Lexeme), p.peek())
		}
	} else {
		p.reportStructural("Program must close with 'end'", p.previous())
	}

	return &Program{Statements: statements, Location: TokenToLocation(startToken)}
}

// Token manipulation helpers

// isAtEnd checks if we're at the end of the token stream
func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens)
}

// peek returns the current token without consuming it. Past the end it
// returns an EOF token positioned just after the last real token.
func (p *Parser) peek() lexer.Token {
	if p.current < len(p.tokens) {
		return p.tokens[p.current]
	}
	return p.eofToken()
}

// peekAt returns the token n positions ahead without consuming it
func (p *Parser) peekAt(n int) lexer.Token {
	if p.current+n < len(p.tokens) {
		return p.tokens[p.current+n]
	}
	return p.eofToken()
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if p.current > 0 {
		return p.tokens[p.current-1]
	}
	return p.eofToken()
}

func (p *Parser) eofToken() lexer.Token {
	line, column := 1, 1
	if len(p.tokens) > 0 {
		last := p.tokens[len(p.tokens)-1]
		line, column = last.Line, last.Column+len(last.Lexeme)
	}
	return lexer.Token{Type: lexer.EOF, Line: line, Column: column}
}

// advance consumes and returns the current token
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check checks if the current token is of the given type
func (p *Parser) check(tokenType lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

// match consumes the current token and returns true if it matches any of
// the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tokenType := range types {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

// consume consumes a token of the given type or records a parse error
func (p *Parser) consume(tokenType lexer.TokenType, cat errors.Category, message string) (lexer.Token, bool) {
	if p.check(tokenType) {
		return p.advance(), true
	}
	p.parseError(cat, message, p.peek(), map[string]string{
		"expected": tokenType.String(),
		"found":    p.peek().Type.String(),
	})
	return lexer.Token{}, false
}

// Diagnostics

// parseError records a parse failure and enters panic mode. While panicked,
// further non-structural diagnostics are suppressed until synchronization.
func (p *Parser) parseError(cat errors.Category, message string, tok lexer.Token, context map[string]string) {
	if !p.panicMode || cat == errors.STRUCTURAL {
		p.rep.PushError(cat, message, tok.Line, tok.Column, context)
	}
	p.panicMode = true
}

// reportStructural records a STRUCTURAL error; these are never suppressed
func (p *Parser) reportStructural(message string, tok lexer.Token) {
	p.rep.PushError(errors.STRUCTURAL, message, tok.Line, tok.Column, nil)
}

// checkError records a semantic-side error without entering panic mode;
// suppressed while panicked
func (p *Parser) checkError(cat errors.Category, message string, tok lexer.Token, context map[string]string) {
	if p.panicMode {
		return
	}
	p.rep.PushError(cat, message, tok.Line, tok.Column, context)
}

// warn records a warning; suppressed while panicked
func (p *Parser) warn(cat errors.Category, message string, tok lexer.Token) {
	if p.panicMode {
		return
	}
	p.rep.PushWarning(cat, message, tok.Line, tok.Column, nil)
}

// synchronize implements panic-mode recovery: discard tokens until the
// current token can anchor a fresh parse, then clear the panic flag
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		t := p.peek().Type
		if t == lexer.KW_END || lexer.IsStatementStart(t) {
			break
		}
		p.advance()
	}
	p.panicMode = false
}

// Block stack

func (p *Parser) pushBlock(openToken lexer.Token) {
	p.blocks = append(p.blocks, blockFrame{
		kind:   openToken.Type,
		line:   openToken.Line,
		column: openToken.Column,
	})
}

func (p *Parser) popBlock() {
	if len(p.blocks) > 0 {
		p.blocks = p.blocks[:len(p.blocks)-1]
	}
}

// blockKindName returns the source spelling of a block opener keyword
func blockKindName(t lexer.TokenType) string {
	switch t {
	case lexer.KW_IF:
		return "if"
	case lexer.KW_FOR:
		return "for"
	case lexer.KW_WHILE:
		return "while"
	case lexer.KW_DO:
		return "do"
	case lexer.KW_SWITCH:
		return "switch"
	case lexer.KW_FUNCTION:
		return "function"
	default:
		return t.String()
	}
}

// expectBlockEnd consumes the "end <kind>" terminator of the block opened
// at openToken. A mismatched kind is a GRAMMAR error naming the enclosing
// block; a missing terminator (EOF, or an "end" that must belong to an
// outer construct) is a STRUCTURAL error anchored at the opener.
func (p *Parser) expectBlockEnd(openToken lexer.Token, kind lexer.TokenType) bool {
	defer p.popBlock()

	kindName := blockKindName(kind)

	if !p.check(lexer.KW_END) {
		p.reportStructural(
			fmt.Sprintf("'%s' block opened at line %d was not closed with 'end %s'", kindName, openToken.Line, kindName),
			openToken)
		return false
	}

	after := p.peekAt(1).Type
	switch {
	case after == kind:
		p.advance()
		p.advance()
		return true

	case lexer.IsBlockOpener(after):
		endToken := p.advance()
		foundName := blockKindName(p.advance().Type)
		p.parseError(errors.GRAMMAR,
			fmt.Sprintf("'end %s' does not match the enclosing '%s' block opened at line %d", foundName, kindName, openToken.Line),
			endToken,
			map[string]string{"expected": "end " + kindName, "found": "end " + foundName})
		p.panicMode = false
		return false

	default:
		// The bare "end" belongs to an outer construct (usually the
		// program); this block was never closed.
		p.reportStructural(
			fmt.Sprintf("'%s' block opened at line %d was not closed with 'end %s'", kindName, openToken.Line, kindName),
			openToken)
		return false
	}
}

// Identifier helpers

// expectIdentifier consumes an identifier, reporting reserved words by name
// and enforcing the length limit
func (p *Parser) expectIdentifier(what string) (lexer.Token, bool) {
	if p.check(lexer.ID) {
		tok := p.advance()
		p.checkIdentifierLength(tok.Lexeme, tok)
		return tok, true
	}

	tok := p.peek()
	if lexer.IsKeyword(tok.Type) {
		p.parseError(errors.GRAMMAR,
			fmt.Sprintf("Reserved word '%s' cannot be used as %s", tok.Lexeme, what),
			tok, map[string]string{"found": tok.Lexeme})
	} else {
		p.parseError(errors.GRAMMAR,
			fmt.Sprintf("Expected %s, got %q", what, tok.Lexeme),
			tok, map[string]string{"found": tok.Type.String()})
	}
	return lexer.Token{}, false
}

// checkIdentifierLength enforces the 1..64 character identifier limit
func (p *Parser) checkIdentifierLength(name string, tok lexer.Token) {
	if len(name) > maxIdentifierLength {
		p.checkError(errors.SEMANTIC,
			fmt.Sprintf("Identifier '%s' exceeds the maximum length of %d characters", name, maxIdentifierLength),
			tok, nil)
	}
}

// checkVariableUse validates an identifier read against the symbol table.
// Suppressed while panicked so recovery does not cascade reference errors.
func (p *Parser) checkVariableUse(name string, tok lexer.Token) {
	if p.panicMode || builtins[name] {
		return
	}
	sym, ok := p.symbols.Lookup(name)
	if !ok {
		p.checkError(errors.REFERENCE,
			fmt.Sprintf("Variable '%s' is used but not declared", name), tok, nil)
		return
	}
	if !sym.Initialized {
		p.checkError(errors.REFERENCE,
			fmt.Sprintf("Variable '%s' is used but has not been initialized", name), tok, nil)
	}
}

// currentFunc returns the innermost function frame, if any
func (p *Parser) currentFunc() *funcFrame {
	if len(p.funcs) == 0 {
		return nil
	}
	return &p.funcs[len(p.funcs)-1]
}
