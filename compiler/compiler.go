// Package compiler exposes the two-stage ECHO front-end: a lexical scanner
// producing a positioned token stream and a syntax analyzer producing an AST
// with diagnostics. Both entry points are pure functions; analyses can run
// in parallel with no coordination.
package compiler

import (
	"github.com/echo-lang/echo/compiler/errors"
	"github.com/echo-lang/echo/compiler/lexer"
	"github.com/echo-lang/echo/compiler/parser"
)

// internalErrorMessage is the fixed message for internal invariant
// violations; it is the only diagnostic such a failure produces
const internalErrorMessage = "internal error: analysis failed on an invariant violation"

// Result is the outcome of one analysis. AST is nil exactly when Errors is
// non-empty; Warnings never fail the analysis.
type Result struct {
	AST      *parser.Program
	Errors   []errors.Diagnostic
	Warnings []errors.Diagnostic
	Success  bool
	ASTValid bool
}

// Tokenize scans source into a positioned token stream. It always returns a
// list; malformed input yields UNKNOWN tokens, never a failure. Comment
// tokens are included for display collaborators.
func Tokenize(source string) []lexer.Token {
	return lexer.New(source).ScanTokens()
}

// Analyze parses a token stream into an AST and diagnostics. Comment tokens
// are filtered here, at the boundary, so collaborators keep seeing them in
// the Tokenize output.
func Analyze(tokens []lexer.Token) (result *Result) {
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == lexer.COMMENT_SINGLE || t.Type == lexer.COMMENT_MULTI {
			continue
		}
		filtered = append(filtered, t)
	}

	defer func() {
		if r := recover(); r != nil {
			rep := errors.NewReporter()
			rep.PushError(errors.GRAMMAR, internalErrorMessage, 1, 1, nil)
			result = &Result{Errors: rep.Errors(), Warnings: []errors.Diagnostic{}}
		}
	}()

	p := parser.New(filtered)
	ast, rep := p.Parse()
	rep.Sort()

	result = &Result{
		Errors:   rep.Errors(),
		Warnings: rep.Warnings(),
	}
	result.Success = len(result.Errors) == 0
	if result.Success {
		result.AST = ast
		result.ASTValid = ast != nil
	}
	return result
}

// Check is a convenience wrapper running both stages on source text
func Check(source string) *Result {
	return Analyze(Tokenize(source))
}
