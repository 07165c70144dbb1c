package parser

import (
	"fmt"
	"strings"

	"github.com/echo-lang/echo/compiler/errors"
	"github.com/echo-lang/echo/compiler/lexer"
)

// parseStatementList parses statements until "end", EOF, or one of the
// extra stop kinds. Inside a do body the trailing "while" is recognized via
// bounded look-ahead. Every iteration is guaranteed to make progress.
func (p *Parser) parseStatementList(inDoBody bool, stops ...lexer.TokenType) []StmtNode {
	statements := []StmtNode{}

	for !p.isAtEnd() {
		t := p.peek().Type
		if t == lexer.KW_END {
			break
		}
		stopped := false
		for _, s := range stops {
			if t == s {
				stopped = true
				break
			}
		}
		if stopped {
			break
		}
		if inDoBody && t == lexer.KW_WHILE && p.whileTerminatesDo() {
			break
		}

		before := p.current
		if stmt := p.parseStatement(); stmt != nil {
			statements = append(statements, stmt)
		}
		if p.current == before {
			// A production returned without progress; discard one token so
			// analysis always terminates
			p.advance()
			p.panicMode = false
		}
	}

	return statements
}

// whileTerminatesDo decides whether a "while" inside a do body is the
// loop's trailing condition or a nested while loop. It scans ahead until it
// finds "end do" (trailing condition) or another block opener (nested loop).
func (p *Parser) whileTerminatesDo() bool {
	for i := p.current + 1; i < len(p.tokens); i++ {
		t := p.tokens[i].Type
		if lexer.IsBlockOpener(t) {
			return false
		}
		if t == lexer.KW_END && i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.KW_DO {
			return true
		}
	}
	return true
}

// parseStatement dispatches on the current token
func (p *Parser) parseStatement() StmtNode {
	tok := p.peek()

	switch {
	case lexer.IsDataType(tok.Type):
		return p.parseDecl()

	case tok.Type == lexer.ID && p.peekAt(1).Type == lexer.OP_ASSIGN && p.peekAt(2).Type == lexer.KW_INPUT:
		return p.parseInput()

	case tok.Type == lexer.KW_ECHO:
		return p.parseOutput()

	case tok.Type == lexer.KW_IF:
		return p.parseIf()

	case tok.Type == lexer.KW_SWITCH:
		return p.parseSwitch()

	case tok.Type == lexer.KW_FOR:
		return p.parseFor()

	case tok.Type == lexer.KW_WHILE:
		return p.parseWhile()

	case tok.Type == lexer.KW_DO:
		return p.parseDoWhile()

	case tok.Type == lexer.KW_FUNCTION:
		return p.parseFunction()

	case tok.Type == lexer.RW_DATA:
		return p.parseDataStruct()

	case tok.Type == lexer.RW_RETURN, tok.Type == lexer.RW_BREAK, tok.Type == lexer.RW_CONTINUE:
		return p.parseJump()

	case tok.Type == lexer.ID:
		return p.parseAssignOrCall()

	case tok.Type == lexer.UNKNOWN:
		p.reportUnknownToken(tok)
		p.advance()
		p.synchronize()
		return nil

	default:
		p.parseError(errors.GRAMMAR,
			fmt.Sprintf("Unexpected token %q; expected a statement", tok.Lexeme),
			tok, map[string]string{"found": tok.Type.String()})
		p.advance()
		p.synchronize()
		return nil
	}
}

// reportUnknownToken turns an UNKNOWN token into the most specific SYNTAX
// diagnostic available
func (p *Parser) reportUnknownToken(tok lexer.Token) {
	switch {
	case tok.Lexeme == ";":
		p.parseError(errors.SYNTAX,
			"Semicolons are not used in ECHO; statements end by position", tok,
			map[string]string{"suggestion": "remove the ';'"})
	case tok.Lexeme == "@ ":
		p.parseError(errors.SYNTAX,
			"'@' must be immediately followed by a variable name; remove the space", tok, nil)
	case strings.HasPrefix(tok.Lexeme, `"`):
		p.parseError(errors.SYNTAX, "Unterminated string literal", tok, nil)
	default:
		p.parseError(errors.SYNTAX,
			fmt.Sprintf("Unexpected character sequence %q", tok.Lexeme), tok, nil)
	}
}

// parseDecl parses: data_type decl_item { "," decl_item }
func (p *Parser) parseDecl() StmtNode {
	typeToken := p.advance()
	declType := dataTypeOf(typeToken.Type)
	stmt := &DeclStmt{DataType: declType, Location: TokenToLocation(typeToken)}

	for {
		nameToken, ok := p.expectIdentifier("a variable name in the declaration")
		if !ok {
			p.synchronize()
			return stmt
		}

		item := &DeclItem{Name: nameToken.Lexeme, Location: TokenToLocation(nameToken)}
		initialized := false

		if p.check(lexer.OP_ASSIGN) {
			p.advance()
			item.Value = p.parseExpression()
			if item.Value == nil {
				p.synchronize()
			} else {
				initialized = true
				inferred := p.inferType(item.Value)
				if !p.panicMode && !typesCompatible(declType, inferred) {
					p.checkError(errors.TYPE,
						fmt.Sprintf("Cannot initialize %s '%s' with a %s value", declType, item.Name, inferred),
						nameToken,
						map[string]string{"expected": declType.String(), "found": inferred.String()})
				}
			}
		} else if p.check(lexer.DEL_LBRACK) {
			p.advance()
			if p.check(lexer.NUM_LITERAL) {
				sizeToken := p.advance()
				item.ArraySize = &LiteralExpr{Raw: sizeToken.Lexeme, Type: TypeNumber, Location: TokenToLocation(sizeToken)}
			} else {
				p.parseError(errors.GRAMMAR,
					"Array size must be a numeric literal", p.peek(),
					map[string]string{"found": p.peek().Type.String()})
			}
			p.consume(lexer.DEL_RBRACK, errors.GRAMMAR, "Expected ']' after array size")
			initialized = true
		}

		p.symbols.Declare(item.Name, declType, initialized)
		stmt.Items = append(stmt.Items, item)

		if !p.match(lexer.DEL_COMMA) {
			break
		}
	}

	return stmt
}

// parseInput parses: ident "=" "input" "(" data_type [ "," expr ] ")"
func (p *Parser) parseInput() StmtNode {
	nameToken := p.advance()
	p.checkIdentifierLength(nameToken.Lexeme, nameToken)
	p.advance() // '='
	p.advance() // 'input'

	stmt := &InputStmt{Name: nameToken.Lexeme, Location: TokenToLocation(nameToken)}

	if _, ok := p.consume(lexer.DEL_LPAREN, errors.GRAMMAR, "Expected '(' after 'input'"); !ok {
		p.synchronize()
		return stmt
	}

	if lexer.IsDataType(p.peek().Type) {
		stmt.DataType = dataTypeOf(p.advance().Type)
	} else {
		p.parseError(errors.GRAMMAR,
			"Expected a data type as the first argument of 'input'", p.peek(),
			map[string]string{"found": p.peek().Type.String()})
	}

	if p.match(lexer.DEL_COMMA) {
		stmt.Prompt = p.parseExpression()
	}

	p.consume(lexer.DEL_RPAREN, errors.GRAMMAR, "Expected ')' to close the 'input' call")
	p.symbols.MarkInitialized(stmt.Name)
	return stmt
}

// parseOutput parses: "echo" expr
func (p *Parser) parseOutput() StmtNode {
	echoToken := p.advance()
	stmt := &OutputStmt{Location: TokenToLocation(echoToken)}
	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		p.parseError(errors.GRAMMAR, "Expected an expression after 'echo'", p.peek(), nil)
		p.synchronize()
	}
	return stmt
}

// parseAssignOrCall parses a statement beginning with an identifier:
// assignment (plain or indexed) or a call
func (p *Parser) parseAssignOrCall() StmtNode {
	nameToken := p.advance()
	p.checkIdentifierLength(nameToken.Lexeme, nameToken)
	loc := TokenToLocation(nameToken)

	switch {
	case lexer.IsAssignOp(p.peek().Type):
		opToken := p.advance()
		if opToken.Type != lexer.OP_ASSIGN {
			// Compound assignment reads the target before writing it
			p.checkVariableUse(nameToken.Lexeme, nameToken)
		}
		value := p.parseExpression()
		if value == nil {
			p.parseError(errors.GRAMMAR,
				fmt.Sprintf("Expected an expression after '%s'", opToken.Lexeme), p.peek(), nil)
			p.synchronize()
		}
		p.symbols.MarkInitialized(nameToken.Lexeme)
		return &AssignStmt{Name: nameToken.Lexeme, Operator: opToken.Type, Value: value, Location: loc}

	case p.check(lexer.DEL_LBRACK):
		p.checkVariableUse(nameToken.Lexeme, nameToken)
		p.advance()
		index := p.parseExpression()
		p.consume(lexer.DEL_RBRACK, errors.GRAMMAR, "Expected ']' after index expression")
		if !lexer.IsAssignOp(p.peek().Type) {
			p.parseError(errors.GRAMMAR,
				"Expected an assignment operator after the indexed element", p.peek(),
				map[string]string{"found": p.peek().Type.String()})
			p.synchronize()
			return nil
		}
		opToken := p.advance()
		value := p.parseExpression()
		return &AssignStmt{Name: nameToken.Lexeme, Index: index, Operator: opToken.Type, Value: value, Location: loc}

	case p.check(lexer.DEL_LPAREN), p.check(lexer.DEL_PERIOD):
		if !p.check(lexer.DEL_LPAREN) {
			// Field access reads the object; direct calls allow forward
			// references to functions
			p.checkVariableUse(nameToken.Lexeme, nameToken)
		}
		expr := p.parsePostfix(&IdentifierExpr{Name: nameToken.Lexeme, Location: loc})
		if _, isCall := expr.(*CallExpr); !isCall {
			p.parseError(errors.GRAMMAR,
				fmt.Sprintf("Expected an assignment or a call involving '%s'", nameToken.Lexeme),
				nameToken, nil)
			p.synchronize()
			return nil
		}
		return &ExprStmt{Expr: expr, Location: loc}

	default:
		p.parseError(errors.GRAMMAR,
			fmt.Sprintf("Unexpected token %q after '%s'; expected an assignment or a call", p.peek().Lexeme, nameToken.Lexeme),
			p.peek(), map[string]string{"found": p.peek().Type.String()})
		p.synchronize()
		return nil
	}
}

// parseIf parses: "if" expr stmt_list { "else" "if" expr stmt_list }
// [ "else" stmt_list ] "end" "if"
func (p *Parser) parseIf() StmtNode {
	ifToken := p.advance()
	p.pushBlock(ifToken)
	stmt := &IfStmt{Location: TokenToLocation(ifToken)}

	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		p.parseError(errors.GRAMMAR, "Expected a condition after 'if'", p.peek(), nil)
		p.synchronize()
	}

	stmt.ThenBody = p.parseStatementList(false, lexer.KW_ELSE)

	for p.check(lexer.KW_ELSE) {
		elseToken := p.advance()
		if p.match(lexer.KW_IF) {
			clause := &ElseIfClause{Location: TokenToLocation(elseToken)}
			clause.Condition = p.parseExpression()
			if clause.Condition == nil {
				p.parseError(errors.GRAMMAR, "Expected a condition after 'else if'", p.peek(), nil)
				p.synchronize()
			}
			clause.Body = p.parseStatementList(false, lexer.KW_ELSE)
			stmt.ElseIfs = append(stmt.ElseIfs, clause)
		} else {
			stmt.ElseBody = p.parseStatementList(false)
			break
		}
	}

	p.expectBlockEnd(ifToken, lexer.KW_IF)
	return stmt
}

// parseSwitch parses: "switch" expr { "case" primary stmt_list }
// [ "default" stmt_list ] "end" "switch"
func (p *Parser) parseSwitch() StmtNode {
	switchToken := p.advance()
	p.pushBlock(switchToken)
	stmt := &SwitchStmt{Location: TokenToLocation(switchToken)}

	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		p.parseError(errors.GRAMMAR, "Expected an expression after 'switch'", p.peek(), nil)
		p.synchronize()
	}

	for p.check(lexer.KW_CASE) {
		caseToken := p.advance()
		clause := &CaseClause{Location: TokenToLocation(caseToken)}
		// Case labels are primary-level only
		clause.Value = p.parsePrimary()
		if clause.Value == nil {
			p.parseError(errors.GRAMMAR, "Expected a literal after 'case'", p.peek(), nil)
			p.synchronize()
		}
		clause.Body = p.parseStatementList(false, lexer.KW_CASE, lexer.KW_DEFAULT)
		stmt.Cases = append(stmt.Cases, clause)
	}

	if p.match(lexer.KW_DEFAULT) {
		stmt.DefaultBody = p.parseStatementList(false)
	}

	p.expectBlockEnd(switchToken, lexer.KW_SWITCH)
	return stmt
}

// parseFor parses: "for" ident "=" expr "to" expr [ "by" expr ]
// stmt_list "end" "for". The iterator is declared as an initialized number.
func (p *Parser) parseFor() StmtNode {
	forToken := p.advance()
	p.pushBlock(forToken)
	stmt := &ForStmt{Location: TokenToLocation(forToken)}

	if iterToken, ok := p.expectIdentifier("the loop iterator"); ok {
		stmt.Iterator = iterToken.Lexeme
		p.symbols.Declare(stmt.Iterator, TypeNumber, true)
	} else {
		p.synchronize()
	}

	p.consume(lexer.OP_ASSIGN, errors.GRAMMAR, "Expected '=' after the loop iterator")
	stmt.Start = p.parseExpression()
	p.consume(lexer.NW_TO, errors.GRAMMAR, "Expected 'to' after the loop start value")
	stmt.End = p.parseExpression()
	if p.match(lexer.NW_BY) {
		stmt.Step = p.parseExpression()
	}

	p.loopDepth++
	stmt.Body = p.parseStatementList(false)
	p.loopDepth--

	p.expectBlockEnd(forToken, lexer.KW_FOR)
	return stmt
}

// parseWhile parses: "while" expr stmt_list "end" "while"
func (p *Parser) parseWhile() StmtNode {
	whileToken := p.advance()
	p.pushBlock(whileToken)
	stmt := &WhileStmt{Location: TokenToLocation(whileToken)}

	stmt.Condition = p.parseExpression()
	if stmt.Condition == nil {
		p.parseError(errors.GRAMMAR, "Expected a condition after 'while'", p.peek(), nil)
		p.synchronize()
	}

	p.loopDepth++
	stmt.Body = p.parseStatementList(false)
	p.loopDepth--

	p.expectBlockEnd(whileToken, lexer.KW_WHILE)
	return stmt
}

// parseDoWhile parses: "do" stmt_list "while" expr "end" "do"
func (p *Parser) parseDoWhile() StmtNode {
	doToken := p.advance()
	p.pushBlock(doToken)
	stmt := &DoWhileStmt{Location: TokenToLocation(doToken)}

	p.loopDepth++
	stmt.Body = p.parseStatementList(true)
	p.loopDepth--

	if _, ok := p.consume(lexer.KW_WHILE, errors.GRAMMAR, "Expected 'while' with the loop condition before 'end do'"); ok {
		stmt.Condition = p.parseExpression()
		if stmt.Condition == nil {
			p.parseError(errors.GRAMMAR, "Expected a condition after 'while'", p.peek(), nil)
			p.synchronize()
		}
	} else {
		p.synchronize()
	}

	p.expectBlockEnd(doToken, lexer.KW_DO)
	return stmt
}

// parseFunction parses: "function" [ data_type ] ident "(" [ params ] ")"
// stmt_list "end" "function"
func (p *Parser) parseFunction() StmtNode {
	fnToken := p.advance()
	p.pushBlock(fnToken)
	stmt := &FunctionDef{Location: TokenToLocation(fnToken)}

	if lexer.IsDataType(p.peek().Type) {
		stmt.ReturnType = dataTypeOf(p.advance().Type)
		stmt.HasReturnType = true
	}

	if nameToken, ok := p.expectIdentifier("the function name"); ok {
		stmt.Name = nameToken.Lexeme
		p.symbols.Declare(stmt.Name, TypeFunction, true)
	} else {
		p.synchronize()
	}

	var bareNames []string
	if _, ok := p.consume(lexer.DEL_LPAREN, errors.GRAMMAR, "Expected '(' after the function name"); ok {
		if !p.check(lexer.DEL_RPAREN) {
			for {
				param := &Param{Location: TokenToLocation(p.peek())}
				if lexer.IsDataType(p.peek().Type) {
					param.DataType = dataTypeOf(p.advance().Type)
					if nameToken, ok := p.expectIdentifier("a parameter name"); ok {
						param.Name = nameToken.Lexeme
					}
				} else if p.check(lexer.ID) {
					nameToken := p.advance()
					p.checkIdentifierLength(nameToken.Lexeme, nameToken)
					param.Name = nameToken.Lexeme
					param.DataType = TypeUnknown
					bareNames = append(bareNames, param.Name)
				} else {
					p.parseError(errors.GRAMMAR,
						"Expected a parameter declaration", p.peek(),
						map[string]string{"found": p.peek().Type.String()})
					break
				}
				if param.Name != "" {
					// Parameters are pre-initialized
					p.symbols.Declare(param.Name, param.DataType, true)
				}
				stmt.Parameters = append(stmt.Parameters, param)
				if !p.match(lexer.DEL_COMMA) {
					break
				}
			}
		}
		p.consume(lexer.DEL_RPAREN, errors.GRAMMAR, "Expected ')' to close the parameter list")
	}

	if len(bareNames) > 0 {
		p.checkError(errors.GRAMMAR,
			fmt.Sprintf("Parameters of function '%s' are missing data types: %s", stmt.Name, strings.Join(bareNames, ", ")),
			fnToken, map[string]string{"suggestion": "write each parameter as 'type name'"})
	}

	p.functionDepth++
	p.funcs = append(p.funcs, funcFrame{name: stmt.Name, returnType: stmt.ReturnType, hasReturnType: stmt.HasReturnType})
	stmt.Body = p.parseStatementList(false)
	p.funcs = p.funcs[:len(p.funcs)-1]
	p.functionDepth--

	p.expectBlockEnd(fnToken, lexer.KW_FUNCTION)

	if stmt.HasReturnType && !containsReturn(stmt.Body) {
		p.warn(errors.SEMANTIC,
			fmt.Sprintf("Function '%s' declares a %s return type but has no return statement", stmt.Name, stmt.ReturnType),
			fnToken)
	}

	return stmt
}

// containsReturn reports whether a statement list contains a return
// statement, looking through nested blocks but not nested functions
func containsReturn(statements []StmtNode) bool {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ReturnStmt:
			return true
		case *IfStmt:
			if containsReturn(s.ThenBody) || containsReturn(s.ElseBody) {
				return true
			}
			for _, clause := range s.ElseIfs {
				if containsReturn(clause.Body) {
					return true
				}
			}
		case *SwitchStmt:
			for _, clause := range s.Cases {
				if containsReturn(clause.Body) {
					return true
				}
			}
			if containsReturn(s.DefaultBody) {
				return true
			}
		case *ForStmt:
			if containsReturn(s.Body) {
				return true
			}
		case *WhileStmt:
			if containsReturn(s.Body) {
				return true
			}
		case *DoWhileStmt:
			if containsReturn(s.Body) {
				return true
			}
		}
	}
	return false
}

// parseDataStruct parses: "data" "struct" ident "{" { field } "}"
func (p *Parser) parseDataStruct() StmtNode {
	dataToken := p.advance()
	p.consume(lexer.RW_STRUCT, errors.GRAMMAR, "Expected 'struct' after 'data'")

	stmt := &DataStructDef{Location: TokenToLocation(dataToken)}
	if nameToken, ok := p.expectIdentifier("the struct name"); ok {
		stmt.Name = nameToken.Lexeme
		p.symbols.Declare(stmt.Name, TypeStruct, true)
	}

	if _, ok := p.consume(lexer.DEL_LBRACE, errors.GRAMMAR, "Expected '{' to open the struct body"); !ok {
		p.synchronize()
		return stmt
	}

	for !p.check(lexer.DEL_RBRACE) && !p.isAtEnd() {
		field := &FieldDef{Location: TokenToLocation(p.peek())}

		switch {
		case lexer.IsDataType(p.peek().Type):
			// type ident [= expr]
			field.DataType = dataTypeOf(p.advance().Type)
			if nameToken, ok := p.expectIdentifier("a field name"); ok {
				field.Name = nameToken.Lexeme
			}
			if p.match(lexer.OP_ASSIGN) {
				field.Default = p.parseExpression()
			}

		case p.check(lexer.ID):
			// Schema binding: ident ":" type [ "(" bound_ident ")" ]
			nameToken := p.advance()
			p.checkIdentifierLength(nameToken.Lexeme, nameToken)
			field.Name = nameToken.Lexeme
			field.SchemaBinding = true
			p.consume(lexer.DEL_COLON, errors.GRAMMAR, "Expected ':' in the schema binding")
			if lexer.IsDataType(p.peek().Type) {
				field.DataType = dataTypeOf(p.advance().Type)
			} else {
				p.parseError(errors.GRAMMAR, "Expected a data type after ':'", p.peek(),
					map[string]string{"found": p.peek().Type.String()})
			}
			if p.match(lexer.DEL_LPAREN) {
				if boundToken, ok := p.expectIdentifier("the bound function name"); ok {
					field.BoundFunction = boundToken.Lexeme
				}
				p.consume(lexer.DEL_RPAREN, errors.GRAMMAR, "Expected ')' after the bound function name")
			}

		default:
			p.parseError(errors.GRAMMAR,
				fmt.Sprintf("Unexpected token %q in the struct body", p.peek().Lexeme),
				p.peek(), map[string]string{"found": p.peek().Type.String()})
			p.advance()
			p.panicMode = false
			continue
		}

		stmt.Fields = append(stmt.Fields, field)
	}

	p.consume(lexer.DEL_RBRACE, errors.GRAMMAR, "Expected '}' to close the struct body")
	return stmt
}

// parseJump parses return, break, and continue with their scope checks
func (p *Parser) parseJump() StmtNode {
	tok := p.advance()
	loc := TokenToLocation(tok)

	switch tok.Type {
	case lexer.RW_BREAK:
		if p.loopDepth == 0 {
			p.checkError(errors.SEMANTIC, "'break' is only allowed inside a loop", tok, nil)
		}
		return &BreakStmt{Location: loc}

	case lexer.RW_CONTINUE:
		if p.loopDepth == 0 {
			p.checkError(errors.SEMANTIC, "'continue' is only allowed inside a loop", tok, nil)
		}
		return &ContinueStmt{Location: loc}

	default: // RW_RETURN
		if p.functionDepth == 0 {
			p.checkError(errors.SEMANTIC, "'return' is only allowed inside a function", tok, nil)
		}
		stmt := &ReturnStmt{Location: loc}
		if canStartExpression(p.peek().Type) {
			stmt.Value = p.parseExpression()
		}

		if fn := p.currentFunc(); fn != nil && fn.hasReturnType {
			if stmt.Value == nil {
				p.checkError(errors.SEMANTIC,
					fmt.Sprintf("Function '%s' declares a %s return type; 'return' needs a value", fn.name, fn.returnType),
					tok, nil)
			} else if inferred := p.inferType(stmt.Value); !typesCompatible(fn.returnType, inferred) {
				p.checkError(errors.TYPE,
					fmt.Sprintf("Return value type %s does not match the declared %s return type of function '%s'", inferred, fn.returnType, fn.name),
					tok, map[string]string{"expected": fn.returnType.String(), "found": inferred.String()})
			}
		}
		return stmt
	}
}

// canStartExpression reports whether a token type can begin an expression
func canStartExpression(t lexer.TokenType) bool {
	switch t {
	case lexer.ID, lexer.NUM_LITERAL, lexer.DEC_LITERAL, lexer.STR_LITERAL, lexer.SIS_MARKER,
		lexer.RW_TRUE, lexer.RW_FALSE, lexer.RW_NULL,
		lexer.DEL_LPAREN, lexer.DEL_LBRACK,
		lexer.OP_NOT, lexer.OP_ADD, lexer.OP_SUB, lexer.OP_INC, lexer.OP_DEC:
		return true
	}
	return false
}
