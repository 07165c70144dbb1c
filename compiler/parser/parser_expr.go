package parser

import (
	"fmt"
	"strings"

	"github.com/echo-lang/echo/compiler/errors"
	"github.com/echo-lang/echo/compiler/lexer"
)

// Expression parsing: precedence climbing, lowest level first. Every binary
// level is left-associative except exponentiation; unary prefix is
// right-associative; the postfix chain binds tightest.

// parseExpression parses an expression at the lowest precedence level
func (p *Parser) parseExpression() ExprNode {
	return p.parseLogicOr()
}

// parseBinaryLevel builds one left-associative precedence level
func (p *Parser) parseBinaryLevel(kind BinaryKind, next func() ExprNode, operators ...lexer.TokenType) ExprNode {
	left := next()
	for left != nil {
		matched := false
		for _, op := range operators {
			if p.check(op) {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		opToken := p.advance()
		right := next()
		if right == nil {
			p.parseError(errors.GRAMMAR,
				fmt.Sprintf("Expected an expression after '%s'", opToken.Lexeme),
				p.peek(), map[string]string{"found": p.peek().Type.String()})
			return left
		}
		left = &BinaryExpr{Kind: kind, Left: left, Operator: opToken.Type, Right: right, Location: TokenToLocation(opToken)}
	}
	return left
}

func (p *Parser) parseLogicOr() ExprNode {
	return p.parseBinaryLevel(LOGIC_OR, p.parseLogicAnd, lexer.OP_OR)
}

func (p *Parser) parseLogicAnd() ExprNode {
	return p.parseBinaryLevel(LOGIC_AND, p.parseEquality, lexer.OP_AND)
}

func (p *Parser) parseEquality() ExprNode {
	return p.parseBinaryLevel(EQUALITY, p.parseRelational, lexer.OP_EQ, lexer.OP_NEQ)
}

func (p *Parser) parseRelational() ExprNode {
	return p.parseBinaryLevel(RELATIONAL, p.parseAdditive, lexer.OP_LT, lexer.OP_GT, lexer.OP_LTE, lexer.OP_GTE)
}

func (p *Parser) parseAdditive() ExprNode {
	return p.parseBinaryLevel(ADDITIVE, p.parseMultiplicative, lexer.OP_ADD, lexer.OP_SUB)
}

func (p *Parser) parseMultiplicative() ExprNode {
	return p.parseBinaryLevel(MULTIPLICATIVE, p.parseExponential,
		lexer.OP_MUL, lexer.OP_DIV, lexer.OP_INT_DIV, lexer.OP_MOD)
}

// parseExponential parses '^', which is right-associative
func (p *Parser) parseExponential() ExprNode {
	left := p.parseUnary()
	if left == nil || !p.check(lexer.OP_EXP) {
		return left
	}
	opToken := p.advance()
	right := p.parseExponential()
	if right == nil {
		p.parseError(errors.GRAMMAR, "Expected an expression after '^'", p.peek(), nil)
		return left
	}
	return &BinaryExpr{Kind: EXPONENTIAL, Left: left, Operator: opToken.Type, Right: right, Location: TokenToLocation(opToken)}
}

// parseUnary parses right-associative prefix operators
func (p *Parser) parseUnary() ExprNode {
	switch p.peek().Type {
	case lexer.OP_NOT, lexer.OP_ADD, lexer.OP_SUB, lexer.OP_INC, lexer.OP_DEC:
		opToken := p.advance()
		operand := p.parseUnary()
		if operand == nil {
			p.parseError(errors.GRAMMAR,
				fmt.Sprintf("Expected an expression after unary '%s'", opToken.Lexeme),
				p.peek(), nil)
			return nil
		}
		return &UnaryExpr{Operator: opToken.Type, Operand: operand, Location: TokenToLocation(opToken)}
	}

	left := p.parsePrimary()
	if left == nil {
		return nil
	}
	return p.parsePostfix(left)
}

// parsePostfix parses the left-associative postfix chain: indexing, field
// access, and calls
func (p *Parser) parsePostfix(left ExprNode) ExprNode {
	for {
		switch {
		case p.check(lexer.DEL_LBRACK):
			openToken := p.advance()
			index := p.parseExpression()
			if index == nil {
				p.parseError(errors.GRAMMAR, "Expected an index expression after '['", p.peek(), nil)
			}
			p.consume(lexer.DEL_RBRACK, errors.GRAMMAR, "Expected ']' after the index expression")
			left = &IndexExpr{Object: left, Index: index, Location: TokenToLocation(openToken)}

		case p.check(lexer.DEL_PERIOD):
			p.advance()
			fieldToken, ok := p.expectIdentifier("a field name after '.'")
			if !ok {
				return left
			}
			left = &FieldAccessExpr{Object: left, Field: fieldToken.Lexeme, Location: TokenToLocation(fieldToken)}

		case p.check(lexer.DEL_LPAREN):
			openToken := p.advance()
			call := &CallExpr{Callee: left, Location: TokenToLocation(openToken)}
			if !p.check(lexer.DEL_RPAREN) {
				for {
					arg := p.parseExpression()
					if arg == nil {
						p.parseError(errors.GRAMMAR, "Expected an argument expression", p.peek(), nil)
						break
					}
					call.Arguments = append(call.Arguments, arg)
					if !p.match(lexer.DEL_COMMA) {
						break
					}
				}
			}
			p.consume(lexer.DEL_RPAREN, errors.GRAMMAR, "Expected ')' to close the argument list")
			left = call

		default:
			return left
		}
	}
}

// parsePrimary parses literals, identifiers, parenthesized expressions,
// list literals, and composite strings
func (p *Parser) parsePrimary() ExprNode {
	tok := p.peek()
	loc := TokenToLocation(tok)

	switch tok.Type {
	case lexer.NUM_LITERAL:
		p.advance()
		return &LiteralExpr{Raw: tok.Lexeme, Type: TypeNumber, Location: loc}

	case lexer.DEC_LITERAL:
		p.advance()
		return &LiteralExpr{Raw: tok.Lexeme, Type: TypeDecimal, Location: loc}

	case lexer.RW_TRUE, lexer.RW_FALSE:
		p.advance()
		return &LiteralExpr{Raw: tok.Lexeme, Type: TypeBoolean, Location: loc}

	case lexer.RW_NULL:
		p.advance()
		return &LiteralExpr{Raw: tok.Lexeme, Type: TypeNull, Location: loc}

	case lexer.STR_LITERAL, lexer.SIS_MARKER:
		return p.parseCompositeString()

	case lexer.ID:
		p.advance()
		p.checkIdentifierLength(tok.Lexeme, tok)
		if !p.check(lexer.DEL_LPAREN) {
			// Call position allows a forward reference to a function
			p.checkVariableUse(tok.Lexeme, tok)
		}
		return &IdentifierExpr{Name: tok.Lexeme, Location: loc}

	case lexer.DEL_LPAREN:
		p.advance()
		expr := p.parseExpression()
		if expr == nil {
			p.parseError(errors.GRAMMAR, "Expected an expression after '('", p.peek(), nil)
			return nil
		}
		p.consume(lexer.DEL_RPAREN, errors.GRAMMAR, "Expected ')' to close the expression")
		// Grouping parentheses are absorbed by precedence; no node is built
		return expr

	case lexer.DEL_LBRACK:
		return p.parseListLiteral()

	case lexer.UNKNOWN:
		p.reportUnknownToken(tok)
		p.advance()
		return nil

	default:
		p.parseError(errors.GRAMMAR,
			fmt.Sprintf("Expected an expression, got %q", tok.Lexeme),
			tok, map[string]string{"found": tok.Type.String()})
		return nil
	}
}

// parseListLiteral parses [e, ...]
func (p *Parser) parseListLiteral() ExprNode {
	openToken := p.advance()
	list := &ListLiteralExpr{Location: TokenToLocation(openToken)}

	if p.check(lexer.DEL_RBRACK) {
		p.advance()
		return list
	}

	for {
		element := p.parseExpression()
		if element == nil {
			p.parseError(errors.GRAMMAR, "Expected an expression in the list literal", p.peek(), nil)
			break
		}
		list.Elements = append(list.Elements, element)
		if !p.match(lexer.DEL_COMMA) {
			break
		}
	}

	p.consume(lexer.DEL_RBRACK, errors.GRAMMAR, "Expected ']' to close the list literal")
	return list
}

// parseCompositeString reassembles one string-literal AST node from the
// scanner's fragment and marker tokens. Contiguous STR_LITERAL and
// SIS_MARKER tokens all belong to the same literal. Every marker counts as
// a variable use.
func (p *Parser) parseCompositeString() ExprNode {
	startToken := p.peek()
	lit := &StringLitExpr{Location: TokenToLocation(startToken)}

	for p.check(lexer.STR_LITERAL) || p.check(lexer.SIS_MARKER) {
		tok := p.advance()
		loc := TokenToLocation(tok)

		if tok.Type == lexer.STR_LITERAL {
			text := strings.TrimSuffix(strings.TrimPrefix(tok.Lexeme, `"`), `"`)
			lit.Content = append(lit.Content, &StringContent{Text: text, Location: loc})
			continue
		}

		name := strings.TrimPrefix(tok.Lexeme, "@")
		if name == "" {
			p.checkError(errors.SYNTAX, "'@' must name a variable to insert", tok, nil)
			continue
		}
		p.checkIdentifierLength(name, tok)
		p.checkVariableUse(name, tok)
		lit.Content = append(lit.Content, &StringInsertion{
			Name:     &IdentifierExpr{Name: name, Location: loc},
			Location: loc,
		})
	}

	return lit
}
