package parser

import "github.com/echo-lang/echo/compiler/lexer"

// ValueType is the coarse type lattice used for informational type
// propagation during parsing
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeNumber
	TypeDecimal
	TypeString
	TypeBoolean
	TypeList
	TypeFunction
	TypeStruct
	TypeNull
)

// String returns the lattice name of the type
func (t ValueType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeList:
		return "list"
	case TypeFunction:
		return "function"
	case TypeStruct:
		return "struct"
	case TypeNull:
		return "null"
	default:
		return "unknown"
	}
}

// dataTypeOf maps a data-type keyword token to its lattice type
func dataTypeOf(t lexer.TokenType) ValueType {
	switch t {
	case lexer.KW_NUMBER:
		return TypeNumber
	case lexer.KW_DECIMAL:
		return TypeDecimal
	case lexer.KW_STRING:
		return TypeString
	case lexer.KW_BOOLEAN:
		return TypeBoolean
	case lexer.KW_LIST:
		return TypeList
	default:
		return TypeUnknown
	}
}

// inferType propagates a coarse type bottom-up through an expression.
// The result is informational; it feeds the declaration and return-value
// mismatch diagnostics only.
func (p *Parser) inferType(expr ExprNode) ValueType {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Type
	case *StringLitExpr:
		return TypeString
	case *ListLiteralExpr:
		return TypeList
	case *IdentifierExpr:
		if sym, ok := p.symbols.Lookup(e.Name); ok {
			return sym.DeclaredType
		}
		return TypeUnknown
	case *UnaryExpr:
		if e.Operator == lexer.OP_NOT {
			return TypeBoolean
		}
		return p.inferType(e.Operand)
	case *BinaryExpr:
		return p.inferBinary(e)
	case *CallExpr, *IndexExpr, *FieldAccessExpr:
		return TypeUnknown
	default:
		return TypeUnknown
	}
}

func (p *Parser) inferBinary(e *BinaryExpr) ValueType {
	switch e.Kind {
	case LOGIC_OR, LOGIC_AND, EQUALITY, RELATIONAL:
		return TypeBoolean
	}

	left := p.inferType(e.Left)
	right := p.inferType(e.Right)

	// + with any string operand concatenates
	if e.Operator == lexer.OP_ADD && (left == TypeString || right == TypeString) {
		return TypeString
	}

	// / always yields a decimal
	if e.Operator == lexer.OP_DIV {
		return TypeDecimal
	}

	if left == TypeDecimal || right == TypeDecimal {
		return TypeDecimal
	}
	if left == TypeUnknown || right == TypeUnknown {
		return TypeUnknown
	}
	return TypeNumber
}

// typesCompatible reports whether an inferred type may initialize a declared
// type without a TYPE diagnostic. Exact matches, the number->decimal
// widening, and unknown inferences are accepted.
func typesCompatible(declared, inferred ValueType) bool {
	if inferred == TypeUnknown || declared == inferred {
		return true
	}
	return declared == TypeDecimal && inferred == TypeNumber
}
