package parser

import (
	"strings"
	"testing"

	"github.com/echo-lang/echo/compiler/lexer"
)

// parseExpr parses a single expression through an echo statement with a few
// pre-declared variables
func parseExpr(t *testing.T, expr string) ExprNode {
	t.Helper()
	source := "start\nnumber a = 1, b = 2, c = 3\nlist items = [1, 2]\necho " + expr + "\nend"
	program, rep := parseSource(t, source)
	requireClean(t, rep)
	out, ok := program.Statements[2].(*OutputStmt)
	if !ok {
		t.Fatalf("expected OutputStmt, got %T", program.Statements[2])
	}
	return out.Value
}

func TestExpr_MultiplicationBindsTighterThanAddition(t *testing.T) {
	root, ok := parseExpr(t, "a + b * c").(*BinaryExpr)
	if !ok || root.Kind != ADDITIVE {
		t.Fatalf("expected ADDITIVE at the root, got %#v", root)
	}
	right, ok := root.Right.(*BinaryExpr)
	if !ok || right.Kind != MULTIPLICATIVE {
		t.Fatalf("expected MULTIPLICATIVE on the right, got %#v", root.Right)
	}
}

func TestExpr_LeftAssociativity(t *testing.T) {
	root := parseExpr(t, "a - b - c").(*BinaryExpr)
	left, ok := root.Left.(*BinaryExpr)
	if !ok || left.Kind != ADDITIVE {
		t.Fatalf("expected (a - b) - c, got left %#v", root.Left)
	}
	if _, ok := root.Right.(*IdentifierExpr); !ok {
		t.Errorf("expected identifier on the right, got %T", root.Right)
	}
}

func TestExpr_ExponentIsRightAssociative(t *testing.T) {
	root := parseExpr(t, "a ^ b ^ c").(*BinaryExpr)
	if root.Kind != EXPONENTIAL {
		t.Fatalf("expected EXPONENTIAL root, got %s", root.Kind)
	}
	right, ok := root.Right.(*BinaryExpr)
	if !ok || right.Kind != EXPONENTIAL {
		t.Fatalf("expected a ^ (b ^ c), got right %#v", root.Right)
	}
}

func TestExpr_LogicalPrecedence(t *testing.T) {
	// a < b && b < c || !a  =>  ((a<b) && (b<c)) || (!a)
	root := parseExpr(t, "a < b && b < c || !a").(*BinaryExpr)
	if root.Kind != LOGIC_OR {
		t.Fatalf("expected LOGIC_OR root, got %s", root.Kind)
	}
	left := root.Left.(*BinaryExpr)
	if left.Kind != LOGIC_AND {
		t.Fatalf("expected LOGIC_AND on the left, got %s", left.Kind)
	}
	if _, ok := root.Right.(*UnaryExpr); !ok {
		t.Errorf("expected unary ! on the right, got %T", root.Right)
	}
}

func TestExpr_IntegerDivisionIsMultiplicative(t *testing.T) {
	root := parseExpr(t, "a // b").(*BinaryExpr)
	if root.Kind != MULTIPLICATIVE || root.Operator != lexer.OP_INT_DIV {
		t.Fatalf("expected MULTIPLICATIVE '//' node, got %s %s", root.Kind, root.Operator)
	}
}

func TestExpr_ParenthesesAreAbsorbed(t *testing.T) {
	root := parseExpr(t, "(a + b) * c").(*BinaryExpr)
	if root.Kind != MULTIPLICATIVE {
		t.Fatalf("expected MULTIPLICATIVE root, got %s", root.Kind)
	}
	left, ok := root.Left.(*BinaryExpr)
	if !ok || left.Kind != ADDITIVE {
		t.Fatalf("expected the grouped sum as a plain ADDITIVE node, got %#v", root.Left)
	}
}

func TestExpr_UnaryChains(t *testing.T) {
	// Note the space: a bare "!!" run is a single UNKNOWN token by the
	// maximal-run rule
	outer, ok := parseExpr(t, "! ! a").(*UnaryExpr)
	if !ok || outer.Operator != lexer.OP_NOT {
		t.Fatalf("expected outer !, got %#v", outer)
	}
	inner, ok := outer.Operand.(*UnaryExpr)
	if !ok || inner.Operator != lexer.OP_NOT {
		t.Fatalf("expected inner !, got %#v", outer.Operand)
	}
	neg := parseExpr(t, "- a").(*UnaryExpr)
	if neg.Operator != lexer.OP_SUB {
		t.Fatalf("expected unary minus, got %s", neg.Operator)
	}
}

func TestExpr_PostfixChain(t *testing.T) {
	// items[0].size(a) parses index, then field, then call, left to right
	call, ok := parseExpr(t, "items[0].size(a)").(*CallExpr)
	if !ok {
		t.Fatal("expected CallExpr at the root")
	}
	field, ok := call.Callee.(*FieldAccessExpr)
	if !ok || field.Field != "size" {
		t.Fatalf("expected field access '.size', got %#v", call.Callee)
	}
	index, ok := field.Object.(*IndexExpr)
	if !ok {
		t.Fatalf("expected index expression below the field access, got %#v", field.Object)
	}
	if _, ok := index.Object.(*IdentifierExpr); !ok {
		t.Errorf("expected identifier at the chain root, got %T", index.Object)
	}
	if len(call.Arguments) != 1 {
		t.Errorf("expected 1 argument, got %d", len(call.Arguments))
	}
}

func TestExpr_ListLiterals(t *testing.T) {
	list := parseExpr(t, "[a, b + c, 3]").(*ListLiteralExpr)
	if len(list.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(list.Elements))
	}
	empty := parseExpr(t, "[]").(*ListLiteralExpr)
	if len(empty.Elements) != 0 {
		t.Errorf("expected empty list, got %d elements", len(empty.Elements))
	}
}

func TestExpr_Literals(t *testing.T) {
	if lit := parseExpr(t, "42").(*LiteralExpr); lit.Type != TypeNumber {
		t.Errorf("expected number literal, got %s", lit.Type)
	}
	if lit := parseExpr(t, "4.5").(*LiteralExpr); lit.Type != TypeDecimal {
		t.Errorf("expected decimal literal, got %s", lit.Type)
	}
	if lit := parseExpr(t, "true").(*LiteralExpr); lit.Type != TypeBoolean {
		t.Errorf("expected boolean literal, got %s", lit.Type)
	}
	if lit := parseExpr(t, "null").(*LiteralExpr); lit.Type != TypeNull {
		t.Errorf("expected null literal, got %s", lit.Type)
	}
}

func TestExpr_CompositeStringReconstruction(t *testing.T) {
	lit := parseExpr(t, `"a=@a b=@b"`).(*StringLitExpr)
	if len(lit.Content) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(lit.Content))
	}
	c0 := lit.Content[0].(*StringContent)
	if c0.Text != "a=" {
		t.Errorf("expected content 'a=', got %q", c0.Text)
	}
	i1 := lit.Content[1].(*StringInsertion)
	if i1.Name.Name != "a" {
		t.Errorf("expected insertion of 'a', got %q", i1.Name.Name)
	}
	c2 := lit.Content[2].(*StringContent)
	if c2.Text != " b=" {
		t.Errorf("expected content ' b=', got %q", c2.Text)
	}
	i3 := lit.Content[3].(*StringInsertion)
	if i3.Name.Name != "b" {
		t.Errorf("expected insertion of 'b', got %q", i3.Name.Name)
	}
}

func TestExpr_InterpolationOnlyString(t *testing.T) {
	lit := parseExpr(t, `"@a"`).(*StringLitExpr)
	if len(lit.Content) != 1 {
		t.Fatalf("expected 1 part, got %d", len(lit.Content))
	}
	if _, ok := lit.Content[0].(*StringInsertion); !ok {
		t.Errorf("expected a single insertion, got %T", lit.Content[0])
	}
}

// flattenExpr reconstructs the in-order operator-and-leaf token sequence of
// an expression (grouping parentheses are absorbed by precedence)
func flattenExpr(expr ExprNode) []string {
	switch e := expr.(type) {
	case *BinaryExpr:
		out := flattenExpr(e.Left)
		out = append(out, operatorLexeme(e.Operator))
		return append(out, flattenExpr(e.Right)...)
	case *UnaryExpr:
		return append([]string{operatorLexeme(e.Operator)}, flattenExpr(e.Operand)...)
	case *IdentifierExpr:
		return []string{e.Name}
	case *LiteralExpr:
		return []string{e.Raw}
	default:
		return []string{"?"}
	}
}

func operatorLexeme(t lexer.TokenType) string {
	lexemes := map[lexer.TokenType]string{
		lexer.OP_ADD: "+", lexer.OP_SUB: "-", lexer.OP_MUL: "*", lexer.OP_DIV: "/",
		lexer.OP_INT_DIV: "//", lexer.OP_MOD: "%", lexer.OP_EXP: "^",
		lexer.OP_EQ: "==", lexer.OP_NEQ: "!=", lexer.OP_LT: "<", lexer.OP_GT: ">",
		lexer.OP_LTE: "<=", lexer.OP_GTE: ">=", lexer.OP_AND: "&&", lexer.OP_OR: "||",
		lexer.OP_NOT: "!", lexer.OP_INC: "++", lexer.OP_DEC: "--",
	}
	return lexemes[t]
}

func TestExpr_RoundTripTokenOrder(t *testing.T) {
	inputs := []string{
		"a + b * c - 2",
		"a ^ b ^ 2 % c",
		"! a && b || c == 3",
		"1 <= a // b",
	}
	for _, input := range inputs {
		got := strings.Join(flattenExpr(parseExpr(t, input)), " ")
		if got != input {
			t.Errorf("round trip of %q produced %q", input, got)
		}
	}
}
