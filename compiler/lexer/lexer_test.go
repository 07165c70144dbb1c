package lexer

import "testing"

// scan is a test helper returning the token stream for source
func scan(source string) []Token {
	return New(source).ScanTokens()
}

// kinds extracts just the token types
func kinds(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, t := range tokens {
		out[i] = t.Type
	}
	return out
}

func expectKinds(t *testing.T, source string, want ...TokenType) []Token {
	t.Helper()
	tokens := scan(source)
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("source %q: expected %d tokens, got %d: %v", source, len(want), len(got), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source %q: token %d: expected %s, got %s (%q)", source, i, want[i], got[i], tokens[i].Lexeme)
		}
	}
	return tokens
}

func TestLexer_Keywords(t *testing.T) {
	expectKinds(t, "start end echo input function",
		KW_START, KW_END, KW_ECHO, KW_INPUT, KW_FUNCTION)
	expectKinds(t, "number decimal string boolean list",
		KW_NUMBER, KW_DECIMAL, KW_STRING, KW_BOOLEAN, KW_LIST)
	expectKinds(t, "for while do if else switch case default",
		KW_FOR, KW_WHILE, KW_DO, KW_IF, KW_ELSE, KW_SWITCH, KW_CASE, KW_DEFAULT)
	expectKinds(t, "null true false continue break return new this data struct",
		RW_NULL, RW_TRUE, RW_FALSE, RW_CONTINUE, RW_BREAK, RW_RETURN, RW_NEW, RW_THIS, RW_DATA, RW_STRUCT)
	expectKinds(t, "with to by", NW_WITH, NW_TO, NW_BY)
}

func TestLexer_KeywordsAreCaseInsensitive(t *testing.T) {
	tokens := expectKinds(t, "Start ECHO While", KW_START, KW_ECHO, KW_WHILE)
	if tokens[0].Lexeme != "Start" {
		t.Errorf("expected verbatim lexeme 'Start', got %q", tokens[0].Lexeme)
	}
}

func TestLexer_Identifiers(t *testing.T) {
	tokens := expectKinds(t, "foo _bar baz_2", ID, ID, ID)
	if tokens[1].Lexeme != "_bar" {
		t.Errorf("expected lexeme '_bar', got %q", tokens[1].Lexeme)
	}
}

func TestLexer_Operators(t *testing.T) {
	expectKinds(t, "< > = + - * / % ^ !",
		OP_LT, OP_GT, OP_ASSIGN, OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD, OP_EXP, OP_NOT)
	expectKinds(t, "<= >= == != && ||",
		OP_LTE, OP_GTE, OP_EQ, OP_NEQ, OP_AND, OP_OR)
	expectKinds(t, "a += b", ID, OP_ADD_ASSIGN, ID)
	expectKinds(t, "a ++", ID, OP_INC)
}

func TestLexer_OperatorRunTypoIsOneUnknown(t *testing.T) {
	tokens := expectKinds(t, "a <=> b", ID, UNKNOWN, ID)
	if tokens[1].Lexeme != "<=>" {
		t.Errorf("expected whole run '<=>' in one UNKNOWN, got %q", tokens[1].Lexeme)
	}
}

func TestLexer_Delimiters(t *testing.T) {
	expectKinds(t, "( ) [ ] { } , . :",
		DEL_LPAREN, DEL_RPAREN, DEL_LBRACK, DEL_RBRACK, DEL_LBRACE, DEL_RBRACE,
		DEL_COMMA, DEL_PERIOD, DEL_COLON)
}

func TestLexer_SemicolonIsUnknown(t *testing.T) {
	tokens := expectKinds(t, "x = 1;", ID, OP_ASSIGN, NUM_LITERAL, UNKNOWN)
	if tokens[3].Lexeme != ";" {
		t.Errorf("expected ';' lexeme, got %q", tokens[3].Lexeme)
	}
}

func TestLexer_Numbers(t *testing.T) {
	expectKinds(t, "0 42 1000", NUM_LITERAL, NUM_LITERAL, NUM_LITERAL)
	expectKinds(t, "1.5 .25 2e10 3.5E-2", DEC_LITERAL, DEC_LITERAL, DEC_LITERAL, DEC_LITERAL)
}

func TestLexer_MalformedNumberIsOneUnknown(t *testing.T) {
	tokens := expectKinds(t, "123abc", UNKNOWN)
	if tokens[0].Lexeme != "123abc" {
		t.Errorf("expected UNKNOWN spanning '123abc', got %q", tokens[0].Lexeme)
	}
}

func TestLexer_SignedNumberAfterOperatorOrOpener(t *testing.T) {
	// After '=' the sign belongs to the literal
	tokens := expectKinds(t, "x = -1", ID, OP_ASSIGN, NUM_LITERAL)
	if tokens[2].Lexeme != "-1" {
		t.Errorf("expected signed literal '-1', got %q", tokens[2].Lexeme)
	}
	expectKinds(t, "f(-2, +3)", ID, DEL_LPAREN, NUM_LITERAL, DEL_COMMA, NUM_LITERAL, DEL_RPAREN)
}

func TestLexer_MinusAfterOperandIsOperator(t *testing.T) {
	// a-1 must not lex as a, -1
	expectKinds(t, "a-1", ID, OP_SUB, NUM_LITERAL)
	expectKinds(t, "3 -2", NUM_LITERAL, OP_SUB, NUM_LITERAL)
}

func TestLexer_CommentAtLineStart(t *testing.T) {
	tokens := expectKinds(t, "// a comment", COMMENT_SINGLE)
	if tokens[0].Lexeme != "// a comment" {
		t.Errorf("expected full comment lexeme, got %q", tokens[0].Lexeme)
	}
	// Leading whitespace still counts as line start
	expectKinds(t, "   // indented", COMMENT_SINGLE)
}

func TestLexer_IntegerDivisionAfterCode(t *testing.T) {
	tokens := expectKinds(t, "n = 10 // 3", ID, OP_ASSIGN, NUM_LITERAL, OP_INT_DIV, NUM_LITERAL)
	if tokens[3].Lexeme != "//" {
		t.Errorf("expected '//' operator lexeme, got %q", tokens[3].Lexeme)
	}
}

func TestLexer_BlockComment(t *testing.T) {
	tokens := expectKinds(t, "a /* one\ntwo */ b", ID, COMMENT_MULTI, ID)
	if tokens[2].Line != 2 {
		t.Errorf("expected 'b' on line 2, got %d", tokens[2].Line)
	}
}

func TestLexer_UnterminatedBlockCommentIsNotAnError(t *testing.T) {
	expectKinds(t, "a /* never closed", ID, COMMENT_MULTI)
}

func TestLexer_SimpleString(t *testing.T) {
	tokens := expectKinds(t, `"Hello"`, STR_LITERAL)
	if tokens[0].Lexeme != `"Hello"` {
		t.Errorf("expected re-wrapped lexeme, got %q", tokens[0].Lexeme)
	}
}

func TestLexer_EmptyString(t *testing.T) {
	tokens := expectKinds(t, `""`, STR_LITERAL)
	if tokens[0].Lexeme != `""` {
		t.Errorf("expected empty string lexeme, got %q", tokens[0].Lexeme)
	}
}

func TestLexer_StringInterpolationSplits(t *testing.T) {
	tokens := expectKinds(t, `echo "x=@x y=@y"`,
		KW_ECHO, STR_LITERAL, SIS_MARKER, STR_LITERAL, SIS_MARKER)
	if tokens[1].Lexeme != `"x="` {
		t.Errorf("expected fragment lexeme %q, got %q", `"x="`, tokens[1].Lexeme)
	}
	if tokens[2].Lexeme != "@x" {
		t.Errorf("expected marker lexeme '@x', got %q", tokens[2].Lexeme)
	}
	if tokens[3].Lexeme != `" y="` {
		t.Errorf("expected fragment lexeme %q, got %q", `" y="`, tokens[3].Lexeme)
	}
	if tokens[4].Lexeme != "@y" {
		t.Errorf("expected marker lexeme '@y', got %q", tokens[4].Lexeme)
	}
}

func TestLexer_StringOnlyInterpolation(t *testing.T) {
	expectKinds(t, `"@x"`, SIS_MARKER)
}

func TestLexer_SpaceAfterAtInString(t *testing.T) {
	tokens := expectKinds(t, `"@ bad"`, UNKNOWN, STR_LITERAL)
	if tokens[0].Lexeme != "@ " {
		t.Errorf("expected '@ ' lexeme, got %q", tokens[0].Lexeme)
	}
	if tokens[1].Lexeme != `"bad"` {
		t.Errorf("expected resumed fragment, got %q", tokens[1].Lexeme)
	}
}

func TestLexer_EscapesCarriedVerbatim(t *testing.T) {
	tokens := expectKinds(t, `"a\nb\"c"`, STR_LITERAL)
	if tokens[0].Lexeme != `"a\nb\"c"` {
		t.Errorf("expected verbatim escapes, got %q", tokens[0].Lexeme)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	tokens := expectKinds(t, `"open`, UNKNOWN)
	if tokens[0].Lexeme != `"open` {
		t.Errorf("expected open span as lexeme, got %q", tokens[0].Lexeme)
	}
}

func TestLexer_MarkerOutsideString(t *testing.T) {
	tokens := expectKinds(t, "@name", SIS_MARKER)
	if tokens[0].Lexeme != "@name" {
		t.Errorf("expected '@name', got %q", tokens[0].Lexeme)
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens := scan("start\n  echo x\nend")
	want := []struct {
		line, column int
	}{
		{1, 1}, // start
		{2, 3}, // echo
		{2, 8}, // x
		{3, 1}, // end
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, w := range want {
		if tokens[i].Line != w.line || tokens[i].Column != w.column {
			t.Errorf("token %d (%q): expected %d:%d, got %d:%d",
				i, tokens[i].Lexeme, w.line, w.column, tokens[i].Line, tokens[i].Column)
		}
	}
}

func TestLexer_PositionsAreMonotonic(t *testing.T) {
	tokens := scan("start\nnumber x = 1\necho \"a@b c\"\nend")
	prevLine, prevColumn := 0, 0
	for _, tok := range tokens {
		if tok.Line < prevLine || (tok.Line == prevLine && tok.Column < prevColumn) {
			t.Fatalf("token %s goes backward from %d:%d", tok, prevLine, prevColumn)
		}
		prevLine, prevColumn = tok.Line, tok.Column
	}
}

func TestLexer_TabWidth(t *testing.T) {
	tokens := scan("\tx")
	if tokens[0].Column != 5 {
		t.Errorf("expected column 5 after one tab, got %d", tokens[0].Column)
	}
}

func TestLexer_NoBreakSpaceAndZeroWidthStripped(t *testing.T) {
	// U+00A0 becomes a plain space; U+200B is removed entirely
	expectKinds(t, "a b", ID, ID)
	tokens := expectKinds(t, "a​b", ID)
	if tokens[0].Lexeme != "ab" {
		t.Errorf("expected zero-width mark stripped, got %q", tokens[0].Lexeme)
	}
}

func TestLexer_CarriageReturnsIgnored(t *testing.T) {
	tokens := scan("start\r\nend")
	if tokens[1].Line != 2 {
		t.Errorf("expected 'end' on line 2, got %d", tokens[1].Line)
	}
}

func TestLexer_EmptySource(t *testing.T) {
	if tokens := scan(""); len(tokens) != 0 {
		t.Errorf("expected no tokens for empty source, got %v", tokens)
	}
}

func TestLexer_UnknownCharacters(t *testing.T) {
	tokens := expectKinds(t, `\`, UNKNOWN)
	if tokens[0].Lexeme != `\` {
		t.Errorf("expected backslash lexeme, got %q", tokens[0].Lexeme)
	}
}
