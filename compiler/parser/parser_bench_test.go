package parser

import (
	"strings"
	"testing"

	"github.com/echo-lang/echo/compiler/lexer"
)

func benchTokens(b *testing.B, source string) []lexer.Token {
	b.Helper()
	tokens := lexer.New(source).ScanTokens()
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == lexer.COMMENT_SINGLE || tok.Type == lexer.COMMENT_MULTI {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

func BenchmarkParse(b *testing.B) {
	source := `start
number total = 0
for i = 1 to 100
total += i * 2 - 1
if total > 50 && i % 2 == 0
echo "i=@i total=@total"
end if
end for
end`
	tokens := benchTokens(b, source)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := New(tokens)
		p.Parse()
	}
}

func BenchmarkParseLarge(b *testing.B) {
	source := "start\n" + strings.Repeat("number v = 1 + 2 * 3 ^ 2\necho \"v=@v\"\n", 300) + "end"
	tokens := benchTokens(b, source)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := New(tokens)
		p.Parse()
	}
}
