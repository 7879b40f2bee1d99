package parser_test

import (
	"testing"

	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/token"
	"github.com/stretchr/testify/assert"
)

func tokenTypes(src string) []token.TokenType {
	var out []token.TokenType
	for _, tok := range parser.Tokenize(src) {
		out = append(out, tok.Type)
	}
	return out
}

func TestLexerPunctuation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.TokenType
	}{
		{"optional chaining", "a?.b ?? c", []token.TokenType{token.IDENT, token.QDOT, token.IDENT, token.QQ, token.IDENT, token.EOF}},
		{"conditional before decimal", "a?.5:1", []token.TokenType{token.IDENT, token.QUESTION, token.NUMBER, token.COLON, token.NUMBER, token.EOF}},
		{"nested generics close separately", "A<B<C>>", []token.TokenType{token.IDENT, token.LT, token.IDENT, token.LT, token.IDENT, token.GT, token.GT, token.EOF}},
		{"arrow and spread", "(...a) => a", []token.TokenType{token.LPAREN, token.ELLIPSIS, token.IDENT, token.RPAREN, token.ARROW, token.IDENT, token.EOF}},
		{"compound assignment", "a ??= b", []token.TokenType{token.IDENT, token.OPASSIGN, token.IDENT, token.EOF}},
		{"strict equality", "a !== b", []token.TokenType{token.IDENT, token.STRICTNE, token.IDENT, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenTypes(tt.src))
		})
	}
}

func TestLexerPositions(t *testing.T) {
	toks := parser.Tokenize("a\n  bb")
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 4}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 5, Offset: 6}, toks[1].End)
	assert.True(t, toks[1].NewlineBefore)
	assert.False(t, toks[0].NewlineBefore)
}

func TestLexerLiterals(t *testing.T) {
	toks := parser.Tokenize("1_000n 0xFF 'a\\'b' `t ${x}` (/re/i)")
	assert.Equal(t, "1_000n", toks[0].Literal)
	assert.Equal(t, "0xFF", toks[1].Literal)
	assert.Equal(t, `'a\'b'`, toks[2].Literal)
	assert.Equal(t, token.TEMPLATE, toks[3].Type)
	assert.Equal(t, token.REGEX, toks[5].Type)
	assert.Equal(t, "/re/i", toks[5].Literal)
}
