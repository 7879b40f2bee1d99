// Package token defines the lexical tokens of the TypeScript subset understood
// by storelint.
//
// Words are never classified as keywords by the lexer. TypeScript has many
// contextual keywords (type, readonly, implements, as, ...) so the parser
// decides by literal; IsReserved reports the words that can never be
// identifiers.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType mirrors the naming used across the parser
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT    // store, Store, inject
	NUMBER   // 123, 4.5, 0x1f
	STRING   // 'a' or "a"
	TEMPLATE // `a ${b}`, kept raw
	REGEX    // /ab+c/g

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	SEMI     // ;
	COMMA    // ,
	DOT      // .
	ELLIPSIS // ...
	QUESTION // ?
	QDOT     // ?.
	QQ       // ??
	COLON    // :
	ARROW    // =>
	AT       // @
	HASH     // #

	// Operators
	ASSIGN    // =
	EQ        // ==
	STRICTEQ  // ===
	NE        // !=
	STRICTNE  // !==
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	BANG      // !
	TILDE     // ~
	AMP       // &
	PIPE      // |
	CARET     // ^
	AND       // &&
	OR        // ||
	INC       // ++
	DEC       // --
	OPASSIGN  // += -= *= /= %= &&= ||= ??=
	maxBuiltin
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:      "EOF",
	ILLEGAL:  "ILLEGAL",
	IDENT:    "IDENT",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	TEMPLATE: "TEMPLATE",
	REGEX:    "REGEX",

	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",
	SEMI:     ";",
	COMMA:    ",",
	DOT:      ".",
	ELLIPSIS: "...",
	QUESTION: "?",
	QDOT:     "?.",
	QQ:       "??",
	COLON:    ":",
	ARROW:    "=>",
	AT:       "@",
	HASH:     "#",

	ASSIGN:   "=",
	EQ:       "==",
	STRICTEQ: "===",
	NE:       "!=",
	STRICTNE: "!==",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	BANG:     "!",
	TILDE:    "~",
	AMP:      "&",
	PIPE:     "|",
	CARET:    "^",
	AND:      "&&",
	OR:       "||",
	INC:      "++",
	DEC:      "--",
	OPASSIGN: "op=",
}

// reserved lists words that can never be used as identifiers.
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
}

// IsReserved reports whether word is a reserved word.
func IsReserved(word string) bool {
	return reserved[word]
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= ASSIGN && t < maxBuiltin
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     Position

	// NewlineBefore is set when a line terminator separates this token from
	// the previous one. Used for automatic semicolon insertion.
	NewlineBefore bool
}

// Span returns the source range covered by the token.
func (t Token) Span() Span {
	return Span{Start: t.Pos, End: t.End}
}

// Is reports whether the token is an IDENT with the given literal.
func (t Token) Is(word string) bool {
	return t.Type == IDENT && t.Literal == word
}
