package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/storelint/pkg/token"
)

// Lexer tokenizes TypeScript source.
type Lexer struct {
	input   string
	limit   int  // end of the lexed region (exclusive)
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // line of ch (1-based)
	col     int  // column of ch (1-based)

	prev    token.TokenType // type of the previously emitted token
	prevLit string
	newline bool // a line terminator was skipped before the current token

	// Comments collected during lexing.
	Comments []token.Comment
	// Errors collected during lexing. The lexer never stops early.
	Errors []error
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	return newLexerAt(input, 0, len(input), token.Position{Line: 1, Column: 1, Offset: 0})
}

// newLexerAt lexes input[start:end] keeping absolute positions. at is the
// position of input[start].
func newLexerAt(input string, start, end int, at token.Position) *Lexer {
	l := &Lexer{
		input:   input,
		limit:   end,
		readPos: start,
		line:    at.Line,
		col:     at.Column - 1,
		prev:    token.ILLEGAL,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= l.limit {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= l.limit {
		return 0
	}
	return l.input[l.readPos]
}

// peekChar2 returns the character after the next one.
func (l *Lexer) peekChar2() byte {
	if l.readPos+1 >= l.limit {
		return 0
	}
	return l.input[l.readPos+1]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEOF() bool { return l.pos >= l.limit }

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.newline = false
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	tok := token.Token{Pos: pos, NewlineBefore: l.newline}

	if l.atEOF() {
		tok.Type = token.EOF
		tok.End = pos
		return tok
	}

	switch ch := l.ch; {
	case isIdentStart(ch):
		tok.Type = token.IDENT
		tok.Literal = l.readIdentifier()
	case isDigit(ch) || (ch == '.' && isDigit(l.peekChar())):
		tok.Type = token.NUMBER
		tok.Literal = l.readNumber()
	case ch == '\'' || ch == '"':
		tok.Type = token.STRING
		tok.Literal = l.readString(ch)
	case ch == '`':
		tok.Type = token.TEMPLATE
		tok.Literal = l.readTemplate()
	case ch == '/' && l.regexAllowed():
		tok.Type = token.REGEX
		tok.Literal = l.readRegex()
	default:
		tok.Type, tok.Literal = l.readPunct()
	}

	tok.End = l.currentPos()
	l.prev = tok.Type
	l.prevLit = tok.Literal
	return tok
}

// punctuators ordered longest first within each leading byte.
var punctuators = []struct {
	text string
	typ  token.TokenType
}{
	{"...", token.ELLIPSIS},
	{"===", token.STRICTEQ},
	{"!==", token.STRICTNE},
	{"&&=", token.OPASSIGN},
	{"||=", token.OPASSIGN},
	{"??=", token.OPASSIGN},
	{"=>", token.ARROW},
	{"==", token.EQ},
	{"!=", token.NE},
	{"<=", token.LE},
	{">=", token.GE},
	{"&&", token.AND},
	{"||", token.OR},
	{"??", token.QQ},
	{"++", token.INC},
	{"--", token.DEC},
	{"+=", token.OPASSIGN},
	{"-=", token.OPASSIGN},
	{"*=", token.OPASSIGN},
	{"/=", token.OPASSIGN},
	{"%=", token.OPASSIGN},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{";", token.SEMI},
	{",", token.COMMA},
	{".", token.DOT},
	{"?", token.QUESTION},
	{":", token.COLON},
	{"@", token.AT},
	{"#", token.HASH},
	{"=", token.ASSIGN},
	{"<", token.LT},
	{">", token.GT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.STAR},
	{"/", token.SLASH},
	{"%", token.PERCENT},
	{"!", token.BANG},
	{"~", token.TILDE},
	{"&", token.AMP},
	{"|", token.PIPE},
	{"^", token.CARET},
}

// readPunct reads an operator or punctuation token. `?.` followed by a digit
// is a conditional followed by a number, not optional chaining.
func (l *Lexer) readPunct() (token.TokenType, string) {
	rest := l.input[l.pos:l.limit]
	if strings.HasPrefix(rest, "?.") && !(len(rest) > 2 && isDigit(rest[2])) {
		l.advance(2)
		return token.QDOT, "?."
	}
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p.text) {
			l.advance(len(p.text))
			return p.typ, p.text
		}
	}
	_, size := utf8.DecodeRuneInString(rest)
	lit := rest[:size]
	l.errorf(l.currentPos(), "unexpected character %q", lit)
	l.advance(size)
	return token.ILLEGAL, lit
}

func (l *Lexer) advance(n int) {
	for range n {
		l.readChar()
	}
}

// regexAllowed decides whether a slash starts a regular expression, based
// on the previous token.
func (l *Lexer) regexAllowed() bool {
	if l.peekChar() == '/' || l.peekChar() == '*' {
		return false
	}
	switch l.prev {
	case token.NUMBER, token.STRING, token.TEMPLATE, token.REGEX,
		token.RPAREN, token.RBRACKET, token.RBRACE, token.INC, token.DEC:
		return false
	case token.IDENT:
		switch l.prevLit {
		case "return", "typeof", "case", "do", "else", "in", "of", "new", "delete", "void", "throw", "instanceof", "yield", "await":
			return true
		}
		return false
	}
	return true
}

// skipWhitespaceAndComments skips whitespace and collects comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case l.ch == '\n':
			l.newline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\f' || l.ch == '\v':
			l.readChar()
		case l.ch == 0xEF && l.peekChar() == 0xBB && l.peekChar2() == 0xBF:
			l.advance(3) // byte order mark
		case l.ch == '/' && l.peekChar() == '/':
			l.collectLineComment()
		case l.ch == '/' && l.peekChar() == '*':
			l.collectBlockComment()
		default:
			return
		}
	}
}

// collectLineComment collects a line comment.
func (l *Lexer) collectLineComment() {
	startPos := l.currentPos()
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
	end := l.pos
	if end > startPos.Offset && l.input[end-1] == '\r' {
		end--
	}
	l.Comments = append(l.Comments, token.Comment{
		Kind: token.LineComment,
		Text: l.input[startPos.Offset:end],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// collectBlockComment collects a block comment.
func (l *Lexer) collectBlockComment() {
	startPos := l.currentPos()
	l.advance(2)
	closed := false
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.advance(2)
			closed = true
			break
		}
		if l.ch == '\n' {
			l.newline = true
		}
		l.readChar()
	}
	if !closed {
		l.errorf(startPos, ErrUnterminatedComment)
	}
	l.Comments = append(l.Comments, token.Comment{
		Kind: token.BlockComment,
		Text: l.input[startPos.Offset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// readString reads a quoted string literal and returns its raw text
// including quotes.
func (l *Lexer) readString(quote byte) string {
	start := l.currentPos()
	l.readChar() // skip opening quote
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			l.errorf(start, ErrUnterminatedString)
			return l.input[start.Offset:l.pos]
		case l.ch == '\\':
			l.advance(2)
		case l.ch == quote:
			l.readChar()
			return l.input[start.Offset:l.pos]
		default:
			l.readChar()
		}
	}
}

// readTemplate reads a template literal including nested substitutions and
// returns its raw text including backticks.
func (l *Lexer) readTemplate() string {
	start := l.currentPos()
	l.readChar() // skip opening backtick
	depth := 0
	for !l.atEOF() {
		switch {
		case l.ch == '\\':
			l.advance(2)
			continue
		case depth == 0 && l.ch == '`':
			l.readChar()
			return l.input[start.Offset:l.pos]
		case depth == 0 && l.ch == '$' && l.peekChar() == '{':
			depth++
			l.advance(2)
			continue
		case depth > 0 && l.ch == '{':
			depth++
		case depth > 0 && l.ch == '}':
			depth--
		case depth > 0 && (l.ch == '\'' || l.ch == '"'):
			l.readString(l.ch)
			continue
		case depth > 0 && l.ch == '`':
			l.readTemplate()
			continue
		}
		l.readChar()
	}
	l.errorf(start, ErrUnterminatedTemplate)
	return l.input[start.Offset:l.pos]
}

// readRegex reads a regular expression literal with its flags.
func (l *Lexer) readRegex() string {
	start := l.currentPos()
	l.readChar() // skip '/'
	inClass := false
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			l.errorf(start, ErrUnterminatedRegex)
			return l.input[start.Offset:l.pos]
		case l.ch == '\\':
			l.advance(2)
			continue
		case l.ch == '[':
			inClass = true
		case l.ch == ']':
			inClass = false
		case l.ch == '/' && !inClass:
			l.readChar()
			for isIdentPart(l.ch) {
				l.readChar()
			}
			return l.input[start.Offset:l.pos]
		}
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) && !l.atEOF() {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, scientific, hex,
// octal, binary, bigint, with numeric separators).
func (l *Lexer) readNumber() string {
	start := l.pos
	if l.ch == '0' && strings.IndexByte("xXoObB", l.peekChar()) >= 0 {
		l.advance(2)
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		if l.ch == '.' && l.peekChar() != '.' {
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if l.ch == 'n' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || ch >= utf8.RuneSelf || unicode.IsLetter(rune(ch))
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Tokenize returns all tokens from the input, ending with EOF.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
