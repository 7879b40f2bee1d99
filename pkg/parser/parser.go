// Package parser provides a recursive descent parser for the TypeScript
// subset found in state-management code: modules, classes with decorators,
// functions, arrow functions, the usual statements and expressions, and the
// type grammar (references, unions, intersections, literals, object types,
// tuples, function types and typeof queries).
//
// # Usage
//
//	doc, err := parser.Parse("app.effects.ts", src)
//	if err != nil {
//	    // handle error; errors.Is(err, parser.ErrSyntax) holds
//	}
//
// The result is a syntax.Document whose nodes follow the typescript-estree
// vocabulary. Conditional and mapped types, JSX, labels, generators and
// class expressions are not supported and produce a ParseError.
//
// # Grammar Overview
//
//	program     → statement*
//	statement   → import | export | class | function | variable | type_alias
//	              | interface | enum | if | return | throw | switch | try
//	              | for | while | block | expression_statement
//	expression  → assignment
//	assignment  → arrow | conditional [assign_op assignment]
//	conditional → binary ['?' assignment ':' assignment]
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Parser parses TypeScript into a syntax.Document.
type Parser struct {
	b        *syntax.Builder
	filename string
	text     string
	toks     []token.Token
	i        int
	token    token.Token    // current token
	prevEnd  token.Position // end of the last consumed token
	noIn     bool           // `in` is not a binary operator (for-in heads)
}

type bailout struct{ err error }

// Parse parses src and returns its document. The first syntax error aborts
// the parse.
func Parse(filename, src string) (doc *syntax.Document, err error) {
	lex := NewLexer(src)
	b := syntax.NewBuilder(filename, src)
	var toks []token.Token
	for {
		tok := lex.NextToken()
		toks = append(toks, tok)
		b.Token(tok)
		if tok.Type == token.EOF {
			break
		}
	}
	for _, c := range lex.Comments {
		b.Comment(c)
	}
	if len(lex.Errors) > 0 {
		var le *LexError
		if errors.As(lex.Errors[0], &le) {
			return nil, &ParseError{Filename: filename, Pos: le.Pos, Message: le.Message}
		}
		return nil, lex.Errors[0]
	}

	p := newParser(b, filename, src, toks)
	defer func() {
		if r := recover(); r != nil {
			bo, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			doc, err = nil, bo.err
		}
	}()
	root := p.parseProgram()
	return b.Finish(root)
}

// MustParse is like Parse but panics on error. Intended for tests.
func MustParse(filename, src string) *syntax.Document {
	doc, err := Parse(filename, src)
	if err != nil {
		panic(err)
	}
	return doc
}

func newParser(b *syntax.Builder, filename, text string, toks []token.Token) *Parser {
	p := &Parser{b: b, filename: filename, text: text, toks: toks}
	p.token = toks[0]
	p.prevEnd = toks[0].Pos
	return p
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.token.Type == token.EOF {
		return
	}
	p.prevEnd = p.token.End
	p.i++
	p.token = p.toks[p.i]
}

// peek returns the token n positions ahead of the current one.
func (p *Parser) peek(n int) token.Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkWord returns true if the current token is the identifier word.
func (p *Parser) checkWord(word string) bool {
	return p.token.Is(word)
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// matchWord consumes the current token if it is the given word.
func (p *Parser) matchWord(word string) bool {
	if p.checkWord(word) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise bails out.
func (p *Parser) expect(t token.TokenType) token.Token {
	tok := p.token
	if !p.match(t) {
		p.errorf(ErrUnexpectedToken, describe(p.token), t)
	}
	return tok
}

// expectWord consumes the given word or bails out.
func (p *Parser) expectWord(word string) {
	if !p.matchWord(word) {
		p.errorf(ErrUnexpectedToken, describe(p.token), fmt.Sprintf("%q", word))
	}
}

// expectIdent consumes a non-reserved identifier and returns it.
func (p *Parser) expectIdent() token.Token {
	tok := p.token
	if tok.Type != token.IDENT || token.IsReserved(tok.Literal) {
		p.errorf(ErrUnexpectedToken, describe(tok), "identifier")
	}
	p.nextToken()
	return tok
}

// semicolon consumes a statement terminator, applying automatic semicolon
// insertion before '}', EOF and line breaks.
func (p *Parser) semicolon() {
	if p.match(token.SEMI) || p.check(token.RBRACE) || p.check(token.EOF) || p.token.NewlineBefore {
		return
	}
	p.errorf(ErrMissingSemicolon, describe(p.token))
}

func (p *Parser) errorf(format string, args ...any) {
	panic(bailout{err: &ParseError{Filename: p.filename, Pos: p.token.Pos, Message: fmt.Sprintf(format, args...)}})
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT, token.NUMBER, token.STRING:
		return fmt.Sprintf("%q", tok.Literal)
	}
	return tok.Type.String()
}

// ---------- Node Helpers ----------

// finish allocates a node spanning from start to the last consumed token.
func (p *Parser) finish(kind syntax.Kind, start token.Position) *syntax.Node {
	return p.b.New(kind, token.Span{Start: start, End: p.prevEnd})
}

// ident allocates an Identifier for tok.
func (p *Parser) ident(tok token.Token) *syntax.Node {
	n := p.b.New(syntax.Identifier, tok.Span())
	n.Name = tok.Literal
	return n
}

// extend widens n's span to end at the last consumed token.
func (p *Parser) extend(n *syntax.Node) {
	n.Span.End = p.prevEnd
}

// ---------- Program ----------

// parseProgram parses statements until EOF.
func (p *Parser) parseProgram() *syntax.Node {
	var body []*syntax.Node
	for !p.check(token.EOF) {
		body = append(body, p.parseStatement())
	}
	end := p.token.Pos
	prog := p.b.New(syntax.Program, token.Span{Start: token.Position{Line: 1, Column: 1}, End: end})
	p.b.Append(prog, syntax.FieldBody, body...)
	return prog
}
