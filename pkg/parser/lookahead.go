package parser

import "github.com/leapstack-labs/storelint/pkg/token"

// Arbitrary lookahead over the token stream. Used where TypeScript needs
// speculative parsing: arrow functions and explicit type arguments on calls.

var closers = map[token.TokenType]token.TokenType{
	token.LPAREN:   token.RPAREN,
	token.LBRACKET: token.RBRACKET,
	token.LBRACE:   token.RBRACE,
}

// matchingClose returns the index of the bracket closing toks[i], or -1.
func (p *Parser) matchingClose(i int) int {
	if _, ok := closers[p.toks[i].Type]; !ok {
		return -1
	}
	var stack []token.TokenType
	for j := i; j < len(p.toks); j++ {
		t := p.toks[j].Type
		if c, ok := closers[t]; ok {
			stack = append(stack, c)
			continue
		}
		switch t {
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if len(stack) == 0 || stack[len(stack)-1] != t {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return j
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}

// angleEnd returns the index of the '>' closing the '<' at toks[i] when the
// tokens between can only be a type argument list, or -1.
func (p *Parser) angleEnd(i int) int {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				return j
			}
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			if j = p.matchingClose(j); j < 0 {
				return -1
			}
		case token.IDENT, token.STRING, token.NUMBER, token.DOT, token.COMMA,
			token.PIPE, token.AMP, token.QUESTION, token.COLON, token.ARROW,
			token.MINUS, token.ELLIPSIS:
		default:
			return -1
		}
	}
	return -1
}

// typeArgumentsAhead reports whether the '<' at the current token opens
// type arguments followed by a call.
func (p *Parser) typeArgumentsAhead() bool {
	end := p.angleEnd(p.i)
	return end > 0 && end+1 < len(p.toks) && p.toks[end+1].Type == token.LPAREN
}

// arrowAhead reports whether an arrow function starts at the current token.
func (p *Parser) arrowAhead() bool {
	i := p.i
	if p.toks[i].Is("async") && !p.toks[i+1].NewlineBefore &&
		(p.toks[i+1].Type == token.IDENT || p.toks[i+1].Type == token.LPAREN || p.toks[i+1].Type == token.LT) {
		if p.toks[i+1].Type == token.IDENT && p.toks[i+2].Type == token.ARROW {
			return true
		}
		if p.toks[i+1].Type != token.IDENT {
			i++
		}
	}
	return p.arrowAt(i)
}

func (p *Parser) arrowAt(i int) bool {
	switch t := p.toks[i]; t.Type {
	case token.IDENT:
		return !token.IsReserved(t.Literal) && p.toks[i+1].Type == token.ARROW && !p.toks[i+1].NewlineBefore
	case token.LT:
		end := p.angleEnd(i)
		return end > 0 && p.toks[end+1].Type == token.LPAREN && p.arrowAt(end+1)
	case token.LPAREN:
		end := p.matchingClose(i)
		if end < 0 {
			return false
		}
		switch p.toks[end+1].Type {
		case token.ARROW:
			return !p.toks[end+1].NewlineBefore
		case token.COLON:
			return p.returnTypeThenArrow(end + 2)
		}
	}
	return false
}

// returnTypeThenArrow scans a return type annotation starting at toks[i]
// and reports whether '=>' follows it.
func (p *Parser) returnTypeThenArrow(i int) bool {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].Type {
		case token.ARROW:
			if depth == 0 {
				return true
			}
		case token.LPAREN, token.LBRACKET, token.LBRACE:
			if j = p.matchingClose(j); j < 0 {
				return false
			}
		case token.LT:
			depth++
		case token.GT:
			depth--
		case token.COMMA:
			if depth == 0 {
				return false
			}
		case token.SEMI, token.RPAREN, token.RBRACKET, token.RBRACE, token.ASSIGN, token.EOF:
			return false
		}
	}
	return false
}

// functionTypeAhead reports whether the '(' at the current token opens the
// parameter list of a function type.
func (p *Parser) functionTypeAhead() bool {
	end := p.matchingClose(p.i)
	return end > 0 && p.toks[end+1].Type == token.ARROW
}
