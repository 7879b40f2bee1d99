package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// stringLiteral builds a string Literal for a STRING token.
func (p *Parser) stringLiteral(tok token.Token) *syntax.Node {
	n := p.b.New(syntax.Literal, tok.Span())
	n.Variant = "string"
	n.Raw = tok.Literal
	n.Value = Unquote(tok.Literal)
	return n
}

// numberLiteral builds a number Literal. Value drops numeric separators.
func (p *Parser) numberLiteral(tok token.Token) *syntax.Node {
	n := p.b.New(syntax.Literal, tok.Span())
	n.Variant = "number"
	n.Raw = tok.Literal
	n.Value = strings.ReplaceAll(tok.Literal, "_", "")
	return n
}

func (p *Parser) regexLiteral(tok token.Token) *syntax.Node {
	n := p.b.New(syntax.Literal, tok.Span())
	n.Variant = "regexp"
	n.Raw = tok.Literal
	n.Value = tok.Literal
	return n
}

// keywordLiteral builds the Literal for true, false or null.
func (p *Parser) keywordLiteral(tok token.Token) *syntax.Node {
	n := p.b.New(syntax.Literal, tok.Span())
	n.Variant = "boolean"
	if tok.Literal == "null" {
		n.Variant = "null"
	}
	n.Raw = tok.Literal
	n.Value = tok.Literal
	return n
}

// templateLiteral builds a TemplateLiteral. Value holds the text between the
// backticks; substitution expressions are parsed as children.
func (p *Parser) templateLiteral(tok token.Token) *syntax.Node {
	n := p.b.New(syntax.TemplateLiteral, tok.Span())
	raw := tok.Literal
	n.Value = strings.TrimSuffix(strings.TrimPrefix(raw, "`"), "`")

	base := tok.Pos.Offset
	for _, r := range substitutions(raw) {
		start, end := base+r[0], base+r[1]
		lex := newLexerAt(p.text, start, end, advancePos(tok.Pos, raw[:r[0]]))
		var toks []token.Token
		for {
			t := lex.NextToken()
			toks = append(toks, t)
			if t.Type == token.EOF {
				break
			}
		}
		if len(lex.Errors) > 0 {
			panic(bailout{err: lex.Errors[0]})
		}
		sub := newParser(p.b, p.filename, p.text, toks)
		expr := sub.parseExpression()
		if !sub.check(token.EOF) {
			sub.errorf(ErrUnexpectedToken, describe(sub.token), "'}'")
		}
		p.b.Append(n, syntax.FieldExpression, expr)
	}
	return n
}

// substitutions returns the [start, end) byte ranges of the ${...}
// expressions of a raw template, relative to raw.
func substitutions(raw string) [][2]int {
	var out [][2]int
	for i := 1; i < len(raw); i++ {
		switch {
		case raw[i] == '\\':
			i++
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			start := i + 2
			end := skipBalanced(raw, start)
			out = append(out, [2]int{start, end})
			i = end
		}
	}
	return out
}

// skipBalanced returns the index of the '}' closing a substitution that
// starts at i.
func skipBalanced(s string, i int) int {
	depth := 1
	for ; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			i++
		case '\'', '"', '`':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

// advancePos moves pos over text.
func advancePos(pos token.Position, text string) token.Position {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		pos.Offset++
	}
	return pos
}

// Unquote returns the cooked value of a quoted string literal. Malformed
// escapes are kept verbatim.
func Unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1:]
	if last := raw[len(raw)-1]; last == raw[0] {
		body = raw[1 : len(raw)-1]
	}
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := parseHex(body, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteString(`\x`)
			}
		case 'u':
			if i+1 < len(body) && body[i+1] == '{' {
				end := strings.IndexByte(body[i:], '}')
				if end > 0 {
					if r, err := strconv.ParseUint(body[i+2:i+end], 16, 32); err == nil && utf8.ValidRune(rune(r)) {
						b.WriteRune(rune(r))
						i += end
						continue
					}
				}
				b.WriteString(`\u`)
			} else if r, ok := parseHex(body, i+1, 4); ok {
				b.WriteRune(r)
				i += 4
			} else {
				b.WriteString(`\u`)
			}
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}

func parseHex(s string, at, n int) (rune, bool) {
	if at+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
