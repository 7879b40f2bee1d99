package selector

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// Compile parses a selector.
func Compile(src string) (*Selector, error) {
	p := &parser{src: src}
	sel, err := p.selectorList()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return sel, nil
}

// MustCompile is like Compile but panics on error. It is meant for package
// level selector variables.
func MustCompile(src string) *Selector {
	sel, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return sel
}

type parser struct {
	src    string
	pos    int
	params []string
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Selector: p.src, Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() bool {
	start := p.pos
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) expect(ch byte) error {
	p.skipSpace()
	if p.peek() != ch {
		if p.eof() {
			return p.errorf("expected %q, got end of selector", ch)
		}
		return p.errorf("expected %q, got %q", ch, p.peek())
	}
	p.pos++
	return nil
}

// selectorList parses complex selectors separated by commas. It stops at a
// closing parenthesis so pseudo-class arguments can reuse it.
func (p *parser) selectorList() (*Selector, error) {
	start := p.pos
	sel := &Selector{}
	for {
		c, err := p.complex()
		if err != nil {
			return nil, err
		}
		sel.alts = append(sel.alts, c)
		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.pos++
	}
	sel.src = strings.TrimSpace(p.src[start:p.pos])
	sel.params = slices.Clone(p.params)
	return sel, nil
}

func (p *parser) complex() (*complexSel, error) {
	p.skipSpace()
	first, err := p.compound()
	if err != nil {
		return nil, err
	}
	c := &complexSel{steps: []step{{comb: combNone, comp: first}}}
	for {
		spaced := p.skipSpace()
		var comb combinator
		switch ch := p.peek(); {
		case ch == '>':
			comb = combChild
		case ch == '~':
			comb = combSibling
		case ch == '+':
			comb = combAdjacent
		case ch == 0 || ch == ',' || ch == ')':
			return c, nil
		case spaced:
			comb = combDescendant
		default:
			return nil, p.errorf("unexpected %q", ch)
		}
		if comb != combDescendant {
			p.pos++
			p.skipSpace()
		}
		next, err := p.compound()
		if err != nil {
			return nil, err
		}
		c.steps = append(c.steps, step{comb: comb, comp: next})
	}
}

func (p *parser) compound() (*compound, error) {
	c := &compound{}
	empty := true
	switch ch := p.peek(); {
	case ch == '*':
		p.pos++
		empty = false
	case isIdentStart(ch):
		name := p.ident()
		k, ok := syntax.LookupKind(name)
		if !ok {
			p.pos -= len(name)
			return nil, p.errorf("unknown node kind %q", name)
		}
		c.kinds = []syntax.Kind{k}
		empty = false
	}
	for {
		switch p.peek() {
		case '[':
			p.pos++
			pred, err := p.attribute(c.kinds)
			if err != nil {
				return nil, err
			}
			c.preds = append(c.preds, pred)
		case ':':
			p.pos++
			pred, err := p.pseudo(c)
			if err != nil {
				return nil, err
			}
			if pred != nil {
				c.preds = append(c.preds, pred)
			}
		default:
			if empty {
				if p.eof() {
					return nil, p.errorf("expected a selector, got end of selector")
				}
				return nil, p.errorf("expected a selector, got %q", p.peek())
			}
			return c, nil
		}
		empty = false
	}
}

func (p *parser) attribute(kinds []syntax.Kind) (predicate, error) {
	p.skipSpace()
	negate := false
	if p.peek() == '!' {
		negate = true
		p.pos++
		p.skipSpace()
	}
	pathStart := p.pos
	path, err := p.path()
	if err != nil {
		return nil, err
	}
	if !validHead(kinds, path[0]) {
		p.pos = pathStart
		return nil, p.errorf("no candidate kind has attribute %q", path[0])
	}
	p.skipSpace()
	switch {
	case p.peek() == ']':
		p.pos++
		return &existsPred{path: path, negate: negate}, nil
	case negate:
		return nil, p.errorf("expected ']' after negated attribute")
	case strings.HasPrefix(p.src[p.pos:], "!="):
		negate = true
		p.pos += 2
	case p.peek() == '=':
		p.pos++
	default:
		return nil, p.errorf("expected '=', '!=' or ']'")
	}
	p.skipSpace()
	pred := &comparePred{path: path, negate: negate}
	if err := p.value(pred); err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return pred, nil
}

func (p *parser) path() ([]string, error) {
	var path []string
	for {
		if !isIdentPart(p.peek()) {
			return nil, p.errorf("expected attribute name")
		}
		start := p.pos
		for isIdentPart(p.peek()) {
			p.pos++
		}
		path = append(path, p.src[start:p.pos])
		if p.peek() != '.' {
			return path, nil
		}
		p.pos++
	}
}

func (p *parser) value(pred *comparePred) error {
	switch ch := p.peek(); ch {
	case '"', '\'':
		p.pos++
		var b strings.Builder
		for {
			if p.eof() {
				return p.errorf("unterminated string")
			}
			c := p.src[p.pos]
			p.pos++
			if c == ch {
				break
			}
			if c == '\\' && !p.eof() {
				c = p.src[p.pos]
				p.pos++
			}
			b.WriteByte(c)
		}
		pred.kind, pred.text = literalValue, b.String()
	case '/':
		p.pos++
		start := p.pos
		for !p.eof() && p.src[p.pos] != '/' {
			if p.src[p.pos] == '\\' {
				p.pos++
			}
			p.pos++
		}
		if p.eof() {
			return p.errorf("unterminated regular expression")
		}
		body := p.src[start:p.pos]
		p.pos++
		flags := ""
		for !p.eof() && strings.IndexByte("ims", p.peek()) >= 0 {
			flags += string(p.peek())
			p.pos++
		}
		if flags != "" {
			body = "(?" + flags + ")" + body
		}
		re, err := regexp.Compile(body)
		if err != nil {
			return p.errorf("invalid regular expression: %v", err)
		}
		pred.kind, pred.re, pred.text = regexValue, re, body
	case '$':
		p.pos++
		name := p.ident()
		if name == "" {
			return p.errorf("expected parameter name after '$'")
		}
		if !slices.Contains(p.params, name) {
			p.params = append(p.params, name)
		}
		pred.kind, pred.text = paramValue, name
	default:
		start := p.pos
		for !p.eof() && p.src[p.pos] != ']' {
			p.pos++
		}
		word := strings.TrimSpace(p.src[start:p.pos])
		if word == "" {
			return p.errorf("expected a value")
		}
		pred.kind, pred.text = literalValue, word
	}
	return nil
}

func (p *parser) pseudo(c *compound) (predicate, error) {
	name := p.ident()
	switch name {
	case "not", "has", "matches", "is":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		inner, err := p.selectorList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		switch name {
		case "not":
			return &notPred{sel: inner}, nil
		case "has":
			return &hasPred{sel: inner}, nil
		}
		return &matchesPred{sel: inner}, nil
	case "function":
		fns := []syntax.Kind{syntax.FunctionDeclaration, syntax.FunctionExpression, syntax.ArrowFunctionExpression}
		if c.kinds == nil {
			c.kinds = fns
			return nil, nil
		}
		c.kinds = slices.DeleteFunc(c.kinds, func(k syntax.Kind) bool { return !k.IsFunction() })
		if len(c.kinds) == 0 {
			return nil, p.errorf(":function can never match")
		}
		return nil, nil
	case "first-child":
		return &positionPred{}, nil
	case "last-child":
		return &positionPred{last: true}, nil
	case "":
		return nil, p.errorf("expected pseudo-class name")
	}
	p.pos -= len(name)
	return nil, p.errorf("unknown pseudo-class :%s", name)
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.src[p.pos]) && (p.pos > start || isIdentStart(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// validHead reports whether at least one candidate kind can carry the first
// path segment, as a child field or as a scalar property.
func validHead(kinds []syntax.Kind, head string) bool {
	switch head {
	case "type", "operator", "kind", "variant", "accessibility":
		return true
	}
	if _, ok := syntax.LookupFlag(head); ok {
		return true
	}
	if kinds == nil {
		kinds = syntax.AllKinds()
	}
	f, isField := syntax.LookupField(head)
	for _, k := range kinds {
		if isField && syntax.HasField(k, f) {
			return true
		}
		switch head {
		case "name":
			if k == syntax.Identifier || k == syntax.TSKeyword || k == syntax.TSTypeParameter {
				return true
			}
		case "value":
			if k == syntax.Literal || k == syntax.TemplateLiteral {
				return true
			}
		case "raw":
			if k == syntax.Literal {
				return true
			}
		}
	}
	return false
}

func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9') || ch == '-'
}
