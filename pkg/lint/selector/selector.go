// Package selector compiles and evaluates structural queries over a syntax
// tree.
//
// The query language is a subset of CSS-style AST selectors:
//
//	CallExpression[callee.property.name="dispatch"][callee.object.name=$store]
//	ClassDeclaration > ClassBody > PropertyDefinition:has(Decorator)
//	BlockStatement > ExpressionStatement ~ ExpressionStatement
//
// A compiled Selector is a tree of predicates composed with combinator steps.
// Parameters ($name) are the only values supplied at match time; a parameter
// that is not bound makes the selector match nothing.
package selector

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// ErrSyntax is wrapped by every selector compile error.
var ErrSyntax = errors.New("selector syntax error")

// SyntaxError reports a malformed selector.
type SyntaxError struct {
	Selector string
	Offset   int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selector %q at offset %d: %s", e.Selector, e.Offset, e.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Selector is a compiled structural query. Selectors are immutable and safe
// for concurrent use.
type Selector struct {
	src    string
	alts   []*complexSel
	params []string
}

// String returns the selector source.
func (s *Selector) String() string { return s.src }

// Params returns the names of the parameters the selector references.
func (s *Selector) Params() []string { return slices.Clone(s.params) }

// Kinds returns the kinds a matching node can have, or nil when any kind may
// match.
func (s *Selector) Kinds() []syntax.Kind {
	var out []syntax.Kind
	for _, alt := range s.alts {
		subject := alt.steps[len(alt.steps)-1].comp
		if subject.kinds == nil {
			return nil
		}
		for _, k := range subject.kinds {
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	return out
}

// Bound reports whether every referenced parameter has a pattern.
func (s *Selector) Bound(params Params) bool {
	for _, name := range s.params {
		if params[name] == nil {
			return false
		}
	}
	return true
}

// Match reports whether n matches the selector.
func (s *Selector) Match(n *syntax.Node, params Params) bool {
	if n == nil {
		return false
	}
	for _, alt := range s.alts {
		if alt.matchAt(len(alt.steps)-1, n, params) {
			return true
		}
	}
	return false
}

type combinator uint8

const (
	combNone combinator = iota
	combDescendant
	combChild
	combSibling
	combAdjacent
)

type step struct {
	comb combinator // relation to the previous step
	comp *compound
}

type complexSel struct {
	steps []step
}

// matchAt matches steps[0..i] with steps[i] anchored at n, right to left.
func (c *complexSel) matchAt(i int, n *syntax.Node, params Params) bool {
	if !c.steps[i].comp.match(n, params) {
		return false
	}
	if i == 0 {
		return true
	}
	switch c.steps[i].comb {
	case combChild:
		return c.matchAt(i-1, n.Parent(), params)
	case combDescendant:
		for a := n.Parent(); a != nil; a = a.Parent() {
			if c.matchAt(i-1, a, params) {
				return true
			}
		}
	case combSibling:
		sibs := n.Siblings()
		for j := 0; j < n.Index() && j < len(sibs); j++ {
			if c.matchAt(i-1, sibs[j], params) {
				return true
			}
		}
	case combAdjacent:
		if idx := n.Index(); idx > 0 {
			if sibs := n.Siblings(); idx-1 < len(sibs) {
				return c.matchAt(i-1, sibs[idx-1], params)
			}
		}
	}
	return false
}

type compound struct {
	kinds []syntax.Kind // nil matches any kind
	preds []predicate
}

func (c *compound) match(n *syntax.Node, params Params) bool {
	if n == nil {
		return false
	}
	if c.kinds != nil && !slices.Contains(c.kinds, n.Kind) {
		return false
	}
	for _, p := range c.preds {
		if !p.match(n, params) {
			return false
		}
	}
	return true
}

type predicate interface {
	match(n *syntax.Node, params Params) bool
}

// existsPred tests [path] and [!path].
type existsPred struct {
	path   []string
	negate bool
}

func (p *existsPred) match(n *syntax.Node, _ Params) bool {
	v, ok := resolve(n, p.path)
	return present(v, ok) != p.negate
}

func present(v any, ok bool) bool {
	if !ok {
		return false
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case *syntax.Node:
		return v != nil
	case []*syntax.Node:
		return len(v) > 0
	}
	return true
}

type valueKind uint8

const (
	literalValue valueKind = iota
	regexValue
	paramValue
)

// comparePred tests [path=value] and [path!=value]. A path that does not
// resolve fails both forms.
type comparePred struct {
	path   []string
	negate bool
	kind   valueKind
	text   string
	re     *regexp.Regexp
}

func (p *comparePred) match(n *syntax.Node, params Params) bool {
	v, ok := resolve(n, p.path)
	if !ok {
		return false
	}
	s, ok := scalar(v)
	if !ok {
		return false
	}
	var eq bool
	switch p.kind {
	case literalValue:
		eq = s == p.text
	case regexValue:
		eq = p.re.MatchString(s)
	case paramValue:
		alias := params[p.text]
		if alias == nil {
			return false
		}
		eq = alias.MatchString(s)
	}
	return eq != p.negate
}

// scalar renders a resolved value for comparison. Identifiers compare by
// name and literals by value.
func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "null", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case *syntax.Node:
		switch v.Kind {
		case syntax.Identifier:
			return v.Name, true
		case syntax.Literal:
			return v.Value, true
		}
	}
	return "", false
}

// resolve walks a dotted path: fields descend into children, a list field
// may be followed by "length" or an index, and the last segment may name a
// scalar property.
func resolve(n *syntax.Node, path []string) (any, bool) {
	cur := n
	for i := 0; i < len(path); i++ {
		seg := path[i]
		last := i == len(path)-1
		f, isField := syntax.LookupField(seg)
		if isField && syntax.HasField(cur.Kind, f) {
			if syntax.IsListField(cur.Kind, f) {
				list := cur.List(f)
				if last {
					return list, true
				}
				next := path[i+1]
				if next == "length" {
					return len(list), i+1 == len(path)-1
				}
				idx, err := strconv.Atoi(next)
				if err != nil || idx < 0 || idx >= len(list) {
					return nil, false
				}
				i++
				cur = list[idx]
				if i == len(path)-1 {
					return cur, true
				}
				continue
			}
			child := cur.Child(f)
			if child == nil {
				return nil, false
			}
			if last {
				return child, true
			}
			cur = child
			continue
		}
		if !last {
			return nil, false
		}
		if seg == "variant" {
			seg = "kind"
		}
		return cur.Property(seg)
	}
	return cur, true
}

// notPred, hasPred and matchesPred implement the pseudo-classes.
type notPred struct{ sel *Selector }

func (p *notPred) match(n *syntax.Node, params Params) bool { return !p.sel.Match(n, params) }

type matchesPred struct{ sel *Selector }

func (p *matchesPred) match(n *syntax.Node, params Params) bool { return p.sel.Match(n, params) }

type hasPred struct{ sel *Selector }

func (p *hasPred) match(n *syntax.Node, params Params) bool {
	found := false
	for _, c := range n.Children() {
		syntax.Walk(c, func(d *syntax.Node) bool {
			if found {
				return false
			}
			if p.sel.Match(d, params) {
				found = true
				return false
			}
			return true
		})
		if found {
			break
		}
	}
	return found
}

// positionPred implements :first-child and :last-child within a list.
type positionPred struct{ last bool }

func (p *positionPred) match(n *syntax.Node, _ Params) bool {
	idx := n.Index()
	if idx < 0 {
		return false
	}
	if !p.last {
		return idx == 0
	}
	return idx == len(n.Siblings())-1
}

// Query returns every node under root matching sel, in document order.
func Query(root *syntax.Node, sel *Selector, params Params) []*syntax.Node {
	if !sel.Bound(params) {
		return nil
	}
	return syntax.Collect(root, func(n *syntax.Node) bool { return sel.Match(n, params) })
}
