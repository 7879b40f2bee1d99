package syntax

import (
	"slices"

	"github.com/leapstack-labs/storelint/pkg/token"
)

// NodeID indexes a node inside its Document's arena.
type NodeID int32

// NoNode is the zero reference.
const NoNode NodeID = -1

// Flag is a boolean modifier carried by a node.
type Flag uint16

// Node flags.
const (
	Computed Flag = 1 << iota
	Optional
	Static
	Readonly
	Async
	TypeOnly
	Shorthand
	Declare
	Abstract
	Override
	Definite
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{Computed, "computed"},
	{Optional, "optional"},
	{Static, "static"},
	{Readonly, "readonly"},
	{Async, "async"},
	{TypeOnly, "typeOnly"},
	{Shorthand, "shorthand"},
	{Declare, "declare"},
	{Abstract, "abstract"},
	{Override, "override"},
	{Definite, "definite"},
}

// Names returns the property names of the set flags in declaration order.
func (f Flag) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// LookupFlag returns the flag with the given property name.
func LookupFlag(name string) (Flag, bool) {
	for _, f := range flagNames {
		if f.name == name {
			return f.flag, true
		}
	}
	return 0, false
}

type edge struct {
	field Field
	ids   []NodeID
}

// Node is one syntax node. Nodes live in a Document arena and are read-only
// once the Document is finished.
type Node struct {
	Kind Kind
	Span token.Span

	// Name holds the identifier text for Identifier, TSKeyword and
	// TSTypeParameter nodes.
	Name string
	// Value holds the cooked value of a Literal or TemplateLiteral.
	Value string
	// Raw holds the literal's source text.
	Raw string
	// Operator holds the operator of binary, logical, unary, update and
	// assignment expressions.
	Operator string
	// Variant holds the ESTree "kind" property: "constructor" / "method" /
	// "get" / "set" on methods, "const" / "let" / "var" on declarations,
	// "string" / "number" / "boolean" / "null" / "regexp" on literals.
	Variant string
	// Accessibility holds "public", "private" or "protected" when written.
	Accessibility string
	Flags         Flag

	id          NodeID
	parent      NodeID
	parentField Field
	index       int
	doc         *Document
	edges       []edge
}

// ID returns the node's arena index.
func (n *Node) ID() NodeID { return n.id }

// Document returns the document owning the node.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	if n == nil || n.parent == NoNode {
		return nil
	}
	return n.doc.nodes[n.parent]
}

// ParentField returns the field under which the parent holds this node.
func (n *Node) ParentField() Field { return n.parentField }

// Index returns the node's position in its parent's list field, or -1 when
// the parent holds it as a single child.
func (n *Node) Index() int { return n.index }

// Is reports whether the node is non-nil and has one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	return slices.Contains(kinds, n.Kind)
}

// Has reports whether every bit in f is set.
func (n *Node) Has(f Flag) bool { return n != nil && n.Flags&f == f }

func (n *Node) edge(f Field) *edge {
	for i := range n.edges {
		if n.edges[i].field == f {
			return &n.edges[i]
		}
	}
	return nil
}

// Child returns the single child stored under f, or nil.
func (n *Node) Child(f Field) *Node {
	if n == nil {
		return nil
	}
	e := n.edge(f)
	if e == nil || len(e.ids) == 0 {
		return nil
	}
	return n.doc.nodes[e.ids[0]]
}

// List returns the ordered children stored under f.
func (n *Node) List(f Field) []*Node {
	if n == nil {
		return nil
	}
	e := n.edge(f)
	if e == nil {
		return nil
	}
	out := make([]*Node, len(e.ids))
	for i, id := range e.ids {
		out[i] = n.doc.nodes[id]
	}
	return out
}

// Children returns all direct children in source order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, e := range n.edges {
		for _, id := range e.ids {
			out = append(out, n.doc.nodes[id])
		}
	}
	slices.SortStableFunc(out, func(a, b *Node) int {
		return a.Span.Start.Offset - b.Span.Start.Offset
	})
	return out
}

// Siblings returns the list the node belongs to, including the node itself,
// or nil when the node is not a list element.
func (n *Node) Siblings() []*Node {
	if n == nil || n.index < 0 {
		return nil
	}
	return n.Parent().List(n.parentField)
}

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.doc.Slice(n.Span)
}

// Property returns a scalar attribute by its ESTree name. The second result
// is false when the kind never carries that attribute.
func (n *Node) Property(name string) (any, bool) {
	switch name {
	case "type":
		return n.Kind.String(), true
	case "name":
		return n.Name, n.Kind == Identifier || n.Kind == TSKeyword || n.Kind == TSTypeParameter
	case "value":
		switch n.Kind {
		case Literal:
			return literalValue(n), true
		case TemplateLiteral:
			return n.Value, true
		}
		return nil, false
	case "raw":
		return n.Raw, n.Kind == Literal
	case "operator":
		return n.Operator, n.Operator != ""
	case "kind":
		return n.Variant, n.Variant != ""
	case "accessibility":
		return n.Accessibility, n.Accessibility != ""
	}
	if f, ok := LookupFlag(name); ok {
		return n.Flags&f != 0, true
	}
	return nil, false
}

func literalValue(n *Node) any {
	switch n.Variant {
	case "boolean":
		return n.Value == "true"
	case "null":
		return nil
	}
	return n.Value
}

// Enclosing returns the nearest strict ancestor with one of the given kinds.
func (n *Node) Enclosing(kinds ...Kind) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if slices.Contains(kinds, p.Kind) {
			return p
		}
	}
	return nil
}

// Contains reports whether m is n or a descendant of n.
func (n *Node) Contains(m *Node) bool {
	for ; m != nil; m = m.Parent() {
		if m == n {
			return true
		}
	}
	return false
}
