package syntax

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/storelint/pkg/token"
)

// Document is a parsed source file: the text, its token stream, comments and
// the node arena rooted at a Program.
type Document struct {
	Filename string
	Text     string
	Tokens   []token.Token
	Comments []token.Comment

	nodes      []*Node
	root       NodeID
	lineStarts []int
}

// Root returns the Program node.
func (d *Document) Root() *Node {
	if d == nil || d.root == NoNode || int(d.root) >= len(d.nodes) {
		return nil
	}
	return d.nodes[d.root]
}

// Node returns the node with the given id, or nil.
func (d *Document) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Len returns the number of nodes in the arena.
func (d *Document) Len() int { return len(d.nodes) }

// Slice returns the text covered by span, clamped to the document.
func (d *Document) Slice(span token.Span) string {
	start := max(0, span.Start.Offset)
	end := min(len(d.Text), span.End.Offset)
	if start >= end {
		return ""
	}
	return d.Text[start:end]
}

// PositionAt converts a byte offset to a Position.
func (d *Document) PositionAt(offset int) token.Position {
	offset = max(0, min(offset, len(d.Text)))
	line := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1
	return token.Position{Line: line + 1, Column: offset - d.lineStarts[line] + 1, Offset: offset}
}

// LineStart returns the offset of the first byte of the line holding offset.
func (d *Document) LineStart(offset int) int {
	p := d.PositionAt(offset)
	return p.Offset - p.Column + 1
}

// LineEnd returns the offset of the newline ending the line holding offset,
// or len(Text) on the last line.
func (d *Document) LineEnd(offset int) int {
	line := d.PositionAt(offset).Line
	if line < len(d.lineStarts) {
		return d.lineStarts[line] - 1
	}
	return len(d.Text)
}

// Builder assembles a Document. Hosts drive it while parsing; the finished
// Document is immutable.
type Builder struct {
	doc *Document
}

// NewBuilder starts a document over text.
func NewBuilder(filename, text string) *Builder {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Builder{doc: &Document{Filename: filename, Text: text, root: NoNode, lineStarts: starts}}
}

// New allocates a detached node.
func (b *Builder) New(kind Kind, span token.Span) *Node {
	n := &Node{
		Kind:   kind,
		Span:   span,
		id:     NodeID(len(b.doc.nodes)),
		parent: NoNode,
		index:  -1,
		doc:    b.doc,
	}
	b.doc.nodes = append(b.doc.nodes, n)
	return n
}

func (b *Builder) attach(parent *Node, f Field, child *Node, list bool) {
	s, ok := lookupSlot(parent.Kind, f)
	if !ok {
		panic(fmt.Sprintf("syntax: %s has no field %q", parent.Kind, f))
	}
	if s.list != list {
		panic(fmt.Sprintf("syntax: %s.%s list mismatch", parent.Kind, f))
	}
	if child.doc != b.doc {
		panic("syntax: node belongs to another document")
	}
	if child.parent != NoNode {
		panic(fmt.Sprintf("syntax: %s already attached", child.Kind))
	}
	e := parent.edge(f)
	if e == nil {
		parent.edges = append(parent.edges, edge{field: f})
		e = &parent.edges[len(parent.edges)-1]
	}
	if !list && len(e.ids) > 0 {
		panic(fmt.Sprintf("syntax: %s.%s already set", parent.Kind, f))
	}
	child.parent = parent.id
	child.parentField = f
	if list {
		child.index = len(e.ids)
	}
	e.ids = append(e.ids, child.id)
}

// Set stores child as the single child under f. A nil child is ignored.
func (b *Builder) Set(parent *Node, f Field, child *Node) {
	if child == nil {
		return
	}
	b.attach(parent, f, child, false)
}

// Append adds child to the list under f. A nil child is ignored.
func (b *Builder) Append(parent *Node, f Field, children ...*Node) {
	for _, c := range children {
		if c != nil {
			b.attach(parent, f, c, true)
		}
	}
}

// Token records the next token of the stream.
func (b *Builder) Token(t token.Token) { b.doc.Tokens = append(b.doc.Tokens, t) }

// Comment records a comment.
func (b *Builder) Comment(c token.Comment) { b.doc.Comments = append(b.doc.Comments, c) }

// Finish sets the root and returns the document. The builder must not be used
// afterwards.
func (b *Builder) Finish(root *Node) (*Document, error) {
	if root == nil || root.Kind != Program {
		return nil, fmt.Errorf("syntax: root must be a Program")
	}
	if root.parent != NoNode {
		return nil, fmt.Errorf("syntax: root has a parent")
	}
	d := b.doc
	d.root = root.id
	b.doc = nil
	return d, nil
}
