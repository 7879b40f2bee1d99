// Package checker implements a single-document types.Oracle for store code.
//
// The checker is shallow: it resolves identifiers through the
// enclosing scopes of one document, converts written type annotations, and
// knows the handful of library functions that shape action and effect
// types (createAction, props, createActionGroup, of, inject and the RxJS
// operators used inside effects). Anything it cannot determine is nil.
package checker

import (
	"log/slog"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

// Checker is a types.Oracle for one document. A Checker is not safe for
// concurrent use; create one per document.
type Checker struct {
	doc    *syntax.Document
	logger *slog.Logger

	memo  map[syntax.NodeID]types.Type
	decls map[syntax.NodeID]types.Type
}

var _ types.Oracle = (*Checker)(nil)

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for resolution traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Checker for doc.
func New(doc *syntax.Document, opts ...Option) *Checker {
	c := &Checker{
		doc:    doc,
		logger: slog.New(slog.DiscardHandler),
		memo:   make(map[syntax.NodeID]types.Type),
		decls:  make(map[syntax.NodeID]types.Type),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TypeOf returns the static type of an expression or type node, or nil.
func (c *Checker) TypeOf(n *syntax.Node) types.Type {
	if n == nil || n.Document() != c.doc {
		return nil
	}
	if t, ok := c.memo[n.ID()]; ok {
		// Entries are nil while being computed, so cycles answer unknown.
		return t
	}
	c.memo[n.ID()] = nil
	var t types.Type
	if n.Kind.IsType() {
		t = c.annotation(n)
	} else {
		t = c.expr(n)
	}
	c.memo[n.ID()] = t
	if t == nil {
		c.logger.Debug("type unknown", slog.String("kind", n.Kind.String()), slog.Int("offset", n.Span.Start.Offset))
	}
	return t
}

// declType memoizes the type of a declaration node. Named declarations
// allocate their Ref before converting the body so recursive types terminate.
func (c *Checker) declType(decl *syntax.Node, build func() types.Type) types.Type {
	if t, ok := c.decls[decl.ID()]; ok {
		return t
	}
	c.decls[decl.ID()] = nil
	t := build()
	c.decls[decl.ID()] = t
	return t
}

func (c *Checker) namedDecl(decl *syntax.Node, name string, build func() types.Type) types.Type {
	if t, ok := c.decls[decl.ID()]; ok {
		return t
	}
	ref := &types.Ref{Name: name}
	c.decls[decl.ID()] = ref
	ref.Target = build()
	return ref
}
