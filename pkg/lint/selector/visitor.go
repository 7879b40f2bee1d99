package selector

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// Handler is called for every node a registered selector matches.
type Handler func(n *syntax.Node)

type entry struct {
	sel  *Selector
	fn   Handler
	exit bool
	seq  int
}

// Visitor dispatches matched nodes to handlers during a single depth-first
// traversal. Handlers run in registration order; exit handlers run after the
// node's subtree.
type Visitor struct {
	byKind   map[syntax.Kind][]*entry
	wildcard []*entry
	seq      int
}

// NewVisitor returns an empty visitor.
func NewVisitor() *Visitor {
	return &Visitor{byKind: make(map[syntax.Kind][]*entry)}
}

// On registers fn to run when a node matching sel is entered.
func (v *Visitor) On(sel *Selector, fn Handler) {
	v.add(&entry{sel: sel, fn: fn})
}

// OnExit registers fn to run when a node matching sel is left.
func (v *Visitor) OnExit(sel *Selector, fn Handler) {
	v.add(&entry{sel: sel, fn: fn, exit: true})
}

func (v *Visitor) add(e *entry) {
	e.seq = v.seq
	v.seq++
	kinds := e.sel.Kinds()
	if kinds == nil {
		v.wildcard = append(v.wildcard, e)
		return
	}
	for _, k := range kinds {
		v.byKind[k] = append(v.byKind[k], e)
	}
}

// candidates merges the kind-indexed and wildcard handlers by registration
// order.
func (v *Visitor) candidates(k syntax.Kind) []*entry {
	indexed := v.byKind[k]
	if len(v.wildcard) == 0 {
		return indexed
	}
	if len(indexed) == 0 {
		return v.wildcard
	}
	out := make([]*entry, 0, len(indexed)+len(v.wildcard))
	i, j := 0, 0
	for i < len(indexed) && j < len(v.wildcard) {
		if indexed[i].seq < v.wildcard[j].seq {
			out = append(out, indexed[i])
			i++
		} else {
			out = append(out, v.wildcard[j])
			j++
		}
	}
	out = append(out, indexed[i:]...)
	return append(out, v.wildcard[j:]...)
}

// Run traverses doc once. Selectors whose parameters are not all bound in
// params never fire.
func (v *Visitor) Run(doc *syntax.Document, params Params) {
	dispatch := func(n *syntax.Node, exit bool) {
		for _, e := range v.candidates(n.Kind) {
			if e.exit != exit || !e.sel.Bound(params) {
				continue
			}
			if e.sel.Match(n, params) {
				e.fn(n)
			}
		}
	}
	syntax.Inspect(doc.Root(),
		func(n *syntax.Node) bool {
			dispatch(n, false)
			return true
		},
		func(n *syntax.Node) { dispatch(n, true) },
	)
}

// Aggregate collects the nodes matching member inside each node matching
// scope and calls decide with them when the scope is left. Scopes nest: a
// member belongs to the innermost open scope only. Members seen outside any
// scope are ignored.
func Aggregate(v *Visitor, scope, member *Selector, decide func(scope *syntax.Node, members []*syntax.Node)) {
	type frame struct {
		node    *syntax.Node
		members []*syntax.Node
	}
	var stack []*frame
	// The member handler is registered first so a node matching both
	// selectors is counted in the enclosing scope before opening its own.
	v.On(member, func(n *syntax.Node) {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		top.members = append(top.members, n)
	})
	v.On(scope, func(n *syntax.Node) {
		stack = append(stack, &frame{node: n})
	})
	v.OnExit(scope, func(n *syntax.Node) {
		if len(stack) == 0 || stack[len(stack)-1].node != n {
			return
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		decide(top.node, top.members)
		top.members = nil
	})
}
