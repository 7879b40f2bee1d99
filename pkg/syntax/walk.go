package syntax

// Inspect traverses the subtree rooted at n depth-first in source order.
// enter is called before a node's children; returning false skips them.
// exit, when non-nil, is called after the children of every entered node.
func Inspect(n *Node, enter func(*Node) bool, exit func(*Node)) {
	if n == nil {
		return
	}
	if enter != nil && !enter(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, enter, exit)
	}
	if exit != nil {
		exit(n)
	}
}

// Walk calls fn for every node of the subtree in pre-order.
func Walk(n *Node, fn func(*Node) bool) {
	Inspect(n, fn, nil)
}

// Collect returns every node of the subtree for which match returns true.
func Collect(n *Node, match func(*Node) bool) []*Node {
	var out []*Node
	Walk(n, func(m *Node) bool {
		if match(m) {
			out = append(out, m)
		}
		return true
	})
	return out
}
