package syntax_test

import (
	"testing"

	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(start, end int) token.Span {
	return token.Span{
		Start: token.Position{Line: 1, Column: start + 1, Offset: start},
		End:   token.Position{Line: 1, Column: end + 1, Offset: end},
	}
}

func TestBuilderLinksParents(t *testing.T) {
	b := syntax.NewBuilder("x.ts", "a(b, c)")
	callee := b.New(syntax.Identifier, span(0, 1))
	callee.Name = "a"
	arg1 := b.New(syntax.Identifier, span(2, 3))
	arg2 := b.New(syntax.Identifier, span(5, 6))
	call := b.New(syntax.CallExpression, span(0, 7))
	b.Set(call, syntax.FieldCallee, callee)
	b.Append(call, syntax.FieldArguments, arg1, arg2)
	stmt := b.New(syntax.ExpressionStatement, span(0, 7))
	b.Set(stmt, syntax.FieldExpression, call)
	prog := b.New(syntax.Program, span(0, 7))
	b.Append(prog, syntax.FieldBody, stmt)

	doc, err := b.Finish(prog)
	require.NoError(t, err)

	assert.Same(t, prog, doc.Root())
	assert.Same(t, call, callee.Parent())
	assert.Equal(t, syntax.FieldCallee, callee.ParentField())
	assert.Equal(t, -1, callee.Index())
	assert.Equal(t, 1, arg2.Index())
	assert.Equal(t, []*syntax.Node{arg1, arg2}, arg1.Siblings())
	assert.Equal(t, []*syntax.Node{callee, arg1, arg2}, call.Children())
	assert.Equal(t, "a(b, c)", call.Text())
	assert.Same(t, stmt, callee.Enclosing(syntax.ExpressionStatement))
	assert.True(t, stmt.Contains(arg2))
	assert.False(t, arg1.Contains(arg2))
}

func TestBuilderRejectsSchemaViolations(t *testing.T) {
	b := syntax.NewBuilder("x.ts", "a")
	id := b.New(syntax.Identifier, span(0, 1))
	call := b.New(syntax.CallExpression, span(0, 1))

	assert.Panics(t, func() { b.Set(call, syntax.FieldBody, id) }, "unknown field")
	assert.Panics(t, func() { b.Set(call, syntax.FieldArguments, id) }, "list field set as single")

	b.Set(call, syntax.FieldCallee, id)
	other := b.New(syntax.CallExpression, span(0, 1))
	assert.Panics(t, func() { b.Set(other, syntax.FieldCallee, id) }, "attached twice")

	_, err := b.Finish(call)
	assert.Error(t, err)
}

func TestNodeProperties(t *testing.T) {
	doc := parser.MustParse("x.ts", "class A { static readonly x = true; constructor() {} }")
	prop := syntax.Collect(doc.Root(), func(n *syntax.Node) bool { return n.Kind == syntax.PropertyDefinition })[0]

	v, ok := prop.Property("static")
	assert.True(t, ok)
	assert.Equal(t, true, v)
	v, ok = prop.Property("type")
	assert.True(t, ok)
	assert.Equal(t, "PropertyDefinition", v)

	lit := prop.Child(syntax.FieldValue)
	v, ok = lit.Property("value")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	method := syntax.Collect(doc.Root(), func(n *syntax.Node) bool { return n.Kind == syntax.MethodDefinition })[0]
	v, ok = method.Property("kind")
	assert.True(t, ok)
	assert.Equal(t, "constructor", v)

	_, ok = method.Property("name")
	assert.False(t, ok)
}

func TestDocumentPositions(t *testing.T) {
	doc := parser.MustParse("x.ts", "a;\nbb;\n")
	assert.Equal(t, token.Position{Line: 2, Column: 2, Offset: 4}, doc.PositionAt(4))
	assert.Equal(t, 3, doc.LineStart(4))
	assert.Equal(t, 6, doc.LineEnd(4))
	assert.Equal(t, 2, doc.LineEnd(0))
}

func TestInspectOrder(t *testing.T) {
	doc := parser.MustParse("x.ts", "f(a, g(b));")
	var events []string
	syntax.Inspect(doc.Root(), func(n *syntax.Node) bool {
		if n.Kind == syntax.Identifier {
			events = append(events, "enter "+n.Name)
		}
		return true
	}, func(n *syntax.Node) {
		if n.Kind == syntax.CallExpression {
			events = append(events, "exit "+n.Child(syntax.FieldCallee).Name)
		}
	})
	assert.Equal(t, []string{"enter f", "enter a", "enter g", "enter b", "exit g", "exit f"}, events)
}

func TestKindAndFieldLookup(t *testing.T) {
	for _, k := range syntax.AllKinds() {
		got, ok := syntax.LookupKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
		for _, f := range syntax.Fields(k) {
			lf, ok := syntax.LookupField(f.String())
			require.True(t, ok, f.String())
			assert.Equal(t, f, lf)
		}
	}
	assert.True(t, syntax.IsListField(syntax.CallExpression, syntax.FieldArguments))
	assert.False(t, syntax.IsListField(syntax.CallExpression, syntax.FieldCallee))
}

func TestFlagNames(t *testing.T) {
	assert.Nil(t, syntax.Flag(0).Names())
	assert.Equal(t, []string{"optional", "static", "readonly"}, (syntax.Static | syntax.Readonly | syntax.Optional).Names())
	for _, name := range (syntax.Async | syntax.Definite).Names() {
		_, ok := syntax.LookupFlag(name)
		assert.True(t, ok, name)
	}
}
