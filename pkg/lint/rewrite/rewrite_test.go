package rewrite_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.Document {
	t.Helper()
	doc, err := parser.Parse("test.ts", src)
	require.NoError(t, err)
	return doc
}

func nodes(doc *syntax.Document, kind syntax.Kind) []*syntax.Node {
	return syntax.Collect(doc.Root(), func(n *syntax.Node) bool { return n.Kind == kind })
}

func apply(t *testing.T, doc *syntax.Document, edits []lint.TextEdit) string {
	t.Helper()
	out, err := rewrite.Apply(doc.Text, edits)
	require.NoError(t, err)
	return out
}

func TestRemoveElement(t *testing.T) {
	inline := "f(a, b, c);\n"
	multiline := `class A {
  constructor(
    private a: Store,
    private b: Store, // keep
    private c: Store,
  ) {}
}
`
	tests := []struct {
		name  string
		src   string
		kind  syntax.Kind
		index int
		want  string
	}{
		{"first inline", inline, syntax.Identifier, 1, "f(b, c);\n"},
		{"middle inline", inline, syntax.Identifier, 2, "f(a, c);\n"},
		{"last inline uses leading comma", inline, syntax.Identifier, 3, "f(a, b);\n"},
		{"sole element", "f(a);\n", syntax.Identifier, 1, "f();\n"},
		{"inline trailing comment stays", "f(a, /* x */ b);\n", syntax.Identifier, 1, "f(/* x */ b);\n"},
		{
			name: "comment before comma", src: "class A {\n  constructor(private a: Store /* x */, private b: Store) {}\n}\n",
			kind: syntax.TSParameterProperty, index: 0,
			want: "class A {\n  constructor(/* x */ private b: Store) {}\n}\n",
		},
		{
			name: "line comment before comma", src: "f(\n  a // x\n  , b\n);\n", kind: syntax.Identifier, index: 1,
			want: "f(\n  // x\n   b\n);\n",
		},
		{
			name: "own line", src: multiline, kind: syntax.TSParameterProperty, index: 0,
			want: "class A {\n  constructor(\n    private b: Store, // keep\n    private c: Store,\n  ) {}\n}\n",
		},
		{
			name: "trailing comment stays", src: multiline, kind: syntax.TSParameterProperty, index: 1,
			want: "class A {\n  constructor(\n    private a: Store,\n    // keep\n    private c: Store,\n  ) {}\n}\n",
		},
		{
			name: "last with trailing comma", src: multiline, kind: syntax.TSParameterProperty, index: 2,
			want: "class A {\n  constructor(\n    private a: Store,\n    private b: Store, // keep\n  ) {}\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.src)
			target := nodes(doc, tt.kind)[tt.index]
			edits, err := rewrite.RemoveElement(doc, target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, apply(t, doc, edits))
		})
	}
}

func TestRemoveElementLeavesNMinusOne(t *testing.T) {
	sources := []string{
		"const xs = [a, b, c, d];\n",
		"const xs = [\n  a,\n  b, // two\n  c,\n  d\n];\n",
		"const xs = [\n  a,\n  b,\n  c,\n  d,\n];\n",
	}
	for _, src := range sources {
		doc := parse(t, src)
		elems := nodes(doc, syntax.ArrayExpression)[0].List(syntax.FieldElements)
		require.Len(t, elems, 4)
		for i, el := range elems {
			edits, err := rewrite.RemoveElement(doc, el)
			require.NoError(t, err)
			out := apply(t, doc, edits)

			reparsed, err := parser.Parse("out.ts", out)
			require.NoError(t, err, "removing element %d of %q gave %q", i, src, out)
			remaining := nodes(reparsed, syntax.ArrayExpression)[0].List(syntax.FieldElements)
			assert.Len(t, remaining, 3)
			assert.NotContains(t, out, ",,")
			assert.NotContains(t, out, "[,")
			assert.NotContains(t, out, el.Text()+",")
		}
	}
}

func TestRemoveStatement(t *testing.T) {
	src := "function f() {\n  a();\n  b(); c();\n}\n"
	doc := parse(t, src)
	stmts := nodes(doc, syntax.ExpressionStatement)
	require.Len(t, stmts, 3)

	own, err := rewrite.RemoveStatement(doc, stmts[0])
	require.NoError(t, err)
	assert.Equal(t, "function f() {\n  b(); c();\n}\n", apply(t, doc, own))

	shared, err := rewrite.RemoveStatement(doc, stmts[1])
	require.NoError(t, err)
	assert.Equal(t, "function f() {\n  a();\n  c();\n}\n", apply(t, doc, shared))

	_, err = rewrite.RemoveStatement(doc, nil)
	assert.ErrorIs(t, err, rewrite.ErrInvalidRange)
}

func TestAddImport(t *testing.T) {
	tests := []struct {
		name string
		src  string
		edit lint.ImportEdit
		want string
	}{
		{
			name: "already present",
			src:  "import { b } from 'm';\n",
			edit: lint.AddImport("m", "b"),
			want: "import { b } from 'm';\n",
		},
		{
			name: "append to clause",
			src:  "import { a } from 'm';\n",
			edit: lint.AddImport("m", "b"),
			want: "import { a, b } from 'm';\n",
		},
		{
			name: "skip type-only clause",
			src:  "import type { A } from 'm';\nconst x = 1;\n",
			edit: lint.AddImport("m", "b"),
			want: "import type { A } from 'm';\nimport { b } from 'm';\nconst x = 1;\n",
		},
		{
			name: "type-only clause allowed",
			src:  "import type { A } from 'm';\n",
			edit: lint.ImportEdit{Op: lint.ImportAdd, Module: "m", Name: "B", AllowTypeOnly: true},
			want: "import type { A, B } from 'm';\n",
		},
		{
			name: "skip namespace clause",
			src:  "import * as m from 'm';\n",
			edit: lint.AddImport("m", "b"),
			want: "import * as m from 'm';\nimport { b } from 'm';\n",
		},
		{
			name: "default import gains braces",
			src:  "import D from 'm';\n",
			edit: lint.AddImport("m", "b"),
			want: "import D, { b } from 'm';\n",
		},
		{
			name: "empty braces",
			src:  "import {} from 'm';\n",
			edit: lint.AddImport("m", "b"),
			want: "import { b } from 'm';\n",
		},
		{
			name: "new statement after imports keeps quote style",
			src:  "import { a } from \"x\";\nconst y = 1;\n",
			edit: lint.AddImport("m", "b"),
			want: "import { a } from \"x\";\nimport { b } from \"m\";\nconst y = 1;\n",
		},
		{
			name: "new statement without imports",
			src:  "const y = 1;\n",
			edit: lint.AddImport("m", "b"),
			want: "import { b } from 'm';\n\nconst y = 1;\n",
		},
		{
			name: "new statement after directive prologue",
			src:  "'use strict';\n\"use client\";\nconst y = 1;\n",
			edit: lint.AddImport("m", "b"),
			want: "'use strict';\n\"use client\";\n\nimport { b } from 'm';\n\nconst y = 1;\n",
		},
		{
			name: "directive only",
			src:  "'use strict';\n",
			edit: lint.AddImport("m", "b"),
			want: "'use strict';\n\nimport { b } from 'm';\n",
		},
		{
			name: "string statement after code is no directive",
			src:  "const y = 1;\n'x';\n",
			edit: lint.AddImport("m", "b"),
			want: "import { b } from 'm';\n\nconst y = 1;\n'x';\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.src)
			edits, err := rewrite.AddImport(doc, tt.edit)
			require.NoError(t, err)
			if tt.src == tt.want {
				assert.Empty(t, edits)
			}
			assert.Equal(t, tt.want, apply(t, doc, edits))
		})
	}
}

func TestRemoveImport(t *testing.T) {
	tests := []struct {
		name string
		src  string
		rm   string
		want string
	}{
		{"sole specifier removes statement", "import { a } from 'm';\nimport { b } from 'n';\n", "a", "import { b } from 'n';\n"},
		{"first of two", "import { a, b } from 'm';\n", "a", "import { b } from 'm';\n"},
		{"last of two", "import { a, b } from 'm';\n", "b", "import { a } from 'm';\n"},
		{"next to default", "import D, { a } from 'm';\n", "a", "import D from 'm';\n"},
		{"absent", "import { a } from 'm';\n", "z", "import { a } from 'm';\n"},
		{"renamed", "import { a as x, b } from 'm';\n", "a", "import { b } from 'm';\n"},
		{"comment before comma", "import { a /* c */, b } from 'm';\n", "a", "import { /* c */ b } from 'm';\n"},
		{"comment after comma", "import { a, /* c */ b } from 'm';\n", "a", "import { /* c */ b } from 'm';\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.src)
			edits, err := rewrite.RemoveImport(doc, lint.RemoveImport("m", tt.rm))
			require.NoError(t, err)
			assert.Equal(t, tt.want, apply(t, doc, edits))
		})
	}
}

func TestRealize(t *testing.T) {
	src := "import { withLatestFrom } from 'rxjs/operators';\nconst x = withLatestFrom(y);\n"
	doc := parse(t, src)
	call := nodes(doc, syntax.CallExpression)[0]

	fix := lint.Fix{
		Description: "use concatLatestFrom",
		TextEdits:   []lint.TextEdit{lint.Replace(call.Child(syntax.FieldCallee), "concatLatestFrom")},
		ImportEdits: []lint.ImportEdit{
			lint.AddImport("@ngrx/operators", "concatLatestFrom"),
			lint.RemoveImport("rxjs/operators", "withLatestFrom"),
		},
	}
	edits, err := rewrite.Realize(doc, fix)
	require.NoError(t, err)
	assert.Equal(t,
		"import { concatLatestFrom } from '@ngrx/operators';\nconst x = concatLatestFrom(y);\n",
		apply(t, doc, edits))

	t.Run("overlap is a construction error", func(t *testing.T) {
		bad := lint.Fix{TextEdits: []lint.TextEdit{
			lint.Replace(call, "a"),
			lint.Replace(call.Child(syntax.FieldCallee), "b"),
		}}
		_, err := rewrite.Realize(doc, bad)
		assert.ErrorIs(t, err, rewrite.ErrOverlappingEdits)
	})

	t.Run("range outside the document", func(t *testing.T) {
		bad := lint.Fix{TextEdits: []lint.TextEdit{{Pos: doc.PositionAt(0), EndPos: doc.PositionAt(0)}, {}}}
		_, err := rewrite.Realize(doc, bad)
		assert.ErrorIs(t, err, rewrite.ErrInvalidRange)
	})
}

func TestApply(t *testing.T) {
	doc := parse(t, "abc;\n")
	at := doc.PositionAt
	out, err := rewrite.Apply(doc.Text, []lint.TextEdit{
		{Pos: at(2), EndPos: at(3), NewText: "C"},
		{Pos: at(0), EndPos: at(0), NewText: "<"},
		{Pos: at(0), EndPos: at(0), NewText: "<"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<<abC;\n", out)

	_, err = rewrite.Apply(doc.Text, []lint.TextEdit{
		{Pos: at(0), EndPos: at(2), NewText: "x"},
		{Pos: at(1), EndPos: at(3), NewText: "y"},
	})
	assert.True(t, errors.Is(err, rewrite.ErrOverlappingEdits))
}

func TestApplyFixes(t *testing.T) {
	doc := parse(t, "f(a, b);\n")
	ids := nodes(doc, syntax.Identifier)
	a, b := ids[1], ids[2]
	addImport, err := rewrite.AddImport(doc, lint.AddImport("m", "x"))
	require.NoError(t, err)

	diags := []lint.Diagnostic{
		{RuleID: "T2", Pos: b.Span.Start, Fix: &lint.Fix{TextEdits: append([]lint.TextEdit{lint.Replace(b, "B")}, addImport...)}},
		{RuleID: "T1", Pos: a.Span.Start, Fix: &lint.Fix{TextEdits: append([]lint.TextEdit{lint.Replace(a, "A")}, addImport...)}},
		{RuleID: "T3", Pos: a.Span.Start, Fix: &lint.Fix{TextEdits: []lint.TextEdit{lint.Replace(a, "Z")}}},
		{RuleID: "T4", Pos: a.Span.Start, Suggestions: []lint.Fix{{TextEdits: []lint.TextEdit{lint.Replace(a, "S")}}}},
	}
	res, err := rewrite.ApplyFixes(doc.Text, diags)
	require.NoError(t, err)

	assert.Equal(t, "import { x } from 'm';\n\nf(A, B);\n", res.Text)
	require.Len(t, res.Applied, 2)
	assert.Equal(t, "T1", res.Applied[0].RuleID)
	assert.Equal(t, "T2", res.Applied[1].RuleID)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "T3", res.Skipped[0].Diagnostic.RuleID)
	assert.True(t, strings.Contains(res.Skipped[0].Reason, "conflicts"))
}
