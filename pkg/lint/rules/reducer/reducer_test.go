package reducer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/testutil"
	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

const header = "import { createAction, createReducer, on } from '@ngrx/store';\n" +
	"const load = createAction('[Books] Load');\n" +
	"const loadAgain = createAction('[Books] Load');\n" +
	"const loaded = createAction('[Books] Loaded');\n\n"

func TestRD01_DuplicateActions(t *testing.T) {
	tests := []struct {
		name      string
		reducer   string
		wantDiags int
	}{
		{
			name:      "same creator twice",
			reducer:   "createReducer(initial, on(load, (s) => s), on(loaded, (s) => s), on(load, (s) => s))",
			wantDiags: 2,
		},
		{
			name:      "distinct creators with the same type",
			reducer:   "createReducer(initial, on(load, (s) => s), on(loadAgain, (s) => s))",
			wantDiags: 2,
		},
		{
			name:      "same creator inside one on",
			reducer:   "createReducer(initial, on(load, loaded, load, (s) => s))",
			wantDiags: 2,
		},
		{
			name:      "distinct actions",
			reducer:   "createReducer(initial, on(load, (s) => s), on(loaded, (s) => s))",
			wantDiags: 0,
		},
		{
			name:      "separate reducers",
			reducer:   "[createReducer(initial, on(load, (s) => s)), createReducer(initial, on(load, (s) => s))]",
			wantDiags: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := header + "export const reducer = " + tt.reducer + ";\n"
			diags := testutil.RunRule(t, "RD01", src)
			require.Len(t, diags, tt.wantDiags)
			for _, d := range diags {
				assert.Len(t, d.Suggestions, 1)
			}
		})
	}
}

func TestRD01_EachSuggestionLeavesOneHandler(t *testing.T) {
	src := header + "export const reducer = createReducer(\n" +
		"  initial,\n" +
		"  on(load, (s) => s),\n" +
		"  on(loaded, (s) => s),\n" +
		"  on(load, (s) => ({ ...s, busy: true }))\n" +
		");\n"
	diags := testutil.RunRule(t, "RD01", src)
	require.Len(t, diags, 2)
	assert.Equal(t, "Action load is handled more than once in this reducer.", diags[0].Message)

	for _, d := range diags {
		out := testutil.Apply(t, src, d.Suggestions[0])
		doc, err := parser.Parse("reducer.ts", out)
		require.NoError(t, err, out)
		assert.Equal(t, 2, countOn(doc), out)
		assert.Equal(t, 1, strings.Count(out, "on(load,"), out)
		assert.Empty(t, testutil.RunRule(t, "RD01", out))
	}
}

func TestRD01_RemovesActionArgument(t *testing.T) {
	src := header + "export const reducer = createReducer(initial, on(load, loaded, (s) => s), on(load, (s) => s));\n"
	diags := testutil.RunRule(t, "RD01", src)
	require.Len(t, diags, 2)

	out := testutil.Apply(t, src, diags[0].Suggestions[0])
	assert.Contains(t, out, "createReducer(initial, on(loaded, (s) => s), on(load, (s) => s));")
	out = testutil.Apply(t, src, diags[1].Suggestions[0])
	assert.Contains(t, out, "createReducer(initial, on(load, loaded, (s) => s));")
}

func TestRD01_NotImported(t *testing.T) {
	src := "import { createReducer, on } from './local';\n" +
		"export const reducer = createReducer(initial, on(load, (s) => s), on(load, (s) => s));\n"
	assert.Empty(t, testutil.RunRule(t, "RD01", src))
}

func TestRD02_ExplicitReturnType(t *testing.T) {
	tests := []struct {
		name    string
		reducer string
		want    string
	}{
		{
			name:    "typed state parameter",
			reducer: "createReducer(initial, on(load, (state: BooksState) => ({ ...state, busy: true })))",
			want:    "on(load, (state: BooksState): BooksState => ({ ...state, busy: true }))",
		},
		{
			name:    "reducer type argument",
			reducer: "createReducer<BooksState>(initial, on(load, (state) => state))",
			want:    "on(load, (state): BooksState => state)",
		},
		{
			name:    "bare arrow parameter",
			reducer: "createReducer<BooksState>(initial, on(load, state => state))",
			want:    "on(load, (state): BooksState => state)",
		},
		{
			name:    "function expression",
			reducer: "createReducer(initial, on(load, function (state: BooksState) { return state; }))",
			want:    "on(load, function (state: BooksState): BooksState { return state; })",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := header + "export const reducer = " + tt.reducer + ";\n"
			diags := testutil.RunRule(t, "RD02", src)
			require.Len(t, diags, 1)
			require.Len(t, diags[0].Suggestions, 1)
			assert.Contains(t, testutil.Apply(t, src, diags[0].Suggestions[0]), tt.want)
		})
	}
}

func TestRD02_NoSuggestionWithoutStateType(t *testing.T) {
	src := header + "export const reducer = createReducer(initial, on(load, (state) => state));\n"
	diags := testutil.RunRule(t, "RD02", src)
	require.Len(t, diags, 1)
	assert.Empty(t, diags[0].Suggestions)
}

func TestRD02_AlreadyTyped(t *testing.T) {
	src := header + "export const reducer = createReducer(initial, on(load, (state): BooksState => state));\n"
	assert.Empty(t, testutil.RunRule(t, "RD02", src))
}

func countOn(doc *syntax.Document) int {
	return len(syntax.Collect(doc.Root(), func(n *syntax.Node) bool {
		return n.Kind == syntax.CallExpression && n.Child(syntax.FieldCallee).Name == "on"
	}))
}
