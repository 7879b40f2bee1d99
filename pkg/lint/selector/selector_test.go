package selector_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const component = `
class BooksComponent {
  private readonly store = inject(Store);
  constructor(private s: Store) {}

  load() {
    this.store.dispatch(load());
    this.s.dispatch({ type: 'x' });
    this.other.dispatch(load());
    this.store.select(selectBooks);
    this.store.select('books');
  }
}
`

func query(t *testing.T, src, sel string, params selector.Params) []string {
	t.Helper()
	doc, err := parser.Parse("test.ts", src)
	require.NoError(t, err)
	s, err := selector.Compile(sel)
	require.NoError(t, err)
	var texts []string
	for _, n := range selector.Query(doc.Root(), s, params) {
		texts = append(texts, n.Text())
	}
	return texts
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		sel  string
	}{
		{"empty", ""},
		{"unknown kind", "CallExpresion"},
		{"attribute no kind carries", "Literal[callee]"},
		{"unterminated attribute", "CallExpression[callee"},
		{"unterminated string", `Identifier[name="x]`},
		{"unterminated regex", "Identifier[name=/x]"},
		{"bad regex", "Identifier[name=/(/]"},
		{"unknown pseudo", "Identifier:first"},
		{"dangling combinator", "ClassBody >"},
		{"unclosed not", "Identifier:not(Literal"},
		{"missing value", "Identifier[name=]"},
		{"function on non function", "Identifier:function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := selector.Compile(tt.sel)
			require.Error(t, err)
			assert.True(t, errors.Is(err, selector.ErrSyntax))
			var se *selector.SyntaxError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { selector.MustCompile("[") })
	assert.NotPanics(t, func() { selector.MustCompile("CallExpression") })
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name string
		sel  string
		want []string
	}{
		{
			name: "field path and scalar",
			sel:  `CallExpression[callee.property.name="dispatch"]`,
			want: []string{"this.store.dispatch(load())", "this.s.dispatch({ type: 'x' })", "this.other.dispatch(load())"},
		},
		{
			name: "not equal",
			sel:  `CallExpression[callee.property.name="select"][arguments.0.type!="Literal"]`,
			want: []string{"this.store.select(selectBooks)"},
		},
		{
			name: "regex with flags",
			sel:  `Identifier[name=/^SELECTBOOKS$/i]`,
			want: []string{"selectBooks"},
		},
		{
			name: "existence and negation",
			sel:  `CallExpression[callee.property][!arguments]`,
			want: nil,
		},
		{
			name: "list length",
			sel:  `CallExpression[arguments.length=0]`,
			want: []string{"load()", "load()"},
		},
		{
			name: "flag attribute",
			sel:  `PropertyDefinition[readonly=true]`,
			want: []string{"private readonly store = inject(Store);"},
		},
		{
			name: "child combinator",
			sel:  `ClassBody > PropertyDefinition > CallExpression`,
			want: []string{"inject(Store)"},
		},
		{
			name: "descendant combinator",
			sel:  `MethodDefinition[kind="method"] ObjectExpression`,
			want: []string{"{ type: 'x' }"},
		},
		{
			name: "sibling combinator",
			sel:  `ExpressionStatement ~ ExpressionStatement:last-child`,
			want: []string{"this.store.select('books');"},
		},
		{
			name: "adjacent combinator",
			sel:  `PropertyDefinition + MethodDefinition`,
			want: []string{"constructor(private s: Store) {}"},
		},
		{
			name: "has",
			sel:  `ExpressionStatement:has(ObjectExpression)`,
			want: []string{"this.s.dispatch({ type: 'x' });"},
		},
		{
			name: "not",
			sel:  `CallExpression[callee.property.name="dispatch"]:not([arguments.0.type="CallExpression"])`,
			want: []string{"this.s.dispatch({ type: 'x' })"},
		},
		{
			name: "matches",
			sel:  `CallExpression:matches([callee.property.name="select"], [callee.name="inject"]) > :first-child`,
			want: []string{"Store", "selectBooks", "'books'"},
		},
		{
			name: "alternation",
			sel:  `TSParameterProperty, PropertyDefinition`,
			want: []string{"private readonly store = inject(Store);", "private s: Store"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query(t, component, tt.sel, nil))
		})
	}

	methods := query(t, component, ":function", nil)
	require.Len(t, methods, 2)
	assert.Equal(t, "(private s: Store) {}", methods[0])
}

func TestParams(t *testing.T) {
	sel := `CallExpression[callee.property.name="dispatch"][callee.object.property.name=$store]`

	t.Run("bound", func(t *testing.T) {
		params := selector.Params{"store": selector.NewAliasPattern("store", "s")}
		assert.Equal(t,
			[]string{"this.store.dispatch(load())", "this.s.dispatch({ type: 'x' })"},
			query(t, component, sel, params))
	})

	t.Run("unbound never matches", func(t *testing.T) {
		assert.Empty(t, query(t, component, sel, nil))
		assert.Empty(t, query(t, component, sel, selector.Params{"store": nil}))
	})

	t.Run("negated unbound never matches", func(t *testing.T) {
		s := selector.MustCompile(`Identifier[name!=$store]`)
		doc := parser.MustParse("test.ts", component)
		for _, n := range syntax.Collect(doc.Root(), func(*syntax.Node) bool { return true }) {
			assert.False(t, s.Match(n, nil))
		}
	})

	s := selector.MustCompile(sel + `, Identifier[name=$other]`)
	assert.Equal(t, []string{"store", "other"}, s.Params())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []syntax.Kind{syntax.CallExpression},
		selector.MustCompile(`ClassBody CallExpression[callee.name="x"]`).Kinds())
	assert.Equal(t, []syntax.Kind{syntax.Identifier, syntax.Literal},
		selector.MustCompile(`Identifier, Literal, Identifier[name="a"]`).Kinds())
	assert.Nil(t, selector.MustCompile(`Identifier, *`).Kinds())
	assert.Len(t, selector.MustCompile(`:function`).Kinds(), 3)
}

func TestAliasPattern(t *testing.T) {
	assert.Nil(t, selector.NewAliasPattern())

	p := selector.NewAliasPattern("store", "$s.x")
	assert.True(t, p.MatchString("store"))
	assert.True(t, p.MatchString("$s.x"))
	assert.False(t, p.MatchString("stores"))
	assert.False(t, p.MatchString("$sax"))
	assert.False(t, p.MatchString("my store"))

	var none *selector.AliasPattern
	assert.False(t, none.MatchString("store"))
}

func TestVisitorDispatchOrder(t *testing.T) {
	doc := parser.MustParse("test.ts", component)
	v := selector.NewVisitor()
	var events []string
	v.On(selector.MustCompile("MethodDefinition"), func(n *syntax.Node) { events = append(events, "enter method") })
	v.On(selector.MustCompile("*[kind]"), func(n *syntax.Node) {
		if n.Kind == syntax.MethodDefinition {
			events = append(events, "enter any")
		}
	})
	v.OnExit(selector.MustCompile("MethodDefinition"), func(n *syntax.Node) { events = append(events, "exit method") })
	v.On(selector.MustCompile(`Identifier[name="selectBooks"]`), func(n *syntax.Node) { events = append(events, "identifier") })
	v.Run(doc, nil)

	assert.Equal(t, []string{
		"enter method", "enter any", "exit method",
		"enter method", "enter any", "identifier", "exit method",
	}, events)
}

func TestAggregate(t *testing.T) {
	src := `
function outer() {
  a();
  b();
  function inner() {
    c();
  }
}
d();
`
	doc := parser.MustParse("test.ts", src)
	v := selector.NewVisitor()
	got := map[string][]string{}
	selector.Aggregate(v,
		selector.MustCompile("BlockStatement"),
		selector.MustCompile("BlockStatement > ExpressionStatement"),
		func(scope *syntax.Node, members []*syntax.Node) {
			name := scope.Parent().Child(syntax.FieldID).Name
			for _, m := range members {
				got[name] = append(got[name], m.Text())
			}
			if len(members) == 0 {
				got[name] = []string{}
			}
		})
	v.Run(doc, nil)

	assert.Equal(t, map[string][]string{
		"outer": {"a();", "b();"},
		"inner": {"c();"},
	}, got)
}
