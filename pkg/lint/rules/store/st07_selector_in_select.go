package store

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(PreferSelectorInSelect)
}

// PreferSelectorInSelect reports string paths and inline projector
// functions passed to select.
var PreferSelectorInSelect = lint.RuleDef{
	ID:          "ST07",
	Name:        "store.prefer-selector-in-select",
	Group:       "store",
	Description: "Select state with memoized selectors.",
	Severity:    lint.SeverityWarning,
	Messages: map[string]string{
		"stringSelector":   "Use a selector instead of the property path {{ path }}.",
		"functionSelector": "Use a selector created with `createSelector` instead of an inline function.",
	},
	Check:       checkSelectorInSelect,
	Rationale:   "Selectors are memoized, testable and reusable. String paths and inline functions are none of these.",
	BadExample:  "this.store.select('books');\nthis.store.select((state) => state.books);",
	GoodExample: "this.store.select(selectBooks);",
}

const selectArg = `:matches(Literal[variant="string"], ArrowFunctionExpression, FunctionExpression)`

var (
	inlineStoreSelect = selector.MustCompile(ast.MethodCall("select", "store") + ` > ` + selectArg)
	inlinePipedSelect = selector.MustCompile(`CallExpression[callee.name=$select] > ` + selectArg)
)

func checkSelectorInSelect(pass *lint.Pass) error {
	params := ast.ImportParams(binding.Imports(pass.Doc), []string{ast.StoreModule}, "select")
	params["store"] = binding.Pattern(binding.Resolve(pass.Doc, ast.Store))

	report := func(arg *syntax.Node) {
		if arg.ParentField() != syntax.FieldArguments {
			return
		}
		if arg.Kind == syntax.Literal {
			pass.Report(arg, "stringSelector", map[string]string{"path": arg.Raw})
			return
		}
		pass.Report(arg, "functionSelector", nil)
	}
	v := selector.NewVisitor()
	v.On(inlineStoreSelect, report)
	v.On(inlinePipedSelect, report)
	v.Run(pass.Doc, params)
	return nil
}
