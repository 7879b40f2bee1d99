package store

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(PreferActionCreatorInDispatch)
}

// PreferActionCreatorInDispatch reports object literals and class instances
// passed to dispatch.
var PreferActionCreatorInDispatch = lint.RuleDef{
	ID:          "ST06",
	Name:        "store.prefer-action-creator-in-dispatch",
	Group:       "store",
	Description: "Dispatch actions built by action creators.",
	Severity:    lint.SeverityWarning,
	Messages: map[string]string{
		"actionCreatorInDispatch": "Dispatch an action creator call instead of {{ what }}.",
	},
	Check:       checkActionCreatorInDispatch,
	Rationale:   "Action creators keep the action type and its payload in one typed place.",
	BadExample:  "this.store.dispatch({ type: '[Books] Load' });",
	GoodExample: "this.store.dispatch(loadBooks());",
}

var inlineAction = func() *selector.Selector {
	dispatch := ast.MethodCall("dispatch", "store")
	return selector.MustCompile(dispatch + ` > ObjectExpression, ` + dispatch + ` > NewExpression`)
}()

func checkActionCreatorInDispatch(pass *lint.Pass) error {
	bindings := binding.Resolve(pass.Doc, ast.Store)
	if len(bindings) == 0 {
		return nil
	}
	v := selector.NewVisitor()
	v.On(inlineAction, func(arg *syntax.Node) {
		what := "an object literal"
		if arg.Kind == syntax.NewExpression {
			what = "a class instance"
		}
		pass.Report(arg, "actionCreatorInDispatch", map[string]string{"what": what})
	})
	v.Run(pass.Doc, selector.Params{"store": binding.Pattern(bindings)})
	return nil
}
