package effects

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(NoDispatchInEffects)
}

// NoDispatchInEffects reports store dispatches inside createEffect.
var NoDispatchInEffects = lint.RuleDef{
	ID:             "EF04",
	Name:           "effects.no-dispatch-in-effects",
	Group:          "effects",
	Description:    "An effect should return actions instead of dispatching them.",
	Severity:       lint.SeverityWarning,
	HasSuggestions: true,
	Messages: map[string]string{
		"noDispatchInEffects": "Return the action from the effect instead of dispatching it.",
		"removeDispatch":      "Remove `dispatch` and keep `{{ action }}`.",
	},
	Check:       checkDispatchInEffects,
	Rationale:   "Actions returned by an effect are dispatched by the effects runtime. Dispatching by hand hides the data flow and breaks { dispatch: false }.",
	BadExample:  "createEffect(() => this.actions$.pipe(ofType(load), tap(() => this.store.dispatch(loaded()))))",
	GoodExample: "createEffect(() => this.actions$.pipe(ofType(load), map(() => loaded())))",
}

var effectDispatch = selector.MustCompile(`CallExpression[callee.name=$createEffect] ` + ast.MethodCall("dispatch", "store"))

func checkDispatchInEffects(pass *lint.Pass) error {
	bindings := binding.Resolve(pass.Doc, ast.Store)
	if len(bindings) == 0 {
		return nil
	}
	params := ast.ImportParams(binding.Imports(pass.Doc), []string{ast.EffectsModule}, "createEffect")
	params["store"] = binding.Pattern(bindings)

	v := selector.NewVisitor()
	v.On(effectDispatch, func(call *syntax.Node) {
		d := pass.Report(call, "noDispatchInEffects", nil)
		args := call.List(syntax.FieldArguments)
		if len(args) != 1 {
			return
		}
		action := args[0].Text()
		d.WithSuggestions(lint.Fix{
			Description: pass.Message("removeDispatch", map[string]string{"action": action}),
			TextEdits:   []lint.TextEdit{lint.Replace(call, action)},
		})
	})
	v.Run(pass.Doc, params)
	return nil
}
