package effects

import (
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/discriminant"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(AvoidCyclicEffects)
}

// AvoidCyclicEffects reports effects whose output can match their own
// ofType filter.
var AvoidCyclicEffects = lint.RuleDef{
	ID:          "EF02",
	Name:        "effects.avoid-cyclic-effects",
	Group:       "effects",
	Description: "An effect should not emit an action it listens to.",
	Severity:    lint.SeverityError,
	Messages: map[string]string{
		"cyclicEffect": "Effect emits {{ actions }}, which its ofType filter listens to; this loops forever.",
	},
	Check:       checkCyclicEffects,
	Rationale:   "An effect that re-emits an action it filters on feeds itself and never settles.",
	BadExample:  "load$ = createEffect(() => this.actions$.pipe(ofType(load), map(() => load())));",
	GoodExample: "load$ = createEffect(() => this.actions$.pipe(ofType(load), map(() => loaded())));",
	Fix:         "Emit a different action, or pass { dispatch: false } when the effect emits nothing.",
}

var (
	actionsPipe = selector.MustCompile(ast.MethodCall("pipe", "actions"))
	ofTypeCall  = selector.MustCompile(`CallExpression[callee.name=$ofType]`)
)

func checkCyclicEffects(pass *lint.Pass) error {
	if pass.Types == nil {
		return nil
	}
	bindings := binding.Resolve(pass.Doc, ast.Actions)
	if len(bindings) == 0 {
		return nil
	}
	imports := binding.Imports(pass.Doc)
	params := ast.ImportParams(imports, []string{ast.EffectsModule}, "ofType", "createEffect")
	params["actions"] = binding.Pattern(bindings)

	v := selector.NewVisitor()
	v.On(actionsPipe, func(pipe *syntax.Node) {
		var filter *syntax.Node
		for _, arg := range pipe.List(syntax.FieldArguments) {
			if ofTypeCall.Match(arg, params) {
				filter = arg
				break
			}
		}
		if filter == nil || nonDispatching(pipe, params) {
			return
		}
		in := discriminant.FilterSide(pass.Types, filter)
		if len(in) == 0 {
			return
		}
		cycle := discriminant.Intersect(in, discriminant.EmitSide(pass.Types, pipe))
		if len(cycle) == 0 {
			return
		}
		names := make([]string, len(cycle))
		for i, c := range cycle {
			names[i] = c.String()
		}
		pass.Report(filter, "cyclicEffect", map[string]string{"actions": strings.Join(names, ", ")})
	})
	v.Run(pass.Doc, params)
	return nil
}

var createEffectCall = selector.MustCompile(`CallExpression[callee.name=$createEffect]`)

// nonDispatching reports whether the pipe belongs to an effect created with
// { dispatch: false }.
func nonDispatching(pipe *syntax.Node, params selector.Params) bool {
	for n := pipe.Parent(); n != nil; n = n.Parent() {
		if n.Kind != syntax.CallExpression || !createEffectCall.Match(n, params) {
			continue
		}
		args := n.List(syntax.FieldArguments)
		if len(args) < 2 || args[1].Kind != syntax.ObjectExpression {
			return false
		}
		for _, p := range args[1].List(syntax.FieldProperties) {
			key, value := p.Child(syntax.FieldKey), p.Child(syntax.FieldValue)
			if key != nil && key.Name == "dispatch" && value != nil && value.Kind == syntax.Literal && value.Raw == "false" {
				return true
			}
		}
		return false
	}
	return false
}
