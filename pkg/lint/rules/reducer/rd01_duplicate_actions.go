package reducer

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/discriminant"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

func init() {
	lint.Register(AvoidDuplicateActionsInReducer)
}

// AvoidDuplicateActionsInReducer reports actions handled by more than one
// `on` of the same reducer.
var AvoidDuplicateActionsInReducer = lint.RuleDef{
	ID:             "RD01",
	Name:           "reducer.avoid-duplicate-actions-in-reducer",
	Group:          "reducer",
	Description:    "A reducer should handle each action once.",
	Severity:       lint.SeverityWarning,
	HasSuggestions: true,
	Messages: map[string]string{
		"duplicateAction": "Action {{ action }} is handled more than once in this reducer.",
		"removeAction":    "Remove this handler of {{ action }}.",
	},
	Check:       checkDuplicateActions,
	Rationale:   "Only the last handler of an action takes effect; earlier ones are dead code that reads as if it ran.",
	BadExample:  "createReducer(initial, on(load, (s) => s), on(load, (s) => ({ ...s, loading: true })))",
	GoodExample: "createReducer(initial, on(load, (s) => ({ ...s, loading: true })))",
}

var (
	reducerScope = selector.MustCompile(`CallExpression[callee.name=$createReducer]`)
	reducerOn    = selector.MustCompile(`CallExpression[callee.name=$createReducer] > CallExpression[callee.name=$on]`)
)

func checkDuplicateActions(pass *lint.Pass) error {
	params := ast.ImportParams(binding.Imports(pass.Doc), []string{ast.StoreModule}, "createReducer", "on")

	var firstErr error
	v := selector.NewVisitor()
	selector.Aggregate(v, reducerScope, reducerOn, func(_ *syntax.Node, ons []*syntax.Node) {
		if firstErr != nil {
			return
		}
		type handled struct {
			on, action *syntax.Node
		}
		var order []string
		byKey := make(map[string][]handled)
		for _, on := range ons {
			args := on.List(syntax.FieldArguments)
			if len(args) < 2 {
				continue
			}
			for _, action := range args[:len(args)-1] {
				key := actionKey(pass, action)
				if _, seen := byKey[key]; !seen {
					order = append(order, key)
				}
				byKey[key] = append(byKey[key], handled{on: on, action: action})
			}
		}
		for _, key := range order {
			dups := byKey[key]
			if len(dups) < 2 {
				continue
			}
			for _, h := range dups {
				// An `on` with one action goes away whole; otherwise only the
				// action argument does.
				target := h.action
				if len(h.on.List(syntax.FieldArguments)) == 2 {
					target = h.on
				}
				edits, err := rewrite.RemoveElement(pass.Doc, target)
				if err != nil {
					firstErr = err
					return
				}
				data := map[string]string{"action": h.action.Text()}
				pass.Report(h.action, "duplicateAction", data).WithSuggestions(lint.Fix{
					Description: pass.Message("removeAction", data),
					TextEdits:   edits,
				})
			}
		}
	})
	v.Run(pass.Doc, params)
	return firstErr
}

// actionKey identifies the action an `on` argument handles: its discriminant
// when the creator's type resolves to exactly one, else its source text.
func actionKey(pass *lint.Pass, action *syntax.Node) string {
	if o, ok := types.Resolve(pass.TypeOf(action)).(*types.Object); ok {
		if sig := o.FirstSignature(); sig != nil {
			if set := discriminant.Of(sig.Result); len(set) == 1 {
				return "type:" + set[0].String()
			}
		}
	}
	return "text:" + action.Text()
}
