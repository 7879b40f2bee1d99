package store

import (
	"strconv"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(AvoidSequentialDispatch)
}

// AvoidSequentialDispatch reports blocks dispatching more than one action.
var AvoidSequentialDispatch = lint.RuleDef{
	ID:             "ST04",
	Name:           "store.avoid-dispatching-multiple-actions-sequentially",
	Group:          "store",
	Description:    "A block should dispatch at most one action.",
	Severity:       lint.SeverityWarning,
	HasSuggestions: true,
	Messages: map[string]string{
		"sequentialDispatch": "{{ count }} actions are dispatched in a row; dispatch one action that describes the event.",
		"removeDispatch":     "Remove this dispatch.",
	},
	Check:       checkSequentialDispatch,
	Rationale:   "Each dispatch runs every reducer and selector. Several dispatches for one event cause intermediate states and extra change detection.",
	BadExample:  "this.store.dispatch(loadBooks());\nthis.store.dispatch(loadAuthors());",
	GoodExample: "this.store.dispatch(pageEntered());",
}

var (
	blockScope      = selector.MustCompile(`BlockStatement`)
	blockedDispatch = selector.MustCompile(`BlockStatement > ExpressionStatement > ` + ast.MethodCall("dispatch", "store"))
)

func checkSequentialDispatch(pass *lint.Pass) error {
	bindings := binding.Resolve(pass.Doc, ast.Store)
	if len(bindings) == 0 {
		return nil
	}
	var firstErr error
	v := selector.NewVisitor()
	selector.Aggregate(v, blockScope, blockedDispatch, func(_ *syntax.Node, calls []*syntax.Node) {
		if len(calls) < 2 || firstErr != nil {
			return
		}
		for _, call := range calls {
			edits, err := rewrite.RemoveStatement(pass.Doc, ast.Statement(call))
			if err != nil {
				firstErr = err
				return
			}
			pass.Report(call, "sequentialDispatch", map[string]string{"count": strconv.Itoa(len(calls))}).
				WithSuggestions(lint.Fix{Description: pass.Message("removeDispatch", nil), TextEdits: edits})
		}
	})
	v.Run(pass.Doc, selector.Params{"store": binding.Pattern(bindings)})
	return firstErr
}
