package store

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(NoStoreSubscription)
}

// NoStoreSubscription reports manual subscriptions to the store.
var NoStoreSubscription = lint.RuleDef{
	ID:          "ST05",
	Name:        "store.no-store-subscription",
	Group:       "store",
	Description: "Read store state through the async pipe or signals instead of subscribing.",
	Severity:    lint.SeverityWarning,
	Messages: map[string]string{
		"noStoreSubscription": "Avoid subscribing to the store; use the async pipe or `selectSignal`.",
	},
	Check:       checkStoreSubscription,
	Rationale:   "Manual subscriptions must be torn down by hand and leak when they are not.",
	BadExample:  "this.store.select(selectBooks).subscribe((books) => (this.books = books));",
	GoodExample: "books$ = this.store.select(selectBooks);",
}

var storeSubscription = selector.MustCompile(
	`CallExpression[callee.property.name="subscribe"]` + ast.ReceiverIs("callee.object", "store") + `, ` +
		`CallExpression[callee.property.name="subscribe"][callee.object.callee.property.name=/^(select|pipe)$/]` +
		ast.ReceiverIs("callee.object.callee.object", "store"))

func checkStoreSubscription(pass *lint.Pass) error {
	bindings := binding.Resolve(pass.Doc, ast.Store)
	if len(bindings) == 0 {
		return nil
	}
	v := selector.NewVisitor()
	v.On(storeSubscription, func(call *syntax.Node) {
		pass.Report(call.Child(syntax.FieldCallee).Child(syntax.FieldProperty), "noStoreSubscription", nil)
	})
	v.Run(pass.Doc, selector.Params{"store": binding.Pattern(bindings)})
	return nil
}
