package store

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(NoTypedGlobalStore)
}

// NoTypedGlobalStore reports `Store<State>` annotations on store bindings.
var NoTypedGlobalStore = lint.RuleDef{
	ID:          "ST03",
	Name:        "store.no-typed-global-store",
	Group:       "store",
	Description: "The global store should not be typed with a state argument.",
	Severity:    lint.SeverityWarning,
	Fixable:     true,
	Messages: map[string]string{
		"typedStore":   "Global store should not be typed; `{{ args }}` is never checked against the real state.",
		"removeTyping": "Remove the type argument.",
	},
	Check:       checkTypedGlobalStore,
	Rationale:   "The state argument gives a false sense of type safety. Typed selectors carry the real state shape.",
	BadExample:  `constructor(private readonly store: Store<AppState>) {}`,
	GoodExample: `constructor(private readonly store: Store) {}`,
}

func checkTypedGlobalStore(pass *lint.Pass) error {
	for _, b := range binding.Resolve(pass.Doc, ast.Store) {
		if b.TypeRef == nil {
			continue
		}
		args := b.TypeRef.Child(syntax.FieldTypeArguments)
		if args == nil {
			continue
		}
		pass.Report(args, "typedStore", map[string]string{"args": args.Text()}).
			WithFix(lint.Fix{
				Description: pass.Message("removeTyping", nil),
				TextEdits:   []lint.TextEdit{lint.Delete(args.Span)},
			})
	}
	return nil
}
