package store

import (
	"strconv"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(NoMultipleGlobalStores)
}

// NoMultipleGlobalStores reports classes that inject the store more than once.
var NoMultipleGlobalStores = lint.RuleDef{
	ID:             "ST01",
	Name:           "store.no-multiple-global-stores",
	Group:          "store",
	Description:    "A class should inject the global store only once.",
	Severity:       lint.SeverityWarning,
	HasSuggestions: true,
	Messages: map[string]string{
		"multipleGlobalStores": "Global store is injected {{ count }} times in {{ class }}.",
		"removeStore":          "Remove the `{{ name }}` injection.",
	},
	Check:       checkMultipleGlobalStores,
	Rationale:   "Every injection resolves to the same store instance. Extra bindings only spread store access over several names.",
	BadExample:  `constructor(private store: Store, private readonly other: Store) {}`,
	GoodExample: `constructor(private store: Store) {}`,
	Fix:         "Keep one binding and route every use through it.",
}

func checkMultipleGlobalStores(pass *lint.Pass) error {
	for _, cb := range binding.ByClass(binding.Resolve(pass.Doc, ast.Store)) {
		if len(cb.Bindings) < 2 {
			continue
		}
		className := "anonymous class"
		if id := cb.Class.Child(syntax.FieldID); id != nil {
			className = id.Name
		}
		for _, b := range cb.Bindings {
			edits, err := ast.RemoveBinding(pass.Doc, b)
			if err != nil {
				return err
			}
			name := ast.BindingName(b)
			pass.ReportSpan(ast.NameSpan(pass.Doc, name), "multipleGlobalStores", map[string]string{
				"count": strconv.Itoa(len(cb.Bindings)),
				"class": className,
			}).WithSuggestions(lint.Fix{
				Description: pass.Message("removeStore", map[string]string{"name": b.Name}),
				TextEdits:   edits,
			})
		}
	}
	return nil
}
