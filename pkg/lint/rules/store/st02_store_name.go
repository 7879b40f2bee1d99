package store

import (
	"fmt"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(ConsistentGlobalStoreName)
}

// ConsistentGlobalStoreName enforces one name for store bindings.
var ConsistentGlobalStoreName = lint.RuleDef{
	ID:             "ST02",
	Name:           "store.consistent-global-store-name",
	Group:          "store",
	Description:    "Global store bindings should use a consistent name.",
	Severity:       lint.SeverityHint,
	ConfigKeys:     []string{"store_name"},
	HasSuggestions: true,
	Messages: map[string]string{
		"storeName":   "Global store should be named `{{ storeName }}`, not `{{ name }}`.",
		"renameStore": "Rename `{{ name }}` to `{{ storeName }}`.",
	},
	Check:       checkConsistentStoreName,
	Rationale:   "A single name makes store access easy to find and review across a code base.",
	BadExample:  `constructor(private readonly appStore: Store) {}`,
	GoodExample: `constructor(private readonly store: Store) {}`,
}

type storeNameOptions struct {
	StoreName string `mapstructure:"store_name"`
}

func checkConsistentStoreName(pass *lint.Pass) error {
	opts := storeNameOptions{StoreName: "store"}
	if err := lint.DecodeOptions(pass.Options, &opts); err != nil {
		return fmt.Errorf("%s options: %w", pass.Rule.ID(), err)
	}
	if opts.StoreName == "" {
		opts.StoreName = "store"
	}

	for _, b := range binding.Resolve(pass.Doc, ast.Store) {
		if b.Name == opts.StoreName {
			continue
		}
		data := map[string]string{"name": b.Name, "storeName": opts.StoreName}
		d := pass.ReportSpan(ast.NameSpan(pass.Doc, ast.BindingName(b)), "storeName", data)
		if taken(b, opts.StoreName) {
			continue
		}
		d.WithSuggestions(lint.Fix{
			Description: pass.Message("renameStore", data),
			TextEdits:   rename(pass.Doc, b, opts.StoreName),
		})
	}
	return nil
}

// taken reports whether the binding's class or parameter list already
// declares name.
func taken(b binding.Binding, name string) bool {
	declares := func(fn *syntax.Node) bool {
		for _, p := range fn.List(syntax.FieldParams) {
			if id := ast.BindingName(binding.Binding{Site: p}); id.Name == name {
				return true
			}
		}
		return false
	}
	if b.Kind == binding.ParameterBinding && declares(b.Site.Parent()) {
		return true
	}
	class := b.Class()
	if class == nil {
		return false
	}
	for _, m := range class.Child(syntax.FieldBody).List(syntax.FieldBody) {
		if key := m.Child(syntax.FieldKey); key != nil && key.Name == name {
			return true
		}
		if m.Kind == syntax.MethodDefinition && m.Variant == "constructor" && declares(m.Child(syntax.FieldValue)) {
			return true
		}
	}
	return false
}

// rename builds the edits renaming b and every reference to it.
func rename(doc *syntax.Document, b binding.Binding, to string) []lint.TextEdit {
	edits := []lint.TextEdit{lint.ReplaceSpan(ast.NameSpan(doc, ast.BindingName(b)), to)}
	renameRef := func(id *syntax.Node) {
		if p := id.Parent(); p.Kind == syntax.Property && p.Has(syntax.Shorthand) {
			edits = append(edits, lint.Replace(id, b.Name+": "+to))
			return
		}
		edits = append(edits, lint.Replace(id, to))
	}

	switch b.Site.Kind {
	case syntax.VariableDeclarator:
		scope := b.Site.Parent().Parent()
		for _, ref := range ast.References(scope, b.Name) {
			renameRef(ref)
		}
		return edits
	case syntax.PropertyDefinition:
	default:
		if body := b.Site.Parent().Child(syntax.FieldBody); body != nil {
			for _, ref := range ast.References(body, b.Name) {
				renameRef(ref)
			}
		}
		if b.Site.Kind != syntax.TSParameterProperty {
			return edits
		}
	}
	if class := b.Class(); class != nil {
		for _, m := range ast.MemberReferences(class, b.Name) {
			edits = append(edits, lint.Replace(m.Child(syntax.FieldProperty), to))
		}
	}
	return edits
}
