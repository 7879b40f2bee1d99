package effects

import (
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(UseEffectsLifecycleInterface)
}

// UseEffectsLifecycleInterface reports effects lifecycle hooks declared
// without implementing their interface.
var UseEffectsLifecycleInterface = lint.RuleDef{
	ID:          "EF05",
	Name:        "effects.use-effects-lifecycle-interface",
	Group:       "effects",
	Description: "Classes with effects lifecycle hooks should implement the matching interface.",
	Severity:    lint.SeverityWarning,
	Fixable:     true,
	Messages: map[string]string{
		"lifecycleInterface": "`{{ method }}` is declared but the class does not implement `{{ iface }}`.",
		"implement":          "Implement {{ ifaces }}.",
	},
	Check:       checkLifecycleInterface,
	Rationale:   "The interface lets the compiler check the hook's signature; a typo otherwise disables the hook silently.",
	BadExample:  "class BooksEffects {\n  ngrxOnInitEffects() { return init(); }\n}",
	GoodExample: "class BooksEffects implements OnInitEffects {\n  ngrxOnInitEffects() { return init(); }\n}",
}

// lifecycleHooks maps hook methods to their interfaces, in declaration order
// of the interfaces.
var lifecycleHooks = []struct{ method, iface string }{
	{"ngrxOnIdentifyEffects", "OnIdentifyEffects"},
	{"ngrxOnRunEffects", "OnRunEffects"},
	{"ngrxOnInitEffects", "OnInitEffects"},
}

func checkLifecycleInterface(pass *lint.Pass) error {
	imports := binding.Imports(pass.Doc)
	for _, class := range syntax.Collect(pass.Doc.Root(), func(n *syntax.Node) bool { return n.Kind == syntax.ClassDeclaration }) {
		type missing struct {
			key   *syntax.Node
			hook  string
			iface string
		}
		var found []missing
		for _, m := range class.Child(syntax.FieldBody).List(syntax.FieldBody) {
			if m.Kind != syntax.MethodDefinition || m.Has(syntax.Static) {
				continue
			}
			key := m.Child(syntax.FieldKey)
			for _, h := range lifecycleHooks {
				if key.Name == h.method && !implements(imports, class, h.iface) {
					found = append(found, missing{key: key, hook: h.method, iface: h.iface})
				}
			}
		}
		if len(found) == 0 {
			continue
		}

		var names []string
		var importEdits []lint.ImportEdit
		for _, f := range found {
			name := f.iface
			if local, ok := imports.LocalName(ast.EffectsModule, f.iface); ok {
				name = local
			}
			names = append(names, name)
			importEdits = append(importEdits, lint.AddImport(ast.EffectsModule, f.iface))
		}
		// Every hook of the class carries the same edit, so fixing any
		// subset of them yields one clause.
		insert, ok := implementsEdit(class, names)
		for _, f := range found {
			d := pass.Report(f.key, "lifecycleInterface", map[string]string{"method": f.hook, "iface": f.iface})
			if !ok {
				continue
			}
			d.WithFix(lint.Fix{
				Description: pass.Message("implement", map[string]string{"ifaces": strings.Join(names, ", ")}),
				TextEdits:   []lint.TextEdit{insert},
				ImportEdits: importEdits,
			})
		}
	}
	return nil
}

func implements(imports binding.ImportList, class *syntax.Node, iface string) bool {
	sym := binding.Symbol{Module: ast.EffectsModule, Name: iface}
	for _, impl := range class.List(syntax.FieldImplements) {
		expr := impl.Child(syntax.FieldExpression)
		if imports.Refers(expr, sym) {
			return true
		}
		// Local interfaces and unresolved names count by name.
		if expr.Kind == syntax.Identifier && expr.Name == iface {
			return true
		}
	}
	return false
}

// implementsEdit inserts names into the class's implements clause, creating
// the clause after the heritage or the name when there is none.
func implementsEdit(class *syntax.Node, names []string) (lint.TextEdit, bool) {
	list := strings.Join(names, ", ")
	if impls := class.List(syntax.FieldImplements); len(impls) > 0 {
		return lint.InsertAfter(impls[len(impls)-1], ", "+list), true
	}
	for _, f := range []syntax.Field{syntax.FieldSuperTypeArguments, syntax.FieldSuperClass, syntax.FieldTypeParameters, syntax.FieldID} {
		if anchor := class.Child(f); anchor != nil {
			return lint.InsertAfter(anchor, " implements "+list), true
		}
	}
	return lint.TextEdit{}, false
}
