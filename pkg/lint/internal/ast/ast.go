// Package ast provides tree utilities shared by lint rules.
package ast

import (
	"fmt"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Library modules the rules know about.
const (
	StoreModule     = "@ngrx/store"
	EffectsModule   = "@ngrx/effects"
	OperatorsModule = "@ngrx/operators"
)

// RxJS modules exporting pipeable operators.
var RxJSModules = []string{"rxjs", "rxjs/operators"}

// Tracked injectables.
var (
	Store   = binding.Target{Symbol: binding.Symbol{Module: StoreModule, Name: "Store"}}
	Actions = binding.Target{Symbol: binding.Symbol{Module: EffectsModule, Name: "Actions"}}
)

// ReceiverIs returns a selector fragment that holds when the expression at
// path is `this.<alias>` or a bare `<alias>`, with the alias names bound to
// the selector parameter param.
func ReceiverIs(path, param string) string {
	return fmt.Sprintf(`:matches([%[1]s.object.type="ThisExpression"][%[1]s.property.name=$%[2]s], [%[1]s.name=$%[2]s])`, path, param)
}

// MethodCall returns a selector matching calls of method on a receiver
// bound to param.
func MethodCall(method, param string) string {
	return fmt.Sprintf(`CallExpression[callee.property.name=%q]%s`, method, ReceiverIs("callee.object", param))
}

// ImportParams binds each name to the local aliases under which it is
// imported from any of modules. Names that are not imported stay unbound.
func ImportParams(imports binding.ImportList, modules []string, names ...string) selector.Params {
	params := make(selector.Params, len(names))
	for _, name := range names {
		var locals []string
		for _, module := range modules {
			if local, ok := imports.LocalName(module, name); ok {
				locals = append(locals, local)
			}
		}
		params[name] = selector.NewAliasPattern(locals...)
	}
	return params
}

// Statement returns the expression statement whose expression is n, or nil.
func Statement(n *syntax.Node) *syntax.Node {
	p := n.Parent()
	if p == nil || p.Kind != syntax.ExpressionStatement || n.ParentField() != syntax.FieldExpression {
		return nil
	}
	return p
}

// IsReference reports whether an identifier reads a binding, as opposed to
// naming a property, a class member or an import.
func IsReference(id *syntax.Node) bool {
	if id.Kind != syntax.Identifier {
		return false
	}
	if id.Enclosing(syntax.ImportDeclaration) != nil {
		return false
	}
	p := id.Parent()
	if p == nil {
		return true
	}
	switch p.Kind {
	case syntax.MemberExpression:
		return id.ParentField() != syntax.FieldProperty || p.Has(syntax.Computed)
	case syntax.Property, syntax.PropertyDefinition, syntax.MethodDefinition:
		if id.ParentField() == syntax.FieldKey {
			return p.Has(syntax.Computed)
		}
	case syntax.TSQualifiedName:
		return id.ParentField() == syntax.FieldLeft
	case syntax.VariableDeclarator, syntax.FunctionDeclaration, syntax.ClassDeclaration:
		return id.ParentField() != syntax.FieldID
	}
	return true
}

// References returns the identifiers under root that read name.
func References(root *syntax.Node, name string) []*syntax.Node {
	return syntax.Collect(root, func(n *syntax.Node) bool {
		return n.Kind == syntax.Identifier && n.Name == name && IsReference(n)
	})
}

// MemberReferences returns the `this.<name>` expressions under root.
func MemberReferences(root *syntax.Node, name string) []*syntax.Node {
	return syntax.Collect(root, func(n *syntax.Node) bool {
		if n.Kind != syntax.MemberExpression || n.Has(syntax.Computed) {
			return false
		}
		return n.Child(syntax.FieldObject).Kind == syntax.ThisExpression &&
			n.Child(syntax.FieldProperty).Name == name
	})
}

// NameSpan returns the span of an identifier's name, leaving out any type
// annotation or optional marker the identifier node also covers.
func NameSpan(doc *syntax.Document, id *syntax.Node) token.Span {
	return token.Span{
		Start: id.Span.Start,
		End:   doc.PositionAt(id.Span.Start.Offset + len(id.Name)),
	}
}

// BindingName returns the identifier declaring b.
func BindingName(b binding.Binding) *syntax.Node {
	n := b.Site
	switch n.Kind {
	case syntax.TSParameterProperty:
		n = n.Child(syntax.FieldParameter)
	case syntax.PropertyDefinition:
		return n.Child(syntax.FieldKey)
	case syntax.VariableDeclarator:
		return n.Child(syntax.FieldID)
	}
	if n.Kind == syntax.AssignmentPattern {
		n = n.Child(syntax.FieldLeft)
	}
	return n
}

// RemoveBinding returns edits deleting the declaration of b: its element of
// the constructor's parameter list, its class member, or its declarator.
func RemoveBinding(doc *syntax.Document, b binding.Binding) ([]lint.TextEdit, error) {
	switch b.Site.Kind {
	case syntax.PropertyDefinition:
		return rewrite.RemoveStatement(doc, b.Site)
	case syntax.VariableDeclarator:
		decl := b.Site.Parent()
		if len(decl.List(syntax.FieldDeclarations)) > 1 {
			return rewrite.RemoveElement(doc, b.Site)
		}
		if p := decl.Parent(); p != nil && p.Kind == syntax.ExportNamedDeclaration {
			decl = p
		}
		return rewrite.RemoveStatement(doc, decl)
	}
	return rewrite.RemoveElement(doc, b.Site)
}

// TypeText returns the source of a type annotation's type, or "".
func TypeText(ann *syntax.Node) string {
	if ann == nil {
		return ""
	}
	if t := ann.Child(syntax.FieldTypeAnnotation); t != nil {
		return t.Text()
	}
	return ""
}
