// Package binding finds the aliases through which a document reaches a
// tracked symbol: constructor parameters typed with it and fields or locals
// initialized by a factory call that receives it.
//
// The resolver follows imports one level only and never mutates the tree.
package binding

import (
	"slices"

	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// Symbol identifies an exported name of a module.
type Symbol struct {
	Module string
	Name   string
}

func (s Symbol) String() string { return s.Module + "#" + s.Name }

// DefaultFactory is the acquire function used when a Target leaves Factory
// empty.
var DefaultFactory = Symbol{Module: "@angular/core", Name: "inject"}

// Target describes what to resolve.
type Target struct {
	Symbol  Symbol
	Factory Symbol
}

// Kind tells how a binding was declared.
type Kind int

const (
	// ParameterBinding is a constructor parameter or parameter property
	// typed with the symbol.
	ParameterBinding Kind = iota
	// FieldBinding is a class field or variable initialized by the factory.
	FieldBinding
)

func (k Kind) String() string {
	if k == ParameterBinding {
		return "parameter"
	}
	return "field"
}

// Binding is one alias of the tracked symbol.
type Binding struct {
	Name string
	Kind Kind
	// Site is the declaring node: the element of the constructor's
	// parameter list for parameters, the PropertyDefinition or
	// VariableDeclarator for fields.
	Site *syntax.Node
	// TypeRef is the TSTypeReference naming the symbol, when the binding
	// carries a type annotation.
	TypeRef *syntax.Node
}

// Class returns the class declaring the binding, or nil.
func (b Binding) Class() *syntax.Node {
	return b.Site.Enclosing(syntax.ClassDeclaration)
}

// Resolve returns the bindings of t.Symbol in doc, in source order. It
// returns nil without walking the tree when the symbol's module is not
// imported.
func Resolve(doc *syntax.Document, t Target) []Binding {
	imports := Imports(doc)
	if !imports.Has(t.Symbol.Module, t.Symbol.Name) && len(imports.Namespaces(t.Symbol.Module)) == 0 {
		return nil
	}
	if t.Factory == (Symbol{}) {
		t.Factory = DefaultFactory
	}
	r := &resolver{imports: imports, target: t}
	syntax.Walk(doc.Root(), r.visit)
	return r.out
}

type resolver struct {
	imports ImportList
	target  Target
	out     []Binding
}

func (r *resolver) visit(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.MethodDefinition:
		if n.Variant == "constructor" {
			for _, p := range n.Child(syntax.FieldValue).List(syntax.FieldParams) {
				r.param(p)
			}
		}
	case syntax.PropertyDefinition:
		if name := keyName(n.Child(syntax.FieldKey)); name != "" && r.factoryCall(n.Child(syntax.FieldValue)) {
			r.out = append(r.out, Binding{
				Name:    name,
				Kind:    FieldBinding,
				Site:    n,
				TypeRef: r.typeRef(n.Child(syntax.FieldTypeAnnotation)),
			})
		}
	case syntax.VariableDeclarator:
		id := n.Child(syntax.FieldID)
		if id.Kind == syntax.Identifier && r.factoryCall(n.Child(syntax.FieldInit)) {
			r.out = append(r.out, Binding{
				Name:    id.Name,
				Kind:    FieldBinding,
				Site:    n,
				TypeRef: r.typeRef(id.Child(syntax.FieldTypeAnnotation)),
			})
		}
	}
	return true
}

func (r *resolver) param(site *syntax.Node) {
	p := site
	if p.Kind == syntax.TSParameterProperty {
		p = p.Child(syntax.FieldParameter)
	}
	if p.Kind == syntax.AssignmentPattern {
		p = p.Child(syntax.FieldLeft)
	}
	if p.Kind != syntax.Identifier {
		return
	}
	ref := r.typeRef(p.Child(syntax.FieldTypeAnnotation))
	if ref == nil {
		return
	}
	r.out = append(r.out, Binding{Name: p.Name, Kind: ParameterBinding, Site: site, TypeRef: ref})
}

// typeRef returns the reference to the tracked symbol held by a type
// annotation, ignoring any type arguments.
func (r *resolver) typeRef(ann *syntax.Node) *syntax.Node {
	if ann == nil {
		return nil
	}
	ref := ann.Child(syntax.FieldTypeAnnotation)
	if ref == nil || ref.Kind != syntax.TSTypeReference {
		return nil
	}
	if !r.imports.Refers(ref.Child(syntax.FieldTypeName), r.target.Symbol) {
		return nil
	}
	return ref
}

// factoryCall reports whether n is factory(Symbol) or factory<T>(Symbol).
func (r *resolver) factoryCall(n *syntax.Node) bool {
	for n != nil && (n.Kind == syntax.TSAsExpression || n.Kind == syntax.TSNonNullExpression) {
		n = n.Child(syntax.FieldExpression)
	}
	if n == nil || n.Kind != syntax.CallExpression {
		return false
	}
	args := n.List(syntax.FieldArguments)
	if len(args) == 0 || !r.imports.Refers(args[0], r.target.Symbol) {
		return false
	}
	callee := n.Child(syntax.FieldCallee)
	if r.imports.Refers(callee, r.target.Factory) {
		return true
	}
	// An undeclared factory name is taken as the ambient one.
	return callee.Kind == syntax.Identifier && callee.Name == r.target.Factory.Name &&
		!r.imports.Bound(callee.Name)
}

func keyName(key *syntax.Node) string {
	switch key.Kind {
	case syntax.Identifier:
		if key.Parent().Has(syntax.Computed) {
			return ""
		}
		return key.Name
	case syntax.Literal:
		if key.Variant == "string" {
			return key.Value
		}
	}
	return ""
}

// Names returns the distinct binding names in order.
func Names(bindings []Binding) []string {
	var out []string
	for _, b := range bindings {
		if !slices.Contains(out, b.Name) {
			out = append(out, b.Name)
		}
	}
	return out
}

// Pattern compiles the binding names into an alias pattern. It returns nil
// for an empty set.
func Pattern(bindings []Binding) *selector.AliasPattern {
	return selector.NewAliasPattern(Names(bindings)...)
}

// ClassBindings groups the bindings declared by one class.
type ClassBindings struct {
	Class    *syntax.Node
	Bindings []Binding
}

// ByClass groups bindings by their enclosing class, in source order.
// Bindings outside any class are left out.
func ByClass(bindings []Binding) []ClassBindings {
	var out []ClassBindings
	for _, b := range bindings {
		class := b.Class()
		if class == nil {
			continue
		}
		i := slices.IndexFunc(out, func(c ClassBindings) bool { return c.Class == class })
		if i < 0 {
			out = append(out, ClassBindings{Class: class})
			i = len(out) - 1
		}
		out[i].Bindings = append(out[i].Bindings, b)
	}
	return out
}
