package binding

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// Import is one binding introduced by an import declaration.
type Import struct {
	Module string
	// Imported is the exported name, "default" for default imports and
	// "*" for namespace imports.
	Imported string
	Local    string
	TypeOnly bool
	Spec     *syntax.Node
	Decl     *syntax.Node
}

// Namespace reports whether the import binds the whole module.
func (i Import) Namespace() bool { return i.Imported == "*" }

// ImportList is the ordered view of a document's top-level imports.
type ImportList struct {
	Decls []*syntax.Node
	Items []Import
}

// Imports lists the imports of doc in source order.
func Imports(doc *syntax.Document) ImportList {
	var l ImportList
	root := doc.Root()
	if root == nil {
		return l
	}
	for _, stmt := range root.List(syntax.FieldBody) {
		if stmt.Kind != syntax.ImportDeclaration {
			continue
		}
		l.Decls = append(l.Decls, stmt)
		module := stmt.Child(syntax.FieldSource).Value
		declTypeOnly := stmt.Has(syntax.TypeOnly)
		for _, spec := range stmt.List(syntax.FieldSpecifiers) {
			imp := Import{
				Module:   module,
				Local:    spec.Child(syntax.FieldLocal).Name,
				TypeOnly: declTypeOnly || spec.Has(syntax.TypeOnly),
				Spec:     spec,
				Decl:     stmt,
			}
			switch spec.Kind {
			case syntax.ImportSpecifier:
				imported := spec.Child(syntax.FieldImported)
				imp.Imported = imported.Name
				if imported.Kind == syntax.Literal {
					imp.Imported = imported.Value
				}
			case syntax.ImportDefaultSpecifier:
				imp.Imported = "default"
			case syntax.ImportNamespaceSpecifier:
				imp.Imported = "*"
			}
			l.Items = append(l.Items, imp)
		}
	}
	return l
}

// Imported reports whether any declaration imports module, including
// side-effect-only imports.
func (l ImportList) Imported(module string) bool {
	for _, d := range l.Decls {
		if d.Child(syntax.FieldSource).Value == module {
			return true
		}
	}
	return false
}

// Find returns the named import of name from module.
func (l ImportList) Find(module, name string) (Import, bool) {
	for _, imp := range l.Items {
		if imp.Module == module && imp.Imported == name {
			return imp, true
		}
	}
	return Import{}, false
}

// Has reports whether name is imported by name from module.
func (l ImportList) Has(module, name string) bool {
	_, ok := l.Find(module, name)
	return ok
}

// LocalName returns the local name under which name from module is in scope.
func (l ImportList) LocalName(module, name string) (string, bool) {
	imp, ok := l.Find(module, name)
	return imp.Local, ok
}

// Namespaces returns the local names of namespace imports of module.
func (l ImportList) Namespaces(module string) []string {
	var out []string
	for _, imp := range l.Items {
		if imp.Module == module && imp.Namespace() {
			out = append(out, imp.Local)
		}
	}
	return out
}

// Bound reports whether any import introduces local.
func (l ImportList) Bound(local string) bool {
	for _, imp := range l.Items {
		if imp.Local == local {
			return true
		}
	}
	return false
}

// Refers reports whether n names sym: the local alias of a named import, or
// a member of a namespace import.
func (l ImportList) Refers(n *syntax.Node, sym Symbol) bool {
	switch n.Kind {
	case syntax.Identifier:
		local, ok := l.LocalName(sym.Module, sym.Name)
		return ok && n.Name == local
	case syntax.MemberExpression, syntax.TSQualifiedName:
		var object, property *syntax.Node
		if n.Kind == syntax.MemberExpression {
			if n.Has(syntax.Computed) {
				return false
			}
			object, property = n.Child(syntax.FieldObject), n.Child(syntax.FieldProperty)
		} else {
			object, property = n.Child(syntax.FieldLeft), n.Child(syntax.FieldRight)
		}
		if object.Kind != syntax.Identifier || property.Name != sym.Name {
			return false
		}
		for _, ns := range l.Namespaces(sym.Module) {
			if object.Name == ns {
				return true
			}
		}
	}
	return false
}
