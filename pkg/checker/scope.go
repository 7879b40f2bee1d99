package checker

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// bindingName returns the name bound by a parameter or declarator target.
func bindingName(n *syntax.Node) string {
	switch n.Kind {
	case syntax.Identifier:
		return n.Name
	case syntax.AssignmentPattern:
		return bindingName(n.Child(syntax.FieldLeft))
	case syntax.TSParameterProperty:
		return bindingName(n.Child(syntax.FieldParameter))
	case syntax.RestElement:
		return bindingName(n.Child(syntax.FieldArgument))
	}
	return ""
}

// statements returns the statement list directly owned by a scope node.
func statements(n *syntax.Node) []*syntax.Node {
	switch n.Kind {
	case syntax.Program, syntax.BlockStatement:
		return n.List(syntax.FieldBody)
	case syntax.SwitchCase:
		return n.List(syntax.FieldConsequent)
	}
	return nil
}

// declares reports the node within stmt that declares name in the value or
// type namespace.
func declares(stmt *syntax.Node, name string, typeSpace bool) *syntax.Node {
	switch stmt.Kind {
	case syntax.ExportNamedDeclaration, syntax.ExportDefaultDeclaration:
		if d := stmt.Child(syntax.FieldDeclaration); d != nil {
			return declares(d, name, typeSpace)
		}
	case syntax.VariableDeclaration:
		if typeSpace {
			return nil
		}
		for _, d := range stmt.List(syntax.FieldDeclarations) {
			if id := d.Child(syntax.FieldID); id != nil && id.Kind == syntax.Identifier && id.Name == name {
				return d
			}
		}
	case syntax.FunctionDeclaration:
		if !typeSpace && idName(stmt) == name {
			return stmt
		}
	case syntax.ClassDeclaration, syntax.TSEnumDeclaration:
		if idName(stmt) == name {
			return stmt
		}
	case syntax.TSTypeAliasDeclaration, syntax.TSInterfaceDeclaration:
		if typeSpace && idName(stmt) == name {
			return stmt
		}
	case syntax.ImportDeclaration:
		for _, spec := range stmt.List(syntax.FieldSpecifiers) {
			if local := spec.Child(syntax.FieldLocal); local != nil && local.Name == name {
				return spec
			}
		}
	}
	return nil
}

func idName(n *syntax.Node) string {
	if id := n.Child(syntax.FieldID); id != nil {
		return id.Name
	}
	return ""
}

// lookup finds the declaration of name visible from n. Parameters resolve to
// the parameter node, variables to their declarator, imports to the
// specifier, and other declarations to the declaration itself.
func lookup(from *syntax.Node, name string, typeSpace bool) *syntax.Node {
	for p := from; p != nil; p = p.Parent() {
		switch {
		case p.Kind.IsFunction() && !typeSpace:
			for _, param := range p.List(syntax.FieldParams) {
				if bindingName(param) == name {
					return param
				}
			}
		case p.Kind == syntax.CatchClause && !typeSpace:
			if param := p.Child(syntax.FieldParam); param != nil && bindingName(param) == name {
				return param
			}
		case p.Is(syntax.ForStatement, syntax.ForInStatement, syntax.ForOfStatement) && !typeSpace:
			for _, f := range []syntax.Field{syntax.FieldInit, syntax.FieldLeft} {
				if d := p.Child(f); d != nil {
					if decl := declares(d, name, false); decl != nil {
						return decl
					}
				}
			}
		}
		for _, stmt := range statements(p) {
			if decl := declares(stmt, name, typeSpace); decl != nil {
				return decl
			}
		}
	}
	return nil
}

// importSource returns the module and imported name of an import specifier.
// Namespace imports report "*" and default imports "default".
func importSource(spec *syntax.Node) (module, imported string) {
	decl := spec.Parent()
	if decl == nil || decl.Kind != syntax.ImportDeclaration {
		return "", ""
	}
	if src := decl.Child(syntax.FieldSource); src != nil {
		module = src.Value
	}
	switch spec.Kind {
	case syntax.ImportSpecifier:
		if imp := spec.Child(syntax.FieldImported); imp != nil {
			imported = imp.Name
			if imp.Kind == syntax.Literal {
				imported = imp.Value
			}
		}
	case syntax.ImportNamespaceSpecifier:
		imported = "*"
	case syntax.ImportDefaultSpecifier:
		imported = "default"
	}
	return module, imported
}

// enclosingClass returns the class whose instance `this` refers to at n.
func enclosingClass(n *syntax.Node) *syntax.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Kind {
		case syntax.ClassDeclaration:
			return p
		case syntax.FunctionExpression:
			if parent := p.Parent(); parent == nil || parent.Kind != syntax.MethodDefinition {
				return nil
			}
		case syntax.FunctionDeclaration:
			return nil
		}
	}
	return nil
}

// classMember returns the property, method or parameter property that
// declares name on class.
func classMember(class *syntax.Node, name string) *syntax.Node {
	body := class.Child(syntax.FieldBody)
	if body == nil {
		return nil
	}
	for _, m := range body.List(syntax.FieldBody) {
		if m.Has(syntax.Static) {
			continue
		}
		switch m.Kind {
		case syntax.PropertyDefinition:
			if keyName(m.Child(syntax.FieldKey)) == name && !m.Has(syntax.Computed) {
				return m
			}
		case syntax.MethodDefinition:
			if m.Variant == "constructor" {
				fn := m.Child(syntax.FieldValue)
				for _, param := range fn.List(syntax.FieldParams) {
					if param.Kind == syntax.TSParameterProperty && bindingName(param) == name {
						return param
					}
				}
				continue
			}
			if keyName(m.Child(syntax.FieldKey)) == name && !m.Has(syntax.Computed) {
				return m
			}
		}
	}
	return nil
}

// keyName returns the static name of a property key.
func keyName(key *syntax.Node) string {
	if key == nil {
		return ""
	}
	switch key.Kind {
	case syntax.Identifier:
		return key.Name
	case syntax.Literal:
		return key.Value
	}
	return ""
}
