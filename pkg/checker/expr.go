package checker

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

func (c *Checker) expr(n *syntax.Node) types.Type {
	switch n.Kind {
	case syntax.Literal:
		return literalType(n)
	case syntax.TemplateLiteral:
		if len(n.List(syntax.FieldExpression)) == 0 {
			return types.String(n.Value)
		}
		return types.StringType
	case syntax.Identifier:
		return c.identifier(n)
	case syntax.MemberExpression:
		return c.member(n)
	case syntax.CallExpression:
		return c.call(n)
	case syntax.NewExpression:
		return c.newExpr(n)
	case syntax.ObjectExpression:
		return c.object(n)
	case syntax.ArrayExpression:
		var elems []types.Type
		for _, e := range n.List(syntax.FieldElements) {
			elems = append(elems, c.TypeOf(e))
		}
		elem := types.NewUnion(elems...)
		if !constContext(n) {
			elem = types.Widen(elem)
		}
		return arrayOf(elem)
	case syntax.ArrowFunctionExpression, syntax.FunctionExpression, syntax.FunctionDeclaration:
		return c.function(n)
	case syntax.ConditionalExpression:
		return types.NewUnion(c.TypeOf(n.Child(syntax.FieldConsequent)), c.TypeOf(n.Child(syntax.FieldAlternate)))
	case syntax.LogicalExpression:
		right := c.TypeOf(n.Child(syntax.FieldRight))
		if n.Operator == "&&" {
			return right
		}
		return types.NewUnion(nonNullable(c.TypeOf(n.Child(syntax.FieldLeft))), right)
	case syntax.TSAsExpression:
		typ := n.Child(syntax.FieldTypeAnnotation)
		if n.Variant == "satisfies" || isConstType(typ) {
			return c.TypeOf(n.Child(syntax.FieldExpression))
		}
		return c.TypeOf(typ)
	case syntax.TSNonNullExpression:
		return nonNullable(c.TypeOf(n.Child(syntax.FieldExpression)))
	case syntax.UnaryExpression:
		switch n.Operator {
		case "!":
			return types.BooleanType
		case "typeof":
			return types.StringType
		case "void":
			return types.UndefinedType
		}
		return types.NumberType
	case syntax.BinaryExpression:
		switch n.Operator {
		case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
			return types.BooleanType
		}
		return nil
	}
	return nil
}

func literalType(n *syntax.Node) types.Type {
	switch n.Variant {
	case "string":
		return types.String(n.Value)
	case "number":
		return types.Number(n.Value)
	case "boolean":
		return &types.Literal{Kind: types.BooleanLiteral, Value: n.Value}
	case "null":
		return types.NullType
	case "regexp":
		return &types.Object{Name: "RegExp"}
	}
	return nil
}

func arrayOf(elem types.Type) *types.Object {
	return &types.Object{Name: "Array", TypeArgs: []types.Type{elem}}
}

// nonNullable removes null and undefined from a union.
func nonNullable(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	var keep []types.Type
	for _, m := range u.Members {
		if m != types.NullType && m != types.UndefinedType {
			keep = append(keep, m)
		}
	}
	return types.NewUnion(keep...)
}

// isConstType reports whether a type node is the `const` of `as const`.
func isConstType(n *syntax.Node) bool {
	if n == nil || n.Kind != syntax.TSTypeReference {
		return false
	}
	name := n.Child(syntax.FieldTypeName)
	return name != nil && name.Kind == syntax.Identifier && name.Name == "const" && n.Child(syntax.FieldTypeArguments) == nil
}

// constContext reports whether an object or array literal sits under an
// `as const` assertion, possibly through enclosing literals.
func constContext(n *syntax.Node) bool {
	for p := n.Parent(); p != nil; n, p = p, p.Parent() {
		switch p.Kind {
		case syntax.Property:
			if n.ParentField() != syntax.FieldValue {
				return false
			}
		case syntax.ObjectExpression, syntax.ArrayExpression:
		case syntax.TSAsExpression:
			return p.Variant == "as" && isConstType(p.Child(syntax.FieldTypeAnnotation))
		default:
			return false
		}
	}
	return false
}

func (c *Checker) identifier(n *syntax.Node) types.Type {
	decl := lookup(n, n.Name, false)
	if decl == nil {
		switch n.Name {
		case "undefined":
			return types.UndefinedType
		case "EMPTY", "NEVER":
			return types.Observable(types.NeverType)
		}
		return nil
	}
	switch decl.Kind {
	case syntax.VariableDeclarator:
		return c.variable(decl)
	case syntax.FunctionDeclaration:
		return c.TypeOf(decl)
	case syntax.TSEnumDeclaration:
		if o := c.enumObject(decl); o != nil {
			return o
		}
		return nil
	case syntax.ClassDeclaration:
		return &types.Object{Name: "typeof " + idName(decl)}
	case syntax.ImportSpecifier, syntax.ImportDefaultSpecifier, syntax.ImportNamespaceSpecifier:
		module, imported := importSource(decl)
		if libraryModules[module] && (imported == "EMPTY" || imported == "NEVER") {
			return types.Observable(types.NeverType)
		}
		return nil
	}
	return c.param(decl)
}

func (c *Checker) variable(decl *syntax.Node) types.Type {
	return c.declType(decl, func() types.Type {
		id := decl.Child(syntax.FieldID)
		if ann := id.Child(syntax.FieldTypeAnnotation); ann != nil {
			return c.TypeOf(ann)
		}
		t := c.TypeOf(decl.Child(syntax.FieldInit))
		if parent := decl.Parent(); parent != nil && parent.Variant != "const" {
			t = types.Widen(t)
		}
		return t
	})
}

// param types a parameter from its annotation, its default value, or the
// callback position it occupies.
func (c *Checker) param(p *syntax.Node) types.Type {
	target := p
	if p.Kind == syntax.TSParameterProperty {
		target = p.Child(syntax.FieldParameter)
	}
	switch target.Kind {
	case syntax.Identifier, syntax.RestElement, syntax.ObjectPattern:
		if ann := target.Child(syntax.FieldTypeAnnotation); ann != nil {
			return c.TypeOf(ann)
		}
	case syntax.AssignmentPattern:
		if ann := target.Child(syntax.FieldLeft).Child(syntax.FieldTypeAnnotation); ann != nil {
			return c.TypeOf(ann)
		}
		return types.Widen(c.TypeOf(target.Child(syntax.FieldRight)))
	}
	if p.Kind == syntax.TSParameterProperty || p.ParentField() != syntax.FieldParams {
		return nil
	}
	return c.contextualParam(p.Parent(), p.Index())
}

func (c *Checker) member(n *syntax.Node) types.Type {
	if n.Has(syntax.Computed) {
		return nil
	}
	name := n.Child(syntax.FieldProperty).Name
	obj := n.Child(syntax.FieldObject)
	if obj.Kind == syntax.ThisExpression {
		class := enclosingClass(n)
		if class == nil {
			return nil
		}
		m := classMember(class, name)
		if m == nil {
			return nil
		}
		return c.classMemberType(m)
	}
	o, ok := types.Resolve(c.TypeOf(obj)).(*types.Object)
	if !ok {
		return nil
	}
	if o.Name == "Array" && name == "length" {
		return types.NumberType
	}
	p, ok := o.Prop(name)
	if !ok {
		return nil
	}
	return p.Type
}

func (c *Checker) classMemberType(m *syntax.Node) types.Type {
	switch m.Kind {
	case syntax.PropertyDefinition:
		if ann := m.Child(syntax.FieldTypeAnnotation); ann != nil {
			return c.TypeOf(ann)
		}
		t := c.TypeOf(m.Child(syntax.FieldValue))
		if !m.Has(syntax.Readonly) {
			t = types.Widen(t)
		}
		return t
	case syntax.MethodDefinition:
		return c.TypeOf(m.Child(syntax.FieldValue))
	case syntax.TSParameterProperty:
		return c.param(m)
	}
	return nil
}

func (c *Checker) call(n *syntax.Node) types.Type {
	callee := n.Child(syntax.FieldCallee)
	if isPipe(n) {
		return c.pipe(n)
	}
	if name := c.library(callee); name != "" {
		if t, ok := c.libraryCall(name, n); ok {
			return t
		}
	}
	fn, ok := types.Resolve(c.TypeOf(callee)).(*types.Object)
	if !ok {
		return nil
	}
	if sig := fn.FirstSignature(); sig != nil {
		return sig.Result
	}
	return nil
}

func (c *Checker) newExpr(n *syntax.Node) types.Type {
	callee := n.Child(syntax.FieldCallee)
	if callee.Kind != syntax.Identifier {
		return nil
	}
	decl := lookup(callee, callee.Name, false)
	if decl != nil && decl.Kind == syntax.ClassDeclaration {
		return c.classInstance(decl)
	}
	if name := c.library(callee); name == "Subject" || name == "BehaviorSubject" || name == "ReplaySubject" {
		var elem types.Type
		if args := n.Child(syntax.FieldTypeArguments); args != nil && len(args.List(syntax.FieldParams)) == 1 {
			elem = c.TypeOf(args.List(syntax.FieldParams)[0])
		}
		return types.Observable(elem)
	}
	return nil
}

// object types an object literal. Property types widen unless the literal is
// under `as const`.
func (c *Checker) object(n *syntax.Node) types.Type {
	widen := !constContext(n)
	o := &types.Object{}
	for _, p := range n.List(syntax.FieldProperties) {
		switch p.Kind {
		case syntax.SpreadElement:
			if src, ok := types.Resolve(c.TypeOf(p.Child(syntax.FieldArgument))).(*types.Object); ok {
				for _, sp := range src.Props {
					o = o.WithProp(sp)
				}
			}
		case syntax.Property:
			if p.Has(syntax.Computed) {
				continue
			}
			name := keyName(p.Child(syntax.FieldKey))
			if name == "" {
				continue
			}
			t := c.TypeOf(p.Child(syntax.FieldValue))
			if widen {
				t = types.Widen(t)
			}
			o = o.WithProp(types.Property{Name: name, Type: t})
		}
	}
	return o
}

// function types a function as an object with one call signature.
func (c *Checker) function(fn *syntax.Node) types.Type {
	sig := &types.Signature{}
	for _, p := range fn.List(syntax.FieldParams) {
		sig.Params = append(sig.Params, c.param(p))
	}
	sig.Result = c.returnType(fn)
	return &types.Object{Calls: []*types.Signature{sig}}
}

// returnType returns the declared or inferred result of a function node, or
// the first call signature result of any other callable expression.
func (c *Checker) returnType(fn *syntax.Node) types.Type {
	if fn == nil {
		return nil
	}
	if !fn.Kind.IsFunction() {
		o, ok := types.Resolve(c.TypeOf(fn)).(*types.Object)
		if !ok {
			return nil
		}
		if sig := o.FirstSignature(); sig != nil {
			return sig.Result
		}
		return nil
	}
	if ann := fn.Child(syntax.FieldReturnType); ann != nil {
		return c.TypeOf(ann)
	}
	body := fn.Child(syntax.FieldBody)
	if body == nil {
		return nil
	}
	if body.Kind != syntax.BlockStatement {
		return types.Widen(c.TypeOf(body))
	}
	var results []types.Type
	unknown := false
	syntax.Walk(body, func(m *syntax.Node) bool {
		if m.Kind.IsFunction() || m.Kind == syntax.ClassDeclaration {
			return false
		}
		if m.Kind == syntax.ReturnStatement {
			arg := m.Child(syntax.FieldArgument)
			if arg == nil {
				results = append(results, types.VoidType)
				return false
			}
			t := c.TypeOf(arg)
			if t == nil {
				unknown = true
			}
			results = append(results, t)
		}
		return true
	})
	if unknown {
		return nil
	}
	if len(results) == 0 {
		return types.VoidType
	}
	return types.Widen(types.NewUnion(results...))
}
