package checker

import (
	"strconv"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

var keywords = map[string]types.Type{
	"string":    types.StringType,
	"number":    types.NumberType,
	"boolean":   types.BooleanType,
	"any":       types.AnyType,
	"unknown":   types.UnknownType,
	"never":     types.NeverType,
	"void":      types.VoidType,
	"undefined": types.UndefinedType,
	"null":      types.NullType,
}

// annotation converts a written type.
func (c *Checker) annotation(n *syntax.Node) types.Type {
	switch n.Kind {
	case syntax.TSTypeAnnotation:
		return c.TypeOf(n.Child(syntax.FieldTypeAnnotation))
	case syntax.TSKeyword:
		if t, ok := keywords[n.Name]; ok {
			return t
		}
		return &types.Keyword{Name: n.Name}
	case syntax.TSLiteralType:
		return literalType(n.Child(syntax.FieldLiteral))
	case syntax.TSUnionType:
		var members []types.Type
		for _, m := range n.List(syntax.FieldTypes) {
			t := c.TypeOf(m)
			if t == nil {
				return nil
			}
			members = append(members, t)
		}
		return types.NewUnion(members...)
	case syntax.TSIntersectionType:
		o := &types.Object{}
		for _, m := range n.List(syntax.FieldTypes) {
			part, ok := types.Resolve(c.TypeOf(m)).(*types.Object)
			if !ok {
				return nil
			}
			for _, p := range part.Props {
				o = o.WithProp(p)
			}
		}
		return o
	case syntax.TSTypeLiteral:
		return c.members(&types.Object{}, n.List(syntax.FieldMembers))
	case syntax.TSArrayType:
		return arrayOf(c.TypeOf(n.Child(syntax.FieldElementType)))
	case syntax.TSTupleType:
		var elems []types.Type
		for _, e := range n.List(syntax.FieldTypes) {
			elems = append(elems, c.TypeOf(e))
		}
		return &types.Object{Name: "Tuple", TypeArgs: elems}
	case syntax.TSFunctionType:
		sig := &types.Signature{Result: c.TypeOf(n.Child(syntax.FieldReturnType))}
		for _, p := range n.List(syntax.FieldParams) {
			sig.Params = append(sig.Params, c.param(p))
		}
		return &types.Object{Calls: []*types.Signature{sig}}
	case syntax.TSTypeQuery:
		return c.TypeOf(n.Child(syntax.FieldExprName))
	case syntax.TSTypeOperator:
		if n.Operator == "readonly" {
			return c.TypeOf(n.Child(syntax.FieldTypeAnnotation))
		}
		return nil
	case syntax.TSQualifiedName:
		return c.qualified(n)
	case syntax.TSTypeReference:
		return c.reference(n)
	}
	return nil
}

// qualified resolves Left.Right: an enum member when Left names an enum,
// otherwise a property of Left's value type.
func (c *Checker) qualified(n *syntax.Node) types.Type {
	left, right := n.Child(syntax.FieldLeft), n.Child(syntax.FieldRight)
	var o *types.Object
	if left.Kind == syntax.Identifier {
		if decl := lookup(n, left.Name, true); decl != nil && decl.Kind == syntax.TSEnumDeclaration {
			o = c.enumObject(decl)
		}
	}
	if o == nil {
		var ok bool
		if o, ok = types.Resolve(c.TypeOf(left)).(*types.Object); !ok {
			return nil
		}
	}
	if p, ok := o.Prop(right.Name); ok {
		return p.Type
	}
	return nil
}

func (c *Checker) reference(n *syntax.Node) types.Type {
	name := n.Child(syntax.FieldTypeName)
	if name.Kind == syntax.TSQualifiedName {
		return c.TypeOf(name)
	}
	var args []types.Type
	if ta := n.Child(syntax.FieldTypeArguments); ta != nil {
		for _, a := range ta.List(syntax.FieldParams) {
			args = append(args, c.TypeOf(a))
		}
	}

	global := name.Name
	switch decl := lookup(n, name.Name, true); {
	case decl == nil:
	case decl.Kind == syntax.TSTypeAliasDeclaration:
		return c.namedDecl(decl, name.Name, func() types.Type {
			return c.TypeOf(decl.Child(syntax.FieldTypeAnnotation))
		})
	case decl.Kind == syntax.TSInterfaceDeclaration:
		return c.namedDecl(decl, name.Name, func() types.Type {
			return c.interfaceObject(decl)
		})
	case decl.Kind == syntax.TSEnumDeclaration:
		var members []types.Type
		if o := c.enumObject(decl); o != nil {
			for _, p := range o.Props {
				members = append(members, p.Type)
			}
		}
		return &types.Ref{Name: name.Name, Target: types.NewUnion(members...)}
	case decl.Kind == syntax.ClassDeclaration:
		return c.classInstance(decl)
	case decl.Kind == syntax.ImportSpecifier:
		_, global = importSource(decl)
	default:
		return nil
	}
	return globalType(global, args)
}

// globalType types references to library and built-in generic types.
func globalType(name string, args []types.Type) types.Type {
	arg := func(i int) types.Type {
		if i < len(args) {
			return args[i]
		}
		return nil
	}
	switch name {
	case "Observable", "Subject", "BehaviorSubject", "ReplaySubject":
		return types.Observable(arg(0))
	case "Actions":
		return &types.Object{Name: "Actions", TypeArgs: args}
	case "Array", "ReadonlyArray":
		return arrayOf(arg(0))
	case "Readonly":
		return arg(0)
	case "NonNullable":
		return nonNullable(arg(0))
	case "ReturnType":
		if o, ok := types.Resolve(arg(0)).(*types.Object); ok {
			if sig := o.FirstSignature(); sig != nil {
				return sig.Result
			}
		}
		return nil
	case "Action":
		return &types.Object{Name: "Action", Props: []types.Property{{Name: "type", Type: types.StringType}}}
	case "Promise", "Store", "Map", "Set", "Record":
		return &types.Object{Name: name, TypeArgs: args}
	}
	return &types.Ref{Name: name}
}

// members adds property signatures to o.
func (c *Checker) members(o *types.Object, members []*syntax.Node) *types.Object {
	for _, m := range members {
		if m.Kind != syntax.TSPropertySignature || m.Has(syntax.Computed) {
			continue
		}
		name := keyName(m.Child(syntax.FieldKey))
		if name == "" {
			continue
		}
		o = o.WithProp(types.Property{
			Name:     name,
			Type:     c.TypeOf(m.Child(syntax.FieldTypeAnnotation)),
			Optional: m.Has(syntax.Optional),
		})
	}
	return o
}

func (c *Checker) interfaceObject(decl *syntax.Node) types.Type {
	o := &types.Object{}
	for _, ext := range decl.List(syntax.FieldExtends) {
		if base, ok := types.Resolve(c.TypeOf(ext)).(*types.Object); ok {
			for _, p := range base.Props {
				o = o.WithProp(p)
			}
		}
	}
	if body := decl.Child(syntax.FieldBody); body != nil {
		o = c.members(o, body.List(syntax.FieldBody))
	}
	return o
}

// enumObject types an enum as an object whose properties are references to
// the members' literal values.
func (c *Checker) enumObject(decl *syntax.Node) *types.Object {
	t := c.declType(decl, func() types.Type {
		name := idName(decl)
		o := &types.Object{Name: name}
		next, numeric := 0, true
		for _, m := range decl.List(syntax.FieldMembers) {
			member := keyName(m.Child(syntax.FieldID))
			var value types.Type
			switch init := m.Child(syntax.FieldInit); {
			case init == nil && numeric:
				value = types.Number(strconv.Itoa(next))
				next++
			case init != nil && init.Kind == syntax.Literal && init.Variant == "string":
				value = types.String(init.Value)
				numeric = false
			case init != nil && init.Kind == syntax.Literal && init.Variant == "number":
				value = types.Number(init.Value)
				if v, err := strconv.Atoi(init.Value); err == nil {
					next, numeric = v+1, true
				} else {
					numeric = false
				}
			default:
				numeric = false
			}
			o.Props = append(o.Props, types.Property{
				Name: member,
				Type: &types.Ref{Name: name + "." + member, Target: value},
			})
		}
		return o
	})
	o, _ := t.(*types.Object)
	return o
}
