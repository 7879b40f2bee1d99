// Package types is the static type model consumed by the lint core.
//
// The model covers only what discriminant analysis needs: literal types,
// keyword types, unions, object types with properties and call signatures,
// and named references that can be unwrapped. A host supplies an Oracle that
// maps syntax nodes to types; nil means "unknown" and every consumer must
// treat it as a non-match.
package types

import (
	"slices"
	"strconv"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// Type is a static type.
type Type interface {
	String() string
	isType()
}

// Oracle answers the static type of an expression node. It returns nil when
// the type cannot be determined.
type Oracle interface {
	TypeOf(n *syntax.Node) Type
}

// LiteralKind distinguishes literal types.
type LiteralKind uint8

// Literal kinds.
const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BooleanLiteral
)

// Literal is a string, number or boolean literal type.
type Literal struct {
	Kind  LiteralKind
	Value string
}

func (*Literal) isType() {}

func (l *Literal) String() string {
	if l.Kind == StringLiteral {
		return strconv.Quote(l.Value)
	}
	return l.Value
}

// String returns a string literal type.
func String(v string) *Literal { return &Literal{Kind: StringLiteral, Value: v} }

// Number returns a number literal type.
func Number(v string) *Literal { return &Literal{Kind: NumberLiteral, Value: v} }

// Keyword is a primitive or special type: string, number, boolean, any,
// unknown, never, void, undefined, null, object, symbol, bigint.
type Keyword struct {
	Name string
}

func (*Keyword) isType()          {}
func (k *Keyword) String() string { return k.Name }

// Common keyword types.
var (
	StringType    = &Keyword{Name: "string"}
	NumberType    = &Keyword{Name: "number"}
	BooleanType   = &Keyword{Name: "boolean"}
	AnyType       = &Keyword{Name: "any"}
	UnknownType   = &Keyword{Name: "unknown"}
	NeverType     = &Keyword{Name: "never"}
	VoidType      = &Keyword{Name: "void"}
	UndefinedType = &Keyword{Name: "undefined"}
	NullType      = &Keyword{Name: "null"}
)

// Union is a union of at least two distinct member types.
type Union struct {
	Members []Type
}

func (*Union) isType() {}

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// NewUnion flattens nested unions, drops nil members and duplicates, and
// collapses single-member results. It returns nil for no members.
func NewUnion(members ...Type) Type {
	var flat []Type
	var add func(t Type)
	add = func(t Type) {
		switch t := t.(type) {
		case nil:
		case *Union:
			for _, m := range t.Members {
				add(m)
			}
		default:
			if !slices.ContainsFunc(flat, func(o Type) bool { return Identical(o, t) }) {
				flat = append(flat, t)
			}
		}
	}
	for _, m := range members {
		add(m)
	}
	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return &Union{Members: flat}
}

// Property is a named member of an object type.
type Property struct {
	Name     string
	Type     Type
	Optional bool
}

// Signature is a call signature.
type Signature struct {
	Params []Type
	Result Type
}

func (s *Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = typeString(p)
	}
	return "(" + strings.Join(parts, ", ") + ") => " + typeString(s.Result)
}

// Object is an object type: an anonymous type literal, an interface or class
// instance, or a generic instantiation such as Observable<T>.
type Object struct {
	Name     string
	TypeArgs []Type
	Props    []Property
	Calls    []*Signature
}

func (*Object) isType() {}

func (o *Object) String() string {
	if o.Name != "" {
		if len(o.TypeArgs) == 0 {
			return o.Name
		}
		args := make([]string, len(o.TypeArgs))
		for i, a := range o.TypeArgs {
			args[i] = typeString(a)
		}
		return o.Name + "<" + strings.Join(args, ", ") + ">"
	}
	var parts []string
	for _, p := range o.Props {
		opt := ""
		if p.Optional {
			opt = "?"
		}
		parts = append(parts, p.Name+opt+": "+typeString(p.Type))
	}
	for _, c := range o.Calls {
		parts = append(parts, c.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Prop returns the named property.
func (o *Object) Prop(name string) (Property, bool) {
	for _, p := range o.Props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// WithProp returns a copy of o with the property set, replacing an existing
// property of the same name.
func (o *Object) WithProp(p Property) *Object {
	c := *o
	c.Props = slices.Clone(o.Props)
	for i := range c.Props {
		if c.Props[i].Name == p.Name {
			c.Props[i] = p
			return &c
		}
	}
	c.Props = append(c.Props, p)
	return &c
}

// FirstSignature returns the first call signature that has a result type.
func (o *Object) FirstSignature() *Signature {
	for _, c := range o.Calls {
		if c != nil && c.Result != nil {
			return c
		}
	}
	return nil
}

// Ref is a named reference to another type: a type alias, an enum member
// or an interface seen through its name. Target is nil when unresolved.
type Ref struct {
	Name   string
	Target Type
}

func (*Ref) isType()          {}
func (r *Ref) String() string { return r.Name }

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

// maxUnwrap bounds reference chains so cyclic aliases terminate.
const maxUnwrap = 16

// Unwrap follows one level of reference.
func Unwrap(t Type) Type {
	if r, ok := t.(*Ref); ok {
		return r.Target
	}
	return t
}

// Resolve follows references until a non-reference type is reached. It
// returns nil for unresolved or cyclic chains.
func Resolve(t Type) Type {
	for range maxUnwrap {
		r, ok := t.(*Ref)
		if !ok {
			return t
		}
		t = r.Target
	}
	return nil
}

// Identical reports structural identity for literals and keywords and
// pointer identity otherwise.
func Identical(a, b Type) bool {
	switch a := a.(type) {
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Kind == b.Kind && a.Value == b.Value
	case *Keyword:
		b, ok := b.(*Keyword)
		return ok && a.Name == b.Name
	}
	return a == b
}

// Observable returns Observable<elem>.
func Observable(elem Type) *Object {
	return &Object{Name: "Observable", TypeArgs: []Type{elem}}
}

// ElementOf returns T for Observable<T> (after resolving references), or nil.
func ElementOf(t Type) Type {
	o, ok := Resolve(t).(*Object)
	if !ok || o.Name != "Observable" || len(o.TypeArgs) != 1 {
		return nil
	}
	return o.TypeArgs[0]
}

// Widen converts literal types to their keyword type. Used for mutable
// object-literal properties.
func Widen(t Type) Type {
	switch t := t.(type) {
	case *Literal:
		switch t.Kind {
		case StringLiteral:
			return StringType
		case NumberLiteral:
			return NumberType
		}
		return BooleanType
	case *Union:
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = Widen(m)
		}
		return NewUnion(members...)
	}
	return t
}
