// Package discriminant extracts the literal tags that distinguish members of
// an action union and compares what a pipeline filters on with what it
// emits.
//
// Anything that does not reduce to a literal is unknown and left out of the
// result, so a missing or widened type can only suppress a finding.
package discriminant

import (
	"strconv"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

// Property is the conventional discriminant property of an action.
const Property = "type"

// Value is one literal discriminant.
type Value struct {
	Kind types.LiteralKind
	Text string
}

func (v Value) String() string {
	if v.Kind == types.StringLiteral {
		return strconv.Quote(v.Text)
	}
	return v.Text
}

// Set is an ordered set of discriminants.
type Set []Value

// Has reports whether v is in the set.
func (s Set) Has(v Value) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func (s Set) add(vs ...Value) Set {
	for _, v := range vs {
		if !s.Has(v) {
			s = append(s, v)
		}
	}
	return s
}

// Strings returns the raw discriminant texts.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.Text
	}
	return out
}

// Of returns the discriminants of t. Unions contribute every member;
// objects contribute the literal value of their type property.
func Of(t types.Type) Set {
	return of(t, nil)
}

func of(t types.Type, acc Set) Set {
	switch r := types.Resolve(t).(type) {
	case *types.Union:
		for _, m := range r.Members {
			acc = of(m, acc)
		}
	case *types.Object:
		p, ok := r.Prop(Property)
		if !ok {
			return acc
		}
		acc = literals(p.Type, acc)
	}
	return acc
}

// literals collects the literal members of a discriminant property type.
// An alias on the property type, or on a union member, is followed one
// level and no further.
func literals(t types.Type, acc Set) Set {
	switch r := types.Unwrap(t).(type) {
	case *types.Literal:
		if r.Kind != types.BooleanLiteral {
			acc = acc.add(Value{Kind: r.Kind, Text: r.Value})
		}
	case *types.Union:
		for _, m := range r.Members {
			if lit, ok := types.Unwrap(m).(*types.Literal); ok && lit.Kind != types.BooleanLiteral {
				acc = acc.add(Value{Kind: lit.Kind, Text: lit.Value})
			}
		}
	}
	return acc
}

// Intersect returns the values present in both sets, in a's order.
func Intersect(a, b Set) []Value {
	var out []Value
	for _, v := range a {
		if b.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// FilterSide returns the discriminants an ofType call narrows to. Each
// argument is an action creator, whose first resolvable signature produces
// the action, or a literal discriminant.
func FilterSide(oracle types.Oracle, call *syntax.Node) Set {
	if oracle == nil || call == nil || call.Kind != syntax.CallExpression {
		return nil
	}
	var out Set
	for _, arg := range call.List(syntax.FieldArguments) {
		t := oracle.TypeOf(arg)
		switch r := types.Resolve(t).(type) {
		case *types.Object:
			if sig := r.FirstSignature(); sig != nil {
				out = of(sig.Result, out)
			}
		case *types.Literal, *types.Union:
			out = literals(t, out)
		}
	}
	return out
}

// EmitSide returns the discriminants a pipe call emits: the element type of
// its last operator's first resolvable signature, or of the pipe itself
// when the operator is not typed.
func EmitSide(oracle types.Oracle, pipe *syntax.Node) Set {
	if oracle == nil || pipe == nil || pipe.Kind != syntax.CallExpression {
		return nil
	}
	args := pipe.List(syntax.FieldArguments)
	if len(args) == 0 {
		return nil
	}
	if op, ok := types.Resolve(oracle.TypeOf(args[len(args)-1])).(*types.Object); ok {
		if sig := op.FirstSignature(); sig != nil {
			if elem := types.ElementOf(sig.Result); elem != nil {
				return Of(elem)
			}
		}
	}
	return Of(types.ElementOf(oracle.TypeOf(pipe)))
}
