package checker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

var libraryModules = map[string]bool{
	"@ngrx/store":    true,
	"@ngrx/effects":  true,
	"@angular/core":  true,
	"rxjs":           true,
	"rxjs/operators": true,
}

type operatorKind uint8

const (
	notOperator operatorKind = iota
	filterOperator
	mapOperator
	flattenOperator
	catchOperator
	passOperator
)

var operators = map[string]operatorKind{
	"ofType":               filterOperator,
	"map":                  mapOperator,
	"switchMap":            flattenOperator,
	"mergeMap":             flattenOperator,
	"concatMap":            flattenOperator,
	"exhaustMap":           flattenOperator,
	"catchError":           catchOperator,
	"tap":                  passOperator,
	"filter":               passOperator,
	"take":                 passOperator,
	"takeUntil":            passOperator,
	"debounceTime":         passOperator,
	"throttleTime":         passOperator,
	"auditTime":            passOperator,
	"delay":                passOperator,
	"distinctUntilChanged": passOperator,
	"share":                passOperator,
	"shareReplay":          passOperator,
	"finalize":             passOperator,
	"first":                passOperator,
	"retry":                passOperator,
	"skip":                 passOperator,
	"observeOn":            passOperator,
}

var knownFunctions = map[string]bool{
	"createAction":      true,
	"createActionGroup": true,
	"props":             true,
	"emptyProps":        true,
	"createEffect":      true,
	"of":                true,
	"from":              true,
	"throwError":        true,
	"inject":            true,
	"on":                true,
}

// library returns the library export a callee refers to, or "". Undeclared
// names that match a known export are treated as that export.
func (c *Checker) library(callee *syntax.Node) string {
	switch callee.Kind {
	case syntax.Identifier:
		decl := lookup(callee, callee.Name, false)
		if decl == nil {
			if knownFunctions[callee.Name] || operators[callee.Name] != notOperator {
				return callee.Name
			}
			return ""
		}
		if decl.Kind != syntax.ImportSpecifier {
			return ""
		}
		if module, imported := importSource(decl); libraryModules[module] {
			return imported
		}
	case syntax.MemberExpression:
		obj := callee.Child(syntax.FieldObject)
		if callee.Has(syntax.Computed) || obj.Kind != syntax.Identifier {
			return ""
		}
		decl := lookup(obj, obj.Name, false)
		if decl == nil || decl.Kind != syntax.ImportNamespaceSpecifier {
			return ""
		}
		if module, _ := importSource(decl); libraryModules[module] {
			return callee.Child(syntax.FieldProperty).Name
		}
	}
	return ""
}

func (c *Checker) libraryCall(name string, call *syntax.Node) (types.Type, bool) {
	args := call.List(syntax.FieldArguments)
	arg := func(i int) *syntax.Node {
		if i < len(args) {
			return args[i]
		}
		return nil
	}
	if kind := operators[name]; kind != notOperator {
		return c.operator(kind, call, c.pipeInput(call)), true
	}
	switch name {
	case "createAction":
		if len(args) == 0 {
			return nil, true
		}
		return creator(c.TypeOf(args[0]), c.TypeOf(arg(1))), true
	case "props":
		var typeArgs []types.Type
		if ta := call.Child(syntax.FieldTypeArguments); ta != nil {
			for _, a := range ta.List(syntax.FieldParams) {
				typeArgs = append(typeArgs, c.TypeOf(a))
			}
		}
		return &types.Object{Name: "props", TypeArgs: typeArgs}, true
	case "emptyProps":
		return &types.Object{Name: "props"}, true
	case "createActionGroup":
		return c.actionGroup(arg(0)), true
	case "of":
		var elems []types.Type
		for _, a := range args {
			elems = append(elems, c.TypeOf(a))
		}
		if len(elems) == 0 {
			return types.Observable(types.NeverType), true
		}
		return types.Observable(types.NewUnion(elems...)), true
	case "from":
		return types.Observable(inputElement(c.TypeOf(arg(0)))), true
	case "throwError":
		return types.Observable(types.NeverType), true
	case "createEffect":
		return c.returnType(arg(0)), true
	case "inject":
		return c.instanceOf(arg(0)), true
	}
	return nil, false
}

// creator builds the type of an action creator for discriminant typ. config
// is a props<T>() marker, a payload function, or nil.
func creator(typ, config types.Type) types.Type {
	action := &types.Object{Props: []types.Property{{Name: "type", Type: typ}}}
	var params []types.Type
	if o, ok := config.(*types.Object); ok {
		switch {
		case o.Name == "props" && len(o.TypeArgs) == 1:
			params = o.TypeArgs
			if payload, ok := types.Resolve(o.TypeArgs[0]).(*types.Object); ok {
				for _, p := range payload.Props {
					action = action.WithProp(p)
				}
			}
		case len(o.Calls) > 0:
			sig := o.Calls[0]
			params = sig.Params
			if payload, ok := types.Resolve(sig.Result).(*types.Object); ok {
				for _, p := range payload.Props {
					action = action.WithProp(p)
				}
			}
			action = action.WithProp(types.Property{Name: "type", Type: typ})
		}
	}
	return &types.Object{
		Name:     "ActionCreator",
		TypeArgs: []types.Type{typ},
		Props:    []types.Property{{Name: "type", Type: typ}},
		Calls:    []*types.Signature{{Params: params, Result: action}},
	}
}

// actionGroup types createActionGroup({ source, events }): one creator per
// event, keyed by the camel-cased event name, typed "[source] event".
func (c *Checker) actionGroup(config *syntax.Node) types.Type {
	if config == nil || config.Kind != syntax.ObjectExpression {
		return nil
	}
	var source string
	var events *syntax.Node
	for _, p := range config.List(syntax.FieldProperties) {
		if p.Kind != syntax.Property || p.Has(syntax.Computed) {
			continue
		}
		switch keyName(p.Child(syntax.FieldKey)) {
		case "source":
			lit, ok := types.Resolve(c.TypeOf(p.Child(syntax.FieldValue))).(*types.Literal)
			if !ok || lit.Kind != types.StringLiteral {
				return nil
			}
			source = lit.Value
		case "events":
			events = p.Child(syntax.FieldValue)
		}
	}
	if events == nil || events.Kind != syntax.ObjectExpression {
		return nil
	}
	group := &types.Object{}
	for _, e := range events.List(syntax.FieldProperties) {
		if e.Kind != syntax.Property || e.Has(syntax.Computed) {
			continue
		}
		event := keyName(e.Child(syntax.FieldKey))
		if event == "" {
			continue
		}
		typ := types.String("[" + source + "] " + event)
		group = group.WithProp(types.Property{
			Name: ActionName(event),
			Type: creator(typ, c.TypeOf(e.Child(syntax.FieldValue))),
		})
	}
	return group
}

// ActionName converts an event name such as "Load Books Success" to the
// property name createActionGroup derives for it ("loadBooksSuccess").
func ActionName(event string) string {
	var b strings.Builder
	for i, word := range strings.Fields(event) {
		r, size := utf8.DecodeRuneInString(word)
		if i == 0 {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		b.WriteString(word[size:])
	}
	return b.String()
}

// instanceOf types the injected instance for inject(Token).
func (c *Checker) instanceOf(token *syntax.Node) types.Type {
	if token == nil || token.Kind != syntax.Identifier {
		return nil
	}
	if decl := lookup(token, token.Name, true); decl != nil && decl.Kind == syntax.ClassDeclaration {
		return c.classInstance(decl)
	}
	if token.Name == "Actions" {
		return &types.Object{Name: "Actions"}
	}
	return &types.Object{Name: token.Name}
}

func (c *Checker) classInstance(decl *syntax.Node) types.Type {
	return c.declType(decl, func() types.Type {
		o := &types.Object{Name: idName(decl)}
		body := decl.Child(syntax.FieldBody)
		if body == nil {
			return o
		}
		for _, m := range body.List(syntax.FieldBody) {
			if m.Has(syntax.Static) || m.Has(syntax.Computed) {
				continue
			}
			if m.Kind == syntax.MethodDefinition && m.Variant == "constructor" {
				for _, param := range m.Child(syntax.FieldValue).List(syntax.FieldParams) {
					if param.Kind == syntax.TSParameterProperty {
						o = o.WithProp(types.Property{Name: bindingName(param), Type: c.param(param)})
					}
				}
				continue
			}
			if name := keyName(m.Child(syntax.FieldKey)); name != "" {
				o = o.WithProp(types.Property{Name: name, Type: c.classMemberType(m)})
			}
		}
		return o
	})
}

func isPipe(call *syntax.Node) bool {
	callee := call.Child(syntax.FieldCallee)
	return callee != nil && callee.Kind == syntax.MemberExpression && !callee.Has(syntax.Computed) &&
		callee.Child(syntax.FieldProperty).Name == "pipe"
}

// streamElement returns T for Observable<T>, Actions<T> and subjects.
func streamElement(t types.Type) types.Type {
	o, ok := types.Resolve(t).(*types.Object)
	if !ok || len(o.TypeArgs) == 0 {
		return nil
	}
	switch o.Name {
	case "Observable", "Actions":
		return o.TypeArgs[0]
	}
	return nil
}

// inputElement returns the element type of an ObservableInput: an
// observable or an array.
func inputElement(t types.Type) types.Type {
	if elem := types.ElementOf(t); elem != nil {
		return elem
	}
	if o, ok := types.Resolve(t).(*types.Object); ok && o.Name == "Array" && len(o.TypeArgs) == 1 {
		return o.TypeArgs[0]
	}
	return nil
}

// pipe folds source.pipe(op1, op2, ...) through each operator's first
// resolvable signature.
func (c *Checker) pipe(call *syntax.Node) types.Type {
	in := streamElement(c.TypeOf(call.Child(syntax.FieldCallee).Child(syntax.FieldObject)))
	for _, op := range call.List(syntax.FieldArguments) {
		var ok bool
		if in, ok = stage(c.TypeOf(op)); !ok {
			return nil
		}
	}
	return types.Observable(in)
}

// stage applies an operator type to its input, returning the output element.
func stage(op types.Type) (types.Type, bool) {
	o, ok := types.Resolve(op).(*types.Object)
	if !ok {
		return nil, false
	}
	sig := o.FirstSignature()
	if sig == nil {
		return nil, false
	}
	return types.ElementOf(sig.Result), true
}

// pipeInput returns the element type flowing into call when call is an
// operator argument of a pipe, or nil.
func (c *Checker) pipeInput(call *syntax.Node) types.Type {
	parent := call.Parent()
	if parent == nil || call.ParentField() != syntax.FieldArguments || parent.Kind != syntax.CallExpression || !isPipe(parent) {
		return nil
	}
	in := streamElement(c.TypeOf(parent.Child(syntax.FieldCallee).Child(syntax.FieldObject)))
	for _, op := range parent.List(syntax.FieldArguments)[:call.Index()] {
		var ok bool
		if in, ok = stage(c.TypeOf(op)); !ok {
			return nil
		}
	}
	return in
}

// operator types an operator call as OperatorFunction<in, out>.
func (c *Checker) operator(kind operatorKind, call *syntax.Node, in types.Type) types.Type {
	args := call.List(syntax.FieldArguments)
	var project *syntax.Node
	if len(args) > 0 {
		project = args[0]
	}
	var out types.Type
	switch kind {
	case filterOperator:
		var narrowed []types.Type
		for _, a := range args {
			narrowed = append(narrowed, actionOf(c.TypeOf(a)))
		}
		out = types.NewUnion(narrowed...)
	case mapOperator:
		out = c.returnType(project)
	case flattenOperator:
		out = inputElement(c.returnType(project))
	case catchOperator:
		out = types.NewUnion(in, inputElement(c.returnType(project)))
	case passOperator:
		out = in
	}
	return &types.Object{
		Name:     "OperatorFunction",
		TypeArgs: []types.Type{in, out},
		Calls:    []*types.Signature{{Params: []types.Type{types.Observable(in)}, Result: types.Observable(out)}},
	}
}

// actionOf returns the action type an ofType argument narrows to: the
// result of an action creator, or an action carrying a literal discriminant.
func actionOf(t types.Type) types.Type {
	switch r := types.Resolve(t).(type) {
	case *types.Object:
		if sig := r.FirstSignature(); sig != nil {
			return sig.Result
		}
	case *types.Literal:
		return &types.Object{Props: []types.Property{{Name: "type", Type: t}}}
	}
	return nil
}

// contextualParam types a callback parameter from the call it is passed to.
func (c *Checker) contextualParam(fn *syntax.Node, index int) types.Type {
	if fn.ParentField() != syntax.FieldArguments {
		return nil
	}
	call := fn.Parent()
	if call.Kind != syntax.CallExpression {
		return nil
	}
	name := c.library(call.Child(syntax.FieldCallee))
	switch kind := operators[name]; {
	case kind == mapOperator || kind == flattenOperator || kind == passOperator:
		if index == 0 {
			return c.pipeInput(call)
		}
	case name == "on":
		if index != 1 {
			return nil
		}
		var actions []types.Type
		for _, a := range call.List(syntax.FieldArguments)[:fn.Index()] {
			actions = append(actions, actionOf(c.TypeOf(a)))
		}
		return types.NewUnion(actions...)
	}
	return nil
}
