package reducer

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

func init() {
	lint.Register(OnFunctionExplicitReturnType)
}

// OnFunctionExplicitReturnType reports `on` handlers whose return type is
// inferred.
var OnFunctionExplicitReturnType = lint.RuleDef{
	ID:             "RD02",
	Name:           "reducer.on-function-explicit-return-type",
	Group:          "reducer",
	Description:    "`on` handlers should declare their return type.",
	Severity:       lint.SeverityWarning,
	HasSuggestions: true,
	Messages: map[string]string{
		"explicitReturnType": "Declare the return type of this `on` handler.",
		"addReturnType":      "Add `{{ type }}` as the return type.",
	},
	Check:       checkOnReturnType,
	Rationale:   "Without a return type, extra or misspelled properties in the returned state are not reported.",
	BadExample:  "on(load, (state) => ({ ...state, loading: true }))",
	GoodExample: "on(load, (state): BooksState => ({ ...state, loading: true }))",
}

var untypedHandler = selector.MustCompile(
	`CallExpression[callee.name=$on] > :matches(ArrowFunctionExpression, FunctionExpression)[!returnType]:last-child`)

func checkOnReturnType(pass *lint.Pass) error {
	params := ast.ImportParams(binding.Imports(pass.Doc), []string{ast.StoreModule}, "on", "createReducer")

	v := selector.NewVisitor()
	v.On(untypedHandler, func(fn *syntax.Node) {
		if fn.ParentField() != syntax.FieldArguments {
			return
		}
		d := pass.Report(fn, "explicitReturnType", nil)
		typ := stateType(fn, params)
		if typ == "" {
			return
		}
		edits, ok := returnTypeEdits(pass.Doc, fn, typ)
		if !ok {
			return
		}
		d.WithSuggestions(lint.Fix{
			Description: pass.Message("addReturnType", map[string]string{"type": typ}),
			TextEdits:   edits,
		})
	})
	v.Run(pass.Doc, params)
	return nil
}

var reducerCall = selector.MustCompile(`CallExpression[callee.name=$createReducer]`)

// stateType returns the state type the handler should declare: the type of
// its state parameter, else the type argument of the enclosing
// createReducer.
func stateType(fn *syntax.Node, params selector.Params) string {
	if ps := fn.List(syntax.FieldParams); len(ps) > 0 && ps[0].Kind == syntax.Identifier {
		if t := ast.TypeText(ps[0].Child(syntax.FieldTypeAnnotation)); t != "" {
			return t
		}
	}
	on := fn.Parent()
	if r := on.Parent(); r != nil && reducerCall.Match(r, params) {
		if ta := r.Child(syntax.FieldTypeArguments); ta != nil {
			if args := ta.List(syntax.FieldParams); len(args) > 0 {
				return args[0].Text()
			}
		}
	}
	return ""
}

// returnTypeEdits places `: typ` after the parameter list, adding the
// parentheses a bare arrow parameter lacks.
func returnTypeEdits(doc *syntax.Document, fn *syntax.Node, typ string) ([]lint.TextEdit, bool) {
	ps := fn.List(syntax.FieldParams)
	if len(ps) > 0 {
		last := ps[len(ps)-1]
		tok, ok := doc.TokenAfter(last.Span.End.Offset)
		if !ok {
			return nil, false
		}
		switch tok.Type {
		case token.RPAREN:
			return []lint.TextEdit{lint.InsertAt(tok.End, ": "+typ)}, true
		case token.COMMA:
			if next, ok := doc.TokenAfter(tok.End.Offset); ok && next.Type == token.RPAREN {
				return []lint.TextEdit{lint.InsertAt(next.End, ": "+typ)}, true
			}
		case token.ARROW:
			return []lint.TextEdit{
				lint.InsertBefore(ps[0], "("),
				lint.InsertAfter(last, "): "+typ),
			}, true
		}
		return nil, false
	}
	for _, tok := range doc.TokensIn(fn.Span) {
		if tok.Type == token.RPAREN {
			return []lint.TextEdit{lint.InsertAt(tok.End, ": "+typ)}, true
		}
	}
	return nil, false
}
