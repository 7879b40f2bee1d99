package effects

import (
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(NoEffectDecoratorAndCreator)
}

// NoEffectDecoratorAndCreator reports effects registered twice, once by the
// legacy decorator and once by createEffect.
var NoEffectDecoratorAndCreator = lint.RuleDef{
	ID:          "EF01",
	Name:        "effects.no-effect-decorator-and-creator",
	Group:       "effects",
	Description: "An effect should not use both the @Effect decorator and createEffect.",
	Severity:    lint.SeverityError,
	Fixable:     true,
	Messages: map[string]string{
		"decoratorAndCreator": "`{{ name }}` is registered by both @Effect and createEffect.",
		"removeDecorator":     "Remove the @Effect decorator.",
	},
	Check:       checkDecoratorAndCreator,
	Rationale:   "The effect subscribes twice and every action it emits is dispatched twice.",
	BadExample:  "@Effect()\nload$ = createEffect(() => this.actions$.pipe(ofType(load)));",
	GoodExample: "load$ = createEffect(() => this.actions$.pipe(ofType(load)));",
}

var effectCreatorField = selector.MustCompile(`PropertyDefinition[decorators][value.callee.name=$createEffect]`)

var effectSymbol = binding.Symbol{Module: ast.EffectsModule, Name: "Effect"}

func checkDecoratorAndCreator(pass *lint.Pass) error {
	imports := binding.Imports(pass.Doc)
	params := ast.ImportParams(imports, []string{ast.EffectsModule}, "createEffect")

	var fields []*syntax.Node
	v := selector.NewVisitor()
	v.On(effectCreatorField, func(n *syntax.Node) { fields = append(fields, n) })
	v.Run(pass.Doc, params)
	if len(fields) == 0 {
		return nil
	}

	local, _ := imports.LocalName(ast.EffectsModule, "Effect")
	uses := 0
	if local != "" {
		uses = len(ast.References(pass.Doc.Root(), local))
	}

	for _, field := range fields {
		for _, dec := range field.List(syntax.FieldDecorators) {
			if !isEffectDecorator(imports, dec) {
				continue
			}
			edits, err := rewrite.RemoveStatement(pass.Doc, dec)
			if err != nil {
				return err
			}
			fix := lint.Fix{Description: pass.Message("removeDecorator", nil), TextEdits: edits}
			// The import goes with the last use of the decorator.
			if uses == 1 {
				fix.ImportEdits = []lint.ImportEdit{lint.RemoveImport(ast.EffectsModule, "Effect")}
			}
			pass.Report(dec, "decoratorAndCreator", map[string]string{"name": field.Child(syntax.FieldKey).Text()}).
				WithFix(fix)
		}
	}
	return nil
}

func isEffectDecorator(imports binding.ImportList, dec *syntax.Node) bool {
	expr := dec.Child(syntax.FieldExpression)
	if expr.Kind == syntax.CallExpression {
		expr = expr.Child(syntax.FieldCallee)
	}
	return imports.Refers(expr, effectSymbol)
}
