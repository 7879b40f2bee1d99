package effects

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

func init() {
	lint.Register(PreferConcatLatestFrom)
}

// PreferConcatLatestFrom reports withLatestFrom inside effects.
var PreferConcatLatestFrom = lint.RuleDef{
	ID:             "EF03",
	Name:           "effects.prefer-concat-latest-from",
	Group:          "effects",
	Description:    "Use concatLatestFrom instead of withLatestFrom in effects.",
	Severity:       lint.SeverityWarning,
	ConfigKeys:     []string{"strict"},
	HasSuggestions: true,
	Messages: map[string]string{
		"preferConcatLatestFrom": "Use `concatLatestFrom` instead of `withLatestFrom` so the inner stream is read only when an action arrives.",
		"useConcatLatestFrom":    "Replace with `concatLatestFrom`.",
	},
	Check:       checkConcatLatestFrom,
	Rationale:   "withLatestFrom subscribes to its argument eagerly, so selectors run before the effect's action ever fires.",
	BadExample:  "this.actions$.pipe(ofType(load), withLatestFrom(this.store.select(selectFilter)))",
	GoodExample: "this.actions$.pipe(ofType(load), concatLatestFrom(() => this.store.select(selectFilter)))",
	Fix:         "Wrap the argument in a factory function. Without the strict option only store reads are reported.",
}

type concatLatestFromOptions struct {
	Strict bool `mapstructure:"strict"`
}

var (
	effectWithLatestFrom = selector.MustCompile(`CallExpression[callee.name=$createEffect] CallExpression[callee.name=$withLatestFrom]`)
	storeRead            = selector.MustCompile(ast.MethodCall("select", "store") + `, ` + ast.MethodCall("pipe", "store"))
)

func checkConcatLatestFrom(pass *lint.Pass) error {
	var opts concatLatestFromOptions
	if err := lint.DecodeOptions(pass.Options, &opts); err != nil {
		return fmt.Errorf("%s options: %w", pass.Rule.ID(), err)
	}

	imports := binding.Imports(pass.Doc)
	params := ast.ImportParams(imports, []string{ast.EffectsModule}, "createEffect")
	for k, p := range ast.ImportParams(imports, ast.RxJSModules, "withLatestFrom") {
		params[k] = p
	}
	params["store"] = binding.Pattern(binding.Resolve(pass.Doc, ast.Store))

	var calls []*syntax.Node
	v := selector.NewVisitor()
	v.On(effectWithLatestFrom, func(call *syntax.Node) {
		if opts.Strict || readsStore(call, params) {
			calls = append(calls, call)
		}
	})
	v.Run(pass.Doc, params)
	if len(calls) == 0 {
		return nil
	}

	module := ""
	for _, m := range ast.RxJSModules {
		if imports.Has(m, "withLatestFrom") {
			module = m
			break
		}
	}
	local := calls[0].Child(syntax.FieldCallee).Name
	uses := len(ast.References(pass.Doc.Root(), local))
	replacement := "concatLatestFrom"
	if name, ok := imports.LocalName(ast.OperatorsModule, "concatLatestFrom"); ok {
		replacement = name
	}

	for _, call := range calls {
		fix := lint.Fix{
			Description: pass.Message("useConcatLatestFrom", nil),
			TextEdits:   []lint.TextEdit{lint.Replace(call, replacement+"(() => "+factoryBody(call)+")")},
			ImportEdits: []lint.ImportEdit{lint.AddImport(ast.OperatorsModule, "concatLatestFrom")},
		}
		if uses == 1 {
			fix.ImportEdits = append(fix.ImportEdits, lint.RemoveImport(module, "withLatestFrom"))
		}
		pass.Report(call.Child(syntax.FieldCallee), "preferConcatLatestFrom", nil).WithSuggestions(fix)
	}
	return nil
}

// readsStore reports whether any argument of call reads from the store.
func readsStore(call *syntax.Node, params selector.Params) bool {
	if !storeRead.Bound(params) {
		return false
	}
	for _, arg := range call.List(syntax.FieldArguments) {
		if storeRead.Match(arg, params) {
			return true
		}
	}
	return false
}

// factoryBody returns the expression concatLatestFrom's factory returns:
// the single argument, or an array of all of them.
func factoryBody(call *syntax.Node) string {
	args := call.List(syntax.FieldArguments)
	if len(args) == 1 {
		if args[0].Kind == syntax.ObjectExpression {
			return "(" + args[0].Text() + ")"
		}
		return args[0].Text()
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Text()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
