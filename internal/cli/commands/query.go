package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/storelint/internal/cli/output"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Params []string // name=alias1,alias2
	Binds  []string // name=module#Symbol
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <selector> [paths...]",
		Short: "Find nodes matching a selector",
		Long: `Run a structural selector over TypeScript sources and print every match.

Selectors use the syntax lint rules are written in: node types, attribute
predicates, combinators and :not/:matches/:has pseudo-classes. A $name in an
attribute value is a parameter. Bind it to literal names with --param or to
the names a class gives an injected symbol with --bind.`,
		Example: `  # Every effect created with createEffect
  storelint query 'CallExpression[callee.name="createEffect"]' src

  # Dispatch calls on any injected store
  storelint query 'CallExpression[callee.property.name="dispatch"][callee.object.property.name=$store]' \
    --bind store=@ngrx/store#Store

  # Calls of functions named a or b
  storelint query 'CallExpression[callee.name=$fn]' --param fn=a,b

  # Output as JSON
  storelint query 'Decorator' --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringArrayVar(&opts.Params, "param", nil, "Bind a parameter to names: name=a,b")
	cmd.Flags().StringArrayVar(&opts.Binds, "bind", nil, "Bind a parameter to injected symbol names: name=module#Symbol")

	return cmd
}

// QueryMatch is one matched node.
type QueryMatch struct {
	Path      string `json:"path"`
	Type      string `json:"type"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line"`
	EndColumn int    `json:"end_column"`
	Text      string `json:"text"`
}

// queryParams holds parsed --param and --bind flags.
type queryParams struct {
	literal selector.Params
	binds   map[string]binding.Target
}

func parseQueryParams(opts *QueryOptions) (*queryParams, error) {
	qp := &queryParams{literal: selector.Params{}, binds: map[string]binding.Target{}}
	for _, p := range opts.Params {
		name, list, ok := strings.Cut(p, "=")
		if !ok || name == "" || list == "" {
			return nil, fmt.Errorf("invalid --param %q (want name=a,b)", p)
		}
		qp.literal[name] = selector.NewAliasPattern(strings.Split(list, ",")...)
	}
	for _, b := range opts.Binds {
		name, sym, ok := strings.Cut(b, "=")
		module, symbol, ok2 := strings.Cut(sym, "#")
		if !ok || !ok2 || name == "" || module == "" || symbol == "" {
			return nil, fmt.Errorf("invalid --bind %q (want name=module#Symbol)", b)
		}
		if _, dup := qp.literal[name]; dup {
			return nil, fmt.Errorf("parameter %q is bound by both --param and --bind", name)
		}
		qp.binds[name] = binding.Target{Symbol: binding.Symbol{Module: module, Name: symbol}}
	}
	return qp, nil
}

// forDocument resolves --bind targets in doc. Names with no binding in the
// document stay unset, so selectors that need them match nothing there.
func (qp *queryParams) forDocument(doc *syntax.Document) selector.Params {
	params := make(selector.Params, len(qp.literal)+len(qp.binds))
	for name, p := range qp.literal {
		params[name] = p
	}
	for name, target := range qp.binds {
		if bs := binding.Resolve(doc, target); len(bs) > 0 {
			params[name] = binding.Pattern(bs)
		}
	}
	return params
}

func runQuery(cmd *cobra.Command, src string, paths []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	sel, err := selector.Compile(src)
	if err != nil {
		return err
	}
	qp, err := parseQueryParams(opts)
	if err != nil {
		return err
	}
	for _, name := range sel.Params() {
		if qp.literal[name] == nil {
			if _, ok := qp.binds[name]; !ok {
				return fmt.Errorf("selector parameter $%s is not bound; use --param or --bind", name)
			}
		}
	}

	files, err := collectFiles(paths, cmdCtx.Cfg.Exclude)
	if err != nil {
		return err
	}

	var matches []QueryMatch
	for _, path := range files {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := parser.Parse(path, string(b))
		if err != nil {
			r.Warn(err.Error())
			continue
		}
		params := qp.forDocument(doc)
		if !sel.Bound(params) {
			cmdCtx.Logger.Debug("parameters unbound, skipping", "file", path)
			continue
		}
		for _, n := range selector.Query(doc.Root(), sel, params) {
			matches = append(matches, QueryMatch{
				Path:      path,
				Type:      n.Kind.String(),
				Line:      n.Span.Start.Line,
				Column:    n.Span.Start.Column,
				EndLine:   n.Span.End.Line,
				EndColumn: n.Span.End.Column,
				Text:      n.Text(),
			})
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if matches == nil {
			matches = []QueryMatch{}
		}
		return r.JSON(matches)
	case output.ModeMarkdown:
		for _, m := range matches {
			r.Printf("- `%s:%d:%d` %s: `%s`\n", m.Path, m.Line, m.Column, m.Type, firstLine(m.Text, 60))
		}
	default:
		styles := r.Styles()
		for _, m := range matches {
			r.Printf("%s  %s  %s\n",
				styles.FilePath.Render(fmt.Sprintf("%s:%d:%d", m.Path, m.Line, m.Column)),
				styles.Bold.Render(m.Type),
				styles.Code.Render(firstLine(m.Text, 60)),
			)
		}
	}
	r.Println("")
	r.Printf("%d matches in %d files\n", len(matches), len(files))
	return nil
}

// firstLine returns the first line of s, cut to limit runes.
func firstLine(s string, limit int) string {
	line, _, more := strings.Cut(s, "\n")
	line = strings.TrimSpace(line)
	if runes := []rune(line); len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
