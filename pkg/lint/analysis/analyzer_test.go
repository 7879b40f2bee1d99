package analysis_test

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/storelint/internal/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/analysis"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identifierRule reports every identifier named name.
func identifierRule(id, name string) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		ID:       id,
		Name:     "test.identifier-" + name,
		Group:    "test",
		Severity: lint.SeverityWarning,
		Messages: map[string]string{"found": "found {{ name }}"},
		Check: func(pass *lint.Pass) error {
			syntax.Walk(pass.Doc.Root(), func(n *syntax.Node) bool {
				if n.Kind == syntax.Identifier && n.Name == name {
					pass.Report(n, "found", map[string]string{"name": n.Name})
				}
				return true
			})
			return nil
		},
	})
}

const src = "const a = b;\nconst c = a;\n"

func TestAnalyzeOrdersByPositionThenRule(t *testing.T) {
	a := analysis.NewAnalyzer(nil,
		analysis.WithRules(identifierRule("T2", "a"), identifierRule("T1", "a"), identifierRule("T3", "c")),
		analysis.WithLogger(testutil.NewTestLogger(t)))

	diags, err := a.AnalyzeSource("test.ts", src)
	require.NoError(t, err)

	var got []string
	for _, d := range diags {
		got = append(got, d.RuleID+"@"+d.Pos.String())
	}
	assert.Equal(t, []string{"T1@1:7", "T2@1:7", "T3@2:7", "T1@2:11", "T2@2:11"}, got)
	assert.Equal(t, "found a", diags[0].Message)
	assert.Equal(t, lint.SeverityWarning, diags[0].Severity)
}

func TestAnalyzeAppliesConfig(t *testing.T) {
	cfg := lint.NewConfig().
		Disable("t2").
		SetSeverity("T1", lint.SeverityError)
	a := analysis.NewAnalyzer(cfg, analysis.WithRules(identifierRule("T1", "a"), identifierRule("T2", "a")))

	diags, err := a.AnalyzeSource("test.ts", src)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, "T1", d.RuleID)
		assert.Equal(t, lint.SeverityError, d.Severity)
	}

	only := analysis.NewAnalyzer(lint.NewConfig().Only("T2"), analysis.WithRules(identifierRule("T1", "a"), identifierRule("T2", "a")))
	require.Len(t, only.Rules(), 1)
	assert.Equal(t, "T2", only.Rules()[0].ID())
}

func TestAnalyzeRealizesImportEdits(t *testing.T) {
	rule := lint.WrapRuleDef(lint.RuleDef{
		ID:       "T1",
		Severity: lint.SeverityWarning,
		Fixable:  true,
		Check: func(pass *lint.Pass) error {
			id := syntax.Collect(pass.Doc.Root(), func(n *syntax.Node) bool { return n.Kind == syntax.Identifier && n.Name == "b" })[0]
			pass.Report(id, "rename", nil).
				WithFix(lint.Fix{
					Description: "use x",
					TextEdits:   []lint.TextEdit{lint.Replace(id, "x")},
					ImportEdits: []lint.ImportEdit{lint.AddImport("m", "x")},
				}).
				WithSuggestions(lint.Fix{Description: "noop import", ImportEdits: []lint.ImportEdit{lint.RemoveImport("m", "x")}})
			return nil
		},
	})
	a := analysis.NewAnalyzer(nil, analysis.WithRules(rule))
	diags, err := a.AnalyzeSource("test.ts", src)
	require.NoError(t, err)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "rename", d.Message)
	require.NotNil(t, d.Fix)
	assert.Empty(t, d.Fix.ImportEdits)
	assert.Len(t, d.Fix.TextEdits, 2)
	require.Len(t, d.Suggestions, 1)
	assert.True(t, d.Suggestions[0].IsEmpty())

	res, err := rewrite.ApplyFixes(src, diags)
	require.NoError(t, err)
	assert.Equal(t, "import { x } from 'm';\n\nconst a = x;\nconst c = a;\n", res.Text)
}

func TestAnalyzeWrapsConstructionErrors(t *testing.T) {
	failing := lint.WrapRuleDef(lint.RuleDef{
		ID: "T9",
		Check: func(pass *lint.Pass) error {
			pass.ReportSpan(pass.Doc.Root().Span, "bad", nil).WithFix(lint.Fix{
				TextEdits: []lint.TextEdit{lint.Delete(token.Span{})},
			})
			return nil
		},
	})
	_, err := analysis.NewAnalyzer(nil, analysis.WithRules(failing)).AnalyzeSource("test.ts", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rewrite.ErrInvalidRange))
	assert.Contains(t, err.Error(), "rule T9")

	sentinel := errors.New("boom")
	erroring := lint.WrapRuleDef(lint.RuleDef{ID: "T8", Check: func(*lint.Pass) error { return sentinel }})
	_, err = analysis.NewAnalyzer(nil, analysis.WithRules(erroring)).AnalyzeSource("test.ts", src)
	assert.ErrorIs(t, err, sentinel)
}

func TestAnalyzeUsesCheckerByDefault(t *testing.T) {
	typed := lint.WrapRuleDef(lint.RuleDef{
		ID: "T1",
		Check: func(pass *lint.Pass) error {
			for _, n := range syntax.Collect(pass.Doc.Root(), func(n *syntax.Node) bool { return n.Kind == syntax.VariableDeclarator }) {
				if typ := pass.TypeOf(n.Child(syntax.FieldInit)); typ != nil {
					pass.Report(n, "typed", map[string]string{"type": typ.String()})
				}
			}
			return nil
		},
		Messages: map[string]string{"typed": "{{ type }}"},
	})
	diags, err := analysis.NewAnalyzer(nil, analysis.WithRules(typed)).AnalyzeSource("test.ts", "const n = 1;\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "1", diags[0].Message)
}

func TestAnalyzeSourceParseError(t *testing.T) {
	_, err := analysis.NewAnalyzer(nil).AnalyzeSource("bad.ts", "const = ;")
	require.Error(t, err)
}
