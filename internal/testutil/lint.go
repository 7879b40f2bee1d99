package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/analysis"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
)

// RunRule analyzes src with only ruleID enabled.
func RunRule(t testing.TB, ruleID, src string) []lint.Diagnostic {
	t.Helper()
	return RunRuleWithOptions(t, ruleID, src, nil)
}

// RunRuleWithOptions analyzes src with only ruleID enabled and the given
// rule options.
func RunRuleWithOptions(t testing.TB, ruleID, src string, opts map[string]any) []lint.Diagnostic {
	t.Helper()
	cfg := lint.NewConfig().Only(ruleID)
	if opts != nil {
		cfg.SetRuleOptions(ruleID, opts)
	}
	a := analysis.NewAnalyzer(cfg, analysis.WithLogger(NewTestLogger(t)))
	diags, err := a.AnalyzeSource("test.ts", src)
	require.NoError(t, err)
	for _, d := range diags {
		require.Equal(t, ruleID, d.RuleID)
	}
	return diags
}

// Apply applies the edits of fixes to src as one batch.
func Apply(t testing.TB, src string, fixes ...lint.Fix) string {
	t.Helper()
	var edits []lint.TextEdit
	for _, f := range fixes {
		require.Empty(t, f.ImportEdits, "fix %q is not realized", f.Description)
		edits = append(edits, f.TextEdits...)
	}
	out, err := rewrite.Apply(src, edits)
	require.NoError(t, err)
	return out
}
