package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/internal/cli/output"
	"github.com/leapstack-labs/storelint/internal/cli/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/analysis"
)

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"format", "disable", "severity", "rule", "fix", "interactive", "watch", "jobs", "exclude"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "hint", cmd.Flags().Lookup("severity").DefValue)
}

func TestBuildLintConfig(t *testing.T) {
	t.Run("empty options", func(t *testing.T) {
		cfg, err := buildLintConfig(nil, &LintOptions{})
		require.NoError(t, err)
		assert.False(t, cfg.IsDisabled("ST01"))
	})

	t.Run("disable rules", func(t *testing.T) {
		cfg, err := buildLintConfig(nil, &LintOptions{Disable: []string{"st01", "EF02"}})
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled("ST01"))
		assert.True(t, cfg.IsDisabled("EF02"))
		assert.False(t, cfg.IsDisabled("ST02"))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		cfg, err := buildLintConfig(nil, &LintOptions{Rules: []string{"ST01", "RD01"}})
		require.NoError(t, err)
		for _, r := range lint.GetAll() {
			want := r.ID() != "ST01" && r.ID() != "RD01"
			assert.Equal(t, want, cfg.IsDisabled(r.ID()), "rule %s", r.ID())
		}
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := buildLintConfig(nil, &LintOptions{Rules: []string{"XX99"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "XX99")
	})

	t.Run("project config", func(t *testing.T) {
		projectCfg := config.Default()
		projectCfg.Lint.Disabled = []string{"ST05"}
		projectCfg.Lint.Severity = map[string]string{"ST02": "warn", "EF03": "off"}
		projectCfg.Lint.Rules = map[string]map[string]any{"EF03": {"strict": true}}

		cfg, err := buildLintConfig(projectCfg, &LintOptions{})
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled("ST05"))
		assert.True(t, cfg.IsDisabled("EF03"))
		assert.Equal(t, lint.SeverityWarning, cfg.GetSeverity("ST02", lint.SeverityHint))
		assert.Equal(t, true, cfg.GetRuleOptions("EF03")["strict"])
	})

	t.Run("bad project severity", func(t *testing.T) {
		projectCfg := config.Default()
		projectCfg.Lint.Severity = map[string]string{"ST02": "loud"}

		_, err := buildLintConfig(projectCfg, &LintOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lint.severity.ST02")
	})
}

func TestLintFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	files, err := collectFiles([]string{dir}, config.DefaultExclude)
	require.NoError(t, err)
	require.Len(t, files, 3)

	a := analysis.NewAnalyzer(lint.NewConfig())
	results, err := lintFiles(context.Background(), a, files, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byName := make(map[string]fileResult)
	for _, res := range results {
		require.NoError(t, res.Err, res.Path)
		byName[filepath.Base(res.Path)] = res
	}
	assert.Empty(t, byName["clean.effects.ts"].Diagnostics)

	counts := make(map[string]int)
	for _, d := range byName["counter.component.ts"].Diagnostics {
		counts[d.RuleID]++
	}
	assert.Equal(t, map[string]int{"ST01": 2, "ST02": 1, "ST04": 2}, counts)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"b.ts":                   "",
		"a.ts":                   "",
		"types.d.ts":             "",
		"notes.md":               "",
		"dist/out.ts":            "",
		"nested/deep/c.ts":       "",
		"node_modules/x/i.ts":    "",
		"nested/node_modules.ts": "",
	})

	files, err := collectFiles([]string{dir, filepath.Join(dir, "a.ts")}, []string{"node_modules", "dist"})
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.ts", "b.ts", "nested/deep/c.ts", "nested/node_modules.ts"}, rel)

	_, err = collectFiles([]string{filepath.Join(dir, "missing")}, nil)
	assert.Error(t, err)
}

func runLintCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewLintCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLintCommand_Text(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := runLintCommand(t, "--format", "text", dir)
	require.ErrorIs(t, err, errLintIssues)

	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "counter.component.ts")
	assert.Contains(t, out, "lifecycle.effects.ts")
	assert.NotContains(t, out, "clean.effects.ts")
	assert.NotContains(t, out, "node_modules")
	assert.Contains(t, out, "ST01")
	assert.Contains(t, out, "EF05")
	assert.Contains(t, out, "(fixable)")
	assert.Contains(t, out, "Summary:")
}

func TestLintCommand_SeverityThreshold(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, errOut, err := runLintCommand(t, "--format", "text", "--severity", "error", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "ST01")
	assert.Contains(t, out+errOut, "No lint issues found")

	_, _, err = runLintCommand(t, "--severity", "loud", dir)
	require.Error(t, err)
}

func TestLintCommand_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := runLintCommand(t, "--format", "json", "--rule", "ST01,ST04", dir)
	require.ErrorIs(t, err, errLintIssues)

	var result output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Summary.FilesAnalyzed)
	assert.Equal(t, 4, result.Summary.TotalIssues)
	assert.Equal(t, 4, result.Summary.Warnings)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "counter.component.ts", filepath.Base(result.Files[0].Path))

	first := result.Files[0].Diagnostics[0]
	assert.Equal(t, "ST01", first.RuleID)
	assert.Equal(t, "warning", first.Severity)
	assert.Equal(t, 6, first.Line)
	assert.Contains(t, first.DocsURL, "/st01")
	assert.NotEmpty(t, first.Suggestions)
}

func TestLintCommand_Fix(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	path := filepath.Join(dir, "src", "app", "lifecycle.effects.ts")

	out, _, err := runLintCommand(t, "--format", "text", "--fix", "--rule", "EF05", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 1 fixes")

	fixed := testutil.ReadFile(t, path)
	assert.Contains(t, fixed, "export class LifecycleEffects implements OnInitEffects {")
	assert.Contains(t, fixed, "OnInitEffects } from '@ngrx/effects'")

	// A second run finds nothing left to fix.
	_, _, err = runLintCommand(t, "--format", "text", "--fix", "--rule", "EF05", path)
	require.NoError(t, err)
	assert.Equal(t, fixed, testutil.ReadFile(t, path))
}

func TestLintCommand_InteractiveNeedsTerminal(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := runLintCommand(t, "--interactive", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

func TestFilterBySeverity(t *testing.T) {
	diags := []lint.Diagnostic{
		{RuleID: "A", Severity: lint.SeverityError},
		{RuleID: "B", Severity: lint.SeverityWarning},
		{RuleID: "C", Severity: lint.SeverityHint},
	}

	assert.Len(t, filterBySeverity(diags, lint.SeverityError), 1)
	assert.Len(t, filterBySeverity(diags, lint.SeverityWarning), 2)
	assert.Len(t, filterBySeverity(diags, lint.SeverityHint), 3)
}
