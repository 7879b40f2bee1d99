package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/internal/cli/output"
	"github.com/leapstack-labs/storelint/internal/cli/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	cfgFile = ""
	t.Cleanup(func() { lint.SetDocsBaseURL("") })

	cmd := NewRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"version", "lint", "rules", "tree", "query", "doctor", "init", "completion"})
	for _, flag := range []string{"config", "verbose", "output", "docs-url"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCmd_LintUsesProjectConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"storelint.yaml": `output: json
docs_url: https://docs.example.com/rules
lint:
  disabled: [ST02]
  severity:
    ST04: "off"
    EF05: error
`,
	})
	t.Chdir(dir)

	out, _, err := execute(t, "lint", "src")
	require.Error(t, err)

	var result output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	counts := make(map[string]int)
	for _, f := range result.Files {
		for _, d := range f.Diagnostics {
			counts[d.RuleID]++
			if d.RuleID == "EF05" {
				assert.Equal(t, "error", d.Severity)
			}
			assert.Contains(t, d.DocsURL, "https://docs.example.com/rules/")
		}
	}
	assert.Equal(t, map[string]int{"ST01": 2, "EF05": 1}, counts)
	assert.Equal(t, 1, result.Summary.Errors)
}

func TestRootCmd_FlagOverridesConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"custom.yaml": "output: json\n",
	})
	t.Chdir(dir)

	out, _, err := execute(t, "--config", filepath.Join(dir, "custom.yaml"), "-o", "text", "rules")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "Lint Rules")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"storelint.yaml": "output: yaml\n",
	})
	t.Chdir(dir)

	_, _, err := execute(t, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "storelint")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
