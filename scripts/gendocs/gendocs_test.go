package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/pkg/lint"
)

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Frontmatter("Title", "About")
	w.GeneratedMarker()
	w.Header(2, "Section")
	w.Table([]string{"A", "B"}, [][]string{{"1", "x"}})

	out := string(w.Bytes())
	assert.True(t, strings.HasPrefix(out, "---\ntitle: \"Title\"\n"))
	assert.Contains(t, out, generatedHeader)
	assert.Contains(t, out, "## Section\n")
	assert.Contains(t, out, "| A | B |")
	assert.Contains(t, out, "| 1 | x |")
}

func TestGenerateLintDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateLintDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "## Effects")
	assert.Contains(t, string(index), "[EF05](./ef05)")

	for _, rule := range lint.GetAll() {
		page, err := os.ReadFile(filepath.Join(dir, strings.ToLower(rule.ID())+".md"))
		require.NoError(t, err, rule.ID())
		assert.Contains(t, string(page), "# "+rule.ID()+" - "+rule.Name())
	}
}

func TestGenerateConfigurationDoc(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateSchemaDocs(dir))

	page, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "`storelint.yaml`")
	assert.Contains(t, string(page), "`node_modules, dist, .angular`")
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	read := func(name string) string {
		t.Helper()
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		return string(b)
	}

	index := read("index.md")
	assert.Contains(t, index, "[`query`](./query)")
	assert.Contains(t, index, "`STORELINT_JOBS`")
	assert.Contains(t, index, "`STORELINT_LINT__DISABLED`")
	assert.Contains(t, index, "`STORELINT_FIX__VERIFY`")
	assert.NotContains(t, index, "STORELINT_LINT__SEVERITY", "map settings have no variable")

	lintPage := read("lint.md")
	assert.Contains(t, lintPage, "## Fixes and Suggestions")
	assert.Contains(t, lintPage, "[ST01](../rules/st01)")
	assert.Contains(t, lintPage, "`store_name`")
	assert.Contains(t, lintPage, "(comma-separated, repeatable)")

	query := read("query.md")
	assert.Contains(t, query, "## Selector Syntax")
	assert.Contains(t, query, "`--bind name=module#Symbol`")
	assert.Contains(t, query, "(repeatable)")

	assert.Contains(t, read("rules.md"), "`effects`")
	assert.NotContains(t, read("tree.md"), "## Selector Syntax")
}

func TestSelectorFormsCompile(t *testing.T) {
	w := NewMarkdownWriter()
	require.NoError(t, writeSelectorSection(w))
	for _, form := range selectorForms {
		assert.Contains(t, string(w.Bytes()), InlineCode(form[0]))
	}
}

func TestSelectSections(t *testing.T) {
	all, err := selectSections("all")
	require.NoError(t, err)
	assert.Len(t, all, len(sections))

	rules, err := selectSections("lint")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "rules", rules[0].dir)

	_, err = selectSections("globals")
	assert.ErrorContains(t, err, "unknown -gen value")
}

func TestCleanExample(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"shared indent", "    storelint lint\n      --fix\n", "storelint lint\n  --fix"},
		{"blank lines ignored", "  # one\n\n  storelint rules\n", "# one\n\nstorelint rules"},
		{"no indent", "storelint tree a.ts", "storelint tree a.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanExample(tt.in))
		})
	}
}
