package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/storelint/internal/cli/testutil"
)

func TestTreeCommand(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"a.ts": "const a = 1;\n",
	})

	var buf bytes.Buffer
	require.NoError(t, runTree(&buf, filepath.Join(dir, "a.ts"), &TreeOptions{}))

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &tree))
	assert.Equal(t, "Program", tree["type"])
	assert.NotContains(t, tree, "span")

	body := tree["body"].([]any)
	require.Len(t, body, 1)
	decl := body[0].(map[string]any)
	assert.Equal(t, "VariableDeclaration", decl["type"])
	assert.Equal(t, "const", decl["kind"])

	declarator := decl["declarations"].([]any)[0].(map[string]any)
	assert.Equal(t, "a", declarator["id"].(map[string]any)["name"])
	init := declarator["init"].(map[string]any)
	assert.Equal(t, "Literal", init["type"])
	// Scalars stay strings even when they look like numbers.
	assert.Equal(t, "1", init["raw"])
}

func TestTreeCommand_Spans(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"a.ts": "class A { static readonly x = 1; }\n",
	})

	var buf bytes.Buffer
	require.NoError(t, runTree(&buf, filepath.Join(dir, "a.ts"), &TreeOptions{Spans: true}))
	out := buf.String()

	assert.Contains(t, out, "span: 1:1-")
	assert.Contains(t, out, "flags: [static, readonly]")
	assert.Contains(t, out, "type: PropertyDefinition")
}

func TestTreeCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"bad.ts": "const = ;\n",
	})

	var buf bytes.Buffer
	assert.Error(t, runTree(&buf, filepath.Join(dir, "missing.ts"), &TreeOptions{}))
	assert.Error(t, runTree(&buf, filepath.Join(dir, "bad.ts"), &TreeOptions{}))
}
