package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
	}
	for _, tt := range tests {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode %q tty=%v", tt.mode, tt.isTTY)
	}
}

func TestNonTTYHasNoEscapes(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeText)

	r.Println(r.Styles().Error.Render("boom"))
	r.Success("done")

	assert.Equal(t, "boom\n✓ done\n", out.String())
}

func TestStatusLines(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeMarkdown)

	r.Warn("careful")
	r.Error("failed")
	assert.Equal(t, "! careful\n✗ failed\n", errOut.String())
	assert.Empty(t, out.String())

	out.Reset()
	jr := NewRendererWithTTY(&out, &errOut, false, ModeJSON)
	jr.Success("quiet")
	assert.Empty(t, out.String())
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(LintOutput{Summary: LintSummary{TotalIssues: 1}}))
	assert.Contains(t, out.String(), `"total_issues": 1`)
	assert.Contains(t, out.String(), `"files": null`)
}
