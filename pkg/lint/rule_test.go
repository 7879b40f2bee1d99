package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/pkg/token"
)

func testRuleDef(id, group string) RuleDef {
	return RuleDef{
		ID:          id,
		Name:        group + ".test-" + id,
		Group:       group,
		Description: "A test rule",
		Severity:    SeverityWarning,
		ConfigKeys:  []string{"max_count"},
		Messages:    map[string]string{"found": "Found {{ name }} in {{ where }}."},
		Rationale:   "Because.",
	}
}

func TestWrapRuleDef(t *testing.T) {
	def := testRuleDef("TST01", "testing")
	def.Fixable = true
	called := false
	def.Check = func(pass *Pass) error {
		called = true
		pass.ReportSpan(token.Span{}, "found", map[string]string{"name": "x"})
		return nil
	}

	wrapped := WrapRuleDef(def)

	assert.Equal(t, "TST01", wrapped.ID())
	assert.Equal(t, "testing.test-TST01", wrapped.Name())
	assert.Equal(t, "testing", wrapped.Group())
	assert.Equal(t, "A test rule", wrapped.Description())
	assert.Equal(t, SeverityWarning, wrapped.DefaultSeverity())
	assert.Equal(t, []string{"max_count"}, wrapped.ConfigKeys())
	assert.True(t, wrapped.Fixable())
	assert.False(t, wrapped.HasSuggestions())
	assert.Equal(t, "Because.", wrapped.Rationale())

	pass := NewPass(wrapped, nil, nil, SeverityError, nil)
	require.NoError(t, wrapped.Check(pass))
	assert.True(t, called)

	diags := pass.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "TST01", diags[0].RuleID)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "Found x in {{ where }}.", diags[0].Message)
	assert.Equal(t, BuildDocURL("TST01"), diags[0].DocumentationURL)
}

func TestWrapRuleDef_NilCheck(t *testing.T) {
	wrapped := WrapRuleDef(RuleDef{ID: "NIL01"})
	assert.NoError(t, wrapped.Check(NewPass(wrapped, nil, nil, SeverityInfo, nil)))

	w, ok := wrapped.(*wrappedRuleDef)
	require.True(t, ok)
	assert.Equal(t, "NIL01", w.Unwrap().ID)
}

func TestGetRuleInfo(t *testing.T) {
	def := testRuleDef("INF01", "store")
	def.HasSuggestions = true
	info := GetRuleInfo(WrapRuleDef(def))

	assert.Equal(t, "INF01", info.ID)
	assert.Equal(t, "store", info.Group)
	assert.Equal(t, SeverityWarning, info.DefaultSeverity)
	assert.True(t, info.HasSuggestions)
	assert.False(t, info.Fixable)
	assert.Equal(t, "https://storelint.dev/docs/rules/inf01", info.DocumentationURL)
}

func TestRegistry(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register(testRuleDef("RD02", "reducer"))
	Register(testRuleDef("ST01", "store"))
	Register(testRuleDef("ST02", "store"))
	Register(testRuleDef("EF01", "effects"))

	assert.Equal(t, 4, Count())

	var ids []string
	for _, r := range GetAll() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"EF01", "RD02", "ST01", "ST02"}, ids)

	found, ok := GetByID("st02")
	require.True(t, ok)
	assert.Equal(t, "ST02", found.ID())

	_, ok = GetByID("XX99")
	assert.False(t, ok)

	store := GetByGroup("store")
	require.Len(t, store, 2)
	assert.Equal(t, "ST01", store[0].ID())

	assert.Equal(t, []string{"effects", "reducer", "store"}, Groups())
	assert.Len(t, AllRules(), 4)
}

func TestConfig(t *testing.T) {
	cfg := NewConfig().
		Disable("st05").
		SetSeverity(" ST04 ", SeverityError).
		SetRuleOptions("ST02", map[string]any{"store_name": "appStore"})

	assert.True(t, cfg.IsDisabled("ST05"))
	assert.False(t, cfg.IsDisabled("ST04"))
	assert.Equal(t, SeverityError, cfg.GetSeverity("st04", SeverityWarning))
	assert.Equal(t, SeverityWarning, cfg.GetSeverity("ST01", SeverityWarning))
	assert.Equal(t, "appStore", cfg.GetRuleOptions("st02")["store_name"])
	assert.Nil(t, cfg.GetRuleOptions("ST01"))

	cfg.Only("EF01")
	assert.False(t, cfg.IsDisabled("EF01"))
	assert.True(t, cfg.IsDisabled("ST04"))

	var nilCfg *Config
	assert.False(t, nilCfg.IsDisabled("ST01"))
	assert.Equal(t, SeverityHint, nilCfg.GetSeverity("ST01", SeverityHint))
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"error", SeverityError, false},
		{"WARN", SeverityWarning, false},
		{"warning", SeverityWarning, false},
		{" info ", SeverityInfo, false},
		{"hint", SeverityHint, false},
		{"fatal", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("info")))
	assert.Equal(t, SeverityInfo, s)
	text, err := SeverityHint.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hint", string(text))
}

func TestOptions(t *testing.T) {
	opts := map[string]any{
		"name":   "store",
		"strict": "true",
		"limit":  float64(3),
	}
	assert.Equal(t, "store", GetStringOption(opts, "name", "x"))
	assert.Equal(t, "x", GetStringOption(opts, "missing", "x"))
	assert.True(t, GetBoolOption(opts, "strict", false))
	assert.Equal(t, 3, GetIntOption(opts, "limit", 0))
	assert.Equal(t, 7, GetIntOption(opts, "missing", 7))
}

func TestDecodeOptions(t *testing.T) {
	type options struct {
		Strict bool   `mapstructure:"strict"`
		Name   string `mapstructure:"name"`
	}

	var out options
	require.NoError(t, DecodeOptions(map[string]any{"strict": "1", "name": "s"}, &out))
	assert.Equal(t, options{Strict: true, Name: "s"}, out)

	out = options{Name: "default"}
	require.NoError(t, DecodeOptions(nil, &out))
	assert.Equal(t, "default", out.Name)

	err := DecodeOptions(map[string]any{"unknown": 1}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode rule options")
}

func TestFormatMessage(t *testing.T) {
	assert.Equal(t, "a 1 b {{ c }}", FormatMessage("a {{x}} b {{ c }}", map[string]string{"x": "1"}))
	assert.Equal(t, "plain", FormatMessage("plain", nil))
}

func TestReportSanitizesData(t *testing.T) {
	rule := WrapRuleDef(RuleDef{ID: "SAN01", Messages: map[string]string{"m": "got {{ v }}"}})
	pass := NewPass(rule, nil, nil, SeverityWarning, nil)

	long := strings.Repeat("x", 100)
	pass.ReportSpan(token.Span{}, "m", map[string]string{"v": "a\n\t  b"})
	pass.ReportSpan(token.Span{}, "m", map[string]string{"v": long})
	pass.ReportSpan(token.Span{}, "unknownID", nil)

	diags := pass.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, "got a b", diags[0].Message)
	assert.Equal(t, "got "+long[:79]+"…", diags[1].Message)
	assert.Equal(t, "unknownID", diags[2].Message)
}

func TestDiagnosticFixHelpers(t *testing.T) {
	var d Diagnostic
	d.WithFix(Fix{Description: "fix", ImportEdits: []ImportEdit{AddImport("m", "x")}}).
		WithSuggestions(Fix{Description: "a"}, Fix{Description: "b"})

	require.NotNil(t, d.Fix)
	assert.True(t, d.AutoFixable)
	assert.False(t, d.Fix.IsEmpty())
	assert.Len(t, d.Suggestions, 2)
	assert.True(t, Fix{}.IsEmpty())

	assert.Equal(t, ImportRemove, RemoveImport("m", "x").Op)
	assert.Equal(t, "remove", ImportRemove.String())
	assert.Equal(t, "add", ImportAdd.String())

	pos := token.Position{Line: 1, Column: 3, Offset: 2}
	ins := InsertAt(pos, "y")
	assert.Equal(t, pos, ins.Pos)
	assert.Equal(t, pos, ins.EndPos)
	assert.Empty(t, Delete(token.Span{Start: pos, End: pos}).NewText)
}

func TestSetDocsBaseURL(t *testing.T) {
	t.Cleanup(func() { SetDocsBaseURL("") })

	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/st01", BuildDocURL("ST01"))

	SetDocsBaseURL("")
	assert.Equal(t, DefaultDocsBaseURL+"/st01", BuildDocURL("ST01"))
}
