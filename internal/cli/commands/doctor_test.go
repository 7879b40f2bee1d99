package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/internal/cli/testutil"
	"github.com/leapstack-labs/storelint/pkg/lint"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		checks    []HealthCheck
		fileCount int
		minScore  int
		maxScore  int
	}{
		{
			name:      "no checks returns 100",
			checks:    nil,
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "ST01", Status: "pass"},
				{RuleID: "EF01", Status: "pass"},
			},
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "warnings reduce score",
			checks: []HealthCheck{
				{RuleID: "ST01", Status: "pass"},
				{RuleID: "ST04", Status: "warn", IssueCount: 2},
			},
			fileCount: 10,
			minScore:  80,
			maxScore:  99,
		},
		{
			name: "errors reduce score more",
			checks: []HealthCheck{
				{RuleID: "EF01", Status: "error", IssueCount: 2},
			},
			fileCount: 10,
			minScore:  70,
			maxScore:  80,
		},
		{
			name: "disabled rules do not count",
			checks: []HealthCheck{
				{RuleID: "ST05", Status: "off", IssueCount: 0},
			},
			fileCount: 1,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "more files means less impact per issue",
			checks: []HealthCheck{
				{RuleID: "ST04", Status: "warn", IssueCount: 5},
			},
			fileCount: 200,
			minScore:  95,
			maxScore:  95,
		},
		{
			name: "many issues can reduce to 0",
			checks: []HealthCheck{
				{RuleID: "EF01", Status: "error", IssueCount: 20},
				{RuleID: "EF02", Status: "error", IssueCount: 20},
			},
			fileCount: 5,
			minScore:  0,
			maxScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.fileCount)
			assert.GreaterOrEqual(t, score, tt.minScore, "score should be >= %d", tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore, "score should be <= %d", tt.maxScore)
		})
	}
}

func TestGetRecommendation(t *testing.T) {
	for _, rule := range lint.GetAll() {
		assert.NotEmpty(t, getRecommendation(rule.ID()), rule.ID())
	}
	assert.Equal(t, "Keep one binding and route every use through it.", getRecommendation("st01"))
	assert.Empty(t, getRecommendation("UNKNOWN"))
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{RuleID: "ST01", Status: "warn", IssueCount: 1},
		{RuleID: "ST04", Status: "warn", IssueCount: 2},
		{RuleID: "EF01", Status: "pass"},
		{RuleID: "ST05", Status: "off", IssueCount: 3},
	}

	recommendations := generateRecommendations(checks)

	require.Len(t, recommendations, 2)
	assert.Contains(t, recommendations[0], "ST04: ")
	assert.Contains(t, recommendations[1], "ST01: Keep one binding")
}

func TestGenerateRecommendations_LimitTo5(t *testing.T) {
	var checks []HealthCheck
	for _, rule := range lint.GetAll() {
		checks = append(checks, HealthCheck{RuleID: rule.ID(), Status: "warn", IssueCount: 1})
	}

	assert.Len(t, generateRecommendations(checks), 5)
}

func TestBuildDoctorOutput(t *testing.T) {
	cfg := lint.NewConfig().Disable("ST05").SetSeverity("ST04", lint.SeverityError)
	results := []fileResult{{
		Path: "a.ts",
		Diagnostics: []lint.Diagnostic{
			{RuleID: "ST04", Message: "first"},
			{RuleID: "ST04", Message: "second"},
			{RuleID: "ST01", Message: "store"},
		},
	}}

	out := buildDoctorOutput(results, cfg)
	assert.Equal(t, 3, out.IssueCount)
	require.Len(t, out.HealthChecks, lint.Count())

	byID := make(map[string]HealthCheck)
	for _, check := range out.HealthChecks {
		byID[check.RuleID] = check
	}
	assert.Equal(t, "error", byID["ST04"].Status)
	assert.Equal(t, 2, byID["ST04"].IssueCount)
	assert.Equal(t, "warn", byID["ST01"].Status)
	assert.Equal(t, "off", byID["ST05"].Status)
	assert.Equal(t, "pass", byID["RD01"].Status)
	assert.Contains(t, byID["ST01"].Details[0], "a.ts:")

	// Grouped, then by ID
	assert.Equal(t, "effects", out.HealthChecks[0].Group)
}

func TestDoctorCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"src/app/counter.reducer.ts": `import { createReducer, on } from '@ngrx/store';

export const counterReducer = createReducer(0, on(increment, (state): number => state + 1));
`,
	})
	config.ResetConfig()

	cmd := NewDoctorCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "json", dir})
	require.NoError(t, cmd.Execute())

	var out DoctorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, ProjectSummary{Files: 4, StoreClasses: 1, Effects: 1, Reducers: 1}, out.Summary)
	assert.Less(t, out.Score, 100)
	assert.NotEmpty(t, out.Recommendations)
}

func TestDoctorCommand_Text(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	config.ResetConfig()

	cmd := NewDoctorCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "text", dir})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "Store Health Report")
	assert.Contains(t, out, "Effects")
	assert.Contains(t, out, "Health Score:")
}
