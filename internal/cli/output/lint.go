package output

// LintSummary counts findings across files.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
	Fixed         int `json:"fixed,omitempty"`
}

// LintOutput is the JSON document printed by `storelint lint --format json`.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintFileResult holds one file's findings.
type LintFileResult struct {
	Path        string           `json:"path"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintDiagnostic is the JSON shape of a finding.
type LintDiagnostic struct {
	RuleID      string   `json:"rule_id"`
	Severity    string   `json:"severity"`
	Message     string   `json:"message"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	EndLine     int      `json:"end_line"`
	EndColumn   int      `json:"end_column"`
	Fixable     bool     `json:"fixable"`
	Suggestions []string `json:"suggestions,omitempty"`
	DocsURL     string   `json:"documentation_url,omitempty"`
}
