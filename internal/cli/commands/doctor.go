package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/storelint/internal/cli/output"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/analysis"
	"github.com/leapstack-labs/storelint/pkg/lint/binding"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
	"github.com/leapstack-labs/storelint/pkg/parser"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [paths...]",
		Short: "Run a project health check",
		Long: `Analyze the store code of a project and summarize its health.

The doctor command runs every rule and reports:
- Project summary (files, store users, effects, reducers)
- Health checks grouped by rule group
- Health score (0-100)
- Actionable recommendations

Project configuration is honoured for disabled rules and severities.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  storelint doctor

  # Output as JSON
  storelint doctor --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Files        int `json:"files"`
	FailedFiles  int `json:"failed_files"`
	StoreClasses int `json:"store_classes"`
	Effects      int `json:"effects"`
	Reducers     int `json:"reducers"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error", "off"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

// doctorMaxShow caps the details printed per check in text mode.
const doctorMaxShow = 3

var (
	storeTarget  = binding.Target{Symbol: binding.Symbol{Module: "@ngrx/store", Name: "Store"}}
	effectCalls  = selector.MustCompile(`CallExpression[callee.name="createEffect"]`)
	reducerCalls = selector.MustCompile(`CallExpression[callee.name="createReducer"]`)
)

func runDoctor(cmd *cobra.Command, paths []string, opts *DoctorOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	lintCfg, err := buildLintConfig(cmdCtx.Cfg, &LintOptions{})
	if err != nil {
		return err
	}
	files, err := collectFiles(paths, cmdCtx.Cfg.Exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Warn("No TypeScript files found")
		return nil
	}

	a := analysis.NewAnalyzer(lintCfg, analysis.WithLogger(cmdCtx.Logger))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := lintFiles(ctx, a, files, cmdCtx.Cfg.Jobs)
	if err != nil {
		return err
	}

	doctorOutput := buildDoctorOutput(results, lintCfg)
	doctorOutput.Summary = buildProjectSummary(results)
	doctorOutput.Score = calculateHealthScore(doctorOutput.HealthChecks, doctorOutput.Summary.Files)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(results []fileResult, cfg *lint.Config) *DoctorOutput {
	// Group diagnostics by rule
	diagsByRule := make(map[string][]string)
	issues := 0
	for _, res := range results {
		for _, d := range res.Diagnostics {
			diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID], fmt.Sprintf("%s:%s %s", res.Path, d.Pos, d.Message))
			issues++
		}
	}

	rules := lint.AllRules()
	healthChecks := make([]HealthCheck, 0, len(rules))
	for _, rule := range rules {
		details := diagsByRule[rule.ID]
		status := "pass"
		switch {
		case cfg.IsDisabled(rule.ID):
			status = "off"
		case len(details) > 0 && cfg.GetSeverity(rule.ID, rule.DefaultSeverity) == lint.SeverityError:
			status = "error"
		case len(details) > 0:
			status = "warn"
		}
		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.ID,
			Name:       rule.Name,
			Group:      rule.Group,
			Status:     status,
			IssueCount: len(details),
			Details:    details,
		})
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	return &DoctorOutput{
		HealthChecks:    healthChecks,
		Recommendations: generateRecommendations(healthChecks),
		IssueCount:      issues,
	}
}

// buildProjectSummary re-parses each file to count store users, effects
// and reducers.
func buildProjectSummary(results []fileResult) ProjectSummary {
	summary := ProjectSummary{Files: len(results)}
	for _, res := range results {
		if res.Err != nil {
			summary.FailedFiles++
			continue
		}
		doc, err := parser.Parse(res.Path, res.Source)
		if err != nil {
			summary.FailedFiles++
			continue
		}
		summary.StoreClasses += len(binding.ByClass(binding.Resolve(doc, storeTarget)))
		summary.Effects += len(selector.Query(doc.Root(), effectCalls, nil))
		summary.Reducers += len(selector.Query(doc.Root(), reducerCalls, nil))
	}
	return summary
}

// calculateHealthScore computes a health score from 0-100.
// With more files each individual issue has less impact; errors count double.
func calculateHealthScore(checks []HealthCheck, fileCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if fileCount > 10 {
		basePenalty = 3.0
	}
	if fileCount > 50 {
		basePenalty = 2.0
	}
	if fileCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations from the rules
// with findings, most findings first.
func generateRecommendations(checks []HealthCheck) []string {
	failing := make([]HealthCheck, 0, len(checks))
	for _, check := range checks {
		if check.IssueCount > 0 && check.Status != "off" {
			failing = append(failing, check)
		}
	}
	sort.SliceStable(failing, func(i, j int) bool {
		return failing[i].IssueCount > failing[j].IssueCount
	})

	var recommendations []string
	for _, check := range failing {
		if rec := getRecommendation(check.RuleID); rec != "" {
			recommendations = append(recommendations, fmt.Sprintf("%s: %s", check.RuleID, rec))
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

// getRecommendation returns the rule's fix guidance, falling back to its
// description.
func getRecommendation(ruleID string) string {
	rule, ok := lint.GetByID(ruleID)
	if !ok {
		return ""
	}
	if fix := rule.Fix(); fix != "" {
		return fix
	}
	return rule.Description()
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("Store Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Project Summary
	r.Println(styles.Header2.Render("Project Summary"))
	r.Printf("   Files: %d | Store users: %d | Effects: %d | Reducers: %d\n",
		out.Summary.Files, out.Summary.StoreClasses, out.Summary.Effects, out.Summary.Reducers)
	if out.Summary.FailedFiles > 0 {
		r.Println("   " + styles.Error.Render(fmt.Sprintf("%d files could not be analyzed", out.Summary.FailedFiles)))
	}
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.Error.Render("✗")
		case "off":
			icon = styles.Muted.Render("-")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= doctorMaxShow {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-doctorMaxShow)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# Store Health Report")
	r.Println("")

	r.Println("## Project Summary")
	r.Println("")
	r.Printf("- **Files**: %d\n", out.Summary.Files)
	r.Printf("- **Store users**: %d\n", out.Summary.StoreClasses)
	r.Printf("- **Effects**: %d\n", out.Summary.Effects)
	r.Printf("- **Reducers**: %d\n", out.Summary.Reducers)
	if out.Summary.FailedFiles > 0 {
		r.Printf("- **Failed files**: %d\n", out.Summary.FailedFiles)
	}
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		r.Printf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
