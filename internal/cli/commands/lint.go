package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/internal/cli/output"
	"github.com/leapstack-labs/storelint/internal/review"
	"github.com/leapstack-labs/storelint/internal/verify"
	"github.com/leapstack-labs/storelint/internal/watch"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/analysis"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/storelint/pkg/parser"
)

// errLintIssues makes the process exit non-zero when findings remain.
var errLintIssues = errors.New("lint issues found")

// maxFixPasses bounds repeated fix rounds; a fix may expose another.
const maxFixPasses = 10

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths       []string // Files or directories
	Format      string   // Output format: text, markdown, json
	Disable     []string // Rule IDs to disable
	Severity    string   // Minimum severity: error, warning, info, hint
	Rules       []string // Run only specific rules
	Fix         bool     // Apply autofixes
	Interactive bool     // Review suggestions one by one
	Watch       bool     // Re-lint on change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Run lint rules on store, effects and reducer code",
		Long: `Analyze TypeScript sources for misuse of the global store, effects
and reducers.

Autofixes are applied with --fix. Suggestions are never applied
automatically; review them one by one with --interactive.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the current directory
  storelint lint

  # Lint specific paths
  storelint lint src/app/state src/app/app.effects.ts

  # Apply autofixes, then review suggestions
  storelint lint --fix --interactive

  # Output as JSON
  storelint lint --format json

  # Disable specific rules
  storelint lint --disable ST02,ST05

  # Only report errors
  storelint lint --severity error

  # Re-lint whenever a file changes
  storelint lint --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Apply autofixes and write the files back")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Review suggestions interactively")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-lint changed files")
	cmd.Flags().IntP("jobs", "j", 0, "Files analyzed in parallel (default: number of CPUs)")
	cmd.Flags().StringSlice("exclude", nil, "Directory names to skip (default: node_modules,dist,.angular)")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("rule", completeRuleIDs)
	_ = cmd.RegisterFlagCompletionFunc("disable", completeRuleIDs)

	return cmd
}

func completeRuleIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var ids []string
	for _, r := range lint.GetAll() {
		ids = append(ids, r.ID()+"\t"+r.Name())
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// linter carries everything one lint run needs.
type linter struct {
	analyzer  *analysis.Analyzer
	cfg       *config.Config
	opts      *LintOptions
	threshold lint.Severity
	logger    *slog.Logger
	r         *output.Renderer
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg

	threshold, err := lint.ParseSeverity(opts.Severity)
	if err != nil {
		return fmt.Errorf("invalid --severity: %w", err)
	}
	lintCfg, err := buildLintConfig(cfg, opts)
	if err != nil {
		return err
	}
	if opts.Interactive && !isInteractive(cmd) {
		return fmt.Errorf("--interactive needs a terminal")
	}

	l := &linter{
		analyzer:  analysis.NewAnalyzer(lintCfg, analysis.WithLogger(cmdCtx.Logger)),
		cfg:       cfg,
		opts:      opts,
		threshold: threshold,
		logger:    cmdCtx.Logger,
		r:         cmdCtx.Renderer,
	}

	files, err := collectFiles(opts.Paths, cfg.Exclude)
	if err != nil {
		return err
	}
	l.logger.Debug("collected files", "count", len(files))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := l.run(ctx, cmd, files)
	if err != nil {
		return err
	}
	hasIssues := renderLintResults(l.r, results, threshold)

	if opts.Watch {
		return l.watch(ctx, cmd)
	}
	if hasIssues {
		return errLintIssues
	}
	return nil
}

// run lints files, then applies fixes and reviewed suggestions as
// requested. Results describe the files as they are left on disk.
func (l *linter) run(ctx context.Context, cmd *cobra.Command, files []string) ([]fileResult, error) {
	results, err := lintFiles(ctx, l.analyzer, files, l.cfg.Jobs)
	if err != nil {
		return nil, err
	}
	if l.opts.Fix {
		for i := range results {
			l.fix(&results[i])
		}
	}
	if l.opts.Interactive {
		if err := l.review(ctx, cmd, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (l *linter) watch(ctx context.Context, cmd *cobra.Command) error {
	roots := l.opts.Paths
	if len(roots) == 0 {
		roots = []string{"."}
	}
	w, err := watch.New(roots, watch.Options{
		Exclude: l.cfg.Exclude,
		Match:   isSource,
		Logger:  l.logger,
	})
	if err != nil {
		return err
	}
	l.r.Println(l.r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))

	return w.Run(ctx, func(paths []string) {
		var files []string
		for _, p := range paths {
			if _, err := os.Stat(p); err == nil {
				files = append(files, p)
			}
		}
		results, err := l.run(ctx, cmd, files)
		if err != nil {
			l.r.Error(err.Error())
			return
		}
		l.r.Println(l.r.Styles().Muted.Render(fmt.Sprintf("Re-linted %d files", len(files))))
		renderLintResults(l.r, results, l.threshold)
	})
}

func isInteractive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(in.Fd()))
}

func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil {
		for _, id := range cfg.Lint.Disabled {
			lintCfg.Disable(id)
		}
		for id, sev := range cfg.Lint.Severity {
			if strings.EqualFold(sev, "off") {
				lintCfg.Disable(id)
				continue
			}
			s, err := lint.ParseSeverity(sev)
			if err != nil {
				return nil, fmt.Errorf("lint.severity.%s: %w", id, err)
			}
			lintCfg.SetSeverity(id, s)
		}
		for id, ruleOpts := range cfg.Lint.Rules {
			lintCfg.SetRuleOptions(id, ruleOpts)
		}
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		lintCfg.Disable(id)
	}
	for _, id := range opts.Rules {
		if _, ok := lint.GetByID(strings.TrimSpace(id)); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		lintCfg.Only(id)
	}

	return lintCfg, nil
}

// fileResult holds lint results for a single file.
type fileResult struct {
	Path        string
	Source      string
	Diagnostics []lint.Diagnostic
	Fixed       int
	Err         error
}

func lintFile(a *analysis.Analyzer, path string) fileResult {
	res := fileResult{Path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = string(b)
	doc, err := parser.Parse(path, res.Source)
	if err != nil {
		res.Err = err
		return res
	}
	res.Diagnostics, res.Err = a.Analyze(doc, nil)
	return res
}

// lintFiles analyzes files in parallel. Documents are independent, so the
// only shared state is the read-only analyzer.
func lintFiles(ctx context.Context, a *analysis.Analyzer, files []string, jobs int) ([]fileResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = lintFile(a, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fix applies autofixes in rounds until none applies, writing the file after
// each verified round.
func (l *linter) fix(res *fileResult) {
	for range maxFixPasses {
		if res.Err != nil {
			return
		}
		out, err := rewrite.ApplyFixes(res.Source, res.Diagnostics)
		if err != nil {
			res.Err = err
			return
		}
		for _, s := range out.Skipped {
			l.logger.Debug("fix skipped", "file", res.Path, "rule", s.Diagnostic.RuleID, "reason", s.Reason)
		}
		if len(out.Applied) == 0 {
			return
		}
		fixed := res.Fixed + len(out.Applied)
		if err := l.write(res.Path, out.Text); err != nil {
			res.Err = err
			return
		}
		*res = lintFile(l.analyzer, res.Path)
		res.Fixed = fixed
	}
}

func (l *linter) review(ctx context.Context, cmd *cobra.Command, results []fileResult) error {
	var items []review.Item
	for _, res := range results {
		for _, d := range res.Diagnostics {
			if len(d.Suggestions) > 0 && d.Severity <= l.threshold {
				items = append(items, review.Item{Path: res.Path, Source: res.Source, Diagnostic: d})
			}
		}
	}
	decisions, err := review.Run(ctx, items, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	byPath := make(map[string][]review.Decision)
	for _, d := range decisions {
		byPath[d.Item.Path] = append(byPath[d.Item.Path], d)
	}
	for i := range results {
		res := &results[i]
		ds := byPath[res.Path]
		if len(ds) == 0 {
			continue
		}
		out, err := review.Apply(res.Source, ds)
		if err != nil {
			return err
		}
		for _, s := range out.Skipped {
			l.r.Warn(fmt.Sprintf("%s: suggestion for %s not applied: %s", res.Path, s.Diagnostic.RuleID, s.Reason))
		}
		if len(out.Applied) == 0 {
			continue
		}
		fixed := res.Fixed + len(out.Applied)
		if err := l.write(res.Path, out.Text); err != nil {
			res.Err = err
			continue
		}
		*res = lintFile(l.analyzer, res.Path)
		res.Fixed = fixed
	}
	return nil
}

// write replaces a file's content, keeping its permissions. With
// fix.verify set, text that no longer parses is rejected.
func (l *linter) write(path, text string) error {
	if l.cfg.Fix.Verify {
		if err := verify.Check(path, text); err != nil {
			return err
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	l.logger.Debug("fixed file", "file", path)
	return nil
}

func filterBySeverity(diags []lint.Diagnostic, threshold lint.Severity) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, d := range diags {
		if d.Severity <= threshold {
			out = append(out, d)
		}
	}
	return out
}

func summarize(results []fileResult, threshold lint.Severity) output.LintSummary {
	summary := output.LintSummary{FilesAnalyzed: len(results)}
	for _, res := range results {
		summary.Fixed += res.Fixed
		for _, d := range filterBySeverity(res.Diagnostics, threshold) {
			summary.TotalIssues++
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
	}
	return summary
}

// renderLintResults prints results and reports whether anything needs
// attention: a finding at or above threshold or a file that failed.
func renderLintResults(r *output.Renderer, results []fileResult, threshold lint.Severity) bool {
	summary := summarize(results, threshold)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.LintOutput{Summary: summary, Files: []output.LintFileResult{}}
		for _, res := range results {
			diags := filterBySeverity(res.Diagnostics, threshold)
			if len(diags) == 0 && res.Err == nil {
				continue
			}
			fr := output.LintFileResult{Path: res.Path, Diagnostics: []output.LintDiagnostic{}}
			if res.Err != nil {
				fr.Error = res.Err.Error()
			}
			for _, d := range diags {
				ld := output.LintDiagnostic{
					RuleID:    d.RuleID,
					Severity:  d.Severity.String(),
					Message:   d.Message,
					Line:      d.Pos.Line,
					Column:    d.Pos.Column,
					EndLine:   d.EndPos.Line,
					EndColumn: d.EndPos.Column,
					Fixable:   d.AutoFixable,
					DocsURL:   d.DocumentationURL,
				}
				for _, s := range d.Suggestions {
					ld.Suggestions = append(ld.Suggestions, s.Description)
				}
				fr.Diagnostics = append(fr.Diagnostics, ld)
			}
			jsonOutput.Files = append(jsonOutput.Files, fr)
		}
		_ = r.JSON(jsonOutput)
		return summary.TotalIssues > 0 || failed > 0
	}

	styles := r.Styles()
	for _, res := range results {
		diags := filterBySeverity(res.Diagnostics, threshold)
		if len(diags) == 0 && res.Err == nil {
			continue
		}
		r.Println(styles.FilePath.Render(res.Path))
		if res.Err != nil {
			r.Printf("  %s  %s\n", styles.Error.Render("failed "), res.Err)
		}
		for _, d := range diags {
			hint := ""
			switch {
			case d.AutoFixable:
				hint = styles.Muted.Render(" (fixable)")
			case len(d.Suggestions) > 0:
				hint = styles.Muted.Render(fmt.Sprintf(" (%d suggestions)", len(d.Suggestions)))
			}
			r.Printf("  %s  %s  %s  %s%s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", d.Pos)),
				severityStyle(r, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
				hint,
			)
		}
		r.Println("")
	}

	if summary.Fixed > 0 {
		r.Success(fmt.Sprintf("Applied %d fixes", summary.Fixed))
	}
	if summary.TotalIssues == 0 && failed == 0 {
		r.Success("No lint issues found")
		return false
	}

	// Print summary
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	if failed > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d files failed", failed))
	}
	r.Printf("Summary: %s in %d files\n", strings.Join(summaryParts, ", "), summary.FilesAnalyzed)

	return true
}

func severityStyle(r *output.Renderer, sev lint.Severity) string {
	return getSeverityStyle(r.Styles(), sev).Render(fmt.Sprintf("%-7s", sev))
}
