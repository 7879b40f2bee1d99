// Package analysis runs the registered lint rules over one document.
package analysis

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/storelint/pkg/checker"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/rewrite"
	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/types"
)

// Analyzer runs lint rules against parsed documents. An Analyzer holds no
// per-document state and may be shared across goroutines.
type Analyzer struct {
	config *lint.Config
	rules  []lint.Rule
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger for rule timing and counts.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRules replaces the registered rules with an explicit set.
func WithRules(rules ...lint.Rule) Option {
	return func(a *Analyzer) {
		a.rules = rules
	}
}

// NewAnalyzer creates an analyzer. A nil config enables every rule with its
// default severity.
func NewAnalyzer(config *lint.Config, opts ...Option) *Analyzer {
	if config == nil {
		config = lint.NewConfig()
	}
	a := &Analyzer{
		config: config,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rules returns the rules the configuration enables, sorted by ID.
func (a *Analyzer) Rules() []lint.Rule {
	rules := a.rules
	if rules == nil {
		rules = lint.GetAll()
	}
	var enabled []lint.Rule
	for _, r := range rules {
		if !a.config.IsDisabled(r.ID()) {
			enabled = append(enabled, r)
		}
	}
	slices.SortFunc(enabled, func(x, y lint.Rule) int { return strings.Compare(x.ID(), y.ID()) })
	return enabled
}

// Analyze runs every enabled rule on doc. When oracle is nil the built-in
// checker answers type queries. Fixes and suggestions come back realized:
// import edits are expanded into text edits. An error means a rule built a
// fix that cannot be placed.
func (a *Analyzer) Analyze(doc *syntax.Document, oracle types.Oracle) ([]lint.Diagnostic, error) {
	if doc == nil || doc.Root() == nil {
		return nil, nil
	}
	if oracle == nil {
		oracle = checker.New(doc, checker.WithLogger(a.logger))
	}

	var diagnostics []lint.Diagnostic
	for _, rule := range a.Rules() {
		severity := a.config.GetSeverity(rule.ID(), rule.DefaultSeverity())
		pass := lint.NewPass(rule, doc, oracle, severity, a.config.GetRuleOptions(rule.ID()))
		pass.Logger = a.logger.With("rule", rule.ID())

		start := time.Now()
		if err := rule.Check(pass); err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID(), err)
		}
		diags := pass.Diagnostics()
		for i := range diags {
			if err := realize(doc, &diags[i]); err != nil {
				return nil, fmt.Errorf("rule %s: %w", rule.ID(), err)
			}
		}
		a.logger.Debug("rule finished",
			"rule", rule.ID(),
			"file", doc.Filename,
			"diagnostics", len(diags),
			"duration", time.Since(start))
		diagnostics = append(diagnostics, diags...)
	}

	Sort(diagnostics)
	return diagnostics, nil
}

// AnalyzeSource parses src and analyzes it with the built-in checker.
func (a *Analyzer) AnalyzeSource(filename, src string) ([]lint.Diagnostic, error) {
	doc, err := parser.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return a.Analyze(doc, nil)
}

// realize replaces a diagnostic's fix and suggestions with their text edits.
func realize(doc *syntax.Document, d *lint.Diagnostic) error {
	if d.Fix != nil {
		edits, err := rewrite.Realize(doc, *d.Fix)
		if err != nil {
			return err
		}
		if len(edits) == 0 {
			d.Fix = nil
			d.AutoFixable = false
		} else {
			d.Fix = &lint.Fix{Description: d.Fix.Description, TextEdits: edits}
		}
	}
	for i, s := range d.Suggestions {
		edits, err := rewrite.Realize(doc, s)
		if err != nil {
			return err
		}
		d.Suggestions[i] = lint.Fix{Description: s.Description, TextEdits: edits}
	}
	return nil
}

// Sort orders diagnostics by position, then rule ID.
func Sort(diags []lint.Diagnostic) {
	slices.SortStableFunc(diags, func(x, y lint.Diagnostic) int {
		if x.Pos.Offset != y.Pos.Offset {
			return x.Pos.Offset - y.Pos.Offset
		}
		return strings.Compare(x.RuleID, y.RuleID)
	})
}
