package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	_ "github.com/leapstack-labs/storelint/pkg/lint/rules"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"store":   "Rules about how components and services inject and use the global store.",
	"effects": "Rules about effect classes, their sources and the actions they return.",
	"reducer": "Rules about reducer definitions and their `on` handlers.",
}

// generateLintDocs writes an index page and one page per rule. Rule pages
// are named after the lowercased ID so they match the links in diagnostics.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateLintIndex(outDir); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, rule := range lint.GetAll() {
		name := strings.ToLower(rule.ID()) + ".md"
		if err := generateRulePage(outDir, name, rule); err != nil {
			return fmt.Errorf("failed to generate %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// generateLintIndex generates the rule overview page.
func generateLintIndex(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Lint rules for NgRx store code")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("storelint ships **%d rules** in %d groups.", lint.Count(), len(lint.Groups())))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `storelint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled: [ST05]         # skip a rule
  severity:
    ST04: error            # override severity
    EF03: "off"            # same as disabling
  rules:
    ST02:
      store_name: store    # rule-specific option`)

	for _, group := range lint.Groups() {
		w.Header(2, titleCaser.String(group))
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		var rows [][]string
		for _, rule := range lint.GetByGroup(group) {
			link := fmt.Sprintf("[%s](./%s)", rule.ID(), strings.ToLower(rule.ID()))
			rows = append(rows, []string{
				link,
				InlineCode(rule.Name()),
				rule.DefaultSeverity().String(),
				fixKind(rule),
				cleanDescription(rule.Description()),
			})
		}
		w.Table([]string{"ID", "Name", "Severity", "Fix", "Description"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func fixKind(rule lint.Rule) string {
	switch {
	case rule.Fixable():
		return "autofix"
	case rule.HasSuggestions():
		return "suggestion"
	default:
		return "-"
	}
}

// generateRulePage writes detailed documentation for a single rule.
func generateRulePage(outDir, name string, rule lint.Rule) error {
	w := NewMarkdownWriter()

	w.Frontmatter(rule.ID()+" - "+rule.Name(), cleanDescription(rule.Description()))
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", rule.ID(), rule.Name()))

	w.Line(fmt.Sprintf("**Group:** %s | **Severity:** %s | **Fix:** %s",
		rule.Group(), InlineCode(rule.DefaultSeverity().String()), fixKind(rule)))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description()))

	if rationale := rule.Rationale(); rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(rationale)
	}

	if badExample := rule.BadExample(); badExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("ts", badExample)
	}

	if goodExample := rule.GoodExample(); goodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("ts", goodExample)
	}

	if fix := rule.Fix(); fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(fix)
	}

	if configKeys := rule.ConfigKeys(); len(configKeys) > 0 {
		w.Header(2, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following options under `lint.rules.%s`: %s",
			rule.ID(), InlineCode(strings.Join(configKeys, ", "))))
	}

	if messages := rule.Messages(); len(messages) > 0 {
		w.Header(2, "Messages")
		ids := make([]string, 0, len(messages))
		for id := range messages {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		var rows [][]string
		for _, id := range ids {
			rows = append(rows, []string{InlineCode(id), cleanDescription(messages[id])})
		}
		w.Table([]string{"Message ID", "Text"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600)
}
