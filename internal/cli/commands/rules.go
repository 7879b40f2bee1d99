package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/storelint/internal/cli/output"
	"github.com/leapstack-labs/storelint/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show descriptions
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (store, effects, reducer).
Use --long to add descriptions to the listing, or name a rule for its full
documentation including examples and fix guidance.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  storelint rules

  # Show details for a specific rule
  storelint rules EF05

  # List rules in the effects group
  storelint rules --group effects

  # Include descriptions
  storelint rules --long

  # Output as JSON
  storelint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeRuleIDs(cmd, args, toComplete)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "long", "l", false, "Show descriptions in the listing")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	_ = cmd.RegisterFlagCompletionFunc("group", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return lint.Groups(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	rules := filterRulesByGroup(lint.AllRules(), opts.Group)
	if len(rules) == 0 && opts.Group != "" {
		return fmt.Errorf("no rules in group %q (groups: %s)", opts.Group, strings.Join(lint.Groups(), ", "))
	}

	// Sort by group, then ID
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, rules, opts.Verbose)
	default:
		return listRulesText(r, rules, opts.Verbose)
	}
}

func filterRulesByGroup(rules []lint.RuleInfo, group string) []lint.RuleInfo {
	if group == "" {
		return rules
	}
	var filtered []lint.RuleInfo
	for _, r := range rules {
		if strings.EqualFold(r.Group, group) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	rule, ok := lint.GetByID(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := lint.GetRuleInfo(rule)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, &info)
	default:
		return showRuleText(r, &info)
	}
}

var titleCaser = cases.Title(language.English)

// groupRules splits sorted rules into runs sharing a group.
func groupRules(rules []lint.RuleInfo) [][]lint.RuleInfo {
	var groups [][]lint.RuleInfo
	for i, rule := range rules {
		if i == 0 || rule.Group != rules[i-1].Group {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], rule)
	}
	return groups
}

// fixKind describes what a rule can offer besides the report.
func fixKind(rule lint.RuleInfo) string {
	switch {
	case rule.Fixable:
		return "autofix"
	case rule.HasSuggestions:
		return "suggestion"
	default:
		return ""
	}
}

func rulesTable(rules []lint.RuleInfo, verbose bool) table.Writer {
	t := table.NewWriter()
	header := table.Row{"ID", "Name", "Severity", "Fix"}
	if verbose {
		header = append(header, "Description")
	}
	t.AppendHeader(header)
	for _, rule := range rules {
		row := table.Row{rule.ID, rule.Name, rule.DefaultSeverity.String(), fixKind(rule)}
		if verbose {
			row = append(row, rule.Description)
		}
		t.AppendRow(row)
	}
	return t
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []lint.RuleInfo, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")

	for _, group := range groupRules(rules) {
		r.Println(styles.Header2.Render(titleCaser.String(group[0].Group)))
		t := rulesTable(group, verbose)
		t.SetStyle(table.StyleLight)
		r.Println(t.Render())
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'storelint rules <rule-id>' for detailed documentation"))
	r.Println("")
	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []lint.RuleInfo, verbose bool) error {
	r.Println("# Lint Rules")
	r.Println("")

	for _, group := range groupRules(rules) {
		r.Println("## " + titleCaser.String(group[0].Group))
		r.Println("")
		r.Println(rulesTable(group, verbose).RenderMarkdown())
		r.Println("")
	}
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []lint.RuleInfo `json:"rules"`
	Count struct {
		ByGroup map[string]int `json:"by_group"`
		Total   int            `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []lint.RuleInfo) error {
	jsonOutput := RulesJSONOutput{Rules: rules}
	jsonOutput.Count.ByGroup = make(map[string]int)
	for _, rule := range rules {
		jsonOutput.Count.ByGroup[rule.Group]++
	}
	jsonOutput.Count.Total = len(rules)
	return r.JSON(jsonOutput)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *lint.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), getSeverityStyle(styles, rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	if kind := fixKind(*rule); kind != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Fix"), kind)
	}
	r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), rule.DocumentationURL)
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}

	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *lint.RuleInfo) error {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`", rule.Group, rule.DefaultSeverity.String())
	if kind := fixKind(*rule); kind != "" {
		r.Printf(" | **Fix:** %s", kind)
	}
	r.Println("")
	r.Println("")
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```ts")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```ts")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	r.Printf("[Documentation](%s)\n", rule.DocumentationURL)
	return nil
}

func getSeverityStyle(styles *output.Styles, sev lint.Severity) lipgloss.Style {
	switch sev {
	case lint.SeverityError:
		return styles.Error
	case lint.SeverityWarning:
		return styles.Warning
	case lint.SeverityInfo:
		return styles.Info
	default:
		return styles.Muted
	}
}
