package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/storelint/internal/cli"
	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/lint/selector"
)

// commandSections adds reference material that does not fit in cobra's
// Long text to individual command pages.
var commandSections = map[string]func(w *MarkdownWriter) error{
	"lint":  writeFixSection,
	"query": writeSelectorSection,
	"rules": writeGroupSection,
}

// selectorForms documents the selector language. Every example is compiled
// before the page is written.
var selectorForms = [][]string{
	{`CallExpression`, "Nodes of one type"},
	{`*`, "Any node"},
	{`CallExpression[callee.property]`, "Attribute is present; a dotted path walks child fields"},
	{`CallExpression[!arguments]`, "Attribute is absent"},
	{`CallExpression[callee.property.name="dispatch"]`, "Attribute equals a string"},
	{`CallExpression[arguments.0.type!="Literal"]`, "Attribute differs; list elements are addressed by index"},
	{`CallExpression[arguments.length=0]`, "List length"},
	{`Identifier[name=/^select/i]`, "Attribute matches a regular expression (flags i, m, s)"},
	{`PropertyDefinition[readonly=true]`, "Node flag"},
	{`CallExpression[callee.name=$fn]`, "Parameter, bound with --param or --bind"},
	{`ClassBody > PropertyDefinition`, "Child"},
	{`MethodDefinition ObjectExpression`, "Descendant"},
	{`PropertyDefinition + MethodDefinition`, "Next sibling"},
	{`ExpressionStatement ~ ExpressionStatement`, "Any later sibling"},
	{`Decorator, PropertyDefinition`, "Either selector"},
	{`ExpressionStatement:has(ObjectExpression)`, "Has a matching descendant"},
	{`CallExpression:not([arguments.length=0])`, "Does not match"},
	{`:matches(Decorator, PropertyDefinition)`, "Matches any of the selectors (also :is)"},
	{`ExpressionStatement:first-child`, "First element of its list (also :last-child)"},
	{`:function`, "Any function declaration, expression or arrow"},
}

// exitCodes mirrors how cmd/storelint turns command errors into a status.
var exitCodes = [][]string{
	{InlineCode("0"), "No issues at or above the `--severity` threshold"},
	{InlineCode("1"), "Lint issues were reported, or the command failed"},
}

// generateCLIDocs writes an index page and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := visibleCommands(root)

	if err := writePage(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		w, err := commandPage(cmd)
		if err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
		if err := writePage(outDir, cmd.Name()+".md", w); err != nil {
			return err
		}
	}
	return nil
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || strings.HasPrefix(cmd.Name(), "__") {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for storelint")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	intro, _, _ := strings.Cut(root.Long, "\n\n")
	w.Paragraph(cleanDescription(intro))

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/storelint/cmd/storelint@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range cmds {
		link := fmt.Sprintf("[%s](./%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s, then from %s variables, then from flags. Later sources win.",
		InlineCode(strings.Join(config.ConfigFileNames, "` or `")), InlineCode(config.EnvPrefix+"*")))
	w.Table([]string{"Variable", "Description"}, envRows())

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, exitCodes)
	return w
}

// envRows lists the environment variable for every scalar or list setting.
// Nested keys join with a double underscore.
func envRows() [][]string {
	var rows [][]string
	for _, f := range getConfigSchema() {
		if strings.HasPrefix(f.Type, "map") {
			continue
		}
		key := f.Name
		if f.Category != "general" {
			key = f.Category + "__" + f.Name
		}
		rows = append(rows, []string{InlineCode(config.EnvPrefix + strings.ToUpper(key)), f.Description})
	}
	return rows
}

func commandPage(cmd *cobra.Command) (*MarkdownWriter, error) {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	use := cmd.UseLine()
	if cmd.HasSubCommands() {
		use = cmd.CommandPath() + " <subcommand>"
	}
	w.CodeBlock("bash", use)

	if len(cmd.Aliases) > 0 {
		w.Paragraph("Aliases: " + InlineCode(strings.Join(cmd.Aliases, "`, `")))
	}

	if cmd.HasAvailableSubCommands() {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, []string{InlineCode(sub.Name()), cleanDescription(sub.Short)})
			}
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	if section, ok := commandSections[cmd.Name()]; ok {
		if err := section(w); err != nil {
			return nil, err
		}
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w, nil
}

// writeFlagsTable writes one row per visible flag. Repeatable and
// comma-separated flags say so, since their syntax differs.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		option := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			option = InlineCode("-"+f.Shorthand) + ", " + option
		}

		usage := cleanDescription(f.Usage)
		switch f.Value.Type() {
		case "stringArray":
			usage += " (repeatable)"
		case "stringSlice":
			usage += " (comma-separated, repeatable)"
		}

		def := f.DefValue
		switch def {
		case "", "[]", "0", "false":
			def = "-"
		default:
			def = InlineCode(def)
		}
		rows = append(rows, []string{option, def, usage})
	})
	w.Table([]string{"Option", "Default", "Description"}, rows)
}

// writeFixSection explains how lint changes files and which options each
// rule reads.
func writeFixSection(w *MarkdownWriter) error {
	w.Header(2, "Fixes and Suggestions")
	w.Paragraph("A fix is an edit storelint can always make safely; `--fix` applies every fix and writes the files back. " +
		"A suggestion may change behaviour, so it is only applied after you accept it with `--interactive`. " +
		"With `fix.verify` set, fixed text must parse again before it replaces a file.")

	var rows [][]string
	for _, rule := range lint.GetAll() {
		if kind := fixKind(rule); kind != "-" {
			rows = append(rows, []string{ruleLink(rule), rule.Name(), kind})
		}
	}
	w.Table([]string{"Rule", "Name", "Kind"}, rows)

	w.Header(2, "Rule Options")
	w.Paragraph("Rules read options from `lint.rules.<ID>` in the configuration file.")
	rows = nil
	var sample lint.Rule
	for _, rule := range lint.GetAll() {
		keys := rule.ConfigKeys()
		if len(keys) == 0 {
			continue
		}
		if sample == nil {
			sample = rule
		}
		codes := make([]string, len(keys))
		for i, k := range keys {
			codes[i] = InlineCode(k)
		}
		rows = append(rows, []string{ruleLink(rule), strings.Join(codes, ", ")})
	}
	if len(rows) == 0 {
		w.Paragraph("No rule takes options.")
		return nil
	}
	w.Table([]string{"Rule", "Options"}, rows)

	var b strings.Builder
	fmt.Fprintf(&b, "lint:\n  rules:\n    %s:\n", sample.ID())
	for _, k := range sample.ConfigKeys() {
		fmt.Fprintf(&b, "      %s: ...\n", k)
	}
	w.CodeBlock("yaml", strings.TrimSuffix(b.String(), "\n"))
	return nil
}

// writeSelectorSection documents the selector language and how parameters
// get their values.
func writeSelectorSection(w *MarkdownWriter) error {
	w.Header(2, "Selector Syntax")
	w.Paragraph("Selectors match nodes of the TypeScript syntax tree, as printed by `storelint tree`.")
	rows := make([][]string, 0, len(selectorForms))
	for _, form := range selectorForms {
		if _, err := selector.Compile(form[0]); err != nil {
			return fmt.Errorf("documented selector: %w", err)
		}
		rows = append(rows, []string{InlineCode(form[0]), form[1]})
	}
	w.Table([]string{"Selector", "Matches"}, rows)

	w.Header(2, "Parameters")
	w.Paragraph("A `$name` value matches any name bound to the parameter. A parameter left unbound matches nothing.")
	w.BulletList([]string{
		InlineCode("--param name=a,b") + " binds fixed names.",
		InlineCode("--bind name=module#Symbol") + " binds, per file, every name a class or function gives an injected " +
			InlineCode("Symbol") + " imported from " + InlineCode("module") + ", including constructor parameters and fields.",
	})
	return nil
}

// writeGroupSection lists the rule groups accepted by --group.
func writeGroupSection(w *MarkdownWriter) error {
	w.Header(2, "Groups")
	var rows [][]string
	for _, g := range lint.Groups() {
		rows = append(rows, []string{InlineCode(g), fmt.Sprint(len(lint.GetByGroup(g))), groupDescriptions[g]})
	}
	w.Table([]string{"Group", "Rules", "Description"}, rows)
	return nil
}

func ruleLink(rule lint.Rule) string {
	return fmt.Sprintf("[%s](../rules/%s)", rule.ID(), strings.ToLower(rule.ID()))
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	indent, found := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found || len(lead) < len(indent) {
			indent, found = lead, true
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
