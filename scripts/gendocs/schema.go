package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/storelint/internal/cli/config"
)

// generateSchemaDocs generates the configuration reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "general", "lint", "fix"
}

// getConfigSchema returns the configuration schema definition.
// Defaults are read from config.Default so the page cannot drift.
func getConfigSchema() []ConfigField {
	def := config.Default()
	return []ConfigField{
		{Name: "output", Type: "string", Default: def.OutputFormat, Description: "Output format: auto, text, markdown, json", Category: "general"},
		{Name: "verbose", Type: "bool", Default: fmt.Sprint(def.Verbose), Description: "Debug logging on stderr", Category: "general"},
		{Name: "jobs", Type: "int", Default: fmt.Sprint(def.Jobs), Description: "Files analyzed in parallel, 0 uses every CPU", Category: "general"},
		{Name: "exclude", Type: "[]string", Default: strings.Join(def.Exclude, ", "), Description: "Directory names skipped while collecting files", Category: "general"},
		{Name: "docs_url", Type: "string", Default: "-", Description: "Base URL for rule documentation links", Category: "general"},

		{Name: "disabled", Type: "[]string", Default: "-", Description: "Rule IDs that never run", Category: "lint"},
		{Name: "severity", Type: "map[string]string", Default: "-", Description: "Severity per rule ID: error, warning, info, hint or off", Category: "lint"},
		{Name: "rules", Type: "map[string]map[string]any", Default: "-", Description: "Options per rule ID", Category: "lint"},

		{Name: "verify", Type: "bool", Default: fmt.Sprint(def.Fix.Verify), Description: "Re-check fixed text before it replaces a file", Category: "fix"},
	}
}

func writeFieldTable(w *MarkdownWriter, category string) {
	var rows [][]string
	for _, f := range getConfigSchema() {
		if f.Category != category {
			continue
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, InlineCode(f.Default), f.Description})
	}
	w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "storelint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("storelint reads %s from the working directory or the nearest parent. "+
		"Environment variables prefixed with %s override the file and explicitly set flags override both.",
		InlineCode(config.ConfigFileNames[0]), InlineCode(config.EnvPrefix)))

	w.Header(2, "General")
	writeFieldTable(w, "general")

	w.Header(2, "Lint")
	w.Paragraph("Rule selection lives under the `lint` key.")
	writeFieldTable(w, "lint")

	w.Header(2, "Fix")
	writeFieldTable(w, "fix")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `output: auto
jobs: 0
exclude: [node_modules, dist, .angular]
lint:
  disabled: [ST05]
  severity:
    ST04: error
  rules:
    ST02:
      store_name: store
    EF03:
      strict: true
fix:
  verify: true`)

	w.Paragraph("Run `storelint init` to write a starter file that lists every rule.")

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
