// Package main generates the markdown documentation site from the CLI
// commands, the configuration defaults and the registered lint rules.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli
//	go run ./scripts/gendocs -gen=rules -outdir=site/rules
//	go run ./scripts/gendocs
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// section is one generated part of the docs tree.
type section struct {
	name   string
	dir    string // default output directory under docs/
	render func(outDir string) error
}

var sections = []section{
	{name: "cli", dir: "cli", render: generateCLIDocs},
	{name: "schema", dir: "concepts", render: generateSchemaDocs},
	{name: "rules", dir: "rules", render: generateLintDocs},
}

var (
	genFlag    = flag.String("gen", "all", "what to generate: "+strings.Join(sectionNames(), ", ")+" or all")
	outDirFlag = flag.String("outdir", "", "output directory, only with a single -gen section")
)

func main() {
	flag.Parse()

	selected, err := selectSections(*genFlag)
	if err != nil {
		log.Fatal(err)
	}
	if *outDirFlag != "" && len(selected) > 1 {
		log.Fatal("-outdir needs a single -gen section")
	}

	root, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	for _, s := range selected {
		outDir := *outDirFlag
		if outDir == "" {
			outDir = filepath.Join(root, "docs", s.dir)
		}
		if err := s.render(outDir); err != nil {
			log.Fatalf("failed to generate %s docs: %v", s.name, err)
		}
	}
	log.Println("Done!")
}

func sectionNames() []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return names
}

// selectSections resolves a -gen value. "lint" is kept as an alias of
// "rules".
func selectSections(gen string) ([]section, error) {
	if gen == "all" {
		return sections, nil
	}
	if gen == "lint" {
		gen = "rules"
	}
	for _, s := range sections {
		if s.name == gen {
			return []section{s}, nil
		}
	}
	return nil, fmt.Errorf("unknown -gen value %q (use: %s, all)", gen, strings.Join(sectionNames(), ", "))
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("no go.mod above the working directory")
		}
		dir = parent
	}
}
