package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/storelint/pkg/parser"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

// TreeOptions holds options for the tree command.
type TreeOptions struct {
	Spans bool // Include line:column ranges
}

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	opts := &TreeOptions{}
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the syntax tree of a file",
		Long: `Parse a TypeScript file and print its syntax tree as YAML.

Node types and field names are the ones selectors match against, so the
output is a reference when writing queries for 'storelint query'.`,
		Example: `  # Dump a file
  storelint tree src/app/app.effects.ts

  # Include source ranges
  storelint tree --spans src/app/app.effects.ts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Spans, "spans", false, "Include line:column ranges")

	return cmd
}

func runTree(w io.Writer, path string, opts *TreeOptions) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := parser.Parse(path, string(src))
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(treeNode(doc.Root(), opts)); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return enc.Close()
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// treeNode renders n as a mapping: its type, set properties and flags,
// then one entry per schema field.
func treeNode(n *syntax.Node, opts *TreeOptions) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		m.Content = append(m.Content, scalar(key), value)
	}

	add("type", scalar(n.Kind.String()))
	if opts.Spans {
		add("span", scalar(n.Span.Start.String()+"-"+n.Span.End.String()))
	}
	for _, p := range []struct{ key, value string }{
		{"name", n.Name},
		{"raw", n.Raw},
		{"operator", n.Operator},
		{"kind", n.Variant},
		{"accessibility", n.Accessibility},
	} {
		if p.value != "" {
			add(p.key, scalar(p.value))
		}
	}
	if n.Kind == syntax.TemplateLiteral {
		add("value", scalar(n.Value))
	}
	if names := n.Flags.Names(); len(names) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, name := range names {
			seq.Content = append(seq.Content, scalar(name))
		}
		add("flags", seq)
	}

	for _, f := range syntax.Fields(n.Kind) {
		if syntax.IsListField(n.Kind, f) {
			list := n.List(f)
			if len(list) == 0 {
				continue
			}
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, c := range list {
				seq.Content = append(seq.Content, treeNode(c, opts))
			}
			add(f.String(), seq)
			continue
		}
		if c := n.Child(f); c != nil {
			add(f.String(), treeNode(c, opts))
		}
	}
	return m
}
