package lint

import (
	"log/slog"
	"maps"
	"regexp"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
	"github.com/leapstack-labs/storelint/pkg/types"
)

// Pass is the context of one rule running over one document.
type Pass struct {
	Doc *syntax.Document
	// Types answers static types. It may be nil when the host has no oracle;
	// rules needing types then report nothing.
	Types    types.Oracle
	Options  map[string]any
	Rule     Rule
	Severity Severity
	Logger   *slog.Logger

	diags []*Diagnostic
}

// NewPass prepares a pass of rule over doc.
func NewPass(rule Rule, doc *syntax.Document, oracle types.Oracle, severity Severity, opts map[string]any) *Pass {
	return &Pass{
		Doc:      doc,
		Types:    oracle,
		Options:  opts,
		Rule:     rule,
		Severity: severity,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// TypeOf returns the static type of n, or nil when unknown.
func (p *Pass) TypeOf(n *syntax.Node) types.Type {
	if p.Types == nil || n == nil {
		return nil
	}
	return p.Types.TypeOf(n)
}

// Report records a diagnostic on node using the rule's message template.
func (p *Pass) Report(node *syntax.Node, messageID string, data map[string]string) *Diagnostic {
	return p.ReportSpan(node.Span, messageID, data)
}

// ReportSpan records a diagnostic on a source range.
func (p *Pass) ReportSpan(span token.Span, messageID string, data map[string]string) *Diagnostic {
	clean := make(map[string]string, len(data))
	for k, v := range data {
		clean[k] = sanitize(v)
	}
	d := &Diagnostic{
		MessageID: messageID,
		Message:   p.Message(messageID, clean),
		Data:      clean,
		Pos:       span.Start,
		EndPos:    span.End,
		Severity:  p.Severity,
	}
	if p.Rule != nil {
		d.RuleID = p.Rule.ID()
		d.DocumentationURL = BuildDocURL(p.Rule.ID())
	}
	p.diags = append(p.diags, d)
	return d
}

// Message formats the rule's template for messageID. Fix descriptions use
// it too.
func (p *Pass) Message(messageID string, data map[string]string) string {
	tmpl := messageID
	if p.Rule != nil {
		if m, ok := p.Rule.Messages()[messageID]; ok {
			tmpl = m
		}
	}
	return FormatMessage(tmpl, data)
}

// Diagnostics returns copies of the reported diagnostics in report order.
func (p *Pass) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(p.diags))
	for i, d := range p.diags {
		out[i] = *d
		out[i].Data = maps.Clone(d.Data)
	}
	return out
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// FormatMessage fills {{ key }} placeholders from data. Placeholders without
// a value are kept verbatim.
func FormatMessage(tmpl string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if v, ok := data[key]; ok {
			return v
		}
		return m
	})
}

// maxDataLen bounds interpolated values so messages stay one readable line.
const maxDataLen = 80

// sanitize collapses whitespace runs to single spaces and truncates long
// values.
func sanitize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxDataLen {
		s = string(r[:maxDataLen-1]) + "…"
	}
	return s
}
