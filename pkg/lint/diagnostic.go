package lint

import (
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID    string            `json:"rule_id"`
	Severity  Severity          `json:"severity"`
	MessageID string            `json:"message_id"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	Pos       token.Position    `json:"pos"`
	EndPos    token.Position    `json:"end_pos"`

	// Fix is applied mechanically in fix mode. Suggestions are mutually
	// exclusive alternatives that are never applied without approval.
	Fix         *Fix  `json:"fix,omitempty"`
	Suggestions []Fix `json:"suggestions,omitempty"`

	// Remediation metadata
	DocumentationURL string `json:"documentation_url,omitempty"`
	AutoFixable      bool   `json:"auto_fixable"`
}

// WithFix attaches an autofix and marks the diagnostic auto-fixable.
func (d *Diagnostic) WithFix(fix Fix) *Diagnostic {
	d.Fix = &fix
	d.AutoFixable = true
	return d
}

// WithSuggestions appends suggestions.
func (d *Diagnostic) WithSuggestions(fixes ...Fix) *Diagnostic {
	d.Suggestions = append(d.Suggestions, fixes...)
	return d
}

// Span returns the diagnostic's source range.
func (d *Diagnostic) Span() token.Span {
	return token.Span{Start: d.Pos, End: d.EndPos}
}

// Fix represents a code fix: range edits plus import-list edits.
type Fix struct {
	Description string       `json:"description"`
	TextEdits   []TextEdit   `json:"text_edits,omitempty"`
	ImportEdits []ImportEdit `json:"import_edits,omitempty"`
}

// IsEmpty reports whether the fix changes nothing.
func (f Fix) IsEmpty() bool {
	return len(f.TextEdits) == 0 && len(f.ImportEdits) == 0
}

// TextEdit represents a text replacement.
type TextEdit struct {
	Pos     token.Position `json:"pos"`
	EndPos  token.Position `json:"end_pos"`
	NewText string         `json:"new_text"`
}

// Span returns the replaced range.
func (e TextEdit) Span() token.Span {
	return token.Span{Start: e.Pos, End: e.EndPos}
}

// ImportOp is the kind of import-list edit.
type ImportOp int

// Import edit operations.
const (
	ImportAdd ImportOp = iota
	ImportRemove
)

func (op ImportOp) String() string {
	if op == ImportRemove {
		return "remove"
	}
	return "add"
}

// MarshalText encodes the operation by name.
func (op ImportOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// ImportEdit asks the rewriter to add or remove a named import.
type ImportEdit struct {
	Op     ImportOp `json:"op"`
	Module string   `json:"module"`
	Name   string   `json:"name"`
	// AllowTypeOnly lets an add reuse an `import type` clause.
	AllowTypeOnly bool `json:"allow_type_only,omitempty"`
}

// AddImport returns an ImportEdit adding name from module.
func AddImport(module, name string) ImportEdit {
	return ImportEdit{Op: ImportAdd, Module: module, Name: name}
}

// RemoveImport returns an ImportEdit removing name from module.
func RemoveImport(module, name string) ImportEdit {
	return ImportEdit{Op: ImportRemove, Module: module, Name: name}
}

// ReplaceSpan replaces a range.
func ReplaceSpan(span token.Span, text string) TextEdit {
	return TextEdit{Pos: span.Start, EndPos: span.End, NewText: text}
}

// Replace replaces a node's source text.
func Replace(n *syntax.Node, text string) TextEdit {
	return ReplaceSpan(n.Span, text)
}

// InsertAt inserts text at a position.
func InsertAt(pos token.Position, text string) TextEdit {
	return TextEdit{Pos: pos, EndPos: pos, NewText: text}
}

// InsertBefore inserts text before a node.
func InsertBefore(n *syntax.Node, text string) TextEdit {
	return InsertAt(n.Span.Start, text)
}

// InsertAfter inserts text after a node.
func InsertAfter(n *syntax.Node, text string) TextEdit {
	return InsertAt(n.Span.End, text)
}

// Delete removes a range.
func Delete(span token.Span) TextEdit {
	return ReplaceSpan(span, "")
}
