// Package rewrite turns fixes into text edits and applies them.
//
// Edits are always computed against the original document. Realize expands
// a Fix's import edits and checks the result is range-disjoint; Apply and
// ApplyFixes are the host-side batch step that splices edits into text.
package rewrite

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/syntax"
)

var (
	// ErrOverlappingEdits is returned when two edits of one batch touch the
	// same range.
	ErrOverlappingEdits = errors.New("overlapping edits")
	// ErrNoInsertionPoint is returned when an import cannot be placed.
	ErrNoInsertionPoint = errors.New("no import insertion point")
	// ErrInvalidRange is returned for edits outside the document or with
	// inconsistent positions.
	ErrInvalidRange = errors.New("invalid edit range")
)

// Realize expands fix into the text edits it stands for: its own edits plus
// the edits implementing its import edits, sorted by position. It fails when
// an edit is out of range or two edits overlap.
func Realize(doc *syntax.Document, fix lint.Fix) ([]lint.TextEdit, error) {
	for _, e := range fix.TextEdits {
		if err := checkRange(doc.Text, e); err != nil {
			return nil, err
		}
	}
	edits := slices.Clone(fix.TextEdits)
	imports, err := importEdits(doc, fix.ImportEdits)
	if err != nil {
		return nil, err
	}
	edits = append(edits, imports...)
	sortEdits(edits)
	for i := 1; i < len(edits); i++ {
		for j := range i {
			if spansConflict(edits[j], edits[i]) {
				return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, describe(edits[j]), describe(edits[i]))
			}
		}
	}
	return edits, nil
}

// Apply splices edits into text left to right. Edits must not overlap;
// insertions at the same point keep their given order.
func Apply(text string, edits []lint.TextEdit) (string, error) {
	for _, e := range edits {
		if err := checkRange(text, e); err != nil {
			return "", err
		}
	}
	sorted := slices.Clone(edits)
	sortEdits(sorted)
	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for i, e := range sorted {
		if i > 0 && spansConflict(sorted[i-1], e) {
			return "", fmt.Errorf("%w: %s and %s", ErrOverlappingEdits, describe(sorted[i-1]), describe(e))
		}
		if e.Pos.Offset < cursor {
			return "", fmt.Errorf("%w: %s", ErrOverlappingEdits, describe(e))
		}
		b.WriteString(text[cursor:e.Pos.Offset])
		b.WriteString(e.NewText)
		cursor = e.EndPos.Offset
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}

// Skipped records a fix left out of a batch.
type Skipped struct {
	Diagnostic lint.Diagnostic
	Reason     string
}

// Result is the outcome of ApplyFixes.
type Result struct {
	Text    string
	Applied []lint.Diagnostic
	Skipped []Skipped
}

// ApplyFixes applies the autofix of every diagnostic to text in one batch.
// Diagnostics are taken in position order; a fix colliding with an already
// accepted one is skipped whole. Edits identical to an accepted edit are
// treated as already satisfied, so two rules adding the same import do not
// duplicate it. Suggestions are never applied. Fixes must carry realized
// text edits only.
func ApplyFixes(text string, diags []lint.Diagnostic) (*Result, error) {
	ordered := slices.Clone(diags)
	slices.SortStableFunc(ordered, func(a, b lint.Diagnostic) int {
		if a.Pos.Offset != b.Pos.Offset {
			return a.Pos.Offset - b.Pos.Offset
		}
		return strings.Compare(a.RuleID, b.RuleID)
	})

	res := &Result{}
	var accepted []lint.TextEdit
	for _, d := range ordered {
		if d.Fix == nil || d.Fix.IsEmpty() {
			continue
		}
		if len(d.Fix.ImportEdits) > 0 {
			res.Skipped = append(res.Skipped, Skipped{Diagnostic: d, Reason: "fix has unrealized import edits"})
			continue
		}
		var fresh []lint.TextEdit
		reason := ""
		for _, e := range d.Fix.TextEdits {
			if err := checkRange(text, e); err != nil {
				reason = err.Error()
				break
			}
			if slices.Contains(accepted, e) {
				continue
			}
			if slices.ContainsFunc(accepted, func(prev lint.TextEdit) bool { return spansConflict(prev, e) }) {
				reason = fmt.Sprintf("conflicts with a previously accepted edit at %s", describe(e))
				break
			}
			fresh = append(fresh, e)
		}
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Diagnostic: d, Reason: reason})
			continue
		}
		accepted = append(accepted, fresh...)
		res.Applied = append(res.Applied, d)
	}

	out, err := Apply(text, accepted)
	if err != nil {
		return nil, err
	}
	res.Text = out
	return res, nil
}

func checkRange(text string, e lint.TextEdit) error {
	if !e.Pos.IsValid() || !e.EndPos.IsValid() || e.Pos.Offset < 0 || e.EndPos.Offset < e.Pos.Offset || e.EndPos.Offset > len(text) {
		return fmt.Errorf("%w: %s", ErrInvalidRange, describe(e))
	}
	return nil
}

func sortEdits(edits []lint.TextEdit) {
	slices.SortStableFunc(edits, func(a, b lint.TextEdit) int {
		if a.Pos.Offset != b.Pos.Offset {
			return a.Pos.Offset - b.Pos.Offset
		}
		return a.EndPos.Offset - b.EndPos.Offset
	})
}

// spansConflict reports whether two edits touch the same bytes. Two
// insertions never conflict; an insertion conflicts with a replacement that
// starts at or before it and ends after it.
func spansConflict(a, b lint.TextEdit) bool {
	aStart, aEnd := a.Pos.Offset, a.EndPos.Offset
	bStart, bEnd := b.Pos.Offset, b.EndPos.Offset
	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func describe(e lint.TextEdit) string {
	return fmt.Sprintf("[%d:%d-%d:%d]", e.Pos.Line, e.Pos.Column, e.EndPos.Line, e.EndPos.Column)
}
