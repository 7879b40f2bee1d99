package rewrite

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/storelint/pkg/lint"
	"github.com/leapstack-labs/storelint/pkg/syntax"
	"github.com/leapstack-labs/storelint/pkg/token"
)

// RemoveElement deletes one element of a comma-separated list together with
// one separator: the trailing comma when there is one, else the leading
// comma. Comments between the element and its comma, and a comment on the
// same line after the element, stay in place. An element that sits alone
// on its line takes the line with it.
func RemoveElement(doc *syntax.Document, n *syntax.Node) ([]lint.TextEdit, error) {
	if err := checkNode(doc, n); err != nil {
		return nil, err
	}
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	siblings := n.Siblings()
	if len(siblings) <= 1 {
		return []lint.TextEdit{deletion(doc, start, end)}, nil
	}

	if tok, ok := doc.TokenAfter(end); ok && tok.Type == token.COMMA {
		if comments := doc.CommentsIn(end, tok.Pos.Offset); len(comments) > 0 {
			if onlyTrivia(doc.Text, end, tok.Pos.Offset, comments) {
				return []lint.TextEdit{
					deletion(doc, start, comments[0].Span.Start.Offset),
					deletion(doc, tok.Pos.Offset, tok.End.Offset),
				}, nil
			}
		} else if onlySpace(doc.Text[end:tok.Pos.Offset]) {
			start, end = trailingRange(doc, start, tok.End.Offset)
			return []lint.TextEdit{deletion(doc, start, end)}, nil
		}
	}

	if n.Index() > 0 {
		if tok, ok := doc.TokenBefore(start); ok && tok.Type == token.COMMA {
			return []lint.TextEdit{deletion(doc, tok.Pos.Offset, end)}, nil
		}
	}
	return nil, fmt.Errorf("%w: no separator around %s at %d:%d", ErrInvalidRange, n.Kind, n.Span.Start.Line, n.Span.Start.Column)
}

// trailingRange extends a deletion that stops after a trailing comma over
// the blanks that follow it. An element alone on its line takes the line.
func trailingRange(doc *syntax.Document, start, end int) (int, int) {
	rest := doc.Text[end:]
	gap := len(rest) - len(strings.TrimLeft(rest, " \t"))
	after := rest[gap:]
	if after == "" || strings.HasPrefix(after, "\n") || strings.HasPrefix(after, "\r\n") {
		if lineStart := doc.LineStart(start); onlySpace(doc.Text[lineStart:start]) {
			return lineStart, lineBreakEnd(doc.Text, end+gap)
		}
	}
	return start, end + gap
}

// RemoveStatement deletes a statement. When nothing else shares its line,
// the whole line goes, indentation and line break included; otherwise the
// statement and the blanks after it are removed.
func RemoveStatement(doc *syntax.Document, n *syntax.Node) ([]lint.TextEdit, error) {
	if err := checkNode(doc, n); err != nil {
		return nil, err
	}
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	lineStart := doc.LineStart(start)
	lineEnd := doc.LineEnd(end)
	if onlySpace(doc.Text[lineStart:start]) && onlySpace(doc.Text[end:lineEnd]) {
		return []lint.TextEdit{deletion(doc, lineStart, lineBreakEnd(doc.Text, lineEnd))}, nil
	}
	rest := doc.Text[end:lineEnd]
	end += len(rest) - len(strings.TrimLeft(rest, " \t"))
	return []lint.TextEdit{deletion(doc, start, end)}, nil
}

func checkNode(doc *syntax.Document, n *syntax.Node) error {
	if n == nil || n.Document() != doc || !n.Span.IsValid() || n.Span.End.Offset > len(doc.Text) {
		return fmt.Errorf("%w: node without a valid range", ErrInvalidRange)
	}
	return nil
}

func deletion(doc *syntax.Document, start, end int) lint.TextEdit {
	return lint.TextEdit{Pos: doc.PositionAt(start), EndPos: doc.PositionAt(end), NewText: ""}
}

func onlySpace(s string) bool {
	return strings.TrimLeft(s, " \t\r") == ""
}

// onlyTrivia reports whether text[from:to] holds nothing but blanks and the
// given comments.
func onlyTrivia(text string, from, to int, comments []token.Comment) bool {
	for _, c := range comments {
		if c.Span.End.Offset > to || strings.TrimSpace(text[from:c.Span.Start.Offset]) != "" {
			return false
		}
		from = c.Span.End.Offset
	}
	return strings.TrimSpace(text[from:to]) == ""
}

// lineBreakEnd returns the offset just past the line break at i, or i when
// there is none.
func lineBreakEnd(text string, i int) int {
	switch {
	case strings.HasPrefix(text[i:], "\r\n"):
		return i + 2
	case strings.HasPrefix(text[i:], "\n"):
		return i + 1
	}
	return i
}
