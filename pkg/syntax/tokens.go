package syntax

import (
	"sort"

	"github.com/leapstack-labs/storelint/pkg/token"
)

// TokenAfter returns the first token starting at or after offset.
func (d *Document) TokenAfter(offset int) (token.Token, bool) {
	i := sort.Search(len(d.Tokens), func(i int) bool { return d.Tokens[i].Pos.Offset >= offset })
	if i >= len(d.Tokens) || d.Tokens[i].Type == token.EOF {
		return token.Token{}, false
	}
	return d.Tokens[i], true
}

// TokenBefore returns the last token ending at or before offset.
func (d *Document) TokenBefore(offset int) (token.Token, bool) {
	i := sort.Search(len(d.Tokens), func(i int) bool { return d.Tokens[i].End.Offset > offset })
	for i--; i >= 0; i-- {
		if d.Tokens[i].Type != token.EOF {
			return d.Tokens[i], true
		}
	}
	return token.Token{}, false
}

// TokensIn returns the tokens fully inside span.
func (d *Document) TokensIn(span token.Span) []token.Token {
	lo := sort.Search(len(d.Tokens), func(i int) bool { return d.Tokens[i].Pos.Offset >= span.Start.Offset })
	hi := lo
	for hi < len(d.Tokens) && d.Tokens[hi].End.Offset <= span.End.Offset && d.Tokens[hi].Type != token.EOF {
		hi++
	}
	return d.Tokens[lo:hi]
}

// CommentsIn returns comments starting in [start, end).
func (d *Document) CommentsIn(start, end int) []token.Comment {
	var out []token.Comment
	for _, c := range d.Comments {
		if c.Span.Start.Offset >= start && c.Span.Start.Offset < end {
			out = append(out, c)
		}
	}
	return out
}
