package selector

import (
	"regexp"
	"slices"
	"strings"
)

// AliasPattern is a compiled, anchored alternation of escaped names. A nil
// AliasPattern matches nothing.
type AliasPattern struct {
	names []string
	re    *regexp.Regexp
}

// NewAliasPattern builds a pattern over the distinct non-empty names. It
// returns nil when no name remains.
func NewAliasPattern(names ...string) *AliasPattern {
	var uniq []string
	for _, n := range names {
		if n != "" && !slices.Contains(uniq, n) {
			uniq = append(uniq, n)
		}
	}
	if len(uniq) == 0 {
		return nil
	}
	quoted := make([]string, len(uniq))
	for i, n := range uniq {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return &AliasPattern{
		names: uniq,
		re:    regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)$`),
	}
}

// MatchString reports whether s is one of the aliases.
func (p *AliasPattern) MatchString(s string) bool {
	return p != nil && p.re.MatchString(s)
}

// Names returns the aliases in insertion order.
func (p *AliasPattern) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.names)
}

// String returns the regular expression source.
func (p *AliasPattern) String() string {
	if p == nil {
		return ""
	}
	return p.re.String()
}

// Params binds selector parameters ($name) to alias patterns.
type Params map[string]*AliasPattern
