package lint

import (
	"net/url"
	"strings"
	"sync/atomic"
)

// DefaultDocsBaseURL is the hosted rule documentation.
const DefaultDocsBaseURL = "https://storelint.dev/docs/rules"

var docsBaseURL atomic.Value

func init() {
	docsBaseURL.Store(DefaultDocsBaseURL)
}

// BuildDocURL returns the documentation URL for a rule.
func BuildDocURL(ruleID string) string {
	base := docsBaseURL.Load().(string)
	u, err := url.JoinPath(base, strings.ToLower(ruleID))
	if err != nil {
		return base + "/" + strings.ToLower(ruleID)
	}
	return u
}

// SetDocsBaseURL points documentation links at another site, e.g. a local
// mirror. An empty url restores the default.
func SetDocsBaseURL(base string) {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		base = DefaultDocsBaseURL
	}
	docsBaseURL.Store(base)
}
