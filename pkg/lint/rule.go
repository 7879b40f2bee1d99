package lint

// RuleDef is a data-driven rule definition.
// Rules are stateless: all context comes through the Pass handed to Check.
type RuleDef struct {
	ID          string   // Unique identifier, e.g. "ST01"
	Name        string   // Human-readable name, e.g. "store.no-multiple-global-stores"
	Group       string   // Category: "store", "effects", "reducer"
	Description string   // Human-readable description
	Severity    Severity // Default severity
	Check       CheckFunc
	ConfigKeys  []string // Configuration keys this rule accepts

	// Messages maps message IDs to templates with {{ key }} placeholders.
	Messages map[string]string

	// Fixable marks rules that emit autofixes; HasSuggestions marks rules
	// that emit suggestions needing manual acceptance.
	Fixable        bool
	HasSuggestions bool

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CheckFunc inspects the pass's document and reports through pass.Report.
// A returned error is a construction error: the rule built an edit it could
// not place.
type CheckFunc func(pass *Pass) error

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g. "ST01"
	ID() string

	// Name returns the human-readable name, e.g. "store.no-multiple-global-stores"
	Name() string

	// Group returns the category, e.g. "store", "effects", "reducer"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Messages returns the rule's message templates keyed by message ID.
	Messages() map[string]string

	Fixable() bool
	HasSuggestions() bool

	// Documentation methods for richer rule documentation
	Rationale() string
	BadExample() string
	GoodExample() string
	Fix() string

	// Check runs the rule against one document.
	Check(pass *Pass) error
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Group            string   `json:"group"`
	Description      string   `json:"description"`
	DefaultSeverity  Severity `json:"default_severity"`
	ConfigKeys       []string `json:"config_keys,omitempty"`
	Fixable          bool     `json:"fixable"`
	HasSuggestions   bool     `json:"has_suggestions"`
	Rationale        string   `json:"rationale,omitempty"`
	BadExample       string   `json:"bad_example,omitempty"`
	GoodExample      string   `json:"good_example,omitempty"`
	Fix              string   `json:"fix,omitempty"`
	DocumentationURL string   `json:"documentation_url"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	return RuleInfo{
		ID:               r.ID(),
		Name:             r.Name(),
		Group:            r.Group(),
		Description:      r.Description(),
		DefaultSeverity:  r.DefaultSeverity(),
		ConfigKeys:       r.ConfigKeys(),
		Fixable:          r.Fixable(),
		HasSuggestions:   r.HasSuggestions(),
		Rationale:        r.Rationale(),
		BadExample:       r.BadExample(),
		GoodExample:      r.GoodExample(),
		Fix:              r.Fix(),
		DocumentationURL: BuildDocURL(r.ID()),
	}
}

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement Rule.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                  { return w.def.ID }
func (w *wrappedRuleDef) Name() string                { return w.def.Name }
func (w *wrappedRuleDef) Group() string               { return w.def.Group }
func (w *wrappedRuleDef) Description() string         { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity   { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string        { return w.def.ConfigKeys }
func (w *wrappedRuleDef) Messages() map[string]string { return w.def.Messages }
func (w *wrappedRuleDef) Fixable() bool               { return w.def.Fixable }
func (w *wrappedRuleDef) HasSuggestions() bool        { return w.def.HasSuggestions }

// Documentation methods
func (w *wrappedRuleDef) Rationale() string   { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string  { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string         { return w.def.Fix }

func (w *wrappedRuleDef) Check(pass *Pass) error {
	if w.def.Check == nil {
		return nil
	}
	return w.def.Check(pass)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
