// Package lint holds the contracts shared by storelint rules, the analyzer
// and the CLI: severities, rule definitions, the per-rule Pass handed to a
// check function, diagnostics and their fixes.
//
// Rule implementations and the Analyzer live in separate packages to avoid
// import cycles.
//
// # Architecture
//
// The lint tree is layered:
//
//  1. Root package (pkg/lint/): shared contracts, the rule registry and configuration
//  2. Engine packages: binding (alias resolution), selector (structural queries),
//     discriminant (action-type analysis) and rewrite (edits and import bookkeeping)
//  3. analysis: runs enabled rules over one document and realizes their fixes
//  4. rules/{store,effects,reducer}: the rule catalogue
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/storelint/pkg/lint/rules"
//
// # Rule Categories
//   - ST (store): how the global store is injected, named and used
//   - EF (effects): effect definitions and their action streams
//   - RD (reducer): reducer definitions and `on` handlers
//
// # Configuration
//
//	config := lint.NewConfig()
//	config.Disable("ST05")
//	config.SetSeverity("ST04", lint.SeverityError)
//	config.SetRuleOptions("ST02", map[string]any{"store_name": "store"})
//
// # Writing Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "ST99",
//		Name:        "store.my-rule",
//		Group:       "store",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Messages:    map[string]string{"found": "Found {{ name }}."},
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
//
//	func checkMyRule(pass *lint.Pass) error {
//		// pass.Report(node, "found", map[string]string{"name": node.Name})
//		return nil
//	}
package lint
