// Package rules provides the storelint rule catalogue.
//
// Rules are organized by group:
//   - store: how the global store is injected, named and used (ST01-ST07)
//   - effects: effect definitions and their action streams (EF01-EF05)
//   - reducer: reducers and their `on` handlers (RD01-RD02)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/storelint/pkg/lint/rules"
//
// Individual groups can also be imported:
//
//	import _ "github.com/leapstack-labs/storelint/pkg/lint/rules/store"
//	import _ "github.com/leapstack-labs/storelint/pkg/lint/rules/effects"
package rules
