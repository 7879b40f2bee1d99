// Package store provides lint rules for how the global store is injected,
// named and used.
//
// Rules in this package:
//   - ST01: A class injects the global store more than once
//   - ST02: Global store bindings use a consistent name
//   - ST03: The global store is not typed with a state argument
//   - ST04: Several actions dispatched in a row
//   - ST05: Manual subscription to the store
//   - ST06: Dispatch of plain objects or class instances
//   - ST07: String or inline-function selectors in select
package store
