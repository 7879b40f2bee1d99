// Package reducer provides lint rules for reducers built with createReducer
// and their `on` handlers.
//
// Rules in this package:
//   - RD01: The same action handled twice in one reducer
//   - RD02: `on` handlers without an explicit return type
package reducer
