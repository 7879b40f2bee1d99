// Package effects provides lint rules for effect definitions and the action
// streams they listen to.
//
// Rules in this package:
//   - EF01: @Effect decorator combined with createEffect
//   - EF02: Effects that emit an action they listen to
//   - EF03: withLatestFrom where concatLatestFrom defers the inner read
//   - EF04: Dispatching from inside an effect
//   - EF05: Lifecycle hooks without their interface
package effects
