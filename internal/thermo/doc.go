// Package thermo derives temperature, pressure and kinetic energy from the
// particle population and runs the hold-constant control loop.
//
// The controller never returns errors for physically unreachable targets.
// It emits an Oops to its listeners, drops back to HoldNothing and keeps the
// last valid state.
package thermo
