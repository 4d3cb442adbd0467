// Package kinetics provides the core types shared by the gas simulation.
//
// The package defines the engine's unit system and the primitives every
// other package builds on:
//
//   - [Particle]: a point-circle with position, velocity, radius and mass
//   - [Species]: the constant mass/radius pair of a particle kind
//   - [Collection]: an ordered set of particles that owns its members
//   - [Bounds]: an axis-aligned rectangle in picometers
//
// # Units
//
// Lengths are picometers (pm), time is picoseconds (ps), mass is atomic
// mass units (AMU) and temperature is kelvin (K). [Boltzmann] is expressed
// in AMU·pm²/(ps²·K) so that kinetic energies and temperatures never leave
// the internal unit system.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. The engine is
// stepped by a single driver; see package engine.
package kinetics
