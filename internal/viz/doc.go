// Package viz is the terminal view of a running gas engine.
//
// It is a Bubble Tea program: a scenario and preset menu ([App]) that
// launches a live [Model] drawing the container on a braille [Canvas]
// next to a panel of thermodynamic readouts and histograms.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset the engine
//	M     - Cycle hold-constant mode
//	H/C   - Heat / cool (0 stops)
//	←/→   - Request a narrower or wider container
//	L     - Toggle lid, </> slide it
//	D     - Toggle divider
//	1/2   - Add particles of the first or second species
//	3/4   - Remove particles of the first or second species
//	X     - Toggle particle-particle collisions
//	Tab   - Switch speed / energy histogram
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Help overlay
package viz
