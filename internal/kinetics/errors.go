package kinetics

import (
	"errors"
	"fmt"
)

// Contract violations returned by engine commands.
var (
	// ErrWidthOutOfRange indicates a container width outside its configured range.
	ErrWidthOutOfRange = errors.New("kinetics: container width out of range")

	// ErrInvalidCount indicates a negative or over-limit particle count.
	ErrInvalidCount = errors.New("kinetics: invalid particle count")

	// ErrHeatCoolRange indicates a heat/cool factor outside [-1, 1].
	ErrHeatCoolRange = errors.New("kinetics: heat/cool factor out of range")

	// ErrInvalidTemperature indicates a non-positive or non-finite temperature.
	ErrInvalidTemperature = errors.New("kinetics: invalid temperature")

	// ErrUnknownSpecies indicates a species tag the scenario does not carry.
	ErrUnknownSpecies = errors.New("kinetics: unknown species")

	// ErrEmptyContainer indicates an operation that needs at least one particle.
	ErrEmptyContainer = errors.New("kinetics: container is empty")

	// ErrVolumeLocked indicates a width change while volume is held constant.
	ErrVolumeLocked = errors.New("kinetics: volume is held constant")

	// ErrNoDivider indicates a divider operation on a single-chamber container.
	ErrNoDivider = errors.New("kinetics: container has no divider")

	// ErrInvalidTimeStep indicates a negative or non-finite tick length.
	ErrInvalidTimeStep = errors.New("kinetics: invalid time step")

	// ErrInvalidParticle indicates a particle with non-positive mass or radius.
	ErrInvalidParticle = errors.New("kinetics: invalid particle")
)

// ContractError wraps a contract violation with the offending operation
// and value.
type ContractError struct {
	Op      string
	Value   float64
	Wrapped error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s(%g): %v", e.Op, e.Value, e.Wrapped)
}

func (e *ContractError) Unwrap() error {
	return e.Wrapped
}

// Violation builds a ContractError.
func Violation(op string, value float64, err error) error {
	return &ContractError{Op: op, Value: value, Wrapped: err}
}

// Assert panics with a formatted message when cond is false. It guards
// internal invariants that correct callers can never break.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("kinetics: assertion failed: "+format, args...))
	}
}
