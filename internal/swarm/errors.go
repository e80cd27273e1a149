package swarm

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and stepping.
var (
	// ErrZeroForwardSpeed indicates a vehicle configured with vx = 0,
	// which the lateral model cannot evaluate.
	ErrZeroForwardSpeed = errors.New("swarm: forward speed must be nonzero")

	// ErrNoVehicles indicates an empty scenario.
	ErrNoVehicles = errors.New("swarm: scenario has no vehicles")

	// ErrBadTimestep indicates a nonpositive dt or step count.
	ErrBadTimestep = errors.New("swarm: dt and steps must be positive")

	// ErrInvalidState indicates NaN or Inf appeared in a vehicle state.
	ErrInvalidState = errors.New("swarm: invalid state (NaN or Inf detected)")
)

// SimError carries the tick and agent where a run went bad.
type SimError struct {
	Tick    int
	Agent   int
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("tick %d, agent %d: %v", e.Tick, e.Agent, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
