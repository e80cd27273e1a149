package swarm

import (
	"github.com/san-kum/bikeswarm/internal/control"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// Agent couples one vehicle's state with its fixed parameters and its
// steering controller. State changes every tick; the rest does not.
type Agent struct {
	State      vehicle.State
	Params     vehicle.Params
	Geometry   vehicle.Geometry
	Controller control.Controller
}

// Metric observes the whole swarm once per tick and reduces the run to
// a single number.
type Metric interface {
	Name() string
	Observe(tick int, t float64, states []vehicle.State)
	Value() float64
	Reset()
}

// Observer receives read-only per-tick snapshots. Harness code that
// wants to follow a run without owning the loop hangs off this.
type Observer interface {
	OnTick(tick int, t float64, states []vehicle.State, geoms []vehicle.Geometry)
}

type Config struct {
	Dt            float64
	Steps         int
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.5,
		Steps:         100,
		ValidateState: true,
	}
}

// Result holds per-tick snapshots of every agent plus the reduced
// metrics. States[t][i] is agent i at tick t; index 0 is the initial
// condition.
type Result struct {
	States     [][]vehicle.State
	Geometries [][]vehicle.Geometry
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
