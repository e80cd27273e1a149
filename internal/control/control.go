package control

import (
	"math"

	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// MaxSteer bounds the front wheel angle. A proposed angle is committed
// only if it lies strictly inside (-MaxSteer, MaxSteer); otherwise the
// previous angle is kept.
const MaxSteer = math.Pi / 4

// Controller computes the next committed steering angle for one vehicle
// given its own state, its derived geometry, and a read-only snapshot of
// every other vehicle's state. Implementations never mutate peers.
type Controller interface {
	Steer(self vehicle.State, g vehicle.Geometry, peers []vehicle.State) float64
}

// Tunable is implemented by controllers whose gains can be adjusted at
// runtime, e.g. from the live view.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}
