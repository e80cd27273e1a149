package control

import "github.com/san-kum/bikeswarm/internal/vehicle"

// Fixed holds the steering angle constant; the open-loop baseline.
type Fixed struct {
	Angle float64
}

func NewFixed(angle float64) *Fixed {
	return &Fixed{Angle: angle}
}

func (f *Fixed) Steer(self vehicle.State, g vehicle.Geometry, peers []vehicle.State) float64 {
	return f.Angle
}
