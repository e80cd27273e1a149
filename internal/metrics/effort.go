package metrics

import (
	"math"

	"github.com/san-kum/bikeswarm/internal/control"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// SteeringEffort averages |steering| across agents and ticks.
type SteeringEffort struct {
	sum     float64
	samples int
}

func NewSteeringEffort() *SteeringEffort {
	return &SteeringEffort{}
}

func (e *SteeringEffort) Name() string { return "steering_effort" }

func (e *SteeringEffort) Observe(tick int, t float64, states []vehicle.State) {
	for _, s := range states {
		e.sum += math.Abs(s.Steering)
		e.samples++
	}
}

func (e *SteeringEffort) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *SteeringEffort) Reset() {
	e.sum = 0
	e.samples = 0
}

// SaturationRate reads each controller's rejection counters after a run:
// the fraction of steering proposals refused by the range check.
type SaturationRate struct {
	controllers []*control.PotentialField
}

func NewSaturationRate(controllers []*control.PotentialField) *SaturationRate {
	return &SaturationRate{controllers: controllers}
}

func (r *SaturationRate) Name() string { return "saturation_rate" }

func (r *SaturationRate) Observe(tick int, t float64, states []vehicle.State) {}

func (r *SaturationRate) Value() float64 {
	rejected, proposed := 0, 0
	for _, c := range r.controllers {
		rj, pr := c.Rejections()
		rejected += rj
		proposed += pr
	}
	if proposed == 0 {
		return 0
	}
	return float64(rejected) / float64(proposed)
}

func (r *SaturationRate) Reset() {}
