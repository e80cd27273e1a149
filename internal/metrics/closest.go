package metrics

import (
	"math"

	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// ClosestApproach tracks the minimum pairwise distance seen over a run
// and which pair produced it. The repulsion field only discourages close
// encounters, so this is the number that says how well it did.
type ClosestApproach struct {
	min  float64
	pair [2]int
	tick int
}

func NewClosestApproach() *ClosestApproach {
	return &ClosestApproach{min: math.Inf(1)}
}

func (c *ClosestApproach) Name() string { return "closest_approach" }

func (c *ClosestApproach) Observe(tick int, t float64, states []vehicle.State) {
	for i := range states {
		for j := i + 1; j < len(states); j++ {
			if d := states[i].Position.Dist(states[j].Position); d < c.min {
				c.min = d
				c.pair = [2]int{i, j}
				c.tick = tick
			}
		}
	}
}

func (c *ClosestApproach) Value() float64 { return c.min }

// Pair reports the agents and tick of the closest encounter.
func (c *ClosestApproach) Pair() (i, j, tick int) {
	return c.pair[0], c.pair[1], c.tick
}

func (c *ClosestApproach) Reset() {
	c.min = math.Inf(1)
	c.pair = [2]int{}
	c.tick = 0
}
