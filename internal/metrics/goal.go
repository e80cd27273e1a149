package metrics

import "github.com/san-kum/bikeswarm/internal/vehicle"

// GoalProgress reports the mean remaining distance to target across all
// agents at the last observed tick.
type GoalProgress struct {
	last float64
}

func NewGoalProgress() *GoalProgress {
	return &GoalProgress{}
}

func (g *GoalProgress) Name() string { return "goal_distance" }

func (g *GoalProgress) Observe(tick int, t float64, states []vehicle.State) {
	if len(states) == 0 {
		return
	}
	sum := 0.0
	for _, s := range states {
		sum += s.Position.Dist(s.Target)
	}
	g.last = sum / float64(len(states))
}

func (g *GoalProgress) Value() float64 { return g.last }

func (g *GoalProgress) Reset() { g.last = 0 }
