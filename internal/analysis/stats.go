package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/bikeswarm/internal/swarm"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// AgentStats summarizes one agent over a whole run.
type AgentStats struct {
	Agent          int
	SteeringMean   float64
	SteeringStdDev float64
	VyMean         float64
	VyStdDev       float64
	YawRateStdDev  float64
	PathLength     float64
	FinalGoalDist  float64
}

// Summarize reduces a run to per-agent statistics.
func Summarize(result *swarm.Result) []AgentStats {
	if len(result.States) == 0 {
		return nil
	}

	n := len(result.States[0])
	out := make([]AgentStats, n)

	for i := 0; i < n; i++ {
		steering := SeriesOf(result, i, func(s vehicle.State) float64 { return s.Steering })
		vy := SeriesOf(result, i, func(s vehicle.State) float64 { return s.Vy })
		yawRate := SeriesOf(result, i, func(s vehicle.State) float64 { return s.YawRate })

		absSteering := make([]float64, len(steering))
		for j, v := range steering {
			absSteering[j] = math.Abs(v)
		}

		last := result.States[len(result.States)-1][i]
		out[i] = AgentStats{
			Agent:          i,
			SteeringMean:   stat.Mean(absSteering, nil),
			SteeringStdDev: stat.StdDev(steering, nil),
			VyMean:         stat.Mean(vy, nil),
			VyStdDev:       stat.StdDev(vy, nil),
			YawRateStdDev:  stat.StdDev(yawRate, nil),
			PathLength:     pathLength(result, i),
			FinalGoalDist:  last.Position.Dist(last.Target),
		}
	}

	return out
}

// SeriesOf extracts one scalar channel of one agent across all ticks.
func SeriesOf(result *swarm.Result, agent int, pick func(vehicle.State) float64) []float64 {
	series := make([]float64, 0, len(result.States))
	for _, snap := range result.States {
		if agent >= len(snap) {
			break
		}
		series = append(series, pick(snap[agent]))
	}
	return series
}

func pathLength(result *swarm.Result, agent int) float64 {
	total := 0.0
	for t := 1; t < len(result.States); t++ {
		total += result.States[t][agent].Position.Dist(result.States[t-1][agent].Position)
	}
	return total
}

// SeparationSeries returns the minimum pairwise distance per tick.
// Single-agent runs yield +Inf for every tick.
func SeparationSeries(result *swarm.Result) []float64 {
	series := make([]float64, len(result.States))
	for t, snap := range result.States {
		min := math.Inf(1)
		for i := 0; i < len(snap); i++ {
			for j := i + 1; j < len(snap); j++ {
				if d := snap[i].Position.Dist(snap[j].Position); d < min {
					min = d
				}
			}
		}
		series[t] = min
	}
	return series
}

// GoalDistanceSeries returns the mean remaining distance to target per
// tick, the main convergence trace for plotting.
func GoalDistanceSeries(result *swarm.Result) []float64 {
	series := make([]float64, len(result.States))
	for t, snap := range result.States {
		if len(snap) == 0 {
			continue
		}
		dists := make([]float64, len(snap))
		for i, s := range snap {
			dists[i] = s.Position.Dist(s.Target)
		}
		series[t] = floats.Sum(dists) / float64(len(dists))
	}
	return series
}
