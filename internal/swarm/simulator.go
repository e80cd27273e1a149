package swarm

import (
	"context"
	"fmt"

	"github.com/san-kum/bikeswarm/internal/control"
	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// Step advances one agent a single tick: dynamics derivatives, Euler
// integration, geometry resolution, then the steering decision against
// the peer snapshot. The controller's committed angle is the only part
// of the new state it decides; everything else comes from the model.
func Step(s vehicle.State, p vehicle.Params, ctrl control.Controller, peers []vehicle.State, dt float64) (vehicle.State, vehicle.Geometry) {
	n := vehicle.Integrate(s, p, dt)
	g := vehicle.ResolveGeometry(n, p)
	n.Steering = ctrl.Steer(n, g, peers)
	return n, g
}

// Simulator advances a fixed set of agents tick by tick. It is
// single-threaded; within a tick agents update in slice order and each
// controller sees the already-advanced states of lower-indexed peers
// (Gauss-Seidel sweep, not a Jacobi snapshot). That ordering is part of
// the observable behavior and is kept on purpose.
type Simulator struct {
	agents    []Agent
	metrics   []Metric
	observers []Observer
	scratch   []vehicle.State
}

func New(agents []Agent) (*Simulator, error) {
	if len(agents) == 0 {
		return nil, ErrNoVehicles
	}
	for i, a := range agents {
		if a.Params.Vx == 0 {
			return nil, fmt.Errorf("agent %d: %w", i, ErrZeroForwardSpeed)
		}
	}

	s := &Simulator{
		agents:  agents,
		scratch: make([]vehicle.State, len(agents)-1),
	}
	for i := range s.agents {
		s.agents[i].Geometry = vehicle.ResolveGeometry(s.agents[i].State, s.agents[i].Params)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Agents exposes the live agent slice for read access (positions,
// targets, derived geometry) by the harness.
func (s *Simulator) Agents() []Agent { return s.agents }

// Retarget replaces one agent's target point. Targets may move at any
// time between ticks.
func (s *Simulator) Retarget(i int, target geom.Vec) {
	s.agents[i].State.Target = target
}

// Tick advances every agent once, in index order.
func (s *Simulator) Tick(dt float64) {
	for i := range s.agents {
		peers := s.peersOf(i)
		s.agents[i].State, s.agents[i].Geometry = Step(
			s.agents[i].State, s.agents[i].Params, s.agents[i].Controller, peers, dt)
	}
}

// peersOf gathers every state except agent i into the scratch buffer.
// Lower indices have already moved this tick.
func (s *Simulator) peersOf(i int) []vehicle.State {
	peers := s.scratch[:0]
	for j := range s.agents {
		if j != i {
			peers = append(peers, s.agents[j].State)
		}
	}
	return peers
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || cfg.Steps <= 0 {
		return fmt.Errorf("%w: dt=%f steps=%d", ErrBadTimestep, cfg.Dt, cfg.Steps)
	}
	return nil
}

// Run executes cfg.Steps ticks, recording a snapshot after each one.
// The run stops early on context cancellation or, when
// cfg.ValidateState is set, on the first NaN/Inf state.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		States:     make([][]vehicle.State, 0, cfg.Steps+1),
		Geometries: make([][]vehicle.Geometry, 0, cfg.Steps+1),
		Times:      make([]float64, 0, cfg.Steps+1),
		Metrics:    make(map[string]float64),
	}

	t := 0.0
	result.snapshot(s.agents, t)

	for _, m := range s.metrics {
		m.Observe(0, t, result.States[0])
	}

	for tick := 1; tick <= cfg.Steps; tick++ {
		select {
		case <-ctx.Done():
			s.reduce(result)
			return result, ctx.Err()
		default:
		}

		s.Tick(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++
		result.snapshot(s.agents, t)

		states := result.States[len(result.States)-1]
		geoms := result.Geometries[len(result.Geometries)-1]

		if cfg.ValidateState {
			if bad := firstInvalid(states); bad >= 0 {
				err := &SimError{Tick: tick, Agent: bad, Wrapped: ErrInvalidState}
				result.Errors = append(result.Errors, err)
				s.reduce(result)
				return result, err
			}
		}

		for _, m := range s.metrics {
			m.Observe(tick, t, states)
		}
		for _, o := range s.observers {
			o.OnTick(tick, t, states, geoms)
		}
	}

	s.reduce(result)
	return result, nil
}

func (s *Simulator) reduce(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (r *Result) snapshot(agents []Agent, t float64) {
	states := make([]vehicle.State, len(agents))
	geoms := make([]vehicle.Geometry, len(agents))
	for i, a := range agents {
		states[i] = a.State
		geoms[i] = a.Geometry
	}
	r.States = append(r.States, states)
	r.Geometries = append(r.Geometries, geoms)
	r.Times = append(r.Times, t)
}

func firstInvalid(states []vehicle.State) int {
	for i, s := range states {
		if !s.IsValid() {
			return i
		}
	}
	return -1
}
