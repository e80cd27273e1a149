package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/bikeswarm/internal/config"
	"github.com/san-kum/bikeswarm/internal/control"
	"github.com/san-kum/bikeswarm/internal/metrics"
	"github.com/san-kum/bikeswarm/internal/swarm"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// Experiment binds a scenario config to a ready-to-run simulator with
// the default metric set attached.
type Experiment struct {
	cfg *config.Config
	sim *swarm.Simulator
}

func Build(cfg *config.Config) (*Experiment, error) {
	agents := make([]swarm.Agent, len(cfg.Vehicles))
	fields := make([]*control.PotentialField, 0, len(cfg.Vehicles))

	for i, v := range cfg.Vehicles {
		ctrl, err := BuildController(cfg.Controller)
		if err != nil {
			return nil, err
		}
		if pf, ok := ctrl.(*control.PotentialField); ok {
			fields = append(fields, pf)
		}
		agents[i] = swarm.Agent{
			State: vehicle.State{
				Position: v.Position,
				Yaw:      v.Yaw,
				Target:   v.Target,
			},
			Params:     cfg.ParamsFor(i),
			Controller: ctrl,
		}
	}

	sim, err := swarm.New(agents)
	if err != nil {
		return nil, fmt.Errorf("build scenario %q: %w", cfg.Scenario, err)
	}

	sim.AddMetric(metrics.NewClosestApproach())
	sim.AddMetric(metrics.NewGoalProgress())
	sim.AddMetric(metrics.NewSteeringEffort())
	if len(fields) > 0 {
		sim.AddMetric(metrics.NewSaturationRate(fields))
	}

	return &Experiment{cfg: cfg, sim: sim}, nil
}

func (e *Experiment) Run(ctx context.Context) (*swarm.Result, error) {
	return e.sim.Run(ctx, swarm.Config{
		Dt:            e.cfg.Sim.Dt,
		Steps:         e.cfg.Sim.Steps,
		Seed:          e.cfg.Sim.Seed,
		ValidateState: e.cfg.Sim.Validate,
	})
}

// Simulator exposes the underlying simulator for attaching observers.
func (e *Experiment) Simulator() *swarm.Simulator {
	return e.sim
}
