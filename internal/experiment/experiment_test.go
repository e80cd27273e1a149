package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/bikeswarm/internal/config"
	"github.com/san-kum/bikeswarm/internal/control"
)

func TestBuildController(t *testing.T) {
	tests := []struct {
		name    string
		cc      config.ControllerConfig
		wantErr bool
	}{
		{"default", config.ControllerConfig{}, false},
		{"potential", config.ControllerConfig{Name: "potential", Gain: 3, Falloff: 1.5}, false},
		{"fixed", config.ControllerConfig{Name: "fixed", Angle: 0.1}, false},
		{"unknown", config.ControllerConfig{Name: "mpc"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl, err := BuildController(tt.cc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ctrl == nil {
				t.Fatal("nil controller")
			}
		})
	}
}

func TestBuildControllerOverrides(t *testing.T) {
	ctrl, err := BuildController(config.ControllerConfig{Name: "potential", Gain: 3, Falloff: 1.5, Damping: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pf, ok := ctrl.(*control.PotentialField)
	if !ok {
		t.Fatalf("expected *control.PotentialField, got %T", ctrl)
	}
	if pf.Gain != 3 || pf.Falloff != 1.5 || pf.Damping != 4 {
		t.Errorf("overrides not applied: gain=%v falloff=%v damping=%v", pf.Gain, pf.Falloff, pf.Damping)
	}
}

func TestBuildControllerInstancesAreDistinct(t *testing.T) {
	a, _ := BuildController(config.ControllerConfig{Name: "potential"})
	b, _ := BuildController(config.ControllerConfig{Name: "potential"})
	if a == b {
		t.Error("expected distinct controller instances per agent")
	}
}

func TestListControllers(t *testing.T) {
	names := ListControllers()
	if len(names) != 2 {
		t.Fatalf("expected 2 controllers, got %d", len(names))
	}
	if names[0] != "fixed" || names[1] != "potential" {
		t.Errorf("expected sorted [fixed potential], got %v", names)
	}
}

func TestBuildAndRunPreset(t *testing.T) {
	cfg := config.GetPreset("solo")
	if cfg == nil {
		t.Fatal("missing solo preset")
	}
	cfg.Sim.Steps = 20

	exp, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", res.StepsTaken)
	}
	for _, name := range []string{"closest_approach", "goal_distance", "steering_effort", "saturation_rate"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %q", name)
		}
	}
}

func TestBuildRejectsEmptyScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Vehicles = nil
	if _, err := Build(cfg); err == nil {
		t.Error("expected error for scenario with no vehicles")
	}
}
