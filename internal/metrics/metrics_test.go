package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/bikeswarm/internal/control"
	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

func TestClosestApproach(t *testing.T) {
	m := NewClosestApproach()

	m.Observe(0, 0, []vehicle.State{
		{Position: geom.Vec{X: 0}},
		{Position: geom.Vec{X: 10}},
		{Position: geom.Vec{X: 13}},
	})
	m.Observe(1, 0.5, []vehicle.State{
		{Position: geom.Vec{X: 0}},
		{Position: geom.Vec{X: 2}},
		{Position: geom.Vec{X: 13}},
	})

	if m.Value() != 2 {
		t.Errorf("expected closest 2, got %f", m.Value())
	}
	i, j, tick := m.Pair()
	if i != 0 || j != 1 || tick != 1 {
		t.Errorf("expected pair (0,1) at tick 1, got (%d,%d) at %d", i, j, tick)
	}

	m.Reset()
	if !math.IsInf(m.Value(), 1) {
		t.Error("expected +Inf after reset")
	}
}

func TestClosestApproachSingleAgent(t *testing.T) {
	m := NewClosestApproach()
	m.Observe(0, 0, []vehicle.State{{Position: geom.Vec{}}})
	if !math.IsInf(m.Value(), 1) {
		t.Error("expected +Inf with no pairs")
	}
}

func TestGoalProgress(t *testing.T) {
	m := NewGoalProgress()

	m.Observe(0, 0, []vehicle.State{
		{Position: geom.Vec{}, Target: geom.Vec{X: 4}},
		{Position: geom.Vec{}, Target: geom.Vec{Y: 2}},
	})

	if m.Value() != 3 {
		t.Errorf("expected mean distance 3, got %f", m.Value())
	}
}

func TestSteeringEffort(t *testing.T) {
	m := NewSteeringEffort()

	m.Observe(0, 0, []vehicle.State{{Steering: 0.2}, {Steering: -0.4}})
	m.Observe(1, 0.5, []vehicle.State{{Steering: 0.1}, {Steering: -0.1}})

	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("expected effort 0.2, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestSaturationRate(t *testing.T) {
	c := control.NewPotentialField()
	m := NewSaturationRate([]*control.PotentialField{c})

	if m.Value() != 0 {
		t.Errorf("expected 0 with no proposals, got %f", m.Value())
	}

	// One accepted proposal (target dead ahead), one rejected (target
	// behind with steering already high).
	p := vehicle.DefaultParams()
	ahead := vehicle.State{Target: geom.Vec{X: 100}}
	c.Steer(ahead, vehicle.ResolveGeometry(ahead, p), nil)

	behind := vehicle.State{Target: geom.Vec{X: -100, Y: 1}, Steering: 0.7}
	c.Steer(behind, vehicle.ResolveGeometry(behind, p), nil)

	if m.Value() != 0.5 {
		t.Errorf("expected saturation 0.5, got %f", m.Value())
	}
}
