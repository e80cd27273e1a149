package config

import (
	"math"
	"sort"

	"github.com/san-kum/bikeswarm/internal/geom"
)

var Presets = map[string]*Config{
	"solo": {
		Scenario: "solo",
		Sim:      SimConfig{Dt: 0.5, Steps: 60, Validate: true},
		Vehicles: []VehicleConfig{
			{Position: geom.Vec{}, Target: geom.Vec{X: 10, Y: 10}},
		},
	},
	"head_on": {
		Scenario: "head_on",
		Sim:      SimConfig{Dt: 0.1, Steps: 300, Validate: true},
		Vehicles: []VehicleConfig{
			{Position: geom.Vec{X: -10}, Target: geom.Vec{X: 10}},
			{Position: geom.Vec{X: 10}, Target: geom.Vec{X: -10}, Yaw: math.Pi},
		},
	},
	"crossing": {
		Scenario: "crossing",
		Sim:      SimConfig{Dt: 0.1, Steps: 300, Validate: true},
		Vehicles: []VehicleConfig{
			{Position: geom.Vec{X: -12}, Target: geom.Vec{X: 12}},
			{Position: geom.Vec{Y: -12}, Target: geom.Vec{Y: 12}, Yaw: math.Pi / 2},
		},
	},
	"mirror": {
		Scenario: "mirror",
		Sim:      SimConfig{Dt: 0.5, Steps: 80, Validate: true},
		Vehicles: []VehicleConfig{
			{Position: geom.Vec{Y: 2}, Target: geom.Vec{X: 25, Y: 2}},
			{Position: geom.Vec{Y: -2}, Target: geom.Vec{X: 25, Y: -2}},
		},
	},
}

// GetPreset returns a deep copy of the named preset, with the default
// controller block filled in, or nil if unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Scenario = p.Scenario
	cfg.Sim = p.Sim
	cfg.Vehicles = append([]VehicleConfig(nil), p.Vehicles...)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ring builds a scenario with n vehicles on a circle, each targeting
// the diametrically opposite point. Everyone crosses the center, so the
// repulsion field gets a real workout.
func Ring(n int, radius float64) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = "ring"
	cfg.Sim = SimConfig{Dt: 0.1, Steps: 400, Validate: true}
	cfg.Vehicles = make([]VehicleConfig, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pos := geom.Heading(angle).Scale(radius)
		cfg.Vehicles[i] = VehicleConfig{
			Position: pos,
			Target:   pos.Scale(-1),
			Yaw:      angle + math.Pi, // facing the center
		}
	}
	return cfg
}
