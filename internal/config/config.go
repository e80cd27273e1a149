package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

const (
	DefaultDt      = 0.5
	DefaultSteps   = 100
	DefaultGain    = 5.0
	DefaultFalloff = 2.5
	DefaultDamping = 6.0
)

type Config struct {
	Scenario   string           `yaml:"scenario"`
	Controller ControllerConfig `yaml:"controller"`
	Sim        SimConfig        `yaml:"sim"`
	Vehicles   []VehicleConfig  `yaml:"vehicles"`
}

type SimConfig struct {
	Dt       float64 `yaml:"dt"`
	Steps    int     `yaml:"steps"`
	Seed     int64   `yaml:"seed"`
	Validate bool    `yaml:"validate"`
}

type ControllerConfig struct {
	Name    string  `yaml:"name"`
	Gain    float64 `yaml:"gain"`
	Falloff float64 `yaml:"falloff"`
	Damping float64 `yaml:"damping"`
	Angle   float64 `yaml:"angle"` // fixed controller only
}

type VehicleConfig struct {
	Position geom.Vec        `yaml:"position"`
	Target   geom.Vec        `yaml:"target"`
	Yaw      float64         `yaml:"yaw"`
	Params   *vehicle.Params `yaml:"params,omitempty"` // nil means defaults
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: "solo",
		Controller: ControllerConfig{
			Name:    "potential",
			Gain:    DefaultGain,
			Falloff: DefaultFalloff,
			Damping: DefaultDamping,
		},
		Sim: SimConfig{
			Dt:       DefaultDt,
			Steps:    DefaultSteps,
			Validate: true,
		},
		Vehicles: []VehicleConfig{
			{Target: geom.Vec{X: 10, Y: 10}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Vehicles = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Vehicles) == 0 {
		return nil, fmt.Errorf("%s: no vehicles defined", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParamsFor resolves the effective physical parameters of vehicle i.
func (c *Config) ParamsFor(i int) vehicle.Params {
	if i < len(c.Vehicles) && c.Vehicles[i].Params != nil {
		return *c.Vehicles[i].Params
	}
	return vehicle.DefaultParams()
}
