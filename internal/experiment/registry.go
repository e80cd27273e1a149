package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bikeswarm/internal/config"
	"github.com/san-kum/bikeswarm/internal/control"
)

var controllerBuilders = map[string]func(config.ControllerConfig) control.Controller{
	"potential": func(cc config.ControllerConfig) control.Controller {
		pf := control.NewPotentialField()
		if cc.Gain != 0 {
			pf.Gain = cc.Gain
		}
		if cc.Falloff != 0 {
			pf.Falloff = cc.Falloff
		}
		if cc.Damping != 0 {
			pf.Damping = cc.Damping
		}
		return pf
	},
	"fixed": func(cc config.ControllerConfig) control.Controller {
		return &control.Fixed{Angle: cc.Angle}
	},
}

// BuildController constructs a fresh controller instance for one agent.
// Each agent gets its own instance so per-controller state does not leak
// between vehicles.
func BuildController(cc config.ControllerConfig) (control.Controller, error) {
	name := cc.Name
	if name == "" {
		name = "potential"
	}
	fn, ok := controllerBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(cc), nil
}

func ListControllers() []string {
	names := make([]string, 0, len(controllerBuilders))
	for name := range controllerBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
