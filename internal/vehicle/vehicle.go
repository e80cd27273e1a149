package vehicle

import (
	"math"

	"github.com/san-kum/bikeswarm/internal/geom"
)

// Params holds the physical constants of one vehicle. They are fixed at
// construction and never change during a run. Vx is the forward cruising
// speed in the body frame; the linear model never solves for it, and it
// must be nonzero.
type Params struct {
	Cf          float64 `yaml:"cf"`           // front cornering stiffness
	Cr          float64 `yaml:"cr"`           // rear cornering stiffness
	Lf          float64 `yaml:"lf"`           // front axle to center of mass
	Lr          float64 `yaml:"lr"`           // rear axle to center of mass
	M           float64 `yaml:"m"`            // mass
	Iz          float64 `yaml:"iz"`           // yaw moment of inertia
	WheelRadius float64 `yaml:"wheel_radius"` // front wheel radius, for the direction markers
	Vx          float64 `yaml:"vx"`           // fixed forward speed, body frame
}

func DefaultParams() Params {
	return Params{
		Cf:          60.0,
		Cr:          55.0,
		Lf:          1.2,
		Lr:          1.6,
		M:           10.0,
		Iz:          25.0,
		WheelRadius: 1.0,
		Vx:          5.0,
	}
}

// State is one vehicle's full kinematic and dynamic state at a tick. It
// is a plain value: every update produces a new State rather than
// mutating in place.
//
// Theta is the lateral model's internal heading-deviation state; Yaw is
// the world heading the vehicle actually travels and renders with.
// ThetaDot holds the last derivative of Theta computed by the model; the
// next integration step consumes it before overwriting it.
type State struct {
	Position geom.Vec
	Vy       float64 // body-frame lateral velocity
	Yaw      float64 // phi, world heading
	YawRate  float64 // phiDot
	Theta    float64
	ThetaDot float64
	Steering float64 // delta, front wheel angle relative to the body
	Target   geom.Vec
}

func (s State) IsValid() bool {
	for _, v := range []float64{s.Vy, s.Yaw, s.YawRate, s.Theta, s.ThetaDot, s.Steering} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Position.IsValid() && s.Target.IsValid()
}

// Geometry holds the derived contact and marker points for one pose. It
// is recomputed from the pose every tick and never carried across ticks.
type Geometry struct {
	FrontWheel     geom.Vec // front axle center
	BackWheel      geom.Vec // rear axle center
	FrontWheelTip  geom.Vec // front wheel rolling direction, leading end
	FrontWheelTail geom.Vec // front wheel rolling direction, trailing end
}

// Derivatives evaluates the two-state linear bicycle model, returning
// the rates of change of the lateral velocity and of theta. Pure
// function; requires p.Vx != 0, which callers guarantee at construction.
//
// Note the lateral-velocity equation feeds the front stiffness into both
// stiffness slots while the theta equation uses front and rear
// separately. The mismatch is carried over deliberately to match the
// reference traces this model was validated against.
func Derivatives(s State, p Params) (vyDot, thetaDot float64) {
	cosD := math.Cos(s.Steering)

	vyDot = lateralRate(p.Cf, p.Cf, p, cosD, s)
	thetaDot = (p.Cr*p.Lr-p.Cf*p.Lf*cosD)*s.Vy/(p.Iz*p.Vx) -
		(p.Cf*p.Lf*p.Lf*cosD+p.Cr*p.Lr*p.Lr)*s.Theta/(p.Iz*p.Vx) +
		p.Lf*p.Cf*cosD*s.Steering/p.Iz
	return vyDot, thetaDot
}

func lateralRate(cf, cr float64, p Params, cosD float64, s State) float64 {
	return -(cf*cosD+cr)*s.Vy/(p.M*p.Vx) +
		((cr*p.Lr-cf*p.Lf*cosD)/(p.M*p.Vx)-p.Vx)*s.Theta +
		cf*cosD*s.Steering/p.M
}

// Integrate advances the state one explicit Euler step of length dt.
//
// The lateral velocity uses the freshly evaluated derivative, while
// theta is advanced with the ThetaDot stored on the incoming state, one
// step behind. Yaw then follows the fresh rate, and the position update
// rotates the body-frame velocity into the world frame. The one-step lag
// on theta reproduces the reference update order; using the fresh value
// for theta as well would be the cleaner scheme but changes the traces.
func Integrate(s State, p Params, dt float64) State {
	vyDot, thetaDot := Derivatives(s, p)

	n := s
	n.Vy = s.Vy + vyDot*dt
	n.Theta = s.Theta + s.ThetaDot*dt
	n.ThetaDot = thetaDot

	n.YawRate = thetaDot
	n.Yaw = s.Yaw + n.YawRate*dt

	sinP, cosP := math.Sincos(n.Yaw)
	xDot := p.Vx*cosP - n.Vy*sinP
	yDot := p.Vx*sinP + n.Vy*cosP
	n.Position = s.Position.Add(geom.Vec{X: xDot, Y: yDot}.Scale(dt))

	return n
}

// ResolveGeometry derives the wheel centers and the front-wheel
// direction markers from the current pose. Pure function of the pose
// and the fixed lengths.
func ResolveGeometry(s State, p Params) Geometry {
	heading := geom.Heading(s.Yaw)
	wheelDir := geom.Heading(s.Yaw + s.Steering).Scale(p.WheelRadius)

	front := s.Position.Add(heading.Scale(p.Lf))
	return Geometry{
		FrontWheel:     front,
		BackWheel:      s.Position.Sub(heading.Scale(p.Lr)),
		FrontWheelTip:  front.Add(wheelDir),
		FrontWheelTail: front.Sub(wheelDir),
	}
}
