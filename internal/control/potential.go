package control

import (
	"math"

	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

const (
	DefaultGain    = 5.0
	DefaultFalloff = 2.5
	DefaultDamping = 6.0
)

// PotentialField steers toward the target while pushing away from
// peers. The desired direction is the goal vector plus one exponentially
// decaying repulsion term per peer; the heading error toward that
// direction is low-passed through atan and committed only when the
// result stays inside the steering range.
//
// The repulsion is soft: it lowers the chance of close encounters but
// guarantees no minimum separation.
type PotentialField struct {
	Gain    float64 // repulsion strength at zero distance
	Falloff float64 // repulsion e-folding distance
	Damping float64 // divisor applied to the atan of the heading error

	rejected int
	proposed int
}

func NewPotentialField() *PotentialField {
	return &PotentialField{
		Gain:    DefaultGain,
		Falloff: DefaultFalloff,
		Damping: DefaultDamping,
	}
}

func (c *PotentialField) Steer(self vehicle.State, g vehicle.Geometry, peers []vehicle.State) float64 {
	frame := g.FrontWheel.Sub(self.Position)
	scale := frame.Norm()

	// Goal direction rescaled to the frame vector's magnitude so both
	// operands of the blend share one length convention.
	desired := self.Target.Sub(self.Position).Normalize().Scale(scale)

	for _, peer := range peers {
		d := self.Position.Dist(peer.Position)
		w := c.Gain * math.Exp(-d/c.Falloff)
		away := self.Position.Sub(peer.Position).Normalize().Scale(scale)
		desired = desired.Add(away.Scale(w))
	}

	eta := signedAngle(frame, desired)

	candidate := self.Steering + math.Atan(eta-self.Steering)/c.Damping

	c.proposed++
	if math.Abs(candidate) >= MaxSteer {
		c.rejected++
		return self.Steering
	}
	return candidate
}

// signedAngle returns the angle from a to b in (-pi, pi], negative when
// b lies clockwise of a.
func signedAngle(a, b geom.Vec) float64 {
	na, nb := a.Norm(), b.Norm()
	if na < 1e-12 || nb < 1e-12 {
		return 0
	}
	cos := a.Dot(b) / (na * nb)
	cos = math.Max(-1, math.Min(1, cos))
	eta := math.Acos(cos)
	if a.Cross(b) < 0 {
		eta = -eta
	}
	return eta
}

// Rejections reports how many proposals were refused by the range check
// out of how many were made. Feeds the saturation metric.
func (c *PotentialField) Rejections() (rejected, proposed int) {
	return c.rejected, c.proposed
}

func (c *PotentialField) GetParams() map[string]float64 {
	return map[string]float64{
		"Gain":    c.Gain,
		"Falloff": c.Falloff,
		"Damping": c.Damping,
	}
}

func (c *PotentialField) SetParam(name string, value float64) {
	switch name {
	case "Gain":
		c.Gain = value
	case "Falloff":
		c.Falloff = value
	case "Damping":
		c.Damping = value
	}
}
