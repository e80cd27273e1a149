package geom

import "math"

// Vec is a 2D point or direction in world coordinates.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product, the signed area
// of the parallelogram spanned by v and o.
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec) Norm() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec) NormSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec) Dist(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Normalize returns a unit vector in the direction of v, or the zero
// vector if v is degenerate.
func (v Vec) Normalize() Vec {
	n := v.Norm()
	if n < 1e-12 {
		return Vec{}
	}
	return v.Scale(1 / n)
}

// Angle returns the orientation of v in radians.
func (v Vec) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Heading returns the unit vector for an orientation angle.
func Heading(angle float64) Vec {
	return Vec{math.Cos(angle), math.Sin(angle)}
}

func (v Vec) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
