package geom

import (
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := Vec{3, 4}
	b := Vec{1, -2}

	if got := a.Add(b); got != (Vec{4, 2}) {
		t.Errorf("add: expected {4 2}, got %v", got)
	}
	if got := a.Sub(b); got != (Vec{2, 6}) {
		t.Errorf("sub: expected {2 6}, got %v", got)
	}
	if got := a.Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("norm: expected 5, got %f", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("dot: expected -5, got %f", got)
	}
	if got := a.Cross(b); got != -10 {
		t.Errorf("cross: expected -10, got %f", got)
	}
}

func TestNormalize(t *testing.T) {
	v := Vec{3, 4}.Normalize()
	if math.Abs(v.Norm()-1) > 1e-12 {
		t.Errorf("expected unit length, got %f", v.Norm())
	}

	zero := Vec{}.Normalize()
	if zero != (Vec{}) {
		t.Errorf("expected zero vector, got %v", zero)
	}
}

func TestHeading(t *testing.T) {
	h := Heading(math.Pi / 2)
	if math.Abs(h.X) > 1e-12 || math.Abs(h.Y-1) > 1e-12 {
		t.Errorf("expected {0 1}, got %v", h)
	}
	if math.Abs(h.Angle()-math.Pi/2) > 1e-12 {
		t.Errorf("angle round trip failed: %f", h.Angle())
	}
}

func TestIsValid(t *testing.T) {
	if !(Vec{1, 2}).IsValid() {
		t.Error("finite vector reported invalid")
	}
	if (Vec{math.NaN(), 0}).IsValid() {
		t.Error("NaN vector reported valid")
	}
	if (Vec{0, math.Inf(1)}).IsValid() {
		t.Error("Inf vector reported valid")
	}
}
