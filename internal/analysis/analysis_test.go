package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/swarm"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	out := FFT(data)

	if len(out) != 8 {
		t.Fatalf("expected 8 bins, got %d", len(out))
	}
	// All energy in the DC bin.
	if math.Abs(real(out[0])-8) > 1e-9 || math.Abs(imag(out[0])) > 1e-9 {
		t.Errorf("DC bin = %v, want 8", out[0])
	}
	for i := 1; i < 8; i++ {
		if math.Hypot(real(out[i]), imag(out[i])) > 1e-9 {
			t.Errorf("bin %d nonzero: %v", i, out[i])
		}
	}
}

func TestPowerSpectrumSine(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	if len(ps) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(ps))
	}

	peak := 0
	for i, v := range ps {
		if v > ps[peak] {
			peak = i
		}
	}
	if peak != 4 {
		t.Errorf("expected peak at bin 4, got %d", peak)
	}
}

func TestPowerSpectrumOddLength(t *testing.T) {
	// 100 samples truncate to 64; must not panic.
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i)
	}
	ps := PowerSpectrum(data)
	if len(ps) != 32 {
		t.Errorf("expected 32 bins after truncation, got %d", len(ps))
	}
}

func lineResult(ticks int) *swarm.Result {
	res := &swarm.Result{}
	for t := 0; t <= ticks; t++ {
		res.States = append(res.States, []vehicle.State{{
			Position: geom.Vec{X: float64(t) * 2, Y: 0},
			Vy:       0.5,
			Steering: 0.1,
			Target:   geom.Vec{X: 100, Y: 0},
		}})
		res.Times = append(res.Times, float64(t))
	}
	res.StepsTaken = ticks
	return res
}

func TestSummarize(t *testing.T) {
	res := lineResult(10)
	stats := Summarize(res)

	if len(stats) != 1 {
		t.Fatalf("expected stats for 1 agent, got %d", len(stats))
	}
	s := stats[0]
	if math.Abs(s.SteeringMean-0.1) > 1e-12 {
		t.Errorf("steering mean = %v, want 0.1", s.SteeringMean)
	}
	if s.SteeringStdDev > 1e-12 {
		t.Errorf("constant steering should have zero stddev, got %v", s.SteeringStdDev)
	}
	if math.Abs(s.PathLength-20) > 1e-9 {
		t.Errorf("path length = %v, want 20", s.PathLength)
	}
	if math.Abs(s.FinalGoalDist-80) > 1e-9 {
		t.Errorf("final goal distance = %v, want 80", s.FinalGoalDist)
	}
}

func TestSeparationSeries(t *testing.T) {
	res := &swarm.Result{
		States: [][]vehicle.State{
			{
				{Position: geom.Vec{X: 0, Y: 0}},
				{Position: geom.Vec{X: 6, Y: 0}},
			},
			{
				{Position: geom.Vec{X: 1, Y: 0}},
				{Position: geom.Vec{X: 5, Y: 0}},
			},
		},
	}

	series := SeparationSeries(res)
	if len(series) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(series))
	}
	if series[0] != 6 || series[1] != 4 {
		t.Errorf("expected [6 4], got %v", series)
	}
}

func TestSeparationSeriesSingleAgent(t *testing.T) {
	res := lineResult(3)
	for _, v := range SeparationSeries(res) {
		if !math.IsInf(v, 1) {
			t.Errorf("expected +Inf for single agent, got %v", v)
		}
	}
}

func TestGoalDistanceSeries(t *testing.T) {
	res := lineResult(10)
	series := GoalDistanceSeries(res)

	if len(series) != 11 {
		t.Fatalf("expected 11 entries, got %d", len(series))
	}
	if series[0] != 100 || series[10] != 80 {
		t.Errorf("expected endpoints 100 and 80, got %v and %v", series[0], series[10])
	}
	for i := 1; i < len(series); i++ {
		if series[i] >= series[i-1] {
			t.Errorf("series not decreasing at %d: %v >= %v", i, series[i], series[i-1])
		}
	}
}

func TestNewPhasePortrait(t *testing.T) {
	res := lineResult(5)

	p := NewPhasePortrait(res, 0, "x", "vy")
	if p == nil {
		t.Fatal("nil portrait for valid channels")
	}
	if len(p.Points) != 6 {
		t.Errorf("expected 6 points, got %d", len(p.Points))
	}
	if p.Points[3].X != 6 || p.Points[3].Y != 0.5 {
		t.Errorf("unexpected point: %+v", p.Points[3])
	}

	if NewPhasePortrait(res, 0, "x", "nope") != nil {
		t.Error("expected nil for unknown channel")
	}
	if NewPhasePortrait(res, 5, "x", "vy") != nil {
		t.Error("expected nil for out-of-range agent")
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	res := lineResult(5)
	p := NewPhasePortrait(res, 0, "x", "y")

	out := p.ToASCII(40, 10)
	if out == "" {
		t.Fatal("empty render")
	}
	lines := 0
	for _, c := range out {
		if c == '\n' {
			lines++
		}
	}
	if lines != 10 {
		t.Errorf("expected 10 rows, got %d", lines)
	}
}
