package storage

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/bikeswarm/internal/config"
	"github.com/san-kum/bikeswarm/internal/experiment"
	"github.com/san-kum/bikeswarm/internal/swarm"
)

func soloResult(t *testing.T, steps int) *swarm.Result {
	t.Helper()

	cfg := config.GetPreset("solo")
	if cfg == nil {
		t.Fatal("missing solo preset")
	}
	cfg.Sim.Steps = steps

	exp, err := experiment.Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestSaveAndLoad(t *testing.T) {
	res := soloResult(t, 10)

	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := store.Save("solo", "potential", 0.5, 42, res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(runID, "solo_") {
		t.Errorf("expected runID prefixed with scenario, got %q", runID)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Scenario != "solo" || meta.Controller != "potential" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Steps != 10 || meta.Agents != 1 || meta.Seed != 42 {
		t.Errorf("metadata counts wrong: %+v", meta)
	}
	if _, ok := meta.Metrics["goal_distance"]; !ok {
		t.Error("metrics not persisted")
	}
}

func TestSaveTrajectoryRoundTrip(t *testing.T) {
	res := soloResult(t, 10)

	store := New(t.TempDir())
	runID, err := store.Save("solo", "potential", 0.5, 0, res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rows, err := store.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory: %v", err)
	}

	// 11 snapshots (initial + 10 ticks), one agent.
	if len(rows) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rows))
	}

	last := rows[len(rows)-1]
	want := res.States[10][0]
	if last.Tick != 10 || last.Agent != 0 {
		t.Errorf("row indices wrong: %+v", last)
	}
	if math.Abs(last.X-want.Position.X) > 1e-5 || math.Abs(last.Y-want.Position.Y) > 1e-5 {
		t.Errorf("position mismatch: got (%v, %v), want %v", last.X, last.Y, want.Position)
	}
	if math.Abs(last.Steering-want.Steering) > 1e-5 {
		t.Errorf("steering mismatch: got %v, want %v", last.Steering, want.Steering)
	}
}

func TestList(t *testing.T) {
	res := soloResult(t, 5)

	store := New(t.TempDir())
	if _, err := store.Save("solo", "potential", 0.5, 0, res); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Scenario != "solo" {
		t.Errorf("expected scenario solo, got %q", runs[0].Scenario)
	}
}

func TestListMissingDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	res := soloResult(t, 5)

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "solo", "potential", 0.5, res); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Scenario != "solo" || out.Steps != 5 || out.Agents != 1 {
		t.Errorf("export header wrong: %+v", out)
	}
	if len(out.States) != 6 || len(out.Times) != 6 {
		t.Errorf("expected 6 snapshots, got %d states, %d times", len(out.States), len(out.Times))
	}
}
