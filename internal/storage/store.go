package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/bikeswarm/internal/swarm"
)

// Store writes each finished run into its own directory under baseDir:
// metadata.json with the run summary and trajectory.csv with one row
// per agent per tick.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Agents     int                `json:"agents"`
	Controller string             `json:"controller"`
	Metrics    map[string]float64 `json:"metrics"`
}

var trajectoryHeader = []string{
	"tick", "time", "agent",
	"x", "y", "vy", "yaw", "steering",
	"target_x", "target_y",
	"front_x", "front_y", "back_x", "back_y",
}

func (s *Store) Save(scenario, controller string, dt float64, seed int64, result *swarm.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	agents := 0
	if len(result.States) > 0 {
		agents = len(result.States[0])
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		Timestamp:  time.Now(),
		Seed:       seed,
		Dt:         dt,
		Steps:      result.StepsTaken,
		Agents:     agents,
		Controller: controller,
		Metrics:    finiteMetrics(result.Metrics),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(trajectoryHeader); err != nil {
		return "", err
	}

	for tick := range result.States {
		for i, st := range result.States[tick] {
			g := result.Geometries[tick][i]
			row := []string{
				strconv.Itoa(tick),
				formatFloat(result.Times[tick]),
				strconv.Itoa(i),
				formatFloat(st.Position.X),
				formatFloat(st.Position.Y),
				formatFloat(st.Vy),
				formatFloat(st.Yaw),
				formatFloat(st.Steering),
				formatFloat(st.Target.X),
				formatFloat(st.Target.Y),
				formatFloat(g.FrontWheel.X),
				formatFloat(g.FrontWheel.Y),
				formatFloat(g.BackWheel.X),
				formatFloat(g.BackWheel.Y),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// finiteMetrics drops NaN/Inf values, which JSON cannot carry. A
// single-agent run legitimately reports closest_approach = +Inf.
func finiteMetrics(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// TrajectoryRow is one agent at one tick, as read back from
// trajectory.csv.
type TrajectoryRow struct {
	Tick     int
	Time     float64
	Agent    int
	X, Y     float64
	Vy       float64
	Yaw      float64
	Steering float64
	TargetX  float64
	TargetY  float64
}

func (s *Store) LoadTrajectory(runID string) ([]TrajectoryRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]TrajectoryRow, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 10 {
			continue
		}

		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		agent, err := strconv.Atoi(rec[2])
		if err != nil {
			continue
		}

		vals := make([]float64, 0, 8)
		ok := true
		for _, idx := range []int{1, 3, 4, 5, 6, 7, 8, 9} {
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok {
			continue
		}

		rows = append(rows, TrajectoryRow{
			Tick:     tick,
			Time:     vals[0],
			Agent:    agent,
			X:        vals[1],
			Y:        vals[2],
			Vy:       vals[3],
			Yaw:      vals[4],
			Steering: vals[5],
			TargetX:  vals[6],
			TargetY:  vals[7],
		})
	}

	return rows, nil
}
