package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/bikeswarm/internal/swarm"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Agents     int                `json:"agents"`
	Times      []float64          `json:"times"`
	States     [][]vehicle.State  `json:"states"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportData(scenario, controller string, dt float64, result *swarm.Result) ExportData {
	agents := 0
	if len(result.States) > 0 {
		agents = len(result.States[0])
	}
	return ExportData{
		Scenario:   scenario,
		Controller: controller,
		Dt:         dt,
		Steps:      result.StepsTaken,
		Agents:     agents,
		Times:      result.Times,
		States:     result.States,
		Metrics:    finiteMetrics(result.Metrics),
	}
}

func ExportJSON(path, scenario, controller string, dt float64, result *swarm.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, scenario, controller, dt, result)
}

func ExportJSONStdout(scenario, controller string, dt float64, result *swarm.Result) error {
	return writeJSON(os.Stdout, scenario, controller, dt, result)
}

func writeJSON(w io.Writer, scenario, controller string, dt float64, result *swarm.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(scenario, controller, dt, result))
}
