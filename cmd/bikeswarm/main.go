package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/bikeswarm/internal/analysis"
	"github.com/san-kum/bikeswarm/internal/config"
	"github.com/san-kum/bikeswarm/internal/experiment"
	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/storage"
	"github.com/san-kum/bikeswarm/internal/swarm"
	"github.com/san-kum/bikeswarm/internal/vehicle"
	"github.com/san-kum/bikeswarm/internal/viz"
)

var (
	dataDir    string
	configFile string
	dt         float64
	steps      int
	seed       int64
	controller string
	gain       float64
	falloff    float64
	damping    float64
	angle      float64
	ringSize   int
	ringRadius float64
	outFile    string
	agentIdx   int
	xChannel   string
	yChannel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bikeswarm",
		Short: "multi-agent bicycle-model swarm simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bikeswarm", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&outFile, "out", "", "also export the run to this JSON file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&agentIdx, "agent", 0, "agent index")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&agentIdx, "agent", 0, "agent index")
	phaseCmd.Flags().StringVar(&xChannel, "x-axis", "x", "state channel for x-axis")
	phaseCmd.Flags().StringVar(&yChannel, "y-axis", "y", "state channel for y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "steering statistics and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&agentIdx, "agent", 0, "agent index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print the full trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the raw trajectory CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			fmt.Println("ring (use --agents and --radius)")
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark a scenario across timesteps and sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd,
		exportCmd, exportJSONCmd, exportCSVCmd, presetsCmd, benchCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&controller, "controller", "", "controller name")
	cmd.Flags().Float64Var(&gain, "gain", config.DefaultGain, "repulsion gain")
	cmd.Flags().Float64Var(&falloff, "falloff", config.DefaultFalloff, "repulsion falloff distance")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "steering damping divisor")
	cmd.Flags().Float64Var(&angle, "angle", 0, "fixed controller angle")
	cmd.Flags().IntVar(&ringSize, "agents", 6, "number of agents (ring scenario)")
	cmd.Flags().Float64Var(&ringRadius, "radius", 15, "circle radius (ring scenario)")
}

// resolveConfig builds the effective scenario config: preset or config
// file first, then explicit CLI flags on top.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	scenario := "solo"
	if len(args) > 0 {
		scenario = args[0]
	}

	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case scenario == "ring":
		cfg = config.Ring(ringSize, ringRadius)
	default:
		cfg = config.GetPreset(scenario)
		if cfg == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %v)", scenario, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Sim.Steps = steps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller.Name = controller
	}
	if cmd.Flags().Changed("gain") {
		cfg.Controller.Gain = gain
	}
	if cmd.Flags().Changed("falloff") {
		cfg.Controller.Falloff = falloff
	}
	if cmd.Flags().Changed("damping") {
		cfg.Controller.Damping = damping
	}
	if cmd.Flags().Changed("angle") {
		cfg.Controller.Angle = angle
	}

	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s: %d agents, %d ticks at dt=%.3f\n",
		cfg.Scenario, len(cfg.Vehicles), cfg.Sim.Steps, cfg.Sim.Dt)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, cfg.Controller.Name, cfg.Sim.Dt, cfg.Sim.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if outFile != "" {
		if err := storage.ExportJSON(outFile, cfg.Scenario, cfg.Controller.Name, cfg.Sim.Dt, result); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tAGENTS\tTICKS\tDT\tCTRL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3fs\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Agents,
			run.Steps,
			run.Dt,
			run.Controller,
		)
	}
	return w.Flush()
}

func geomVec(x, y float64) geom.Vec {
	return geom.Vec{X: x, Y: y}
}

// loadResult reconstructs enough of a run from trajectory.csv for the
// plotting and analysis commands. Channels not stored in the CSV stay
// zero.
func loadResult(st *storage.Store, runID string) (*swarm.Result, *storage.RunMetadata, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("run %s has no trajectory data", runID)
	}

	result := &swarm.Result{StepsTaken: meta.Steps}
	ticks := meta.Steps + 1
	result.States = make([][]vehicle.State, ticks)
	result.Times = make([]float64, ticks)
	for i := range result.States {
		result.States[i] = make([]vehicle.State, meta.Agents)
	}
	for _, r := range rows {
		if r.Tick >= ticks || r.Agent >= meta.Agents {
			continue
		}
		result.Times[r.Tick] = r.Time
		result.States[r.Tick][r.Agent] = vehicle.State{
			Position: geomVec(r.X, r.Y),
			Vy:       r.Vy,
			Yaw:      r.Yaw,
			Steering: r.Steering,
			Target:   geomVec(r.TargetX, r.TargetY),
		}
	}
	return result, meta, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	if agentIdx >= meta.Agents {
		return fmt.Errorf("agent %d out of range (%d agents)", agentIdx, meta.Agents)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(result.States))

	goal := analysis.GoalDistanceSeries(result)
	fmt.Println(asciigraph.Plot(goal,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean goal distance"),
	))
	fmt.Println()

	steering := analysis.SeriesOf(result, agentIdx,
		func(s vehicle.State) float64 { return s.Steering })
	fmt.Println(asciigraph.Plot(steering,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("steering angle, agent %d", agentIdx)),
	))

	if meta.Agents > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(analysis.SeparationSeries(result),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("minimum pairwise distance"),
		))
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	if agentIdx >= meta.Agents {
		return fmt.Errorf("agent %d out of range (%d agents)", agentIdx, meta.Agents)
	}

	portrait := analysis.NewPhasePortrait(result, agentIdx, xChannel, yChannel)
	if portrait == nil {
		return fmt.Errorf("unknown channel pair %s/%s", xChannel, yChannel)
	}

	fmt.Printf("phase portrait: %s vs %s, agent %d\n\n", yChannel, xChannel, agentIdx)
	fmt.Print(portrait.ToASCII(80, 24))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	if agentIdx >= meta.Agents {
		return fmt.Errorf("agent %d out of range (%d agents)", agentIdx, meta.Agents)
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\t|δ| MEAN\tδ STDDEV\tVY STDDEV\tPATH\tGOAL DIST")
	for _, s := range analysis.Summarize(result) {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.2f\t%.2f\n",
			s.Agent, s.SteeringMean, s.SteeringStdDev, s.VyStdDev, s.PathLength, s.FinalGoalDist)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	steering := analysis.SeriesOf(result, agentIdx,
		func(s vehicle.State) float64 { return s.Steering })
	ps := analysis.PowerSpectrum(steering)
	if len(ps) < 4 {
		return nil
	}

	plotData := ps[:len(ps)/2]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("steering power spectrum, agent %d", agentIdx)),
	))

	maxIdx := 0
	for i := 1; i < len(plotData); i++ {
		if plotData[i] > plotData[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx > 0 && meta.Dt > 0 {
		window := float64(2*len(ps)) * meta.Dt
		freq := float64(maxIdx) / window
		fmt.Printf("\ndominant steering frequency: %.3f hz (period %.2f s)\n", freq, 1/freq)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, meta, err := loadResult(st, args[0])
	if err != nil {
		return err
	}
	result.Metrics = meta.Metrics
	return storage.ExportJSONStdout(meta.Scenario, meta.Controller, meta.Dt, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(
		fmt.Sprintf("%s/%s/trajectory.csv", dataDir, args[0]))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func benchScenario(cmd *cobra.Command, args []string) error {
	scenario := "ring"
	if len(args) > 0 {
		scenario = args[0]
	}

	sizes := []int{2, 6, 12, 24}
	if scenario != "ring" {
		// Preset scenarios have a fixed roster; only sweep the timestep.
		sizes = sizes[:1]
	}
	dts := []float64{0.05, 0.1, 0.5}

	fmt.Printf("benchmarking %s\n\n", scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENTS\tDT\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range sizes {
		for _, benchDt := range dts {
			var cfg *config.Config
			if scenario == "ring" {
				cfg = config.Ring(n, 15)
			} else {
				cfg = config.GetPreset(scenario)
				if cfg == nil {
					return fmt.Errorf("unknown scenario: %s", scenario)
				}
			}
			cfg.Sim.Dt = benchDt
			cfg.Sim.Steps = 500
			cfg.Sim.Validate = false

			exp, err := experiment.Build(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%.3fs\t%d\t%v\t%.0f\n",
				len(cfg.Vehicles), benchDt, result.StepsTaken, elapsed,
				float64(result.StepsTaken)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	model, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
