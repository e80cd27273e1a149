package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bikeswarm/internal/config"
	"github.com/san-kum/bikeswarm/internal/control"
	"github.com/san-kum/bikeswarm/internal/experiment"
	"github.com/san-kum/bikeswarm/internal/geom"
	"github.com/san-kum/bikeswarm/internal/swarm"
)

const (
	canvasWidth  = 80
	canvasHeight = 24
	trailLength  = 200
)

type TickMsg time.Time

// Model drives a live terminal view of a running swarm. Each frame
// advances the simulator one tick and redraws every vehicle as a
// chassis segment with a front-wheel direction tick.
type Model struct {
	cfg       *config.Config
	sim       *swarm.Simulator
	canvas    *Canvas
	trails    [][]geom.Vec
	tick      int
	t         float64
	running   bool
	paramKeys []string
	selected  int
	err       error
}

func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:     cfg,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) rebuild() error {
	exp, err := experiment.Build(m.cfg)
	if err != nil {
		return err
	}
	m.sim = exp.Simulator()
	m.tick = 0
	m.t = 0
	m.trails = make([][]geom.Vec, len(m.sim.Agents()))

	m.paramKeys = nil
	if tun, ok := m.sim.Agents()[0].Controller.(control.Tunable); ok {
		for k := range tun.GetParams() {
			m.paramKeys = append(m.paramKeys, k)
		}
		sort.Strings(m.paramKeys)
	}
	if m.selected >= len(m.paramKeys) {
		m.selected = 0
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.rebuild()
		case "t":
			// Send everyone back toward their starting side.
			for i, a := range m.sim.Agents() {
				m.sim.Retarget(i, a.State.Target.Scale(-1))
			}
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}

	case TickMsg:
		if m.running && m.tick < m.cfg.Sim.Steps {
			m.sim.Tick(m.cfg.Sim.Dt)
			m.tick++
			m.t += m.cfg.Sim.Dt
			m.pushTrails()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}

	return m, nil
}

// adjustParam scales the selected controller parameter on every agent
// so the swarm stays homogeneous while tuning.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	for _, a := range m.sim.Agents() {
		if tun, ok := a.Controller.(control.Tunable); ok {
			tun.SetParam(key, tun.GetParams()[key]*factor)
		}
	}
}

func (m *Model) pushTrails() {
	for i, a := range m.sim.Agents() {
		m.trails[i] = append(m.trails[i], a.State.Position)
		if len(m.trails[i]) > trailLength {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	m.canvas.Clear()
	vp := m.viewport()

	for i, a := range m.sim.Agents() {
		for _, p := range m.trails[i] {
			vp.DrawPoint(p)
		}
		vp.DrawSegment(a.Geometry.BackWheel, a.Geometry.FrontWheel)
		vp.DrawSegment(a.Geometry.FrontWheelTail, a.Geometry.FrontWheelTip)
		vp.DrawCross(a.State.Target)
	}

	left := canvasStyle.Render(m.canvas.String())
	right := statsStyle.Render(m.statsPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := helpStyle.Render("space pause · r reset · t flip targets · tab param · ↑/↓ adjust · q quit")
	return body + "\n" + help + "\n"
}

// viewport fits every vehicle, target and trail point on screen.
func (m Model) viewport() *Viewport {
	min := geom.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max := geom.Vec{X: math.Inf(-1), Y: math.Inf(-1)}

	include := func(p geom.Vec) {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}

	for i, a := range m.sim.Agents() {
		include(a.Geometry.FrontWheel)
		include(a.Geometry.BackWheel)
		include(a.State.Target)
		for _, p := range m.trails[i] {
			include(p)
		}
	}

	return NewViewport(m.canvas, min, max, 0.1)
}

func (m Model) statsPanel() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.cfg.Scenario))
	b.WriteString("\n")

	status := "running"
	if !m.running {
		status = pausedStyle.Render("paused")
	}
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("status"), status)
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("tick"),
		valueStyle.Render(fmt.Sprintf("%d / %d", m.tick, m.cfg.Sim.Steps)))
	fmt.Fprintf(&b, "%s%s\n", labelStyle.Render("time"),
		valueStyle.Render(fmt.Sprintf("%.2f s", m.t)))
	b.WriteString(ProgressBar(float64(m.tick)/float64(m.cfg.Sim.Steps), 24))
	b.WriteString("\n\n")

	for i, a := range m.sim.Agents() {
		dist := a.State.Position.Dist(a.State.Target)
		fmt.Fprintf(&b, "%s%s\n",
			labelStyle.Render(fmt.Sprintf("agent %d", i)),
			valueStyle.Render(fmt.Sprintf("goal %.1f  δ %+.3f", dist, a.State.Steering)))
	}

	if len(m.paramKeys) > 0 {
		b.WriteString("\n")
		if tun, ok := m.sim.Agents()[0].Controller.(control.Tunable); ok {
			params := tun.GetParams()
			for i, k := range m.paramKeys {
				line := fmt.Sprintf("%-10s %.3f", k, params[k])
				if i == m.selected {
					line = activeParamStyle.Render("▸ " + line)
				} else {
					line = valueStyle.Render("  " + line)
				}
				b.WriteString(line + "\n")
			}
		}
	}

	return b.String()
}
