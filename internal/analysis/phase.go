package analysis

import (
	"strings"

	"github.com/san-kum/bikeswarm/internal/swarm"
	"github.com/san-kum/bikeswarm/internal/vehicle"
)

// PhasePortrait holds a 2D projection of one agent's trajectory through
// its state space, for terminal plotting.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []struct{ X, Y float64 }
}

// PhaseChannels maps plottable channel names to state selectors.
var PhaseChannels = map[string]func(vehicle.State) float64{
	"x":        func(s vehicle.State) float64 { return s.Position.X },
	"y":        func(s vehicle.State) float64 { return s.Position.Y },
	"vy":       func(s vehicle.State) float64 { return s.Vy },
	"yaw":      func(s vehicle.State) float64 { return s.Yaw },
	"yaw_rate": func(s vehicle.State) float64 { return s.YawRate },
	"steering": func(s vehicle.State) float64 { return s.Steering },
}

// NewPhasePortrait projects one agent's run onto the two named
// channels. Unknown channel names return nil.
func NewPhasePortrait(result *swarm.Result, agent int, xChan, yChan string) *PhasePortrait {
	pickX, okX := PhaseChannels[xChan]
	pickY, okY := PhaseChannels[yChan]
	if !okX || !okY {
		return nil
	}
	if len(result.States) == 0 || agent >= len(result.States[0]) {
		return nil
	}

	portrait := &PhasePortrait{
		XLabel: xChan,
		YLabel: yChan,
		Points: make([]struct{ X, Y float64 }, 0, len(result.States)),
	}
	for _, snap := range result.States {
		s := snap[agent]
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: pickX(s),
			Y: pickY(s),
		})
	}
	return portrait
}

// ToASCII renders the portrait onto a character grid with axes drawn
// where they cross the visible range.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
