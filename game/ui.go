package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/stevu236/gofluid/config"
	"github.com/stevu236/gofluid/fluid"
)

const (
	panelWidth   = 300
	panelPadding = 10
	sliderHeight = 20
)

// panelState holds the tuning panel: a column of sliders bound to the
// live solver parameters, plus render toggles.
type panelState struct {
	visible     bool
	showSprings bool
	defaults    fluid.Params
}

func (p *panelState) init(cfg *config.Config) {
	p.defaults = cfg.ToParams()
	p.showSprings = cfg.Fluid.PlasticityEnabled
}

// draw renders the panel and pushes any slider change straight into
// the simulation. Layout follows the same walking-Y pattern as the
// rest of the HUD.
func (p *panelState) draw(g *Game) {
	if !p.visible {
		return
	}

	params := g.sim.Params()
	changed := false

	panelX := float32(g.cfg.Screen.Width - panelWidth - panelPadding)
	panelY := float32(panelPadding)

	rl.DrawRectangle(int32(panelX)-panelPadding, 0, panelWidth+2*panelPadding, int32(g.cfg.Screen.Height), rl.Color{R: 20, G: 24, B: 30, A: 220})
	rl.DrawText("Fluid Parameters", int32(panelX), int32(panelY), 20, rl.RayWhite)
	panelY += 35

	slider := func(label, format string, value *float64, min, max float64) {
		rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		next := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 80, Height: sliderHeight},
			"", "",
			float32(*value), float32(min), float32(max),
		)
		rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+panelWidth-70), int32(panelY+2), 16, rl.RayWhite)
		if float64(next) != *value {
			*value = float64(next)
			changed = true
		}
		panelY += 32
	}

	slider("Gravity Y", "%.1f", &params.Gravity.Y, -20, 20)
	slider("Influence radius", "%.2f", &params.InfluenceRadius, fluid.MinInfluenceRadius, fluid.MaxInfluenceRadius)
	slider("Rest density", "%.1f", &params.RestDensity, fluid.MinRestDensity, fluid.MaxRestDensity)
	slider("Stiffness", "%.2f", &params.Stiffness, fluid.MinStiffness, fluid.MaxStiffness)

	if params.ViscosityEnabled {
		slider("Viscosity sigma", "%.2f", &params.ViscositySigma, 0, 5)
		slider("Viscosity beta", "%.2f", &params.ViscosityBeta, 0, 5)
	}
	if params.PlasticityEnabled {
		slider("Plasticity", "%.2f", &params.Plasticity, 0, 2)
		slider("Spring stiffness", "%.2f", &params.SpringStiffness, 0, 1)
		slider("Yield stretch", "%.2f", &params.YieldStretch, 0, 0.5)
		slider("Yield compress", "%.2f", &params.YieldCompress, 0, 0.5)
	}

	panelY += 10
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
		params = p.defaults
		changed = true
	}
	if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Respawn") {
		g.spawnBlock()
	}

	if changed {
		g.sim.SetParams(params)
	}
}
