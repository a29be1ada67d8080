package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Draw renders the current frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(12, 16, 24, 255))

	g.drawWorldBounds()
	if g.panel.showSprings {
		g.drawSprings()
	}
	g.drawParticles()
	g.drawHUD()
	g.panel.draw(g)

	rl.EndDrawing()
}

// drawWorldBounds outlines the world box.
func (g *Game) drawWorldBounds() {
	x0, y0 := g.cam.WorldToScreen(0, 0)
	x1, y1 := g.cam.WorldToScreen(g.worldWidth, g.worldHeight)
	rl.DrawRectangleLines(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), rl.NewColor(60, 70, 90, 255))
}

// drawParticles renders every active particle, colored by its density
// diagnostic so compressed regions read brighter.
func (g *Game) drawParticles() {
	params := g.sim.Params()
	worldRadius := params.InfluenceRadius * 0.25
	radius := float32(worldRadius * g.cam.Zoom)
	if radius < 1.5 {
		radius = 1.5
	}
	restDensity := params.RestDensity

	for _, p := range g.sim.Particles() {
		if !p.Active {
			continue
		}
		if !g.cam.IsVisible(p.Pos.X, p.Pos.Y, worldRadius) {
			continue
		}
		// 0 at vacuum, 1 around rest density, saturating above.
		c := p.Density / (restDensity * 1.5)
		if c > 1 {
			c = 1
		}
		color := rl.NewColor(
			uint8(40+160*c),
			uint8(110+120*c),
			255,
			255,
		)
		sx, sy := g.cam.WorldToScreen(p.Pos.X, p.Pos.Y)
		rl.DrawCircleV(rl.Vector2{X: float32(sx), Y: float32(sy)}, radius, color)
	}
}

// drawSprings renders the spring network as faint lines.
func (g *Game) drawSprings() {
	color := rl.NewColor(255, 255, 255, 40)
	reach := g.sim.Params().InfluenceRadius

	for _, sp := range g.sim.Springs() {
		if !g.cam.IsVisible(sp.A.Pos.X, sp.A.Pos.Y, reach) {
			continue
		}
		ax, ay := g.cam.WorldToScreen(sp.A.Pos.X, sp.A.Pos.Y)
		bx, by := g.cam.WorldToScreen(sp.B.Pos.X, sp.B.Pos.Y)
		rl.DrawLineV(
			rl.Vector2{X: float32(ax), Y: float32(ay)},
			rl.Vector2{X: float32(bx), Y: float32(by)},
			color,
		)
	}
}

// drawHUD renders the status line.
func (g *Game) drawHUD() {
	status := fmt.Sprintf("tick %d | particles %d | springs %d | fps %d",
		g.tick, len(g.sim.Particles()), g.sim.SpringCount(), rl.GetFPS())
	if g.paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, 10, 18, rl.RayWhite)
	rl.DrawText("space pause | tab panel | v viscosity | p plasticity | s springs | r reset view | wheel zoom | drag to push | right-click to spawn",
		10, int32(g.cfg.Screen.Height)-26, 16, rl.Gray)
}
