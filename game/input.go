package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/stevu236/gofluid/fluid"
)

// dragForceScale converts mouse drag velocity to a queued fluid force.
const dragForceScale = 4.0

// dragState tracks a mouse drag used to push the fluid around.
type dragState struct {
	active bool
	last   fluid.Vec2
}

// handleInput processes keyboard and mouse input for the frame.
func (g *Game) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		g.paused = !g.paused
	case rl.IsKeyPressed(rl.KeyTab):
		g.panel.visible = !g.panel.visible
	case rl.IsKeyPressed(rl.KeyV):
		params := g.sim.Params()
		params.ViscosityEnabled = !params.ViscosityEnabled
		g.sim.SetParams(params)
	case rl.IsKeyPressed(rl.KeyP):
		params := g.sim.Params()
		params.PlasticityEnabled = !params.PlasticityEnabled
		g.sim.SetParams(params)
	case rl.IsKeyPressed(rl.KeyS):
		g.panel.showSprings = !g.panel.showSprings
	case rl.IsKeyPressed(rl.KeyR):
		g.cam.Reset()
	}

	g.handleCamera()
	g.handleDrag()

	// Right click spawns a small blob under the cursor.
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		at := g.screenToWorld(rl.GetMousePosition())
		for i := 0; i < 9; i++ {
			offset := fluid.Vec2{
				X: float64(i%3-1) * 0.3,
				Y: float64(i/3-1) * 0.3,
			}
			g.sim.AddParticle(at.Add(offset))
		}
	}
}

// handleCamera pans with the middle mouse button and zooms with the
// wheel, keeping the world point under the cursor fixed.
func (g *Game) handleCamera() {
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		delta := rl.GetMouseDelta()
		g.cam.Pan(-float64(delta.X), -float64(delta.Y))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		factor := 1.0 + 0.1*float64(wheel)
		g.cam.ZoomAt(factor, float64(mouse.X), float64(mouse.Y))
	}
}

// handleDrag queues a uniform force proportional to the mouse drag
// velocity while the left button is held.
func (g *Game) handleDrag() {
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		g.drag.active = false
		return
	}

	at := g.screenToWorld(rl.GetMousePosition())
	if g.drag.active {
		delta := at.Sub(g.drag.last)
		g.sim.ApplyForce(delta.Scale(dragForceScale / g.dt))
	}
	g.drag.active = true
	g.drag.last = at
}

// screenToWorld maps a screen position into simulation units.
func (g *Game) screenToWorld(p rl.Vector2) fluid.Vec2 {
	wx, wy := g.cam.ScreenToWorld(float64(p.X), float64(p.Y))
	return fluid.Vec2{X: wx, Y: wy}
}
