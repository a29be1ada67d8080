package fluid

// Particle is a single fluid particle. Particles are created through
// Simulation.AddParticle and owned by that simulation for its whole
// lifetime; there is no removal, deactivation is logical only.
type Particle struct {
	Pos Vec2
	Vel Vec2

	// Index is the particle's permanent slot in the owning simulation.
	// It is never reassigned and is used to break ties when processing
	// symmetric pairs exactly once.
	Index int

	// Active marks the particle as participating in the simulation.
	// Inactive particles are fully frozen: no pass touches them.
	Active bool

	// Density and Pressure are diagnostics written during the relaxation
	// pass. The solver never reads them back; hosts use them for
	// rendering and analysis.
	Density  float64
	Pressure float64

	prevPos   Vec2
	force     Vec2
	neighbors []*Particle
}

// ApplyForce accumulates f into the particle's pending force. The force
// is folded into the velocity on the next integration step.
func (p *Particle) ApplyForce(f Vec2) {
	p.force = p.force.Add(f)
}

// ApplyImpulse adjusts the velocity directly.
func (p *Particle) ApplyImpulse(imp Vec2) {
	p.Vel = p.Vel.Add(imp)
}

// integrate folds the pending force into the velocity and advances the
// position, recording the pre-step position so reconstructVelocity can
// later recover the velocity purely from the position delta.
func (p *Particle) integrate(dt float64) {
	p.Vel = p.Vel.Add(p.force.Scale(dt))
	p.force = Vec2{}
	p.prevPos = p.Pos
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
}

// reconstructVelocity derives the velocity from the net position change
// over the step, position-based-dynamics style.
func (p *Particle) reconstructVelocity(dt float64) {
	p.Vel = p.Pos.Sub(p.prevPos).Scale(1 / dt)
}
