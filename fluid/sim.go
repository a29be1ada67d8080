package fluid

import (
	"math"
	"time"
)

// minSeparation guards normalization: pairs closer than this are treated
// as coincident and skipped, so no pass can divide by zero.
const minSeparation = 1e-6

const minSeparationSq = minSeparation * minSeparation

// StepTiming holds the wall-clock duration of each pass of the most
// recent Update call. Hosts feed it into their performance telemetry.
type StepTiming struct {
	Neighbors   time.Duration
	Forces      time.Duration
	Viscosity   time.Duration
	Integrate   time.Duration
	Relax       time.Duration
	Springs     time.Duration
	Reconstruct time.Duration
}

// Simulation drives the fluid. One Update call runs the full pipeline
// over the particle arena: neighbor refresh, force application,
// viscosity exchange, integration, double density relaxation, spring
// creation and maintenance, and velocity reconstruction.
//
// The simulation exclusively owns its particles and springs. Callers may
// read them between steps but must not mutate them concurrently with an
// in-flight Update. All scratch state (neighbor lists, query buffers,
// removal lists) is reset and reused each step, so a warm step performs
// no allocations.
type Simulation struct {
	params        Params
	radiusSq      float64
	stiffnessNear float64

	particles []*Particle
	grid      *spatialGrid

	// springs is keyed for O(1) pair-existence checks; springOrder keeps
	// creation order so spring updates stay deterministic across runs.
	springs     map[pairKey]*Spring
	springOrder []pairKey
	expired     []pairKey // scratch: springs to drop after iteration
	springList  []*Spring // scratch: reused by Springs()

	externalForce Vec2

	timing StepTiming
}

// NewSimulation creates an empty simulation with the given parameters,
// clamped into their valid ranges.
func NewSimulation(params Params) *Simulation {
	s := &Simulation{
		springs: make(map[pairKey]*Spring),
	}
	s.SetParams(params)
	s.grid = newSpatialGrid(s.params.InfluenceRadius)
	return s
}

// SetParams validates the parameters, clamping out-of-range values, and
// caches the derived squared influence radius and near stiffness. It
// never fails.
func (s *Simulation) SetParams(params Params) {
	s.params = params.clamped()
	s.radiusSq = s.params.InfluenceRadius * s.params.InfluenceRadius
	s.stiffnessNear = s.params.Stiffness * nearStiffnessScale
}

// Params returns the current, clamped parameters.
func (s *Simulation) Params() Params { return s.params }

// AddParticle appends an active particle at pos. Its stable index is its
// permanent slot in the arena.
func (s *Simulation) AddParticle(pos Vec2) *Particle {
	p := &Particle{
		Pos:     pos,
		prevPos: pos,
		Index:   len(s.particles),
		Active:  true,
	}
	s.particles = append(s.particles, p)
	return p
}

// ApplyForce queues a force that is applied uniformly to every active
// particle on the next step, then cleared.
func (s *Simulation) ApplyForce(f Vec2) {
	s.externalForce = s.externalForce.Add(f)
}

// Particles returns the particle arena for read-only access (rendering,
// collision, diagnostics).
func (s *Simulation) Particles() []*Particle { return s.particles }

// ActiveCount returns the number of active particles.
func (s *Simulation) ActiveCount() int {
	n := 0
	for _, p := range s.particles {
		if p.Active {
			n++
		}
	}
	return n
}

// SpringCount returns the number of registered springs.
func (s *Simulation) SpringCount() int { return len(s.springs) }

// Springs returns the live springs in creation order. The slice is
// reused across calls and only valid until the next call.
func (s *Simulation) Springs() []*Spring {
	s.springList = s.springList[:0]
	for _, key := range s.springOrder {
		s.springList = append(s.springList, s.springs[key])
	}
	return s.springList
}

// Timing returns the per-pass durations of the most recent Update.
func (s *Simulation) Timing() StepTiming { return s.timing }

// Update advances the fluid by one fixed step. The passes run strictly
// in order; no pass re-enters another. Inactive particles are fully
// frozen: every pass skips them.
func (s *Simulation) Update(dt float64) {
	if dt <= 0 {
		return
	}

	start := time.Now()
	s.refreshNeighbors()
	s.timing.Neighbors = time.Since(start)

	start = time.Now()
	s.applyForces()
	s.timing.Forces = time.Since(start)

	start = time.Now()
	if s.params.ViscosityEnabled {
		s.applyViscosity(dt)
	}
	s.timing.Viscosity = time.Since(start)

	start = time.Now()
	for _, p := range s.particles {
		if p.Active {
			p.integrate(dt)
		}
	}
	s.timing.Integrate = time.Since(start)

	start = time.Now()
	for _, p := range s.particles {
		if p.Active {
			s.relaxParticle(p, dt)
		}
	}
	s.timing.Relax = time.Since(start)

	start = time.Now()
	if s.params.PlasticityEnabled {
		s.createSprings()
	}
	s.updateSprings(dt)
	s.timing.Springs = time.Since(start)

	start = time.Now()
	for _, p := range s.particles {
		if p.Active {
			p.reconstructVelocity(dt)
		}
	}
	s.timing.Reconstruct = time.Since(start)
}

// refreshNeighbors rebuilds the spatial index at the current influence
// radius and refills every active particle's neighbor list. Candidates
// are not filtered to exact distance here; the later passes re-check the
// squared distance before use.
func (s *Simulation) refreshNeighbors() {
	h := s.params.InfluenceRadius
	s.grid.Clear()
	s.grid.SetCellSize(h)

	for _, p := range s.particles {
		if p.Active {
			s.grid.Insert(p)
		}
	}
	for _, p := range s.particles {
		p.neighbors = p.neighbors[:0]
		if !p.Active {
			continue
		}
		p.neighbors = s.grid.QueryInto(p.neighbors, p.Pos, h, p)
	}
}

// applyForces applies gravity plus the queued external force to every
// active particle, then zeroes the queue.
func (s *Simulation) applyForces() {
	f := s.params.Gravity.Add(s.externalForce)
	for _, p := range s.particles {
		if p.Active {
			p.ApplyForce(f)
		}
	}
	s.externalForce = Vec2{}
}

// applyViscosity exchanges impulses between approaching pairs. Each pair
// is processed once, from the lower-indexed side, and receives an exact
// equal-and-opposite impulse, so total momentum is unchanged.
func (s *Simulation) applyViscosity(dt float64) {
	h := s.params.InfluenceRadius
	sigma := s.params.ViscositySigma
	beta := s.params.ViscosityBeta

	for _, p := range s.particles {
		if !p.Active {
			continue
		}
		for _, n := range p.neighbors {
			if n.Index <= p.Index {
				continue
			}
			d := n.Pos.Sub(p.Pos)
			distSq := d.LengthSq()
			if distSq > s.radiusSq || distSq < minSeparationSq {
				continue
			}
			dist := math.Sqrt(distSq)
			dir := d.Scale(1 / dist)

			// Inward radial velocity: positive when the pair is closing.
			u := p.Vel.Sub(n.Vel).Dot(dir)
			if u <= 0 {
				continue
			}

			imp := dir.Scale(0.5 * dt * (1 - dist/h) * (u * (sigma + beta*u)))
			p.ApplyImpulse(imp.Scale(-1))
			n.ApplyImpulse(imp)
		}
	}
}

// relaxParticle runs both density-relaxation passes for one particle:
// pass A estimates density and near-density from the closeness kernel,
// pass B displaces each in-range neighbor along the separation axis and
// applies the accumulated opposite displacement to the particle itself
// once the loop completes. Computing the self-displacement as the exact
// negative of the neighbor displacements keeps every pairwise correction
// momentum-conserving.
func (s *Simulation) relaxParticle(p *Particle, dt float64) {
	h := s.params.InfluenceRadius

	density := 0.0
	densityNear := 0.0
	inRange := 0
	for _, n := range p.neighbors {
		distSq := n.Pos.Sub(p.Pos).LengthSq()
		if distSq > s.radiusSq {
			continue
		}
		q := 1 - math.Sqrt(distSq)/h
		density += q * q
		densityNear += q * q * q
		inRange++
	}

	// Without kernel support there is no density estimate and nothing to
	// correct; the diagnostics read zero.
	if inRange == 0 {
		p.Density = 0
		p.Pressure = 0
		return
	}

	pressure := s.params.Stiffness * (density - s.params.RestDensity)
	pressureNear := s.stiffnessNear * densityNear

	// Diagnostics for external consumers; the correction below does not
	// read them back.
	p.Density = density + densityNear
	p.Pressure = pressure + pressureNear

	var selfDelta Vec2
	for _, n := range p.neighbors {
		d := n.Pos.Sub(p.Pos)
		distSq := d.LengthSq()
		if distSq > s.radiusSq || distSq < minSeparationSq {
			continue
		}
		dist := math.Sqrt(distSq)
		q := 1 - dist/h

		factor := 0.5 * dt * dt * q * (pressure + pressureNear*q)
		disp := d.Scale(factor / dist)
		n.Pos = n.Pos.Add(disp)
		selfDelta = selfDelta.Sub(disp)
	}
	p.Pos = p.Pos.Add(selfDelta)
}

// createSprings adds a spring for every in-range active pair that does
// not already have one, with the rest length set to the current
// distance. Pairs are deduplicated by processing from the lower-indexed
// side and by the canonical registry key.
func (s *Simulation) createSprings() {
	for _, p := range s.particles {
		if !p.Active {
			continue
		}
		for _, n := range p.neighbors {
			if n.Index <= p.Index {
				continue
			}
			distSq := n.Pos.Sub(p.Pos).LengthSq()
			if distSq > s.radiusSq {
				continue
			}
			key := makePairKey(p.Index, n.Index)
			if _, exists := s.springs[key]; exists {
				continue
			}
			s.springs[key] = &Spring{
				A:          p,
				B:          n,
				RestLength: math.Sqrt(distSq),
				Active:     true,
			}
			s.springOrder = append(s.springOrder, key)
		}
	}
}

// updateSprings runs every spring's own update rule, applies plastic
// rest-length drift to the survivors, and removes the springs that went
// inactive in a single batch after iteration.
func (s *Simulation) updateSprings(dt float64) {
	plasticity := s.params.Plasticity

	s.expired = s.expired[:0]
	for _, key := range s.springOrder {
		sp := s.springs[key]
		sp.update(dt, s.params.SpringStiffness, s.params.InfluenceRadius)
		if !sp.Active {
			s.expired = append(s.expired, key)
			continue
		}

		// Plastic yield: the rest length drifts toward the current
		// distance once deformation exceeds the yield ratio.
		d := sp.B.Pos.Sub(sp.A.Pos).Length()
		stretched := sp.RestLength * (1 + s.params.YieldStretch)
		compressed := sp.RestLength * (1 - s.params.YieldCompress)
		switch {
		case d > stretched:
			sp.RestLength += dt * plasticity * (d - stretched)
		case d < compressed:
			sp.RestLength -= dt * plasticity * (compressed - d)
		}
	}

	if len(s.expired) == 0 {
		return
	}
	for _, key := range s.expired {
		delete(s.springs, key)
	}
	alive := s.springOrder[:0]
	for _, key := range s.springOrder {
		if _, ok := s.springs[key]; ok {
			alive = append(alive, key)
		}
	}
	s.springOrder = alive
}
