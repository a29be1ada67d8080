package fluid

import "math"

// pairKey is the canonical, order-independent identity of an unordered
// particle pair, keyed by their stable indices with A < B.
type pairKey struct {
	A, B int
}

func makePairKey(i, j int) pairKey {
	if i < j {
		return pairKey{i, j}
	}
	return pairKey{j, i}
}

// Spring joins two nearby particles with a rest length that drifts
// plastically under sustained deformation. Springs are created lazily by
// the simulation when plasticity is enabled, and removed the same step
// they go inactive. An inactive spring never reactivates; if the pair
// comes back into range a fresh spring is created.
type Spring struct {
	A, B       *Particle
	RestLength float64
	Active     bool
}

// update applies the spring's displacement for this step and re-evaluates
// its activity. The spring deactivates once its rest length has drifted
// past the influence radius, or when either endpoint goes inactive.
func (s *Spring) update(dt, stiffness, influenceRadius float64) {
	if !s.A.Active || !s.B.Active || s.RestLength > influenceRadius {
		s.Active = false
		return
	}

	d := s.B.Pos.Sub(s.A.Pos)
	distSq := d.LengthSq()
	if distSq < minSeparationSq {
		return
	}
	dist := math.Sqrt(distSq)

	// Hookean displacement toward the rest length, split evenly across
	// the pair so the spring cannot change the pair's net momentum.
	disp := dt * dt * stiffness * (1 - s.RestLength/influenceRadius) * (s.RestLength - dist)
	half := d.Scale(disp / dist * 0.5)
	s.A.Pos = s.A.Pos.Sub(half)
	s.B.Pos = s.B.Pos.Add(half)
}
