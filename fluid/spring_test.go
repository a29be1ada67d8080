package fluid

import (
	"math"
	"testing"
)

func TestPairKeyCanonical(t *testing.T) {
	if makePairKey(3, 7) != makePairKey(7, 3) {
		t.Error("pair key depends on discovery order")
	}
	if k := makePairKey(7, 3); k.A != 3 || k.B != 7 {
		t.Errorf("pair key = %+v, want {3 7}", k)
	}
}

func TestSpringUniqueness(t *testing.T) {
	params := quietParams()
	params.PlasticityEnabled = true
	s := NewSimulation(params)

	a := s.AddParticle(Vec2{0, 0})
	b := s.AddParticle(Vec2{0.5, 0})
	a.neighbors = append(a.neighbors, b)
	b.neighbors = append(b.neighbors, a)

	s.createSprings()
	s.createSprings()

	if len(s.springs) != 1 {
		t.Fatalf("registry holds %d springs for one pair, want 1", len(s.springs))
	}
	sp := s.springs[makePairKey(0, 1)]
	if sp == nil {
		t.Fatal("spring not registered under the canonical key")
	}
	if sp.RestLength != 0.5 {
		t.Errorf("rest length = %v, want the creation distance 0.5", sp.RestLength)
	}
}

func TestSpringCreatedByPipeline(t *testing.T) {
	params := quietParams()
	params.PlasticityEnabled = true
	s := NewSimulation(params)

	s.AddParticle(Vec2{0, 0})
	s.AddParticle(Vec2{0.5, 0})
	s.Update(0.001)

	if s.SpringCount() != 1 {
		t.Fatalf("spring count = %d after step, want 1", s.SpringCount())
	}
}

func TestSpringNotCreatedWhenPlasticityDisabled(t *testing.T) {
	s := NewSimulation(quietParams())
	s.AddParticle(Vec2{0, 0})
	s.AddParticle(Vec2{0.5, 0})
	s.Update(0.001)

	if s.SpringCount() != 0 {
		t.Errorf("spring count = %d with plasticity disabled, want 0", s.SpringCount())
	}
}

func TestPlasticStretchDrift(t *testing.T) {
	// Rest length 1, yield stretch 0.1, plasticity 1, dt 0.1 and current
	// distance 1.3: the rest length grows by 0.1*1*(1.3-1.1) to 1.02.
	params := quietParams()
	params.PlasticityEnabled = true
	params.Plasticity = 1
	params.YieldStretch = 0.1
	params.SpringStiffness = 0 // isolate the plastic drift
	params.InfluenceRadius = 10
	s := NewSimulation(params)

	a := s.AddParticle(Vec2{0, 0})
	b := s.AddParticle(Vec2{1.3, 0})
	key := makePairKey(a.Index, b.Index)
	s.springs[key] = &Spring{A: a, B: b, RestLength: 1, Active: true}
	s.springOrder = append(s.springOrder, key)

	s.updateSprings(0.1)

	sp := s.springs[key]
	if sp == nil || !sp.Active {
		t.Fatal("spring went inactive during plastic adjustment")
	}
	if math.Abs(sp.RestLength-1.02) > 1e-9 {
		t.Errorf("rest length = %v, want 1.02", sp.RestLength)
	}
}

func TestPlasticCompressDrift(t *testing.T) {
	params := quietParams()
	params.PlasticityEnabled = true
	params.Plasticity = 1
	params.YieldCompress = 0.1
	params.SpringStiffness = 0
	params.InfluenceRadius = 10
	s := NewSimulation(params)

	a := s.AddParticle(Vec2{0, 0})
	b := s.AddParticle(Vec2{0.7, 0})
	key := makePairKey(a.Index, b.Index)
	s.springs[key] = &Spring{A: a, B: b, RestLength: 1, Active: true}
	s.springOrder = append(s.springOrder, key)

	s.updateSprings(0.1)

	// d = 0.7 is below 1*(1-0.1) = 0.9: shrink by 0.1*1*(0.9-0.7) = 0.02.
	if got := s.springs[key].RestLength; math.Abs(got-0.98) > 1e-9 {
		t.Errorf("rest length = %v, want 0.98", got)
	}
}

func TestPlasticDriftDeadZone(t *testing.T) {
	params := quietParams()
	params.PlasticityEnabled = true
	params.Plasticity = 1
	params.YieldStretch = 0.1
	params.YieldCompress = 0.1
	params.SpringStiffness = 0
	params.InfluenceRadius = 10
	s := NewSimulation(params)

	a := s.AddParticle(Vec2{0, 0})
	b := s.AddParticle(Vec2{1.05, 0}) // inside the yield band
	key := makePairKey(a.Index, b.Index)
	s.springs[key] = &Spring{A: a, B: b, RestLength: 1, Active: true}
	s.springOrder = append(s.springOrder, key)

	s.updateSprings(0.1)

	if got := s.springs[key].RestLength; got != 1 {
		t.Errorf("rest length drifted to %v inside the yield band", got)
	}
}

func TestInactiveSpringRemoved(t *testing.T) {
	params := quietParams()
	params.PlasticityEnabled = true
	s := NewSimulation(params) // influence radius 1

	a := s.AddParticle(Vec2{0, 0})
	b := s.AddParticle(Vec2{0.5, 0})
	key := makePairKey(a.Index, b.Index)
	// Rest length past the influence radius: the spring's own rule
	// deactivates it on the next update.
	s.springs[key] = &Spring{A: a, B: b, RestLength: 2, Active: true}
	s.springOrder = append(s.springOrder, key)

	s.updateSprings(0.01)

	if len(s.springs) != 0 || len(s.springOrder) != 0 {
		t.Errorf("inactive spring survived removal: %d in registry, %d in order",
			len(s.springs), len(s.springOrder))
	}
}

func TestSpringEndpointDeactivation(t *testing.T) {
	params := quietParams()
	params.PlasticityEnabled = true
	s := NewSimulation(params)

	a := s.AddParticle(Vec2{0, 0})
	b := s.AddParticle(Vec2{0.5, 0})
	s.Update(0.001)
	if s.SpringCount() != 1 {
		t.Fatal("expected a spring after the first step")
	}

	b.Active = false
	s.Update(0.001)

	if s.SpringCount() != 0 {
		t.Error("spring with an inactive endpoint was not removed")
	}
	_ = a
}

func TestSpringDisplacementSymmetric(t *testing.T) {
	a := &Particle{Pos: Vec2{0, 0}, Active: true}
	b := &Particle{Pos: Vec2{0.8, 0}, Index: 1, Active: true}
	sp := &Spring{A: a, B: b, RestLength: 0.5, Active: true}

	sp.update(0.1, 1.0, 1.0)

	if !sp.Active {
		t.Fatal("spring deactivated unexpectedly")
	}
	// Stretched past rest: the endpoints are pulled together by equal
	// and opposite amounts.
	if a.Pos.X <= 0 || b.Pos.X >= 0.8 {
		t.Errorf("stretched spring did not contract: a=%v b=%v", a.Pos, b.Pos)
	}
	if math.Abs(a.Pos.X-(0.8-b.Pos.X)) > 1e-15 {
		t.Errorf("spring displacement asymmetric: a=%v b=%v", a.Pos, b.Pos)
	}
}
