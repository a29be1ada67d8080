package fluid

import (
	"math"
	"testing"
)

func TestSetParamsClamping(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Params)
		get  func(Params) float64
		want float64
	}{
		{"radius above max", func(p *Params) { p.InfluenceRadius = 50 }, func(p Params) float64 { return p.InfluenceRadius }, 10},
		{"radius below min", func(p *Params) { p.InfluenceRadius = 0.001 }, func(p Params) float64 { return p.InfluenceRadius }, 0.1},
		{"rest density below min", func(p *Params) { p.RestDensity = 0 }, func(p Params) float64 { return p.RestDensity }, 1},
		{"rest density above max", func(p *Params) { p.RestDensity = 500 }, func(p Params) float64 { return p.RestDensity }, 100},
		{"stiffness below min", func(p *Params) { p.Stiffness = 0.01 }, func(p Params) float64 { return p.Stiffness }, 0.1},
		{"stiffness above max", func(p *Params) { p.Stiffness = 25 }, func(p Params) float64 { return p.Stiffness }, 10},
		{"negative sigma", func(p *Params) { p.ViscositySigma = -3 }, func(p Params) float64 { return p.ViscositySigma }, 0},
		{"negative plasticity", func(p *Params) { p.Plasticity = -1 }, func(p Params) float64 { return p.Plasticity }, 0},
		{"negative yield stretch", func(p *Params) { p.YieldStretch = -0.5 }, func(p Params) float64 { return p.YieldStretch }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.set(&params)
			s := NewSimulation(params)
			if got := tt.get(s.Params()); got != tt.want {
				t.Errorf("clamped value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearStiffnessDerived(t *testing.T) {
	params := DefaultParams()
	params.Stiffness = 0.01 // clamps to 0.1
	s := NewSimulation(params)

	if got := s.Params().Stiffness; got != 0.1 {
		t.Fatalf("stiffness = %v, want 0.1", got)
	}
	if math.Abs(s.stiffnessNear-10) > 1e-12 {
		t.Errorf("near stiffness = %v, want 100x stiffness = 10", s.stiffnessNear)
	}

	params.Stiffness = 10
	s.SetParams(params)
	if s.stiffnessNear != 1000 {
		t.Errorf("near stiffness = %v, want 1000", s.stiffnessNear)
	}
}

func TestRadiusSquaredCached(t *testing.T) {
	params := DefaultParams()
	params.InfluenceRadius = 2.5
	s := NewSimulation(params)

	if s.radiusSq != 6.25 {
		t.Errorf("radiusSq = %v, want 6.25", s.radiusSq)
	}
}
