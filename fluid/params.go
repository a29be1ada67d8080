package fluid

// Parameter clamp ranges. Out-of-range values are clamped, never rejected:
// a bad configuration can degrade the solver but cannot break it.
const (
	MinInfluenceRadius = 0.1
	MaxInfluenceRadius = 10.0
	MinRestDensity     = 1.0
	MaxRestDensity     = 100.0
	MinStiffness       = 0.1
	MaxStiffness       = 10.0
)

// nearStiffnessScale derives the near-pressure stiffness from the far one.
const nearStiffnessScale = 100.0

// Params holds the solver parameters. Set them through
// Simulation.SetParams, which clamps out-of-range values and caches the
// derived quantities (squared influence radius, near stiffness).
type Params struct {
	// InfluenceRadius is the maximum distance at which two particles
	// interact. All pairwise kernels are zero beyond it.
	InfluenceRadius float64

	// RestDensity is the local density the relaxation pass drives toward.
	RestDensity float64

	// Stiffness scales the pressure response. The short-range near
	// stiffness is always 100x this value.
	Stiffness float64

	// ViscosityEnabled gates the pairwise viscosity impulse exchange.
	ViscosityEnabled bool
	ViscositySigma   float64 // linear viscosity coefficient
	ViscosityBeta    float64 // quadratic viscosity coefficient

	// PlasticityEnabled gates spring creation and plastic rest-length
	// adjustment.
	PlasticityEnabled bool
	Plasticity        float64 // rest-length drift rate past the yield ratio
	SpringStiffness   float64
	YieldCompress     float64 // compression ratio before plastic yield
	YieldStretch      float64 // stretch ratio before plastic yield

	// Gravity is applied uniformly each step, on top of any force queued
	// through Simulation.ApplyForce.
	Gravity Vec2
}

// DefaultParams returns a stable parameter set for a unit-scale fluid.
func DefaultParams() Params {
	return Params{
		InfluenceRadius:   1.0,
		RestDensity:       10.0,
		Stiffness:         10.0,
		ViscosityEnabled:  true,
		ViscositySigma:    1.0,
		ViscosityBeta:     1.0,
		PlasticityEnabled: false,
		Plasticity:        1.0,
		SpringStiffness:   0.3,
		YieldCompress:     0.1,
		YieldStretch:      0.1,
		Gravity:           Vec2{0, 9.8},
	}
}

// clamped returns a copy of p with every parameter forced into its valid
// range.
func (p Params) clamped() Params {
	p.InfluenceRadius = clamp(p.InfluenceRadius, MinInfluenceRadius, MaxInfluenceRadius)
	p.RestDensity = clamp(p.RestDensity, MinRestDensity, MaxRestDensity)
	p.Stiffness = clamp(p.Stiffness, MinStiffness, MaxStiffness)
	p.ViscositySigma = max(p.ViscositySigma, 0)
	p.ViscosityBeta = max(p.ViscosityBeta, 0)
	p.Plasticity = max(p.Plasticity, 0)
	p.SpringStiffness = max(p.SpringStiffness, 0)
	p.YieldCompress = max(p.YieldCompress, 0)
	p.YieldStretch = max(p.YieldStretch, 0)
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
