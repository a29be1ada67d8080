package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/stevu236/gofluid/config"
	"github.com/stevu236/gofluid/fluid"
	"github.com/stevu236/gofluid/telemetry"
)

// Quality component weights.
const (
	qualityWeightDensity   = 0.5
	qualityWeightStillness = 0.3
	qualityWeightUniform   = 0.2

	qualityWarmupWindows = 3 // skip first N windows while the block settles
)

// blowupSpeed marks a run as unstable: no settled fluid in a static box
// should ever move this fast.
const blowupSpeed = 200.0

// FitnessEvaluator runs headless drop tests and scores how well the
// fluid settles. Each run drops the configured emitter block into an
// empty box and measures the settled state.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single drop test.
type runResult struct {
	windowStats []telemetry.WindowStats
	restDensity float64 // rest density the run actually used
	blewUp      bool
	blewUpTick  int32
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += fe.computeFitness(r)
		totalQuality += fe.computeQuality(r)
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless drop test. The run stops
// early when the fluid blows up.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	sim := fluid.NewSimulation(cfg.ToParams())
	spawnBlock(sim, cfg, rand.New(rand.NewSource(seed)))

	collector := telemetry.NewCollector()
	result := &runResult{restDensity: cfg.Fluid.RestDensity}

	dt := cfg.Physics.DT
	windowTicks := cfg.Derived.WindowTicks

	for tick := int32(1); tick <= fe.maxTicks; tick++ {
		sim.Update(dt)
		collideWalls(sim, cfg)

		if tick%windowTicks == 0 {
			stats := collector.Snapshot(sim, tick, dt)
			result.windowStats = append(result.windowStats, stats)

			if stats.SpeedMax > blowupSpeed || math.IsNaN(stats.DensityMean) {
				result.blewUp = true
				result.blewUpTick = tick
				return result
			}
		}
	}
	return result
}

// spawnBlock mirrors the sandbox emitter: a grid of particles with
// slight position jitter so runs differ per seed.
func spawnBlock(sim *fluid.Simulation, cfg *config.Config, rng *rand.Rand) {
	em := cfg.Emitter
	for r := 0; r < em.Rows; r++ {
		for c := 0; c < em.Columns; c++ {
			pos := fluid.Vec2{
				X: em.OriginX + float64(c)*em.Spacing + (rng.Float64()-0.5)*em.Spacing*0.05,
				Y: em.OriginY + float64(r)*em.Spacing + (rng.Float64()-0.5)*em.Spacing*0.05,
			}
			sim.AddParticle(pos)
		}
	}
}

// collideWalls clamps particles into the world box, damping the normal
// velocity component. Same rule as the sandbox host.
func collideWalls(sim *fluid.Simulation, cfg *config.Config) {
	damping := cfg.Physics.WallDamping
	w := cfg.Derived.WorldWidth
	h := cfg.Derived.WorldHeight
	for _, p := range sim.Particles() {
		if !p.Active {
			continue
		}
		if p.Pos.X < 0 {
			p.Pos.X = 0
			if p.Vel.X < 0 {
				p.Vel.X *= -damping
			}
		} else if p.Pos.X > w {
			p.Pos.X = w
			if p.Vel.X > 0 {
				p.Vel.X *= -damping
			}
		}
		if p.Pos.Y < 0 {
			p.Pos.Y = 0
			if p.Vel.Y < 0 {
				p.Vel.Y *= -damping
			}
		} else if p.Pos.Y > h {
			p.Pos.Y = h
			if p.Vel.Y > 0 {
				p.Vel.Y *= -damping
			}
		}
	}
}

// copyConfig creates a copy of the base config with derived values.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")

	cfg.Screen = fe.baseConfig.Screen
	cfg.World = fe.baseConfig.World
	cfg.Physics = fe.baseConfig.Physics
	cfg.Fluid = fe.baseConfig.Fluid
	cfg.Emitter = fe.baseConfig.Emitter
	cfg.Telemetry = fe.baseConfig.Telemetry
	cfg.Derived = fe.baseConfig.Derived

	return cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// A blown-up run is penalized by how early it failed; a stable run
// scores -(quality), so perfect settling approaches -1.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	if r.blewUp {
		// Earlier blowup = worse. Penalty in (1, 2].
		return 1.0 + float64(fe.maxTicks-r.blewUpTick)/float64(fe.maxTicks)
	}
	return -fe.computeQuality(r)
}

// computeQuality computes settling quality in [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(r *runResult) float64 {
	windows := r.windowStats
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	restDensity := r.restDensity
	var densitySum, stillSum, uniformSum float64
	var count int

	for _, w := range valid {
		if w.Active == 0 {
			continue
		}

		// 1. Density closeness: mean density near rest density.
		relErr := (w.DensityMean - restDensity) / restDensity
		densitySum += math.Exp(-relErr * relErr / 0.08)

		// 2. Stillness: settled fluid should stop moving.
		stillSum += math.Exp(-w.SpeedMean * w.SpeedMean)

		// 3. Uniformity: low density spread across the bulk.
		spread := 0.0
		if w.DensityMean > 0 {
			spread = w.DensityStd / w.DensityMean
		}
		uniformSum += math.Exp(-spread * spread / 0.125)

		count++
	}

	if count == 0 {
		return 0
	}
	n := float64(count)

	quality := qualityWeightDensity*densitySum/n +
		qualityWeightStillness*stillSum/n +
		qualityWeightUniform*uniformSum/n

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
