// Package game hosts the fluid solver: it owns the world bounds, the
// initial particle block, input forces, rendering, and telemetry. The
// solver itself knows nothing about any of these.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/stevu236/gofluid/camera"
	"github.com/stevu236/gofluid/config"
	"github.com/stevu236/gofluid/fluid"
	"github.com/stevu236/gofluid/telemetry"
)

// Options configures a new sandbox.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	Headless  bool
}

// Game holds the complete sandbox state.
type Game struct {
	sim  *fluid.Simulation
	cfg  *config.Config
	rng  *rand.Rand
	tick int32

	dt          float64
	worldWidth  float64
	worldHeight float64

	paused   bool
	logStats bool

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	cam   *camera.Camera
	panel panelState
	drag  dragState
}

// NewGame creates a sandbox from the global config and the given options.
func NewGame(opts Options) *Game {
	cfg := config.Cfg()

	sim := fluid.NewSimulation(cfg.ToParams())

	g := &Game{
		sim:         sim,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		dt:          cfg.Physics.DT,
		worldWidth:  cfg.Derived.WorldWidth,
		worldHeight: cfg.Derived.WorldHeight,
		logStats:    opts.LogStats,
		perf:        telemetry.NewPerfCollector(int(cfg.Derived.WindowTicks)),
		collector:   telemetry.NewCollector(),
	}
	g.cam = camera.New(float64(cfg.Screen.Width), float64(cfg.Screen.Height), g.worldWidth, g.worldHeight)
	g.panel.init(cfg)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to open output directory", "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to snapshot config", "error", err)
			}
		}
	}

	g.spawnBlock()

	slog.Info("sandbox ready",
		"particles", len(sim.Particles()),
		"world_w", g.worldWidth,
		"world_h", g.worldHeight,
		"dt", g.dt,
	)

	return g
}

// spawnBlock drops the configured block of particles into the world,
// with a tiny jitter so columns do not collapse into degenerate stacks.
func (g *Game) spawnBlock() {
	em := g.cfg.Emitter
	for r := 0; r < em.Rows; r++ {
		for c := 0; c < em.Columns; c++ {
			jitter := fluid.Vec2{
				X: (g.rng.Float64() - 0.5) * em.Spacing * 0.05,
				Y: (g.rng.Float64() - 0.5) * em.Spacing * 0.05,
			}
			pos := fluid.Vec2{
				X: em.OriginX + float64(c)*em.Spacing,
				Y: em.OriginY + float64(r)*em.Spacing,
			}
			g.sim.AddParticle(pos.Add(jitter))
		}
	}
}

// Update runs one interactive frame: input, then a simulation step
// unless paused.
func (g *Game) Update() {
	g.handleInput()
	g.perf.RecordFrame()
	if g.paused {
		return
	}
	g.step()
}

// UpdateHeadless runs one simulation step with no input handling.
func (g *Game) UpdateHeadless() {
	g.step()
}

// step advances the simulation one fixed tick and feeds telemetry.
func (g *Game) step() {
	g.perf.StartTick()

	g.sim.Update(g.dt)
	timing := g.sim.Timing()
	g.perf.AddPhase(telemetry.PhaseNeighbors, timing.Neighbors)
	g.perf.AddPhase(telemetry.PhaseForces, timing.Forces)
	g.perf.AddPhase(telemetry.PhaseViscosity, timing.Viscosity)
	g.perf.AddPhase(telemetry.PhaseIntegrate, timing.Integrate)
	g.perf.AddPhase(telemetry.PhaseRelax, timing.Relax)
	g.perf.AddPhase(telemetry.PhaseSprings, timing.Springs)
	g.perf.AddPhase(telemetry.PhaseReconstruct, timing.Reconstruct)

	g.perf.StartPhase(telemetry.PhaseWalls)
	g.collideWalls()

	g.perf.StartPhase(telemetry.PhaseStats)
	g.tick++
	if g.tick%g.cfg.Derived.WindowTicks == 0 {
		g.flushTelemetry()
	}

	g.perf.EndTick()
}

// collideWalls keeps particles inside the world box. Boundary handling
// is host responsibility: the solver has no notion of walls.
func (g *Game) collideWalls() {
	damping := g.cfg.Physics.WallDamping
	for _, p := range g.sim.Particles() {
		if !p.Active {
			continue
		}
		if p.Pos.X < 0 {
			p.Pos.X = 0
			if p.Vel.X < 0 {
				p.Vel.X *= -damping
			}
		} else if p.Pos.X > g.worldWidth {
			p.Pos.X = g.worldWidth
			if p.Vel.X > 0 {
				p.Vel.X *= -damping
			}
		}
		if p.Pos.Y < 0 {
			p.Pos.Y = 0
			if p.Vel.Y < 0 {
				p.Vel.Y *= -damping
			}
		} else if p.Pos.Y > g.worldHeight {
			p.Pos.Y = g.worldHeight
			if p.Vel.Y > 0 {
				p.Vel.Y *= -damping
			}
		}
	}
}

// flushTelemetry emits window stats and perf data to slog and CSV.
func (g *Game) flushTelemetry() {
	stats := g.collector.Snapshot(g.sim, g.tick, g.dt)
	perfStats := g.perf.Stats()

	if g.logStats {
		slog.Info("fluid", "stats", stats)
		perfStats.LogStats()
	}
	if g.output != nil {
		if err := g.output.WriteStats(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if err := g.output.WritePerf(perfStats, g.tick); err != nil {
			slog.Error("perf write failed", "error", err)
		}
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// Sim exposes the solver for inspection.
func (g *Game) Sim() *fluid.Simulation { return g.sim }

// Unload flushes telemetry output.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Error("closing output", "error", err)
		}
	}
}
