package telemetry

import (
	"math"
	"testing"

	"github.com/stevu236/gofluid/fluid"
)

func testSim(t *testing.T) *fluid.Simulation {
	t.Helper()
	params := fluid.DefaultParams()
	params.Gravity = fluid.Vec2{}
	s := fluid.NewSimulation(params)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s.AddParticle(fluid.Vec2{X: float64(i) * 0.4, Y: float64(j) * 0.4})
		}
	}
	return s
}

func TestSnapshotCounts(t *testing.T) {
	sim := testSim(t)
	sim.Update(1.0 / 60.0)

	c := NewCollector()
	stats := c.Snapshot(sim, 60, 1.0/60.0)

	if stats.Particles != 16 || stats.Active != 16 {
		t.Errorf("counts = (%d, %d), want (16, 16)", stats.Particles, stats.Active)
	}
	if stats.WindowEndTick != 60 {
		t.Errorf("window end = %d, want 60", stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("sim time = %v, want 1.0", stats.SimTimeSec)
	}
	if stats.DensityMean <= 0 {
		t.Errorf("density mean = %v, want > 0 for a packed block", stats.DensityMean)
	}
	if stats.DensityP10 > stats.DensityP50 || stats.DensityP50 > stats.DensityP90 {
		t.Error("density percentiles out of order")
	}
	if stats.PressureMin > stats.PressureMax {
		t.Error("pressure extremes inverted")
	}
}

func TestSnapshotEmptySim(t *testing.T) {
	params := fluid.DefaultParams()
	sim := fluid.NewSimulation(params)

	stats := NewCollector().Snapshot(sim, 0, 1.0/60.0)

	if stats.Active != 0 || stats.DensityMean != 0 {
		t.Error("empty sim produced nonzero stats")
	}
	if stats.PressureMin != 0 || stats.PressureMax != 0 {
		t.Error("empty sim pressure extremes not zeroed")
	}
}

func TestSnapshotSkipsInactive(t *testing.T) {
	sim := testSim(t)
	sim.Particles()[0].Active = false
	sim.Update(1.0 / 60.0)

	stats := NewCollector().Snapshot(sim, 1, 1.0/60.0)

	if stats.Particles != 16 {
		t.Errorf("particles = %d, want 16", stats.Particles)
	}
	if stats.Active != 15 {
		t.Errorf("active = %d, want 15", stats.Active)
	}
}
