package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorWindow(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 6; i++ {
		p.StartTick()
		p.StartPhase(PhaseWalls)
		time.Sleep(time.Millisecond)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("average tick duration not recorded")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Error("min tick exceeds max tick")
	}
	if stats.PhasePct[PhaseWalls] <= 0 {
		t.Error("phase percentage missing for timed phase")
	}
}

func TestPerfCollectorAddPhase(t *testing.T) {
	p := NewPerfCollector(2)

	p.StartTick()
	p.AddPhase(PhaseRelax, 3*time.Millisecond)
	p.AddPhase(PhaseRelax, 2*time.Millisecond)
	p.AddPhase(PhaseNeighbors, time.Millisecond)
	p.EndTick()

	stats := p.Stats()
	if got := stats.PhaseAvg[PhaseRelax]; got != 5*time.Millisecond {
		t.Errorf("relax phase avg = %v, want 5ms", got)
	}
	if got := stats.PhaseAvg[PhaseNeighbors]; got != time.Millisecond {
		t.Errorf("neighbors phase avg = %v, want 1ms", got)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(8)
	stats := p.Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("empty collector produced nonzero stats")
	}
}

func TestPerfStatsCSVRoundsToPhases(t *testing.T) {
	p := NewPerfCollector(1)
	p.StartTick()
	p.AddPhase(PhaseViscosity, 2*time.Millisecond)
	p.EndTick()

	csv := p.Stats().ToCSV(120)
	if csv.WindowEnd != 120 {
		t.Errorf("window end = %d, want 120", csv.WindowEnd)
	}
	if csv.ViscosityPct <= 0 {
		t.Error("viscosity percentage not exported")
	}
}
