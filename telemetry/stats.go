package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stevu236/gofluid/fluid"
)

// WindowStats holds aggregated fluid statistics for a time window.
type WindowStats struct {
	WindowEndTick int32   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	// Counts at window end
	Particles int `csv:"particles"`
	Active    int `csv:"active"`
	Springs   int `csv:"springs"`

	// Density distribution across active particles
	DensityMean float64 `csv:"density_mean"`
	DensityStd  float64 `csv:"density_std"`
	DensityP10  float64 `csv:"density_p10"`
	DensityP50  float64 `csv:"density_p50"`
	DensityP90  float64 `csv:"density_p90"`

	// Pressure extremes (diagnostic fields)
	PressureMin float64 `csv:"pressure_min"`
	PressureMax float64 `csv:"pressure_max"`

	// Kinetics
	SpeedMean float64 `csv:"speed_mean"`
	SpeedMax  float64 `csv:"speed_max"`
}

// Collector samples solver state into windowed statistics. The sample
// buffers are reused across windows.
type Collector struct {
	densities []float64
	speeds    []float64
}

// NewCollector creates a collector.
func NewCollector() *Collector {
	return &Collector{
		densities: make([]float64, 0, 1024),
		speeds:    make([]float64, 0, 1024),
	}
}

// Snapshot aggregates the current solver state into WindowStats.
func (c *Collector) Snapshot(sim *fluid.Simulation, tick int32, dt float64) WindowStats {
	stats := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    float64(tick) * dt,
		Particles:     len(sim.Particles()),
		Springs:       sim.SpringCount(),
		PressureMin:   math.Inf(1),
		PressureMax:   math.Inf(-1),
	}

	c.densities = c.densities[:0]
	c.speeds = c.speeds[:0]
	for _, p := range sim.Particles() {
		if !p.Active {
			continue
		}
		stats.Active++
		c.densities = append(c.densities, p.Density)
		c.speeds = append(c.speeds, p.Vel.Length())
		if p.Pressure < stats.PressureMin {
			stats.PressureMin = p.Pressure
		}
		if p.Pressure > stats.PressureMax {
			stats.PressureMax = p.Pressure
		}
	}

	if stats.Active == 0 {
		stats.PressureMin = 0
		stats.PressureMax = 0
		return stats
	}

	sort.Float64s(c.densities)
	stats.DensityMean = stat.Mean(c.densities, nil)
	if len(c.densities) > 1 {
		stats.DensityStd = stat.StdDev(c.densities, nil)
	}
	stats.DensityP10 = stat.Quantile(0.1, stat.Empirical, c.densities, nil)
	stats.DensityP50 = stat.Quantile(0.5, stat.Empirical, c.densities, nil)
	stats.DensityP90 = stat.Quantile(0.9, stat.Empirical, c.densities, nil)

	stats.SpeedMean = stat.Mean(c.speeds, nil)
	for _, s := range c.speeds {
		if s > stats.SpeedMax {
			stats.SpeedMax = s
		}
	}

	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", int64(s.WindowEndTick)),
		slog.Int("particles", s.Particles),
		slog.Int("active", s.Active),
		slog.Int("springs", s.Springs),
		slog.Float64("density_mean", s.DensityMean),
		slog.Float64("density_p50", s.DensityP50),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_max", s.SpeedMax),
	)
}
