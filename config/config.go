// Package config provides configuration loading and access for the
// fluid sandbox.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stevu236/gofluid/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// defaultPixelsPerUnit sizes the world when no dimensions are given.
const defaultPixelsPerUnit = 16.0

// Config holds all sandbox configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Emitter   EmitterConfig   `yaml:"emitter"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the sandbox dimensions in simulation units. The
// world can differ from the screen; rendering scales to fit.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds the fixed timestep and host-side physics.
type PhysicsConfig struct {
	DT          float64 `yaml:"dt"`
	GravityX    float64 `yaml:"gravity_x"`
	GravityY    float64 `yaml:"gravity_y"`
	WallDamping float64 `yaml:"wall_damping"` // velocity kept after a wall bounce
}

// FluidConfig mirrors the solver parameter surface. Values outside the
// solver's valid ranges are clamped by SetParams, not rejected here.
type FluidConfig struct {
	InfluenceRadius   float64 `yaml:"influence_radius"`
	RestDensity       float64 `yaml:"rest_density"`
	Stiffness         float64 `yaml:"stiffness"`
	ViscosityEnabled  bool    `yaml:"viscosity_enabled"`
	ViscositySigma    float64 `yaml:"viscosity_sigma"`
	ViscosityBeta     float64 `yaml:"viscosity_beta"`
	PlasticityEnabled bool    `yaml:"plasticity_enabled"`
	Plasticity        float64 `yaml:"plasticity"`
	SpringStiffness   float64 `yaml:"spring_stiffness"`
	YieldCompress     float64 `yaml:"yield_compress"`
	YieldStretch      float64 `yaml:"yield_stretch"`
}

// EmitterConfig describes the initial particle block.
type EmitterConfig struct {
	Columns int     `yaml:"columns"`
	Rows    int     `yaml:"rows"`
	Spacing float64 `yaml:"spacing"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

// TelemetryConfig holds stats collection settings.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds values computed after loading.
type DerivedConfig struct {
	WorldWidth  float64 // effective world width in simulation units
	WorldHeight float64
	Scale       float64 // pixels per simulation unit
	WindowTicks int32   // telemetry window length in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields
		// present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from the loaded config.
func (c *Config) computeDerived() {
	w := c.World.Width
	if w == 0 {
		w = float64(c.Screen.Width) / defaultPixelsPerUnit
	}
	h := c.World.Height
	if h == 0 {
		h = float64(c.Screen.Height) / defaultPixelsPerUnit
	}
	c.Derived.WorldWidth = w
	c.Derived.WorldHeight = h

	c.Derived.Scale = float64(c.Screen.Width) / w

	dt := c.Physics.DT
	if dt <= 0 {
		dt = 1.0 / 60.0
		c.Physics.DT = dt
	}
	window := c.Telemetry.StatsWindow
	if window <= 0 {
		window = 1.0
	}
	c.Derived.WindowTicks = int32(window / dt)
	if c.Derived.WindowTicks < 1 {
		c.Derived.WindowTicks = 1
	}
}

// ToParams maps the fluid section onto solver parameters.
func (c *Config) ToParams() fluid.Params {
	return fluid.Params{
		InfluenceRadius:   c.Fluid.InfluenceRadius,
		RestDensity:       c.Fluid.RestDensity,
		Stiffness:         c.Fluid.Stiffness,
		ViscosityEnabled:  c.Fluid.ViscosityEnabled,
		ViscositySigma:    c.Fluid.ViscositySigma,
		ViscosityBeta:     c.Fluid.ViscosityBeta,
		PlasticityEnabled: c.Fluid.PlasticityEnabled,
		Plasticity:        c.Fluid.Plasticity,
		SpringStiffness:   c.Fluid.SpringStiffness,
		YieldCompress:     c.Fluid.YieldCompress,
		YieldStretch:      c.Fluid.YieldStretch,
		Gravity:           fluid.Vec2{X: c.Physics.GravityX, Y: c.Physics.GravityY},
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
