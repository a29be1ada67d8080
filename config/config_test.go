package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Fluid.InfluenceRadius != 1.0 {
		t.Errorf("influence_radius = %v, want 1.0", cfg.Fluid.InfluenceRadius)
	}
	if cfg.Fluid.RestDensity != 10.0 {
		t.Errorf("rest_density = %v, want 10.0", cfg.Fluid.RestDensity)
	}
	if !cfg.Fluid.ViscosityEnabled {
		t.Error("viscosity disabled in defaults")
	}
	if cfg.Emitter.Columns == 0 || cfg.Emitter.Rows == 0 {
		t.Error("emitter defaults missing")
	}
}

func TestLoadMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := "fluid:\n  stiffness: 2.5\n  plasticity_enabled: true\n"
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}

	if cfg.Fluid.Stiffness != 2.5 {
		t.Errorf("stiffness = %v, want overridden 2.5", cfg.Fluid.Stiffness)
	}
	if !cfg.Fluid.PlasticityEnabled {
		t.Error("plasticity override not applied")
	}
	// Untouched fields keep their defaults.
	if cfg.Fluid.RestDensity != 10.0 {
		t.Errorf("rest_density = %v, want default 10.0", cfg.Fluid.RestDensity)
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Derived.WorldWidth != 80 {
		t.Errorf("world width = %v, want 80", cfg.Derived.WorldWidth)
	}
	if cfg.Derived.Scale != 16 {
		t.Errorf("scale = %v, want 1280/80 = 16", cfg.Derived.Scale)
	}
	if cfg.Derived.WindowTicks < 1 {
		t.Errorf("window ticks = %d, want >= 1", cfg.Derived.WindowTicks)
	}
}

func TestToParams(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	params := cfg.ToParams()
	if params.InfluenceRadius != cfg.Fluid.InfluenceRadius {
		t.Error("influence radius not mapped")
	}
	if params.Gravity.Y != cfg.Physics.GravityY {
		t.Error("gravity not mapped")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Fluid.Stiffness != cfg.Fluid.Stiffness {
		t.Error("stiffness changed across a write/load round trip")
	}
}
