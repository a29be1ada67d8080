// Package main provides CMA-ES calibration for fluid solver parameters.
package main

import (
	"github.com/stevu236/gofluid/config"
)

// ParamSpec defines a single calibratable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all calibratable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of calibratable parameters.
// Influence radius is locked: changing it rescales the whole kernel and
// makes runs incomparable.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "stiffness", Path: "fluid.stiffness", Min: 0.1, Max: 10.0, Default: 10.0},
			{Name: "rest_density", Path: "fluid.rest_density", Min: 1.0, Max: 40.0, Default: 10.0},
			{Name: "viscosity_sigma", Path: "fluid.viscosity_sigma", Min: 0.0, Max: 5.0, Default: 1.0},
			{Name: "viscosity_beta", Path: "fluid.viscosity_beta", Min: 0.0, Max: 5.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Fluid.Stiffness = clamped[0]
	cfg.Fluid.RestDensity = clamped[1]
	cfg.Fluid.ViscositySigma = clamped[2]
	cfg.Fluid.ViscosityBeta = clamped[3]
	cfg.Fluid.ViscosityEnabled = true
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Fluid.Stiffness,
		cfg.Fluid.RestDensity,
		cfg.Fluid.ViscositySigma,
		cfg.Fluid.ViscosityBeta,
	}
}
