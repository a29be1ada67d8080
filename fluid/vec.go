// Package fluid implements a real-time particle-based viscoelastic fluid
// solver using double density relaxation: particles are pushed apart (or
// pulled together) by a position-based pressure correction computed from a
// locally estimated density, with optional viscosity impulses and an
// optional dynamic spring network that gives the fluid plastic memory of
// shape.
package fluid

import "math"

// Vec2 is a 2-component vector with value semantics.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// LengthSq returns the squared length of v.
func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }

// Length returns the length of v.
func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
