// Package core provides the value types shared by every runner package.
// It has no third-party dependencies so that simulation logic stays pure and
// testable without a terminal.
package core

import "math"

// Vec is a 2D vector in world units.
type Vec struct {
	X, Y float64
}

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Bounds is an axis-aligned bounding box in world coordinates.
// Y grows downward, matching the terminal.
type Bounds struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// NewBounds creates a bounding box from position and size.
func NewBounds(x, y, w, h float64) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// BoundsAt builds a box whose top-left corner is pos.
func BoundsAt(pos, size Vec) Bounds {
	return Bounds{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
}

// Right returns the x-coordinate of the right edge.
func (b Bounds) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Bounds) Bottom() float64 {
	return b.Y + b.H
}

// Intersects reports whether the boxes overlap. Touching edges do not count.
func (b Bounds) Intersects(o Bounds) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X && b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

// Expand grows the box by m on every side.
func (b Bounds) Expand(m float64) Bounds {
	return Bounds{X: b.X - m, Y: b.Y - m, W: b.W + 2*m, H: b.H + 2*m}
}

// Contains returns true if the point (x, y) is inside the box.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Center returns the center point of the box.
func (b Bounds) Center() Vec {
	return Vec{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

// Clamp restricts an int value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
