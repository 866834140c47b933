package kinematic

// This package includes the planar vector math used for actor movement and vision.

import (
	"math"
)

// Vector is a point or displacement on the map plane.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two vectors.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the displacement from other to v.
func (v Vector) Sub(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns the vector multiplied by a scalar.
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean length of the vector.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vector) float64 {
	return a.Sub(b).Length()
}

// Step returns the point reached by moving from `from` towards `to` by exactly `speed`.
// ok is false when the remaining distance is already shorter than one step.
func Step(from, to Vector, speed float64) (next Vector, ok bool) {
	delta := to.Sub(from)
	if delta.Length() < speed {
		return from, false
	}
	return from.Add(delta.Normalize().Scale(speed)), true
}
