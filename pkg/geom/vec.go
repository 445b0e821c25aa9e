package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a point or direction in model space.
type Vec3 = mgl64.Vec3

// Vec2 is a point or direction in a surface's (u, v) parameter space.
type Vec2 = mgl64.Vec2

// V3 is shorthand for building a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// V2 is shorthand for building a Vec2.
func V2(u, v float64) Vec2 { return Vec2{u, v} }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec3) float64 { return a.Sub(b).Len() }

// Lerp interpolates between a and b.
func Lerp(a, b Vec3, t float64) Vec3 { return a.Add(b.Sub(a).Mul(t)) }

// Unit returns v normalised, and false when v is too short to have a
// direction.
func Unit(v Vec3) (Vec3, bool) {
	l := v.Len()
	if l < 1e-300 {
		return Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// Cross2 is the z component of the 3D cross product of two 2D vectors.
func Cross2(a, b Vec2) float64 { return a[0]*b[1] - a[1]*b[0] }

// Angle2 returns the polar angle of v in [0, 2π).
func Angle2(v Vec2) float64 {
	a := math.Atan2(v[1], v[0])
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ClockwiseAngle returns the angle swept turning clockwise from direction
// from to direction to. The result lies in (0, 2π]; identical directions
// give 2π so that "turning back" is always the last choice.
func ClockwiseAngle(from, to Vec2, angTol float64) float64 {
	a := Angle2(from) - Angle2(to)
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	if a <= angTol || 2*math.Pi-a <= angTol {
		return 2 * math.Pi
	}
	return a
}
