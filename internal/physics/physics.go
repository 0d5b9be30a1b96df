// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Box is an axis-aligned rectangle described by its center and full size.
type Box struct {
	X, Y float64 // Center
	W, H float64 // Full width and height
}

// Circle is a circle described by its center and radius.
type Circle struct {
	X, Y float64
	R    float64
}

// hitboxShrink is the fraction of the box's smaller side that counts as its
// radius for circle tests.
const hitboxShrink = 0.4

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// BoxIntersects reports whether two boxes overlap. Touching edges do not count.
// Rotation is never considered.
func BoxIntersects(a, b Box) bool {
	ax := a.X - a.W/2
	ay := a.Y - a.H/2
	return ax < b.X+b.W/2 &&
		ax+a.W > b.X-b.W/2 &&
		ay < b.Y+b.H/2 &&
		ay+a.H > b.Y-b.H/2
}

// CircleIntersectsBox compares the distance between centers against the
// circle radius plus 0.4 of the box's smaller side.
// This is intentionally lenient, not an exact circle-rectangle test.
func CircleIntersectsBox(c Circle, b Box) bool {
	dist := Distance(c.X, c.Y, b.X, b.Y)
	return dist < c.R+math.Min(b.W, b.H)*hitboxShrink
}
