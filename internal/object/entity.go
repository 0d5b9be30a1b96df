package object

import "github.com/tomz197/velocityridge/internal/physics"

// Kind identifies what an entity does when it reaches the car.
type Kind int

const (
	KindObstacle Kind = iota // Costs time on contact
	KindCoin                 // Adds distance when collected
	KindExtender             // Adds time when collected
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindCoin:
		return "coin"
	case KindExtender:
		return "extender"
	default:
		return "unknown"
	}
}

// Entity is a non-player object scrolling down the road.
// Rectangles use Width/Height; coins use Radius.
type Entity struct {
	Kind   Kind
	Lane   int
	X, Y   float64 // Center; Y grows toward the player
	Speed  float64 // Downward velocity, units/s
	Width  float64
	Height float64
	Radius float64
}

// Box returns the entity's collision box.
func (e *Entity) Box() physics.Box {
	return physics.Box{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
}

// Circle returns the entity's collision circle.
func (e *Entity) Circle() physics.Circle {
	return physics.Circle{X: e.X, Y: e.Y, R: e.Radius}
}

// Hits reports whether the entity touches the given player box.
// Coins use the lenient circle test, everything else the box test.
func (e *Entity) Hits(player physics.Box) bool {
	if e.Kind == KindCoin {
		return physics.CircleIntersectsBox(e.Circle(), player)
	}
	return physics.BoxIntersects(e.Box(), player)
}
