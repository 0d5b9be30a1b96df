// Package object defines the road geometry, the player car and the entities
// that scroll toward it.
package object

import "github.com/tomz197/velocityridge/internal/physics"

// Road layout.
const (
	LaneCount    = 3
	RoadRatio    = 0.72 // Share of the viewport width covered by road
	PlayerMargin = 40.0 // Distance the car's center keeps from each road edge
)

// World is the playable road region for one viewport size.
// It is a value: a resize produces a new World, never a partial update.
type World struct {
	Width     float64
	Height    float64
	RoadLeft  float64
	RoadWidth float64
	LaneWidth float64
}

// Configure derives the road geometry for a viewport.
func Configure(viewportWidth, viewportHeight float64) World {
	roadWidth := viewportWidth * RoadRatio
	return World{
		Width:     viewportWidth,
		Height:    viewportHeight,
		RoadLeft:  (viewportWidth - roadWidth) * 0.5,
		RoadWidth: roadWidth,
		LaneWidth: roadWidth / LaneCount,
	}
}

// LaneCenter returns the x coordinate of a lane's center line.
func (w World) LaneCenter(lane int) float64 {
	return w.RoadLeft + w.LaneWidth*(float64(lane)+0.5)
}

// RoadRight returns the x coordinate of the right road edge.
func (w World) RoadRight() float64 {
	return w.RoadLeft + w.RoadWidth
}

// ClampX limits x to the drivable interior of the road.
func (w World) ClampX(x float64) float64 {
	return physics.Clamp(x, w.RoadLeft+PlayerMargin, w.RoadRight()-PlayerMargin)
}
