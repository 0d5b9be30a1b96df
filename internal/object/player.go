package object

import (
	"math"

	"github.com/tomz197/velocityridge/internal/input"
	"github.com/tomz197/velocityridge/internal/physics"
)

// Player car defaults.
const (
	PlayerWidth      = 52.0
	PlayerHeight     = 92.0
	PlayerSpeed      = 420.0 // Max lateral speed of the steering target, units/s
	PlayerRowRatio   = 0.78  // Vertical position as a share of viewport height
	SteerSmoothing   = 6.0   // Exponential approach rate toward the target
	leanPerUnitDrift = 0.01  // Radians of lean per unit of X - TargetX
)

// Player is the car the user steers.
// X eases toward TargetX; input only ever moves TargetX.
type Player struct {
	X, Y    float64
	TargetX float64
	Width   float64
	Height  float64
	Speed   float64
}

// NewPlayer creates a car centered on the road of w.
func NewPlayer(w World) *Player {
	p := &Player{
		X:      w.Width * 0.5,
		Width:  PlayerWidth,
		Height: PlayerHeight,
		Speed:  PlayerSpeed,
	}
	p.Fit(w)
	return p
}

// Fit re-anchors the car after the road geometry changed.
func (p *Player) Fit(w World) {
	p.Y = w.Height * PlayerRowRatio
	p.X = w.ClampX(p.X)
	p.TargetX = p.X
}

// Center puts the car back in the middle of the road.
func (p *Player) Center(w World) {
	p.X = w.Width * 0.5
	p.Fit(w)
}

// SetTarget steers directly toward x, e.g. from a pointer drag.
func (p *Player) SetTarget(x float64, w World) {
	p.TargetX = w.ClampX(x)
}

// Update moves the steering target from the held keys, clamps it, then eases
// the car toward it.
func (p *Player) Update(dt float64, intent input.Intent, w World) {
	move := p.Speed * dt
	target := p.TargetX
	if intent.MoveLeft {
		target -= move
	}
	if intent.MoveRight {
		target += move
	}
	p.TargetX = w.ClampX(target)

	delta := p.TargetX - p.X
	p.X += delta * math.Min(1, dt*SteerSmoothing)
}

// Lean returns the visual tilt in radians.
func (p *Player) Lean() float64 {
	return (p.X - p.TargetX) * leanPerUnitDrift
}

// Box returns the collision box. Lean is ignored.
func (p *Player) Box() physics.Box {
	return physics.Box{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}
