// Package scene turns a game frame into a flat list of filled shapes that
// any renderer can paint in order.
package scene

import (
	"image/color"
	"math"

	"github.com/tomz197/velocityridge/internal/draw"
	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/object"
)

// Paint names a colour role. Renderers map it to their own palette.
type Paint uint8

const (
	PaintBackground Paint = iota
	PaintShoulder
	PaintRoad
	PaintEdge
	PaintLane
	PaintStreak
	PaintObstacle
	PaintObstacleRim
	PaintCoin
	PaintCoinRim
	PaintExtender
	PaintExtenderMark
	PaintCarFront
	PaintCarRear
	PaintWindshield
	PaintWheel
	PaintHighlight
	PaintCount
)

// Palette holds the true colours of every paint, already blended against
// the dark road where the look calls for translucency.
var Palette = [PaintCount]color.RGBA{
	PaintBackground:   {0x05, 0x06, 0x0a, 0xff},
	PaintShoulder:     {0x05, 0x1a, 0x22, 0xff},
	PaintRoad:         {0x0b, 0x12, 0x24, 0xff},
	PaintEdge:         {0x07, 0x55, 0x66, 0xff},
	PaintLane:         {0x05, 0x84, 0x92, 0xff},
	PaintStreak:       {0x0a, 0x3a, 0x4a, 0xff},
	PaintObstacle:     {0x14, 0x1d, 0x30, 0xff},
	PaintObstacleRim:  {0x0a, 0x89, 0x98, 0xff},
	PaintCoin:         {0xf8, 0xc5, 0x37, 0xff},
	PaintCoinRim:      {0xb0, 0x8c, 0x2c, 0xff},
	PaintExtender:     {0x00, 0xf5, 0xff, 0xff},
	PaintExtenderMark: {0x04, 0x08, 0x10, 0xff},
	PaintCarFront:     {0x00, 0xff, 0xff, 0xff},
	PaintCarRear:      {0x3b, 0x00, 0xff, 0xff},
	PaintWindshield:   {0x04, 0x08, 0x12, 0xff},
	PaintWheel:        {0x05, 0x06, 0x0a, 0xff},
	PaintHighlight:    {0x9f, 0xc8, 0xff, 0xff},
}

// Road decoration.
const (
	ShoulderWidth = 40.0
	EdgeWidth     = 4.0
	LaneLineWidth = 2.0
	DashLength    = 18.0
	DashGap       = 24.0
	DashScroll    = 0.2 // Dash travel per unit of distance
	StreakCount   = 24
	StreakSpacing = 43.0
	StreakStagger = 130.0
	StreakScroll  = 0.7 // Streak travel per unit of distance
	obstacleRim   = 4.0
	coinRim       = 1.5
)

// ShapeKind selects which fields of a Shape are meaningful.
type ShapeKind uint8

const (
	ShapeRect    ShapeKind = iota // X, Y top-left; W, H
	ShapeCircle                   // X, Y center; R
	ShapePolygon                  // Points
)

// Shape is one filled primitive in logical units.
type Shape struct {
	Kind   ShapeKind
	Paint  Paint
	X, Y   float64
	W, H   float64
	R      float64
	Points []draw.Point
}

// Builder assembles frames, reusing its buffers between calls. The returned
// shapes are only valid until the next Build.
type Builder struct {
	shapes []Shape
	points []draw.Point
}

// Build returns the shapes of v, back to front.
func (b *Builder) Build(v game.View) []Shape {
	b.shapes = b.shapes[:0]
	b.points = b.points[:0]

	b.road(v.World, v.State.Distance)
	b.streaks(v.World, v.State.Distance)
	for i := range v.Obstacles {
		b.obstacle(&v.Obstacles[i])
	}
	for i := range v.Coins {
		b.coin(&v.Coins[i])
	}
	for i := range v.Extenders {
		b.extender(&v.Extenders[i])
	}
	b.car(&v.Player)
	return b.shapes
}

func (b *Builder) rect(p Paint, x, y, w, h float64) {
	b.shapes = append(b.shapes, Shape{Kind: ShapeRect, Paint: p, X: x, Y: y, W: w, H: h})
}

func (b *Builder) centeredRect(p Paint, cx, cy, w, h float64) {
	b.rect(p, cx-w/2, cy-h/2, w, h)
}

func (b *Builder) road(w object.World, distance float64) {
	b.rect(PaintBackground, 0, 0, w.Width, w.Height)
	b.rect(PaintShoulder, w.RoadLeft-ShoulderWidth, 0, ShoulderWidth, w.Height)
	b.rect(PaintShoulder, w.RoadRight(), 0, ShoulderWidth, w.Height)
	b.rect(PaintRoad, w.RoadLeft, 0, w.RoadWidth, w.Height)

	period := DashLength + DashGap
	start := math.Mod(distance*DashScroll, period) - period
	for lane := 1; lane < object.LaneCount; lane++ {
		x := w.RoadLeft + w.LaneWidth*float64(lane) - LaneLineWidth/2
		for y := start; y < w.Height; y += period {
			b.rect(PaintLane, x, y, LaneLineWidth, DashLength)
		}
	}

	b.rect(PaintEdge, w.RoadLeft-EdgeWidth/2, 0, EdgeWidth, w.Height)
	b.rect(PaintEdge, w.RoadRight()-EdgeWidth/2, 0, EdgeWidth, w.Height)
}

// streaks are the speed lines drifting down the whole viewport.
func (b *Builder) streaks(w object.World, distance float64) {
	if w.Width <= 0 || w.Height <= 0 {
		return
	}
	for i := 0; i < StreakCount; i++ {
		x := math.Mod(float64(i)*StreakSpacing, w.Width)
		y := math.Mod(distance*StreakScroll+float64(i)*StreakStagger, w.Height)
		t := y / w.Height
		b.rect(PaintStreak, x, y, 2+t*2, 12+t*10)
	}
}

func (b *Builder) obstacle(e *object.Entity) {
	b.centeredRect(PaintObstacle, e.X, e.Y, e.Width, e.Height)
	b.centeredRect(PaintObstacleRim, e.X, e.Y, e.Width-obstacleRim, e.Height-obstacleRim)
	b.centeredRect(PaintObstacle, e.X, e.Y, e.Width-3*obstacleRim, e.Height-3*obstacleRim)
}

func (b *Builder) coin(e *object.Entity) {
	b.shapes = append(b.shapes,
		Shape{Kind: ShapeCircle, Paint: PaintCoinRim, X: e.X, Y: e.Y, R: e.Radius + coinRim},
		Shape{Kind: ShapeCircle, Paint: PaintCoin, X: e.X, Y: e.Y, R: e.Radius},
	)
}

func (b *Builder) extender(e *object.Entity) {
	w, h := e.Width, e.Height
	b.centeredRect(PaintExtender, e.X, e.Y, w, h)
	b.centeredRect(PaintExtenderMark, e.X, e.Y, w/3, h*0.66)
	b.centeredRect(PaintExtenderMark, e.X, e.Y, w*0.66, h/3)
}

// car draws the player as a tapered body tilted by its lean.
func (b *Builder) car(p *object.Player) {
	w, h := p.Width, p.Height
	sin, cos := math.Sincos(p.Lean())
	poly := func(paint Paint, local ...draw.Point) {
		start := len(b.points)
		for _, pt := range local {
			b.points = append(b.points, draw.Point{
				X: p.X + pt.X*cos - pt.Y*sin,
				Y: p.Y + pt.X*sin + pt.Y*cos,
			})
		}
		b.shapes = append(b.shapes, Shape{Kind: ShapePolygon, Paint: paint, Points: b.points[start:len(b.points):len(b.points)]})
	}
	box := func(paint Paint, x, y, bw, bh float64) {
		poly(paint, draw.Point{X: x, Y: y}, draw.Point{X: x + bw, Y: y}, draw.Point{X: x + bw, Y: y + bh}, draw.Point{X: x, Y: y + bh})
	}

	mid := w * 5 / 12
	poly(PaintCarFront,
		draw.Point{X: -w / 3, Y: -h / 2}, draw.Point{X: w / 3, Y: -h / 2},
		draw.Point{X: mid, Y: 0}, draw.Point{X: -mid, Y: 0})
	poly(PaintCarRear,
		draw.Point{X: -mid, Y: 0}, draw.Point{X: mid, Y: 0},
		draw.Point{X: w / 2, Y: h / 2}, draw.Point{X: -w / 2, Y: h / 2})
	poly(PaintWindshield,
		draw.Point{X: -w / 4, Y: -h / 4}, draw.Point{X: 0, Y: -h/2 + 8}, draw.Point{X: w / 4, Y: -h / 4})
	box(PaintWheel, -w/2-6, -h/4, 8, h*0.7)
	box(PaintWheel, w/2-2, -h/4, 8, h*0.7)
	box(PaintHighlight, -w/2+8, -h/2+10, 6, h-20)
}
