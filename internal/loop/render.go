package loop

import (
	"github.com/tomz197/velocityridge/internal/draw"
	"github.com/tomz197/velocityridge/internal/scene"
)

// terminalPalette maps scene paints to the closest xterm-256 colours.
var terminalPalette = [scene.PaintCount]draw.Color{
	scene.PaintBackground:   232,
	scene.PaintShoulder:     23,
	scene.PaintRoad:         17,
	scene.PaintEdge:         30,
	scene.PaintLane:         44,
	scene.PaintStreak:       24,
	scene.PaintObstacle:     236,
	scene.PaintObstacleRim:  37,
	scene.PaintCoin:         220,
	scene.PaintCoinRim:      178,
	scene.PaintExtender:     51,
	scene.PaintExtenderMark: 233,
	scene.PaintCarFront:     51,
	scene.PaintCarRear:      57,
	scene.PaintWindshield:   233,
	scene.PaintWheel:        232,
	scene.PaintHighlight:    153,
}

// paintScene rasterizes shapes onto the canvas.
func paintScene(canvas *draw.Canvas, shapes []scene.Shape) {
	canvas.Clear(terminalPalette[scene.PaintBackground])
	for i := range shapes {
		s := &shapes[i]
		col := terminalPalette[s.Paint]
		switch s.Kind {
		case scene.ShapeRect:
			canvas.FillRect(s.X, s.Y, s.W, s.H, col)
		case scene.ShapeCircle:
			canvas.FillCircle(s.X, s.Y, s.R, col)
		case scene.ShapePolygon:
			canvas.DrawPolygon(s.Points, col, true)
		}
	}
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen transitions do a full terminal clear so text from the
	// previous screen doesn't persist.
	phase := c.session.State().Phase
	overlay := c.session.OverlayVisible()
	if phase != c.prevPhase || overlay != c.prevOverlay ||
		c.isInactive != c.wasInactive || c.shuttingDown != c.wasShutdown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.prevPhase = phase
		c.prevOverlay = overlay
		c.wasInactive = c.isInactive
		c.wasShutdown = c.shuttingDown
	}

	paintScene(c.canvas, c.builder.Build(c.session.View()))
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}
