// Package desktop runs a session in a window with ebiten. Unlike the terminal
// it gets real key-up events, so steering keys map straight onto the session.
package desktop

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/input"
	"github.com/tomz197/velocityridge/internal/scene"
)

const (
	InitialWidth  = 960
	InitialHeight = 720
)

var steeringKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyArrowLeft, input.KeyArrowLeft},
	{ebiten.KeyArrowRight, input.KeyArrowRight},
	{ebiten.KeyA, input.KeyA},
	{ebiten.KeyD, input.KeyD},
}

// Game implements ebiten.Game around a session.
type Game struct {
	session *game.Session
	builder scene.Builder

	width, height int
	focused       bool
	touchID       ebiten.TouchID
	touching      bool
	bestAtStart   float64

	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

var _ ebiten.Game = (*Game)(nil)

// New creates a window game. The session is sized to the initial window and
// follows it through Layout.
func New(opts game.Options) *Game {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Game{
		session: game.New(InitialWidth, InitialHeight, opts),
		width:   InitialWidth,
		height:  InitialHeight,
		focused: true,
		white:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Session returns the driven session.
func (g *Game) Session() *game.Session {
	return g.session
}

// Update handles input and advances the session.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		if g.session.Running() {
			g.session.End()
		}
		return ebiten.Termination
	}

	// Key-up events are lost while unfocused.
	focused := ebiten.IsFocused()
	if g.focused && !focused {
		g.session.ReleaseKeys()
		g.session.PointerCancel()
		g.touching = false
	}
	g.focused = focused

	g.session.Resize(float64(g.width), float64(g.height))

	if g.session.OverlayVisible() {
		if g.startRequested() {
			g.session.ReleaseKeys()
			g.session.PointerCancel()
			g.bestAtStart = g.session.Best()
			g.session.Start()
		}
		return nil
	}

	for _, k := range steeringKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.session.KeyDown(k.name)
		}
		if inpututil.IsKeyJustReleased(k.key) {
			g.session.KeyUp(k.name)
		}
	}
	g.updatePointer()

	g.session.Advance(time.Now())
	return nil
}

func (g *Game) startRequested() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}

// updatePointer forwards mouse drags and the first touch as pointer events.
func (g *Game) updatePointer() {
	x, _ := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.session.PointerDown(float64(x))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.session.PointerUp()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if x < 0 || x >= g.width {
			g.session.PointerLeave()
		} else {
			g.session.PointerMove(float64(x))
		}
	}

	if !g.touching {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			g.touchID = ids[0]
			g.touching = true
			tx, _ := ebiten.TouchPosition(g.touchID)
			g.session.PointerDown(float64(tx))
		}
		return
	}
	if inpututil.IsTouchJustReleased(g.touchID) {
		g.touching = false
		g.session.PointerUp()
		return
	}
	tx, _ := ebiten.TouchPosition(g.touchID)
	g.session.PointerMove(float64(tx))
}

// Draw paints the frame.
func (g *Game) Draw(screen *ebiten.Image) {
	for _, s := range g.builder.Build(g.session.View()) {
		col := scene.Palette[s.Paint]
		switch s.Kind {
		case scene.ShapeRect:
			vector.DrawFilledRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), col, false)
		case scene.ShapeCircle:
			vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y), float32(s.R), col, true)
		case scene.ShapePolygon:
			g.fillPolygon(screen, s, col)
		}
	}
	g.drawText(screen)
}

func (g *Game) fillPolygon(screen *ebiten.Image, s scene.Shape, col color.RGBA) {
	if len(s.Points) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(s.Points[0].X), float32(s.Points[0].Y))
	for _, p := range s.Points[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	g.vertices, g.indices = path.AppendVerticesAndIndicesForFilling(g.vertices[:0], g.indices[:0])
	r, gr, b, a := float32(col.R)/0xff, float32(col.G)/0xff, float32(col.B)/0xff, float32(col.A)/0xff
	for i := range g.vertices {
		g.vertices[i].SrcX = 1
		g.vertices[i].SrcY = 1
		g.vertices[i].ColorR = r
		g.vertices[i].ColorG = gr
		g.vertices[i].ColorB = b
		g.vertices[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{FillRule: ebiten.FillRuleNonZero, AntiAlias: true}
	screen.DrawTriangles(g.vertices, g.indices, g.white, op)
}

// drawText draws the HUD and, between sessions, the overlay.
func (g *Game) drawText(screen *ebiten.Image) {
	hud := g.session.HUD()
	ebitenutil.DebugPrintAt(screen, "TIME "+hud.Time, 16, 12)
	ebitenutil.DebugPrintAt(screen, "DIST "+hud.Distance, g.width/2-40, 12)
	ebitenutil.DebugPrintAt(screen, "BEST "+hud.Best, g.width-110, 12)

	if !g.session.OverlayVisible() {
		return
	}
	x, y := g.width/2-110, g.height/2-60
	if g.session.State().Phase == game.PhaseEnded {
		st := g.session.State()
		lines := fmt.Sprintf("TIME'S UP\n\nScore:    %s\nDistance: %s\nBest:     %s",
			game.FormatSeconds(st.MaxTimeAchieved), game.FormatDistance(st.Distance), game.FormatSeconds(g.session.Best()))
		if g.session.Best() > g.bestAtStart {
			lines += "\n\nNew best time!"
		}
		ebitenutil.DebugPrintAt(screen, lines+"\n\nSPACE or click to restart", x, y)
		return
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"VELOCITY RIDGE\n\nOutrun the clock.\nA D or arrows steer, drag with the mouse.\n\nBest time: %s\n\nSPACE or click to start",
		game.FormatSeconds(g.session.Best())), x, y)
}

// Layout keeps one logical unit per device-independent pixel; the session is
// resized on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width = max(outsideWidth, 1)
	g.height = max(outsideHeight, 1)
	return g.width, g.height
}
