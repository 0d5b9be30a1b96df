// Package loop drives a game session in a terminal: the Input → Update → Draw
// cycle, resize handling and the title, game over and server screens.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/velocityridge/internal/draw"
	"github.com/tomz197/velocityridge/internal/game"
	"github.com/tomz197/velocityridge/internal/input"
	"github.com/tomz197/velocityridge/internal/loop/config"
	"github.com/tomz197/velocityridge/internal/loop/server"
	"github.com/tomz197/velocityridge/internal/scene"
)

// Options configures a Client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Hub          server.Hub   // Shared server state; nil for local play
	Game         game.Options // Session options; Store defaults to the hub's per-user store
	Logger       *log.Logger

	// DisconnectIdle ends the client after config.InactivityDisconnectUser
	// seconds without input, warning first.
	DisconnectIdle bool
}

// Client handles rendering and input for one terminal.
type Client struct {
	session      *game.Session
	hub          server.Hub
	handle       *server.ClientHandle
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	builder      scene.Builder
	username     string

	running        bool
	disconnectIdle bool
	lastInput      time.Time
	isInactive     bool
	shuttingDown   bool
	shutdownTimer  float64
	wasPlaying     bool
	bestAtStart    float64
	leaderboard    []server.Standing

	// Last drawn screen, to clear leftovers on transitions
	prevPhase   game.Phase
	prevOverlay bool
	wasInactive bool
	wasShutdown bool
}

// NewClient creates a client reading from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Client{
		hub:            opts.Hub,
		writer:         w,
		inputStream:    input.StartStream(r),
		termSizeFunc:   termSizeFunc,
		logger:         logger,
		username:       opts.Username,
		running:        true,
		disconnectIdle: opts.DisconnectIdle,
		lastInput:      time.Now(),
	}

	gameOpts := opts.Game
	if gameOpts.Logger == nil {
		gameOpts.Logger = logger
	}
	if c.hub != nil {
		c.handle = c.hub.RegisterClient(opts.Username)
		c.leaderboard = c.hub.Leaderboard()
		if gameOpts.Store == nil {
			gameOpts.Store = c.hub.ScoreStore(opts.Username)
		}
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	logicalWidth, logicalHeight := logicalSize(renderWidth, renderHeight)

	c.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, logicalWidth, logicalHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)
	c.session = game.New(logicalWidth, logicalHeight, gameOpts)
	c.prevPhase = c.session.State().Phase
	c.prevOverlay = c.session.OverlayVisible()
	return c
}

// Session returns the game session driven by the client.
func (c *Client) Session() *game.Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits, the input
// closes, the hub shuts down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	if c.hub != nil {
		defer c.hub.UnregisterClient(c.handle.ID)
	}

	lastTime := time.Now()
	for c.running {
		if ctx.Err() != nil {
			break
		}
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput(frameStart)
		c.processServerEvents()
		c.updateScreen()
		c.update(frameStart, delta)

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	// A session cut short still records its best time.
	if c.session.Running() {
		c.session.End()
		c.reportEnd()
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads the frame's input and forwards it to the session.
func (c *Client) processInput(now time.Time) {
	in, closed := input.ReadInput(c.inputStream)
	if closed {
		c.running = false
		return
	}

	if len(in.Pressed) > 0 {
		c.lastInput = now
		c.isInactive = false
	} else if c.disconnectIdle {
		idle := now.Sub(c.lastInput).Seconds()
		if idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting idle client", "user", c.username)
			c.running = false
			return
		}
		c.isInactive = idle > config.InactivityWarnUser
	}

	if in.Quit {
		c.running = false
		return
	}
	if c.shuttingDown {
		return
	}

	if c.session.OverlayVisible() {
		if in.Start || hasPress(in.Mouse) {
			c.startGame()
		}
		return
	}

	steer(c.session, in.Left, input.KeyArrowLeft)
	steer(c.session, in.Right, input.KeyArrowRight)

	for _, ev := range in.Mouse {
		x := c.canvas.TerminalToLogical(ev.Col)
		switch ev.Action {
		case input.MouseDown:
			c.session.PointerDown(x)
		case input.MouseMove:
			c.session.PointerMove(x)
		case input.MouseUp:
			c.session.PointerUp()
		}
	}
}

// steer maps the terminal's hold-timeout keys onto key down/up events.
func steer(s *game.Session, held bool, key string) {
	if held {
		s.KeyDown(key)
	} else {
		s.KeyUp(key)
	}
}

func hasPress(events []input.MouseEvent) bool {
	for _, ev := range events {
		if ev.Action == input.MouseDown {
			return true
		}
	}
	return false
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	if c.handle == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.shuttingDown = true
				c.shutdownTimer = config.ShutdownDisplaySeconds
				if c.session.Running() {
					c.session.End()
				}
			case server.EventLeaderboardChanged:
				c.leaderboard = c.hub.Leaderboard()
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On an actual size change the terminal is cleared and the road rebuilt for
// the new viewport.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth == c.canvas.TerminalWidth() && renderHeight == c.canvas.TerminalHeight() &&
		offsetCol == c.canvas.OffsetCol() && offsetRow == c.canvas.OffsetRow() {
		return
	}

	c.chunkWriter.WriteString("\033[H\033[2J")
	logicalWidth, logicalHeight := logicalSize(renderWidth, renderHeight)
	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetLogicalSize(logicalWidth, logicalHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.canvas.ForceRedraw()
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.session.Resize(logicalWidth, logicalHeight)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(min(termWidth, config.MaxTermWidth), 1)
	renderHeight = max(min(termHeight, config.MaxTermHeight), 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

func logicalSize(cols, rows int) (width, height float64) {
	return float64(cols * config.CellWidth), float64(rows * config.CellHeight)
}

// update advances the session and the shutdown countdown.
func (c *Client) update(now time.Time, delta time.Duration) {
	if c.shuttingDown {
		c.shutdownTimer -= delta.Seconds()
		if c.shutdownTimer <= 0 {
			c.running = false
		}
	}

	c.session.Advance(now)
	if c.wasPlaying && !c.session.Running() {
		c.reportEnd()
	}
}

// startGame starts or restarts the session.
func (c *Client) startGame() {
	input.Reset(c.inputStream)
	c.session.ReleaseKeys()
	c.session.PointerCancel()
	c.bestAtStart = c.session.Best()
	c.session.Start()
	c.wasPlaying = true
}

func (c *Client) reportEnd() {
	c.wasPlaying = false
	if c.hub != nil {
		c.hub.ReportScore(c.handle.ID, c.session.State().MaxTimeAchieved)
	}
}
