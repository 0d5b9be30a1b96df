// Package game runs the simulation: spawning, movement, collisions, the
// countdown economy and the start/end lifecycle of a session.
package game

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/velocityridge/internal/audio"
	"github.com/tomz197/velocityridge/internal/input"
	"github.com/tomz197/velocityridge/internal/object"
	"github.com/tomz197/velocityridge/internal/score"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseIdle    Phase = iota // Waiting for the first start, overlay shown
	PhaseRunning              // Ticking
	PhaseEnded                // Clock ran out, overlay shown until restart
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// State is the mutable part of a session that Reset re-initializes.
type State struct {
	Running         bool
	Phase           Phase
	TimeLeft        float64 // Countdown, seconds
	Elapsed         float64 // Seconds since start
	Distance        float64 // World units travelled, plus coin bonuses
	MaxTimeAchieved float64 // High-water mark of Elapsed+TimeLeft; the score
	SpawnTimer      float64 // Accumulator toward the next obstacle spawn
	ExtendTimer     float64 // Accumulator toward the next extender spawn
}

// Options configures a Session. Every field is optional.
type Options struct {
	Config  *Config
	Rand    object.Rand
	Audio   audio.Player
	Store   score.Store
	Display Display
	Logger  *log.Logger
	Now     func() time.Time // Wall clock used by Start and Advance
}

// Session owns everything one player's game needs. It is not safe for
// concurrent use: a single driver goroutine calls Tick/Advance and the input
// methods between frames.
type Session struct {
	cfg     Config
	world   object.World
	player  *object.Player
	state   State
	spawner *object.Spawner

	obstacles *object.Pool
	coins     *object.Pool
	extenders *object.Pool

	keys    input.Keys
	pointer input.Pointer

	audio   audio.Player
	store   score.Store
	display Display
	logger  *log.Logger
	now     func() time.Time

	lastFrame time.Time
	best      float64
	hud       HUD
	overlay   bool
}

// New creates an idle session for a viewport of the given size.
func New(width, height float64, opts Options) *Session {
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	cues := opts.Audio
	if cues == nil {
		cues = audio.Nop{}
	}
	store := opts.Store
	if store == nil {
		store = score.NewMemory(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	world := object.Configure(width, height)
	s := &Session{
		cfg:       cfg,
		world:     world,
		player:    object.NewPlayer(world),
		spawner:   object.NewSpawner(rng, cfg.BaseSpeed),
		obstacles: object.NewPool(object.KindObstacle),
		coins:     object.NewPool(object.KindCoin),
		extenders: object.NewPool(object.KindExtender),
		audio:     cues,
		store:     store,
		display:   opts.Display,
		logger:    logger,
		now:       now,
		overlay:   true,
	}
	s.best = s.loadBest()
	s.Reset()
	return s
}

// Reset returns the session to Idle with a full clock and empty road.
// Calling it twice in a row leaves the same state both times.
func (s *Session) Reset() {
	s.state = State{
		Running:         false,
		Phase:           PhaseIdle,
		TimeLeft:        s.cfg.BaseTime,
		MaxTimeAchieved: s.cfg.BaseTime,
	}
	s.obstacles.Clear()
	s.coins.Clear()
	s.extenders.Clear()
	s.pointer.Take() // targets aimed before the start are stale

	s.world = object.Configure(s.world.Width, s.world.Height)
	s.player.Center(s.world)
	s.publish()
}

// Start resets the session and begins ticking from the current wall clock.
func (s *Session) Start() {
	s.Reset()
	s.state.Running = true
	s.state.Phase = PhaseRunning
	s.lastFrame = s.now()
	s.overlay = false
	s.logger.Info("session started", "best", FormatSeconds(s.best))
}

// End stops the session and persists the best time.
// No further ticks are processed until Start is called again.
func (s *Session) End() {
	s.state.Running = false
	s.state.Phase = PhaseEnded

	stored := s.loadBest()
	best := max(stored, s.state.MaxTimeAchieved)
	if best > stored {
		if err := s.store.Save(best); err != nil {
			s.logger.Warn("saving high score failed", "err", err)
		} else {
			s.logger.Info("new best time", "best", FormatSeconds(best), "previous", FormatSeconds(stored))
		}
	}
	s.best = best

	s.publish()
	s.overlay = true
	s.logger.Info("session ended",
		"score", FormatSeconds(s.state.MaxTimeAchieved),
		"distance", FormatDistance(s.state.Distance),
		"elapsed", FormatSeconds(s.state.Elapsed))
}

// Resize recomputes the road for a new viewport. Player bounds and entity
// positions move with it in the same step.
func (s *Session) Resize(width, height float64) {
	if width == s.world.Width && height == s.world.Height {
		return
	}
	s.world = object.Configure(width, height)
	s.player.Fit(s.world)
	s.obstacles.Align(s.world)
	s.coins.Align(s.world)
	s.extenders.Align(s.world)
}

// KeyDown records a held steering key. Unknown keys are ignored.
func (s *Session) KeyDown(name string) bool {
	return s.keys.Down(name)
}

// KeyUp releases a steering key. Unknown keys are ignored.
func (s *Session) KeyUp(name string) bool {
	return s.keys.Up(name)
}

// ReleaseKeys releases every steering key.
func (s *Session) ReleaseKeys() {
	s.keys.Reset()
}

// PointerDown starts a drag at viewport x.
func (s *Session) PointerDown(x float64) {
	s.pointer.Down(x)
}

// PointerMove steers toward x while a drag is in progress.
func (s *Session) PointerMove(x float64) {
	s.pointer.Move(x)
}

// PointerUp ends a drag. PointerCancel and PointerLeave behave the same.
func (s *Session) PointerUp() {
	s.pointer.Up()
}

// PointerCancel ends a drag.
func (s *Session) PointerCancel() {
	s.pointer.Up()
}

// PointerLeave ends a drag.
func (s *Session) PointerLeave() {
	s.pointer.Up()
}

// State returns a copy of the session state.
func (s *Session) State() State {
	return s.state
}

// Running reports whether the session is ticking.
func (s *Session) Running() bool {
	return s.state.Running
}

// World returns the current road geometry.
func (s *Session) World() object.World {
	return s.world
}

// Player returns the player car.
func (s *Session) Player() *object.Player {
	return s.player
}

// HUD returns the most recently published HUD values.
func (s *Session) HUD() HUD {
	return s.hud
}

// Best returns the best time known to the session.
func (s *Session) Best() float64 {
	return s.best
}

// OverlayVisible reports whether the start/restart overlay should be shown.
func (s *Session) OverlayVisible() bool {
	return s.overlay
}

// Config returns the rules in effect.
func (s *Session) Config() Config {
	return s.cfg
}

// View is a read-only frame of the session for renderers. Entity slices are
// only valid until the next tick.
type View struct {
	World     object.World
	Player    object.Player
	Obstacles []object.Entity
	Coins     []object.Entity
	Extenders []object.Entity
	State     State
	HUD       HUD
	Best      float64
	Overlay   bool
}

// View captures the current frame.
func (s *Session) View() View {
	return View{
		World:     s.world,
		Player:    *s.player,
		Obstacles: s.obstacles.Items(),
		Coins:     s.coins.Items(),
		Extenders: s.extenders.Items(),
		State:     s.state,
		HUD:       s.hud,
		Best:      s.best,
		Overlay:   s.overlay,
	}
}

func (s *Session) loadBest() float64 {
	v, err := s.store.Load()
	if err != nil {
		s.logger.Warn("loading high score failed", "err", err)
		return 0
	}
	return v
}

func (s *Session) publish() {
	s.hud = newHUD(s.state.TimeLeft, s.state.Distance, s.best)
	if s.display != nil {
		s.display.ShowHUD(s.hud)
	}
}
