package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/tomz197/velocityridge/internal/audio"
	"github.com/tomz197/velocityridge/internal/input"
	"github.com/tomz197/velocityridge/internal/object"
	"github.com/tomz197/velocityridge/internal/score"
)

const eps = 1e-9

type cueRecorder struct {
	cues []audio.Cue
}

func (r *cueRecorder) Play(c audio.Cue) {
	r.cues = append(r.cues, c)
}

func (r *cueRecorder) count(c audio.Cue) int {
	n := 0
	for _, got := range r.cues {
		if got == c {
			n++
		}
	}
	return n
}

type failingStore struct{}

func (failingStore) Load() (float64, error) { return 0, errors.New("disk on fire") }
func (failingStore) Save(float64) error     { return errors.New("disk on fire") }

func quietConfig() *Config {
	cfg := DefaultConfig()
	cfg.SpawnInterval = math.Inf(1)
	cfg.ExtendInterval = math.Inf(1)
	return &cfg
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(42, 42))
	}
	return New(800, 600, opts)
}

// entityOnPlayer places an entity in the player's lane at the player's row.
func entityOnPlayer(s *Session, e object.Entity) object.Entity {
	e.Lane = 1
	e.Y = s.Player().Y
	e.X = s.World().LaneCenter(1)
	return e
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newTestSession(t, Options{Store: score.NewMemory(42.5)})
	st := s.State()
	if st.Running || st.Phase != PhaseIdle {
		t.Fatalf("new session state = %+v", st)
	}
	if !s.OverlayVisible() {
		t.Fatalf("overlay hidden before start")
	}
	if got := s.HUD(); got != (HUD{Time: "60.0s", Distance: "0.0km", Best: "42.5s"}) {
		t.Fatalf("HUD = %+v", got)
	}

	// Ticks before Start are ignored.
	s.Tick(0.016)
	if s.State() != st {
		t.Fatalf("idle session ticked: %+v", s.State())
	}
}

func TestObstacleHit(t *testing.T) {
	rec := &cueRecorder{}
	s := newTestSession(t, Options{Audio: rec})
	s.Start()
	s.state.TimeLeft = 10
	s.obstacles.Add(entityOnPlayer(s, object.Entity{
		Kind: object.KindObstacle, Width: 60, Height: 54, Speed: 260,
	}))

	s.Tick(0.016)

	if got := s.State().TimeLeft; math.Abs(got-3.984) > 1e-6 {
		t.Fatalf("TimeLeft = %f, want 3.984", got)
	}
	if n := rec.count(audio.CueImpact); n != 1 {
		t.Fatalf("impact cue played %d times, want 1", n)
	}
	if s.obstacles.Len() != 0 {
		t.Fatalf("obstacle still collidable after hit")
	}

	s.Tick(0.016)
	if n := rec.count(audio.CueImpact); n != 1 {
		t.Fatalf("impact cue played again: %d", n)
	}
}

func TestObstacleHitNeverGoesNegative(t *testing.T) {
	s := newTestSession(t, Options{})
	s.Start()
	s.state.TimeLeft = 2
	s.obstacles.Add(entityOnPlayer(s, object.Entity{
		Kind: object.KindObstacle, Width: 60, Height: 54, Speed: 260,
	}))

	s.Tick(0.016)

	st := s.State()
	if st.TimeLeft != 0 {
		t.Fatalf("TimeLeft = %f, want 0", st.TimeLeft)
	}
	if st.Running || st.Phase != PhaseEnded {
		t.Fatalf("session should have ended: %+v", st)
	}
}

func TestCoinAndExtenderPickups(t *testing.T) {
	rec := &cueRecorder{}
	s := newTestSession(t, Options{Audio: rec, Config: quietConfig()})
	s.Start()
	s.coins.Add(entityOnPlayer(s, object.Entity{Kind: object.KindCoin, Radius: 16, Speed: 340}))
	s.extenders.Add(entityOnPlayer(s, object.Entity{Kind: object.KindExtender, Width: 34, Height: 34, Speed: 320}))

	s.Tick(0.02)

	st := s.State()
	// speed ramps before distance accrues
	wantDistance := (260+2.2*0.02)*0.02 + 120
	if math.Abs(st.Distance-wantDistance) > 1e-6 {
		t.Fatalf("Distance = %f, want %f", st.Distance, wantDistance)
	}
	if math.Abs(st.TimeLeft-(60-0.02+8)) > 1e-6 {
		t.Fatalf("TimeLeft = %f, want %f", st.TimeLeft, 60-0.02+8)
	}
	if math.Abs(st.MaxTimeAchieved-68) > 1e-6 {
		t.Fatalf("MaxTimeAchieved = %f, want 68", st.MaxTimeAchieved)
	}
	want := []audio.Cue{audio.CueCollect, audio.CueExtend}
	if len(rec.cues) != 2 || rec.cues[0] != want[0] || rec.cues[1] != want[1] {
		t.Fatalf("cues = %v, want %v", rec.cues, want)
	}
	if s.coins.Len() != 0 || s.extenders.Len() != 0 {
		t.Fatalf("pickups not consumed")
	}
}

func TestSessionCompletes(t *testing.T) {
	s := newTestSession(t, Options{Config: quietConfig()})
	s.Start()

	ticks := 0
	for s.Running() && ticks < 5000 {
		s.Tick(0.033)
		ticks++
	}

	want := int(math.Ceil(60 / 0.033))
	if ticks < want-1 || ticks > want+1 {
		t.Fatalf("session ended after %d ticks, want %d±1", ticks, want)
	}
	st := s.State()
	if st.Running || st.Phase != PhaseEnded || st.TimeLeft != 0 {
		t.Fatalf("final state = %+v", st)
	}
	if !s.OverlayVisible() {
		t.Fatalf("overlay not shown after end")
	}
	if s.HUD().Time != "0.0s" {
		t.Fatalf("HUD time = %q", s.HUD().Time)
	}

	// No gameplay after the end.
	s.Tick(0.033)
	if s.State() != st {
		t.Fatalf("ended session kept ticking")
	}
}

func TestTimerOnlyRisesWithExtenders(t *testing.T) {
	rec := &cueRecorder{}
	s := newTestSession(t, Options{Audio: rec, Rand: rand.New(rand.NewPCG(3, 9))})
	s.Start()
	// Sweep the car across the road so it runs into things.
	for i := 0; s.Running() && i < 4000; i++ {
		if (i/60)%2 == 0 {
			s.KeyDown(input.KeyArrowLeft)
			s.KeyUp(input.KeyArrowRight)
		} else {
			s.KeyUp(input.KeyArrowLeft)
			s.KeyDown(input.KeyArrowRight)
		}
		before := s.State()
		extends := rec.count(audio.CueExtend)
		s.Tick(0.033)
		after := s.State()

		if after.TimeLeft < 0 {
			t.Fatalf("tick %d: TimeLeft %f below zero", i, after.TimeLeft)
		}
		if after.MaxTimeAchieved < before.MaxTimeAchieved {
			t.Fatalf("tick %d: MaxTimeAchieved decreased", i)
		}
		if after.TimeLeft > before.TimeLeft && rec.count(audio.CueExtend) == extends {
			t.Fatalf("tick %d: TimeLeft rose %f -> %f without an extender", i, before.TimeLeft, after.TimeLeft)
		}
		if after.Running != (after.TimeLeft > 0) {
			t.Fatalf("tick %d: running=%v with TimeLeft %f", i, after.Running, after.TimeLeft)
		}
	}
}

func TestHighScoreNeverDecreases(t *testing.T) {
	store := score.NewMemory(0)
	cfg := quietConfig()
	cfg.BaseTime = 3
	s := newTestSession(t, Options{Store: store, Config: cfg})

	run := func(bonus bool) {
		s.Start()
		if bonus {
			s.extenders.Add(entityOnPlayer(s, object.Entity{Kind: object.KindExtender, Width: 34, Height: 34}))
		}
		for s.Running() {
			s.Tick(0.033)
		}
	}

	run(true) // reaches ~11s thanks to the extender
	first, _ := store.Load()
	if first < 10.9 {
		t.Fatalf("first best = %f, want ~11", first)
	}

	run(false) // only ~3s
	second, _ := store.Load()
	if second != first {
		t.Fatalf("best changed from %f to %f after a worse session", first, second)
	}
	if s.Best() != first || s.HUD().Best != FormatSeconds(first) {
		t.Fatalf("session best = %f, HUD best = %q", s.Best(), s.HUD().Best)
	}
}

func TestEndSurvivesStoreFailures(t *testing.T) {
	s := newTestSession(t, Options{Store: failingStore{}, Config: quietConfig()})
	if s.Best() != 0 {
		t.Fatalf("failed load should read as 0, got %f", s.Best())
	}
	s.Start()
	s.End()
	if s.Running() || !s.OverlayVisible() {
		t.Fatalf("End did not stop the session")
	}
	if math.Abs(s.Best()-60) > eps {
		t.Fatalf("Best = %f, want 60", s.Best())
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s := newTestSession(t, Options{})
	s.Start()
	for i := 0; i < 200; i++ {
		s.Tick(0.033)
	}

	s.Reset()
	first := s.View()
	firstPlayer := *s.Player()
	s.Reset()
	second := s.View()

	if first.State != second.State {
		t.Fatalf("state differs: %+v vs %+v", first.State, second.State)
	}
	if firstPlayer != *s.Player() {
		t.Fatalf("player differs after second reset")
	}
	if len(second.Obstacles)+len(second.Coins)+len(second.Extenders) != 0 {
		t.Fatalf("entities survived reset")
	}
	if first.HUD != second.HUD {
		t.Fatalf("HUD differs: %+v vs %+v", first.HUD, second.HUD)
	}
	if second.State.Running || second.State.Phase != PhaseIdle {
		t.Fatalf("reset left session %+v", second.State)
	}
}

func TestSpawnCadence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CoinChance = 1
	s := newTestSession(t, Options{Config: &cfg})
	s.Start()
	// Park the car on the far left so nothing in the outer lanes is consumed.
	s.PointerDown(0)

	// 0.91s of ticks crosses the spawn interval exactly once.
	for i := 0; i < 91; i++ {
		s.Tick(0.01)
	}
	if n := s.obstacles.Len(); n != 1 {
		t.Fatalf("obstacles = %d, want 1", n)
	}
	if n := s.coins.Len(); n != 1 {
		t.Fatalf("coins = %d, want 1", n)
	}
	if s.State().SpawnTimer > 0.02 {
		t.Fatalf("spawn timer not reset: %f", s.State().SpawnTimer)
	}
	if s.extenders.Len() != 0 {
		t.Fatalf("extender spawned early")
	}
}

func TestSpeedRampsAndCaps(t *testing.T) {
	s := newTestSession(t, Options{Config: quietConfig()})
	s.Start()
	if s.Speed() != 260 {
		t.Fatalf("initial speed %f", s.Speed())
	}
	s.state.Elapsed = 50
	if math.Abs(s.Speed()-370) > eps {
		t.Fatalf("speed at 50s = %f, want 370", s.Speed())
	}
	s.state.Elapsed = 1000
	if s.Speed() != 520 {
		t.Fatalf("speed not capped: %f", s.Speed())
	}
}

func TestAdvanceClampsWallClock(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newTestSession(t, Options{Config: quietConfig(), Now: func() time.Time { return now }})
	s.Start()

	s.Advance(now.Add(16 * time.Millisecond))
	if got := s.State().Elapsed; math.Abs(got-0.016) > 1e-9 {
		t.Fatalf("Elapsed = %f, want 0.016", got)
	}

	// A tab-resume sized gap simulates one capped frame only.
	s.Advance(now.Add(10 * time.Second))
	if got := s.State().Elapsed; math.Abs(got-(0.016+0.033)) > 1e-9 {
		t.Fatalf("Elapsed = %f, want 0.049", got)
	}
}

func TestPointerAndKeysShareTarget(t *testing.T) {
	s := newTestSession(t, Options{Config: quietConfig()})
	s.Start()
	w := s.World()

	s.PointerDown(1e6)
	s.Tick(0.016)
	if got, want := s.Player().TargetX, w.RoadRight()-object.PlayerMargin; got != want {
		t.Fatalf("TargetX = %f, want %f", got, want)
	}
	s.PointerUp()

	s.KeyDown(input.KeyA)
	s.Tick(0.016)
	want := w.RoadRight() - object.PlayerMargin - object.PlayerSpeed*0.016
	if got := s.Player().TargetX; math.Abs(got-want) > 1e-9 {
		t.Fatalf("TargetX = %f, want %f", got, want)
	}
	if s.KeyDown("Escape") {
		t.Fatalf("unrecognized key accepted")
	}
}

func TestResizeKeepsEntitiesInLane(t *testing.T) {
	s := newTestSession(t, Options{Config: quietConfig()})
	s.Start()
	s.obstacles.Add(object.Entity{Kind: object.KindObstacle, Lane: 2, Y: 10, Width: 60, Height: 54})

	s.Resize(1200, 900)
	w := s.World()
	if w.Width != 1200 || w.Height != 900 {
		t.Fatalf("world not resized: %+v", w)
	}
	if got := s.obstacles.Items()[0].X; got != w.LaneCenter(2) {
		t.Fatalf("obstacle x = %f, want %f", got, w.LaneCenter(2))
	}
	p := s.Player()
	if p.Y != 900*object.PlayerRowRatio || p.X != w.ClampX(p.X) {
		t.Fatalf("player not refit: %+v", *p)
	}
}

func TestDisplayReceivesHUD(t *testing.T) {
	var got []HUD
	s := newTestSession(t, Options{
		Config:  quietConfig(),
		Display: DisplayFunc(func(h HUD) { got = append(got, h) }),
	})
	s.Start()
	s.Tick(0.033)

	if len(got) < 3 {
		t.Fatalf("display received %d updates, want at least 3", len(got))
	}
	last := got[len(got)-1]
	if last.Time != "60.0s" || last.Distance != "0.0km" {
		t.Fatalf("last HUD = %+v", last)
	}
}
