package game

import (
	"math"
	"time"

	"github.com/tomz197/velocityridge/internal/audio"
	"github.com/tomz197/velocityridge/internal/object"
	"github.com/tomz197/velocityridge/internal/physics"
)

// Advance ticks the session by the wall-clock time since the previous frame.
// It is the entry point for frame drivers; a stopped session ignores it.
func (s *Session) Advance(now time.Time) {
	if !s.state.Running {
		return
	}
	dt := now.Sub(s.lastFrame).Seconds()
	s.lastFrame = now
	s.Tick(dt)
}

// Speed returns the current road speed. It ramps with elapsed time up to
// the configured cap.
func (s *Session) Speed() float64 {
	return math.Min(s.cfg.BaseSpeed+s.state.Elapsed*s.cfg.Acceleration, s.cfg.MaxSpeed)
}

// Tick advances the simulation by dt seconds. dt is clamped to
// [0, MaxFrameDelta] so a stalled frame cannot teleport entities past the car.
func (s *Session) Tick(dt float64) {
	if !s.state.Running {
		return
	}
	dt = physics.Clamp(dt, 0, s.cfg.MaxFrameDelta)
	st := &s.state

	st.Elapsed += dt
	st.TimeLeft -= dt
	st.Distance += s.Speed() * dt
	s.updateMaxTime()

	s.spawn(dt)

	if x, ok := s.pointer.Take(); ok {
		s.player.SetTarget(x, s.world)
	}
	s.player.Update(dt, s.keys.Intent(), s.world)

	limit := s.world.Height + object.PruneMargin
	for _, pool := range s.pools() {
		pool.Advance(dt, limit)
		pool.Align(s.world)
	}

	s.resolveCollisions()
	s.publish()

	if st.TimeLeft <= 0 {
		st.TimeLeft = 0
		s.End()
	}
}

// spawn accumulates both spawn timers and fires whichever crossed its interval.
func (s *Session) spawn(dt float64) {
	st := &s.state
	st.SpawnTimer += dt
	st.ExtendTimer += dt

	if st.SpawnTimer > s.cfg.SpawnInterval {
		s.obstacles.Add(s.spawner.Obstacle())
		if s.spawner.Chance(s.cfg.CoinChance) {
			s.coins.Add(s.spawner.Coin())
		}
		st.SpawnTimer = 0
	}

	if st.ExtendTimer > s.cfg.ExtendInterval {
		s.extenders.Add(s.spawner.Extender())
		st.ExtendTimer = 0
	}
}

// resolveCollisions checks obstacles, then coins, then extenders against the
// car. Anything that hits is removed from its pool.
func (s *Session) resolveCollisions() {
	box := s.player.Box()
	st := &s.state

	s.obstacles.Filter(func(e *object.Entity) bool {
		if !e.Hits(box) {
			return true
		}
		s.audio.Play(audio.CueImpact)
		st.TimeLeft = math.Max(0, st.TimeLeft-s.cfg.ImpactPenalty)
		s.logger.Debug("obstacle hit", "lane", e.Lane, "timeLeft", FormatSeconds(st.TimeLeft))
		return false
	})

	s.coins.Filter(func(e *object.Entity) bool {
		if !e.Hits(box) {
			return true
		}
		s.audio.Play(audio.CueCollect)
		st.Distance += s.cfg.CoinDistance
		return false
	})

	s.extenders.Filter(func(e *object.Entity) bool {
		if !e.Hits(box) {
			return true
		}
		s.audio.Play(audio.CueExtend)
		st.TimeLeft += s.cfg.TimeBonus
		s.updateMaxTime()
		return false
	})
}

func (s *Session) updateMaxTime() {
	total := s.state.Elapsed + s.state.TimeLeft
	if total > s.state.MaxTimeAchieved {
		s.state.MaxTimeAchieved = total
	}
}

func (s *Session) pools() [3]*object.Pool {
	return [3]*object.Pool{s.obstacles, s.coins, s.extenders}
}
