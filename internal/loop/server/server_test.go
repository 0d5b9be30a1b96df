package server

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tomz197/velocityridge/internal/score"
)

func TestRegisterAndUnregister(t *testing.T) {
	s := NewServer(nil, 5, nil)
	a := s.RegisterClient("ana")
	b := s.RegisterClient("bo")
	if a.ID == b.ID || a.ID == "" {
		t.Fatalf("client ids not unique: %q %q", a.ID, b.ID)
	}
	if s.Players() != 2 {
		t.Fatalf("Players() = %d, want 2", s.Players())
	}

	s.UnregisterClient(a.ID)
	s.UnregisterClient(a.ID) // second call is a no-op
	if s.Players() != 1 {
		t.Fatalf("Players() = %d, want 1", s.Players())
	}
	if _, ok := <-a.EventsCh; ok {
		t.Fatalf("events channel still open after unregister")
	}
}

func TestScoreKey(t *testing.T) {
	if got := ScoreKey(""); got != score.DefaultKey {
		t.Fatalf("ScoreKey(\"\") = %q", got)
	}
	if got := usernameFromKey(ScoreKey("ana")); got != "ana" {
		t.Fatalf("round trip = %q", got)
	}
	if got := usernameFromKey(score.DefaultKey); got != "anonymous" {
		t.Fatalf("bare key = %q", got)
	}
}

func TestLeaderboardFollowsReports(t *testing.T) {
	db := score.OpenFile(filepath.Join(t.TempDir(), "scores.msgpack"))
	s := NewServer(db, 2, nil)
	if len(s.Leaderboard()) != 0 {
		t.Fatalf("empty board has rows")
	}

	ana := s.RegisterClient("ana")
	bo := s.RegisterClient("bo")
	cy := s.RegisterClient("cy")

	for _, tc := range []struct {
		h    *ClientHandle
		best float64
	}{{ana, 72.4}, {bo, 90.1}, {cy, 61}} {
		if err := s.ScoreStore(tc.h.Username).Save(tc.best); err != nil {
			t.Fatalf("Save: %v", err)
		}
		s.ReportScore(tc.h.ID, tc.best)
	}

	got := s.Leaderboard()
	want := []Standing{{"bo", 90.1}, {"ana", 72.4}}
	if len(got) != len(want) {
		t.Fatalf("Leaderboard() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	select {
	case ev := <-cy.EventsCh:
		if ev.Type != EventLeaderboardChanged {
			t.Fatalf("event = %v, want leaderboard change", ev.Type)
		}
	default:
		t.Fatalf("no leaderboard event delivered")
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := NewServer(nil, 0, nil)
	h := s.RegisterClient("ana")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	if s.Players() != 0 {
		t.Fatalf("client still connected after shutdown")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("shutdown waited for the full timeout")
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s := NewServer(nil, 0, nil)
	s.RegisterClient("stuck")

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Fatalf("shutdown returned after %v, before the timeout", elapsed)
	}
}
