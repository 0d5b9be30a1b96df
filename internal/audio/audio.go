// Package audio plays the short cues that accompany pickups and crashes.
// Playback is fire-and-forget: a missing or failing audio device never
// interrupts the game.
package audio

import "io"

// Cue names a sound effect.
type Cue string

const (
	CueCollect Cue = "collect"
	CueExtend  Cue = "extend"
	CueImpact  Cue = "impact"
)

// Player plays cues.
type Player interface {
	Play(cue Cue)
}

// Nop discards every cue.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// Bell rings the terminal bell on impacts. Used for remote terminals, where
// the host's speaker is not the player's.
type Bell struct {
	w io.Writer
}

// NewBell creates a bell that writes to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play writes BEL for impact cues and ignores the others.
func (b *Bell) Play(cue Cue) {
	if b == nil || b.w == nil || cue != CueImpact {
		return
	}
	_, _ = io.WriteString(b.w, "\a")
}
