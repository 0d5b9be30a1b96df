// Package speaker plays audio cues on the local sound device through beep.
// It links the native audio backend, so only local frontends import it.
package speaker

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	device "github.com/gopxl/beep/speaker"

	"github.com/tomz197/velocityridge/internal/audio"
)

const (
	sampleRate = beep.SampleRate(44100)
	// Gain the envelope decays to by the end of a tone.
	toneFloor = 0.0001
)

// Tone is a decaying sine wave.
type Tone struct {
	Freq     float64       // Hz
	Duration time.Duration // Time to decay to the floor
	Gain     float64       // Starting amplitude
}

// DefaultTones maps every cue to its tone.
var DefaultTones = map[audio.Cue]Tone{
	audio.CueCollect: {Freq: 620, Duration: 200 * time.Millisecond, Gain: 0.08},
	audio.CueExtend:  {Freq: 420, Duration: 350 * time.Millisecond, Gain: 0.1},
	audio.CueImpact:  {Freq: 180, Duration: 250 * time.Millisecond, Gain: 0.12},
}

// Speaker is an audio.Player backed by the local audio device.
type Speaker struct {
	mu          sync.Mutex
	tones       map[audio.Cue]Tone
	initialized bool
}

// New opens the audio device. The error is non-nil when no device is
// available; callers usually fall back to audio.Nop.
func New() (*Speaker, error) {
	if err := device.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	return &Speaker{tones: DefaultTones, initialized: true}, nil
}

var _ audio.Player = (*Speaker)(nil)

// Play starts the cue's tone and returns immediately.
func (s *Speaker) Play(cue audio.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	tone, ok := s.tones[cue]
	if !ok {
		return
	}
	device.Play(NewToneStreamer(tone, sampleRate))
}

// Close stops playback. Play is a no-op afterwards.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	device.Clear()
	s.initialized = false
}

// NewToneStreamer renders t as a finite stereo streamer.
func NewToneStreamer(t Tone, rate beep.SampleRate) beep.Streamer {
	total := rate.N(t.Duration)
	dur := t.Duration.Seconds()
	step := 2 * math.Pi * t.Freq / float64(rate)
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			elapsed := float64(pos) / float64(rate)
			// exponential ramp from Gain to toneFloor over the duration
			env := t.Gain * math.Pow(toneFloor/t.Gain, elapsed/dur)
			v := math.Sin(step*float64(pos)) * env
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return len(samples), true
	})
}
