package speaker

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/velocityridge/internal/audio"
)

func TestToneStreamerLengthAndDecay(t *testing.T) {
	rate := beep.SampleRate(1000)
	tone := Tone{Freq: 50, Duration: 100 * time.Millisecond, Gain: 0.5}
	s := NewToneStreamer(tone, rate)

	var all [][2]float64
	buf := make([][2]float64, 16)
	for {
		n, ok := s.Stream(buf)
		all = append(all, buf[:n]...)
		if !ok {
			break
		}
	}
	if len(all) != 100 {
		t.Fatalf("got %d samples, want 100", len(all))
	}

	peak := func(samples [][2]float64) float64 {
		m := 0.0
		for _, v := range samples {
			m = math.Max(m, math.Abs(v[0]))
		}
		return m
	}
	if head, tail := peak(all[:20]), peak(all[80:]); tail >= head {
		t.Fatalf("tone does not decay: head %f tail %f", head, tail)
	}
	if peak(all) > tone.Gain {
		t.Fatalf("tone exceeds its gain")
	}
}

func TestSpeakerWithoutDevice(t *testing.T) {
	sp, err := New()
	if err != nil {
		t.Logf("audio device unavailable (expected in test environment): %v", err)
		return
	}
	sp.Play(audio.CueCollect)
	sp.Close()
	sp.Play(audio.CueImpact)
}
