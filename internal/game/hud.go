package game

import "fmt"

// HUD holds the formatted values shown to the player.
type HUD struct {
	Time     string // Time remaining, e.g. "42.3s"
	Distance string // Distance travelled, e.g. "1.7km"
	Best     string // Persisted best time, e.g. "75.0s"
}

// Display receives HUD updates.
type Display interface {
	ShowHUD(h HUD)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(h HUD)

// ShowHUD calls f(h).
func (f DisplayFunc) ShowHUD(h HUD) {
	f(h)
}

// FormatSeconds formats a time value for the HUD.
func FormatSeconds(v float64) string {
	return fmt.Sprintf("%.1fs", v)
}

// FormatDistance formats a distance in world units as kilometres.
func FormatDistance(v float64) string {
	return fmt.Sprintf("%.1fkm", v/1000)
}

func newHUD(timeLeft, distance, best float64) HUD {
	return HUD{
		Time:     FormatSeconds(timeLeft),
		Distance: FormatDistance(distance),
		Best:     FormatSeconds(best),
	}
}
