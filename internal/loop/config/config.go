// Package config centralizes the terminal front end's tunables.
package config

import "time"

// Logical units per terminal cell. Road, car and entity sizes are defined in
// logical units, so a terminal of W×H cells plays on a W*CellWidth by
// H*CellHeight viewport.
const (
	CellWidth  = 8
	CellHeight = 24
)

// Max render resolution in terminal cells. Larger terminals get a centered,
// bordered play area instead of a bigger road.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 40
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Leaderboard
const (
	LeaderboardSize = 5
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
