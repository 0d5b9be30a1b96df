package game

// Config holds the tunable rules of a session. The zero value is not useful;
// start from DefaultConfig.
type Config struct {
	BaseTime      float64 // Seconds on the clock at start
	TimeBonus     float64 // Seconds added by an extender
	ImpactPenalty float64 // Seconds lost on an obstacle hit
	CoinDistance  float64 // Distance credited per coin

	BaseSpeed    float64 // Road speed at start, units/s
	MaxSpeed     float64 // Road speed cap
	Acceleration float64 // Road speed gained per elapsed second

	SpawnInterval  float64 // Seconds between obstacle spawns
	ExtendInterval float64 // Seconds between extender spawns
	CoinChance     float64 // Probability a coin accompanies an obstacle

	MaxFrameDelta float64 // Longest frame a single tick may simulate
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		BaseTime:      60,
		TimeBonus:     8,
		ImpactPenalty: 6,
		CoinDistance:  120,

		BaseSpeed:    260,
		MaxSpeed:     520,
		Acceleration: 2.2,

		SpawnInterval:  0.9,
		ExtendInterval: 4.5,
		CoinChance:     0.6,

		MaxFrameDelta: 0.033,
	}
}
