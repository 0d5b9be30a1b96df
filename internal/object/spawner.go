package object

// Spawn parameters per entity kind.
const (
	ObstacleMinSize    = 50.0
	ObstacleSizeSpread = 25.0
	ObstacleAspect     = 0.9 // height = size * aspect
	ObstacleSpeedRange = 80.0
	ObstacleSpawnY     = -100.0

	CoinRadius     = 16.0
	CoinSpeedBonus = 80.0
	CoinSpawnY     = -120.0

	ExtenderSize       = 34.0
	ExtenderSpeedBonus = 60.0
	ExtenderSpawnY     = -140.0
)

// Rand is the random source a Spawner draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Spawner creates entities just above the visible road.
type Spawner struct {
	rng       Rand
	baseSpeed float64
}

// NewSpawner creates a spawner whose speeds are relative to baseSpeed.
func NewSpawner(rng Rand, baseSpeed float64) *Spawner {
	return &Spawner{rng: rng, baseSpeed: baseSpeed}
}

// Obstacle creates a roadblock in a random lane with a random size and speed.
func (s *Spawner) Obstacle() Entity {
	lane := s.lane()
	size := ObstacleMinSize + s.rng.Float64()*ObstacleSizeSpread
	return Entity{
		Kind:   KindObstacle,
		Lane:   lane,
		Y:      ObstacleSpawnY,
		Width:  size,
		Height: size * ObstacleAspect,
		Speed:  s.baseSpeed + s.rng.Float64()*ObstacleSpeedRange,
	}
}

// Coin creates a coin in a random lane.
func (s *Spawner) Coin() Entity {
	return Entity{
		Kind:   KindCoin,
		Lane:   s.lane(),
		Y:      CoinSpawnY,
		Radius: CoinRadius,
		Speed:  s.baseSpeed + CoinSpeedBonus,
	}
}

// Extender creates a time extender in a random lane.
func (s *Spawner) Extender() Entity {
	return Entity{
		Kind:   KindExtender,
		Lane:   s.lane(),
		Y:      ExtenderSpawnY,
		Width:  ExtenderSize,
		Height: ExtenderSize,
		Speed:  s.baseSpeed + ExtenderSpeedBonus,
	}
}

// Chance returns true with probability p.
func (s *Spawner) Chance(p float64) bool {
	return s.rng.Float64() < p
}

func (s *Spawner) lane() int {
	return s.rng.IntN(LaneCount)
}
