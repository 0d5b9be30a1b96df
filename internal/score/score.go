// Package score persists the best survival time.
package score

import (
	"math"
	"sync"
)

// DefaultKey is the identifier the high score is stored under.
const DefaultKey = "velocityRidgeHighTime"

// Store loads and saves a single high score. A missing value loads as 0.
type Store interface {
	Load() (float64, error)
	Save(v float64) error
}

// Round returns v rounded to the one-decimal precision scores are kept at.
func Round(v float64) float64 {
	return math.Round(v*10) / 10
}

// Memory is an in-process Store.
type Memory struct {
	mu sync.Mutex
	v  float64
}

// NewMemory creates a Memory store holding v.
func NewMemory(v float64) *Memory {
	return &Memory{v: v}
}

// Load returns the stored value.
func (m *Memory) Load() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v, nil
}

// Save replaces the stored value.
func (m *Memory) Save(v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.v = v
	return nil
}
