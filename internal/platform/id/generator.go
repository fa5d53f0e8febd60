package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs for players, leagues, teams and games.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	prefix string
	size   int
}

// NewRandomGenerator returns 128-bit hex ids.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: 16}
}

// WithPrefix returns a copy that emits ids like "gm_3f9c...".
func (g *RandomGenerator) WithPrefix(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix, size: g.size}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = 16
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	if g.prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return g.prefix + "_" + hex.EncodeToString(buf), nil
}
