package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque tokens suitable for external references such as
// session identifiers.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	byteLen int
}

// NewRandomGenerator returns a generator producing hex tokens from byteLen
// random bytes; byteLen < 16 is raised to 16.
func NewRandomGenerator(byteLen int) *RandomGenerator {
	if byteLen < 16 {
		byteLen = 16
	}
	return &RandomGenerator{byteLen: byteLen}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
