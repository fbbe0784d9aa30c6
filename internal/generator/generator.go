// Package generator produces human-readable passwords of the form
// <Adjective><separator><Noun><4 digits><symbol>, padded or truncated to
// the requested length, and scores password strength.
package generator

import (
	crand "crypto/rand"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
)

const (
	MinLength     = 8
	MaxLength     = 32
	DefaultLength = 16

	specials = "!@#$%^&*"
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" + specials
)

var (
	adjectives = []string{"Swift", "Bright", "Cosmic", "Electric", "Crystal", "Golden", "Mystic", "Solar", "Lunar", "Quantum"}
	nouns      = []string{"Phoenix", "Dragon", "Thunder", "Mountain", "Ocean", "Forest", "Galaxy", "Nebula", "Comet", "Aurora"}
	separators = []string{".", "-", "_", "@", "#"}
)

// ErrInvalidLength is returned for lengths outside [MinLength, MaxLength].
var ErrInvalidLength = errors.New("password length must be between 8 and 32")

// Rand is the randomness a Generator consumes. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// Generator is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd Rand
}

// New returns a Generator drawing from rnd.
func New(rnd Rand) *Generator {
	return &Generator{rnd: rnd}
}

// NewSeeded returns a deterministic Generator; equal seeds give equal
// password sequences.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

// Default returns a Generator backed by a ChaCha8 stream keyed from
// crypto/rand.
func Default() *Generator {
	var key [32]byte
	_, _ = crand.Read(key[:])
	return New(rand.New(rand.NewChaCha8(key)))
}

// Generate returns a password of exactly length characters.
//
// The word-and-number base is 16 to 22 characters long. Shorter requests
// cut it, possibly in the middle of the number; longer ones are padded from
// the mixed alphabet.
func (g *Generator) Generate(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", ErrInvalidLength
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(MaxLength)
	b.WriteString(g.pick(adjectives))
	b.WriteString(g.pick(separators))
	b.WriteString(g.pick(nouns))
	b.WriteString(strconv.Itoa(1000 + g.rnd.IntN(9000)))
	b.WriteByte(specials[g.rnd.IntN(len(specials))])

	for b.Len() < length {
		b.WriteByte(alphabet[g.rnd.IntN(len(alphabet))])
	}

	return b.String()[:length], nil
}

func (g *Generator) pick(words []string) string {
	return words[g.rnd.IntN(len(words))]
}
