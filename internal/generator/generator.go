// Package generator builds randomized question sequences.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuiquiz/internal/model"
)

// Generator picks randomized question subsets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed for reproducible sequences.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns count distinct questions from source in uniformly random order.
// The result is a prefix of a uniform permutation of source; source is not modified.
func (g *Generator) Pick(source []model.Question, count int) ([]model.Question, error) {
	if count < 1 || count > len(source) {
		return nil, &model.InvalidCountError{Requested: count, Max: len(source)}
	}
	shuffled := make([]model.Question, len(source))
	copy(shuffled, source)

	// Partial Fisher-Yates: only the first count slots need to be settled.
	for i := 0; i < count; i++ {
		j := i + g.rnd.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:count:count], nil
}
