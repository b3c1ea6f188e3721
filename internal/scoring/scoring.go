// Package scoring provides the score sources behind the mock analyzer.
package scoring

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/pentrust/internal/model"
)

// ScoreSource draws scores and categorical choices for an identifier.
type ScoreSource interface {
	// Score draws a value for field f of id within r.
	Score(id model.PageIdentifier, f model.Field, r model.Range) int
	// Choose picks an index into weights for the named categorical attribute.
	Choose(id model.PageIdentifier, name string, weights []float64) int
}

// Modes accepted by New.
const (
	ModeStable = "stable"
	ModeRandom = "random"
)

// New returns the source for a configured mode.
func New(mode string, seed int64) (ScoreSource, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeStable:
		return NewStable(seed), nil
	case ModeRandom:
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q (use %s or %s)", mode, ModeStable, ModeRandom)
	}
}

// Random draws uniformly from a shared pseudorandom generator.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandom returns a Random source. A zero seed uses the current time.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rnd: rand.New(rand.NewSource(seed))}
}

// Score implements ScoreSource.
func (s *Random) Score(_ model.PageIdentifier, _ model.Field, r model.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.Min + s.rnd.Intn(r.Max-r.Min+1)
}

// Choose implements ScoreSource.
func (s *Random) Choose(_ model.PageIdentifier, _ string, weights []float64) int {
	s.mu.Lock()
	u := s.rnd.Float64()
	s.mu.Unlock()
	return pickWeighted(weights, u)
}

// Stable derives every draw from a hash of the seed, identifier and field,
// so an identifier scores the same on every run.
type Stable struct {
	seed int64
}

// NewStable returns a Stable source.
func NewStable(seed int64) *Stable {
	return &Stable{seed: seed}
}

// Score implements ScoreSource.
func (s *Stable) Score(id model.PageIdentifier, f model.Field, r model.Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	h := s.hash(id, string(f))
	return r.Min + int(h%uint64(r.Max-r.Min+1))
}

// Choose implements ScoreSource.
func (s *Stable) Choose(id model.PageIdentifier, name string, weights []float64) int {
	h := s.hash(id, name)
	u := float64(h>>11) / float64(1<<53)
	return pickWeighted(weights, u)
}

func (s *Stable) hash(id model.PageIdentifier, name string) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d\x00%s\x00%s", s.seed, name, id)
	return h.Sum64()
}

// Fixed returns preset scores regardless of identifier.
type Fixed struct {
	Scores model.Scores
	Choice int
}

// Score implements ScoreSource.
func (s Fixed) Score(_ model.PageIdentifier, f model.Field, _ model.Range) int {
	return s.Scores.Get(f)
}

// Choose implements ScoreSource.
func (s Fixed) Choose(_ model.PageIdentifier, _ string, weights []float64) int {
	if s.Choice < 0 || s.Choice >= len(weights) {
		return 0
	}
	return s.Choice
}

// pickWeighted maps u in [0,1) onto an index of weights.
func pickWeighted(weights []float64, u float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	r := u * total
	acc := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}
