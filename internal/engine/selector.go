package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/notnil/chess"
)

// TieBreak picks one index out of n candidates that scored equally. n is
// always >= 1. Implementations must be safe for concurrent use: an orphaned
// reply goroutine from a game that was reset can still be running when the
// next round schedules another one against the same selector.
type TieBreak interface {
	Pick(n int) int
}

// RandomTieBreak picks uniformly at random. The zero value is not usable;
// create one with NewRandomTieBreak.
type RandomTieBreak struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomTieBreak returns a TieBreak seeded from the given seed. Pass the
// same seed to reproduce a game.
func NewRandomTieBreak(seed int64) *RandomTieBreak {
	return &RandomTieBreak{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomTieBreak) Pick(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// FirstTieBreak always picks the first candidate. Useful in tests, where the
// selector must be reproducible.
type FirstTieBreak struct{}

func (FirstTieBreak) Pick(n int) int { return 0 }

// Selector chooses the computer's move: it tries every legal move on a
// scratch successor position, keeps the set that minimizes White's material
// balance, and breaks ties with the configured TieBreak.
type Selector struct {
	tieBreak TieBreak
}

// NewSelector creates a selector. A nil tieBreak gets a time-seeded
// RandomTieBreak.
func NewSelector(tieBreak TieBreak) *Selector {
	if tieBreak == nil {
		tieBreak = NewRandomTieBreak(time.Now().UnixNano())
	}
	return &Selector{tieBreak: tieBreak}
}

// Choose returns one legal move for the side to move, or nil if there are
// none. The caller is expected to have ruled out terminal positions first;
// the position is never mutated (Update returns a fresh successor).
//
// The selector plays the minimizing side: Black wants the White-minus-Black
// balance as low as possible. Scoring is fully deterministic; only the
// final pick among equal-scoring moves consults the tie-break.
func (s *Selector) Choose(pos *chess.Position) *chess.Move {
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil
	}

	var best []*chess.Move
	bestScore := 0
	for _, mv := range moves {
		score := Evaluate(pos.Update(mv))
		switch {
		case len(best) == 0 || score < bestScore:
			bestScore = score
			best = append(best[:0], mv)
		case score == bestScore:
			best = append(best, mv)
		}
	}

	return best[s.tieBreak.Pick(len(best))]
}
