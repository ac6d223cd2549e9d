package hints

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Policy describes how much of an answer is revealed for a grade band.
type Policy struct {
	// Fraction of the answer length revealed.
	Fraction float64
	// MinClues is the floor on the clue count (lowered to 1 for short answers).
	MinClues int
	// FirstProb is the probability that position 0 is among the clues.
	// 1 forces it, 0 leaves position 0 to the uniform draw.
	FirstProb float64
}

// ShortAnswerLen is the longest answer for which the minimum drops to 1.
const ShortAnswerLen = 3

// PolicyFor returns the reveal policy for a grade level.
func PolicyFor(grade int) Policy {
	switch {
	case grade <= 2:
		return Policy{Fraction: 0.55, MinClues: 2, FirstProb: 1}
	case grade <= 4:
		return Policy{Fraction: 0.40, MinClues: 2, FirstProb: 0.7}
	case grade <= 6:
		return Policy{Fraction: 0.28, MinClues: 2, FirstProb: 0.5}
	default:
		return Policy{Fraction: 0.20, MinClues: 2, FirstProb: 0}
	}
}

// Allocator chooses which answer positions are pre-revealed.
type Allocator struct {
	rng *rand.Rand
}

// New creates an Allocator drawing from rng.
func New(rng *rand.Rand) *Allocator {
	return &Allocator{rng: rng}
}

// NewSeeded creates an Allocator with a reproducible random source.
func NewSeeded(seed uint64) *Allocator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// ClueCount returns how many positions to reveal for an answer of the given
// length. The result is always strictly less than length, so the whole
// answer is never revealed.
func ClueCount(length, grade int) int {
	if length <= 1 {
		return 0
	}
	p := PolicyFor(grade)
	minClues := p.MinClues
	if length <= ShortAnswerLen {
		minClues = 1
	}
	n := int(math.Round(p.Fraction * float64(length)))
	n = max(n, minClues)
	return min(n, length-1)
}

// Allocate returns the sorted clue positions for an answer of the given length.
func (a *Allocator) Allocate(length, grade int) []int {
	count := ClueCount(length, grade)
	if count == 0 {
		return nil
	}

	p := PolicyFor(grade)
	clues := make([]int, 0, count)
	includeFirst := p.FirstProb >= 1 || (p.FirstProb > 0 && a.rng.Float64() < p.FirstProb)
	if includeFirst {
		clues = append(clues, 0)
	}

	// Draw the rest uniformly without replacement.
	for _, pos := range a.rng.Perm(length) {
		if len(clues) == count {
			break
		}
		if includeFirst && pos == 0 {
			continue
		}
		clues = append(clues, pos)
	}

	slices.Sort(clues)
	return clues
}

// ForQuestion allocates clues for the hintable question kinds and returns
// nil for every other kind.
func (a *Allocator) ForQuestion(q *quiz.Question, grade int) []int {
	switch q.Kind {
	case quiz.KindFillIn, quiz.KindSyllableOrder:
		return a.Allocate(q.AnswerLength(), grade)
	}
	return nil
}

// ForSession allocates clues for every question, keyed by question ID.
func (a *Allocator) ForSession(questions []quiz.Question, grade int) map[string][]int {
	out := make(map[string][]int, len(questions))
	for i := range questions {
		if clues := a.ForQuestion(&questions[i], grade); len(clues) > 0 {
			out[questions[i].ID] = clues
		}
	}
	return out
}
