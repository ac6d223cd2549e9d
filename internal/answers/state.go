package answers

import (
	"errors"
	"maps"
	"slices"

	"github.com/abhisek/seatwork/internal/quiz"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrFrozen          = errors.New("answer is frozen")
	ErrWrongKind       = errors.New("operation does not apply to this question type")
	ErrSlotOutOfRange  = errors.New("slot out of range")
	ErrHintSlot        = errors.New("hint slots cannot be changed")
	ErrNotInPool       = errors.New("value not available in pool")
	ErrUnknownCategory = errors.New("unknown category")
	ErrRightTaken      = errors.New("right item already matched")
)

// Mutation changes a private copy of one answer. Returning an error
// discards the copy.
type Mutation func(q *quiz.Question, a *quiz.Answer) error

// State maps question IDs to answers. It is an immutable value: Apply and
// Freeze return a new State and leave the receiver untouched.
type State struct {
	answers map[string]quiz.Answer
	frozen  map[string]bool
}

// Seed builds the initial state, pre-filling clue positions.
func Seed(questions []quiz.Question, clues map[string][]int) State {
	s := State{
		answers: make(map[string]quiz.Answer, len(questions)),
		frozen:  make(map[string]bool),
	}
	for i := range questions {
		q := &questions[i]
		s.answers[q.ID] = NewAnswer(q, clues[q.ID])
	}
	return s
}

// NewAnswer returns the empty answer for q with clues pre-revealed.
// Out-of-range clue positions are dropped.
func NewAnswer(q *quiz.Question, clues []int) quiz.Answer {
	a := quiz.Answer{Kind: q.Kind}
	switch q.Kind {
	case quiz.KindFillIn:
		if q.FillIn == nil {
			return a
		}
		canonical := []rune(q.FillIn.Answer)
		a.Slots = make([]string, len(canonical))
		a.Clues = validClues(clues, len(canonical))
		for _, c := range a.Clues {
			a.Slots[c] = string(canonical[c])
		}
	case quiz.KindSyllableOrder:
		if q.SyllableOrder == nil {
			return a
		}
		canonical := q.SyllableOrder.Syllables
		a.Slots = make([]string, len(canonical))
		a.Clues = validClues(clues, len(canonical))
		for _, c := range a.Clues {
			a.Slots[c] = canonical[c]
		}
	case quiz.KindCategorize:
		a.Placement = make(map[string]string)
	case quiz.KindMatchPairs:
		if q.MatchPairs == nil {
			return a
		}
		a.Matches = make([]int, len(q.MatchPairs.Left))
		for i := range a.Matches {
			a.Matches[i] = quiz.Unassigned
		}
	}
	return a
}

func validClues(clues []int, length int) []int {
	var out []int
	for _, c := range clues {
		if c >= 0 && c < length {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	// Keep at least one editable position.
	if len(out) >= length && length > 0 {
		out = out[:length-1]
	}
	return out
}

// Get returns a copy of the answer for id.
func (s State) Get(id string) (quiz.Answer, bool) {
	a, ok := s.answers[id]
	if !ok {
		return quiz.Answer{}, false
	}
	return a.Clone(), true
}

// Frozen reports whether the answer for id has been evaluated.
func (s State) Frozen(id string) bool {
	return s.frozen[id]
}

// Len returns the number of answers held.
func (s State) Len() int {
	return len(s.answers)
}

// Apply runs m against a copy of q's answer and returns the updated state.
// On error the receiver is returned unchanged.
func (s State) Apply(q *quiz.Question, m Mutation) (State, error) {
	if q == nil {
		return s, ErrUnknownQuestion
	}
	cur, ok := s.answers[q.ID]
	if !ok {
		return s, ErrUnknownQuestion
	}
	if s.frozen[q.ID] {
		return s, ErrFrozen
	}

	next := cur.Clone()
	if err := m(q, &next); err != nil {
		return s, err
	}

	out := State{answers: maps.Clone(s.answers), frozen: s.frozen}
	out.answers[q.ID] = next
	return out, nil
}

// Freeze marks the answer for id as evaluated; later mutations fail with ErrFrozen.
func (s State) Freeze(id string) State {
	out := State{answers: s.answers, frozen: maps.Clone(s.frozen)}
	if out.frozen == nil {
		out.frozen = make(map[string]bool)
	}
	out.frozen[id] = true
	return out
}
