package answers

import (
	"slices"
	"strings"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Place puts value into slot of a fill-in or syllable-order answer. A value
// already in the slot goes back to the pool first.
func Place(slot int, value string) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if err := checkSlot(q, a, slot); err != nil {
			return err
		}
		a.Slots[slot] = ""
		pool := Pool(q, *a)
		i := slices.IndexFunc(pool, func(p string) bool { return strings.EqualFold(p, value) })
		if i < 0 {
			return ErrNotInPool
		}
		a.Slots[slot] = pool[i]
		return nil
	}
}

// Remove empties slot, returning its value to the pool.
func Remove(slot int) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if err := checkSlot(q, a, slot); err != nil {
			return err
		}
		a.Slots[slot] = ""
		return nil
	}
}

func checkSlot(q *quiz.Question, a *quiz.Answer, slot int) error {
	if q.Kind != quiz.KindFillIn && q.Kind != quiz.KindSyllableOrder {
		return ErrWrongKind
	}
	if slot < 0 || slot >= len(a.Slots) {
		return ErrSlotOutOfRange
	}
	if a.IsClue(slot) {
		return ErrHintSlot
	}
	return nil
}

// Assign places item into category, removing it from any other category.
func Assign(category, item string) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		key := q.Categorize
		if q.Kind != quiz.KindCategorize || key == nil {
			return ErrWrongKind
		}
		if !slices.Contains(key.Categories, category) {
			return ErrUnknownCategory
		}
		if !slices.Contains(key.Items(), item) {
			return ErrNotInPool
		}
		if a.Placement == nil {
			a.Placement = make(map[string]string)
		}
		a.Placement[item] = category
		return nil
	}
}

// Unassign returns item from category to the pool. It is a no-op when the
// item is not in that category.
func Unassign(category, item string) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if q.Kind != quiz.KindCategorize {
			return ErrWrongKind
		}
		if a.Placement[item] == category {
			delete(a.Placement, item)
		}
		return nil
	}
}

// Match assigns right to left. A right item held by another left item is
// not in the pool; use Swap to exchange assignments.
func Match(left, right int) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if err := checkLeft(q, a, left); err != nil {
			return err
		}
		if right < 0 || right >= len(q.MatchPairs.Right) {
			return ErrSlotOutOfRange
		}
		for l, r := range a.Matches {
			if r == right && l != left {
				return ErrRightTaken
			}
		}
		a.Matches[left] = right
		return nil
	}
}

// Unmatch clears the assignment of left.
func Unmatch(left int) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if err := checkLeft(q, a, left); err != nil {
			return err
		}
		a.Matches[left] = quiz.Unassigned
		return nil
	}
}

// Swap exchanges the assignments of two left items.
func Swap(leftA, leftB int) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if err := checkLeft(q, a, leftA); err != nil {
			return err
		}
		if err := checkLeft(q, a, leftB); err != nil {
			return err
		}
		a.Matches[leftA], a.Matches[leftB] = a.Matches[leftB], a.Matches[leftA]
		return nil
	}
}

func checkLeft(q *quiz.Question, a *quiz.Answer, left int) error {
	if q.Kind != quiz.KindMatchPairs || q.MatchPairs == nil {
		return ErrWrongKind
	}
	for len(a.Matches) < len(q.MatchPairs.Left) {
		a.Matches = append(a.Matches, quiz.Unassigned)
	}
	if left < 0 || left >= len(q.MatchPairs.Left) {
		return ErrSlotOutOfRange
	}
	return nil
}

// Select chooses a multiple-choice option. Selecting again replaces it.
func Select(option int) Mutation {
	return func(q *quiz.Question, a *quiz.Answer) error {
		if q.Kind != quiz.KindMultiple || q.Multiple == nil {
			return ErrWrongKind
		}
		if option < 0 || option >= len(q.Multiple.Options) {
			return ErrSlotOutOfRange
		}
		v := option
		a.Selected = &v
		return nil
	}
}
