package answers

import (
	"slices"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Pool returns the values still available to place, derived from the
// canonical key minus what the answer already holds: letter tiles for
// fill-in, syllables for syllable order, unplaced items for categorize.
func Pool(q *quiz.Question, a quiz.Answer) []string {
	switch q.Kind {
	case quiz.KindFillIn:
		if q.FillIn == nil {
			return nil
		}
		var tiles []string
		for _, r := range q.FillIn.Answer {
			tiles = append(tiles, string(r))
		}
		return remaining(tiles, a)
	case quiz.KindSyllableOrder:
		if q.SyllableOrder == nil {
			return nil
		}
		return remaining(q.SyllableOrder.Syllables, a)
	case quiz.KindCategorize:
		if q.Categorize == nil {
			return nil
		}
		var free []string
		for _, item := range q.Categorize.Items() {
			if _, placed := a.Placement[item]; !placed {
				free = append(free, item)
			}
		}
		return free
	}
	return nil
}

// remaining removes the placed non-clue slot values from the non-clue
// canonical tiles, one occurrence per placement.
func remaining(canonical []string, a quiz.Answer) []string {
	var pool []string
	for i, t := range canonical {
		if !a.IsClue(i) {
			pool = append(pool, t)
		}
	}
	for i, s := range a.Slots {
		if s == "" || a.IsClue(i) {
			continue
		}
		if j := slices.Index(pool, s); j >= 0 {
			pool = slices.Delete(pool, j, j+1)
		}
	}
	return pool
}

// FreeRights returns the right indices not yet assigned to any left item.
func FreeRights(q *quiz.Question, a quiz.Answer) []int {
	if q.Kind != quiz.KindMatchPairs || q.MatchPairs == nil {
		return nil
	}
	var free []int
	for r := range q.MatchPairs.Right {
		if !slices.Contains(a.Matches, r) {
			free = append(free, r)
		}
	}
	return free
}

// Complete reports whether the answer is ready to be evaluated:
// every non-hint slot filled (fill-in, syllable order), every category
// non-empty and every item placed (categorize), every left item assigned
// (match pairs), or any selection (multiple choice).
func Complete(q *quiz.Question, a quiz.Answer) bool {
	switch q.Kind {
	case quiz.KindMultiple:
		return a.Selected != nil
	case quiz.KindFillIn, quiz.KindSyllableOrder:
		if len(a.Slots) == 0 {
			return false
		}
		return !slices.Contains(a.Slots, "")
	case quiz.KindCategorize:
		key := q.Categorize
		if key == nil || len(key.Categories) == 0 {
			return false
		}
		used := make(map[string]bool, len(key.Categories))
		for _, c := range a.Placement {
			used[c] = true
		}
		for _, c := range key.Categories {
			if !used[c] {
				return false
			}
		}
		return len(Pool(q, a)) == 0
	case quiz.KindMatchPairs:
		if q.MatchPairs == nil || len(q.MatchPairs.Left) == 0 || len(a.Matches) < len(q.MatchPairs.Left) {
			return false
		}
		return !slices.Contains(a.Matches, quiz.Unassigned)
	}
	return false
}
