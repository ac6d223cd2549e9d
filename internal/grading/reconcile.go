package grading

import (
	"slices"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Placeholder is emitted for a non-clue position once the user fragment is
// exhausted, and stands in for an empty slot when a fragment is extracted.
const Placeholder = "?"

const placeholderRune = '?'

// Combine merges the user's fragment with the revealed clues into a full
// candidate answer. Clue positions take the canonical rune; every other
// position consumes the next fragment rune in order.
func Combine(fragment []rune, canonical string, clues []int) string {
	want := []rune(canonical)
	out := make([]rune, len(want))
	next := 0
	for i, r := range want {
		if slices.Contains(clues, i) {
			out[i] = r
			continue
		}
		if next < len(fragment) {
			out[i] = fragment[next]
			next++
		} else {
			out[i] = placeholderRune
		}
	}
	return string(out)
}

// CombineTokens is Combine over syllable tokens.
func CombineTokens(fragment []string, canonical []string, clues []int) []string {
	out := make([]string, len(canonical))
	next := 0
	for i, tok := range canonical {
		if slices.Contains(clues, i) {
			out[i] = tok
			continue
		}
		if next < len(fragment) {
			out[i] = fragment[next]
			next++
		} else {
			out[i] = Placeholder
		}
	}
	return out
}

// Fragment extracts the user-entered runes of a fill-in answer, in position
// order, skipping clue slots. Empty slots become the placeholder so later
// entries keep their positions.
func Fragment(a quiz.Answer) []rune {
	var out []rune
	for i, s := range a.Slots {
		if a.IsClue(i) {
			continue
		}
		r := []rune(s)
		if len(r) == 0 {
			out = append(out, placeholderRune)
			continue
		}
		out = append(out, r[0])
	}
	return out
}

// TokenFragment extracts the user-placed syllables of a syllable-order answer.
func TokenFragment(a quiz.Answer) []string {
	var out []string
	for i, s := range a.Slots {
		if a.IsClue(i) {
			continue
		}
		if s == "" {
			s = Placeholder
		}
		out = append(out, s)
	}
	return out
}

// hasInput reports whether any non-clue slot holds a value.
func hasInput(a quiz.Answer) bool {
	for i, s := range a.Slots {
		if s != "" && !a.IsClue(i) {
			return true
		}
	}
	return false
}
