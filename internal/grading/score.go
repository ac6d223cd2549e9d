package grading

import (
	"strings"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Partial computes the partial credit in [0,1] for an answer to q.
// Missing input scores 0 with a nil error; anything that cannot be graded
// scores 0 with a *GapError. Partial never panics.
func Partial(q *quiz.Question, a quiz.Answer) (float64, error) {
	if q == nil {
		return 0, gap(nil, "missing question")
	}
	if a.Kind != "" && a.Kind != q.Kind {
		return 0, gap(q, "answer type "+string(a.Kind)+" does not match question")
	}

	switch q.Kind {
	case quiz.KindMultiple:
		return scoreMultiple(q, a)
	case quiz.KindFillIn:
		return scoreFillIn(q, a)
	case quiz.KindCategorize:
		return scoreCategorize(q, a)
	case quiz.KindMatchPairs:
		return scoreMatchPairs(q, a)
	case quiz.KindSyllableOrder:
		return scoreSyllableOrder(q, a)
	default:
		return 0, gap(q, "unknown question type")
	}
}

func scoreMultiple(q *quiz.Question, a quiz.Answer) (float64, error) {
	key := q.Multiple
	if key == nil || len(key.Options) == 0 {
		return 0, gap(q, "missing options")
	}
	if key.Correct < 0 || key.Correct >= len(key.Options) {
		return 0, gap(q, "correct option out of range")
	}
	if a.Selected == nil {
		return 0, nil
	}
	if *a.Selected == key.Correct {
		return 1, nil
	}
	return 0, nil
}

func scoreFillIn(q *quiz.Question, a quiz.Answer) (float64, error) {
	key := q.FillIn
	if key == nil || key.Answer == "" {
		return 0, gap(q, "missing answer key")
	}
	if !hasInput(a) {
		return 0, nil
	}

	// Comparisons are exact. answers.Place already stores the canonical tile
	// for whatever case was typed.
	got := []rune(Combine(Fragment(a), key.Answer, a.Clues))
	if string(got) == key.Answer {
		return 1, nil
	}

	want := []rune(key.Answer)
	total, correct := 0, 0
	for i := range want {
		if a.IsClue(i) {
			continue
		}
		total++
		if got[i] == want[i] {
			correct++
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}

func scoreSyllableOrder(q *quiz.Question, a quiz.Answer) (float64, error) {
	key := q.SyllableOrder
	if key == nil || len(key.Syllables) == 0 {
		return 0, gap(q, "missing syllables")
	}
	if !hasInput(a) {
		return 0, nil
	}

	got := CombineTokens(TokenFragment(a), key.Syllables, a.Clues)
	target := key.Word
	if target == "" {
		target = strings.Join(key.Syllables, "")
	}
	if strings.Join(got, "") == target {
		return 1, nil
	}

	total, correct := 0, 0
	for i, want := range key.Syllables {
		if a.IsClue(i) {
			continue
		}
		total++
		if got[i] == want {
			correct++
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(correct) / float64(total), nil
}

func scoreCategorize(q *quiz.Question, a quiz.Answer) (float64, error) {
	key := q.Categorize
	if key == nil {
		return 0, gap(q, "missing categories")
	}
	total, correct := 0, 0
	for category, items := range key.Members {
		for _, item := range items {
			total++
			if placed, ok := a.Placement[item]; ok && placed == category {
				correct++
			}
		}
	}
	if total == 0 {
		return 0, gap(q, "no categorized items")
	}
	return float64(correct) / float64(total), nil
}

func scoreMatchPairs(q *quiz.Question, a quiz.Answer) (float64, error) {
	key := q.MatchPairs
	if key == nil || len(key.Pairs) == 0 {
		return 0, gap(q, "missing pairs")
	}
	correct := 0
	for left, right := range key.Pairs {
		if left >= 0 && left < len(a.Matches) && a.Matches[left] == right {
			correct++
		}
	}
	return float64(correct) / float64(len(key.Pairs)), nil
}
