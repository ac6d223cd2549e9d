package catalog

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Check returns the semantic problems of q. A question with problems still
// loads; the grader treats it as a validation gap and scores it 0.
func Check(q *quiz.Question) []string {
	var out []string
	add := func(format string, args ...any) { out = append(out, fmt.Sprintf(format, args...)) }

	switch q.Kind {
	case quiz.KindMultiple:
		k := q.Multiple
		if k == nil {
			add("missing multiple key")
			break
		}
		if len(k.Options) < 2 {
			add("needs at least two options")
		}
		if k.Correct < 0 || k.Correct >= len(k.Options) {
			add("correct index %d out of range", k.Correct)
		}

	case quiz.KindFillIn:
		if q.FillIn == nil || q.FillIn.Answer == "" {
			add("missing fillin answer")
			break
		}
		if utf8.RuneCountInString(q.FillIn.Answer) < 2 {
			add("answer too short to leave a blank")
		}

	case quiz.KindCategorize:
		k := q.Categorize
		if k == nil || len(k.Categories) == 0 {
			add("missing categories")
			break
		}
		seen := make(map[string]string)
		for _, c := range k.Categories {
			if len(k.Members[c]) == 0 {
				add("category %q has no items", c)
			}
			for _, item := range k.Members[c] {
				if prev, dup := seen[item]; dup {
					add("item %q is in both %q and %q", item, prev, c)
				}
				seen[item] = c
			}
		}
		for c := range k.Members {
			if !slices.Contains(k.Categories, c) {
				add("members reference unknown category %q", c)
			}
		}

	case quiz.KindMatchPairs:
		k := q.MatchPairs
		if k == nil || len(k.Left) == 0 {
			add("missing matchpairs key")
			break
		}
		if len(k.Left) != len(k.Right) {
			add("left has %d items but right has %d", len(k.Left), len(k.Right))
		}
		used := make(map[int]bool)
		for l := range k.Left {
			r, ok := k.Pairs[l]
			switch {
			case !ok:
				add("left %d has no pair", l)
			case r < 0 || r >= len(k.Right):
				add("left %d pairs with out-of-range right %d", l, r)
			case used[r]:
				add("right %d is paired more than once", r)
			}
			used[r] = true
		}

	case quiz.KindSyllableOrder:
		k := q.SyllableOrder
		if k == nil || len(k.Syllables) == 0 {
			add("missing syllables")
			break
		}
		if k.Word != "" && strings.Join(k.Syllables, "") != k.Word {
			add("syllables do not spell %q", k.Word)
		}

	default:
		add("unknown question type %q", q.Kind)
	}
	return out
}
