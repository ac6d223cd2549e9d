package quiz

import (
	"maps"
	"slices"
	"unicode/utf8"
)

// Kind identifies the question type.
type Kind string

const (
	KindMultiple      Kind = "multiple"
	KindFillIn        Kind = "fillin"
	KindCategorize    Kind = "categorize"
	KindMatchPairs    Kind = "matchpairs"
	KindSyllableOrder Kind = "syllableorder"
)

// AllKinds returns every declared question kind in display order.
func AllKinds() []Kind {
	return []Kind{KindMultiple, KindFillIn, KindCategorize, KindMatchPairs, KindSyllableOrder}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return slices.Contains(AllKinds(), k)
}

// DisplayName returns a human-readable label for the kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindMultiple:
		return "Multiple choice"
	case KindFillIn:
		return "Fill in the blank"
	case KindCategorize:
		return "Categorize"
	case KindMatchPairs:
		return "Match the pairs"
	case KindSyllableOrder:
		return "Syllable order"
	default:
		return string(k)
	}
}

// Question is a single seatwork item. Exactly one of the key fields is
// populated, matching Kind.
type Question struct {
	ID     string `json:"id" validate:"required"`
	Kind   Kind   `json:"type" validate:"required"`
	Prompt string `json:"prompt"`

	// TimeLimitSecs overrides the per-kind default when positive.
	TimeLimitSecs int `json:"time_limit_secs,omitempty" validate:"gte=0"`

	Multiple      *MultipleKey      `json:"multiple,omitempty"`
	FillIn        *FillInKey        `json:"fillin,omitempty"`
	Categorize    *CategorizeKey    `json:"categorize,omitempty"`
	MatchPairs    *MatchPairsKey    `json:"matchpairs,omitempty"`
	SyllableOrder *SyllableOrderKey `json:"syllableorder,omitempty"`
}

// MultipleKey is the canonical key of a multiple-choice question.
type MultipleKey struct {
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// FillInKey is the canonical key of a fill-in-the-blank question.
type FillInKey struct {
	Answer string `json:"answer"`
}

// CategorizeKey maps each category to the items it canonically contains.
// Categories fixes the display order.
type CategorizeKey struct {
	Categories []string            `json:"categories"`
	Members    map[string][]string `json:"members"`
}

// MatchPairsKey maps each left index to its canonical right index.
type MatchPairsKey struct {
	Left  []string    `json:"left"`
	Right []string    `json:"right"`
	Pairs map[int]int `json:"pairs"`
}

// SyllableOrderKey holds the target word and its syllables in order.
type SyllableOrderKey struct {
	Word      string   `json:"word"`
	Syllables []string `json:"syllables"`
}

// AnswerLength returns the number of hintable positions of the question:
// runes for fill-in, syllables for syllable order, 0 otherwise.
func (q *Question) AnswerLength() int {
	switch q.Kind {
	case KindFillIn:
		if q.FillIn == nil {
			return 0
		}
		return utf8.RuneCountInString(q.FillIn.Answer)
	case KindSyllableOrder:
		if q.SyllableOrder == nil {
			return 0
		}
		return len(q.SyllableOrder.Syllables)
	}
	return 0
}

// Items returns every canonical categorize item, ordered by category then
// by position within the category.
func (k *CategorizeKey) Items() []string {
	var items []string
	for _, c := range k.Categories {
		items = append(items, k.Members[c]...)
	}
	return items
}

// CategoryOf returns the canonical category of item.
func (k *CategorizeKey) CategoryOf(item string) (string, bool) {
	for c, members := range k.Members {
		if slices.Contains(members, item) {
			return c, true
		}
	}
	return "", false
}

// Answer is the learner's structured, type-discriminated response to one
// question. Only the fields for Kind are meaningful.
type Answer struct {
	Kind Kind `json:"type"`

	// Selected is the chosen option index (multiple).
	Selected *int `json:"selected,omitempty"`

	// Clues are the pre-revealed positions (fillin, syllableorder).
	Clues []int `json:"clues,omitempty"`

	// Slots hold one letter or syllable per position (fillin, syllableorder).
	// Clue slots carry the canonical value; "" marks an empty slot.
	Slots []string `json:"slots,omitempty"`

	// Placement maps each placed item to its category (categorize).
	Placement map[string]string `json:"placement,omitempty"`

	// Matches holds the assigned right index per left index, -1 if none (matchpairs).
	Matches []int `json:"matches,omitempty"`
}

// Unassigned marks an empty match slot.
const Unassigned = -1

// IsClue reports whether pos is a clue position.
func (a Answer) IsClue(pos int) bool {
	return slices.Contains(a.Clues, pos)
}

// Clone returns a deep copy of a.
func (a Answer) Clone() Answer {
	out := a
	if a.Selected != nil {
		v := *a.Selected
		out.Selected = &v
	}
	out.Clues = slices.Clone(a.Clues)
	out.Slots = slices.Clone(a.Slots)
	out.Placement = maps.Clone(a.Placement)
	out.Matches = slices.Clone(a.Matches)
	return out
}

// QuestionResult is the outcome recorded once per question.
type QuestionResult struct {
	QuestionID   string `json:"question_id"`
	Correct      bool   `json:"correct"`
	AnswerTimeMs int64  `json:"answer_time_ms"`
}

// AnswerRecord is the persisted, frozen answer for one question. Together
// with the question's canonical key it is everything review needs.
type AnswerRecord struct {
	QuestionID    string `json:"question_id"`
	Kind          Kind   `json:"type"`
	Answer        Answer `json:"answer"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	TimeLimitSecs int    `json:"time_limit_secs"`
	TimedOut      bool   `json:"timed_out,omitempty"`
}
