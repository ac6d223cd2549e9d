package answers

import (
	"errors"
	"slices"
	"testing"

	"github.com/abhisek/seatwork/internal/quiz"
)

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "mc", Kind: quiz.KindMultiple, Multiple: &quiz.MultipleKey{Options: []string{"a", "b", "c"}, Correct: 2}},
		{ID: "fill", Kind: quiz.KindFillIn, FillIn: &quiz.FillInKey{Answer: "BAHAY"}},
		{ID: "cat", Kind: quiz.KindCategorize, Categorize: &quiz.CategorizeKey{
			Categories: []string{"Hayop", "Halaman"},
			Members:    map[string][]string{"Hayop": {"aso", "pusa"}, "Halaman": {"mangga"}},
		}},
		{ID: "pairs", Kind: quiz.KindMatchPairs, MatchPairs: &quiz.MatchPairsKey{
			Left:  []string{"a", "b", "c"},
			Right: []string{"x", "y", "z"},
			Pairs: map[int]int{0: 1, 1: 2, 2: 0},
		}},
		{ID: "syl", Kind: quiz.KindSyllableOrder, SyllableOrder: &quiz.SyllableOrderKey{Word: "bahay", Syllables: []string{"ba", "ha", "y"}}},
	}
}

func seeded(t *testing.T) (State, []quiz.Question) {
	t.Helper()
	qs := testQuestions()
	clues := map[string][]int{"fill": {0, 2}, "syl": {1}}
	return Seed(qs, clues), qs
}

func apply(t *testing.T, s State, q *quiz.Question, m Mutation) State {
	t.Helper()
	next, err := s.Apply(q, m)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return next
}

func TestSeed_PrefillsClues(t *testing.T) {
	s, _ := seeded(t)
	a, ok := s.Get("fill")
	if !ok {
		t.Fatal("expected fill answer")
	}
	want := []string{"B", "", "H", "", ""}
	if !slices.Equal(a.Slots, want) {
		t.Errorf("Slots = %v, want %v", a.Slots, want)
	}

	syl, _ := s.Get("syl")
	if !slices.Equal(syl.Slots, []string{"", "ha", ""}) {
		t.Errorf("syllable Slots = %v", syl.Slots)
	}

	pairs, _ := s.Get("pairs")
	if !slices.Equal(pairs.Matches, []int{-1, -1, -1}) {
		t.Errorf("Matches = %v, want all unassigned", pairs.Matches)
	}
}

func TestSeed_ClampsClueSet(t *testing.T) {
	q := quiz.Question{ID: "f", Kind: quiz.KindFillIn, FillIn: &quiz.FillInKey{Answer: "AB"}}
	a := NewAnswer(&q, []int{1, 0, 0, 7})
	if len(a.Clues) != 1 {
		t.Errorf("Clues = %v, want exactly one clue for a 2-letter answer", a.Clues)
	}
}

func TestPlace_DisplacesToPool(t *testing.T) {
	s, qs := seeded(t)
	fill := &qs[1]

	s = apply(t, s, fill, Place(1, "a"))
	a, _ := s.Get("fill")
	if a.Slots[1] != "A" {
		t.Errorf("slot 1 = %q, want canonical tile %q", a.Slots[1], "A")
	}
	if got := Pool(fill, a); !slices.Equal(got, []string{"A", "Y"}) {
		t.Errorf("Pool = %v, want [A Y]", got)
	}

	// Placing Y over A returns A to the pool.
	s = apply(t, s, fill, Place(1, "Y"))
	a, _ = s.Get("fill")
	if got := Pool(fill, a); !slices.Equal(got, []string{"A", "A"}) {
		t.Errorf("Pool after displacement = %v, want [A A]", got)
	}

	s = apply(t, s, fill, Remove(1))
	a, _ = s.Get("fill")
	if len(Pool(fill, a)) != 3 {
		t.Errorf("Pool after remove = %v, want 3 tiles", Pool(fill, a))
	}
}

func TestPlace_Errors(t *testing.T) {
	s, qs := seeded(t)
	fill := &qs[1]

	tests := []struct {
		name string
		m    Mutation
		want error
	}{
		{"hint slot", Place(0, "A"), ErrHintSlot},
		{"remove hint", Remove(2), ErrHintSlot},
		{"out of range", Place(9, "A"), ErrSlotOutOfRange},
		{"not in pool", Place(1, "Z"), ErrNotInPool},
	}
	for _, tc := range tests {
		if _, err := s.Apply(fill, tc.m); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}

	// Exhaust the A tiles.
	s = apply(t, s, fill, Place(1, "A"))
	s = apply(t, s, fill, Place(3, "A"))
	if _, err := s.Apply(fill, Place(4, "A")); !errors.Is(err, ErrNotInPool) {
		t.Errorf("third A: err = %v, want ErrNotInPool", err)
	}

	if _, err := s.Apply(&qs[0], Place(0, "a")); !errors.Is(err, ErrWrongKind) {
		t.Errorf("place on multiple: err = %v, want ErrWrongKind", err)
	}
}

func TestApply_CopyOnWrite(t *testing.T) {
	s, qs := seeded(t)
	next := apply(t, s, &qs[1], Place(1, "A"))

	old, _ := s.Get("fill")
	if old.Slots[1] != "" {
		t.Errorf("original state mutated: slot 1 = %q", old.Slots[1])
	}
	cur, _ := next.Get("fill")
	if cur.Slots[1] != "A" {
		t.Errorf("new state slot 1 = %q, want A", cur.Slots[1])
	}

	// Mutating a returned copy does not leak into the state.
	cur.Slots[1] = "Z"
	again, _ := next.Get("fill")
	if again.Slots[1] != "A" {
		t.Errorf("Get returned a shared slice")
	}
}

func TestFreeze(t *testing.T) {
	s, qs := seeded(t)
	frozen := s.Freeze("mc")
	if !frozen.Frozen("mc") || s.Frozen("mc") {
		t.Fatal("Freeze must only affect the returned state")
	}
	if _, err := frozen.Apply(&qs[0], Select(1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("err = %v, want ErrFrozen", err)
	}
	if _, err := s.Apply(&quiz.Question{ID: "nope", Kind: quiz.KindMultiple}, Select(0)); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("err = %v, want ErrUnknownQuestion", err)
	}
}

func TestAssign_MovesBetweenCategories(t *testing.T) {
	s, qs := seeded(t)
	cat := &qs[2]

	s = apply(t, s, cat, Assign("Halaman", "aso"))
	s = apply(t, s, cat, Assign("Hayop", "aso"))
	a, _ := s.Get("cat")
	if a.Placement["aso"] != "Hayop" || len(a.Placement) != 1 {
		t.Errorf("Placement = %v, want aso only in Hayop", a.Placement)
	}

	s = apply(t, s, cat, Unassign("Halaman", "aso"))
	a, _ = s.Get("cat")
	if a.Placement["aso"] != "Hayop" {
		t.Error("Unassign from a different category must be a no-op")
	}
	s = apply(t, s, cat, Unassign("Hayop", "aso"))
	a, _ = s.Get("cat")
	if _, ok := a.Placement["aso"]; ok {
		t.Error("expected aso back in the pool")
	}

	if _, err := s.Apply(cat, Assign("Bato", "aso")); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("err = %v, want ErrUnknownCategory", err)
	}
	if _, err := s.Apply(cat, Assign("Hayop", "ibon")); !errors.Is(err, ErrNotInPool) {
		t.Errorf("err = %v, want ErrNotInPool", err)
	}
}

func TestMatch_TakenAndSwap(t *testing.T) {
	s, qs := seeded(t)
	pairs := &qs[3]

	s = apply(t, s, pairs, Match(0, 2))
	if _, err := s.Apply(pairs, Match(1, 2)); !errors.Is(err, ErrRightTaken) {
		t.Fatalf("err = %v, want ErrRightTaken", err)
	}
	a, _ := s.Get("pairs")
	if got := FreeRights(pairs, a); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("FreeRights = %v, want [0 1]", got)
	}

	// Re-matching the same left frees its previous right.
	s = apply(t, s, pairs, Match(0, 1))
	s = apply(t, s, pairs, Match(1, 2))
	s = apply(t, s, pairs, Swap(0, 1))
	a, _ = s.Get("pairs")
	if !slices.Equal(a.Matches, []int{2, 1, -1}) {
		t.Errorf("Matches = %v, want [2 1 -1]", a.Matches)
	}

	s = apply(t, s, pairs, Unmatch(0))
	a, _ = s.Get("pairs")
	if a.Matches[0] != quiz.Unassigned {
		t.Errorf("Matches[0] = %d, want unassigned", a.Matches[0])
	}
}

func TestSelect_Idempotent(t *testing.T) {
	s, qs := seeded(t)
	s = apply(t, s, &qs[0], Select(1))
	s = apply(t, s, &qs[0], Select(1))
	a, _ := s.Get("mc")
	if a.Selected == nil || *a.Selected != 1 {
		t.Errorf("Selected = %v, want 1", a.Selected)
	}
	if _, err := s.Apply(&qs[0], Select(5)); !errors.Is(err, ErrSlotOutOfRange) {
		t.Errorf("err = %v, want ErrSlotOutOfRange", err)
	}
}

func TestComplete(t *testing.T) {
	s, qs := seeded(t)
	get := func(id string) quiz.Answer {
		a, _ := s.Get(id)
		return a
	}

	for i := range qs {
		if Complete(&qs[i], get(qs[i].ID)) {
			t.Errorf("%s: fresh answer reported complete", qs[i].ID)
		}
	}

	s = apply(t, s, &qs[0], Select(0))
	if !Complete(&qs[0], get("mc")) {
		t.Error("multiple: any selection completes")
	}

	s = apply(t, s, &qs[1], Place(1, "A"))
	s = apply(t, s, &qs[1], Place(3, "A"))
	if Complete(&qs[1], get("fill")) {
		t.Error("fillin: one slot still empty")
	}
	s = apply(t, s, &qs[1], Place(4, "Y"))
	if !Complete(&qs[1], get("fill")) {
		t.Error("fillin: all non-hint slots filled")
	}

	s = apply(t, s, &qs[2], Assign("Hayop", "aso"))
	s = apply(t, s, &qs[2], Assign("Hayop", "pusa"))
	s = apply(t, s, &qs[2], Assign("Hayop", "mangga"))
	if Complete(&qs[2], get("cat")) {
		t.Error("categorize: Halaman is empty")
	}
	s = apply(t, s, &qs[2], Assign("Halaman", "pusa"))
	if !Complete(&qs[2], get("cat")) {
		t.Error("categorize: every category non-empty and every item placed")
	}

	s = apply(t, s, &qs[3], Match(0, 0))
	s = apply(t, s, &qs[3], Match(1, 1))
	if Complete(&qs[3], get("pairs")) {
		t.Error("matchpairs: left 2 unassigned")
	}
	s = apply(t, s, &qs[3], Match(2, 2))
	if !Complete(&qs[3], get("pairs")) {
		t.Error("matchpairs: every left assigned")
	}

	s = apply(t, s, &qs[4], Place(0, "ba"))
	s = apply(t, s, &qs[4], Place(2, "y"))
	if !Complete(&qs[4], get("syl")) {
		t.Error("syllableorder: all non-hint slots filled")
	}
}
