package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/seatwork/internal/quiz"
)

func TestSample_LoadsCleanly(t *testing.T) {
	set, warnings, err := Sample()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "filipino-1-bahay", set.ItemID)
	assert.Equal(t, 1, set.Grade)
	require.Len(t, set.Questions, 5)

	kinds := make(map[quiz.Kind]bool)
	for _, q := range set.Questions {
		kinds[q.Kind] = true
	}
	for _, k := range quiz.AllKinds() {
		assert.True(t, kinds[k], "sample lacks %s", k)
	}

	pairs := set.Questions[3].MatchPairs
	require.NotNil(t, pairs)
	assert.Equal(t, 3, pairs.Pairs[0])
}

func TestLoad_RejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing item id", `{"grade": 1, "questions": []}`},
		{"grade out of range", `{"item_id": "x", "grade": 40, "questions": []}`},
		{"grade wrong type", `{"item_id": "x", "grade": "one", "questions": []}`},
		{"question without id", `{"item_id": "x", "grade": 1, "questions": [{"type": "multiple"}]}`},
		{"duplicate ids", `{"item_id": "x", "grade": 1, "questions": [
			{"id": "a", "type": "fillin", "fillin": {"answer": "ARAW"}},
			{"id": "a", "type": "fillin", "fillin": {"answer": "ULAN"}}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Load(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "err = %v", err)
		})
	}
}

func TestLoad_SemanticGapsAreWarnings(t *testing.T) {
	doc := `{"item_id": "x", "grade": 3, "questions": [
		{"id": "a", "type": "multiple", "multiple": {"options": ["x", "y"], "correct": 5}},
		{"id": "b", "type": "crossword"},
		{"id": "c", "type": "fillin", "fillin": {"answer": "ARAW"}}
	]}`
	set, warnings, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, set.Questions, 3, "questions with gaps stay in the set")

	ids := make([]string, 0, len(warnings))
	for _, w := range warnings {
		ids = append(ids, w.QuestionID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestLoad_EmptySetWarns(t *testing.T) {
	set, warnings, err := Load(strings.NewReader(`{"item_id": "x", "grade": 2, "questions": []}`))
	require.NoError(t, err)
	assert.Empty(t, set.Questions)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "empty")
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		q    quiz.Question
		want int
	}{
		{"valid categorize", quiz.Question{Kind: quiz.KindCategorize, Categorize: &quiz.CategorizeKey{
			Categories: []string{"A", "B"}, Members: map[string][]string{"A": {"x"}, "B": {"y"}},
		}}, 0},
		{"duplicate item", quiz.Question{Kind: quiz.KindCategorize, Categorize: &quiz.CategorizeKey{
			Categories: []string{"A", "B"}, Members: map[string][]string{"A": {"x"}, "B": {"x"}},
		}}, 1},
		{"unknown member category", quiz.Question{Kind: quiz.KindCategorize, Categorize: &quiz.CategorizeKey{
			Categories: []string{"A"}, Members: map[string][]string{"A": {"x"}, "Z": {"y"}},
		}}, 1},
		{"pairs not a bijection", quiz.Question{Kind: quiz.KindMatchPairs, MatchPairs: &quiz.MatchPairsKey{
			Left: []string{"a", "b"}, Right: []string{"1", "2"}, Pairs: map[int]int{0: 1, 1: 1},
		}}, 1},
		{"syllables misspell", quiz.Question{Kind: quiz.KindSyllableOrder, SyllableOrder: &quiz.SyllableOrderKey{
			Word: "bahay", Syllables: []string{"ba", "hay", "y"},
		}}, 1},
		{"missing fillin", quiz.Question{Kind: quiz.KindFillIn}, 1},
	}
	for _, tc := range tests {
		got := Check(&tc.q)
		if len(got) != tc.want {
			t.Errorf("%s: Check = %v, want %d problems", tc.name, got, tc.want)
		}
	}
}
