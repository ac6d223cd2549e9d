package play

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/seatwork/internal/grading"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/router"
	"github.com/abhisek/seatwork/internal/screens/summary"
	"github.com/abhisek/seatwork/internal/session"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// flakySubmitter fails its first fail calls.
type flakySubmitter struct {
	fail int
	subs []quiz.Submission
}

func (f *flakySubmitter) Submit(_ context.Context, sub quiz.Submission) error {
	if f.fail > 0 {
		f.fail--
		return errors.New("network unreachable")
	}
	f.subs = append(f.subs, sub)
	return nil
}

func multipleQ() quiz.Question {
	return quiz.Question{ID: "mc", Kind: quiz.KindMultiple, Prompt: "Alin ang hayop?",
		Multiple: &quiz.MultipleKey{Options: []string{"mesa", "aso", "bato"}, Correct: 1}}
}

func fillQ() quiz.Question {
	return quiz.Question{ID: "fill", Kind: quiz.KindFillIn, FillIn: &quiz.FillInKey{Answer: "BAHAY"}}
}

func categorizeQ() quiz.Question {
	return quiz.Question{ID: "cat", Kind: quiz.KindCategorize, Categorize: &quiz.CategorizeKey{
		Categories: []string{"Hayop", "Halaman"},
		Members:    map[string][]string{"Hayop": {"aso", "pusa"}, "Halaman": {"mangga"}},
	}}
}

func matchQ() quiz.Question {
	return quiz.Question{ID: "pairs", Kind: quiz.KindMatchPairs, MatchPairs: &quiz.MatchPairsKey{
		Left:  []string{"aso", "pusa", "baka"},
		Right: []string{"ngiyaw", "aw-aw", "unga"},
		Pairs: map[int]int{0: 1, 1: 0, 2: 2},
	}}
}

func newTestScreen(t *testing.T, sub *flakySubmitter, qs ...quiz.Question) (*PlayScreen, *clock) {
	t.Helper()
	limits := make([]int, len(qs))
	for i := range qs {
		limits[i] = session.TimeLimitFor(&qs[i], 2, nil)
	}
	plan := &session.Plan{
		ItemID:     "item-1",
		Mode:       "practice",
		Grade:      2,
		Questions:  qs,
		Clues:      map[string][]int{"fill": {0, 2}},
		TimeLimits: limits,
	}
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ctrl := session.NewController(plan, grading.NewGrader(zerolog.Nop()), sub, session.Options{
		UserID: "ana",
		Now:    clk.now,
		Logger: zerolog.Nop(),
	})
	return New(ctrl, Options{SubmitTimeout: time.Second, Logger: zerolog.Nop(), Now: clk.now}), clk
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func typeKeys(s *PlayScreen, keys string) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range keys {
		_, cmd = s.Update(keyPress(r))
	}
	return cmd
}

// finishFeedback advances the clock past the presentation delay and
// delivers the feedback-done message for the current question.
func finishFeedback(s *PlayScreen, clk *clock) tea.Cmd {
	clk.t = clk.t.Add(s.ctrl.PresentationDelay())
	_, cmd := s.Update(feedbackDoneMsg{index: s.ctrl.Snapshot().Index})
	return cmd
}

func TestPlayScreen_Title(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ())
	if s.Title() != "Seatwork" {
		t.Errorf("Title = %q, want %q", s.Title(), "Seatwork")
	}
}

func TestPlayScreen_InitStartsCountdown(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ(), fillQ())
	if cmd := s.Init(); cmd == nil {
		t.Fatal("expected a tick command from Init")
	}
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAwaiting || !st.Handle.Active() {
		t.Errorf("phase = %v handle active = %v, want awaiting with a live countdown", st.Phase, st.Handle.Active())
	}
	hs := s.HeaderStatus()
	if hs.Question != 1 || hs.Total != 2 {
		t.Errorf("HeaderStatus = %+v, want question 1 of 2", hs)
	}
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints while answering")
	}
	if view := s.View(100, 30); !strings.Contains(view, "Alin ang hayop?") {
		t.Error("expected the prompt in the view")
	}
}

func TestPlayScreen_MultipleChoiceDigit(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ(), fillQ())
	s.Init()

	_, cmd := s.Update(keyPress('2'))
	if cmd == nil {
		t.Fatal("expected the feedback timer after answering")
	}
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAnswered {
		t.Fatalf("phase = %v, want answered", st.Phase)
	}
	if !st.Last.Outcome.FullyCorrect() {
		t.Errorf("partial = %v, want full credit", st.Last.Outcome.Partial)
	}
	if view := s.View(100, 30); !strings.Contains(view, "Correct!") {
		t.Error("expected the Correct! banner")
	}

	// Keys are ignored while feedback is shown.
	s.Update(keyPress('1'))
	if got := s.ctrl.Snapshot().Last.Outcome.Partial; got != 1 {
		t.Errorf("partial after extra key = %v, want 1", got)
	}
}

func TestPlayScreen_ArrowsAndEnter(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ())
	s.Init()

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown)) // stays on the last option
	s.Update(specialKey(tea.KeyEnter))

	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAnswered {
		t.Fatalf("phase = %v, want answered", st.Phase)
	}
	if *st.Last.Record.Answer.Selected != 2 {
		t.Errorf("selected = %d, want 2", *st.Last.Record.Answer.Selected)
	}
	if st.Last.Outcome.Partial != 0 {
		t.Errorf("partial = %v, want 0", st.Last.Outcome.Partial)
	}
}

func TestPlayScreen_FeedbackWaitsForDelay(t *testing.T) {
	s, clk := newTestScreen(t, &flakySubmitter{}, multipleQ(), fillQ())
	s.Init()
	s.Update(keyPress('2'))

	// Delivered early: the controller refuses and the screen retries.
	_, cmd := s.Update(feedbackDoneMsg{index: 0})
	if cmd == nil {
		t.Error("expected a retry command while the delay is pending")
	}
	if s.ctrl.Snapshot().Phase != session.PhaseAnswered {
		t.Fatal("advanced before the presentation delay")
	}

	if cmd := finishFeedback(s, clk); cmd == nil {
		t.Error("expected a tick command for the next question")
	}
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAwaiting || st.Index != 1 {
		t.Errorf("phase %v index %d, want awaiting question 1", st.Phase, st.Index)
	}
}

func TestPlayScreen_StaleFeedbackIgnored(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ(), fillQ())
	s.Init()
	if _, cmd := s.Update(feedbackDoneMsg{index: 0}); cmd != nil {
		t.Error("feedback for an unanswered question should be ignored")
	}
}

func TestPlayScreen_FillInTyping(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, fillQ())
	s.Init()

	if s.focus != 1 {
		t.Fatalf("focus = %d, want first open slot 1", s.focus)
	}
	typeKeys(s, "aa")
	a := s.ctrl.Snapshot().Answer
	if !slices.Equal(a.Slots, []string{"B", "A", "H", "A", ""}) {
		t.Errorf("slots = %q, want B A H A _", a.Slots)
	}
	if s.focus != 4 {
		t.Errorf("focus = %d, want 4", s.focus)
	}

	if cmd := typeKeys(s, "y"); cmd == nil {
		t.Error("expected the feedback timer after the last letter")
	}
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAnswered || !st.Last.Outcome.FullyCorrect() {
		t.Errorf("phase %v partial %v, want a fully correct evaluation", st.Phase, st.Last.Outcome.Partial)
	}
}

func TestPlayScreen_FillInBackspaceSkipsClues(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, fillQ())
	s.Init()

	typeKeys(s, "a") // slot 1, focus moves to 3
	s.Update(specialKey(tea.KeyBackspace))

	a := s.ctrl.Snapshot().Answer
	if a.Slots[1] != "" {
		t.Errorf("slot 1 = %q, want cleared", a.Slots[1])
	}
	if a.Slots[2] != "H" {
		t.Errorf("clue slot changed to %q", a.Slots[2])
	}
	if s.focus != 1 {
		t.Errorf("focus = %d, want 1", s.focus)
	}
}

func TestPlayScreen_FillInWrongTile(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, fillQ())
	s.Init()

	typeKeys(s, "z")
	if s.notice == "" {
		t.Error("expected a notice for a tile that is not in the pool")
	}
	if view := s.View(100, 30); !strings.Contains(view, "not in the pool") {
		t.Error("expected the notice in the view")
	}
}

func TestPlayScreen_FillInPoolDigits(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, fillQ())
	s.Init()

	// Pool is A A Y; the third tile is Y.
	typeKeys(s, "3")
	if got := s.ctrl.Snapshot().Answer.Slots[1]; got != "Y" {
		t.Errorf("slot 1 = %q, want Y", got)
	}
}

func TestPlayScreen_Categorize(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, categorizeQ())
	s.Init()

	typeKeys(s, "11") // aso then pusa into Hayop
	a := s.ctrl.Snapshot().Answer
	if a.Placement["aso"] != "Hayop" || a.Placement["pusa"] != "Hayop" {
		t.Fatalf("placement = %v, want aso and pusa in Hayop", a.Placement)
	}

	s.Update(specialKey(tea.KeyBackspace)) // focus is Hayop; removes pusa
	if _, ok := s.ctrl.Snapshot().Answer.Placement["pusa"]; ok {
		t.Error("expected pusa back in the pool")
	}

	typeKeys(s, "12") // pusa to Hayop, mangga to Halaman
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAnswered || !st.Last.Outcome.FullyCorrect() {
		t.Errorf("phase %v, want a fully correct evaluation", st.Phase)
	}
}

func TestPlayScreen_MatchSwapsTakenRight(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, matchQ())
	s.Init()

	typeKeys(s, "2") // aso -> aw-aw, focus moves to pusa
	if s.focus != 1 {
		t.Fatalf("focus = %d, want 1", s.focus)
	}
	typeKeys(s, "2") // pusa takes aw-aw from aso
	a := s.ctrl.Snapshot().Answer
	if !slices.Equal(a.Matches, []int{quiz.Unassigned, 1, quiz.Unassigned}) {
		t.Errorf("matches = %v, want [-1 1 -1]", a.Matches)
	}

	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyUp))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyBackspace)) // clears pusa
	if got := s.ctrl.Snapshot().Answer.Matches[1]; got != quiz.Unassigned {
		t.Errorf("pusa match = %d, want cleared", got)
	}
}

func TestPlayScreen_TimeoutViaTicks(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ(), fillQ())
	s.Init()
	h := s.ctrl.Snapshot().Handle

	var cmd tea.Cmd
	for i := 0; i < session.MultipleTimeLimitSecs; i++ {
		_, cmd = s.Update(tickMsg{handle: h})
	}
	if cmd == nil {
		t.Fatal("expected the feedback timer after timing out")
	}
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAnswered || !st.Last.TimedOut() {
		t.Fatalf("phase %v, want a timed-out evaluation", st.Phase)
	}
	if view := s.View(100, 30); !strings.Contains(view, "Time's up!") {
		t.Error("expected the time's up banner")
	}

	if _, cmd := s.Update(tickMsg{handle: h}); cmd != nil {
		t.Error("a stale tick must not schedule anything")
	}
}

func TestPlayScreen_QuitConfirm(t *testing.T) {
	s, _ := newTestScreen(t, &flakySubmitter{}, multipleQ())
	s.Init()

	s.Update(specialKey(tea.KeyEscape))
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	s.Update(keyPress('n'))
	if s.confirmQuit {
		t.Fatal("expected confirmation dismissed")
	}

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if s.ctrl.Snapshot().Phase != session.PhaseAbandoned {
		t.Error("expected the session to be abandoned")
	}
}

func TestPlayScreen_SubmitFailureAndRetry(t *testing.T) {
	sub := &flakySubmitter{fail: 1}
	s, clk := newTestScreen(t, sub, multipleQ())
	s.Init()
	s.Update(keyPress('2'))

	cmd := finishFeedback(s, clk)
	if cmd == nil || !s.submitting {
		t.Fatal("expected a submit command once the last question is done")
	}
	s.Update(cmd())
	if s.submitErr == nil {
		t.Fatal("expected the submission error to be shown")
	}
	if view := s.View(100, 30); !strings.Contains(view, "could not be sent") {
		t.Error("expected the failure message in the view")
	}
	if st := s.ctrl.Snapshot(); st.Score == 0 {
		t.Error("score must survive a failed submission")
	}

	_, cmd = s.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected a retry command")
	}
	_, cmd = s.Update(cmd())
	if cmd == nil {
		t.Fatal("expected the summary to be scheduled")
	}
	clk.t = clk.t.Add(s.ctrl.PresentationDelay())
	_, cmd = s.Update(summaryReadyMsg{})
	if cmd == nil {
		t.Fatal("expected navigation to the summary")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected a ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement screen = %T, want *summary.SummaryScreen", replace.Screen)
	}
	if len(sub.subs) != 1 {
		t.Errorf("delivered submissions = %d, want 1", len(sub.subs))
	}
}

func TestPlayScreen_SummaryWaitsForPresentationDelay(t *testing.T) {
	s, clk := newTestScreen(t, &flakySubmitter{}, multipleQ())
	s.Init()
	s.Update(keyPress('2'))
	cmd := finishFeedback(s, clk)

	// The submission returns instantly; the saved view stays up.
	_, cmd = s.Update(cmd())
	if cmd == nil || !s.submitting {
		t.Fatal("expected the summary to be held after an instant submission")
	}
	if view := s.View(100, 30); !strings.Contains(view, "Saved!") {
		t.Error("expected the saved message while the summary is held")
	}

	// An early wake-up reschedules instead of switching screens.
	clk.t = clk.t.Add(s.ctrl.PresentationDelay() / 2)
	s.Update(summaryReadyMsg{})
	if !s.submitting {
		t.Fatal("summary shown before the presentation delay passed")
	}

	clk.t = clk.t.Add(s.ctrl.PresentationDelay() / 2)
	_, cmd = s.Update(summaryReadyMsg{})
	if cmd == nil {
		t.Fatal("expected navigation to the summary")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected a ReplaceScreenMsg once the delay passed")
	}
	if s.submitting {
		t.Error("submitting should clear once the summary is shown")
	}
}

func TestPlayScreen_SubmitFailureQuit(t *testing.T) {
	s, clk := newTestScreen(t, &flakySubmitter{fail: 1}, multipleQ())
	s.Init()
	s.Update(keyPress('2'))
	cmd := finishFeedback(s, clk)
	s.Update(cmd())

	_, cmd = s.Update(keyPress('q'))
	if cmd == nil {
		t.Error("expected a quit command")
	}
	if s.ctrl.Snapshot().Phase != session.PhaseAbandoned {
		t.Error("quitting after a failed submission abandons the session")
	}
}

func TestPlayScreen_EmptyPlanSubmitsImmediately(t *testing.T) {
	sub := &flakySubmitter{}
	s, _ := newTestScreen(t, sub)

	cmd := s.Init()
	if cmd == nil || !s.submitting {
		t.Fatal("expected an immediate submission for an empty plan")
	}
	msg, ok := cmd().(submitDoneMsg)
	if !ok || msg.err != nil {
		t.Fatalf("submit result = %+v, want success", msg)
	}
	if len(sub.subs) != 1 || sub.subs[0].Score != 0 {
		t.Errorf("submissions = %+v, want one with score 0", sub.subs)
	}
}
