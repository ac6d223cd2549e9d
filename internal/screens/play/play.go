// Package play is the screen that runs one seatwork session: it renders
// the current question, turns key presses into answer mutations, drives
// the countdown and presentation delay with tea.Tick, and submits the
// finished session.
package play

import (
	"context"
	"errors"
	"slices"
	"time"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/seatwork/internal/answers"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/router"
	"github.com/abhisek/seatwork/internal/screen"
	"github.com/abhisek/seatwork/internal/screens/summary"
	"github.com/abhisek/seatwork/internal/session"
	"github.com/abhisek/seatwork/internal/ui/layout"
)

// DefaultSubmitTimeout bounds one submission attempt.
const DefaultSubmitTimeout = 10 * time.Second

// Options configures a PlayScreen.
type Options struct {
	SubmitTimeout time.Duration
	Logger        zerolog.Logger
	Now           func() time.Time // defaults to time.Now
}

// PlayScreen implements screen.Screen for an active session.
type PlayScreen struct {
	ctrl          *session.Controller
	keys          keyMap
	submitTimeout time.Duration
	log           zerolog.Logger
	now           func() time.Time

	// focus is the slot, category, left item or option under the cursor;
	// pick is the cursor in the tile pool.
	focus int
	pick  int

	confirmQuit bool
	submitting  bool
	submitErr   error
	notice      string

	// submitStarted is when the current submission attempt began. The
	// summary is held until the presentation delay has passed since then.
	submitStarted time.Time
	result        *session.SessionSummary
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)

// New creates a PlayScreen around a controller that has not been started.
func New(ctrl *session.Controller, opts Options) *PlayScreen {
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = DefaultSubmitTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &PlayScreen{
		ctrl:          ctrl,
		keys:          defaultKeys(),
		submitTimeout: opts.SubmitTimeout,
		log:           opts.Logger.With().Str("component", "play").Logger(),
		now:           opts.Now,
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	return s.enter(s.ctrl.Start())
}

func (s *PlayScreen) Title() string {
	return "Seatwork"
}

func (s *PlayScreen) HeaderStatus() layout.HeaderStatus {
	st := s.ctrl.Snapshot()
	return layout.HeaderStatus{
		Score:    st.Score,
		Question: min(st.Index+1, st.Total),
		Total:    st.Total,
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.submitErr != nil:
		return []layout.KeyHint{hint(s.keys.Retry), hint(s.keys.Exit)}
	case s.submitting:
		return nil
	case s.confirmQuit:
		return []layout.KeyHint{hint(s.keys.Confirm), hint(s.keys.Cancel)}
	}
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAwaiting || st.Question == nil {
		return []layout.KeyHint{hint(s.keys.Quit)}
	}
	return s.keys.questionHints(st.Question.Kind)
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.handleTick(msg)
	case feedbackDoneMsg:
		return s, s.handleFeedbackDone(msg)
	case submitDoneMsg:
		return s, s.handleSubmitDone(msg)
	case summaryReadyMsg:
		return s, s.showSummary()
	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

// enter resets the cursors for a new question and schedules its first
// tick. An inactive handle means the session just completed.
func (s *PlayScreen) enter(h session.TimerHandle) tea.Cmd {
	s.focus, s.pick, s.notice = 0, 0, ""
	if h.Active() {
		st := s.ctrl.Snapshot()
		s.focus = firstOpenSlot(st.Answer)
		return tickCmd(h)
	}
	if s.ctrl.Snapshot().Phase == session.PhaseCompleted {
		s.submitting = true
		return s.submitCmd()
	}
	return nil
}

func (s *PlayScreen) handleTick(msg tickMsg) tea.Cmd {
	ev, running := s.ctrl.Tick(msg.handle)
	if running {
		return tickCmd(msg.handle)
	}
	if ev != nil {
		return feedbackCmd(ev.Index, s.ctrl.PresentationDelay())
	}
	return nil
}

func (s *PlayScreen) handleFeedbackDone(msg feedbackDoneMsg) tea.Cmd {
	st := s.ctrl.Snapshot()
	if st.Phase != session.PhaseAnswered || st.Index != msg.index {
		return nil
	}
	h, err := s.ctrl.Next()
	if errors.Is(err, session.ErrPresentationPending) {
		return feedbackCmd(msg.index, pendingRetry)
	}
	if err != nil {
		s.log.Debug().Err(err).Msg("next question")
		return nil
	}
	return s.enter(h)
}

func (s *PlayScreen) handleSubmitDone(msg submitDoneMsg) tea.Cmd {
	if msg.err != nil {
		s.submitting = false
		s.submitErr = msg.err
		return nil
	}
	s.submitErr = nil
	s.result = s.ctrl.Summary()
	return s.showSummary()
}

// showSummary switches to the results screen once the saving view has been
// up for the presentation delay, however fast the submission returned.
func (s *PlayScreen) showSummary() tea.Cmd {
	if s.result == nil {
		return nil
	}
	if wait := s.ctrl.PresentationDelay() - s.now().Sub(s.submitStarted); wait > 0 {
		return summaryCmd(wait)
	}
	s.submitting = false
	sum := s.result
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *PlayScreen) submitCmd() tea.Cmd {
	s.submitStarted = s.now()
	ctrl, timeout := s.ctrl, s.submitTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
}

func (s *PlayScreen) quit() tea.Cmd {
	s.ctrl.Abandon()
	return tea.Quit
}

func (s *PlayScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.submitErr != nil {
		switch {
		case key.Matches(msg, s.keys.Retry):
			s.submitErr = nil
			s.submitting = true
			return s.submitCmd()
		case key.Matches(msg, s.keys.Exit):
			return s.quit()
		}
		return nil
	}
	if s.submitting {
		return nil
	}

	if s.confirmQuit {
		switch {
		case key.Matches(msg, s.keys.Confirm):
			return s.quit()
		case key.Matches(msg, s.keys.Cancel):
			s.confirmQuit = false
		}
		return nil
	}

	st := s.ctrl.Snapshot()
	if key.Matches(msg, s.keys.Quit) {
		s.confirmQuit = true
		return nil
	}
	if st.Phase != session.PhaseAwaiting || st.Question == nil {
		return nil
	}

	s.notice = ""
	q, a := st.Question, st.Answer
	var m answers.Mutation
	switch q.Kind {
	case quiz.KindMultiple:
		m = s.multipleKey(msg, q)
	case quiz.KindFillIn, quiz.KindSyllableOrder:
		m = s.slotKey(msg, q, a)
	case quiz.KindCategorize:
		m = s.categorizeKey(msg, q, a)
	case quiz.KindMatchPairs:
		m = s.matchKey(msg, q, a)
	}
	if m == nil {
		return nil
	}
	return s.apply(m, q)
}

// apply runs m and, when it completes the answer, schedules the end of
// the feedback period.
func (s *PlayScreen) apply(m answers.Mutation, q *quiz.Question) tea.Cmd {
	ev, err := s.ctrl.Apply(m)
	if err != nil {
		s.notice = noticeFor(err)
		return nil
	}
	if ev != nil {
		return feedbackCmd(ev.Index, s.ctrl.PresentationDelay())
	}

	st := s.ctrl.Snapshot()
	switch q.Kind {
	case quiz.KindFillIn, quiz.KindSyllableOrder:
		if s.focus < len(st.Answer.Slots) && st.Answer.Slots[s.focus] != "" {
			s.focus = nextOpenSlot(st.Answer, s.focus)
		}
	case quiz.KindMatchPairs:
		if s.focus < len(st.Answer.Matches) && st.Answer.Matches[s.focus] != quiz.Unassigned {
			s.focus = nextUnmatched(st.Answer, s.focus)
		}
	}
	s.pick = clamp(s.pick, len(answers.Pool(q, st.Answer)))
	return nil
}

func (s *PlayScreen) multipleKey(msg tea.KeyPressMsg, q *quiz.Question) answers.Mutation {
	if q.Multiple == nil {
		return nil
	}
	n := len(q.Multiple.Options)
	switch {
	case key.Matches(msg, s.keys.Up):
		s.focus = clamp(s.focus-1, n)
	case key.Matches(msg, s.keys.Down):
		s.focus = clamp(s.focus+1, n)
	case key.Matches(msg, s.keys.Pick):
		return answers.Select(s.focus)
	default:
		if d, ok := digit(msg, n); ok {
			s.focus = d
			return answers.Select(d)
		}
	}
	return nil
}

func (s *PlayScreen) slotKey(msg tea.KeyPressMsg, q *quiz.Question, a quiz.Answer) answers.Mutation {
	pool := answers.Pool(q, a)
	if q.Kind == quiz.KindFillIn {
		if r, ok := letter(msg); ok {
			return answers.Place(s.focus, string(r))
		}
	}
	switch {
	case key.Matches(msg, s.keys.Left):
		s.focus = stepSlot(a, s.focus, -1)
	case key.Matches(msg, s.keys.Right):
		s.focus = stepSlot(a, s.focus, 1)
	case key.Matches(msg, s.keys.Up):
		s.pick = clamp(s.pick-1, len(pool))
	case key.Matches(msg, s.keys.Down):
		s.pick = clamp(s.pick+1, len(pool))
	case key.Matches(msg, s.keys.Pick):
		if s.pick < len(pool) {
			return answers.Place(s.focus, pool[s.pick])
		}
	case key.Matches(msg, s.keys.Remove):
		if s.focus < len(a.Slots) && a.Slots[s.focus] == "" {
			s.focus = stepSlot(a, s.focus, -1)
		}
		return answers.Remove(s.focus)
	default:
		if d, ok := digit(msg, len(pool)); ok {
			return answers.Place(s.focus, pool[d])
		}
	}
	return nil
}

func (s *PlayScreen) categorizeKey(msg tea.KeyPressMsg, q *quiz.Question, a quiz.Answer) answers.Mutation {
	ck := q.Categorize
	if ck == nil {
		return nil
	}
	pool := answers.Pool(q, a)
	cats := ck.Categories
	switch {
	case key.Matches(msg, s.keys.Up):
		s.pick = clamp(s.pick-1, len(pool))
	case key.Matches(msg, s.keys.Down):
		s.pick = clamp(s.pick+1, len(pool))
	case key.Matches(msg, s.keys.Left):
		s.focus = clamp(s.focus-1, len(cats))
	case key.Matches(msg, s.keys.Right):
		s.focus = clamp(s.focus+1, len(cats))
	case key.Matches(msg, s.keys.Pick):
		if s.pick < len(pool) && s.focus < len(cats) {
			return answers.Assign(cats[s.focus], pool[s.pick])
		}
	case key.Matches(msg, s.keys.Remove):
		if s.focus < len(cats) {
			if item, ok := lastIn(ck, a, cats[s.focus]); ok {
				return answers.Unassign(cats[s.focus], item)
			}
		}
	default:
		if d, ok := digit(msg, len(cats)); ok && s.pick < len(pool) {
			s.focus = d
			return answers.Assign(cats[d], pool[s.pick])
		}
	}
	return nil
}

func (s *PlayScreen) matchKey(msg tea.KeyPressMsg, q *quiz.Question, a quiz.Answer) answers.Mutation {
	if q.MatchPairs == nil {
		return nil
	}
	n := len(q.MatchPairs.Left)
	switch {
	case key.Matches(msg, s.keys.Up):
		s.focus = clamp(s.focus-1, n)
	case key.Matches(msg, s.keys.Down):
		s.focus = clamp(s.focus+1, n)
	case key.Matches(msg, s.keys.Remove):
		return answers.Unmatch(s.focus)
	default:
		d, ok := digit(msg, len(q.MatchPairs.Right))
		if !ok {
			return nil
		}
		// A right item held elsewhere is exchanged rather than refused.
		if holder := slices.Index(a.Matches, d); holder >= 0 && holder != s.focus {
			return answers.Swap(s.focus, holder)
		}
		return answers.Match(s.focus, d)
	}
	return nil
}

// digit maps the keys 1-9 to an index below n.
func digit(msg tea.KeyPressMsg, n int) (int, bool) {
	str := msg.String()
	if len(str) != 1 || str[0] < '1' || str[0] > '9' {
		return 0, false
	}
	d := int(str[0] - '1')
	return d, d < n
}

// letter returns the typed letter, if the key is a single letter.
func letter(msg tea.KeyPressMsg) (rune, bool) {
	if msg.Text == "" || utf8.RuneCountInString(msg.Text) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(msg.Text)
	return r, unicode.IsLetter(r)
}

func clamp(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}

// firstOpenSlot returns the first empty non-clue slot, or 0.
func firstOpenSlot(a quiz.Answer) int {
	for i, v := range a.Slots {
		if v == "" && !a.IsClue(i) {
			return i
		}
	}
	return 0
}

// nextOpenSlot returns the next empty non-clue slot after from, wrapping,
// or from when every slot is filled.
func nextOpenSlot(a quiz.Answer, from int) int {
	n := len(a.Slots)
	for step := 1; step < n; step++ {
		i := (from + step) % n
		if a.Slots[i] == "" && !a.IsClue(i) {
			return i
		}
	}
	return from
}

// stepSlot moves from by dir, skipping clue slots. It stays put at either end.
func stepSlot(a quiz.Answer, from, dir int) int {
	for i := from + dir; i >= 0 && i < len(a.Slots); i += dir {
		if !a.IsClue(i) {
			return i
		}
	}
	return from
}

func nextUnmatched(a quiz.Answer, from int) int {
	n := len(a.Matches)
	for step := 1; step < n; step++ {
		i := (from + step) % n
		if a.Matches[i] == quiz.Unassigned {
			return i
		}
	}
	return from
}

// lastIn returns the last item, in canonical order, placed in category.
func lastIn(k *quiz.CategorizeKey, a quiz.Answer, category string) (string, bool) {
	items := k.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if a.Placement[items[i]] == category {
			return items[i], true
		}
	}
	return "", false
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, answers.ErrNotInPool):
		return "That tile is not in the pool."
	case errors.Is(err, answers.ErrHintSlot):
		return "That slot is a clue."
	case errors.Is(err, answers.ErrRightTaken):
		return "That one is already matched."
	case errors.Is(err, session.ErrNotAwaiting):
		return ""
	}
	return err.Error()
}
