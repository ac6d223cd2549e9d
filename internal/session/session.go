package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/seatwork/internal/answers"
	"github.com/abhisek/seatwork/internal/grading"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/store"
)

var (
	ErrNotAwaiting         = errors.New("no question is awaiting an answer")
	ErrNotAnswered         = errors.New("current question has not been evaluated")
	ErrPresentationPending = errors.New("feedback is still being presented")
	ErrNotCompleted        = errors.New("session is not completed")
	ErrAbandoned           = errors.New("session was abandoned")
	ErrAlreadySubmitted    = errors.New("session was already submitted")
	ErrSubmitInFlight      = errors.New("submission already in progress")
)

// SubmitError reports a failed submission. The session keeps its score and
// answers and Submit may be called again.
type SubmitError struct {
	Cause error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit session: %v", e.Cause)
}

func (e *SubmitError) Unwrap() error { return e.Cause }

// Options configures a Controller.
type Options struct {
	SessionID         string // generated when empty
	UserID            string
	PresentationDelay time.Duration
	Now               func() time.Time
	Events            EventRecorder // optional
	Logger            zerolog.Logger
}

// Controller runs one session: it owns the answer state, the countdown and
// the score. All methods are safe for concurrent use; they are serialized
// on a mutex so the timeout and completion paths never interleave.
type Controller struct {
	mu sync.Mutex

	plan      *Plan
	grader    *grading.Grader
	submitter Submitter
	events    EventRecorder
	log       zerolog.Logger
	now       func() time.Time
	delay     time.Duration

	sessionID string
	userID    string

	phase   SessionPhase
	index   int
	answers answers.State
	locked  []atomic.Bool

	remaining  int
	gen        uint64
	live       uint64 // generation of the running countdown, 0 if none
	shownAt    time.Time
	answeredAt time.Time
	startTime  time.Time

	score       int
	results     []quiz.QuestionResult
	records     []quiz.AnswerRecord
	evaluations []*Evaluation

	submitting bool
	submitErr  error
	submission *quiz.Submission
}

// NewController creates a controller for plan. Call Start to show the
// first question.
func NewController(plan *Plan, grader *grading.Grader, submitter Submitter, opts Options) *Controller {
	if opts.SessionID == "" {
		opts.SessionID = uuid.New().String()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PresentationDelay <= 0 {
		opts.PresentationDelay = DefaultPresentationDelay
	}
	return &Controller{
		plan:      plan,
		grader:    grader,
		submitter: submitter,
		events:    opts.Events,
		log:       opts.Logger.With().Str("component", "session").Str("session_id", opts.SessionID).Logger(),
		now:       opts.Now,
		delay:     opts.PresentationDelay,
		sessionID: opts.SessionID,
		userID:    opts.UserID,
		answers:   answers.Seed(plan.Questions, plan.Clues),
		locked:    make([]atomic.Bool, len(plan.Questions)),
	}
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string { return c.sessionID }

// PresentationDelay returns how long feedback is shown before Next.
func (c *Controller) PresentationDelay() time.Duration { return c.delay }

// Start enters the first question and returns its countdown handle. An
// empty plan completes immediately with a score of 0.
func (c *Controller) Start() TimerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = c.now()
	c.recordSession(store.ActionStart)
	c.log.Info().
		Str("item_id", c.plan.ItemID).
		Int("grade", c.plan.Grade).
		Int("questions", len(c.plan.Questions)).
		Msg("session started")

	if len(c.plan.Questions) == 0 {
		c.log.Warn().Msg("empty question list, completing with score 0")
		c.phase = PhaseCompleted
		return TimerHandle{}
	}
	return c.enter(0)
}

// enter shows question i and starts a fresh countdown.
func (c *Controller) enter(i int) TimerHandle {
	c.index = i
	c.phase = PhaseAwaiting
	c.remaining = c.plan.TimeLimits[i]
	c.shownAt = c.now()
	c.gen++
	c.live = c.gen
	return TimerHandle{question: i, gen: c.gen}
}

// Apply runs m against the current question's answer. When the answer
// becomes complete the question is evaluated and the evaluation returned.
func (c *Controller) Apply(m answers.Mutation) (*Evaluation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAwaiting {
		return nil, ErrNotAwaiting
	}
	q := &c.plan.Questions[c.index]
	next, err := c.answers.Apply(q, m)
	if err != nil {
		return nil, err
	}
	c.answers = next

	a, _ := c.answers.Get(q.ID)
	if !answers.Complete(q, a) {
		return nil, nil
	}
	return c.evaluate(false), nil
}

// Tick advances the countdown carrying h by one second. Stale handles are
// ignored. It returns the evaluation when the countdown reaches zero and
// whether the countdown is still running.
func (c *Controller) Tick(h TimerHandle) (*Evaluation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !h.Active() || h.gen != c.live || c.phase != PhaseAwaiting {
		c.log.Debug().Int("question", h.question).Msg("ignoring stale tick")
		return nil, false
	}
	c.remaining--
	if c.remaining > 0 {
		return nil, true
	}
	return c.evaluate(true), false
}

// evaluate grades the current question exactly once. The per-question lock
// is taken before anything else; a second caller gets nil.
func (c *Controller) evaluate(timedOut bool) *Evaluation {
	i := c.index
	if !c.locked[i].CompareAndSwap(false, true) {
		c.log.Debug().Int("question", i).Msg("question already evaluated")
		return nil
	}
	c.live = 0

	q := &c.plan.Questions[i]
	limit := c.plan.TimeLimits[i]
	elapsed := max(c.now().Sub(c.shownAt).Milliseconds(), 0)
	if timedOut {
		elapsed = int64(limit) * 1000
	}

	c.answers = c.answers.Freeze(q.ID)
	a, _ := c.answers.Get(q.ID)
	rec := quiz.AnswerRecord{
		QuestionID:    q.ID,
		Kind:          q.Kind,
		Answer:        a,
		ElapsedMs:     elapsed,
		TimeLimitSecs: limit,
		TimedOut:      timedOut,
	}
	outcome := c.grader.Evaluate(q, rec)

	ev := &Evaluation{
		Index:    i,
		Question: q,
		Outcome:  outcome,
		Result: quiz.QuestionResult{
			QuestionID:   q.ID,
			Correct:      outcome.FullyCorrect(),
			AnswerTimeMs: elapsed,
		},
		Record: rec,
	}
	c.score += outcome.Points
	c.results = append(c.results, ev.Result)
	c.records = append(c.records, rec)
	c.evaluations = append(c.evaluations, ev)
	c.phase = PhaseAnswered
	c.answeredAt = c.now()

	c.log.Info().
		Str("question_id", q.ID).
		Str("kind", string(q.Kind)).
		Float64("partial", outcome.Partial).
		Int("points", outcome.Points).
		Int("score", c.score).
		Bool("timed_out", timedOut).
		Int64("elapsed_ms", elapsed).
		Msg("question evaluated")

	if c.events != nil {
		err := c.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
			SessionID:  c.sessionID,
			QuestionID: q.ID,
			Kind:       q.Kind,
			Partial:    outcome.Partial,
			Points:     outcome.Points,
			Correct:    outcome.FullyCorrect(),
			TimedOut:   timedOut,
			TimeMs:     elapsed,
		})
		if err != nil {
			c.log.Warn().Err(err).Msg("record answer event")
		}
	}
	return ev
}

// Next advances past an evaluated question once the presentation delay has
// passed. It returns the new countdown handle, or an inactive handle when
// the session is now completed.
func (c *Controller) Next() (TimerHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAnswered {
		return TimerHandle{}, ErrNotAnswered
	}
	if c.now().Sub(c.answeredAt) < c.delay {
		return TimerHandle{}, ErrPresentationPending
	}
	if c.index+1 < len(c.plan.Questions) {
		return c.enter(c.index + 1), nil
	}

	c.index = len(c.plan.Questions)
	c.phase = PhaseCompleted
	c.log.Info().Int("score", c.score).Int("total_possible", c.plan.TotalPossible()).Msg("session completed")
	return TimerHandle{}, nil
}

// Submit delivers the completed session. On failure the phase stays
// PhaseCompleted and the returned *SubmitError allows a retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.phase == PhaseAbandoned:
		c.mu.Unlock()
		return ErrAbandoned
	case c.phase == PhaseSubmitted:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	case c.phase != PhaseCompleted:
		c.mu.Unlock()
		return ErrNotCompleted
	case c.submitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	sub := c.buildSubmission()
	c.submitting = true
	c.mu.Unlock()

	err := c.submitter.Submit(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.submitErr = &SubmitError{Cause: err}
		c.log.Error().Err(err).Int("score", sub.Score).Msg("submission failed")
		return c.submitErr
	}
	c.submitErr = nil
	c.submission = &sub
	if c.phase == PhaseCompleted {
		c.phase = PhaseSubmitted
		c.recordSession(store.ActionEnd)
	}
	c.log.Info().Int("score", sub.Score).Msg("session submitted")
	return nil
}

func (c *Controller) buildSubmission() quiz.Submission {
	return quiz.Submission{
		SessionID:      c.sessionID,
		UserID:         c.userID,
		Mode:           c.plan.Mode,
		ItemID:         c.plan.ItemID,
		Score:          c.score,
		TotalPossible:  c.plan.TotalPossible(),
		TotalQuestions: len(c.plan.Questions),
		Answers:        append([]quiz.AnswerRecord(nil), c.records...),
		SubmittedAt:    c.now(),
	}
}

// Abandon tears down the countdown and ends the session without
// submitting. It reports whether the session was still open.
func (c *Controller) Abandon() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseSubmitted, PhaseAbandoned:
		return false
	}
	if c.phase == PhaseAwaiting {
		// Block any late evaluation of the open question.
		c.locked[c.index].Store(true)
	}
	c.live = 0
	c.phase = PhaseAbandoned
	c.recordSession(store.ActionAbandon)
	c.log.Info().Int("question", c.index).Int("score", c.score).Msg("session abandoned")
	return true
}

// Snapshot returns a copy of the state for rendering.
func (c *Controller) Snapshot() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := SessionState{
		SessionID:     c.sessionID,
		Phase:         c.phase,
		Index:         c.index,
		Total:         len(c.plan.Questions),
		Remaining:     c.remaining,
		Score:         c.score,
		TotalPossible: c.plan.TotalPossible(),
		SubmitErr:     c.submitErr,
		StartTime:     c.startTime,
	}
	if c.live != 0 {
		s.Handle = TimerHandle{question: c.index, gen: c.live}
	}
	if c.index < len(c.plan.Questions) && (c.phase == PhaseAwaiting || c.phase == PhaseAnswered) {
		q := &c.plan.Questions[c.index]
		s.Question = q
		s.Answer, _ = c.answers.Get(q.ID)
		s.TimeLimit = c.plan.TimeLimits[c.index]
	}
	if n := len(c.evaluations); n > 0 {
		s.Last = c.evaluations[n-1]
	}
	return s
}

// Results returns the recorded question results in order.
func (c *Controller) Results() []quiz.QuestionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]quiz.QuestionResult(nil), c.results...)
}

// Submission returns the delivered submission, or nil before success.
func (c *Controller) Submission() *quiz.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submission
}

func (c *Controller) recordSession(action string) {
	if c.events == nil {
		return
	}
	data := store.SessionEventData{
		SessionID: c.sessionID,
		Action:    action,
		ItemID:    c.plan.ItemID,
		Mode:      c.plan.Mode,
		Grade:     c.plan.Grade,
	}
	if action != store.ActionStart {
		data.QuestionsServed = len(c.results)
		data.Score = c.score
		data.DurationSecs = int(c.now().Sub(c.startTime).Seconds())
	}
	if err := c.events.AppendSessionEvent(context.Background(), data); err != nil {
		c.log.Warn().Err(err).Str("action", action).Msg("record session event")
	}
}
