package session

import (
	"context"
	"time"

	"github.com/abhisek/seatwork/internal/grading"
	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/store"
)

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseAwaiting  SessionPhase = iota // Countdown running, answer editable
	PhaseAnswered                      // Question evaluated, showing feedback
	PhaseCompleted                     // All questions evaluated, not yet submitted
	PhaseSubmitted                     // Submission delivered
	PhaseAbandoned                     // Left early; nothing will be submitted
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseAnswered:
		return "answered"
	case PhaseCompleted:
		return "completed"
	case PhaseSubmitted:
		return "submitted"
	case PhaseAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// TimerHandle identifies one countdown. A handle goes stale as soon as its
// question is evaluated or the session is abandoned; ticks carrying a stale
// handle are ignored.
type TimerHandle struct {
	question int
	gen      uint64
}

// Active reports whether the handle was issued for a running countdown.
func (h TimerHandle) Active() bool { return h.gen != 0 }

// Evaluation describes the grading of one question.
type Evaluation struct {
	Index    int
	Question *quiz.Question
	Outcome  grading.Outcome
	Result   quiz.QuestionResult
	Record   quiz.AnswerRecord
}

// TimedOut reports whether the countdown expired before completion.
func (e *Evaluation) TimedOut() bool { return e.Record.TimedOut }

// Submitter delivers a completed session.
type Submitter interface {
	Submit(ctx context.Context, sub quiz.Submission) error
}

// EventRecorder persists session and answer events.
type EventRecorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data store.AnswerEventData) error
}

// SessionState is a read-only copy of the controller state for rendering.
type SessionState struct {
	SessionID string
	Phase     SessionPhase

	// Index is the current question; equals Total once completed.
	Index int
	Total int

	// Question and Answer are nil/zero outside PhaseAwaiting and PhaseAnswered.
	Question *quiz.Question
	Answer   quiz.Answer

	Remaining int // seconds left on the countdown
	TimeLimit int
	Handle    TimerHandle

	Score         int
	TotalPossible int

	// Last is the most recent evaluation, nil before the first one.
	Last *Evaluation

	// SubmitErr holds the last submission failure while retry is possible.
	SubmitErr error

	StartTime time.Time
}
