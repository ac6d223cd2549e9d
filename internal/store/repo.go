package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/seatwork/internal/quiz"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session event actions.
const (
	ActionStart   = "start"
	ActionEnd     = "end"
	ActionAbandon = "abandon"
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After (events only)
	UserID string    // submissions only
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	SessionID       string
	Action          string
	ItemID          string
	Mode            string
	Grade           int
	QuestionsServed int
	Score           int
	DurationSecs    int
}

// SessionEvent is a persisted SessionEventData.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AnswerEventData captures the evaluation of one question.
type AnswerEventData struct {
	SessionID  string
	QuestionID string
	Kind       quiz.Kind
	Partial    float64
	Points     int
	Correct    bool
	TimedOut   bool
	TimeMs     int64
}

// AnswerEvent is a persisted AnswerEventData.
type AnswerEvent struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// EventRepo provides append and query access to session and answer events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// SessionEvents returns session events ordered by sequence.
	SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// SessionAnswers returns the answer events of one session in order.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error)
}

// SubmissionRepo persists completed sessions, one per (user, mode, item).
type SubmissionRepo interface {
	// Save inserts sub, replacing any earlier submission with the same key.
	Save(ctx context.Context, sub quiz.Submission) error

	// Latest returns the stored submission for the key or ErrNotFound.
	Latest(ctx context.Context, userID, mode, itemID string) (*quiz.Submission, error)

	// List returns submissions, newest first.
	List(ctx context.Context, opts QueryOpts) ([]quiz.Submission, error)
}
