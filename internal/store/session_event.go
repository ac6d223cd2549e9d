package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/seatwork/internal/quiz"
)

// eventRepo implements EventRepo with the ent SQL builders.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionEventsTable).
		Columns("sequence", "timestamp", "session_id", "action", "item_id", "mode",
			"grade", "questions_served", "score", "duration_secs").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Action, data.ItemID, data.Mode,
			data.Grade, data.QuestionsServed, data.Score, data.DurationSecs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(answerEventsTable).
		Columns("sequence", "timestamp", "session_id", "question_id", "kind",
			"partial", "points", "correct", "timed_out", "time_ms").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.QuestionID, string(data.Kind),
			data.Partial, data.Points, data.Correct, data.TimedOut, data.TimeMs).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "action", "item_id", "mode",
			"grade", "questions_served", "score", "duration_secs").
		From(entsql.Table(sessionEventsTable)).
		OrderBy("sequence")

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.Action, &e.ItemID, &e.Mode,
			&e.Grade, &e.QuestionsServed, &e.Score, &e.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "question_id", "kind",
			"partial", "points", "correct", "timed_out", "time_ms").
		From(entsql.Table(answerEventsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var events []AnswerEvent
	for rows.Next() {
		var (
			e    AnswerEvent
			kind string
		)
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.QuestionID, &kind,
			&e.Partial, &e.Points, &e.Correct, &e.TimedOut, &e.TimeMs); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		e.Kind = quiz.Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}
