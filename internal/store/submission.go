package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/seatwork/internal/quiz"
)

// submissionRepo implements SubmissionRepo. Rows are upserted on the
// (user_id, mode, item_id) unique index.
type submissionRepo struct {
	db *sql.DB
}

var submissionSelectColumns = []string{
	"session_id", "user_id", "mode", "item_id", "score",
	"total_possible", "total_questions", "answers", "submitted_at",
}

func (r *submissionRepo) Save(ctx context.Context, sub quiz.Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(submissionsTable).
		Columns(submissionSelectColumns...).
		Values(sub.SessionID, sub.UserID, sub.Mode, sub.ItemID, sub.Score,
			sub.TotalPossible, sub.TotalQuestions, string(answers), submittedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id", "mode", "item_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) Latest(ctx context.Context, userID, mode, itemID string) (*quiz.Submission, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(submissionSelectColumns...).
		From(entsql.Table(submissionsTable)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("mode", mode),
			entsql.EQ("item_id", itemID),
		)).
		Limit(1).
		Query()

	sub, err := scanSubmission(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	return sub, nil
}

func (r *submissionRepo) List(ctx context.Context, opts QueryOpts) ([]quiz.Submission, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(submissionSelectColumns...).
		From(entsql.Table(submissionsTable)).
		OrderBy(entsql.Desc("submitted_at"))

	var preds []*entsql.Predicate
	if opts.UserID != "" {
		preds = append(preds, entsql.EQ("user_id", opts.UserID))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("submitted_at", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("submitted_at", opts.To.UTC()))
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
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []quiz.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*quiz.Submission, error) {
	var (
		sub     quiz.Submission
		answers string
	)
	if err := row.Scan(&sub.SessionID, &sub.UserID, &sub.Mode, &sub.ItemID, &sub.Score,
		&sub.TotalPossible, &sub.TotalQuestions, &answers, &sub.SubmittedAt); err != nil {
		return nil, err
	}
	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return &sub, nil
}
