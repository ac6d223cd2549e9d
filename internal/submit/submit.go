// Package submit delivers completed sessions to the local store and,
// when configured, to a Redis queue.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/seatwork/internal/quiz"
	"github.com/abhisek/seatwork/internal/store"
)

// Sink receives a completed session.
type Sink interface {
	Submit(ctx context.Context, sub quiz.Submission) error
}

// Named pairs a sink with a label for error messages.
type Named struct {
	Name string
	Sink Sink
}

// Multi fans a submission out to every sink. All sinks are attempted; the
// joined error names each one that failed. A retry runs the whole fan-out
// again, so every sink is idempotent per session: Repo upserts and
// RedisQueue pushes a session at most once.
type Multi []Named

func (m Multi) Submit(ctx context.Context, sub quiz.Submission) error {
	var errs []error
	for _, n := range m {
		if err := n.Sink.Submit(ctx, sub); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Repo adapts a store.SubmissionRepo into a Sink. Saves are upserts on
// (user, mode, item), so retries are harmless.
type Repo struct {
	Repo store.SubmissionRepo
}

func (r Repo) Submit(ctx context.Context, sub quiz.Submission) error {
	return r.Repo.Save(ctx, sub)
}
