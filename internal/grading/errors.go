package grading

import (
	"errors"
	"fmt"

	"github.com/abhisek/seatwork/internal/quiz"
)

// ErrValidationGap matches every GapError via errors.Is.
var ErrValidationGap = errors.New("validation gap")

// GapError reports a question or answer that cannot be graded: a missing
// canonical key, a malformed answer, or an unknown question type. A gap
// always scores 0.
type GapError struct {
	QuestionID string
	Kind       quiz.Kind
	Reason     string
}

func (e *GapError) Error() string {
	return fmt.Sprintf("question %q (%s): %s", e.QuestionID, e.Kind, e.Reason)
}

func (e *GapError) Is(target error) bool { return target == ErrValidationGap }

func gap(q *quiz.Question, reason string) *GapError {
	if q == nil {
		return &GapError{Reason: reason}
	}
	return &GapError{QuestionID: q.ID, Kind: q.Kind, Reason: reason}
}
