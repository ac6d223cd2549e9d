package grading

import (
	"github.com/rs/zerolog"

	"github.com/abhisek/seatwork/internal/quiz"
)

// Outcome is the graded result of one frozen answer.
type Outcome struct {
	Partial float64
	Points  int
}

// FullyCorrect reports whether the answer earned full credit.
func (o Outcome) FullyCorrect() bool { return o.Partial >= 1 }

// PartiallyCorrect reports whether the answer earned some but not all credit.
func (o Outcome) PartiallyCorrect() bool { return o.Partial > 0 && o.Partial < 1 }

// Grader is the single scoring entry point shared by live sessions and
// review. It logs validation gaps and scores them 0.
type Grader struct {
	log zerolog.Logger
}

// NewGrader creates a Grader that reports gaps to log.
func NewGrader(log zerolog.Logger) *Grader {
	return &Grader{log: log.With().Str("component", "grader").Logger()}
}

// Score returns the partial credit for a, or 0 on a validation gap.
func (g *Grader) Score(q *quiz.Question, a quiz.Answer) float64 {
	p, err := Partial(q, a)
	if err != nil {
		g.log.Warn().Err(err).Msg("validation gap, scoring 0")
		return 0
	}
	return p
}

// Evaluate grades a persisted answer record against q.
func (g *Grader) Evaluate(q *quiz.Question, rec quiz.AnswerRecord) Outcome {
	p := g.Score(q, rec.Answer)
	return Outcome{
		Partial: p,
		Points:  QuestionPoints(p, rec.ElapsedMs, rec.TimeLimitSecs),
	}
}
