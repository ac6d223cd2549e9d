// Package review recomputes a session's scores from a persisted submission.
// It only reads the stored answer records and the canonical question keys,
// and grades them with the same grading.Grader used during play.
package review

import (
	"github.com/abhisek/seatwork/internal/grading"
	"github.com/abhisek/seatwork/internal/quiz"
)

// Line is the recomputed result of one answer record.
type Line struct {
	QuestionID string
	Kind       quiz.Kind
	Prompt     string
	Partial    float64
	Points     int
	TimedOut   bool

	// Missing is set when the record's question is not in the question set.
	Missing bool
}

// FullyCorrect reports whether the line earned full credit.
func (l Line) FullyCorrect() bool { return l.Partial >= 1 }

// PartiallyCorrect reports whether the line earned some but not all credit.
func (l Line) PartiallyCorrect() bool { return l.Partial > 0 && l.Partial < 1 }

// Report is the recomputed view of a submission.
type Report struct {
	Lines         []Line
	Score         int
	TotalPossible int
	Percentage    float64

	// SubmittedScore and SubmittedPercentage are what the session reported.
	SubmittedScore      int
	SubmittedPercentage float64
}

// Matches reports whether the recomputed score agrees with the submitted one.
func (r Report) Matches() bool {
	return r.Score == r.SubmittedScore && r.Percentage == r.SubmittedPercentage
}

// Recompute grades every answer record of sub against questions.
func Recompute(questions []quiz.Question, sub quiz.Submission, g *grading.Grader) Report {
	byID := make(map[string]*quiz.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	r := Report{
		TotalPossible:       sub.TotalPossible,
		SubmittedScore:      sub.Score,
		SubmittedPercentage: quiz.Percentage(sub.Score, sub.TotalPossible),
	}
	for _, rec := range sub.Answers {
		line := Line{QuestionID: rec.QuestionID, Kind: rec.Kind, TimedOut: rec.TimedOut}
		q, ok := byID[rec.QuestionID]
		if !ok {
			// Graded as a validation gap: scores 0.
			line.Missing = true
		} else {
			line.Prompt = q.Prompt
		}
		outcome := g.Evaluate(q, rec)
		line.Partial = outcome.Partial
		line.Points = outcome.Points
		r.Score += outcome.Points
		r.Lines = append(r.Lines, line)
	}
	r.Percentage = quiz.Percentage(r.Score, r.TotalPossible)
	return r
}
