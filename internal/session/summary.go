package session

import (
	"time"

	"github.com/abhisek/seatwork/internal/quiz"
)

// QuestionSummary is one row of the summary screen.
type QuestionSummary struct {
	QuestionID string
	Kind       quiz.Kind
	Prompt     string
	Partial    float64
	Points     int
	TimedOut   bool
}

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	SessionID      string
	ItemID         string
	Duration       time.Duration
	Score          int
	TotalPossible  int
	TotalQuestions int
	Answered       int
	FullyCorrect   int
	PartlyCorrect  int
	Incorrect      int
	TimedOut       int
	Percentage     float64
	Submitted      bool
	Abandoned      bool
	Questions      []QuestionSummary
}

// Summary builds the SessionSummary from the evaluations so far. Partial
// credit counts as partly correct, never as fully correct.
func (c *Controller) Summary() *SessionSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &SessionSummary{
		SessionID:      c.sessionID,
		ItemID:         c.plan.ItemID,
		Duration:       c.now().Sub(c.startTime),
		Score:          c.score,
		TotalPossible:  c.plan.TotalPossible(),
		TotalQuestions: len(c.plan.Questions),
		Answered:       len(c.evaluations),
		Percentage:     quiz.Percentage(c.score, c.plan.TotalPossible()),
		Submitted:      c.phase == PhaseSubmitted,
		Abandoned:      c.phase == PhaseAbandoned,
	}
	for _, ev := range c.evaluations {
		switch {
		case ev.Outcome.FullyCorrect():
			s.FullyCorrect++
		case ev.Outcome.PartiallyCorrect():
			s.PartlyCorrect++
		default:
			s.Incorrect++
		}
		if ev.TimedOut() {
			s.TimedOut++
		}
		s.Questions = append(s.Questions, QuestionSummary{
			QuestionID: ev.Question.ID,
			Kind:       ev.Question.Kind,
			Prompt:     ev.Question.Prompt,
			Partial:    ev.Outcome.Partial,
			Points:     ev.Outcome.Points,
			TimedOut:   ev.TimedOut(),
		})
	}
	return s
}
