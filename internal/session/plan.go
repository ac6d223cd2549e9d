package session

import (
	"slices"
	"time"

	"github.com/abhisek/seatwork/internal/hints"
	"github.com/abhisek/seatwork/internal/quiz"
)

const (
	// MultipleTimeLimitSecs is the fixed limit for multiple-choice questions.
	MultipleTimeLimitSecs = 20

	// DefaultTimeLimitSecs applies when neither the question nor the grade sets one.
	DefaultTimeLimitSecs = 60

	// DefaultPresentationDelay is how long feedback stays up before advancing.
	DefaultPresentationDelay = 1500 * time.Millisecond
)

// Plan is the fixed input of a session: the ordered questions with their
// clue positions and time limits. It never changes once built.
type Plan struct {
	ItemID    string
	Mode      string
	Grade     int
	Questions []quiz.Question

	// Clues maps question IDs to pre-revealed positions.
	Clues map[string][]int

	// TimeLimits holds the countdown in seconds for each question, by index.
	TimeLimits []int
}

// PlanInput configures BuildPlan.
type PlanInput struct {
	ItemID    string
	Mode      string
	Grade     int
	Questions []quiz.Question

	// GradeTimeLimits overrides the 60 second default per grade.
	GradeTimeLimits map[int]int
}

// BuildPlan allocates clues and resolves time limits for every question.
func BuildPlan(in PlanInput, alloc *hints.Allocator) *Plan {
	questions := slices.Clone(in.Questions)
	limits := make([]int, len(questions))
	for i := range questions {
		limits[i] = TimeLimitFor(&questions[i], in.Grade, in.GradeTimeLimits)
	}
	return &Plan{
		ItemID:     in.ItemID,
		Mode:       in.Mode,
		Grade:      in.Grade,
		Questions:  questions,
		Clues:      alloc.ForSession(questions, in.Grade),
		TimeLimits: limits,
	}
}

// TimeLimitFor resolves the countdown for q: an explicit per-question limit,
// else 20s for multiple choice, else the grade default, else 60s.
func TimeLimitFor(q *quiz.Question, grade int, gradeDefaults map[int]int) int {
	if q.TimeLimitSecs > 0 {
		return q.TimeLimitSecs
	}
	if q.Kind == quiz.KindMultiple {
		return MultipleTimeLimitSecs
	}
	if secs := gradeDefaults[grade]; secs > 0 {
		return secs
	}
	return DefaultTimeLimitSecs
}

// TotalPossible is the maximum score of the plan.
func (p *Plan) TotalPossible() int {
	return len(p.Questions) * quiz.PointsPerQuestion
}
