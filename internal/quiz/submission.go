package quiz

import "time"

// PointsPerQuestion is the maximum a single question can earn:
// 1000 base plus a 1000 speed bonus.
const PointsPerQuestion = 2000

// Submission is the record sent to the submission collaborators when a
// session completes. It is keyed by (UserID, Mode, ItemID).
type Submission struct {
	SessionID      string         `json:"session_id"`
	UserID         string         `json:"user_id"`
	Mode           string         `json:"mode"`
	ItemID         string         `json:"item_id"`
	Score          int            `json:"score"`
	TotalPossible  int            `json:"total_possible"`
	TotalQuestions int            `json:"total_questions"`
	Answers        []AnswerRecord `json:"answers"`
	SubmittedAt    time.Time      `json:"submitted_at"`
}

// Percentage returns score/totalPossible as a percentage, 0 when nothing
// was possible.
func Percentage(score, totalPossible int) float64 {
	if totalPossible <= 0 {
		return 0
	}
	return float64(score) / float64(totalPossible) * 100
}
