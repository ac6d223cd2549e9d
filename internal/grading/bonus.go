package grading

import "math"

const (
	// BasePoints is awarded for a fully correct answer and scaled by partial credit.
	BasePoints = 1000

	// MaxSpeedBonus is the bonus for an instant answer.
	MaxSpeedBonus = 1000
)

// SpeedBonus converts elapsed answer time into bonus points, decaying
// linearly from MaxSpeedBonus at 0 ms to 0 at the time limit. It has no
// notion of correctness; callers decide eligibility.
func SpeedBonus(elapsedMs int64, limitSecs int) int {
	if limitSecs <= 0 {
		return 0
	}
	limit := float64(limitSecs)
	ratio := (limit - float64(elapsedMs)/1000) / limit
	ratio = math.Max(0, math.Min(1, ratio))
	return int(math.Floor(ratio * MaxSpeedBonus))
}

// QuestionPoints returns the final score of one question. The speed bonus
// is added whenever partial > 0, so a partially correct answer earns the
// same bonus as a fully correct one.
func QuestionPoints(partial float64, elapsedMs int64, limitSecs int) int {
	if partial <= 0 {
		return 0
	}
	partial = math.Min(partial, 1)
	return int(math.Round(partial*BasePoints)) + SpeedBonus(elapsedMs, limitSecs)
}
