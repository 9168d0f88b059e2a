// Package reliability adjusts the 0-100 attendance score. The lifecycle
// applies one Penalize per no-show at the start transition and one Boost per
// attended game at the rating commit.
package reliability

import "math"

// PenaltyMultiplier is applied once per missed check-in.
const PenaltyMultiplier = 0.95

// MaxScore is the reliability ceiling.
const MaxScore = 100

// Penalize shrinks the score by the multiplier, never below zero.
func Penalize(score int) int {
	if score <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * PenaltyMultiplier))
}

// Boost raises the score by one, capped at MaxScore.
func Boost(score int) int {
	if score >= MaxScore {
		return MaxScore
	}
	return score + 1
}
