// Package elo implements the rating engine applied after each completed game.
// Each player is rated against the opposing team's average rather than
// pairwise, so team results are only approximately zero-sum.
package elo

import "math"

// DefaultKFactor bounds the rating swing of a single game.
const DefaultKFactor = 32

// Outcome values for NewRating.
const (
	ScoreWin  = 1.0
	ScoreDraw = 0.5
	ScoreLoss = 0.0
)

// ExpectedScore returns the logistic win expectation of a player rated
// ratingA against an opponent rated ratingB. Complementary calls sum to 1.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
}

// NewRating applies one Elo update. actual is ScoreWin, ScoreDraw or
// ScoreLoss.
func NewRating(current int, expected, actual float64, k int) int {
	return int(math.Round(float64(current) + float64(k)*(actual-expected)))
}

// TeamAverage returns the rounded mean of the ratings, 0 for an empty team.
func TeamAverage(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(ratings))))
}

// ProcessMatch computes post-game ratings for every player on both teams.
// Each player's update uses their own rating against the opposing team's
// average as baseline. The returned slices are parallel to the inputs.
func ProcessMatch(team1, team2 []int, score1, score2 int) (new1, new2 []int) {
	avg1 := TeamAverage(team1)
	avg2 := TeamAverage(team2)

	actual1, actual2 := ScoreDraw, ScoreDraw
	switch {
	case score1 > score2:
		actual1, actual2 = ScoreWin, ScoreLoss
	case score2 > score1:
		actual1, actual2 = ScoreLoss, ScoreWin
	}

	new1 = make([]int, len(team1))
	for i, r := range team1 {
		new1[i] = NewRating(r, ExpectedScore(r, avg2), actual1, DefaultKFactor)
	}
	new2 = make([]int, len(team2))
	for i, r := range team2 {
		new2[i] = NewRating(r, ExpectedScore(r, avg1), actual2, DefaultKFactor)
	}
	return new1, new2
}

// Tier maps a rating to its display tier.
func Tier(rating int) string {
	switch {
	case rating < 1000:
		return "Bronze"
	case rating < 1200:
		return "Silver"
	case rating < 1400:
		return "Gold"
	case rating < 1600:
		return "Platinum"
	case rating < 1800:
		return "Diamond"
	case rating < 2000:
		return "Master"
	default:
		return "Grandmaster"
	}
}
