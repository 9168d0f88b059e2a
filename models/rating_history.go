package models

import "time"

// RatingChange is the per-player rating snapshot written inside the rating
// commit transaction. Stats reads these back to report historical deltas.
type RatingChange struct {
	ID           int       `json:"id"`
	GameID       int       `json:"game_id"`
	PlayerID     int       `json:"player_id"`
	Sport        Sport     `json:"sport"`
	RatingBefore int       `json:"rating_before"`
	RatingAfter  int       `json:"rating_after"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c RatingChange) Delta() int {
	return c.RatingAfter - c.RatingBefore
}
