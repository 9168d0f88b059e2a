package models

import "time"

const (
	// DefaultRating is the Elo rating assigned to a player who has never
	// completed a game of the sport.
	DefaultRating = 1200

	// DefaultReliability is the attendance score assigned at registration.
	DefaultReliability = 100
)

// Player is a registered user. Ratings and Reliability are written only by
// the game lifecycle (rating commit and start transition), never directly by
// profile endpoints.
type Player struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"-"`
	Reliability   int           `json:"reliability"`
	GamesPlayed   int           `json:"games_played"`
	GamesAttended int           `json:"games_attended"`
	Ratings       map[Sport]int `json:"ratings,omitempty"`
	AvatarKey     *string       `json:"-"`
	AvatarURL     *string       `json:"avatar_url,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Rating returns the player's rating for the sport, falling back to
// DefaultRating when the player has no entry yet.
func (p *Player) Rating(sport Sport) int {
	if r, ok := p.Ratings[sport]; ok {
		return r
	}
	return DefaultRating
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
