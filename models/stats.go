package models

import "time"

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

// GameRecord is one completed game from a single player's point of view.
type GameRecord struct {
	GameID       int       `json:"game_id"`
	Sport        Sport     `json:"sport"`
	LocationName string    `json:"location_name"`
	PlayedAt     time.Time `json:"played_at"`
	Teammates    []int     `json:"teammates"`
	Opponents    []int     `json:"opponents"`
	ScoreFor     int       `json:"score_for"`
	ScoreAgainst int       `json:"score_against"`
	Outcome      Outcome   `json:"outcome"`
	RatingDelta  int       `json:"rating_delta"`
}

type SportStats struct {
	Sport      Sport `json:"sport"`
	Played     int   `json:"played"`
	Wins       int   `json:"wins"`
	Draws      int   `json:"draws"`
	Losses     int   `json:"losses"`
	WinRatePct int   `json:"win_rate_pct"`
}

type LocationStats struct {
	Name   string `json:"name"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
}

// PlayerStats is the aggregate view derived by replaying completed games.
type PlayerStats struct {
	PlayerID   int             `json:"player_id"`
	TotalGames int             `json:"total_games"`
	Wins       int             `json:"wins"`
	Draws      int             `json:"draws"`
	Losses     int             `json:"losses"`
	WinRatePct int             `json:"win_rate_pct"`
	BySport    []SportStats    `json:"by_sport"`
	ByLocation []LocationStats `json:"by_location"`
	History    []GameRecord    `json:"history"`
}
