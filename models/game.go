package models

import "time"

// GameStatus mirrors the game_status ENUM in the database.
type GameStatus string

const (
	GameStatusOpen           GameStatus = "open"
	GameStatusInProgress     GameStatus = "in_progress"
	GameStatusPendingResults GameStatus = "pending_results"
	GameStatusCompleted      GameStatus = "completed"
	GameStatusCancelled      GameStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed out of the status.
func (s GameStatus) Terminal() bool {
	return s == GameStatusCompleted || s == GameStatusCancelled
}

func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusOpen, GameStatusInProgress, GameStatusPendingResults,
		GameStatusCompleted, GameStatusCancelled:
		return true
	}
	return false
}

type SkillLevel string

const (
	SkillCasual      SkillLevel = "casual"
	SkillCompetitive SkillLevel = "competitive"
)

func (l SkillLevel) Valid() bool {
	return l == SkillCasual || l == SkillCompetitive
}

type RecurrenceFrequency string

const (
	RecurrenceNone     RecurrenceFrequency = "none"
	RecurrenceWeekly   RecurrenceFrequency = "weekly"
	RecurrenceBiweekly RecurrenceFrequency = "biweekly"
)

// Interval returns the gap between occurrences, zero for non-recurring games.
func (f RecurrenceFrequency) Interval() time.Duration {
	switch f {
	case RecurrenceWeekly:
		return 7 * 24 * time.Hour
	case RecurrenceBiweekly:
		return 14 * 24 * time.Hour
	default:
		return 0
	}
}

// Location is where a game is played. Coordinates are WGS84 degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
	Name      string  `json:"name"`
}

// Recurrence describes how a game repeats. ParentGameID points at the first
// game of the chain and is preserved across spawned occurrences.
type Recurrence struct {
	Frequency    RecurrenceFrequency `json:"frequency"`
	DayOfWeek    time.Weekday        `json:"day_of_week"`
	ParentGameID *int                `json:"parent_game_id,omitempty"`
}

// GameResult is the score submitted by the host, pending confirmation by a
// strict majority of the listed players.
type GameResult struct {
	Team1       []int `json:"team1"`
	Team2       []int `json:"team2"`
	Score1      int   `json:"score1"`
	Score2      int   `json:"score2"`
	ConfirmedBy []int `json:"confirmed_by"`
}

// Participants returns team1 and team2 combined.
func (r *GameResult) Participants() []int {
	out := make([]int, 0, len(r.Team1)+len(r.Team2))
	out = append(out, r.Team1...)
	out = append(out, r.Team2...)
	return out
}

// OnTeam1 reports whether the player is on team1. Players not in the result
// at all are reported as not on either team.
func (r *GameResult) OnTeam1(playerID int) bool {
	for _, id := range r.Team1 {
		if id == playerID {
			return true
		}
	}
	return false
}

func (r *GameResult) OnTeam2(playerID int) bool {
	for _, id := range r.Team2 {
		if id == playerID {
			return true
		}
	}
	return false
}

func (r *GameResult) HasConfirmed(playerID int) bool {
	for _, id := range r.ConfirmedBy {
		if id == playerID {
			return true
		}
	}
	return false
}

// Game represents a scheduled pickup game.
type Game struct {
	ID           int         `json:"id"`
	HostID       int         `json:"host_id"`
	Sport        Sport       `json:"sport"`
	Location     Location    `json:"location"`
	StartTime    time.Time   `json:"start_time"`
	DurationMins int         `json:"duration_mins"`
	MaxPlayers   int         `json:"max_players"`
	SkillLevel   SkillLevel  `json:"skill_level"`
	MinElo       *int        `json:"min_elo,omitempty"`
	Players      []int       `json:"players"`
	CheckedIn    []int       `json:"checked_in"`
	Status       GameStatus  `json:"status"`
	Result       *GameResult `json:"result,omitempty"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (g *Game) HasPlayer(playerID int) bool {
	for _, id := range g.Players {
		if id == playerID {
			return true
		}
	}
	return false
}

func (g *Game) HasCheckedIn(playerID int) bool {
	for _, id := range g.CheckedIn {
		if id == playerID {
			return true
		}
	}
	return false
}

func (g *Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// Recurring reports whether a follow-up occurrence should be considered when
// the game reaches a terminal status.
func (g *Game) Recurring() bool {
	return g.Recurrence != nil && g.Recurrence.Frequency != RecurrenceNone
}
