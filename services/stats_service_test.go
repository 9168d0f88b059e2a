package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
)

type statsGameRepo struct {
	stubGameRepo
	completed []models.Game
}

func (r *statsGameRepo) ListCompletedByPlayer(_ context.Context, _ int) ([]models.Game, error) {
	return r.completed, nil
}

type statsHistoryRepo struct {
	stubHistoryRepo
	history []models.RatingChange
}

func (r *statsHistoryRepo) ListByPlayer(_ context.Context, _ int) ([]models.RatingChange, error) {
	return r.history, nil
}

func completedGame(id int, sport models.Sport, locName string, team1, team2 []int, score1, score2 int) models.Game {
	players := append(append([]int{}, team1...), team2...)
	return models.Game{
		ID:         id,
		HostID:     team1[0],
		Sport:      sport,
		Location:   models.Location{Latitude: 40.7, Longitude: -74.0, Name: locName},
		StartTime:  fixedNow.Add(-time.Duration(id) * 24 * time.Hour),
		MaxPlayers: 10,
		SkillLevel: models.SkillCasual,
		Players:    players,
		CheckedIn:  players,
		Status:     models.GameStatusCompleted,
		Result: &models.GameResult{
			Team1:       team1,
			Team2:       team2,
			Score1:      score1,
			Score2:      score2,
			ConfirmedBy: players,
		},
	}
}

func TestPlayerStats(t *testing.T) {
	gameRepo := &statsGameRepo{
		completed: []models.Game{
			// Win on team1 at the downtown court.
			completedGame(1, models.SportBasketball, "Downtown Court", []int{1, 2}, []int{3, 4}, 21, 15),
			// Loss on team2 at the same court.
			completedGame(2, models.SportBasketball, "Downtown Court", []int{3, 4}, []int{1, 2}, 21, 11),
			// Draw at a different pitch in the other sport.
			completedGame(3, models.SportSoccer, "Riverside Pitch", []int{1, 3}, []int{2, 4}, 2, 2),
		},
	}
	historyRepo := &statsHistoryRepo{
		history: []models.RatingChange{
			{GameID: 1, PlayerID: 1, Sport: models.SportBasketball, RatingBefore: 1200, RatingAfter: 1216},
			{GameID: 2, PlayerID: 1, Sport: models.SportBasketball, RatingBefore: 1216, RatingAfter: 1199},
			{GameID: 3, PlayerID: 1, Sport: models.SportSoccer, RatingBefore: 1200, RatingAfter: 1200},
		},
	}
	playerRepo := newStubPlayerRepo(testPlayer(1))

	svc := NewStatsService(gameRepo, playerRepo, historyRepo)
	stats, err := svc.PlayerStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}

	if stats.TotalGames != 3 || stats.Wins != 1 || stats.Draws != 1 || stats.Losses != 1 {
		t.Fatalf("totals = %d games %d/%d/%d, want 3 games 1/1/1",
			stats.TotalGames, stats.Wins, stats.Draws, stats.Losses)
	}
	if stats.WinRatePct != 33 {
		t.Fatalf("win rate = %d, want 33", stats.WinRatePct)
	}

	if len(stats.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(stats.History))
	}
	first := stats.History[0]
	if first.Outcome != models.OutcomeWin || first.ScoreFor != 21 || first.ScoreAgainst != 15 {
		t.Fatalf("first record = %+v, want a 21-15 win", first)
	}
	if first.RatingDelta != 16 {
		t.Fatalf("first record delta = %d, want 16", first.RatingDelta)
	}
	if len(first.Teammates) != 1 || first.Teammates[0] != 2 {
		t.Fatalf("teammates = %v, want [2]", first.Teammates)
	}
	if len(first.Opponents) != 2 {
		t.Fatalf("opponents = %v, want both members of team2", first.Opponents)
	}

	// Loss viewed from team2's side of the stored result.
	second := stats.History[1]
	if second.Outcome != models.OutcomeLoss || second.ScoreFor != 11 || second.ScoreAgainst != 21 {
		t.Fatalf("second record = %+v, want an 11-21 loss", second)
	}
	if second.RatingDelta != -17 {
		t.Fatalf("second record delta = %d, want -17", second.RatingDelta)
	}

	// Sports sort alphabetically: basketball before soccer.
	if len(stats.BySport) != 2 || stats.BySport[0].Sport != models.SportBasketball {
		t.Fatalf("by sport = %+v, want basketball first", stats.BySport)
	}
	bb := stats.BySport[0]
	if bb.Played != 2 || bb.Wins != 1 || bb.Losses != 1 || bb.WinRatePct != 50 {
		t.Fatalf("basketball stats = %+v, want 2 played 1W/1L at 50%%", bb)
	}
	soccer := stats.BySport[1]
	if soccer.Played != 1 || soccer.Draws != 1 || soccer.WinRatePct != 0 {
		t.Fatalf("soccer stats = %+v, want a single draw", soccer)
	}

	// Locations sort by games played, most first.
	if len(stats.ByLocation) != 2 || stats.ByLocation[0].Name != "Downtown Court" {
		t.Fatalf("by location = %+v, want Downtown Court first", stats.ByLocation)
	}
	if stats.ByLocation[0].Played != 2 || stats.ByLocation[0].Wins != 1 {
		t.Fatalf("Downtown Court = %+v, want 2 played 1 win", stats.ByLocation[0])
	}
}

func TestPlayerStatsEmpty(t *testing.T) {
	svc := NewStatsService(&statsGameRepo{}, newStubPlayerRepo(testPlayer(1)), &statsHistoryRepo{})

	stats, err := svc.PlayerStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("PlayerStats() error = %v", err)
	}
	if stats.TotalGames != 0 || stats.WinRatePct != 0 {
		t.Fatalf("empty stats = %+v, want zeros", stats)
	}
	if stats.BySport == nil || stats.ByLocation == nil || stats.History == nil {
		t.Fatal("aggregate slices must be non-nil for JSON rendering")
	}
}

func TestPlayerStatsUnknownPlayer(t *testing.T) {
	svc := NewStatsService(&statsGameRepo{}, newStubPlayerRepo(), &statsHistoryRepo{})

	if _, err := svc.PlayerStats(context.Background(), 42); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("PlayerStats() error = %v, want ErrPlayerNotFound", err)
	}
}

var _ repositories.GameRepository = (*statsGameRepo)(nil)
var _ repositories.RatingHistoryRepository = (*statsHistoryRepo)(nil)
