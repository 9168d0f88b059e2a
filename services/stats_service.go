package services

import (
	"context"
	"errors"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
)

// StatsService derives historical performance views by replaying a player's
// completed games. Read-only; it never recomputes or mutates ratings.
type StatsService interface {
	PlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error)
}

type statsService struct {
	gameRepo    repositories.GameRepository
	playerRepo  repositories.PlayerRepository
	historyRepo repositories.RatingHistoryRepository
}

func NewStatsService(
	gameRepo repositories.GameRepository,
	playerRepo repositories.PlayerRepository,
	historyRepo repositories.RatingHistoryRepository,
) StatsService {
	return &statsService{
		gameRepo:    gameRepo,
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
	}
}

func (s *statsService) PlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error) {
	if _, err := s.playerRepo.GetByID(ctx, nil, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	var (
		games   []models.Game
		history []models.RatingChange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListCompletedByPlayer(gctx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.historyRepo.ListByPlayer(gctx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	deltas := make(map[int]int, len(history))
	for _, c := range history {
		deltas[c.GameID] = c.Delta()
	}

	stats := &models.PlayerStats{
		PlayerID:   playerID,
		History:    make([]models.GameRecord, 0, len(games)),
		BySport:    []models.SportStats{},
		ByLocation: []models.LocationStats{},
	}
	bySport := make(map[models.Sport]*models.SportStats)
	byLocation := make(map[string]*models.LocationStats)

	// games arrive ordered most recent first.
	for _, game := range games {
		rec, ok := buildGameRecord(&game, playerID)
		if !ok {
			// Joined but not listed in the result; nothing to count.
			continue
		}
		rec.RatingDelta = deltas[game.ID]
		stats.History = append(stats.History, rec)
		stats.TotalGames++

		sp := bySport[game.Sport]
		if sp == nil {
			sp = &models.SportStats{Sport: game.Sport}
			bySport[game.Sport] = sp
		}
		loc := byLocation[rec.LocationName]
		if loc == nil {
			loc = &models.LocationStats{Name: rec.LocationName}
			byLocation[rec.LocationName] = loc
		}
		sp.Played++
		loc.Played++

		switch rec.Outcome {
		case models.OutcomeWin:
			stats.Wins++
			sp.Wins++
			loc.Wins++
		case models.OutcomeDraw:
			stats.Draws++
			sp.Draws++
		case models.OutcomeLoss:
			stats.Losses++
			sp.Losses++
		}
	}

	stats.WinRatePct = winRatePct(stats.Wins, stats.TotalGames)
	for _, sp := range bySport {
		sp.WinRatePct = winRatePct(sp.Wins, sp.Played)
		stats.BySport = append(stats.BySport, *sp)
	}
	sort.Slice(stats.BySport, func(i, j int) bool {
		return stats.BySport[i].Sport < stats.BySport[j].Sport
	})
	for _, loc := range byLocation {
		stats.ByLocation = append(stats.ByLocation, *loc)
	}
	sort.Slice(stats.ByLocation, func(i, j int) bool {
		a, b := stats.ByLocation[i], stats.ByLocation[j]
		if a.Played != b.Played {
			return a.Played > b.Played
		}
		return a.Name < b.Name
	})

	return stats, nil
}

func buildGameRecord(game *models.Game, playerID int) (models.GameRecord, bool) {
	res := game.Result
	if res == nil {
		return models.GameRecord{}, false
	}

	var own, other []int
	var scoreFor, scoreAgainst int
	switch {
	case res.OnTeam1(playerID):
		own, other = res.Team1, res.Team2
		scoreFor, scoreAgainst = res.Score1, res.Score2
	case res.OnTeam2(playerID):
		own, other = res.Team2, res.Team1
		scoreFor, scoreAgainst = res.Score2, res.Score1
	default:
		return models.GameRecord{}, false
	}

	outcome := models.OutcomeDraw
	if scoreFor > scoreAgainst {
		outcome = models.OutcomeWin
	} else if scoreFor < scoreAgainst {
		outcome = models.OutcomeLoss
	}

	teammates := make([]int, 0, len(own)-1)
	for _, id := range own {
		if id != playerID {
			teammates = append(teammates, id)
		}
	}
	opponents := make([]int, len(other))
	copy(opponents, other)

	return models.GameRecord{
		GameID:       game.ID,
		Sport:        game.Sport,
		LocationName: game.Location.Name,
		PlayedAt:     game.StartTime,
		Teammates:    teammates,
		Opponents:    opponents,
		ScoreFor:     scoreFor,
		ScoreAgainst: scoreAgainst,
		Outcome:      outcome,
	}, true
}

func winRatePct(wins, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(wins) / float64(total) * 100))
}
