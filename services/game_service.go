package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mabood2003/FairPlay/elo"
	"github.com/mabood2003/FairPlay/geo"
	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/reliability"
	"github.com/mabood2003/FairPlay/repositories"
)

// recurrenceLookAhead caps how far into the future a recurring game may be
// spawned, so a long-dead chain does not schedule games indefinitely.
const recurrenceLookAhead = 30 * 24 * time.Hour

// GameNotifier pushes game updates to subscribed clients. Implemented by the
// realtime hub; lifecycle logic never blocks on it.
type GameNotifier interface {
	GameUpdated(game *models.Game)
}

// LeaderboardUpdater mirrors committed ratings into the leaderboard store.
// Failures are logged, never surfaced to the confirming player.
type LeaderboardUpdater interface {
	RecordRatings(ctx context.Context, sport models.Sport, ratings map[int]int) error
}

type CreateGameInput struct {
	Sport        models.Sport               `json:"sport"`
	Location     models.Location            `json:"location"`
	StartTime    time.Time                  `json:"start_time"`
	DurationMins int                        `json:"duration_mins"`
	MaxPlayers   int                        `json:"max_players"`
	SkillLevel   models.SkillLevel          `json:"skill_level"`
	MinElo       *int                       `json:"min_elo,omitempty"`
	Recurrence   models.RecurrenceFrequency `json:"recurrence,omitempty"`
}

type SubmitResultsInput struct {
	Team1  []int `json:"team1"`
	Team2  []int `json:"team2"`
	Score1 int   `json:"score1"`
	Score2 int   `json:"score2"`
}

type GameService interface {
	CreateGame(ctx context.Context, hostID int, input CreateGameInput) (*models.Game, error)
	GetGame(ctx context.Context, id int) (*models.Game, error)
	ListGames(ctx context.Context, filter repositories.ListGamesFilter) ([]models.Game, error)
	ListNearbyGames(ctx context.Context, pos geo.Point, radiusMeters float64, filter repositories.ListGamesFilter) ([]models.Game, error)
	Join(ctx context.Context, gameID, playerID int) (*models.Game, error)
	Leave(ctx context.Context, gameID, playerID int) (*models.Game, error)
	CheckIn(ctx context.Context, gameID, playerID int, pos geo.Point) (*models.Game, error)
	Start(ctx context.Context, gameID, hostID int) (*models.Game, error)
	SubmitResults(ctx context.Context, gameID, hostID int, input SubmitResultsInput) (*models.Game, error)
	ConfirmResults(ctx context.Context, gameID, playerID int) (*models.Game, error)
	Cancel(ctx context.Context, gameID, hostID int) (*models.Game, error)
	// SweepStaleGames cancels open games whose check-in window closed with
	// nobody checked in. Driven by the scheduler in cmd/main.go.
	SweepStaleGames(ctx context.Context) (int, error)
}

type GameServiceConfig struct {
	CheckInRadiusMeters float64
	CheckInWindow       time.Duration
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

type gameService struct {
	tx          repositories.TxRunner
	gameRepo    repositories.GameRepository
	playerRepo  repositories.PlayerRepository
	historyRepo repositories.RatingHistoryRepository
	notifier    GameNotifier
	leaderboard LeaderboardUpdater
	logger      *slog.Logger

	checkInRadius float64
	checkInWindow time.Duration
	now           func() time.Time
}

func NewGameService(
	tx repositories.TxRunner,
	gameRepo repositories.GameRepository,
	playerRepo repositories.PlayerRepository,
	historyRepo repositories.RatingHistoryRepository,
	notifier GameNotifier,
	leaderboard LeaderboardUpdater,
	logger *slog.Logger,
	cfg GameServiceConfig,
) GameService {
	if cfg.CheckInRadiusMeters <= 0 {
		cfg.CheckInRadiusMeters = geo.DefaultCheckInRadiusMeters
	}
	if cfg.CheckInWindow <= 0 {
		cfg.CheckInWindow = geo.DefaultCheckInWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &gameService{
		tx:            tx,
		gameRepo:      gameRepo,
		playerRepo:    playerRepo,
		historyRepo:   historyRepo,
		notifier:      notifier,
		leaderboard:   leaderboard,
		logger:        logger,
		checkInRadius: cfg.CheckInRadiusMeters,
		checkInWindow: cfg.CheckInWindow,
		now:           cfg.Now,
	}
}

func (s *gameService) CreateGame(ctx context.Context, hostID int, input CreateGameInput) (*models.Game, error) {
	if !input.Sport.Valid() {
		return nil, ErrInvalidSport
	}
	if !input.SkillLevel.Valid() {
		return nil, ErrInvalidSkillLevel
	}
	if !input.StartTime.After(s.now()) {
		return nil, ErrStartTimeNotFuture
	}
	if input.MaxPlayers < 2 {
		return nil, ErrMaxPlayersTooLow
	}
	if input.DurationMins <= 0 {
		return nil, ErrInvalidDuration
	}
	if !validCoordinates(input.Location.Latitude, input.Location.Longitude) {
		return nil, ErrInvalidCoordinates
	}
	if input.MinElo != nil && *input.MinElo < 0 {
		return nil, fmt.Errorf("%w: minimum rating must be non-negative", ErrValidationFailed)
	}

	game := &models.Game{
		HostID:       hostID,
		Sport:        input.Sport,
		Location:     input.Location,
		StartTime:    input.StartTime,
		DurationMins: input.DurationMins,
		MaxPlayers:   input.MaxPlayers,
		SkillLevel:   input.SkillLevel,
		MinElo:       input.MinElo,
		Players:      []int{hostID},
		CheckedIn:    []int{},
		Status:       models.GameStatusOpen,
	}
	if input.Recurrence != models.RecurrenceNone && input.Recurrence != "" {
		if input.Recurrence != models.RecurrenceWeekly && input.Recurrence != models.RecurrenceBiweekly {
			return nil, fmt.Errorf("%w: unknown recurrence frequency %q", ErrValidationFailed, input.Recurrence)
		}
		game.Recurrence = &models.Recurrence{
			Frequency: input.Recurrence,
			DayOfWeek: input.StartTime.Weekday(),
		}
	}

	if err := s.gameRepo.Create(ctx, nil, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return game, nil
}

func (s *gameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, filter repositories.ListGamesFilter) ([]models.Game, error) {
	return s.gameRepo.List(ctx, filter)
}

// ListNearbyGames filters the listing by great-circle distance from pos.
func (s *gameService) ListNearbyGames(ctx context.Context, pos geo.Point, radiusMeters float64, filter repositories.ListGamesFilter) ([]models.Game, error) {
	if !validCoordinates(pos.Latitude, pos.Longitude) {
		return nil, ErrPositionUnavailable
	}
	if radiusMeters <= 0 {
		radiusMeters = geo.DefaultCheckInRadiusMeters * 10
	}
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	nearby := make([]models.Game, 0, len(games))
	for _, g := range games {
		target := geo.Point{Latitude: g.Location.Latitude, Longitude: g.Location.Longitude}
		if geo.WithinRadius(pos, target, radiusMeters) {
			nearby = append(nearby, g)
		}
	}
	return nearby, nil
}

func (s *gameService) Join(ctx context.Context, gameID, playerID int) (*models.Game, error) {
	var game *models.Game
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.GameStatusOpen {
			return ErrGameNotOpen
		}
		if g.HasPlayer(playerID) {
			return ErrAlreadyJoined
		}
		if g.IsFull() {
			return ErrGameFull
		}
		if g.MinElo != nil {
			rating, err := s.playerRepo.GetRating(ctx, exec, playerID, g.Sport)
			if err != nil {
				return fmt.Errorf("failed to check rating gate: %w", err)
			}
			if rating < *g.MinElo {
				return ErrRatingTooLow
			}
		}
		g.Players = append(g.Players, playerID)
		if err := s.gameRepo.UpdatePlayers(ctx, exec, g.ID, g.Players); err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyUpdated(game)
	return game, nil
}

func (s *gameService) Leave(ctx context.Context, gameID, playerID int) (*models.Game, error) {
	var game *models.Game
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.GameStatusOpen {
			return ErrGameNotOpen
		}
		if g.HostID == playerID {
			return ErrHostCannotLeave
		}
		if !g.HasPlayer(playerID) {
			return ErrNotJoined
		}
		remaining := make([]int, 0, len(g.Players)-1)
		for _, id := range g.Players {
			if id != playerID {
				remaining = append(remaining, id)
			}
		}
		g.Players = remaining
		if err := s.gameRepo.UpdatePlayers(ctx, exec, g.ID, g.Players); err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyUpdated(game)
	return game, nil
}

func (s *gameService) CheckIn(ctx context.Context, gameID, playerID int, pos geo.Point) (*models.Game, error) {
	if !validCoordinates(pos.Latitude, pos.Longitude) {
		return nil, ErrPositionUnavailable
	}

	var game *models.Game
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.GameStatusOpen {
			return ErrGameNotOpen
		}
		if !g.HasPlayer(playerID) {
			return ErrNotJoined
		}
		if g.HasCheckedIn(playerID) {
			return ErrAlreadyCheckedIn
		}
		if !geo.WithinWindow(s.now(), g.StartTime, s.checkInWindow) {
			return ErrOutsideCheckInWindow
		}
		target := geo.Point{Latitude: g.Location.Latitude, Longitude: g.Location.Longitude}
		if dist := geo.Distance(pos, target); dist > s.checkInRadius {
			return &GeofenceError{DistanceMeters: dist, RadiusMeters: s.checkInRadius}
		}
		g.CheckedIn = append(g.CheckedIn, playerID)
		if err := s.gameRepo.UpdateCheckedIn(ctx, exec, g.ID, g.CheckedIn); err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyUpdated(game)
	return game, nil
}

func (s *gameService) Start(ctx context.Context, gameID, hostID int) (*models.Game, error) {
	var game *models.Game
	var absentees []int
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.HostID != hostID {
			return ErrHostOnly
		}
		if g.Status != models.GameStatusOpen {
			return ErrGameNotOpen
		}
		if s.now().Before(g.StartTime.Add(-s.checkInWindow)) {
			return ErrWindowNotOpen
		}
		if len(g.CheckedIn) == 0 {
			return ErrNoPlayersCheckedIn
		}
		if err := s.gameRepo.UpdateStatus(ctx, exec, g.ID, models.GameStatusInProgress); err != nil {
			return err
		}
		g.Status = models.GameStatusInProgress
		absentees = nil
		for _, id := range g.Players {
			if !g.HasCheckedIn(id) {
				absentees = append(absentees, id)
			}
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Penalties are best effort per player. A failed write leaves one
	// player's reliability stale; it must not undo the status transition.
	for _, id := range absentees {
		if err := s.penalizeNoShow(ctx, id); err != nil {
			s.logger.Error("failed to penalize no-show",
				slog.Int("game_id", gameID), slog.Int("player_id", id), slog.Any("error", err))
		}
	}

	s.notifyUpdated(game)
	return game, nil
}

func (s *gameService) penalizeNoShow(ctx context.Context, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		return err
	}
	if err := s.playerRepo.UpdateReliability(ctx, nil, playerID, reliability.Penalize(player.Reliability)); err != nil {
		return err
	}
	return s.playerRepo.IncrementGames(ctx, nil, playerID, false)
}

func (s *gameService) SubmitResults(ctx context.Context, gameID, hostID int, input SubmitResultsInput) (*models.Game, error) {
	if input.Score1 < 0 || input.Score2 < 0 {
		return nil, ErrNegativeScore
	}
	if len(input.Team1) == 0 || len(input.Team2) == 0 {
		return nil, ErrInvalidTeams
	}

	var game *models.Game
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.HostID != hostID {
			return ErrHostOnly
		}
		if g.Status != models.GameStatusInProgress {
			return ErrGameNotInProgress
		}
		if !validTeamPartition(g, input.Team1, input.Team2) {
			return ErrInvalidTeams
		}
		g.Result = &models.GameResult{
			Team1:       input.Team1,
			Team2:       input.Team2,
			Score1:      input.Score1,
			Score2:      input.Score2,
			ConfirmedBy: []int{},
		}
		g.Status = models.GameStatusPendingResults
		if err := s.gameRepo.UpdateResult(ctx, exec, g.ID, g.Result, g.Status); err != nil {
			return err
		}
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifyUpdated(game)
	return game, nil
}

// ConfirmResults records one confirmation and, when confirmations cross a
// strict majority of listed players, runs the rating commit inside the same
// transaction that re-checked the game status under a row lock. Exactly one
// confirmation can finalize a game; a racing call observes the completed
// status and fails with ErrTransactionConflict.
func (s *gameService) ConfirmResults(ctx context.Context, gameID, playerID int) (*models.Game, error) {
	var game *models.Game
	var committed map[int]int
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.Status == models.GameStatusCompleted {
			return ErrTransactionConflict
		}
		if g.Status != models.GameStatusPendingResults || g.Result == nil {
			return ErrResultsNotPending
		}
		res := g.Result
		if !res.OnTeam1(playerID) && !res.OnTeam2(playerID) {
			return ErrNotParticipant
		}
		if res.HasConfirmed(playerID) {
			return ErrAlreadyConfirmed
		}
		res.ConfirmedBy = append(res.ConfirmedBy, playerID)

		participants := res.Participants()
		if len(res.ConfirmedBy)*2 <= len(participants) {
			// Not a strict majority yet; just record the confirmation.
			if err := s.gameRepo.UpdateResult(ctx, exec, g.ID, res, g.Status); err != nil {
				return err
			}
			game = g
			return nil
		}

		newRatings, err := s.commitRatings(ctx, exec, g)
		if err != nil {
			return err
		}
		g.Status = models.GameStatusCompleted
		if err := s.gameRepo.UpdateResult(ctx, exec, g.ID, res, g.Status); err != nil {
			return err
		}
		game = g
		committed = newRatings
		return nil
	})
	if err != nil {
		return nil, err
	}

	if committed != nil {
		s.syncLeaderboard(ctx, game.Sport, committed)
		s.spawnNextOccurrence(ctx, game)
	}
	s.notifyUpdated(game)
	return game, nil
}

// commitRatings performs the read-modify-write across all participants:
// locked rating reads, elo updates, counters, reliability boosts for players
// who checked in, and the per-game rating history rows.
func (s *gameService) commitRatings(ctx context.Context, exec repositories.SQLExecutor, g *models.Game) (map[int]int, error) {
	res := g.Result
	participants := res.Participants()

	rows, err := s.playerRepo.GetRatingsForUpdate(ctx, exec, participants, g.Sport)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to read participant ratings: %w", err)
	}

	team1Ratings := make([]int, len(res.Team1))
	for i, id := range res.Team1 {
		team1Ratings[i] = rows[id].Rating
	}
	team2Ratings := make([]int, len(res.Team2))
	for i, id := range res.Team2 {
		team2Ratings[i] = rows[id].Rating
	}

	new1, new2 := elo.ProcessMatch(team1Ratings, team2Ratings, res.Score1, res.Score2)

	newRatings := make(map[int]int, len(participants))
	for i, id := range res.Team1 {
		newRatings[id] = new1[i]
	}
	for i, id := range res.Team2 {
		newRatings[id] = new2[i]
	}

	changes := make([]*models.RatingChange, 0, len(participants))
	for _, id := range participants {
		if err := s.playerRepo.UpsertRating(ctx, exec, id, g.Sport, newRatings[id]); err != nil {
			return nil, err
		}
		if err := s.playerRepo.IncrementGames(ctx, exec, id, true); err != nil {
			return nil, err
		}
		if g.HasCheckedIn(id) {
			if err := s.playerRepo.UpdateReliability(ctx, exec, id, reliability.Boost(rows[id].Reliability)); err != nil {
				return nil, err
			}
		}
		changes = append(changes, &models.RatingChange{
			GameID:       g.ID,
			PlayerID:     id,
			Sport:        g.Sport,
			RatingBefore: rows[id].Rating,
			RatingAfter:  newRatings[id],
		})
	}

	if err := s.historyRepo.CreateBatch(ctx, exec, changes); err != nil {
		return nil, err
	}
	return newRatings, nil
}

func (s *gameService) Cancel(ctx context.Context, gameID, hostID int) (*models.Game, error) {
	var game *models.Game
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		g, err := s.lockGame(ctx, exec, gameID)
		if err != nil {
			return err
		}
		if g.HostID != hostID {
			return ErrHostOnly
		}
		if g.Status != models.GameStatusOpen && g.Status != models.GameStatusInProgress {
			return ErrGameAlreadyClosed
		}
		if err := s.gameRepo.UpdateStatus(ctx, exec, g.ID, models.GameStatusCancelled); err != nil {
			return err
		}
		g.Status = models.GameStatusCancelled
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.spawnNextOccurrence(ctx, game)
	s.notifyUpdated(game)
	return game, nil
}

func (s *gameService) SweepStaleGames(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.checkInWindow)
	stale, err := s.gameRepo.ListStaleOpen(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, g := range stale {
		if err := s.gameRepo.UpdateStatus(ctx, nil, g.ID, models.GameStatusCancelled); err != nil {
			s.logger.Error("failed to cancel stale game", slog.Int("game_id", g.ID), slog.Any("error", err))
			continue
		}
		g.Status = models.GameStatusCancelled
		s.spawnNextOccurrence(ctx, g)
		s.notifyUpdated(g)
		swept++
	}
	return swept, nil
}

// spawnNextOccurrence creates the next game of a recurring chain after a
// terminal transition. Failures are logged on their own channel and never
// fail the transition that triggered the spawn.
func (s *gameService) spawnNextOccurrence(ctx context.Context, g *models.Game) {
	if g == nil || !g.Recurring() {
		return
	}
	nextStart := g.StartTime.Add(g.Recurrence.Frequency.Interval())
	if nextStart.After(s.now().Add(recurrenceLookAhead)) {
		return
	}

	parentID := g.ID
	if g.Recurrence.ParentGameID != nil {
		parentID = *g.Recurrence.ParentGameID
	}
	next := &models.Game{
		HostID:       g.HostID,
		Sport:        g.Sport,
		Location:     g.Location,
		StartTime:    nextStart,
		DurationMins: g.DurationMins,
		MaxPlayers:   g.MaxPlayers,
		SkillLevel:   g.SkillLevel,
		MinElo:       g.MinElo,
		Players:      []int{g.HostID},
		CheckedIn:    []int{},
		Status:       models.GameStatusOpen,
		Recurrence: &models.Recurrence{
			Frequency:    g.Recurrence.Frequency,
			DayOfWeek:    g.Recurrence.DayOfWeek,
			ParentGameID: &parentID,
		},
	}
	if err := s.gameRepo.Create(ctx, nil, next); err != nil {
		s.logger.Error("failed to spawn recurring game",
			slog.Int("parent_game_id", parentID), slog.Any("error", err))
		return
	}
	s.logger.Info("spawned recurring game",
		slog.Int("game_id", next.ID), slog.Int("parent_game_id", parentID),
		slog.Time("start_time", nextStart))
	s.notifyUpdated(next)
}

func (s *gameService) syncLeaderboard(ctx context.Context, sport models.Sport, ratings map[int]int) {
	if s.leaderboard == nil {
		return
	}
	if err := s.leaderboard.RecordRatings(ctx, sport, ratings); err != nil {
		s.logger.Error("failed to sync leaderboard", slog.String("sport", string(sport)), slog.Any("error", err))
	}
}

func (s *gameService) notifyUpdated(g *models.Game) {
	if s.notifier != nil && g != nil {
		s.notifier.GameUpdated(g)
	}
}

func (s *gameService) lockGame(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Game, error) {
	g, err := s.gameRepo.GetByIDForUpdate(ctx, exec, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

// validTeamPartition checks that both teams are subsets of joined players
// with no player on both sides.
func validTeamPartition(g *models.Game, team1, team2 []int) bool {
	seen := make(map[int]bool, len(team1)+len(team2))
	for _, id := range team1 {
		if seen[id] || !g.HasPlayer(id) {
			return false
		}
		seen[id] = true
	}
	for _, id := range team2 {
		if seen[id] || !g.HasPlayer(id) {
			return false
		}
		seen[id] = true
	}
	return true
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
