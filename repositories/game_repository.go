package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mabood2003/FairPlay/models"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameHostInvalid    = errors.New("game host reference invalid")
	ErrGameParentInvalid  = errors.New("game parent reference invalid")
	ErrGamePlayerConflict = errors.New("player already joined this game")
)

type ListGamesFilter struct {
	Sport  *models.Sport
	Status *models.GameStatus
	HostID *int
	Limit  int
	Offset int
}

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	// GetByIDForUpdate locks the game row for the duration of the enclosing
	// transaction. Callers must pass a *sql.Tx executor.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	List(ctx context.Context, filter ListGamesFilter) ([]models.Game, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GameStatus) error
	UpdatePlayers(ctx context.Context, exec SQLExecutor, id int, players []int) error
	UpdateCheckedIn(ctx context.Context, exec SQLExecutor, id int, checkedIn []int) error
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, result *models.GameResult, status models.GameStatus) error
	ListCompletedByPlayer(ctx context.Context, playerID int) ([]models.Game, error)
	// ListStaleOpen returns open games whose check-in window closed before
	// cutoff with nobody checked in. Used by the background sweeper.
	ListStaleOpen(ctx context.Context, cutoff time.Time) ([]*models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `
	id, host_id, sport, latitude, longitude, address, location_name,
	start_time, duration_mins, max_players, skill_level, min_elo,
	players, checked_in, status,
	team1, team2, score1, score2, confirmed_by,
	recur_frequency, recur_day, parent_game_id, created_at`

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (
			host_id, sport, latitude, longitude, address, location_name,
			start_time, duration_mins, max_players, skill_level, min_elo,
			players, checked_in, status, recur_frequency, recur_day, parent_game_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at`

	frequency := models.RecurrenceNone
	var recurDay *int
	var parentID *int
	if g.Recurrence != nil {
		frequency = g.Recurrence.Frequency
		day := int(g.Recurrence.DayOfWeek)
		recurDay = &day
		parentID = g.Recurrence.ParentGameID
	}

	err := executor.QueryRowContext(ctx, query,
		g.HostID, g.Sport, g.Location.Latitude, g.Location.Longitude,
		g.Location.Address, g.Location.Name,
		g.StartTime, g.DurationMins, g.MaxPlayers, g.SkillLevel, g.MinElo,
		pq.Array(toInt64s(g.Players)), pq.Array(toInt64s(g.CheckedIn)), g.Status,
		frequency, recurDay, parentID,
	).Scan(&g.ID, &g.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + gameColumns + ` FROM games WHERE id = $1`
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + gameColumns + ` FROM games WHERE id = $1 FOR UPDATE`
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) List(ctx context.Context, filter ListGamesFilter) ([]models.Game, error) {
	query := `SELECT` + gameColumns + ` FROM games WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Sport != nil {
		query += fmt.Sprintf(" AND sport = $%d", argID)
		args = append(args, *filter.Sport)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.HostID != nil {
		query += fmt.Sprintf(" AND host_id = $%d", argID)
		args = append(args, *filter.HostID)
		argID++
	}

	query += " ORDER BY start_time ASC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectGames(rows)
}

func (r *postgresGameRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GameStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE games SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdatePlayers(ctx context.Context, exec SQLExecutor, id int, players []int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE games SET players = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, pq.Array(toInt64s(players)), id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateCheckedIn(ctx context.Context, exec SQLExecutor, id int, checkedIn []int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE games SET checked_in = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, pq.Array(toInt64s(checkedIn)), id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// UpdateResult writes the result columns and the status in one statement so
// submit/confirm/complete stay a single-row write on the game record.
func (r *postgresGameRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, res *models.GameResult, status models.GameStatus) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games SET
			team1 = $1, team2 = $2, score1 = $3, score2 = $4,
			confirmed_by = $5, status = $6
		WHERE id = $7`
	result, err := executor.ExecContext(ctx, query,
		pq.Array(toInt64s(res.Team1)), pq.Array(toInt64s(res.Team2)),
		res.Score1, res.Score2, pq.Array(toInt64s(res.ConfirmedBy)), status, id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) ListCompletedByPlayer(ctx context.Context, playerID int) ([]models.Game, error) {
	query := `SELECT` + gameColumns + `
		FROM games
		WHERE status = $1 AND players @> ARRAY[$2]::bigint[]
		ORDER BY start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, models.GameStatusCompleted, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectGames(rows)
}

func (r *postgresGameRepository) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]*models.Game, error) {
	query := `SELECT` + gameColumns + `
		FROM games
		WHERE status = $1 AND start_time <= $2 AND cardinality(checked_in) = 0`
	rows, err := r.db.QueryContext(ctx, query, models.GameStatusOpen, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale open games: %w", err)
	}
	defer rows.Close()

	games, err := r.collectGames(rows)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Game, len(games))
	for i := range games {
		out[i] = &games[i]
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresGameRepository) scanGame(row rowScanner) (*models.Game, error) {
	g := &models.Game{}
	var (
		players     pq.Int64Array
		checkedIn   pq.Int64Array
		team1       pq.Int64Array
		team2       pq.Int64Array
		confirmedBy pq.Int64Array
		score1      sql.NullInt64
		score2      sql.NullInt64
		frequency   models.RecurrenceFrequency
		recurDay    sql.NullInt64
		parentID    sql.NullInt64
	)

	err := row.Scan(
		&g.ID, &g.HostID, &g.Sport, &g.Location.Latitude, &g.Location.Longitude,
		&g.Location.Address, &g.Location.Name,
		&g.StartTime, &g.DurationMins, &g.MaxPlayers, &g.SkillLevel, &g.MinElo,
		&players, &checkedIn, &g.Status,
		&team1, &team2, &score1, &score2, &confirmedBy,
		&frequency, &recurDay, &parentID, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game: %w", err)
	}

	g.Players = toInts(players)
	g.CheckedIn = toInts(checkedIn)

	// Teams are non-empty whenever a result has been submitted.
	if len(team1) > 0 {
		g.Result = &models.GameResult{
			Team1:       toInts(team1),
			Team2:       toInts(team2),
			Score1:      int(score1.Int64),
			Score2:      int(score2.Int64),
			ConfirmedBy: toInts(confirmedBy),
		}
	}

	if frequency != models.RecurrenceNone {
		rec := &models.Recurrence{Frequency: frequency}
		if recurDay.Valid {
			rec.DayOfWeek = time.Weekday(recurDay.Int64)
		}
		if parentID.Valid {
			pid := int(parentID.Int64)
			rec.ParentGameID = &pid
		}
		g.Recurrence = rec
	}

	return g, nil
}

func (r *postgresGameRepository) collectGames(rows *sql.Rows) ([]models.Game, error) {
	games := make([]models.Game, 0)
	for rows.Next() {
		g, err := r.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "games_host_id_fkey":
				return ErrGameHostInvalid
			case "games_parent_game_id_fkey":
				return ErrGameParentInvalid
			}
		}
	}
	return err
}
