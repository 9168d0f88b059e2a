package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mabood2003/FairPlay/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerEmailConflict = errors.New("player email conflict")
)

// PlayerRatingRow is a locked read of the fields touched by the rating
// commit transaction.
type PlayerRatingRow struct {
	PlayerID    int
	Rating      int
	Reliability int
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	UpdateAvatarKey(ctx context.Context, playerID int, avatarKey *string) error

	// GetRating returns the player's rating for the sport,
	// models.DefaultRating when no row exists yet.
	GetRating(ctx context.Context, exec SQLExecutor, playerID int, sport models.Sport) (int, error)
	// GetRatingsForUpdate locks the player rows and returns rating plus
	// reliability for each id, in id order. Must run inside a transaction.
	GetRatingsForUpdate(ctx context.Context, exec SQLExecutor, playerIDs []int, sport models.Sport) (map[int]PlayerRatingRow, error)
	UpsertRating(ctx context.Context, exec SQLExecutor, playerID int, sport models.Sport, rating int) error
	UpdateReliability(ctx context.Context, exec SQLExecutor, playerID int, score int) error
	// IncrementGames bumps games_played, and games_attended when attended.
	IncrementGames(ctx context.Context, exec SQLExecutor, playerID int, attended bool) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	query := `
		INSERT INTO players (name, email, password_hash, reliability, games_played, games_attended)
		VALUES ($1, $2, $3, $4, 0, 0)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Email, p.PasswordHash, models.DefaultReliability,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "players_email_key" {
				return ErrPlayerEmailConflict
			}
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	p.Reliability = models.DefaultReliability
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, email, password_hash, reliability, games_played, games_attended, avatar_key, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash,
		&p.Reliability, &p.GamesPlayed, &p.GamesAttended, &p.AvatarKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}

	if err := r.loadRatings(ctx, executor, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	query := `
		SELECT id, name, email, password_hash, reliability, games_played, games_attended, avatar_key, created_at
		FROM players
		WHERE email = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash,
		&p.Reliability, &p.GamesPlayed, &p.GamesAttended, &p.AvatarKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player by email: %w", err)
	}

	if err := r.loadRatings(ctx, r.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) loadRatings(ctx context.Context, executor SQLExecutor, p *models.Player) error {
	rows, err := executor.QueryContext(ctx,
		`SELECT sport, rating FROM player_ratings WHERE player_id = $1`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load ratings for player %d: %w", p.ID, err)
	}
	defer rows.Close()

	p.Ratings = make(map[models.Sport]int)
	for rows.Next() {
		var sport models.Sport
		var rating int
		if err := rows.Scan(&sport, &rating); err != nil {
			return fmt.Errorf("failed to scan player rating: %w", err)
		}
		p.Ratings[sport] = rating
	}
	return rows.Err()
}

func (r *postgresPlayerRepository) Update(ctx context.Context, p *models.Player) error {
	query := `UPDATE players SET name = $1, email = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Email, p.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrPlayerEmailConflict
		}
		return fmt.Errorf("failed to update player %d: %w", p.ID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateAvatarKey(ctx context.Context, playerID int, avatarKey *string) error {
	query := `UPDATE players SET avatar_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, avatarKey, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player avatar key: %w", err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) GetRating(ctx context.Context, exec SQLExecutor, playerID int, sport models.Sport) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT rating FROM player_ratings WHERE player_id = $1 AND sport = $2`

	var rating int
	err := executor.QueryRowContext(ctx, query, playerID, sport).Scan(&rating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultRating, nil
		}
		return 0, fmt.Errorf("failed to get rating for player %d: %w", playerID, err)
	}
	return rating, nil
}

func (r *postgresPlayerRepository) GetRatingsForUpdate(ctx context.Context, exec SQLExecutor, playerIDs []int, sport models.Sport) (map[int]PlayerRatingRow, error) {
	executor := r.getExecutor(exec)
	// Locking the players rows serializes concurrent rating commits that
	// share a participant.
	query := `
		SELECT p.id, COALESCE(r.rating, $1), p.reliability
		FROM players p
		LEFT JOIN player_ratings r ON r.player_id = p.id AND r.sport = $2
		WHERE p.id = ANY($3)
		ORDER BY p.id
		FOR UPDATE OF p`

	rows, err := executor.QueryContext(ctx, query, models.DefaultRating, sport, pq.Array(toInt64s(playerIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to lock player ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[int]PlayerRatingRow, len(playerIDs))
	for rows.Next() {
		var row PlayerRatingRow
		if err := rows.Scan(&row.PlayerID, &row.Rating, &row.Reliability); err != nil {
			return nil, fmt.Errorf("failed to scan locked rating row: %w", err)
		}
		out[row.PlayerID] = row
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) != len(playerIDs) {
		return nil, ErrPlayerNotFound
	}
	return out, nil
}

func (r *postgresPlayerRepository) UpsertRating(ctx context.Context, exec SQLExecutor, playerID int, sport models.Sport, rating int) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_ratings (player_id, sport, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, sport) DO UPDATE SET rating = EXCLUDED.rating`
	if _, err := executor.ExecContext(ctx, query, playerID, sport, rating); err != nil {
		return fmt.Errorf("failed to upsert rating for player %d: %w", playerID, err)
	}
	return nil
}

func (r *postgresPlayerRepository) UpdateReliability(ctx context.Context, exec SQLExecutor, playerID int, score int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE players SET reliability = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, score, playerID)
	if err != nil {
		return fmt.Errorf("failed to update reliability for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) IncrementGames(ctx context.Context, exec SQLExecutor, playerID int, attended bool) error {
	executor := r.getExecutor(exec)
	query := `UPDATE players SET games_played = games_played + 1 WHERE id = $1`
	if attended {
		query = `UPDATE players SET games_played = games_played + 1, games_attended = games_attended + 1 WHERE id = $1`
	}
	result, err := executor.ExecContext(ctx, query, playerID)
	if err != nil {
		return fmt.Errorf("failed to increment games for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
