package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mabood2003/FairPlay/models"
)

type RatingHistoryRepository interface {
	// CreateBatch writes one row per participant. Runs inside the rating
	// commit transaction.
	CreateBatch(ctx context.Context, exec SQLExecutor, changes []*models.RatingChange) error
	ListByPlayer(ctx context.Context, playerID int) ([]models.RatingChange, error)
}

type postgresRatingHistoryRepository struct {
	db *sql.DB
}

func NewPostgresRatingHistoryRepository(db *sql.DB) RatingHistoryRepository {
	return &postgresRatingHistoryRepository{db: db}
}

func (r *postgresRatingHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRatingHistoryRepository) CreateBatch(ctx context.Context, exec SQLExecutor, changes []*models.RatingChange) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO rating_history (game_id, player_id, sport, rating_before, rating_after)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	for _, c := range changes {
		err := executor.QueryRowContext(ctx, query,
			c.GameID, c.PlayerID, c.Sport, c.RatingBefore, c.RatingAfter,
		).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record rating change for player %d in game %d: %w", c.PlayerID, c.GameID, err)
		}
	}
	return nil
}

func (r *postgresRatingHistoryRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.RatingChange, error) {
	query := `
		SELECT id, game_id, player_id, sport, rating_before, rating_after, created_at
		FROM rating_history
		WHERE player_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rating history for player %d: %w", playerID, err)
	}
	defer rows.Close()

	changes := make([]models.RatingChange, 0)
	for rows.Next() {
		var c models.RatingChange
		if err := rows.Scan(&c.ID, &c.GameID, &c.PlayerID, &c.Sport, &c.RatingBefore, &c.RatingAfter, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
