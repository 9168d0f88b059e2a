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
	ErrFriendConnectionNotFound = errors.New("friend connection not found")
	ErrFriendConnectionExists   = errors.New("friend connection already exists")
	ErrFriendPlayerInvalid      = errors.New("friend connection references unknown player")
)

type FriendRepository interface {
	Create(ctx context.Context, conn *models.FriendConnection) error
	Delete(ctx context.Context, followerID, followingID int) error
	ListFollowing(ctx context.Context, playerID int) ([]int, error)
	ListFollowers(ctx context.Context, playerID int) ([]int, error)
}

type postgresFriendRepository struct {
	db *sql.DB
}

func NewPostgresFriendRepository(db *sql.DB) FriendRepository {
	return &postgresFriendRepository{db: db}
}

func (r *postgresFriendRepository) Create(ctx context.Context, conn *models.FriendConnection) error {
	query := `
		INSERT INTO friend_connections (follower_id, following_id)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, conn.FollowerID, conn.FollowingID).Scan(&conn.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrFriendConnectionExists
			case "23503":
				return ErrFriendPlayerInvalid
			}
		}
		return fmt.Errorf("failed to create friend connection: %w", err)
	}
	return nil
}

func (r *postgresFriendRepository) Delete(ctx context.Context, followerID, followingID int) error {
	query := `DELETE FROM friend_connections WHERE follower_id = $1 AND following_id = $2`
	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete friend connection: %w", err)
	}
	return checkAffectedRows(result, ErrFriendConnectionNotFound)
}

func (r *postgresFriendRepository) ListFollowing(ctx context.Context, playerID int) ([]int, error) {
	return r.listIDs(ctx,
		`SELECT following_id FROM friend_connections WHERE follower_id = $1 ORDER BY created_at DESC`,
		playerID)
}

func (r *postgresFriendRepository) ListFollowers(ctx context.Context, playerID int) ([]int, error) {
	return r.listIDs(ctx,
		`SELECT follower_id FROM friend_connections WHERE following_id = $1 ORDER BY created_at DESC`,
		playerID)
}

func (r *postgresFriendRepository) listIDs(ctx context.Context, query string, playerID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend connections: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend connection: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
