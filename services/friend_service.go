package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
)

type FriendService interface {
	Follow(ctx context.Context, followerID, followingID int) (*models.FriendConnection, error)
	Unfollow(ctx context.Context, followerID, followingID int) error
	Following(ctx context.Context, playerID int) ([]int, error)
	Followers(ctx context.Context, playerID int) ([]int, error)
}

type friendService struct {
	friendRepo repositories.FriendRepository
	playerRepo repositories.PlayerRepository
}

func NewFriendService(friendRepo repositories.FriendRepository, playerRepo repositories.PlayerRepository) FriendService {
	return &friendService{
		friendRepo: friendRepo,
		playerRepo: playerRepo,
	}
}

func (s *friendService) Follow(ctx context.Context, followerID, followingID int) (*models.FriendConnection, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}
	if _, err := s.playerRepo.GetByID(ctx, nil, followingID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check followed player: %w", err)
	}

	conn := &models.FriendConnection{FollowerID: followerID, FollowingID: followingID}
	if err := s.friendRepo.Create(ctx, conn); err != nil {
		switch {
		case errors.Is(err, repositories.ErrFriendConnectionExists):
			return nil, ErrAlreadyFollowing
		case errors.Is(err, repositories.ErrFriendPlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return conn, nil
}

func (s *friendService) Unfollow(ctx context.Context, followerID, followingID int) error {
	err := s.friendRepo.Delete(ctx, followerID, followingID)
	if errors.Is(err, repositories.ErrFriendConnectionNotFound) {
		return ErrNotFollowing
	}
	return err
}

func (s *friendService) Following(ctx context.Context, playerID int) ([]int, error) {
	return s.friendRepo.ListFollowing(ctx, playerID)
}

func (s *friendService) Followers(ctx context.Context, playerID int) ([]int, error) {
	return s.friendRepo.ListFollowers(ctx, playerID)
}
