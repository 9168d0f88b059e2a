package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mabood2003/FairPlay/elo"
	"github.com/mabood2003/FairPlay/models"
)

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID int    `json:"player_id"`
	Rating   int    `json:"rating"`
	Tier     string `json:"tier"`
}

// LeaderboardService keeps a per-sport sorted set of ratings in redis. It is
// a denormalized mirror of player_ratings, refreshed at every rating commit.
type LeaderboardService interface {
	LeaderboardUpdater
	Top(ctx context.Context, sport models.Sport, limit int) ([]LeaderboardEntry, error)
}

type redisLeaderboardService struct {
	client *redis.Client
}

func NewRedisLeaderboardService(client *redis.Client) LeaderboardService {
	return &redisLeaderboardService{client: client}
}

func leaderboardKey(sport models.Sport) string {
	return fmt.Sprintf("fairplay:leaderboard:%s", sport)
}

func (s *redisLeaderboardService) RecordRatings(ctx context.Context, sport models.Sport, ratings map[int]int) error {
	if len(ratings) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(ratings))
	for playerID, rating := range ratings {
		members = append(members, redis.Z{
			Score:  float64(rating),
			Member: strconv.Itoa(playerID),
		})
	}
	if err := s.client.ZAdd(ctx, leaderboardKey(sport), members...).Err(); err != nil {
		return fmt.Errorf("failed to record %s leaderboard ratings: %w", sport, err)
	}
	return nil
}

func (s *redisLeaderboardService) Top(ctx context.Context, sport models.Sport, limit int) ([]LeaderboardEntry, error) {
	if !sport.Valid() {
		return nil, ErrInvalidSport
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	zs, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(sport), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s leaderboard: %w", sport, err)
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		playerID, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		rating := int(z.Score)
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: playerID,
			Rating:   rating,
			Tier:     elo.Tier(rating),
		})
	}
	return entries, nil
}
