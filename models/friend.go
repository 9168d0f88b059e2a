package models

import "time"

// FriendConnection is a directed follow edge. The pair (follower, following)
// is unique and self-loops are rejected before persistence.
type FriendConnection struct {
	FollowerID  int       `json:"follower_id"`
	FollowingID int       `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
