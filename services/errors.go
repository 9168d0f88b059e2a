package services

import (
	"errors"
	"fmt"

	"github.com/mabood2003/FairPlay/geo"
)

// Errors shared across services and mapped to HTTP statuses in handlers.
var (
	// Missing resources
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrStartTimeNotFuture  = errors.New("game start time must be in the future")
	ErrMaxPlayersTooLow    = errors.New("game needs room for at least two players")
	ErrInvalidSport        = errors.New("unknown sport")
	ErrInvalidSkillLevel   = errors.New("unknown skill level")
	ErrInvalidDuration     = errors.New("game duration must be positive")
	ErrInvalidCoordinates  = errors.New("location coordinates out of range")
	ErrInvalidTeams        = errors.New("teams must be disjoint, non-empty subsets of joined players")
	ErrNegativeScore       = errors.New("scores must be non-negative")
	ErrPositionUnavailable = errors.New("device position unavailable")

	// State machine
	ErrGameNotOpen        = errors.New("game is not open")
	ErrGameNotInProgress  = errors.New("game is not in progress")
	ErrResultsNotPending  = errors.New("game has no results awaiting confirmation")
	ErrGameAlreadyClosed  = errors.New("game is already completed or cancelled")
	ErrAlreadyJoined      = errors.New("player already joined this game")
	ErrAlreadyCheckedIn   = errors.New("player already checked in")
	ErrAlreadyConfirmed   = errors.New("player already confirmed these results")
	ErrNotJoined          = errors.New("player has not joined this game")
	ErrNotParticipant     = errors.New("player is not listed in the submitted results")
	ErrNoPlayersCheckedIn = errors.New("cannot start a game with nobody checked in")

	// Authorization
	ErrHostOnly        = errors.New("only the host can perform this action")
	ErrHostCannotLeave = errors.New("the host cannot leave their own game; cancel it instead")

	// Capacity and eligibility
	ErrGameFull     = errors.New("game is full")
	ErrRatingTooLow = errors.New("player rating below the game's minimum")

	// Check-in window
	ErrOutsideCheckInWindow = errors.New("outside the check-in window")
	ErrWindowNotOpen        = errors.New("check-in window has not opened yet")

	// Concurrency
	ErrTransactionConflict = errors.New("results were already finalized by a concurrent confirmation")

	// Friend graph
	ErrSelfFollow       = errors.New("players cannot follow themselves")
	ErrAlreadyFollowing = errors.New("already following this player")
	ErrNotFollowing     = errors.New("not following this player")

	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort   = errors.New("password is too short")
)

// GeofenceError reports a check-in attempt outside the allowed radius,
// carrying the measured distance for user-facing messaging.
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("outside check-in radius: %s from the game location (allowed %s)",
		geo.FormatDistance(e.DistanceMeters), geo.FormatDistance(e.RadiusMeters))
}
