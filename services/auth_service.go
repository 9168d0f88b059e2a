package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
	"github.com/mabood2003/FairPlay/utils"
)

const minPasswordLength = 8

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Player, string, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Player, string, error)
}

type authService struct {
	playerRepo repositories.PlayerRepository
	jwtSecret  []byte
}

func NewAuthService(playerRepo repositories.PlayerRepository, jwtSecret string) AuthService {
	return &authService{
		playerRepo: playerRepo,
		jwtSecret:  []byte(jwtSecret),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Player, string, error) {
	if input.Name == "" || input.Email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	player := &models.Player{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create player: %w", err)
	}

	token, err := utils.GenerateJWT(player.ID, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	player.PasswordHash = ""
	return player, token, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*models.Player, string, error) {
	player, err := s.playerRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up player: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := utils.GenerateJWT(player.ID, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	player.PasswordHash = ""
	return player, token, nil
}
