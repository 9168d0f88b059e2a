package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mabood2003/FairPlay/elo"
	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
	"github.com/mabood2003/FairPlay/storage"
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var ErrUnsupportedAvatarType = errors.New("avatar must be a jpeg, png or webp image")

// PlayerProfile is a player plus derived display fields.
type PlayerProfile struct {
	Player *models.Player          `json:"player"`
	Tiers  map[models.Sport]string `json:"tiers"`
}

type UpdateProfileInput struct {
	Name string `json:"name"`
}

type PlayerService interface {
	GetProfile(ctx context.Context, playerID int) (*PlayerProfile, error)
	UpdateProfile(ctx context.Context, playerID int, input UpdateProfileInput) (*models.Player, error)
	UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

func (s *playerService) GetProfile(ctx context.Context, playerID int) (*PlayerProfile, error) {
	player, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	player.PasswordHash = ""
	s.fillAvatarURL(player)

	tiers := make(map[models.Sport]string)
	for _, sport := range []models.Sport{models.SportBasketball, models.SportSoccer} {
		tiers[sport] = elo.Tier(player.Rating(sport))
	}
	return &PlayerProfile{Player: player, Tiers: tiers}, nil
}

func (s *playerService) UpdateProfile(ctx context.Context, playerID int, input UpdateProfileInput) (*models.Player, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	player, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	player.Name = input.Name
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	player.PasswordHash = ""
	s.fillAvatarURL(player)
	return player, nil
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID int, contentType string, file io.Reader) (*models.Player, error) {
	if s.uploader == nil {
		return nil, errors.New("avatar storage is not configured")
	}
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedAvatarType
	}
	player, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%d.%s", playerID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	// Remove the previous object when the extension changed. A failed delete
	// only orphans the old object; the new avatar is already in place.
	if player.AvatarKey != nil && *player.AvatarKey != key {
		_ = s.uploader.Delete(ctx, *player.AvatarKey)
	}

	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &key); err != nil {
		return nil, fmt.Errorf("failed to persist avatar key: %w", err)
	}
	player.AvatarKey = &key
	player.PasswordHash = ""
	s.fillAvatarURL(player)
	return player, nil
}

func (s *playerService) getPlayer(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) fillAvatarURL(p *models.Player) {
	if s.uploader == nil || p.AvatarKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*p.AvatarKey)
	p.AvatarURL = &url
}
