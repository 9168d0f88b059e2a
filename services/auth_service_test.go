package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mabood2003/FairPlay/models"
	"github.com/mabood2003/FairPlay/repositories"
	"github.com/mabood2003/FairPlay/utils"
)

const testJWTSecret = "test-secret-key"

type authPlayerRepo struct {
	stubPlayerRepo
	byEmail map[string]*models.Player
	nextID  int
}

func newAuthPlayerRepo() *authPlayerRepo {
	return &authPlayerRepo{
		stubPlayerRepo: *newStubPlayerRepo(),
		byEmail:        make(map[string]*models.Player),
		nextID:         1,
	}
}

func (r *authPlayerRepo) Create(_ context.Context, player *models.Player) error {
	if _, exists := r.byEmail[player.Email]; exists {
		return repositories.ErrPlayerEmailConflict
	}
	player.ID = r.nextID
	r.nextID++
	player.Reliability = models.DefaultReliability
	stored := *player
	r.byEmail[player.Email] = &stored
	r.players[player.ID] = &stored
	return nil
}

func (r *authPlayerRepo) GetByEmail(_ context.Context, email string) (*models.Player, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	clone := *p
	return &clone, nil
}

func TestRegister(t *testing.T) {
	repo := newAuthPlayerRepo()
	svc := NewAuthService(repo, testJWTSecret)

	player, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if player.ID == 0 {
		t.Fatal("registered player has no ID")
	}
	if player.PasswordHash != "" {
		t.Fatal("password hash leaked in the response")
	}

	// The issued token must round-trip through the parser.
	id, err := utils.ParsePlayerID(token, []byte(testJWTSecret))
	if err != nil {
		t.Fatalf("ParsePlayerID() error = %v", err)
	}
	if id != player.ID {
		t.Fatalf("token player id = %d, want %d", id, player.ID)
	}

	// The stored hash must verify against the original password.
	stored := repo.byEmail["jordan@example.com"]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "longenough"}, ErrValidationFailed},
		{"missing email", RegisterInput{Name: "A", Password: "longenough"}, ErrValidationFailed},
		{"short password", RegisterInput{Name: "A", Email: "a@b.c", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(newAuthPlayerRepo(), testJWTSecret)
			if _, _, err := svc.Register(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newAuthPlayerRepo()
	svc := NewAuthService(repo, testJWTSecret)
	input := RegisterInput{Name: "Jordan", Email: "jordan@example.com", Password: "hunter2hunter2"}

	if _, _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second Register() error = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newAuthPlayerRepo()
	svc := NewAuthService(repo, testJWTSecret)
	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Jordan", Email: "jordan@example.com", Password: "hunter2hunter2",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		player, token, err := svc.Login(context.Background(), models.Credentials{
			Email: "jordan@example.com", Password: "hunter2hunter2",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if token == "" || player.PasswordHash != "" {
			t.Fatalf("login response: token=%q hash=%q", token, player.PasswordHash)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), models.Credentials{
			Email: "jordan@example.com", Password: "wrong-password",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), models.Credentials{
			Email: "nobody@example.com", Password: "hunter2hunter2",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})
}
